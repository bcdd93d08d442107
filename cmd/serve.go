package cmd

import (
	"attendtrack/internal/handlers"
	"attendtrack/internal/logger"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New("cmd").Function("serve")

		application, err := newApp()
		if err != nil {
			return err
		}
		defer application.Close()

		server := handlers.NewServer(application)

		errs := make(chan error, 1)
		go func() {
			errs <- server.Listen(fmt.Sprintf(":%d", application.Config.ServerPort))
		}()
		log.Info("Server started", "port", application.Config.ServerPort)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errs:
			return log.Err("server stopped", err)
		case sig := <-quit:
			log.Info("Shutting down", "signal", sig.String())
		}

		if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return log.Err("failed to shut down server", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
