package cmd

import (
	"attendtrack/config"
	"attendtrack/internal/app"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "attendtrack",
	Short: "Attendance import service",
	Long: `attendtrack ingests access-control exports (xlsx, xlsm, csv) into
attendance events, resolving badge holder names to employee identities.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $CONFIG_FILE or .env)")
}

func loadConfig() (config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.InitConfig()
}

func newApp() (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.NewWithConfig(cfg)
}
