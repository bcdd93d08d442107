package cmd

import (
	"attendtrack/internal/logger"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import an access-control export from disk",
	Example: `  attendtrack import january.xlsx
  attendtrack import export.csv --uploader 0190b7c2-...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New("cmd").Function("import")

		file, err := os.Open(args[0])
		if err != nil {
			return log.Err("failed to open file", err, "path", args[0])
		}
		defer file.Close()

		application, err := newApp()
		if err != nil {
			return err
		}
		defer application.Close()

		var uploader *string
		if id, _ := cmd.Flags().GetString("uploader"); id != "" {
			uploader = &id
		}

		result, err := application.ImportController.Import(cmd.Context(), filepath.Base(args[0]), file, uploader)
		if err != nil {
			return err
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("uploader", "", "identity id recorded as the uploader")
}
