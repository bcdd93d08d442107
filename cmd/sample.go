package cmd

import (
	"attendtrack/internal/logger"
	"attendtrack/internal/utils"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var sampleCmd = &cobra.Command{
	Use:   "sample OUTPUT",
	Short: "Write a synthetic access-control export",
	Long:  "Write a synthetic export in the layout produced by Parsec, as .xlsx or .csv depending on OUTPUT.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New("cmd").Function("sample")

		employees, _ := cmd.Flags().GetInt("employees")
		days, _ := cmd.Flags().GetInt("days")
		banner, _ := cmd.Flags().GetInt("banner")
		seed, _ := cmd.Flags().GetInt64("seed")

		generator := utils.NewSampleExportGenerator(&utils.SampleExportConfig{
			Employees:  employees,
			Days:       days,
			BannerRows: banner,
			Seed:       seed,
			Logger:     log,
		})

		output := args[0]
		extension := strings.ToLower(filepath.Ext(output))
		if extension != ".csv" && extension != ".xlsx" {
			return fmt.Errorf("unsupported output extension %q, use .csv or .xlsx", extension)
		}

		file, err := os.Create(output)
		if err != nil {
			return log.Err("failed to create output", err, "path", output)
		}
		defer file.Close()

		var stats utils.SampleStats
		if extension == ".csv" {
			stats, err = generator.WriteCSV(file)
		} else {
			stats, err = generator.WriteXLSX(file)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %s\n", output, stats)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().Int("employees", 10, "number of employees")
	sampleCmd.Flags().Int("days", 5, "number of days")
	sampleCmd.Flags().Int("banner", 2, "banner rows above the header")
	sampleCmd.Flags().Int64("seed", 1, "random seed")
}
