package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cametumbling/discovery-pipeline/internal/report"
)

var validateInput string

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "JSON output of a previous run.")
	validateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate --input <run.json>",
	Short: "Checks that every entry of a saved run carries the required fields.",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, problems, err := report.ValidateFile(validateInput)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(problems) > 0 {
			for _, p := range problems {
				fmt.Fprintln(out, p)
			}
			return fmt.Errorf("%d of %d entries are invalid", len(problems), count)
		}
		fmt.Fprintf(out, "OK: %d entries valid\n", count)
		return nil
	},
}
