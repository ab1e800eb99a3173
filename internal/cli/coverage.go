package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phobologic/docaudit/internal/coverage"
	"github.com/phobologic/docaudit/internal/report"
)

var coverageOut string

var coverageCmd = &cobra.Command{
	Use:   "coverage [path]",
	Short: "Compute parse-coverage statistics",
	Long: `Scan a file or directory and reduce the records into project-wide and
per-file parse coverage: the ratio of successfully parsed functions and
methods to all discovered ones.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCoverage,
}

func init() {
	coverageCmd.Flags().StringVar(&coverageOut, "out", "", "output JSON file path (default stdout)")
	rootCmd.AddCommand(coverageCmd)
}

func runCoverage(cmd *cobra.Command, args []string) error {
	records, err := scanWithProgress(targetPath(args), "Scanning")
	if err != nil {
		return err
	}

	rep := coverage.Compute(records)

	if coverageOut != "" {
		if err := report.WriteJSON(rep, coverageOut); err != nil {
			return err
		}
		fmt.Printf("Coverage report saved at: %s\n", coverageOut)
	} else if err := report.Encode(rep, os.Stdout); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%d/%d functions parsed (%.2f%%), %d parsing error(s)\n",
		rep.SuccessfullyParsed, rep.TotalFunctions,
		rep.OverallCoveragePercentage, rep.TotalParsingErrors)
	return nil
}
