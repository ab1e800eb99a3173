package cli

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/phobologic/docaudit/internal/convention"
	"github.com/phobologic/docaudit/internal/report"
)

var (
	validateOut    string
	validateStrict bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check documentation conventions",
	Long: `Scan a file or directory and validate every public function, method, and
class against the documentation convention rule set (D1xx/D2xx/D3xx/D4xx).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateOut, "out", "", "output JSON file path (default stdout)")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "exit non-zero when violations are found")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	records, err := scanWithProgress(targetPath(args), "Scanning")
	if err != nil {
		return err
	}

	rep := convention.ValidateProject(records)

	if validateOut != "" {
		if err := report.WriteJSON(rep, validateOut); err != nil {
			return err
		}
		fmt.Printf("Validation report saved at: %s\n", validateOut)
	} else if err := report.Encode(rep, os.Stdout); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%d violation(s), %.2f%% compliant (%d/%d items)\n",
		rep.TotalViolations, rep.CompliancePercentage,
		rep.CompliantItems, rep.TotalItems)

	if validateStrict && rep.TotalViolations > 0 {
		return errors.Newf("found %d convention violation(s)", rep.TotalViolations)
	}
	return nil
}
