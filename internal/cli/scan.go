package cli

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/phobologic/docaudit/internal/model"
	"github.com/phobologic/docaudit/internal/report"
	"github.com/phobologic/docaudit/internal/scan"
)

var scanOut string

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Extract structural records from Python files",
	Long: `Scan a file or directory and extract per-file structural records:
functions, classes, methods, arguments, complexity, docstrings, and imports.

Examples:
  docaudit scan .                          # Scan current directory
  docaudit scan src/ --out records.json    # Write records to a file`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanOut, "out", "", "output JSON file path (default stdout)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	records, err := scanWithProgress(targetPath(args), "Scanning")
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "no Python files found")
		return nil
	}

	out := map[string][]model.FileRecord{"parsed_results": records}
	if scanOut != "" {
		if err := report.WriteJSON(out, scanOut); err != nil {
			return err
		}
		fmt.Printf("Report saved at: %s\n", scanOut)
		return nil
	}
	return report.Encode(out, os.Stdout)
}

// scanWithProgress runs a scan with a progress bar on stderr.
func scanWithProgress(path, description string) ([]model.FileRecord, error) {
	opts := scanOptions()

	var bar *progressbar.ProgressBar
	opts.Progress = func(done, total int, file string) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription(description),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}
		_ = bar.Add(1)
	}

	return scan.Scan(path, opts)
}
