// Package cli implements the docaudit command line interface.
package cli

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/phobologic/docaudit/internal/config"
	"github.com/phobologic/docaudit/internal/logging"
	"github.com/phobologic/docaudit/internal/scan"
)

var (
	cfgFile string
	rootDir string
	shallow bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "docaudit",
	Short: "Analyze Python sources and audit their documentation",
	Long: `docaudit statically analyzes Python source trees, extracts structural
metadata (functions, classes, arguments, complexity, docstrings), computes
parse coverage, and validates documentation conventions.

Example usage:
  docaudit scan .                  # Extract structural records
  docaudit coverage src/           # Parse-coverage report
  docaudit validate src/ --strict  # PEP 257-style convention report
  docaudit generate src/           # Store template docstring suggestions`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return errors.Wrap(err, "get working directory")
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return errors.Wrap(err, "load config")
		}

		return logging.Initialize(cfg.Logging.Level)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./docaudit.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
	rootCmd.PersistentFlags().BoolVar(&shallow, "shallow", false, "do not descend into subdirectories")
}

// scanOptions builds walker options from the loaded config.
func scanOptions() scan.Options {
	opts := scan.DefaultOptions()
	opts.Recursive = cfg.Scan.Recursive
	opts.SkipDirs = cfg.Scan.SkipDirs
	opts.ExcludeGlobs = cfg.Scan.Excludes
	opts.UseGitignore = cfg.Scan.UseGitignore
	opts.Extract.IncludeNested = cfg.Scan.IncludeNested
	if shallow {
		opts.Recursive = false
	}
	return opts
}

// targetPath resolves the positional path argument, defaulting to rootDir.
func targetPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return rootDir
}
