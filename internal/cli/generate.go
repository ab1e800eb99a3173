package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/phobologic/docaudit/internal/docgen"
	"github.com/phobologic/docaudit/internal/session"
)

var (
	generateStyle string
	generateDB    string
	generateAll   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Generate template docstring suggestions",
	Long: `Scan a file or directory and store template docstring suggestions for
public functions, methods, and classes in the session database, where they
await human review. By default only undocumented entities get a suggestion;
--all regenerates for documented ones too.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateStyle, "style", "", "docstring style: google, numpy, or rest (default from config)")
	generateCmd.Flags().StringVar(&generateDB, "db", "", "session database path (default from config)")
	generateCmd.Flags().BoolVar(&generateAll, "all", false, "also generate for entities that already have a docstring")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	records, err := scanWithProgress(targetPath(args), "Generating")
	if err != nil {
		return err
	}

	style := docgen.ParseStyle(generateStyle)
	if generateStyle == "" {
		style = docgen.ParseStyle(cfg.Generate.Style)
	}
	dbPath := generateDB
	if dbPath == "" {
		dbPath = cfg.Generate.DBPath
	}

	store, err := session.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var gen docgen.Generator = docgen.Template{}
	count := 0
	now := time.Now()

	put := func(filePath, qualifiedName, kind, doc string) error {
		count++
		return store.Put(session.Suggestion{
			FilePath:      filePath,
			QualifiedName: qualifiedName,
			Kind:          kind,
			Style:         string(style),
			Docstring:     doc,
			CreatedAt:     now,
		})
	}

	for _, rec := range records {
		for _, fn := range rec.Functions {
			if skipEntity(fn.Name, fn.HasDocstring) {
				continue
			}
			doc, err := gen.Function(fn, style)
			if err != nil {
				return err
			}
			if err := put(rec.FilePath, fn.Name, "function", doc); err != nil {
				return err
			}
		}
		for _, cls := range rec.Classes {
			if !skipEntity(cls.Name, cls.HasDocstring) {
				doc, err := gen.Class(cls, style)
				if err != nil {
					return err
				}
				if err := put(rec.FilePath, cls.Name, "class", doc); err != nil {
					return err
				}
			}
			for _, m := range cls.Methods {
				if skipEntity(m.Name, m.HasDocstring) {
					continue
				}
				doc, err := gen.Function(m, style)
				if err != nil {
					return err
				}
				if err := put(rec.FilePath, cls.Name+"."+m.Name, "method", doc); err != nil {
					return err
				}
			}
		}
	}

	fmt.Printf("Stored %d %s-style suggestion(s) in %s\n", count, style, dbPath)
	return nil
}

// skipEntity mirrors the validator's privacy rule and honors --all.
func skipEntity(name string, hasDocstring bool) bool {
	if isPrivateName(name) {
		return true
	}
	return hasDocstring && !generateAll
}

func isPrivateName(name string) bool {
	if len(name) == 0 {
		return false
	}
	return name[0] == '_' && !(len(name) > 1 && name[1] == '_')
}
