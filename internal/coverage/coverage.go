// Package coverage reduces file records into parse-coverage statistics.
package coverage

import (
	"math"

	"github.com/phobologic/docaudit/internal/model"
)

// FileCoverage is the per-file breakdown inside a Report.
type FileCoverage struct {
	FilePath           string  `json:"file_path"`
	TotalFunctions     int     `json:"total_functions"`
	ParsedFunctions    int     `json:"parsed_functions"`
	ParsingErrors      int     `json:"parsing_errors"`
	CoveragePercentage float64 `json:"coverage_percentage"`
}

// Report is the project-wide coverage aggregate. It is fully derived from a
// FileRecord list and recomputable idempotently.
type Report struct {
	TotalFunctions            int            `json:"total_functions"`
	SuccessfullyParsed        int            `json:"successfully_parsed"`
	TotalParsingErrors        int            `json:"total_parsing_errors"`
	OverallCoveragePercentage float64        `json:"overall_coverage_percentage"`
	Files                     []FileCoverage `json:"files"`
}

// Compute aggregates coverage over a record list. A file with parsing errors
// contributes zero successfully parsed functions; its function and class
// collections are empty by construction, so its total is zero as well.
func Compute(records []model.FileRecord) Report {
	report := Report{Files: []FileCoverage{}}

	for _, rec := range records {
		total := len(rec.Functions)
		for _, cls := range rec.Classes {
			total += len(cls.Methods)
		}

		parsed := total
		if len(rec.ParsingErrors) > 0 {
			parsed = 0
			report.TotalParsingErrors += len(rec.ParsingErrors)
		}

		report.TotalFunctions += total
		report.SuccessfullyParsed += parsed

		report.Files = append(report.Files, FileCoverage{
			FilePath:           rec.FilePath,
			TotalFunctions:     total,
			ParsedFunctions:    parsed,
			ParsingErrors:      len(rec.ParsingErrors),
			CoveragePercentage: percentage(parsed, total),
		})
	}

	report.OverallCoveragePercentage = percentage(report.SuccessfullyParsed, report.TotalFunctions)
	return report
}

// percentage returns part/whole*100 rounded to 2 decimals, or 0 for an
// empty whole.
func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0.0
	}
	return math.Round(float64(part)/float64(whole)*100*100) / 100
}
