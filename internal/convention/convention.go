// Package convention validates extracted records against a fixed
// documentation style rule set (PEP 257 subset).
package convention

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/phobologic/docaudit/internal/model"
)

// Report is the project-wide validation aggregate.
type Report struct {
	TotalViolations      int               `json:"total_violations"`
	Violations           []model.Violation `json:"violations"`
	TotalItems           int               `json:"total_items"`
	CompliantItems       int               `json:"compliant_items"`
	CompliancePercentage float64           `json:"compliance_percentage"`
	TotalFunctions       int               `json:"total_functions"`
	TotalClasses         int               `json:"total_classes"`
	CompliantFunctions   int               `json:"compliant_functions"`
	CompliantClasses     int               `json:"compliant_classes"`
}

// ValidateFile applies every check to one file's record. sourceLines may be
// nil, in which case the file is read from rec.FilePath; when the source is
// unavailable the position-sensitive checks (D201, D202) silently skip.
func ValidateFile(rec model.FileRecord, sourceLines []string) []model.Violation {
	if sourceLines == nil && rec.FilePath != "" {
		if data, err := os.ReadFile(rec.FilePath); err == nil {
			sourceLines = strings.Split(string(data), "\n")
		}
	}

	violations := []model.Violation{}
	for _, fn := range rec.Functions {
		violations = append(violations, validateFunction(fn, rec.FilePath, sourceLines, false, "")...)
	}
	for _, cls := range rec.Classes {
		violations = append(violations, validateClass(cls, rec.FilePath, sourceLines)...)
	}
	return violations
}

// ValidateProject validates every record and computes compliance metrics.
// All methods count toward total_functions regardless of their class's own
// documentation status; a private method is still skipped entirely.
func ValidateProject(records []model.FileRecord) Report {
	report := Report{Violations: []model.Violation{}}

	for _, rec := range records {
		report.Violations = append(report.Violations, ValidateFile(rec, nil)...)
	}

	for _, rec := range records {
		for _, fn := range rec.Functions {
			if isPrivate(fn.Name) {
				continue
			}
			report.TotalFunctions++
			if fn.HasDocstring {
				report.CompliantFunctions++
			}
		}
		for _, cls := range rec.Classes {
			if !isPrivate(cls.Name) {
				report.TotalClasses++
				if cls.HasDocstring {
					report.CompliantClasses++
				}
			}
			for _, m := range cls.Methods {
				if isPrivate(m.Name) {
					continue
				}
				report.TotalFunctions++
				if m.HasDocstring {
					report.CompliantFunctions++
				}
			}
		}
	}

	report.TotalItems = report.TotalFunctions + report.TotalClasses
	report.CompliantItems = report.CompliantFunctions + report.CompliantClasses
	report.TotalViolations = len(report.Violations)
	if report.TotalItems > 0 {
		rate := float64(report.CompliantItems) / float64(report.TotalItems) * 100
		report.CompliancePercentage = math.Round(rate*100) / 100
	}
	return report
}

// isPrivate reports whether a name is skipped entirely: a single leading
// underscore that is not a dunder.
func isPrivate(name string) bool {
	return strings.HasPrefix(name, "_") && !strings.HasPrefix(name, "__")
}

func qualified(className, name string) string {
	if className != "" {
		return className + "." + name
	}
	return name
}

func validateFunction(fn model.FunctionRecord, filePath string, lines []string, isMethod bool, className string) []model.Violation {
	if isPrivate(fn.Name) {
		return nil
	}
	location := qualified(className, fn.Name)

	if !fn.HasDocstring {
		code, kind := D103, "function"
		if isMethod {
			code, kind = D102, "method"
		}
		return []model.Violation{{
			Code:    string(code),
			Line:    fn.StartLine,
			Message: fmt.Sprintf("%s: Missing docstring in public %s %s", code, kind, location),
			File:    filePath,
		}}
	}

	violations := []model.Violation{}

	// D201: blank line between the def line and the docstring opening.
	if len(lines) > 0 && fn.StartLine > 0 && fn.StartLine < len(lines) {
		defIdx := fn.StartLine - 1
		if defIdx+1 < len(lines) && strings.TrimSpace(lines[defIdx+1]) == "" && defIdx+2 < len(lines) {
			following := strings.TrimSpace(lines[defIdx+2])
			if strings.HasPrefix(following, `"""`) || strings.HasPrefix(following, "'''") {
				violations = append(violations, model.Violation{
					Code:    string(D201),
					Line:    defIdx + 2,
					Message: fmt.Sprintf("D201: No blank lines allowed before function docstring in %s", location),
					File:    filePath,
				})
			}
		}
	}

	if fn.Docstring != nil {
		violations = append(violations, validateDocstringFormat(
			*fn.Docstring, fn.StartLine, filePath, lines, location, true)...)
	}
	return violations
}

// validateClass checks a class and its methods. A private class is skipped
// entirely, methods included; project metrics still count its public methods.
func validateClass(cls model.ClassRecord, filePath string, lines []string) []model.Violation {
	if isPrivate(cls.Name) {
		return nil
	}

	violations := []model.Violation{}
	if !cls.HasDocstring {
		violations = append(violations, model.Violation{
			Code:    string(D101),
			Line:    cls.StartLine,
			Message: fmt.Sprintf("D101: Missing docstring in public class %s", cls.Name),
			File:    filePath,
		})
	} else if cls.Docstring != nil {
		violations = append(violations, validateDocstringFormat(
			*cls.Docstring, cls.StartLine, filePath, lines, cls.Name, false)...)
	}

	for _, m := range cls.Methods {
		violations = append(violations, validateFunction(m, filePath, lines, true, cls.Name)...)
	}
	return violations
}

// validateDocstringFormat applies the content checks (D300, D200, D209,
// D205, D400, D402) and, for functions with source available, D202.
func validateDocstringFormat(docstring string, startLine int, filePath string, lines []string, location string, isFunction bool) []model.Violation {
	violations := []model.Violation{}
	add := func(code Code, line int, format string, args ...any) {
		violations = append(violations, model.Violation{
			Code:    string(code),
			Line:    line,
			Message: fmt.Sprintf(format, args...),
			File:    filePath,
		})
	}

	content := strings.TrimSpace(strings.Trim(strings.Trim(docstring, `"`), "'"))
	docLines := strings.Split(content, "\n")

	if !strings.HasPrefix(strings.TrimSpace(docstring), `"""`) {
		add(D300, startLine, "D300: Use triple double quotes for docstrings in %s", location)
	}

	nonBlank := 0
	for _, l := range docLines {
		if strings.TrimSpace(l) != "" {
			nonBlank++
		}
	}

	if nonBlank == 1 {
		if strings.Contains(content, "\n") {
			add(D200, startLine, "D200: One-line docstring should fit on one line in %s", location)
		}
	} else {
		trailing := strings.TrimRight(docstring, " \t\n")
		if !strings.HasSuffix(trailing, "\n\"\"\"") && !strings.HasSuffix(trailing, "\n'''") {
			add(D209, startLine, "D209: Multi-line docstring closing quotes should be on separate line in %s", location)
		}
		if len(docLines) > 2 && strings.TrimSpace(docLines[1]) != "" {
			add(D205, startLine+1, "D205: 1 blank line required between summary and description in %s", location)
		}
	}

	first := ""
	if len(docLines) > 0 {
		first = strings.TrimSpace(docLines[0])
	}
	if first != "" && !strings.HasSuffix(first, ".") && !strings.HasSuffix(first, "!") && !strings.HasSuffix(first, "?") {
		add(D400, startLine, "D400: First line should end with a period in %s", location)
	}
	if isFunction && first != "" && strings.Contains(first, "(") && strings.Contains(first, ")") {
		add(D402, startLine, "D402: First line should not be the function's signature in %s", location)
	}

	if isFunction && len(lines) > 0 {
		violations = append(violations, checkBlankLineAfterDocstring(
			lines, startLine, docstring, location, filePath)...)
	}
	return violations
}

// checkBlankLineAfterDocstring implements D202. The docstring is assumed to
// start on the line after the def line and to span exactly its stored line
// count; docstrings reformatted to a different line count misalign (a known
// heuristic fragility).
func checkBlankLineAfterDocstring(lines []string, startLine int, docstring, location, filePath string) []model.Violation {
	if len(lines) == 0 || startLine < 1 {
		return nil
	}

	defIdx := startLine - 1
	docStartIdx := defIdx + 1
	docEndIdx := docStartIdx + len(strings.Split(docstring, "\n")) - 1

	if docEndIdx+1 >= len(lines) {
		return nil
	}
	if strings.TrimSpace(lines[docEndIdx+1]) != "" {
		return nil
	}
	if docEndIdx+2 >= len(lines) {
		return nil
	}
	next := strings.TrimSpace(lines[docEndIdx+2])
	if next == "" || strings.HasPrefix(next, "def ") || strings.HasPrefix(next, "class ") {
		return nil
	}
	return []model.Violation{{
		Code:    string(D202),
		Line:    docEndIdx + 2,
		Message: fmt.Sprintf("D202: No blank lines allowed after function docstring in %s (found 1)", location),
		File:    filePath,
	}}
}
