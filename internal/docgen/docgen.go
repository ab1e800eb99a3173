// Package docgen renders docstring suggestions from extracted records.
//
// The Template generator is deterministic; an LLM-backed generator plugs in
// from outside through the Generator interface and its output is stored
// verbatim, never interpreted.
package docgen

import (
	"fmt"
	"strings"

	"github.com/phobologic/docaudit/internal/model"
)

// Style selects the documentation convention to render.
type Style string

const (
	Google Style = "google"
	NumPy  Style = "numpy"
	ReST   Style = "rest"
)

// Styles lists every supported style.
var Styles = []Style{Google, NumPy, ReST}

// ParseStyle maps a string to a Style, defaulting to Google.
func ParseStyle(s string) Style {
	switch Style(strings.ToLower(s)) {
	case NumPy:
		return NumPy
	case ReST:
		return ReST
	default:
		return Google
	}
}

// Generator produces complete, already-delimited docstring text for a
// function or class record.
type Generator interface {
	Function(fn model.FunctionRecord, style Style) (string, error)
	Class(cls model.ClassRecord, style Style) (string, error)
}

// Template is the deterministic, template-based Generator.
type Template struct{}

var _ Generator = Template{}

// Function renders a skeleton docstring for a function in the given style.
// The self and cls parameters are excluded.
func (Template) Function(fn model.FunctionRecord, style Style) (string, error) {
	args := filterArgs(fn.Args)
	returns := ""
	if fn.Returns != nil && *fn.Returns != "None" {
		returns = *fn.Returns
	}

	lines := []string{`"""`, fmt.Sprintf("Short description of `%s`.", fn.Name)}
	if len(args) > 0 || returns != "" || len(fn.Raises) > 0 {
		lines = append(lines, "")
	}

	switch style {
	case NumPy:
		lines = append(lines, numpySections(args, returns, fn.Raises)...)
	case ReST:
		lines = append(lines, restSections(args, returns, fn.Raises)...)
	default:
		lines = append(lines, googleSections(args, returns, fn.Raises)...)
	}

	lines = append(lines, `"""`)
	return strings.Join(lines, "\n"), nil
}

// Class renders a skeleton docstring for a class. Style only affects the
// attribute conventions, which the skeleton omits.
func (Template) Class(cls model.ClassRecord, style Style) (string, error) {
	lines := []string{
		`"""`,
		fmt.Sprintf("Class for %s.", cls.Name),
		"",
		fmt.Sprintf("This class provides functionality through %d method(s).", len(cls.Methods)),
		`"""`,
	}
	return strings.Join(lines, "\n"), nil
}

// AllStyles renders a function docstring in every supported style.
func AllStyles(g Generator, fn model.FunctionRecord) (map[Style]string, error) {
	out := make(map[Style]string, len(Styles))
	for _, style := range Styles {
		doc, err := g.Function(fn, style)
		if err != nil {
			return nil, err
		}
		out[style] = doc
	}
	return out, nil
}

func filterArgs(args []model.ArgRecord) []model.ArgRecord {
	kept := []model.ArgRecord{}
	for _, a := range args {
		if a.Name == "self" || a.Name == "cls" {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

func annotationOr(a model.ArgRecord, fallback string) string {
	if a.Annotation != nil {
		return *a.Annotation
	}
	return fallback
}

func googleSections(args []model.ArgRecord, returns string, raises []string) []string {
	var lines []string
	if len(args) > 0 {
		lines = append(lines, "Args:")
		for _, a := range args {
			label := a.Name
			if a.Annotation != nil {
				label = fmt.Sprintf("%s (%s)", a.Name, *a.Annotation)
			}
			lines = append(lines, fmt.Sprintf("    %s: Description of %s.", label, a.Name))
		}
	}
	if returns != "" {
		if len(args) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "Returns:", fmt.Sprintf("    %s: Description of return value.", returns))
	}
	if len(raises) > 0 {
		if len(args) > 0 || returns != "" {
			lines = append(lines, "")
		}
		lines = append(lines, "Raises:")
		for _, exc := range raises {
			lines = append(lines, fmt.Sprintf("    %s: Description of when %s is raised.", exc, exc))
		}
	}
	return lines
}

func numpySections(args []model.ArgRecord, returns string, raises []string) []string {
	var lines []string
	if len(args) > 0 {
		lines = append(lines, "Parameters", "----------")
		for i, a := range args {
			lines = append(lines,
				fmt.Sprintf("%s : %s", a.Name, annotationOr(a, "TYPE")),
				fmt.Sprintf("    Description of %s.", a.Name))
			if i < len(args)-1 {
				lines = append(lines, "")
			}
		}
	}
	if returns != "" {
		if len(args) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "Returns", "-------", returns, "    Description of return value.")
	}
	if len(raises) > 0 {
		if len(args) > 0 || returns != "" {
			lines = append(lines, "")
		}
		lines = append(lines, "Raises", "------")
		for i, exc := range raises {
			lines = append(lines, exc, fmt.Sprintf("    Description of when %s is raised.", exc))
			if i < len(raises)-1 {
				lines = append(lines, "")
			}
		}
	}
	return lines
}

func restSections(args []model.ArgRecord, returns string, raises []string) []string {
	var lines []string
	for _, a := range args {
		lines = append(lines, fmt.Sprintf(":param %s %s: Description of %s.", annotationOr(a, "TYPE"), a.Name, a.Name))
	}
	if returns != "" {
		if len(args) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, ":returns: Description of return value.", fmt.Sprintf(":rtype: %s", returns))
	}
	if len(raises) > 0 {
		if len(args) > 0 || returns != "" {
			lines = append(lines, "")
		}
		for _, exc := range raises {
			lines = append(lines, fmt.Sprintf(":raises %s: Description of when %s is raised.", exc, exc))
		}
	}
	return lines
}
