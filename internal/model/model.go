// Package model defines core data structures for docaudit.
package model

// ArgRecord is a single positional parameter and its type annotation.
// Annotation is nil when the parameter is unannotated.
type ArgRecord struct {
	Name       string  `json:"name"`
	Annotation *string `json:"annotation"`
}

// DefaultRecord maps a default-value expression to the zero-based index of
// the parameter it belongs to. Defaults always align to the trailing
// parameters.
type DefaultRecord struct {
	ArgIndex int     `json:"arg_index"`
	Value    *string `json:"value"`
}

// FunctionRecord holds the extracted metadata for one function or method.
type FunctionRecord struct {
	Name         string          `json:"name"`
	Args         []ArgRecord     `json:"args"`
	Defaults     []DefaultRecord `json:"defaults"`
	Returns      *string         `json:"returns"`
	StartLine    int             `json:"start_line"` // 1-indexed
	EndLine      int             `json:"end_line"`
	Complexity   int             `json:"complexity"`    // >= 1
	NestingDepth int             `json:"nesting_depth"` // >= 0
	HasDocstring bool            `json:"has_docstring"`
	Docstring    *string         `json:"docstring"`
	Raises       []string        `json:"raises"` // unique, sorted

	// ClassName is attached by downstream consumers for methods; the
	// extractor and validator never set or require it.
	ClassName string `json:"class_name,omitempty"`
}

// ClassRecord holds the extracted metadata for one top-level class.
type ClassRecord struct {
	Name         string           `json:"name"`
	Methods      []FunctionRecord `json:"methods"`
	StartLine    int              `json:"start_line"`
	EndLine      int              `json:"end_line"`
	HasDocstring bool             `json:"has_docstring"`
	Docstring    *string          `json:"docstring"`
}

// FileRecord is the per-file extraction result. When ParsingErrors is
// non-empty the Functions, Classes, and Imports slices are empty: extraction
// short-circuits on parse failure.
type FileRecord struct {
	FilePath      string           `json:"file_path"`
	Imports       []string         `json:"imports"`
	ParsingErrors []string         `json:"parsing_errors"`
	Functions     []FunctionRecord `json:"functions"`
	Classes       []ClassRecord    `json:"classes"`
}

// Violation is one documentation-convention violation.
type Violation struct {
	Code    string `json:"code"`
	Line    int    `json:"line"`
	Message string `json:"message"`
	File    string `json:"file"`
}

// Str returns a pointer to s, for the nullable string fields above.
func Str(s string) *string {
	return &s
}
