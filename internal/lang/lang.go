// Package lang provides access to the tree-sitter Python grammar and small
// helpers for working with syntax nodes.
package lang

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// SourceExtension is the file extension of the analyzed language.
const SourceExtension = ".py"

var whitespaceRe = regexp.MustCompile(`\s+`)

// Python returns the tree-sitter Python language.
func Python() *sitter.Language {
	return python.GetLanguage()
}

// NewParser creates a fresh tree-sitter parser for Python.
// Each goroutine must use its own parser (not thread-safe).
func NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return p
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// StartLine returns the 1-indexed line a node starts on.
func StartLine(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

// EndLine returns the 1-indexed line a node ends on.
func EndLine(node *sitter.Node) int {
	return int(node.EndPoint().Row) + 1
}
