package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/docaudit/internal/lang"
)

// Render returns the canonical source-text rendering of an expression
// subtree: the node's source text with whitespace runs collapsed. If
// rendering fails for any reason the node's S-expression debug form is
// returned instead; this function never fails the caller.
func Render(node *sitter.Node, source []byte) (out string) {
	if node == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			out = node.String()
		}
	}()
	return lang.CollapseWhitespace(lang.NodeText(node, source))
}

// RenderPtr is Render for nullable fields: nil in, nil out.
func RenderPtr(node *sitter.Node, source []byte) *string {
	if node == nil {
		return nil
	}
	s := Render(node, source)
	return &s
}
