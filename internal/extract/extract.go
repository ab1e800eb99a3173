// Package extract converts Python source files into structural metadata
// records using tree-sitter.
package extract

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/docaudit/internal/lang"
	"github.com/phobologic/docaudit/internal/model"
)

// Options controls the subtree walks.
type Options struct {
	// IncludeNested descends into nested def and class scopes when
	// computing complexity, nesting depth, and raised exceptions. This
	// matches the historical heuristic; set false for a strictly scoped
	// variant.
	IncludeNested bool
}

// DefaultOptions returns the default extraction options.
func DefaultOptions() Options {
	return Options{IncludeNested: true}
}

// ParseFile reads and parses one Python file. Failures never escape: read
// and parse problems are recorded in the returned record's ParsingErrors.
func ParseFile(path string) model.FileRecord {
	return ParseFileWithOptions(path, DefaultOptions())
}

// ParseFileWithOptions is ParseFile with explicit walk options.
func ParseFileWithOptions(path string, opts Options) model.FileRecord {
	source, err := os.ReadFile(path)
	if err != nil {
		rec := emptyRecord(path)
		rec.ParsingErrors = append(rec.ParsingErrors, fmt.Sprintf("Error: %v", err))
		return rec
	}
	return ParseSourceWithOptions(source, path, opts)
}

// ParseSource parses Python source text into a FileRecord.
func ParseSource(source []byte, path string) model.FileRecord {
	return ParseSourceWithOptions(source, path, DefaultOptions())
}

// ParseSourceWithOptions parses source text with explicit walk options. On a
// syntax error the record carries a single "SyntaxError at line <n>: <msg>"
// entry and empty collections; no partial recovery is attempted.
func ParseSourceWithOptions(source []byte, path string, opts Options) model.FileRecord {
	rec := emptyRecord(path)

	parser := lang.NewParser()
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		rec.ParsingErrors = append(rec.ParsingErrors, fmt.Sprintf("Error: %v", err))
		return rec
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		line, detail := firstSyntaxError(root, source)
		rec.ParsingErrors = append(rec.ParsingErrors,
			fmt.Sprintf("SyntaxError at line %d: %s", line, detail))
		return rec
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := definitionNode(root.NamedChild(i))
		switch node.Type() {
		case "function_definition":
			rec.Functions = append(rec.Functions, convertFunction(node, source, opts))
		case "class_definition":
			rec.Classes = append(rec.Classes, convertClass(node, source, opts))
		}
	}
	rec.Imports = collectImports(root, source)

	return rec
}

func emptyRecord(path string) model.FileRecord {
	return model.FileRecord{
		FilePath:      path,
		Imports:       []string{},
		ParsingErrors: []string{},
		Functions:     []model.FunctionRecord{},
		Classes:       []model.ClassRecord{},
	}
}

// definitionNode unwraps a decorated_definition to the def or class inside.
func definitionNode(node *sitter.Node) *sitter.Node {
	if node.Type() == "decorated_definition" {
		if def := node.ChildByFieldName("definition"); def != nil {
			return def
		}
	}
	return node
}

// firstSyntaxError locates the first ERROR or missing node and reports its
// 1-indexed line together with a short description.
func firstSyntaxError(node *sitter.Node, source []byte) (int, string) {
	if node.IsMissing() {
		return lang.StartLine(node), fmt.Sprintf("missing %s", node.Type())
	}
	if node.Type() == "ERROR" {
		return lang.StartLine(node), "invalid syntax"
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if !child.HasError() && !child.IsMissing() {
			continue
		}
		return firstSyntaxError(child, source)
	}
	return lang.StartLine(node), "invalid syntax"
}

func convertFunction(fn *sitter.Node, source []byte, opts Options) model.FunctionRecord {
	var name string
	if n := fn.ChildByFieldName("name"); n != nil {
		name = lang.NodeText(n, source)
	}

	args, defaults := convertParameters(fn.ChildByFieldName("parameters"), source)
	doc, has := docstringOf(fn.ChildByFieldName("body"), source)

	return model.FunctionRecord{
		Name:         name,
		Args:         args,
		Defaults:     defaults,
		Returns:      RenderPtr(fn.ChildByFieldName("return_type"), source),
		StartLine:    lang.StartLine(fn),
		EndLine:      lang.EndLine(fn),
		Complexity:   complexityOf(fn, opts),
		NestingDepth: nestingDepthOf(fn, opts),
		HasDocstring: has,
		Docstring:    doc,
		Raises:       raisedExceptions(fn, source, opts),
	}
}

func convertClass(cls *sitter.Node, source []byte, opts Options) model.ClassRecord {
	var name string
	if n := cls.ChildByFieldName("name"); n != nil {
		name = lang.NodeText(n, source)
	}

	body := cls.ChildByFieldName("body")
	doc, has := docstringOf(body, source)

	methods := []model.FunctionRecord{}
	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			node := definitionNode(body.NamedChild(i))
			if node.Type() == "function_definition" {
				methods = append(methods, convertFunction(node, source, opts))
			}
		}
	}

	return model.ClassRecord{
		Name:         name,
		Methods:      methods,
		StartLine:    lang.StartLine(cls),
		EndLine:      lang.EndLine(cls),
		HasDocstring: has,
		Docstring:    doc,
	}
}

// convertParameters walks a parameters node collecting named positional
// parameters and their defaults. Splat parameters (*args, **kwargs) and bare
// separators are not part of the positional list. Default indices align to
// the trailing parameters: arg_index = (len(args) - len(defaults)) + i.
func convertParameters(params *sitter.Node, source []byte) ([]model.ArgRecord, []model.DefaultRecord) {
	args := []model.ArgRecord{}
	values := []*string{}
	if params == nil {
		return args, []model.DefaultRecord{}
	}

	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "identifier":
			args = append(args, model.ArgRecord{Name: lang.NodeText(p, source)})
		case "typed_parameter":
			inner := p.NamedChild(0)
			if inner == nil || inner.Type() != "identifier" {
				continue // typed splat parameter
			}
			args = append(args, model.ArgRecord{
				Name:       lang.NodeText(inner, source),
				Annotation: RenderPtr(p.ChildByFieldName("type"), source),
			})
		case "default_parameter":
			n := p.ChildByFieldName("name")
			if n == nil || n.Type() != "identifier" {
				continue
			}
			args = append(args, model.ArgRecord{Name: lang.NodeText(n, source)})
			values = append(values, RenderPtr(p.ChildByFieldName("value"), source))
		case "typed_default_parameter":
			n := p.ChildByFieldName("name")
			if n == nil {
				continue
			}
			args = append(args, model.ArgRecord{
				Name:       lang.NodeText(n, source),
				Annotation: RenderPtr(p.ChildByFieldName("type"), source),
			})
			values = append(values, RenderPtr(p.ChildByFieldName("value"), source))
		}
	}

	defaults := []model.DefaultRecord{}
	for i, v := range values {
		defaults = append(defaults, model.DefaultRecord{
			ArgIndex: len(args) - len(values) + i,
			Value:    v,
		})
	}
	return args, defaults
}

// docstringOf reports whether the first statement of a body block is a bare
// string literal and, if so, returns the literal dedented and re-wrapped in
// triple double quotes.
func docstringOf(body *sitter.Node, source []byte) (*string, bool) {
	if body == nil {
		return nil, false
	}
	var first *sitter.Node
	for i := 0; i < int(body.NamedChildCount()); i++ {
		c := body.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		first = c
		break
	}
	if first == nil || first.Type() != "expression_statement" || first.NamedChildCount() != 1 {
		return nil, false
	}
	expr := first.NamedChild(0)
	if expr.Type() != "string" && expr.Type() != "concatenated_string" {
		return nil, false
	}

	text := stringLiteralValue(expr, source)
	doc := `"""` + "\n" + cleandoc(text) + "\n" + `"""`
	return &doc, true
}

// stringLiteralValue strips the quote prefix and delimiters from a string
// literal node. Escape sequences are left as written.
func stringLiteralValue(node *sitter.Node, source []byte) string {
	if node.Type() == "concatenated_string" {
		var parts []string
		for i := 0; i < int(node.NamedChildCount()); i++ {
			c := node.NamedChild(i)
			if c.Type() == "string" {
				parts = append(parts, stringLiteralValue(c, source))
			}
		}
		return strings.Join(parts, "")
	}

	text := lang.NodeText(node, source)
	text = strings.TrimLeft(text, "rRbBuUfF")
	for _, delim := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(text, delim) && strings.HasSuffix(text, delim) && len(text) >= 2*len(delim) {
			return text[len(delim) : len(text)-len(delim)]
		}
	}
	return text
}

// cleandoc removes leading whitespace from the first line, strips the
// indentation margin common to all later non-blank lines, and drops blank
// lines at both ends.
func cleandoc(s string) string {
	lines := strings.Split(s, "\n")

	margin := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}

	lines[0] = strings.TrimLeft(lines[0], " \t")
	if margin > 0 {
		for i, line := range lines[1:] {
			if len(line) >= margin {
				lines[i+1] = line[margin:]
			} else {
				lines[i+1] = strings.TrimLeft(line, " \t")
			}
		}
	}

	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

// walkSubtree calls visit for every named node below root, depth first.
// Nested def and class subtrees are skipped unless opts.IncludeNested is set.
func walkSubtree(root *sitter.Node, opts Options, visit func(n *sitter.Node)) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			t := c.Type()
			if !opts.IncludeNested && (t == "function_definition" || t == "class_definition") {
				continue
			}
			visit(c)
			walk(c)
		}
	}
	walk(root)
}

// complexityOf computes the McCabe-like heuristic: 1 plus one per
// conditional, loop, exception handler, and context manager, plus one per
// extra operand of each boolean expression.
func complexityOf(fn *sitter.Node, opts Options) int {
	complexity := 1
	walkSubtree(fn, opts, func(n *sitter.Node) {
		switch n.Type() {
		case "if_statement", "elif_clause", "for_statement", "while_statement",
			"except_clause", "with_statement":
			complexity++
		case "boolean_operator":
			// Chained and/or nests one boolean_operator per extra operand.
			complexity++
		}
	})
	return complexity
}

// nestingDepthOf computes the maximum lexical depth of branch, loop,
// exception, and context blocks inside the function body.
func nestingDepthOf(fn *sitter.Node, opts Options) int {
	var depth func(n *sitter.Node, current int) int
	depth = func(n *sitter.Node, current int) int {
		switch n.Type() {
		case "if_statement", "elif_clause", "for_statement", "while_statement",
			"with_statement", "try_statement":
			current++
		}
		max := current
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			t := c.Type()
			if !opts.IncludeNested && (t == "function_definition" || t == "class_definition") {
				continue
			}
			if d := depth(c, current); d > max {
				max = d
			}
		}
		return max
	}
	return depth(fn, 0)
}

// raisedExceptions collects the exception names explicitly raised in the
// function subtree: the callee name of a raised call, or a bare identifier
// on a re-raise. A bare `raise` contributes nothing. The result is
// deduplicated and sorted.
func raisedExceptions(fn *sitter.Node, source []byte, opts Options) []string {
	seen := map[string]struct{}{}
	walkSubtree(fn, opts, func(n *sitter.Node) {
		if n.Type() != "raise_statement" {
			return
		}
		exc := n.NamedChild(0)
		if exc == nil {
			return
		}
		switch exc.Type() {
		case "call":
			callee := exc.ChildByFieldName("function")
			if callee == nil {
				return
			}
			switch callee.Type() {
			case "identifier":
				seen[lang.NodeText(callee, source)] = struct{}{}
			case "attribute":
				if attr := callee.ChildByFieldName("attribute"); attr != nil {
					seen[lang.NodeText(attr, source)] = struct{}{}
				}
			}
		case "identifier":
			seen[lang.NodeText(exc, source)] = struct{}{}
		}
	})

	raises := make([]string, 0, len(seen))
	for name := range seen {
		raises = append(raises, name)
	}
	sort.Strings(raises)
	return raises
}

// collectImports renders every import statement anywhere in the file as a
// canonical string. The module part of a relative import is reported without
// its leading dots, so a relative-only import has an empty module.
func collectImports(root *sitter.Node, source []byte) []string {
	imports := []string{}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "import_statement":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				if s := importedName(n.NamedChild(i), source); s != "" {
					imports = append(imports, "import "+s)
				}
			}
		case "import_from_statement":
			module := ""
			moduleNode := n.ChildByFieldName("module_name")
			if moduleNode != nil {
				module = strings.TrimLeft(lang.NodeText(moduleNode, source), ".")
			}
			for i := 0; i < int(n.NamedChildCount()); i++ {
				c := n.NamedChild(i)
				if moduleNode != nil && c.StartByte() == moduleNode.StartByte() && c.EndByte() == moduleNode.EndByte() {
					continue
				}
				if c.Type() == "wildcard_import" {
					imports = append(imports, fmt.Sprintf("from %s import *", module))
					continue
				}
				if s := importedName(c, source); s != "" {
					imports = append(imports, fmt.Sprintf("from %s import %s", module, s))
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)
	return imports
}

// importedName renders a dotted_name or aliased_import child of an import
// statement, or "" for anything else.
func importedName(node *sitter.Node, source []byte) string {
	switch node.Type() {
	case "dotted_name":
		return lang.NodeText(node, source)
	case "aliased_import":
		name := node.ChildByFieldName("name")
		alias := node.ChildByFieldName("alias")
		if name == nil || alias == nil {
			return ""
		}
		return lang.NodeText(name, source) + " as " + lang.NodeText(alias, source)
	}
	return ""
}
