package extract

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseSimpleFunction(t *testing.T) {
	t.Parallel()
	rec := ParseSource([]byte("def add(a: int, b: int) -> int:\n    return a + b\n"), "test.py")

	if len(rec.ParsingErrors) != 0 {
		t.Fatalf("parsing errors: %v", rec.ParsingErrors)
	}
	if len(rec.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(rec.Functions))
	}
	fn := rec.Functions[0]
	if fn.Name != "add" {
		t.Errorf("name = %q, want add", fn.Name)
	}
	if len(fn.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(fn.Args))
	}
	if fn.Args[0].Name != "a" || fn.Args[0].Annotation == nil || *fn.Args[0].Annotation != "int" {
		t.Errorf("arg 0 = %+v, want a: int", fn.Args[0])
	}
	if fn.Returns == nil || *fn.Returns != "int" {
		t.Errorf("returns = %v, want int", fn.Returns)
	}
	if fn.Complexity != 1 {
		t.Errorf("complexity = %d, want 1", fn.Complexity)
	}
	if fn.NestingDepth != 0 {
		t.Errorf("nesting depth = %d, want 0", fn.NestingDepth)
	}
	if fn.HasDocstring {
		t.Error("has_docstring = true, want false")
	}
	if len(fn.Raises) != 0 {
		t.Errorf("raises = %v, want empty", fn.Raises)
	}
	if fn.StartLine != 1 || fn.EndLine < fn.StartLine {
		t.Errorf("lines = %d..%d", fn.StartLine, fn.EndLine)
	}
}

func TestComplexityNestingAndRaises(t *testing.T) {
	t.Parallel()
	source := "def f(x):\n" +
		"    if x < 0:\n" +
		"        raise ValueError(\"x\")\n" +
		"    return x\n"
	rec := ParseSource([]byte(source), "test.py")

	if len(rec.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(rec.Functions))
	}
	fn := rec.Functions[0]
	if fn.Complexity != 2 {
		t.Errorf("complexity = %d, want 2", fn.Complexity)
	}
	if fn.NestingDepth != 1 {
		t.Errorf("nesting depth = %d, want 1", fn.NestingDepth)
	}
	if !reflect.DeepEqual(fn.Raises, []string{"ValueError"}) {
		t.Errorf("raises = %v, want [ValueError]", fn.Raises)
	}
}

func TestComplexityCountsBranchConstructs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		source string
		want   int
	}{
		{"plain", "def f():\n    return 1\n", 1},
		{"loop", "def f(xs):\n    for x in xs:\n        pass\n", 2},
		{"while", "def f(x):\n    while x:\n        x -= 1\n", 2},
		{"except", "def f():\n    try:\n        pass\n    except ValueError:\n        pass\n    except KeyError:\n        pass\n", 3},
		{"with", "def f(p):\n    with open(p) as fh:\n        return fh.read()\n", 2},
		{"elif", "def f(x):\n    if x > 0:\n        return 1\n    elif x < 0:\n        return -1\n    return 0\n", 3},
		{"boolean", "def f(a, b, c):\n    if a and b and c:\n        return 1\n    return 0\n", 4},
		{"boolean_or", "def f(a, b):\n    return a or b\n", 2},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := ParseSource([]byte(tt.source), "test.py")
			if len(rec.Functions) != 1 {
				t.Fatalf("expected 1 function, got %d (errors %v)", len(rec.Functions), rec.ParsingErrors)
			}
			if got := rec.Functions[0].Complexity; got != tt.want {
				t.Errorf("complexity = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNestingDepth(t *testing.T) {
	t.Parallel()
	source := "def f(xs):\n" +
		"    for x in xs:\n" +
		"        if x:\n" +
		"            with open(x) as fh:\n" +
		"                fh.read()\n" +
		"    return None\n"
	rec := ParseSource([]byte(source), "test.py")
	if got := rec.Functions[0].NestingDepth; got != 3 {
		t.Errorf("nesting depth = %d, want 3", got)
	}
}

func TestNestedScopesIncludedByDefault(t *testing.T) {
	t.Parallel()
	source := "def outer():\n" +
		"    def inner(x):\n" +
		"        if x:\n" +
		"            raise KeyError(\"k\")\n" +
		"    return inner\n"

	rec := ParseSource([]byte(source), "test.py")
	if len(rec.Functions) != 1 {
		t.Fatalf("expected only outer as top-level, got %d", len(rec.Functions))
	}
	fn := rec.Functions[0]
	if fn.Complexity != 2 {
		t.Errorf("unscoped complexity = %d, want 2", fn.Complexity)
	}
	if !reflect.DeepEqual(fn.Raises, []string{"KeyError"}) {
		t.Errorf("unscoped raises = %v, want [KeyError]", fn.Raises)
	}

	scoped := ParseSourceWithOptions([]byte(source), "test.py", Options{IncludeNested: false})
	fn = scoped.Functions[0]
	if fn.Complexity != 1 {
		t.Errorf("scoped complexity = %d, want 1", fn.Complexity)
	}
	if len(fn.Raises) != 0 {
		t.Errorf("scoped raises = %v, want empty", fn.Raises)
	}
}

func TestDefaultsAlignToTrailingParameters(t *testing.T) {
	t.Parallel()
	rec := ParseSource([]byte("def f(a, b=1, c=\"x\"):\n    pass\n"), "test.py")
	fn := rec.Functions[0]

	if len(fn.Args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(fn.Args))
	}
	if len(fn.Defaults) != 2 {
		t.Fatalf("expected 2 defaults, got %d", len(fn.Defaults))
	}
	if fn.Defaults[0].ArgIndex != 1 || fn.Defaults[0].Value == nil || *fn.Defaults[0].Value != "1" {
		t.Errorf("default 0 = %+v", fn.Defaults[0])
	}
	if fn.Defaults[1].ArgIndex != 2 || fn.Defaults[1].Value == nil || *fn.Defaults[1].Value != "\"x\"" {
		t.Errorf("default 1 = %+v", fn.Defaults[1])
	}
}

func TestTypedDefaultAndSplatParameters(t *testing.T) {
	t.Parallel()
	rec := ParseSource([]byte("def f(a: int = 0, *args, **kwargs):\n    pass\n"), "test.py")
	fn := rec.Functions[0]

	if len(fn.Args) != 1 {
		t.Fatalf("expected 1 positional arg, got %d: %+v", len(fn.Args), fn.Args)
	}
	if fn.Args[0].Name != "a" || fn.Args[0].Annotation == nil || *fn.Args[0].Annotation != "int" {
		t.Errorf("arg = %+v, want a: int", fn.Args[0])
	}
	if len(fn.Defaults) != 1 || fn.Defaults[0].ArgIndex != 0 {
		t.Errorf("defaults = %+v", fn.Defaults)
	}
}

func TestDocstringExtraction(t *testing.T) {
	t.Parallel()
	source := "def documented():\n" +
		"    \"\"\"Summary line.\n" +
		"\n" +
		"    Longer description.\n" +
		"    \"\"\"\n" +
		"    return 1\n"
	rec := ParseSource([]byte(source), "test.py")
	fn := rec.Functions[0]

	if !fn.HasDocstring {
		t.Fatal("has_docstring = false, want true")
	}
	want := "\"\"\"\nSummary line.\n\nLonger description.\n\"\"\""
	if fn.Docstring == nil || *fn.Docstring != want {
		t.Errorf("docstring = %q, want %q", deref(fn.Docstring), want)
	}
}

func TestDocstringRequiresBareStringFirst(t *testing.T) {
	t.Parallel()
	rec := ParseSource([]byte("def f():\n    x = \"not a docstring\"\n    return x\n"), "test.py")
	if rec.Functions[0].HasDocstring {
		t.Error("assignment string treated as docstring")
	}
}

func TestClassExtraction(t *testing.T) {
	t.Parallel()
	source := "class Calculator:\n" +
		"    \"\"\"Does arithmetic.\"\"\"\n" +
		"\n" +
		"    def add(self, a, b):\n" +
		"        return a + b\n" +
		"\n" +
		"    def _internal(self):\n" +
		"        pass\n" +
		"\n" +
		"def helper():\n" +
		"    pass\n"
	rec := ParseSource([]byte(source), "test.py")

	if len(rec.Classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(rec.Classes))
	}
	cls := rec.Classes[0]
	if cls.Name != "Calculator" {
		t.Errorf("class name = %q", cls.Name)
	}
	if !cls.HasDocstring || cls.Docstring == nil {
		t.Error("class docstring missing")
	}
	if len(cls.Methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(cls.Methods))
	}
	if cls.Methods[0].Name != "add" || cls.Methods[1].Name != "_internal" {
		t.Errorf("methods = %q, %q", cls.Methods[0].Name, cls.Methods[1].Name)
	}
	if cls.EndLine < cls.StartLine {
		t.Errorf("class lines = %d..%d", cls.StartLine, cls.EndLine)
	}

	// Methods never leak into top-level functions.
	if len(rec.Functions) != 1 || rec.Functions[0].Name != "helper" {
		t.Errorf("top-level functions = %+v", rec.Functions)
	}
}

func TestDecoratedDefinitionsDiscovered(t *testing.T) {
	t.Parallel()
	source := "@staticmethod\n" +
		"def wrapped():\n" +
		"    pass\n" +
		"\n" +
		"@register\n" +
		"class Plugin:\n" +
		"    pass\n"
	rec := ParseSource([]byte(source), "test.py")

	if len(rec.Functions) != 1 || rec.Functions[0].Name != "wrapped" {
		t.Fatalf("functions = %+v", rec.Functions)
	}
	if rec.Functions[0].StartLine != 2 {
		t.Errorf("start_line = %d, want 2 (the def line)", rec.Functions[0].StartLine)
	}
	if len(rec.Classes) != 1 || rec.Classes[0].Name != "Plugin" {
		t.Fatalf("classes = %+v", rec.Classes)
	}
}

func TestRaisesResolution(t *testing.T) {
	t.Parallel()
	source := "def f(x):\n" +
		"    if x == 1:\n" +
		"        raise ValueError(\"bad\")\n" +
		"    if x == 2:\n" +
		"        raise errors.CustomError()\n" +
		"    try:\n" +
		"        pass\n" +
		"    except Exception as exc:\n" +
		"        raise exc\n" +
		"    raise\n"
	rec := ParseSource([]byte(source), "test.py")
	fn := rec.Functions[0]

	want := []string{"CustomError", "ValueError", "exc"}
	if !reflect.DeepEqual(fn.Raises, want) {
		t.Errorf("raises = %v, want %v", fn.Raises, want)
	}
}

func TestRaisesDeduplicatedAndSorted(t *testing.T) {
	t.Parallel()
	source := "def f(a, b):\n" +
		"    if a:\n" +
		"        raise ValueError(\"a\")\n" +
		"    if b:\n" +
		"        raise ValueError(\"b\")\n" +
		"    raise KeyError(\"c\")\n"
	rec := ParseSource([]byte(source), "test.py")
	fn := rec.Functions[0]

	if !reflect.DeepEqual(fn.Raises, []string{"KeyError", "ValueError"}) {
		t.Errorf("raises = %v", fn.Raises)
	}
}

func TestImportsCollected(t *testing.T) {
	t.Parallel()
	source := "import os\n" +
		"import numpy as np\n" +
		"from pathlib import Path\n" +
		"from collections import OrderedDict as OD\n" +
		"from . import sibling\n" +
		"\n" +
		"def f():\n" +
		"    import json\n" +
		"    return json\n"
	rec := ParseSource([]byte(source), "test.py")

	want := []string{
		"import os",
		"import numpy as np",
		"from pathlib import Path",
		"from collections import OrderedDict as OD",
		"from  import sibling",
		"import json",
	}
	if !reflect.DeepEqual(rec.Imports, want) {
		t.Errorf("imports = %v, want %v", rec.Imports, want)
	}
}

func TestSyntaxErrorShortCircuits(t *testing.T) {
	t.Parallel()
	rec := ParseSource([]byte("def broken(:\n    pass\n"), "test.py")

	if len(rec.ParsingErrors) != 1 {
		t.Fatalf("parsing errors = %v, want exactly 1", rec.ParsingErrors)
	}
	if !strings.HasPrefix(rec.ParsingErrors[0], "SyntaxError at line ") {
		t.Errorf("error = %q, want SyntaxError prefix", rec.ParsingErrors[0])
	}
	if len(rec.Functions) != 0 || len(rec.Classes) != 0 || len(rec.Imports) != 0 {
		t.Errorf("collections not empty: %d funcs, %d classes, %d imports",
			len(rec.Functions), len(rec.Classes), len(rec.Imports))
	}
}

func TestParseFileMissing(t *testing.T) {
	t.Parallel()
	rec := ParseFile("testdata/does-not-exist.py")
	if len(rec.ParsingErrors) != 1 || !strings.HasPrefix(rec.ParsingErrors[0], "Error: ") {
		t.Errorf("parsing errors = %v, want one Error entry", rec.ParsingErrors)
	}
	if len(rec.Functions) != 0 || len(rec.Classes) != 0 {
		t.Error("collections not empty on read failure")
	}
}

func TestExtractionDeterministic(t *testing.T) {
	t.Parallel()
	source := "import os\n" +
		"\n" +
		"class C:\n" +
		"    \"\"\"Doc.\"\"\"\n" +
		"\n" +
		"    def m(self, x=1):\n" +
		"        if x:\n" +
		"            raise ValueError(\"x\")\n" +
		"\n" +
		"def f(a: str) -> bool:\n" +
		"    return bool(a)\n"

	first := ParseSource([]byte(source), "same.py")
	second := ParseSource([]byte(source), "same.py")
	if !reflect.DeepEqual(first, second) {
		t.Error("re-extraction of identical source differs")
	}
}

func TestRenderNil(t *testing.T) {
	t.Parallel()
	if got := Render(nil, nil); got != "" {
		t.Errorf("Render(nil) = %q, want empty", got)
	}
	if RenderPtr(nil, nil) != nil {
		t.Error("RenderPtr(nil) != nil")
	}
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
