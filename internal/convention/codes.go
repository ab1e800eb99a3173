package convention

// Code identifies a documentation convention rule.
type Code string

const (
	D100 Code = "D100"
	D101 Code = "D101"
	D102 Code = "D102"
	D103 Code = "D103"
	D200 Code = "D200"
	D201 Code = "D201"
	D202 Code = "D202"
	D203 Code = "D203"
	D204 Code = "D204"
	D205 Code = "D205"
	D206 Code = "D206"
	D207 Code = "D207"
	D208 Code = "D208"
	D209 Code = "D209"
	D210 Code = "D210"
	D211 Code = "D211"
	D212 Code = "D212"
	D213 Code = "D213"
	D300 Code = "D300"
	D301 Code = "D301"
	D400 Code = "D400"
	D401 Code = "D401"
	D402 Code = "D402"
)

// Descriptions maps every known rule code to its human description.
var Descriptions = map[Code]string{
	D100: "Missing docstring in public module",
	D101: "Missing docstring in public class",
	D102: "Missing docstring in public method",
	D103: "Missing docstring in public function",
	D200: "One-line docstring should fit on one line with quotes",
	D201: "No blank lines allowed before function docstring",
	D202: "No blank lines allowed after function docstring",
	D203: "1 blank line required before class docstring",
	D204: "1 blank line required after class docstring",
	D205: "1 blank line required between summary line and description",
	D206: "Docstring should be indented with spaces, not tabs",
	D207: "Docstring is under-indented",
	D208: "Docstring is over-indented",
	D209: "Multi-line docstring closing quotes should be on a separate line",
	D210: "No whitespaces allowed surrounding docstring text",
	D211: "No blank lines allowed before class docstring",
	D212: "Multi-line docstring summary should start at the first line",
	D213: "Multi-line docstring summary should start at the second line",
	D300: "Use triple double quotes for docstrings",
	D301: "Use r\"\"\" if any backslashes in a docstring",
	D400: "First line should end with a period",
	D401: "First line should be in imperative mood",
	D402: "First line should not be the function's signature",
}

// Describe returns the description for a code, or "" if unknown.
func Describe(code Code) string {
	return Descriptions[code]
}
