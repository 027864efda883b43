// Package token defines the lexical tokens of the LP file format and a
// scanner that produces them.
//
// The LP format is line-oriented text with case-insensitive section
// keywords. Several keywords have multiple accepted spellings ("minimize",
// "minimise", "min", ...); the scanner normalizes all of them to a single
// token kind. Sign characters are emitted as separate tokens and combined
// with the following number by the parser.
package token

import "fmt"

// Kind identifies the class of a token.
type Kind uint8

const (
	EOF Kind = iota
	Newline

	// Section keywords.
	Minimize
	Maximize
	SubjectTo
	Bounds
	Integers
	Generals
	Binaries
	SemiContinuous
	SOSSection
	End

	// Bound keyword.
	FreeKeyword

	// SOS type tags, recognized only when followed by "::".
	SOSTypeOne
	SOSTypeTwo

	// Operators.
	LessEq
	Less
	GreaterEq
	Greater
	Equal
	Plus
	Minus
	Colon
	DoubleColon

	// Literals.
	Number
	Infinity
	Identifier

	// Comments. ProblemName is the distinguished "\Problem name: X" form.
	Comment
	ProblemName
)

var kindNames = [...]string{
	EOF:            "EOF",
	Newline:        "newline",
	Minimize:       "Minimize",
	Maximize:       "Maximize",
	SubjectTo:      "Subject To",
	Bounds:         "Bounds",
	Integers:       "Integers",
	Generals:       "Generals",
	Binaries:       "Binaries",
	SemiContinuous: "Semi-Continuous",
	SOSSection:     "SOS",
	End:            "End",
	FreeKeyword:    "free",
	SOSTypeOne:     "S1",
	SOSTypeTwo:     "S2",
	LessEq:         "<=",
	Less:           "<",
	GreaterEq:      ">=",
	Greater:        ">",
	Equal:          "=",
	Plus:           "+",
	Minus:          "-",
	Colon:          ":",
	DoubleColon:    "::",
	Number:         "number",
	Infinity:       "infinity",
	Identifier:     "identifier",
	Comment:        "comment",
	ProblemName:    "problem name",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsSectionKeyword reports whether k opens a new section.
func (k Kind) IsSectionKeyword() bool {
	return k >= Minimize && k <= End
}

// Position locates a token in the source buffer.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
}

func (p Position) String() string {
	return fmt.Sprintf("line %d", p.Line)
}

// Token is a single lexical unit.
type Token struct {
	Kind Kind
	Lit  string  // raw text for Identifier, Comment, ProblemName
	Num  float64 // value for Number
	Pos  Position
}

func (t Token) String() string {
	switch t.Kind {
	case Identifier:
		return fmt.Sprintf("identifier %q", t.Lit)
	case Number:
		return fmt.Sprintf("number %v", t.Num)
	default:
		return t.Kind.String()
	}
}

// keywords maps lowercased single-word spellings to their token kind.
// Multi-word forms ("subject to", "such that", "semi-continuous") are
// assembled by the scanner.
var keywords = map[string]Kind{
	"minimize": Minimize,
	"minimise": Minimize,
	"minimum":  Minimize,
	"min":      Minimize,
	"maximize": Maximize,
	"maximise": Maximize,
	"maximum":  Maximize,
	"max":      Maximize,
	"st":       SubjectTo,
	"s.t.":     SubjectTo,
	"bound":    Bounds,
	"bounds":   Bounds,
	"gen":      Generals,
	"general":  Generals,
	"generals": Generals,
	"integer":  Integers,
	"integers": Integers,
	"bin":      Binaries,
	"binary":   Binaries,
	"binaries": Binaries,
	"semi":     SemiContinuous,
	"semis":    SemiContinuous,
	"sos":      SOSSection,
	"end":      End,
	"free":     FreeKeyword,
	"inf":      Infinity,
	"infinity": Infinity,
}

// IsKeyword reports whether word (lowercased) is a reserved keyword and
// therefore unavailable as an identifier.
func IsKeyword(word string) bool {
	_, ok := keywords[lower(word)]
	return ok
}

// identChars is the set of non-alphanumeric ASCII bytes allowed in
// identifiers.
const identChars = "!#$%&(),.;?@_{}~"

func isIdentByte(c byte) bool {
	if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
		return true
	}
	for i := 0; i < len(identChars); i++ {
		if identChars[i] == c {
			return true
		}
	}
	return false
}

// isIdentRune extends isIdentByte with the typographic quote marks some
// exporters put into names.
func isIdentRune(r rune) bool {
	if r < 0x80 {
		return isIdentByte(byte(r))
	}
	switch r {
	case '‘', '’', '“', '”':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// IsValidIdentifier reports whether name can appear as a variable,
// objective or constraint name in LP text: non-empty, not starting with a
// digit, built from the identifier character set, and not a keyword.
func IsValidIdentifier(name string) bool {
	if name == "" || isDigit(name[0]) || name[0] == '.' {
		return false
	}
	for _, r := range name {
		if !isIdentRune(r) {
			return false
		}
	}
	return !IsKeyword(name)
}

func lower(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b[i] = c
	}
	return string(b)
}
