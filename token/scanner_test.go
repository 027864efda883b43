package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func kinds(t *testing.T, src string) []Kind {
	t.Helper()
	toks, err := ScanAll(src)
	require.NoError(t, err)
	out := make([]Kind, 0, len(toks))
	for _, tok := range toks {
		if tok.Kind == Newline || tok.Kind == EOF {
			continue
		}
		out = append(out, tok.Kind)
	}
	return out
}

func TestSenseKeywordVariants(t *testing.T) {
	for _, src := range []string{"minimize", "MINIMIZE", "Minimise", "minimum", "min"} {
		require.Equal(t, []Kind{Minimize}, kinds(t, src), src)
	}
	for _, src := range []string{"maximize", "Maximise", "maximum", "MAX"} {
		require.Equal(t, []Kind{Maximize}, kinds(t, src), src)
	}
}

func TestSectionKeywordVariants(t *testing.T) {
	cases := map[string]Kind{
		"subject to":      SubjectTo,
		"Subject To":      SubjectTo,
		"such that":       SubjectTo,
		"s.t.":            SubjectTo,
		"ST":              SubjectTo,
		"bound":           Bounds,
		"Bounds":          Bounds,
		"gen":             Generals,
		"generals":        Generals,
		"integer":         Integers,
		"Integers":        Integers,
		"bin":             Binaries,
		"binaries":        Binaries,
		"semi":            SemiContinuous,
		"semis":           SemiContinuous,
		"semi-continuous": SemiContinuous,
		"Semi-Continuous": SemiContinuous,
		"sos":             SOSSection,
		"End":             End,
		"free":            FreeKeyword,
	}
	for src, want := range cases {
		require.Equal(t, []Kind{want}, kinds(t, src), src)
	}
}

func TestKeywordIsNotIdentifierPrefix(t *testing.T) {
	// A keyword spelling embedded in a longer word stays an identifier.
	toks, err := ScanAll("ending minty")
	require.NoError(t, err)
	require.Equal(t, Identifier, toks[0].Kind)
	require.Equal(t, "ending", toks[0].Lit)
	require.Equal(t, Identifier, toks[1].Kind)
	require.Equal(t, "minty", toks[1].Lit)
}

func TestSubjectAloneIsIdentifier(t *testing.T) {
	toks, err := ScanAll("subject x")
	require.NoError(t, err)
	require.Equal(t, Identifier, toks[0].Kind)
	require.Equal(t, "subject", toks[0].Lit)
}

func TestOperators(t *testing.T) {
	require.Equal(t, []Kind{LessEq, GreaterEq, Less, Greater, Equal, Plus, Minus, Colon, DoubleColon},
		kinds(t, "<= >= < > = + - : ::"))
}

func TestNumbers(t *testing.T) {
	cases := map[string]float64{
		"0":       0,
		"42":      42,
		"2.5":     2.5,
		".5":      0.5,
		"1e5":     1e5,
		"1.2E-3":  1.2e-3,
		"3e+2":    3e2,
		"123.456": 123.456,
	}
	for src, want := range cases {
		toks, err := ScanAll(src)
		require.NoError(t, err)
		require.Equal(t, Number, toks[0].Kind, src)
		require.Equal(t, want, toks[0].Num, src)
	}
}

func TestNumberDoesNotSwallowIdentifier(t *testing.T) {
	// "2x1" is a coefficient 2 applied to variable x1.
	toks, err := ScanAll("2x1")
	require.NoError(t, err)
	require.Equal(t, Number, toks[0].Kind)
	require.Equal(t, 2.0, toks[0].Num)
	require.Equal(t, Identifier, toks[1].Kind)
	require.Equal(t, "x1", toks[1].Lit)
}

func TestExponentNeedsDigits(t *testing.T) {
	// "2e" is the number 2 followed by the identifier "e".
	toks, err := ScanAll("2e")
	require.NoError(t, err)
	require.Equal(t, Number, toks[0].Kind)
	require.Equal(t, 2.0, toks[0].Num)
	require.Equal(t, Identifier, toks[1].Kind)
	require.Equal(t, "e", toks[1].Lit)
}

func TestSignsAreSeparateTokens(t *testing.T) {
	require.Equal(t, []Kind{Minus, Number, Identifier, Plus, Number, Identifier},
		kinds(t, "-2 x1 + 3.5 x2"))
}

func TestInfinity(t *testing.T) {
	require.Equal(t, []Kind{Minus, Infinity}, kinds(t, "-inf"))
	require.Equal(t, []Kind{Plus, Infinity}, kinds(t, "+Infinity"))
	// "infx" is an ordinary identifier.
	toks, err := ScanAll("infx")
	require.NoError(t, err)
	require.Equal(t, Identifier, toks[0].Kind)
}

func TestSOSTypeTagNeedsDoubleColon(t *testing.T) {
	require.Equal(t, []Kind{SOSTypeOne, DoubleColon}, kinds(t, "S1::"))
	require.Equal(t, []Kind{SOSTypeTwo, DoubleColon}, kinds(t, "s2 ::"))

	// Without "::", s1 is a usable variable name.
	toks, err := ScanAll("s1 + s2")
	require.NoError(t, err)
	require.Equal(t, Identifier, toks[0].Kind)
	require.Equal(t, "s1", toks[0].Lit)
}

func TestLineComment(t *testing.T) {
	toks, err := ScanAll("\\ a remark\nmin")
	require.NoError(t, err)
	require.Equal(t, Comment, toks[0].Kind)
	require.Equal(t, "a remark", toks[0].Lit)
	require.Equal(t, Newline, toks[1].Kind)
	require.Equal(t, Minimize, toks[2].Kind)
}

func TestBlockComment(t *testing.T) {
	toks, err := ScanAll("\\* spans\ntwo lines *\\min")
	require.NoError(t, err)
	require.Equal(t, Comment, toks[0].Kind)
	require.Equal(t, Minimize, toks[1].Kind)
	require.Equal(t, 2, toks[1].Pos.Line)
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, err := ScanAll("\\* never closed")
	require.Error(t, err)
	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
}

func TestProblemNameComment(t *testing.T) {
	toks, err := ScanAll("\\Problem name: diet_plan\nmin")
	require.NoError(t, err)
	require.Equal(t, ProblemName, toks[0].Kind)
	require.Equal(t, "diet_plan", toks[0].Lit)

	toks, err = ScanAll("\\* Problem name: blended *\\")
	require.NoError(t, err)
	require.Equal(t, ProblemName, toks[0].Kind)
	require.Equal(t, "blended", toks[0].Lit)
}

func TestPositions(t *testing.T) {
	toks, err := ScanAll("min\n x1")
	require.NoError(t, err)
	require.Equal(t, 1, toks[0].Pos.Line)
	require.Equal(t, Identifier, toks[2].Kind)
	require.Equal(t, 2, toks[2].Pos.Line)
	require.Equal(t, 5, toks[2].Pos.Offset)
}

func TestIdentifierCharset(t *testing.T) {
	for _, name := range []string{"x#1", "flow(a,b)", "a.b.c", "cost_{t}", "x!", "y?z", "q@home", "a;b"} {
		toks, err := ScanAll(name)
		require.NoError(t, err)
		require.Equal(t, Identifier, toks[0].Kind, name)
		require.Equal(t, name, toks[0].Lit, name)
	}
}

func TestLexicalError(t *testing.T) {
	_, err := ScanAll("min\nx1 | x2")
	require.Error(t, err)
	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
	require.Equal(t, 2, lexErr.Pos.Line)
}

func TestIsValidIdentifier(t *testing.T) {
	require.True(t, IsValidIdentifier("x1"))
	require.True(t, IsValidIdentifier("flow(a,b)"))
	require.False(t, IsValidIdentifier(""))
	require.False(t, IsValidIdentifier("1x"))
	require.False(t, IsValidIdentifier("has space"))
	require.False(t, IsValidIdentifier("min"))
	require.False(t, IsValidIdentifier("free"))
	require.False(t, IsValidIdentifier("st"))
}
