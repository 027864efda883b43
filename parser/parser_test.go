package parser

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lpkit/lpkit/model"
)

const minimalProblem = `minimize
 obj: 2 x1 + 3 x2
subject to
 c1: x1 + x2 <= 10
end
`

func TestMinimalProblem(t *testing.T) {
	p, err := Parse(minimalProblem)
	require.NoError(t, err)

	require.Equal(t, model.Minimize, p.Sense())
	require.Equal(t, 1, p.NumObjectives())
	require.Equal(t, 1, p.NumConstraints())
	require.Equal(t, 2, p.NumVariables())

	obj, ok := p.Objective("obj")
	require.True(t, ok)
	require.Equal(t, []model.Coefficient{{Var: "x1", Value: 2}, {Var: "x2", Value: 3}}, obj.Coefficients)

	con, ok := p.Constraint("c1")
	require.True(t, ok)
	require.Equal(t, model.LTE, con.Operator)
	require.Equal(t, 10.0, con.RHS)
}

func TestSenseSpellings(t *testing.T) {
	for _, src := range []string{"minimise", "MINIMUM", "min"} {
		p, err := Parse(src + "\n x\nsubject to\n x >= 1\n")
		require.NoError(t, err, src)
		require.Equal(t, model.Minimize, p.Sense(), src)
	}
	for _, src := range []string{"maximise", "MAXIMUM", "max"} {
		p, err := Parse(src + "\n x\nsubject to\n x >= 1\n")
		require.NoError(t, err, src)
		require.Equal(t, model.Maximize, p.Sense(), src)
	}
}

func TestSubjectToSpellings(t *testing.T) {
	for _, header := range []string{"subject to", "Subject To", "such that", "s.t.", "ST", "subject to:", "st:"} {
		p, err := Parse("min\n x\n" + header + "\n x >= 1\n")
		require.NoError(t, err, header)
		require.Equal(t, 1, p.NumConstraints(), header)
	}
}

func TestProblemNameComment(t *testing.T) {
	p, err := Parse("\\Problem name: diet\nmin\n x\nsubject to\n x >= 1\n")
	require.NoError(t, err)
	require.Equal(t, "diet", p.Name())
}

func TestSynthesizedNames(t *testing.T) {
	p, err := Parse("min\n x1 + x2\nsubject to\n x1 <= 4\n x2 <= 5\n")
	require.NoError(t, err)

	_, ok := p.Objective("obj")
	require.True(t, ok)
	_, ok = p.Constraint("c1")
	require.True(t, ok)
	_, ok = p.Constraint("c2")
	require.True(t, ok)
}

func TestSynthesizedNamesSkipTaken(t *testing.T) {
	p, err := Parse("min\n x1\nsubject to\n c1: x1 <= 4\n x1 >= 0\n")
	require.NoError(t, err)
	require.Equal(t, 2, p.NumConstraints())
	_, ok := p.Constraint("c2")
	require.True(t, ok)
}

func TestMultipleObjectives(t *testing.T) {
	src := `min
 obj1: -0.5 x - 2y - 8z
 obj2: y + x + z
 obj3: 10z - 2.5x
       + y
subject to
 c1: x + y + z <= 100
`
	p, err := Parse(src)
	require.NoError(t, err)
	require.Equal(t, 3, p.NumObjectives())

	objs := p.Objectives()
	require.Equal(t, []string{"obj1", "obj2", "obj3"}, []string{objs[0].Name, objs[1].Name, objs[2].Name})
	require.Equal(t, []model.Coefficient{{Var: "z", Value: 10}, {Var: "x", Value: -2.5}, {Var: "y", Value: 1}}, objs[2].Coefficients)
}

func TestImplicitMultiplication(t *testing.T) {
	p, err := Parse("min\n 2x1 + 3.5x2\nsubject to\n x1 <= 1\n")
	require.NoError(t, err)
	obj := p.Objectives()[0]
	require.Equal(t, []model.Coefficient{{Var: "x1", Value: 2}, {Var: "x2", Value: 3.5}}, obj.Coefficients)
}

func TestDuplicateTermsAccumulate(t *testing.T) {
	p, err := Parse("min\n x + 2 x + 0.5 x\nsubject to\n x <= 1\n")
	require.NoError(t, err)
	obj := p.Objectives()[0]
	require.Equal(t, []model.Coefficient{{Var: "x", Value: 3.5}}, obj.Coefficients)
}

func TestObjectiveConstant(t *testing.T) {
	p, err := Parse("min\n 2 x1 + 10\nsubject to\n x1 >= 0\n")
	require.NoError(t, err)
	obj := p.Objectives()[0]
	require.Equal(t, 10.0, obj.Constant)
}

func TestScientificNotation(t *testing.T) {
	p, err := Parse("min\n 1e2 x1 - 2.5E-3 x2\nsubject to\n x1 <= 1e10\n")
	require.NoError(t, err)
	obj := p.Objectives()[0]
	require.Equal(t, 100.0, obj.Coefficients[0].Value)
	require.Equal(t, -0.0025, obj.Coefficients[1].Value)
	con, _ := p.Constraint("c1")
	require.Equal(t, 1e10, con.RHS)
}

func TestNegativeRHS(t *testing.T) {
	p, err := Parse("min\n x\nsubject to\n c: x >= -5\n")
	require.NoError(t, err)
	con, _ := p.Constraint("c")
	require.Equal(t, -5.0, con.RHS)
}

func TestInfiniteRHS(t *testing.T) {
	p, err := Parse("min\n x\nsubject to\n c: x <= +inf\n")
	require.NoError(t, err)
	con, _ := p.Constraint("c")
	require.True(t, math.IsInf(con.RHS, 1))
}

func TestAllOperators(t *testing.T) {
	src := `min
 x1
subject to
 a: x1 <= 1
 b: x2 < 2
 c: x3 >= 3
 d: x4 > 4
 e: x5 = 5
`
	p, err := Parse(src)
	require.NoError(t, err)

	ops := map[string]model.CompOp{"a": model.LTE, "b": model.LT, "c": model.GTE, "d": model.GT, "e": model.EQ}
	for name, want := range ops {
		con, ok := p.Constraint(name)
		require.True(t, ok, name)
		require.Equal(t, want, con.Operator, name)
	}
}

func TestBoundsForms(t *testing.T) {
	src := `min
 x1 + x2 + x3 + x4 + x5 + x6 + x7
subject to
 c1: x1 + x2 <= 10
bounds
 x1 free
 x2 <= 8
 x3 >= 2
 1 <= x4 <= 9
 5 >= x5
 x6 = 3.5
 2 <= x7
end
`
	p, err := Parse(src)
	require.NoError(t, err)

	types := map[string]model.VarType{
		"x1": model.FreeType(),
		"x2": model.UpperBound(8),
		"x3": model.LowerBound(2),
		"x4": model.DoubleBound(1, 9),
		"x5": model.UpperBound(5),
		"x6": model.DoubleBound(3.5, 3.5),
		"x7": model.LowerBound(2),
	}
	for name, want := range types {
		v, ok := p.Variable(name)
		require.True(t, ok, name)
		require.Equal(t, want, v.Type, name)
	}
}

func TestInfiniteBoundsNormalize(t *testing.T) {
	src := `min
 x1 + x2 + x3
subject to
 c1: x1 <= 10
bounds
 x1 <= +inf
 x2 >= -infinity
 x3 >= -inf
`
	p, err := Parse(src)
	require.NoError(t, err)

	// Single-operator bounds with an infinite value normalize to Free.
	for _, name := range []string{"x1", "x2", "x3"} {
		v, _ := p.Variable(name)
		require.Equal(t, model.FreeType(), v.Type, name)
	}
}

func TestDoubleBoundKeepsWrittenForm(t *testing.T) {
	src := `min
 x + y + z
subject to
 c1: x <= 10
bounds
 0 <= x <= +infinity
 y >= 0
 -inf <= z <= +inf
`
	p, err := Parse(src)
	require.NoError(t, err)

	// A two-operator bound keeps its endpoints, so x is distinguishable
	// from the single-operator y.
	v, _ := p.Variable("x")
	require.Equal(t, model.DoubleBound(0, math.Inf(1)), v.Type)
	v, _ = p.Variable("y")
	require.Equal(t, model.LowerBound(0), v.Type)
	v, _ = p.Variable("z")
	require.Equal(t, model.DoubleBound(math.Inf(-1), math.Inf(1)), v.Type)
}

func TestReversedDoubleBound(t *testing.T) {
	p, err := Parse("min\n x\nsubject to\n x <= 9\nbounds\n 8 >= x >= 1\n")
	require.NoError(t, err)
	v, _ := p.Variable("x")
	require.Equal(t, model.DoubleBound(1, 8), v.Type)
}

func TestTypeSections(t *testing.T) {
	src := `min
 a + b + c + d
subject to
 c1: a + b + c + d <= 4
generals
 a
integers
 b
binaries
 c
semi-continuous
 d
end
`
	p, err := Parse(src)
	require.NoError(t, err)

	v, _ := p.Variable("a")
	require.Equal(t, model.GeneralType(), v.Type)
	v, _ = p.Variable("b")
	require.Equal(t, model.IntegerType(), v.Type)
	v, _ = p.Variable("c")
	require.Equal(t, model.BinaryType(), v.Type)
	v, _ = p.Variable("d")
	require.Equal(t, model.SemiContinuousType(), v.Type)
}

func TestEmptyOptionalSections(t *testing.T) {
	p, err := Parse("min\n x\nsubject to\n x <= 1\nbounds\nintegers\nend\n")
	require.NoError(t, err)
	require.Equal(t, 1, p.NumVariables())
}

func TestSOSSection(t *testing.T) {
	src := `min
 x1 + x2 + x3
subject to
 c1: x1 + x2 + x3 <= 10
sos
 set1: S1:: x1:1 x2:2
 set2: S2:: x1:1 x2:2 x3:3
end
`
	p, err := Parse(src)
	require.NoError(t, err)
	require.Equal(t, 3, p.NumConstraints())

	s1, ok := p.Constraint("set1")
	require.True(t, ok)
	require.Equal(t, model.SOSKind, s1.Kind)
	require.Equal(t, model.SOS1, s1.SOSType)
	require.Equal(t, []model.Coefficient{{Var: "x1", Value: 1}, {Var: "x2", Value: 2}}, s1.Weights)

	s2, _ := p.Constraint("set2")
	require.Equal(t, model.SOS2, s2.SOSType)
	require.Len(t, s2.Weights, 3)
}

func TestDefaultVariableTypePolicy(t *testing.T) {
	src := "min\n x\nsubject to\n x <= 1\n"

	p, err := Parse(src)
	require.NoError(t, err)
	v, _ := p.Variable("x")
	require.Equal(t, model.GeneralType(), v.Type)

	p, err = ParseWithOptions(src, LegacyOptions())
	require.NoError(t, err)
	v, _ = p.Variable("x")
	require.Equal(t, model.FreeType(), v.Type)
}

func TestBoundsOverrideDefaultType(t *testing.T) {
	p, err := Parse("min\n x + y\nsubject to\n x + y <= 1\nbounds\n x >= 2\n")
	require.NoError(t, err)

	v, _ := p.Variable("x")
	require.Equal(t, model.LowerBound(2), v.Type)
	v, _ = p.Variable("y")
	require.Equal(t, model.GeneralType(), v.Type)
}

func TestCommentsIgnored(t *testing.T) {
	src := `\ leading remark
min
 x \ trailing remark
subject to
\* a block
comment *\
 x <= 1
`
	p, err := Parse(src)
	require.NoError(t, err)
	require.Equal(t, 1, p.NumConstraints())
}

func TestMissingSense(t *testing.T) {
	_, err := Parse("subject to\n x <= 1\n")
	require.ErrorIs(t, err, ErrMissingSense)
}

func TestMissingSubjectTo(t *testing.T) {
	_, err := Parse("min\n x1 + x2\n")
	require.ErrorIs(t, err, ErrMissingSubjectTo)
}

func TestMissingSubjectToBeforeSection(t *testing.T) {
	_, err := Parse("min\n x1 + x2\nbounds\n x1 >= 0\n")
	require.ErrorIs(t, err, ErrMissingSubjectTo)
}

func TestInputAfterEndIgnored(t *testing.T) {
	p, err := Parse("min\n x\nsubject to\n x <= 1\nend\nbounds\n x >= 0\n")
	require.NoError(t, err)
	v, _ := p.Variable("x")
	require.Equal(t, model.GeneralType(), v.Type)
}

func TestErrorCarriesPosition(t *testing.T) {
	_, err := Parse("min\n x\nsubject to\n c1: x <= 1\n c2: <= 4\n")
	require.Error(t, err)
	var parseErr *Error
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, 5, parseErr.Pos.Line)
	require.Equal(t, "constraints", parseErr.Section)
}

func TestConstraintConstantRejected(t *testing.T) {
	_, err := Parse("min\n x\nsubject to\n c1: x + 5 <= 10\n")
	require.Error(t, err)
}

func TestUnexpectedTrailingSection(t *testing.T) {
	_, err := Parse("min\n x\nsubject to\n x <= 1\n<= 4\n")
	require.Error(t, err)
}
