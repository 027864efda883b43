// Package model defines the in-memory representation of a linear
// programming problem: sense, objectives, constraints and typed variables,
// together with a mutation API that keeps cross-references consistent.
//
// Objectives preserve source insertion order. Constraints and variables are
// name-keyed; accessors returning slices sort by name so callers get
// deterministic iteration.
package model

import (
	"fmt"
	"math"
	"sort"
)

// Sense is the optimization direction.
type Sense uint8

const (
	Minimize Sense = iota
	Maximize
)

func (s Sense) String() string {
	if s == Maximize {
		return "Maximize"
	}
	return "Minimize"
}

// CompOp is a constraint comparison operator.
type CompOp uint8

const (
	LT CompOp = iota
	LTE
	EQ
	GTE
	GT
)

func (op CompOp) String() string {
	switch op {
	case LT:
		return "<"
	case LTE:
		return "<="
	case EQ:
		return "="
	case GTE:
		return ">="
	case GT:
		return ">"
	}
	return fmt.Sprintf("CompOp(%d)", uint8(op))
}

// SOSType distinguishes type 1 and type 2 special ordered sets.
type SOSType uint8

const (
	SOS1 SOSType = iota + 1
	SOS2
)

func (t SOSType) String() string {
	if t == SOS2 {
		return "S2"
	}
	return "S1"
}

// VarKind discriminates the variants of VarType.
type VarKind uint8

const (
	Free VarKind = iota
	General
	LowerBoundKind
	UpperBoundKind
	DoubleBoundKind
	Binary
	Integer
	SemiContinuous
	SOSMember
)

// VarType is the tagged union of variable types. Lower and Upper are only
// meaningful for the bounded kinds.
type VarType struct {
	Kind  VarKind
	Lower float64
	Upper float64
}

func FreeType() VarType           { return VarType{Kind: Free} }
func GeneralType() VarType        { return VarType{Kind: General} }
func BinaryType() VarType         { return VarType{Kind: Binary} }
func IntegerType() VarType        { return VarType{Kind: Integer} }
func SemiContinuousType() VarType { return VarType{Kind: SemiContinuous} }
func SOSMemberType() VarType      { return VarType{Kind: SOSMember} }

func LowerBound(lo float64) VarType { return VarType{Kind: LowerBoundKind, Lower: lo} }
func UpperBound(hi float64) VarType { return VarType{Kind: UpperBoundKind, Upper: hi} }
func DoubleBound(lo, hi float64) VarType {
	return VarType{Kind: DoubleBoundKind, Lower: lo, Upper: hi}
}

func (t VarType) String() string {
	switch t.Kind {
	case Free:
		return "Free"
	case General:
		return "General"
	case LowerBoundKind:
		return fmt.Sprintf("LowerBound(%v)", t.Lower)
	case UpperBoundKind:
		return fmt.Sprintf("UpperBound(%v)", t.Upper)
	case DoubleBoundKind:
		return fmt.Sprintf("DoubleBound(%v, %v)", t.Lower, t.Upper)
	case Binary:
		return "Binary"
	case Integer:
		return "Integer"
	case SemiContinuous:
		return "Semi-Continuous"
	case SOSMember:
		return "SOS"
	}
	return fmt.Sprintf("VarKind(%d)", uint8(t.Kind))
}

// Bounds returns the effective numeric range of the type, using ±Inf for
// unbounded directions.
func (t VarType) Bounds() (lo, hi float64) {
	switch t.Kind {
	case Free:
		return math.Inf(-1), math.Inf(1)
	case LowerBoundKind:
		return t.Lower, math.Inf(1)
	case UpperBoundKind:
		return math.Inf(-1), t.Upper
	case DoubleBoundKind:
		return t.Lower, t.Upper
	case Binary:
		return 0, 1
	default:
		// General, Integer, Semi-Continuous and SOS members default to a
		// zero lower bound.
		return 0, math.Inf(1)
	}
}

// Variable is a named decision variable.
type Variable struct {
	Name string
	Type VarType
}

// Coefficient is one term of a linear expression, or one weight of an SOS
// constraint.
type Coefficient struct {
	Var   string
	Value float64
}

// Objective is a named linear expression to optimize. Constant carries a
// bare additive term when the source had one.
type Objective struct {
	Name         string
	Coefficients []Coefficient
	Constant     float64
}

// ConstraintKind discriminates standard and SOS constraints.
type ConstraintKind uint8

const (
	StandardKind ConstraintKind = iota
	SOSKind
)

func (k ConstraintKind) String() string {
	if k == SOSKind {
		return "SOS"
	}
	return "Standard"
}

// Constraint is either a standard linear constraint
// (Coefficients Operator RHS) or a special ordered set (SOSType, Weights),
// discriminated by Kind.
type Constraint struct {
	Name string
	Kind ConstraintKind

	// Standard constraints.
	Coefficients []Coefficient
	Operator     CompOp
	RHS          float64

	// SOS constraints.
	SOSType SOSType
	Weights []Coefficient
}

// Problem is a complete LP problem. The zero value is not usable; call
// NewProblem.
type Problem struct {
	name  string
	sense Sense

	objectiveOrder []string
	objectives     map[string]*Objective
	constraints    map[string]*Constraint
	variables      map[string]*Variable

	// Type given to variables first seen inside an expression body. The
	// modern grammar defaults to General, the legacy one to Free.
	defaultType VarType
}

func NewProblem() *Problem {
	return &Problem{
		objectives:  make(map[string]*Objective),
		constraints: make(map[string]*Constraint),
		variables:   make(map[string]*Variable),
		defaultType: GeneralType(),
	}
}

// SetDefaultVariableType sets the type used when a variable is implicitly
// created by a reference in an objective or constraint body.
func (p *Problem) SetDefaultVariableType(t VarType) { p.defaultType = t }

// DefaultVariableType returns the current implicit-creation type.
func (p *Problem) DefaultVariableType() VarType { return p.defaultType }

func (p *Problem) Name() string { return p.name }
func (p *Problem) Sense() Sense { return p.sense }

// Objectives returns the objectives in insertion order.
func (p *Problem) Objectives() []*Objective {
	out := make([]*Objective, 0, len(p.objectiveOrder))
	for _, name := range p.objectiveOrder {
		out = append(out, p.objectives[name])
	}
	return out
}

func (p *Problem) Objective(name string) (*Objective, bool) {
	o, ok := p.objectives[name]
	return o, ok
}

// Constraints returns the constraints sorted by name.
func (p *Problem) Constraints() []*Constraint {
	out := make([]*Constraint, 0, len(p.constraints))
	for _, c := range p.constraints {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (p *Problem) Constraint(name string) (*Constraint, bool) {
	c, ok := p.constraints[name]
	return c, ok
}

// Variables returns the variables sorted by name.
func (p *Problem) Variables() []*Variable {
	out := make([]*Variable, 0, len(p.variables))
	for _, v := range p.variables {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (p *Problem) Variable(name string) (*Variable, bool) {
	v, ok := p.variables[name]
	return v, ok
}

func (p *Problem) NumObjectives() int  { return len(p.objectives) }
func (p *Problem) NumConstraints() int { return len(p.constraints) }
func (p *Problem) NumVariables() int   { return len(p.variables) }
