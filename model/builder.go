package model

import (
	"errors"
	"fmt"
)

// Builder assembles a Problem fluently. Errors are collected and reported
// by Build, so call sites can chain without per-step checks.
type Builder struct {
	problem *Problem
	errs    []error
}

func NewBuilder() *Builder {
	return &Builder{problem: NewProblem()}
}

func (b *Builder) Name(name string) *Builder {
	b.problem.SetName(name)
	return b
}

func (b *Builder) Minimize() *Builder {
	b.problem.SetSense(Minimize)
	return b
}

func (b *Builder) Maximize() *Builder {
	b.problem.SetSense(Maximize)
	return b
}

func (b *Builder) Variable(name string, t VarType) *Builder {
	if err := b.problem.AddVariable(name, t); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

func (b *Builder) Objective(name string, coefficients ...Coefficient) *Builder {
	if err := b.problem.AddObjective(name, coefficients); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

func (b *Builder) Constraint(name string, coefficients []Coefficient, op CompOp, rhs float64) *Builder {
	if err := b.problem.AddConstraint(name, coefficients, op, rhs); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

func (b *Builder) SOSConstraint(name string, t SOSType, weights ...Coefficient) *Builder {
	if err := b.problem.AddSOSConstraint(name, t, weights); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Build validates the assembled problem and returns it. The builder must
// not be reused afterwards.
func (b *Builder) Build() (*Problem, error) {
	errs := b.errs
	for _, name := range b.problem.objectiveOrder {
		if len(b.problem.objectives[name].Coefficients) == 0 {
			errs = append(errs, fmt.Errorf("%w: objective %q has no terms", ErrInvalidValue, name))
		}
	}
	for name, con := range b.problem.constraints {
		switch con.Kind {
		case StandardKind:
			if len(con.Coefficients) == 0 {
				errs = append(errs, fmt.Errorf("%w: constraint %q has no terms", ErrInvalidValue, name))
			}
		case SOSKind:
			if len(con.Weights) == 0 {
				errs = append(errs, fmt.Errorf("%w: SOS constraint %q has no weights", ErrInvalidValue, name))
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return b.problem, nil
}
