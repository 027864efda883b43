// Package parser turns LP format text into a model.Problem.
//
// Input is parsed as a sequence of sections: an optional problem-name
// comment, a required objective sense, one or more objectives, a required
// Subject To section, then any of Bounds, Integers, Generals, Binaries,
// Semi-Continuous and SOS in any order, closed by an optional End marker.
package parser

import (
	"fmt"
	"math"

	"github.com/lpkit/lpkit/logger"
	"github.com/lpkit/lpkit/model"
	"github.com/lpkit/lpkit/token"
)

// Options control dialect-dependent behavior.
type Options struct {
	// DefaultVariableType is given to variables that appear only inside
	// objective or constraint bodies. The modern grammar defaults to
	// General; older grammars treated such variables as Free.
	DefaultVariableType model.VarType
}

func DefaultOptions() Options {
	return Options{DefaultVariableType: model.GeneralType()}
}

// LegacyOptions selects the old implicit-Free dialect.
func LegacyOptions() Options {
	return Options{DefaultVariableType: model.FreeType()}
}

// Parse parses src with default options.
func Parse(src string) (*model.Problem, error) {
	return ParseWithOptions(src, DefaultOptions())
}

// ParseWithOptions parses src into a Problem.
func ParseWithOptions(src string, opts Options) (*model.Problem, error) {
	all, err := token.ScanAll(src)
	if err != nil {
		return nil, err
	}

	p := &parser{problem: model.NewProblem()}
	p.problem.SetDefaultVariableType(opts.DefaultVariableType)

	// Newlines and comments are not significant to the grammar. The first
	// problem-name comment names the problem.
	named := false
	for _, t := range all {
		switch t.Kind {
		case token.Newline, token.Comment:
		case token.ProblemName:
			if !named {
				p.problem.SetName(t.Lit)
				named = true
			}
		default:
			p.toks = append(p.toks, t)
		}
	}

	if err := p.run(); err != nil {
		return nil, err
	}
	return p.problem, nil
}

type parser struct {
	toks    []token.Token
	i       int
	problem *model.Problem
	section string
}

func (p *parser) cur() token.Token  { return p.toks[p.i] }
func (p *parser) peek() token.Token { return p.peekAt(1) }

func (p *parser) peekAt(n int) token.Token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.i+n]
}

func (p *parser) advance() token.Token {
	t := p.toks[p.i]
	if p.i < len(p.toks)-1 {
		p.i++
	}
	return t
}

func (p *parser) errorf(err error, format string, args ...any) error {
	return &Error{Pos: p.cur().Pos, Section: p.section, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (p *parser) run() error {
	if err := p.parseSense(); err != nil {
		return err
	}
	if err := p.parseObjectives(); err != nil {
		return err
	}
	if err := p.parseConstraints(); err != nil {
		return err
	}
	if err := p.parseOptionalSections(); err != nil {
		return err
	}

	log := logger.Logger()
	log.Debug().
		Int("objectives", p.problem.NumObjectives()).
		Int("constraints", p.problem.NumConstraints()).
		Int("variables", p.problem.NumVariables()).
		Msg("parsed problem")
	return nil
}

func (p *parser) parseSense() error {
	p.section = "sense"
	switch p.cur().Kind {
	case token.Minimize:
		p.problem.SetSense(model.Minimize)
	case token.Maximize:
		p.problem.SetSense(model.Maximize)
	default:
		return p.errorf(ErrMissingSense, "expected Minimize or Maximize, found %s", p.cur())
	}
	p.advance()
	return nil
}

func (p *parser) parseObjectives() error {
	p.section = "objectives"
	count := 0
	for {
		switch p.cur().Kind {
		case token.SubjectTo:
			if count == 0 {
				return p.errorf(ErrEmptySection, "expected at least one objective")
			}
			p.advance()
			// Optional colon after the header ("subject to:").
			if p.cur().Kind == token.Colon {
				p.advance()
			}
			return nil
		case token.EOF:
			return p.errorf(ErrMissingSubjectTo, "input ended before Subject To")
		}
		if k := p.cur().Kind; k.IsSectionKeyword() {
			return p.errorf(ErrMissingSubjectTo, "expected Subject To, found %s", p.cur())
		}

		count++
		name := ""
		if p.cur().Kind == token.Identifier && p.peek().Kind == token.Colon {
			name = p.cur().Lit
			p.advance()
			p.advance()
		}
		if name == "" {
			name = p.freshName("obj", count, func(n string) bool { _, ok := p.problem.Objective(n); return ok })
		}

		coeffs, constant, hasConstant, err := p.parseExpression()
		if err != nil {
			return err
		}
		if len(coeffs) == 0 && !hasConstant {
			return p.errorf(ErrEmptySection, "objective %q has no terms", name)
		}
		if err := p.problem.AddObjective(name, coeffs); err != nil {
			return p.errorf(err, "objective %q", name)
		}
		if obj, ok := p.problem.Objective(name); ok {
			obj.Constant = constant
		}
	}
}

func (p *parser) parseConstraints() error {
	p.section = "constraints"
	count := 0
	for {
		k := p.cur().Kind
		if k == token.EOF || (k.IsSectionKeyword() && k != token.SubjectTo) {
			if count == 0 {
				return p.errorf(ErrEmptySection, "expected at least one constraint")
			}
			return nil
		}

		count++
		name := ""
		if p.cur().Kind == token.Identifier && p.peek().Kind == token.Colon {
			name = p.cur().Lit
			p.advance()
			p.advance()
		}
		if name == "" {
			name = p.freshName("c", count, func(n string) bool { _, ok := p.problem.Constraint(n); return ok })
		}

		coeffs, _, hasConstant, err := p.parseExpression()
		if err != nil {
			return err
		}
		if hasConstant {
			return p.errorf(nil, "constraint %q has a constant term on the left-hand side", name)
		}
		if len(coeffs) == 0 {
			return p.errorf(ErrEmptySection, "constraint %q has no terms", name)
		}

		op, ok := compOp(p.cur().Kind)
		if !ok {
			return p.errorf(nil, "expected comparison operator, found %s", p.cur())
		}
		p.advance()

		rhs, err := p.parseSignedValue()
		if err != nil {
			return err
		}

		if err := p.problem.AddConstraint(name, coeffs, op, rhs); err != nil {
			return p.errorf(err, "constraint %q", name)
		}
	}
}

func (p *parser) parseOptionalSections() error {
	for {
		switch p.cur().Kind {
		case token.Bounds:
			p.advance()
			if err := p.parseBounds(); err != nil {
				return err
			}
		case token.Integers:
			p.advance()
			if err := p.parseTypeList("integers", model.IntegerType()); err != nil {
				return err
			}
		case token.Generals:
			p.advance()
			if err := p.parseTypeList("generals", model.GeneralType()); err != nil {
				return err
			}
		case token.Binaries:
			p.advance()
			if err := p.parseTypeList("binaries", model.BinaryType()); err != nil {
				return err
			}
		case token.SemiContinuous:
			p.advance()
			if err := p.parseTypeList("semi-continuous", model.SemiContinuousType()); err != nil {
				return err
			}
		case token.SOSSection:
			p.advance()
			if err := p.parseSOS(); err != nil {
				return err
			}
		case token.End:
			p.advance()
			if p.cur().Kind != token.EOF {
				log := logger.Logger()
				log.Warn().
					Int("line", p.cur().Pos.Line).
					Msg("ignoring input after End marker")
			}
			return nil
		case token.EOF:
			return nil
		default:
			p.section = "sections"
			return p.errorf(nil, "expected a section keyword, found %s", p.cur())
		}
	}
}

// parseExpression consumes a run of linear terms. It stops at a comparison
// operator, a section keyword, EOF, or a name-colon prefix introducing the
// next entry. Bare numeric terms are accumulated into constant.
func (p *parser) parseExpression() (coeffs []model.Coefficient, constant float64, hasConstant bool, err error) {
	for {
		k := p.cur().Kind
		if k == token.EOF || k.IsSectionKeyword() {
			return coeffs, constant, hasConstant, nil
		}
		if _, isCmp := compOp(k); isCmp {
			return coeffs, constant, hasConstant, nil
		}
		if k == token.Identifier && p.peek().Kind == token.Colon {
			return coeffs, constant, hasConstant, nil
		}

		sign := 1.0
		switch k {
		case token.Plus:
			p.advance()
		case token.Minus:
			sign = -1
			p.advance()
		}

		switch p.cur().Kind {
		case token.Number:
			value := sign * p.cur().Num
			p.advance()
			if p.cur().Kind == token.Identifier && p.peek().Kind != token.Colon {
				coeffs = append(coeffs, model.Coefficient{Var: p.cur().Lit, Value: value})
				p.advance()
			} else {
				constant += value
				hasConstant = true
			}
		case token.Identifier:
			coeffs = append(coeffs, model.Coefficient{Var: p.cur().Lit, Value: sign})
			p.advance()
		case token.Infinity:
			return nil, 0, false, p.errorf(nil, "infinity is not allowed in a linear expression")
		default:
			return nil, 0, false, p.errorf(nil, "expected a term, found %s", p.cur())
		}
	}
}

func (p *parser) parseBounds() error {
	p.section = "bounds"
	for {
		k := p.cur().Kind
		switch {
		case k == token.EOF || k.IsSectionKeyword():
			return nil
		case k == token.Identifier:
			if err := p.parseVariableFirstBound(); err != nil {
				return err
			}
		case k == token.Number || k == token.Plus || k == token.Minus || k == token.Infinity:
			if err := p.parseValueFirstBound(); err != nil {
				return err
			}
		default:
			return p.errorf(nil, "expected a bound, found %s", p.cur())
		}
	}
}

// parseVariableFirstBound handles "x free", "x <= v", "x >= v" and
// "x = v".
func (p *parser) parseVariableFirstBound() error {
	name := p.advance().Lit

	switch p.cur().Kind {
	case token.FreeKeyword:
		p.advance()
		return p.problem.AddVariable(name, model.FreeType())
	case token.LessEq, token.Less:
		p.advance()
		hi, err := p.parseSignedValue()
		if err != nil {
			return err
		}
		return p.setBound(name, math.Inf(-1), hi)
	case token.GreaterEq, token.Greater:
		p.advance()
		lo, err := p.parseSignedValue()
		if err != nil {
			return err
		}
		return p.setBound(name, lo, math.Inf(1))
	case token.Equal:
		p.advance()
		v, err := p.parseSignedValue()
		if err != nil {
			return err
		}
		return p.problem.AddVariable(name, model.DoubleBound(v, v))
	}
	return p.errorf(nil, "expected free, a comparison operator or =, found %s", p.cur())
}

// parseValueFirstBound handles "lo <= x", "lo <= x <= hi", "hi >= x" and
// "hi >= x >= lo".
func (p *parser) parseValueFirstBound() error {
	first, err := p.parseSignedValue()
	if err != nil {
		return err
	}

	lessDirection := false
	switch p.cur().Kind {
	case token.LessEq, token.Less:
		lessDirection = true
	case token.GreaterEq, token.Greater:
	default:
		return p.errorf(nil, "expected a comparison operator, found %s", p.cur())
	}
	p.advance()

	if p.cur().Kind != token.Identifier {
		return p.errorf(nil, "expected a variable name, found %s", p.cur())
	}
	name := p.advance().Lit

	lo, hi := first, math.Inf(1)
	if !lessDirection {
		lo, hi = math.Inf(-1), first
	}

	// Optional closing operator in the same direction. A two-operator
	// bound keeps its written form, so "0 <= x <= +inf" stays a
	// DoubleBound and is distinguishable from "x >= 0".
	closed := false
	switch {
	case lessDirection && (p.cur().Kind == token.LessEq || p.cur().Kind == token.Less):
		p.advance()
		if hi, err = p.parseSignedValue(); err != nil {
			return err
		}
		closed = true
	case !lessDirection && (p.cur().Kind == token.GreaterEq || p.cur().Kind == token.Greater):
		p.advance()
		if lo, err = p.parseSignedValue(); err != nil {
			return err
		}
		closed = true
	}
	if closed {
		return p.problem.AddVariable(name, model.DoubleBound(lo, hi))
	}
	return p.setBound(name, lo, hi)
}

// setBound stores the normalized type for a single-operator bound.
// Infinite endpoints collapse to the single-sided kinds, a fully infinite
// range to Free. A later bound line for the same variable replaces the
// earlier type.
func (p *parser) setBound(name string, lo, hi float64) error {
	var t model.VarType
	switch {
	case math.IsInf(lo, -1) && math.IsInf(hi, 1):
		t = model.FreeType()
	case math.IsInf(lo, -1):
		t = model.UpperBound(hi)
	case math.IsInf(hi, 1):
		t = model.LowerBound(lo)
	default:
		t = model.DoubleBound(lo, hi)
	}
	return p.problem.AddVariable(name, t)
}

func (p *parser) parseTypeList(section string, t model.VarType) error {
	p.section = section
	for p.cur().Kind == token.Identifier {
		if err := p.problem.AddVariable(p.advance().Lit, t); err != nil {
			return p.errorf(err, "invalid variable")
		}
	}
	k := p.cur().Kind
	if k != token.EOF && !k.IsSectionKeyword() {
		return p.errorf(nil, "expected a variable name, found %s", p.cur())
	}
	return nil
}

// parseSOS consumes entries of the form "name: S1:: var:weight ...".
func (p *parser) parseSOS() error {
	p.section = "sos"
	for p.cur().Kind == token.Identifier {
		name := p.advance().Lit
		if p.cur().Kind != token.Colon {
			return p.errorf(nil, "expected ':' after SOS constraint name %q", name)
		}
		p.advance()

		var sosType model.SOSType
		switch p.cur().Kind {
		case token.SOSTypeOne:
			sosType = model.SOS1
		case token.SOSTypeTwo:
			sosType = model.SOS2
		default:
			return p.errorf(nil, "expected S1 or S2, found %s", p.cur())
		}
		p.advance()

		if p.cur().Kind != token.DoubleColon {
			return p.errorf(nil, "expected '::' in SOS constraint %q", name)
		}
		p.advance()

		var weights []model.Coefficient
		for p.cur().Kind == token.Identifier && p.peek().Kind == token.Colon &&
			p.peekAt(2).Kind != token.SOSTypeOne && p.peekAt(2).Kind != token.SOSTypeTwo {
			variable := p.advance().Lit
			p.advance() // ':'
			w, err := p.parseSignedValue()
			if err != nil {
				return err
			}
			weights = append(weights, model.Coefficient{Var: variable, Value: w})
		}
		if len(weights) == 0 {
			return p.errorf(ErrEmptySection, "SOS constraint %q has no weights", name)
		}
		if err := p.problem.AddSOSConstraint(name, sosType, weights); err != nil {
			return p.errorf(err, "SOS constraint %q", name)
		}
	}

	k := p.cur().Kind
	if k != token.EOF && !k.IsSectionKeyword() {
		return p.errorf(nil, "expected an SOS constraint, found %s", p.cur())
	}
	return nil
}

// parseSignedValue reads an optionally signed number or infinity.
func (p *parser) parseSignedValue() (float64, error) {
	sign := 1.0
	switch p.cur().Kind {
	case token.Plus:
		p.advance()
	case token.Minus:
		sign = -1
		p.advance()
	}
	switch p.cur().Kind {
	case token.Number:
		return sign * p.advance().Num, nil
	case token.Infinity:
		p.advance()
		return sign * math.Inf(1), nil
	}
	return 0, p.errorf(nil, "expected a number, found %s", p.cur())
}

// freshName returns "prefix" for the first entry and "prefixN" after
// that, skipping names already taken.
func (p *parser) freshName(prefix string, ordinal int, taken func(string) bool) string {
	for {
		var name string
		if prefix == "obj" && ordinal == 1 {
			name = prefix
		} else {
			name = fmt.Sprintf("%s%d", prefix, ordinal)
		}
		if !taken(name) {
			return name
		}
		ordinal++
	}
}

func compOp(k token.Kind) (model.CompOp, bool) {
	switch k {
	case token.LessEq:
		return model.LTE, true
	case token.Less:
		return model.LT, true
	case token.GreaterEq:
		return model.GTE, true
	case token.Greater:
		return model.GT, true
	case token.Equal:
		return model.EQ, true
	}
	return 0, false
}
