// Package writer renders a model.Problem back to LP format text.
//
// Output is deterministic: objectives keep their insertion order,
// constraints and variables are written in name order. Parsing the output
// with default options yields a problem equivalent to the input.
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lpkit/lpkit/model"
	"github.com/lpkit/lpkit/token"
)

// ErrInvalidName reports a name that the LP identifier grammar cannot
// express. Writing such a problem would produce unparseable text.
var ErrInvalidName = errors.New("invalid name")

// Options control the text layout.
type Options struct {
	// IncludeProblemName emits the "\Problem name:" comment when the
	// problem has a name.
	IncludeProblemName bool
	// MaxLineLength wraps expression bodies and type lists beyond this
	// width.
	MaxLineLength int
	// DecimalPrecision is the number of fractional digits for
	// non-integral values. Trailing zeros are trimmed.
	DecimalPrecision int
	// SectionSpacing separates sections with blank lines.
	SectionSpacing bool
}

func DefaultOptions() Options {
	return Options{
		IncludeProblemName: true,
		MaxLineLength:      80,
		DecimalPrecision:   6,
		SectionSpacing:     true,
	}
}

// Write renders the problem with default options.
func Write(p *model.Problem) (string, error) {
	return WriteWithOptions(p, DefaultOptions())
}

// WriteWithOptions renders the problem.
func WriteWithOptions(p *model.Problem, opts Options) (string, error) {
	if err := validateNames(p); err != nil {
		return "", err
	}

	w := &writer{opts: opts}

	if opts.IncludeProblemName && p.Name() != "" {
		w.linef("\\Problem name: %s", p.Name())
		w.sectionBreak()
	}

	w.linef("%s", p.Sense())
	for _, obj := range p.Objectives() {
		w.writeObjective(obj)
	}

	standard, sos := splitConstraints(p)
	if len(standard) > 0 {
		w.sectionBreak()
		w.linef("Subject To")
		for _, con := range standard {
			w.writeStandardConstraint(con)
		}
	}

	w.writeBounds(p)
	w.writeTypeSections(p)
	w.writeSOS(sos)

	w.sectionBreak()
	w.linef("End")
	return w.b.String(), nil
}

type writer struct {
	b    strings.Builder
	opts Options
}

func (w *writer) linef(format string, args ...any) {
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *writer) sectionBreak() {
	if w.opts.SectionSpacing {
		w.b.WriteByte('\n')
	}
}

func (w *writer) writeObjective(obj *model.Objective) {
	fmt.Fprintf(&w.b, " %s: ", obj.Name)
	w.writeExpression(obj.Coefficients)
	if obj.Constant != 0 {
		sign := "+"
		c := obj.Constant
		if c < 0 {
			sign = "-"
			c = -c
		}
		fmt.Fprintf(&w.b, " %s ", sign)
		w.writeNumber(c)
	}
	w.b.WriteByte('\n')
}

func (w *writer) writeStandardConstraint(con *model.Constraint) {
	fmt.Fprintf(&w.b, " %s: ", con.Name)
	w.writeExpression(con.Coefficients)
	fmt.Fprintf(&w.b, " %s ", con.Operator)
	w.writeNumber(con.RHS)
	w.b.WriteByte('\n')
}

func (w *writer) writeBounds(p *model.Problem) {
	var bounded []*model.Variable
	for _, v := range p.Variables() {
		switch v.Type.Kind {
		case model.Free, model.LowerBoundKind, model.UpperBoundKind, model.DoubleBoundKind:
			bounded = append(bounded, v)
		}
	}
	if len(bounded) == 0 {
		return
	}

	w.sectionBreak()
	w.linef("Bounds")
	for _, v := range bounded {
		switch v.Type.Kind {
		case model.Free:
			w.linef(" %s free", v.Name)
		case model.LowerBoundKind:
			fmt.Fprintf(&w.b, " %s >= ", v.Name)
			w.writeNumber(v.Type.Lower)
			w.b.WriteByte('\n')
		case model.UpperBoundKind:
			fmt.Fprintf(&w.b, " %s <= ", v.Name)
			w.writeNumber(v.Type.Upper)
			w.b.WriteByte('\n')
		case model.DoubleBoundKind:
			w.b.WriteByte(' ')
			w.writeNumber(v.Type.Lower)
			fmt.Fprintf(&w.b, " <= %s <= ", v.Name)
			w.writeNumber(v.Type.Upper)
			w.b.WriteByte('\n')
		}
	}
}

func (w *writer) writeTypeSections(p *model.Problem) {
	var binaries, integers, semis []string
	for _, v := range p.Variables() {
		switch v.Type.Kind {
		case model.Binary:
			binaries = append(binaries, v.Name)
		case model.Integer:
			integers = append(integers, v.Name)
		case model.SemiContinuous:
			semis = append(semis, v.Name)
		}
	}

	w.writeTypeSection("Binaries", binaries)
	w.writeTypeSection("Integers", integers)
	w.writeTypeSection("Semi-Continuous", semis)
}

func (w *writer) writeTypeSection(header string, names []string) {
	if len(names) == 0 {
		return
	}
	w.sectionBreak()
	w.linef("%s", header)

	width := 0
	for i, name := range names {
		entry := 1 + len(name)
		if i > 0 && width+entry > w.opts.MaxLineLength {
			w.b.WriteByte('\n')
			width = 0
		}
		w.b.WriteByte(' ')
		w.b.WriteString(name)
		width += entry
	}
	w.b.WriteByte('\n')
}

func (w *writer) writeSOS(sos []*model.Constraint) {
	if len(sos) == 0 {
		return
	}
	w.sectionBreak()
	w.linef("SOS")
	for _, con := range sos {
		fmt.Fprintf(&w.b, " %s: %s::", con.Name, con.SOSType)
		for _, weight := range con.Weights {
			fmt.Fprintf(&w.b, " %s:", weight.Var)
			w.writeNumber(weight.Value)
		}
		w.b.WriteByte('\n')
	}
}

// writeExpression renders coefficients, wrapping long bodies onto
// continuation lines.
func (w *writer) writeExpression(coefficients []model.Coefficient) {
	const continuationIndent = "        "
	width := 0

	for i, c := range coefficients {
		if i > 0 && width+estimateTermLen(c) > w.opts.MaxLineLength {
			w.b.WriteByte('\n')
			w.b.WriteString(continuationIndent)
			width = len(continuationIndent)
		}

		before := w.b.Len()
		w.writeTerm(c, i == 0)
		width += w.b.Len() - before
	}
}

const numericEpsilon = 1e-10

func isUnit(v float64) bool {
	d := v - 1
	if v < 0 {
		d = -v - 1
	}
	return d < numericEpsilon && d > -numericEpsilon
}

func estimateTermLen(c model.Coefficient) int {
	numberLen := 12
	if isUnit(c.Value) {
		numberLen = 0
	}
	return 3 + numberLen + 1 + len(c.Var)
}

func (w *writer) writeTerm(c model.Coefficient, first bool) {
	negative := c.Value < 0
	abs := c.Value
	if negative {
		abs = -abs
	}
	unit := isUnit(c.Value)

	switch {
	case first && negative && unit:
		fmt.Fprintf(&w.b, "- %s", c.Var)
	case first && negative:
		w.b.WriteString("- ")
		w.writeNumber(abs)
		fmt.Fprintf(&w.b, " %s", c.Var)
	case first && unit:
		w.b.WriteString(c.Var)
	case first:
		w.writeNumber(abs)
		fmt.Fprintf(&w.b, " %s", c.Var)
	default:
		sign := "+"
		if negative {
			sign = "-"
		}
		if unit {
			fmt.Fprintf(&w.b, " %s %s", sign, c.Var)
		} else {
			fmt.Fprintf(&w.b, " %s ", sign)
			w.writeNumber(abs)
			fmt.Fprintf(&w.b, " %s", c.Var)
		}
	}
}

// writeNumber formats v with the configured precision, trimming trailing
// zeros. Whole values in i64 range print without a decimal point.
// Infinities print as signed "inf" so the scanner can read them back.
func (w *writer) writeNumber(v float64) {
	w.b.WriteString(formatNumber(v, w.opts.DecimalPrecision))
}

func splitConstraints(p *model.Problem) (standard, sos []*model.Constraint) {
	for _, con := range p.Constraints() {
		if con.Kind == model.SOSKind {
			sos = append(sos, con)
		} else {
			standard = append(standard, con)
		}
	}
	return standard, sos
}

func validateNames(p *model.Problem) error {
	for _, obj := range p.Objectives() {
		if !token.IsValidIdentifier(obj.Name) {
			return fmt.Errorf("%w: objective %q", ErrInvalidName, obj.Name)
		}
	}
	for _, con := range p.Constraints() {
		if !token.IsValidIdentifier(con.Name) {
			return fmt.Errorf("%w: constraint %q", ErrInvalidName, con.Name)
		}
	}
	for _, v := range p.Variables() {
		if !token.IsValidIdentifier(v.Name) {
			return fmt.Errorf("%w: variable %q", ErrInvalidName, v.Name)
		}
	}
	return nil
}
