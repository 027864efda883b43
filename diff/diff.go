// Package diff computes structural differences between two LP problems.
//
// A Report lists, per section, only the entries that changed, sorted by
// name, together with counts of added, removed, modified and unchanged
// entries. Numeric comparison is exact by default; Options.Tolerance
// relaxes it.
package diff

import (
	"math"
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/lpkit/lpkit/model"
)

// Options control numeric comparison.
type Options struct {
	// Tolerance treats values whose difference is within it as equal.
	// Zero compares exactly.
	Tolerance float64
}

func DefaultOptions() Options { return Options{} }

// ChangeKind classifies a diff entry.
type ChangeKind uint8

const (
	Added ChangeKind = iota
	Removed
	Modified
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	}
	return "modified"
}

// Counts tallies one section of the report.
type Counts struct {
	Added     int
	Removed   int
	Modified  int
	Unchanged int
}

func (c Counts) Total() int { return c.Added + c.Removed + c.Modified + c.Unchanged }

func (c Counts) hasChanges() bool { return c.Added+c.Removed+c.Modified > 0 }

func (c Counts) add(o Counts) Counts {
	return Counts{
		Added:     c.Added + o.Added,
		Removed:   c.Removed + o.Removed,
		Modified:  c.Modified + o.Modified,
		Unchanged: c.Unchanged + o.Unchanged,
	}
}

// ValueChange is an old/new pair for a scalar.
type ValueChange struct {
	Old float64
	New float64
}

// CoefficientChange is one changed term. Old is nil when the term only
// exists on the new side, New when it only exists on the old side.
type CoefficientChange struct {
	Var string
	Old *float64
	New *float64
}

// SenseChange reports a flipped optimization direction.
type SenseChange struct {
	Old model.Sense
	New model.Sense
}

// NameChange reports a renamed problem.
type NameChange struct {
	Old string
	New string
}

// VariableEntry is a changed variable.
type VariableEntry struct {
	Name string
	Kind ChangeKind
	Old  *model.VarType
	New  *model.VarType
}

// ObjectiveEntry is a changed objective. Old and New are the full
// objectives where present; Coefficients and Constant are populated for
// Modified entries.
type ObjectiveEntry struct {
	Name         string
	Kind         ChangeKind
	Old          *model.Objective
	New          *model.Objective
	Coefficients []CoefficientChange
	Constant     *ValueChange
}

// OperatorChange reports a changed comparison operator.
type OperatorChange struct {
	Old model.CompOp
	New model.CompOp
}

// SOSTypeChange reports a changed special ordered set type.
type SOSTypeChange struct {
	Old model.SOSType
	New model.SOSType
}

// ConstraintDetail describes what changed inside a Modified constraint.
// KindChanged is set when the constraint switched between standard and
// SOS; the remaining fields then stay empty and Old/New on the entry
// carry the two forms.
type ConstraintDetail struct {
	KindChanged  bool
	Coefficients []CoefficientChange
	Operator     *OperatorChange
	RHS          *ValueChange
	SOSType      *SOSTypeChange
	Weights      []CoefficientChange
}

// ConstraintEntry is a changed constraint. Old and New are the full
// constraints where present.
type ConstraintEntry struct {
	Name   string
	Kind   ChangeKind
	Old    *model.Constraint
	New    *model.Constraint
	Detail *ConstraintDetail
}

// SectionDiff holds the changed entries of one section plus its counts.
type SectionDiff[E any] struct {
	Entries []E
	Counts  Counts
}

// Report is the full comparison result.
type Report struct {
	Sense       *SenseChange
	Name        *NameChange
	Objectives  SectionDiff[ObjectiveEntry]
	Constraints SectionDiff[ConstraintEntry]
	Variables   SectionDiff[VariableEntry]
}

// HasChanges reports whether anything differs.
func (r *Report) HasChanges() bool {
	return r.Sense != nil || r.Name != nil ||
		r.Objectives.Counts.hasChanges() ||
		r.Constraints.Counts.hasChanges() ||
		r.Variables.Counts.hasChanges()
}

// Summary aggregates the three section counts.
func (r *Report) Summary() Counts {
	return r.Objectives.Counts.add(r.Constraints.Counts).add(r.Variables.Counts)
}

// Compare diffs two problems with exact numeric comparison.
func Compare(a, b *model.Problem) *Report {
	return CompareWithOptions(a, b, DefaultOptions())
}

// CompareWithOptions diffs two problems.
func CompareWithOptions(a, b *model.Problem, opts Options) *Report {
	c := comparer{eq: equalWithin(opts.Tolerance)}
	r := &Report{}

	if a.Sense() != b.Sense() {
		r.Sense = &SenseChange{Old: a.Sense(), New: b.Sense()}
	}
	if a.Name() != b.Name() {
		r.Name = &NameChange{Old: a.Name(), New: b.Name()}
	}

	r.Objectives = c.diffObjectives(a, b)
	r.Constraints = c.diffConstraints(a, b)
	r.Variables = c.diffVariables(a, b)
	return r
}

type comparer struct {
	eq func(x, y float64) bool
}

func equalWithin(tolerance float64) func(x, y float64) bool {
	return func(x, y float64) bool {
		if x == y {
			return true
		}
		return math.Abs(x-y) <= tolerance
	}
}

func (c comparer) diffObjectives(a, b *model.Problem) SectionDiff[ObjectiveEntry] {
	var d SectionDiff[ObjectiveEntry]
	for _, name := range unionNames(objectiveNames(a), objectiveNames(b)) {
		oldObj, hasOld := a.Objective(name)
		newObj, hasNew := b.Objective(name)
		switch {
		case !hasOld:
			d.Counts.Added++
			d.Entries = append(d.Entries, ObjectiveEntry{Name: name, Kind: Added, New: newObj})
		case !hasNew:
			d.Counts.Removed++
			d.Entries = append(d.Entries, ObjectiveEntry{Name: name, Kind: Removed, Old: oldObj})
		default:
			coeffs := c.diffCoefficients(oldObj.Coefficients, newObj.Coefficients)
			var constant *ValueChange
			if !c.eq(oldObj.Constant, newObj.Constant) {
				constant = &ValueChange{Old: oldObj.Constant, New: newObj.Constant}
			}
			if len(coeffs) == 0 && constant == nil {
				d.Counts.Unchanged++
				continue
			}
			d.Counts.Modified++
			d.Entries = append(d.Entries, ObjectiveEntry{
				Name:         name,
				Kind:         Modified,
				Old:          oldObj,
				New:          newObj,
				Coefficients: coeffs,
				Constant:     constant,
			})
		}
	}
	return d
}

func (c comparer) diffConstraints(a, b *model.Problem) SectionDiff[ConstraintEntry] {
	var d SectionDiff[ConstraintEntry]
	for _, name := range unionNames(constraintNames(a), constraintNames(b)) {
		oldCon, hasOld := a.Constraint(name)
		newCon, hasNew := b.Constraint(name)
		switch {
		case !hasOld:
			d.Counts.Added++
			d.Entries = append(d.Entries, ConstraintEntry{Name: name, Kind: Added, New: newCon})
		case !hasNew:
			d.Counts.Removed++
			d.Entries = append(d.Entries, ConstraintEntry{Name: name, Kind: Removed, Old: oldCon})
		default:
			detail := c.diffConstraintPair(oldCon, newCon)
			if detail == nil {
				d.Counts.Unchanged++
				continue
			}
			d.Counts.Modified++
			d.Entries = append(d.Entries, ConstraintEntry{
				Name:   name,
				Kind:   Modified,
				Old:    oldCon,
				New:    newCon,
				Detail: detail,
			})
		}
	}
	return d
}

// diffConstraintPair returns nil when the two constraints are equal.
func (c comparer) diffConstraintPair(oldCon, newCon *model.Constraint) *ConstraintDetail {
	if oldCon.Kind != newCon.Kind {
		return &ConstraintDetail{KindChanged: true}
	}

	detail := &ConstraintDetail{}
	changed := false
	switch oldCon.Kind {
	case model.StandardKind:
		detail.Coefficients = c.diffCoefficients(oldCon.Coefficients, newCon.Coefficients)
		changed = len(detail.Coefficients) > 0
		if oldCon.Operator != newCon.Operator {
			detail.Operator = &OperatorChange{Old: oldCon.Operator, New: newCon.Operator}
			changed = true
		}
		if !c.eq(oldCon.RHS, newCon.RHS) {
			detail.RHS = &ValueChange{Old: oldCon.RHS, New: newCon.RHS}
			changed = true
		}
	case model.SOSKind:
		if oldCon.SOSType != newCon.SOSType {
			detail.SOSType = &SOSTypeChange{Old: oldCon.SOSType, New: newCon.SOSType}
			changed = true
		}
		detail.Weights = c.diffCoefficients(oldCon.Weights, newCon.Weights)
		changed = changed || len(detail.Weights) > 0
	}

	if !changed {
		return nil
	}
	return detail
}

func (c comparer) diffVariables(a, b *model.Problem) SectionDiff[VariableEntry] {
	var d SectionDiff[VariableEntry]
	for _, name := range unionNames(variableNames(a), variableNames(b)) {
		oldVar, hasOld := a.Variable(name)
		newVar, hasNew := b.Variable(name)
		switch {
		case !hasOld:
			t := newVar.Type
			d.Counts.Added++
			d.Entries = append(d.Entries, VariableEntry{Name: name, Kind: Added, New: &t})
		case !hasNew:
			t := oldVar.Type
			d.Counts.Removed++
			d.Entries = append(d.Entries, VariableEntry{Name: name, Kind: Removed, Old: &t})
		default:
			if c.varTypeEqual(oldVar.Type, newVar.Type) {
				d.Counts.Unchanged++
				continue
			}
			ot, nt := oldVar.Type, newVar.Type
			d.Counts.Modified++
			d.Entries = append(d.Entries, VariableEntry{Name: name, Kind: Modified, Old: &ot, New: &nt})
		}
	}
	return d
}

func (c comparer) varTypeEqual(x, y model.VarType) bool {
	if x.Kind != y.Kind {
		return false
	}
	switch x.Kind {
	case model.LowerBoundKind:
		return c.eq(x.Lower, y.Lower)
	case model.UpperBoundKind:
		return c.eq(x.Upper, y.Upper)
	case model.DoubleBoundKind:
		return c.eq(x.Lower, y.Lower) && c.eq(x.Upper, y.Upper)
	}
	return true
}

// diffCoefficients matches terms by variable name and returns the changed
// ones sorted by name. A bitset tracks which new-side terms have been
// matched so leftovers surface as additions.
func (c comparer) diffCoefficients(oldCoeffs, newCoeffs []model.Coefficient) []CoefficientChange {
	matched := bitset.New(uint(len(newCoeffs)))
	var changes []CoefficientChange

	for _, oc := range oldCoeffs {
		found := -1
		for j := range newCoeffs {
			if !matched.Test(uint(j)) && newCoeffs[j].Var == oc.Var {
				found = j
				break
			}
		}
		if found < 0 {
			old := oc.Value
			changes = append(changes, CoefficientChange{Var: oc.Var, Old: &old})
			continue
		}
		matched.Set(uint(found))
		if !c.eq(oc.Value, newCoeffs[found].Value) {
			old, now := oc.Value, newCoeffs[found].Value
			changes = append(changes, CoefficientChange{Var: oc.Var, Old: &old, New: &now})
		}
	}

	for j := range newCoeffs {
		if !matched.Test(uint(j)) {
			now := newCoeffs[j].Value
			changes = append(changes, CoefficientChange{Var: newCoeffs[j].Var, New: &now})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Var < changes[j].Var })
	return changes
}

func objectiveNames(p *model.Problem) []string {
	objs := p.Objectives()
	names := make([]string, len(objs))
	for i, o := range objs {
		names[i] = o.Name
	}
	return names
}

func constraintNames(p *model.Problem) []string {
	cons := p.Constraints()
	names := make([]string, len(cons))
	for i, c := range cons {
		names[i] = c.Name
	}
	return names
}

func variableNames(p *model.Problem) []string {
	vars := p.Variables()
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	return names
}

// unionNames merges two name lists into a sorted, deduplicated union.
func unionNames(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, name := range a {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	for _, name := range b {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
