package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a mutation aimed at a name the problem does not
	// contain.
	ErrNotFound = errors.New("not found")
	// ErrInvalidValue reports a mutation argument that violates a model
	// invariant, such as a duplicate or empty name.
	ErrInvalidValue = errors.New("invalid value")
)

// SetName sets the problem name.
func (p *Problem) SetName(name string) { p.name = name }

// SetSense sets the optimization direction.
func (p *Problem) SetSense(s Sense) { p.sense = s }

// ensureVariable creates the variable with the given type if it does not
// exist yet.
func (p *Problem) ensureVariable(name string, t VarType) {
	if _, ok := p.variables[name]; !ok {
		p.variables[name] = &Variable{Name: name, Type: t}
	}
}

// AddVariable inserts or retypes a variable.
func (p *Problem) AddVariable(name string, t VarType) error {
	if name == "" {
		return fmt.Errorf("%w: empty variable name", ErrInvalidValue)
	}
	if v, ok := p.variables[name]; ok {
		v.Type = t
		return nil
	}
	p.variables[name] = &Variable{Name: name, Type: t}
	return nil
}

// AddObjective appends a named objective. Variables referenced by the
// coefficients are created with the problem's default type when absent.
// Duplicate variables within the coefficient list are summed.
func (p *Problem) AddObjective(name string, coefficients []Coefficient) error {
	if name == "" {
		return fmt.Errorf("%w: empty objective name", ErrInvalidValue)
	}
	if _, ok := p.objectives[name]; ok {
		return fmt.Errorf("%w: objective %q already exists", ErrInvalidValue, name)
	}
	obj := &Objective{Name: name, Coefficients: accumulate(coefficients)}
	for _, c := range obj.Coefficients {
		p.ensureVariable(c.Var, p.defaultType)
	}
	p.objectives[name] = obj
	p.objectiveOrder = append(p.objectiveOrder, name)
	return nil
}

// AddConstraint inserts a standard constraint, creating referenced
// variables as needed.
func (p *Problem) AddConstraint(name string, coefficients []Coefficient, op CompOp, rhs float64) error {
	if name == "" {
		return fmt.Errorf("%w: empty constraint name", ErrInvalidValue)
	}
	if _, ok := p.constraints[name]; ok {
		return fmt.Errorf("%w: constraint %q already exists", ErrInvalidValue, name)
	}
	con := &Constraint{
		Name:         name,
		Kind:         StandardKind,
		Coefficients: accumulate(coefficients),
		Operator:     op,
		RHS:          rhs,
	}
	for _, c := range con.Coefficients {
		p.ensureVariable(c.Var, p.defaultType)
	}
	p.constraints[name] = con
	return nil
}

// AddSOSConstraint inserts a special ordered set. Referenced variables are
// created as SOS members when absent.
func (p *Problem) AddSOSConstraint(name string, t SOSType, weights []Coefficient) error {
	if name == "" {
		return fmt.Errorf("%w: empty constraint name", ErrInvalidValue)
	}
	if t != SOS1 && t != SOS2 {
		return fmt.Errorf("%w: SOS type %d", ErrInvalidValue, t)
	}
	if _, ok := p.constraints[name]; ok {
		return fmt.Errorf("%w: constraint %q already exists", ErrInvalidValue, name)
	}
	con := &Constraint{Name: name, Kind: SOSKind, SOSType: t, Weights: weights}
	for _, w := range weights {
		p.ensureVariable(w.Var, SOSMemberType())
	}
	p.constraints[name] = con
	return nil
}

// UpdateObjectiveCoefficient sets the coefficient of variable on the named
// objective, appending the term (and creating the variable) when absent.
func (p *Problem) UpdateObjectiveCoefficient(objective, variable string, value float64) error {
	obj, ok := p.objectives[objective]
	if !ok {
		return fmt.Errorf("%w: objective %q", ErrNotFound, objective)
	}
	p.ensureVariable(variable, p.defaultType)
	setCoefficient(&obj.Coefficients, variable, value)
	return nil
}

// RenameObjective renames an objective, keeping its position.
func (p *Problem) RenameObjective(oldName, newName string) error {
	obj, ok := p.objectives[oldName]
	if !ok {
		return fmt.Errorf("%w: objective %q", ErrNotFound, oldName)
	}
	if newName == "" {
		return fmt.Errorf("%w: empty objective name", ErrInvalidValue)
	}
	if _, ok := p.objectives[newName]; ok {
		return fmt.Errorf("%w: objective %q already exists", ErrInvalidValue, newName)
	}
	delete(p.objectives, oldName)
	obj.Name = newName
	p.objectives[newName] = obj
	for i, n := range p.objectiveOrder {
		if n == oldName {
			p.objectiveOrder[i] = newName
			break
		}
	}
	return nil
}

// RemoveObjective removes an objective.
func (p *Problem) RemoveObjective(name string) error {
	if _, ok := p.objectives[name]; !ok {
		return fmt.Errorf("%w: objective %q", ErrNotFound, name)
	}
	delete(p.objectives, name)
	for i, n := range p.objectiveOrder {
		if n == name {
			p.objectiveOrder = append(p.objectiveOrder[:i], p.objectiveOrder[i+1:]...)
			break
		}
	}
	return nil
}

// UpdateConstraintCoefficient sets the coefficient of variable on the named
// standard constraint, appending the term (and creating the variable) when
// absent.
func (p *Problem) UpdateConstraintCoefficient(constraint, variable string, value float64) error {
	con, ok := p.constraints[constraint]
	if !ok {
		return fmt.Errorf("%w: constraint %q", ErrNotFound, constraint)
	}
	if con.Kind != StandardKind {
		return fmt.Errorf("%w: constraint %q is an SOS constraint", ErrInvalidValue, constraint)
	}
	p.ensureVariable(variable, p.defaultType)
	setCoefficient(&con.Coefficients, variable, value)
	return nil
}

// UpdateConstraintRHS sets the right-hand side of a standard constraint.
func (p *Problem) UpdateConstraintRHS(name string, rhs float64) error {
	con, ok := p.constraints[name]
	if !ok {
		return fmt.Errorf("%w: constraint %q", ErrNotFound, name)
	}
	if con.Kind != StandardKind {
		return fmt.Errorf("%w: constraint %q is an SOS constraint", ErrInvalidValue, name)
	}
	con.RHS = rhs
	return nil
}

// RenameConstraint renames a constraint.
func (p *Problem) RenameConstraint(oldName, newName string) error {
	con, ok := p.constraints[oldName]
	if !ok {
		return fmt.Errorf("%w: constraint %q", ErrNotFound, oldName)
	}
	if newName == "" {
		return fmt.Errorf("%w: empty constraint name", ErrInvalidValue)
	}
	if _, ok := p.constraints[newName]; ok {
		return fmt.Errorf("%w: constraint %q already exists", ErrInvalidValue, newName)
	}
	delete(p.constraints, oldName)
	con.Name = newName
	p.constraints[newName] = con
	return nil
}

// RemoveConstraint removes a constraint.
func (p *Problem) RemoveConstraint(name string) error {
	if _, ok := p.constraints[name]; !ok {
		return fmt.Errorf("%w: constraint %q", ErrNotFound, name)
	}
	delete(p.constraints, name)
	return nil
}

// UpdateVariableType retypes a variable.
func (p *Problem) UpdateVariableType(name string, t VarType) error {
	v, ok := p.variables[name]
	if !ok {
		return fmt.Errorf("%w: variable %q", ErrNotFound, name)
	}
	v.Type = t
	return nil
}

// RenameVariable renames a variable and rewrites every objective
// coefficient, constraint coefficient and SOS weight that references it.
func (p *Problem) RenameVariable(oldName, newName string) error {
	v, ok := p.variables[oldName]
	if !ok {
		return fmt.Errorf("%w: variable %q", ErrNotFound, oldName)
	}
	if newName == "" {
		return fmt.Errorf("%w: empty variable name", ErrInvalidValue)
	}
	if _, ok := p.variables[newName]; ok {
		return fmt.Errorf("%w: variable %q already exists", ErrInvalidValue, newName)
	}

	delete(p.variables, oldName)
	v.Name = newName
	p.variables[newName] = v

	for _, obj := range p.objectives {
		renameCoefficient(obj.Coefficients, oldName, newName)
	}
	for _, con := range p.constraints {
		renameCoefficient(con.Coefficients, oldName, newName)
		renameCoefficient(con.Weights, oldName, newName)
	}
	return nil
}

// RemoveVariable removes a variable and strips its terms from every
// objective and constraint.
func (p *Problem) RemoveVariable(name string) error {
	if _, ok := p.variables[name]; !ok {
		return fmt.Errorf("%w: variable %q", ErrNotFound, name)
	}
	delete(p.variables, name)

	for _, obj := range p.objectives {
		obj.Coefficients = stripCoefficient(obj.Coefficients, name)
	}
	for _, con := range p.constraints {
		con.Coefficients = stripCoefficient(con.Coefficients, name)
		con.Weights = stripCoefficient(con.Weights, name)
	}
	return nil
}

// accumulate sums duplicate variable references, keeping the position of
// the first occurrence.
func accumulate(coefficients []Coefficient) []Coefficient {
	out := make([]Coefficient, 0, len(coefficients))
	index := make(map[string]int, len(coefficients))
	for _, c := range coefficients {
		if i, ok := index[c.Var]; ok {
			out[i].Value += c.Value
			continue
		}
		index[c.Var] = len(out)
		out = append(out, c)
	}
	return out
}

func setCoefficient(coefficients *[]Coefficient, variable string, value float64) {
	for i := range *coefficients {
		if (*coefficients)[i].Var == variable {
			(*coefficients)[i].Value = value
			return
		}
	}
	*coefficients = append(*coefficients, Coefficient{Var: variable, Value: value})
}

func renameCoefficient(coefficients []Coefficient, oldName, newName string) {
	for i := range coefficients {
		if coefficients[i].Var == oldName {
			coefficients[i].Var = newName
		}
	}
}

func stripCoefficient(coefficients []Coefficient, name string) []Coefficient {
	out := coefficients[:0]
	for _, c := range coefficients {
		if c.Var != name {
			out = append(out, c)
		}
	}
	return out
}
