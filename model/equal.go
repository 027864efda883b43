package model

// Equivalent reports whether two problems describe the same model: same
// name, sense, objectives (in order), constraints and variable types.
// Coefficient order inside a body is not observable, so terms are compared
// as variable-to-value maps. Values compare exactly, including sign and
// infinities.
func Equivalent(a, b *Problem) bool {
	if a.name != b.name || a.sense != b.sense {
		return false
	}
	if len(a.objectiveOrder) != len(b.objectiveOrder) ||
		len(a.constraints) != len(b.constraints) ||
		len(a.variables) != len(b.variables) {
		return false
	}

	for i, name := range a.objectiveOrder {
		if b.objectiveOrder[i] != name {
			return false
		}
		ao, bo := a.objectives[name], b.objectives[name]
		if ao.Constant != bo.Constant || !coefficientsEqual(ao.Coefficients, bo.Coefficients) {
			return false
		}
	}

	for name, ac := range a.constraints {
		bc, ok := b.constraints[name]
		if !ok || ac.Kind != bc.Kind {
			return false
		}
		switch ac.Kind {
		case StandardKind:
			if ac.Operator != bc.Operator || ac.RHS != bc.RHS ||
				!coefficientsEqual(ac.Coefficients, bc.Coefficients) {
				return false
			}
		case SOSKind:
			// SOS weight order is part of the set definition.
			if ac.SOSType != bc.SOSType || len(ac.Weights) != len(bc.Weights) {
				return false
			}
			for i := range ac.Weights {
				if ac.Weights[i] != bc.Weights[i] {
					return false
				}
			}
		}
	}

	for name, av := range a.variables {
		bv, ok := b.variables[name]
		if !ok || av.Type != bv.Type {
			return false
		}
	}
	return true
}

func coefficientsEqual(a, b []Coefficient) bool {
	if len(a) != len(b) {
		return false
	}
	terms := make(map[string]float64, len(a))
	for _, c := range a {
		terms[c.Var] = c.Value
	}
	for _, c := range b {
		v, ok := terms[c.Var]
		if !ok || v != c.Value {
			return false
		}
	}
	return true
}
