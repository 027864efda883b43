// Package analysis computes summary statistics, structural metrics and
// diagnostic issues for an LP problem.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lpkit/lpkit/model"
)

// Config holds the thresholds used by issue detection.
type Config struct {
	// LargeCoefficientThreshold flags coefficient magnitudes above it.
	LargeCoefficientThreshold float64
	// SmallCoefficientThreshold flags non-zero magnitudes below it.
	SmallCoefficientThreshold float64
	// LargeRHSThreshold flags right-hand side magnitudes above it.
	LargeRHSThreshold float64
	// CoefficientRatioThreshold flags max/min magnitude ratios above it.
	CoefficientRatioThreshold float64
}

func DefaultConfig() Config {
	return Config{
		LargeCoefficientThreshold: 1e9,
		SmallCoefficientThreshold: 1e-9,
		LargeRHSThreshold:         1e9,
		CoefficientRatioThreshold: 1e6,
	}
}

// Severity grades an issue.
type Severity uint8

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "ERROR"
	case Warning:
		return "WARNING"
	}
	return "INFO"
}

// Category classifies an issue.
type Category uint8

const (
	InvalidBounds Category = iota
	NumericalScaling
	EmptyConstraint
	UnusedVariable
	FixedVariable
	SingletonConstraint
	Other
)

func (c Category) String() string {
	switch c {
	case InvalidBounds:
		return "Invalid Bounds"
	case NumericalScaling:
		return "Numerical Scaling"
	case EmptyConstraint:
		return "Empty Constraint"
	case UnusedVariable:
		return "Unused Variable"
	case FixedVariable:
		return "Fixed Variable"
	case SingletonConstraint:
		return "Singleton Constraint"
	}
	return "Other"
}

// Issue is one detected problem or observation.
type Issue struct {
	Severity Severity
	Category Category
	Message  string
	Details  string
}

func (i Issue) String() string {
	if i.Details != "" {
		return fmt.Sprintf("[%s] %s (%s)", i.Severity, i.Message, i.Details)
	}
	return fmt.Sprintf("[%s] %s", i.Severity, i.Message)
}

// Summary holds the headline counts.
type Summary struct {
	Name            string
	Sense           model.Sense
	ObjectiveCount  int
	ConstraintCount int
	VariableCount   int
	// TotalNonzeros counts coefficients across standard constraints.
	TotalNonzeros int
	// Density is TotalNonzeros / (constraints * variables).
	Density float64
}

// Sparsity describes how many variables constraints touch.
type Sparsity struct {
	MinVarsPerConstraint int
	MaxVarsPerConstraint int
	AvgVarsPerConstraint float64
}

// TypeDistribution counts variables per type.
type TypeDistribution struct {
	Free           int
	General        int
	LowerBounded   int
	UpperBounded   int
	DoubleBounded  int
	Binary         int
	Integer        int
	SemiContinuous int
	SOS            int
}

// Continuous sums the non-discrete buckets.
func (d TypeDistribution) Continuous() int {
	return d.Free + d.General + d.LowerBounded + d.UpperBounded + d.DoubleBounded
}

// Variables holds variable-level findings.
type Variables struct {
	Types TypeDistribution
	// Fixed lists variables whose lower bound equals their upper bound.
	Fixed []string
	// Unused lists variables referenced by no objective or constraint.
	Unused []string
	// DiscreteCount is binaries plus integers.
	DiscreteCount int
}

// OperatorDistribution counts standard constraints per operator.
type OperatorDistribution struct {
	Equal         int
	LessEqual     int
	GreaterEqual  int
	StrictLess    int
	StrictGreater int
}

// Constraints holds constraint-level findings.
type Constraints struct {
	Operators OperatorDistribution
	SOS1Count int
	SOS2Count int
	// Singletons lists standard constraints with exactly one variable.
	Singletons []string
	RHSMin     float64
	RHSMax     float64
}

// Coefficients holds magnitude statistics over all expression terms.
type Coefficients struct {
	MinMagnitude float64
	MaxMagnitude float64
	// Ratio is MaxMagnitude / MinMagnitude, the scaling indicator.
	Ratio float64
}

// Analysis is the complete report.
type Analysis struct {
	Summary      Summary
	Sparsity     Sparsity
	Variables    Variables
	Constraints  Constraints
	Coefficients Coefficients
	Issues       []Issue
}

// Analyze runs the analysis with default thresholds.
func Analyze(p *model.Problem) *Analysis {
	return AnalyzeWithConfig(p, DefaultConfig())
}

// AnalyzeWithConfig runs the analysis.
func AnalyzeWithConfig(p *model.Problem, cfg Config) *Analysis {
	a := &Analysis{}
	a.Summary = summarize(p)
	a.Sparsity = sparsity(p)
	a.Variables = analyzeVariables(p)
	a.Constraints = analyzeConstraints(p)
	a.Coefficients = analyzeCoefficients(p)
	a.Issues = detectIssues(p, cfg, a)
	return a
}

func summarize(p *model.Problem) Summary {
	s := Summary{
		Name:            p.Name(),
		Sense:           p.Sense(),
		ObjectiveCount:  p.NumObjectives(),
		ConstraintCount: p.NumConstraints(),
		VariableCount:   p.NumVariables(),
	}
	for _, con := range p.Constraints() {
		s.TotalNonzeros += len(con.Coefficients)
	}
	if s.ConstraintCount > 0 && s.VariableCount > 0 {
		s.Density = float64(s.TotalNonzeros) / float64(s.ConstraintCount*s.VariableCount)
	}
	return s
}

func sparsity(p *model.Problem) Sparsity {
	sp := Sparsity{}
	count := 0
	total := 0
	for _, con := range p.Constraints() {
		if con.Kind != model.StandardKind {
			continue
		}
		n := len(con.Coefficients)
		if count == 0 || n < sp.MinVarsPerConstraint {
			sp.MinVarsPerConstraint = n
		}
		if n > sp.MaxVarsPerConstraint {
			sp.MaxVarsPerConstraint = n
		}
		total += n
		count++
	}
	if count > 0 {
		sp.AvgVarsPerConstraint = float64(total) / float64(count)
	}
	return sp
}

func analyzeVariables(p *model.Problem) Variables {
	va := Variables{}

	referenced := make(map[string]struct{})
	for _, obj := range p.Objectives() {
		for _, c := range obj.Coefficients {
			referenced[c.Var] = struct{}{}
		}
	}
	for _, con := range p.Constraints() {
		for _, c := range con.Coefficients {
			referenced[c.Var] = struct{}{}
		}
		for _, w := range con.Weights {
			referenced[w.Var] = struct{}{}
		}
	}

	for _, v := range p.Variables() {
		switch v.Type.Kind {
		case model.Free:
			va.Types.Free++
		case model.General:
			va.Types.General++
		case model.LowerBoundKind:
			va.Types.LowerBounded++
		case model.UpperBoundKind:
			va.Types.UpperBounded++
		case model.DoubleBoundKind:
			va.Types.DoubleBounded++
			if v.Type.Lower == v.Type.Upper {
				va.Fixed = append(va.Fixed, v.Name)
			}
		case model.Binary:
			va.Types.Binary++
		case model.Integer:
			va.Types.Integer++
		case model.SemiContinuous:
			va.Types.SemiContinuous++
		case model.SOSMember:
			va.Types.SOS++
		}
		if _, ok := referenced[v.Name]; !ok {
			va.Unused = append(va.Unused, v.Name)
		}
	}
	va.DiscreteCount = va.Types.Binary + va.Types.Integer
	sort.Strings(va.Fixed)
	sort.Strings(va.Unused)
	return va
}

func analyzeConstraints(p *model.Problem) Constraints {
	ca := Constraints{RHSMin: math.Inf(1), RHSMax: math.Inf(-1)}
	hasRHS := false

	for _, con := range p.Constraints() {
		switch con.Kind {
		case model.SOSKind:
			if con.SOSType == model.SOS2 {
				ca.SOS2Count++
			} else {
				ca.SOS1Count++
			}
		case model.StandardKind:
			switch con.Operator {
			case model.EQ:
				ca.Operators.Equal++
			case model.LTE:
				ca.Operators.LessEqual++
			case model.GTE:
				ca.Operators.GreaterEqual++
			case model.LT:
				ca.Operators.StrictLess++
			case model.GT:
				ca.Operators.StrictGreater++
			}
			if len(con.Coefficients) == 1 {
				ca.Singletons = append(ca.Singletons, con.Name)
			}
			ca.RHSMin = math.Min(ca.RHSMin, con.RHS)
			ca.RHSMax = math.Max(ca.RHSMax, con.RHS)
			hasRHS = true
		}
	}
	if !hasRHS {
		ca.RHSMin, ca.RHSMax = 0, 0
	}
	return ca
}

func analyzeCoefficients(p *model.Problem) Coefficients {
	co := Coefficients{MinMagnitude: math.Inf(1)}
	seen := false

	scan := func(coeffs []model.Coefficient) {
		for _, c := range coeffs {
			mag := math.Abs(c.Value)
			if mag == 0 {
				continue
			}
			co.MinMagnitude = math.Min(co.MinMagnitude, mag)
			co.MaxMagnitude = math.Max(co.MaxMagnitude, mag)
			seen = true
		}
	}
	for _, obj := range p.Objectives() {
		scan(obj.Coefficients)
	}
	for _, con := range p.Constraints() {
		scan(con.Coefficients)
	}

	if !seen {
		co.MinMagnitude = 0
		return co
	}
	co.Ratio = co.MaxMagnitude / co.MinMagnitude
	return co
}

func detectIssues(p *model.Problem, cfg Config, a *Analysis) []Issue {
	var issues []Issue

	if p.NumConstraints() == 0 && p.NumObjectives() == 0 {
		issues = append(issues, Issue{
			Severity: Warning,
			Category: Other,
			Message:  "problem has no objectives and no constraints",
		})
	}

	for _, v := range p.Variables() {
		if v.Type.Kind == model.DoubleBoundKind && v.Type.Lower > v.Type.Upper {
			issues = append(issues, Issue{
				Severity: Error,
				Category: InvalidBounds,
				Message:  fmt.Sprintf("variable %q has lower bound greater than upper bound", v.Name),
				Details:  fmt.Sprintf("%v > %v", v.Type.Lower, v.Type.Upper),
			})
		}
	}

	for _, name := range a.Variables.Fixed {
		issues = append(issues, Issue{
			Severity: Info,
			Category: FixedVariable,
			Message:  fmt.Sprintf("variable %q is fixed by its bounds", name),
		})
	}
	for _, name := range a.Variables.Unused {
		issues = append(issues, Issue{
			Severity: Warning,
			Category: UnusedVariable,
			Message:  fmt.Sprintf("variable %q appears in no objective or constraint", name),
		})
	}

	for _, con := range p.Constraints() {
		switch con.Kind {
		case model.StandardKind:
			if len(con.Coefficients) == 0 {
				issues = append(issues, Issue{
					Severity: Error,
					Category: EmptyConstraint,
					Message:  fmt.Sprintf("constraint %q has no variables", con.Name),
				})
			}
			if math.Abs(con.RHS) > cfg.LargeRHSThreshold && !math.IsInf(con.RHS, 0) {
				issues = append(issues, Issue{
					Severity: Warning,
					Category: NumericalScaling,
					Message:  fmt.Sprintf("constraint %q has a very large right-hand side", con.Name),
					Details:  fmt.Sprintf("|%v|", con.RHS),
				})
			}
		case model.SOSKind:
			if !weightsStrictlyIncreasing(con.Weights) {
				issues = append(issues, Issue{
					Severity: Warning,
					Category: Other,
					Message:  fmt.Sprintf("SOS constraint %q weights are not strictly increasing", con.Name),
				})
			}
		}
	}

	for _, name := range a.Constraints.Singletons {
		issues = append(issues, Issue{
			Severity: Info,
			Category: SingletonConstraint,
			Message:  fmt.Sprintf("constraint %q involves a single variable and acts as a bound", name),
		})
	}

	issues = append(issues, coefficientIssues(p, cfg)...)

	if a.Coefficients.Ratio > cfg.CoefficientRatioThreshold {
		issues = append(issues, Issue{
			Severity: Warning,
			Category: NumericalScaling,
			Message:  "coefficient magnitudes span a wide range; the problem may be badly scaled",
			Details:  fmt.Sprintf("ratio %.3g", a.Coefficients.Ratio),
		})
	}
	return issues
}

func coefficientIssues(p *model.Problem, cfg Config) []Issue {
	var issues []Issue
	check := func(location string, coeffs []model.Coefficient) {
		for _, c := range coeffs {
			mag := math.Abs(c.Value)
			switch {
			case mag > cfg.LargeCoefficientThreshold:
				issues = append(issues, Issue{
					Severity: Warning,
					Category: NumericalScaling,
					Message:  fmt.Sprintf("very large coefficient on %q in %s", c.Var, location),
					Details:  fmt.Sprintf("%v", c.Value),
				})
			case mag != 0 && mag < cfg.SmallCoefficientThreshold:
				issues = append(issues, Issue{
					Severity: Warning,
					Category: NumericalScaling,
					Message:  fmt.Sprintf("very small coefficient on %q in %s", c.Var, location),
					Details:  fmt.Sprintf("%v", c.Value),
				})
			}
		}
	}
	for _, obj := range p.Objectives() {
		check(fmt.Sprintf("objective %q", obj.Name), obj.Coefficients)
	}
	for _, con := range p.Constraints() {
		check(fmt.Sprintf("constraint %q", con.Name), con.Coefficients)
	}
	return issues
}

func weightsStrictlyIncreasing(weights []model.Coefficient) bool {
	for i := 1; i < len(weights); i++ {
		if weights[i].Value <= weights[i-1].Value {
			return false
		}
	}
	return true
}

// String renders a human-readable report.
func (a *Analysis) String() string {
	var b strings.Builder
	b.WriteString("=== LP Problem Analysis ===\n\n")

	b.WriteString("Summary:\n")
	if a.Summary.Name != "" {
		fmt.Fprintf(&b, "  Name: %s\n", a.Summary.Name)
	}
	fmt.Fprintf(&b, "  Sense: %s\n", a.Summary.Sense)
	fmt.Fprintf(&b, "  Objectives: %d | Constraints: %d | Variables: %d\n",
		a.Summary.ObjectiveCount, a.Summary.ConstraintCount, a.Summary.VariableCount)
	fmt.Fprintf(&b, "  Non-zeros: %d | Density: %.2f%%\n", a.Summary.TotalNonzeros, a.Summary.Density*100)

	b.WriteString("\nSparsity:\n")
	fmt.Fprintf(&b, "  Vars per constraint: min=%d, max=%d, avg=%.1f\n",
		a.Sparsity.MinVarsPerConstraint, a.Sparsity.MaxVarsPerConstraint, a.Sparsity.AvgVarsPerConstraint)

	b.WriteString("\nVariable Types:\n")
	fmt.Fprintf(&b, "  Continuous: %d | Binary: %d | Integer: %d\n",
		a.Variables.Types.Continuous(), a.Variables.Types.Binary, a.Variables.Types.Integer)

	if len(a.Issues) > 0 {
		b.WriteString("\nIssues:\n")
		for _, issue := range a.Issues {
			fmt.Fprintf(&b, "  %s\n", issue)
		}
	}
	return b.String()
}
