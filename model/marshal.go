package model

import (
	"bytes"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Binary serialization of a Problem. The encoding is CBOR with
// deterministic map ordering, so equal problems produce equal bytes.

type serializedCoefficient struct {
	Var   string  `cbor:"1,keyasint"`
	Value float64 `cbor:"2,keyasint"`
}

type serializedVarType struct {
	Kind  uint8   `cbor:"1,keyasint"`
	Lower float64 `cbor:"2,keyasint,omitempty"`
	Upper float64 `cbor:"3,keyasint,omitempty"`
}

type serializedObjective struct {
	Name         string                  `cbor:"1,keyasint"`
	Coefficients []serializedCoefficient `cbor:"2,keyasint"`
	Constant     float64                 `cbor:"3,keyasint,omitempty"`
}

type serializedConstraint struct {
	Name         string                  `cbor:"1,keyasint"`
	Kind         uint8                   `cbor:"2,keyasint"`
	Coefficients []serializedCoefficient `cbor:"3,keyasint,omitempty"`
	Operator     uint8                   `cbor:"4,keyasint,omitempty"`
	RHS          float64                 `cbor:"5,keyasint,omitempty"`
	SOSType      uint8                   `cbor:"6,keyasint,omitempty"`
	Weights      []serializedCoefficient `cbor:"7,keyasint,omitempty"`
}

type serializedVariable struct {
	Name string            `cbor:"1,keyasint"`
	Type serializedVarType `cbor:"2,keyasint"`
}

type serializedProblem struct {
	Name        string                 `cbor:"1,keyasint,omitempty"`
	Sense       uint8                  `cbor:"2,keyasint"`
	Objectives  []serializedObjective  `cbor:"3,keyasint"`
	Constraints []serializedConstraint `cbor:"4,keyasint"`
	Variables   []serializedVariable   `cbor:"5,keyasint"`
	DefaultType serializedVarType      `cbor:"6,keyasint"`
}

func packCoefficients(in []Coefficient) []serializedCoefficient {
	out := make([]serializedCoefficient, len(in))
	for i, c := range in {
		out[i] = serializedCoefficient{Var: c.Var, Value: c.Value}
	}
	return out
}

func unpackCoefficients(in []serializedCoefficient) []Coefficient {
	out := make([]Coefficient, len(in))
	for i, c := range in {
		out[i] = Coefficient{Var: c.Var, Value: c.Value}
	}
	return out
}

func packVarType(t VarType) serializedVarType {
	return serializedVarType{Kind: uint8(t.Kind), Lower: t.Lower, Upper: t.Upper}
}

func unpackVarType(t serializedVarType) VarType {
	return VarType{Kind: VarKind(t.Kind), Lower: t.Lower, Upper: t.Upper}
}

func (p *Problem) toSerialized() *serializedProblem {
	s := &serializedProblem{
		Name:        p.name,
		Sense:       uint8(p.sense),
		DefaultType: packVarType(p.defaultType),
	}

	s.Objectives = make([]serializedObjective, 0, len(p.objectiveOrder))
	for _, obj := range p.Objectives() {
		s.Objectives = append(s.Objectives, serializedObjective{
			Name:         obj.Name,
			Coefficients: packCoefficients(obj.Coefficients),
			Constant:     obj.Constant,
		})
	}

	s.Constraints = make([]serializedConstraint, 0, len(p.constraints))
	for _, con := range p.Constraints() {
		s.Constraints = append(s.Constraints, serializedConstraint{
			Name:         con.Name,
			Kind:         uint8(con.Kind),
			Coefficients: packCoefficients(con.Coefficients),
			Operator:     uint8(con.Operator),
			RHS:          con.RHS,
			SOSType:      uint8(con.SOSType),
			Weights:      packCoefficients(con.Weights),
		})
	}

	s.Variables = make([]serializedVariable, 0, len(p.variables))
	for _, v := range p.Variables() {
		s.Variables = append(s.Variables, serializedVariable{Name: v.Name, Type: packVarType(v.Type)})
	}
	return s
}

func fromSerialized(s *serializedProblem) (*Problem, error) {
	p := NewProblem()
	p.name = s.Name
	p.sense = Sense(s.Sense)
	p.defaultType = unpackVarType(s.DefaultType)

	for _, v := range s.Variables {
		p.variables[v.Name] = &Variable{Name: v.Name, Type: unpackVarType(v.Type)}
	}
	for _, obj := range s.Objectives {
		if _, ok := p.objectives[obj.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate objective %q", ErrInvalidValue, obj.Name)
		}
		p.objectives[obj.Name] = &Objective{
			Name:         obj.Name,
			Coefficients: unpackCoefficients(obj.Coefficients),
			Constant:     obj.Constant,
		}
		p.objectiveOrder = append(p.objectiveOrder, obj.Name)
	}
	for _, con := range s.Constraints {
		if _, ok := p.constraints[con.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate constraint %q", ErrInvalidValue, con.Name)
		}
		p.constraints[con.Name] = &Constraint{
			Name:         con.Name,
			Kind:         ConstraintKind(con.Kind),
			Coefficients: unpackCoefficients(con.Coefficients),
			Operator:     CompOp(con.Operator),
			RHS:          con.RHS,
			SOSType:      SOSType(con.SOSType),
			Weights:      unpackCoefficients(con.Weights),
		}
	}
	return p, nil
}

// WriteTo serializes the problem to w. Implements io.WriterTo.
func (p *Problem) WriteTo(w io.Writer) (int64, error) {
	encMode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return 0, err
	}
	cw := &countingWriter{w: w}
	if err := encMode.NewEncoder(cw).Encode(p.toSerialized()); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// ReadFrom deserializes a problem from r, replacing the receiver's
// contents. Implements io.ReaderFrom.
func (p *Problem) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	var s serializedProblem
	if err := cbor.NewDecoder(cr).Decode(&s); err != nil {
		return cr.n, err
	}
	decoded, err := fromSerialized(&s)
	if err != nil {
		return cr.n, err
	}
	*p = *decoded
	return cr.n, nil
}

// ToBytes serializes the problem to a byte slice.
func (p *Problem) ToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromBytes deserializes a problem from a byte slice.
func FromBytes(data []byte) (*Problem, error) {
	p := NewProblem()
	if _, err := p.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return p, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
