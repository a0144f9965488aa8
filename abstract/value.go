// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package abstract

import (
	"github.com/gx-org/shapecheck/constraint"
	"github.com/gx-org/shapecheck/ir"
)

// Value is the abstract value of a register. A register with no value
// is untracked: nothing is known about it and no constraint mentions
// it.
type Value interface {
	value()
}

type (
	// IntValue is a symbolic integer.
	IntValue struct {
		X constraint.IntExpr
	}

	// ListValue is a symbolic shape.
	ListValue struct {
		X constraint.ListExpr
	}

	// BoolValue is a symbolic boolean.
	BoolValue struct {
		X constraint.BoolExpr
	}

	// TensorValue is a tensor abstracted by its shape.
	TensorValue struct {
		Shape constraint.ListExpr
	}

	// TupleValue is an aggregate of values. An element may be nil when
	// the corresponding component is untracked.
	TupleValue struct {
		Elems []Value
	}

	// FuncValue is a reference to a function by symbol.
	FuncValue struct {
		Name string
	}

	// PartialValue is a function value with captured arguments.
	PartialValue struct {
		Fn       Value
		Args     []Value
		ArgTypes []ir.Type
	}

	// AddressValue is the address of a global symbol.
	AddressValue struct {
		Symbol string
	}
)

func (*IntValue) value()     {}
func (*ListValue) value()    {}
func (*BoolValue) value()    {}
func (*TensorValue) value()  {}
func (*TupleValue) value()   {}
func (*FuncValue) value()    {}
func (*PartialValue) value() {}
func (*AddressValue) value() {}

// toExpr converts an abstract value to the term it contributes at a
// constraint boundary. Tensors contribute their shape. Function and
// address values have no term form.
func toExpr(v Value) constraint.Expr {
	switch vT := v.(type) {
	case nil:
		return nil
	case *IntValue:
		return vT.X
	case *ListValue:
		return vT.X
	case *BoolValue:
		return vT.X
	case *TensorValue:
		return vT.Shape
	case *TupleValue:
		elems := make([]constraint.Expr, len(vT.Elems))
		for i, el := range vT.Elems {
			elems[i] = toExpr(el)
		}
		return &constraint.Tuple{Elems: elems}
	}
	return nil
}

// freshValue allocates a symbolic value for a register of the given
// type. Types whose structure is unknown yield no value: the register
// stays untracked.
func (itp *interpreter) freshValue(t ir.Type) Value {
	return itp.freshValueRec(t, make(map[string]bool))
}

func (itp *interpreter) freshValueRec(t ir.Type, visiting map[string]bool) Value {
	if t == nil {
		return nil
	}
	switch tT := ir.Simplify(t).(type) {
	case *ir.NamedType:
		return itp.freshNamed(tT.Name, visiting)
	case *ir.SpecializedType:
		if ir.BaseName(tT.Base) == "Tensor" {
			return &TensorValue{Shape: itp.namer.List()}
		}
		return itp.freshValueRec(tT.Base, visiting)
	case *ir.TupleType:
		elems := make([]Value, len(tT.Elems))
		for i, e := range tT.Elems {
			elems[i] = itp.freshValueRec(e, visiting)
		}
		return &TupleValue{Elems: elems}
	case *ir.BuiltinType:
		switch tT.Name {
		case "Int1":
			return &BoolValue{X: itp.namer.Bool()}
		case "Int32", "Int64", "IntLiteral", "Word":
			return &IntValue{X: itp.namer.Int()}
		}
	}
	return nil
}

func (itp *interpreter) freshNamed(name string, visiting map[string]bool) Value {
	switch name {
	case "Int":
		return &IntValue{X: itp.namer.Int()}
	case "Bool":
		return &BoolValue{X: itp.namer.Bool()}
	case "TensorShape":
		return &ListValue{X: itp.namer.List()}
	case "Tensor":
		return &TensorValue{Shape: itp.namer.List()}
	}
	fields, ok := itp.env.Fields(name)
	if !ok || visiting[name] {
		return nil
	}
	visiting[name] = true
	defer delete(visiting, name)
	elems := make([]Value, len(fields))
	for i, f := range fields {
		elems[i] = itp.freshValueRec(f.Type, visiting)
	}
	return &TupleValue{Elems: elems}
}
