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

// builtinFunc interprets one call to a known builtin.
type builtinFunc func(itp *interpreter, op *ir.OperatorDef, args []Value, pc constraint.BoolExpr) error

// builtins maps mangled symbol names to their symbolic handlers.
// Compatibility is by symbol name.
var builtins = map[string]builtinFunc{
	"$sSi2eeoiySbSi_SitFZ": intCmp(constraint.Eq),
	"$sSi1goiySbSi_SitFZ":  intCmp(constraint.Gt),
	"$sSi2geoiySbSi_SitFZ": intCmp(constraint.Ge),
	"$sSi1loiySbSi_SitFZ":  intCmp(constraint.Lt),
	"$sSi2leoiySbSi_SitFZ": intCmp(constraint.Le),

	"$sSi1poiyS2i_SitFZ": intArith(constraint.Add),
	"$sSi1soiyS2i_SitFZ": intArith(constraint.Sub),
	"$sSi1moiyS2i_SitFZ": intArith(constraint.Mul),
	"$sSi1doiyS2i_SitFZ": intArith(constraint.Div),

	"$sSi22_builtinIntegerLiteralSiBI_tcfC": intLiteralInit,

	"$ss6assert__4file4lineySbyXK_SSyXKs12StaticStringVSutF": (*interpreter).assert,

	"$s10TensorFlow0A5ShapeV12arrayLiteralACSid_tcfC": shapeFromArray,
	"$s10TensorFlow0A0V5shapeAA0A5ShapeVvg":           shapeGetter,
	"$s10TensorFlow0A5ShapeVyS2icir":                  shapeSubscript,
	"$s10TensorFlow0A0V4rankSivg":                     rankGetter,
	"$s10TensorFlow0A5ShapeV2eeoiySbAC_ACtFZ":         shapeEqual,

	"broadcast": broadcastShapes,
}

// intOf returns the integer term of a value if it has one.
func intOf(v Value) (constraint.IntExpr, bool) {
	iv, ok := v.(*IntValue)
	if !ok {
		return nil, false
	}
	return iv.X, true
}

// listOf returns the shape term of a value. A tensor stands for its
// shape.
func listOf(v Value) (constraint.ListExpr, bool) {
	switch vT := v.(type) {
	case *ListValue:
		return vT.X, true
	case *TensorValue:
		return vT.Shape, true
	}
	return nil, false
}

func intCmp(cmp constraint.CmpOp) builtinFunc {
	return func(itp *interpreter, op *ir.OperatorDef, args []Value, pc constraint.BoolExpr) error {
		if len(args) < 2 {
			return itp.arityError(op.Source, "integer comparison takes 2 operands, got %d", len(args))
		}
		x, okX := intOf(args[0])
		y, okY := intOf(args[1])
		if !okX || !okY {
			return itp.define(op, nil)
		}
		return itp.define(op, &BoolValue{X: &constraint.IntCmp{Op: cmp, X: x, Y: y}})
	}
}

func intArith(intOp constraint.IntOp) builtinFunc {
	return func(itp *interpreter, op *ir.OperatorDef, args []Value, pc constraint.BoolExpr) error {
		if len(args) < 2 {
			return itp.arityError(op.Source, "integer operator takes 2 operands, got %d", len(args))
		}
		x, okX := intOf(args[0])
		y, okY := intOf(args[1])
		if !okX || !okY {
			return itp.define(op, nil)
		}
		return itp.define(op, &IntValue{X: &constraint.IntBinary{Op: intOp, X: x, Y: y}})
	}
}

// intLiteralInit converts a builtin integer literal to Int. The
// literal value flows through unchanged.
func intLiteralInit(itp *interpreter, op *ir.OperatorDef, args []Value, pc constraint.BoolExpr) error {
	if len(args) == 0 {
		return itp.arityError(op.Source, "integer literal initializer takes an operand")
	}
	x, ok := intOf(args[0])
	if !ok {
		return itp.define(op, nil)
	}
	return itp.define(op, &IntValue{X: x})
}

// shapeFromArray builds a TensorShape from an [Int] literal.
func shapeFromArray(itp *interpreter, op *ir.OperatorDef, args []Value, pc constraint.BoolExpr) error {
	if len(args) == 0 {
		return itp.arityError(op.Source, "shape initializer takes an operand")
	}
	shape, ok := listOf(args[0])
	if !ok {
		return itp.define(op, nil)
	}
	return itp.define(op, &ListValue{X: shape})
}

func shapeGetter(itp *interpreter, op *ir.OperatorDef, args []Value, pc constraint.BoolExpr) error {
	if len(args) == 0 {
		return itp.arityError(op.Source, "shape getter takes a receiver")
	}
	shape, ok := listOf(args[0])
	if !ok {
		return itp.define(op, nil)
	}
	return itp.define(op, &ListValue{X: shape})
}

// shapeSubscript resolves shape[k] for a literal index k. A symbolic
// index leaves the result untracked.
func shapeSubscript(itp *interpreter, op *ir.OperatorDef, args []Value, pc constraint.BoolExpr) error {
	if len(args) < 2 {
		return itp.arityError(op.Source, "shape subscript takes an index and a receiver")
	}
	index, okIndex := intOf(args[0])
	shape, okShape := listOf(args[1])
	if !okIndex || !okShape {
		return itp.define(op, nil)
	}
	lit, ok := index.(*constraint.IntLit)
	if !ok {
		return itp.define(op, nil)
	}
	return itp.define(op, &IntValue{X: &constraint.Element{Index: lit.Value, Of: shape}})
}

func rankGetter(itp *interpreter, op *ir.OperatorDef, args []Value, pc constraint.BoolExpr) error {
	if len(args) == 0 {
		return itp.arityError(op.Source, "rank getter takes a receiver")
	}
	shape, ok := listOf(args[0])
	if !ok {
		return itp.define(op, nil)
	}
	return itp.define(op, &IntValue{X: &constraint.Length{Of: shape}})
}

func shapeEqual(itp *interpreter, op *ir.OperatorDef, args []Value, pc constraint.BoolExpr) error {
	if len(args) < 2 {
		return itp.arityError(op.Source, "shape equality takes 2 operands, got %d", len(args))
	}
	x, okX := listOf(args[0])
	y, okY := listOf(args[1])
	if !okX || !okY {
		return itp.define(op, nil)
	}
	return itp.define(op, &BoolValue{X: &constraint.ListEq{X: x, Y: y}})
}

func broadcastShapes(itp *interpreter, op *ir.OperatorDef, args []Value, pc constraint.BoolExpr) error {
	if len(args) < 2 {
		return itp.arityError(op.Source, "broadcast takes 2 operands, got %d", len(args))
	}
	x, okX := listOf(args[0])
	y, okY := listOf(args[1])
	if !okX || !okY {
		return itp.define(op, nil)
	}
	return itp.define(op, &ListValue{X: &constraint.Broadcast{X: x, Y: y}})
}
