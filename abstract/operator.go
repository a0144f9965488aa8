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
	"strings"

	"github.com/pkg/errors"

	"github.com/gx-org/shapecheck/constraint"
	"github.com/gx-org/shapecheck/fmterr"
	"github.com/gx-org/shapecheck/ir"
)

// intGlobalSuffix is the mangling suffix of an Int property symbol.
// Loads through such globals produce holes.
const intGlobalSuffix = "Sivp"

func (itp *interpreter) arityError(loc *ir.SourceLocation, format string, a ...any) error {
	return fmterr.Internal(fmterr.Errorf(loc, format, a...))
}

// define binds the single result of an operator.
func (itp *interpreter) define(op *ir.OperatorDef, v Value) error {
	if len(op.Results) != 1 {
		return itp.arityError(op.Source, "operator %T defines %d results, expected 1", op.Op, len(op.Results))
	}
	itp.registers.Store(op.Results[0].Name, v)
	return nil
}

func (itp *interpreter) operator(op *ir.OperatorDef, pc constraint.BoolExpr) error {
	switch opT := op.Op.(type) {
	case *ir.OwnershipOp:
		// The copy shares the operand's value identity: constraints
		// about the copy are constraints about the original.
		return itp.define(op, itp.load(opT.Operand))
	case *ir.IntegerLiteral:
		return itp.define(op, &IntValue{X: &constraint.IntLit{Value: opT.Value}})
	case *ir.ArrayLiteral:
		return itp.arrayLiteral(op, opT)
	case *ir.BuiltinInst:
		return itp.builtinInst(op, opT)
	case *ir.FunctionRef:
		return itp.define(op, &FuncValue{Name: opT.Name})
	case *ir.PartialApply:
		return itp.partialApply(op, opT)
	case *ir.Apply:
		return itp.apply(op, opT.Callee, opT.Args, pc)
	case *ir.BeginApply:
		return itp.apply(op, opT.Callee, opT.Args, pc)
	case *ir.EndApply:
		// The paired beginApply already produced the results.
		return nil
	case *ir.StructOp:
		return itp.define(op, &TupleValue{Elems: itp.loadAll(opT.Fields)})
	case *ir.TupleOp:
		return itp.define(op, &TupleValue{Elems: itp.loadAll(opT.Elems)})
	case *ir.DestructureTuple:
		return itp.destructureTuple(op, opT)
	case *ir.StructExtract:
		return itp.structExtract(op, opT)
	case *ir.TupleExtract:
		return itp.tupleExtract(op, opT)
	case *ir.GlobalAddr:
		if strings.HasSuffix(opT.Symbol, intGlobalSuffix) {
			return itp.define(op, &AddressValue{Symbol: opT.Symbol})
		}
	case *ir.Load:
		if _, ok := itp.load(opT.Address).(*AddressValue); ok {
			return itp.define(op, &IntValue{X: itp.hole(op.Source)})
		}
	}
	// Anything else leaves its results untracked.
	for _, r := range op.Results {
		itp.registers.Store(r.Name, nil)
	}
	return nil
}

func (itp *interpreter) arrayLiteral(op *ir.OperatorDef, lit *ir.ArrayLiteral) error {
	if ir.BaseName(lit.ElementType) != "Int" {
		return itp.define(op, nil)
	}
	dims := make([]constraint.IntExpr, len(lit.Elements))
	for i, el := range lit.Elements {
		if iv, ok := itp.load(el).(*IntValue); ok {
			dims[i] = iv.X
		}
	}
	return itp.define(op, &ListValue{X: &constraint.ListLit{Dims: dims}})
}

func (itp *interpreter) builtinInst(op *ir.OperatorDef, inst *ir.BuiltinInst) error {
	if inst.Name != "literal_equal" {
		return itp.define(op, nil)
	}
	if len(inst.Operands) != 2 {
		return itp.arityError(op.Source, "literal_equal takes 2 operands, got %d", len(inst.Operands))
	}
	x, okX := itp.load(inst.Operands[0]).(*IntValue)
	y, okY := itp.load(inst.Operands[1]).(*IntValue)
	if !okX || !okY {
		return itp.define(op, nil)
	}
	return itp.define(op, &BoolValue{X: &constraint.IntCmp{Op: constraint.Eq, X: x.X, Y: y.X}})
}

func (itp *interpreter) partialApply(op *ir.OperatorDef, pa *ir.PartialApply) error {
	return itp.define(op, &PartialValue{
		Fn:       itp.load(pa.Callee),
		Args:     itp.loadAll(pa.Args),
		ArgTypes: pa.ArgTypes,
	})
}

func (itp *interpreter) destructureTuple(op *ir.OperatorDef, dt *ir.DestructureTuple) error {
	tuple, ok := itp.load(dt.Operand).(*TupleValue)
	if !ok {
		for _, r := range op.Results {
			itp.registers.Store(r.Name, nil)
		}
		return nil
	}
	if len(op.Results) != len(tuple.Elems) {
		return itp.arityError(op.Source, "destructure of a %d-tuple defines %d results", len(tuple.Elems), len(op.Results))
	}
	for i, r := range op.Results {
		itp.registers.Store(r.Name, tuple.Elems[i])
	}
	return nil
}

func (itp *interpreter) structExtract(op *ir.OperatorDef, ext *ir.StructExtract) error {
	tuple, ok := itp.load(ext.Operand).(*TupleValue)
	if !ok {
		return itp.define(op, nil)
	}
	at, err := itp.env.FieldIndex(ext.TypeName, ext.Field)
	if err != nil {
		return itp.define(op, nil)
	}
	if at >= len(tuple.Elems) {
		return itp.arityError(op.Source, "field %s.%s at position %d, value has %d fields", ext.TypeName, ext.Field, at, len(tuple.Elems))
	}
	return itp.define(op, tuple.Elems[at])
}

func (itp *interpreter) tupleExtract(op *ir.OperatorDef, ext *ir.TupleExtract) error {
	tuple, ok := itp.load(ext.Operand).(*TupleValue)
	if !ok {
		return itp.define(op, nil)
	}
	if ext.Index < 0 || ext.Index >= len(tuple.Elems) {
		return itp.arityError(op.Source, "tuple index %d out of range for a %d-tuple", ext.Index, len(tuple.Elems))
	}
	return itp.define(op, tuple.Elems[ext.Index])
}

// resolveCallee chases partial-application chains down to a terminal
// function reference, concatenating captured arguments.
func resolveCallee(v Value, args []Value) (string, []Value, bool) {
	switch vT := v.(type) {
	case *FuncValue:
		return vT.Name, args, true
	case *PartialValue:
		return resolveCallee(vT.Fn, append(args, vT.Args...))
	}
	return "", nil, false
}

func (itp *interpreter) apply(op *ir.OperatorDef, callee ir.Register, argRegs []ir.Register, pc constraint.BoolExpr) error {
	args := itp.loadAll(argRegs)
	name, fullArgs, ok := resolveCallee(itp.load(callee), args)
	if !ok {
		for _, r := range op.Results {
			itp.registers.Store(r.Name, nil)
		}
		return nil
	}
	if handler, isBuiltin := builtins[name]; isBuiltin {
		return handler(itp, op, fullArgs, pc)
	}
	// Unknown function: bind the result to a fresh value of the result
	// type and record the call for summary inlining.
	var result Value
	if len(op.Results) == 1 {
		result = itp.freshValue(op.Results[0].Type)
		itp.registers.Store(op.Results[0].Name, result)
	} else {
		for _, r := range op.Results {
			itp.registers.Store(r.Name, nil)
		}
	}
	argExprs := make([]constraint.Expr, len(fullArgs))
	for i, a := range fullArgs {
		argExprs[i] = toExpr(a)
	}
	itp.emit(&constraint.RawCall{
		Name:     name,
		Args:     argExprs,
		Result:   toExpr(result),
		Assuming: pc,
		Loc:      op.Source,
	})
	return nil
}

// assert emits two constraints: a call binding a fresh boolean to the
// asserted condition function, and the user's assertion of that
// boolean under the current path condition.
func (itp *interpreter) assert(op *ir.OperatorDef, args []Value, pc constraint.BoolExpr) error {
	if len(args) == 0 {
		return fmterr.Internal(fmterr.Position(op.Source, errors.New("assert takes at least a condition argument")))
	}
	name, condArgs, ok := resolveCallee(args[0], nil)
	if !ok {
		return skipf(op.Source, "cannot resolve the condition of an assert to a function")
	}
	cond := itp.namer.Bool()
	argExprs := make([]constraint.Expr, len(condArgs))
	for i, a := range condArgs {
		argExprs[i] = toExpr(a)
	}
	itp.emit(&constraint.RawCall{
		Name:     name,
		Args:     argExprs,
		Result:   cond,
		Assuming: pc,
		Loc:      op.Source,
	})
	itp.emit(&constraint.RawExpr{
		Cond:     cond,
		Assuming: pc,
		Origin:   constraint.Asserted,
		Loc:      op.Source,
	})
	for _, r := range op.Results {
		itp.registers.Store(r.Name, nil)
	}
	return nil
}
