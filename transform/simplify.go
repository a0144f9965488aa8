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

// Package transform rewrites lists of resolved constraints.
//
// All transforms are total and shape-preserving: they never invent a
// constraint that was not implied by their input, and they all keep
// the user's asserted constraints, up to the substitutions they have
// resolved. Order within a list matters and is preserved.
package transform

import (
	"fortio.org/safecast"

	"github.com/gx-org/shapecheck/constraint"
)

// Simplify rewrites every constraint with its terms simplified.
func Simplify(cs []*constraint.Constraint) []*constraint.Constraint {
	out := make([]*constraint.Constraint, len(cs))
	for i, c := range cs {
		out[i] = &constraint.Constraint{
			Cond:     SimplifyBool(c.Cond),
			Assuming: SimplifyBool(c.Assuming),
			Origin:   c.Origin,
			Stack:    c.Stack,
		}
	}
	return out
}

// SimplifyInt simplifies an integer term bottom-up: arithmetic over
// two literals folds, neutral elements disappear, multiplication by
// zero collapses, and dimension lookups into literal shapes resolve.
// No other algebraic rewrite is applied.
func SimplifyInt(e constraint.IntExpr) constraint.IntExpr {
	switch eT := e.(type) {
	case *constraint.IntBinary:
		return simplifyBinary(eT)
	case *constraint.Length:
		return &constraint.Length{Of: SimplifyList(eT.Of)}
	case *constraint.Element:
		return simplifyElement(eT)
	}
	return e
}

func litOf(e constraint.IntExpr) (int64, bool) {
	lit, ok := e.(*constraint.IntLit)
	if !ok {
		return 0, false
	}
	return lit.Value, true
}

func simplifyBinary(e *constraint.IntBinary) constraint.IntExpr {
	x := SimplifyInt(e.X)
	y := SimplifyInt(e.Y)
	xv, xLit := litOf(x)
	yv, yLit := litOf(y)
	if xLit && yLit {
		switch e.Op {
		case constraint.Add:
			return &constraint.IntLit{Value: xv + yv}
		case constraint.Sub:
			return &constraint.IntLit{Value: xv - yv}
		case constraint.Mul:
			return &constraint.IntLit{Value: xv * yv}
		case constraint.Div:
			if yv != 0 {
				return &constraint.IntLit{Value: xv / yv}
			}
		}
	}
	switch e.Op {
	case constraint.Add:
		if xLit && xv == 0 {
			return y
		}
		if yLit && yv == 0 {
			return x
		}
	case constraint.Sub:
		if yLit && yv == 0 {
			return x
		}
	case constraint.Mul:
		if xLit && xv == 1 {
			return y
		}
		if yLit && yv == 1 {
			return x
		}
		if (xLit && xv == 0) || (yLit && yv == 0) {
			return &constraint.IntLit{Value: 0}
		}
	}
	return &constraint.IntBinary{Op: e.Op, X: x, Y: y}
}

// simplifyElement resolves a dimension lookup into a literal shape. A
// negative index counts from the right. The resolved slot may itself
// be unknown, in which case the lookup stays symbolic.
func simplifyElement(e *constraint.Element) constraint.IntExpr {
	of := SimplifyList(e.Of)
	lit, isLit := of.(*constraint.ListLit)
	if !isLit {
		return &constraint.Element{Index: e.Index, Of: of}
	}
	k, err := safecast.Conv[int](e.Index)
	if err != nil {
		return &constraint.Element{Index: e.Index, Of: of}
	}
	if k < 0 {
		k += len(lit.Dims)
	}
	if k < 0 || k >= len(lit.Dims) {
		return &constraint.Element{Index: e.Index, Of: of}
	}
	if lit.Dims[k] == nil {
		return &constraint.Element{Index: e.Index, Of: of}
	}
	return lit.Dims[k]
}

// SimplifyList simplifies a shape term bottom-up. Broadcasts of two
// literal shapes fold dimension by dimension when every pair is
// decidable; an undecidable or incompatible pair leaves the broadcast
// in place for a downstream solver to report.
func SimplifyList(e constraint.ListExpr) constraint.ListExpr {
	switch eT := e.(type) {
	case *constraint.ListLit:
		dims := make([]constraint.IntExpr, len(eT.Dims))
		for i, d := range eT.Dims {
			if d != nil {
				dims[i] = SimplifyInt(d)
			}
		}
		return &constraint.ListLit{Dims: dims}
	case *constraint.Broadcast:
		return simplifyBroadcast(eT)
	}
	return e
}

func simplifyBroadcast(e *constraint.Broadcast) constraint.ListExpr {
	x := SimplifyList(e.X)
	y := SimplifyList(e.Y)
	xLit, okX := x.(*constraint.ListLit)
	yLit, okY := y.(*constraint.ListLit)
	if !okX || !okY {
		return &constraint.Broadcast{X: x, Y: y}
	}
	rank := max(len(xLit.Dims), len(yLit.Dims))
	dims := make([]constraint.IntExpr, rank)
	for i := 1; i <= rank; i++ {
		var a, b constraint.IntExpr
		aIn := i <= len(xLit.Dims)
		bIn := i <= len(yLit.Dims)
		if aIn {
			a = xLit.Dims[len(xLit.Dims)-i]
		}
		if bIn {
			b = yLit.Dims[len(yLit.Dims)-i]
		}
		d, ok := broadcastDim(a, aIn, b, bIn)
		if !ok {
			return &constraint.Broadcast{X: x, Y: y}
		}
		dims[rank-i] = d
	}
	return &constraint.ListLit{Dims: dims}
}

// broadcastDim pairs two right-aligned dimensions. It reports false
// when the pair cannot be decided here, either because the dimensions
// are symbolic or because they are incompatible literals.
func broadcastDim(a constraint.IntExpr, aIn bool, b constraint.IntExpr, bIn bool) (constraint.IntExpr, bool) {
	if !aIn {
		return b, true
	}
	if !bIn {
		return a, true
	}
	if a == nil && b == nil {
		return nil, true
	}
	if a == nil || b == nil {
		known := a
		if known == nil {
			known = b
		}
		v, isLit := litOf(known)
		if !isLit {
			return nil, false
		}
		if v == 1 {
			// The other side is unknown and may exceed 1.
			return nil, true
		}
		return known, true
	}
	av, aLit := litOf(a)
	bv, bLit := litOf(b)
	if aLit && av == 1 {
		return b, true
	}
	if bLit && bv == 1 {
		return a, true
	}
	if constraint.Equal(a, b) {
		return a, true
	}
	// Incompatible literals stay in place: a later solver reports the
	// broadcast as unsatisfiable with its source location.
	return nil, false
}

// SimplifyBool simplifies a boolean term compositionally. Equalities
// and comparisons are not folded; only their operands are simplified.
func SimplifyBool(e constraint.BoolExpr) constraint.BoolExpr {
	switch eT := e.(type) {
	case *constraint.Not:
		return constraint.MakeNot(SimplifyBool(eT.X))
	case *constraint.And:
		args := make([]constraint.BoolExpr, len(eT.Args))
		for i, a := range eT.Args {
			args[i] = SimplifyBool(a)
		}
		return constraint.MakeAnd(args...)
	case *constraint.Or:
		args := make([]constraint.BoolExpr, len(eT.Args))
		for i, a := range eT.Args {
			args[i] = SimplifyBool(a)
		}
		return constraint.MakeOr(args...)
	case *constraint.IntCmp:
		return &constraint.IntCmp{Op: eT.Op, X: SimplifyInt(eT.X), Y: SimplifyInt(eT.Y)}
	case *constraint.ListEq:
		return &constraint.ListEq{X: SimplifyList(eT.X), Y: SimplifyList(eT.Y)}
	case *constraint.BoolEq:
		return &constraint.BoolEq{X: SimplifyBool(eT.X), Y: SimplifyBool(eT.Y)}
	}
	return e
}
