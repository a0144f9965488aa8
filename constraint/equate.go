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

package constraint

import "github.com/pkg/errors"

// Equate builds the predicate stating that two terms are equal.
//
// Both terms must have the same sort. Tuples are equated elementwise;
// an untracked (nil) element on either side contributes nothing.
// Equating terms of different sorts, or tuples of different arity, is
// a contract violation: the IR the terms came from is inconsistent.
func Equate(a, b Expr) (BoolExpr, error) {
	if a == nil || b == nil {
		return True, nil
	}
	switch aT := a.(type) {
	case IntExpr:
		bT, ok := b.(IntExpr)
		if !ok {
			return nil, sortMismatch(a, b)
		}
		return &IntCmp{Op: Eq, X: aT, Y: bT}, nil
	case ListExpr:
		bT, ok := b.(ListExpr)
		if !ok {
			return nil, sortMismatch(a, b)
		}
		return &ListEq{X: aT, Y: bT}, nil
	case BoolExpr:
		bT, ok := b.(BoolExpr)
		if !ok {
			return nil, sortMismatch(a, b)
		}
		return &BoolEq{X: aT, Y: bT}, nil
	case *Tuple:
		bT, ok := b.(*Tuple)
		if !ok {
			return nil, sortMismatch(a, b)
		}
		if len(aT.Elems) != len(bT.Elems) {
			return nil, errors.Errorf("cannot equate tuples of arity %d and %d", len(aT.Elems), len(bT.Elems))
		}
		eqs := make([]BoolExpr, 0, len(aT.Elems))
		for i, el := range aT.Elems {
			eq, err := Equate(el, bT.Elems[i])
			if err != nil {
				return nil, err
			}
			eqs = append(eqs, eq)
		}
		return MakeAnd(eqs...), nil
	}
	return nil, errors.Errorf("cannot equate terms %s and %s", a, b)
}

func sortMismatch(a, b Expr) error {
	return errors.Errorf("cannot equate %s with %s: terms have different sorts", a, b)
}
