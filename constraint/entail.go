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

// Entails reports whether a provably implies b.
//
// The check is syntactic and intentionally incomplete: it knows that
// anything implies true, that false implies anything, that a term
// implies itself, and how conjunctions and disjunctions decompose on
// either side. There is no distributive or negation reasoning, so a
// false answer means "not provable here", not "does not hold".
// Worst-case cost is quadratic in the size of the terms.
func Entails(a, b BoolExpr) bool {
	if lit, ok := b.(*BoolLit); ok && lit.Value {
		return true
	}
	if lit, ok := a.(*BoolLit); ok && !lit.Value {
		return true
	}
	if Equal(a, b) {
		return true
	}
	// Decompose the right-hand side first: a implies a conjunction
	// only by implying every conjunct, and implies a disjunction by
	// implying some disjunct.
	switch bT := b.(type) {
	case *And:
		for _, c := range bT.Args {
			if !Entails(a, c) {
				return false
			}
		}
		return true
	case *Or:
		for _, c := range bT.Args {
			if Entails(a, c) {
				return true
			}
		}
		// A disjunction on the left may still prove b.
	}
	switch aT := a.(type) {
	case *And:
		for _, c := range aT.Args {
			if Entails(c, b) {
				return true
			}
		}
	case *Or:
		all := true
		for _, c := range aT.Args {
			if !Entails(c, b) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}
