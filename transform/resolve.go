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

package transform

import "github.com/gx-org/shapecheck/constraint"

// Strength selects which equalities ResolveEqualities may consume.
// Strengths combine with a bitwise or: All(Shape|Implied) consumes
// equalities admitted by either.
type Strength uint8

// Equality resolution strengths.
const (
	// Shape consumes equalities between shape variables.
	Shape Strength = 1 << iota
	// Implied consumes equalities of implied origin.
	Implied
	// Everything consumes every variable equality.
	Everything
)

// All returns the union of strengths.
func All(of ...Strength) Strength {
	var s Strength
	for _, o := range of {
		s |= o
	}
	return s
}

func (s Strength) admits(c *constraint.Constraint, isList bool) bool {
	if s&Everything != 0 {
		return true
	}
	if s&Shape != 0 && isList {
		return true
	}
	if s&Implied != 0 && c.Origin == constraint.Implied {
		return true
	}
	return false
}

// ResolveEqualities eliminates variable-to-variable equalities
// admitted by the strength, rewriting the rest of the list under the
// union they induce. The earlier variable of each pair names the
// class. Equalities binding a variable to a compound term are kept:
// they carry information the union cannot. Equalities that cannot be
// oriented are kept untouched.
func ResolveEqualities(cs []*constraint.Constraint, strength Strength) []*constraint.Constraint {
	sub := constraint.NewSubstitution()
	var kept []*constraint.Constraint
	for _, c := range cs {
		c = c.Substitute(sub)
		lhs, rhs, isList, ok := asVarEquality(c)
		if !ok || !strength.admits(c, isList) {
			kept = append(kept, c)
			continue
		}
		if constraint.Equal(lhs, rhs) {
			// Trivial after rewriting.
			continue
		}
		if isList {
			rhsVar, rhsIsVar := rhs.(*constraint.ListVar)
			if rhsIsVar {
				sub.Lists[rhsVar.ID] = lhs.(constraint.ListExpr)
				continue
			}
		} else {
			rhsVar, rhsIsVar := rhs.(*constraint.IntVar)
			if rhsIsVar {
				sub.Ints[rhsVar.ID] = lhs.(constraint.IntExpr)
				continue
			}
		}
		kept = append(kept, c)
	}
	if sub.Empty() {
		return kept
	}
	// The union may have been discovered after uses: rewrite the whole
	// list under the final substitution. The substitution can chain
	// through variables resolved out of order, so apply it until the
	// list is stable.
	out := make([]*constraint.Constraint, len(kept))
	for i, c := range kept {
		out[i] = substituteFix(c, sub)
	}
	return out
}

func substituteFix(c *constraint.Constraint, sub *constraint.Substitution) *constraint.Constraint {
	for {
		next := c.Substitute(sub)
		if next.String() == c.String() {
			return next
		}
		c = next
	}
}

// asVarEquality matches an unconditional equality with a variable on
// at least one side, normalized so the variable comes first.
func asVarEquality(c *constraint.Constraint) (lhs, rhs constraint.Expr, isList, ok bool) {
	if !constraint.Equal(c.Assuming, constraint.True) {
		return nil, nil, false, false
	}
	switch eq := c.Cond.(type) {
	case *constraint.ListEq:
		if _, isVar := eq.X.(*constraint.ListVar); isVar {
			return eq.X, eq.Y, true, true
		}
		if _, isVar := eq.Y.(*constraint.ListVar); isVar {
			return eq.Y, eq.X, true, true
		}
	case *constraint.IntCmp:
		if eq.Op != constraint.Eq {
			return nil, nil, false, false
		}
		if _, isVar := eq.X.(*constraint.IntVar); isVar {
			return eq.X, eq.Y, false, true
		}
		if _, isVar := eq.Y.(*constraint.IntVar); isVar {
			return eq.Y, eq.X, false, true
		}
	}
	return nil, nil, false, false
}
