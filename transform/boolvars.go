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

// InlineBoolVars merges a top-level assertion of a boolean variable
// with the variable's unique definition, asserting the defining term
// directly.
//
// The rule is deliberately conservative: it fires only when the
// variable is asserted exactly once, defined by exactly one boolEq,
// and appears nowhere else. Variables chained through other boolean
// equalities are left alone.
func InlineBoolVars(cs []*constraint.Constraint) []*constraint.Constraint {
	assertedAt := make(map[int][]int)
	definedAt := make(map[int][]int)
	occurrences := make(map[int]int)
	for i, c := range cs {
		vs := constraint.NewVarSet()
		vs.Add(c.Cond)
		vs.Add(c.Assuming)
		for id := range vs.Bools {
			occurrences[id]++
		}
		if v, ok := asBoolAssertion(c); ok {
			assertedAt[v] = append(assertedAt[v], i)
		}
		if v, _, ok := asBoolDefinition(c); ok {
			definedAt[v] = append(definedAt[v], i)
		}
	}
	drop := make(map[int]bool)
	replace := make(map[int]*constraint.Constraint)
	for v, asserts := range assertedAt {
		defs := definedAt[v]
		// One assertion, one definition, and the variable touches
		// exactly those two constraints.
		if len(asserts) != 1 || len(defs) != 1 || occurrences[v] != 2 {
			continue
		}
		assertion := cs[asserts[0]]
		_, rhs, _ := asBoolDefinition(cs[defs[0]])
		if mentionsBool(rhs, v) {
			continue
		}
		drop[defs[0]] = true
		replace[asserts[0]] = &constraint.Constraint{
			Cond:     rhs,
			Assuming: assertion.Assuming,
			Origin:   assertion.Origin,
			Stack:    assertion.Stack,
		}
	}
	if len(drop) == 0 && len(replace) == 0 {
		return cs
	}
	out := make([]*constraint.Constraint, 0, len(cs))
	for i, c := range cs {
		if drop[i] {
			continue
		}
		if r, ok := replace[i]; ok {
			c = r
		}
		out = append(out, c)
	}
	return out
}

// asBoolAssertion matches an unconditional top-level assertion of a
// boolean variable.
func asBoolAssertion(c *constraint.Constraint) (int, bool) {
	if !constraint.Equal(c.Assuming, constraint.True) {
		return 0, false
	}
	v, ok := c.Cond.(*constraint.BoolVar)
	if !ok {
		return 0, false
	}
	return v.ID, true
}

// asBoolDefinition matches an unconditional boolEq with a variable on
// the left.
func asBoolDefinition(c *constraint.Constraint) (int, constraint.BoolExpr, bool) {
	if !constraint.Equal(c.Assuming, constraint.True) {
		return 0, nil, false
	}
	eq, ok := c.Cond.(*constraint.BoolEq)
	if !ok {
		return 0, nil, false
	}
	v, ok := eq.X.(*constraint.BoolVar)
	if !ok {
		return 0, nil, false
	}
	return v.ID, eq.Y, true
}

func mentionsBool(e constraint.BoolExpr, id int) bool {
	vs := constraint.NewVarSet()
	vs.Add(e)
	return vs.Bools[id]
}
