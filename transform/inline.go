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

// Inline collapses chains of integer let-bindings.
//
// An unconditional d = rhs constraint defines d when d has not been
// used or defined by an earlier constraint and rhs does not mention d.
// The definition is dropped and rhs substituted into every later use.
// A use appearing before the definition keeps the definition in
// place: the transform is order-sensitive on purpose, it is not a
// full copy propagation. Results are simplified, so a fully literal
// chain collapses to its value.
func Inline(cs []*constraint.Constraint) []*constraint.Constraint {
	sub := constraint.NewSubstitution()
	used := constraint.NewVarSet()
	defined := make(map[int]bool)
	out := make([]*constraint.Constraint, 0, len(cs))
	for _, c := range cs {
		c = c.Substitute(sub)
		if v, rhs, ok := asIntDefinition(c); ok && !used.HasInt(v) && !defined[v] && !mentionsInt(rhs, v) {
			defined[v] = true
			// Compose so that terms already recorded for earlier
			// variables see this definition too.
			next := constraint.NewSubstitution()
			next.Ints[v] = rhs
			sub = constraint.Compose(sub, next)
			continue
		}
		if v, _, ok := asIntDefinition(c); ok {
			defined[v] = true
		}
		used.Add(c.Cond)
		used.Add(c.Assuming)
		out = append(out, c)
	}
	return Simplify(out)
}

// asIntDefinition matches the unconditional d = rhs form, with the
// variable on the left.
func asIntDefinition(c *constraint.Constraint) (int, constraint.IntExpr, bool) {
	if !constraint.Equal(c.Assuming, constraint.True) {
		return 0, nil, false
	}
	cmp, ok := c.Cond.(*constraint.IntCmp)
	if !ok || cmp.Op != constraint.Eq {
		return 0, nil, false
	}
	v, ok := cmp.X.(*constraint.IntVar)
	if !ok {
		return 0, nil, false
	}
	return v.ID, cmp.Y, true
}

func mentionsInt(e constraint.IntExpr, id int) bool {
	vs := constraint.NewVarSet()
	vs.Add(e)
	return vs.HasInt(id)
}
