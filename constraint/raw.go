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

import (
	"fmt"
	"strings"

	"github.com/gx-org/shapecheck/ir"
)

// Origin distinguishes constraints written by the user from
// constraints derived by the checker. Transforms must preserve
// asserted constraints; implied ones may be rewritten or dropped.
type Origin int

// Constraint origins.
const (
	Implied Origin = iota
	Asserted
)

// String representation of the origin.
func (o Origin) String() string {
	if o == Asserted {
		return "asserted"
	}
	return "implied"
}

type (
	// RawConstraint is a constraint as emitted by the abstract
	// interpreter. It may still reference other functions by name.
	RawConstraint interface {
		fmt.Stringer
		raw()
	}

	// RawExpr requires a predicate to hold whenever the path
	// condition Assuming holds.
	RawExpr struct {
		Cond     BoolExpr
		Assuming BoolExpr
		Origin   Origin
		Loc      *ir.SourceLocation
	}

	// RawCall is an unresolved call site. It stands for the callee's
	// constraints with arguments and result substituted. A nil
	// argument or result is an untracked value.
	RawCall struct {
		Name     string
		Args     []Expr
		Result   Expr
		Assuming BoolExpr
		Loc      *ir.SourceLocation
	}
)

func (*RawExpr) raw() {}
func (*RawCall) raw() {}

func isTrue(e BoolExpr) bool {
	lit, ok := e.(*BoolLit)
	return ok && lit.Value
}

// String representation of the constraint.
func (c *RawExpr) String() string {
	s := c.Cond.String()
	if !isTrue(c.Assuming) {
		s = fmt.Sprintf("%s assuming %s", s, c.Assuming.String())
	}
	return fmt.Sprintf("%s [%s]", s, c.Origin)
}

// String representation of the call site.
func (c *RawCall) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		if a == nil {
			args[i] = "_"
			continue
		}
		args[i] = a.String()
	}
	result := "_"
	if c.Result != nil {
		result = c.Result.String()
	}
	s := fmt.Sprintf("%s = %s(%s)", result, c.Name, strings.Join(args, ", "))
	if !isTrue(c.Assuming) {
		s = fmt.Sprintf("%s assuming %s", s, c.Assuming.String())
	}
	return s
}

// CallStack records the path of inlined call sites that produced a
// constraint, innermost first.
type CallStack struct {
	Loc    *ir.SourceLocation
	Parent *CallStack
}

// Push returns a new stack extended with a call site.
func (cs *CallStack) Push(loc *ir.SourceLocation) *CallStack {
	return &CallStack{Loc: loc, Parent: cs}
}

// String representation of the stack, innermost location first.
func (cs *CallStack) String() string {
	var locs []string
	for at := cs; at != nil; at = at.Parent {
		locs = append(locs, at.Loc.String())
	}
	return strings.Join(locs, " <- ")
}

// Constraint is a fully resolved constraint: no call sites remain and
// the source position has become a stack of inlined call sites.
type Constraint struct {
	Cond     BoolExpr
	Assuming BoolExpr
	Origin   Origin
	Stack    *CallStack
}

// String representation of the constraint.
func (c *Constraint) String() string {
	s := c.Cond.String()
	if !isTrue(c.Assuming) {
		s = fmt.Sprintf("%s assuming %s", s, c.Assuming.String())
	}
	return fmt.Sprintf("%s [%s]", s, c.Origin)
}

// Substitute returns the constraint rewritten under a substitution.
func (c *Constraint) Substitute(s *Substitution) *Constraint {
	return &Constraint{
		Cond:     s.Bool(c.Cond),
		Assuming: s.Bool(c.Assuming),
		Origin:   c.Origin,
		Stack:    c.Stack,
	}
}
