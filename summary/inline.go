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

package summary

import (
	"github.com/pkg/errors"
	"github.com/gx-org/shapecheck/constraint"
	"github.com/gx-org/shapecheck/fmterr"
)

// Map resolves callee names to summaries. A name absent from the map
// is an opaque function: its calls impose no constraints.
type Map map[string]*FunctionSummary

// InlineCalls expands every call site of a summary using the callee
// summaries, producing resolved constraints carrying call stacks.
//
// Each inlined callee gets fresh variables drawn from namer; its
// arguments and result are equated positionally with the call site's
// terms; the call site's path condition is conjoined onto every
// inlined constraint; and the inlined constraints' stacks are
// extended with the call site location. The summary graph must be
// acyclic: recursion is reported as an error.
func InlineCalls(s *FunctionSummary, summaries Map, namer *constraint.Namer) ([]*constraint.Constraint, error) {
	exp := &expander{summaries: summaries, namer: namer, inProgress: map[string]bool{s.Name: true}}
	return exp.constraints(s.Constraints, constraint.True, nil)
}

type expander struct {
	summaries  Map
	namer      *constraint.Namer
	inProgress map[string]bool
}

func (exp *expander) constraints(cs []constraint.RawConstraint, assuming constraint.BoolExpr, parent *constraint.CallStack) ([]*constraint.Constraint, error) {
	var out []*constraint.Constraint
	for _, c := range cs {
		switch cT := c.(type) {
		case *constraint.RawExpr:
			out = append(out, &constraint.Constraint{
				Cond:     cT.Cond,
				Assuming: constraint.MakeAnd(assuming, cT.Assuming),
				Origin:   cT.Origin,
				Stack:    parent.Push(cT.Loc),
			})
		case *constraint.RawCall:
			inlined, err := exp.call(cT, assuming, parent)
			if err != nil {
				return nil, err
			}
			out = append(out, inlined...)
		default:
			return nil, fmterr.Internal(errors.Errorf("unknown constraint form %T", c))
		}
	}
	return out, nil
}

func (exp *expander) call(c *constraint.RawCall, assuming constraint.BoolExpr, parent *constraint.CallStack) ([]*constraint.Constraint, error) {
	callee, ok := exp.summaries[c.Name]
	if !ok {
		// Opaque callee: nothing is known about it.
		return nil, nil
	}
	if exp.inProgress[c.Name] {
		return nil, fmterr.Errorf(c.Loc, "recursive call to %s: the summary graph must be acyclic", c.Name)
	}
	exp.inProgress[c.Name] = true
	defer delete(exp.inProgress, c.Name)

	fresh := callee.substitute(exp.namer.Rename(callee.Vars()))
	if len(c.Args) != len(fresh.Args) {
		return nil, fmterr.Internal(errors.Errorf("call to %s passes %d arguments, summary declares %d", c.Name, len(c.Args), len(fresh.Args)))
	}
	stack := parent.Push(c.Loc)
	assuming = constraint.MakeAnd(assuming, c.Assuming)
	var out []*constraint.Constraint
	bind := func(a, b constraint.Expr) error {
		eq, err := constraint.Equate(a, b)
		if err != nil {
			return fmterr.Internal(err)
		}
		if constraint.Equal(eq, constraint.True) {
			return nil
		}
		out = append(out, &constraint.Constraint{
			Cond:     eq,
			Assuming: assuming,
			Origin:   constraint.Implied,
			Stack:    stack,
		})
		return nil
	}
	// The call-site term comes first so that resolving the equality
	// later keeps the caller's variables.
	for i, arg := range c.Args {
		if err := bind(arg, fresh.Args[i]); err != nil {
			return nil, err
		}
	}
	if err := bind(c.Result, fresh.Ret); err != nil {
		return nil, err
	}
	inlined, err := exp.constraints(fresh.Constraints, assuming, stack)
	if err != nil {
		return nil, err
	}
	return append(out, inlined...), nil
}
