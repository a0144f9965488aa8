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

// Package summary holds the per-function output of the abstract
// interpreter and expands call sites between summaries.
package summary

import (
	"fmt"
	"strings"

	"github.com/gx-org/shapecheck/constraint"
)

// FunctionSummary is the abstracted signature of a function: symbolic
// argument terms, a symbolic return term and the constraints relating
// them. A nil argument or return is an untracked value.
type FunctionSummary struct {
	Name        string
	Args        []constraint.Expr
	Ret         constraint.Expr
	Constraints []constraint.RawConstraint
}

// String prints the summary in a numbered block form.
func (s *FunctionSummary) String() string {
	var b strings.Builder
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		if a == nil {
			args[i] = "_"
			continue
		}
		args[i] = a.String()
	}
	ret := "_"
	if s.Ret != nil {
		ret = s.Ret.String()
	}
	fmt.Fprintf(&b, "%s(%s) -> %s {\n", s.Name, strings.Join(args, ", "), ret)
	for i, c := range s.Constraints {
		fmt.Fprintf(&b, "  %d: %s\n", i, c.String())
	}
	b.WriteString("}")
	return b.String()
}

// Vars returns the set of variables mentioned anywhere in the summary.
func (s *FunctionSummary) Vars() *constraint.VarSet {
	vs := constraint.NewVarSet()
	for _, a := range s.Args {
		vs.Add(a)
	}
	vs.Add(s.Ret)
	for _, c := range s.Constraints {
		switch cT := c.(type) {
		case *constraint.RawExpr:
			vs.Add(cT.Cond)
			vs.Add(cT.Assuming)
		case *constraint.RawCall:
			for _, a := range cT.Args {
				vs.Add(a)
			}
			vs.Add(cT.Result)
			vs.Add(cT.Assuming)
		}
	}
	return vs
}

// substitute returns the summary rewritten under a substitution.
func (s *FunctionSummary) substitute(sub *constraint.Substitution) *FunctionSummary {
	args := make([]constraint.Expr, len(s.Args))
	for i, a := range s.Args {
		args[i] = sub.Apply(a)
	}
	cs := make([]constraint.RawConstraint, len(s.Constraints))
	for i, c := range s.Constraints {
		switch cT := c.(type) {
		case *constraint.RawExpr:
			cs[i] = &constraint.RawExpr{
				Cond:     sub.Bool(cT.Cond),
				Assuming: sub.Bool(cT.Assuming),
				Origin:   cT.Origin,
				Loc:      cT.Loc,
			}
		case *constraint.RawCall:
			callArgs := make([]constraint.Expr, len(cT.Args))
			for j, a := range cT.Args {
				callArgs[j] = sub.Apply(a)
			}
			cs[i] = &constraint.RawCall{
				Name:     cT.Name,
				Args:     callArgs,
				Result:   sub.Apply(cT.Result),
				Assuming: sub.Bool(cT.Assuming),
				Loc:      cT.Loc,
			}
		}
	}
	return &FunctionSummary{
		Name:        s.Name,
		Args:        args,
		Ret:         sub.Apply(s.Ret),
		Constraints: cs,
	}
}
