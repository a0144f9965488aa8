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
	"sort"

	"golang.org/x/exp/maps"

	"github.com/gx-org/shapecheck/constraint"
	"github.com/gx-org/shapecheck/ir"
)

// addPathCondition records that a block can be reached under a
// condition. Conditions are keyed by their textual form.
func (itp *interpreter) addPathCondition(block ir.BlockName, cond constraint.BoolExpr) {
	set, ok := itp.pathConditions[block]
	if !ok {
		set = make(map[string]constraint.BoolExpr)
		itp.pathConditions[block] = set
	}
	set[cond.String()] = cond
}

// blockCondition folds a block's reaching conditions into one
// disjunction. Disjuncts are sorted by textual form so the result is
// identical across runs; a disjunct entailing another is redundant and
// dropped. A block with no reaching condition is unreachable.
func (itp *interpreter) blockCondition(block ir.BlockName) (constraint.BoolExpr, bool) {
	set := itp.pathConditions[block]
	if len(set) == 0 {
		return constraint.False, false
	}
	keys := maps.Keys(set)
	sort.Strings(keys)
	var kept []constraint.BoolExpr
	for _, key := range keys {
		cand := set[key]
		redundant := false
		for _, prev := range kept {
			if constraint.Entails(cand, prev) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, cand)
		}
	}
	return constraint.MakeOr(kept...), true
}

// branchTo propagates a condition to a target block and equates the
// target's block arguments with the edge operands. SSA guarantees the
// equations need no guard beyond the edge condition: the guard is
// already part of every consumer's path condition.
func (itp *interpreter) branchTo(dest ir.BlockName, operands []ir.Register, cond constraint.BoolExpr, loc *ir.SourceLocation) error {
	itp.addPathCondition(dest, cond)
	args := itp.blockArgs[dest]
	if len(operands) != len(args) {
		return itp.arityError(loc, "branch to %s passes %d operands, block declares %d arguments", dest, len(operands), len(args))
	}
	for i, op := range operands {
		if err := itp.equate(args[i], itp.load(op), cond, loc); err != nil {
			return err
		}
	}
	return nil
}

func (itp *interpreter) terminator(term *ir.TerminatorDef, pc constraint.BoolExpr) error {
	loc := term.Source
	switch termT := term.Term.(type) {
	case *ir.Branch:
		return itp.branchTo(termT.Dest, termT.Operands, pc, loc)
	case *ir.CondBranch:
		cond := itp.boolOf(itp.load(termT.Cond))
		if err := itp.branchTo(termT.True, termT.TrueOperands, constraint.MakeAnd(pc, cond), loc); err != nil {
			return err
		}
		return itp.branchTo(termT.False, termT.FalseOperands, constraint.MakeAnd(pc, constraint.MakeNot(cond)), loc)
	case *ir.Return:
		return itp.equate(itp.retVal, itp.load(termT.Operand), pc, loc)
	case *ir.SwitchEnum:
		for _, c := range termT.Cases {
			itp.addPathCondition(c.Dest, constraint.MakeAnd(pc, itp.namer.Bool()))
		}
		return nil
	case *ir.Unreachable:
		return nil
	case *ir.UnknownTerminator:
		return skipf(loc, "cannot abstract terminator %s", termT.Name)
	}
	return skipf(loc, "cannot abstract terminator %T", term.Term)
}

// boolOf returns the boolean term of a value, or a fresh variable when
// the value is untracked: an unknown condition still forks the path.
func (itp *interpreter) boolOf(v Value) constraint.BoolExpr {
	if b, ok := v.(*BoolValue); ok {
		return b.X
	}
	return itp.namer.Bool()
}
