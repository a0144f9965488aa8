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

// Package abstract interprets the SSA IR of one function symbolically
// and summarises how tensor shapes flow through it.
//
// The interpreter walks the blocks of an acyclic control-flow graph in
// topological order, maintaining a register valuation and a path
// condition per block. Tensor operations and user asserts emit raw
// constraints; the result is a function summary relating the symbolic
// arguments, the symbolic return value and those constraints.
package abstract

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/gx-org/shapecheck/base/ordered"
	"github.com/gx-org/shapecheck/constraint"
	"github.com/gx-org/shapecheck/fmterr"
	"github.com/gx-org/shapecheck/ir"
	"github.com/gx-org/shapecheck/summary"
)

// Options configures the abstraction of functions.
type Options struct {
	// InducesReducibleCFG reports whether the blocks form a reducible
	// control-flow graph. Defaults to IsAcyclic.
	InducesReducibleCFG func([]ir.Block) bool
	// Unloop rewrites the blocks into an acyclic graph whose semantics
	// conservatively over-approximate the original. Defaults to the
	// identity, which is only correct on already acyclic graphs.
	Unloop func([]ir.Block) []ir.Block
	// Warner receives a diagnostic when a function is abandoned.
	Warner fmterr.Warner
	// Namer allocates fresh variables. Sharing one namer across
	// functions keeps all variable numbers distinct.
	Namer *constraint.Namer
}

func (opts *Options) fill() *Options {
	filled := Options{}
	if opts != nil {
		filled = *opts
	}
	if filled.InducesReducibleCFG == nil {
		filled.InducesReducibleCFG = IsAcyclic
	}
	if filled.Unloop == nil {
		filled.Unloop = func(blocks []ir.Block) []ir.Block { return blocks }
	}
	if filled.Warner == nil {
		filled.Warner = fmterr.WarnerFunc(func(string, *ir.SourceLocation) {})
	}
	if filled.Namer == nil {
		filled.Namer = constraint.NewNamer()
	}
	return &filled
}

// skipError abandons the abstraction of one function. It becomes a
// warning, not an error: the caller treats the function as opaque.
type skipError struct {
	msg string
	loc *ir.SourceLocation
}

func (err *skipError) Error() string {
	return err.msg
}

func skipf(loc *ir.SourceLocation, format string, a ...any) error {
	return &skipError{msg: fmt.Sprintf(format, a...), loc: loc}
}

type interpreter struct {
	fn    *ir.Function
	env   ir.TypeEnvironment
	namer *constraint.Namer

	registers      *ordered.Map[ir.Register, Value]
	holes          *ordered.Map[string, *constraint.Hole]
	pathConditions map[ir.BlockName]map[string]constraint.BoolExpr
	blockArgs      map[ir.BlockName][]Value
	constraints    []constraint.RawConstraint
	retVal         Value
}

// Abstract interprets a function and returns its constraint summary.
//
// A nil summary with a nil error means the function was skipped: its
// control flow or one of its operators is out of reach of the
// abstraction, and a diagnostic went to the warner. A non-nil error is
// a structural inconsistency in the IR.
func Abstract(fn *ir.Function, env ir.TypeEnvironment, opts *Options) (*summary.FunctionSummary, error) {
	opts = opts.fill()
	if len(fn.Blocks) == 0 {
		opts.Warner.Warn(fmt.Sprintf("%s: function has no blocks", fn.Name), nil)
		return nil, nil
	}
	if !opts.InducesReducibleCFG(fn.Blocks) {
		opts.Warner.Warn(fmt.Sprintf("%s: control-flow graph is not reducible", fn.Name), nil)
		return nil, nil
	}
	itp := &interpreter{
		fn:             fn,
		env:            env,
		namer:          opts.Namer,
		registers:      ordered.NewMap[ir.Register, Value](),
		holes:          ordered.NewMap[string, *constraint.Hole](),
		pathConditions: make(map[ir.BlockName]map[string]constraint.BoolExpr),
		blockArgs:      make(map[ir.BlockName][]Value),
	}
	sum, err := itp.run(opts.Unloop(fn.Blocks))
	if err != nil {
		var skip *skipError
		if errors.As(err, &skip) {
			opts.Warner.Warn(fmt.Sprintf("%s: %s", fn.Name, skip.msg), skip.loc)
			return nil, nil
		}
		return nil, err
	}
	return sum, nil
}

func (itp *interpreter) run(blocks []ir.Block) (*summary.FunctionSummary, error) {
	order, err := topoSort(blocks)
	if err != nil {
		return nil, skipf(nil, "%v", err)
	}
	for i := range blocks {
		block := &blocks[i]
		args := make([]Value, len(block.Arguments))
		for j, arg := range block.Arguments {
			args[j] = itp.freshValue(arg.Type)
			itp.registers.Store(arg.Name, args[j])
		}
		itp.blockArgs[block.Name] = args
	}
	itp.retVal = itp.freshValue(itp.fn.ReturnType)
	entry := blocks[0].Name
	itp.pathConditions[entry] = map[string]constraint.BoolExpr{
		constraint.True.String(): constraint.True,
	}
	for _, block := range order {
		pc, reachable := itp.blockCondition(block.Name)
		if !reachable {
			continue
		}
		for i := range block.Operators {
			if err := itp.operator(&block.Operators[i], pc); err != nil {
				return nil, err
			}
		}
		if err := itp.terminator(&block.Terminator, pc); err != nil {
			return nil, err
		}
	}
	args := itp.blockArgs[entry]
	argExprs := make([]constraint.Expr, len(args))
	for i, a := range args {
		argExprs[i] = toExpr(a)
	}
	return &summary.FunctionSummary{
		Name:        itp.fn.Name,
		Args:        argExprs,
		Ret:         toExpr(itp.retVal),
		Constraints: itp.constraints,
	}, nil
}

// load returns the abstract value of a register, which may be nil for
// untracked registers.
func (itp *interpreter) load(r ir.Register) Value {
	v, _ := itp.registers.Load(r)
	return v
}

func (itp *interpreter) loadAll(rs []ir.Register) []Value {
	vs := make([]Value, len(rs))
	for i, r := range rs {
		vs[i] = itp.load(r)
	}
	return vs
}

// hole returns the opaque integer identified by a source location,
// interned so that two uses of the same location share one term.
func (itp *interpreter) hole(loc *ir.SourceLocation) *constraint.Hole {
	return itp.holes.LoadOrStore(loc.Key(), func() *constraint.Hole {
		return &constraint.Hole{Loc: loc}
	})
}

func (itp *interpreter) emit(c constraint.RawConstraint) {
	itp.constraints = append(itp.constraints, c)
}

// equate emits the implied constraint that two values agree, guarded
// by the given path condition. Untracked values impose nothing.
func (itp *interpreter) equate(a, b Value, pc constraint.BoolExpr, loc *ir.SourceLocation) error {
	eq, err := constraint.Equate(toExpr(a), toExpr(b))
	if err != nil {
		return fmterr.Internal(fmterr.Position(loc, err))
	}
	if constraint.Equal(eq, constraint.True) {
		return nil
	}
	itp.emit(&constraint.RawExpr{
		Cond:     eq,
		Assuming: pc,
		Origin:   constraint.Implied,
		Loc:      loc,
	})
	return nil
}
