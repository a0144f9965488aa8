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

// Package check drives the shape checker over a whole program:
// abstract every function, inline call summaries in call-graph order,
// then rewrite each constraint system to a fixpoint.
package check

import (
	"runtime"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/gx-org/shapecheck/abstract"
	"github.com/gx-org/shapecheck/constraint"
	"github.com/gx-org/shapecheck/fmterr"
	"github.com/gx-org/shapecheck/ir"
	"github.com/gx-org/shapecheck/summary"
	"github.com/gx-org/shapecheck/transform"
)

// Options configures an analysis.
type Options struct {
	// Abstract configures the per-function abstraction. The Namer
	// field is ignored: every function gets its own namer so that
	// abstracting functions concurrently stays deterministic.
	Abstract *abstract.Options
	// Strength used to resolve equalities. Defaults to Everything.
	Strength transform.Strength
	// Parallelism bounds the number of functions abstracted at once.
	// Defaults to the number of CPUs.
	Parallelism int
}

// Result of an analysis.
type Result struct {
	// Summaries of every function that could be abstracted.
	Summaries summary.Map
	// Constraints per function, fully inlined and simplified. The
	// downstream solver decides satisfiability.
	Constraints map[string][]*constraint.Constraint
}

// Analyze abstracts all functions concurrently, then expands and
// simplifies their constraint systems in call-graph order. Functions
// that cannot be abstracted are reported to the warner and treated as
// opaque by their callers.
func Analyze(fns []*ir.Function, env ir.TypeEnvironment, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	strength := opts.Strength
	if strength == 0 {
		strength = transform.Everything
	}
	summaries := make([]*summary.FunctionSummary, len(fns))
	errs := make([]error, len(fns))
	var group errgroup.Group
	group.SetLimit(parallelism)
	for i, fn := range fns {
		group.Go(func() error {
			fnOpts := abstract.Options{}
			if opts.Abstract != nil {
				fnOpts = *opts.Abstract
			}
			fnOpts.Namer = constraint.NewNamer()
			summaries[i], errs[i] = abstract.Abstract(fn, env, &fnOpts)
			return nil
		})
	}
	group.Wait()
	if err := multierr.Combine(errs...); err != nil {
		return nil, err
	}
	result := &Result{
		Summaries:   make(summary.Map, len(fns)),
		Constraints: make(map[string][]*constraint.Constraint, len(fns)),
	}
	for _, s := range summaries {
		if s != nil {
			result.Summaries[s.Name] = s
		}
	}
	order, err := summary.TopologicalOrder(result.Summaries)
	if err != nil {
		return nil, fmterr.Position(nil, err)
	}
	var inlineErrs error
	for _, s := range order {
		namer := constraint.NewNamerAt(s.Vars().MaxID() + 1)
		cs, err := summary.InlineCalls(s, result.Summaries, namer)
		if err != nil {
			inlineErrs = multierr.Append(inlineErrs, err)
			continue
		}
		cs, err = transform.Pipeline(cs, strength)
		if err != nil {
			inlineErrs = multierr.Append(inlineErrs, err)
			continue
		}
		result.Constraints[s.Name] = cs
	}
	return result, inlineErrs
}
