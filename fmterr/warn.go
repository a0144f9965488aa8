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

package fmterr

import (
	"sync"

	"github.com/gx-org/shapecheck/ir"
)

// Warner is the sink the checker writes diagnostics to when it
// abandons the analysis of a function. Presentation belongs to the
// caller.
type Warner interface {
	Warn(msg string, loc *ir.SourceLocation)
}

// WarnerFunc adapts a function to the Warner interface.
type WarnerFunc func(msg string, loc *ir.SourceLocation)

// Warn calls the function.
func (f WarnerFunc) Warn(msg string, loc *ir.SourceLocation) {
	f(msg, loc)
}

// Warning is a recorded diagnostic.
type Warning struct {
	Msg string
	Loc *ir.SourceLocation
}

// String representation of the warning.
func (w Warning) String() string {
	if w.Loc == nil {
		return w.Msg
	}
	return w.Loc.String() + ": " + w.Msg
}

// Warnings accumulates diagnostics. Safe for concurrent use.
type Warnings struct {
	mut  sync.Mutex
	list []Warning
}

var _ Warner = (*Warnings)(nil)

// Warn records a diagnostic.
func (ws *Warnings) Warn(msg string, loc *ir.SourceLocation) {
	ws.mut.Lock()
	defer ws.mut.Unlock()
	ws.list = append(ws.list, Warning{Msg: msg, Loc: loc})
}

// All returns the recorded diagnostics.
func (ws *Warnings) All() []Warning {
	ws.mut.Lock()
	defer ws.mut.Unlock()
	return append([]Warning{}, ws.list...)
}
