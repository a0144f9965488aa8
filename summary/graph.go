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
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"

	"github.com/gx-org/shapecheck/constraint"
)

// Callees returns the names of the functions a summary calls,
// deduplicated and sorted.
func Callees(s *FunctionSummary) []string {
	seen := make(map[string]bool)
	for _, c := range s.Constraints {
		call, ok := c.(*constraint.RawCall)
		if !ok {
			continue
		}
		seen[call.Name] = true
	}
	names := maps.Keys(seen)
	sort.Strings(names)
	return names
}

// TopologicalOrder returns the summaries ordered callees first, so
// that inlining a summary only ever reads summaries that were fully
// expanded before it. Calls to functions without a summary are
// ignored. A cycle in the call graph is an error.
func TopologicalOrder(summaries Map) ([]*FunctionSummary, error) {
	names := maps.Keys(summaries)
	sort.Strings(names)
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(names))
	var order []*FunctionSummary
	var visit func(name string) error
	visit = func(name string) error {
		s, ok := summaries[name]
		if !ok {
			return nil
		}
		switch state[name] {
		case done:
			return nil
		case visiting:
			return errors.Errorf("call graph cycle through %s", name)
		}
		state[name] = visiting
		for _, callee := range Callees(s) {
			if err := visit(callee); err != nil {
				return err
			}
		}
		state[name] = done
		order = append(order, s)
		return nil
	}
	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}
