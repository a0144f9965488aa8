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

// Deduplicate drops every constraint structurally equal to an earlier
// one. The first occurrence, with its call stack, is the one kept.
func Deduplicate(cs []*constraint.Constraint) []*constraint.Constraint {
	seen := make(map[string]bool, len(cs))
	out := make([]*constraint.Constraint, 0, len(cs))
	for _, c := range cs {
		key := c.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
