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

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/gx-org/shapecheck/constraint"
	"github.com/gx-org/shapecheck/fmterr"
)

// maxPipelineRounds bounds the fixpoint iteration. Every transform is
// idempotent, so a list that keeps changing past this bound indicates
// a bug in a transform.
const maxPipelineRounds = 100

// Pipeline runs the full transform sequence until the constraint list
// stops changing.
func Pipeline(cs []*constraint.Constraint, strength Strength) ([]*constraint.Constraint, error) {
	before := fingerprint(cs)
	for range maxPipelineRounds {
		cs = Simplify(cs)
		cs = Deduplicate(cs)
		cs = Inline(cs)
		cs = ResolveEqualities(cs, strength)
		cs = InlineBoolVars(cs)
		after := fingerprint(cs)
		if after == before {
			return cs, nil
		}
		before = after
	}
	return nil, fmterr.Internal(errors.Errorf("transform pipeline did not reach a fixpoint after %d rounds", maxPipelineRounds))
}

func fingerprint(cs []*constraint.Constraint) string {
	var b strings.Builder
	for _, c := range cs {
		b.WriteString(c.String())
		b.WriteString("\n")
	}
	return b.String()
}
