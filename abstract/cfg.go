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
	"github.com/pkg/errors"

	"github.com/gx-org/shapecheck/ir"
)

// successors returns the blocks a terminator can jump to.
func successors(term ir.Terminator) []ir.BlockName {
	switch termT := term.(type) {
	case *ir.Branch:
		return []ir.BlockName{termT.Dest}
	case *ir.CondBranch:
		return []ir.BlockName{termT.True, termT.False}
	case *ir.SwitchEnum:
		dests := make([]ir.BlockName, len(termT.Cases))
		for i, c := range termT.Cases {
			dests[i] = c.Dest
		}
		return dests
	}
	return nil
}

// IsAcyclic reports whether the control-flow graph has no cycle. An
// acyclic graph is trivially reducible; this is the conservative
// default when no CFG preprocessor is plugged in.
func IsAcyclic(blocks []ir.Block) bool {
	_, err := topoSort(blocks)
	return err == nil
}

// topoSort orders blocks so that every block comes after all of its
// predecessors. The order is deterministic: ties are broken by the
// original block order.
func topoSort(blocks []ir.Block) ([]*ir.Block, error) {
	index := make(map[ir.BlockName]int, len(blocks))
	for i := range blocks {
		index[blocks[i].Name] = i
	}
	preds := make([]int, len(blocks))
	for i := range blocks {
		for _, succ := range successors(blocks[i].Terminator.Term) {
			j, ok := index[succ]
			if !ok {
				return nil, errors.Errorf("block %s jumps to undefined block %s", blocks[i].Name, succ)
			}
			preds[j]++
		}
	}
	var ready []int
	for i := range blocks {
		if preds[i] == 0 {
			ready = append(ready, i)
		}
	}
	var order []*ir.Block
	for len(ready) > 0 {
		// ready is kept sorted: blocks are appended in index order and
		// consumed from the front.
		i := ready[0]
		ready = ready[1:]
		order = append(order, &blocks[i])
		for _, succ := range successors(blocks[i].Terminator.Term) {
			j := index[succ]
			preds[j]--
			if preds[j] == 0 {
				ready = insertSorted(ready, j)
			}
		}
	}
	if len(order) != len(blocks) {
		return nil, errors.Errorf("control-flow graph has a cycle")
	}
	return order, nil
}

func insertSorted(xs []int, x int) []int {
	at := len(xs)
	for i, v := range xs {
		if x < v {
			at = i
			break
		}
	}
	xs = append(xs, 0)
	copy(xs[at+1:], xs[at:])
	xs[at] = x
	return xs
}
