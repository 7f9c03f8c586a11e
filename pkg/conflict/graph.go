// Copyright 2025 walteh LLC
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

package conflict

import (
	"github.com/walteh/edrn/pkg/plan"
)

// 🕸️ graph is the dependency structure over a plan's operations, rebuilt
// fresh per run. An edge i -> j means operation i must wait for operation j
// to vacate its source first (i's destination equals j's source).
//
// Sources and destinations are each unique within a validated plan, so
// every node has at most one successor and at most one predecessor. The
// graph therefore decomposes into disjoint simple paths and disjoint
// simple cycles, and no path can feed into a cycle: an edge into a cycle
// member would require two operations sharing a destination.
type graph struct {
	ops      plan.Plan
	bySource map[string]int // source path -> operation index
	succ     []int          // successor index, -1 when none
	hasPred  []bool
}

func buildGraph(p plan.Plan) *graph {
	g := &graph{
		ops:      p,
		bySource: make(map[string]int, len(p)),
		succ:     make([]int, len(p)),
		hasPred:  make([]bool, len(p)),
	}
	for i, op := range p {
		g.bySource[op.Source] = i
	}
	for i, op := range p {
		g.succ[i] = -1
		if j, ok := g.bySource[op.Destination]; ok && j != i {
			g.succ[i] = j
		}
	}
	for i := range p {
		if g.succ[i] >= 0 {
			g.hasPred[g.succ[i]] = true
		}
	}
	return g
}

// 🧩 components splits the operations into singletons (no edges), paths
// (chain components, in forward dependency order), and cycles. Component
// order follows the plan order of each component's first member, so
// reporting stays deterministic.
func (g *graph) components() (singletons plan.Plan, paths, cycles []plan.Plan) {
	visited := make([]bool, len(g.ops))

	// Path components start at a node with no predecessor.
	for i := range g.ops {
		if visited[i] || g.hasPred[i] {
			continue
		}
		if g.succ[i] < 0 {
			visited[i] = true
			singletons = append(singletons, g.ops[i])
			continue
		}
		var path plan.Plan
		for j := i; j >= 0; j = g.succ[j] {
			visited[j] = true
			path = append(path, g.ops[j])
		}
		paths = append(paths, path)
	}

	// Everything left has both a predecessor and a successor: cycles.
	for i := range g.ops {
		if visited[i] {
			continue
		}
		var cycle plan.Plan
		for j := i; !visited[j]; j = g.succ[j] {
			visited[j] = true
			cycle = append(cycle, g.ops[j])
		}
		cycles = append(cycles, cycle)
	}

	return singletons, paths, cycles
}
