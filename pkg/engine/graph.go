// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package engine

import (
	"container/heap"
	"sort"
)

// Graph is an immutable, validated dependency graph. It is safe for
// concurrent read access.
type Graph struct {
	nodes  []*Component // input order
	index  map[*Component]int
	byName map[string]*Component

	incoming   [][]int // requires and optional dependencies, by index
	required   [][]int // requires only, by index
	outgoing   [][]int // dependents, by index, ascending
	order      []int   // topological order
	orderIndex []int   // position of each node in order
}

// Build validates components and returns their dependency graph.
//
// Build rejects, with an INVALID_GRAPH error wrapping ErrInvalidGraph:
//   - nil components or empty names
//   - duplicate names
//   - a requires or optional dependency that is not among components
//   - any cycle, reported with its path (wrapping ErrCycle)
//
// The topological order honours both requires and optional edges. Ties are
// broken by position in components, so the same input always yields the same
// order.
func Build(components []*Component) (*Graph, error) {
	g := &Graph{
		nodes:  make([]*Component, 0, len(components)),
		index:  make(map[*Component]int, len(components)),
		byName: make(map[string]*Component, len(components)),
	}

	for _, c := range components {
		if c == nil || c.Name == "" {
			return nil, invalidf("component name is required")
		}
		if _, exists := g.byName[c.Name]; exists {
			return nil, invalidf("duplicate component name: %q", c.Name)
		}
		g.byName[c.Name] = c
		g.index[c] = len(g.nodes)
		g.nodes = append(g.nodes, c)
	}

	n := len(g.nodes)
	g.incoming = make([][]int, n)
	g.required = make([][]int, n)
	g.outgoing = make([][]int, n)

	for i, c := range g.nodes {
		seen := make(map[int]struct{})
		for _, dep := range c.Requires {
			j, err := g.resolve(c, dep)
			if err != nil {
				return nil, err
			}
			g.required[i] = append(g.required[i], j)
			if _, dup := seen[j]; !dup {
				seen[j] = struct{}{}
				g.incoming[i] = append(g.incoming[i], j)
			}
		}
		for _, dep := range c.Optional {
			j, err := g.resolve(c, dep)
			if err != nil {
				return nil, err
			}
			if _, dup := seen[j]; !dup {
				seen[j] = struct{}{}
				g.incoming[i] = append(g.incoming[i], j)
			}
		}
		for j := range seen {
			g.outgoing[j] = append(g.outgoing[j], i)
		}
	}
	for j := range g.outgoing {
		sort.Ints(g.outgoing[j])
	}

	if path := g.findCycle(); path != nil {
		return nil, cycleError(path)
	}

	g.order = g.topoOrder()
	g.orderIndex = make([]int, n)
	for pos, i := range g.order {
		g.orderIndex[i] = pos
	}
	return g, nil
}

func (g *Graph) resolve(c, dep *Component) (int, error) {
	if dep == nil {
		return 0, invalidf("component %q has a nil dependency", c.Name)
	}
	j, ok := g.index[dep]
	if !ok {
		if other, named := g.byName[dep.Name]; named && other != dep {
			return 0, invalidf("component %q depends on a different component named %q", c.Name, dep.Name)
		}
		return 0, invalidf("component %q depends on unregistered component %q", c.Name, dep.Name)
	}
	if j == g.index[c] {
		return 0, cycleError([]string{c.Name, c.Name})
	}
	return j, nil
}

// findCycle runs a depth-first traversal with visiting/visited marks over
// dependency edges and returns one cycle path, or nil.
func (g *Graph) findCycle() []string {
	const (
		unvisited = iota
		visiting
		visited
	)

	mark := make([]int, len(g.nodes))
	stack := make([]int, 0, len(g.nodes))
	var cycle []int

	var visit func(u int) bool
	visit = func(u int) bool {
		mark[u] = visiting
		stack = append(stack, u)
		for _, v := range g.incoming[u] {
			switch mark[v] {
			case unvisited:
				if visit(v) {
					return true
				}
			case visiting:
				// back edge: the cycle is the stack suffix starting at v
				for k := len(stack) - 1; k >= 0; k-- {
					if stack[k] == v {
						cycle = append(cycle, stack[k:]...)
						break
					}
				}
				cycle = append(cycle, v)
				return true
			}
		}
		stack = stack[:len(stack)-1]
		mark[u] = visited
		return false
	}

	for i := range g.nodes {
		if mark[i] == unvisited && visit(i) {
			break
		}
	}
	if cycle == nil {
		return nil
	}

	names := make([]string, len(cycle))
	for k, idx := range cycle {
		names[k] = g.nodes[idx].Name
	}
	return names
}

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// topoOrder returns a topological order using Kahn's algorithm with a ready
// queue ordered by input position.
func (g *Graph) topoOrder() []int {
	indeg := make([]int, len(g.nodes))
	for i := range g.nodes {
		indeg[i] = len(g.incoming[i])
	}

	ready := &intMinHeap{}
	for i, d := range indeg {
		if d == 0 {
			heap.Push(ready, i)
		}
	}

	out := make([]int, 0, len(g.nodes))
	for ready.Len() > 0 {
		u := heap.Pop(ready).(int)
		out = append(out, u)
		for _, v := range g.outgoing[u] {
			indeg[v]--
			if indeg[v] == 0 {
				heap.Push(ready, v)
			}
		}
	}
	return out
}

// Len returns the number of components in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Contains reports whether c is part of the graph.
func (g *Graph) Contains(c *Component) bool {
	_, ok := g.index[c]
	return ok
}

// Lookup returns the component with the given name.
func (g *Graph) Lookup(name string) (*Component, bool) {
	c, ok := g.byName[name]
	return c, ok
}

// Components returns the components in input order.
func (g *Graph) Components() []*Component {
	out := make([]*Component, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Order returns the components in topological order.
func (g *Graph) Order() []*Component {
	out := make([]*Component, len(g.order))
	for k, i := range g.order {
		out[k] = g.nodes[i]
	}
	return out
}

// Dependents returns the components that depend on c, in input order.
func (g *Graph) Dependents(c *Component) []*Component {
	i, ok := g.index[c]
	if !ok {
		return nil
	}
	out := make([]*Component, 0, len(g.outgoing[i]))
	for _, j := range g.outgoing[i] {
		out = append(out, g.nodes[j])
	}
	return out
}

// Subgraph returns the graph made of roots and everything they transitively
// depend on. Roots that are not part of g are ignored.
func (g *Graph) Subgraph(roots ...*Component) *Graph {
	keep := make([]bool, len(g.nodes))
	queue := make([]int, 0, len(roots))
	for _, r := range roots {
		if i, ok := g.index[r]; ok && !keep[i] {
			keep[i] = true
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range g.incoming[u] {
			if !keep[v] {
				keep[v] = true
				queue = append(queue, v)
			}
		}
	}

	subset := make([]*Component, 0, len(g.nodes))
	for i, c := range g.nodes {
		if keep[i] {
			subset = append(subset, c)
		}
	}

	sub, err := Build(subset)
	if err != nil {
		// unreachable: a dependency-closed subset of a valid graph is valid
		panic(err)
	}
	return sub
}
