// Package framework builds and serves the settlement-system graph: locality
// nodes connected by accessibility-qualified edges. Graphs are immutable
// snapshots; any input change requires a full rebuild.
package framework

import (
	"container/heap"
	"sort"
)

// Edge is an undirected framework connection in canonical form (From < To).
type Edge struct {
	From   int64   `json:"from"`
	To     int64   `json:"to"`
	Cost   float64 `json:"cost"`   // raw accessibility cost
	Weight float64 `json:"weight"` // cost discounted by endpoint significance
}

type halfedge struct {
	to           int64
	cost, weight float64
}

// Graph is an immutable weighted settlement graph. Node and edge iteration
// orders are canonical: ascending IDs and ascending (From, To) pairs.
type Graph struct {
	ids   []int64
	adj   map[int64][]halfedge
	edges []Edge
}

func newGraph(ids []int64) *Graph {
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	adj := make(map[int64][]halfedge, len(sorted))
	for _, id := range sorted {
		adj[id] = nil
	}
	return &Graph{ids: sorted, adj: adj}
}

func (g *Graph) addEdge(e Edge) {
	if e.From > e.To {
		e.From, e.To = e.To, e.From
	}
	g.edges = append(g.edges, e)
	g.adj[e.From] = append(g.adj[e.From], halfedge{to: e.To, cost: e.Cost, weight: e.Weight})
	g.adj[e.To] = append(g.adj[e.To], halfedge{to: e.From, cost: e.Cost, weight: e.Weight})
}

// finalize sorts edges and adjacency lists into canonical order.
func (g *Graph) finalize() {
	sort.Slice(g.edges, func(i, j int) bool {
		if g.edges[i].From != g.edges[j].From {
			return g.edges[i].From < g.edges[j].From
		}
		return g.edges[i].To < g.edges[j].To
	})
	for id := range g.adj {
		hs := g.adj[id]
		sort.Slice(hs, func(i, j int) bool { return hs[i].to < hs[j].to })
	}
}

// NodeIDs returns all node IDs in ascending order.
func (g *Graph) NodeIDs() []int64 {
	out := make([]int64, len(g.ids))
	copy(out, g.ids)
	return out
}

// Has reports whether the node exists.
func (g *Graph) Has(id int64) bool {
	_, ok := g.adj[id]
	return ok
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int { return len(g.ids) }

// NumEdges returns the edge count.
func (g *Graph) NumEdges() int { return len(g.edges) }

// Edges returns all edges in canonical order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Degree returns the number of incident edges.
func (g *Graph) Degree(id int64) int { return len(g.adj[id]) }

// WeightedDegree returns a connectivity centrality for the node: the sum of
// 1/(1+weight) over incident edges, so cheap well-connected nodes score high.
func (g *Graph) WeightedDegree(id int64) float64 {
	var sum float64
	for _, h := range g.adj[id] {
		sum += 1 / (1 + h.weight)
	}
	return sum
}

// Neighbors returns adjacent node IDs with edge costs, sorted by ID.
type Neighbor struct {
	ID   int64
	Cost float64
}

func (g *Graph) Neighbors(id int64) []Neighbor {
	hs := g.adj[id]
	out := make([]Neighbor, 0, len(hs))
	for _, h := range hs {
		out = append(out, Neighbor{ID: h.to, Cost: h.cost})
	}
	return out
}

// pqItem is a priority queue entry for Dijkstra traversal.
type pqItem struct {
	id   int64
	cost float64
}

type pq []pqItem

func (q pq) Len() int { return len(q) }
func (q pq) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].id < q[j].id
}
func (q pq) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *pq) Push(x any)        { *q = append(*q, x.(pqItem)) }
func (q *pq) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// ShortestPathCosts runs Dijkstra from src over edges whose raw cost is at
// most edgeLimit, pruning paths whose aggregate cost exceeds budget.
// The result maps reachable node IDs (src included, at cost 0) to aggregate
// path cost.
func (g *Graph) ShortestPathCosts(src int64, edgeLimit, budget float64) map[int64]float64 {
	dist := map[int64]float64{}
	if !g.Has(src) {
		return dist
	}

	dist[src] = 0
	q := &pq{{id: src, cost: 0}}
	heap.Init(q)

	for q.Len() > 0 {
		cur := heap.Pop(q).(pqItem)
		if cur.cost > dist[cur.id] {
			continue
		}
		for _, h := range g.adj[cur.id] {
			if h.cost > edgeLimit {
				continue
			}
			next := cur.cost + h.cost
			if next > budget {
				continue
			}
			if d, seen := dist[h.to]; !seen || next < d {
				dist[h.to] = next
				heap.Push(q, pqItem{id: h.to, cost: next})
			}
		}
	}
	return dist
}

// Components returns connected components as sorted ID slices, ordered by
// their smallest member.
func (g *Graph) Components() [][]int64 {
	visited := make(map[int64]bool, len(g.ids))
	var comps [][]int64

	for _, start := range g.ids {
		if visited[start] {
			continue
		}
		var comp []int64
		queue := []int64{start}
		visited[start] = true
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			comp = append(comp, id)
			for _, h := range g.adj[id] {
				if !visited[h.to] {
					visited[h.to] = true
					queue = append(queue, h.to)
				}
			}
		}
		sort.Slice(comp, func(i, j int) bool { return comp[i] < comp[j] })
		comps = append(comps, comp)
	}
	return comps
}
