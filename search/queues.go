package search

import (
	"container/heap"
)

//region Queues

//region VertexQueue

// VertexQueue is a binary min-heap of vertices ordered by Cost, normally
// f_hat = g_hat + h_hat.
type VertexQueue struct {
	Nodes []*Vertex
	Cost  func(node *Vertex) float64
}

func (h VertexQueue) Len() int { return len(h.Nodes) }
func (h VertexQueue) Less(i, j int) bool {
	return h.Cost(h.Nodes[i]) < h.Cost(h.Nodes[j])
}
func (h VertexQueue) Swap(i, j int) { h.Nodes[i], h.Nodes[j] = h.Nodes[j], h.Nodes[i] }

func (h *VertexQueue) Push(x interface{}) {
	if x.(*Vertex).ParentEdge == nil {
		logger.Warn("added a vertex to the queue with no parent edge")
	}
	h.Nodes = append(h.Nodes, x.(*Vertex))
}

func (h *VertexQueue) Pop() interface{} {
	old := *h
	n := len(old.Nodes)
	x := old.Nodes[n-1]
	h.Nodes = old.Nodes[0 : n-1]
	return x
}

func (h *VertexQueue) Peek() interface{} {
	return h.Nodes[len(h.Nodes)-1]
}

func makeVertexQueue(nodes []*Vertex, cost func(node *Vertex) float64) *VertexQueue {
	nodeHeap := VertexQueue{Nodes: nodes, Cost: cost}
	heap.Init(&nodeHeap)
	return &nodeHeap
}

func (h *VertexQueue) Update(cost func(node *Vertex) float64) {
	if cost != nil {
		h.Cost = cost
	}
	heap.Init(h)
}

//endregion

//region EdgeQueue

// EdgeQueue is a binary min-heap of candidate edges ordered by Cost.
type EdgeQueue struct {
	Nodes []*Edge
	Cost  func(node *Edge) float64
}

func (h EdgeQueue) Len() int { return len(h.Nodes) }
func (h EdgeQueue) Less(i, j int) bool {
	return h.Cost(h.Nodes[i]) < h.Cost(h.Nodes[j])
}
func (h EdgeQueue) Swap(i, j int) { h.Nodes[i], h.Nodes[j] = h.Nodes[j], h.Nodes[i] }

func (h *EdgeQueue) Push(x interface{}) {
	h.Nodes = append(h.Nodes, x.(*Edge))
}

func (h *EdgeQueue) Pop() interface{} {
	old := *h
	n := len(old.Nodes)
	x := old.Nodes[n-1]
	h.Nodes = old.Nodes[0 : n-1]
	return x
}

func makeEdgeQueue(nodes []*Edge, cost func(node *Edge) float64) *EdgeQueue {
	nodeHeap := EdgeQueue{Nodes: nodes, Cost: cost}
	heap.Init(&nodeHeap)
	return &nodeHeap
}

//endregion

// VertexCost and EdgeCost are the default priority functions, bound to a
// Context. planner.AStarPlanner uses VertexCost for its vertex queue;
// EdgeCost is not used by the planner.
func VertexCost(ctx *Context) func(*Vertex) float64 {
	return func(v *Vertex) float64 { return v.FValue(ctx) }
}

func EdgeCost(ctx *Context) func(*Edge) float64 {
	return func(e *Edge) float64 {
		return e.Start.GetCurrentCost() + e.ApproxCost(ctx) + e.End.ApproxToGo(ctx)
	}
}

//endregion
