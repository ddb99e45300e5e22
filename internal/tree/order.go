package tree

import "container/heap"

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

// topoOrder is Kahn's algorithm with the ready set ordered by first
// appearance in the script. It returns fewer nodes than the graph has when
// there is a cycle.
func topoOrder(outgoing [][]int) []int {
	indeg := make([]int, len(outgoing))
	for _, tos := range outgoing {
		for _, m := range tos {
			indeg[m]++
		}
	}

	ready := &intMinHeap{}
	for i := range indeg {
		if indeg[i] == 0 {
			heap.Push(ready, i)
		}
	}

	out := make([]int, 0, len(indeg))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(int)
		out = append(out, n)

		for _, m := range outgoing[n] {
			indeg[m]--
			if indeg[m] == 0 {
				heap.Push(ready, m)
			}
		}
	}

	return out
}

// cyclePath returns one cycle as node IDs, starting and ending on the same node.
func (b *builder) cyclePath() []string {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(b.ids))
	parent := make([]int, len(b.ids))

	for i := range parent {
		parent[i] = -1
	}

	var cycle []int

	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray

		for _, v := range b.outgoing[u] {
			switch color[v] {
			case white:
				parent[v] = u
				if dfs(v) {
					return true
				}
			case gray:
				cycle = append(cycle, v)
				for cur := u; cur != -1 && cur != v; cur = parent[cur] {
					cycle = append(cycle, cur)
				}

				cycle = append(cycle, v)

				return true
			}
		}

		color[u] = black

		return false
	}

	for i := range b.ids {
		if color[i] == white && dfs(i) {
			break
		}
	}

	out := make([]string, 0, len(cycle))
	for i := len(cycle) - 1; i >= 0; i-- {
		out = append(out, b.ids[cycle[i]])
	}

	return out
}
