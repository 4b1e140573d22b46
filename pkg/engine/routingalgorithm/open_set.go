package routingalgorithm

import (
	"fmt"

	"github.com/lintang-b-s/roadroute/pkg/datastructure"
)

// openSet. frontier of discovered but unexpanded nodes: a min-heap on costF plus a junction -> arena index map.
type openSet struct {
	pq    *datastructure.MinHeap[datastructure.JunctionID]
	nodes map[datastructure.JunctionID]int32
}

func newOpenSet() *openSet {
	return &openSet{
		pq:    datastructure.NewMinHeap[datastructure.JunctionID](),
		nodes: make(map[datastructure.JunctionID]int32),
	}
}

func (o *openSet) insert(pool *nodePool, idx int32) {
	node := pool.get(idx)
	o.nodes[node.junctionID] = idx
	o.pq.Insert(datastructure.NewPriorityQueueNode(node.costF, node.junctionID))
}

// extractMin removes the node with the lowest costF from both the heap and the junction index.
func (o *openSet) extractMin() (int32, bool) {
	top, err := o.pq.ExtractMin()
	if err != nil {
		return noPredecessor, false
	}
	idx := o.nodes[top.Item]
	delete(o.nodes, top.Item)
	return idx, true
}

func (o *openSet) get(junctionID datastructure.JunctionID) (int32, bool) {
	idx, ok := o.nodes[junctionID]
	return idx, ok
}

// update re-ranks a node already in the set after its cost improved.
func (o *openSet) update(pool *nodePool, idx int32) error {
	node := pool.get(idx)
	if err := o.pq.DecreaseKey(datastructure.NewPriorityQueueNode(node.costF, node.junctionID)); err != nil {
		return fmt.Errorf("update junction %d: %w", node.junctionID, err)
	}
	return nil
}

func (o *openSet) isEmpty() bool {
	return o.pq.Size() == 0
}

func (o *openSet) size() int {
	return o.pq.Size()
}
