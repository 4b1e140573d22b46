package routingalgorithm

import "github.com/lintang-b-s/roadroute/pkg/datastructure"

const noPredecessor int32 = -1

// searchNode. per-query scratch state of one discovered junction.
type searchNode struct {
	junctionID  datastructure.JunctionID
	position    datastructure.Point
	costG       float64 // accumulated cost from the start junction
	costF       float64 // costG + heuristic
	linkID      datastructure.LinkID
	predecessor int32
}

// nodePool. arena holding every search node of one query by value. nodes refer to their predecessor by
// arena index, so the whole arena is dropped at once when the query ends.
type nodePool struct {
	nodes []searchNode
}

func newNodePool(capacity int) *nodePool {
	return &nodePool{nodes: make([]searchNode, 0, capacity)}
}

func (p *nodePool) acquire(junction datastructure.Junction, predecessor int32, linkID datastructure.LinkID,
	costG, heuristic float64) int32 {
	p.nodes = append(p.nodes, searchNode{
		junctionID:  junction.ID,
		position:    junction.Center,
		costG:       costG,
		costF:       costG + heuristic,
		linkID:      linkID,
		predecessor: predecessor,
	})
	return int32(len(p.nodes) - 1)
}

// get returns a pointer into the arena. it is only valid until the next acquire.
func (p *nodePool) get(idx int32) *searchNode {
	return &p.nodes[idx]
}

func (p *nodePool) size() int {
	return len(p.nodes)
}
