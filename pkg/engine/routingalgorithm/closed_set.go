package routingalgorithm

import "github.com/lintang-b-s/roadroute/pkg/datastructure"

// closedSet. junctions whose shortest path is final. append-only for one query.
type closedSet map[datastructure.JunctionID]struct{}

func newClosedSet() closedSet {
	return make(closedSet)
}

func (c closedSet) add(junctionID datastructure.JunctionID) {
	c[junctionID] = struct{}{}
}

func (c closedSet) contains(junctionID datastructure.JunctionID) bool {
	_, ok := c[junctionID]
	return ok
}
