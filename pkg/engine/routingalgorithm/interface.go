package routingalgorithm

import "github.com/lintang-b-s/roadroute/pkg/datastructure"

// RoadNetwork. read-only road network view consumed by the route calculator.
// FindClosestLink returns datastructure.NoLink when a position cannot be associated with any link.
type RoadNetwork interface {
	FindClosestLink(p datastructure.Point) datastructure.LinkID
	GetLink(id datastructure.LinkID) datastructure.Link
	GetJunction(id datastructure.JunctionID) datastructure.Junction
}
