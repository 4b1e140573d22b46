package concurrent

import "github.com/lintang-b-s/roadroute/pkg/datastructure"

// RouteJobItem. one start/destination pair of a batch route request. Index is the position in the batch.
type RouteJobItem struct {
	Index       int
	Start       datastructure.Point
	Destination datastructure.Point
}

func NewRouteJobItem(index int, start, destination datastructure.Point) RouteJobItem {
	return RouteJobItem{
		Index:       index,
		Start:       start,
		Destination: destination,
	}
}

type JobI interface {
	RouteJobItem | []datastructure.LinkID
}

type Job[T JobI] struct {
	ID      int
	JobItem T
}

type JobFunc[T JobI, G any] func(job T) G
