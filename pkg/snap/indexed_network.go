package snap

import "github.com/lintang-b-s/roadroute/pkg/datastructure"

// IndexedNetwork. road network plus its nearest-link index, the read-only view route calculation works on.
type IndexedNetwork struct {
	*datastructure.RoadNetwork
	*RoadSnapper
}

func NewIndexedNetwork(net *datastructure.RoadNetwork, opts ...Option) (*IndexedNetwork, error) {
	rs, err := BuildRoadSnapper(net, opts...)
	if err != nil {
		return nil, err
	}
	return &IndexedNetwork{RoadNetwork: net, RoadSnapper: rs}, nil
}

func (n *IndexedNetwork) Network() *datastructure.RoadNetwork {
	return n.RoadNetwork
}
