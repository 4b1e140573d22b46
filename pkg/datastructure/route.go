package datastructure

// Route. ordered, contiguous link sequence from the link nearest Start to the link nearest Destination.
// an empty Links slice means no route could be calculated.
type Route struct {
	Start       Point
	Destination Point
	Links       []LinkID
}

func NewRoute(start, destination Point, links []LinkID) Route {
	if links == nil {
		links = []LinkID{}
	}
	return Route{
		Start:       start,
		Destination: destination,
		Links:       links,
	}
}

func (r Route) Found() bool {
	return len(r.Links) > 0
}

// Junctions returns the junctions the route drives through, starting at the first link's source junction.
func (r Route) Junctions(n *RoadNetwork) []JunctionID {
	if !r.Found() {
		return []JunctionID{}
	}
	junctions := make([]JunctionID, 0, len(r.Links)+1)
	junctions = append(junctions, n.GetLink(r.Links[0]).FromJunctionID)
	for _, linkID := range r.Links {
		junctions = append(junctions, n.GetLink(linkID).ToJunctionID)
	}
	return junctions
}

// Positions returns the junction centers along the route.
func (r Route) Positions(n *RoadNetwork) []Point {
	junctions := r.Junctions(n)
	positions := make([]Point, 0, len(junctions))
	for _, j := range junctions {
		positions = append(positions, n.GetJunction(j).Center)
	}
	return positions
}

// Distance. summed straight-line length of every link on the route.
func (r Route) Distance(n *RoadNetwork) float64 {
	dist := 0.0
	for _, linkID := range r.Links {
		dist += n.LinkLength(linkID)
	}
	return dist
}

// IsContiguous reports whether every link departs from the junction the previous link arrives at.
func (r Route) IsContiguous(n *RoadNetwork) bool {
	for i := 1; i < len(r.Links); i++ {
		if n.GetLink(r.Links[i-1]).ToJunctionID != n.GetLink(r.Links[i]).FromJunctionID {
			return false
		}
	}
	return true
}
