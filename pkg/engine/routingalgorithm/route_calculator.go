package routingalgorithm

import (
	"log"

	"github.com/lintang-b-s/roadroute/pkg/datastructure"
	"github.com/lintang-b-s/roadroute/pkg/util"
)

// https://www.cs.princeton.edu/courses/archive/spr06/cos423/Handouts/GH05.pdf

type SearchOutcome int

const (
	OutcomeFound SearchOutcome = iota
	OutcomeSameLink
	OutcomeAdjacentLinks
	OutcomeUnresolvedEndpoint
	OutcomeNoPath
	OutcomeExpansionLimit
)

func (o SearchOutcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeSameLink:
		return "same_link"
	case OutcomeAdjacentLinks:
		return "adjacent_links"
	case OutcomeUnresolvedEndpoint:
		return "unresolved_endpoint"
	case OutcomeNoPath:
		return "no_path"
	case OutcomeExpansionLimit:
		return "expansion_limit"
	default:
		return "unknown"
	}
}

func (o SearchOutcome) Success() bool {
	return o == OutcomeFound || o == OutcomeSameLink || o == OutcomeAdjacentLinks
}

// SearchStats. bookkeeping of one route calculation.
type SearchStats struct {
	Outcome     SearchOutcome
	StartLinkID datastructure.LinkID
	DestLinkID  datastructure.LinkID
	// Expanded. number of junctions moved to the closed set.
	Expanded int
	// Cost. summed junction-to-junction distance from the start link's destination junction
	// to the destination link's source junction.
	Cost float64
}

/*
RouteCalculator. point-to-point route planner over a road network.

Calculate resolves both positions to their nearest link, then runs an A* search over junctions from the
start link's destination junction to the destination link's source junction. Edge cost and heuristic are
both straight-line distance, so the heuristic never overestimates and the route is optimal w.r.t. summed
junction-to-junction distance.

A calculator keeps no state between calls: every call owns its node pool, open set and closed set. Run one
calculator per goroutine; the network itself can be shared.
*/
type RouteCalculator struct {
	network       RoadNetwork
	maxExpansions int
	logger        *log.Logger
}

type Option func(*RouteCalculator)

// WithMaxExpansions bounds the search: after n expanded junctions the calculation gives up. zero means no limit.
func WithMaxExpansions(n int) Option {
	return func(rc *RouteCalculator) {
		rc.maxExpansions = n
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(rc *RouteCalculator) {
		rc.logger = logger
	}
}

func NewRouteCalculator(network RoadNetwork, opts ...Option) *RouteCalculator {
	rc := &RouteCalculator{
		network: network,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

// Calculate returns the route from start to destination. an empty Links slice means no route exists.
func (rc *RouteCalculator) Calculate(start, destination datastructure.Point) datastructure.Route {
	route, _ := rc.CalculateWithStats(start, destination)
	return route
}

func (rc *RouteCalculator) CalculateWithStats(start, destination datastructure.Point) (datastructure.Route, SearchStats) {
	startLinkID := rc.network.FindClosestLink(start)
	destLinkID := rc.network.FindClosestLink(destination)
	return rc.CalculateBetweenLinks(start, destination, startLinkID, destLinkID)
}

// CalculateBetweenLinks skips the nearest-link lookup for callers that already resolved both positions.
func (rc *RouteCalculator) CalculateBetweenLinks(start, destination datastructure.Point,
	startLinkID, destLinkID datastructure.LinkID) (datastructure.Route, SearchStats) {
	stats := SearchStats{StartLinkID: startLinkID, DestLinkID: destLinkID}

	if startLinkID == datastructure.NoLink || destLinkID == datastructure.NoLink {
		rc.logger.Printf("route calculation failed, no start or destination link %d %d", startLinkID, destLinkID)
		stats.Outcome = OutcomeUnresolvedEndpoint
		return datastructure.NewRoute(start, destination, nil), stats
	}

	rc.logger.Printf("route calculation from link %d to link %d", startLinkID, destLinkID)

	startLink := rc.network.GetLink(startLinkID)
	destLink := rc.network.GetLink(destLinkID)

	if startLinkID == destLinkID {
		stats.Outcome = OutcomeSameLink
		return datastructure.NewRoute(start, destination, []datastructure.LinkID{startLinkID}), stats
	}
	if startLink.ToJunctionID == destLink.FromJunctionID {
		stats.Outcome = OutcomeAdjacentLinks
		return datastructure.NewRoute(start, destination, []datastructure.LinkID{startLinkID, destLinkID}), stats
	}

	links := rc.search(startLink, destLink, &stats)
	switch stats.Outcome {
	case OutcomeFound:
		rc.logger.Printf("route successfully calculated, %d links, %d junctions expanded", len(links), stats.Expanded)
	case OutcomeExpansionLimit:
		rc.logger.Printf("route calculation failed, expansion limit %d reached", rc.maxExpansions)
	default:
		rc.logger.Printf("route calculation failed, no path after %d junctions expanded", stats.Expanded)
	}
	return datastructure.NewRoute(start, destination, links), stats
}

// routeSearch. scratch state of one A* run. never outlives the search call.
type routeSearch struct {
	network RoadNetwork
	pool    *nodePool
	open    *openSet
	closed  closedSet
	goal    datastructure.Junction
	logger  *log.Logger
}

func (rs *routeSearch) heuristic(p datastructure.Point) float64 {
	return datastructure.EuclideanDistance(p, rs.goal.Center)
}

func (rc *RouteCalculator) search(startLink, destLink datastructure.Link, stats *SearchStats) []datastructure.LinkID {
	rs := &routeSearch{
		network: rc.network,
		pool:    newNodePool(64),
		open:    newOpenSet(),
		closed:  newClosedSet(),
		goal:    rc.network.GetJunction(destLink.FromJunctionID),
		logger:  rc.logger,
	}

	seedJunction := rc.network.GetJunction(startLink.ToJunctionID)
	seed := rs.pool.acquire(seedJunction, noPredecessor, startLink.ID, 0, rs.heuristic(seedJunction.Center))
	rs.open.insert(rs.pool, seed)

	for !rs.open.isEmpty() {
		currIdx, _ := rs.open.extractMin()
		current := *rs.pool.get(currIdx)

		if current.junctionID == rs.goal.ID {
			stats.Outcome = OutcomeFound
			stats.Cost = current.costG
			links := rs.reconstructPath(currIdx)
			return append(links, destLink.ID)
		}

		if rc.maxExpansions > 0 && stats.Expanded >= rc.maxExpansions {
			stats.Outcome = OutcomeExpansionLimit
			return []datastructure.LinkID{}
		}

		rs.closed.add(current.junctionID)
		stats.Expanded++

		rs.expandNode(currIdx, current)
	}

	stats.Outcome = OutcomeNoPath
	return []datastructure.LinkID{}
}

// expandNode relaxes every outgoing link of the current junction that does not lead into the closed set.
func (rs *routeSearch) expandNode(currIdx int32, current searchNode) {
	for _, outLinkID := range rs.network.GetJunction(current.junctionID).LinksOut {
		outLink := rs.network.GetLink(outLinkID)

		if rs.closed.contains(outLink.ToJunctionID) {
			continue
		}

		successor := rs.network.GetJunction(outLink.ToJunctionID)
		tentativeG := current.costG + datastructure.EuclideanDistance(current.position, successor.Center)

		succIdx, ok := rs.open.get(successor.ID)
		if !ok {
			idx := rs.pool.acquire(successor, currIdx, outLinkID, tentativeG, rs.heuristic(successor.Center))
			rs.open.insert(rs.pool, idx)
			continue
		}

		succ := rs.pool.get(succIdx)
		if succ.costG <= tentativeG {
			continue
		}

		// cost, predecessor and arrival link change together so the reconstructed path matches the cost
		succ.costG = tentativeG
		succ.costF = tentativeG + rs.heuristic(successor.Center)
		succ.predecessor = currIdx
		succ.linkID = outLinkID
		if err := rs.open.update(rs.pool, succIdx); err != nil {
			rs.logger.Printf("open set out of sync with node pool: %v", err)
		}
	}
}

// reconstructPath walks predecessor indices from the goal back to the seed and returns the arrival links
// in driving order. the seed's arrival link is the start link.
func (rs *routeSearch) reconstructPath(goalIdx int32) []datastructure.LinkID {
	links := make([]datastructure.LinkID, 0, 16)
	for idx := goalIdx; idx != noPredecessor; idx = rs.pool.get(idx).predecessor {
		links = append(links, rs.pool.get(idx).linkID)
	}
	return util.ReverseG(links)
}
