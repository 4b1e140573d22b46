package service

import (
	"context"
	"log"
	"runtime"
	"sort"

	"github.com/lintang-b-s/roadroute/pkg/concurrent"
	"github.com/lintang-b-s/roadroute/pkg/datastructure"
	"github.com/lintang-b-s/roadroute/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/roadroute/pkg/geo"
	"github.com/lintang-b-s/roadroute/pkg/server"
	"github.com/lintang-b-s/roadroute/pkg/snap"
)

type RouteCache interface {
	Get(version uint64, startLinkID, destLinkID datastructure.LinkID) ([]datastructure.LinkID, bool, error)
	Put(version uint64, startLinkID, destLinkID datastructure.LinkID, links []datastructure.LinkID) error
}

// RouteResult. a calculated route plus what the api shows about it.
type RouteResult struct {
	Route    datastructure.Route
	Distance float64
	Path     []datastructure.Point
	// Polyline. encoded lat/lon geometry, only for networks with a geo origin.
	Polyline string
	// GeoDistance. great-circle length of the path in meters, only for networks with a geo origin.
	GeoDistance float64
	Outcome     routingalgorithm.SearchOutcome
	Expanded    int
	Cached      bool
}

type RouteQuery struct {
	Start       datastructure.Point
	Destination datastructure.Point
}

type BatchResult struct {
	Result RouteResult
	Err    error
}

type RouteService struct {
	network        *snap.IndexedNetwork
	cache          RouteCache
	projection     *geo.LocalProjection
	calculatorOpts []routingalgorithm.Option
	workers        int
}

type Option func(*RouteService)

func WithRouteCache(cache RouteCache) Option {
	return func(uc *RouteService) {
		uc.cache = cache
	}
}

func WithCalculatorOptions(opts ...routingalgorithm.Option) Option {
	return func(uc *RouteService) {
		uc.calculatorOpts = append(uc.calculatorOpts, opts...)
	}
}

// WithWorkers sets the number of goroutines a batch request is spread over.
func WithWorkers(n int) Option {
	return func(uc *RouteService) {
		uc.workers = n
	}
}

func NewRouteService(network *snap.IndexedNetwork, opts ...Option) *RouteService {
	uc := &RouteService{
		network: network,
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	if origin, ok := network.Origin(); ok {
		lp := geo.NewLocalProjection(origin)
		uc.projection = &lp
	}
	return uc
}

func (uc *RouteService) newCalculator() *routingalgorithm.RouteCalculator {
	return routingalgorithm.NewRouteCalculator(uc.network, uc.calculatorOpts...)
}

func (uc *RouteService) Calculate(ctx context.Context, start, destination datastructure.Point) (RouteResult, error) {
	return uc.calculate(ctx, uc.newCalculator(), start, destination)
}

// calculate answers one query with rc. rc is owned by the caller's goroutine.
func (uc *RouteService) calculate(ctx context.Context, rc *routingalgorithm.RouteCalculator,
	start, destination datastructure.Point) (RouteResult, error) {
	if err := ctx.Err(); err != nil {
		return RouteResult{}, server.WrapErrorf(err, server.ErrInternalServerError, "request cancelled")
	}

	startLinkID := uc.network.FindClosestLink(start)
	destLinkID := uc.network.FindClosestLink(destination)
	if startLinkID == datastructure.NoLink || destLinkID == datastructure.NoLink {
		return RouteResult{
				Route:   datastructure.NewRoute(start, destination, nil),
				Outcome: routingalgorithm.OutcomeUnresolvedEndpoint,
			}, server.NewErrorf(server.ErrNotFound,
				"sorry!! the location you entered is not covered on my map :(, please use a position closer to a road")
	}

	if links, ok := uc.cachedRoute(startLinkID, destLinkID); ok {
		result := uc.newResult(datastructure.NewRoute(start, destination, links))
		result.Cached = true
		result.Outcome = uc.cachedOutcome(links)
		if result.Outcome == routingalgorithm.OutcomeNoPath {
			return result, server.NewErrorf(server.ErrNotFound, "no route from link %d to link %d", startLinkID, destLinkID)
		}
		return result, nil
	}

	route, stats := rc.CalculateBetweenLinks(start, destination, startLinkID, destLinkID)
	result := uc.newResult(route)
	result.Outcome = stats.Outcome
	result.Expanded = stats.Expanded

	switch stats.Outcome {
	case routingalgorithm.OutcomeExpansionLimit:
		return result, server.NewErrorf(server.ErrNotFound,
			"no route from link %d to link %d within the search limit", startLinkID, destLinkID)
	case routingalgorithm.OutcomeNoPath:
		uc.storeRoute(startLinkID, destLinkID, route.Links)
		return result, server.NewErrorf(server.ErrNotFound, "no route from link %d to link %d", startLinkID, destLinkID)
	}

	uc.storeRoute(startLinkID, destLinkID, route.Links)
	return result, nil
}

func (uc *RouteService) cachedRoute(startLinkID, destLinkID datastructure.LinkID) ([]datastructure.LinkID, bool) {
	if uc.cache == nil {
		return nil, false
	}
	links, ok, err := uc.cache.Get(uc.network.Version(), startLinkID, destLinkID)
	if err != nil {
		log.Printf("route cache get failed: %v", err)
		return nil, false
	}
	return links, ok
}

// cachedOutcome recovers the outcome a cached link sequence was calculated with, so a cache hit reports the
// same outcome as the calculation it replays.
func (uc *RouteService) cachedOutcome(links []datastructure.LinkID) routingalgorithm.SearchOutcome {
	switch len(links) {
	case 0:
		return routingalgorithm.OutcomeNoPath
	case 1:
		return routingalgorithm.OutcomeSameLink
	case 2:
		first := uc.network.GetLink(links[0])
		last := uc.network.GetLink(links[1])
		if first.ToJunctionID == last.FromJunctionID {
			return routingalgorithm.OutcomeAdjacentLinks
		}
	}
	return routingalgorithm.OutcomeFound
}

func (uc *RouteService) storeRoute(startLinkID, destLinkID datastructure.LinkID, links []datastructure.LinkID) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Put(uc.network.Version(), startLinkID, destLinkID, links); err != nil {
		log.Printf("route cache put failed: %v", err)
	}
}

func (uc *RouteService) newResult(route datastructure.Route) RouteResult {
	result := RouteResult{
		Route: route,
		Path:  []datastructure.Point{},
	}
	if !route.Found() {
		return result
	}

	net := uc.network.Network()
	result.Distance = route.Distance(net)
	result.Path = route.Positions(net)
	if uc.projection != nil {
		result.GeoDistance = geo.PathLength(uc.projection.ToCoordinates(result.Path))
		simplified := geo.SimplifyPath(result.Path, geo.DOUGLAS_PEUCKER_THRESHOLD)
		result.Polyline = datastructure.CreatePolyline(uc.projection.ToCoordinates(simplified))
	}
	return result
}

type batchItemResult struct {
	index  int
	result RouteResult
	err    error
}

// CalculateBatch answers every query on a worker pool. every worker owns one route calculator. results keep
// the order of queries, a failed query only fails its own entry.
func (uc *RouteService) CalculateBatch(ctx context.Context, queries []RouteQuery) ([]BatchResult, error) {
	if len(queries) == 0 {
		return []BatchResult{}, server.NewErrorf(server.ErrBadParamInput, "batch must contain at least one query")
	}

	workers := concurrent.NewWorkerPool[concurrent.RouteJobItem, batchItemResult](uc.workers, len(queries))
	for i, q := range queries {
		workers.AddJob(concurrent.NewRouteJobItem(i, q.Start, q.Destination))
	}
	workers.Close()

	workers.StartPerWorker(func() concurrent.JobFunc[concurrent.RouteJobItem, batchItemResult] {
		rc := uc.newCalculator()
		return func(job concurrent.RouteJobItem) batchItemResult {
			result, err := uc.calculate(ctx, rc, job.Start, job.Destination)
			return batchItemResult{index: job.Index, result: result, err: err}
		}
	})
	workers.Wait()

	items := make([]batchItemResult, 0, len(queries))
	for item := range workers.CollectResults() {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].index < items[j].index
	})

	results := make([]BatchResult, 0, len(items))
	for _, item := range items {
		results = append(results, BatchResult{Result: item.result, Err: item.err})
	}

	if err := ctx.Err(); err != nil {
		return results, server.WrapErrorf(err, server.ErrInternalServerError, "request cancelled")
	}
	return results, nil
}

func (uc *RouteService) NearestLinks(ctx context.Context, p datastructure.Point, k int) ([]snap.NearLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "request cancelled")
	}
	if k <= 0 {
		return nil, server.NewErrorf(server.ErrBadParamInput, "k must be positive")
	}
	links := uc.network.NearestLinks(p, k)
	if len(links) == 0 {
		return links, server.NewErrorf(server.ErrNotFound,
			"sorry!! the location you entered is not covered on my map :(")
	}
	return links, nil
}

func (uc *RouteService) Network() *datastructure.RoadNetwork {
	return uc.network.Network()
}
