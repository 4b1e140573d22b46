package snap

import (
	"errors"
	"log"
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/lintang-b-s/roadroute/pkg/datastructure"
)

type Rtree interface {
	Insert(obj rtreego.Spatial)
	NearestNeighbor(p rtreego.Point) rtreego.Spatial
	SearchIntersect(bb rtreego.Rect, filters ...rtreego.Filter) []rtreego.Spatial
	Size() int
}

const (
	dimensions    = 3
	minChildItems = 25
	maxChildItems = 50

	// linkBoxPadding keeps axis-aligned links (zero extent on some axis) from having a degenerate bounding box.
	linkBoxPadding = 1e-3
)

var ErrBadSnapDistance = errors.New("max snap distance must not be negative")

// NearLink. link candidate with its distance to the query point.
type NearLink struct {
	LinkID     datastructure.LinkID
	Distance   float64
	Projection datastructure.Point
}

type linkEntry struct {
	id       datastructure.LinkID
	from, to datastructure.Point
	bound    rtreego.Rect
}

func (e *linkEntry) Bounds() rtreego.Rect {
	return e.bound
}

func (e *linkEntry) distance(p datastructure.Point) (datastructure.Point, float64) {
	return datastructure.ProjectPointToSegment(p, e.from, e.to)
}

// RoadSnapper answers "nearest link to a point" queries over a 3d r-tree of link segments.
type RoadSnapper struct {
	rtree           Rtree
	maxSnapDistance float64
}

type Option func(*RoadSnapper)

// WithMaxSnapDistance limits the indexed domain: points farther than d from every link snap to nothing.
// zero means unlimited.
func WithMaxSnapDistance(d float64) Option {
	return func(rs *RoadSnapper) {
		rs.maxSnapDistance = d
	}
}

func NewRoadSnapper(rtree Rtree, opts ...Option) *RoadSnapper {
	rs := &RoadSnapper{rtree: rtree}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// BuildRoadSnapper bulk loads every link of the network into a fresh r-tree.
func BuildRoadSnapper(net *datastructure.RoadNetwork, opts ...Option) (*RoadSnapper, error) {
	links := net.Links()
	entries := make([]rtreego.Spatial, 0, len(links))
	for idx, link := range links {
		if (idx+1)%100000 == 0 {
			log.Printf("insert link %d to r-tree...", idx+1)
		}
		entry, err := newLinkEntry(net, link.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	rs := NewRoadSnapper(rtreego.NewTree(dimensions, minChildItems, maxChildItems, entries...), opts...)
	if rs.maxSnapDistance < 0 {
		return nil, ErrBadSnapDistance
	}
	return rs, nil
}

func newLinkEntry(net *datastructure.RoadNetwork, id datastructure.LinkID) (*linkEntry, error) {
	from, to := net.LinkSegment(id)

	minPoint := rtreego.Point{
		math.Min(from.X, to.X) - linkBoxPadding,
		math.Min(from.Y, to.Y) - linkBoxPadding,
		math.Min(from.Z, to.Z) - linkBoxPadding,
	}
	maxPoint := rtreego.Point{
		math.Max(from.X, to.X) + linkBoxPadding,
		math.Max(from.Y, to.Y) + linkBoxPadding,
		math.Max(from.Z, to.Z) + linkBoxPadding,
	}
	bound, err := rtreego.NewRectFromPoints(minPoint, maxPoint)
	if err != nil {
		return nil, err
	}
	return &linkEntry{id: id, from: from, to: to, bound: bound}, nil
}

// FindClosestLink returns the link whose segment is closest to p, or datastructure.NoLink when the
// network is empty or p lies beyond the max snap distance.
func (rs *RoadSnapper) FindClosestLink(p datastructure.Point) datastructure.LinkID {
	nearest, ok := rs.closest(p)
	if !ok {
		return datastructure.NoLink
	}
	return nearest.LinkID
}

func (rs *RoadSnapper) closest(p datastructure.Point) (NearLink, bool) {
	if rs.rtree.Size() == 0 {
		return NearLink{}, false
	}

	// the nearest bounding box gives an upper bound on the exact segment distance
	seed, ok := rs.rtree.NearestNeighbor(toRtreePoint(p)).(*linkEntry)
	if !ok {
		return NearLink{}, false
	}
	_, bound := seed.distance(p)

	candidates := rs.nearLinksWithin(p, bound)
	if len(candidates) == 0 {
		return NearLink{}, false
	}
	best := candidates[0]

	if rs.maxSnapDistance > 0 && best.Distance > rs.maxSnapDistance {
		return NearLink{}, false
	}
	return best, true
}

// NearestLinks returns up to k links ordered by distance to p.
func (rs *RoadSnapper) NearestLinks(p datastructure.Point, k int) []NearLink {
	if k <= 0 || rs.rtree.Size() == 0 {
		return []NearLink{}
	}

	seed, ok := rs.rtree.NearestNeighbor(toRtreePoint(p)).(*linkEntry)
	if !ok {
		return []NearLink{}
	}
	_, radius := seed.distance(p)
	radius = math.Max(radius, linkBoxPadding)

	var within []NearLink
	for {
		candidates := rs.nearLinksWithin(p, radius)
		within = within[:0]
		for _, c := range candidates {
			if c.Distance <= radius {
				within = append(within, c)
			}
		}
		if len(within) >= k || len(candidates) == rs.rtree.Size() {
			within = candidates
			break
		}
		radius *= 2
	}

	if rs.maxSnapDistance > 0 {
		filtered := within[:0]
		for _, c := range within {
			if c.Distance <= rs.maxSnapDistance {
				filtered = append(filtered, c)
			}
		}
		within = filtered
	}

	if len(within) > k {
		within = within[:k]
	}
	return within
}

// nearLinksWithin returns every link whose bounding box reaches within radius of p, ordered by exact distance.
func (rs *RoadSnapper) nearLinksWithin(p datastructure.Point, radius float64) []NearLink {
	r := radius + linkBoxPadding
	searchBox, err := rtreego.NewRectFromPoints(
		rtreego.Point{p.X - r, p.Y - r, p.Z - r},
		rtreego.Point{p.X + r, p.Y + r, p.Z + r},
	)
	if err != nil {
		return []NearLink{}
	}

	found := rs.rtree.SearchIntersect(searchBox)
	nearLinks := make([]NearLink, 0, len(found))
	for _, obj := range found {
		entry := obj.(*linkEntry)
		projection, dist := entry.distance(p)
		nearLinks = append(nearLinks, NearLink{LinkID: entry.id, Distance: dist, Projection: projection})
	}

	sort.Slice(nearLinks, func(i, j int) bool {
		if nearLinks[i].Distance != nearLinks[j].Distance {
			return nearLinks[i].Distance < nearLinks[j].Distance
		}
		return nearLinks[i].LinkID < nearLinks[j].LinkID
	})
	return nearLinks
}

func toRtreePoint(p datastructure.Point) rtreego.Point {
	return rtreego.Point{p.X, p.Y, p.Z}
}
