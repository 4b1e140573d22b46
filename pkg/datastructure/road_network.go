package datastructure

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/slices"
)

type JunctionID uint32
type LinkID uint32

const (
	// NoLink. sentinel returned when a position cannot be associated with any link.
	NoLink     LinkID     = 0
	NoJunction JunctionID = 0
)

var (
	ErrZeroID           = errors.New("id must be non-zero")
	ErrDuplicateID      = errors.New("duplicate id")
	ErrJunctionNotFound = errors.New("junction not found")
	ErrLinkNotFound     = errors.New("link not found")
	ErrLinkNotOutgoing  = errors.New("link does not depart from junction")
)

// Junction. road intersection or road end.
type Junction struct {
	ID       JunctionID
	Center   Point
	LinksOut []LinkID
}

// Link. directed road segment, traversable only from FromJunctionID to ToJunctionID.
type Link struct {
	ID             LinkID
	FromJunctionID JunctionID
	ToJunctionID   JunctionID
}

/*
RoadNetwork. static graph of junctions and directed links.

Immutable after construction, so a single network can be shared by reference between any number of
concurrent route calculations. Referential integrity is checked once in NewRoadNetwork; lookups afterwards
assume every id handed out by the network is valid.
*/
type RoadNetwork struct {
	junctions map[JunctionID]Junction
	links     map[LinkID]Link
	origin    *GeoOrigin
	version   uint64
}

type NetworkOption func(*RoadNetwork)

// WithGeoOrigin anchors the network to lat/lon so routes can be rendered as polylines.
func WithGeoOrigin(origin GeoOrigin) NetworkOption {
	return func(n *RoadNetwork) {
		o := origin
		n.origin = &o
	}
}

func NewRoadNetwork(junctions []Junction, links []Link, opts ...NetworkOption) (*RoadNetwork, error) {
	n := &RoadNetwork{
		junctions: make(map[JunctionID]Junction, len(junctions)),
		links:     make(map[LinkID]Link, len(links)),
	}
	for _, opt := range opts {
		opt(n)
	}

	for _, j := range junctions {
		if j.ID == NoJunction {
			return nil, fmt.Errorf("junction: %w", ErrZeroID)
		}
		if _, ok := n.junctions[j.ID]; ok {
			return nil, fmt.Errorf("junction %d: %w", j.ID, ErrDuplicateID)
		}
		linksOut := make([]LinkID, len(j.LinksOut))
		copy(linksOut, j.LinksOut)
		j.LinksOut = linksOut
		n.junctions[j.ID] = j
	}

	for _, l := range links {
		if l.ID == NoLink {
			return nil, fmt.Errorf("link: %w", ErrZeroID)
		}
		if _, ok := n.links[l.ID]; ok {
			return nil, fmt.Errorf("link %d: %w", l.ID, ErrDuplicateID)
		}
		if _, ok := n.junctions[l.FromJunctionID]; !ok {
			return nil, fmt.Errorf("link %d from junction %d: %w", l.ID, l.FromJunctionID, ErrJunctionNotFound)
		}
		if _, ok := n.junctions[l.ToJunctionID]; !ok {
			return nil, fmt.Errorf("link %d to junction %d: %w", l.ID, l.ToJunctionID, ErrJunctionNotFound)
		}
		n.links[l.ID] = l
	}

	for _, j := range n.junctions {
		for _, linkID := range j.LinksOut {
			l, ok := n.links[linkID]
			if !ok {
				return nil, fmt.Errorf("junction %d out link %d: %w", j.ID, linkID, ErrLinkNotFound)
			}
			if l.FromJunctionID != j.ID {
				return nil, fmt.Errorf("junction %d out link %d: %w", j.ID, linkID, ErrLinkNotOutgoing)
			}
		}
	}

	n.version = n.computeVersion()
	return n, nil
}

func (n *RoadNetwork) GetJunction(id JunctionID) Junction {
	return n.junctions[id]
}

func (n *RoadNetwork) GetLink(id LinkID) Link {
	return n.links[id]
}

func (n *RoadNetwork) LookupLink(id LinkID) (Link, bool) {
	l, ok := n.links[id]
	return l, ok
}

func (n *RoadNetwork) NumJunctions() int {
	return len(n.junctions)
}

func (n *RoadNetwork) NumLinks() int {
	return len(n.links)
}

// LinkSegment returns the centers of the link's source and destination junction.
func (n *RoadNetwork) LinkSegment(id LinkID) (Point, Point) {
	l := n.links[id]
	return n.junctions[l.FromJunctionID].Center, n.junctions[l.ToJunctionID].Center
}

func (n *RoadNetwork) LinkLength(id LinkID) float64 {
	from, to := n.LinkSegment(id)
	return EuclideanDistance(from, to)
}

// Junctions returns every junction ordered by id.
func (n *RoadNetwork) Junctions() []Junction {
	junctions := make([]Junction, 0, len(n.junctions))
	for _, j := range n.junctions {
		junctions = append(junctions, j)
	}
	slices.SortFunc(junctions, func(a, b Junction) int {
		return compareID(uint32(a.ID), uint32(b.ID))
	})
	return junctions
}

// Links returns every link ordered by id.
func (n *RoadNetwork) Links() []Link {
	links := make([]Link, 0, len(n.links))
	for _, l := range n.links {
		links = append(links, l)
	}
	slices.SortFunc(links, func(a, b Link) int {
		return compareID(uint32(a.ID), uint32(b.ID))
	})
	return links
}

func (n *RoadNetwork) Origin() (GeoOrigin, bool) {
	if n.origin == nil {
		return GeoOrigin{}, false
	}
	return *n.origin, true
}

// Version. content hash of the network, stable across save/load.
func (n *RoadNetwork) Version() uint64 {
	return n.version
}

func (n *RoadNetwork) computeVersion() uint64 {
	h := xxhash.New()
	var buf [8]byte

	writeUint := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	writeFloat := func(f float64) {
		writeUint(math.Float64bits(f))
	}

	for _, j := range n.Junctions() {
		writeUint(uint64(j.ID))
		writeFloat(j.Center.X)
		writeFloat(j.Center.Y)
		writeFloat(j.Center.Z)
		writeUint(uint64(len(j.LinksOut)))
		for _, l := range j.LinksOut {
			writeUint(uint64(l))
		}
	}
	for _, l := range n.Links() {
		writeUint(uint64(l.ID))
		writeUint(uint64(l.FromJunctionID))
		writeUint(uint64(l.ToJunctionID))
	}
	if n.origin != nil {
		writeFloat(n.origin.Lat)
		writeFloat(n.origin.Lon)
	}
	return h.Sum64()
}

func compareID(a, b uint32) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

// RoadNetworkBuilder collects junctions and links and fills each junction's outgoing links in insertion order.
type RoadNetworkBuilder struct {
	junctions []Junction
	index     map[JunctionID]int
	links     []Link
}

func NewRoadNetworkBuilder() *RoadNetworkBuilder {
	return &RoadNetworkBuilder{
		index: make(map[JunctionID]int),
	}
}

func (b *RoadNetworkBuilder) AddJunction(id JunctionID, center Point) *RoadNetworkBuilder {
	if _, ok := b.index[id]; !ok {
		b.index[id] = len(b.junctions)
	}
	b.junctions = append(b.junctions, Junction{ID: id, Center: center})
	return b
}

func (b *RoadNetworkBuilder) AddLink(id LinkID, from, to JunctionID) *RoadNetworkBuilder {
	b.links = append(b.links, Link{ID: id, FromJunctionID: from, ToJunctionID: to})
	if idx, ok := b.index[from]; ok {
		b.junctions[idx].LinksOut = append(b.junctions[idx].LinksOut, id)
	}
	return b
}

func (b *RoadNetworkBuilder) NumLinks() int {
	return len(b.links)
}

func (b *RoadNetworkBuilder) Build(opts ...NetworkOption) (*RoadNetwork, error) {
	return NewRoadNetwork(b.junctions, b.links, opts...)
}
