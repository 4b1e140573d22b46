package osmparser

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lintang-b-s/roadroute/pkg/datastructure"
	"github.com/lintang-b-s/roadroute/pkg/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
)

type NodeType int

const (
	END_NODE NodeType = iota
	BETWEEN_NODE
	JUNCTION_NODE
)

var ErrUnknownFileFormat = errors.New("unknown openstreetmap file format")

type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

type nodeCoord struct {
	lat float64
	lon float64
	ele float64
}

type osmWay struct {
	id      osm.WayID
	nodes   []int64
	forward bool
	back    bool
}

/*
OsmParser. turns openstreetmap ways into a road network.

every way vertex at a way end or shared by two or more accepted ways becomes a junction, each way is split at
its junctions into links. a two-way road gets one link per direction. junction centers are meters on the
tangent plane at the first accepted node, the node's lat/lon is kept as the network's geo origin.
*/
type OsmParser struct {
	wayNodeMap      map[int64]NodeType
	acceptedNodeMap map[int64]nodeCoord
	nodeIDMap       map[int64]datastructure.JunctionID
	ways            []osmWay

	projection  *geo.LocalProjection
	builder     *datastructure.RoadNetworkBuilder
	allVertices bool
	progress    io.Writer
}

type Option func(*OsmParser)

// WithAllVertices turns every way vertex into a junction, so links follow the road geometry.
func WithAllVertices() Option {
	return func(p *OsmParser) {
		p.allVertices = true
	}
}

// WithProgress draws a progress bar of the way processing to w.
func WithProgress(w io.Writer) Option {
	return func(p *OsmParser) {
		p.progress = w
	}
}

func NewOSMParser(opts ...Option) *OsmParser {
	p := &OsmParser{
		wayNodeMap:      make(map[int64]NodeType),
		acceptedNodeMap: make(map[int64]nodeCoord),
		nodeIDMap:       make(map[int64]datastructure.JunctionID),
		builder:         datastructure.NewRoadNetworkBuilder(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var (
	skipHighway = map[string]struct{}{
		"footway":                {},
		"construction":           {},
		"proposed":               {},
		"cycleway":               {},
		"path":                   {},
		"pedestrian":             {},
		"busway":                 {},
		"steps":                  {},
		"bridleway":              {},
		"corridor":               {},
		"street_lamp":            {},
		"bus_stop":               {},
		"crossing":               {},
		"cyclist_waiting_aid":    {},
		"elevator":               {},
		"emergency_bay":          {},
		"emergency_access_point": {},
		"give_way":               {},
		"phone":                  {},
		"ladder":                 {},
		"milestone":              {},
		"passing_place":          {},
		"platform":               {},
		"speed_camera":           {},
		"track":                  {},
		"bus_guideway":           {},
		"speed_display":          {},
		"stop":                   {},
		"toll_gantry":            {},
		"traffic_mirror":         {},
		"traffic_signals":        {},
		"trailhead":              {},
	}

	onewayForward = map[string]struct{}{
		"yes":  {},
		"1":    {},
		"true": {},
	}
	onewayBackward = map[string]struct{}{
		"-1":      {},
		"reverse": {},
	}
	onewayJunctions = map[string]struct{}{
		"roundabout": {},
		"circular":   {},
	}
)

// Parse reads an .osm/.xml or .pbf file. the file is scanned twice, ways first and nodes second.
func (p *OsmParser) Parse(ctx context.Context, mapFile string) (*datastructure.RoadNetwork, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", mapFile)
	}
	defer f.Close()

	var newScanner func(r io.Reader) OSMScanner
	switch ext := filepath.Ext(mapFile); ext {
	case ".osm", ".xml":
		newScanner = func(r io.Reader) OSMScanner { return osmxml.New(ctx, r) }
	case ".pbf":
		newScanner = func(r io.Reader) OSMScanner { return osmpbf.New(ctx, r, 0) }
	default:
		return nil, errors.Wrapf(ErrUnknownFileFormat, "extension %q", ext)
	}

	return p.ParseSeeker(f, newScanner)
}

// ParseSeeker runs both passes over rs, rewinding it between them.
func (p *OsmParser) ParseSeeker(rs io.ReadSeeker, newScanner func(r io.Reader) OSMScanner) (*datastructure.RoadNetwork, error) {
	if err := p.scanWays(newScanner(rs)); err != nil {
		return nil, err
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "rewind openstreetmap file")
	}
	if err := p.scanNodes(newScanner(rs)); err != nil {
		return nil, err
	}
	return p.buildNetwork()
}

func (p *OsmParser) scanWays(scanner OSMScanner) error {
	defer scanner.Close()

	countWays := 0
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if len(way.Nodes) < 2 || !acceptOsmWay(way) {
			continue
		}
		forward, back := wayDirections(way)
		if !forward && !back {
			continue
		}
		if (countWays+1)%50000 == 0 {
			log.Printf("reading openstreetmap ways: %d...", countWays+1)
		}
		countWays++

		nodes := make([]int64, 0, len(way.Nodes))
		for i, node := range way.Nodes {
			id := int64(node.ID)
			if i > 0 && nodes[len(nodes)-1] == id {
				continue
			}
			nodes = append(nodes, id)

			if _, ok := p.wayNodeMap[id]; !ok {
				if i == 0 || i == len(way.Nodes)-1 {
					p.wayNodeMap[id] = END_NODE
				} else {
					p.wayNodeMap[id] = BETWEEN_NODE
				}
			} else {
				p.wayNodeMap[id] = JUNCTION_NODE
			}
		}
		if len(nodes) < 2 {
			continue
		}
		p.ways = append(p.ways, osmWay{id: way.ID, nodes: nodes, forward: forward, back: back})
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "scan openstreetmap ways")
	}
	log.Printf("total accepted openstreetmap ways: %d", countWays)
	return nil
}

func (p *OsmParser) scanNodes(scanner OSMScanner) error {
	defer scanner.Close()

	countNodes := 0
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		id := int64(node.ID)
		if _, ok := p.wayNodeMap[id]; !ok {
			continue
		}
		if (countNodes+1)%50000 == 0 {
			log.Printf("processing openstreetmap nodes: %d...", countNodes+1)
		}
		countNodes++

		ele, err := strconv.ParseFloat(strings.TrimSuffix(node.Tags.Find("ele"), " m"), 64)
		if err != nil {
			ele = 0
		}
		p.acceptedNodeMap[id] = nodeCoord{lat: node.Lat, lon: node.Lon, ele: ele}

		if p.projection == nil {
			lp := geo.NewLocalProjection(datastructure.GeoOrigin{Lat: node.Lat, Lon: node.Lon})
			p.projection = &lp
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "scan openstreetmap nodes")
	}
	return nil
}

func (p *OsmParser) buildNetwork() (*datastructure.RoadNetwork, error) {
	if p.projection == nil {
		return datastructure.NewRoadNetwork(nil, nil)
	}

	var bar *progressbar.ProgressBar
	if p.progress != nil {
		bar = progressbar.NewOptions(len(p.ways),
			progressbar.OptionSetWriter(p.progress),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(15),
			progressbar.OptionSetDescription("[cyan][1/2][reset] building road network from openstreetmap ways ..."),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}

	for _, way := range p.ways {
		if err := p.processWay(way); err != nil {
			return nil, err
		}
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	net, err := p.builder.Build(datastructure.WithGeoOrigin(p.projection.Origin()))
	if err != nil {
		return nil, errors.Wrap(err, "build road network")
	}
	log.Printf("total junctions: %d, total links: %d", net.NumJunctions(), net.NumLinks())
	return net, nil
}

func (p *OsmParser) processWay(way osmWay) error {
	for _, id := range way.nodes {
		if _, ok := p.acceptedNodeMap[id]; !ok {
			return fmt.Errorf("way %d references node %d without coordinates", way.id, id)
		}
	}

	segment := []int64{way.nodes[0]}
	for i := 1; i < len(way.nodes); i++ {
		id := way.nodes[i]
		segment = append(segment, id)
		if i == len(way.nodes)-1 || p.isJunctionNode(id) {
			p.processSegment(segment, way)
			segment = []int64{id}
		}
	}
	return nil
}

// processSegment adds the links of one junction-to-junction piece of a way. a closed piece is split at its
// middle vertex so no link starts and ends at the same junction.
func (p *OsmParser) processSegment(segment []int64, way osmWay) {
	from, to := segment[0], segment[len(segment)-1]
	if from == to {
		if len(segment) < 3 {
			return
		}
		mid := len(segment) / 2
		p.addLinks(segment[0], segment[mid], way)
		p.addLinks(segment[mid], segment[len(segment)-1], way)
		return
	}
	p.addLinks(from, to, way)
}

func (p *OsmParser) addLinks(from, to int64, way osmWay) {
	fromJunction := p.junction(from)
	toJunction := p.junction(to)
	if way.forward {
		p.builder.AddLink(p.nextLinkID(), fromJunction, toJunction)
	}
	if way.back {
		p.builder.AddLink(p.nextLinkID(), toJunction, fromJunction)
	}
}

func (p *OsmParser) nextLinkID() datastructure.LinkID {
	return datastructure.LinkID(p.builder.NumLinks() + 1)
}

func (p *OsmParser) junction(nodeID int64) datastructure.JunctionID {
	if id, ok := p.nodeIDMap[nodeID]; ok {
		return id
	}
	id := datastructure.JunctionID(len(p.nodeIDMap) + 1)
	p.nodeIDMap[nodeID] = id

	coord := p.acceptedNodeMap[nodeID]
	center := p.projection.ToPoint(datastructure.NewCoordinate(coord.lat, coord.lon))
	center.Z = coord.ele
	p.builder.AddJunction(id, center)
	return id
}

func (p *OsmParser) isJunctionNode(nodeID int64) bool {
	return p.allVertices || p.wayNodeMap[nodeID] != BETWEEN_NODE
}

// JunctionNodeID returns the openstreetmap node id a junction was created from.
func (p *OsmParser) JunctionNodeID(id datastructure.JunctionID) (int64, bool) {
	for nodeID, junctionID := range p.nodeIDMap {
		if junctionID == id {
			return nodeID, true
		}
	}
	return 0, false
}

func isRestricted(value string) bool {
	if value == "no" || value == "restricted" || value == "military" || value == "emergency" || value == "private" || value == "permit" {
		return true
	}
	return false
}

func getReversedOneWay(way *osm.Way) (bool, bool, bool, bool) {
	vehicleForward := way.Tags.Find("vehicle:forward")
	motorVehicleForward := way.Tags.Find("motor_vehicle:forward")
	vehicleBackward := way.Tags.Find("vehicle:backward")
	motorVehicleBackward := way.Tags.Find("motor_vehicle:backward")
	return isRestricted(vehicleForward), isRestricted(motorVehicleForward), isRestricted(vehicleBackward), isRestricted(motorVehicleBackward)
}

// wayDirections reports whether the way can be driven along its node order (forward) and against it (back).
func wayDirections(way *osm.Way) (bool, bool) {
	forward, back := true, true

	oneway := way.Tags.Find("oneway")
	if _, ok := onewayForward[oneway]; ok {
		back = false
	} else if _, ok := onewayBackward[oneway]; ok {
		forward = false
	} else if oneway == "" {
		if _, ok := onewayJunctions[way.Tags.Find("junction")]; ok {
			back = false
		}
		if way.Tags.Find("highway") == "motorway" {
			back = false
		}
	}

	vf, mvf, vb, mvb := getReversedOneWay(way)
	if vf || mvf {
		forward = false
	}
	if vb || mvb {
		back = false
	}
	return forward, back
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	junction := way.Tags.Find("junction")
	if highway != "" {
		if _, ok := skipHighway[highway]; !ok {
			return true
		}
	} else if way.Tags.Find("route") == "road" {
		return true
	} else if junction != "" {
		return true
	}
	return false
}
