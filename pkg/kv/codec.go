package kv

import (
	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
	"github.com/lintang-b-s/roadroute/pkg/datastructure"
	"github.com/pkg/errors"
)

type junctionRecord struct {
	ID       uint32
	X        float64
	Y        float64
	Z        float64
	LinksOut []uint32
}

type linkRecord struct {
	ID             uint32
	FromJunctionID uint32
	ToJunctionID   uint32
}

// networkSnapshot. on-disk form of a road network.
type networkSnapshot struct {
	Version   uint64
	Junctions []junctionRecord
	Links     []linkRecord
	HasOrigin bool
	OriginLat float64
	OriginLon float64
}

type cachedRoute struct {
	Links []uint32
}

func newNetworkSnapshot(net *datastructure.RoadNetwork) networkSnapshot {
	junctions := net.Junctions()
	links := net.Links()

	snapshot := networkSnapshot{
		Version:   net.Version(),
		Junctions: make([]junctionRecord, 0, len(junctions)),
		Links:     make([]linkRecord, 0, len(links)),
	}
	for _, j := range junctions {
		linksOut := make([]uint32, 0, len(j.LinksOut))
		for _, l := range j.LinksOut {
			linksOut = append(linksOut, uint32(l))
		}
		snapshot.Junctions = append(snapshot.Junctions, junctionRecord{
			ID:       uint32(j.ID),
			X:        j.Center.X,
			Y:        j.Center.Y,
			Z:        j.Center.Z,
			LinksOut: linksOut,
		})
	}
	for _, l := range links {
		snapshot.Links = append(snapshot.Links, linkRecord{
			ID:             uint32(l.ID),
			FromJunctionID: uint32(l.FromJunctionID),
			ToJunctionID:   uint32(l.ToJunctionID),
		})
	}
	if origin, ok := net.Origin(); ok {
		snapshot.HasOrigin = true
		snapshot.OriginLat = origin.Lat
		snapshot.OriginLon = origin.Lon
	}
	return snapshot
}

// toRoadNetwork rebuilds and revalidates the network. a version mismatch means the stored bytes do not
// describe the network they were taken from.
func (s networkSnapshot) toRoadNetwork() (*datastructure.RoadNetwork, error) {
	junctions := make([]datastructure.Junction, 0, len(s.Junctions))
	for _, j := range s.Junctions {
		linksOut := make([]datastructure.LinkID, 0, len(j.LinksOut))
		for _, l := range j.LinksOut {
			linksOut = append(linksOut, datastructure.LinkID(l))
		}
		junctions = append(junctions, datastructure.Junction{
			ID:       datastructure.JunctionID(j.ID),
			Center:   datastructure.NewPoint(j.X, j.Y, j.Z),
			LinksOut: linksOut,
		})
	}
	links := make([]datastructure.Link, 0, len(s.Links))
	for _, l := range s.Links {
		links = append(links, datastructure.Link{
			ID:             datastructure.LinkID(l.ID),
			FromJunctionID: datastructure.JunctionID(l.FromJunctionID),
			ToJunctionID:   datastructure.JunctionID(l.ToJunctionID),
		})
	}

	var opts []datastructure.NetworkOption
	if s.HasOrigin {
		opts = append(opts, datastructure.WithGeoOrigin(datastructure.GeoOrigin{Lat: s.OriginLat, Lon: s.OriginLon}))
	}
	net, err := datastructure.NewRoadNetwork(junctions, links, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "rebuild road network from snapshot")
	}
	if net.Version() != s.Version {
		return nil, ErrSnapshotCorrupt
	}
	return net, nil
}

func encodeNetwork(net *datastructure.RoadNetwork) ([]byte, error) {
	bb, err := binary.Marshal(newNetworkSnapshot(net))
	if err != nil {
		return nil, errors.Wrap(err, "encode network snapshot")
	}
	return compress(bb)
}

func decodeNetwork(bbCompressed []byte) (*datastructure.RoadNetwork, error) {
	bb, err := decompress(bbCompressed)
	if err != nil {
		return nil, err
	}
	var snapshot networkSnapshot
	if err := binary.Unmarshal(bb, &snapshot); err != nil {
		return nil, errors.Wrap(err, "decode network snapshot")
	}
	return snapshot.toRoadNetwork()
}

func encodeMeta(meta NetworkMeta) ([]byte, error) {
	return binary.Marshal(meta)
}

func decodeMeta(bb []byte) (NetworkMeta, error) {
	var meta NetworkMeta
	err := binary.Unmarshal(bb, &meta)
	return meta, err
}

func encodeRoute(links []datastructure.LinkID) ([]byte, error) {
	route := cachedRoute{Links: make([]uint32, 0, len(links))}
	for _, l := range links {
		route.Links = append(route.Links, uint32(l))
	}
	return binary.Marshal(route)
}

func decodeRoute(bb []byte) ([]datastructure.LinkID, error) {
	var route cachedRoute
	if err := binary.Unmarshal(bb, &route); err != nil {
		return nil, err
	}
	links := make([]datastructure.LinkID, 0, len(route.Links))
	for _, l := range route.Links {
		links = append(links, datastructure.LinkID(l))
	}
	return links, nil
}

func compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, errors.Wrap(err, "zstd compress")
	}
	return bbCompressed, nil
}

func decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, errors.Wrap(err, "zstd decompress")
	}
	return bb, nil
}
