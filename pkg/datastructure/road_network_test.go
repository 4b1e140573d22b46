package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A(0,0,0) -1-> B(10,0,0) -2-> C(20,0,0), A -3-> D(10,10,0) -4-> C
func buildDiamond(t *testing.T) *RoadNetwork {
	t.Helper()
	net, err := NewRoadNetworkBuilder().
		AddJunction(1, NewPoint(0, 0, 0)).
		AddJunction(2, NewPoint(10, 0, 0)).
		AddJunction(3, NewPoint(20, 0, 0)).
		AddJunction(4, NewPoint(10, 10, 0)).
		AddLink(1, 1, 2).
		AddLink(2, 2, 3).
		AddLink(3, 1, 4).
		AddLink(4, 4, 3).
		Build()
	require.NoError(t, err)
	return net
}

func TestNewRoadNetwork(t *testing.T) {
	net := buildDiamond(t)

	assert.Equal(t, 4, net.NumJunctions())
	assert.Equal(t, 4, net.NumLinks())
	assert.Equal(t, []LinkID{1, 3}, net.GetJunction(1).LinksOut)
	assert.Equal(t, JunctionID(3), net.GetLink(4).ToJunctionID)
	assert.InDelta(t, 10.0, net.LinkLength(1), 1e-9)

	_, ok := net.LookupLink(99)
	assert.False(t, ok)

	_, hasOrigin := net.Origin()
	assert.False(t, hasOrigin)
}

func TestNewRoadNetworkValidation(t *testing.T) {
	cases := []struct {
		name      string
		junctions []Junction
		links     []Link
		wantErr   error
	}{
		{
			name:      "zero junction id",
			junctions: []Junction{{ID: 0}},
			wantErr:   ErrZeroID,
		},
		{
			name:      "duplicate junction",
			junctions: []Junction{{ID: 1}, {ID: 1}},
			wantErr:   ErrDuplicateID,
		},
		{
			name:      "zero link id",
			junctions: []Junction{{ID: 1}, {ID: 2}},
			links:     []Link{{ID: 0, FromJunctionID: 1, ToJunctionID: 2}},
			wantErr:   ErrZeroID,
		},
		{
			name:      "link to missing junction",
			junctions: []Junction{{ID: 1}},
			links:     []Link{{ID: 1, FromJunctionID: 1, ToJunctionID: 2}},
			wantErr:   ErrJunctionNotFound,
		},
		{
			name:      "junction references missing link",
			junctions: []Junction{{ID: 1, LinksOut: []LinkID{7}}, {ID: 2}},
			wantErr:   ErrLinkNotFound,
		},
		{
			name:      "out link departs elsewhere",
			junctions: []Junction{{ID: 1, LinksOut: []LinkID{1}}, {ID: 2}},
			links:     []Link{{ID: 1, FromJunctionID: 2, ToJunctionID: 1}},
			wantErr:   ErrLinkNotOutgoing,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewRoadNetwork(c.junctions, c.links)
			assert.ErrorIs(t, err, c.wantErr)
		})
	}
}

func TestRoadNetworkVersion(t *testing.T) {
	a := buildDiamond(t)
	b := buildDiamond(t)
	assert.Equal(t, a.Version(), b.Version())

	c, err := NewRoadNetwork(a.Junctions(), a.Links()[:3])
	assert.Error(t, err, "junction 4 still lists link 4")
	assert.Nil(t, c)

	moved := a.Junctions()
	moved[3].Center = NewPoint(10, 11, 0)
	d, err := NewRoadNetwork(moved, a.Links())
	require.NoError(t, err)
	assert.NotEqual(t, a.Version(), d.Version())

	e, err := NewRoadNetwork(a.Junctions(), a.Links(), WithGeoOrigin(GeoOrigin{Lat: -7.55, Lon: 110.77}))
	require.NoError(t, err)
	assert.NotEqual(t, a.Version(), e.Version())
}

func TestRouteHelpers(t *testing.T) {
	net := buildDiamond(t)

	route := NewRoute(NewPoint(1, 0, 0), NewPoint(19, 0, 0), []LinkID{1, 2})
	assert.True(t, route.Found())
	assert.True(t, route.IsContiguous(net))
	assert.Equal(t, []JunctionID{1, 2, 3}, route.Junctions(net))
	assert.InDelta(t, 20.0, route.Distance(net), 1e-9)
	assert.Equal(t, []Point{NewPoint(0, 0, 0), NewPoint(10, 0, 0), NewPoint(20, 0, 0)}, route.Positions(net))

	broken := NewRoute(NewPoint(0, 0, 0), NewPoint(0, 0, 0), []LinkID{1, 4})
	assert.False(t, broken.IsContiguous(net))

	empty := NewRoute(NewPoint(0, 0, 0), NewPoint(0, 0, 0), nil)
	assert.False(t, empty.Found())
	assert.NotNil(t, empty.Links)
	assert.Empty(t, empty.Junctions(net))
}

func TestProjectPointToSegment(t *testing.T) {
	a := NewPoint(0, 0, 0)
	b := NewPoint(10, 0, 0)

	proj, dist := ProjectPointToSegment(NewPoint(4, 3, 0), a, b)
	assert.Equal(t, NewPoint(4, 0, 0), proj)
	assert.InDelta(t, 3.0, dist, 1e-9)

	proj, dist = ProjectPointToSegment(NewPoint(-3, 4, 0), a, b)
	assert.Equal(t, a, proj)
	assert.InDelta(t, 5.0, dist, 1e-9)

	_, dist = ProjectPointToSegment(NewPoint(0, 0, 2), a, a)
	assert.InDelta(t, 2.0, dist, 1e-9)
}

func TestPolylineRoundTrip(t *testing.T) {
	path := []Coordinate{NewCoordinate(-7.55716, 110.77170), NewCoordinate(-7.55021, 110.78942)}
	encoded := CreatePolyline(path)
	decoded, err := DecodePolyline(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.InDelta(t, path[1].Lat, decoded[1].Lat, 1e-5)
	assert.InDelta(t, path[1].Lon, decoded[1].Lon, 1e-5)
}
