package geo

import (
	"testing"

	"github.com/lintang-b-s/roadroute/pkg/datastructure"
	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	cases := []struct {
		latOne, longOne, latTwo, longTwo float64
		expectedDist                     float64
	}{
		{
			latOne:       -7.557155997491524,
			longOne:      110.77170252731288,
			latTwo:       -7.550209300671982,
			longTwo:      110.78942094938256,
			expectedDist: 2.1,
		},
		{
			latOne:       -7.759889166547908,
			longOne:      110.36689459108496,
			latTwo:       -7.760335932763678,
			longTwo:      110.37671195413539,
			expectedDist: 1.08,
		},
		{
			latOne:       -7.700002453207869,
			longOne:      110.37712514761436,
			latTwo:       -7.760335932763678,
			longTwo:      110.37671195413539,
			expectedDist: 6.7,
		},
	}

	t.Run("success haversine distance", func(t *testing.T) {
		for _, c := range cases {
			a := datastructure.NewCoordinate(c.latOne, c.longOne)
			b := datastructure.NewCoordinate(c.latTwo, c.longTwo)
			dist := HaversineDistance(a, b)
			assert.InDelta(t, c.expectedDist*1000, dist, 100)
			assert.InDelta(t, GreatCircleDistance(a, b), dist, 1e-3)
		}
	})

	t.Run("path length sums consecutive pairs", func(t *testing.T) {
		path := []datastructure.Coordinate{
			datastructure.NewCoordinate(cases[0].latOne, cases[0].longOne),
			datastructure.NewCoordinate(cases[0].latTwo, cases[0].longTwo),
			datastructure.NewCoordinate(cases[1].latOne, cases[1].longOne),
		}
		want := HaversineDistance(path[0], path[1]) + HaversineDistance(path[1], path[2])
		assert.InDelta(t, want, PathLength(path), 1e-9)
		assert.Zero(t, PathLength(path[:1]))
	})
}

func TestLocalProjection(t *testing.T) {
	origin := datastructure.GeoOrigin{Lat: -7.557155997491524, Lon: 110.77170252731288}
	lp := NewLocalProjection(origin)

	t.Run("origin maps to zero", func(t *testing.T) {
		p := lp.ToPoint(datastructure.NewCoordinate(origin.Lat, origin.Lon))
		assert.InDelta(t, 0, p.X, 1e-9)
		assert.InDelta(t, 0, p.Y, 1e-9)
		assert.InDelta(t, origin.Lat, lp.Origin().Lat, 1e-12)
	})

	t.Run("round trip", func(t *testing.T) {
		c := datastructure.NewCoordinate(-7.550209300671982, 110.78942094938256)
		back := lp.ToCoordinate(lp.ToPoint(c))
		assert.InDelta(t, c.Lat, back.Lat, 1e-9)
		assert.InDelta(t, c.Lon, back.Lon, 1e-9)
	})

	t.Run("planar distance close to great circle distance", func(t *testing.T) {
		a := datastructure.NewCoordinate(-7.550209300671982, 110.78942094938256)
		b := datastructure.NewCoordinate(-7.546196863318374, 110.7775170972345)
		planar := datastructure.EuclideanDistance(lp.ToPoint(a), lp.ToPoint(b))
		assert.InDelta(t, GreatCircleDistance(a, b), planar, 2)
	})

	t.Run("east is positive x, north is positive y", func(t *testing.T) {
		p := lp.ToPoint(datastructure.NewCoordinate(origin.Lat+0.001, origin.Lon+0.001))
		assert.Greater(t, p.X, 0.0)
		assert.Greater(t, p.Y, 0.0)
		assert.InDelta(t, 111.2, p.Y, 0.5)
	})
}
