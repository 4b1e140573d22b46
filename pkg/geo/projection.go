package geo

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/lintang-b-s/roadroute/pkg/datastructure"
)

/*
LocalProjection. equirectangular projection onto the tangent plane at an origin.

x grows east and y grows north, both in meters; z is left to the caller (elevation). good enough for the
extent of a city road network, distortion grows with the distance from the origin.
*/
type LocalProjection struct {
	origin s2.LatLng
	cosLat float64
}

func NewLocalProjection(origin datastructure.GeoOrigin) LocalProjection {
	ll := s2.LatLngFromDegrees(origin.Lat, origin.Lon)
	return LocalProjection{
		origin: ll,
		cosLat: math.Cos(ll.Lat.Radians()),
	}
}

func (lp LocalProjection) Origin() datastructure.GeoOrigin {
	return datastructure.GeoOrigin{Lat: lp.origin.Lat.Degrees(), Lon: lp.origin.Lng.Degrees()}
}

func (lp LocalProjection) ToPoint(c datastructure.Coordinate) datastructure.Point {
	ll := s2.LatLngFromDegrees(c.Lat, c.Lon)
	x := (ll.Lng - lp.origin.Lng).Radians() * earthRadiusM * lp.cosLat
	y := (ll.Lat - lp.origin.Lat).Radians() * earthRadiusM
	return datastructure.NewPoint(x, y, 0)
}

func (lp LocalProjection) ToCoordinate(p datastructure.Point) datastructure.Coordinate {
	ll := s2.LatLng{
		Lat: lp.origin.Lat + s1.Angle(p.Y/earthRadiusM),
		Lng: lp.origin.Lng + s1.Angle(p.X/(earthRadiusM*lp.cosLat)),
	}.Normalized()
	return datastructure.NewCoordinate(ll.Lat.Degrees(), ll.Lng.Degrees())
}

func (lp LocalProjection) ToCoordinates(points []datastructure.Point) []datastructure.Coordinate {
	coords := make([]datastructure.Coordinate, 0, len(points))
	for _, p := range points {
		coords = append(coords, lp.ToCoordinate(p))
	}
	return coords
}

// GreatCircleDistance in meters.
func GreatCircleDistance(a, b datastructure.Coordinate) float64 {
	return s2.LatLngFromDegrees(a.Lat, a.Lon).Distance(s2.LatLngFromDegrees(b.Lat, b.Lon)).Radians() * earthRadiusM
}
