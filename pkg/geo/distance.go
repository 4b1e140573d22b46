package geo

import (
	"math"

	"github.com/lintang-b-s/roadroute/pkg/datastructure"
)

const earthRadiusM = 6371007

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

func degreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

// HaversineDistance. great-circle distance between two coordinates in meters.
func HaversineDistance(a, b datastructure.Coordinate) float64 {
	latA := degreeToRadians(a.Lat)
	latB := degreeToRadians(b.Lat)
	dLon := degreeToRadians(a.Lon - b.Lon)

	h := havFunction(latA-latB) + math.Cos(latA)*math.Cos(latB)*havFunction(dLon)
	return 2.0 * earthRadiusM * math.Asin(math.Sqrt(h))
}

// PathLength sums the haversine distance of consecutive coordinates.
func PathLength(path []datastructure.Coordinate) float64 {
	length := 0.0
	for i := 1; i < len(path); i++ {
		length += HaversineDistance(path[i-1], path[i])
	}
	return length
}
