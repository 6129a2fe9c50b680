package utils

import (
	"math"

	"github.com/mmcloughlin/geohash"
)

const earthRadiusKm = 6371.0

// GeohashPrecision is the precision stored on truck postings (~5km cells).
const GeohashPrecision uint = 5

// DistanceKm calculates the distance between two points in kilometers using
// the Haversine formula.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	rLat1 := lat1 * math.Pi / 180.0
	rLat2 := lat2 * math.Pi / 180.0
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLng := (lng2 - lng1) * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// EncodeGeohash encodes a coordinate at the posting precision.
func EncodeGeohash(lat, lng float64) string {
	return geohash.EncodeWithPrecision(lat, lng, GeohashPrecision)
}

// SearchCells returns the geohash prefixes (cell plus neighbours) that cover
// a radius around the point. The precision is picked so the cell is at least
// radiusKm in both dimensions, with the width shrunk by latitude. Nil means
// no precision is coarse enough and the caller must not pre-filter.
func SearchCells(lat, lng, radiusKm float64) []string {
	precision, ok := cellPrecision(lat, radiusKm)
	if !ok {
		return nil
	}
	center := geohash.EncodeWithPrecision(lat, lng, precision)
	return append([]string{center}, geohash.Neighbors(center)...)
}

// approximate cell sizes in km at the equator for precisions 1..5
var (
	cellWidthsKm  = []float64{5009, 1252, 156.5, 39.1, 4.9}
	cellHeightsKm = []float64{4992, 624, 156, 19.5, 4.9}
)

func cellPrecision(lat, radiusKm float64) (uint, bool) {
	shrink := math.Cos(lat * math.Pi / 180.0)
	precision := uint(0)
	for i := range cellWidthsKm {
		if math.Min(cellWidthsKm[i]*shrink, cellHeightsKm[i]) >= radiusKm {
			precision = uint(i + 1)
		}
	}
	return precision, precision > 0
}
