package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceKm(t *testing.T) {
	// Karachi to Lahore is roughly 1,030 km in a straight line
	d := DistanceKm(24.8607, 67.0011, 31.5204, 74.3587)
	assert.InDelta(t, 1030, d, 30)

	assert.InDelta(t, 0, DistanceKm(24.86, 67.0, 24.86, 67.0), 0.0001)
}

func TestSearchCellsCoverPosting(t *testing.T) {
	lat, lng := 24.8607, 67.0011
	posting := EncodeGeohash(24.87, 67.02)

	cells := SearchCells(lat, lng, 20)
	assert.Len(t, cells, 9)

	covered := false
	for _, c := range cells {
		if strings.HasPrefix(posting, c) {
			covered = true
		}
	}
	assert.True(t, covered)
}

func TestSearchCellsCoverCellEdge(t *testing.T) {
	lat, lng := 24.2577, 67.0
	// 25 km due north, across the top edge of the precision 4 cell
	north := lat + 25.0/111.2
	require.Less(t, DistanceKm(lat, lng, north, lng), 30.0)
	posting := EncodeGeohash(north, lng)

	cells := SearchCells(lat, lng, 30)
	covered := false
	for _, c := range cells {
		if strings.HasPrefix(posting, c) {
			covered = true
		}
	}
	assert.True(t, covered, "posting %s not in %v", posting, cells)
}

func TestCellPrecision(t *testing.T) {
	tests := []struct {
		lat, radius float64
		want        uint
		ok          bool
	}{
		{0, 3, 5, true},
		{0, 19, 4, true},
		{0, 20, 3, true},
		{0, 100, 3, true},
		{0, 600, 2, true},
		{0, 700, 1, true},
		// 156 km wide cells are only ~78 km wide at 60 degrees
		{60, 100, 2, true},
		{0, 8000, 0, false},
	}
	for _, tt := range tests {
		got, ok := cellPrecision(tt.lat, tt.radius)
		assert.Equal(t, tt.ok, ok, "lat %v radius %v", tt.lat, tt.radius)
		assert.Equal(t, tt.want, got, "lat %v radius %v", tt.lat, tt.radius)
	}
}

func TestSearchCellsTooWide(t *testing.T) {
	assert.Nil(t, SearchCells(24.86, 67.0, 8000))
}
