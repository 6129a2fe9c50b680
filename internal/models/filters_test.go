package models

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptrF(v float64) *float64 { return &v }

func posting(now time.Time) *TruckAvailability {
	return &TruckAvailability{
		Base:            Base{ID: "p1", CreatedAt: now.Add(-30 * time.Minute)},
		CurrentLocation: "North Karachi",
		Destination:     "Lahore",
		AvailableDate:   now.Add(24 * time.Hour),
		EquipmentType:   VehicleContainer,
		LoadType:        LoadTypeFull,
		MaxLength:       40,
		MaxWeight:       25,
		Status:          TruckAvailable,
		ExpiresAt:       now.Add(48 * time.Hour),
	}
}

func TestTruckFilterMatches(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	tomorrow := now.Add(24 * time.Hour)
	today := now

	tests := []struct {
		name   string
		filter TruckFilter
		mutate func(p *TruckAvailability)
		want   bool
	}{
		{name: "empty filter", want: true},
		{name: "location substring", filter: TruckFilter{CurrentLocation: "karachi"}, want: true},
		{name: "location mismatch", filter: TruckFilter{CurrentLocation: "Quetta"}, want: false},
		{name: "destination substring", filter: TruckFilter{Destination: "LAH"}, want: true},
		{name: "equipment exact", filter: TruckFilter{EquipmentType: VehicleContainer}, want: true},
		{name: "equipment mismatch", filter: TruckFilter{EquipmentType: VehicleFlatbed}, want: false},
		{name: "equipment any skipped", filter: TruckFilter{EquipmentType: VehicleAny}, want: true},
		{name: "available by requested date", filter: TruckFilter{AvailableDate: &tomorrow}, want: true},
		{name: "available after requested date", filter: TruckFilter{AvailableDate: &today}, want: false},
		{name: "load type exact", filter: TruckFilter{LoadType: LoadTypeFull}, want: true},
		{name: "load type mismatch", filter: TruckFilter{LoadType: LoadTypePartial}, want: false},
		{
			name:   "posting accepts any load type",
			filter: TruckFilter{LoadType: LoadTypePartial},
			mutate: func(p *TruckAvailability) { p.LoadType = LoadTypeAny },
			want:   true,
		},
		{name: "min weight satisfied", filter: TruckFilter{MinWeight: 25}, want: true},
		{name: "min weight too high", filter: TruckFilter{MinWeight: 26}, want: false},
		{name: "min length too high", filter: TruckFilter{MinLength: 41}, want: false},
		{name: "max age satisfied", filter: TruckFilter{MaxAge: 60}, want: true},
		{name: "max age exceeded", filter: TruckFilter{MaxAge: 10}, want: false},
		{
			name:   "expired posting",
			mutate: func(p *TruckAvailability) { p.ExpiresAt = now.Add(-time.Second) },
			want:   false,
		},
		{
			name:   "expiry exactly now",
			mutate: func(p *TruckAvailability) { p.ExpiresAt = now },
			want:   false,
		},
		{
			name:   "booked posting",
			mutate: func(p *TruckAvailability) { p.Status = TruckBooked },
			want:   false,
		},
		{
			name:   "near without coordinates",
			filter: TruckFilter{Near: &GeoRadius{Lat: 24.86, Lng: 67.0, RadiusKm: 10}},
			want:   false,
		},
		{
			name:   "near within radius",
			filter: TruckFilter{Near: &GeoRadius{Lat: 24.86, Lng: 67.0, RadiusKm: 10}},
			mutate: func(p *TruckAvailability) { p.CurrentLat, p.CurrentLng = ptrF(24.90), ptrF(67.03) },
			want:   true,
		},
		{
			name:   "near outside radius",
			filter: TruckFilter{Near: &GeoRadius{Lat: 24.86, Lng: 67.0, RadiusKm: 10}},
			mutate: func(p *TruckAvailability) { p.CurrentLat, p.CurrentLng = ptrF(31.52), ptrF(74.35) },
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := posting(now)
			if tt.mutate != nil {
				tt.mutate(p)
			}
			assert.Equal(t, tt.want, tt.filter.Matches(p, now))
		})
	}
}

// Whatever the filter combination, an expired or unavailable posting must
// never match.
func TestTruckFilterNeverMatchesInvisiblePostings(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	rnd := rand.New(rand.NewSource(42))

	locations := []string{"", "karachi", "north", "lahore", "quetta"}
	loadTypes := []LoadType{"", LoadTypeAny, LoadTypeFull, LoadTypePartial}
	statuses := []TruckStatus{TruckAvailable, TruckInTransit, TruckBooked, TruckExpired}

	for i := 0; i < 2000; i++ {
		date := now.Add(time.Duration(rnd.Intn(96)-48) * time.Hour)
		f := TruckFilter{
			CurrentLocation: locations[rnd.Intn(len(locations))],
			Destination:     locations[rnd.Intn(len(locations))],
			EquipmentType:   VehicleTypes[rnd.Intn(len(VehicleTypes))],
			LoadType:        loadTypes[rnd.Intn(len(loadTypes))],
			MinWeight:       float64(rnd.Intn(30)),
			MinLength:       float64(rnd.Intn(50)),
			MaxAge:          rnd.Intn(120),
		}
		if rnd.Intn(2) == 0 {
			f.AvailableDate = &date
		}

		p := posting(now)
		p.EquipmentType = VehicleTypes[rnd.Intn(len(VehicleTypes))]
		p.LoadType = loadTypes[1+rnd.Intn(3)]
		p.Status = statuses[rnd.Intn(len(statuses))]
		p.ExpiresAt = now.Add(time.Duration(rnd.Intn(20)-10) * time.Second)

		if p.Status != TruckAvailable || !p.ExpiresAt.After(now) {
			assert.False(t, f.Matches(p, now), "iteration %d: %+v", i, f)
		}
	}
}

func TestLoadFilterMatches(t *testing.T) {
	pickup := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	load := &Load{
		ShipperID:       "s1",
		Origin:          "Karachi Port",
		Destination:     "Lahore",
		Weight:          12,
		RequiredVehicle: VehicleMazda,
		Status:          LoadOpen,
		PickupDate:      &pickup,
	}
	before := pickup.Add(-time.Hour)
	after := pickup.Add(time.Hour)

	assert.True(t, LoadFilter{}.Matches(load))
	assert.True(t, LoadFilter{Origin: "karachi", Destination: "lahore"}.Matches(load))
	assert.False(t, LoadFilter{Origin: "lahore"}.Matches(load))
	assert.True(t, LoadFilter{VehicleType: VehicleAny}.Matches(load))
	assert.False(t, LoadFilter{VehicleType: VehicleTrailer}.Matches(load))
	assert.False(t, LoadFilter{Status: LoadAssigned}.Matches(load))
	assert.False(t, LoadFilter{ShipperID: "s2"}.Matches(load))
	assert.False(t, LoadFilter{MinWeight: 13}.Matches(load))
	assert.False(t, LoadFilter{MaxWeight: 11}.Matches(load))
	assert.True(t, LoadFilter{PickupFrom: &before, PickupTo: &after}.Matches(load))
	assert.False(t, LoadFilter{PickupFrom: &after}.Matches(load))
}

func TestLaneQueryMatchesLoad(t *testing.T) {
	load := &Load{Origin: "North Karachi", Destination: "Lahore Cantt", RequiredVehicle: VehicleMazda}

	assert.True(t, LaneQuery{Origin: "Karachi", Destination: "Lahore", VehicleType: VehicleMazda}.MatchesLoad(load))
	assert.True(t, LaneQuery{Origin: "Karachi", Destination: "Lahore"}.MatchesLoad(load))
	assert.False(t, LaneQuery{Origin: "Lahore", Destination: "Karachi"}.MatchesLoad(load))
	assert.False(t, LaneQuery{Origin: "Karachi", Destination: "Lahore", VehicleType: VehicleTrailer}.MatchesLoad(load))
}
