package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/loadboard-backend/internal/models"
)

func TestTruckRoutes_ExpiredPostingOnlyInMyPostings(t *testing.T) {
	api := newTestAPI(t)
	carrier, carrierToken := api.approved(t, "carrier", models.RoleCarrier)
	_, shipperToken := api.approved(t, "shipper", models.RoleShipper)

	expired := &models.TruckAvailability{
		CarrierID:       carrier.ID,
		CurrentLocation: "Karachi",
		EquipmentType:   models.VehicleMazda,
		Status:          models.TruckAvailable,
		ExpiresAt:       time.Now().Add(-time.Minute),
	}
	require.NoError(t, api.store.CreatePosting(context.Background(), expired))

	status, body := api.do(t, http.MethodPost, "/api/trucks/availability", carrierToken, map[string]interface{}{
		"currentLocation": "Karachi",
		"destination":     "Lahore",
		"equipmentType":   "Mazda",
	})
	require.Equal(t, http.StatusCreated, status, body)
	live := body["posting"].(map[string]interface{})

	status, body = api.get(t, "/api/trucks/search?currentLocation=karachi", shipperToken)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, float64(1), body["total"])
	exact := body["exactMatches"].([]interface{})
	require.Len(t, exact, 1)
	assert.Equal(t, live["id"], exact[0].(map[string]interface{})["id"])

	status, body = api.get(t, "/api/trucks/availability?origin=Karachi", shipperToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])

	status, body = api.get(t, "/api/trucks/availability/my-postings", carrierToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["count"])
}

func TestTruckRoutes_Booking(t *testing.T) {
	api := newTestAPI(t)
	_, carrierToken := api.approved(t, "carrier", models.RoleCarrier)
	_, shipperToken := api.approved(t, "shipper", models.RoleShipper)

	status, body := api.do(t, http.MethodPost, "/api/trucks/availability", carrierToken, map[string]interface{}{
		"currentLocation": "Multan",
	})
	require.Equal(t, http.StatusCreated, status, body)
	id := body["posting"].(map[string]interface{})["id"].(string)

	status, body = api.do(t, http.MethodPost, "/api/trucks/availability/"+id+"/book", shipperToken, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Booked", body["posting"].(map[string]interface{})["status"])

	status, body = api.do(t, http.MethodPost, "/api/trucks/availability/"+id+"/book", shipperToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "truck is not available for booking", body["message"])

	api.notifier.Wait()
	status, body = api.get(t, "/api/notifications/unread-count", carrierToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["unread"])
}

func TestTruckRoutes_SearchValidation(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.approved(t, "shipper", models.RoleShipper)

	tests := []struct {
		name  string
		query string
		field string
	}{
		{name: "unknown equipment", query: "equipmentType=Rocket", field: "equipmentType"},
		{name: "bad weight", query: "minWeight=heavy", field: "minWeight"},
		{name: "radius missing", query: "lat=24.8&lng=67.0", field: "radiusKm"},
		{name: "bad date", query: "availableDate=tomorrow", field: "availableDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := api.get(t, "/api/trucks/search?"+tt.query, token)
			require.Equal(t, http.StatusBadRequest, status)
			assert.Contains(t, body["fields"], tt.field)
		})
	}
}
