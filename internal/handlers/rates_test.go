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

func seedDelivered(t *testing.T, api *testAPI, origin, destination string, vt models.VehicleType, offer float64) {
	t.Helper()
	at := time.Now().Add(-24 * time.Hour)
	require.NoError(t, api.store.CreateLoad(context.Background(), &models.Load{
		ShipperID:          "shipper",
		Origin:             origin,
		Destination:        destination,
		RequiredVehicle:    vt,
		OfferPrice:         &offer,
		Status:             models.LoadDelivered,
		ActualDeliveryDate: &at,
	}))
}

func TestRateRoutes_UncachedLaneComputedInOneRequest(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.approved(t, "broker", models.RoleBroker)
	seedDelivered(t, api, "Karachi", "Lahore", models.VehicleMazda, 60000)

	status, body := api.get(t, "/api/rates/lane?origin=Karachi&destination=Lahore&vehicleType=Mazda", token)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["hasData"])

	rate := body["rate"].(map[string]interface{})
	assert.Equal(t, float64(60000), rate["avgRate"])
	assert.Equal(t, "cold", rate["marketCondition"])

	_, err := api.store.GetLaneRate(context.Background(), models.NewLaneKey("Karachi", "Lahore", models.VehicleMazda))
	assert.NoError(t, err)
}

func TestRateRoutes_LaneWithoutHistory(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.approved(t, "broker", models.RoleBroker)

	status, body := api.get(t, "/api/rates/lane?origin=Quetta&destination=Gwadar", token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["hasData"])
	assert.Contains(t, body["message"], "last 7 days")
	assert.NotContains(t, body, "rate")

	status, body = api.get(t, "/api/rates/lane?origin=Quetta", token)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["fields"], "destination")
}

func TestRateRoutes_CompareAndTriHaul(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.approved(t, "broker", models.RoleBroker)
	seedDelivered(t, api, "Karachi", "Lahore", models.VehicleMazda, 60000)

	status, body := api.get(t, "/api/rates/compare?origin=Karachi&destination=Lahore&vehicleTypes=Mazda,Reefer", token)
	require.Equal(t, http.StatusOK, status, body)
	comparisons := body["comparisons"].([]interface{})
	require.Len(t, comparisons, 2)
	assert.Equal(t, true, comparisons[0].(map[string]interface{})["hasData"])
	assert.Equal(t, false, comparisons[1].(map[string]interface{})["hasData"])

	status, body = api.get(t, "/api/rates/trihaul?origin=Karachi&destination=Lahore&vehicleType=Mazda", token)
	require.Equal(t, http.StatusOK, status, body)
	assert.Empty(t, body["suggestions"])
}
