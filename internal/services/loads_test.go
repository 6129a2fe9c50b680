package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
)

func TestLoadService_AcceptBidLeavesSiblingPending(t *testing.T) {
	f := newFixture(t)
	svc := NewLoadService(f.store, f.notifier)
	shipper := f.user(t, "shipper", models.RoleShipper)
	c1 := f.user(t, "carrier1", models.RoleCarrier)
	c2 := f.user(t, "carrier2", models.RoleCarrier)

	load, err := svc.CreateLoad(f.ctx, shipper, CreateLoadInput{Origin: "Karachi", Destination: "Lahore", Weight: 10})
	require.NoError(t, err)
	assert.Equal(t, models.LoadOpen, load.Status)
	assert.Equal(t, models.VehicleAny, load.RequiredVehicle)

	b1, err := svc.PlaceBid(f.ctx, c1, load.ID, 50000, "")
	require.NoError(t, err)
	b2, err := svc.PlaceBid(f.ctx, c2, load.ID, 52000, "")
	require.NoError(t, err)

	got, err := svc.DecideBid(f.ctx, shipper, load.ID, b1.ID, models.BidAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.LoadAssigned, got.Status)
	assert.Equal(t, c1.ID, got.AssignedCarrierID)
	assert.Equal(t, models.BidAccepted, got.FindBid(b1.ID).Status)
	assert.Equal(t, models.BidPending, got.FindBid(b2.ID).Status)

	_, err = svc.DecideBid(f.ctx, shipper, load.ID, b2.ID, models.BidAccepted)
	var derr *apperrors.DomainError
	assert.ErrorAs(t, err, &derr)

	f.notifier.Wait()
	assert.Len(t, f.hook.byType(models.NotifyBidPlaced), 2)
	accepted := f.hook.byType(models.NotifyBidAccepted)
	require.Len(t, accepted, 1)
	assert.Equal(t, c1.ID, accepted[0].UserID)
	assert.Equal(t, "Karachi-Lahore", accepted[0].Data["route"])
	assert.Equal(t, "50000", accepted[0].Data["amount"])
}

func TestLoadService_PlaceBidRules(t *testing.T) {
	f := newFixture(t)
	svc := NewLoadService(f.store, f.notifier)
	shipper := f.user(t, "shipper", models.RoleShipper)
	carrier := f.user(t, "carrier", models.RoleCarrier)

	load, err := svc.CreateLoad(f.ctx, shipper, CreateLoadInput{Origin: "Karachi", Destination: "Multan"})
	require.NoError(t, err)

	_, err = svc.PlaceBid(f.ctx, carrier, load.ID, 0, "")
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.PlaceBid(f.ctx, carrier, load.ID, 30000, "")
	require.NoError(t, err)
	_, err = svc.PlaceBid(f.ctx, carrier, load.ID, 29000, "")
	var derr *apperrors.DomainError
	assert.ErrorAs(t, err, &derr)

	_, err = svc.PlaceBid(f.ctx, carrier, "missing", 29000, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLoadService_DecideBidOnlyByShipper(t *testing.T) {
	f := newFixture(t)
	svc := NewLoadService(f.store, f.notifier)
	shipper := f.user(t, "shipper", models.RoleShipper)
	other := f.user(t, "other", models.RoleShipper)
	carrier := f.user(t, "carrier", models.RoleCarrier)

	load, err := svc.CreateLoad(f.ctx, shipper, CreateLoadInput{Origin: "Karachi", Destination: "Lahore"})
	require.NoError(t, err)
	bid, err := svc.PlaceBid(f.ctx, carrier, load.ID, 40000, "")
	require.NoError(t, err)

	_, err = svc.DecideBid(f.ctx, other, load.ID, bid.ID, models.BidAccepted)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	got, err := svc.DecideBid(f.ctx, shipper, load.ID, bid.ID, models.BidRejected)
	require.NoError(t, err)
	assert.Equal(t, models.LoadOpen, got.Status)
	assert.Equal(t, models.BidRejected, got.FindBid(bid.ID).Status)

	_, err = svc.DecideBid(f.ctx, shipper, load.ID, "missing", models.BidAccepted)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLoadService_TrackingLifecycle(t *testing.T) {
	f := newFixture(t)
	svc := NewLoadService(f.store, f.notifier)
	shipper := f.user(t, "shipper", models.RoleShipper)
	carrier := f.user(t, "carrier", models.RoleCarrier)
	stranger := f.user(t, "stranger", models.RoleCarrier)

	load, err := svc.CreateLoad(f.ctx, shipper, CreateLoadInput{Origin: "Karachi", Destination: "Lahore", OfferPrice: price(60000)})
	require.NoError(t, err)
	bid, err := svc.PlaceBid(f.ctx, carrier, load.ID, 58000, "")
	require.NoError(t, err)
	_, err = svc.DecideBid(f.ctx, shipper, load.ID, bid.ID, models.BidAccepted)
	require.NoError(t, err)

	_, err = svc.AddTrackingUpdate(f.ctx, stranger, load.ID, TrackingInput{Status: models.LoadInTransit})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.AddTrackingUpdate(f.ctx, carrier, load.ID, TrackingInput{Status: models.LoadDelivered})
	var derr *apperrors.DomainError
	assert.ErrorAs(t, err, &derr)

	steps := []TrackingInput{
		{Status: models.LoadInTransit, Location: "Hyderabad"},
		{Status: models.LoadInTransit, Location: "Sukkur"},
		{Status: models.LoadDelivered, Location: "Lahore"},
	}
	for _, step := range steps {
		_, err = svc.AddTrackingUpdate(f.ctx, carrier, load.ID, step)
		require.NoError(t, err)
	}

	got, err := svc.GetLoad(f.ctx, load.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoadDelivered, got.Status)
	require.NotNil(t, got.ActualDeliveryDate)

	updates, err := svc.Tracking(f.ctx, shipper, load.ID)
	require.NoError(t, err)
	require.Len(t, updates, 3)
	assert.Equal(t, "Sukkur", updates[1].Location)

	_, err = svc.Tracking(f.ctx, stranger, load.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	f.notifier.Wait()
	// the repeated In-Transit ping is not a status change
	assert.Len(t, f.hook.byType(models.NotifyLoadStatus), 2)

	mine, err := svc.MyLoads(f.ctx, carrier)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, load.ID, mine[0].ID)
}
