package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/events"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/storage"
)

// DefaultListLimit caps list endpoints
const DefaultListLimit = 100

type CreateLoadInput struct {
	Origin          string
	Destination     string
	Distance        float64
	GoodsType       string
	Weight          float64
	RequiredVehicle models.VehicleType
	LoadType        models.LoadType
	OfferPrice      *float64
	Notes           string
	PickupDate      *time.Time
}

type TrackingInput struct {
	Status   models.LoadStatus
	Location string
	Note     string
}

// LoadService owns the load and bid lifecycle
type LoadService struct {
	store    storage.Store
	notifier *Notifier
	now      func() time.Time
}

func NewLoadService(store storage.Store, notifier *Notifier) *LoadService {
	return &LoadService{store: store, notifier: notifier, now: time.Now}
}

func (s *LoadService) CreateLoad(ctx context.Context, shipper *models.User, in CreateLoadInput) (*models.Load, error) {
	if in.RequiredVehicle == "" {
		in.RequiredVehicle = models.VehicleAny
	}
	if !in.RequiredVehicle.Valid() {
		return nil, apperrors.Invalid("requiredVehicle", "unknown vehicle type")
	}
	if in.LoadType == "" {
		in.LoadType = models.LoadTypeFull
	}
	if !in.LoadType.Valid() {
		return nil, apperrors.Invalid("loadType", "unknown load type")
	}
	if in.OfferPrice != nil && *in.OfferPrice <= 0 {
		return nil, apperrors.Invalid("offerPrice", "must be positive")
	}

	load := &models.Load{
		ShipperID:       shipper.ID,
		Origin:          in.Origin,
		Destination:     in.Destination,
		Distance:        in.Distance,
		GoodsType:       in.GoodsType,
		Weight:          in.Weight,
		RequiredVehicle: in.RequiredVehicle,
		LoadType:        in.LoadType,
		OfferPrice:      in.OfferPrice,
		Notes:           in.Notes,
		PickupDate:      in.PickupDate,
		Status:          models.LoadOpen,
	}
	if err := s.store.CreateLoad(ctx, load); err != nil {
		return nil, err
	}
	return load, nil
}

func (s *LoadService) GetLoad(ctx context.Context, id string) (*models.Load, error) {
	return s.store.GetLoad(ctx, id)
}

// ListLoads shows open loads unless the filter names a status or shipper
func (s *LoadService) ListLoads(ctx context.Context, filter models.LoadFilter, limit int) ([]*models.Load, error) {
	if filter.Status == "" && filter.ShipperID == "" && filter.CarrierID == "" {
		filter.Status = models.LoadOpen
	}
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	return s.store.ListLoads(ctx, filter, limit)
}

// MyLoads returns the loads a shipper posted or a carrier was assigned
func (s *LoadService) MyLoads(ctx context.Context, user *models.User) ([]*models.Load, error) {
	filter := models.LoadFilter{ShipperID: user.ID}
	if user.Role.IsCarrier() {
		filter = models.LoadFilter{CarrierID: user.ID}
	}
	return s.store.ListLoads(ctx, filter, 0)
}

// PlaceBid adds a pending bid. Only open loads take bids and a carrier has
// at most one pending bid per load.
func (s *LoadService) PlaceBid(ctx context.Context, carrier *models.User, loadID string, amount float64, note string) (*models.Bid, error) {
	if amount <= 0 {
		return nil, apperrors.Invalid("amount", "must be positive")
	}
	load, err := s.store.GetLoad(ctx, loadID)
	if err != nil {
		return nil, err
	}
	if load.Status != models.LoadOpen {
		return nil, apperrors.Domain("load is %s and no longer accepts bids", load.Status)
	}
	if load.PendingBidBy(carrier.ID) != nil {
		return nil, apperrors.Domain("you already have a pending bid on this load")
	}

	bid := &models.Bid{
		LoadID:    load.ID,
		CarrierID: carrier.ID,
		Amount:    amount,
		Note:      note,
		Status:    models.BidPending,
	}
	if err := s.store.AddBid(ctx, bid); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, events.Event{
		Type:    models.NotifyBidPlaced,
		UserID:  load.ShipperID,
		ActorID: carrier.ID,
		Title:   "New bid received",
		Body:    fmt.Sprintf("%s bid PKR %.0f on %s", carrier.Name, amount, laneLabel(load.Origin, load.Destination)),
		Data:    loadEventData(load, map[string]string{"bidId": bid.ID, "amount": fmt.Sprintf("%.0f", amount)}),
	})
	return bid, nil
}

// DecideBid accepts or rejects a pending bid. Acceptance assigns the load
// atomically; sibling bids stay pending.
func (s *LoadService) DecideBid(ctx context.Context, shipper *models.User, loadID, bidID string, status models.BidStatus) (*models.Load, error) {
	if status != models.BidAccepted && status != models.BidRejected {
		return nil, apperrors.Invalid("status", "must be Accepted or Rejected")
	}
	load, err := s.store.GetLoad(ctx, loadID)
	if err != nil {
		return nil, err
	}
	if load.ShipperID != shipper.ID && !shipper.Role.IsAdmin() {
		return nil, apperrors.Forbidden("only the shipper who posted the load can decide bids")
	}
	bid := load.FindBid(bidID)
	if bid == nil {
		return nil, apperrors.NotFound("bid")
	}
	if bid.Status != models.BidPending {
		return nil, apperrors.Domain("bid is already %s", bid.Status)
	}

	event := events.Event{
		UserID:  bid.CarrierID,
		ActorID: shipper.ID,
		Data:    loadEventData(load, map[string]string{"bidId": bid.ID, "amount": fmt.Sprintf("%.0f", bid.Amount)}),
	}
	if status == models.BidAccepted {
		if load.Status != models.LoadOpen {
			return nil, apperrors.Domain("load is already %s", load.Status)
		}
		if err := s.store.AssignLoad(ctx, load.ID, load.Version, bid.ID, bid.CarrierID); err != nil {
			return nil, err
		}
		event.Type = models.NotifyBidAccepted
		event.Title = "Bid accepted"
		event.Body = fmt.Sprintf("Your bid on %s was accepted", laneLabel(load.Origin, load.Destination))
	} else {
		if err := s.store.RejectBid(ctx, load.ID, bid.ID); err != nil {
			return nil, err
		}
		event.Type = models.NotifyBidRejected
		event.Title = "Bid not selected"
		event.Body = fmt.Sprintf("Your bid on %s was rejected", laneLabel(load.Origin, load.Destination))
	}
	s.notifier.Notify(ctx, event)

	return s.store.GetLoad(ctx, load.ID)
}

// AddTrackingUpdate advances an assigned load. Repeating In-Transit posts
// a location ping.
func (s *LoadService) AddTrackingUpdate(ctx context.Context, carrier *models.User, loadID string, in TrackingInput) (*models.Load, error) {
	load, err := s.store.GetLoad(ctx, loadID)
	if err != nil {
		return nil, err
	}
	if load.AssignedCarrierID == "" || load.AssignedCarrierID != carrier.ID {
		return nil, apperrors.Forbidden("only the assigned carrier can post tracking updates")
	}
	if !in.Status.Valid() {
		return nil, apperrors.Invalid("status", "unknown load status")
	}
	if !load.Status.CanAdvanceTo(in.Status) {
		return nil, apperrors.Domain("cannot move load from %s to %s", load.Status, in.Status)
	}

	var deliveredAt *time.Time
	if in.Status == models.LoadDelivered {
		now := s.now()
		deliveredAt = &now
	}
	update := &models.TrackingUpdate{
		CarrierID: carrier.ID,
		Status:    in.Status,
		Location:  in.Location,
		Note:      in.Note,
	}
	if err := s.store.AdvanceLoad(ctx, load.ID, load.Version, update, deliveredAt); err != nil {
		return nil, err
	}

	if in.Status != load.Status {
		s.notifier.Notify(ctx, events.Event{
			Type:    models.NotifyLoadStatus,
			UserID:  load.ShipperID,
			ActorID: carrier.ID,
			Title:   "Load " + string(in.Status),
			Body:    fmt.Sprintf("%s is now %s", laneLabel(load.Origin, load.Destination), in.Status),
			Data:    loadEventData(load, map[string]string{"status": string(in.Status), "location": in.Location}),
		})
	}
	return s.store.GetLoad(ctx, load.ID)
}

// Tracking returns the progress log to the load's parties and admins
func (s *LoadService) Tracking(ctx context.Context, user *models.User, loadID string) ([]*models.TrackingUpdate, error) {
	load, err := s.store.GetLoad(ctx, loadID)
	if err != nil {
		return nil, err
	}
	if user.ID != load.ShipperID && user.ID != load.AssignedCarrierID && !user.Role.IsAdmin() {
		return nil, apperrors.Forbidden("tracking is visible to the load's shipper and carrier")
	}
	return s.store.ListTrackingUpdates(ctx, load.ID)
}

func loadEventData(load *models.Load, extra map[string]string) map[string]string {
	data := map[string]string{
		"loadId": load.ID,
		"route":  laneLabel(load.Origin, load.Destination),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}
