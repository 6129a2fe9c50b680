package services

import (
	"context"
	"errors"
	"time"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/events"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/storage"
	"github.com/Ananth-NQI/loadboard-backend/internal/utils"
)

// PostingInput carries the editable fields of a truck posting. Nil fields
// are left unchanged on update.
type PostingInput struct {
	VehicleID             *string
	CurrentLocation       *string
	Destination           *string
	CurrentLat            *float64
	CurrentLng            *float64
	AvailableDate         *time.Time
	DeadheadOriginKm      *float64
	DeadheadDestinationKm *float64
	EquipmentType         *models.VehicleType
	LoadType              *models.LoadType
	MaxLength             *float64
	MaxWeight             *float64
	Notes                 *string
	Status                *models.TruckStatus
	ExpiresAt             *time.Time
}

// TruckService manages availability postings and truck search
type TruckService struct {
	store    storage.Store
	notifier *Notifier
	now      func() time.Time
}

func NewTruckService(store storage.Store, notifier *Notifier) *TruckService {
	return &TruckService{store: store, notifier: notifier, now: time.Now}
}

func (s *TruckService) apply(ctx context.Context, carrier *models.User, p *models.TruckAvailability, in PostingInput) error {
	if in.VehicleID != nil && *in.VehicleID != "" {
		v, err := s.store.GetVehicle(ctx, *in.VehicleID)
		if err != nil {
			return err
		}
		if v.OwnerID != carrier.ID {
			return apperrors.Forbidden("vehicle belongs to another carrier")
		}
		p.VehicleID = v.ID
		if in.EquipmentType == nil && p.EquipmentType == "" {
			p.EquipmentType = v.VehicleType
		}
		if in.MaxWeight == nil && p.MaxWeight == 0 {
			p.MaxWeight = v.CapacityTons
		}
		if in.MaxLength == nil && p.MaxLength == 0 {
			p.MaxLength = v.LengthFt
		}
	}
	if in.CurrentLocation != nil {
		p.CurrentLocation = *in.CurrentLocation
	}
	if in.Destination != nil {
		p.Destination = *in.Destination
	}
	if (in.CurrentLat == nil) != (in.CurrentLng == nil) {
		return apperrors.Invalid("currentLat", "latitude and longitude go together")
	}
	if in.CurrentLat != nil {
		lat, lng := *in.CurrentLat, *in.CurrentLng
		p.CurrentLat, p.CurrentLng = &lat, &lng
		p.Geohash = utils.EncodeGeohash(lat, lng)
	}
	if in.AvailableDate != nil {
		p.AvailableDate = *in.AvailableDate
	}
	if in.DeadheadOriginKm != nil {
		p.DeadheadOriginKm = *in.DeadheadOriginKm
	}
	if in.DeadheadDestinationKm != nil {
		p.DeadheadDestinationKm = *in.DeadheadDestinationKm
	}
	if in.EquipmentType != nil {
		if !in.EquipmentType.Valid() {
			return apperrors.Invalid("equipmentType", "unknown vehicle type")
		}
		p.EquipmentType = *in.EquipmentType
	}
	if in.LoadType != nil {
		if !in.LoadType.Valid() {
			return apperrors.Invalid("loadType", "unknown load type")
		}
		p.LoadType = *in.LoadType
	}
	if in.MaxLength != nil {
		p.MaxLength = *in.MaxLength
	}
	if in.MaxWeight != nil {
		p.MaxWeight = *in.MaxWeight
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}
	if in.ExpiresAt != nil {
		if !in.ExpiresAt.After(s.now()) {
			return apperrors.Invalid("expiresAt", "must be in the future")
		}
		p.ExpiresAt = *in.ExpiresAt
	}
	if in.Status != nil {
		switch *in.Status {
		case models.TruckAvailable, models.TruckInTransit:
			p.Status = *in.Status
		default:
			return apperrors.Invalid("status", "carriers may set Available or In-Transit")
		}
	}
	return nil
}

// CreatePosting publishes a truck as available until its expiry
func (s *TruckService) CreatePosting(ctx context.Context, carrier *models.User, in PostingInput) (*models.TruckAvailability, error) {
	if in.CurrentLocation == nil || *in.CurrentLocation == "" {
		return nil, apperrors.Invalid("currentLocation", "is required")
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	p := &models.TruckAvailability{
		CarrierID:     carrier.ID,
		AvailableDate: now,
		LoadType:      models.LoadTypeAny,
		Status:        models.TruckAvailable,
		ExpiresAt:     now.Add(settings.PostingTTL()),
	}
	in.Status = nil
	if err := s.apply(ctx, carrier, p, in); err != nil {
		return nil, err
	}
	if p.EquipmentType == "" {
		p.EquipmentType = models.VehicleAny
	}
	if err := s.store.CreatePosting(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *TruckService) GetPosting(ctx context.Context, id string) (*models.TruckAvailability, error) {
	return s.store.GetPosting(ctx, id)
}

// ListPostings returns searchable postings matching the filter
func (s *TruckService) ListPostings(ctx context.Context, filter models.TruckFilter, limit int) ([]*models.TruckAvailability, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	return s.store.SearchTrucks(ctx, filter, s.now(), limit)
}

// Search runs the filter and partitions hits into exact and similar
func (s *TruckService) Search(ctx context.Context, filter models.TruckFilter) (SearchResult, error) {
	postings, err := s.ListPostings(ctx, filter, DefaultListLimit)
	if err != nil {
		return SearchResult{}, err
	}
	return PartitionMatches(filter, postings), nil
}

// MyPostings is the owner view and skips the availability predicate
func (s *TruckService) MyPostings(ctx context.Context, carrier *models.User) ([]*models.TruckAvailability, error) {
	return s.store.ListPostingsByCarrier(ctx, carrier.ID)
}

func (s *TruckService) owned(ctx context.Context, user *models.User, id string) (*models.TruckAvailability, error) {
	p, err := s.store.GetPosting(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.CarrierID != user.ID && !user.Role.IsAdmin() {
		return nil, apperrors.Forbidden("posting belongs to another carrier")
	}
	return p, nil
}

func (s *TruckService) UpdatePosting(ctx context.Context, carrier *models.User, id string, in PostingInput) (*models.TruckAvailability, error) {
	p, err := s.owned(ctx, carrier, id)
	if err != nil {
		return nil, err
	}
	if p.Status == models.TruckBooked {
		return nil, apperrors.Domain("booked postings cannot be edited")
	}
	if err := s.apply(ctx, carrier, p, in); err != nil {
		return nil, err
	}
	// extending an expired posting relists it
	if p.Status == models.TruckExpired && p.ExpiresAt.After(s.now()) {
		p.Status = models.TruckAvailable
	}
	if err := s.store.UpdatePosting(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *TruckService) DeletePosting(ctx context.Context, user *models.User, id string) error {
	if _, err := s.owned(ctx, user, id); err != nil {
		return err
	}
	return s.store.DeletePosting(ctx, id)
}

// BookPosting reserves an available truck for a shipper, optionally for one
// of their loads
func (s *TruckService) BookPosting(ctx context.Context, shipper *models.User, id, loadID string) (*models.TruckAvailability, error) {
	p, err := s.store.GetPosting(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !p.IsSearchable(now) {
		return nil, apperrors.Domain("truck is not available for booking")
	}
	if loadID != "" {
		load, err := s.store.GetLoad(ctx, loadID)
		if err != nil {
			return nil, err
		}
		if load.ShipperID != shipper.ID {
			return nil, apperrors.Forbidden("load belongs to another shipper")
		}
	}

	if err := s.store.BookPosting(ctx, p.ID, shipper.ID, loadID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.Domain("truck is not available for booking")
		}
		return nil, err
	}

	s.notifier.Notify(ctx, events.Event{
		Type:    models.NotifyTruckBooked,
		UserID:  p.CarrierID,
		ActorID: shipper.ID,
		Title:   "Truck booked",
		Body:    shipper.Name + " booked your truck at " + p.CurrentLocation,
		Data:    map[string]string{"postingId": p.ID, "loadId": loadID, "location": p.CurrentLocation},
	})
	return s.store.GetPosting(ctx, p.ID)
}

// ExpireStale flips postings past their expiry to Expired
func (s *TruckService) ExpireStale(ctx context.Context) (int64, error) {
	return s.store.ExpirePostings(ctx, s.now())
}
