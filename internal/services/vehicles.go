package services

import (
	"context"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/storage"
)

type VehicleInput struct {
	PlateNumber  *string
	VehicleType  *models.VehicleType
	CapacityTons *float64
	LengthFt     *float64
	Active       *bool
}

// VehicleService manages a carrier's fleet
type VehicleService struct {
	store storage.VehicleStore
}

func NewVehicleService(store storage.VehicleStore) *VehicleService {
	return &VehicleService{store: store}
}

func applyVehicle(v *models.Vehicle, in VehicleInput) error {
	if in.PlateNumber != nil {
		v.PlateNumber = *in.PlateNumber
	}
	if in.VehicleType != nil {
		if !in.VehicleType.Valid() || in.VehicleType.IsAny() {
			return apperrors.Invalid("vehicleType", "unknown vehicle type")
		}
		v.VehicleType = *in.VehicleType
	}
	if in.CapacityTons != nil {
		v.CapacityTons = *in.CapacityTons
	}
	if in.LengthFt != nil {
		v.LengthFt = *in.LengthFt
	}
	if in.Active != nil {
		v.Active = *in.Active
	}
	return nil
}

func (s *VehicleService) Create(ctx context.Context, owner *models.User, in VehicleInput) (*models.Vehicle, error) {
	if in.VehicleType == nil {
		return nil, apperrors.Invalid("vehicleType", "is required")
	}
	v := &models.Vehicle{OwnerID: owner.ID, Active: true}
	if err := applyVehicle(v, in); err != nil {
		return nil, err
	}
	if err := s.store.CreateVehicle(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VehicleService) ListMine(ctx context.Context, owner *models.User) ([]*models.Vehicle, error) {
	return s.store.ListVehiclesByOwner(ctx, owner.ID)
}

func (s *VehicleService) owned(ctx context.Context, owner *models.User, id string) (*models.Vehicle, error) {
	v, err := s.store.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != owner.ID && !owner.Role.IsAdmin() {
		return nil, apperrors.Forbidden("vehicle belongs to another carrier")
	}
	return v, nil
}

func (s *VehicleService) Update(ctx context.Context, owner *models.User, id string, in VehicleInput) (*models.Vehicle, error) {
	v, err := s.owned(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if err := applyVehicle(v, in); err != nil {
		return nil, err
	}
	if err := s.store.UpdateVehicle(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VehicleService) Delete(ctx context.Context, owner *models.User, id string) error {
	if _, err := s.owned(ctx, owner, id); err != nil {
		return err
	}
	return s.store.DeleteVehicle(ctx, id)
}
