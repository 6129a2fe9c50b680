package models

type VehicleType string

const (
	VehicleAny       VehicleType = "Any"
	VehicleMazda     VehicleType = "Mazda"
	VehicleShehzore  VehicleType = "Shehzore"
	VehicleFlatbed   VehicleType = "Flatbed"
	VehicleContainer VehicleType = "Container"
	VehicleTrailer   VehicleType = "Trailer"
	VehicleReefer    VehicleType = "Reefer"
	VehicleTanker    VehicleType = "Tanker"
	VehicleDumper    VehicleType = "Dumper"
	VehiclePickup    VehicleType = "Pickup"
)

var VehicleTypes = []VehicleType{
	VehicleAny, VehicleMazda, VehicleShehzore, VehicleFlatbed, VehicleContainer,
	VehicleTrailer, VehicleReefer, VehicleTanker, VehicleDumper, VehiclePickup,
}

func (v VehicleType) Valid() bool {
	for _, t := range VehicleTypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsAny reports whether the value means "no vehicle filter"
func (v VehicleType) IsAny() bool {
	return v == "" || v == VehicleAny
}

// Vehicle is a truck owned by a carrier-side user
type Vehicle struct {
	Base
	OwnerID      string      `json:"ownerId" gorm:"index;not null"`
	PlateNumber  string      `json:"plateNumber" gorm:"index"`
	VehicleType  VehicleType `json:"vehicleType" gorm:"type:varchar(32)"`
	CapacityTons float64     `json:"capacityTons"`
	LengthFt     float64     `json:"lengthFt"`
	Active       bool        `json:"active" gorm:"default:true"`
}
