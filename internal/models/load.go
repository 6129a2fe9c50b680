package models

import "time"

type LoadStatus string

const (
	LoadOpen      LoadStatus = "Open"
	LoadAssigned  LoadStatus = "Assigned"
	LoadInTransit LoadStatus = "In-Transit"
	LoadDelivered LoadStatus = "Delivered"
)

func (s LoadStatus) rank() int {
	switch s {
	case LoadOpen:
		return 0
	case LoadAssigned:
		return 1
	case LoadInTransit:
		return 2
	case LoadDelivered:
		return 3
	}
	return -1
}

func (s LoadStatus) Valid() bool { return s.rank() >= 0 }

// CanAdvanceTo reports whether a load in status s may move to next. Progress
// is one-directional; repeating the current status is allowed for in-flight
// loads so carriers can post location pings. Delivered is terminal.
func (s LoadStatus) CanAdvanceTo(next LoadStatus) bool {
	if !next.Valid() || s == LoadDelivered {
		return false
	}
	if s == next {
		return s == LoadInTransit
	}
	return next.rank() == s.rank()+1
}

type LoadType string

const (
	LoadTypeFull    LoadType = "Full"
	LoadTypePartial LoadType = "Partial"
	LoadTypeAny     LoadType = "Any"
)

func (t LoadType) Valid() bool {
	return t == LoadTypeFull || t == LoadTypePartial || t == LoadTypeAny
}

// Load represents a shipment posted by a shipper
type Load struct {
	Base
	ShipperID string `json:"shipperId" gorm:"index;not null"`

	// Route details
	Origin      string  `json:"origin" gorm:"index"`
	Destination string  `json:"destination" gorm:"index"`
	Distance    float64 `json:"distance"` // in km, 0 when unknown

	// Load details
	GoodsType       string      `json:"goodsType"`
	Weight          float64     `json:"weight"` // in tons
	RequiredVehicle VehicleType `json:"requiredVehicle" gorm:"type:varchar(32);default:Any"`
	LoadType        LoadType    `json:"loadType" gorm:"type:varchar(16);default:Full"`
	OfferPrice      *float64    `json:"offerPrice,omitempty"`
	Notes           string      `json:"notes,omitempty"`

	Status            LoadStatus `json:"status" gorm:"type:varchar(16);index;default:Open"`
	Version           int        `json:"version" gorm:"not null;default:0"`
	AssignedCarrierID string     `json:"assignedCarrierId,omitempty" gorm:"index"`
	AcceptedBidID     string     `json:"acceptedBidId,omitempty"`

	PickupDate         *time.Time `json:"pickupDate,omitempty"`
	ActualDeliveryDate *time.Time `json:"actualDeliveryDate,omitempty" gorm:"index"`

	Bids            []Bid            `json:"bids" gorm:"foreignKey:LoadID"`
	TrackingUpdates []TrackingUpdate `json:"trackingUpdates,omitempty" gorm:"foreignKey:LoadID"`
}

type BidStatus string

const (
	BidPending  BidStatus = "Pending"
	BidAccepted BidStatus = "Accepted"
	BidRejected BidStatus = "Rejected"
)

// Bid is a carrier's price proposal on a load
type Bid struct {
	Base
	LoadID    string    `json:"loadId" gorm:"index;not null"`
	CarrierID string    `json:"carrierId" gorm:"index;not null"`
	Amount    float64   `json:"amount"`
	Note      string    `json:"note,omitempty"`
	Status    BidStatus `json:"status" gorm:"type:varchar(16);default:Pending"`
}

// TrackingUpdate is one entry in a load's ordered progress log
type TrackingUpdate struct {
	Base
	LoadID    string     `json:"loadId" gorm:"index;not null"`
	CarrierID string     `json:"carrierId"`
	Status    LoadStatus `json:"status" gorm:"type:varchar(16)"`
	Location  string     `json:"location,omitempty"`
	Note      string     `json:"note,omitempty"`
}

// FindBid returns the bid with the given ID, or nil
func (l *Load) FindBid(id string) *Bid {
	for i := range l.Bids {
		if l.Bids[i].ID == id {
			return &l.Bids[i]
		}
	}
	return nil
}

// PendingBidBy returns the carrier's pending bid on the load, or nil
func (l *Load) PendingBidBy(carrierID string) *Bid {
	for i := range l.Bids {
		if l.Bids[i].CarrierID == carrierID && l.Bids[i].Status == BidPending {
			return &l.Bids[i]
		}
	}
	return nil
}

// CountPendingBids counts bids still awaiting a decision
func (l *Load) CountPendingBids() int {
	n := 0
	for _, b := range l.Bids {
		if b.Status == BidPending {
			n++
		}
	}
	return n
}
