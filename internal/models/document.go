package models

import "time"

type DocumentType string

const (
	DocCNIC         DocumentType = "cnic"
	DocLicense      DocumentType = "license"
	DocRegistration DocumentType = "registration"
	DocInsurance    DocumentType = "insurance"
	DocPOD          DocumentType = "pod"
	DocInvoice      DocumentType = "invoice"
	DocOther        DocumentType = "other"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocCNIC, DocLicense, DocRegistration, DocInsurance, DocPOD, DocInvoice, DocOther:
		return true
	}
	return false
}

type DocumentStatus string

const (
	DocPending  DocumentStatus = "pending"
	DocVerified DocumentStatus = "verified"
	DocRejected DocumentStatus = "rejected"
)

// Document is metadata about an uploaded file; the file itself lives at URL
type Document struct {
	Base
	OwnerID    string         `json:"ownerId" gorm:"index;not null"`
	Type       DocumentType   `json:"type" gorm:"type:varchar(16)"`
	URL        string         `json:"url"`
	LoadID     string         `json:"loadId,omitempty" gorm:"index"`
	VehicleID  string         `json:"vehicleId,omitempty"`
	Status     DocumentStatus `json:"status" gorm:"type:varchar(16);index;default:pending"`
	Notes      string         `json:"notes,omitempty"`
	VerifiedBy string         `json:"verifiedBy,omitempty"`
	VerifiedAt *time.Time     `json:"verifiedAt,omitempty"`
}
