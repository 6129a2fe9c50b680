package services

import (
	"context"
	"time"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/events"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/storage"
)

type DocumentInput struct {
	Type      models.DocumentType
	URL       string
	LoadID    string
	VehicleID string
	Notes     string
}

// DocumentService stores document metadata and the verification decision
type DocumentService struct {
	store    storage.Store
	notifier *Notifier
	now      func() time.Time
}

func NewDocumentService(store storage.Store, notifier *Notifier) *DocumentService {
	return &DocumentService{store: store, notifier: notifier, now: time.Now}
}

func (s *DocumentService) Create(ctx context.Context, owner *models.User, in DocumentInput) (*models.Document, error) {
	if !in.Type.Valid() {
		return nil, apperrors.Invalid("type", "unknown document type")
	}
	if in.LoadID != "" {
		load, err := s.store.GetLoad(ctx, in.LoadID)
		if err != nil {
			return nil, err
		}
		if load.ShipperID != owner.ID && load.AssignedCarrierID != owner.ID {
			return nil, apperrors.Forbidden("documents can only be attached to your own loads")
		}
	}
	if in.VehicleID != "" {
		v, err := s.store.GetVehicle(ctx, in.VehicleID)
		if err != nil {
			return nil, err
		}
		if v.OwnerID != owner.ID {
			return nil, apperrors.Forbidden("vehicle belongs to another carrier")
		}
	}

	doc := &models.Document{
		OwnerID:   owner.ID,
		Type:      in.Type,
		URL:       in.URL,
		LoadID:    in.LoadID,
		VehicleID: in.VehicleID,
		Notes:     in.Notes,
		Status:    models.DocPending,
	}
	if err := s.store.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) ListMine(ctx context.Context, owner *models.User) ([]*models.Document, error) {
	return s.store.ListDocumentsByOwner(ctx, owner.ID)
}

func (s *DocumentService) ListByStatus(ctx context.Context, status models.DocumentStatus) ([]*models.Document, error) {
	if status == "" {
		status = models.DocPending
	}
	return s.store.ListDocumentsByStatus(ctx, status)
}

// Verify records an admin decision on a pending document
func (s *DocumentService) Verify(ctx context.Context, admin *models.User, id string, status models.DocumentStatus, notes string) (*models.Document, error) {
	if status != models.DocVerified && status != models.DocRejected {
		return nil, apperrors.Invalid("status", "must be verified or rejected")
	}
	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.DocPending {
		return nil, apperrors.Domain("document is already %s", doc.Status)
	}

	now := s.now()
	doc.Status = status
	doc.VerifiedBy = admin.ID
	doc.VerifiedAt = &now
	if notes != "" {
		doc.Notes = notes
	}
	if err := s.store.UpdateDocument(ctx, doc); err != nil {
		return nil, err
	}

	event := events.Event{
		Type:    models.NotifyDocumentVerified,
		UserID:  doc.OwnerID,
		ActorID: admin.ID,
		Title:   "Document verified",
		Data:    map[string]string{"documentId": doc.ID, "documentType": string(doc.Type)},
	}
	if status == models.DocRejected {
		event.Type = models.NotifyDocumentRejected
		event.Title = "Document rejected"
		event.Body = notes
	}
	s.notifier.Notify(ctx, event)
	return doc, nil
}
