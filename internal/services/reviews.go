package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/events"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/storage"
)

// ReviewService lets the two parties of a delivered load rate each other
type ReviewService struct {
	store    storage.Store
	notifier *Notifier
}

func NewReviewService(store storage.Store, notifier *Notifier) *ReviewService {
	return &ReviewService{store: store, notifier: notifier}
}

func (s *ReviewService) Create(ctx context.Context, reviewer *models.User, loadID string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.Invalid("rating", "must be between 1 and 5")
	}
	load, err := s.store.GetLoad(ctx, loadID)
	if err != nil {
		return nil, err
	}
	if load.Status != models.LoadDelivered {
		return nil, apperrors.Domain("only delivered loads can be reviewed")
	}

	var revieweeID string
	switch reviewer.ID {
	case load.ShipperID:
		revieweeID = load.AssignedCarrierID
	case load.AssignedCarrierID:
		revieweeID = load.ShipperID
	default:
		return nil, apperrors.Forbidden("only the shipper and carrier of a load can review it")
	}

	exists, err := s.store.HasReview(ctx, load.ID, reviewer.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Domain("you have already reviewed this load")
	}

	review := &models.Review{
		LoadID:     load.ID,
		ReviewerID: reviewer.ID,
		RevieweeID: revieweeID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.Domain("you have already reviewed this load")
		}
		return nil, err
	}

	reviewee, err := s.store.GetUser(ctx, revieweeID)
	if err != nil {
		return nil, err
	}
	reviewee.ApplyRating(float64(rating))
	if err := s.store.UpdateUser(ctx, reviewee); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, events.Event{
		Type:    models.NotifyReviewReceived,
		UserID:  revieweeID,
		ActorID: reviewer.ID,
		Title:   "New review",
		Body:    fmt.Sprintf("%s rated you %d/5", reviewer.Name, rating),
		Data:    loadEventData(load, map[string]string{"reviewId": review.ID}),
	})
	return review, nil
}

func (s *ReviewService) ListForUser(ctx context.Context, userID string) ([]*models.Review, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListReviewsForUser(ctx, userID)
}
