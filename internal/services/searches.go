package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/events"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/storage"
)

type SavedSearchInput struct {
	Name         string
	Kind         models.SearchKind
	TruckFilter  *models.TruckFilter
	LoadFilter   *models.LoadFilter
	AlarmEnabled bool
}

// SearchRun is the outcome of executing a saved search
type SearchRun struct {
	Search *models.SavedSearch         `json:"search"`
	Loads  []*models.Load              `json:"loads,omitempty"`
	Trucks []*models.TruckAvailability `json:"trucks,omitempty"`
	Count  int                         `json:"count"`
}

// SavedSearchService stores filters and re-runs them on demand or on alarm
type SavedSearchService struct {
	store    storage.Store
	notifier *Notifier
	logger   *logrus.Logger
	now      func() time.Time
}

func NewSavedSearchService(store storage.Store, notifier *Notifier, logger *logrus.Logger) *SavedSearchService {
	return &SavedSearchService{store: store, notifier: notifier, logger: logger, now: time.Now}
}

func validateSearch(in SavedSearchInput) error {
	switch in.Kind {
	case models.SearchLoads:
		if in.LoadFilter == nil {
			return apperrors.Invalid("loadFilter", "is required for load searches")
		}
	case models.SearchTrucks:
		if in.TruckFilter == nil {
			return apperrors.Invalid("truckFilter", "is required for truck searches")
		}
	default:
		return apperrors.Invalid("kind", "must be loads or trucks")
	}
	return nil
}

func (s *SavedSearchService) Create(ctx context.Context, user *models.User, in SavedSearchInput) (*models.SavedSearch, error) {
	if err := validateSearch(in); err != nil {
		return nil, err
	}
	search := &models.SavedSearch{
		UserID:       user.ID,
		Name:         in.Name,
		Kind:         in.Kind,
		AlarmEnabled: in.AlarmEnabled,
	}
	setFilter(search, in)
	if in.AlarmEnabled {
		now := s.now()
		search.LastRunAt = &now
	}
	if err := s.store.CreateSavedSearch(ctx, search); err != nil {
		return nil, err
	}
	return search, nil
}

func setFilter(search *models.SavedSearch, in SavedSearchInput) {
	search.LoadFilter, search.TruckFilter = nil, nil
	if in.Kind == models.SearchLoads {
		search.LoadFilter = in.LoadFilter
	} else {
		search.TruckFilter = in.TruckFilter
	}
}

func (s *SavedSearchService) List(ctx context.Context, user *models.User) ([]*models.SavedSearch, error) {
	return s.store.ListSavedSearches(ctx, user.ID)
}

func (s *SavedSearchService) Get(ctx context.Context, user *models.User, id string) (*models.SavedSearch, error) {
	search, err := s.store.GetSavedSearch(ctx, id)
	if err != nil {
		return nil, err
	}
	if search.UserID != user.ID {
		return nil, apperrors.NotFound("saved search")
	}
	return search, nil
}

func (s *SavedSearchService) Update(ctx context.Context, user *models.User, id string, in SavedSearchInput) (*models.SavedSearch, error) {
	search, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if err := validateSearch(in); err != nil {
		return nil, err
	}
	search.Name = in.Name
	search.Kind = in.Kind
	setFilter(search, in)
	if err := s.store.UpdateSavedSearch(ctx, search); err != nil {
		return nil, err
	}
	return search, nil
}

func (s *SavedSearchService) Delete(ctx context.Context, user *models.User, id string) error {
	if _, err := s.Get(ctx, user, id); err != nil {
		return err
	}
	return s.store.DeleteSavedSearch(ctx, id)
}

// ToggleAlarm enables or disables the alarm. Enabling resets the baseline so
// only results created afterwards trigger a notification.
func (s *SavedSearchService) ToggleAlarm(ctx context.Context, user *models.User, id string, enabled bool) (*models.SavedSearch, error) {
	search, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if enabled && !search.AlarmEnabled {
		now := s.now()
		search.LastRunAt = &now
	}
	search.AlarmEnabled = enabled
	if err := s.store.UpdateSavedSearch(ctx, search); err != nil {
		return nil, err
	}
	return search, nil
}

// Run executes the search now and records the result count
func (s *SavedSearchService) Run(ctx context.Context, user *models.User, id string) (*SearchRun, error) {
	search, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	run, err := s.execute(ctx, search, nil, now)
	if err != nil {
		return nil, err
	}
	search.LastResultCount = run.Count
	if !search.AlarmEnabled {
		search.LastRunAt = &now
	}
	if err := s.store.UpdateSavedSearch(ctx, search); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *SavedSearchService) execute(ctx context.Context, search *models.SavedSearch, after *time.Time, now time.Time) (*SearchRun, error) {
	run := &SearchRun{Search: search}
	switch search.Kind {
	case models.SearchLoads:
		var filter models.LoadFilter
		if search.LoadFilter != nil {
			filter = *search.LoadFilter
		}
		if filter.Status == "" {
			filter.Status = models.LoadOpen
		}
		filter.CreatedAfter = after
		loads, err := s.store.ListLoads(ctx, filter, DefaultListLimit)
		if err != nil {
			return nil, err
		}
		run.Loads, run.Count = loads, len(loads)
	case models.SearchTrucks:
		var filter models.TruckFilter
		if search.TruckFilter != nil {
			filter = *search.TruckFilter
		}
		filter.CreatedAfter = after
		trucks, err := s.store.SearchTrucks(ctx, filter, now, DefaultListLimit)
		if err != nil {
			return nil, err
		}
		run.Trucks, run.Count = trucks, len(trucks)
	default:
		return nil, apperrors.Domain("unknown search kind %q", search.Kind)
	}
	return run, nil
}

// RunAlarms re-runs every alarmed search for results created since its last
// run and notifies the owner when there are any. It returns the number of
// notifications sent.
func (s *SavedSearchService) RunAlarms(ctx context.Context) (int, error) {
	searches, err := s.store.ListAlarmedSearches(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, search := range searches {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		now := s.now()
		if search.LastRunAt == nil {
			search.LastRunAt = &now
			if err := s.store.UpdateSavedSearch(ctx, search); err != nil {
				s.logger.WithError(err).WithField("search_id", search.ID).Warn("failed to set alarm baseline")
			}
			continue
		}

		run, err := s.execute(ctx, search, search.LastRunAt, now)
		if err != nil {
			s.logger.WithError(err).WithField("search_id", search.ID).Warn("saved search alarm failed")
			continue
		}

		search.LastRunAt = &now
		search.LastResultCount = run.Count
		if err := s.store.UpdateSavedSearch(ctx, search); err != nil {
			s.logger.WithError(err).WithField("search_id", search.ID).Warn("failed to record alarm run")
			continue
		}
		if run.Count == 0 {
			continue
		}

		s.notifier.Notify(ctx, events.Event{
			Type:   models.NotifySearchAlarm,
			UserID: search.UserID,
			Title:  "New results for " + search.Name,
			Body:   fmt.Sprintf("%d new %s match your saved search", run.Count, search.Kind),
			Data: map[string]string{
				"searchId": search.ID,
				"name":     search.Name,
				"count":    fmt.Sprint(run.Count),
			},
		})
		sent++
	}
	return sent, nil
}
