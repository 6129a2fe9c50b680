package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/utils"
)

// MemoryStore holds all data in memory for development and tests
type MemoryStore struct {
	users         map[string]*models.User
	vehicles      map[string]*models.Vehicle
	loads         map[string]*models.Load
	postings      map[string]*models.TruckAvailability
	laneRates     map[models.LaneKey]*models.LaneRate
	reviews       map[string]*models.Review
	messages      map[string]*models.Message
	notifications map[string]*models.Notification
	documents     map[string]*models.Document
	searches      map[string]*models.SavedSearch
	settings      *models.Settings

	// Mutexes for thread safety
	userMu    sync.RWMutex
	vehicleMu sync.RWMutex
	loadMu    sync.RWMutex
	truckMu   sync.RWMutex
	rateMu    sync.RWMutex
	socialMu  sync.RWMutex // reviews, messages, notifications
	docMu     sync.RWMutex
	searchMu  sync.RWMutex
	settingMu sync.RWMutex

	// Strictly increasing creation stamps keep newest-first ordering stable
	stampMu   sync.Mutex
	lastStamp time.Time
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[string]*models.User),
		vehicles:      make(map[string]*models.Vehicle),
		loads:         make(map[string]*models.Load),
		postings:      make(map[string]*models.TruckAvailability),
		laneRates:     make(map[models.LaneKey]*models.LaneRate),
		reviews:       make(map[string]*models.Review),
		messages:      make(map[string]*models.Message),
		notifications: make(map[string]*models.Notification),
		documents:     make(map[string]*models.Document),
		searches:      make(map[string]*models.SavedSearch),
	}
}

func (m *MemoryStore) stamp(b *models.Base) {
	m.stampMu.Lock()
	defer m.stampMu.Unlock()

	now := time.Now()
	if !now.After(m.lastStamp) {
		now = m.lastStamp.Add(time.Nanosecond)
	}
	m.lastStamp = now

	if b.ID == "" {
		b.ID = models.NewID()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

// User operations

func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return apperrors.ErrConflict
		}
	}
	m.stamp(&user.Base)
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MemoryStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, apperrors.NotFound("user")
	}
	cp := *user
	return &cp, nil
}

func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (m *MemoryStore) ListUsers(ctx context.Context, filter UserFilter) ([]*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	var users []*models.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (m *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	if _, exists := m.users[user.ID]; !exists {
		return apperrors.NotFound("user")
	}
	user.UpdatedAt = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MemoryStore) CountUsers(ctx context.Context) (int64, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()
	return int64(len(m.users)), nil
}

// Vehicle operations

func (m *MemoryStore) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	m.vehicleMu.Lock()
	defer m.vehicleMu.Unlock()

	m.stamp(&vehicle.Base)
	cp := *vehicle
	m.vehicles[vehicle.ID] = &cp
	return nil
}

func (m *MemoryStore) GetVehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	m.vehicleMu.RLock()
	defer m.vehicleMu.RUnlock()

	v, exists := m.vehicles[id]
	if !exists {
		return nil, apperrors.NotFound("vehicle")
	}
	cp := *v
	return &cp, nil
}

func (m *MemoryStore) ListVehiclesByOwner(ctx context.Context, ownerID string) ([]*models.Vehicle, error) {
	m.vehicleMu.RLock()
	defer m.vehicleMu.RUnlock()

	var vehicles []*models.Vehicle
	for _, v := range m.vehicles {
		if v.OwnerID == ownerID {
			cp := *v
			vehicles = append(vehicles, &cp)
		}
	}
	sort.Slice(vehicles, func(i, j int) bool { return vehicles[i].CreatedAt.After(vehicles[j].CreatedAt) })
	return vehicles, nil
}

func (m *MemoryStore) UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	m.vehicleMu.Lock()
	defer m.vehicleMu.Unlock()

	if _, exists := m.vehicles[vehicle.ID]; !exists {
		return apperrors.NotFound("vehicle")
	}
	vehicle.UpdatedAt = time.Now()
	cp := *vehicle
	m.vehicles[vehicle.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteVehicle(ctx context.Context, id string) error {
	m.vehicleMu.Lock()
	defer m.vehicleMu.Unlock()

	if _, exists := m.vehicles[id]; !exists {
		return apperrors.NotFound("vehicle")
	}
	delete(m.vehicles, id)
	return nil
}

// Load operations

func cloneLoad(l *models.Load) *models.Load {
	cp := *l
	cp.Bids = append([]models.Bid(nil), l.Bids...)
	cp.TrackingUpdates = append([]models.TrackingUpdate(nil), l.TrackingUpdates...)
	if l.OfferPrice != nil {
		price := *l.OfferPrice
		cp.OfferPrice = &price
	}
	return &cp
}

func (m *MemoryStore) CreateLoad(ctx context.Context, load *models.Load) error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	m.stamp(&load.Base)
	if load.Status == "" {
		load.Status = models.LoadOpen
	}
	m.loads[load.ID] = cloneLoad(load)
	return nil
}

func (m *MemoryStore) GetLoad(ctx context.Context, id string) (*models.Load, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	load, exists := m.loads[id]
	if !exists {
		return nil, apperrors.NotFound("load")
	}
	return cloneLoad(load), nil
}

func (m *MemoryStore) ListLoads(ctx context.Context, filter models.LoadFilter, limit int) ([]*models.Load, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	var loads []*models.Load
	for _, l := range m.loads {
		if filter.Matches(l) {
			loads = append(loads, cloneLoad(l))
		}
	}
	sort.Slice(loads, func(i, j int) bool { return loads[i].CreatedAt.After(loads[j].CreatedAt) })
	if limit > 0 && len(loads) > limit {
		loads = loads[:limit]
	}
	return loads, nil
}

func (m *MemoryStore) AddBid(ctx context.Context, bid *models.Bid) error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	load, exists := m.loads[bid.LoadID]
	if !exists {
		return apperrors.NotFound("load")
	}
	if load.Status != models.LoadOpen || load.PendingBidBy(bid.CarrierID) != nil {
		return apperrors.ErrConflict
	}
	m.stamp(&bid.Base)
	if bid.Status == "" {
		bid.Status = models.BidPending
	}
	load.Bids = append(load.Bids, *bid)
	return nil
}

func (m *MemoryStore) ListBidsByCarrier(ctx context.Context, carrierID string) ([]*models.Bid, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	var bids []*models.Bid
	for _, l := range m.loads {
		for _, b := range l.Bids {
			if b.CarrierID == carrierID {
				cp := b
				bids = append(bids, &cp)
			}
		}
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].CreatedAt.After(bids[j].CreatedAt) })
	return bids, nil
}

func (m *MemoryStore) RejectBid(ctx context.Context, loadID, bidID string) error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	load, exists := m.loads[loadID]
	if !exists {
		return apperrors.NotFound("load")
	}
	bid := load.FindBid(bidID)
	if bid == nil {
		return apperrors.NotFound("bid")
	}
	if bid.Status != models.BidPending {
		return apperrors.ErrConflict
	}
	bid.Status = models.BidRejected
	bid.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) AssignLoad(ctx context.Context, loadID string, version int, bidID, carrierID string) error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	load, exists := m.loads[loadID]
	if !exists {
		return apperrors.NotFound("load")
	}
	if load.Version != version || load.Status != models.LoadOpen {
		return apperrors.ErrConflict
	}
	bid := load.FindBid(bidID)
	if bid == nil {
		return apperrors.NotFound("bid")
	}
	if bid.Status != models.BidPending {
		return apperrors.ErrConflict
	}

	now := time.Now()
	bid.Status = models.BidAccepted
	bid.UpdatedAt = now
	load.Status = models.LoadAssigned
	load.AssignedCarrierID = carrierID
	load.AcceptedBidID = bidID
	load.Version++
	load.UpdatedAt = now
	return nil
}

func (m *MemoryStore) AdvanceLoad(ctx context.Context, loadID string, version int, update *models.TrackingUpdate, deliveredAt *time.Time) error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	load, exists := m.loads[loadID]
	if !exists {
		return apperrors.NotFound("load")
	}
	if load.Version != version {
		return apperrors.ErrConflict
	}

	update.LoadID = loadID
	m.stamp(&update.Base)
	load.TrackingUpdates = append(load.TrackingUpdates, *update)
	load.Status = update.Status
	if deliveredAt != nil {
		at := *deliveredAt
		load.ActualDeliveryDate = &at
	}
	load.Version++
	load.UpdatedAt = update.CreatedAt
	return nil
}

func (m *MemoryStore) ListTrackingUpdates(ctx context.Context, loadID string) ([]*models.TrackingUpdate, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	load, exists := m.loads[loadID]
	if !exists {
		return nil, apperrors.NotFound("load")
	}
	updates := make([]*models.TrackingUpdate, 0, len(load.TrackingUpdates))
	for _, u := range load.TrackingUpdates {
		cp := u
		updates = append(updates, &cp)
	}
	return updates, nil
}

func (m *MemoryStore) ListDeliveredOnLane(ctx context.Context, q models.LaneQuery, from, to time.Time) ([]*models.Load, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	var loads []*models.Load
	for _, l := range m.loads {
		if l.Status != models.LoadDelivered || l.OfferPrice == nil || l.ActualDeliveryDate == nil {
			continue
		}
		if !l.ActualDeliveryDate.After(from) || l.ActualDeliveryDate.After(to) {
			continue
		}
		if q.MatchesLoad(l) {
			loads = append(loads, cloneLoad(l))
		}
	}
	return loads, nil
}

func (m *MemoryStore) CountLoadsOnLane(ctx context.Context, q models.LaneQuery, since time.Time) (int64, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	var n int64
	for _, l := range m.loads {
		if !l.CreatedAt.Before(since) && q.MatchesLoad(l) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) ListRecentLanes(ctx context.Context, since time.Time) ([]models.LaneQuery, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	seen := make(map[models.LaneKey]bool)
	var lanes []models.LaneQuery
	for _, l := range m.loads {
		if l.Status != models.LoadDelivered || l.ActualDeliveryDate == nil || !l.ActualDeliveryDate.After(since) {
			continue
		}
		key := models.NewLaneKey(l.Origin, l.Destination, l.RequiredVehicle)
		if seen[key] {
			continue
		}
		seen[key] = true
		lanes = append(lanes, models.LaneQuery{Origin: l.Origin, Destination: l.Destination, VehicleType: l.RequiredVehicle})
	}
	return lanes, nil
}

// Truck availability operations

func clonePosting(p *models.TruckAvailability) *models.TruckAvailability {
	cp := *p
	return &cp
}

func (m *MemoryStore) CreatePosting(ctx context.Context, posting *models.TruckAvailability) error {
	m.truckMu.Lock()
	defer m.truckMu.Unlock()

	m.stamp(&posting.Base)
	if posting.Status == "" {
		posting.Status = models.TruckAvailable
	}
	m.postings[posting.ID] = clonePosting(posting)
	return nil
}

func (m *MemoryStore) GetPosting(ctx context.Context, id string) (*models.TruckAvailability, error) {
	m.truckMu.RLock()
	defer m.truckMu.RUnlock()

	p, exists := m.postings[id]
	if !exists {
		return nil, apperrors.NotFound("truck posting")
	}
	return clonePosting(p), nil
}

func (m *MemoryStore) UpdatePosting(ctx context.Context, posting *models.TruckAvailability) error {
	m.truckMu.Lock()
	defer m.truckMu.Unlock()

	if _, exists := m.postings[posting.ID]; !exists {
		return apperrors.NotFound("truck posting")
	}
	posting.UpdatedAt = time.Now()
	m.postings[posting.ID] = clonePosting(posting)
	return nil
}

func (m *MemoryStore) DeletePosting(ctx context.Context, id string) error {
	m.truckMu.Lock()
	defer m.truckMu.Unlock()

	if _, exists := m.postings[id]; !exists {
		return apperrors.NotFound("truck posting")
	}
	delete(m.postings, id)
	return nil
}

func (m *MemoryStore) ListPostingsByCarrier(ctx context.Context, carrierID string) ([]*models.TruckAvailability, error) {
	m.truckMu.RLock()
	defer m.truckMu.RUnlock()

	var postings []*models.TruckAvailability
	for _, p := range m.postings {
		if p.CarrierID == carrierID {
			postings = append(postings, clonePosting(p))
		}
	}
	sort.Slice(postings, func(i, j int) bool { return postings[i].CreatedAt.After(postings[j].CreatedAt) })
	return postings, nil
}

func (m *MemoryStore) SearchTrucks(ctx context.Context, filter models.TruckFilter, now time.Time, limit int) ([]*models.TruckAvailability, error) {
	m.truckMu.RLock()
	defer m.truckMu.RUnlock()

	var postings []*models.TruckAvailability
	for _, p := range m.postings {
		if filter.Matches(p, now) {
			postings = append(postings, clonePosting(p))
		}
	}
	sort.Slice(postings, func(i, j int) bool { return postings[i].CreatedAt.After(postings[j].CreatedAt) })
	if limit > 0 && len(postings) > limit {
		postings = postings[:limit]
	}
	return postings, nil
}

func (m *MemoryStore) BookPosting(ctx context.Context, id, bookedBy, loadID string, now time.Time) error {
	m.truckMu.Lock()
	defer m.truckMu.Unlock()

	p, exists := m.postings[id]
	if !exists {
		return apperrors.NotFound("truck posting")
	}
	if !p.IsSearchable(now) {
		return apperrors.ErrConflict
	}
	p.Status = models.TruckBooked
	p.BookedBy = bookedBy
	p.BookedLoadID = loadID
	at := now
	p.BookedAt = &at
	p.UpdatedAt = now
	return nil
}

func (m *MemoryStore) ExpirePostings(ctx context.Context, now time.Time) (int64, error) {
	m.truckMu.Lock()
	defer m.truckMu.Unlock()

	var n int64
	for _, p := range m.postings {
		if p.IsAvailable() && !p.ExpiresAt.After(now) {
			p.Status = models.TruckExpired
			p.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

// Lane rate operations

func (m *MemoryStore) GetLaneRate(ctx context.Context, key models.LaneKey) (*models.LaneRate, error) {
	m.rateMu.RLock()
	defer m.rateMu.RUnlock()

	r, exists := m.laneRates[key]
	if !exists {
		return nil, apperrors.NotFound("lane rate")
	}
	cp := *r
	return &cp, nil
}

func (m *MemoryStore) UpsertLaneRate(ctx context.Context, rate *models.LaneRate) error {
	m.rateMu.Lock()
	defer m.rateMu.Unlock()

	key := rate.Key()
	if existing, ok := m.laneRates[key]; ok {
		rate.ID = existing.ID
		rate.CreatedAt = existing.CreatedAt
	}
	m.stamp(&rate.Base)
	cp := *rate
	m.laneRates[key] = &cp
	return nil
}

func (m *MemoryStore) ListLaneRates(ctx context.Context, q LaneRateQuery) ([]*models.LaneRate, error) {
	m.rateMu.RLock()
	defer m.rateMu.RUnlock()

	var rates []*models.LaneRate
	for _, r := range m.laneRates {
		if q.OriginKey != "" && r.OriginKey != utils.NormalizeLocation(q.OriginKey) {
			continue
		}
		if !q.VehicleType.IsAny() && r.VehicleType != q.VehicleType {
			continue
		}
		if q.MinAvgRate > 0 && r.AvgRate <= q.MinAvgRate {
			continue
		}
		if q.MarketCondition != "" && r.MarketCondition != q.MarketCondition {
			continue
		}
		if q.UpdatedSince != nil && r.LastUpdated.Before(*q.UpdatedSince) {
			continue
		}
		cp := *r
		rates = append(rates, &cp)
	}

	sort.Slice(rates, func(i, j int) bool {
		if q.OrderBy == "load_count" {
			if rates[i].LoadCount != rates[j].LoadCount {
				return rates[i].LoadCount > rates[j].LoadCount
			}
		}
		return rates[i].AvgRate > rates[j].AvgRate
	})
	if q.Limit > 0 && len(rates) > q.Limit {
		rates = rates[:q.Limit]
	}
	return rates, nil
}

// Review operations

func (m *MemoryStore) CreateReview(ctx context.Context, review *models.Review) error {
	m.socialMu.Lock()
	defer m.socialMu.Unlock()

	for _, r := range m.reviews {
		if r.LoadID == review.LoadID && r.ReviewerID == review.ReviewerID {
			return apperrors.ErrConflict
		}
	}
	m.stamp(&review.Base)
	cp := *review
	m.reviews[review.ID] = &cp
	return nil
}

func (m *MemoryStore) HasReview(ctx context.Context, loadID, reviewerID string) (bool, error) {
	m.socialMu.RLock()
	defer m.socialMu.RUnlock()

	for _, r := range m.reviews {
		if r.LoadID == loadID && r.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) ListReviewsForUser(ctx context.Context, revieweeID string) ([]*models.Review, error) {
	m.socialMu.RLock()
	defer m.socialMu.RUnlock()

	var reviews []*models.Review
	for _, r := range m.reviews {
		if r.RevieweeID == revieweeID {
			cp := *r
			reviews = append(reviews, &cp)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].CreatedAt.After(reviews[j].CreatedAt) })
	return reviews, nil
}

// Message operations

func (m *MemoryStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	m.socialMu.Lock()
	defer m.socialMu.Unlock()

	m.stamp(&msg.Base)
	cp := *msg
	m.messages[msg.ID] = &cp
	return nil
}

func (m *MemoryStore) ListConversation(ctx context.Context, a, b string) ([]*models.Message, error) {
	m.socialMu.RLock()
	defer m.socialMu.RUnlock()

	var msgs []*models.Message
	for _, msg := range m.messages {
		if (msg.SenderID == a && msg.RecipientID == b) || (msg.SenderID == b && msg.RecipientID == a) {
			cp := *msg
			msgs = append(msgs, &cp)
		}
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].CreatedAt.Before(msgs[j].CreatedAt) })
	return msgs, nil
}

func (m *MemoryStore) ListMessagesForUser(ctx context.Context, userID string) ([]*models.Message, error) {
	m.socialMu.RLock()
	defer m.socialMu.RUnlock()

	var msgs []*models.Message
	for _, msg := range m.messages {
		if msg.SenderID == userID || msg.RecipientID == userID {
			cp := *msg
			msgs = append(msgs, &cp)
		}
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].CreatedAt.After(msgs[j].CreatedAt) })
	return msgs, nil
}

func (m *MemoryStore) MarkConversationRead(ctx context.Context, recipientID, senderID string, now time.Time) (int64, error) {
	m.socialMu.Lock()
	defer m.socialMu.Unlock()

	var n int64
	for _, msg := range m.messages {
		if msg.RecipientID == recipientID && msg.SenderID == senderID && msg.ReadAt == nil {
			at := now
			msg.ReadAt = &at
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) CountUnreadMessages(ctx context.Context, recipientID string) (int64, error) {
	m.socialMu.RLock()
	defer m.socialMu.RUnlock()

	var n int64
	for _, msg := range m.messages {
		if msg.RecipientID == recipientID && msg.ReadAt == nil {
			n++
		}
	}
	return n, nil
}

// Notification operations

func (m *MemoryStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	m.socialMu.Lock()
	defer m.socialMu.Unlock()

	m.stamp(&n.Base)
	cp := *n
	m.notifications[n.ID] = &cp
	return nil
}

func (m *MemoryStore) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	m.socialMu.RLock()
	defer m.socialMu.RUnlock()

	var list []*models.Notification
	for _, n := range m.notifications {
		if n.UserID != userID || (unreadOnly && n.ReadAt != nil) {
			continue
		}
		cp := *n
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *MemoryStore) MarkNotificationRead(ctx context.Context, userID, id string, now time.Time) error {
	m.socialMu.Lock()
	defer m.socialMu.Unlock()

	n, exists := m.notifications[id]
	if !exists || n.UserID != userID {
		return apperrors.NotFound("notification")
	}
	if n.ReadAt == nil {
		at := now
		n.ReadAt = &at
	}
	return nil
}

func (m *MemoryStore) MarkAllNotificationsRead(ctx context.Context, userID string, now time.Time) (int64, error) {
	m.socialMu.Lock()
	defer m.socialMu.Unlock()

	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && n.ReadAt == nil {
			at := now
			n.ReadAt = &at
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	m.socialMu.RLock()
	defer m.socialMu.RUnlock()

	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

// Document operations

func (m *MemoryStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	m.docMu.Lock()
	defer m.docMu.Unlock()

	m.stamp(&doc.Base)
	if doc.Status == "" {
		doc.Status = models.DocPending
	}
	cp := *doc
	m.documents[doc.ID] = &cp
	return nil
}

func (m *MemoryStore) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	m.docMu.RLock()
	defer m.docMu.RUnlock()

	d, exists := m.documents[id]
	if !exists {
		return nil, apperrors.NotFound("document")
	}
	cp := *d
	return &cp, nil
}

func (m *MemoryStore) ListDocumentsByOwner(ctx context.Context, ownerID string) ([]*models.Document, error) {
	return m.listDocuments(func(d *models.Document) bool { return d.OwnerID == ownerID }), nil
}

func (m *MemoryStore) ListDocumentsByStatus(ctx context.Context, status models.DocumentStatus) ([]*models.Document, error) {
	return m.listDocuments(func(d *models.Document) bool { return d.Status == status }), nil
}

func (m *MemoryStore) listDocuments(keep func(*models.Document) bool) []*models.Document {
	m.docMu.RLock()
	defer m.docMu.RUnlock()

	var docs []*models.Document
	for _, d := range m.documents {
		if keep(d) {
			cp := *d
			docs = append(docs, &cp)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.After(docs[j].CreatedAt) })
	return docs
}

func (m *MemoryStore) UpdateDocument(ctx context.Context, doc *models.Document) error {
	m.docMu.Lock()
	defer m.docMu.Unlock()

	if _, exists := m.documents[doc.ID]; !exists {
		return apperrors.NotFound("document")
	}
	doc.UpdatedAt = time.Now()
	cp := *doc
	m.documents[doc.ID] = &cp
	return nil
}

// Settings operations

func (m *MemoryStore) GetSettings(ctx context.Context) (*models.Settings, error) {
	m.settingMu.RLock()
	defer m.settingMu.RUnlock()

	if m.settings == nil {
		return models.DefaultSettings(), nil
	}
	cp := *m.settings
	return &cp, nil
}

func (m *MemoryStore) SaveSettings(ctx context.Context, s *models.Settings) error {
	m.settingMu.Lock()
	defer m.settingMu.Unlock()

	s.ID = models.SettingsID
	s.UpdatedAt = time.Now()
	cp := *s
	m.settings = &cp
	return nil
}

// Saved search operations

func cloneSearch(s *models.SavedSearch) *models.SavedSearch {
	cp := *s
	if s.TruckFilter != nil {
		f := *s.TruckFilter
		cp.TruckFilter = &f
	}
	if s.LoadFilter != nil {
		f := *s.LoadFilter
		cp.LoadFilter = &f
	}
	return &cp
}

func (m *MemoryStore) CreateSavedSearch(ctx context.Context, s *models.SavedSearch) error {
	m.searchMu.Lock()
	defer m.searchMu.Unlock()

	m.stamp(&s.Base)
	m.searches[s.ID] = cloneSearch(s)
	return nil
}

func (m *MemoryStore) GetSavedSearch(ctx context.Context, id string) (*models.SavedSearch, error) {
	m.searchMu.RLock()
	defer m.searchMu.RUnlock()

	s, exists := m.searches[id]
	if !exists {
		return nil, apperrors.NotFound("saved search")
	}
	return cloneSearch(s), nil
}

func (m *MemoryStore) ListSavedSearches(ctx context.Context, userID string) ([]*models.SavedSearch, error) {
	return m.listSearches(func(s *models.SavedSearch) bool { return s.UserID == userID }), nil
}

func (m *MemoryStore) ListAlarmedSearches(ctx context.Context) ([]*models.SavedSearch, error) {
	return m.listSearches(func(s *models.SavedSearch) bool { return s.AlarmEnabled }), nil
}

func (m *MemoryStore) listSearches(keep func(*models.SavedSearch) bool) []*models.SavedSearch {
	m.searchMu.RLock()
	defer m.searchMu.RUnlock()

	var list []*models.SavedSearch
	for _, s := range m.searches {
		if keep(s) {
			list = append(list, cloneSearch(s))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

func (m *MemoryStore) UpdateSavedSearch(ctx context.Context, s *models.SavedSearch) error {
	m.searchMu.Lock()
	defer m.searchMu.Unlock()

	if _, exists := m.searches[s.ID]; !exists {
		return apperrors.NotFound("saved search")
	}
	s.UpdatedAt = time.Now()
	m.searches[s.ID] = cloneSearch(s)
	return nil
}

func (m *MemoryStore) DeleteSavedSearch(ctx context.Context, id string) error {
	m.searchMu.Lock()
	defer m.searchMu.Unlock()

	if _, exists := m.searches[id]; !exists {
		return apperrors.NotFound("saved search")
	}
	delete(m.searches, id)
	return nil
}

// Stats operations

func (m *MemoryStore) CountUsersByRole(ctx context.Context) (map[models.Role]int64, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	counts := make(map[models.Role]int64)
	for _, u := range m.users {
		counts[u.Role]++
	}
	return counts, nil
}

func (m *MemoryStore) CountLoadsByStatus(ctx context.Context) (map[models.LoadStatus]int64, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	counts := make(map[models.LoadStatus]int64)
	for _, l := range m.loads {
		counts[l.Status]++
	}
	return counts, nil
}

func (m *MemoryStore) CountActivePostings(ctx context.Context, now time.Time) (int64, error) {
	m.truckMu.RLock()
	defer m.truckMu.RUnlock()

	var n int64
	for _, p := range m.postings {
		if p.IsSearchable(now) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) CountPendingBids(ctx context.Context) (int64, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	var n int64
	for _, l := range m.loads {
		n += int64(l.CountPendingBids())
	}
	return n, nil
}

func (m *MemoryStore) ListDeliveredSince(ctx context.Context, since time.Time) ([]*models.Load, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	var loads []*models.Load
	for _, l := range m.loads {
		if l.Status == models.LoadDelivered && l.ActualDeliveryDate != nil && l.ActualDeliveryDate.After(since) {
			loads = append(loads, cloneLoad(l))
		}
	}
	sort.Slice(loads, func(i, j int) bool { return loads[i].ActualDeliveryDate.After(*loads[j].ActualDeliveryDate) })
	return loads, nil
}

var _ Store = (*MemoryStore)(nil)
