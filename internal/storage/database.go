package storage

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/utils"
)

// DatabaseStore is the PostgreSQL implementation of Store backed by gorm
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore wraps an open gorm connection
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (s *DatabaseStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql db")
	}
	return errors.Wrap(sqlDB.PingContext(ctx), "ping database")
}

// normalized mirrors utils.NormalizeLocation on a text column
func normalized(column string) string {
	return `regexp_replace(lower(trim(` + column + `)), '\s+', ' ', 'g')`
}

func whereContains(db *gorm.DB, column, value string) *gorm.DB {
	if utils.NormalizeLocation(value) == "" {
		return db
	}
	return db.Where(normalized(column)+" LIKE ?", utils.LikePattern(value))
}

func getErr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(entity)
	}
	return errors.Wrapf(err, "get %s", entity)
}

func createErr(err error, entity string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrConflict
	}
	return errors.Wrapf(err, "create %s", entity)
}

func affected(res *gorm.DB, op, entity string) error {
	if res.Error != nil {
		return errors.Wrapf(res.Error, "%s %s", op, entity)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(entity)
	}
	return nil
}

// User operations

func (s *DatabaseStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return createErr(err, "user")
	}
	return nil
}

func (s *DatabaseStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, getErr(err, "user")
	}
	return &user, nil
}

func (s *DatabaseStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, getErr(err, "user")
	}
	return &user, nil
}

func (s *DatabaseStore) ListUsers(ctx context.Context, filter UserFilter) ([]*models.User, error) {
	db := s.db.WithContext(ctx)
	if filter.Role != "" {
		db = db.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	var users []*models.User
	if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return users, nil
}

func (s *DatabaseStore) UpdateUser(ctx context.Context, user *models.User) error {
	return errors.Wrap(s.db.WithContext(ctx).Save(user).Error, "update user")
}

func (s *DatabaseStore) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, errors.Wrap(err, "count users")
}

// Vehicle operations

func (s *DatabaseStore) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	if err := s.db.WithContext(ctx).Create(vehicle).Error; err != nil {
		return createErr(err, "vehicle")
	}
	return nil
}

func (s *DatabaseStore) GetVehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := s.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, getErr(err, "vehicle")
	}
	return &v, nil
}

func (s *DatabaseStore) ListVehiclesByOwner(ctx context.Context, ownerID string) ([]*models.Vehicle, error) {
	var vehicles []*models.Vehicle
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&vehicles).Error
	return vehicles, errors.Wrap(err, "list vehicles")
}

func (s *DatabaseStore) UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	return errors.Wrap(s.db.WithContext(ctx).Save(vehicle).Error, "update vehicle")
}

func (s *DatabaseStore) DeleteVehicle(ctx context.Context, id string) error {
	return affected(s.db.WithContext(ctx).Delete(&models.Vehicle{}, "id = ?", id), "delete", "vehicle")
}

// Load operations

func withBids(db *gorm.DB) *gorm.DB {
	return db.Preload("Bids", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	})
}

func (s *DatabaseStore) CreateLoad(ctx context.Context, load *models.Load) error {
	if load.Status == "" {
		load.Status = models.LoadOpen
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(load).Error; err != nil {
		return createErr(err, "load")
	}
	return nil
}

func (s *DatabaseStore) GetLoad(ctx context.Context, id string) (*models.Load, error) {
	var load models.Load
	err := withBids(s.db.WithContext(ctx)).
		Preload("TrackingUpdates", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&load, "id = ?", id).Error
	if err != nil {
		return nil, getErr(err, "load")
	}
	return &load, nil
}

func (s *DatabaseStore) ListLoads(ctx context.Context, f models.LoadFilter, limit int) ([]*models.Load, error) {
	db := withBids(s.db.WithContext(ctx))
	db = whereContains(db, "origin", f.Origin)
	db = whereContains(db, "destination", f.Destination)
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.ShipperID != "" {
		db = db.Where("shipper_id = ?", f.ShipperID)
	}
	if f.CarrierID != "" {
		db = db.Where("assigned_carrier_id = ?", f.CarrierID)
	}
	if !f.VehicleType.IsAny() {
		db = db.Where("required_vehicle = ?", f.VehicleType)
	}
	if f.MinWeight > 0 {
		db = db.Where("weight >= ?", f.MinWeight)
	}
	if f.MaxWeight > 0 {
		db = db.Where("weight <= ?", f.MaxWeight)
	}
	if f.PickupFrom != nil {
		db = db.Where("pickup_date >= ?", *f.PickupFrom)
	}
	if f.PickupTo != nil {
		db = db.Where("pickup_date <= ?", *f.PickupTo)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at > ?", *f.CreatedAfter)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	var loads []*models.Load
	if err := db.Order("created_at DESC").Find(&loads).Error; err != nil {
		return nil, errors.Wrap(err, "list loads")
	}
	return loads, nil
}

// AddBid locks the load row so the open check and the one-pending-bid rule
// hold against a concurrent accept.
func (s *DatabaseStore) AddBid(ctx context.Context, bid *models.Bid) error {
	if bid.Status == "" {
		bid.Status = models.BidPending
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var load models.Load
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "status").
			Take(&load, "id = ?", bid.LoadID).Error
		if err != nil {
			return getErr(err, "load")
		}
		if load.Status != models.LoadOpen {
			return apperrors.ErrConflict
		}

		var pending int64
		err = tx.Model(&models.Bid{}).
			Where("load_id = ? AND carrier_id = ? AND status = ?", bid.LoadID, bid.CarrierID, models.BidPending).
			Count(&pending).Error
		if err != nil {
			return errors.Wrap(err, "count pending bids")
		}
		if pending > 0 {
			return apperrors.ErrConflict
		}

		if err := tx.Create(bid).Error; err != nil {
			return createErr(err, "bid")
		}
		return nil
	})
}

func (s *DatabaseStore) ListBidsByCarrier(ctx context.Context, carrierID string) ([]*models.Bid, error) {
	var bids []*models.Bid
	err := s.db.WithContext(ctx).Where("carrier_id = ?", carrierID).Order("created_at DESC").Find(&bids).Error
	return bids, errors.Wrap(err, "list bids")
}

func (s *DatabaseStore) RejectBid(ctx context.Context, loadID, bidID string) error {
	res := s.db.WithContext(ctx).Model(&models.Bid{}).
		Where("id = ? AND load_id = ? AND status = ?", bidID, loadID, models.BidPending).
		Update("status", models.BidRejected)
	if res.Error != nil {
		return errors.Wrap(res.Error, "reject bid")
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

func (s *DatabaseStore) AssignLoad(ctx context.Context, loadID string, version int, bidID, carrierID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Load{}).
			Where("id = ? AND version = ? AND status = ?", loadID, version, models.LoadOpen).
			Updates(map[string]interface{}{
				"status":              models.LoadAssigned,
				"assigned_carrier_id": carrierID,
				"accepted_bid_id":     bidID,
				"version":             gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return errors.Wrap(res.Error, "assign load")
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrConflict
		}

		res = tx.Model(&models.Bid{}).
			Where("id = ? AND load_id = ? AND status = ?", bidID, loadID, models.BidPending).
			Update("status", models.BidAccepted)
		if res.Error != nil {
			return errors.Wrap(res.Error, "accept bid")
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrConflict
		}
		return nil
	})
}

func (s *DatabaseStore) AdvanceLoad(ctx context.Context, loadID string, version int, update *models.TrackingUpdate, deliveredAt *time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changes := map[string]interface{}{
			"status":  update.Status,
			"version": gorm.Expr("version + 1"),
		}
		if deliveredAt != nil {
			changes["actual_delivery_date"] = *deliveredAt
		}
		res := tx.Model(&models.Load{}).Where("id = ? AND version = ?", loadID, version).Updates(changes)
		if res.Error != nil {
			return errors.Wrap(res.Error, "advance load")
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrConflict
		}

		update.LoadID = loadID
		if err := tx.Create(update).Error; err != nil {
			return errors.Wrap(err, "create tracking update")
		}
		return nil
	})
}

func (s *DatabaseStore) ListTrackingUpdates(ctx context.Context, loadID string) ([]*models.TrackingUpdate, error) {
	var updates []*models.TrackingUpdate
	err := s.db.WithContext(ctx).Where("load_id = ?", loadID).Order("created_at ASC").Find(&updates).Error
	return updates, errors.Wrap(err, "list tracking updates")
}

func laneScope(q models.LaneQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = whereContains(db, "origin", q.Origin)
		db = whereContains(db, "destination", q.Destination)
		if !q.VehicleType.IsAny() {
			db = db.Where("required_vehicle = ?", q.VehicleType)
		}
		return db
	}
}

func (s *DatabaseStore) ListDeliveredOnLane(ctx context.Context, q models.LaneQuery, from, to time.Time) ([]*models.Load, error) {
	var loads []*models.Load
	err := s.db.WithContext(ctx).
		Scopes(laneScope(q)).
		Where("status = ? AND offer_price IS NOT NULL", models.LoadDelivered).
		Where("actual_delivery_date > ? AND actual_delivery_date <= ?", from, to).
		Find(&loads).Error
	return loads, errors.Wrap(err, "list delivered loads")
}

func (s *DatabaseStore) CountLoadsOnLane(ctx context.Context, q models.LaneQuery, since time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Load{}).
		Scopes(laneScope(q)).
		Where("created_at >= ?", since).
		Count(&n).Error
	return n, errors.Wrap(err, "count lane loads")
}

func (s *DatabaseStore) ListRecentLanes(ctx context.Context, since time.Time) ([]models.LaneQuery, error) {
	var rows []struct {
		Origin          string
		Destination     string
		RequiredVehicle models.VehicleType
	}
	err := s.db.WithContext(ctx).Model(&models.Load{}).
		Distinct("origin", "destination", "required_vehicle").
		Where("status = ? AND actual_delivery_date > ?", models.LoadDelivered, since).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list recent lanes")
	}

	seen := make(map[models.LaneKey]bool)
	lanes := make([]models.LaneQuery, 0, len(rows))
	for _, r := range rows {
		key := models.NewLaneKey(r.Origin, r.Destination, r.RequiredVehicle)
		if seen[key] {
			continue
		}
		seen[key] = true
		lanes = append(lanes, models.LaneQuery{Origin: r.Origin, Destination: r.Destination, VehicleType: r.RequiredVehicle})
	}
	return lanes, nil
}

// Truck availability operations

func (s *DatabaseStore) CreatePosting(ctx context.Context, posting *models.TruckAvailability) error {
	if posting.Status == "" {
		posting.Status = models.TruckAvailable
	}
	if err := s.db.WithContext(ctx).Create(posting).Error; err != nil {
		return createErr(err, "truck posting")
	}
	return nil
}

func (s *DatabaseStore) GetPosting(ctx context.Context, id string) (*models.TruckAvailability, error) {
	var p models.TruckAvailability
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, getErr(err, "truck posting")
	}
	return &p, nil
}

func (s *DatabaseStore) UpdatePosting(ctx context.Context, posting *models.TruckAvailability) error {
	return errors.Wrap(s.db.WithContext(ctx).Save(posting).Error, "update truck posting")
}

func (s *DatabaseStore) DeletePosting(ctx context.Context, id string) error {
	return affected(s.db.WithContext(ctx).Delete(&models.TruckAvailability{}, "id = ?", id), "delete", "truck posting")
}

func (s *DatabaseStore) ListPostingsByCarrier(ctx context.Context, carrierID string) ([]*models.TruckAvailability, error) {
	var postings []*models.TruckAvailability
	err := s.db.WithContext(ctx).Where("carrier_id = ?", carrierID).Order("created_at DESC").Find(&postings).Error
	return postings, errors.Wrap(err, "list truck postings")
}

// SearchTrucks pushes every filter into SQL. A Near filter is pre-selected
// by geohash cell prefix and then checked exactly by distance.
func (s *DatabaseStore) SearchTrucks(ctx context.Context, f models.TruckFilter, now time.Time, limit int) ([]*models.TruckAvailability, error) {
	db := s.db.WithContext(ctx).Where("status = ? AND expires_at > ?", models.TruckAvailable, now)
	db = whereContains(db, "current_location", f.CurrentLocation)
	db = whereContains(db, "destination", f.Destination)
	if !f.EquipmentType.IsAny() {
		db = db.Where("equipment_type = ?", f.EquipmentType)
	}
	if f.AvailableDate != nil {
		db = db.Where("available_date <= ?", *f.AvailableDate)
	}
	if f.LoadType != "" && f.LoadType != models.LoadTypeAny {
		db = db.Where("load_type IN ?", []models.LoadType{f.LoadType, models.LoadTypeAny})
	}
	if f.MinWeight > 0 {
		db = db.Where("max_weight >= ?", f.MinWeight)
	}
	if f.MinLength > 0 {
		db = db.Where("max_length >= ?", f.MinLength)
	}
	if f.MaxAge > 0 {
		db = db.Where("created_at >= ?", now.Add(-time.Duration(f.MaxAge)*time.Minute))
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at > ?", *f.CreatedAfter)
	}

	near := f.Near != nil && f.Near.RadiusKm > 0
	var cells []string
	if near {
		cells = utils.SearchCells(f.Near.Lat, f.Near.Lng, f.Near.RadiusKm)
	}
	if len(cells) > 0 {
		conds := make([]string, 0, len(cells))
		args := make([]interface{}, 0, len(cells))
		for _, c := range cells {
			conds = append(conds, "geohash LIKE ?")
			args = append(args, c+"%")
		}
		db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
	} else if !near && limit > 0 {
		db = db.Limit(limit)
	}

	var postings []*models.TruckAvailability
	if err := db.Order("created_at DESC").Find(&postings).Error; err != nil {
		return nil, errors.Wrap(err, "search trucks")
	}
	if !near {
		return postings, nil
	}

	kept := postings[:0]
	for _, p := range postings {
		if f.WithinRadius(p) {
			kept = append(kept, p)
		}
	}
	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept, nil
}

func (s *DatabaseStore) BookPosting(ctx context.Context, id, bookedBy, loadID string, now time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.TruckAvailability{}).
		Where("id = ? AND status = ? AND expires_at > ?", id, models.TruckAvailable, now).
		Updates(map[string]interface{}{
			"status":         models.TruckBooked,
			"booked_by":      bookedBy,
			"booked_load_id": loadID,
			"booked_at":      now,
		})
	if res.Error != nil {
		return errors.Wrap(res.Error, "book truck posting")
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

func (s *DatabaseStore) ExpirePostings(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.TruckAvailability{}).
		Where("status = ? AND expires_at <= ?", models.TruckAvailable, now).
		Update("status", models.TruckExpired)
	return res.RowsAffected, errors.Wrap(res.Error, "expire truck postings")
}

// Lane rate operations

func (s *DatabaseStore) GetLaneRate(ctx context.Context, key models.LaneKey) (*models.LaneRate, error) {
	var r models.LaneRate
	err := s.db.WithContext(ctx).
		Where("origin_key = ? AND destination_key = ? AND vehicle_type = ?", key.OriginKey, key.DestinationKey, key.VehicleType).
		First(&r).Error
	if err != nil {
		return nil, getErr(err, "lane rate")
	}
	return &r, nil
}

// UpsertLaneRate writes the row keyed by the canonical lane triple
func (s *DatabaseStore) UpsertLaneRate(ctx context.Context, rate *models.LaneRate) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "origin_key"}, {Name: "destination_key"}, {Name: "vehicle_type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"origin", "destination", "avg_rate", "avg_rate_per_mile", "lowest_rate", "highest_rate",
			"avg_distance", "market_condition", "trend", "load_count", "sample_size", "last_updated", "updated_at",
		}),
	}).Create(rate).Error
	return errors.Wrap(err, "upsert lane rate")
}

func (s *DatabaseStore) ListLaneRates(ctx context.Context, q LaneRateQuery) ([]*models.LaneRate, error) {
	db := s.db.WithContext(ctx)
	if q.OriginKey != "" {
		db = db.Where("origin_key = ?", utils.NormalizeLocation(q.OriginKey))
	}
	if !q.VehicleType.IsAny() {
		db = db.Where("vehicle_type = ?", q.VehicleType)
	}
	if q.MinAvgRate > 0 {
		db = db.Where("avg_rate > ?", q.MinAvgRate)
	}
	if q.MarketCondition != "" {
		db = db.Where("market_condition = ?", q.MarketCondition)
	}
	if q.UpdatedSince != nil {
		db = db.Where("last_updated >= ?", *q.UpdatedSince)
	}
	if q.OrderBy == "load_count" {
		db = db.Order("load_count DESC")
	}
	db = db.Order("avg_rate DESC")
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	var rates []*models.LaneRate
	if err := db.Find(&rates).Error; err != nil {
		return nil, errors.Wrap(err, "list lane rates")
	}
	return rates, nil
}

// Review operations

func (s *DatabaseStore) CreateReview(ctx context.Context, review *models.Review) error {
	if err := s.db.WithContext(ctx).Create(review).Error; err != nil {
		return createErr(err, "review")
	}
	return nil
}

func (s *DatabaseStore) HasReview(ctx context.Context, loadID, reviewerID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("load_id = ? AND reviewer_id = ?", loadID, reviewerID).
		Count(&n).Error
	return n > 0, errors.Wrap(err, "check review")
}

func (s *DatabaseStore) ListReviewsForUser(ctx context.Context, revieweeID string) ([]*models.Review, error) {
	var reviews []*models.Review
	err := s.db.WithContext(ctx).Where("reviewee_id = ?", revieweeID).Order("created_at DESC").Find(&reviews).Error
	return reviews, errors.Wrap(err, "list reviews")
}

// Message operations

func (s *DatabaseStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(msg).Error, "create message")
}

func (s *DatabaseStore) ListConversation(ctx context.Context, a, b string) ([]*models.Message, error) {
	var msgs []*models.Message
	err := s.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, errors.Wrap(err, "list conversation")
}

func (s *DatabaseStore) ListMessagesForUser(ctx context.Context, userID string) ([]*models.Message, error) {
	var msgs []*models.Message
	err := s.db.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&msgs).Error
	return msgs, errors.Wrap(err, "list messages")
}

func (s *DatabaseStore) MarkConversationRead(ctx context.Context, recipientID, senderID string, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND read_at IS NULL", recipientID, senderID).
		Update("read_at", now)
	return res.RowsAffected, errors.Wrap(res.Error, "mark conversation read")
}

func (s *DatabaseStore) CountUnreadMessages(ctx context.Context, recipientID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Count(&n).Error
	return n, errors.Wrap(err, "count unread messages")
}

// Notification operations

func (s *DatabaseStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(n).Error, "create notification")
}

func (s *DatabaseStore) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	db := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		db = db.Where("read_at IS NULL")
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	var list []*models.Notification
	err := db.Order("created_at DESC").Find(&list).Error
	return list, errors.Wrap(err, "list notifications")
}

func (s *DatabaseStore) MarkNotificationRead(ctx context.Context, userID, id string, now time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_at", gorm.Expr("COALESCE(read_at, ?)", now))
	return affected(res, "mark read", "notification")
}

func (s *DatabaseStore) MarkAllNotificationsRead(ctx context.Context, userID string, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", now)
	return res.RowsAffected, errors.Wrap(res.Error, "mark notifications read")
}

func (s *DatabaseStore) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&n).Error
	return n, errors.Wrap(err, "count unread notifications")
}

// Document operations

func (s *DatabaseStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	if doc.Status == "" {
		doc.Status = models.DocPending
	}
	return errors.Wrap(s.db.WithContext(ctx).Create(doc).Error, "create document")
}

func (s *DatabaseStore) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	var d models.Document
	if err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, getErr(err, "document")
	}
	return &d, nil
}

func (s *DatabaseStore) ListDocumentsByOwner(ctx context.Context, ownerID string) ([]*models.Document, error) {
	var docs []*models.Document
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&docs).Error
	return docs, errors.Wrap(err, "list documents")
}

func (s *DatabaseStore) ListDocumentsByStatus(ctx context.Context, status models.DocumentStatus) ([]*models.Document, error) {
	var docs []*models.Document
	err := s.db.WithContext(ctx).Where("status = ?", status).Order("created_at DESC").Find(&docs).Error
	return docs, errors.Wrap(err, "list documents")
}

func (s *DatabaseStore) UpdateDocument(ctx context.Context, doc *models.Document) error {
	return errors.Wrap(s.db.WithContext(ctx).Save(doc).Error, "update document")
}

// Settings operations

func (s *DatabaseStore) GetSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := s.db.WithContext(ctx).First(&settings, "id = ?", models.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get settings")
	}
	return &settings, nil
}

func (s *DatabaseStore) SaveSettings(ctx context.Context, settings *models.Settings) error {
	settings.ID = models.SettingsID
	return errors.Wrap(s.db.WithContext(ctx).Save(settings).Error, "save settings")
}

// Saved search operations

func (s *DatabaseStore) CreateSavedSearch(ctx context.Context, search *models.SavedSearch) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(search).Error, "create saved search")
}

func (s *DatabaseStore) GetSavedSearch(ctx context.Context, id string) (*models.SavedSearch, error) {
	var search models.SavedSearch
	if err := s.db.WithContext(ctx).First(&search, "id = ?", id).Error; err != nil {
		return nil, getErr(err, "saved search")
	}
	return &search, nil
}

func (s *DatabaseStore) ListSavedSearches(ctx context.Context, userID string) ([]*models.SavedSearch, error) {
	var list []*models.SavedSearch
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, errors.Wrap(err, "list saved searches")
}

func (s *DatabaseStore) ListAlarmedSearches(ctx context.Context) ([]*models.SavedSearch, error) {
	var list []*models.SavedSearch
	err := s.db.WithContext(ctx).Where("alarm_enabled = ?", true).Order("created_at DESC").Find(&list).Error
	return list, errors.Wrap(err, "list alarmed searches")
}

func (s *DatabaseStore) UpdateSavedSearch(ctx context.Context, search *models.SavedSearch) error {
	return errors.Wrap(s.db.WithContext(ctx).Save(search).Error, "update saved search")
}

func (s *DatabaseStore) DeleteSavedSearch(ctx context.Context, id string) error {
	return affected(s.db.WithContext(ctx).Delete(&models.SavedSearch{}, "id = ?", id), "delete", "saved search")
}

// Stats operations

func (s *DatabaseStore) CountUsersByRole(ctx context.Context) (map[models.Role]int64, error) {
	var rows []struct {
		Role  models.Role
		Count int64
	}
	err := s.db.WithContext(ctx).Model(&models.User{}).Select("role, count(*) AS count").Group("role").Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "count users by role")
	}
	counts := make(map[models.Role]int64, len(rows))
	for _, r := range rows {
		counts[r.Role] = r.Count
	}
	return counts, nil
}

func (s *DatabaseStore) CountLoadsByStatus(ctx context.Context) (map[models.LoadStatus]int64, error) {
	var rows []struct {
		Status models.LoadStatus
		Count  int64
	}
	err := s.db.WithContext(ctx).Model(&models.Load{}).Select("status, count(*) AS count").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "count loads by status")
	}
	counts := make(map[models.LoadStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (s *DatabaseStore) CountActivePostings(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.TruckAvailability{}).
		Where("status = ? AND expires_at > ?", models.TruckAvailable, now).
		Count(&n).Error
	return n, errors.Wrap(err, "count active postings")
}

func (s *DatabaseStore) CountPendingBids(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Bid{}).Where("status = ?", models.BidPending).Count(&n).Error
	return n, errors.Wrap(err, "count pending bids")
}

func (s *DatabaseStore) ListDeliveredSince(ctx context.Context, since time.Time) ([]*models.Load, error) {
	var loads []*models.Load
	err := s.db.WithContext(ctx).
		Where("status = ? AND actual_delivery_date > ?", models.LoadDelivered, since).
		Order("actual_delivery_date DESC").
		Find(&loads).Error
	return loads, errors.Wrap(err, "list delivered loads")
}

var _ Store = (*DatabaseStore)(nil)
