package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every table repository over one connection.
type Repository struct {
	db *gorm.DB

	User            UserRepository
	Donation        DonationRepository
	DonationRequest DonationRequestRepository
	RequestFB       RequestFBRepository
	Feedback        FeedbackRepository
	Subscription    SubscriptionRepository
	Notification    NotificationRepository
	Report          ReportRepository
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:              db,
		User:            NewUserRepo(db),
		Donation:        NewDonationRepo(db),
		DonationRequest: NewDonationRequestRepo(db),
		RequestFB:       NewRequestFBRepo(db),
		Feedback:        NewFeedbackRepo(db),
		Subscription:    NewSubscriptionRepo(db),
		Notification:    NewNotificationRepo(db),
		Report:          NewReportRepo(db),
	}
}

// BeginTx starts a transaction. Returns nil, nil on a Repository assembled
// without a connection (unit tests with mock repositories).
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx returns a Repository bound to tx. A nil tx returns the receiver.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// applyPage limit <= 0 means no limit.
func applyPage(db *gorm.DB, offset, limit int) *gorm.DB {
	if offset > 0 {
		db = db.Offset(offset)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	return db
}

// softDelete stamps deleted_at and deleted_by in one statement.
func softDelete(ctx context.Context, db *gorm.DB, m interface{}, pk, id, deletedBy string) error {
	result := db.WithContext(ctx).
		Model(m).
		Where(pk+" = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
