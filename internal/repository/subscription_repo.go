package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ygyuri/foodbank-management-system/internal/model"
)

type SubscriptionFilter struct {
	FoodbankID string
	Status     model.SubscriptionStatus
}

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *model.Subscription) error
	GetByID(ctx context.Context, id string) (*model.Subscription, error)
	Update(ctx context.Context, sub *model.Subscription) error
	List(ctx context.Context, filter SubscriptionFilter, offset, limit int) ([]model.Subscription, int64, error)
	Delete(ctx context.Context, id, deletedBy string) error
	// ExpireDue moves trials past trial_ends_at and active plans past
	// subscription_ends_at to expired. Returns the number of rows changed.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

type subscriptionRepo struct {
	db *gorm.DB
}

func NewSubscriptionRepo(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) Create(ctx context.Context, sub *model.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepo) GetByID(ctx context.Context, id string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).
		Preload("Foodbank").
		Where("subscription_id = ?", id).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepo) Update(ctx context.Context, sub *model.Subscription) error {
	return r.db.WithContext(ctx).
		Model(sub).
		Where("subscription_id = ?", sub.SubscriptionID).
		Updates(map[string]interface{}{
			"status":               sub.Status,
			"trial_ends_at":        sub.TrialEndsAt,
			"subscription_ends_at": sub.SubscriptionEndsAt,
			"monthly_fee":          sub.MonthlyFee,
			"updated_by":           sub.UpdatedBy,
		}).Error
}

func (r *subscriptionRepo) List(ctx context.Context, filter SubscriptionFilter, offset, limit int) ([]model.Subscription, int64, error) {
	var subs []model.Subscription
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Subscription{})
	if filter.FoodbankID != "" {
		db = db.Where("foodbank_id = ?", filter.FoodbankID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := applyPage(db, offset, limit).
		Preload("Foodbank").
		Order("created_at DESC").
		Find(&subs).Error; err != nil {
		return nil, 0, err
	}

	return subs, total, nil
}

func (r *subscriptionRepo) Delete(ctx context.Context, id, deletedBy string) error {
	return softDelete(ctx, r.db, &model.Subscription{}, "subscription_id", id, deletedBy)
}

func (r *subscriptionRepo) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("(status = ? AND trial_ends_at < ?) OR (status = ? AND subscription_ends_at < ?)",
			model.SubscriptionTrial, now, model.SubscriptionActive, now).
		Updates(map[string]interface{}{
			"status":     model.SubscriptionExpired,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}
