package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ygyuri/foodbank-management-system/internal/model"
	pkgerrors "github.com/ygyuri/foodbank-management-system/pkg/errors"
)

// DonationFilter zero values are ignored.
type DonationFilter struct {
	DonorID     string
	FoodbankID  string
	RecipientID string
	Status      model.DonationStatus
	Type        model.DonationType
	From        *time.Time
	To          *time.Time
}

type DonationRepository interface {
	Create(ctx context.Context, donation *model.Donation) error
	GetByID(ctx context.Context, id string) (*model.Donation, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*model.Donation, error)
	Update(ctx context.Context, donation *model.Donation) error
	List(ctx context.Context, filter DonationFilter, offset, limit int) ([]model.Donation, int64, error)
	Delete(ctx context.Context, id, deletedBy string) error
}

type donationRepo struct {
	db *gorm.DB
}

func NewDonationRepo(db *gorm.DB) DonationRepository {
	return &donationRepo{db: db}
}

func (r *donationRepo) Create(ctx context.Context, donation *model.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *donationRepo) GetByID(ctx context.Context, id string) (*model.Donation, error) {
	var donation model.Donation
	err := r.db.WithContext(ctx).
		Preload("Donor").
		Preload("Foodbank").
		Preload("Recipient").
		Where("donation_id = ?", id).
		First(&donation).Error
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Donation, error) {
	var donation model.Donation
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("donation_id = ?", id).
		First(&donation).Error
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepo) Update(ctx context.Context, donation *model.Donation) error {
	oldVersion := donation.Version
	result := r.db.WithContext(ctx).
		Model(donation).
		Where("donation_id = ? AND version = ?", donation.DonationID, oldVersion).
		Updates(map[string]interface{}{
			"foodbank_id":         donation.FoodbankID,
			"recipient_id":        donation.RecipientID,
			"assigned_request_id": donation.AssignedRequestID,
			"type":                donation.Type,
			"quantity":            donation.Quantity,
			"status":              donation.Status,
			"description":         donation.Description,
			"updated_by":          donation.UpdatedBy,
			"version":             oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	donation.Version = oldVersion + 1
	return nil
}

func (r *donationRepo) List(ctx context.Context, filter DonationFilter, offset, limit int) ([]model.Donation, int64, error) {
	var donations []model.Donation
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Donation{})
	if filter.DonorID != "" {
		db = db.Where("donor_id = ?", filter.DonorID)
	}
	if filter.FoodbankID != "" {
		db = db.Where("foodbank_id = ?", filter.FoodbankID)
	}
	if filter.RecipientID != "" {
		db = db.Where("recipient_id = ?", filter.RecipientID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}
	if filter.From != nil {
		db = db.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("created_at < ?", *filter.To)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := applyPage(db, offset, limit).
		Preload("Donor").
		Preload("Foodbank").
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return nil, 0, err
	}

	return donations, total, nil
}

func (r *donationRepo) Delete(ctx context.Context, id, deletedBy string) error {
	return softDelete(ctx, r.db, &model.Donation{}, "donation_id", id, deletedBy)
}
