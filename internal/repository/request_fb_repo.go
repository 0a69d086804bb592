package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ygyuri/foodbank-management-system/internal/model"
	pkgerrors "github.com/ygyuri/foodbank-management-system/pkg/errors"
)

type RequestFBFilter struct {
	FoodbankID  string
	RecipientID string
	Status      model.RequestFBStatus
	Type        model.DonationType
}

type RequestFBRepository interface {
	Create(ctx context.Context, req *model.RequestFB) error
	GetByID(ctx context.Context, id string) (*model.RequestFB, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*model.RequestFB, error)
	Update(ctx context.Context, req *model.RequestFB) error
	List(ctx context.Context, filter RequestFBFilter, offset, limit int) ([]model.RequestFB, int64, error)
	Delete(ctx context.Context, id, deletedBy string) error
}

type requestFBRepo struct {
	db *gorm.DB
}

func NewRequestFBRepo(db *gorm.DB) RequestFBRepository {
	return &requestFBRepo{db: db}
}

func (r *requestFBRepo) Create(ctx context.Context, req *model.RequestFB) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *requestFBRepo) GetByID(ctx context.Context, id string) (*model.RequestFB, error) {
	var req model.RequestFB
	err := r.db.WithContext(ctx).
		Preload("Foodbank").
		Preload("Recipient").
		Where("request_fb_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestFBRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.RequestFB, error) {
	var req model.RequestFB
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("request_fb_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestFBRepo) Update(ctx context.Context, req *model.RequestFB) error {
	oldVersion := req.Version
	result := r.db.WithContext(ctx).
		Model(req).
		Where("request_fb_id = ? AND version = ?", req.RequestFBID, oldVersion).
		Updates(map[string]interface{}{
			"foodbank_id":          req.FoodbankID,
			"type":                 req.Type,
			"quantity":             req.Quantity,
			"status":               req.Status,
			"description":          req.Description,
			"assigned_donation_id": req.AssignedDonationID,
			"updated_by":           req.UpdatedBy,
			"version":              oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	req.Version = oldVersion + 1
	return nil
}

func (r *requestFBRepo) List(ctx context.Context, filter RequestFBFilter, offset, limit int) ([]model.RequestFB, int64, error) {
	var reqs []model.RequestFB
	var total int64

	db := r.db.WithContext(ctx).Model(&model.RequestFB{})
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

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := applyPage(db, offset, limit).
		Preload("Foodbank").
		Preload("Recipient").
		Order("created_at DESC").
		Find(&reqs).Error; err != nil {
		return nil, 0, err
	}

	return reqs, total, nil
}

func (r *requestFBRepo) Delete(ctx context.Context, id, deletedBy string) error {
	return softDelete(ctx, r.db, &model.RequestFB{}, "request_fb_id", id, deletedBy)
}
