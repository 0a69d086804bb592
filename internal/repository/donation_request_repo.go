package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ygyuri/foodbank-management-system/internal/model"
	pkgerrors "github.com/ygyuri/foodbank-management-system/pkg/errors"
)

type DonationRequestFilter struct {
	FoodbankID string
	DonorID    string
	Status     model.DonationRequestStatus
	Type       model.DonationType
	SortBy     string // created_at | quantity
	SortDesc   bool
}

type DonationRequestRepository interface {
	Create(ctx context.Context, req *model.DonationRequest) error
	GetByID(ctx context.Context, id string) (*model.DonationRequest, error)
	Update(ctx context.Context, req *model.DonationRequest) error
	List(ctx context.Context, filter DonationRequestFilter, offset, limit int) ([]model.DonationRequest, int64, error)
	Delete(ctx context.Context, id, deletedBy string) error
}

type donationRequestRepo struct {
	db *gorm.DB
}

func NewDonationRequestRepo(db *gorm.DB) DonationRequestRepository {
	return &donationRequestRepo{db: db}
}

func (r *donationRequestRepo) Create(ctx context.Context, req *model.DonationRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *donationRequestRepo) GetByID(ctx context.Context, id string) (*model.DonationRequest, error) {
	var req model.DonationRequest
	err := r.db.WithContext(ctx).
		Preload("Foodbank").
		Preload("Donor").
		Where("donation_request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *donationRequestRepo) Update(ctx context.Context, req *model.DonationRequest) error {
	oldVersion := req.Version
	result := r.db.WithContext(ctx).
		Model(req).
		Where("donation_request_id = ? AND version = ?", req.DonationRequestID, oldVersion).
		Updates(map[string]interface{}{
			"donor_id":    req.DonorID,
			"type":        req.Type,
			"quantity":    req.Quantity,
			"status":      req.Status,
			"description": req.Description,
			"approved_by": req.ApprovedBy,
			"approved_at": req.ApprovedAt,
			"updated_by":  req.UpdatedBy,
			"version":     oldVersion + 1,
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

func (r *donationRequestRepo) List(ctx context.Context, filter DonationRequestFilter, offset, limit int) ([]model.DonationRequest, int64, error) {
	var reqs []model.DonationRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.DonationRequest{})
	if filter.FoodbankID != "" {
		db = db.Where("foodbank_id = ?", filter.FoodbankID)
	}
	if filter.DonorID != "" {
		db = db.Where("donor_id = ?", filter.DonorID)
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

	order := "created_at"
	if filter.SortBy == "quantity" {
		order = "quantity"
	}
	if filter.SortDesc || filter.SortBy == "" {
		order += " DESC"
	}

	if err := applyPage(db, offset, limit).
		Preload("Foodbank").
		Preload("Donor").
		Order(order).
		Find(&reqs).Error; err != nil {
		return nil, 0, err
	}

	return reqs, total, nil
}

func (r *donationRequestRepo) Delete(ctx context.Context, id, deletedBy string) error {
	return softDelete(ctx, r.db, &model.DonationRequest{}, "donation_request_id", id, deletedBy)
}
