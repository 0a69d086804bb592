package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ygyuri/foodbank-management-system/internal/model"
)

type FeedbackFilter struct {
	SenderID   string
	ReceiverID string
	// Participant matches rows where the user is sender or receiver.
	Participant string
	Type        model.FeedbackType
}

type FeedbackRepository interface {
	Create(ctx context.Context, fb *model.Feedback) error
	GetByID(ctx context.Context, id string) (*model.Feedback, error)
	Update(ctx context.Context, fb *model.Feedback) error
	List(ctx context.Context, filter FeedbackFilter, offset, limit int) ([]model.Feedback, int64, error)
	Delete(ctx context.Context, id, deletedBy string) error
}

type feedbackRepo struct {
	db *gorm.DB
}

func NewFeedbackRepo(db *gorm.DB) FeedbackRepository {
	return &feedbackRepo{db: db}
}

func (r *feedbackRepo) Create(ctx context.Context, fb *model.Feedback) error {
	return r.db.WithContext(ctx).Create(fb).Error
}

func (r *feedbackRepo) GetByID(ctx context.Context, id string) (*model.Feedback, error) {
	var fb model.Feedback
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		Where("feedback_id = ?", id).
		First(&fb).Error
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

func (r *feedbackRepo) Update(ctx context.Context, fb *model.Feedback) error {
	return r.db.WithContext(ctx).
		Model(fb).
		Where("feedback_id = ?", fb.FeedbackID).
		Updates(map[string]interface{}{
			"thank_you_note": fb.ThankYouNote,
			"rating":         fb.Rating,
			"message":        fb.Message,
			"type":           fb.Type,
			"reference":      fb.Reference,
			"updated_by":     fb.UpdatedBy,
		}).Error
}

func (r *feedbackRepo) List(ctx context.Context, filter FeedbackFilter, offset, limit int) ([]model.Feedback, int64, error) {
	var list []model.Feedback
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Feedback{})
	if filter.SenderID != "" {
		db = db.Where("sender_id = ?", filter.SenderID)
	}
	if filter.ReceiverID != "" {
		db = db.Where("receiver_id = ?", filter.ReceiverID)
	}
	if filter.Participant != "" {
		db = db.Where("sender_id = ? OR receiver_id = ?", filter.Participant, filter.Participant)
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := applyPage(db, offset, limit).
		Preload("Sender").
		Preload("Receiver").
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *feedbackRepo) Delete(ctx context.Context, id, deletedBy string) error {
	return softDelete(ctx, r.db, &model.Feedback{}, "feedback_id", id, deletedBy)
}
