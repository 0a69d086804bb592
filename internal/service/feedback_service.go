package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ygyuri/foodbank-management-system/internal/dto"
	"github.com/ygyuri/foodbank-management-system/internal/model"
	"github.com/ygyuri/foodbank-management-system/internal/notify"
	"github.com/ygyuri/foodbank-management-system/internal/permission"
	"github.com/ygyuri/foodbank-management-system/internal/repository"
	"github.com/ygyuri/foodbank-management-system/internal/workflow"
)

// FeedbackService thank-you notes and ratings between users.
type FeedbackService interface {
	Create(ctx context.Context, actor workflow.Actor, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, error)
	GetByID(ctx context.Context, actor workflow.Actor, id string) (*dto.FeedbackResponse, error)
	List(ctx context.Context, actor workflow.Actor, req *dto.FeedbackListRequest) ([]dto.FeedbackResponse, int64, error)
	Update(ctx context.Context, actor workflow.Actor, id string, req *dto.UpdateFeedbackRequest) (*dto.FeedbackResponse, error)
	Delete(ctx context.Context, actor workflow.Actor, id string) error
}

type feedbackService struct {
	repo     *repository.Repository
	authz    *workflow.Authorizer
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewFeedbackService(
	repo *repository.Repository,
	authz *workflow.Authorizer,
	notifier notify.Notifier,
	logger *zap.Logger,
) FeedbackService {
	return &feedbackService{repo: repo, authz: authz, notifier: notifier, logger: logger}
}

// readers: sender and receiver both see the note; only the sender edits it.
func feedbackReaders(f *model.Feedback, actor workflow.Actor) permission.OwnerKeys {
	if actor.ID == f.ReceiverID {
		return permission.OwnerKeys{Self: f.ReceiverID}
	}
	return permission.OwnerKeys{Self: f.SenderID}
}

func (s *feedbackService) load(ctx context.Context, id string) (*model.Feedback, error) {
	f, err := s.repo.Feedback.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		s.logger.Error("load feedback failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return f, nil
}

func (s *feedbackService) Create(ctx context.Context, actor workflow.Actor, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, error) {
	if err := s.authz.Check(actor, permission.ActionCreate, permission.SubjectFeedback, permission.OwnerKeys{}); err != nil {
		return nil, err
	}
	if req.ReceiverID == actor.ID {
		return nil, ErrFeedbackToSelf
	}

	receiver, err := s.repo.User.GetByID(ctx, req.ReceiverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("load receiver failed", zap.String("receiver_id", req.ReceiverID), zap.Error(err))
		return nil, err
	}

	f := &model.Feedback{
		SenderID:     actor.ID,
		ReceiverID:   receiver.UserID,
		ThankYouNote: req.ThankYouNote,
		Rating:       req.Rating,
		Message:      req.Message,
		Type:         model.FeedbackType(req.Type),
		Reference:    req.Reference,
		Receiver:     receiver,
	}
	f.CreatedBy = strPtr(actor.ID)

	if err := s.repo.Feedback.Create(ctx, f); err != nil {
		s.logger.Error("create feedback failed", zap.Error(err))
		return nil, err
	}

	s.notifier.Dispatch(ctx, notify.FeedbackReceived(f))

	resp := toFeedbackResponse(f)
	return &resp, nil
}

func (s *feedbackService) GetByID(ctx context.Context, actor workflow.Actor, id string) (*dto.FeedbackResponse, error) {
	f, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Check(actor, permission.ActionView, permission.SubjectFeedback, feedbackReaders(f, actor)); err != nil {
		return nil, err
	}
	resp := toFeedbackResponse(f)
	return &resp, nil
}

// List admins see everything, everyone else the notes they sent or received.
func (s *feedbackService) List(ctx context.Context, actor workflow.Actor, req *dto.FeedbackListRequest) ([]dto.FeedbackResponse, int64, error) {
	filter := repository.FeedbackFilter{Type: model.FeedbackType(req.Type)}
	if !isAdmin(actor) {
		filter.Participant = actor.ID
	}

	list, total, err := s.repo.Feedback.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list feedback failed", zap.Error(err))
		return nil, 0, err
	}

	out := make([]dto.FeedbackResponse, 0, len(list))
	for i := range list {
		out = append(out, toFeedbackResponse(&list[i]))
	}
	return out, total, nil
}

func (s *feedbackService) Update(ctx context.Context, actor workflow.Actor, id string, req *dto.UpdateFeedbackRequest) (*dto.FeedbackResponse, error) {
	f, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Check(actor, permission.ActionUpdate, permission.SubjectFeedback, permission.OwnerKeys{Self: f.SenderID}); err != nil {
		return nil, err
	}

	applyString(&f.ThankYouNote, req.ThankYouNote)
	applyString(&f.Message, req.Message)
	applyString(&f.Reference, req.Reference)
	if req.Rating != nil {
		f.Rating = *req.Rating
	}
	f.UpdatedBy = strPtr(actor.ID)

	if err := s.repo.Feedback.Update(ctx, f); err != nil {
		s.logger.Error("update feedback failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toFeedbackResponse(f)
	return &resp, nil
}

func (s *feedbackService) Delete(ctx context.Context, actor workflow.Actor, id string) error {
	f, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.Check(actor, permission.ActionDelete, permission.SubjectFeedback, permission.OwnerKeys{Self: f.SenderID}); err != nil {
		return err
	}

	if err := s.repo.Feedback.Delete(ctx, id, actor.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFeedbackNotFound
		}
		s.logger.Error("delete feedback failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}
