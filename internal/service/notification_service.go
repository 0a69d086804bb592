package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ygyuri/foodbank-management-system/internal/dto"
	"github.com/ygyuri/foodbank-management-system/internal/permission"
	"github.com/ygyuri/foodbank-management-system/internal/repository"
	"github.com/ygyuri/foodbank-management-system/internal/workflow"
)

// NotificationService reads the in-app inbox. Rows are written by the dispatcher.
type NotificationService interface {
	ListOwn(ctx context.Context, actor workflow.Actor, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error)
	ListAll(ctx context.Context, actor workflow.Actor, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error)
	MarkRead(ctx context.Context, actor workflow.Actor, id string) (*dto.NotificationResponse, error)
	MarkAllRead(ctx context.Context, actor workflow.Actor) (int64, error)
}

type notificationService struct {
	repo   *repository.Repository
	authz  *workflow.Authorizer
	logger *zap.Logger
	now    func() time.Time
}

func NewNotificationService(repo *repository.Repository, authz *workflow.Authorizer, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, authz: authz, logger: logger, now: time.Now}
}

func (s *notificationService) list(ctx context.Context, filter repository.NotificationFilter, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	list, total, err := s.repo.Notification.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list notifications failed", zap.String("user_id", filter.UserID), zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.NotificationResponse, 0, len(list))
	for i := range list {
		out = append(out, toNotificationResponse(&list[i]))
	}
	return out, total, nil
}

func (s *notificationService) ListOwn(ctx context.Context, actor workflow.Actor, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	return s.list(ctx, repository.NotificationFilter{
		UserID:     actor.ID,
		UnreadOnly: req.UnreadOnly,
		Type:       req.Type,
	}, req)
}

func (s *notificationService) ListAll(ctx context.Context, actor workflow.Actor, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	if err := requireAnyScope(s.authz, actor, permission.ActionView, permission.SubjectNotification); err != nil {
		return nil, 0, err
	}
	return s.list(ctx, repository.NotificationFilter{UnreadOnly: req.UnreadOnly, Type: req.Type}, req)
}

func (s *notificationService) MarkRead(ctx context.Context, actor workflow.Actor, id string) (*dto.NotificationResponse, error) {
	n, err := s.repo.Notification.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		s.logger.Error("load notification failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if err := s.authz.Check(actor, permission.ActionUpdate, permission.SubjectNotification, permission.OwnerKeys{Self: n.UserID}); err != nil {
		return nil, err
	}

	// already read: keep the first timestamp
	if n.ReadAt == nil {
		at := s.now()
		if err := s.repo.Notification.MarkRead(ctx, id, at); err != nil {
			s.logger.Error("mark notification read failed", zap.String("id", id), zap.Error(err))
			return nil, err
		}
		n.ReadAt = &at
	}

	resp := toNotificationResponse(n)
	return &resp, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, actor workflow.Actor) (int64, error) {
	n, err := s.repo.Notification.MarkAllRead(ctx, actor.ID, s.now())
	if err != nil {
		s.logger.Error("mark all notifications read failed", zap.String("user_id", actor.ID), zap.Error(err))
		return 0, err
	}
	return n, nil
}
