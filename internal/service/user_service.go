package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ygyuri/foodbank-management-system/internal/dto"
	"github.com/ygyuri/foodbank-management-system/internal/model"
	"github.com/ygyuri/foodbank-management-system/internal/notify"
	"github.com/ygyuri/foodbank-management-system/internal/permission"
	"github.com/ygyuri/foodbank-management-system/internal/repository"
	"github.com/ygyuri/foodbank-management-system/internal/workflow"
)

type UserService interface {
	GetByID(ctx context.Context, actor workflow.Actor, id string) (*dto.UserResponse, error)
	List(ctx context.Context, actor workflow.Actor, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, actor workflow.Actor, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, actor workflow.Actor, id string) error
	Approve(ctx context.Context, actor workflow.Actor, id string) (*dto.UserResponse, error)
	Reject(ctx context.Context, actor workflow.Actor, id string) (*dto.UserResponse, error)
	ResetStatus(ctx context.Context, actor workflow.Actor, id string) (*dto.UserResponse, error)
}

type userService struct {
	repo       *repository.Repository
	authz      *workflow.Authorizer
	notifier   notify.Notifier
	bcryptCost int
	logger     *zap.Logger
}

func NewUserService(
	repo *repository.Repository,
	authz *workflow.Authorizer,
	notifier notify.Notifier,
	bcryptCost int,
	logger *zap.Logger,
) UserService {
	return &userService{
		repo:       repo,
		authz:      authz,
		notifier:   notifier,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *userService) load(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("load user failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, actor workflow.Actor, id string) (*dto.UserResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Check(actor, permission.ActionView, permission.SubjectUser, permission.OwnerKeys{Self: user.UserID}); err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, actor workflow.Actor, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	if err := requireAnyScope(s.authz, actor, permission.ActionView, permission.SubjectUser); err != nil {
		return nil, 0, err
	}

	filter := repository.UserFilter{
		Role:    model.Role(req.Role),
		Status:  model.UserStatus(req.Status),
		Keyword: strings.TrimSpace(req.Keyword),
	}
	users, total, err := s.repo.User.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		list = append(list, toUserResponse(&users[i]))
	}
	return list, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, actor workflow.Actor, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Check(actor, permission.ActionUpdate, permission.SubjectUser, permission.OwnerKeys{Self: user.UserID}); err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
				return nil, ErrEmailTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("lookup email failed", zap.Error(err))
				return nil, err
			}
			user.Email = email
		}
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password, s.bcryptCost)
		if err != nil {
			s.logger.Error("hash password failed", zap.Error(err))
			return nil, err
		}
		user.PasswordHash = hash
	}
	if req.Birthday != nil {
		b, err := dto.ParseDate(*req.Birthday)
		if err != nil {
			return nil, ErrInvalidDate
		}
		user.Birthday = &b
	}
	applyString(&user.Name, req.Name)
	applyString(&user.Sex, req.Sex)
	applyString(&user.Description, req.Description)
	applyString(&user.Phone, req.Phone)
	applyString(&user.Location, req.Location)
	applyString(&user.Address, req.Address)
	applyString(&user.OrganizationName, req.OrganizationName)
	applyString(&user.DonorType, req.DonorType)
	applyString(&user.Notes, req.Notes)
	if req.RecipientType != nil {
		user.RecipientType = model.RecipientType(*req.RecipientType)
	}
	user.UpdatedBy = strPtr(actor.ID)

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update user failed", zap.String("id", id), zap.Error(err))
		return nil, mapUpdateErr(err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, actor workflow.Actor, id string) error {
	if err := requireAnyScope(s.authz, actor, permission.ActionDelete, permission.SubjectUser); err != nil {
		return err
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == model.RoleAdmin {
		return ErrCannotDeleteAdmin
	}

	if err := s.repo.User.Delete(ctx, id, actor.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("delete user failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Status transitions ──────────────────────

func (s *userService) Approve(ctx context.Context, actor workflow.Actor, id string) (*dto.UserResponse, error) {
	return s.transition(ctx, actor, id, permission.ActionApprove, model.UserApproved)
}

func (s *userService) Reject(ctx context.Context, actor workflow.Actor, id string) (*dto.UserResponse, error) {
	return s.transition(ctx, actor, id, permission.ActionReject, model.UserRejected)
}

func (s *userService) ResetStatus(ctx context.Context, actor workflow.Actor, id string) (*dto.UserResponse, error) {
	return s.transition(ctx, actor, id, permission.ActionReset, model.UserPending)
}

func (s *userService) transition(ctx context.Context, actor workflow.Actor, id string, action permission.Action, to model.UserStatus) (*dto.UserResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	// admins are created approved and stay that way
	if user.Role == model.RoleAdmin {
		if err := requireGrant(s.authz, actor, action, permission.SubjectUser); err != nil {
			return nil, err
		}
		return nil, ErrAdminStatusFixed
	}

	decision := s.authz.Authorize(workflow.Request{
		Actor:   actor,
		Subject: permission.SubjectUser,
		Action:  action,
		From:    string(user.Status),
		To:      string(to),
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}
	if decision.NoOp {
		resp := toUserResponse(user)
		return &resp, nil
	}

	user.Status = to
	user.UpdatedBy = strPtr(actor.ID)
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update user status failed", zap.String("id", id), zap.Error(err))
		return nil, mapUpdateErr(err)
	}

	s.logger.Info("user status changed",
		zap.String("id", id),
		zap.String("status", string(to)),
		zap.String("by", actor.ID),
	)
	s.notifier.Dispatch(ctx, notify.UserStatusChanged(user))

	resp := toUserResponse(user)
	return &resp, nil
}
