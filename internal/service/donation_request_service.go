package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ygyuri/foodbank-management-system/internal/dto"
	"github.com/ygyuri/foodbank-management-system/internal/model"
	"github.com/ygyuri/foodbank-management-system/internal/notify"
	"github.com/ygyuri/foodbank-management-system/internal/permission"
	"github.com/ygyuri/foodbank-management-system/internal/repository"
	"github.com/ygyuri/foodbank-management-system/internal/workflow"
)

type DonationRequestService interface {
	Create(ctx context.Context, actor workflow.Actor, req *dto.CreateDonationRequestRequest) (*dto.DonationRequestResponse, error)
	GetByID(ctx context.Context, actor workflow.Actor, id string) (*dto.DonationRequestResponse, error)
	List(ctx context.Context, actor workflow.Actor, req *dto.DonationRequestListRequest) ([]dto.DonationRequestResponse, int64, error)
	Update(ctx context.Context, actor workflow.Actor, id string, req *dto.UpdateDonationRequestRequest) (*dto.DonationRequestResponse, error)
	Delete(ctx context.Context, actor workflow.Actor, id string) error
	UpdateStatus(ctx context.Context, actor workflow.Actor, id string, status model.DonationRequestStatus) (*dto.DonationRequestResponse, error)
}

type donationRequestService struct {
	repo     *repository.Repository
	authz    *workflow.Authorizer
	notifier notify.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewDonationRequestService(
	repo *repository.Repository,
	authz *workflow.Authorizer,
	notifier notify.Notifier,
	logger *zap.Logger,
) DonationRequestService {
	return &donationRequestService{repo: repo, authz: authz, notifier: notifier, logger: logger, now: time.Now}
}

func donationRequestOwners(r *model.DonationRequest) permission.OwnerKeys {
	return permission.OwnerKeys{Foodbank: r.FoodbankID, Donor: r.DonorID}
}

func (s *donationRequestService) load(ctx context.Context, id string) (*model.DonationRequest, error) {
	r, err := s.repo.DonationRequest.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationRequestNotFound
		}
		s.logger.Error("load donation request failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return r, nil
}

// ────────────────────── Create ──────────────────────

func (s *donationRequestService) Create(ctx context.Context, actor workflow.Actor, req *dto.CreateDonationRequestRequest) (*dto.DonationRequestResponse, error) {
	if err := s.authz.Check(actor, permission.ActionCreate, permission.SubjectDonationRequest, permission.OwnerKeys{}); err != nil {
		return nil, err
	}

	foodbankID := actor.ID
	if isAdmin(actor) {
		if req.FoodbankID == "" {
			return nil, ErrFoodbankRequired
		}
		foodbankID = req.FoodbankID
	}

	fb, err := loadUserWithRole(ctx, s.repo, s.logger, foodbankID, model.RoleFoodbank, ErrNotAFoodbank)
	if err != nil {
		return nil, err
	}
	donor, err := loadUserWithRole(ctx, s.repo, s.logger, req.DonorID, model.RoleDonor, ErrNotADonor)
	if err != nil {
		return nil, err
	}

	r := &model.DonationRequest{
		FoodbankID:  foodbankID,
		DonorID:     req.DonorID,
		Type:        model.DonationType(req.Type),
		Quantity:    req.Quantity,
		Status:      workflow.DonationRequestMachine.Initial(),
		Description: req.Description,
		Foodbank:    fb,
		Donor:       donor,
	}
	r.CreatedBy = strPtr(actor.ID)

	if err := s.repo.DonationRequest.Create(ctx, r); err != nil {
		s.logger.Error("create donation request failed", zap.Error(err))
		return nil, err
	}

	s.notifier.Dispatch(ctx, notify.DonationRequestCreated(r))

	resp := toDonationRequestResponse(r)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *donationRequestService) GetByID(ctx context.Context, actor workflow.Actor, id string) (*dto.DonationRequestResponse, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Check(actor, permission.ActionView, permission.SubjectDonationRequest, donationRequestOwners(r)); err != nil {
		return nil, err
	}
	resp := toDonationRequestResponse(r)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *donationRequestService) List(ctx context.Context, actor workflow.Actor, req *dto.DonationRequestListRequest) ([]dto.DonationRequestResponse, int64, error) {
	if err := requireGrant(s.authz, actor, permission.ActionView, permission.SubjectDonationRequest); err != nil {
		return nil, 0, err
	}

	filter := repository.DonationRequestFilter{
		DonorID:  req.DonorID,
		Status:   model.DonationRequestStatus(req.Status),
		Type:     model.DonationType(req.Type),
		SortBy:   req.SortBy,
		SortDesc: req.SortDesc,
	}
	switch actor.Role {
	case model.RoleFoodbank:
		filter.FoodbankID = actor.ID
	case model.RoleDonor:
		filter.DonorID = actor.ID
	}

	list, total, err := s.repo.DonationRequest.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list donation requests failed", zap.Error(err))
		return nil, 0, err
	}

	out := make([]dto.DonationRequestResponse, 0, len(list))
	for i := range list {
		out = append(out, toDonationRequestResponse(&list[i]))
	}
	return out, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *donationRequestService) Update(ctx context.Context, actor workflow.Actor, id string, req *dto.UpdateDonationRequestRequest) (*dto.DonationRequestResponse, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Check(actor, permission.ActionUpdate, permission.SubjectDonationRequest, donationRequestOwners(r)); err != nil {
		return nil, err
	}
	if r.Status != model.DonationRequestPending {
		return nil, ErrRequestNotEditable
	}

	if req.DonorID != nil && *req.DonorID != r.DonorID {
		donor, err := loadUserWithRole(ctx, s.repo, s.logger, *req.DonorID, model.RoleDonor, ErrNotADonor)
		if err != nil {
			return nil, err
		}
		r.DonorID = donor.UserID
		r.Donor = donor
	}
	if req.Type != nil {
		r.Type = model.DonationType(*req.Type)
	}
	if req.Quantity != nil {
		r.Quantity = *req.Quantity
	}
	if req.Description != nil {
		r.Description = *req.Description
	}
	r.UpdatedBy = strPtr(actor.ID)

	if err := s.repo.DonationRequest.Update(ctx, r); err != nil {
		s.logger.Error("update donation request failed", zap.String("id", id), zap.Error(err))
		return nil, mapUpdateErr(err)
	}

	resp := toDonationRequestResponse(r)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *donationRequestService) Delete(ctx context.Context, actor workflow.Actor, id string) error {
	r, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.Check(actor, permission.ActionDelete, permission.SubjectDonationRequest, donationRequestOwners(r)); err != nil {
		return err
	}
	if err := s.repo.DonationRequest.Delete(ctx, id, actor.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDonationRequestNotFound
		}
		s.logger.Error("delete donation request failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── UpdateStatus ──────────────────────

// UpdateStatus approve or reject a pending request and record who decided.
func (s *donationRequestService) UpdateStatus(ctx context.Context, actor workflow.Actor, id string, status model.DonationRequestStatus) (*dto.DonationRequestResponse, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := s.authz.Authorize(workflow.Request{
		Actor:   actor,
		Subject: permission.SubjectDonationRequest,
		Action:  workflow.StatusAction(status),
		Owners:  donationRequestOwners(r),
		From:    string(r.Status),
		To:      string(status),
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}
	if decision.NoOp {
		resp := toDonationRequestResponse(r)
		return &resp, nil
	}

	now := s.now()
	r.Status = status
	r.ApprovedBy = strPtr(actor.ID)
	r.ApprovedAt = &now
	r.UpdatedBy = strPtr(actor.ID)
	if err := s.repo.DonationRequest.Update(ctx, r); err != nil {
		s.logger.Error("update donation request status failed", zap.String("id", id), zap.Error(err))
		return nil, mapUpdateErr(err)
	}

	s.logger.Info("donation request decided",
		zap.String("id", id),
		zap.String("status", string(status)),
		zap.String("by", actor.ID),
	)
	s.notifier.Dispatch(ctx, notify.DonationRequestStatusChanged(r))

	resp := toDonationRequestResponse(r)
	return &resp, nil
}
