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

type DonationService interface {
	Create(ctx context.Context, actor workflow.Actor, req *dto.CreateDonationRequest) (*dto.DonationResponse, error)
	GetByID(ctx context.Context, actor workflow.Actor, id string) (*dto.DonationResponse, error)
	List(ctx context.Context, actor workflow.Actor, req *dto.DonationListRequest) ([]dto.DonationResponse, int64, error)
	Update(ctx context.Context, actor workflow.Actor, id string, req *dto.UpdateDonationRequest) (*dto.DonationResponse, error)
	Delete(ctx context.Context, actor workflow.Actor, id string) error
	AssignFoodbank(ctx context.Context, actor workflow.Actor, id, foodbankID string) (*dto.DonationResponse, error)
	UpdateStatus(ctx context.Context, actor workflow.Actor, id string, status model.DonationStatus) (*dto.DonationResponse, error)
	Complete(ctx context.Context, actor workflow.Actor, id string) (*dto.DonationResponse, error)
}

type donationService struct {
	repo     *repository.Repository
	authz    *workflow.Authorizer
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewDonationService(
	repo *repository.Repository,
	authz *workflow.Authorizer,
	notifier notify.Notifier,
	logger *zap.Logger,
) DonationService {
	return &donationService{repo: repo, authz: authz, notifier: notifier, logger: logger}
}

func donationOwners(d *model.Donation) permission.OwnerKeys {
	return permission.OwnerKeys{
		Donor:     d.DonorID,
		Foodbank:  permission.Deref(d.FoodbankID),
		Recipient: permission.Deref(d.RecipientID),
	}
}

func (s *donationService) load(ctx context.Context, id string) (*model.Donation, error) {
	d, err := s.repo.Donation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationNotFound
		}
		s.logger.Error("load donation failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return d, nil
}

// loadUserWithRole resolves a referenced user and checks its role.
func loadUserWithRole(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string, role model.Role, wrongRole error) (*model.User, error) {
	u, err := repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("load user failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if u.Role != role {
		return nil, wrongRole
	}
	return u, nil
}

// ────────────────────── Create ──────────────────────

func (s *donationService) Create(ctx context.Context, actor workflow.Actor, req *dto.CreateDonationRequest) (*dto.DonationResponse, error) {
	if err := s.authz.Check(actor, permission.ActionCreate, permission.SubjectDonation, permission.OwnerKeys{}); err != nil {
		return nil, err
	}

	donorID := actor.ID
	if isAdmin(actor) {
		if req.DonorID == "" {
			return nil, ErrDonorRequired
		}
		donorID = req.DonorID
	}
	if req.FoodbankID != nil && !isAdmin(actor) {
		return nil, ErrFoodbankOnCreate
	}

	donor, err := loadUserWithRole(ctx, s.repo, s.logger, donorID, model.RoleDonor, ErrNotADonor)
	if err != nil {
		return nil, err
	}

	d := &model.Donation{
		DonorID:     donorID,
		Type:        model.DonationType(req.Type),
		Quantity:    req.Quantity,
		Status:      workflow.DonationMachine.Initial(),
		Description: req.Description,
		Donor:       donor,
	}
	d.CreatedBy = strPtr(actor.ID)

	if req.FoodbankID != nil {
		fb, err := loadUserWithRole(ctx, s.repo, s.logger, *req.FoodbankID, model.RoleFoodbank, ErrNotAFoodbank)
		if err != nil {
			return nil, err
		}
		d.FoodbankID = req.FoodbankID
		d.Foodbank = fb
	}
	if req.RecipientID != nil {
		rc, err := loadUserWithRole(ctx, s.repo, s.logger, *req.RecipientID, model.RoleRecipient, ErrNotARecipient)
		if err != nil {
			return nil, err
		}
		d.RecipientID = req.RecipientID
		d.Recipient = rc
	}

	if err := s.repo.Donation.Create(ctx, d); err != nil {
		s.logger.Error("create donation failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("donation created", zap.String("id", d.DonationID), zap.String("donor_id", donorID))
	s.notifier.Dispatch(ctx, notify.DonationCreated(d))

	resp := toDonationResponse(d)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *donationService) GetByID(ctx context.Context, actor workflow.Actor, id string) (*dto.DonationResponse, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Check(actor, permission.ActionView, permission.SubjectDonation, donationOwners(d)); err != nil {
		return nil, err
	}
	resp := toDonationResponse(d)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

// List donors see their own donations, foodbanks the ones assigned to them.
func (s *donationService) List(ctx context.Context, actor workflow.Actor, req *dto.DonationListRequest) ([]dto.DonationResponse, int64, error) {
	if err := requireGrant(s.authz, actor, permission.ActionView, permission.SubjectDonation); err != nil {
		return nil, 0, err
	}

	filter := repository.DonationFilter{
		DonorID:     req.DonorID,
		FoodbankID:  req.FoodbankID,
		RecipientID: req.RecipientID,
		Status:      model.DonationStatus(req.Status),
		Type:        model.DonationType(req.Type),
	}
	switch actor.Role {
	case model.RoleDonor:
		filter.DonorID = actor.ID
	case model.RoleFoodbank:
		filter.FoodbankID = actor.ID
	}

	list, total, err := s.repo.Donation.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list donations failed", zap.Error(err))
		return nil, 0, err
	}
	return toDonationResponses(list), total, nil
}

// ────────────────────── Update ──────────────────────

// Update edits goods fields and, through the status field, moves between
// pending, assigned and delivered.
func (s *donationService) Update(ctx context.Context, actor workflow.Actor, id string, req *dto.UpdateDonationRequest) (*dto.DonationResponse, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	owners := donationOwners(d)
	if err := s.authz.Check(actor, permission.ActionUpdate, permission.SubjectDonation, owners); err != nil {
		return nil, err
	}

	previous := d.Status
	next := d.Status
	statusAction := permission.ActionUpdateStatus
	if req.Status != nil {
		to := model.DonationStatus(*req.Status)
		if to == model.DonationDelivered {
			statusAction = permission.ActionDeliver
		}
		decision := s.authz.Authorize(workflow.Request{
			Actor:   actor,
			Subject: permission.SubjectDonation,
			Action:  statusAction,
			Owners:  owners,
			From:    string(d.Status),
			To:      string(to),
		})
		if err := decision.Err(); err != nil {
			return nil, err
		}
		next = to
	}

	goodsChanged := (req.Type != nil && model.DonationType(*req.Type) != d.Type) ||
		(req.Quantity != nil && *req.Quantity != d.Quantity)
	if goodsChanged && d.AssignedRequestID != nil {
		return nil, ErrDonationUnavailable
	}
	var recipient *model.User
	if req.RecipientID != nil {
		if recipient, err = loadUserWithRole(ctx, s.repo, s.logger, *req.RecipientID, model.RoleRecipient, ErrNotARecipient); err != nil {
			return nil, err
		}
	}

	d.Status = next
	if req.Type != nil {
		d.Type = model.DonationType(*req.Type)
	}
	if req.Quantity != nil {
		d.Quantity = *req.Quantity
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if recipient != nil {
		d.RecipientID = req.RecipientID
		d.Recipient = recipient
	}
	d.UpdatedBy = strPtr(actor.ID)

	if err := s.repo.Donation.Update(ctx, d); err != nil {
		s.logger.Error("update donation failed", zap.String("id", id), zap.Error(err))
		return nil, mapUpdateErr(err)
	}

	if statusAction == permission.ActionUpdateStatus && d.Status != previous {
		s.notifier.Dispatch(ctx, notify.DonationStatusChanged(d, previous))
	}

	resp := toDonationResponse(d)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *donationService) Delete(ctx context.Context, actor workflow.Actor, id string) error {
	d, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.Check(actor, permission.ActionDelete, permission.SubjectDonation, donationOwners(d)); err != nil {
		return err
	}
	if d.AssignedRequestID != nil {
		return ErrDonationUnavailable
	}

	if err := s.repo.Donation.Delete(ctx, id, actor.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDonationNotFound
		}
		s.logger.Error("delete donation failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── AssignFoodbank ──────────────────────

// AssignFoodbank pending → assigned, setting foodbank_id. A foodbank may only assign itself.
func (s *donationService) AssignFoodbank(ctx context.Context, actor workflow.Actor, id, foodbankID string) (*dto.DonationResponse, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := s.authz.Authorize(workflow.Request{
		Actor:   actor,
		Subject: permission.SubjectDonation,
		Action:  permission.ActionAssignFoodbank,
		Owners:  permission.OwnerKeys{Donor: d.DonorID, Foodbank: foodbankID},
		From:    string(d.Status),
		To:      string(model.DonationAssigned),
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}
	if d.HasFoodbank() {
		return nil, ErrFoodbankAlreadyAssigned
	}

	fb, err := loadUserWithRole(ctx, s.repo, s.logger, foodbankID, model.RoleFoodbank, ErrNotAFoodbank)
	if err != nil {
		return nil, err
	}

	d.FoodbankID = strPtr(foodbankID)
	d.Foodbank = fb
	d.Status = model.DonationAssigned
	d.UpdatedBy = strPtr(actor.ID)

	if err := s.repo.Donation.Update(ctx, d); err != nil {
		s.logger.Error("assign foodbank failed", zap.String("id", id), zap.Error(err))
		return nil, mapUpdateErr(err)
	}

	s.logger.Info("foodbank assigned", zap.String("donation_id", id), zap.String("foodbank_id", foodbankID))
	s.notifier.Dispatch(ctx, notify.DonationFoodbankAssigned(d))

	resp := toDonationResponse(d)
	return &resp, nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *donationService) UpdateStatus(ctx context.Context, actor workflow.Actor, id string, status model.DonationStatus) (*dto.DonationResponse, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := s.authz.Authorize(workflow.Request{
		Actor:   actor,
		Subject: permission.SubjectDonation,
		Action:  workflow.StatusAction(status),
		Owners:  donationOwners(d),
		From:    string(d.Status),
		To:      string(status),
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}
	if decision.NoOp {
		resp := toDonationResponse(d)
		return &resp, nil
	}

	previous := d.Status
	d.Status = status
	d.UpdatedBy = strPtr(actor.ID)
	if err := s.repo.Donation.Update(ctx, d); err != nil {
		s.logger.Error("update donation status failed", zap.String("id", id), zap.Error(err))
		return nil, mapUpdateErr(err)
	}

	s.logger.Info("donation status changed",
		zap.String("id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)
	s.notifier.Dispatch(ctx, notify.DonationStatusChanged(d, previous))

	resp := toDonationResponse(d)
	return &resp, nil
}

// ────────────────────── Complete ──────────────────────

func (s *donationService) Complete(ctx context.Context, actor workflow.Actor, id string) (*dto.DonationResponse, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := s.authz.Authorize(workflow.Request{
		Actor:   actor,
		Subject: permission.SubjectDonation,
		Action:  permission.ActionComplete,
		Owners:  donationOwners(d),
		From:    string(d.Status),
		To:      string(model.DonationCompleted),
	})
	if decision.Reason == workflow.DenyInvalidTransition && d.Status == model.DonationCompleted {
		return nil, ErrDonationCompleted
	}
	if err := decision.Err(); err != nil {
		return nil, err
	}

	d.Status = model.DonationCompleted
	d.UpdatedBy = strPtr(actor.ID)
	if err := s.repo.Donation.Update(ctx, d); err != nil {
		s.logger.Error("complete donation failed", zap.String("id", id), zap.Error(err))
		return nil, mapUpdateErr(err)
	}

	s.logger.Info("donation completed", zap.String("id", id))
	s.notifier.Dispatch(ctx, notify.DonationCompleted(d))

	resp := toDonationResponse(d)
	return &resp, nil
}
