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

type RequestFBService interface {
	Create(ctx context.Context, actor workflow.Actor, req *dto.CreateRequestFBRequest) (*dto.RequestFBResponse, error)
	GetByID(ctx context.Context, actor workflow.Actor, id string) (*dto.RequestFBResponse, error)
	List(ctx context.Context, actor workflow.Actor, req *dto.RequestFBListRequest) ([]dto.RequestFBResponse, int64, error)
	Update(ctx context.Context, actor workflow.Actor, id string, req *dto.UpdateRequestFBRequest) (*dto.RequestFBResponse, error)
	Delete(ctx context.Context, actor workflow.Actor, id string) error
	UpdateStatus(ctx context.Context, actor workflow.Actor, id string, status model.RequestFBStatus) (*dto.RequestFBResponse, error)
	// FulfillWithDonation marks the request fulfilled and the donation assigned to it in one transaction.
	FulfillWithDonation(ctx context.Context, actor workflow.Actor, requestID, donationID string) (*dto.FulfillmentResponse, error)
}

type requestFBService struct {
	repo     *repository.Repository
	authz    *workflow.Authorizer
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewRequestFBService(
	repo *repository.Repository,
	authz *workflow.Authorizer,
	notifier notify.Notifier,
	logger *zap.Logger,
) RequestFBService {
	return &requestFBService{repo: repo, authz: authz, notifier: notifier, logger: logger}
}

func requestFBOwners(r *model.RequestFB) permission.OwnerKeys {
	return permission.OwnerKeys{Recipient: r.RecipientID, Foodbank: permission.Deref(r.FoodbankID)}
}

func (s *requestFBService) load(ctx context.Context, id string) (*model.RequestFB, error) {
	r, err := s.repo.RequestFB.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestFBNotFound
		}
		s.logger.Error("load request failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return r, nil
}

// ────────────────────── Create ──────────────────────

func (s *requestFBService) Create(ctx context.Context, actor workflow.Actor, req *dto.CreateRequestFBRequest) (*dto.RequestFBResponse, error) {
	if err := s.authz.Check(actor, permission.ActionCreate, permission.SubjectRequestFB, permission.OwnerKeys{}); err != nil {
		return nil, err
	}

	recipientID := actor.ID
	if isAdmin(actor) {
		if req.RecipientID == "" {
			return nil, ErrRecipientRequired
		}
		recipientID = req.RecipientID
	}

	recipient, err := loadUserWithRole(ctx, s.repo, s.logger, recipientID, model.RoleRecipient, ErrNotARecipient)
	if err != nil {
		return nil, err
	}

	r := &model.RequestFB{
		RecipientID: recipientID,
		Type:        model.DonationType(req.Type),
		Quantity:    req.Quantity,
		Status:      workflow.RequestFBMachine.Initial(),
		Description: req.Description,
		Recipient:   recipient,
	}
	r.CreatedBy = strPtr(actor.ID)

	if req.FoodbankID != nil {
		fb, err := loadUserWithRole(ctx, s.repo, s.logger, *req.FoodbankID, model.RoleFoodbank, ErrNotAFoodbank)
		if err != nil {
			return nil, err
		}
		r.FoodbankID = req.FoodbankID
		r.Foodbank = fb
	}

	if err := s.repo.RequestFB.Create(ctx, r); err != nil {
		s.logger.Error("create request failed", zap.Error(err))
		return nil, err
	}

	s.notifier.Dispatch(ctx, notify.RequestFBCreated(r))

	resp := toRequestFBResponse(r)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *requestFBService) GetByID(ctx context.Context, actor workflow.Actor, id string) (*dto.RequestFBResponse, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Check(actor, permission.ActionView, permission.SubjectRequestFB, requestFBOwners(r)); err != nil {
		return nil, err
	}
	resp := toRequestFBResponse(r)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *requestFBService) List(ctx context.Context, actor workflow.Actor, req *dto.RequestFBListRequest) ([]dto.RequestFBResponse, int64, error) {
	if err := requireGrant(s.authz, actor, permission.ActionView, permission.SubjectRequestFB); err != nil {
		return nil, 0, err
	}

	filter := repository.RequestFBFilter{
		Status: model.RequestFBStatus(req.Status),
		Type:   model.DonationType(req.Type),
	}
	switch actor.Role {
	case model.RoleRecipient:
		filter.RecipientID = actor.ID
	case model.RoleFoodbank:
		filter.FoodbankID = actor.ID
	}

	list, total, err := s.repo.RequestFB.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list requests failed", zap.Error(err))
		return nil, 0, err
	}

	out := make([]dto.RequestFBResponse, 0, len(list))
	for i := range list {
		out = append(out, toRequestFBResponse(&list[i]))
	}
	return out, total, nil
}

// ────────────────────── Update ──────────────────────

// Update type and quantity only, while pending.
func (s *requestFBService) Update(ctx context.Context, actor workflow.Actor, id string, req *dto.UpdateRequestFBRequest) (*dto.RequestFBResponse, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Check(actor, permission.ActionUpdate, permission.SubjectRequestFB, requestFBOwners(r)); err != nil {
		return nil, err
	}
	if r.Status != model.RequestFBPending {
		return nil, ErrRequestNotEditable
	}

	if req.Type != nil {
		r.Type = model.DonationType(*req.Type)
	}
	if req.Quantity != nil {
		r.Quantity = *req.Quantity
	}
	r.UpdatedBy = strPtr(actor.ID)

	if err := s.repo.RequestFB.Update(ctx, r); err != nil {
		s.logger.Error("update request failed", zap.String("id", id), zap.Error(err))
		return nil, mapUpdateErr(err)
	}

	resp := toRequestFBResponse(r)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *requestFBService) Delete(ctx context.Context, actor workflow.Actor, id string) error {
	r, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.Check(actor, permission.ActionDelete, permission.SubjectRequestFB, requestFBOwners(r)); err != nil {
		return err
	}
	if r.Status == model.RequestFBFulfilled {
		return ErrRequestNotPending
	}

	if err := s.repo.RequestFB.Delete(ctx, id, actor.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestFBNotFound
		}
		s.logger.Error("delete request failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *requestFBService) UpdateStatus(ctx context.Context, actor workflow.Actor, id string, status model.RequestFBStatus) (*dto.RequestFBResponse, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := s.authz.Authorize(workflow.Request{
		Actor:   actor,
		Subject: permission.SubjectRequestFB,
		Action:  workflow.StatusAction(status),
		Owners:  requestFBOwners(r),
		From:    string(r.Status),
		To:      string(status),
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}
	if decision.NoOp {
		resp := toRequestFBResponse(r)
		return &resp, nil
	}

	r.Status = status
	r.UpdatedBy = strPtr(actor.ID)
	if err := s.repo.RequestFB.Update(ctx, r); err != nil {
		s.logger.Error("update request status failed", zap.String("id", id), zap.Error(err))
		return nil, mapUpdateErr(err)
	}

	s.logger.Info("request status changed", zap.String("id", id), zap.String("status", string(status)))
	s.notifier.Dispatch(ctx, notify.RequestFBStatusChanged(r))

	resp := toRequestFBResponse(r)
	return &resp, nil
}

// ────────────────────── FulfillWithDonation ──────────────────────

// satisfies donation covers the request: same goods type, at least the requested quantity.
func satisfies(d *model.Donation, r *model.RequestFB) bool {
	return d.Type == r.Type && d.Quantity >= r.Quantity
}

func donationAvailable(d *model.Donation) bool {
	return d.AssignedRequestID == nil &&
		d.Status != model.DonationCompleted &&
		d.Status != model.DonationRejected
}

func (s *requestFBService) FulfillWithDonation(ctx context.Context, actor workflow.Actor, requestID, donationID string) (*dto.FulfillmentResponse, error) {
	r, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	d, err := s.repo.Donation.GetByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationNotFound
		}
		s.logger.Error("load donation failed", zap.String("id", donationID), zap.Error(err))
		return nil, err
	}

	decision := s.authz.Authorize(workflow.Request{
		Actor:   actor,
		Subject: permission.SubjectRequestFB,
		Action:  permission.ActionFulfill,
		Owners:  requestFBOwners(r),
		From:    string(r.Status),
		To:      string(model.RequestFBFulfilled),
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}
	// a foodbank can only hand out donations assigned to it
	if err := s.authz.Check(actor, permission.ActionView, permission.SubjectDonation, donationOwners(d)); err != nil {
		return nil, err
	}
	if !satisfies(d, r) {
		return nil, ErrFulfillmentMismatch
	}
	if !donationAvailable(d) {
		return nil, ErrDonationUnavailable
	}

	var fulfilled *model.RequestFB
	var assigned *model.Donation
	err = inTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		// lock order: request, then donation
		lockedReq, err := txRepo.RequestFB.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestFBNotFound
			}
			return err
		}
		lockedDon, err := txRepo.Donation.GetByIDForUpdate(ctx, donationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDonationNotFound
			}
			return err
		}

		if lockedReq.Status != model.RequestFBPending {
			return ErrRequestNotPending
		}
		if !donationAvailable(lockedDon) {
			return ErrDonationUnavailable
		}
		if !satisfies(lockedDon, lockedReq) {
			return ErrFulfillmentMismatch
		}

		lockedReq.Status = model.RequestFBFulfilled
		lockedReq.AssignedDonationID = strPtr(lockedDon.DonationID)
		lockedReq.UpdatedBy = strPtr(actor.ID)
		if err := txRepo.RequestFB.Update(ctx, lockedReq); err != nil {
			return mapUpdateErr(err)
		}

		lockedDon.Status = model.DonationAssigned
		lockedDon.AssignedRequestID = strPtr(lockedReq.RequestFBID)
		lockedDon.UpdatedBy = strPtr(actor.ID)
		if err := txRepo.Donation.Update(ctx, lockedDon); err != nil {
			return mapUpdateErr(err)
		}

		fulfilled, assigned = lockedReq, lockedDon
		return nil
	})
	if err != nil {
		if !isDomainErr(err) {
			s.logger.Error("fulfill request failed",
				zap.String("request_id", requestID),
				zap.String("donation_id", donationID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	s.logger.Info("request fulfilled",
		zap.String("request_id", requestID),
		zap.String("donation_id", donationID),
		zap.String("by", actor.ID),
	)
	s.notifier.Dispatch(ctx, notify.RequestFBFulfilled(fulfilled, assigned))

	fulfilled.Foodbank, fulfilled.Recipient = r.Foodbank, r.Recipient
	assigned.Donor, assigned.Foodbank, assigned.Recipient = d.Donor, d.Foodbank, d.Recipient
	return &dto.FulfillmentResponse{
		Request:  toRequestFBResponse(fulfilled),
		Donation: toDonationResponse(assigned),
	}, nil
}
