package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ygyuri/foodbank-management-system/internal/dto"
	"github.com/ygyuri/foodbank-management-system/internal/model"
	"github.com/ygyuri/foodbank-management-system/internal/permission"
	"github.com/ygyuri/foodbank-management-system/internal/repository"
	"github.com/ygyuri/foodbank-management-system/internal/workflow"
)

// SubscriptionService foodbank platform plans. Admins manage them, a foodbank reads its own.
type SubscriptionService interface {
	Create(ctx context.Context, actor workflow.Actor, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	GetByID(ctx context.Context, actor workflow.Actor, id string) (*dto.SubscriptionResponse, error)
	List(ctx context.Context, actor workflow.Actor, req *dto.SubscriptionListRequest) ([]dto.SubscriptionResponse, int64, error)
	Update(ctx context.Context, actor workflow.Actor, id string, req *dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	Delete(ctx context.Context, actor workflow.Actor, id string) error
	// Calendar renders the trial and renewal dates as an iCalendar document.
	Calendar(ctx context.Context, actor workflow.Actor, id string) ([]byte, string, error)
	// ExpireDue is run by the nightly job.
	ExpireDue(ctx context.Context) (int64, error)
}

type subscriptionService struct {
	repo   *repository.Repository
	authz  *workflow.Authorizer
	logger *zap.Logger
	now    func() time.Time
}

func NewSubscriptionService(repo *repository.Repository, authz *workflow.Authorizer, logger *zap.Logger) SubscriptionService {
	return &subscriptionService{repo: repo, authz: authz, logger: logger, now: time.Now}
}

func subscriptionOwners(sub *model.Subscription) permission.OwnerKeys {
	return permission.OwnerKeys{Foodbank: sub.FoodbankID}
}

func (s *subscriptionService) load(ctx context.Context, id string) (*model.Subscription, error) {
	sub, err := s.repo.Subscription.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		s.logger.Error("load subscription failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return sub, nil
}

func parseOptionalDate(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := dto.ParseDate(*v)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &t, nil
}

func checkPlanDates(sub *model.Subscription) error {
	if sub.TrialEndsAt != nil && sub.SubscriptionEndsAt != nil && sub.SubscriptionEndsAt.Before(*sub.TrialEndsAt) {
		return ErrInvalidDateRange
	}
	return nil
}

// ────────────────────── Create ──────────────────────

func (s *subscriptionService) Create(ctx context.Context, actor workflow.Actor, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := s.authz.Check(actor, permission.ActionCreate, permission.SubjectSubscription, permission.OwnerKeys{}); err != nil {
		return nil, err
	}

	fb, err := loadUserWithRole(ctx, s.repo, s.logger, req.FoodbankID, model.RoleFoodbank, ErrNotAFoodbank)
	if err != nil {
		return nil, err
	}

	sub := &model.Subscription{
		FoodbankID: fb.UserID,
		Status:     model.SubscriptionTrial,
		MonthlyFee: req.MonthlyFee,
		Foodbank:   fb,
	}
	if req.Status != "" {
		sub.Status = model.SubscriptionStatus(req.Status)
	}
	if sub.TrialEndsAt, err = parseOptionalDate(req.TrialEndsAt); err != nil {
		return nil, err
	}
	if sub.SubscriptionEndsAt, err = parseOptionalDate(req.SubscriptionEndsAt); err != nil {
		return nil, err
	}
	if err := checkPlanDates(sub); err != nil {
		return nil, err
	}
	sub.CreatedBy = strPtr(actor.ID)

	if err := s.repo.Subscription.Create(ctx, sub); err != nil {
		s.logger.Error("create subscription failed", zap.Error(err))
		return nil, err
	}

	resp := toSubscriptionResponse(sub)
	return &resp, nil
}

// ────────────────────── Read ──────────────────────

func (s *subscriptionService) GetByID(ctx context.Context, actor workflow.Actor, id string) (*dto.SubscriptionResponse, error) {
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Check(actor, permission.ActionView, permission.SubjectSubscription, subscriptionOwners(sub)); err != nil {
		return nil, err
	}
	resp := toSubscriptionResponse(sub)
	return &resp, nil
}

func (s *subscriptionService) List(ctx context.Context, actor workflow.Actor, req *dto.SubscriptionListRequest) ([]dto.SubscriptionResponse, int64, error) {
	if err := requireGrant(s.authz, actor, permission.ActionView, permission.SubjectSubscription); err != nil {
		return nil, 0, err
	}

	filter := repository.SubscriptionFilter{
		FoodbankID: req.FoodbankID,
		Status:     model.SubscriptionStatus(req.Status),
	}
	if !isAdmin(actor) {
		filter.FoodbankID = actor.ID
	}

	subs, total, err := s.repo.Subscription.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list subscriptions failed", zap.Error(err))
		return nil, 0, err
	}

	out := make([]dto.SubscriptionResponse, 0, len(subs))
	for i := range subs {
		out = append(out, toSubscriptionResponse(&subs[i]))
	}
	return out, total, nil
}

// ────────────────────── Update / Delete ──────────────────────

func (s *subscriptionService) Update(ctx context.Context, actor workflow.Actor, id string, req *dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Check(actor, permission.ActionUpdate, permission.SubjectSubscription, subscriptionOwners(sub)); err != nil {
		return nil, err
	}

	if req.Status != nil {
		sub.Status = model.SubscriptionStatus(*req.Status)
	}
	if req.MonthlyFee != nil {
		sub.MonthlyFee = *req.MonthlyFee
	}
	if req.TrialEndsAt != nil {
		if sub.TrialEndsAt, err = parseOptionalDate(req.TrialEndsAt); err != nil {
			return nil, err
		}
	}
	if req.SubscriptionEndsAt != nil {
		if sub.SubscriptionEndsAt, err = parseOptionalDate(req.SubscriptionEndsAt); err != nil {
			return nil, err
		}
	}
	if err := checkPlanDates(sub); err != nil {
		return nil, err
	}
	sub.UpdatedBy = strPtr(actor.ID)

	if err := s.repo.Subscription.Update(ctx, sub); err != nil {
		s.logger.Error("update subscription failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toSubscriptionResponse(sub)
	return &resp, nil
}

func (s *subscriptionService) Delete(ctx context.Context, actor workflow.Actor, id string) error {
	sub, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.Check(actor, permission.ActionDelete, permission.SubjectSubscription, subscriptionOwners(sub)); err != nil {
		return err
	}

	if err := s.repo.Subscription.Delete(ctx, id, actor.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubscriptionNotFound
		}
		s.logger.Error("delete subscription failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Calendar ──────────────────────

func (s *subscriptionService) Calendar(ctx context.Context, actor workflow.Actor, id string) ([]byte, string, error) {
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if err := s.authz.Check(actor, permission.ActionView, permission.SubjectSubscription, subscriptionOwners(sub)); err != nil {
		return nil, "", err
	}

	name := sub.FoodbankID
	if sub.Foodbank != nil {
		name = sub.Foodbank.DisplayName()
	}
	body := buildSubscriptionCalendar(sub, name, s.now())
	return []byte(body), fmt.Sprintf("subscription_%s.ics", sub.SubscriptionID), nil
}

func buildSubscriptionCalendar(sub *model.Subscription, name string, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//foodbank//subscriptions//EN")
	cal.SetXWRCalName("Foodbank subscription: " + name)

	addDay := func(uid, summary, description string, day time.Time) {
		evt := cal.AddEvent(uid)
		evt.SetDtStampTime(stamp)
		evt.SetAllDayStartAt(day)
		evt.SetAllDayEndAt(day.AddDate(0, 0, 1))
		evt.SetSummary(summary)
		evt.SetDescription(description)
	}

	if sub.TrialEndsAt != nil {
		addDay(sub.SubscriptionID+"-trial", "Trial ends",
			fmt.Sprintf("Trial period for %s ends.", name), *sub.TrialEndsAt)
	}
	if sub.SubscriptionEndsAt != nil {
		addDay(sub.SubscriptionID+"-renewal", "Subscription renewal",
			fmt.Sprintf("Subscription for %s ends, monthly fee %.2f.", name, sub.MonthlyFee), *sub.SubscriptionEndsAt)
	}
	return cal.Serialize()
}

// ────────────────────── ExpireDue ──────────────────────

func (s *subscriptionService) ExpireDue(ctx context.Context) (int64, error) {
	n, err := s.repo.Subscription.ExpireDue(ctx, s.now())
	if err != nil {
		s.logger.Error("expire subscriptions failed", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		s.logger.Info("subscriptions expired", zap.Int64("count", n))
	}
	return n, nil
}
