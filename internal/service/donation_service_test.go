package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ygyuri/foodbank-management-system/internal/dto"
	"github.com/ygyuri/foodbank-management-system/internal/model"
	"github.com/ygyuri/foodbank-management-system/internal/notify"
	pkgerrors "github.com/ygyuri/foodbank-management-system/pkg/errors"
)

func setupTestDonationService() (DonationService, *testRepos, *recordingNotifier) {
	repos := newTestRepos()
	repos.addStandardCast()
	rec := &recordingNotifier{}
	svc := NewDonationService(repos.repo, testAuthorizer(), rec, zap.NewNop())
	return svc, repos, rec
}

func pendingDonation(repos *testRepos, id string) *model.Donation {
	return repos.addDonation(&model.Donation{
		DonationID: id,
		DonorID:    donorActor.ID,
		Type:       model.DonationTypeFood,
		Quantity:   10,
	})
}

// ── Create ──

func TestDonationService_Create_DonorIsForcedToSelf(t *testing.T) {
	svc, _, rec := setupTestDonationService()

	resp, err := svc.Create(context.Background(), donorActor, &dto.CreateDonationRequest{
		DonorID:  "someone-else",
		Type:     "food",
		Quantity: 5,
	})
	if err != nil {
		t.Fatalf("create should succeed: %v", err)
	}
	if resp.DonorID != donorActor.ID {
		t.Errorf("expected donor %s, got %s", donorActor.ID, resp.DonorID)
	}
	if resp.Status != string(model.DonationPending) {
		t.Errorf("expected pending, got %s", resp.Status)
	}
	if len(rec.events) != 1 || rec.events[0].Kind != notify.KindDonationCreated {
		t.Errorf("expected a created event, got %v", rec.kinds())
	}
}

func TestDonationService_Create_AdminNeedsDonor(t *testing.T) {
	svc, _, _ := setupTestDonationService()

	_, err := svc.Create(context.Background(), adminActor, &dto.CreateDonationRequest{Type: "food", Quantity: 5})
	if !errors.Is(err, ErrDonorRequired) {
		t.Errorf("expected ErrDonorRequired, got %v", err)
	}

	_, err = svc.Create(context.Background(), adminActor, &dto.CreateDonationRequest{DonorID: foodbankActor.ID, Type: "food", Quantity: 5})
	if !errors.Is(err, ErrNotADonor) {
		t.Errorf("expected ErrNotADonor, got %v", err)
	}
}

func TestDonationService_Create_OtherRolesRefused(t *testing.T) {
	svc, _, _ := setupTestDonationService()

	for _, actor := range []struct {
		name string
		a    func() error
	}{
		{"foodbank", func() error {
			_, err := svc.Create(context.Background(), foodbankActor, &dto.CreateDonationRequest{Type: "food", Quantity: 1})
			return err
		}},
		{"recipient", func() error {
			_, err := svc.Create(context.Background(), recipientActor, &dto.CreateDonationRequest{Type: "food", Quantity: 1})
			return err
		}},
	} {
		if err := actor.a(); !errors.Is(err, pkgerrors.ErrUnauthorized) {
			t.Errorf("%s: expected ErrUnauthorized, got %v", actor.name, err)
		}
	}
}

func TestDonationService_Create_DonorCannotPickFoodbank(t *testing.T) {
	svc, _, _ := setupTestDonationService()

	fb := foodbankActor.ID
	_, err := svc.Create(context.Background(), donorActor, &dto.CreateDonationRequest{FoodbankID: &fb, Type: "food", Quantity: 1})
	if !errors.Is(err, ErrFoodbankOnCreate) {
		t.Errorf("expected ErrFoodbankOnCreate, got %v", err)
	}
}

// ── List ──

func TestDonationService_List_ScopedByRole(t *testing.T) {
	svc, repos, _ := setupTestDonationService()
	repos.addUser("donor-2", model.RoleDonor, model.UserApproved)
	pendingDonation(repos, "don-a")
	repos.addDonation(&model.Donation{DonationID: "don-b", DonorID: "donor-2", Type: model.DonationTypeFood, Quantity: 3, FoodbankID: strPtr(foodbankActor.ID)})

	_, total, err := svc.List(context.Background(), donorActor, &dto.DonationListRequest{})
	if err != nil || total != 1 {
		t.Errorf("donor should see own donation only, total=%d err=%v", total, err)
	}

	list, total, err := svc.List(context.Background(), foodbankActor, &dto.DonationListRequest{})
	if err != nil || total != 1 || list[0].ID != "don-b" {
		t.Errorf("foodbank should see assigned donation only, total=%d err=%v", total, err)
	}

	_, total, _ = svc.List(context.Background(), adminActor, &dto.DonationListRequest{})
	if total != 2 {
		t.Errorf("admin should see every donation, total=%d", total)
	}

	if _, _, err := svc.List(context.Background(), recipientActor, &dto.DonationListRequest{}); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Errorf("recipient listing donations: expected ErrUnauthorized, got %v", err)
	}
}

// ── AssignFoodbank ──

func TestDonationService_AssignFoodbank_Success(t *testing.T) {
	svc, repos, rec := setupTestDonationService()
	pendingDonation(repos, "don-1")

	resp, err := svc.AssignFoodbank(context.Background(), adminActor, "don-1", foodbankActor.ID)
	if err != nil {
		t.Fatalf("assign should succeed: %v", err)
	}
	if resp.Status != string(model.DonationAssigned) {
		t.Errorf("expected assigned, got %s", resp.Status)
	}
	if resp.FoodbankID == nil || *resp.FoodbankID != foodbankActor.ID {
		t.Errorf("expected foodbank %s, got %v", foodbankActor.ID, resp.FoodbankID)
	}
	if len(rec.events) != 1 || rec.events[0].Kind != notify.KindDonationFoodbankAssigned {
		t.Errorf("expected an assignment event, got %v", rec.kinds())
	}
}

func TestDonationService_AssignFoodbank_FoodbankAssignsItself(t *testing.T) {
	svc, repos, _ := setupTestDonationService()
	pendingDonation(repos, "don-1")
	repos.addUser("fb-2", model.RoleFoodbank, model.UserApproved)

	if _, err := svc.AssignFoodbank(context.Background(), foodbankActor, "don-1", "fb-2"); !errors.Is(err, pkgerrors.ErrNotOwner) {
		t.Errorf("assigning another foodbank: expected ErrNotOwner, got %v", err)
	}
	if _, err := svc.AssignFoodbank(context.Background(), foodbankActor, "don-1", foodbankActor.ID); err != nil {
		t.Errorf("self assignment should succeed: %v", err)
	}
}

func TestDonationService_AssignFoodbank_AlreadySet(t *testing.T) {
	svc, repos, rec := setupTestDonationService()
	d := pendingDonation(repos, "don-1")
	d.FoodbankID = strPtr("fb-other")

	_, err := svc.AssignFoodbank(context.Background(), adminActor, "don-1", foodbankActor.ID)
	if !errors.Is(err, pkgerrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if *d.FoodbankID != "fb-other" || d.Status != model.DonationPending || d.Version != 1 {
		t.Error("donation must be left unchanged")
	}
	if len(rec.events) != 0 {
		t.Errorf("no event expected, got %v", rec.kinds())
	}
}

func TestDonationService_AssignFoodbank_TargetMustBeFoodbank(t *testing.T) {
	svc, repos, _ := setupTestDonationService()
	pendingDonation(repos, "don-1")

	_, err := svc.AssignFoodbank(context.Background(), adminActor, "don-1", recipientActor.ID)
	if !errors.Is(err, ErrNotAFoodbank) {
		t.Errorf("expected ErrNotAFoodbank, got %v", err)
	}
}

// ── UpdateStatus ──

func TestDonationService_UpdateStatus_DonorCannotApprove(t *testing.T) {
	svc, repos, _ := setupTestDonationService()
	d := pendingDonation(repos, "don-1")

	for _, st := range []model.DonationStatus{model.DonationApproved, model.DonationRejected} {
		_, err := svc.UpdateStatus(context.Background(), donorActor, "don-1", st)
		if !errors.Is(err, pkgerrors.ErrUnauthorized) {
			t.Errorf("donor → %s: expected ErrUnauthorized, got %v", st, err)
		}
	}
	if d.Status != model.DonationPending {
		t.Error("status must be unchanged")
	}

	resp, err := svc.UpdateStatus(context.Background(), adminActor, "don-1", model.DonationApproved)
	if err != nil {
		t.Fatalf("admin approve should succeed: %v", err)
	}
	if resp.Status != string(model.DonationApproved) {
		t.Errorf("expected approved, got %s", resp.Status)
	}
}

func TestDonationService_UpdateStatus_FoodbankApprovesOwn(t *testing.T) {
	svc, repos, rec := setupTestDonationService()
	d := pendingDonation(repos, "don-1")
	d.FoodbankID = strPtr(foodbankActor.ID)

	if _, err := svc.UpdateStatus(context.Background(), foodbankActor, "don-1", model.DonationRejected); err != nil {
		t.Fatalf("foodbank should reject its own donation: %v", err)
	}
	if len(rec.events) != 1 || rec.events[0].Kind != notify.KindDonationStatusChanged {
		t.Errorf("expected a status event, got %v", rec.kinds())
	}
}

func TestDonationService_UpdateStatus_SameStatusIsNoOp(t *testing.T) {
	svc, repos, rec := setupTestDonationService()
	pendingDonation(repos, "don-1")

	resp, err := svc.UpdateStatus(context.Background(), adminActor, "don-1", model.DonationPending)
	if err != nil {
		t.Fatalf("same status should be a no-op: %v", err)
	}
	if resp.Version != 1 || repos.donations.updates != 0 {
		t.Error("no-op must not persist")
	}
	if len(rec.events) != 0 {
		t.Errorf("no-op must not notify, got %v", rec.kinds())
	}
}

func TestDonationService_UpdateStatus_Invalid(t *testing.T) {
	svc, repos, _ := setupTestDonationService()
	pendingDonation(repos, "don-1")

	_, err := svc.UpdateStatus(context.Background(), adminActor, "don-1", model.DonationStatus("lost"))
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	// delivered needs the deliver edge from assigned
	_, err = svc.UpdateStatus(context.Background(), adminActor, "don-1", model.DonationDelivered)
	if !errors.Is(err, pkgerrors.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestDonationService_UpdateStatus_ConcurrentWrite(t *testing.T) {
	svc, repos, _ := setupTestDonationService()
	pendingDonation(repos, "don-1")
	repos.donations.updateErr = pkgerrors.ErrOptimisticLock

	_, err := svc.UpdateStatus(context.Background(), adminActor, "don-1", model.DonationApproved)
	if !errors.Is(err, pkgerrors.ErrConflict) {
		t.Errorf("expected a conflict, got %v", err)
	}
}

// ── Complete ──

func TestDonationService_Complete(t *testing.T) {
	svc, repos, rec := setupTestDonationService()
	pendingDonation(repos, "don-1")

	resp, err := svc.Complete(context.Background(), donorActor, "don-1")
	if err != nil {
		t.Fatalf("complete should succeed: %v", err)
	}
	if resp.Status != string(model.DonationCompleted) {
		t.Errorf("expected completed, got %s", resp.Status)
	}
	if len(rec.events) != 1 || rec.events[0].Kind != notify.KindDonationCompleted {
		t.Errorf("expected a completed event, got %v", rec.kinds())
	}

	_, err = svc.Complete(context.Background(), donorActor, "don-1")
	if !errors.Is(err, ErrDonationCompleted) {
		t.Fatalf("expected ErrDonationCompleted, got %v", err)
	}
	if !errors.Is(err, pkgerrors.ErrConflict) || err.Error() != "donation is already completed" {
		t.Errorf("unexpected error shape: %v", err)
	}
}

// ── Update / Delete ──

func TestDonationService_Update_DeliverThroughEdit(t *testing.T) {
	svc, repos, _ := setupTestDonationService()
	d := pendingDonation(repos, "don-1")
	d.Status = model.DonationAssigned

	status := "delivered"
	resp, err := svc.Update(context.Background(), donorActor, "don-1", &dto.UpdateDonationRequest{Status: &status})
	if err != nil {
		t.Fatalf("deliver should succeed: %v", err)
	}
	if resp.Status != string(model.DonationDelivered) {
		t.Errorf("expected delivered, got %s", resp.Status)
	}
}

func TestDonationService_Update_GoodsLockedOnceReserved(t *testing.T) {
	svc, repos, _ := setupTestDonationService()
	d := pendingDonation(repos, "don-1")
	d.AssignedRequestID = strPtr("rfb-1")

	qty := 3
	_, err := svc.Update(context.Background(), donorActor, "don-1", &dto.UpdateDonationRequest{Quantity: &qty})
	if !errors.Is(err, ErrDonationUnavailable) {
		t.Errorf("expected ErrDonationUnavailable, got %v", err)
	}
	if d.Quantity != 10 {
		t.Error("quantity must be unchanged")
	}
	if err := svc.Delete(context.Background(), donorActor, "don-1"); !errors.Is(err, ErrDonationUnavailable) {
		t.Errorf("delete of a reserved donation: expected ErrDonationUnavailable, got %v", err)
	}
}

func TestDonationService_Delete_OtherDonorRefused(t *testing.T) {
	svc, repos, _ := setupTestDonationService()
	repos.addDonation(&model.Donation{DonationID: "don-x", DonorID: "donor-2", Type: model.DonationTypeFood, Quantity: 1})

	if err := svc.Delete(context.Background(), donorActor, "don-x"); !errors.Is(err, pkgerrors.ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
}
