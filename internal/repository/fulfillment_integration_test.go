//go:build integration

package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ygyuri/foodbank-management-system/internal/model"
	"github.com/ygyuri/foodbank-management-system/internal/notify"
	"github.com/ygyuri/foodbank-management-system/internal/permission"
	"github.com/ygyuri/foodbank-management-system/internal/repository"
	"github.com/ygyuri/foodbank-management-system/internal/service"
	"github.com/ygyuri/foodbank-management-system/internal/workflow"
	pkgerrors "github.com/ygyuri/foodbank-management-system/pkg/errors"
)

type discardNotifier struct{}

func (discardNotifier) Dispatch(context.Context, notify.Event) notify.DispatchResult {
	return notify.DispatchResult{}
}

func newRequestFBService(repo *repository.Repository) service.RequestFBService {
	authz := workflow.NewAuthorizer(permission.NewPolicy())
	return service.NewRequestFBService(repo, authz, discardNotifier{}, zap.NewNop())
}

func createPendingRequest(t *testing.T, repo *repository.Repository, recipientID, foodbankID string, qty int) *model.RequestFB {
	t.Helper()
	r := &model.RequestFB{
		RecipientID: recipientID,
		FoodbankID:  &foodbankID,
		Type:        model.DonationTypeFood,
		Quantity:    qty,
		Status:      model.RequestFBPending,
	}
	require.NoError(t, repo.RequestFB.Create(context.Background(), r))
	return r
}

func TestFulfillWithDonation_Commits(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(testDB)
	admin := createUser(t, repo, model.RoleAdmin)
	donor := createUser(t, repo, model.RoleDonor)
	fb := createUser(t, repo, model.RoleFoodbank)
	rcp := createUser(t, repo, model.RoleRecipient)

	d := createDonation(t, repo, donor.UserID, &fb.UserID, 10)
	req := createPendingRequest(t, repo, rcp.UserID, fb.UserID, 10)

	svc := newRequestFBService(repo)
	_, err := svc.FulfillWithDonation(ctx, workflow.Actor{ID: admin.UserID, Role: model.RoleAdmin}, req.RequestFBID, d.DonationID)
	require.NoError(t, err)

	gotReq, err := repo.RequestFB.GetByID(ctx, req.RequestFBID)
	require.NoError(t, err)
	gotDon, err := repo.Donation.GetByID(ctx, d.DonationID)
	require.NoError(t, err)

	assert.Equal(t, model.RequestFBFulfilled, gotReq.Status)
	require.NotNil(t, gotReq.AssignedDonationID)
	assert.Equal(t, d.DonationID, *gotReq.AssignedDonationID)
	assert.Equal(t, model.DonationAssigned, gotDon.Status)
	require.NotNil(t, gotDon.AssignedRequestID)
	assert.Equal(t, req.RequestFBID, *gotDon.AssignedRequestID)
}

// The request row is written first; a failing donation write must take it back.
func TestFulfillWithDonation_RollsBackRequestWhenDonationWriteFails(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(testDB)
	admin := createUser(t, repo, model.RoleAdmin)
	donor := createUser(t, repo, model.RoleDonor)
	fb := createUser(t, repo, model.RoleFoodbank)
	rcp := createUser(t, repo, model.RoleRecipient)

	req := createPendingRequest(t, repo, rcp.UserID, fb.UserID, 5)

	// another donation already holds the request id, so the unique index
	// on donations.assigned_request_id fires on the second write
	squatter := createDonation(t, repo, donor.UserID, &fb.UserID, 5)
	squatter.AssignedRequestID = &req.RequestFBID
	require.NoError(t, repo.Donation.Update(ctx, squatter))

	d := createDonation(t, repo, donor.UserID, &fb.UserID, 5)

	svc := newRequestFBService(repo)
	_, err := svc.FulfillWithDonation(ctx, workflow.Actor{ID: admin.UserID, Role: model.RoleAdmin}, req.RequestFBID, d.DonationID)
	require.Error(t, err)

	gotReq, err := repo.RequestFB.GetByID(ctx, req.RequestFBID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestFBPending, gotReq.Status, "request write must be rolled back")
	assert.Nil(t, gotReq.AssignedDonationID)

	gotDon, err := repo.Donation.GetByID(ctx, d.DonationID)
	require.NoError(t, err)
	assert.Equal(t, model.DonationPending, gotDon.Status)
	assert.Nil(t, gotDon.AssignedRequestID)
}

func TestFulfillWithDonation_ConcurrentRequestsForOneDonation(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(testDB)
	admin := createUser(t, repo, model.RoleAdmin)
	donor := createUser(t, repo, model.RoleDonor)
	fb := createUser(t, repo, model.RoleFoodbank)
	rcp := createUser(t, repo, model.RoleRecipient)

	d := createDonation(t, repo, donor.UserID, &fb.UserID, 10)
	requests := []*model.RequestFB{
		createPendingRequest(t, repo, rcp.UserID, fb.UserID, 4),
		createPendingRequest(t, repo, rcp.UserID, fb.UserID, 6),
	}

	svc := newRequestFBService(repo)
	actor := workflow.Actor{ID: admin.UserID, Role: model.RoleAdmin}

	errs := make([]error, len(requests))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, r := range requests {
		wg.Add(1)
		go func(i int, requestID string) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.FulfillWithDonation(ctx, actor, requestID, d.DonationID)
		}(i, r.RequestFBID)
	}
	close(start)
	wg.Wait()

	winner, loser := -1, -1
	for i, err := range errs {
		if err == nil {
			require.Equal(t, -1, winner, "both fulfillments succeeded")
			winner = i
		} else {
			loser = i
		}
	}
	require.NotEqual(t, -1, winner, "no fulfillment succeeded: %v", errs)
	require.NotEqual(t, -1, loser)
	assert.True(t,
		pkgerrors.IsConflict(errs[loser]) || errors.Is(errs[loser], pkgerrors.ErrInvalidTransition),
		"loser should see a conflict, got %v", errs[loser])

	gotDon, err := repo.Donation.GetByID(ctx, d.DonationID)
	require.NoError(t, err)
	require.NotNil(t, gotDon.AssignedRequestID)
	assert.Equal(t, requests[winner].RequestFBID, *gotDon.AssignedRequestID)

	lost, err := repo.RequestFB.GetByID(ctx, requests[loser].RequestFBID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestFBPending, lost.Status)
}
