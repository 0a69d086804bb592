package service

import (
	"errors"

	pkgerrors "github.com/ygyuri/foodbank-management-system/pkg/errors"
)

// ── auth ──

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotApproved = pkgerrors.New(pkgerrors.ErrUnauthorized, "account is not approved yet")
	ErrEmailTaken         = pkgerrors.New(pkgerrors.ErrConflict, "email is already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// ── not found ──

var (
	ErrUserNotFound            = pkgerrors.New(pkgerrors.ErrNotFound, "user not found")
	ErrDonationNotFound        = pkgerrors.New(pkgerrors.ErrNotFound, "donation not found")
	ErrDonationRequestNotFound = pkgerrors.New(pkgerrors.ErrNotFound, "donation request not found")
	ErrRequestFBNotFound       = pkgerrors.New(pkgerrors.ErrNotFound, "request not found")
	ErrFeedbackNotFound        = pkgerrors.New(pkgerrors.ErrNotFound, "feedback not found")
	ErrSubscriptionNotFound    = pkgerrors.New(pkgerrors.ErrNotFound, "subscription not found")
	ErrNotificationNotFound    = pkgerrors.New(pkgerrors.ErrNotFound, "notification not found")
)

// ── workflow ──

var (
	ErrDonationCompleted       = pkgerrors.New(pkgerrors.ErrConflict, "donation is already completed")
	ErrFoodbankAlreadyAssigned = pkgerrors.New(pkgerrors.ErrInvalidTransition, "donation already has a foodbank")
	ErrDonationUnavailable     = pkgerrors.New(pkgerrors.ErrConflict, "donation is already assigned to a request")
	ErrRequestNotPending       = pkgerrors.New(pkgerrors.ErrConflict, "request is no longer pending")
	ErrConcurrentUpdate        = pkgerrors.New(pkgerrors.ErrConflict, "record was changed by another request, reload and retry")
	// ErrFulfillmentMismatch donation type or quantity does not cover the request.
	ErrFulfillmentMismatch = pkgerrors.New(pkgerrors.ErrValidation, "donation does not match the request type or quantity")
)

// ── validation ──

var (
	ErrInvalidStatus      = pkgerrors.New(pkgerrors.ErrValidation, "invalid status")
	ErrNotAFoodbank       = pkgerrors.New(pkgerrors.ErrValidation, "target user is not a foodbank")
	ErrNotADonor          = pkgerrors.New(pkgerrors.ErrValidation, "target user is not a donor")
	ErrNotARecipient      = pkgerrors.New(pkgerrors.ErrValidation, "target user is not a recipient")
	ErrDonorRequired      = pkgerrors.New(pkgerrors.ErrValidation, "donor_id is required")
	ErrFoodbankRequired   = pkgerrors.New(pkgerrors.ErrValidation, "foodbank_id is required")
	ErrRecipientRequired  = pkgerrors.New(pkgerrors.ErrValidation, "recipient_id is required")
	ErrInvalidDate        = pkgerrors.New(pkgerrors.ErrValidation, "dates must be YYYY-MM-DD")
	ErrInvalidDateRange   = pkgerrors.New(pkgerrors.ErrValidation, "subscription_ends_at must not be before trial_ends_at")
	ErrInvalidPeriod      = pkgerrors.New(pkgerrors.ErrValidation, "from must not be after to")
	ErrCannotDeleteAdmin  = pkgerrors.New(pkgerrors.ErrUnauthorized, "admin accounts cannot be deleted")
	ErrAdminStatusFixed   = pkgerrors.New(pkgerrors.ErrInvalidTransition, "admin accounts are not subject to approval")
	ErrFeedbackToSelf     = pkgerrors.New(pkgerrors.ErrValidation, "cannot leave feedback for yourself")
	ErrRequestNotEditable = pkgerrors.New(pkgerrors.ErrInvalidTransition, "only pending requests can be edited")
	ErrExportGenerateFail = errors.New("failed to generate export file")
)

// mapUpdateErr turns a lost optimistic-lock race into ErrConcurrentUpdate.
func mapUpdateErr(err error) error {
	if errors.Is(err, pkgerrors.ErrOptimisticLock) {
		return ErrConcurrentUpdate
	}
	return err
}

var ErrFoodbankOnCreate = pkgerrors.New(pkgerrors.ErrValidation, "only admins can set foodbank_id when creating a donation")

// isDomainErr reports errors from the taxonomy, which callers expect and need no error log.
func isDomainErr(err error) bool {
	var e *pkgerrors.Error
	return errors.As(err, &e)
}
