package workflow

import (
	"fmt"

	"github.com/ygyuri/foodbank-management-system/internal/model"
	"github.com/ygyuri/foodbank-management-system/internal/permission"
	pkgerrors "github.com/ygyuri/foodbank-management-system/pkg/errors"
)

// DenyReason why a transition was refused.
type DenyReason string

const (
	DenyUnauthorized      DenyReason = "unauthorized"
	DenyNotOwner          DenyReason = "not_owner"
	DenyInvalidTransition DenyReason = "invalid_transition"
)

// Actor the authenticated caller.
type Actor struct {
	ID   string
	Role model.Role
}

// Request one transition to evaluate.
type Request struct {
	Actor   Actor
	Subject permission.Subject
	Action  permission.Action
	Owners  permission.OwnerKeys
	From    string
	To      string
}

// Decision outcome of Authorize. NoOp is set on an allowed request that leaves the status unchanged.
type Decision struct {
	Allowed bool
	NoOp    bool
	Reason  DenyReason
	Detail  string
}

// Err converts a denial into the error taxonomy, nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case DenyUnauthorized:
		return fmt.Errorf("%w: %s", pkgerrors.ErrUnauthorized, d.Detail)
	case DenyNotOwner:
		return fmt.Errorf("%w: %s", pkgerrors.ErrNotOwner, d.Detail)
	default:
		return fmt.Errorf("%w: %s", pkgerrors.ErrInvalidTransition, d.Detail)
	}
}

// Authorizer gates transitions. Holds no mutable state and is safe for concurrent use.
type Authorizer struct {
	policy   *permission.Policy
	machines map[permission.Subject]graph
}

// NewAuthorizer wires the policy with the four entity machines.
func NewAuthorizer(policy *permission.Policy) *Authorizer {
	return &Authorizer{
		policy: policy,
		machines: map[permission.Subject]graph{
			permission.SubjectUser:            UserMachine,
			permission.SubjectDonation:        DonationMachine,
			permission.SubjectDonationRequest: DonationRequestMachine,
			permission.SubjectRequestFB:       RequestFBMachine,
		},
	}
}

// Policy exposes the permission table for non-transition checks (reads, edits).
func (a *Authorizer) Policy() *permission.Policy { return a.policy }

// Authorize checks permission, then ownership, then the edge.
func (a *Authorizer) Authorize(req Request) Decision {
	scope := a.policy.Scope(req.Actor.Role, req.Action, req.Subject)
	if scope == permission.ScopeNone {
		return Decision{
			Reason: DenyUnauthorized,
			Detail: fmt.Sprintf("role %s cannot %s %s", req.Actor.Role, req.Action, req.Subject),
		}
	}
	if scope == permission.ScopeOwn && !req.Owners.Owns(req.Actor.Role, req.Actor.ID) {
		return Decision{
			Reason: DenyNotOwner,
			Detail: fmt.Sprintf("%s does not belong to the caller", req.Subject),
		}
	}

	m, ok := a.machines[req.Subject]
	if !ok {
		return Decision{Reason: DenyInvalidTransition, Detail: fmt.Sprintf("%s has no status workflow", req.Subject)}
	}
	if m.noOp(req.Action, req.From, req.To) {
		return Decision{Allowed: true, NoOp: true}
	}
	if !m.can(req.Action, req.From, req.To) {
		return Decision{
			Reason: DenyInvalidTransition,
			Detail: fmt.Sprintf("cannot %s %s from %s to %s", req.Action, req.Subject, req.From, req.To),
		}
	}
	return Decision{Allowed: true}
}

// Check permission and ownership only, for actions that do not move a status.
func (a *Authorizer) Check(actor Actor, action permission.Action, subject permission.Subject, owners permission.OwnerKeys) error {
	ctx := permission.Context{IsOwner: owners.Owns(actor.Role, actor.ID)}
	if a.policy.IsAllowed(actor.Role, action, subject, ctx) {
		return nil
	}
	if a.policy.Has(actor.Role, action, subject) {
		return fmt.Errorf("%w: %s does not belong to the caller", pkgerrors.ErrNotOwner, subject)
	}
	return fmt.Errorf("%w: role %s cannot %s %s", pkgerrors.ErrUnauthorized, actor.Role, action, subject)
}
