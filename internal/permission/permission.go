// Package permission holds the static role → permission table consulted before every
// read or transition. The table is built once; evaluation is a pure lookup.
package permission

import "github.com/ygyuri/foodbank-management-system/internal/model"

// Action is a verb a role may be granted on a subject.
type Action string

const (
	ActionView           Action = "view"
	ActionCreate         Action = "create"
	ActionUpdate         Action = "update"
	ActionDelete         Action = "delete"
	ActionUpdateStatus   Action = "update_status"
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionReset          Action = "reset"
	ActionAssignFoodbank Action = "assign_foodbank"
	ActionDeliver        Action = "deliver"
	ActionComplete       Action = "complete"
	ActionFulfill        Action = "fulfill"
)

// Subject is the kind of record an action targets.
type Subject string

const (
	SubjectUser            Subject = "user"
	SubjectDonation        Subject = "donation"
	SubjectDonationRequest Subject = "donation_request"
	SubjectRequestFB       Subject = "request_fb"
	SubjectFeedback        Subject = "feedback"
	SubjectSubscription    Subject = "subscription"
	SubjectNotification    Subject = "notification"
	SubjectReport          Subject = "report"
)

// Scope says how far a grant reaches.
type Scope int

const (
	// ScopeNone no grant.
	ScopeNone Scope = iota
	// ScopeOwn only records the actor owns.
	ScopeOwn
	// ScopeAny every record.
	ScopeAny
)

// Permission pairs an action with its subject.
type Permission struct {
	Subject Subject
	Action  Action
}

// Context carries the ownership facts for one evaluation.
type Context struct {
	IsOwner bool
}

// Policy role → permission set.
type Policy struct {
	grants map[model.Role]map[Permission]Scope
}

// NewPolicy builds the table. Admin holds every permission with ScopeAny.
func NewPolicy() *Policy {
	ownOf := func(subject Subject, actions ...Action) map[Permission]Scope {
		m := make(map[Permission]Scope, len(actions))
		for _, a := range actions {
			m[Permission{Subject: subject, Action: a}] = ScopeOwn
		}
		return m
	}
	anyOf := func(subject Subject, actions ...Action) map[Permission]Scope {
		m := make(map[Permission]Scope, len(actions))
		for _, a := range actions {
			m[Permission{Subject: subject, Action: a}] = ScopeAny
		}
		return m
	}
	merge := func(sets ...map[Permission]Scope) map[Permission]Scope {
		out := make(map[Permission]Scope)
		for _, s := range sets {
			for k, v := range s {
				out[k] = v
			}
		}
		return out
	}

	// every role: own profile, own notifications, feedback they send or receive
	common := merge(
		ownOf(SubjectUser, ActionView, ActionUpdate),
		ownOf(SubjectNotification, ActionView, ActionUpdate),
		anyOf(SubjectFeedback, ActionCreate),
		ownOf(SubjectFeedback, ActionView, ActionUpdate, ActionDelete),
	)

	return &Policy{grants: map[model.Role]map[Permission]Scope{
		model.RoleDonor: merge(common,
			anyOf(SubjectDonation, ActionCreate),
			ownOf(SubjectDonation, ActionView, ActionUpdate, ActionDelete,
				ActionUpdateStatus, ActionDeliver, ActionComplete),
			ownOf(SubjectDonationRequest, ActionView),
			ownOf(SubjectReport, ActionView),
		),
		model.RoleFoodbank: merge(common,
			ownOf(SubjectDonation, ActionView, ActionApprove, ActionReject,
				ActionAssignFoodbank, ActionComplete),
			anyOf(SubjectDonationRequest, ActionCreate),
			ownOf(SubjectDonationRequest, ActionView, ActionUpdate, ActionApprove, ActionReject),
			ownOf(SubjectRequestFB, ActionView, ActionUpdateStatus, ActionApprove, ActionReject, ActionFulfill),
			ownOf(SubjectSubscription, ActionView),
		),
		model.RoleRecipient: merge(common,
			anyOf(SubjectRequestFB, ActionCreate),
			ownOf(SubjectRequestFB, ActionView, ActionUpdate, ActionDelete),
		),
	}}
}

// Scope returns the reach of the grant, ScopeNone when the role lacks it.
func (p *Policy) Scope(role model.Role, action Action, subject Subject) Scope {
	if role == model.RoleAdmin {
		return ScopeAny
	}
	set, ok := p.grants[role]
	if !ok {
		return ScopeNone
	}
	return set[Permission{Subject: subject, Action: action}]
}

// Has reports whether the role holds the permission at any scope.
func (p *Policy) Has(role model.Role, action Action, subject Subject) bool {
	return p.Scope(role, action, subject) != ScopeNone
}

// IsAllowed evaluates one request against the table.
func (p *Policy) IsAllowed(role model.Role, action Action, subject Subject, ctx Context) bool {
	switch p.Scope(role, action, subject) {
	case ScopeAny:
		return true
	case ScopeOwn:
		return ctx.IsOwner
	default:
		return false
	}
}
