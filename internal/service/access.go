package service

import (
	"fmt"

	"github.com/ygyuri/foodbank-management-system/internal/model"
	"github.com/ygyuri/foodbank-management-system/internal/permission"
	"github.com/ygyuri/foodbank-management-system/internal/workflow"
	pkgerrors "github.com/ygyuri/foodbank-management-system/pkg/errors"
)

// requireAnyScope for listings across every owner, which only admins hold.
func requireAnyScope(authz *workflow.Authorizer, actor workflow.Actor, action permission.Action, subject permission.Subject) error {
	if authz.Policy().Scope(actor.Role, action, subject) == permission.ScopeAny {
		return nil
	}
	return fmt.Errorf("%w: role %s cannot %s every %s", pkgerrors.ErrUnauthorized, actor.Role, action, subject)
}

// requireGrant role holds the permission at any scope.
func requireGrant(authz *workflow.Authorizer, actor workflow.Actor, action permission.Action, subject permission.Subject) error {
	if authz.Policy().Has(actor.Role, action, subject) {
		return nil
	}
	return fmt.Errorf("%w: role %s cannot %s %s", pkgerrors.ErrUnauthorized, actor.Role, action, subject)
}

func isAdmin(actor workflow.Actor) bool { return actor.Role == model.RoleAdmin }

func strPtr(s string) *string { return &s }
