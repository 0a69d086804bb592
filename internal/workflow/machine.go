// Package workflow defines the status machines of the workflow entities and the
// authorizer that gates every transition on role, ownership and edge validity.
package workflow

import "github.com/ygyuri/foodbank-management-system/internal/permission"

// Edge is one allowed (action, from → to) move. An empty From matches any state.
type Edge[S ~string] struct {
	Action permission.Action
	From   []S
	To     S
}

// Machine is the state graph of one entity's status field.
type Machine[S ~string] struct {
	subject  permission.Subject
	initial  S
	states   []S
	terminal map[S]bool
	edges    []Edge[S]
	// actions where from == to is an error instead of a no-op
	strict map[permission.Action]bool
}

// Subject the entity kind this machine governs.
func (m *Machine[S]) Subject() permission.Subject { return m.subject }

// Initial status every new record starts in.
func (m *Machine[S]) Initial() S { return m.initial }

// States all statuses of the entity.
func (m *Machine[S]) States() []S { return append([]S(nil), m.states...) }

// IsTerminal reports statuses with no outgoing edges other than admin overrides.
func (m *Machine[S]) IsTerminal(s S) bool { return m.terminal[s] }

// Has reports whether s belongs to the state set.
func (m *Machine[S]) Has(s S) bool {
	for _, st := range m.states {
		if st == s {
			return true
		}
	}
	return false
}

// Can reports whether action moves from → to.
func (m *Machine[S]) Can(action permission.Action, from, to S) bool {
	for _, e := range m.edges {
		if e.Action != action || e.To != to {
			continue
		}
		if len(e.From) == 0 {
			return true
		}
		for _, f := range e.From {
			if f == from {
				return true
			}
		}
	}
	return false
}

// IsNoOp reports a request that leaves the status as it is and is accepted silently.
func (m *Machine[S]) IsNoOp(action permission.Action, from, to S) bool {
	return from == to && !m.strict[action] && m.hasAction(action, to)
}

// Targets lists statuses reachable from `from` through action.
func (m *Machine[S]) Targets(action permission.Action, from S) []S {
	var out []S
	for _, s := range m.states {
		if s != from && m.Can(action, from, s) {
			out = append(out, s)
		}
	}
	return out
}

func (m *Machine[S]) hasAction(action permission.Action, to S) bool {
	for _, e := range m.edges {
		if e.Action == action && e.To == to {
			return true
		}
	}
	return false
}

// graph erases the status type so the authorizer can hold every machine in one map.
type graph interface {
	can(action permission.Action, from, to string) bool
	noOp(action permission.Action, from, to string) bool
}

func (m *Machine[S]) can(action permission.Action, from, to string) bool {
	return m.Can(action, S(from), S(to))
}

func (m *Machine[S]) noOp(action permission.Action, from, to string) bool {
	return m.IsNoOp(action, S(from), S(to))
}

// StatusAction maps the target of a generic status update to the permission it needs.
// Approving and rejecting are separate grants so roles can hold one without the other.
func StatusAction[S ~string](to S) permission.Action {
	switch string(to) {
	case "approved":
		return permission.ActionApprove
	case "rejected":
		return permission.ActionReject
	default:
		return permission.ActionUpdateStatus
	}
}
