package permission

import "github.com/ygyuri/foodbank-management-system/internal/model"

// OwnerKeys are the foreign keys that can make an actor the owner of a record.
// Self covers records owned directly by a user (profile, notification, feedback sender).
type OwnerKeys struct {
	Self      string
	Donor     string
	Foodbank  string
	Recipient string
}

// Owns picks the key that matters for the actor's role.
func (k OwnerKeys) Owns(role model.Role, actorID string) bool {
	if actorID == "" {
		return false
	}
	if k.Self != "" && k.Self == actorID {
		return true
	}
	switch role {
	case model.RoleDonor:
		return k.Donor == actorID
	case model.RoleFoodbank:
		return k.Foodbank == actorID
	case model.RoleRecipient:
		return k.Recipient == actorID
	case model.RoleAdmin:
		return true
	}
	return false
}

// Deref returns "" for a nil key.
func Deref(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}
