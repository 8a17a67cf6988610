package auth

import "github.com/spec-kit/incident-portal/internal/domain"

// Permission checks are pure functions over the acting user. A nil actor
// means the request is unauthenticated.

// IsManager reports whether the actor holds the Manager role.
func IsManager(actor *domain.User) bool {
	return actor != nil && actor.Role == domain.RoleManager
}

// IsTechnician reports whether the actor is technician-or-higher.
func IsTechnician(actor *domain.User) bool {
	return actor != nil && (actor.Role == domain.RoleManager || actor.Role == domain.RoleTechnician)
}

// CanCreate allows any authenticated user to report incidents.
func CanCreate(actor *domain.User) bool {
	return actor != nil
}

// CanUpdate gates status and assignment updates.
func CanUpdate(actor *domain.User) bool {
	return IsTechnician(actor)
}

// CanDelete gates hard deletion.
func CanDelete(actor *domain.User) bool {
	return IsManager(actor)
}

// CanAssign reports whether the actor may move the assignment from current to
// target. Managers assign freely; everyone else may only assign themself or
// remove themself. Both sides are judged against the pre-mutation assignee.
func CanAssign(actor *domain.User, target, current *int64) bool {
	if actor == nil {
		return false
	}
	if IsManager(actor) {
		return true
	}
	if target != nil {
		return *target == actor.ID
	}
	return current != nil && *current == actor.ID
}
