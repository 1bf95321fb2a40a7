// Package authz holds the access policy: pure functions of principal role
// and resource ownership. No I/O, no request types.
package authz

import "github.com/deskops/servicedesk/internal/domain"

// CanReadTicket reports whether a role may read a ticket. Admin and support
// read everything; a user only their own.
func CanReadTicket(role domain.Role, actorID, creatorID int64) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleSupport:
		return true
	case domain.RoleUser:
		return actorID == creatorID
	}
	return false
}

// CanChangeStatus reports whether a role may change ticket status.
func CanChangeStatus(role domain.Role) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleSupport:
		return true
	case domain.RoleUser:
		return false
	}
	return false
}

// CanAssign reports whether a role may assign tickets.
func CanAssign(role domain.Role) bool {
	return CanChangeStatus(role)
}

// CanRate reports whether the actor may rate the ticket: creator-only, and
// only while the ticket sits in resolved or closed.
func CanRate(actorID, creatorID int64, status domain.TicketStatus) bool {
	if actorID != creatorID {
		return false
	}
	return status == domain.TicketStatusResolved || status == domain.TicketStatusClosed
}

// CanSeeInternalComments reports whether internal comments are visible.
func CanSeeInternalComments(role domain.Role) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleSupport:
		return true
	case domain.RoleUser:
		return false
	}
	return false
}

// CanDeleteComment is author-only, regardless of role. An admin cannot
// delete another's comment.
func CanDeleteComment(actorID, authorID int64) bool {
	return actorID == authorID
}

// CanListUsers reports whether a role may list accounts.
func CanListUsers(role domain.Role) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleSupport:
		return true
	case domain.RoleUser:
		return false
	}
	return false
}

// CanManageUsers covers block, delete, support-account creation and
// admin edits. Admin only.
func CanManageUsers(role domain.Role) bool {
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleSupport, domain.RoleUser:
		return false
	}
	return false
}

// CanViewUser reports whether the actor may read another account's profile.
func CanViewUser(role domain.Role, actorID, targetID int64) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleSupport:
		return true
	case domain.RoleUser:
		return actorID == targetID
	}
	return false
}

// CanEditProfile reports whether the actor may update the target profile.
// Users edit themselves; admin edits anyone; support edits itself.
func CanEditProfile(role domain.Role, actorID, targetID int64) bool {
	if role == domain.RoleAdmin {
		return true
	}
	return actorID == targetID
}

// CanDeleteUser enforces admin-only deletion with self-protection.
func CanDeleteUser(role domain.Role, actorID, targetID int64) bool {
	if !CanManageUsers(role) {
		return false
	}
	return actorID != targetID
}
