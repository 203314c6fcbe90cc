package auth

import "github.com/spec-kit/news-portal/internal/domain"

// CanMutate decides whether a requester may update or delete a resource.
// Pure over its inputs: permitted iff the requester authored the resource or
// holds the admin role. Controllers must resolve existence (404) before
// calling this.
func CanMutate(requesterID, resourceAuthorID string, requesterRole domain.UserRole) bool {
	if requesterRole == domain.UserRoleAdmin {
		return true
	}
	return requesterID != "" && requesterID == resourceAuthorID
}
