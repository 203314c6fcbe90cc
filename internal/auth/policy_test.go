package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/news-portal/internal/domain"
)

func TestCanMutate_TruthTable(t *testing.T) {
	cases := []struct {
		name        string
		requesterID string
		authorID    string
		role        domain.UserRole
		want        bool
	}{
		{"owner non-admin", "u1", "u1", domain.UserRoleUser, true},
		{"owner admin", "u1", "u1", domain.UserRoleAdmin, true},
		{"non-owner non-admin", "u1", "u2", domain.UserRoleUser, false},
		{"non-owner admin", "u1", "u2", domain.UserRoleAdmin, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CanMutate(tc.requesterID, tc.authorID, tc.role))
		})
	}
}

func TestCanMutate_EmptyRequester(t *testing.T) {
	// an unresolved identity never matches, even against an empty author
	require.False(t, CanMutate("", "", domain.UserRoleUser))
	require.True(t, CanMutate("", "u1", domain.UserRoleAdmin))
}
