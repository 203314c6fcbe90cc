package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/news-portal/internal/config"
	"github.com/spec-kit/news-portal/internal/domain"
	"github.com/spec-kit/news-portal/internal/events"
	apperrors "github.com/spec-kit/news-portal/pkg/util"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			AccessTokenSecret:          "unit-test-access-secret",
			RefreshTokenSecret:         "unit-test-refresh-secret",
			AccessTokenTTLHours:        24,
			RefreshTokenTTLHours:       168,
			VerificationTokenTTLMinute: 60,
			Issuer:                     "news-portal",
			Audience:                   "news-portal-clients",
			BcryptCost:                 4,
		},
	}
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeRevocationStore, *captureDispatcher) {
	t.Helper()
	users := newFakeUserRepo()
	revoked := newFakeRevocationStore()
	dispatcher := &captureDispatcher{}
	svc := NewAuthService(testConfig(), AuthDependencies{
		UserRepo:        users,
		RevocationStore: revoked,
		Dispatcher:      dispatcher,
	}, zap.NewNop())
	return svc, users, revoked, dispatcher
}

func requireDomainError(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	require.Equal(t, status, de.HTTPStatus)
	require.Equal(t, message, de.Message)
}

func TestRegister_CreatesUserAndEmitsEvent(t *testing.T) {
	svc, users, _, dispatcher := newAuthFixture(t)
	ctx := context.Background()

	user, verification, err := svc.Register(ctx, "Ada", "Ada@Example.COM", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "ada@example.com", user.Email)
	require.Equal(t, domain.UserRoleUser, user.Role)
	require.False(t, user.EmailVerified)
	require.NotEqual(t, "s3cret-pass", user.PasswordHash)
	require.NotEmpty(t, verification)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, stored.Email)

	registered := dispatcher.ofType(events.EventUserRegistered)
	require.Len(t, registered, 1)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Ada", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "Imposter", "ada@example.com", "other-pass")
	requireDomainError(t, err, http.StatusConflict, "email already registered")
}

func TestLogin_HappyPath(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "Ada", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	user, pair, err := svc.Login(ctx, "ada@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	require.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	claims, err := svc.TokenManager().ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, domain.UserRoleUser, claims.Role)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Ada", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "s3cret-pass")
		requireDomainError(t, err, http.StatusBadRequest, "Invalid email or password")
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "ada@example.com", "wrong-pass")
		requireDomainError(t, err, http.StatusBadRequest, "Invalid email or password")
	})
}

func TestLogin_SuspendedAccount(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "Ada", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	user.Status = domain.UserStatusSuspended
	require.NoError(t, users.Update(ctx, user))

	_, _, err = svc.Login(ctx, "ada@example.com", "s3cret-pass")
	requireDomainError(t, err, http.StatusForbidden, "account suspended")
}

func TestRefresh_IssuesNewAccessToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Ada", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)
	user, pair, err := svc.Login(ctx, "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	access, _, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.TokenManager().ParseAccessToken(access)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, user.Role, claims.Role)
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, _, err := svc.Refresh(context.Background(), "not-a-token")
	requireDomainError(t, err, http.StatusForbidden, "Invalid or expired refresh token")
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Ada", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = svc.Refresh(ctx, pair.AccessToken)
	requireDomainError(t, err, http.StatusForbidden, "Invalid or expired refresh token")
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	svc, _, revoked, _ := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Ada", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	// usable before logout
	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
	require.NotEmpty(t, revoked.revoked)

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	requireDomainError(t, err, http.StatusForbidden, "Invalid or expired refresh token")
}

func TestLogout_UnparseableTokenStillSucceeds(t *testing.T) {
	svc, _, revoked, _ := newAuthFixture(t)

	require.NoError(t, svc.Logout(context.Background(), "junk"))
	require.Empty(t, revoked.revoked)
}

func TestVerifyEmail(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	ctx := context.Background()

	user, verification, err := svc.Register(ctx, "Ada", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	require.NoError(t, svc.VerifyEmail(ctx, verification))
	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, stored.EmailVerified)

	// idempotent
	require.NoError(t, svc.VerifyEmail(ctx, verification))

	err = svc.VerifyEmail(ctx, "garbage")
	requireDomainError(t, err, http.StatusBadRequest, "Invalid or expired verification token")
}

func TestChangePassword(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "Ada", "ada@example.com", "old-pass-123")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "wrong-pass", "new-pass-123")
	requireDomainError(t, err, http.StatusBadRequest, "Current password is incorrect")

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "old-pass-123", "new-pass-123"))

	_, _, err = svc.Login(ctx, "ada@example.com", "old-pass-123")
	requireDomainError(t, err, http.StatusBadRequest, "Invalid email or password")
	_, _, err = svc.Login(ctx, "ada@example.com", "new-pass-123")
	require.NoError(t, err)
}
