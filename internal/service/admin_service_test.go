package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/news-portal/internal/domain"
	apperrors "github.com/spec-kit/news-portal/pkg/util"
)

type adminFixture struct {
	svc      *AdminService
	users    *fakeUserRepo
	articles *fakeArticleRepo
	comments *fakeCommentRepo
	views    *fakeViewCounter
	admin    *domain.User
	member   *domain.User
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	f := &adminFixture{
		users:    newFakeUserRepo(),
		articles: newFakeArticleRepo(),
		comments: newFakeCommentRepo(),
		views:    newFakeViewCounter(),
	}
	f.svc = NewAdminService(f.users, f.articles, f.comments, f.views, zap.NewNop())

	ctx := context.Background()
	f.admin = &domain.User{Name: "Root", Email: "root@example.com", Role: domain.UserRoleAdmin, Status: domain.UserStatusActive}
	require.NoError(t, f.users.Create(ctx, f.admin))
	f.member = &domain.User{Name: "Member", Email: "member@example.com", Role: domain.UserRoleUser, Status: domain.UserStatusActive}
	require.NoError(t, f.users.Create(ctx, f.member))
	return f
}

func TestChangeUserRole_PromoteAndDemote(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	promoted, err := f.svc.ChangeUserRole(ctx, f.admin.ID, f.member.ID, domain.UserRoleAdmin)
	require.NoError(t, err)
	require.Equal(t, domain.UserRoleAdmin, promoted.Role)

	demoted, err := f.svc.ChangeUserRole(ctx, f.admin.ID, f.member.ID, domain.UserRoleUser)
	require.NoError(t, err)
	require.Equal(t, domain.UserRoleUser, demoted.Role)
}

func TestChangeUserRole_SelfIsRefused(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	_, err := f.svc.ChangeUserRole(ctx, f.admin.ID, f.admin.ID, domain.UserRoleUser)
	requireDomainError(t, err, http.StatusBadRequest, "Admins cannot change their own role")
	de := apperrors.ToDomainError(err)
	require.Equal(t, "SELF_ACTION_FORBIDDEN", de.Code)

	// still an admin
	stored, err := f.users.GetByID(ctx, f.admin.ID)
	require.NoError(t, err)
	require.Equal(t, domain.UserRoleAdmin, stored.Role)
}

func TestChangeUserRole_UnknownRole(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.ChangeUserRole(context.Background(), f.admin.ID, f.member.ID, domain.UserRole("SUPERUSER"))
	requireDomainError(t, err, http.StatusBadRequest, "unknown role")
}

func TestChangeUserRole_MissingTarget(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.ChangeUserRole(context.Background(), f.admin.ID, "missing", domain.UserRoleAdmin)
	requireDomainError(t, err, http.StatusNotFound, "user not found")
}

func TestDeleteUser(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.DeleteUser(ctx, f.admin.ID, f.member.ID))
	_, err := f.users.GetByID(ctx, f.member.ID)
	require.Error(t, err)

	err = f.svc.DeleteUser(ctx, f.admin.ID, f.member.ID)
	requireDomainError(t, err, http.StatusNotFound, "user not found")
}

func TestDeleteUser_SelfIsRefused(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	err := f.svc.DeleteUser(ctx, f.admin.ID, f.admin.ID)
	requireDomainError(t, err, http.StatusBadRequest, "Admins cannot delete their own account")
	de := apperrors.ToDomainError(err)
	require.Equal(t, "SELF_ACTION_FORBIDDEN", de.Code)

	// account survives
	_, err = f.users.GetByID(ctx, f.admin.ID)
	require.NoError(t, err)
}

func TestListUsers_DefaultLimit(t *testing.T) {
	f := newAdminFixture(t)

	users, err := f.svc.ListUsers(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestStats(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	article := &domain.Article{AuthorID: f.member.ID, Title: "One", Slug: "one"}
	require.NoError(t, f.articles.Create(ctx, article))
	comment := &domain.Comment{ArticleID: article.ID, AuthorID: f.member.ID, Body: "hi"}
	require.NoError(t, f.comments.Create(ctx, comment))

	require.NoError(t, f.views.Increment(ctx, article.ID))
	require.NoError(t, f.views.Increment(ctx, article.ID))

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.Users)
	require.EqualValues(t, 1, stats.Articles)
	require.EqualValues(t, 1, stats.Comments)
	require.Len(t, stats.TopViewed, 1)
	require.Equal(t, article.ID, stats.TopViewed[0].ArticleID)
	require.EqualValues(t, 2, stats.TopViewed[0].Views)
}

func TestStats_NoViewCounter(t *testing.T) {
	f := newAdminFixture(t)
	svc := NewAdminService(f.users, f.articles, f.comments, nil, zap.NewNop())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Empty(t, stats.TopViewed)
}
