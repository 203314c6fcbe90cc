package util

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassThrough(t *testing.T) {
	original := NewForbidden("Not authorized to update this article")

	de := ToDomainError(original)
	require.Equal(t, http.StatusForbidden, de.HTTPStatus)
	require.Equal(t, "FORBIDDEN", de.Code)
	require.Equal(t, "Not authorized to update this article", de.Message)
}

func TestToDomainError_NoRowsIsNotFound(t *testing.T) {
	for _, err := range []error{pgx.ErrNoRows, sql.ErrNoRows} {
		de := ToDomainError(err)
		require.Equal(t, http.StatusNotFound, de.HTTPStatus, err)
		require.Equal(t, "NOT_FOUND", de.Code, err)
	}
}

func TestToDomainError_UnknownIsInternal(t *testing.T) {
	de := ToDomainError(errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	require.Equal(t, "INTERNAL_ERROR", de.Code)
	require.ErrorContains(t, de, "boom")
}

func TestMapError_NilStaysNil(t *testing.T) {
	require.NoError(t, MapError(nil))
	require.Error(t, MapError(errors.New("boom")))
}

func TestSelfActionForbidden(t *testing.T) {
	de := ToDomainError(NewSelfActionForbidden("Admins cannot delete their own account"))
	require.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	require.Equal(t, "SELF_ACTION_FORBIDDEN", de.Code)
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	de := ToDomainError(cause)
	require.ErrorIs(t, de, cause)
}
