package apperr

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode string
	}{
		{
			name:         "already normalized error returned as is",
			err:          Forbidden("you do not own this meeting"),
			expectedCode: CodeForbidden,
		},
		{
			name:         "unique violation becomes conflict",
			err:          &pgconn.PgError{Code: "23505"},
			expectedCode: CodeConflict,
		},
		{
			name:         "other pg error becomes internal",
			err:          &pgconn.PgError{Code: "23503"},
			expectedCode: CodeInternal,
		},
		{
			name:         "arbitrary error becomes internal",
			err:          errors.New("pq: relation does not exist"),
			expectedCode: CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.expectedCode, got.Code)
		})
	}
}

func TestNormalizeWrappedAppError(t *testing.T) {
	inner := NotFound("meeting not found")
	wrapped := errors.Join(errors.New("service.meeting.Update"), inner)

	got := Normalize(wrapped)
	assert.Equal(t, CodeNotFound, got.Code)
	assert.Equal(t, "meeting not found", got.Message)
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:5432: connection refused")
	got := Internal(cause)

	assert.Equal(t, "internal server error", got.Message)
	assert.NotContains(t, got.Message, "5432")
	assert.ErrorIs(t, got, cause)

	ext := got.Extensions()
	assert.Equal(t, CodeInternal, ext["code"])
	assert.NotContains(t, ext, "details")
}

func TestExtensionsWithDetails(t *testing.T) {
	got := Invalid("email", "must be a valid email address")

	ext := got.Extensions()
	assert.Equal(t, CodeBadUserInput, ext["code"])

	details, ok := ext["details"].([]FieldIssue)
	require.True(t, ok)
	require.Len(t, details, 1)
	assert.Equal(t, "email", details[0].Field)
}

func TestInvalidCredentialsUniformShape(t *testing.T) {
	a := InvalidCredentials()
	b := InvalidCredentials()

	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, CodeUnauthenticated, a.Code)
}
