package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"africonnect/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (v stubValidator) ValidateToken(string) (*JWTClaims, error) { return v.claims, v.err }

func serve(t *testing.T, v JWTValidator, header string) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()
	var seen *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
		w.WriteHeader(http.StatusNoContent)
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	req := httptest.NewRequest(http.MethodGet, "/contracts", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	RequireAuth(v, logger)(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New()

	t.Run("valid token sets actor", func(t *testing.T) {
		rec, seen := serve(t, stubValidator{claims: &JWTClaims{UserID: userID.String(), Role: "client"}}, "Bearer tok")

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, userID.String(), requestcontext.UserID(seen.Context()).String())
		assert.Equal(t, "client", requestcontext.Role(seen.Context()))
	})

	tests := []struct {
		name   string
		v      JWTValidator
		header string
	}{
		{"missing header", stubValidator{}, ""},
		{"wrong scheme", stubValidator{}, "Basic abc"},
		{"empty bearer", stubValidator{}, "Bearer "},
		{"invalid token", stubValidator{err: errors.New("expired")}, "Bearer tok"},
		{"malformed subject", stubValidator{claims: &JWTClaims{UserID: "nope"}}, "Bearer tok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, seen := serve(t, tt.v, tt.header)

			assert.Nil(t, seen)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error":"unauthorized"`)
		})
	}
}
