package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	codec, clock := newTestCodec(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	var gotSubject string
	protected := Middleware(codec, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := SubjectFromContext(r.Context())
		require.True(t, ok)
		gotSubject = subject
		w.WriteHeader(http.StatusOK)
	}))

	access, err := codec.Issue("user-123", TokenKindAccess)
	require.NoError(t, err)
	refresh, err := codec.Issue("user-123", TokenKindRefresh)
	require.NoError(t, err)

	call := func(authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		return rec
	}

	t.Run("valid token", func(t *testing.T) {
		rec := call("Bearer " + access)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user-123", gotSubject)
	})

	t.Run("missing header", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, call("").Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, call("Bearer").Code)
		require.Equal(t, http.StatusUnauthorized, call("Basic "+access).Code)
		require.Equal(t, http.StatusUnauthorized, call("Bearer  ").Code)
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, call("Bearer "+refresh).Code)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		*clock = clock.Add(16 * time.Minute)
		require.Equal(t, http.StatusUnauthorized, call("Bearer "+access).Code)
	})
}
