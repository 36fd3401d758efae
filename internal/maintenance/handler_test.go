package maintenance

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"charger-api/internal/observability"
)

func TestCleanupHandlerAuth(t *testing.T) {
	logger := observability.NewLogger()

	t.Run("hidden without secret", func(t *testing.T) {
		handler := NewCleanupHandler(nil, logger, "", 30*24*time.Hour, 500)

		req := httptest.NewRequest(http.MethodPost, "/internal/maintenance/cleanup", nil)
		rec := httptest.NewRecorder()
		handler.Handle(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		handler := NewCleanupHandler(nil, logger, "cron-secret", 30*24*time.Hour, 500)

		req := httptest.NewRequest(http.MethodPost, "/internal/maintenance/cleanup", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		rec := httptest.NewRecorder()
		handler.Handle(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects missing header", func(t *testing.T) {
		handler := NewCleanupHandler(nil, logger, "cron-secret", 30*24*time.Hour, 500)

		req := httptest.NewRequest(http.MethodGet, "/internal/maintenance/cleanup", nil)
		rec := httptest.NewRecorder()
		handler.Handle(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
