package httptransport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"driveops/internal/audit"
	auditHandler "driveops/internal/audit/handler"
	compHandler "driveops/internal/compliance/handler"
	compMocks "driveops/internal/compliance/handler/mocks"
	driverHandler "driveops/internal/drivers/handler"
	driverMocks "driveops/internal/drivers/handler/mocks"
	"driveops/internal/jwttoken"
)

type stubCheck struct {
	err error
}

func (c stubCheck) Health(context.Context) error { return c.err }

// newFullRouter assembles the router exactly as cmd/server does, with both
// domain handlers registered on the same parent.
func newFullRouter(t *testing.T, checks map[string]HealthChecker) http.Handler {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	tokens := jwttoken.NewService("test-signing-key", "driveops", "driveops-admin")

	return NewRouter(checks,
		compHandler.New(compMocks.NewMockService(ctrl), logger, tokens),
		driverHandler.New(driverMocks.NewMockService(ctrl), logger, tokens),
		auditHandler.New(audit.NewInMemory(), logger, tokens),
	)
}

func TestRouterComposesBothDomains(t *testing.T) {
	router := newFullRouter(t, nil)

	// A route from each domain must resolve on the shared router; auth
	// rejecting the request (rather than a 404) proves it was routed.
	for _, path := range []string{"/admin/documents", "/admin/drivers", "/admin/audit-events"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "route %s not reachable", path)
	}
}

func TestRouterHealth(t *testing.T) {
	t.Run("healthy dependencies report ok", func(t *testing.T) {
		router := newFullRouter(t, map[string]HealthChecker{"postgres": stubCheck{}})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"ok"`)
	})

	t.Run("a failing dependency degrades the report", func(t *testing.T) {
		router := newFullRouter(t, map[string]HealthChecker{
			"postgres": stubCheck{err: errors.New("connection refused")},
		})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Contains(t, rr.Body.String(), `"degraded"`)
	})
}
