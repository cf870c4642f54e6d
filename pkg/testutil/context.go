package testutil

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"driveops/pkg/requestcontext"
)

// WithAdmin adds an admin ID to the request context, simulating what the
// auth middleware does for authenticated requests.
func WithAdmin(req *http.Request, adminID uuid.UUID) *http.Request {
	return req.WithContext(requestcontext.WithAdminID(req.Context(), adminID))
}

// WithRequestTime pins the request clock, so expiry classification in the
// handler chain is deterministic.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
