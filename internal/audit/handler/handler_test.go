package handler

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"driveops/internal/audit"
	"driveops/internal/jwttoken"
	"driveops/internal/platform/middleware"
	"driveops/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	tokens  *jwttoken.Service
	adminID uuid.UUID
	token   string
}

func (s *HandlerSuite) SetupSuite() {
	s.tokens = jwttoken.NewService("test-signing-key", "driveops", "driveops-admin")
	s.adminID = uuid.New()

	token, err := s.tokens.GenerateAccessToken(s.adminID, middleware.RoleAdmin, time.Hour)
	s.Require().NoError(err)
	s.token = token
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) newHandler(trail audit.Store) *chi.Mux {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	r := chi.NewRouter()
	New(trail, logger, s.tokens).Register(r)
	return r
}

func (s *HandlerSuite) authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+s.token)
	return req
}

func (s *HandlerSuite) TestListAuditEvents() {
	s.Run("requires a token", func() {
		router := s.newHandler(audit.NewInMemory())

		req := testutil.NewRequest(s.T(), http.MethodGet, "/admin/audit-events")
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("defaults to the caller's own trail", func() {
		trail := audit.NewInMemory()
		s.Require().NoError(trail.Append(context.Background(), audit.Event{
			ID:      uuid.New(),
			AdminID: s.adminID,
			Action:  audit.ActionApprove,
			Detail:  "driving_licence",
			Device:  "Chrome on Mac OS X",
		}))
		s.Require().NoError(trail.Append(context.Background(), audit.Event{
			ID:      uuid.New(),
			AdminID: uuid.New(),
			Action:  audit.ActionReject,
		}))
		router := s.newHandler(trail)

		req := s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/admin/audit-events"))
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "total", float64(1))

		type listResponse struct {
			Events []struct {
				Action string `json:"action"`
				Device string `json:"device"`
			} `json:"events"`
		}
		resp := testutil.UnmarshalResponse[listResponse](s.T(), rr)
		s.Require().Len(resp.Events, 1)
		s.Equal(string(audit.ActionApprove), resp.Events[0].Action)
		s.Equal("Chrome on Mac OS X", resp.Events[0].Device)
	})

	s.Run("queries another admin by id", func() {
		trail := audit.NewInMemory()
		otherAdmin := uuid.New()
		s.Require().NoError(trail.Append(context.Background(), audit.Event{
			ID:      uuid.New(),
			AdminID: otherAdmin,
			Action:  audit.ActionActivate,
		}))
		router := s.newHandler(trail)

		req := s.authed(testutil.NewRequest(s.T(), http.MethodGet,
			"/admin/audit-events?admin_id="+otherAdmin.String()))
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "total", float64(1))
	})

	s.Run("rejects a malformed admin id", func() {
		router := s.newHandler(audit.NewInMemory())

		req := s.authed(testutil.NewRequest(s.T(), http.MethodGet,
			"/admin/audit-events?admin_id=not-a-uuid"))
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("an empty trail returns an empty list", func() {
		router := s.newHandler(audit.NewInMemory())

		req := s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/admin/audit-events"))
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "total", float64(0))
	})
}
