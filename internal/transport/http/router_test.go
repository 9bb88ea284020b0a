package httptransport

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks SessionController,StatusView,TrustService,DecisionLog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	jwttoken "laurelid/internal/jwt_token"
	"laurelid/internal/session"
	"laurelid/internal/status"
	"laurelid/internal/transport/http/mocks"
	"laurelid/internal/trust"
	"laurelid/internal/verification"
	"laurelid/pkg/platform/sentinel"
	"laurelid/pkg/testutil"
)

// =============================================================================
// Kiosk Bridge Router Test Suite
// =============================================================================

type RouterSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	session   *mocks.MockSessionController
	status    *mocks.MockStatusView
	trust     *mocks.MockTrustService
	decisions *mocks.MockDecisionLog
	settings  session.Settings
	router    http.Handler
	jwt       *jwttoken.JWTService
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.session = mocks.NewMockSessionController(s.ctrl)
	s.status = mocks.NewMockStatusView(s.ctrl)
	s.trust = mocks.NewMockTrustService(s.ctrl)
	s.decisions = mocks.NewMockDecisionLog(s.ctrl)
	s.settings = session.Settings{TrustTTL: time.Hour, DemoMode: true, DemoInterval: 2500 * time.Millisecond}
	s.jwt = jwttoken.NewJWTService("router-test-key", jwttoken.DefaultIssuer, jwttoken.DefaultAudience)

	s.router = NewRouter(Dependencies{
		Session:   s.session,
		Status:    s.status,
		Trust:     s.trust,
		Decisions: s.decisions,
		Settings:  func() (session.Settings, error) { return s.settings, nil },
		Admin:     jwttoken.NewJWTServiceAdapter(s.jwt),
		Health: map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
		},
	}, slog.New(slog.DiscardHandler))
}

func (s *RouterSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RouterSuite) do(req *http.Request) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, req)
}

func (s *RouterSuite) adminToken() string {
	token, err := s.jwt.GenerateAdminToken("store-manager", time.Hour)
	s.Require().NoError(err)
	return token
}

func (s *RouterSuite) admin(method, path string) *http.Request {
	return testutil.NewAdminRequest(s.T(), method, path, s.adminToken())
}

func (s *RouterSuite) get(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}

// =============================================================================
// Ingest Tests
// =============================================================================

func (s *RouterSuite) TestIngestQR() {
	s.Run("queued scan returns 202", func() {
		s.session.EXPECT().SubmitQR(`{"issuer":"AZ-MVD"}`).Return(nil)

		rec := s.do(testutil.NewScanRequest(s.T(), "/ingest/qr", "text/plain", `{"issuer":"AZ-MVD"}`))
		s.Equal(http.StatusAccepted, rec.Code)
		s.Contains(rec.Body.String(), "queued")
	})

	s.Run("saturated session returns 409", func() {
		s.session.EXPECT().SubmitQR(gomock.Any()).Return(fmt.Errorf("qr scan dropped: %w", sentinel.ErrBusy))

		rec := s.do(testutil.NewScanRequest(s.T(), "/ingest/qr", "", "payload"))
		testutil.AssertStatusAndError(s.T(), rec, http.StatusConflict, "busy")
	})

	s.Run("oversized payload returns 400", func() {
		rec := s.do(testutil.NewScanRequest(s.T(), "/ingest/qr", "", strings.Repeat("x", maxPayloadBytes+1)))
		testutil.AssertStatusAndError(s.T(), rec, http.StatusBadRequest, "bad_request")
	})
}

func (s *RouterSuite) TestIngestNFC() {
	s.session.EXPECT().SubmitNFC(session.MDLMimeType, []byte("record")).Return(nil)

	rec := s.do(testutil.NewScanRequest(s.T(), "/ingest/nfc", session.MDLMimeType+"; charset=binary", "record"))
	s.Equal(http.StatusAccepted, rec.Code)
}

// =============================================================================
// Session Tests
// =============================================================================

func (s *RouterSuite) TestGetSession() {
	decision := verification.Decision{ID: uuid.New(), Success: true, Issuer: "AZ-MVD", Channel: verification.ChannelQR}
	s.session.EXPECT().State().Return(session.StateScanning)
	s.session.EXPECT().Processing().Return(false)
	s.status.EXPECT().View().Return(status.View{State: session.StateScanning, Decision: &decision})

	rec := s.do(s.get("/session"))
	s.Require().Equal(http.StatusOK, rec.Code)

	body := testutil.DecodeJSON[sessionResponse](s.T(), rec)
	s.Equal("scanning", body.State)
	s.False(body.Processing)
	s.Require().NotNil(body.Decision)
	s.Equal(decision.ID.String(), body.Decision.ID)
	s.True(body.Decision.Success)
}

func (s *RouterSuite) TestResumeSession() {
	s.Run("requires admin token", func() {
		rec := s.do(testutil.NewAdminRequest(s.T(), http.MethodPost, "/admin/session/resume", ""))
		testutil.AssertStatusAndError(s.T(), rec, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("re-applies settings", func() {
		s.session.EXPECT().Resume(s.settings)

		rec := s.do(s.admin(http.MethodPost, "/admin/session/resume"))
		s.Require().Equal(http.StatusOK, rec.Code)

		body := testutil.DecodeJSON[settingsResponse](s.T(), rec)
		s.EqualValues(3600, body.TrustTTLSeconds)
		s.True(body.DemoMode)
		s.EqualValues(2500, body.DemoIntervalMS)
	})
}

// =============================================================================
// Trust List Tests
// =============================================================================

func (s *RouterSuite) TestGetTrustList() {
	s.Run("empty store", func() {
		s.trust.EXPECT().Snapshot().Return(trust.Snapshot{})

		rec := s.do(s.get("/trustlist"))
		s.Require().Equal(http.StatusOK, rec.Code)

		body := testutil.DecodeJSON[trustListResponse](s.T(), rec)
		s.Zero(body.Entries)
		s.Empty(body.Issuers)
		s.Nil(body.FetchedAt)
	})

	s.Run("loaded store lists issuers without tokens", func() {
		s.trust.EXPECT().Snapshot().Return(trust.Snapshot{
			List:      trust.List{"CA-DMV": "secret-ca", "AZ-MVD": "secret-az"},
			FetchedAt: time.Now().Add(-time.Minute),
		})

		rec := s.do(s.get("/trustlist"))
		s.Require().Equal(http.StatusOK, rec.Code)
		s.NotContains(rec.Body.String(), "secret")

		body := testutil.DecodeJSON[trustListResponse](s.T(), rec)
		s.Equal(2, body.Entries)
		s.Equal([]string{"AZ-MVD", "CA-DMV"}, body.Issuers)
		s.Require().NotNil(body.AgeSeconds)
		s.GreaterOrEqual(*body.AgeSeconds, int64(59))
	})
}

func (s *RouterSuite) TestRefreshTrustList() {
	s.Run("success returns new snapshot", func() {
		s.trust.EXPECT().Refresh(gomock.Any()).Return(trust.List{"AZ-MVD": "t"}, nil)
		s.trust.EXPECT().Snapshot().Return(trust.Snapshot{List: trust.List{"AZ-MVD": "t"}, FetchedAt: time.Now()})

		rec := s.do(s.admin(http.MethodPost, "/admin/trustlist/refresh"))
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("source failure returns 503 with category", func() {
		s.trust.EXPECT().Refresh(gomock.Any()).Return(nil,
			trust.NewFetchError(trust.CategoryTimeout, "trust_list", "deadline exceeded", context.DeadlineExceeded))

		rec := s.do(s.admin(http.MethodPost, "/admin/trustlist/refresh"))
		s.Equal(http.StatusServiceUnavailable, rec.Code)
		s.Contains(rec.Body.String(), "timeout")
	})
}

// =============================================================================
// Verification Log Tests
// =============================================================================

func (s *RouterSuite) TestLatestVerifications() {
	s.Run("defaults n", func() {
		s.decisions.EXPECT().Latest(gomock.Any(), 0).Return([]verification.Decision{
			{ID: uuid.New(), Success: false, ErrorCode: verification.ErrorCodeUntrustedOrUnderage},
		}, nil)

		rec := s.do(s.admin(http.MethodGet, "/admin/verifications"))
		s.Require().Equal(http.StatusOK, rec.Code)

		body := testutil.DecodeJSON[[]decisionResponse](s.T(), rec)
		s.Require().Len(body, 1)
		s.Equal(verification.ErrorCodeUntrustedOrUnderage, body[0].ErrorCode)
	})

	s.Run("invalid n", func() {
		rec := s.do(s.admin(http.MethodGet, "/admin/verifications?n=abc"))
		testutil.AssertStatusAndError(s.T(), rec, http.StatusBadRequest, "bad_request")
	})

	s.Run("store failure hides details", func() {
		s.decisions.EXPECT().Latest(gomock.Any(), 5).Return(nil, errors.New("connection reset"))

		rec := s.do(s.admin(http.MethodGet, "/admin/verifications?n=5"))
		testutil.AssertStatusAndError(s.T(), rec, http.StatusInternalServerError, "internal_error")
		s.NotContains(rec.Body.String(), "connection reset")
	})
}

// =============================================================================
// Health Tests
// =============================================================================

func (s *RouterSuite) TestHealth() {
	rec := s.do(s.get("/healthz"))
	s.Require().Equal(http.StatusOK, rec.Code)

	body := testutil.DecodeJSON[healthResponse](s.T(), rec)
	s.Equal("ok", body.Status)
	s.Equal("ok", body.Checks["postgres"])
}

func TestHealthDegraded(t *testing.T) {
	h := NewHealthHandler(map[string]HealthCheck{
		"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
	})
	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "degraded") {
		t.Fatalf("expected degraded status, got %s", rec.Body.String())
	}
}

func TestAdminRoutesDisabledWithoutValidator(t *testing.T) {
	router := NewRouter(Dependencies{}, slog.New(slog.DiscardHandler))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/trustlist/refresh", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCORSForKioskUI(t *testing.T) {
	router := NewRouter(Dependencies{AllowedOrigins: []string{"http://kiosk.local"}}, slog.New(slog.DiscardHandler))

	req := httptest.NewRequest(http.MethodOptions, "/session", nil)
	req.Header.Set("Origin", "http://kiosk.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://kiosk.local" {
		t.Fatalf("expected kiosk origin to be allowed, got %q", got)
	}
}
