package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubValidator struct {
	claims *AdminClaims
	err    error
}

func (v stubValidator) ValidateToken(string) (*AdminClaims, error) {
	return v.claims, v.err
}

func TestRequireAdmin(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetOperator(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		header     string
		validator  stubValidator
		wantStatus int
		wantOp     string
	}{
		{
			name:       "missing header",
			validator:  stubValidator{claims: &AdminClaims{Operator: "ops"}},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			header:     "Basic abc",
			validator:  stubValidator{claims: &AdminClaims{Operator: "ops"}},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			header:     "Bearer nope",
			validator:  stubValidator{err: errors.New("invalid token")},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			header:     "Bearer good",
			validator:  stubValidator{claims: &AdminClaims{Operator: "ops"}},
			wantStatus: http.StatusNoContent,
			wantOp:     "ops",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodPost, "/admin/trustlist/refresh", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			RequireAdmin(tt.validator, logger)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOp, seen)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), `"error":"unauthorized"`)
			}
		})
	}
}

func TestClientMetadata(t *testing.T) {
	var ip, ua string
	h := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip = GetClientIP(r.Context())
		ua = GetUserAgent(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/verifications", nil)
	req.RemoteAddr = "[fe80::1]:51234"
	req.Header.Set("User-Agent", "kiosk-admin/1.0")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "fe80::1", ip)
	assert.Equal(t, "kiosk-admin/1.0", ua)
	assert.Empty(t, GetClientIP(req.Context()), "metadata must not leak into the caller's context")
}
