package verification

//go:generate mockgen -source=engine.go -destination=mocks/mocks.go -package=mocks TrustResolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"laurelid/internal/trust"
	"laurelid/internal/verification/mocks"
)

// =============================================================================
// Engine Test Suite
// =============================================================================
// Age and trust are independent gates combined by AND. Trust resolution
// degrades from fresh to cached to empty without ever raising.

type EngineSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	resolver *mocks.MockTrustResolver
	engine   *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.resolver = mocks.NewMockTrustResolver(s.ctrl)
	s.engine = NewEngine(s.resolver)
}

var adult = Credential{
	Issuer:    "AZ-MVD",
	SubjectID: "did:example:123",
	DocType:   "org.iso.18013.5.1.mDL",
	AgeOver21: true,
}

// =============================================================================
// Decision Tests
// =============================================================================

func (s *EngineSuite) TestTrustedAdultIsAccepted() {
	s.resolver.EXPECT().GetOrRefresh(gomock.Any(), time.Hour).Return(trust.List{"AZ-MVD": "az"}, nil)

	d := s.engine.Decide(context.Background(), adult, time.Hour)
	s.True(d.Success)
	s.False(d.HasError())
	s.Equal("AZ-MVD", d.Issuer)
	s.Equal("did:example:123", d.SubjectID)
	s.Equal("org.iso.18013.5.1.mDL", d.DocType)
	s.True(d.AgeOver21)
	s.NotEqual([16]byte{}, [16]byte(d.ID))
}

func (s *EngineSuite) TestEmptyListRejectsEveryIssuer() {
	s.resolver.EXPECT().GetOrRefresh(gomock.Any(), gomock.Any()).Return(trust.List{}, nil)

	d := s.engine.Decide(context.Background(), adult, time.Hour)
	s.False(d.Success)
	s.Equal(ErrorCodeUntrustedOrUnderage, d.ErrorCode)
}

func (s *EngineSuite) TestUnknownIssuerRejected() {
	s.resolver.EXPECT().GetOrRefresh(gomock.Any(), gomock.Any()).Return(trust.List{"CA-DMV": "ca"}, nil)

	d := s.engine.Decide(context.Background(), adult, time.Hour)
	s.False(d.Success)
	s.Equal(ErrorCodeUntrustedOrUnderage, d.ErrorCode)
}

func (s *EngineSuite) TestUnderageRejectedEvenWhenTrusted() {
	s.resolver.EXPECT().GetOrRefresh(gomock.Any(), gomock.Any()).Return(trust.List{"AZ-MVD": "az"}, nil)

	minor := adult
	minor.AgeOver21 = false
	d := s.engine.Decide(context.Background(), minor, time.Hour)
	s.False(d.Success)
	s.False(d.AgeOver21)
	s.Equal(ErrorCodeUntrustedOrUnderage, d.ErrorCode)
}

// =============================================================================
// Trust Fallback Tests
// =============================================================================

func (s *EngineSuite) TestFetchFailureFallsBackToCache() {
	s.resolver.EXPECT().GetOrRefresh(gomock.Any(), gomock.Any()).
		Return(nil, trust.NewFetchError(trust.CategoryOutage, "test", "down", errors.New("refused")))
	s.resolver.EXPECT().Cached().Return(trust.List{"AZ-MVD": "az"}, true)

	d := s.engine.Decide(context.Background(), adult, time.Hour)
	s.True(d.Success)
}

func (s *EngineSuite) TestFetchFailureWithoutCacheRejects() {
	s.resolver.EXPECT().GetOrRefresh(gomock.Any(), gomock.Any()).
		Return(nil, trust.NewFetchError(trust.CategoryOutage, "test", "down", nil))
	s.resolver.EXPECT().Cached().Return(nil, false)

	d := s.engine.Decide(context.Background(), adult, time.Hour)
	s.False(d.Success)
	s.Equal(ErrorCodeUntrustedOrUnderage, d.ErrorCode)
}

// =============================================================================
// Rule Table
// =============================================================================

func TestEvaluate(t *testing.T) {
	list := trust.List{"AZ-MVD": "az"}
	tests := []struct {
		name    string
		cred    Credential
		list    trust.List
		success bool
		reason  Reason
	}{
		{"trusted adult", Credential{Issuer: "AZ-MVD", AgeOver21: true}, list, true, ReasonAllChecksPassed},
		{"trusted minor", Credential{Issuer: "AZ-MVD"}, list, false, ReasonUnderage},
		{"untrusted adult", Credential{Issuer: "XX", AgeOver21: true}, list, false, ReasonUntrustedIssuer},
		{"untrusted minor", Credential{Issuer: "XX"}, list, false, ReasonUntrustedMinor},
		{"nil list", Credential{Issuer: "AZ-MVD", AgeOver21: true}, nil, false, ReasonUntrustedIssuer},
		{"empty issuer on empty list", Credential{AgeOver21: true}, trust.List{}, false, ReasonUntrustedIssuer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			success, reason := Evaluate(tt.cred, tt.list)
			if success != tt.success || reason != tt.reason {
				t.Fatalf("Evaluate() = (%v, %s), want (%v, %s)", success, reason, tt.success, tt.reason)
			}
		})
	}
}

func TestFailedDecision(t *testing.T) {
	d := FailedDecision(adult, errors.New("malformed payload"))
	if d.Success {
		t.Fatal("expected failed decision")
	}
	if d.ErrorCode != "malformed payload" {
		t.Fatalf("expected message-derived error code, got %q", d.ErrorCode)
	}
	if d.Issuer != adult.Issuer {
		t.Fatalf("expected credential fields mirrored, got issuer %q", d.Issuer)
	}

	if d := FailedDecision(Credential{}, nil); d.ErrorCode != "Verification failure" {
		t.Fatalf("expected default error code, got %q", d.ErrorCode)
	}
}
