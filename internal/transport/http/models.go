package httptransport

import (
	"time"

	"laurelid/internal/session"
	"laurelid/internal/verification"
)

type decisionResponse struct {
	ID        string    `json:"id"`
	Success   bool      `json:"success"`
	AgeOver21 bool      `json:"age_over_21"`
	Issuer    string    `json:"issuer"`
	SubjectID string    `json:"subject_id"`
	DocType   string    `json:"doc_type"`
	ErrorCode string    `json:"error_code,omitempty"`
	Channel   string    `json:"channel"`
	DecidedAt time.Time `json:"decided_at"`
}

func fromDecision(d verification.Decision) decisionResponse {
	return decisionResponse{
		ID:        d.ID.String(),
		Success:   d.Success,
		AgeOver21: d.AgeOver21,
		Issuer:    d.Issuer,
		SubjectID: d.SubjectID,
		DocType:   d.DocType,
		ErrorCode: d.ErrorCode,
		Channel:   string(d.Channel),
		DecidedAt: d.DecidedAt,
	}
}

type sessionResponse struct {
	State      string            `json:"state"`
	Processing bool              `json:"processing"`
	Busy       bool              `json:"busy"`
	Decision   *decisionResponse `json:"decision,omitempty"`
}

type settingsResponse struct {
	TrustTTLSeconds int64  `json:"trust_ttl_seconds"`
	DemoMode        bool   `json:"demo_mode"`
	DemoIntervalMS  int64  `json:"demo_interval_ms"`
	DemoIssuer      string `json:"demo_issuer,omitempty"`
}

func fromSettings(s session.Settings) settingsResponse {
	return settingsResponse{
		TrustTTLSeconds: int64(s.TrustTTL / time.Second),
		DemoMode:        s.DemoMode,
		DemoIntervalMS:  s.DemoInterval.Milliseconds(),
		DemoIssuer:      s.DemoIssuer,
	}
}

type trustListResponse struct {
	Entries    int        `json:"entries"`
	Issuers    []string   `json:"issuers"`
	FetchedAt  *time.Time `json:"fetched_at,omitempty"`
	AgeSeconds *int64     `json:"age_seconds,omitempty"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
