package httptransport

import (
	"context"

	"laurelid/internal/session"
	"laurelid/internal/status"
	"laurelid/internal/trust"
	"laurelid/internal/verification"
)

// SessionController is the view of the scan session the bridge drives.
type SessionController interface {
	SubmitQR(payload string) error
	SubmitNFC(mimeType string, payload []byte) error
	State() session.State
	Processing() bool
	Resume(settings session.Settings)
}

// StatusView exposes what the kiosk screen should show.
type StatusView interface {
	View() status.View
}

// TrustService is the admin view of the trust store.
type TrustService interface {
	Refresh(ctx context.Context) (trust.List, error)
	Snapshot() trust.Snapshot
}

// DecisionLog returns recent decisions.
type DecisionLog interface {
	Latest(ctx context.Context, n int) ([]verification.Decision, error)
}

// SettingsLoader re-reads session settings, as on kiosk resume.
type SettingsLoader func() (session.Settings, error)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error
