package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"laurelid/internal/platform/middleware"
)

// Dependencies are the collaborators the kiosk bridge serves.
type Dependencies struct {
	Session   SessionController
	Status    StatusView
	Trust     TrustService
	Decisions DecisionLog
	Settings  SettingsLoader
	// Admin validates operator tokens. Admin routes are not mounted when nil.
	Admin   middleware.AdminValidator
	Health  map[string]HealthCheck
	Metrics http.Handler
	// AllowedOrigins enables CORS for the kiosk web UI.
	AllowedOrigins []string
}

// NewRouter wires the kiosk bridge endpoints. Handlers stay thin and delegate
// to the session and trust store.
func NewRouter(deps Dependencies, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.ClientMetadata)
	if len(deps.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: deps.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		}))
	}

	ingest := NewIngestHandler(deps.Session, logger)
	session := NewSessionHandler(deps.Session, deps.Status, deps.Settings, logger)
	trustHandler := NewTrustHandler(deps.Trust, logger)
	verifications := NewVerificationsHandler(deps.Decisions, logger)

	ingest.Register(r)
	session.Register(r)
	trustHandler.Register(r)
	NewHealthHandler(deps.Health).Register(r)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	if deps.Admin != nil {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(deps.Admin, logger))
			session.RegisterAdmin(r)
			trustHandler.RegisterAdmin(r)
			verifications.RegisterAdmin(r)
		})
	}
	return r
}
