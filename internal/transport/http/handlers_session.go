package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"laurelid/internal/platform/middleware"
	"laurelid/pkg/platform/httputil"
)

// SessionHandler reports and resumes the scan session.
type SessionHandler struct {
	session  SessionController
	status   StatusView
	settings SettingsLoader
	logger   *slog.Logger
}

func NewSessionHandler(session SessionController, status StatusView, settings SettingsLoader, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{session: session, status: status, settings: settings, logger: logger}
}

func (h *SessionHandler) Register(r chi.Router) {
	r.Get("/session", h.HandleGet)
}

func (h *SessionHandler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/session/resume", h.HandleResume)
}

// HandleGet handles GET /session.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	resp := sessionResponse{
		State:      h.session.State().String(),
		Processing: h.session.Processing(),
	}
	if h.status != nil {
		view := h.status.View()
		resp.Busy = view.Busy
		if view.Decision != nil {
			d := fromDecision(*view.Decision)
			resp.Decision = &d
		}
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleResume handles POST /admin/session/resume. Settings are re-read and
// handed to the session driver.
func (h *SessionHandler) HandleResume(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings, err := h.settings()
	if err != nil {
		h.logger.ErrorContext(ctx, "unable to reload session settings",
			"request_id", chimw.GetReqID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.session.Resume(settings)
	h.logger.InfoContext(ctx, "session resumed",
		"request_id", chimw.GetReqID(ctx),
		"operator", middleware.GetOperator(ctx),
		"trust_ttl", settings.TrustTTL.String(),
		"demo_mode", settings.DemoMode,
	)
	httputil.WriteJSON(w, http.StatusOK, fromSettings(settings))
}
