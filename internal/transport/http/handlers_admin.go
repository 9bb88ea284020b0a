package httptransport

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"laurelid/pkg/platform/httputil"
)

const maxLatest = 100

// VerificationsHandler serves the recent decision log.
type VerificationsHandler struct {
	decisions DecisionLog
	logger    *slog.Logger
}

func NewVerificationsHandler(decisions DecisionLog, logger *slog.Logger) *VerificationsHandler {
	return &VerificationsHandler{decisions: decisions, logger: logger}
}

func (h *VerificationsHandler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/verifications", h.HandleLatest)
}

// HandleLatest handles GET /admin/verifications?n=10.
func (h *VerificationsHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	n := 0
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxLatest {
			httputil.WriteError(w, httputil.BadRequest("n must be between 1 and 100"))
			return
		}
		n = parsed
	}

	decisions, err := h.decisions.Latest(ctx, n)
	if err != nil {
		h.logger.ErrorContext(ctx, "unable to load verification log",
			"request_id", chimw.GetReqID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	resp := make([]decisionResponse, 0, len(decisions))
	for _, d := range decisions {
		resp = append(resp, fromDecision(d))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
