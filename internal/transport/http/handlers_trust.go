package httptransport

import (
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"laurelid/internal/platform/middleware"
	"laurelid/internal/trust"
	"laurelid/pkg/platform/httputil"
)

// TrustHandler exposes the trust store.
type TrustHandler struct {
	trust  TrustService
	logger *slog.Logger
	now    func() time.Time
}

func NewTrustHandler(trust TrustService, logger *slog.Logger) *TrustHandler {
	return &TrustHandler{trust: trust, logger: logger, now: time.Now}
}

func (h *TrustHandler) Register(r chi.Router) {
	r.Get("/trustlist", h.HandleGet)
}

func (h *TrustHandler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/trustlist/refresh", h.HandleRefresh)
}

// HandleGet handles GET /trustlist. Trust tokens are never returned.
func (h *TrustHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.describe(h.trust.Snapshot()))
}

// HandleRefresh handles POST /admin/trustlist/refresh.
func (h *TrustHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimw.GetReqID(ctx)

	if _, err := h.trust.Refresh(ctx); err != nil {
		h.logger.WarnContext(ctx, "manual trust list refresh failed",
			"request_id", requestID,
			"error", err,
		)
		if trust.IsFetchError(err) {
			httputil.WriteError(w, httputil.Unavailable("trust_list_unavailable", string(trust.GetCategory(err))))
			return
		}
		httputil.WriteError(w, err)
		return
	}

	snap := h.trust.Snapshot()
	h.logger.InfoContext(ctx, "trust list refreshed by operator",
		"request_id", requestID,
		"operator", middleware.GetOperator(ctx),
		"entries", len(snap.List),
	)
	httputil.WriteJSON(w, http.StatusOK, h.describe(snap))
}

func (h *TrustHandler) describe(snap trust.Snapshot) trustListResponse {
	resp := trustListResponse{
		Entries: len(snap.List),
		Issuers: slices.Sorted(maps.Keys(snap.List)),
	}
	if resp.Issuers == nil {
		resp.Issuers = []string{}
	}
	if !snap.IsZero() {
		fetchedAt := snap.FetchedAt
		age := int64(snap.Age(h.now()) / time.Second)
		resp.FetchedAt = &fetchedAt
		resp.AgeSeconds = &age
	}
	return resp
}
