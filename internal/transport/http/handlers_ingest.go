package httptransport

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"laurelid/pkg/platform/httputil"
)

// maxPayloadBytes bounds a single scan payload.
const maxPayloadBytes = 64 << 10

// IngestHandler accepts scans from the native camera and NFC components.
type IngestHandler struct {
	session SessionController
	logger  *slog.Logger
}

func NewIngestHandler(session SessionController, logger *slog.Logger) *IngestHandler {
	return &IngestHandler{session: session, logger: logger}
}

func (h *IngestHandler) Register(r chi.Router) {
	r.Post("/ingest/qr", h.HandleQR)
	r.Post("/ingest/nfc", h.HandleNFC)
}

// HandleQR handles POST /ingest/qr. The body is the decoded QR text.
func (h *IngestHandler) HandleQR(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.readPayload(w, r)
	if !ok {
		return
	}
	h.respond(w, r, "qr", h.session.SubmitQR(string(payload)))
}

// HandleNFC handles POST /ingest/nfc. The body is the NDEF record payload and
// Content-Type carries the record type.
func (h *IngestHandler) HandleNFC(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.readPayload(w, r)
	if !ok {
		return
	}
	h.respond(w, r, "nfc", h.session.SubmitNFC(recordType(r.Header.Get("Content-Type")), payload))
}

func (h *IngestHandler) readPayload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		h.logger.WarnContext(r.Context(), "unreadable scan payload",
			"request_id", chimw.GetReqID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, httputil.BadRequest("payload unreadable or too large"))
		return nil, false
	}
	return payload, true
}

func (h *IngestHandler) respond(w http.ResponseWriter, r *http.Request, channel string, err error) {
	if err != nil {
		h.logger.InfoContext(r.Context(), "scan not queued",
			"request_id", chimw.GetReqID(r.Context()),
			"channel", channel,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// recordType strips parameters from a Content-Type header.
func recordType(contentType string) string {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return mediaType
	}
	return strings.TrimSpace(contentType)
}
