// Package pos records accepted and rejected sales checks at the point of sale.
package pos

import (
	"context"
	"log/slog"

	"laurelid/internal/verification"
)

// Recorder logs each decision as a POS transaction.
// TODO: hand decisions to the local receipt printer once the hardware driver is chosen.
type Recorder struct {
	logger *slog.Logger
}

func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Recorder{logger: logger}
}

func (r *Recorder) Record(ctx context.Context, d verification.Decision) error {
	r.logger.DebugContext(ctx, "recorded verification result",
		"decision_id", d.ID.String(),
		"subject_id", d.SubjectID,
		"success", d.Success,
	)
	return nil
}
