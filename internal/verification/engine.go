package verification

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"laurelid/internal/trust"
	"laurelid/internal/verification/metrics"
)

var tracer = otel.Tracer("laurelid/internal/verification")

// TrustResolver is the view of the trust store the engine needs.
type TrustResolver interface {
	GetOrRefresh(ctx context.Context, maxAge time.Duration) (trust.List, error)
	Cached() (trust.List, bool)
}

// Engine turns a parsed credential into an accept/reject decision. It reads
// the trust store and mutates nothing.
type Engine struct {
	trust   TrustResolver
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEngine(resolver TrustResolver, opts ...Option) *Engine {
	e := &Engine{
		trust:  resolver,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide resolves the trust list under maxCacheAge and applies Evaluate.
// Trust resolution failures never surface as errors: the engine degrades to
// the cached list and then to an empty one, which rejects every issuer.
func (e *Engine) Decide(ctx context.Context, cred Credential, maxCacheAge time.Duration) Decision {
	ctx, span := tracer.Start(ctx, "verification.decide")
	defer span.End()
	start := time.Now()

	list := e.resolveTrust(ctx, maxCacheAge)
	success, reason := Evaluate(cred, list)

	switch reason {
	case ReasonUntrustedIssuer, ReasonUntrustedMinor:
		e.logger.WarnContext(ctx, "issuer not trusted by current list", "issuer", cred.Issuer)
	}
	if !cred.AgeOver21 {
		e.logger.WarnContext(ctx, "age policy not satisfied", "subject_id", cred.SubjectID)
	}

	errorCode := ""
	if !success {
		errorCode = ErrorCodeUntrustedOrUnderage
	}
	decision := newDecision(cred, success, errorCode, e.now())

	e.metrics.IncrementDecision(decision.Outcome(), string(reason))
	e.metrics.ObserveDecideLatency(time.Since(start))
	span.SetAttributes(
		attribute.String("credential.issuer", cred.Issuer),
		attribute.Bool("decision.success", success),
		attribute.String("decision.reason", string(reason)),
	)
	return decision
}

func (e *Engine) resolveTrust(ctx context.Context, maxCacheAge time.Duration) trust.List {
	list, err := e.trust.GetOrRefresh(ctx, maxCacheAge)
	if err == nil {
		return list
	}

	e.logger.WarnContext(ctx, "trust list fetch failed, falling back to cache", "error", err)
	if cached, ok := e.trust.Cached(); ok {
		e.metrics.IncrementFallback("cached")
		return cached
	}
	e.metrics.IncrementFallback("empty")
	return trust.List{}
}
