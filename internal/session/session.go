package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"laurelid/internal/session/metrics"
	"laurelid/internal/verification"
	"laurelid/pkg/platform/sentinel"
)

// DefaultIngressSize bounds the number of scans queued for the driver.
const DefaultIngressSize = 16

// ErrAlreadyRunning is returned when Run is called on a session that is
// already being driven.
var ErrAlreadyRunning = fmt.Errorf("session already running: %w", sentinel.ErrInvalidState)

// Session is the kiosk scanning state machine. At most one credential is in
// flight at any time.
//
// Scan events from every channel enter through one ingress queue consumed by
// the goroutine running Run. That goroutine owns the in-flight guard, the
// state transitions and the demo ticker. Verification and recording run on a
// worker goroutine whose completion is handed back to the driver.
type Session struct {
	parser   Parser
	verifier Verifier
	recorder Recorder
	observer Observer

	ingress chan arrival
	done    chan outcome
	resumed chan struct{}

	settingsMu sync.Mutex
	pending    Settings

	state      atomic.Int32
	processing atomic.Bool
	running    atomic.Bool

	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*Session)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		if r != nil {
			s.recorder = r
		}
	}
}

func WithObserver(o Observer) Option {
	return func(s *Session) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithSettings sets the settings applied when Run starts.
func WithSettings(settings Settings) Option {
	return func(s *Session) {
		s.pending = settings
	}
}

func WithIngressSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.ingress = make(chan arrival, n)
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a session in the Scanning state. It does nothing until Run.
func New(parser Parser, verifier Verifier, opts ...Option) (*Session, error) {
	if parser == nil {
		return nil, errors.New("credential parser is required")
	}
	if verifier == nil {
		return nil, errors.New("verifier is required")
	}
	s := &Session{
		parser:   parser,
		verifier: verifier,
		recorder: Recorders(),
		observer: Observers(),
		ingress:  make(chan arrival, DefaultIngressSize),
		done:     make(chan outcome, 1),
		resumed:  make(chan struct{}, 1),
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Store(int32(StateScanning))
	return s, nil
}

// State returns the current session state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Processing reports whether a credential is in flight.
func (s *Session) Processing() bool {
	return s.processing.Load()
}

// Settings returns the most recently requested settings.
func (s *Session) Settings() Settings {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	return s.pending
}

// Resume re-applies settings, as when the kiosk screen returns to the
// foreground. The running driver picks them up on its next iteration; the
// last call wins.
func (s *Session) Resume(settings Settings) {
	s.settingsMu.Lock()
	s.pending = settings
	s.settingsMu.Unlock()

	select {
	case s.resumed <- struct{}{}:
	default:
	}
}

// SubmitQR queues a decoded QR payload.
func (s *Session) SubmitQR(payload string) error {
	return s.Submit(QREvent(payload))
}

// SubmitNFC queues a discovered NDEF record.
func (s *Session) SubmitNFC(mimeType string, payload []byte) error {
	return s.Submit(NFCEvent(mimeType, payload))
}

// Submit queues a scan event without blocking. It returns sentinel.ErrBusy
// when a credential is already in flight or the queue is full. A busy event
// is still handed to the driver so observers hear about it, but it never
// starts a verification.
func (s *Session) Submit(ev Event) error {
	in := arrival{Event: ev, busy: acceptable(ev) && s.processing.Load()}
	select {
	case s.ingress <- in:
	default:
		s.metrics.IncrementBusy(string(ev.Channel))
		return fmt.Errorf("%s scan dropped: %w", ev.Channel, sentinel.ErrBusy)
	}
	if in.busy {
		return fmt.Errorf("%s scan rejected: %w", ev.Channel, sentinel.ErrBusy)
	}
	return nil
}

// arrival is a queued event and whether a cycle was in flight when it was
// submitted.
type arrival struct {
	Event
	busy bool
}

// Run drives the session until ctx is done. A cycle in flight when ctx ends
// is allowed to finish, so Run returns only after its decision has been
// recorded and reported.
func (s *Session) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	d := &driver{Session: s}
	defer d.stopDemo()

	d.applySettings(s.Settings())
	s.observer.StateChanged(StateScanning)
	s.logger.InfoContext(ctx, "scan session started",
		"trust_ttl", d.settings.TrustTTL.String(),
		"demo_mode", d.settings.DemoMode,
	)

	for {
		select {
		case <-ctx.Done():
			d.stopDemo()
			if s.processing.Load() {
				s.logger.InfoContext(ctx, "waiting for in-flight verification")
				d.complete(ctx, <-s.done)
			}
			s.logger.InfoContext(ctx, "scan session stopped")
			return ctx.Err()

		case <-s.resumed:
			d.applySettings(s.Settings())

		case in := <-s.ingress:
			d.handle(ctx, in.Event, in.busy)

		case <-d.demoTick:
			if s.processing.Load() {
				continue
			}
			d.handle(ctx, d.nextDemoEvent(), false)

		case out := <-s.done:
			d.complete(ctx, out)
		}
	}
}

// driver holds state touched only by the goroutine executing Run.
type driver struct {
	*Session

	settings   Settings
	demo       *time.Ticker
	demoTick   <-chan time.Time
	demoPeriod time.Duration
	demoSeq    int

	cycleStart time.Time
	channel    verification.Channel
}

func (d *driver) applySettings(settings Settings) {
	d.settings = settings
	if !settings.DemoMode {
		d.stopDemo()
		return
	}
	period := settings.demoInterval()
	if d.demo != nil && d.demoPeriod == period {
		return
	}
	d.stopDemo()
	d.demo = time.NewTicker(period)
	d.demoTick = d.demo.C
	d.demoPeriod = period
	d.demoSeq = 0
}

func (d *driver) stopDemo() {
	if d.demo == nil {
		return
	}
	d.demo.Stop()
	d.demo = nil
	d.demoTick = nil
}

func (d *driver) handle(ctx context.Context, ev Event, arrivedBusy bool) {
	if !acceptable(ev) {
		d.metrics.IncrementIgnored(string(ev.Channel))
		d.logger.DebugContext(ctx, "ignoring scan without credential payload",
			"channel", string(ev.Channel),
			"mime_type", ev.MIMEType,
		)
		return
	}
	if arrivedBusy || d.processing.Load() {
		d.metrics.IncrementBusy(string(ev.Channel))
		d.logger.InfoContext(ctx, "scan rejected, verification in progress", "channel", string(ev.Channel))
		d.observer.Busy(ev.Channel)
		return
	}

	d.processing.Store(true)
	d.cycleStart = d.now()
	d.channel = ev.Channel
	d.setState(StateVerifying)
	d.logger.InfoContext(ctx, "credential received", "channel", string(ev.Channel))

	go d.cycle(context.WithoutCancel(ctx), ev, d.settings.TrustTTL)
}

func (d *driver) complete(ctx context.Context, out outcome) {
	d.rejectQueued(ctx)

	decision := out.decision
	d.observer.Decided(decision)
	d.setState(StateResult)
	d.setState(StateScanning)
	d.processing.Store(false)

	d.metrics.ObserveCycle(string(d.channel), out.label(), d.now().Sub(d.cycleStart))
	d.logger.InfoContext(ctx, "verification complete",
		"channel", string(d.channel),
		"success", decision.Success,
		"issuer", decision.Issuer,
		"error_code", decision.ErrorCode,
		"duration_ms", d.now().Sub(d.cycleStart).Milliseconds(),
	)
}

// rejectQueued reports every event that queued up during the cycle as busy.
// Must run while processing is still set.
func (d *driver) rejectQueued(ctx context.Context) {
	for {
		select {
		case in := <-d.ingress:
			d.handle(ctx, in.Event, true)
		default:
			return
		}
	}
}

func (d *driver) setState(state State) {
	if State(d.state.Swap(int32(state))) == state {
		return
	}
	d.observer.StateChanged(state)
}

// acceptable filters events that carry no credential.
func acceptable(ev Event) bool {
	if len(ev.Payload) == 0 {
		return false
	}
	if ev.Channel == verification.ChannelNFC {
		return ev.MIMEType == MDLMimeType
	}
	return true
}
