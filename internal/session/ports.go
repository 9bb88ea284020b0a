package session

import (
	"context"
	"errors"
	"time"

	"laurelid/internal/verification"
)

// Parser decodes raw scan payloads.
type Parser interface {
	ParseFromQR(payload string) (verification.Credential, error)
	ParseFromNFC(data []byte) (verification.Credential, error)
}

// Verifier produces the decision for a parsed credential. It may block on
// network I/O and is only ever called from a worker goroutine.
type Verifier interface {
	Decide(ctx context.Context, cred verification.Credential, maxCacheAge time.Duration) verification.Decision
}

// Recorder persists and records a decision. It runs on the worker goroutine
// before the session reports the result.
type Recorder interface {
	Record(ctx context.Context, decision verification.Decision) error
}

// Observer receives session state for the UI. Calls come from the session
// driver and must not block.
type Observer interface {
	StateChanged(state State)
	Decided(decision verification.Decision)
	Busy(channel verification.Channel)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, decision verification.Decision) error

func (f RecorderFunc) Record(ctx context.Context, decision verification.Decision) error {
	return f(ctx, decision)
}

type multiRecorder []Recorder

// Recorders fans a decision out to every recorder, in order, joining errors.
func Recorders(recorders ...Recorder) Recorder {
	return multiRecorder(recorders)
}

func (m multiRecorder) Record(ctx context.Context, decision verification.Decision) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Record(ctx, decision); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type multiObserver []Observer

// Observers fans session notifications out to every observer.
func Observers(observers ...Observer) Observer {
	return multiObserver(observers)
}

func (m multiObserver) StateChanged(state State) {
	for _, o := range m {
		if o != nil {
			o.StateChanged(state)
		}
	}
}

func (m multiObserver) Decided(decision verification.Decision) {
	for _, o := range m {
		if o != nil {
			o.Decided(decision)
		}
	}
}

func (m multiObserver) Busy(channel verification.Channel) {
	for _, o := range m {
		if o != nil {
			o.Busy(channel)
		}
	}
}
