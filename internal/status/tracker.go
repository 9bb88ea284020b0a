// Package status keeps the kiosk display state for UI pollers.
package status

import (
	"sync"
	"time"

	"laurelid/internal/session"
	"laurelid/internal/verification"
)

// DefaultResultDisplay is how long a decision stays on screen.
const DefaultResultDisplay = 5 * time.Second

// View is what the kiosk screen should show.
type View struct {
	State session.State
	// Decision is the last decision while it is still on display.
	Decision *verification.Decision
	// Busy is set while a "verification in progress" notice is on display.
	Busy bool
}

// Tracker observes a session and holds the last decision for the display
// period. The session itself returns to scanning immediately.
type Tracker struct {
	mu       sync.RWMutex
	state    session.State
	last     *verification.Decision
	shownAt  time.Time
	busyAt   time.Time
	display  time.Duration
	busyHold time.Duration
	now      func() time.Time
}

type Option func(*Tracker)

func WithResultDisplay(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.display = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		state:    session.StateScanning,
		display:  DefaultResultDisplay,
		busyHold: 2 * time.Second,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) StateChanged(state session.State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = state
}

func (t *Tracker) Decided(d verification.Decision) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = &d
	t.shownAt = t.now()
}

func (t *Tracker) Busy(verification.Channel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.busyAt = t.now()
}

// View returns the current display state.
func (t *Tracker) View() View {
	t.mu.RLock()
	defer t.mu.RUnlock()

	now := t.now()
	v := View{
		State: t.state,
		Busy:  !t.busyAt.IsZero() && now.Sub(t.busyAt) < t.busyHold,
	}
	if t.last != nil && now.Sub(t.shownAt) < t.display {
		d := *t.last
		v.Decision = &d
	}
	return v
}

// Last returns the most recent decision regardless of display time.
func (t *Tracker) Last() (verification.Decision, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.last == nil {
		return verification.Decision{}, false
	}
	return *t.last, true
}
