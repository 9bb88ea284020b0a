package session

import (
	"context"
	"fmt"
	"time"

	"laurelid/internal/verification"
)

type outcomeKind int

const (
	outcomeVerified outcomeKind = iota
	outcomeParseFailed
	outcomePanicked
)

// outcome is the result of one verification cycle. Every kind resolves to a
// decision so the driver always has something to report.
type outcome struct {
	kind     outcomeKind
	err      error
	decision verification.Decision
}

func (o outcome) label() string {
	switch o.kind {
	case outcomeParseFailed:
		return "parse_failed"
	case outcomePanicked:
		return "panicked"
	default:
		return o.decision.Outcome()
	}
}

// cycle runs on a worker goroutine. It always delivers exactly one outcome.
func (s *Session) cycle(ctx context.Context, ev Event, ttl time.Duration) {
	out := s.evaluate(ctx, ev, ttl)
	out.decision.Channel = ev.Channel
	s.record(ctx, out.decision)
	s.done <- out
}

func (s *Session) evaluate(ctx context.Context, ev Event, ttl time.Duration) (out outcome) {
	var cred verification.Credential
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("verification panicked: %v", r)
			s.logger.ErrorContext(ctx, "verification failure", "channel", string(ev.Channel), "error", err)
			out = outcome{kind: outcomePanicked, err: err, decision: verification.FailedDecision(cred, err)}
		}
	}()

	cred, err := s.parse(ev)
	if err != nil {
		s.logger.WarnContext(ctx, "unable to parse credential", "channel", string(ev.Channel), "error", err)
		return outcome{kind: outcomeParseFailed, err: err, decision: verification.FailedDecision(verification.Credential{}, err)}
	}
	return outcome{kind: outcomeVerified, decision: s.verifier.Decide(ctx, cred, ttl)}
}

func (s *Session) parse(ev Event) (verification.Credential, error) {
	if ev.Channel == verification.ChannelNFC {
		return s.parser.ParseFromNFC(ev.Payload)
	}
	return s.parser.ParseFromQR(string(ev.Payload))
}

func (s *Session) record(ctx context.Context, decision verification.Decision) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "decision recorder panicked", "decision_id", decision.ID.String(), "panic", fmt.Sprint(r))
		}
	}()
	if err := s.recorder.Record(ctx, decision); err != nil {
		s.logger.ErrorContext(ctx, "unable to record decision", "decision_id", decision.ID.String(), "error", err)
	}
}
