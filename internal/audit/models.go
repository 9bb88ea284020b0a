package audit

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"laurelid/internal/verification"
)

// Event is the fleet-level record of one verification. Subject identifiers
// never leave the kiosk in clear text.
type Event struct {
	ID          uuid.UUID `json:"id"`
	DecisionID  uuid.UUID `json:"decision_id"`
	Timestamp   time.Time `json:"timestamp"`
	KioskID     string    `json:"kiosk_id"`
	Channel     string    `json:"channel"`
	Issuer      string    `json:"issuer"`
	SubjectHash string    `json:"subject_hash,omitempty"`
	DocType     string    `json:"doc_type"`
	Decision    string    `json:"decision"`
	Reason      string    `json:"reason,omitempty"`
}

// FromDecision builds the event for a decision taken on kioskID.
func FromDecision(kioskID string, d verification.Decision) Event {
	ts := d.DecidedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return Event{
		ID:          uuid.New(),
		DecisionID:  d.ID,
		Timestamp:   ts,
		KioskID:     kioskID,
		Channel:     string(d.Channel),
		Issuer:      d.Issuer,
		SubjectHash: HashSubject(d.SubjectID),
		DocType:     d.DocType,
		Decision:    d.Outcome(),
		Reason:      d.ErrorCode,
	}
}

// HashSubject returns the hex BLAKE2b-256 digest of a subject identifier, or
// the empty string for an empty identifier.
func HashSubject(subjectID string) string {
	if subjectID == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(subjectID))
	return hex.EncodeToString(sum[:])
}
