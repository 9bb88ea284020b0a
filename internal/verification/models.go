package verification

import (
	"time"

	"github.com/google/uuid"
)

// ErrorCodeUntrustedOrUnderage is the single coarse reject reason. Unknown
// issuer and underage holder are not distinguished until signature and
// revocation checks exist.
const ErrorCodeUntrustedOrUnderage = "UNTRUSTED_OR_UNDERAGE"

// Channel identifies how a credential reached the kiosk.
type Channel string

const (
	ChannelQR   Channel = "qr"
	ChannelNFC  Channel = "nfc"
	ChannelDemo Channel = "demo"
)

// Credential is a parsed mobile document presentation. Immutable once built.
type Credential struct {
	Issuer    string
	SubjectID string
	DocType   string
	AgeOver21 bool
}

// Decision is the verdict for one credential. It is handed to persistence,
// recording and UI collaborators and never mutated after creation.
type Decision struct {
	ID        uuid.UUID
	Success   bool
	AgeOver21 bool
	Issuer    string
	SubjectID string
	DocType   string
	// ErrorCode is empty when Success is true.
	ErrorCode string
	Channel   Channel
	DecidedAt time.Time
}

// HasError reports whether an error code is present.
func (d Decision) HasError() bool {
	return d.ErrorCode != ""
}

// Outcome is the label used for metrics and event streams.
func (d Decision) Outcome() string {
	if d.Success {
		return "accepted"
	}
	return "rejected"
}

func newDecision(cred Credential, success bool, errorCode string, at time.Time) Decision {
	return Decision{
		ID:        uuid.New(),
		Success:   success,
		AgeOver21: cred.AgeOver21,
		Issuer:    cred.Issuer,
		SubjectID: cred.SubjectID,
		DocType:   cred.DocType,
		ErrorCode: errorCode,
		DecidedAt: at,
	}
}

// FailedDecision downgrades an error raised while parsing or verifying into a
// rejected decision carrying the error's description.
func FailedDecision(cred Credential, err error) Decision {
	code := "Verification failure"
	if err != nil && err.Error() != "" {
		code = err.Error()
	}
	return newDecision(cred, false, code, time.Now())
}
