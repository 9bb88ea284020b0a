package session

import (
	"time"

	"laurelid/internal/verification"
)

// MDLMimeType is the NDEF record type carrying an ISO 18013-5 mobile document.
const MDLMimeType = "application/iso.18013-5+mdoc"

// DefaultDemoInterval is the period between synthesized demo scans.
const DefaultDemoInterval = 2500 * time.Millisecond

// State is the scanning session position.
type State int32

const (
	StateScanning State = iota
	StateVerifying
	StateResult
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateVerifying:
		return "verifying"
	case StateResult:
		return "result"
	default:
		return "unknown"
	}
}

// Event is one credential presentation from an ingestion channel.
type Event struct {
	Channel verification.Channel
	Payload []byte
	// MIMEType is the NDEF record type for NFC events; ignored otherwise.
	MIMEType string
}

// QREvent builds an event from a decoded QR code.
func QREvent(payload string) Event {
	return Event{Channel: verification.ChannelQR, Payload: []byte(payload)}
}

// NFCEvent builds an event from a discovered NDEF record.
func NFCEvent(mimeType string, payload []byte) Event {
	return Event{Channel: verification.ChannelNFC, Payload: payload, MIMEType: mimeType}
}

// Settings are read once per session resume.
type Settings struct {
	// TrustTTL is the maximum trust list age; zero disables forced refresh.
	TrustTTL time.Duration
	DemoMode bool
	// DemoInterval defaults to DefaultDemoInterval.
	DemoInterval time.Duration
	// DemoIssuer is the issuer stamped on synthesized credentials.
	DemoIssuer string
}

func (s Settings) demoInterval() time.Duration {
	if s.DemoInterval > 0 {
		return s.DemoInterval
	}
	return DefaultDemoInterval
}
