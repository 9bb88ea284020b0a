package session

import (
	"encoding/json"
	"fmt"

	"laurelid/internal/verification"
)

// DefaultDemoIssuer is used when Settings.DemoIssuer is empty.
const DefaultDemoIssuer = "AZ-MVD"

type demoDocument struct {
	Issuer    string `json:"issuer"`
	SubjectID string `json:"subject_id"`
	DocType   string `json:"doc_type"`
	AgeOver21 bool   `json:"age_over_21"`
}

// nextDemoEvent synthesises the next demo scan. Firings alternate between an
// adult holder and a minor, starting with the adult.
func (d *driver) nextDemoEvent() Event {
	seq := d.demoSeq
	d.demoSeq++

	issuer := d.settings.DemoIssuer
	if issuer == "" {
		issuer = DefaultDemoIssuer
	}
	payload, _ := json.Marshal(demoDocument{
		Issuer:    issuer,
		SubjectID: fmt.Sprintf("demo-%04d", seq),
		DocType:   "org.iso.18013.5.1.mDL",
		AgeOver21: seq%2 == 0,
	})
	return Event{Channel: verification.ChannelDemo, Payload: payload}
}
