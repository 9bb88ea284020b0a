package verification

import "laurelid/internal/trust"

// Reason names which gate decided the outcome.
type Reason string

const (
	ReasonAllChecksPassed Reason = "ok"
	ReasonUntrustedIssuer Reason = "untrusted_issuer"
	ReasonUnderage        Reason = "underage"
	ReasonUntrustedMinor  Reason = "both"
)

// Evaluate applies the acceptance rule: the holder is over 21 and the issuer
// appears in a non-empty trust list. Age and trust are independent gates.
// This is pure domain logic - no I/O, no side effects.
func Evaluate(cred Credential, list trust.List) (success bool, reason Reason) {
	issuerTrusted := len(list) > 0 && list.Trusts(cred.Issuer)

	switch {
	case cred.AgeOver21 && issuerTrusted:
		return true, ReasonAllChecksPassed
	case !cred.AgeOver21 && !issuerTrusted:
		return false, ReasonUntrustedMinor
	case !issuerTrusted:
		return false, ReasonUntrustedIssuer
	default:
		return false, ReasonUnderage
	}
}
