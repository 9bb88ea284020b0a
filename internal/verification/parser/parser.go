// Package parser turns raw QR and NFC payloads into credentials.
//
// Two encodings are understood: a JSON document (optionally prefixed with
// "mdoc:") and a compact JWT whose claims carry the same fields. JWT
// signatures are not checked here.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"laurelid/internal/verification"
)

// DocTypeMDL is assumed when a payload omits its document type.
const DocTypeMDL = "org.iso.18013.5.1.mDL"

const mdocPrefix = "mdoc:"

// ParseError reports a malformed scan payload.
type ParseError struct {
	Channel verification.Channel
	Reason  string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s payload: %s: %v", e.Channel, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s payload: %s", e.Channel, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err carries a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// document is the JSON shape of a presented credential.
type document struct {
	Issuer    string `json:"issuer"`
	SubjectID string `json:"subject_id"`
	DocType   string `json:"doc_type"`
	AgeOver21 bool   `json:"age_over_21"`
}

// credentialClaims is the JWT shape; registered iss/sub act as fallbacks.
type credentialClaims struct {
	document
	jwt.RegisteredClaims
}

// Parser decodes scan payloads. The zero value is ready to use.
type Parser struct {
	jwt *jwt.Parser
}

func New() *Parser {
	return &Parser{jwt: jwt.NewParser()}
}

// ParseFromQR decodes a QR payload string.
func (p *Parser) ParseFromQR(payload string) (verification.Credential, error) {
	return p.parse(verification.ChannelQR, payload)
}

// ParseFromNFC decodes the payload of an NDEF record.
func (p *Parser) ParseFromNFC(data []byte) (verification.Credential, error) {
	return p.parse(verification.ChannelNFC, string(data))
}

func (p *Parser) parse(ch verification.Channel, raw string) (verification.Credential, error) {
	payload := strings.TrimSpace(raw)
	payload = strings.TrimSpace(strings.TrimPrefix(payload, mdocPrefix))
	if payload == "" {
		return verification.Credential{}, &ParseError{Channel: ch, Reason: "empty payload"}
	}

	var doc document
	switch {
	case strings.HasPrefix(payload, "{"):
		if err := json.Unmarshal([]byte(payload), &doc); err != nil {
			return verification.Credential{}, &ParseError{Channel: ch, Reason: "invalid json document", Err: err}
		}
	case strings.Count(payload, ".") == 2:
		claims, err := p.parseJWT(payload)
		if err != nil {
			return verification.Credential{}, &ParseError{Channel: ch, Reason: "invalid jwt credential", Err: err}
		}
		doc = claims.document
		if doc.Issuer == "" {
			doc.Issuer = claims.RegisteredClaims.Issuer
		}
		if doc.SubjectID == "" {
			doc.SubjectID = claims.Subject
		}
	default:
		return verification.Credential{}, &ParseError{Channel: ch, Reason: "unsupported payload encoding"}
	}

	if doc.Issuer == "" {
		return verification.Credential{}, &ParseError{Channel: ch, Reason: "missing issuer"}
	}
	if doc.DocType == "" {
		doc.DocType = DocTypeMDL
	}
	return verification.Credential{
		Issuer:    doc.Issuer,
		SubjectID: doc.SubjectID,
		DocType:   doc.DocType,
		AgeOver21: doc.AgeOver21,
	}, nil
}

func (p *Parser) parseJWT(token string) (*credentialClaims, error) {
	parser := p.jwt
	if parser == nil {
		parser = jwt.NewParser()
	}
	claims := &credentialClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
