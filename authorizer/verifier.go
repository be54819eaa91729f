package authorizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenHeader is the unverified JOSE header of a bearer token
type TokenHeader struct {
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	Typ string `json:"typ,omitempty"`
}

// Claims is the verified token payload
type Claims struct {
	jwt.RegisteredClaims
}

// VerifierOptions configures the SignatureVerifier
type VerifierOptions struct {
	// Issuer, when set, must equal the iss claim
	Issuer string
	// Audience, when set, must appear in the aud claim
	Audience string
	// Leeway allowed when checking exp and nbf
	Leeway time.Duration
	// Now overrides the clock used for temporal claims
	Now func() time.Time
}

// SignatureVerifier decodes token headers and verifies RS256 signatures.
// It holds no per-request state and is safe for concurrent use.
type SignatureVerifier struct {
	parser *jwt.Parser
}

// NewSignatureVerifier creates a verifier that only accepts RS256
func NewSignatureVerifier(opts VerifierOptions) *SignatureVerifier {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithLeeway(opts.Leeway),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}
	if opts.Now != nil {
		parserOpts = append(parserOpts, jwt.WithTimeFunc(opts.Now))
	}

	return &SignatureVerifier{
		parser: jwt.NewParser(parserOpts...),
	}
}

// DecodeHeader decodes the header segment without checking the signature.
// The payload segment is not read.
func (v *SignatureVerifier) DecodeHeader(token string) (*TokenHeader, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, newError(KindMalformedToken, fmt.Errorf("token has %d segments, want 3", len(parts)))
	}

	raw, err := v.parser.DecodeSegment(parts[0])
	if err != nil {
		return nil, newError(KindMalformedToken, fmt.Errorf("failed to decode header: %w", err))
	}

	var header TokenHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, newError(KindMalformedToken, fmt.Errorf("failed to parse header: %w", err))
	}
	if header.Alg == "" {
		return nil, newError(KindMalformedToken, errors.New("alg header not found"))
	}
	if header.Kid == "" {
		return nil, newError(KindMalformedToken, errors.New("kid header not found"))
	}

	return &header, nil
}

// Verify checks the token signature against the public key of certPEM
// and returns the payload claims.
func (v *SignatureVerifier) Verify(token, certPEM string) (*Claims, error) {
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(certPEM))
	if err != nil {
		return nil, newError(KindCertificateBuild, fmt.Errorf("failed to load certificate public key: %w", err))
	}

	claims := &Claims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodRS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}
	if !parsed.Valid {
		return nil, newError(KindInvalidSignature, errors.New("token is not valid"))
	}

	if claims.Subject == "" {
		return nil, newError(KindInvalidClaims, errors.New("sub claim not found"))
	}

	return claims, nil
}

// classifyParseError maps jwt parser failures onto error kinds.
// Temporal checks take precedence since jwt joins all claim failures.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
		return newError(KindTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return newError(KindInvalidClaims, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return newError(KindMalformedToken, err)
	default:
		return newError(KindInvalidSignature, err)
	}
}
