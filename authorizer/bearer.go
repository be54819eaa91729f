package authorizer

import (
	"errors"
	"strings"
)

const bearerPrefix = "bearer "

// ExtractBearerToken returns the token that follows the "Bearer " scheme
// prefix. The scheme is matched case-insensitively; the remainder is
// returned exactly as presented.
func ExtractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", newError(KindMissingCredential, errors.New("no authentication header"))
	}

	if len(authHeader) < len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return "", newError(KindMalformedCredential, errors.New("invalid authentication header"))
	}

	return authHeader[len(bearerPrefix):], nil
}
