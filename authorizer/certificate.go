package authorizer

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	pemLineWidth         = 64
	pemCertificateHeader = "-----BEGIN CERTIFICATE-----"
	pemCertificateFooter = "-----END CERTIFICATE-----"
)

// BuildCertificatePEM wraps the entry's leaf certificate (x5c[0]) in PEM
// framing. Intermediate certificates are ignored and no chain validation
// is performed.
func BuildCertificatePEM(entry *KeySetEntry) (string, error) {
	if entry == nil || len(entry.X5c) == 0 || entry.X5c[0] == "" {
		return "", newError(KindCertificateBuild, errors.New("key has no x5c certificate"))
	}

	leaf := entry.X5c[0]
	if _, err := base64.StdEncoding.DecodeString(leaf); err != nil {
		return "", newError(KindCertificateBuild, fmt.Errorf("x5c[0] is not valid base64: %w", err))
	}

	var b strings.Builder
	b.Grow(len(leaf) + len(leaf)/pemLineWidth + len(pemCertificateHeader) + len(pemCertificateFooter) + 4)
	b.WriteString(pemCertificateHeader)
	b.WriteByte('\n')
	for start := 0; start < len(leaf); start += pemLineWidth {
		end := min(start+pemLineWidth, len(leaf))
		b.WriteString(leaf[start:end])
		b.WriteByte('\n')
	}
	b.WriteString(pemCertificateFooter)
	b.WriteByte('\n')

	return b.String(), nil
}
