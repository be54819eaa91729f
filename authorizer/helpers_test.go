package authorizer

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// testIssuer holds a signing key and the self-signed certificate published for it
type testIssuer struct {
	kid        string
	privateKey *rsa.PrivateKey
	x5c        string
}

// Test helper to generate an RSA key pair with a self-signed leaf certificate
func newTestIssuer(t *testing.T, kid string) *testIssuer {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber: big.NewInt(now.UnixNano()),
		Subject:      pkix.Name{CommonName: "test-issuer"},
		NotBefore:    now.Add(-1 * time.Hour),
		NotAfter:     now.Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &privateKey.PublicKey, privateKey)
	require.NoError(t, err)

	return &testIssuer{
		kid:        kid,
		privateKey: privateKey,
		x5c:        base64.StdEncoding.EncodeToString(der),
	}
}

// entry returns the key set entry the issuer publishes
func (i *testIssuer) entry() KeySetEntry {
	return KeySetEntry{
		Kid: i.kid,
		Kty: "RSA",
		Alg: "RS256",
		Use: "sig",
		X5c: []string{i.x5c},
	}
}

// sign creates an RS256 token carrying the issuer's kid
func (i *testIssuer) sign(t *testing.T, claims jwt.Claims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = i.kid

	tokenString, err := token.SignedString(i.privateKey)
	require.NoError(t, err)
	return tokenString
}

// validClaims returns claims for sub that expire in an hour
func validClaims(sub string) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(1 * time.Hour)),
		},
	}
}

// Test helper to create a mock key set server; hits counts requests served
func newKeySetServer(t *testing.T, entries ...KeySetEntry) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	hits := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(KeySet{Keys: entries})
	}))
	t.Cleanup(server.Close)
	return server, hits
}

// Test helper to create a server that always answers with status
func newStatusServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}
