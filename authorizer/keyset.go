package authorizer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/upb/api-authorizer/observability"
)

// maxKeySetBytes bounds how much of the key set response is read
const maxKeySetBytes = 1 << 20

// KeySet represents the JSON Web Key Set published by the issuer
type KeySet struct {
	Keys []KeySetEntry `json:"keys"`
}

// KeySetEntry represents a single published key.
// Only Kid and X5c take part in verification.
type KeySetEntry struct {
	Kid string   `json:"kid"`
	Kty string   `json:"kty,omitempty"`
	Alg string   `json:"alg,omitempty"`
	Use string   `json:"use,omitempty"`
	N   string   `json:"n,omitempty"`
	E   string   `json:"e,omitempty"`
	X5t string   `json:"x5t,omitempty"`
	X5c []string `json:"x5c"`
}

// Lookup returns the entry whose kid equals kid
func (ks *KeySet) Lookup(kid string) (*KeySetEntry, bool) {
	for i := range ks.Keys {
		if ks.Keys[i].Kid == kid {
			return &ks.Keys[i], true
		}
	}
	return nil, false
}

// KeySetResolver fetches the key set from a fixed endpoint.
// Every call performs its own request; nothing is cached between calls.
type KeySetResolver struct {
	url        string
	httpClient *http.Client
	tracer     *observability.Tracer
}

// NewKeySetResolver creates a resolver for the given key set URL.
// A nil client falls back to http.DefaultClient.
func NewKeySetResolver(url string, httpClient *http.Client, tracer *observability.Tracer) *KeySetResolver {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if tracer == nil {
		tracer = observability.NewTracer(false)
	}
	return &KeySetResolver{
		url:        url,
		httpClient: httpClient,
		tracer:     tracer,
	}
}

// URL returns the configured key set endpoint
func (r *KeySetResolver) URL() string {
	return r.url
}

// Fetch retrieves and decodes the key set
func (r *KeySetResolver) Fetch(ctx context.Context) (*KeySet, error) {
	return r.fetch(ctx, "")
}

// Resolve fetches the key set and returns the entry matching kid
func (r *KeySetResolver) Resolve(ctx context.Context, kid string) (*KeySetEntry, error) {
	keySet, err := r.fetch(ctx, kid)
	if err != nil {
		return nil, err
	}

	entry, ok := keySet.Lookup(kid)
	if !ok {
		return nil, newError(KindKeyNotFound, fmt.Errorf("key with kid %q not found in key set", kid))
	}
	return entry, nil
}

func (r *KeySetResolver) fetch(ctx context.Context, kid string) (keySet *KeySet, err error) {
	ctx, span := r.tracer.StartKeySetFetch(ctx, r.url, kid)
	start := time.Now()
	defer func() {
		observability.ObserveKeySetFetch(time.Since(start), err)
		r.tracer.EndSpan(span, err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, newError(KindKeySetUnavailable, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, newError(KindKeySetUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.tracer.RecordKeySetResponse(span, resp.StatusCode, 0)
		return nil, newError(KindKeySetUnavailable, fmt.Errorf("status code %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxKeySetBytes+1))
	if err != nil {
		return nil, newError(KindKeySetUnavailable, fmt.Errorf("failed to read body: %w", err))
	}
	if len(body) > maxKeySetBytes {
		return nil, newError(KindKeySetUnavailable, fmt.Errorf("key set exceeds %d bytes", maxKeySetBytes))
	}

	var ks KeySet
	if err := json.Unmarshal(body, &ks); err != nil {
		return nil, newError(KindKeySetUnavailable, fmt.Errorf("failed to decode key set: %w", err))
	}

	r.tracer.RecordKeySetResponse(span, resp.StatusCode, len(ks.Keys))
	return &ks, nil
}
