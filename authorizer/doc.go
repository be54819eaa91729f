// Package authorizer turns an inbound authorization header into an
// allow/deny access decision.
//
// This package implements:
//   - Bearer credential extraction from the raw header value
//   - Structural decoding of the token header (alg, kid)
//   - Key set retrieval over HTTP and lookup by key identifier
//   - PEM reconstruction of the published leaf certificate (x5c[0])
//   - RS256 signature and temporal claim verification
//
// Every failure is converted into a Deny decision inside Authorize; the
// reason is only visible through logs, metrics and traces.
package authorizer
