package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/upb/api-authorizer/app"
	"github.com/upb/api-authorizer/utils"
	"go.uber.org/zap"
)

// readinessTimeout bounds the key set probe made by /readyz
const readinessTimeout = 2 * time.Second

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck returns a simple health check handler
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteOK(w, HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// ReadinessCheck verifies that the key set endpoint is reachable
func ReadinessCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		response := HealthResponse{
			Status:    "ready",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    map[string]string{},
		}

		keySet, err := deps.KeySet.Fetch(ctx)
		switch {
		case err != nil:
			response.Status = "not_ready"
			response.Checks["keyset"] = "unreachable"
			deps.Logger.Error("key set health check failed",
				zap.String("keyset_url", deps.KeySet.URL()),
				zap.Error(err))
		case len(keySet.Keys) == 0:
			response.Status = "not_ready"
			response.Checks["keyset"] = "empty"
		default:
			response.Checks["keyset"] = "healthy"
		}

		if response.Status != "ready" {
			_ = utils.WriteServiceUnavailable(w, response)
			return
		}
		_ = utils.WriteOK(w, response)
	}
}
