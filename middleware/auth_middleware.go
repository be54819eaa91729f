package middleware

import (
	"context"
	"net/http"

	"github.com/upb/api-authorizer/authorizer"
	"github.com/upb/api-authorizer/utils"
	"go.uber.org/zap"
)

// Authorizer renders an access decision for a raw authorization header
type Authorizer interface {
	Authorize(ctx context.Context, authHeader string) *authorizer.AccessDecision
}

// AuthMiddleware guards routes with the authorizer's decision
type AuthMiddleware struct {
	authorizer Authorizer
	logger     *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authz Authorizer, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authorizer: authz,
		logger:     logger,
	}
}

// RequireAuth is a middleware that requires an Allow decision.
// Downstream handlers only see the verified principal identifier.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		decision := m.authorizer.Authorize(ctx, r.Header.Get("Authorization"))
		if !decision.Allowed() {
			m.logger.Warn("request denied",
				zap.String("request_id", requestID),
				zap.String("path", r.URL.Path))
			_ = utils.WriteUnauthorized(w, "Missing or invalid authorization")
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("principal_id", decision.PrincipalID))

		next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, decision.PrincipalID)))
	})
}
