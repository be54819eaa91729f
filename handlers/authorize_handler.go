package handlers

import (
	"errors"
	"net/http"

	"github.com/upb/api-authorizer/app"
	"github.com/upb/api-authorizer/middleware"
	"github.com/upb/api-authorizer/utils"
	"go.uber.org/zap"
)

// TokenAuthorizerEvent is the request body of POST /authorize
type TokenAuthorizerEvent struct {
	Type               string `json:"type" validate:"omitempty,eq=TOKEN"`
	AuthorizationToken string `json:"authorizationToken"`
	MethodArn          string `json:"methodArn"`
}

// AuthorizeHandler evaluates a token authorizer event.
// Every well-formed event gets a 200 response carrying the decision,
// whether Allow or Deny.
func AuthorizeHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := middleware.GetRequestIDFromContext(ctx)

		var event TokenAuthorizerEvent
		if err := utils.DecodeJSON(r, &event); err != nil {
			deps.Logger.Warn("invalid authorizer event",
				zap.String("request_id", requestID),
				zap.Error(err))
			var details map[string]string
			var validationErr *utils.ValidationError
			if errors.As(err, &validationErr) {
				details = validationErr.Fields
			}
			_ = utils.WriteBadRequest(w, "Invalid authorizer event", details)
			return
		}

		deps.Logger.Debug("authorizer event received",
			zap.String("request_id", requestID),
			zap.String("method_arn", event.MethodArn))

		decision := deps.Authorizer.Authorize(ctx, event.AuthorizationToken)
		_ = utils.WriteOK(w, decision)
	}
}

// PrincipalHandler returns the verified principal placed in the context
// by RequireAuth.
func PrincipalHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principalID := middleware.GetPrincipalFromContext(r.Context())
		if principalID == "" {
			_ = utils.WriteUnauthorized(w, "")
			return
		}
		_ = utils.WriteOK(w, map[string]string{"principalId": principalID})
	}
}
