package app

import (
	"context"
	"net/http"

	"github.com/upb/api-authorizer/authorizer"
	"github.com/upb/api-authorizer/config"
	"github.com/upb/api-authorizer/middleware"
	"github.com/upb/api-authorizer/observability"
	"go.uber.org/zap"
)

// KeySetFetcher retrieves the issuer's key set
type KeySetFetcher interface {
	Fetch(ctx context.Context) (*authorizer.KeySet, error)
	URL() string
}

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection; every
// object here is built once and shared by all requests.
type Dependencies struct {
	// Infrastructure
	Config     *config.Config
	Logger     *zap.Logger
	Tracer     *observability.Tracer
	HTTPClient *http.Client

	// Authorization core
	KeySet     KeySetFetcher
	Authorizer middleware.Authorizer

	// Middleware
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(cfg *config.Config, logger *zap.Logger) *Dependencies {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
		Tracer: observability.NewTracer(cfg.Observability.TracingEnabled),
		// Zero timeout keeps the transport default
		HTTPClient: &http.Client{Timeout: cfg.KeySet.HTTPTimeout},
	}

	deps.initAuthorizer(cfg)

	logger.Info("all dependencies initialized successfully",
		zap.String("keyset_url", cfg.KeySet.URL),
		zap.Bool("tracing_enabled", cfg.Observability.TracingEnabled))
	return deps
}

// initAuthorizer wires the key set resolver, verifier and authorizer
func (d *Dependencies) initAuthorizer(cfg *config.Config) {
	resolver := authorizer.NewKeySetResolver(cfg.KeySet.URL, d.HTTPClient, d.Tracer)
	verifier := authorizer.NewSignatureVerifier(authorizer.VerifierOptions{
		Issuer:   cfg.Token.Issuer,
		Audience: cfg.Token.Audience,
		Leeway:   cfg.Token.Leeway,
	})

	d.KeySet = resolver
	d.Authorizer = authorizer.New(resolver, verifier, d.Tracer, d.Logger.Named("authorizer"))
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Authorizer, d.Logger)

	d.Logger.Info("authorizer initialized",
		zap.Bool("issuer_check", cfg.Token.Issuer != ""),
		zap.Bool("audience_check", cfg.Token.Audience != ""))
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	d.HTTPClient.CloseIdleConnections()

	// Sync logger
	_ = d.Logger.Sync()

	return nil
}
