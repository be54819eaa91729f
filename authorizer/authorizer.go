package authorizer

import (
	"context"
	"fmt"

	"github.com/upb/api-authorizer/observability"
	"go.uber.org/zap"
)

// Stage is the last state an authorization attempt reached
type Stage string

const (
	StageReceived          Stage = "received"
	StageTokenExtracted    Stage = "token_extracted"
	StageHeaderDecoded     Stage = "header_decoded"
	StageKeyResolved       Stage = "key_resolved"
	StageCertificateBuilt  Stage = "certificate_built"
	StageSignatureVerified Stage = "signature_verified"
)

// KeyResolver locates the published key for a key identifier
type KeyResolver interface {
	Resolve(ctx context.Context, kid string) (*KeySetEntry, error)
}

// Authorizer renders access decisions for raw authorization header values.
// It is stateless between calls and safe for concurrent use.
type Authorizer struct {
	resolver KeyResolver
	verifier *SignatureVerifier
	tracer   *observability.Tracer
	logger   *zap.Logger
}

// New creates an Authorizer
func New(resolver KeyResolver, verifier *SignatureVerifier, tracer *observability.Tracer, logger *zap.Logger) *Authorizer {
	if tracer == nil {
		tracer = observability.NewTracer(false)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authorizer{
		resolver: resolver,
		verifier: verifier,
		tracer:   tracer,
		logger:   logger,
	}
}

// Authorize evaluates authHeader and always returns a decision.
// Any failure, including a panic in a collaborator, yields Deny.
func (a *Authorizer) Authorize(ctx context.Context, authHeader string) (decision *AccessDecision) {
	ctx, span := a.tracer.StartAuthorize(ctx)
	stage := StageReceived

	defer func() {
		if r := recover(); r != nil {
			err := newError(KindInternal, fmt.Errorf("panic: %v", r))
			decision = a.deny(stage, err)
			a.tracer.RecordDecision(span, string(EffectDeny), string(stage), string(KindInternal))
			a.tracer.EndSpan(span, err)
		}
	}()

	a.logger.Info("authorizing request",
		zap.Bool("header_present", authHeader != ""))

	claims, err := a.verify(ctx, authHeader, &stage)
	if err != nil {
		decision = a.deny(stage, err)
		a.tracer.RecordDecision(span, string(EffectDeny), string(stage), string(KindOf(err)))
		a.tracer.EndSpan(span, err)
		return decision
	}

	a.logger.Info("request authorized",
		zap.String("principal_id", claims.Subject))
	observability.RecordDecision(string(EffectAllow))
	a.tracer.RecordDecision(span, string(EffectAllow), string(stage), "")
	a.tracer.EndSpan(span, nil)

	return AllowDecision(claims.Subject)
}

// verify runs the pipeline, advancing stage as each step succeeds
func (a *Authorizer) verify(ctx context.Context, authHeader string, stage *Stage) (*Claims, error) {
	token, err := ExtractBearerToken(authHeader)
	if err != nil {
		return nil, err
	}
	*stage = StageTokenExtracted

	header, err := a.verifier.DecodeHeader(token)
	if err != nil {
		return nil, err
	}
	*stage = StageHeaderDecoded

	a.logger.Debug("token header decoded",
		zap.String("kid", header.Kid),
		zap.String("alg", header.Alg))

	entry, err := a.resolver.Resolve(ctx, header.Kid)
	if err != nil {
		return nil, err
	}
	*stage = StageKeyResolved

	certPEM, err := BuildCertificatePEM(entry)
	if err != nil {
		return nil, err
	}
	*stage = StageCertificateBuilt

	claims, err := a.verifier.Verify(token, certPEM)
	if err != nil {
		return nil, err
	}
	*stage = StageSignatureVerified

	return claims, nil
}

func (a *Authorizer) deny(stage Stage, err error) *AccessDecision {
	kind := KindOf(err)
	a.logger.Error("request not authorized",
		zap.String("stage", string(stage)),
		zap.String("reason", string(kind)),
		zap.Error(err))
	observability.RecordDecision(string(EffectDeny))
	observability.RecordDenial(string(kind))
	return DenyDecision()
}
