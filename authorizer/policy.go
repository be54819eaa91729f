package authorizer

// Effect is the outcome of a policy statement
type Effect string

const (
	EffectAllow Effect = "Allow"
	EffectDeny  Effect = "Deny"
)

const (
	// PolicyVersion is the fixed policy language version
	PolicyVersion = "2012-10-17"

	// ActionInvoke is the action covered by every decision
	ActionInvoke = "execute-api:Invoke"

	// ResourceAll scopes a decision to every protected resource
	ResourceAll = "*"

	// DeniedPrincipal is the non-identifying principal used on Deny
	DeniedPrincipal = "user"
)

// AccessDecision is the artifact returned to the invoking access-control layer
type AccessDecision struct {
	PrincipalID    string         `json:"principalId"`
	PolicyDocument PolicyDocument `json:"policyDocument"`
}

// PolicyDocument holds the decision statements
type PolicyDocument struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// Statement grants or denies one action on a resource
type Statement struct {
	Action   string `json:"Action"`
	Effect   Effect `json:"Effect"`
	Resource string `json:"Resource"`
}

// AllowDecision builds an Allow decision for principalID
func AllowDecision(principalID string) *AccessDecision {
	return newDecision(principalID, EffectAllow)
}

// DenyDecision builds a Deny decision with the placeholder principal
func DenyDecision() *AccessDecision {
	return newDecision(DeniedPrincipal, EffectDeny)
}

func newDecision(principalID string, effect Effect) *AccessDecision {
	return &AccessDecision{
		PrincipalID: principalID,
		PolicyDocument: PolicyDocument{
			Version: PolicyVersion,
			Statement: []Statement{
				{
					Action:   ActionInvoke,
					Effect:   effect,
					Resource: ResourceAll,
				},
			},
		},
	}
}

// Effect returns the effect of the decision's statement
func (d *AccessDecision) Effect() Effect {
	if d == nil || len(d.PolicyDocument.Statement) == 0 {
		return EffectDeny
	}
	return d.PolicyDocument.Statement[0].Effect
}

// Allowed reports whether the decision allows the request
func (d *AccessDecision) Allowed() bool {
	return d.Effect() == EffectAllow
}
