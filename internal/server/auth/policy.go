package auth

// Gateway policy encoding of a Verdict. A front-door gateway that runs the
// authorizer before dispatching to resource handlers consumes this document
// and attaches the context map to the request it forwards.

const (
	policyVersion = "2012-10-17"
	invokeAction  = "execute-api:Invoke"

	// ContextUserKey is the key under which the resolved user id travels in
	// the authorizer context.
	ContextUserKey = "user_guid"
)

type PolicyStatement struct {
	Action   string `json:"Action"`
	Effect   string `json:"Effect"`
	Resource string `json:"Resource"`
}

type PolicyDocument struct {
	Version   string            `json:"Version"`
	Statement []PolicyStatement `json:"Statement"`
}

type GatewayResponse struct {
	PrincipalID    string            `json:"principalId"`
	PolicyDocument PolicyDocument    `json:"policyDocument"`
	Context        map[string]string `json:"context,omitempty"`
}

// GatewayResponse encodes the verdict as a policy document scoped to the
// given resource pattern. An allowing verdict carries the user id in the
// context map; a deny carries nothing.
func (v Verdict) GatewayResponse(resource string) GatewayResponse {
	effect := "Deny"
	var policyContext map[string]string

	if v.Allowed {
		effect = "Allow"
		policyContext = map[string]string{ContextUserKey: v.UserID}
	}

	return GatewayResponse{
		PrincipalID: "user",
		PolicyDocument: PolicyDocument{
			Version: policyVersion,
			Statement: []PolicyStatement{
				{Action: invokeAction, Effect: effect, Resource: resource},
			},
		},
		Context: policyContext,
	}
}
