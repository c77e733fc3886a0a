package auth

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestVerdictGatewayResponse(t *testing.T) {
	t.Run("allow", func(t *testing.T) {
		got := Allow("abc-123").GatewayResponse("arn:aws:execute-api:*")

		want := GatewayResponse{
			PrincipalID: "user",
			PolicyDocument: PolicyDocument{
				Version: "2012-10-17",
				Statement: []PolicyStatement{
					{Action: "execute-api:Invoke", Effect: "Allow", Resource: "arn:aws:execute-api:*"},
				},
			},
			Context: map[string]string{"user_guid": "abc-123"},
		}

		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("GatewayResponse mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("deny carries no context", func(t *testing.T) {
		got := Deny().GatewayResponse("*")

		require.Equal(t, "Deny", got.PolicyDocument.Statement[0].Effect)
		require.Nil(t, got.Context)

		b, err := json.Marshal(got)
		require.NoError(t, err)
		require.NotContains(t, string(b), "context")
	})
}
