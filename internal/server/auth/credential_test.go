package auth

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
)

func basicHeader(username, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+secret))
}

func TestDecodeBasicHeader(t *testing.T) {
	tests := []struct {
		name         string
		header       string
		wantErr      bool
		wantUsername string
		wantSecret   string
	}{
		{name: "valid", header: basicHeader("john", "s3cret"), wantUsername: "john", wantSecret: "s3cret"},
		{name: "secret containing colon", header: basicHeader("john", "a:b:c"), wantUsername: "john", wantSecret: "a:b:c"},
		{name: "empty username and secret", header: basicHeader("", ""), wantUsername: "", wantSecret: ""},
		{name: "empty header", header: "", wantErr: true},
		{name: "wrong scheme", header: "Bearer abcdef", wantErr: true},
		{name: "lowercase scheme", header: "basic " + base64.StdEncoding.EncodeToString([]byte("john:s3cret")), wantErr: true},
		{name: "missing space", header: "Basic" + base64.StdEncoding.EncodeToString([]byte("john:s3cret")), wantErr: true},
		{name: "invalid base64", header: "Basic !!!not-base64!!!", wantErr: true},
		{name: "no separator", header: "Basic " + base64.StdEncoding.EncodeToString([]byte("johns3cret")), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred, err := DecodeBasicHeader(tt.header)

			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrorInvalidAuthHeaderFormat)
				assert.Nil(t, cred)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantUsername, cred.Username)
			assert.Equal(t, tt.wantSecret, cred.Secret)
		})
	}
}
