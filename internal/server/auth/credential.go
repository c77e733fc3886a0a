// Package auth implements the access-control core: decoding transport
// credentials, resolving them to an identity, and producing the allow/deny
// verdict consumed by the HTTP middleware and the gateway contract.
package auth

import (
	"encoding/base64"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
)

const basicPrefix = "Basic "

// Credential is a transport-level username/secret pair. It exists only for
// the duration of one request and is never persisted.
type Credential struct {
	Username string
	Secret   string
}

// DecodeBasicHeader extracts a Credential from an Authorization header value
// of the form "Basic <base64(username:secret)>". Any deviation (missing or
// wrong scheme, invalid base64, no ':' separator) yields
// common.ErrorInvalidAuthHeaderFormat. Pure function, no side effects.
func DecodeBasicHeader(header string) (*Credential, error) {
	if !strings.HasPrefix(header, basicPrefix) {
		return nil, common.ErrorInvalidAuthHeaderFormat
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, basicPrefix))
	if err != nil {
		return nil, common.ErrorInvalidAuthHeaderFormat
	}

	username, secret, found := strings.Cut(string(raw), ":")
	if !found {
		return nil, common.ErrorInvalidAuthHeaderFormat
	}

	return &Credential{Username: username, Secret: secret}, nil
}
