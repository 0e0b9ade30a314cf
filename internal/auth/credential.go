package auth

import (
	"encoding/base64"
	"strings"
)

// DecodeBasic splits a `Basic <base64(email:password)>` authorization
// header into its identifier and secret. The scheme tag is matched
// case-insensitively; the header must have exactly two fields and the
// payload exactly one colon. Every structural failure is reported as
// ErrMalformedCredential — this is a format check only and asserts
// nothing about the account.
func DecodeBasic(header string) (identifier, secret string, err error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Basic") {
		return "", "", ErrMalformedCredential
	}
	raw, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", "", ErrMalformedCredential
	}
	pair := strings.Split(string(raw), ":")
	if len(pair) != 2 {
		return "", "", ErrMalformedCredential
	}
	return pair[0], pair[1], nil
}
