package auth

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func basicHeader(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func TestDecodeBasic_RoundTrip(t *testing.T) {
	id, secret, err := DecodeBasic(basicHeader("a@b.com", "pw"))
	require.NoError(t, err)
	require.Equal(t, "a@b.com", id)
	require.Equal(t, "pw", secret)
}

func TestDecodeBasic_SchemeCaseInsensitive(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("a@b.com:pw"))
	for _, scheme := range []string{"basic", "BASIC", "Basic"} {
		id, secret, err := DecodeBasic(scheme + " " + payload)
		require.NoError(t, err, scheme)
		require.Equal(t, "a@b.com", id)
		require.Equal(t, "pw", secret)
	}
}

func TestDecodeBasic_Malformed(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("a@b.com:pw"))
	cases := map[string]string{
		"empty":           "",
		"no payload":      "Basic",
		"wrong scheme":    "Bearer " + payload,
		"three parts":     "Basic " + payload + " extra",
		"bad base64":      "Basic not-base64!!",
		"no colon":        "Basic " + base64.StdEncoding.EncodeToString([]byte("a@b.compw")),
		"two colons":      "Basic " + base64.StdEncoding.EncodeToString([]byte("a@b.com:pw:more")),
		"payload swapped": payload + " Basic",
	}
	for name, header := range cases {
		_, _, err := DecodeBasic(header)
		require.ErrorIs(t, err, ErrMalformedCredential, name)
	}
}
