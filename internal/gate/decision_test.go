package gate

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basicHeader(userpass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(userpass))
}

func mustPolicy(t *testing.T, username, password string) Policy {
	t.Helper()
	p, err := NewPolicy(username, password, "")
	require.NoError(t, err)
	return p
}

func TestEvaluate(t *testing.T) {
	policy := mustPolicy(t, "admin", "admin")

	tests := []struct {
		name    string
		header  string
		allowed bool
		reason  Reason
	}{
		{"missing header", "", false, ReasonMissingCredentials},
		{"matching pair", basicHeader("admin:admin"), true, ReasonNone},
		{"wrong password", basicHeader("admin:wrong"), false, ReasonInvalidCredentials},
		{"wrong username", basicHeader("root:admin"), false, ReasonInvalidCredentials},
		{"both wrong", basicHeader("root:toor"), false, ReasonInvalidCredentials},
		{"malformed base64", "Basic !!!not-base64!!!", false, ReasonMalformedCredentials},
		{"no colon in payload", basicHeader("adminadmin"), false, ReasonMalformedCredentials},
		{"bearer scheme", "Bearer abc.def.ghi", false, ReasonMalformedCredentials},
		{"scheme only", "Basic", false, ReasonMalformedCredentials},
		{"empty payload", "Basic ", false, ReasonMalformedCredentials},
		{"lowercase scheme", "basic " + base64.StdEncoding.EncodeToString([]byte("admin:admin")), true, ReasonNone},
		{"case differs in username", basicHeader("Admin:admin"), false, ReasonInvalidCredentials},
		{"trailing space in password", basicHeader("admin:admin "), false, ReasonInvalidCredentials},
		{"empty password", basicHeader("admin:"), false, ReasonInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.header, policy)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
			if tt.allowed {
				assert.Equal(t, "admin", d.Username)
			} else {
				assert.Empty(t, d.Username)
			}
		})
	}
}

func TestEvaluatePasswordMayContainColons(t *testing.T) {
	policy := mustPolicy(t, "deploy", "a:b:c")

	assert.True(t, Evaluate(basicHeader("deploy:a:b:c"), policy).Allowed)
	assert.False(t, Evaluate(basicHeader("deploy:a:b"), policy).Allowed)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	policy := mustPolicy(t, "admin", "admin")
	headers := []string{"", basicHeader("admin:admin"), basicHeader("admin:wrong"), "Basic %%%"}

	for _, h := range headers {
		first := Evaluate(h, policy)
		for i := 0; i < 50; i++ {
			assert.Equal(t, first, Evaluate(h, policy))
		}
	}
}

func TestReasonString(t *testing.T) {
	assert.Equal(t, "none", ReasonNone.String())
	assert.Equal(t, "missing_credentials", ReasonMissingCredentials.String())
	assert.Equal(t, "malformed_credentials", ReasonMalformedCredentials.String())
	assert.Equal(t, "invalid_credentials", ReasonInvalidCredentials.String())
	assert.Equal(t, "unknown", Reason(42).String())
}
