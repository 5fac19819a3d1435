// Package gate implements the edge access gate: a stateless HTTP basic-auth
// check of every inbound request against a single shared credential pair.
package gate

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// DefaultRealm is used when no realm is configured
const DefaultRealm = "Restricted"

var (
	// ErrEmptyUsername is returned by NewPolicy when no username is configured
	ErrEmptyUsername = errors.New("gate: username must not be empty")

	// ErrEmptyPassword is returned by NewPolicy when no password is configured
	ErrEmptyPassword = errors.New("gate: password must not be empty")

	// ErrInvalidRealm is returned by NewPolicy when the realm cannot be quoted safely
	ErrInvalidRealm = errors.New("gate: invalid realm")
)

// Policy is the credential pair every request is checked against.
// It is built once at startup and never changes.
type Policy struct {
	username string
	password string
	realm    string
}

// NewPolicy validates and freezes a credential policy. An empty realm falls
// back to DefaultRealm.
func NewPolicy(username, password, realm string) (Policy, error) {
	if username == "" {
		return Policy{}, ErrEmptyUsername
	}
	// A colon cannot round-trip through the user:pass encoding.
	if strings.Contains(username, ":") {
		return Policy{}, fmt.Errorf("gate: username must not contain ':'")
	}
	if password == "" {
		return Policy{}, ErrEmptyPassword
	}

	if realm == "" {
		realm = DefaultRealm
	}
	if err := validateRealm(realm); err != nil {
		return Policy{}, err
	}

	return Policy{
		username: username,
		password: password,
		realm:    realm,
	}, nil
}

// Username returns the expected username
func (p Policy) Username() string {
	return p.username
}

// Realm returns the realm label sent in the challenge
func (p Policy) Realm() string {
	return p.realm
}

// Challenge returns the WWW-Authenticate header value for this policy
func (p Policy) Challenge() string {
	return fmt.Sprintf(`Basic realm="%s"`, p.realm)
}

// String omits the password
func (p Policy) String() string {
	return fmt.Sprintf("Policy{username=%q realm=%q}", p.username, p.realm)
}

func validateRealm(realm string) error {
	for _, r := range realm {
		if r == '"' || r == '\\' || unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidRealm, realm, r)
		}
	}
	return nil
}
