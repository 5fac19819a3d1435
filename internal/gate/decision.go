package gate

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"
)

// Reason explains why a request was denied. It feeds logs and metrics only;
// clients always receive the same challenge.
type Reason int

const (
	// ReasonNone is the reason attached to an allowed request
	ReasonNone Reason = iota
	// ReasonMissingCredentials means no Authorization header was sent
	ReasonMissingCredentials
	// ReasonMalformedCredentials means the header was not a decodable basic credential
	ReasonMalformedCredentials
	// ReasonInvalidCredentials means the decoded pair did not match the policy
	ReasonInvalidCredentials
)

// String returns the metric label for the reason
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonMissingCredentials:
		return "missing_credentials"
	case ReasonMalformedCredentials:
		return "malformed_credentials"
	case ReasonInvalidCredentials:
		return "invalid_credentials"
	default:
		return "unknown"
	}
}

// Decision is the outcome of evaluating one request
type Decision struct {
	Allowed bool
	Reason  Reason

	// Username is set only when Allowed is true
	Username string
}

func deny(reason Reason) Decision {
	return Decision{Reason: reason}
}

// Evaluate checks an Authorization header value against the policy.
// It has no side effects and depends on nothing but its arguments.
func Evaluate(header string, policy Policy) Decision {
	if header == "" {
		return deny(ReasonMissingCredentials)
	}

	username, password, ok := parseBasicAuth(header)
	if !ok {
		return deny(ReasonMalformedCredentials)
	}

	// Both comparisons always run so timing does not reveal which field was wrong.
	userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(policy.username))
	passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(policy.password))
	if userMatch&passMatch != 1 {
		return deny(ReasonInvalidCredentials)
	}

	return Decision{Allowed: true, Reason: ReasonNone, Username: username}
}

// parseBasicAuth splits "Basic base64(user:pass)". The scheme is matched
// case-insensitively; the password may itself contain colons.
func parseBasicAuth(header string) (username, password string, ok bool) {
	const prefix = "Basic "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		return "", "", false
	}

	username, password, ok = strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", false
	}
	return username, password, true
}
