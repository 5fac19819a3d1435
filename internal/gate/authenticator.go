package gate

import (
	"net/http"

	"edgegate/internal/auth"
	"edgegate/internal/contextutil"
	"edgegate/internal/observability/logging"
	"edgegate/internal/observability/metrics"
)

// Config holds basic authenticator configuration
type Config struct {
	// Enabled indicates whether the gate checks requests at all
	Enabled bool

	// Username and Password form the shared credential
	Username string
	Password string

	// Realm is the label sent in the WWW-Authenticate challenge
	Realm string
}

// Authenticator adapts Evaluate to net/http middleware
type Authenticator struct {
	logger  *logging.Logger
	metrics *metrics.Collector
	enabled bool
	policy  Policy
}

// New creates a basic authenticator. The policy is validated here so a bad
// configuration fails at startup rather than on the first request.
func New(config Config, logger *logging.Logger, metrics *metrics.Collector) (*Authenticator, error) {
	logger = logger.WithModule("auth.basic")

	if !config.Enabled {
		return &Authenticator{
			logger:  logger,
			metrics: metrics,
			enabled: false,
		}, nil
	}

	policy, err := NewPolicy(config.Username, config.Password, config.Realm)
	if err != nil {
		return nil, err
	}

	logger.Debug("Basic authentication policy loaded",
		"username", logging.Masked(policy.Username()),
		"realm", policy.Realm(),
	)

	return &Authenticator{
		logger:  logger,
		metrics: metrics,
		enabled: true,
		policy:  policy,
	}, nil
}

// Name returns the name of this authenticator
func (a *Authenticator) Name() string {
	return string(auth.AuthTypeBasic)
}

// Policy returns the policy requests are checked against
func (a *Authenticator) Policy() Policy {
	return a.policy
}

// GetMiddleware returns an http.Handler middleware that gates every request.
// On deny the chain stops here; next is never invoked.
func (a *Authenticator) GetMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.enabled {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		logger := logging.LoggerOrDefault(ctx, a.logger)

		decision := Evaluate(r.Header.Get("Authorization"), a.policy)
		a.metrics.RecordAuthentication(a.Name(), decision.Allowed, decision.Reason.String())

		if !decision.Allowed {
			logger.Info("Request denied",
				"reason", decision.Reason.String(),
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			Challenge(w, a.policy)
			return
		}

		logger.Debug("Request allowed", "subject", decision.Username, "path", r.URL.Path)

		identity := &auth.Identity{
			Subject:  decision.Username,
			Provider: a.Name(),
		}
		ctx = contextutil.WithIdentity(ctx, identity)
		ctx = contextutil.WithAuthType(ctx, auth.AuthTypeBasic)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Challenge writes the 401 response shared by every deny reason
func Challenge(w http.ResponseWriter, policy Policy) {
	w.Header().Set("WWW-Authenticate", policy.Challenge())
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
