// Package gateway holds the PayPal-facing application logic: resolving API
// credentials and deciding which members are PayPal subscribers.
package gateway

import (
	"context"

	"github.com/membergate/membergate/internal/shared/config"
	"github.com/membergate/membergate/internal/shared/hooks"
)

// Credentials is one PayPal API username/password/signature triple.
type Credentials struct {
	Username  string
	Password  string
	Signature string
}

// Complete reports whether all three fields are present.
func (c Credentials) Complete() bool {
	return c.Username != "" && c.Password != "" && c.Signature != ""
}

// CredentialFilter may replace the resolved credentials; the argument is the
// sandbox flag.
type CredentialFilter = hooks.Filter[Credentials, bool]

// CredentialResolver picks the test or live credential set according to the
// sandbox flag.
type CredentialResolver struct {
	cfg     config.GatewayConfig
	filters *hooks.Chain[Credentials, bool]
}

// NewCredentialResolver creates a resolver over cfg with an empty filter chain.
func NewCredentialResolver(cfg config.GatewayConfig) *CredentialResolver {
	return &CredentialResolver{cfg: cfg, filters: hooks.NewChain[Credentials, bool]()}
}

// AddFilter registers an override for the resolved credentials.
func (r *CredentialResolver) AddFilter(priority int, f CredentialFilter) {
	r.filters.Add(priority, f)
}

func (r *CredentialResolver) Sandbox() bool {
	return r.cfg.Sandbox
}

// Resolve returns the active credential set. An incomplete set is returned
// as the zero value.
func (r *CredentialResolver) Resolve(ctx context.Context) Credentials {
	source := r.cfg.PayPal.Live
	if r.cfg.Sandbox {
		source = r.cfg.PayPal.Test
	}

	creds := Credentials{
		Username:  source.APIUsername,
		Password:  source.APIPassword,
		Signature: source.APISignature,
	}
	if !creds.Complete() {
		creds = Credentials{}
	}

	creds = r.filters.Apply(ctx, creds, r.cfg.Sandbox)
	if !creds.Complete() {
		return Credentials{}
	}
	return creds
}

// HasAPIAccess reports whether a complete credential set is available.
func (r *CredentialResolver) HasAPIAccess(ctx context.Context) bool {
	return r.Resolve(ctx).Complete()
}
