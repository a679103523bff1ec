package guard

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// GuardConfig is the concrete Config implementation. Cache TTLs bound the
// staleness of injected billing state and of grant lookups; there is no
// inferred default, zero keeps caching off.
type GuardConfig struct {
	SigningKey      string        `json:"signing_key"`
	SigningMethod   string        `json:"signing_method"`
	ContextKey      string        `json:"context_key"`
	TokenExpiration int           `json:"token_expiration"`
	TokenLookup     string        `json:"token_lookup"`
	AuthScheme      string        `json:"auth_scheme"`
	Issuer          string        `json:"issuer"`
	Audience        []string      `json:"audience"`
	OrgCacheTTL     time.Duration `json:"org_cache_ttl"`
	GrantCacheTTL   time.Duration `json:"grant_cache_ttl"`
}

var _ Config = (*GuardConfig)(nil)

// Validate will validate the configuration
func (c GuardConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SigningKey, validation.Required, validation.Length(32, 0)),
		validation.Field(&c.SigningMethod, validation.In("HS256", "HS384", "HS512")),
		validation.Field(&c.TokenExpiration, validation.Min(0)),
		validation.Field(&c.OrgCacheTTL, validation.Min(time.Duration(0)), validation.Max(time.Minute)),
		validation.Field(&c.GrantCacheTTL, validation.Min(time.Duration(0)), validation.Max(time.Minute)),
	)
}

func (c GuardConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c GuardConfig) GetSigningMethod() string {
	if c.SigningMethod == "" {
		return "HS256"
	}
	return c.SigningMethod
}

func (c GuardConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return "principal"
	}
	return c.ContextKey
}

func (c GuardConfig) GetTokenExpiration() int {
	if c.TokenExpiration == 0 {
		return 24
	}
	return c.TokenExpiration
}

func (c GuardConfig) GetTokenLookup() string {
	if c.TokenLookup == "" {
		return "header:Authorization"
	}
	return c.TokenLookup
}

func (c GuardConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}

func (c GuardConfig) GetIssuer() string {
	return c.Issuer
}

func (c GuardConfig) GetAudience() []string {
	return c.Audience
}

func (c GuardConfig) GetOrgCacheTTL() time.Duration {
	return c.OrgCacheTTL
}

func (c GuardConfig) GetGrantCacheTTL() time.Duration {
	return c.GrantCacheTTL
}
