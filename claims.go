package guard

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the concrete JWT payload carried by locally issued
// credentials. The org claim is empty for super-admins.
type TokenClaims struct {
	jwt.RegisteredClaims
	UID      string         `json:"uid,omitempty"`
	OrgID    string         `json:"org,omitempty"`
	Role     string         `json:"role,omitempty"`
	Super    bool           `json:"su,omitempty"`
	Billing  string         `json:"billing,omitempty"` // advisory only, see TenantResolver
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Verify interface compliance
var _ Claims = (*TokenClaims)(nil)

// Subject returns the subject claim
func (c *TokenClaims) Subject() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// OrganizationID returns the organization claim, empty for super-admins.
func (c *TokenClaims) OrganizationID() string {
	return c.OrgID
}

// RoleID returns the role claim
func (c *TokenClaims) RoleID() string {
	return c.Role
}

// IsSuperAdmin reports whether the credential was minted for a super-admin.
func (c *TokenClaims) IsSuperAdmin() bool {
	return c.Super
}

// BillingHint exposes the billing claim embedded in the raw credential.
// It exists only so foreign tokens round-trip; no pipeline stage reads it.
func (c *TokenClaims) BillingHint() string {
	return c.Billing
}

// ClaimsMetadata exposes metadata extensions for optional context enrichment.
func (c *TokenClaims) ClaimsMetadata() map[string]any {
	return c.Metadata
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *TokenClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
