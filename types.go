package guard

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Claims is the decoded payload of a verified bearer credential.
type Claims interface {
	Subject() string
	OrganizationID() string
	RoleID() string
	IsSuperAdmin() bool
	Expires() time.Time
	IssuedAt() time.Time
}

// TokenValidator validates tokens and extracts claims without tying callers
// to a specific signing implementation.
type TokenValidator interface {
	Validate(tokenString string) (Claims, error)
}

// TokenService signs and validates locally issued credentials.
type TokenService interface {
	TokenValidator
	Generate(subjectID string, opts TokenOptions) (string, error)
	SignClaims(claims *TokenClaims) (string, error)
}

// OrganizationLookup resolves organizations by canonical or legacy key.
type OrganizationLookup interface {
	GetByIdentifier(ctx context.Context, identifier string) (*Organization, error)
}

// AccountLookup resolves user accounts by credential subject.
type AccountLookup interface {
	GetBySubject(ctx context.Context, subjectID string) (*UserAccount, error)
}

// CapabilityLookup resolves capability names ("module.action") to registered
// capability records.
type CapabilityLookup interface {
	GetByName(ctx context.Context, name string) (*Capability, error)
}

// GrantLookup reports whether a role holds a granted capability.
type GrantLookup interface {
	IsGranted(ctx context.Context, roleID string, capabilityID string) (bool, error)
}

// Config holds guard options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetTokenExpiration() int
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
}

// NopLogger discards every record. Useful in tests and for callers that
// bring their own rejection handling.
type NopLogger struct{}

func (NopLogger) Debug(format string, args ...any) {}
func (NopLogger) Info(format string, args ...any)  {}
func (NopLogger) Warn(format string, args ...any)  {}
func (NopLogger) Error(format string, args ...any) {}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] GUARD "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] GUARD "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] GUARD "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] GUARD "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
