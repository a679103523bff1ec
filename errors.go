package guard

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeTokenExpired         = "token_expired"
	TextCodeTokenMalformed       = "token_malformed"
	TextCodeNoOrganization       = "no_organization_assigned"
	TextCodeOrganizationNotFound = "organization_not_found"
	TextCodeOrganizationInactive = "organization_inactive"
	TextCodeTenantLookupFailed   = "tenant_lookup_failed"
	TextCodeSubscriptionRequired = "subscription_required"
	TextCodePermissionDenied     = "permission_denied"
)

// ErrTokenExpired is returned when the bearer credential has expired.
var ErrTokenExpired = errors.New("authentication token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when the credential is absent, cannot be
// decoded, or carries an invalid signature.
var ErrTokenMalformed = errors.New("invalid authentication token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrNoOrganization is returned when a non super-admin credential carries no
// organization id.
var ErrNoOrganization = errors.New("no organization assigned", errors.CategoryAuthz).
	WithTextCode(TextCodeNoOrganization).
	WithCode(errors.CodeForbidden)

// ErrOrganizationNotFound is returned when neither the canonical nor the
// legacy organization key resolves to a record.
var ErrOrganizationNotFound = errors.New("organization not found", errors.CategoryAuthz).
	WithTextCode(TextCodeOrganizationNotFound).
	WithCode(errors.CodeForbidden)

// ErrOrganizationInactive is returned when the caller's organization exists
// but has been deactivated.
var ErrOrganizationInactive = errors.New("organization inactive", errors.CategoryAuthz).
	WithTextCode(TextCodeOrganizationInactive).
	WithCode(errors.CodeForbidden)

// ErrTenantLookupFailed is returned when the organization store is
// unreachable during tenant resolution. Fail-closed: the request is rejected
// rather than resolved against stale claims.
var ErrTenantLookupFailed = errors.New("unable to resolve organization", errors.CategoryAuthz).
	WithTextCode(TextCodeTenantLookupFailed).
	WithCode(errors.CodeForbidden)

// ErrSubscriptionRequired is returned when a gated operation is attempted
// while the organization's billing state is not active. Metadata carries the
// current billing state so callers can render an upgrade prompt.
var ErrSubscriptionRequired = errors.New("active subscription required", errors.CategoryAuthz).
	WithTextCode(TextCodeSubscriptionRequired).
	WithCode(http.StatusPaymentRequired)

// ErrPermissionDenied is returned when the caller's role lacks the named
// capability. Metadata carries the denied capability for audit logging.
var ErrPermissionDenied = errors.New("permission denied", errors.CategoryAuthz).
	WithTextCode(TextCodePermissionDenied).
	WithCode(errors.CodeForbidden)

// SubscriptionRequired builds an ErrSubscriptionRequired clone tagged with
// the billing state that caused the rejection.
func SubscriptionRequired(state BillingState) error {
	clone := ErrSubscriptionRequired.Clone()
	if clone == nil {
		return ErrSubscriptionRequired
	}
	clone.Source = ErrSubscriptionRequired
	return clone.WithMetadata(map[string]any{"billing_state": string(state)})
}

// PermissionDenied builds an ErrPermissionDenied clone naming the denied
// capability.
func PermissionDenied(capability string) error {
	clone := ErrPermissionDenied.Clone()
	if clone == nil {
		return ErrPermissionDenied
	}
	clone.Message = fmt.Sprintf("permission denied: %s", capability)
	clone.Source = ErrPermissionDenied
	return clone.WithMetadata(map[string]any{"capability": capability})
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
