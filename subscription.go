package guard

// BillingState is the organization's subscription lifecycle stage.
type BillingState = string

const (
	// BillingTrial is the evaluation state (reads allowed, writes gated)
	BillingTrial BillingState = "trial"
	// BillingActive is a paid subscription (reads and writes allowed)
	BillingActive BillingState = "active"
	// BillingExpired is a lapsed subscription
	BillingExpired BillingState = "expired"
	// BillingCancelled is a terminated subscription
	BillingCancelled BillingState = "cancelled"
)

// IsValidBillingState checks if the state is one of the known lifecycle stages
func IsValidBillingState(s BillingState) bool {
	switch s {
	case BillingTrial, BillingActive, BillingExpired, BillingCancelled:
		return true
	default:
		return false
	}
}

// AllowsWrite reports whether the state permits mutating operations.
func AllowsWrite(s BillingState) bool {
	return s == BillingActive
}

// ParseBillingState safely maps a raw status value onto a known lifecycle
// stage. Unknown values resolve to trial, the most restricted writable state.
func ParseBillingState(raw string) (BillingState, bool) {
	if IsValidBillingState(raw) {
		return raw, true
	}
	return BillingTrial, false
}

// RequireActiveSubscription fails with ErrSubscriptionRequired unless the
// principal's organization carries an active subscription. Super-admins pass
// unconditionally. Gating is opt-in per operation: callers apply this to
// monetized writes only, reads stay available in every billing state.
func RequireActiveSubscription(p *Principal) error {
	if p == nil {
		return ErrTokenMalformed
	}

	if p.SuperAdmin {
		p.advance(StageSubscriptionChecked)
		return nil
	}

	if !AllowsWrite(p.Billing) {
		return SubscriptionRequired(p.Billing)
	}

	p.advance(StageSubscriptionChecked)
	return nil
}
