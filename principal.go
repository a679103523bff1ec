package guard

import "fmt"

// Stage tracks how far along the authorization pipeline a principal has
// advanced. Stages are linear and never revisited within a request.
type Stage string

const (
	StageVerified            Stage = "verified"
	StageTenantResolved      Stage = "tenant_resolved"
	StageSubscriptionChecked Stage = "subscription_checked"
	StagePermissionChecked   Stage = "permission_checked"
)

// Principal is the per-request claim set decorated by each pipeline stage.
// It is built fresh per request and never persisted. OrganizationID is empty
// only for super-admins; Billing always holds the state re-derived from the
// Organization record, never a value from the raw credential.
type Principal struct {
	SubjectID      string
	OrganizationID string
	RoleID         string
	SuperAdmin     bool
	Billing        BillingState
	Stage          Stage
}

// Scope returns the data-partition key downstream queries must filter by.
// ok is false only for super-admins, meaning no partition filter applies.
func (p *Principal) Scope() (string, bool) {
	if p == nil || p.SuperAdmin {
		return "", false
	}
	return p.OrganizationID, true
}

// AllowRead reports whether read operations are permitted. Reads are always
// available once the tenant resolved, regardless of billing state.
func (p *Principal) AllowRead() bool {
	return p != nil
}

func (p *Principal) advance(next Stage) {
	p.Stage = next
}

func (p Principal) String() string {
	scope := "<unrestricted>"
	if id, ok := p.Scope(); ok {
		scope = id
	}
	return fmt.Sprintf(
		"subject=%s scope=%s role=%s billing=%s stage=%s",
		p.SubjectID,
		scope,
		p.RoleID,
		p.Billing,
		p.Stage,
	)
}
