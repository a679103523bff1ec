package guard

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Organization is the billing and data-isolation boundary. Owned by the
// provisioning side of the product; this package only ever reads it.
type Organization struct {
	bun.BaseModel `bun:"table:organizations,alias:org"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ExternalID    string     `bun:"external_id,unique" json:"external_id,omitempty"`
	DisplayName   string     `bun:"display_name,notnull" json:"display_name,omitempty"`
	IsActive      bool       `bun:"is_active" json:"is_active"`
	BillingState  string     `bun:"billing_state" json:"billing_state,omitempty"`
	Status        string     `bun:"status" json:"status,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Key returns the canonical identifier downstream scoping uses. Legacy
// records created before the id migration carry only an external id.
func (o *Organization) Key() string {
	if o.ID != uuid.Nil {
		return o.ID.String()
	}
	return o.ExternalID
}

// ResolveBillingState derives the authoritative billing state: the explicit
// billing_state column wins, the legacy status column is the fallback, and
// records predating both default to trial.
func (o *Organization) ResolveBillingState() BillingState {
	if o.BillingState != "" {
		if state, ok := ParseBillingState(o.BillingState); ok {
			return state
		}
	}
	if o.Status != "" {
		if state, ok := ParseBillingState(o.Status); ok {
			return state
		}
	}
	return BillingTrial
}

// UserAccount links a credential subject to its organization and role.
// Read-only here; account provisioning lives elsewhere.
type UserAccount struct {
	bun.BaseModel  `bun:"table:user_accounts,alias:acct"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	SubjectID      string     `bun:"subject_id,notnull,unique" json:"subject_id,omitempty"`
	OrganizationID string     `bun:"organization_id" json:"organization_id,omitempty"`
	RoleID         string     `bun:"role_id" json:"role_id,omitempty"`
	SuperAdmin     bool       `bun:"is_super_admin" json:"is_super_admin,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Role names a grant set. OrganizationID is empty for system-wide roles.
type Role struct {
	bun.BaseModel  `bun:"table:roles,alias:rol"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name           string     `bun:"name,notnull" json:"name,omitempty"`
	OrganizationID string     `bun:"organization_id" json:"organization_id,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Capability registers one authorizable module.action pair.
type Capability struct {
	bun.BaseModel `bun:"table:capabilities,alias:cap"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull,unique" json:"name,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// PermissionGrant links a role to a capability. Absence of a grant record,
// or a grant with Granted false, both mean denied.
type PermissionGrant struct {
	bun.BaseModel `bun:"table:permission_grants,alias:grant"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	RoleID        string     `bun:"role_id,notnull" json:"role_id,omitempty"`
	CapabilityID  uuid.UUID  `bun:"capability_id,notnull,type:uuid" json:"capability_id,omitempty"`
	Capability    *Capability `bun:"rel:has-one,join:capability_id=id" json:"capability,omitempty"`
	Granted       bool       `bun:"granted" json:"granted"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}
