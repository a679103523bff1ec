package guard

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// OrganizationScoped is implemented by records that belong to a tenant.
type OrganizationScoped interface {
	SetOrganizationID(id string)
}

// ScopeSelect returns a select criteria that filters rows by the
// principal's organization. Super-admins produce a no-op criteria since
// they query unrestricted. Every downstream read must apply this.
func ScopeSelect(p *Principal) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if scope, ok := p.Scope(); ok {
			return q.Where("?TableAlias.organization_id = ?", scope)
		}
		return q
	}
}

// ScopeUpdate returns an update criteria mirroring ScopeSelect for writes
// that modify rows in place.
func ScopeUpdate(p *Principal) repository.UpdateCriteria {
	return func(q *bun.UpdateQuery) *bun.UpdateQuery {
		if scope, ok := p.Scope(); ok {
			return q.Where("?TableAlias.organization_id = ?", scope)
		}
		return q
	}
}

// ScopeDelete returns a delete criteria mirroring ScopeSelect for writes
// that remove rows.
func ScopeDelete(p *Principal) repository.DeleteCriteria {
	return func(q *bun.DeleteQuery) *bun.DeleteQuery {
		if scope, ok := p.Scope(); ok {
			return q.Where("?TableAlias.organization_id = ?", scope)
		}
		return q
	}
}

// StampScope stamps the principal's organization onto a record about to be
// written. Records written by super-admins keep whatever organization the
// caller set explicitly.
func StampScope(p *Principal, record OrganizationScoped) {
	if record == nil {
		return
	}
	if scope, ok := p.Scope(); ok {
		record.SetOrganizationID(scope)
	}
}
