package guard

import (
	"context"

	"github.com/goliatone/go-errors"
)

// TenantResolver turns verified claims into a Principal by loading the
// caller's organization and injecting its current billing state. The billing
// state on the record is the sole source of truth; whatever billing hint the
// raw credential carried is never consulted, which is what keeps a plan
// change effective on the very next request.
type TenantResolver struct {
	orgs     OrganizationLookup
	accounts AccountLookup
	logger   Logger
}

// NewTenantResolver returns a resolver backed by the given organization store.
func NewTenantResolver(orgs OrganizationLookup) *TenantResolver {
	return &TenantResolver{
		orgs:   orgs,
		logger: defLogger{},
	}
}

func (r *TenantResolver) WithLogger(logger Logger) *TenantResolver {
	r.logger = logger
	return r
}

// WithAccountLookup makes the resolver re-derive organization and role from
// the subject's account record instead of trusting the values embedded in
// the credential. Recommended whenever an account store is available.
func (r *TenantResolver) WithAccountLookup(accounts AccountLookup) *TenantResolver {
	r.accounts = accounts
	return r
}

// Resolve validates tenant membership and returns the decorated Principal.
// Super-admins skip the lookup entirely and resolve with an active billing
// state and no scope.
func (r *TenantResolver) Resolve(ctx context.Context, claims Claims) (*Principal, error) {
	if claims == nil {
		return nil, ErrTokenMalformed
	}

	p := &Principal{
		SubjectID:      claims.Subject(),
		OrganizationID: claims.OrganizationID(),
		RoleID:         claims.RoleID(),
		SuperAdmin:     claims.IsSuperAdmin(),
		Stage:          StageVerified,
	}

	if r.accounts != nil && !p.SuperAdmin {
		if err := r.rederiveFromAccount(ctx, p); err != nil {
			return nil, err
		}
	}

	if p.SuperAdmin {
		p.OrganizationID = ""
		p.Billing = BillingActive
		p.advance(StageTenantResolved)
		return p, nil
	}

	if p.OrganizationID == "" {
		return nil, ErrNoOrganization
	}

	org, err := r.orgs.GetByIdentifier(ctx, p.OrganizationID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrOrganizationNotFound
		}
		r.logger.Error("tenant resolver organization lookup failed", "org", p.OrganizationID, "error", err)
		return nil, errors.Wrap(err, ErrTenantLookupFailed.Category, ErrTenantLookupFailed.Message).
			WithTextCode(ErrTenantLookupFailed.TextCode).
			WithCode(ErrTenantLookupFailed.Code)
	}

	if org == nil {
		return nil, ErrOrganizationNotFound
	}

	if !org.IsActive {
		return nil, ErrOrganizationInactive
	}

	// normalize to the canonical key even when the caller addressed the
	// organization by its legacy external id
	p.OrganizationID = org.Key()
	p.Billing = org.ResolveBillingState()
	p.advance(StageTenantResolved)

	return p, nil
}

// rederiveFromAccount replaces credential-embedded tenant attributes with
// the authoritative values on the subject's account record. A missing
// account keeps the credential values; a store failure rejects the request.
func (r *TenantResolver) rederiveFromAccount(ctx context.Context, p *Principal) error {
	account, err := r.accounts.GetBySubject(ctx, p.SubjectID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		r.logger.Error("tenant resolver account lookup failed", "subject", p.SubjectID, "error", err)
		return errors.Wrap(err, ErrTenantLookupFailed.Category, ErrTenantLookupFailed.Message).
			WithTextCode(ErrTenantLookupFailed.TextCode).
			WithCode(ErrTenantLookupFailed.Code)
	}

	if account == nil {
		return nil
	}

	p.SuperAdmin = p.SuperAdmin || account.SuperAdmin
	p.OrganizationID = account.OrganizationID
	p.RoleID = account.RoleID

	return nil
}
