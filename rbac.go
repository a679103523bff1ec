package guard

import (
	"context"
	"fmt"
)

// CapabilityName composes the registry key for a module/action pair.
func CapabilityName(module, action string) string {
	return fmt.Sprintf("%s.%s", module, action)
}

// PermissionChecker resolves whether a subject's role grants a named
// module.action capability. Every ambiguous outcome resolves to denied:
// unknown subjects, accounts without a role, unregistered capabilities, and
// store failures all yield false. Lookup errors are logged, never
// propagated, and never defaulted to allow.
type PermissionChecker struct {
	accounts     AccountLookup
	capabilities CapabilityLookup
	grants       GrantLookup
	logger       Logger
}

// NewPermissionChecker returns a checker backed by the given stores.
func NewPermissionChecker(accounts AccountLookup, capabilities CapabilityLookup, grants GrantLookup) *PermissionChecker {
	return &PermissionChecker{
		accounts:     accounts,
		capabilities: capabilities,
		grants:       grants,
		logger:       defLogger{},
	}
}

func (c *PermissionChecker) WithLogger(logger Logger) *PermissionChecker {
	c.logger = logger
	return c
}

// Check reports whether the subject may perform module.action.
func (c *PermissionChecker) Check(ctx context.Context, subjectID, module, action string) bool {
	account, err := c.accounts.GetBySubject(ctx, subjectID)
	if err != nil {
		c.logger.Warn("permission check account lookup failed, denying", "subject", subjectID, "error", err)
		return false
	}

	if account == nil {
		return false
	}

	if account.SuperAdmin {
		return true
	}

	if account.RoleID == "" {
		return false
	}

	name := CapabilityName(module, action)

	capability, err := c.capabilities.GetByName(ctx, name)
	if err != nil {
		c.logger.Warn("permission check capability lookup failed, denying", "capability", name, "error", err)
		return false
	}

	if capability == nil {
		c.logger.Warn("permission check against unregistered capability, denying", "capability", name)
		return false
	}

	granted, err := c.grants.IsGranted(ctx, account.RoleID, capability.ID.String())
	if err != nil {
		c.logger.Warn("permission check grant lookup failed, denying",
			"role", account.RoleID,
			"capability", name,
			"error", err,
		)
		return false
	}

	return granted
}

// Require enforces module.action for the given principal, failing with
// ErrPermissionDenied. Super-admin principals pass without a lookup.
func (c *PermissionChecker) Require(ctx context.Context, p *Principal, module, action string) error {
	if p == nil {
		return ErrTokenMalformed
	}

	if p.SuperAdmin {
		p.advance(StagePermissionChecked)
		return nil
	}

	if !c.Check(ctx, p.SubjectID, module, action) {
		return PermissionDenied(CapabilityName(module, action))
	}

	p.advance(StagePermissionChecked)
	return nil
}
