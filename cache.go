package guard

import (
	"context"
	"sync"
	"time"
)

// CachedOrganizations is a read-through TTL decorator over an
// OrganizationLookup. The TTL bounds how stale an injected billing state can
// be, so it must be an explicit choice: a zero TTL disables caching and
// every request re-reads the store. Write paths that change a plan should
// call Invalidate so the change takes effect immediately.
type CachedOrganizations struct {
	next OrganizationLookup
	ttl  time.Duration

	mu      sync.RWMutex
	entries map[string]orgCacheEntry
}

type orgCacheEntry struct {
	org     *Organization
	expires time.Time
}

// NewCachedOrganizations wraps the lookup with a TTL cache.
func NewCachedOrganizations(next OrganizationLookup, ttl time.Duration) *CachedOrganizations {
	return &CachedOrganizations{
		next:    next,
		ttl:     ttl,
		entries: map[string]orgCacheEntry{},
	}
}

var _ OrganizationLookup = (*CachedOrganizations)(nil)

func (c *CachedOrganizations) GetByIdentifier(ctx context.Context, identifier string) (*Organization, error) {
	if c.ttl <= 0 {
		return c.next.GetByIdentifier(ctx, identifier)
	}

	c.mu.RLock()
	entry, ok := c.entries[identifier]
	c.mu.RUnlock()

	if ok && time.Now().Before(entry.expires) {
		return entry.org, nil
	}

	org, err := c.next.GetByIdentifier(ctx, identifier)
	if err != nil {
		// misses and failures are not cached, a billing change must never
		// be masked by a negative entry
		return nil, err
	}

	c.mu.Lock()
	c.entries[identifier] = orgCacheEntry{
		org:     org,
		expires: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()

	return org, nil
}

// Invalidate drops the cached record for the identifier, both canonical and
// legacy keys if the record carries them.
func (c *CachedOrganizations) Invalidate(identifier string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[identifier]
	delete(c.entries, identifier)

	if !ok || entry.org == nil {
		return
	}

	delete(c.entries, entry.org.Key())
	if entry.org.ExternalID != "" {
		delete(c.entries, entry.org.ExternalID)
	}
}

// CachedAccounts is the equivalent TTL decorator for account lookups used
// by the permission checker.
type CachedAccounts struct {
	next AccountLookup
	ttl  time.Duration

	mu      sync.RWMutex
	entries map[string]accountCacheEntry
}

type accountCacheEntry struct {
	account *UserAccount
	expires time.Time
}

// NewCachedAccounts wraps the lookup with a TTL cache.
func NewCachedAccounts(next AccountLookup, ttl time.Duration) *CachedAccounts {
	return &CachedAccounts{
		next:    next,
		ttl:     ttl,
		entries: map[string]accountCacheEntry{},
	}
}

var _ AccountLookup = (*CachedAccounts)(nil)

func (c *CachedAccounts) GetBySubject(ctx context.Context, subjectID string) (*UserAccount, error) {
	if c.ttl <= 0 {
		return c.next.GetBySubject(ctx, subjectID)
	}

	c.mu.RLock()
	entry, ok := c.entries[subjectID]
	c.mu.RUnlock()

	if ok && time.Now().Before(entry.expires) {
		return entry.account, nil
	}

	account, err := c.next.GetBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[subjectID] = accountCacheEntry{
		account: account,
		expires: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()

	return account, nil
}

// Invalidate drops the cached account for the subject.
func (c *CachedAccounts) Invalidate(subjectID string) {
	c.mu.Lock()
	delete(c.entries, subjectID)
	c.mu.Unlock()
}

// CachedGrants is the equivalent TTL decorator for grant decisions, keyed by
// role and capability pair. Only positive lookups complete; a store failure
// is returned to the caller, which treats it as denied.
type CachedGrants struct {
	next GrantLookup
	ttl  time.Duration

	mu      sync.RWMutex
	entries map[grantCacheKey]grantCacheEntry
}

type grantCacheKey struct {
	roleID       string
	capabilityID string
}

type grantCacheEntry struct {
	granted bool
	expires time.Time
}

// NewCachedGrants wraps the lookup with a TTL cache.
func NewCachedGrants(next GrantLookup, ttl time.Duration) *CachedGrants {
	return &CachedGrants{
		next:    next,
		ttl:     ttl,
		entries: map[grantCacheKey]grantCacheEntry{},
	}
}

var _ GrantLookup = (*CachedGrants)(nil)

func (c *CachedGrants) IsGranted(ctx context.Context, roleID string, capabilityID string) (bool, error) {
	if c.ttl <= 0 {
		return c.next.IsGranted(ctx, roleID, capabilityID)
	}

	key := grantCacheKey{roleID: roleID, capabilityID: capabilityID}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && time.Now().Before(entry.expires) {
		return entry.granted, nil
	}

	granted, err := c.next.IsGranted(ctx, roleID, capabilityID)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	c.entries[key] = grantCacheEntry{
		granted: granted,
		expires: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()

	return granted, nil
}

// InvalidateRole drops every cached decision for the role. Call it when the
// role's grant set changes.
func (c *CachedGrants) InvalidateRole(roleID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if key.roleID == roleID {
			delete(c.entries, key)
		}
	}
}
