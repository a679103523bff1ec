package guard

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Accounts is the read side of the user-account store.
type Accounts interface {
	repository.Repository[*UserAccount]

	GetBySubject(ctx context.Context, subjectID string) (*UserAccount, error)
	GetBySubjectTx(ctx context.Context, tx bun.IDB, subjectID string) (*UserAccount, error)
}

type accounts struct {
	repository.Repository[*UserAccount]
	db *bun.DB
}

var _ Accounts = (*accounts)(nil)

func NewAccountsRepository(db *bun.DB) Accounts {
	repo := repository.NewRepository[*UserAccount](db, repository.ModelHandlers[*UserAccount]{
		NewRecord: func() *UserAccount { return &UserAccount{} },
		GetID: func(a *UserAccount) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *UserAccount, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "subject_id"
		},
	})

	return &accounts{
		Repository: repo,
		db:         db,
	}
}

func (a *accounts) GetBySubject(ctx context.Context, subjectID string) (*UserAccount, error) {
	return a.GetBySubjectTx(ctx, a.db, subjectID)
}

func (a *accounts) GetBySubjectTx(ctx context.Context, tx bun.IDB, subjectID string) (*UserAccount, error) {
	record := &UserAccount{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.subject_id = ?", subjectID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"subject_id": subjectID,
				})
		}
		return nil, err
	}

	return record, nil
}

// Capabilities is the capability registry backed by the capabilities table.
type Capabilities interface {
	repository.Repository[*Capability]

	GetByName(ctx context.Context, name string) (*Capability, error)
}

type capabilities struct {
	repository.Repository[*Capability]
	db *bun.DB
}

var _ Capabilities = (*capabilities)(nil)

func NewCapabilitiesRepository(db *bun.DB) Capabilities {
	repo := repository.NewRepository[*Capability](db, repository.ModelHandlers[*Capability]{
		NewRecord: func() *Capability { return &Capability{} },
		GetID: func(c *Capability) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Capability, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &capabilities{
		Repository: repo,
		db:         db,
	}
}

func (c *capabilities) GetByName(ctx context.Context, name string) (*Capability, error) {
	record := &Capability{}

	err := c.db.NewSelect().
		Model(record).
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"name": name,
				})
		}
		return nil, err
	}

	return record, nil
}

// Grants is the read side of the permission-grant store.
type Grants interface {
	repository.Repository[*PermissionGrant]

	IsGranted(ctx context.Context, roleID string, capabilityID string) (bool, error)
}

type grants struct {
	repository.Repository[*PermissionGrant]
	db *bun.DB
}

var _ Grants = (*grants)(nil)

func NewGrantsRepository(db *bun.DB) Grants {
	repo := repository.NewRepository[*PermissionGrant](db, repository.ModelHandlers[*PermissionGrant]{
		NewRecord: func() *PermissionGrant { return &PermissionGrant{} },
		GetID: func(g *PermissionGrant) uuid.UUID {
			if g == nil {
				return uuid.Nil
			}
			return g.ID
		},
		SetID: func(g *PermissionGrant, id uuid.UUID) {
			if g != nil {
				g.ID = id
			}
		},
	})

	return &grants{
		Repository: repo,
		db:         db,
	}
}

func (g *grants) IsGranted(ctx context.Context, roleID string, capabilityID string) (bool, error) {
	capID, err := uuid.Parse(capabilityID)
	if err != nil {
		return false, nil
	}

	count, err := g.db.NewSelect().
		Model((*PermissionGrant)(nil)).
		Where("?TableAlias.role_id = ?", roleID).
		Where("?TableAlias.capability_id = ?", capID).
		Where("?TableAlias.granted = ?", true).
		Count(ctx)

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// Roles is the read side of the role store.
type Roles interface {
	repository.Repository[*Role]
}

func NewRolesRepository(db *bun.DB) Roles {
	return repository.NewRepository[*Role](db, repository.ModelHandlers[*Role]{
		NewRecord: func() *Role { return &Role{} },
		GetID: func(r *Role) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *Role, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})
}
