package guard

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Organizations() Organizations
	Accounts() Accounts
	Roles() Roles
	Capabilities() Capabilities
	Grants() Grants
}

type mngr struct {
	db            *bun.DB
	organizations Organizations
	accounts      Accounts
	roles         Roles
	capabilities  Capabilities
	grants        Grants
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:            db,
		organizations: NewOrganizationsRepository(db),
		accounts:      NewAccountsRepository(db),
		roles:         NewRolesRepository(db),
		capabilities:  NewCapabilitiesRepository(db),
		grants:        NewGrantsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.organizations == nil {
		return errors.New("repository organizations should be initialized")
	}

	if m.accounts == nil {
		return errors.New("repository accounts should be initialized")
	}

	if m.roles == nil {
		return errors.New("repository roles should be initialized")
	}

	if m.capabilities == nil {
		return errors.New("repository capabilities should be initialized")
	}

	if m.grants == nil {
		return errors.New("repository grants should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Organizations() Organizations {
	return m.organizations
}

func (m mngr) Accounts() Accounts {
	return m.accounts
}

func (m mngr) Roles() Roles {
	return m.roles
}

func (m mngr) Capabilities() Capabilities {
	return m.capabilities
}

func (m mngr) Grants() Grants {
	return m.grants
}
