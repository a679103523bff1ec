package guard

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Organizations is the read side of the organization store. The dual
// identifier handling absorbs a historical migration: current records are
// addressed by UUID primary key, legacy records only by the external id
// column. Callers above this boundary only ever see the canonical key.
type Organizations interface {
	repository.Repository[*Organization]

	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*Organization, error)
	GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*Organization, error)
}

type organizations struct {
	repository.Repository[*Organization]
	db *bun.DB
}

var (
	_ Organizations                        = (*organizations)(nil)
	_ repository.Repository[*Organization] = (*organizations)(nil)
)

func NewOrganizationsRepository(db *bun.DB) Organizations {
	repo := repository.NewRepository[*Organization](db, repository.ModelHandlers[*Organization]{
		NewRecord: func() *Organization { return &Organization{} },
		GetID: func(o *Organization) uuid.UUID {
			if o == nil {
				return uuid.Nil
			}
			return o.ID
		},
		SetID: func(o *Organization, id uuid.UUID) {
			if o != nil {
				o.ID = id
			}
		},
		GetIdentifier: func() string {
			return "external_id"
		},
	})

	return &organizations{
		Repository: repo,
		db:         db,
	}
}

func (a *organizations) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*Organization, error) {
	return a.GetByIdentifierTx(ctx, a.db, identifier, criteria...)
}

func (a *organizations) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*Organization, error) {
	options := resolveOrganizationIdentifier(identifier)
	if len(options) == 0 {
		options = []identifierOption{
			{
				column: "external_id",
				value:  strings.TrimSpace(identifier),
			},
		}
	}

	for _, opt := range options {
		record := &Organization{}
		q := tx.NewSelect().Model(record)

		for _, c := range criteria {
			q.Apply(c)
		}

		err := q.
			Where(fmt.Sprintf("?TableAlias.%s = ?", opt.column), opt.value).
			Limit(1).
			Scan(ctx)

		if err != nil {
			if repository.IsRecordNotFound(err) {
				continue
			}
			return nil, err
		}

		return record, nil
	}

	return nil, repository.NewRecordNotFound().
		WithMetadata(map[string]any{
			"identifier": identifier,
		})
}

type identifierOption struct {
	column string
	value  string
}

// resolveOrganizationIdentifier orders the lookup: canonical UUID key first,
// legacy external id as the fallback.
func resolveOrganizationIdentifier(identifier string) []identifierOption {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil
	}

	options := make([]identifierOption, 0, 2)

	if isUUID(trimmed) {
		options = append(options, identifierOption{
			column: "id",
			value:  trimmed,
		})
	}

	options = append(options, identifierOption{
		column: "external_id",
		value:  trimmed,
	})

	return options
}

func isUUID(identifier string) bool {
	_, err := uuid.Parse(identifier)
	return err == nil
}
