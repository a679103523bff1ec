package guard_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	guard "github.com/quartzbooks/go-guard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCapabilityName(t *testing.T) {
	assert.Equal(t, "invoices.read", guard.CapabilityName("invoices", "read"))
	assert.Equal(t, "reports.export", guard.CapabilityName("reports", "export"))
}

func TestPermissionChecker_Check(t *testing.T) {
	ctx := context.Background()

	capID := uuid.New()
	memberAccount := &guard.UserAccount{
		SubjectID:      "user-123",
		OrganizationID: "org-1",
		RoleID:         "role-member",
	}

	newChecker := func(accounts *MockAccountLookup, capabilities *MockCapabilityLookup, grants *MockGrantLookup) *guard.PermissionChecker {
		return guard.NewPermissionChecker(accounts, capabilities, grants).WithLogger(guard.NopLogger{})
	}

	t.Run("granted capability allows", func(t *testing.T) {
		accounts := &MockAccountLookup{}
		accounts.On("GetBySubject", ctx, "user-123").Return(memberAccount, nil)

		capabilities := &MockCapabilityLookup{}
		capabilities.On("GetByName", ctx, "invoices.read").Return(&guard.Capability{
			ID:   capID,
			Name: "invoices.read",
		}, nil)

		grants := &MockGrantLookup{}
		grants.On("IsGranted", ctx, "role-member", capID.String()).Return(true, nil)

		checker := newChecker(accounts, capabilities, grants)

		assert.True(t, checker.Check(ctx, "user-123", "invoices", "read"))

		accounts.AssertExpectations(t)
		capabilities.AssertExpectations(t)
		grants.AssertExpectations(t)
	})

	t.Run("missing grant denies", func(t *testing.T) {
		accounts := &MockAccountLookup{}
		accounts.On("GetBySubject", ctx, "user-123").Return(memberAccount, nil)

		capabilities := &MockCapabilityLookup{}
		capabilities.On("GetByName", ctx, "invoices.write").Return(&guard.Capability{
			ID:   capID,
			Name: "invoices.write",
		}, nil)

		grants := &MockGrantLookup{}
		grants.On("IsGranted", ctx, "role-member", capID.String()).Return(false, nil)

		checker := newChecker(accounts, capabilities, grants)

		assert.False(t, checker.Check(ctx, "user-123", "invoices", "write"))
	})

	t.Run("unknown subject denies", func(t *testing.T) {
		accounts := &MockAccountLookup{}
		accounts.On("GetBySubject", ctx, "ghost").Return(nil,
			errors.New("record not found", errors.CategoryNotFound))

		checker := newChecker(accounts, &MockCapabilityLookup{}, &MockGrantLookup{})

		assert.False(t, checker.Check(ctx, "ghost", "invoices", "read"))
	})

	t.Run("account without role denies", func(t *testing.T) {
		accounts := &MockAccountLookup{}
		accounts.On("GetBySubject", ctx, "user-123").Return(&guard.UserAccount{
			SubjectID:      "user-123",
			OrganizationID: "org-1",
		}, nil)

		capabilities := &MockCapabilityLookup{}
		grants := &MockGrantLookup{}

		checker := newChecker(accounts, capabilities, grants)

		assert.False(t, checker.Check(ctx, "user-123", "invoices", "read"))
		capabilities.AssertNotCalled(t, "GetByName", mock.Anything, mock.Anything)
	})

	t.Run("super admin account allows without lookups", func(t *testing.T) {
		accounts := &MockAccountLookup{}
		accounts.On("GetBySubject", ctx, "admin-1").Return(&guard.UserAccount{
			SubjectID:  "admin-1",
			SuperAdmin: true,
		}, nil)

		capabilities := &MockCapabilityLookup{}
		grants := &MockGrantLookup{}

		checker := newChecker(accounts, capabilities, grants)

		assert.True(t, checker.Check(ctx, "admin-1", "anything", "at-all"))
		capabilities.AssertNotCalled(t, "GetByName", mock.Anything, mock.Anything)
		grants.AssertNotCalled(t, "IsGranted", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unregistered capability denies", func(t *testing.T) {
		accounts := &MockAccountLookup{}
		accounts.On("GetBySubject", ctx, "user-123").Return(memberAccount, nil)

		capabilities := &MockCapabilityLookup{}
		capabilities.On("GetByName", ctx, "reports.export").Return(nil,
			errors.New("record not found", errors.CategoryNotFound))

		checker := newChecker(accounts, capabilities, &MockGrantLookup{})

		assert.False(t, checker.Check(ctx, "user-123", "reports", "export"))
	})

	t.Run("store failures deny instead of crashing", func(t *testing.T) {
		t.Run("account store", func(t *testing.T) {
			accounts := &MockAccountLookup{}
			accounts.On("GetBySubject", ctx, "user-123").Return(nil,
				errors.New("connection refused", errors.CategoryOperation))

			checker := newChecker(accounts, &MockCapabilityLookup{}, &MockGrantLookup{})

			assert.False(t, checker.Check(ctx, "user-123", "invoices", "read"))
		})

		t.Run("capability store", func(t *testing.T) {
			accounts := &MockAccountLookup{}
			accounts.On("GetBySubject", ctx, "user-123").Return(memberAccount, nil)

			capabilities := &MockCapabilityLookup{}
			capabilities.On("GetByName", ctx, "invoices.read").Return(nil,
				errors.New("connection refused", errors.CategoryOperation))

			checker := newChecker(accounts, capabilities, &MockGrantLookup{})

			assert.False(t, checker.Check(ctx, "user-123", "invoices", "read"))
		})

		t.Run("grant store", func(t *testing.T) {
			accounts := &MockAccountLookup{}
			accounts.On("GetBySubject", ctx, "user-123").Return(memberAccount, nil)

			capabilities := &MockCapabilityLookup{}
			capabilities.On("GetByName", ctx, "invoices.read").Return(&guard.Capability{
				ID:   capID,
				Name: "invoices.read",
			}, nil)

			grants := &MockGrantLookup{}
			grants.On("IsGranted", ctx, "role-member", capID.String()).Return(false,
				errors.New("connection refused", errors.CategoryOperation))

			checker := newChecker(accounts, capabilities, grants)

			assert.False(t, checker.Check(ctx, "user-123", "invoices", "read"))
		})
	})
}

func TestPermissionChecker_Require(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects nil principals", func(t *testing.T) {
		checker := guard.NewPermissionChecker(&MockAccountLookup{}, &MockCapabilityLookup{}, &MockGrantLookup{})

		err := checker.Require(ctx, nil, "invoices", "read")
		assert.ErrorIs(t, err, guard.ErrTokenMalformed)
	})

	t.Run("super admin principals pass without lookups", func(t *testing.T) {
		accounts := &MockAccountLookup{}

		checker := guard.NewPermissionChecker(accounts, &MockCapabilityLookup{}, &MockGrantLookup{})

		p := &guard.Principal{
			SubjectID:  "admin-1",
			SuperAdmin: true,
			Stage:      guard.StageTenantResolved,
		}

		err := checker.Require(ctx, p, "invoices", "read")

		assert.NoError(t, err)
		assert.Equal(t, guard.StagePermissionChecked, p.Stage)
		accounts.AssertNotCalled(t, "GetBySubject", mock.Anything, mock.Anything)
	})

	t.Run("denied capability is named in the rejection", func(t *testing.T) {
		accounts := &MockAccountLookup{}
		accounts.On("GetBySubject", ctx, "user-123").Return(&guard.UserAccount{
			SubjectID: "user-123",
			RoleID:    "role-member",
		}, nil)

		capabilities := &MockCapabilityLookup{}
		capabilities.On("GetByName", ctx, "invoices.write").Return(nil,
			errors.New("record not found", errors.CategoryNotFound))

		checker := guard.NewPermissionChecker(accounts, capabilities, &MockGrantLookup{}).
			WithLogger(guard.NopLogger{})

		p := &guard.Principal{
			SubjectID:      "user-123",
			OrganizationID: "org-1",
			RoleID:         "role-member",
			Billing:        guard.BillingActive,
			Stage:          guard.StageTenantResolved,
		}

		err := checker.Require(ctx, p, "invoices", "write")

		require.Error(t, err)
		assert.ErrorIs(t, err, guard.ErrPermissionDenied)

		var richErr *errors.Error
		require.True(t, errors.As(err, &richErr))
		assert.Equal(t, guard.TextCodePermissionDenied, richErr.TextCode)
		assert.Equal(t, "invoices.write", richErr.Metadata["capability"])
		assert.Equal(t, guard.StageTenantResolved, p.Stage)
	})

	t.Run("granted capability advances the stage", func(t *testing.T) {
		capID := uuid.New()

		accounts := &MockAccountLookup{}
		accounts.On("GetBySubject", ctx, "user-123").Return(&guard.UserAccount{
			SubjectID: "user-123",
			RoleID:    "role-member",
		}, nil)

		capabilities := &MockCapabilityLookup{}
		capabilities.On("GetByName", ctx, "invoices.read").Return(&guard.Capability{
			ID:   capID,
			Name: "invoices.read",
		}, nil)

		grants := &MockGrantLookup{}
		grants.On("IsGranted", ctx, "role-member", capID.String()).Return(true, nil)

		checker := guard.NewPermissionChecker(accounts, capabilities, grants)

		p := &guard.Principal{
			SubjectID: "user-123",
			RoleID:    "role-member",
			Stage:     guard.StageTenantResolved,
		}

		err := checker.Require(ctx, p, "invoices", "read")

		assert.NoError(t, err)
		assert.Equal(t, guard.StagePermissionChecked, p.Stage)
	})
}
