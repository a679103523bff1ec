package guard_test

import (
	"context"

	guard "github.com/quartzbooks/go-guard"
	"github.com/stretchr/testify/mock"
)

// MockLogger implements guard.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// MockOrganizationLookup implements guard.OrganizationLookup
type MockOrganizationLookup struct {
	mock.Mock
}

func (m *MockOrganizationLookup) GetByIdentifier(ctx context.Context, identifier string) (*guard.Organization, error) {
	args := m.Called(ctx, identifier)
	org, _ := args.Get(0).(*guard.Organization)
	return org, args.Error(1)
}

// MockAccountLookup implements guard.AccountLookup
type MockAccountLookup struct {
	mock.Mock
}

func (m *MockAccountLookup) GetBySubject(ctx context.Context, subjectID string) (*guard.UserAccount, error) {
	args := m.Called(ctx, subjectID)
	account, _ := args.Get(0).(*guard.UserAccount)
	return account, args.Error(1)
}

// MockCapabilityLookup implements guard.CapabilityLookup
type MockCapabilityLookup struct {
	mock.Mock
}

func (m *MockCapabilityLookup) GetByName(ctx context.Context, name string) (*guard.Capability, error) {
	args := m.Called(ctx, name)
	capability, _ := args.Get(0).(*guard.Capability)
	return capability, args.Error(1)
}

// MockGrantLookup implements guard.GrantLookup
type MockGrantLookup struct {
	mock.Mock
}

func (m *MockGrantLookup) IsGranted(ctx context.Context, roleID string, capabilityID string) (bool, error) {
	args := m.Called(ctx, roleID, capabilityID)
	return args.Bool(0), args.Error(1)
}

// MockTokenValidator implements guard.TokenValidator
type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) Validate(tokenString string) (guard.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(guard.Claims)
	return claims, args.Error(1)
}
