// Package guard implements the request authorization pipeline for a
// multi-tenant SaaS backend: bearer credential verification, tenant
// resolution, subscription gating, and role based permission checks.
//
// Pipeline:
//   - TokenService validates the signed bearer credential and produces
//     TokenClaims. It is pure and performs no store access.
//   - TenantResolver loads the caller's Organization, verifies it is active,
//     and injects the authoritative billing state into the resulting
//     Principal. Billing hints carried on the credential itself are ignored.
//   - RequireActiveSubscription gates mutating operations on the resolved
//     billing state. Reads stay available while an organization is trialing
//     or lapsed; writes require an active subscription.
//   - PermissionChecker resolves module.action capabilities against the
//     role grant registry. Every ambiguous outcome (unknown capability,
//     store failure, malformed role) resolves to denied.
//
// Scoping:
//   - Principal.Scope returns the organization id every downstream query
//     must filter by and every write must be stamped with. Only super-admin
//     principals carry no scope.
//
// The middleware/guardware package exposes the pipeline as composable
// router middleware. Stores are injected through small lookup interfaces so
// tests can substitute in-memory fakes; bun backed repositories live in
// repo_organizations.go and repo_access.go.
package guard
