// Package guardware exposes the guard authorization pipeline as composable
// router middleware: Authenticate, ResolveTenant, RequireActiveSubscription,
// and RequirePermission, each consuming the previous stage's output from the
// request locals.
package guardware

import (
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"

	guard "github.com/quartzbooks/go-guard"
)

const (
	defaultClaimsKey    = "claims"
	defaultPrincipalKey = "principal"
)

var defaultTokenLookup = "header:" + router.HeaderAuthorization

type Config struct {
	// Filter skips the middleware when it returns true.
	Filter         func(router.Context) bool
	SuccessHandler router.HandlerFunc
	ErrorHandler   router.ErrorHandler

	// Validator is required for Authenticate.
	Validator guard.TokenValidator
	// Resolver is required for ResolveTenant.
	Resolver *guard.TenantResolver
	// Permissions is required for RequirePermission.
	Permissions *guard.PermissionChecker

	// ClaimsKey is the locals key holding verified claims.
	ClaimsKey string
	// PrincipalKey is the locals key holding the resolved principal.
	PrincipalKey string

	// TokenLookup follows the "source:name" convention, comma separated:
	// header:Authorization,cookie:token,query:auth_token
	TokenLookup string
	AuthScheme  string

	Logger guard.Logger
}

func (cfg Config) withDefaults() Config {
	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.Logger == nil {
		cfg.Logger = guard.NopLogger{}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler(cfg.Logger)
	}

	if cfg.ClaimsKey == "" {
		cfg.ClaimsKey = defaultClaimsKey
	}

	if cfg.PrincipalKey == "" {
		cfg.PrincipalKey = defaultPrincipalKey
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

// Authenticate validates the bearer credential and stores the verified
// claims in the request locals and the standard context. Rejects with 401.
func Authenticate(config ...Config) router.MiddlewareFunc {
	cfg := getConfig(config...)

	if cfg.Validator == nil {
		panic("GUARD: Authenticate middleware configuration: Validator is required.")
	}

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			raw, err := ExtractRawTokenFromContext(ctx, cfg.getExtractors())
			if err != nil {
				return cfg.ErrorHandler(ctx, guard.ErrTokenMalformed)
			}

			claims, err := cfg.Validator.Validate(raw)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ClaimsKey, claims)
			ctx.SetContext(guard.WithClaimsContext(ctx.Context(), claims))

			return cfg.SuccessHandler(ctx)
		}
	}
}

// ResolveTenant loads the caller's organization and stores the resolved
// Principal. Expects Authenticate to have run. Rejects with 403 (402 never;
// billing is only gated by RequireActiveSubscription).
func ResolveTenant(config ...Config) router.MiddlewareFunc {
	cfg := getConfig(config...)

	if cfg.Resolver == nil {
		panic("GUARD: ResolveTenant middleware configuration: Resolver is required.")
	}

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			claims, ok := ctx.Locals(cfg.ClaimsKey).(guard.Claims)
			if !ok || claims == nil {
				return cfg.ErrorHandler(ctx, guard.ErrTokenMalformed)
			}

			principal, err := cfg.Resolver.Resolve(ctx.Context(), claims)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.PrincipalKey, principal)
			ctx.SetContext(guard.WithPrincipal(ctx.Context(), principal))

			return cfg.SuccessHandler(ctx)
		}
	}
}

// RequireActiveSubscription gates mutating routes on an active billing
// state. Expects ResolveTenant to have run. Rejects with 402.
func RequireActiveSubscription(config ...Config) router.MiddlewareFunc {
	cfg := getConfig(config...)

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			principal, ok := ctx.Locals(cfg.PrincipalKey).(*guard.Principal)
			if !ok || principal == nil {
				return cfg.ErrorHandler(ctx, guard.ErrTokenMalformed)
			}

			if err := guard.RequireActiveSubscription(principal); err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

// RequirePermission enforces the module.action capability for the resolved
// principal. Expects ResolveTenant to have run. Rejects with 403.
func RequirePermission(module, action string, config ...Config) router.MiddlewareFunc {
	cfg := getConfig(config...)

	if cfg.Permissions == nil {
		panic("GUARD: RequirePermission middleware configuration: Permissions is required.")
	}

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			principal, ok := ctx.Locals(cfg.PrincipalKey).(*guard.Principal)
			if !ok || principal == nil {
				return cfg.ErrorHandler(ctx, guard.ErrTokenMalformed)
			}

			if err := cfg.Permissions.Require(ctx.Context(), principal, module, action); err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

// Protected composes the full pipeline for a mutating, permissioned route:
// authenticate, resolve tenant, require an active subscription, and require
// module.action.
func Protected(module, action string, config ...Config) []router.MiddlewareFunc {
	return []router.MiddlewareFunc{
		Authenticate(config...),
		ResolveTenant(config...),
		RequireActiveSubscription(config...),
		RequirePermission(module, action, config...),
	}
}

func getConfig(config ...Config) Config {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}
	return cfg.withDefaults()
}

func defaultErrorHandler(logger guard.Logger) router.ErrorHandler {
	return func(ctx router.Context, err error) error {
		var richErr *errors.Error
		if !errors.As(err, &richErr) {
			richErr = errors.Wrap(err, errors.CategoryAuth, "invalid authentication token").
				WithCode(errors.CodeUnauthorized)
		}

		logger.Info(
			"guard rejected request",
			"text_code", richErr.TextCode,
			"path", ctx.OriginalURL(),
			"details", print.MaybePrettyJSON(richErr.Metadata),
		)

		return ctx.JSON(richErr.Code, map[string]any{
			"error": map[string]any{
				"message":   richErr.Message,
				"text_code": richErr.TextCode,
				"metadata":  richErr.Metadata,
			},
		})
	}
}
