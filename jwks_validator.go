package guard

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSValidatorConfig configures a validator for externally issued
// credentials whose signing keys are published as a JWK Set.
type JWKSValidatorConfig struct {
	// URLs are the JWK Set endpoints, tried in order.
	URLs []string
	// Issuer, when set, is enforced against the iss claim.
	Issuer string
	// Audience, when set, is enforced against the aud claim.
	Audience []string
	// RefreshInterval overrides the background key refresh cadence.
	RefreshInterval time.Duration
	Logger          Logger
}

// JWKSValidator validates tokens signed by an external identity provider.
// The symmetric TokenService covers locally minted credentials; combine the
// two with NewMultiTokenValidator when both issuers are in play.
type JWKSValidator struct {
	keyfunc jwt.Keyfunc
	issuer  string
	aud     []string
	logger  Logger
}

var _ TokenValidator = (*JWKSValidator)(nil)

// NewJWKSValidator fetches the configured JWK Sets and returns a validator.
func NewJWKSValidator(cfg JWKSValidatorConfig) (*JWKSValidator, error) {
	if len(cfg.URLs) == 0 {
		return nil, fmt.Errorf("guard: at least one JWK Set URL is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = defLogger{}
	}

	refreshInterval := cfg.RefreshInterval
	if refreshInterval == 0 {
		refreshInterval = time.Hour
	}

	opts := keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			logger.Warn("failed to do a background refresh of JWK Set", "error", err)
		},
		RefreshInterval:   refreshInterval,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	}

	m := make(map[string]keyfunc.Options, len(cfg.URLs))
	for _, url := range cfg.URLs {
		m[url] = opts
	}

	multi, err := keyfunc.GetMultiple(m, keyfunc.MultipleOptions{
		KeySelector: keyfunc.KeySelectorFirst,
	})
	if err != nil {
		return nil, fmt.Errorf("guard: failed to get JWK Set URLs: %w", err)
	}

	return &JWKSValidator{
		keyfunc: multi.Keyfunc,
		issuer:  cfg.Issuer,
		aud:     cfg.Audience,
		logger:  logger,
	}, nil
}

// Validate satisfies the TokenValidator interface.
func (v *JWKSValidator) Validate(tokenString string) (Claims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if v.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(v.issuer))
	}
	if len(v.aud) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(v.aud...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, v.keyfunc, parserOptions...)
	if err != nil {
		return nil, normalizeExternalValidationError(err)
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}

	v.logger.Error("JWKSValidator could not decode or validate claims")
	return nil, ErrTokenMalformed
}

func normalizeExternalValidationError(err error) error {
	if err == nil {
		return nil
	}

	sentinel := ErrTokenMalformed
	if stderrors.Is(err, jwt.ErrTokenExpired) {
		sentinel = ErrTokenExpired
	}

	clone := sentinel.Clone()
	if clone == nil {
		return err
	}

	// Source chains the sentinel so errors.Is matches; the jwt cause
	// survives in metadata.
	clone.Source = sentinel
	return clone.WithMetadata(map[string]any{
		"provider": "jwks",
		"cause":    err.Error(),
	})
}
