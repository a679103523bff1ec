package guard_test

import (
	"testing"

	"github.com/goliatone/go-errors"
	guard "github.com/quartzbooks/go-guard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenValidatorFunc(t *testing.T) {
	t.Run("adapts a function", func(t *testing.T) {
		validator := guard.TokenValidatorFunc(func(tokenString string) (guard.Claims, error) {
			return &guard.TokenClaims{UID: "user-123"}, nil
		})

		claims, err := validator.Validate("any-token")

		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.Subject())
	})

	t.Run("nil function rejects", func(t *testing.T) {
		var validator guard.TokenValidatorFunc

		claims, err := validator.Validate("any-token")

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, guard.ErrTokenMalformed)
	})
}

func TestMultiTokenValidator(t *testing.T) {
	local := guard.TokenValidatorFunc(func(tokenString string) (guard.Claims, error) {
		if tokenString == "local-token" {
			return &guard.TokenClaims{UID: "local-user"}, nil
		}
		return nil, guard.ErrTokenMalformed
	})

	external := guard.TokenValidatorFunc(func(tokenString string) (guard.Claims, error) {
		if tokenString == "external-token" {
			return &guard.TokenClaims{UID: "external-user"}, nil
		}
		return nil, guard.ErrTokenMalformed
	})

	t.Run("first validator wins", func(t *testing.T) {
		validator := guard.NewMultiTokenValidator(local, external)

		claims, err := validator.Validate("local-token")

		require.NoError(t, err)
		assert.Equal(t, "local-user", claims.Subject())
	})

	t.Run("falls through malformed to the next validator", func(t *testing.T) {
		validator := guard.NewMultiTokenValidator(local, external)

		claims, err := validator.Validate("external-token")

		require.NoError(t, err)
		assert.Equal(t, "external-user", claims.Subject())
	})

	t.Run("all validators failing surfaces a malformed error", func(t *testing.T) {
		validator := guard.NewMultiTokenValidator(local, external)

		claims, err := validator.Validate("unknown-token")

		assert.Nil(t, claims)
		assert.True(t, guard.IsMalformedError(err))
	})

	t.Run("expired tokens stop the chain", func(t *testing.T) {
		expiring := guard.TokenValidatorFunc(func(tokenString string) (guard.Claims, error) {
			return nil, guard.ErrTokenExpired
		})

		fallback := guard.TokenValidatorFunc(func(tokenString string) (guard.Claims, error) {
			t.Fatal("fallback validator must not run after a non malformed failure")
			return nil, nil
		})

		validator := guard.NewMultiTokenValidator(expiring, fallback)

		claims, err := validator.Validate("expired-token")

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, guard.ErrTokenExpired)
	})

	t.Run("nil validators are filtered", func(t *testing.T) {
		validator := guard.NewMultiTokenValidator(nil, local, nil)

		claims, err := validator.Validate("local-token")

		require.NoError(t, err)
		assert.Equal(t, "local-user", claims.Subject())
	})

	t.Run("empty chain rejects", func(t *testing.T) {
		validator := guard.NewMultiTokenValidator()

		claims, err := validator.Validate("any-token")

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, guard.ErrTokenMalformed)
	})
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.False(t, guard.IsTokenExpiredError(nil))
	assert.True(t, guard.IsTokenExpiredError(guard.ErrTokenExpired))
	assert.False(t, guard.IsTokenExpiredError(guard.ErrTokenMalformed))
	assert.False(t, guard.IsTokenExpiredError(errors.New("something else", errors.CategoryInternal)))
}
