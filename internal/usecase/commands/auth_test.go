//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"mess-market/internal/pkg/jwt"
	"mess-market/internal/usecase/commands"
	"mess-market/internal/usecase/shared"
	"mess-market/tests/common/builder"
	"mess-market/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	store     *fake.Store
	validator *fake.TicketValidator
	jwtSvc    *jwt.Service
	commands  commands.AuthCommands
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	store := fake.NewStore()
	validator := fake.NewTicketValidator()
	jwtSvc := jwt.NewService("test-secret", 15*time.Minute, 168*time.Hour)

	return &authFixture{
		store:     store,
		validator: validator,
		jwtSvc:    jwtSvc,
		commands:  commands.NewAuthCommands(fake.NewUnitOfWork(store), validator, jwtSvc),
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("first login creates the user", func(t *testing.T) {
		f := newAuthFixture(t)
		f.validator.Identities["ST-1"] = builder.NewUserBuilder().BuildIdentity()

		result, err := f.commands.Login(ctx, "ST-1")
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, "2023CS10555", result.Roll)
		assert.NotEmpty(t, result.TokenPair.AccessToken)
		assert.NotEmpty(t, result.TokenPair.RefreshToken)

		snap, ok := f.store.User(result.UserID)
		require.True(t, ok)
		assert.Equal(t, "Test Student", snap.DisplayName)
		assert.Empty(t, snap.MealCredential, "credential is linked separately, never at login")
	})

	t.Run("repeat login reuses the row and refreshes the profile", func(t *testing.T) {
		f := newAuthFixture(t)
		f.validator.Identities["ST-1"] = builder.NewUserBuilder().BuildIdentity()
		f.validator.Identities["ST-2"] = builder.NewUserBuilder().WithDisplayName("Renamed Student").BuildIdentity()

		first, err := f.commands.Login(ctx, "ST-1")
		require.NoError(t, err)
		second, err := f.commands.Login(ctx, "ST-2")
		require.NoError(t, err)

		assert.Equal(t, first.UserID, second.UserID)
		snap, _ := f.store.User(first.UserID)
		assert.Equal(t, "Renamed Student", snap.DisplayName)
	})

	t.Run("invalid ticket", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.commands.Login(ctx, "ST-bogus")
		require.ErrorIs(t, err, shared.ErrInvalidTicket)
	})

	t.Run("access token carries the identity", func(t *testing.T) {
		f := newAuthFixture(t)
		f.validator.Identities["ST-1"] = builder.NewUserBuilder().BuildIdentity()

		result, err := f.commands.Login(ctx, "ST-1")
		require.NoError(t, err)

		claims, err := f.jwtSvc.ValidateToken(result.TokenPair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, result.UserID, claims.UserID)
		assert.Equal(t, result.Roll, claims.Roll)
		assert.Equal(t, jwt.TokenTypeAccess, claims.TokenType)
	})
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()

	login := func(t *testing.T, f *authFixture) *commands.LoginResult {
		t.Helper()
		f.validator.Identities["ST-1"] = builder.NewUserBuilder().BuildIdentity()
		result, err := f.commands.Login(ctx, "ST-1")
		require.NoError(t, err)
		return result
	}

	t.Run("issues a fresh pair", func(t *testing.T) {
		f := newAuthFixture(t)
		result := login(t, f)

		pair, err := f.commands.RefreshToken(ctx, result.TokenPair.RefreshToken)
		require.NoError(t, err)

		claims, err := f.jwtSvc.ValidateToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, result.UserID, claims.UserID)
	})

	t.Run("an access token is not a refresh token", func(t *testing.T) {
		f := newAuthFixture(t)
		result := login(t, f)

		_, err := f.commands.RefreshToken(ctx, result.TokenPair.AccessToken)
		require.ErrorIs(t, err, commands.ErrTokenValidation)
	})

	t.Run("garbage token", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.commands.RefreshToken(ctx, "not-a-jwt")
		require.ErrorIs(t, err, commands.ErrTokenValidation)
	})

	t.Run("refresh for a removed user fails", func(t *testing.T) {
		f := newAuthFixture(t)
		token, err := f.jwtSvc.GenerateRefreshToken(uuid.New(), "2020CS10001")
		require.NoError(t, err)

		_, err = f.commands.RefreshToken(ctx, token)
		require.ErrorIs(t, err, commands.ErrUserNotFound)
	})
}

func TestUpdateMealCredential(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the trimmed credential", func(t *testing.T) {
		f := newAuthFixture(t)
		snap := builder.NewUserBuilder().WithoutMealCredential().BuildSnapshot()
		f.store.AddUser(*snap)

		require.NoError(t, f.commands.UpdateMealCredential(ctx, snap.ID, "  session-abc  "))

		updated, _ := f.store.User(snap.ID)
		assert.Equal(t, "session-abc", updated.MealCredential)
	})

	t.Run("empty credential is rejected", func(t *testing.T) {
		f := newAuthFixture(t)
		snap := builder.NewUserBuilder().BuildSnapshot()
		f.store.AddUser(*snap)

		err := f.commands.UpdateMealCredential(ctx, snap.ID, "   ")
		require.ErrorIs(t, err, commands.ErrEmptyCredential)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newAuthFixture(t)

		err := f.commands.UpdateMealCredential(ctx, uuid.New(), "session-abc")
		require.ErrorIs(t, err, commands.ErrUserNotFound)
	})
}
