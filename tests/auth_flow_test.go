package tests

import (
	"testing"
	"time"

	tokenservice "github.com/fleetimee/solid-spoon/internal/services/token_service"
	"github.com/fleetimee/solid-spoon/internal/storage"
	"github.com/fleetimee/solid-spoon/internal/transport/http/dto"
	"github.com/fleetimee/solid-spoon/tests/suite"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passDefaultLen = 10

func TestRegisterLogin_HappyPath(t *testing.T) {
	ctx, st := suite.New(t)

	input := dto.UserRegisterInput{
		Name:     gofakeit.FirstName(),
		Email:    gofakeit.Email(),
		Password: randomFakePassword(),
		IsAdmin:  true,
	}

	userID, err := st.Users.RegisterUser(ctx, input)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, userID)

	loginTime := time.Now()

	pair, err := st.Users.Login(ctx, input.Email, input.Password)
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, userID.String(), pair.UserID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	parsed, err := jwt.Parse(pair.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(suite.Secret), nil
	})
	require.NoError(t, err)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, userID.String(), claims["uid"].(string))
	assert.Equal(t, input.Email, claims["email"].(string))

	const deltaSeconds = 1
	assert.InDelta(t,
		loginTime.Add(tokenservice.AccessTokenExpire).Unix(),
		claims["exp"].(float64),
		deltaSeconds)

	isAdmin, err := st.Users.IsAdmin(ctx, userID)
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx, st := suite.New(t)

	input := dto.UserRegisterInput{
		Name:     gofakeit.FirstName(),
		Email:    gofakeit.Email(),
		Password: randomFakePassword(),
	}

	_, err := st.Users.RegisterUser(ctx, input)
	require.NoError(t, err)

	input.Name = gofakeit.FirstName()
	_, err = st.Users.RegisterUser(ctx, input)
	assert.ErrorIs(t, err, storage.ErrUserExists)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx, st := suite.New(t)

	input := dto.UserRegisterInput{
		Name:     gofakeit.FirstName(),
		Email:    gofakeit.Email(),
		Password: randomFakePassword(),
	}

	_, err := st.Users.RegisterUser(ctx, input)
	require.NoError(t, err)

	_, err = st.Users.Login(ctx, input.Email, randomFakePassword())
	assert.ErrorIs(t, err, storage.ErrInvalidCredentials)

	_, err = st.Users.Login(ctx, gofakeit.Email(), input.Password)
	assert.ErrorIs(t, err, storage.ErrInvalidCredentials)
}

func TestRefresh_RotatesToken(t *testing.T) {
	ctx, st := suite.New(t)

	input := dto.UserRegisterInput{
		Name:     gofakeit.FirstName(),
		Email:    gofakeit.Email(),
		Password: randomFakePassword(),
	}

	_, err := st.Users.RegisterUser(ctx, input)
	require.NoError(t, err)

	pair, err := st.Users.Login(ctx, input.Email, input.Password)
	require.NoError(t, err)

	rotated, err := st.Tokens.RefreshTokens(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, pair.UserID, rotated.UserID)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The consumed token must not be replayable.
	_, err = st.Tokens.RefreshTokens(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, tokenservice.ErrTokenNotInStorage)
}

func randomFakePassword() string {
	return gofakeit.Password(true, true, true, true, false, passDefaultLen)
}
