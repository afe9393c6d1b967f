package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/bidpoint/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-32-characters-long!!"

func testUser() *models.User {
	return &models.User{
		ID:       "6f1c2a8e-0000-4000-8000-000000000001",
		Username: "alice",
		Roles:    []string{models.RoleUser},
	}
}

func TestTokenManager_IssueAndValidate(t *testing.T) {
	tm := NewTokenManager(testSecret, 15*time.Minute, time.Hour)

	pair, err := tm.IssuePair(testUser())
	require.NoError(t, err)
	assert.Equal(t, int64(900), pair.ExpiresIn)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := tm.ValidateToken(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, testUser().ID, claims.UserID)
	assert.Equal(t, []string{models.RoleUser}, claims.Roles)
	assert.NotEmpty(t, claims.ID)

	refresh, err := tm.ValidateToken(pair.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refresh.Type)
}

func TestTokenManager_RejectsWrongType(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Minute, time.Hour)
	pair, err := tm.IssuePair(testUser())
	require.NoError(t, err)

	_, err = tm.ValidateToken(pair.RefreshToken, TokenTypeAccess)
	assert.True(t, errors.Is(err, models.ErrUnauthorized))

	_, err = tm.ValidateToken(pair.AccessToken, TokenTypeRefresh)
	assert.True(t, errors.Is(err, models.ErrUnauthorized))
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Minute, time.Hour)
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tm.now = func() time.Time { return issued }

	pair, err := tm.IssuePair(testUser())
	require.NoError(t, err)

	tm.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = tm.ValidateToken(pair.AccessToken, TokenTypeAccess)
	assert.True(t, errors.Is(err, models.ErrUnauthorized))

	_, err = tm.ValidateToken(pair.RefreshToken, TokenTypeRefresh)
	assert.NoError(t, err)
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	other := NewTokenManager("another-secret-32-characters-long", time.Minute, time.Hour)
	pair, err := other.IssuePair(testUser())
	require.NoError(t, err)

	tm := NewTokenManager(testSecret, time.Minute, time.Hour)
	_, err = tm.ValidateToken(pair.AccessToken, TokenTypeAccess)
	assert.True(t, errors.Is(err, models.ErrUnauthorized))
}

func TestTokenManager_RejectsNoneAlgorithm(t *testing.T) {
	claims := &models.TokenClaims{
		Type:   TokenTypeAccess,
		UserID: "x",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tm := NewTokenManager(testSecret, time.Minute, time.Hour)
	_, err = tm.ValidateToken(unsigned, TokenTypeAccess)
	assert.Error(t, err)
}
