package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pageza/foodflow/backend/internal/models"
	"github.com/pageza/foodflow/backend/internal/service"
	"github.com/pageza/foodflow/backend/internal/testhelpers"
	"github.com/pageza/foodflow/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-tokens"

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"Passw0rd!", true},
		{"S3cure#Pantry", true},
		{"short1!", false},
		{"alllowercase1!", false},
		{"ALLUPPERCASE1!", false},
		{"NoDigitsHere!", false},
		{"NoSymbols123", false},
	}
	for _, tt := range tests {
		err := service.ValidatePassword(tt.password)
		if tt.valid {
			assert.NoError(t, err, tt.password)
		} else {
			assert.ErrorIs(t, err, service.ErrValidation, tt.password)
		}
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, testSecret)
	ctx := context.Background()

	user, err := svc.Register(ctx, "sara_92", " Sara@Example.com ", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "sara@example.com", user.Email)
	assert.NotEqual(t, "Passw0rd!", user.PasswordHash)

	welcome := testhelpers.BadgeByCondition(t, db, "registration")
	assert.Equal(t, int64(1), countWhere(t, db, &models.UserBadge{}, "user_id = ? AND badge_id = ?", user.ID, welcome.ID))

	logged, token, err := svc.Login(ctx, "SARA@example.com", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "sara_92", claims.Username)

	_, _, err = svc.Login(ctx, "sara@example.com", "WrongPass1!")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@example.com", "Passw0rd!")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Register(ctx, "sara_92", "another@example.com", "Passw0rd!")
	assert.ErrorIs(t, err, service.ErrDuplicateKey)
}

func TestRegisterValidation(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, testSecret)

	tests := []struct {
		name, username, email, password, field string
	}{
		{"short username", "ab", "ab@example.com", "Passw0rd!", "username"},
		{"username with spaces", "mario rossi", "mr@example.com", "Passw0rd!", "username"},
		{"bad email", "mario", "not-an-email", "Passw0rd!", "email"},
		{"weak password", "mario", "mario@example.com", "password", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.email, tt.password)
			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
	assert.Zero(t, countWhere(t, db, &models.User{}, "1 = 1"))
}

func TestValidateToken(t *testing.T) {
	svc := service.NewAuthService(nil, testSecret)

	token, err := svc.GenerateToken(&types.TokenClaims{UserID: 7, Username: "tester"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "7", claims.Subject)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := service.NewAuthService(nil, "another-secret").ValidateToken(token)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
			UserID:           7,
		})
		signed, err := expired.SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = svc.ValidateToken(signed)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})
}
