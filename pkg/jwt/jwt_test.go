package jwt

import (
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute)
	callerID := uuid.New()

	token, err := svc.GenerateToken(callerID, "owner@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, callerID, claims.CallerID)
	require.Equal(t, "owner@example.com", claims.Email)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute)
	token, err := svc.GenerateToken(uuid.New(), "owner@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_WrongSecret(t *testing.T) {
	svc := NewJWTService("secret-a", time.Minute)
	token, err := svc.GenerateToken(uuid.New(), "owner@example.com")
	require.NoError(t, err)

	other := NewJWTService("secret-b", time.Minute)
	_, err = other.ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsNonHMAC(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute)
	token := gojwt.NewWithClaims(gojwt.SigningMethodNone, &Claims{CallerID: uuid.New()})
	raw, err := token.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_SignFailure(t *testing.T) {
	orig := signJWTToken
	signJWTToken = func(*gojwt.Token, []byte) (string, error) { return "", errors.New("sign failed") }
	defer func() { signJWTToken = orig }()

	svc := NewJWTService("test-secret", time.Minute)
	_, err := svc.GenerateToken(uuid.New(), "owner@example.com")
	require.Error(t, err)
}
