package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hrms/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret: "test-secret-key-that-is-at-least-32-chars",
		Issuer: "hrms-identity",
	})
}

func sign(t *testing.T, claims jwt.Claims, method jwt.SigningMethod, key any) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestIssueAndValidate(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	token, err := svc.IssueToken(userID, "asha", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	parsed, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
	assert.Equal(t, "asha", claims.Username)
	assert.Equal(t, "hrms-identity", claims.Issuer)
}

func TestValidate_Expired(t *testing.T) {
	svc := newTestService()
	token, err := svc.IssueToken(uuid.New(), "asha", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	svc.leeway = 5 * time.Minute
	_, err = svc.ValidateAccessToken(token)
	assert.NoError(t, err)
}

func TestValidate_NotYetValid(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	token, err := svc.IssueToken(uuid.New(), "asha", 2*time.Hour)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenNotYetValid)
}

func TestValidate_Rejections(t *testing.T) {
	svc := newTestService()
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not-a-jwt", ErrInvalidToken},
		{
			"wrong secret",
			sign(t, &Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "hrms-identity", ExpiresAt: exp}, UserID: uuid.NewString()},
				jwt.SigningMethodHS256, []byte("another-secret")),
			ErrInvalidToken,
		},
		{
			"wrong algorithm",
			sign(t, &Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "hrms-identity", ExpiresAt: exp}, UserID: uuid.NewString()},
				jwt.SigningMethodHS512, []byte("test-secret-key-that-is-at-least-32-chars")),
			ErrInvalidToken,
		},
		{
			"wrong issuer",
			sign(t, &Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else", ExpiresAt: exp}, UserID: uuid.NewString()},
				jwt.SigningMethodHS256, []byte("test-secret-key-that-is-at-least-32-chars")),
			ErrInvalidToken,
		},
		{
			"missing user id",
			sign(t, &Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "hrms-identity", ExpiresAt: exp}},
				jwt.SigningMethodHS256, []byte("test-secret-key-that-is-at-least-32-chars")),
			ErrMissingUserID,
		},
		{
			"user id not a uuid",
			sign(t, &Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "hrms-identity", ExpiresAt: exp}, UserID: "42"},
				jwt.SigningMethodHS256, []byte("test-secret-key-that-is-at-least-32-chars")),
			ErrInvalidClaims,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_IssuerOptional(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test-secret-key-that-is-at-least-32-chars"})
	token := sign(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "anything", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           uuid.NewString(),
	}, jwt.SigningMethodHS256, []byte("test-secret-key-that-is-at-least-32-chars"))

	_, err := svc.ValidateAccessToken(token)
	assert.NoError(t, err)
}
