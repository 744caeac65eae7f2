package services

import (
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"a-panel/internal/config"
	"a-panel/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

// AccessClaims is the payload of an access token. The id/username/role
// fields are what protected handlers read back from the context.
type AccessClaims struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token. It carries only the
// user id; everything else is re-read from the database at refresh time.
type RefreshClaims struct {
	UserID uint `json:"id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the two token kinds. Access tokens are
// signed with the static server secret. Refresh tokens are signed with a
// key derived from the secret and the user's current password hash, so
// rotating the password invalidates every refresh token issued before the
// change without any server-side token storage.
type TokenService struct {
	cfg *config.Config
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{cfg: cfg}
}

// GenerateAccessToken mints a signed access token for the user.
func (s *TokenService) GenerateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &AccessClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.JWT.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenDuration())),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.Secret))
}

// GenerateRefreshToken mints a refresh token bound to the user's current
// password hash.
func (s *TokenService) GenerateRefreshToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &RefreshClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.JWT.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshTokenDuration())),
			ID:        uuid.NewString(),
		},
	}

	key, err := s.refreshSigningKey(user.PasswordHash)
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// VerifyAccessToken checks signature and expiry and returns the claims.
// It touches no shared state and is safe to call concurrently.
func (s *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	return claims, nil
}

// VerifyRefreshToken checks a refresh token against the key derived from
// passwordHash, which must be the user's hash as currently stored.
func (s *TokenService) VerifyRefreshToken(tokenString, passwordHash string) (*RefreshClaims, error) {
	key, err := s.refreshSigningKey(passwordHash)
	if err != nil {
		return nil, err
	}

	claims := &RefreshClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	return claims, nil
}

// refreshSigningKey derives the per-user refresh signing key with
// HKDF-SHA256 from the server secret and the stored password hash.
func (s *TokenService) refreshSigningKey(passwordHash string) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(s.cfg.JWT.Secret), []byte(passwordHash), []byte("refresh-token"))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("failed to derive refresh signing key: %w", err)
	}
	return key, nil
}
