// Package auth handles password hashing and the bearer tokens issued at
// signup/login and required by protected mutations.
package auth

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

const bearerPrefix = "Bearer "

var (
	ErrNoToken          = errors.New("no authorization token")
	ErrInvalidToken     = errors.New("invalid token")
	ErrNotAuthenticated = errors.New("user not authenticated")
)

func jwtSecret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("hackernews-dev-secret") // local dev fallback
}

// HashPassword returns the bcrypt hash stored in place of the raw password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a stored bcrypt hash against a login attempt.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateToken issues a signed JWT embedding the user's id, valid for 72 hours.
func GenerateToken(userID int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	})
	return token.SignedString(jwtSecret())
}

// ParseToken verifies a token's signature and expiry and returns the embedded
// user id.
func ParseToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	rawUID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}

	return int(rawUID), nil
}

// FromHeader extracts and verifies a bearer token from an Authorization
// header value.
func FromHeader(header string) (int, error) {
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return 0, ErrNoToken
	}
	return ParseToken(strings.TrimPrefix(header, bearerPrefix))
}

// WithUserID stores an authenticated user's id in the context.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user's id, or an error when the
// request carried no valid token.
func UserIDFromContext(ctx context.Context) (int, error) {
	uid, ok := ctx.Value(userIDKey).(int)
	if !ok {
		return 0, ErrNotAuthenticated
	}
	return uid, nil
}
