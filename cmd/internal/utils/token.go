package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TokenData is what the rest of the app needs to know about the caller.
type TokenData struct {
	Sub   string
	Email string
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

var tokenSecret []byte

// ConfigureTokenSecret sets the HMAC secret used to sign and verify session
// tokens. Must be called once at startup before any token is issued or
// parsed.
func ConfigureTokenSecret(secret []byte) {
	tokenSecret = secret
}

// NewSignedToken issues a session token for the given subject.
func NewSignedToken(sub, email string, ttl time.Duration) (string, error) {
	if len(tokenSecret) == 0 {
		return "", errors.New("token secret not configured")
	}

	now := time.Now().UTC()
	claims := &sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tokenSecret)
}

// ParseTokenDataCtx extracts and verifies the caller's session token from
// the Authorization header.
func ParseTokenDataCtx(c echo.Context) (*TokenData, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return nil, errors.New("missing bearer token")
	}
	return ParseTokenData(raw)
}

func ParseTokenData(raw string) (*TokenData, error) {
	if len(tokenSecret) == 0 {
		return nil, errors.New("token secret not configured")
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tokenSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return &TokenData{Sub: claims.Subject, Email: claims.Email}, nil
}
