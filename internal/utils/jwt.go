package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// Token lifetimes match the product rule: citizens keep a session for a
// day, admin sessions are shorter.
const (
	UserTokenTTL  = 24 * time.Hour
	AdminTokenTTL = 12 * time.Hour
)

const RoleAdmin = "admin"

var ErrNoSecret = errors.New("JWT secret is not configured")

// SetJWTSecret installs the signing key. Called once from main after the
// config is loaded; reading the env at package init would run before
// godotenv has populated it.
func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

type Claims struct {
	UserID   string `json:"userId"`
	Phone    string `json:"phoneNumber,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// GenerateUserToken creates a citizen bearer token.
func GenerateUserToken(userID, phoneNumber string) (string, error) {
	return generate(&Claims{UserID: userID, Phone: phoneNumber}, UserTokenTTL)
}

// GenerateAdminToken creates an admin bearer token.
func GenerateAdminToken(adminID, username string) (string, error) {
	return generate(&Claims{UserID: adminID, Username: username, Role: RoleAdmin}, AdminTokenTTL)
}

func generate(claims *Claims, ttl time.Duration) (string, error) {
	if len(jwtSecret) == 0 {
		return "", ErrNoSecret
	}
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateJWT validates a given token string.
func ValidateJWT(tokenStr string) (*Claims, error) {
	if len(jwtSecret) == 0 {
		return nil, ErrNoSecret
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
