package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// JWTClaims defines the payload for the JWT.
type JWTClaims struct {
	UserID     string `json:"userID"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	ProviderID string `json:"providerID,omitempty"`
	jwt.RegisteredClaims
}

// Hashing
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// JwtSecret is set once from config during startup, before the router runs.
var JwtSecret []byte

var tokenLifetime = 24 * time.Hour

// Init stores the signing secret and token lifetime for the process.
func Init(secret, expiration string) {
	JwtSecret = []byte(secret)
	if d, err := time.ParseDuration(expiration); err == nil && d > 0 {
		tokenLifetime = d
	}
}

func GenerateJWT(userID, email, role, providerID string) (string, error) {
	expirationTime := time.Now().Add(tokenLifetime)
	claims := &JWTClaims{
		UserID:     userID,
		Email:      email,
		Role:       role,
		ProviderID: providerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtSecret)
}

// ParseJWT validates a token string and returns its claims.
func ParseJWT(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
