// Package auth provides reporter identity for the alert and saved-route
// surfaces. It only mints and verifies tokens; account management and login
// live outside this service.
package auth

import (
	"fmt"
	"time"

	"starmap-server/internal/shared/config"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID string `json:"user_id"`
	Handle string `json:"handle"`
	jwt.RegisteredClaims
}

func jwtSecret() (string, error) {
	if config.GlobalConfig == nil {
		return "", fmt.Errorf("config not initialized")
	}
	secret := config.GlobalConfig.Auth.JWTSecret
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET is required but not set")
	}
	return secret, nil
}

// GenerateJWT mints a token identifying a reporter.
func GenerateJWT(userID, handle string) (string, error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", fmt.Errorf("cannot generate JWT: %w", err)
	}

	expiration := config.GlobalConfig.Auth.TokenExpiration

	claims := Claims{
		UserID: userID,
		Handle: handle,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateJWT verifies a token and returns its claims.
func ValidateJWT(tokenString string) (*Claims, error) {
	secret, err := jwtSecret()
	if err != nil {
		return nil, fmt.Errorf("cannot validate JWT: %w", err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
