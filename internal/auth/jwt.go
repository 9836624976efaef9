package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens live for 7 days. There is no refresh flow and no revocation list;
// expiry is the only lifetime bound. Logout is a client-side token discard.
const tokenLifetime = 7 * 24 * time.Hour

// GenerateToken creates a signed JWT carrying the user's ID.
func GenerateToken(userID int64, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID, // Subject: the user ID
		"exp": time.Now().Add(tokenLifetime).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken parses and verifies a token string, returning the embedded
// user ID. An expired token, a bad signature, or a token signed with a
// different algorithm all fail here.
func ValidateToken(tokenString string, secret []byte) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return 0, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		// JSON numbers decode as float64.
		userIDFloat, ok := claims["sub"].(float64)
		if !ok {
			return 0, errors.New("invalid subject claim")
		}
		return int64(userIDFloat), nil
	}

	return 0, errors.New("invalid token")
}
