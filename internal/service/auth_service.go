package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ostazy-app/ostazy-api/internal/models"
	"github.com/ostazy-app/ostazy-api/pkg/config"
	"github.com/ostazy-app/ostazy-api/pkg/errors"
)

// AuthService validates access tokens issued by the account service.
// This API never mints tokens.
type AuthService struct {
	secret []byte
}

// NewAuthService constructs an AuthService from the JWT config.
func NewAuthService(cfg config.JWTConfig) *AuthService {
	return &AuthService{secret: []byte(cfg.Secret)}
}

// ValidateToken parses and verifies a bearer token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrUnauthorized.Code, errors.ErrUnauthorized.Status, "invalid token")
	}
	if !token.Valid {
		return nil, errors.ErrUnauthorized
	}

	return claims, nil
}
