package jwttoken

import (
	authmw "africonnect/pkg/platform/middleware/auth"
)

// ValidatorFunc adapts a plain function to the auth middleware's validator.
type ValidatorFunc func(token string) (*authmw.JWTClaims, error)

func (f ValidatorFunc) ValidateToken(token string) (*authmw.JWTClaims, error) {
	return f(token)
}

// Validator exposes the service to the auth middleware, narrowing the claims
// to the actor fields requests carry.
func (s *JWTService) Validator() authmw.JWTValidator {
	return ValidatorFunc(func(token string) (*authmw.JWTClaims, error) {
		claims, err := s.ValidateToken(token)
		if err != nil {
			return nil, err
		}
		return &authmw.JWTClaims{UserID: claims.UserID, Role: claims.Role}, nil
	})
}
