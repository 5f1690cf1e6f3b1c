package models

import "github.com/golang-jwt/jwt/v5"

// APIClaims are the JWT claims expected on authenticated API requests.
type APIClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}
