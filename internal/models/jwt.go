package models

import "github.com/golang-jwt/jwt/v5"

// Claims issued by the identity provider. Only user_id is required.
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

func (c *Claims) ToIdentity() Identity {
	return Identity{UserID: c.UserID}
}
