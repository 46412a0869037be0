package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"collabBoard/internal/errs"
	"collabBoard/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const identityContextKey = "identity"

// CreateJwtToken signs an HS256 token carrying user_id. Tokens are normally issued
// by the identity provider; this is used by tests and local tooling.
func CreateJwtToken(userID uint, secretKey []byte, expiration time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		models.Claims{
			UserID: userID,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(expiration),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
		})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyToken checks signature, algorithm and expiry, and requires both an exp
// claim and a non-zero user_id claim.
func VerifyToken(tokenString string, secretKey []byte) (*models.Claims, error) {
	if tokenString == "" {
		return nil, errs.ErrMissingToken
	}

	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", errs.ErrInvalidToken, errs.ErrExpiredToken)
		}
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, errs.ErrInvalidToken
	}

	if claims.UserID == 0 {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidToken, errs.ErrMissingClaim)
	}

	return claims, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) string {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

func SetIdentity(ctx *gin.Context, identity models.Identity) {
	ctx.Set(identityContextKey, identity)
}

// GetIdentity returns the caller authenticated by the bearer-token middleware.
func GetIdentity(ctx *gin.Context) (models.Identity, bool) {
	v, ok := ctx.Get(identityContextKey)
	if !ok {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}
