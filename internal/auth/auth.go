// Package auth provides authentication and authorization support.
package auth

import (
	"crypto/rsa"
	"os"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

// Roles recognised across the api.
const (
	RoleAdmin     = "ADMIN"
	RoleEmployee  = "EMPLOYEE"
	RoleDevice    = "DEVICE"
	RoleDashboard = "DASHBOARD"
)

// ctxKey represents the type of value for the context key.
type ctxKey int

// Key is used to store/retrieve a Claims value from a context.Context.
const Key ctxKey = 1

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	UserId         int    `json:"user_id"`
	DeviceId       int    `json:"device_id,omitempty"`
	OrganizationId int    `json:"organization_id,omitempty"`
	Role           string `json:"role"`
	TokenType      string `json:"token_type"`
}

// Authorized returns true if the claims has at least one of the provided
// roles.
func (c Claims) Authorized(roles ...string) bool {
	for _, role := range roles {
		if c.Role == role {
			return true
		}
	}
	return false
}

// Auth is used to authenticate clients. It holds the RSA keypair used to sign
// and validate tokens.
type Auth struct {
	privateKey *rsa.PrivateKey
}

// New loads the RSA private key from the pem file and constructs an Auth for
// token validation.
func New(privatePemPath string) (*Auth, error) {
	pem, err := os.ReadFile(privatePemPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading private pem")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, errors.Wrap(err, "parsing private pem")
	}

	return &Auth{privateKey: key}, nil
}

// ValidateToken recreates the Claims that were used to generate a token. It
// verifies the token was signed with our key.
func (a *Auth) ValidateToken(tokenStr string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return &a.privateKey.PublicKey, nil
	})
	if err != nil {
		return Claims{}, errors.Wrap(err, "parsing token")
	}

	if !token.Valid {
		return Claims{}, errors.New("invalid token")
	}

	return claims, nil
}
