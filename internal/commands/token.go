package commands

import (
	"crypto/rsa"
	"os"
	"time"

	"presence/backend/internal/auth"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

const (
	accessTokenTTL  = 12 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

// AuthClaims is the identity baked into issued tokens.
type AuthClaims struct {
	ID             int
	DeviceID       int
	OrganizationID int
	Role           string
}

// GenToken issues an access/refresh token pair signed with the RSA key at
// privatePemPath.
func GenToken(claims AuthClaims, privatePemPath string) (string, string, error) {
	key, err := loadPrivateKey(privatePemPath)
	if err != nil {
		return "", "", err
	}

	accessToken, err := signToken(claims, "access", accessTokenTTL, key)
	if err != nil {
		return "", "", errors.Wrap(err, "signing access token")
	}

	refreshToken, err := signToken(claims, "refresh", refreshTokenTTL, key)
	if err != nil {
		return "", "", errors.Wrap(err, "signing refresh token")
	}

	return accessToken, refreshToken, nil
}

// VerifyTokens parses both tokens of a refresh request. The access token may
// be expired; the refresh token must be valid and of type "refresh".
func VerifyTokens(accessToken, refreshToken, privatePemPath string) (*auth.Claims, *auth.Claims, error) {
	key, err := loadPrivateKey(privatePemPath)
	if err != nil {
		return nil, nil, err
	}

	keyFunc := func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return &key.PublicKey, nil
	}

	var accessClaims auth.Claims
	if _, err := jwt.ParseWithClaims(accessToken, &accessClaims, keyFunc); err != nil {
		validationErr, ok := err.(*jwt.ValidationError)
		if !ok || validationErr.Errors != jwt.ValidationErrorExpired {
			return nil, nil, errors.Wrap(err, "parsing access token")
		}
	}

	var refreshClaims auth.Claims
	token, err := jwt.ParseWithClaims(refreshToken, &refreshClaims, keyFunc)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parsing refresh token")
	}
	if !token.Valid {
		return nil, nil, errors.New("invalid refresh token")
	}
	if refreshClaims.TokenType != "refresh" {
		return nil, nil, errors.New("token is not a refresh token")
	}

	return &accessClaims, &refreshClaims, nil
}

func signToken(claims AuthClaims, tokenType string, ttl time.Duration, key *rsa.PrivateKey) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, auth.Claims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
		UserId:         claims.ID,
		DeviceId:       claims.DeviceID,
		OrganizationId: claims.OrganizationID,
		Role:           claims.Role,
		TokenType:      tokenType,
	})

	return token.SignedString(key)
}

func loadPrivateKey(privatePemPath string) (*rsa.PrivateKey, error) {
	pem, err := os.ReadFile(privatePemPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading private pem")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, errors.Wrap(err, "parsing private pem")
	}

	return key, nil
}
