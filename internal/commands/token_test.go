package commands

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"presence/backend/internal/auth"

	"github.com/stretchr/testify/require"
)

func writeTestKey(t *testing.T) string {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}

	path := filepath.Join(t.TempDir(), "private.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))

	return path
}

func TestGenTokenRoundTrip(t *testing.T) {
	pemPath := writeTestKey(t)

	access, refresh, err := GenToken(AuthClaims{
		ID:             7,
		OrganizationID: 3,
		Role:           auth.RoleEmployee,
	}, pemPath)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	accessClaims, refreshClaims, err := VerifyTokens(access, refresh, pemPath)
	require.NoError(t, err)

	require.Equal(t, 7, accessClaims.UserId)
	require.Equal(t, 3, accessClaims.OrganizationId)
	require.Equal(t, auth.RoleEmployee, accessClaims.Role)
	require.Equal(t, "access", accessClaims.TokenType)
	require.Equal(t, "refresh", refreshClaims.TokenType)
}

func TestGenTokenCarriesDeviceIdentity(t *testing.T) {
	pemPath := writeTestKey(t)

	access, refresh, err := GenToken(AuthClaims{
		DeviceID:       12,
		OrganizationID: 3,
		Role:           auth.RoleDevice,
	}, pemPath)
	require.NoError(t, err)

	accessClaims, _, err := VerifyTokens(access, refresh, pemPath)
	require.NoError(t, err)
	require.Equal(t, 12, accessClaims.DeviceId)
	require.Equal(t, auth.RoleDevice, accessClaims.Role)
}

func TestVerifyTokensRejectsAccessAsRefresh(t *testing.T) {
	pemPath := writeTestKey(t)

	access, refresh, err := GenToken(AuthClaims{ID: 1, Role: auth.RoleAdmin}, pemPath)
	require.NoError(t, err)

	_, _, err = VerifyTokens(refresh, access, pemPath)
	require.Error(t, err)
}
