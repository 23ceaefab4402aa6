package encryption

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestService_EncryptDecrypt(t *testing.T) {
	svc, err := NewService(testKey)
	require.NoError(t, err)

	ct, err := svc.Encrypt("shpat_secret")
	require.NoError(t, err)
	assert.NotContains(t, ct, "shpat_secret")

	ct2, err := svc.Encrypt("shpat_secret")
	require.NoError(t, err)
	assert.NotEqual(t, ct, ct2, "nonce must differ per call")

	pt, err := svc.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, "shpat_secret", pt)
}

func TestService_RejectsBadKeys(t *testing.T) {
	_, err := NewService("zz")
	assert.Error(t, err)

	_, err = NewService(strings.Repeat("ab", 16))
	assert.Error(t, err)
}

func TestService_DecryptTampered(t *testing.T) {
	svc, err := NewService(testKey)
	require.NoError(t, err)

	_, err = svc.Decrypt("not base64!")
	assert.Error(t, err)

	_, err = svc.Decrypt("AAAA")
	assert.Error(t, err)

	other, err := NewService(strings.Repeat("11", 32))
	require.NoError(t, err)
	ct, err := other.Encrypt("x")
	require.NoError(t, err)
	_, err = svc.Decrypt(ct)
	assert.Error(t, err)
}
