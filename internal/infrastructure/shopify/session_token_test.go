package shopify

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signSessionToken(t *testing.T, secret string, claims sessionClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims() sessionClaims {
	now := time.Now()
	return sessionClaims{
		Dest: "https://acme.myshopify.com",
		Sid:  "sid-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://acme.myshopify.com/admin",
			Audience:  jwt.ClaimStrings{"api-key"},
			Subject:   "42",
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Second)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}
}

func TestSessionTokenVerifier_Valid(t *testing.T) {
	v := NewSessionTokenVerifier("api-key", "secret")
	shop, err := v.Verify(signSessionToken(t, "secret", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "acme", shop)
}

func TestSessionTokenVerifier_Rejects(t *testing.T) {
	v := NewSessionTokenVerifier("api-key", "secret")

	_, err := v.Verify("")
	assert.Error(t, err)

	_, err = v.Verify(signSessionToken(t, "other-secret", validClaims()))
	assert.Error(t, err, "bad signature")

	wrongAud := validClaims()
	wrongAud.Audience = jwt.ClaimStrings{"someone-else"}
	_, err = v.Verify(signSessionToken(t, "secret", wrongAud))
	assert.Error(t, err, "audience")

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	_, err = v.Verify(signSessionToken(t, "secret", expired))
	assert.Error(t, err, "expired")

	mismatch := validClaims()
	mismatch.Issuer = "https://evil.myshopify.com/admin"
	_, err = v.Verify(signSessionToken(t, "secret", mismatch))
	assert.Error(t, err, "issuer mismatch")

	noDest := validClaims()
	noDest.Dest = ""
	_, err = v.Verify(signSessionToken(t, "secret", noDest))
	assert.Error(t, err, "missing dest")
}

func TestSessionTokenVerifier_RejectsOtherAlgorithms(t *testing.T) {
	v := NewSessionTokenVerifier("api-key", "secret")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, validClaims()).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = v.Verify(token)
	assert.Error(t, err)
}
