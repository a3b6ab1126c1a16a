// Package jwttest generates RSA keys, JWKS documents and signed tokens for
// tests of the transport packages.
package jwttest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/stretchr/testify/require"

	"github.com/auth0/go-jwks-validator/core"
	"github.com/auth0/go-jwks-validator/jwks"
	"github.com/auth0/go-jwks-validator/validator"
)

// Key is an RSA signing key and the kid it is published under.
type Key struct {
	ID      string
	Private *rsa.PrivateKey
}

// NewKey generates a 2048 bit RSA key.
func NewKey(t testing.TB, kid string) Key {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return Key{ID: kid, Private: privateKey}
}

// JWKS renders the public halves of keys as a JWKS document.
func JWKS(t testing.TB, keys ...Key) string {
	t.Helper()

	set := jwk.NewSet()
	for _, k := range keys {
		pub, err := jwk.FromRaw(&k.Private.PublicKey)
		require.NoError(t, err)
		require.NoError(t, pub.Set(jwk.KeyIDKey, k.ID))
		require.NoError(t, pub.Set(jwk.AlgorithmKey, jwa.RS256))
		require.NoError(t, pub.Set(jwk.KeyUsageKey, "sig"))
		require.NoError(t, set.AddKey(pub))
	}

	doc, err := json.Marshal(set)
	require.NoError(t, err)

	return string(doc)
}

// Claims returns a payload for subject that expires in one hour.
func Claims(subject string) map[string]any {
	now := time.Now()
	return map[string]any{
		"iss": "https://issuer.example.com/",
		"sub": subject,
		"aud": "api",
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
}

// Sign returns claims signed with key using RS256 and the key's kid.
func Sign(t testing.TB, key Key, claims map[string]any) string {
	t.Helper()

	headers := jws.NewHeaders()
	require.NoError(t, headers.Set(jws.TypeKey, "JWT"))
	require.NoError(t, headers.Set(jws.KeyIDKey, key.ID))

	body, err := json.Marshal(claims)
	require.NoError(t, err)

	signed, err := jws.Sign(body, jws.WithKey(jwa.RS256, key.Private, jws.WithProtectedHeaders(headers)))
	require.NoError(t, err)

	return string(signed)
}

// NewCore builds a core.Core backed by a key store holding keys.
func NewCore(t testing.TB, keys []Key, opts ...core.Option) *core.Core {
	t.Helper()

	store, err := jwks.NewKeyStore(JWKS(t, keys...))
	require.NoError(t, err)

	v, err := validator.New()
	require.NoError(t, err)

	c, err := core.New(append([]core.Option{core.WithValidator(v), core.WithKeyStore(store)}, opts...)...)
	require.NoError(t, err)

	return c
}
