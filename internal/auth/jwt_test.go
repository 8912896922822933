package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"watizat/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIssuer = "https://cognito-idp.eu-west-3.amazonaws.com/pool"

type signer struct {
	private jwk.Key
	set     jwk.Set
}

func newSigner(t *testing.T) *signer {
	t.Helper()

	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	private, err := jwk.Import(raw)
	require.NoError(t, err)
	require.NoError(t, private.Set(jwk.KeyIDKey, "test-key"))
	require.NoError(t, private.Set(jwk.AlgorithmKey, jwa.RS256()))

	public, err := jwk.PublicKeyOf(private)
	require.NoError(t, err)

	set := jwk.NewSet()
	require.NoError(t, set.AddKey(public))

	return &signer{private: private, set: set}
}

func (s *signer) sign(t *testing.T, subject string, expires time.Time) string {
	t.Helper()
	return s.signClaims(t, subject, expires, testIssuer, "access")
}

func (s *signer) signClaims(t *testing.T, subject string, expires time.Time, issuer, use string) string {
	t.Helper()

	b := jwt.NewBuilder().IssuedAt(time.Now()).Expiration(expires).Issuer(issuer)
	if subject != "" {
		b = b.Subject(subject)
	}
	if use != "" {
		b = b.Claim("token_use", use)
	}
	tok, err := b.Build()
	require.NoError(t, err)

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256(), s.private))
	require.NoError(t, err)
	return string(signed)
}

func (s *signer) keys(context.Context) (jwk.Set, error) {
	return s.set, nil
}

func TestVerify(t *testing.T) {
	s := newSigner(t)
	v := NewVerifier(testIssuer, s.keys)

	sub, err := v.Verify(context.Background(), s.sign(t, "user-1", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)

	trailing := NewVerifier(testIssuer+"/", s.keys)
	_, err = trailing.Verify(context.Background(), s.sign(t, "user-1", time.Now().Add(time.Hour)))
	assert.NoError(t, err)
}

func TestVerifyRejects(t *testing.T) {
	s := newSigner(t)
	other := newSigner(t)
	v := NewVerifier(testIssuer, s.keys)
	hour := time.Now().Add(time.Hour)

	tests := map[string]string{
		"id token":     s.signClaims(t, "user-1", hour, testIssuer, "id"),
		"no token use": s.signClaims(t, "user-1", hour, testIssuer, ""),
		"other issuer": s.signClaims(t, "user-1", hour, "https://cognito-idp.eu-west-3.amazonaws.com/other", "access"),
		"expired":      s.sign(t, "user-1", time.Now().Add(-time.Hour)),
		"no subject":   s.sign(t, "", time.Now().Add(time.Hour)),
		"foreign key":  other.sign(t, "user-1", time.Now().Add(time.Hour)),
		"not a jwt":    "garbage",
		"empty":        "",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), token)
			assert.ErrorIs(t, err, types.ErrUnauthenticated)
		})
	}
}

func TestVerifyKeySetUnavailable(t *testing.T) {
	v := NewVerifier(testIssuer, func(context.Context) (jwk.Set, error) {
		return nil, errors.New("jwks down")
	})

	_, err := v.Verify(context.Background(), "whatever")
	require.Error(t, err)
	assert.NotErrorIs(t, err, types.ErrUnauthenticated)
}

func TestJWKSURL(t *testing.T) {
	want := "https://cognito-idp.eu-west-3.amazonaws.com/pool/.well-known/jwks.json"
	assert.Equal(t, want, JWKSURL("https://cognito-idp.eu-west-3.amazonaws.com/pool"))
	assert.Equal(t, want, JWKSURL("https://cognito-idp.eu-west-3.amazonaws.com/pool/"))
}
