package auth

import (
	"context"
	"fmt"
	"strings"

	"watizat/pkg/types"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// KeySetFunc returns the keys access tokens may be signed with.
type KeySetFunc func(ctx context.Context) (jwk.Set, error)

// accessTokenUse is the token_use claim Cognito puts on access tokens. ID
// tokens from the same pool carry "id" and are refused.
const accessTokenUse = "access"

type Verifier struct {
	issuer string
	keys   KeySetFunc
}

func NewVerifier(issuerURL string, keys KeySetFunc) *Verifier {
	return &Verifier{issuer: strings.TrimSuffix(issuerURL, "/"), keys: keys}
}

// JWKSURL is where the issuer publishes its signing keys.
func JWKSURL(issuerURL string) string {
	return strings.TrimSuffix(issuerURL, "/") + "/.well-known/jwks.json"
}

// NewJWKSVerifier verifies tokens against the issuer's published key set.
// Keys are cached and refreshed in the background until ctx is done.
func NewJWKSVerifier(ctx context.Context, issuerURL string) (*Verifier, error) {
	cache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	url := JWKSURL(issuerURL)
	if err := cache.Register(ctx, url); err != nil {
		return nil, fmt.Errorf("failed to register %s with jwk cache: %w", url, err)
	}

	return NewVerifier(issuerURL, func(ctx context.Context) (jwk.Set, error) {
		return cache.Lookup(ctx, url)
	}), nil
}

// Verify checks the token signature, validity window, issuer and token use,
// and returns its subject.
func (v *Verifier) Verify(ctx context.Context, token string) (string, error) {
	set, err := v.keys(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch jwks: %w", err)
	}

	parsed, err := jwt.Parse(
		[]byte(token),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithClaimValue("token_use", accessTokenUse),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s", types.ErrUnauthenticated, err)
	}

	sub, ok := parsed.Subject()
	if !ok || sub == "" {
		return "", fmt.Errorf("%w: token has no subject", types.ErrUnauthenticated)
	}

	return sub, nil
}
