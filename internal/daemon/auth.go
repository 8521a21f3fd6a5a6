package daemon

import (
	"context"
	"net/http"
	"strings"
)

type identityContextKey struct{}

// SessionAuthMiddleware verifies the bearer token on every /v1/ route and
// threads the verified identity through the request context. /health and
// the auth endpoints themselves stay open.
func SessionAuthMiddleware(signer *TokenSigner, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v1/") || strings.HasPrefix(r.URL.Path, "/v1/auth/") {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := identityFromRequest(signer, r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "unauthorized",
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}

func identityFromRequest(signer *TokenSigner, r *http.Request) (*Identity, error) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return nil, unauthorizedError("missing bearer token", nil)
	}
	return signer.Verify(auth[len(prefix):])
}

func withIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(*Identity)
	return identity, ok && identity != nil
}

func requireIdentity(r *http.Request) (*Identity, error) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return nil, unauthorizedError("unauthorized", nil)
	}
	return identity, nil
}

func requireAdmin(r *http.Request) (*Identity, error) {
	identity, err := requireIdentity(r)
	if err != nil {
		return nil, err
	}
	if !identity.Admin {
		return nil, forbiddenError("admin access required", nil)
	}
	return identity, nil
}
