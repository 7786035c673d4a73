package main

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/humanosaude/portal/internal/auth"
)

type ctxKey string

const claimsKey ctxKey = "corretor_claims"

const msgUnauthorized = "Não autorizado"

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// requireCorretor admits requests carrying a broker session, an admin
// session or a bearer token. Broker tokens are verified when a signing
// secret is configured.
func (app *application) requireCorretor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := cookieValue(r, auth.CorretorCookie)
		if token == "" {
			token = bearerToken(r)
		}

		if token == "" {
			if cookieValue(r, auth.AdminCookie) != "" {
				next.ServeHTTP(w, r)
				return
			}
			writeJSONError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		if app.tokens == nil {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := app.tokens.Verify(token)
		if err != nil {
			app.logger.Debug(component, "rejected broker token: %v", err)
			writeJSONError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookieValue(r, auth.AdminCookie) == "" && bearerToken(r) == "" {
			writeJSONError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// corretorID resolves the broker for the request: token claims first, then
// the x-corretor-id header.
func corretorID(r *http.Request) string {
	if claims, ok := claimsFromContext(r.Context()); ok {
		return claims.CorretorID
	}
	return strings.TrimSpace(r.Header.Get("x-corretor-id"))
}

// cronAuthorized checks the bearer secret. An empty secret disables the check.
func cronAuthorized(r *http.Request, secret string) bool {
	if secret == "" {
		return true
	}
	got := bearerToken(r)
	return subtle.ConstantTimeCompare([]byte(got), []byte(secret)) == 1
}
