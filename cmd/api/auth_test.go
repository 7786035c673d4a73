package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humanosaude/portal/internal/auth"
)

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.CorretorCookie {
			return c
		}
	}
	t.Fatalf("response has no %s cookie", auth.CorretorCookie)
	return nil
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	e := newTestEnv(t)

	rr := e.do(t, httptest.NewRequest(http.MethodPost, "/api/auth/corretor/logout", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[map[string]any](t, rr)["success"].(bool))
	assert.Contains(t, rr.Header().Get("Set-Cookie"), "Max-Age=0")

	c := sessionCookie(t, rr)
	assert.Empty(t, c.Value)
	assert.True(t, c.HttpOnly)
}

func TestLogin(t *testing.T) {
	t.Run("success sets the session cookie", func(t *testing.T) {
		e := newTestEnv(t, withTokens("test-secret"))

		rr := e.do(t, jsonRequest(t, http.MethodPost, "/api/auth/corretor/login", map[string]string{
			"email": "ana@humanosaude.com.br",
			"senha": testPassword,
		}))

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		body := decode[loginResponse](t, rr)
		assert.True(t, body.Success)
		assert.Equal(t, testBrokerID, body.Corretor.ID)
		assert.NotContains(t, rr.Body.String(), "senha_hash")

		c := sessionCookie(t, rr)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
		assert.Equal(t, int(time.Hour.Seconds()), c.MaxAge)

		claims, err := e.app.tokens.Verify(c.Value)
		require.NoError(t, err)
		assert.Equal(t, testBrokerID, claims.CorretorID)
	})

	tests := []struct {
		name  string
		email string
		senha string
		code  int
	}{
		{name: "wrong password", email: "ana@humanosaude.com.br", senha: "errada", code: http.StatusUnauthorized},
		{name: "unknown email", email: "ninguem@humanosaude.com.br", senha: testPassword, code: http.StatusUnauthorized},
		{name: "inactive broker", email: "inativo@humanosaude.com.br", senha: testPassword, code: http.StatusUnauthorized},
		{name: "invalid email", email: "ana", senha: testPassword, code: http.StatusBadRequest},
		{name: "missing password", email: "ana@humanosaude.com.br", code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t, withTokens("test-secret"))

			rr := e.do(t, jsonRequest(t, http.MethodPost, "/api/auth/corretor/login", map[string]string{
				"email": tt.email,
				"senha": tt.senha,
			}))

			require.Equal(t, tt.code, rr.Code)
			if tt.code == http.StatusUnauthorized {
				assert.Equal(t, msgBadCredentials, errorMessage(t, rr))
			}
			assert.Empty(t, rr.Result().Cookies())
		})
	}

	t.Run("sessions not configured", func(t *testing.T) {
		e := newTestEnv(t)

		rr := e.do(t, jsonRequest(t, http.MethodPost, "/api/auth/corretor/login", map[string]string{
			"email": "ana@humanosaude.com.br",
			"senha": testPassword,
		}))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestRequireCorretor(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	valid, _, err := tokens.Issue(testBrokerID, "Ana", "corretor")
	require.NoError(t, err)
	forged, _, err := auth.NewTokenService("other-secret", time.Hour).Issue(testBrokerID, "Ana", "corretor")
	require.NoError(t, err)

	tests := []struct {
		name   string
		setup  func(*http.Request)
		secret string
		code   int
	}{
		{
			name:  "no credentials",
			setup: func(*http.Request) {},
			code:  http.StatusUnauthorized,
		},
		{
			name: "valid cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: auth.CorretorCookie, Value: valid})
			},
			secret: "test-secret",
			code:   http.StatusOK,
		},
		{
			name: "valid bearer",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+valid)
			},
			secret: "test-secret",
			code:   http.StatusOK,
		},
		{
			name: "token signed with another secret",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: auth.CorretorCookie, Value: forged})
			},
			secret: "test-secret",
			code:   http.StatusUnauthorized,
		},
		{
			name: "presence only without secret",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: auth.CorretorCookie, Value: "opaque"})
				r.Header.Set("x-corretor-id", testBrokerID)
			},
			code: http.StatusOK,
		},
		{
			name: "admin session without broker id",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: auth.AdminCookie, Value: testAdminCookie})
			},
			code: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []option
			if tt.secret != "" {
				opts = append(opts, withTokens(tt.secret))
			}
			e := newTestEnv(t, opts...)

			req := httptest.NewRequest(http.MethodGet, "/api/corretor/crm/board", nil)
			tt.setup(req)
			rr := e.do(t, req)

			assert.Equal(t, tt.code, rr.Code, rr.Body.String())
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	e := newTestEnv(t)

	rr := e.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = e.do(t, asAdmin(httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil)))
	assert.Equal(t, http.StatusOK, rr.Code)
}
