package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	echo "github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type fakeVerifier struct{}

func (fakeVerifier) VerifyIDToken(_ context.Context, token string) (*auth.Token, error) {
	if token == "good" {
		return &auth.Token{UID: "op-1"}, nil
	}
	return nil, errors.New("bad token")
}

func setupRouter(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/whoami", func(c echo.Context) error {
		uid, _ := OperatorUIDFromCtx(c)
		return c.String(http.StatusOK, uid)
	}, mw...)
	return e
}

func do(e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	e := setupRouter(FirebaseAuthMiddleware(fakeVerifier{}))

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"empty token", "Bearer ", http.StatusUnauthorized, ""},
		{"rejected token", "Bearer nope", http.StatusUnauthorized, ""},
		{"valid token", "Bearer good", http.StatusOK, "op-1"},
		{"lowercase scheme", "bearer good", http.StatusOK, "op-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, tt.header)
			assert.Equal(t, tt.code, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestLocalOperatorMiddleware(t *testing.T) {
	rec := do(setupRouter(LocalOperatorMiddleware()), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, LocalOperatorUID, rec.Body.String())
}

func TestRateLimitWithoutRedisAllows(t *testing.T) {
	e := setupRouter(LocalOperatorMiddleware(), RateLimitMiddleware(RateLimitConfig{RPS: 1}))
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(e, "").Code)
	}
}
