package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	echo "github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jmehdipour/loyalty-admin/internal/logger"
)

const ctxOperatorUID = "operator_uid"

// LocalOperatorUID identifies requests when authentication is disabled.
const LocalOperatorUID = "local"

// TokenVerifier checks a Firebase ID token. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

var _ TokenVerifier = (*auth.Client)(nil)

// OperatorUIDFromCtx extracts the operator uid set by the auth middleware.
func OperatorUIDFromCtx(c echo.Context) (string, bool) {
	uid, ok := c.Get(ctxOperatorUID).(string)
	return uid, ok && uid != ""
}

// FirebaseAuthMiddleware authenticates operators with a Bearer ID token.
func FirebaseAuthMiddleware(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			if header == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			scheme, token, ok := strings.Cut(header, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization header"})
			}

			tok, err := v.VerifyIDToken(c.Request().Context(), token)
			if err != nil {
				logger.Log.Debug("id token rejected", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}
			c.Set(ctxOperatorUID, tok.UID)
			return next(c)
		}
	}
}

// LocalOperatorMiddleware marks every request as LocalOperatorUID. Only for
// local runs with auth.disabled.
func LocalOperatorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ctxOperatorUID, LocalOperatorUID)
			return next(c)
		}
	}
}
