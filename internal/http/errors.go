package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jmehdipour/loyalty-admin/internal/apperr"
	"github.com/jmehdipour/loyalty-admin/internal/logger"
)

// writeError maps service errors to responses the operator can act on.
func writeError(c echo.Context, err error) error {
	var (
		ve *apperr.ValidationError
		ce *apperr.ConflictError
		ci *apperr.CursorInvalidError
	)
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error":       "invalid_argument",
			"field":       ve.Field,
			"description": ve.Error(),
		})
	case errors.As(err, &ce):
		return c.JSON(http.StatusConflict, map[string]any{
			"error":          "tier_in_use",
			"description":    ce.Error(),
			"tier_id":        ce.TierID,
			"customer_count": ce.Count,
		})
	case errors.As(err, &ci):
		return c.JSON(http.StatusGone, map[string]any{
			"error":       "cursor_invalid",
			"description": "the record this page resumes from no longer exists; reload from the first page",
			"cursor":      ci.Cursor,
		})
	default:
		logger.Log.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "store error"})
	}
}

func badRequest(c echo.Context, field, reason string) error {
	return writeError(c, apperr.Validation(field, reason))
}
