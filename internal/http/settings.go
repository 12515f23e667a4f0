package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jmehdipour/loyalty-admin/internal/service/settings"
)

type settingsReq struct {
	EnableSMS *bool `json:"enableSms"`
}

func getSettingsHandler(svc *settings.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		s, err := svc.Get(c.Request().Context())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, s)
	}
}

func putSettingsHandler(svc *settings.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req settingsReq
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "body", "malformed JSON")
		}
		if req.EnableSMS == nil {
			return badRequest(c, "enableSms", "is required")
		}

		s, err := svc.SetEnableSMS(c.Request().Context(), *req.EnableSMS)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, s)
	}
}
