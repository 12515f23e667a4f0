package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jmehdipour/loyalty-admin/internal/logger"
	"github.com/jmehdipour/loyalty-admin/internal/model"
	"github.com/jmehdipour/loyalty-admin/internal/service/kpi"
	"github.com/jmehdipour/loyalty-admin/internal/service/ranking"
)

func getKpisHandler(svc *kpi.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, svc.GetKpis(c.Request().Context()))
	}
}

// streamKpisHandler pushes KPIs as server-sent events until the client leaves.
func streamKpisHandler(svc *kpi.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		w := c.Response()
		w.Header().Set(echo.HeaderContentType, "text/event-stream")
		w.Header().Set(echo.HeaderCacheControl, "no-cache")
		w.Header().Set(echo.HeaderConnection, "keep-alive")
		w.WriteHeader(http.StatusOK)
		w.Flush()

		err := svc.WatchKpis(c.Request().Context(), func(k model.Kpis) error {
			data, err := json.Marshal(k)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "event: kpis\ndata: %s\n\n", data); err != nil {
				return err
			}
			w.Flush()
			return nil
		})
		if err != nil {
			// headers are gone; the client sees the stream end and reconnects
			logger.Log.Warn("kpi stream ended", zap.Error(err))
		}
		return nil
	}
}

func topCustomersHandler(svc *ranking.Service, defaultN int) echo.HandlerFunc {
	return func(c echo.Context) error {
		n := defaultN
		if v := c.QueryParam("n"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				return badRequest(c, "n", "must be an integer")
			}
			n = parsed
		}

		top := svc.GetTopCustomers(c.Request().Context(), n)
		return c.JSON(http.StatusOK, map[string]any{
			"count":   len(top),
			"results": top,
		})
	}
}
