package http

import (
	"net/http"
	"strconv"

	echo "github.com/labstack/echo/v4"

	"github.com/jmehdipour/loyalty-admin/internal/service/report"
	"github.com/jmehdipour/loyalty-admin/internal/service/sales"
	"github.com/jmehdipour/loyalty-admin/internal/util"
)

func salesPageHandler(svc *sales.Service, defaultSize int) echo.HandlerFunc {
	return func(c echo.Context) error {
		size := defaultSize
		if v := c.QueryParam("page_size"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return badRequest(c, "page_size", "must be an integer")
			}
			size = n
		}

		page, err := svc.Page(c.Request().Context(), size, c.QueryParam("after"))
		if err != nil {
			return writeError(c, err)
		}

		var next *string
		if page.NextCursor != "" {
			next = &page.NextCursor
		}
		return c.JSON(http.StatusOK, map[string]any{
			"page_size":   size,
			"count":       len(page.Records),
			"results":     page.Records,
			"next_cursor": next, // null once the log is exhausted
		})
	}
}

func salesReportHandler(svc *sales.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		start, err := util.ParseBound(c.QueryParam("start"), false)
		if err != nil {
			return badRequest(c, "start", "must be RFC3339 or YYYY-MM-DD")
		}
		end, err := util.ParseBound(c.QueryParam("end"), true)
		if err != nil {
			return badRequest(c, "end", "must be RFC3339 or YYYY-MM-DD")
		}

		recs, err := svc.RangeQuery(c.Request().Context(), start, end)
		if err != nil {
			return writeError(c, err)
		}

		rows := report.Project(recs)
		return c.JSON(http.StatusOK, map[string]any{
			"start":   start,
			"end":     end,
			"count":   len(rows),
			"results": rows,
		})
	}
}
