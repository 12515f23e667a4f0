package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jmehdipour/loyalty-admin/internal/model"
	"github.com/jmehdipour/loyalty-admin/internal/service/tier"
)

type tierReq struct {
	Name       string   `json:"name"`
	RewardRate *float64 `json:"rewardRate"`
	Color      string   `json:"color"`
}

func (r tierReq) toTier(id string) (model.MembershipTier, bool) {
	if r.RewardRate == nil {
		return model.MembershipTier{}, false
	}
	return model.MembershipTier{
		ID:         id,
		Name:       r.Name,
		RewardRate: *r.RewardRate,
		Color:      r.Color,
	}, true
}

func listTiersHandler(svc *tier.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		tiers, err := svc.ListAll(c.Request().Context())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"count":   len(tiers),
			"results": tiers,
		})
	}
}

func createTierHandler(svc *tier.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		return upsertTier(c, svc, "", http.StatusCreated)
	}
}

func updateTierHandler(svc *tier.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		return upsertTier(c, svc, c.Param("id"), http.StatusOK)
	}
}

func upsertTier(c echo.Context, svc *tier.Service, id string, status int) error {
	var req tierReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body", "malformed JSON")
	}
	t, ok := req.toTier(id)
	if !ok {
		return badRequest(c, "rewardRate", "is required")
	}

	stored, err := svc.Upsert(c.Request().Context(), t)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(status, stored)
}

func deleteTierHandler(svc *tier.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
			return writeError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
