package main

import (
	"io"
	"net/http"

	"github.com/wizardsoflight-studio/studioWebsite/internal/services"

	"github.com/labstack/echo/v4"
)

func registerCartRoutes(g *echo.Group, cs *services.CartService) {

	p := g.Group("/cart")

	// The cart lives in the client's local storage; this endpoint re-validates
	// a serialized cart against live stock and availability.
	p.POST("/sync", func(c echo.Context) error {
		raw, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "could not read cart",
			})
		}

		res, err := cs.Sync(c.Request().Context(), raw)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not sync cart",
			})
		}
		return c.JSON(http.StatusOK, res)
	})
}
