package main

import (
	"errors"
	"net/http"

	"github.com/wizardsoflight-studio/studioWebsite/internal/middleware"
	"github.com/wizardsoflight-studio/studioWebsite/internal/services"

	"github.com/labstack/echo/v4"
)

func registerAccountRoutes(g *echo.Group, ps *services.ProfileService, os *services.OrderService) {

	p := g.Group("/account")
	p.Use(middleware.JWTMiddleware())

	p.GET("/profile", func(c echo.Context) error {
		cl := middleware.GetClaims(c)

		profile, err := ps.Get(c.Request().Context(), cl.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not load profile",
			})
		}
		if profile == nil {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "profile not found",
			})
		}
		return c.JSON(http.StatusOK, profile)
	})

	p.PUT("/profile", func(c echo.Context) error {
		cl := middleware.GetClaims(c)

		var req services.ProfileUpdate
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "invalid request body",
			})
		}

		profile, err := ps.Update(c.Request().Context(), cl.UserID, req)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not update profile",
			})
		}
		if profile == nil {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "profile not found",
			})
		}
		return c.JSON(http.StatusOK, profile)
	})

	p.GET("/orders", func(c echo.Context) error {
		cl := middleware.GetClaims(c)

		orders, err := os.ListForUser(c.Request().Context(), cl.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not load orders",
			})
		}
		return c.JSON(http.StatusOK, orders)
	})

	p.GET("/orders/:id", func(c echo.Context) error {
		cl := middleware.GetClaims(c)

		order, err := os.GetForUser(c.Request().Context(), cl.UserID, c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrOrderNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{
					"error": "order not found",
				})
			}
			if errors.Is(err, services.ErrForbidden) {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": "not your order",
				})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not load order",
			})
		}
		return c.JSON(http.StatusOK, order)
	})
}
