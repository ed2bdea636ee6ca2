package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/wizardsoflight-studio/studioWebsite/internal/middleware"
	"github.com/wizardsoflight-studio/studioWebsite/internal/model"
	"github.com/wizardsoflight-studio/studioWebsite/internal/services"

	"github.com/labstack/echo/v4"
)

func pageParams(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}

func registerAdminRoutes(g *echo.Group, as *services.AdminService) {

	p := g.Group("/admin")
	p.Use(middleware.JWTMiddleware())

	// ======================
	// DASHBOARD (fulfillment and up)
	// ======================
	p.GET("/dashboard", func(c echo.Context) error {
		stats, err := as.Dashboard(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not load dashboard",
			})
		}
		return c.JSON(http.StatusOK, stats)
	}, middleware.RequireRole("fulfillment"))

	// ======================
	// CUSTOMERS (manager and up)
	// ======================
	mgmt := p.Group("/customers", middleware.RequireRole("manager"))

	mgmt.GET("", func(c echo.Context) error {
		limit, offset := pageParams(c)
		customers, err := as.ListCustomers(c.Request().Context(), limit, offset)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not load customers",
			})
		}
		if customers == nil {
			customers = []model.Profile{}
		}
		return c.JSON(http.StatusOK, customers)
	})

	// ======================
	// ORDERS (fulfillment and up)
	// ======================
	orders := p.Group("/orders", middleware.RequireRole("fulfillment"))

	orders.GET("", func(c echo.Context) error {
		limit, offset := pageParams(c)
		list, err := as.ListOrders(c.Request().Context(), limit, offset)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not load orders",
			})
		}
		if list == nil {
			list = []model.Order{}
		}
		return c.JSON(http.StatusOK, list)
	})

	orders.GET("/:id", func(c echo.Context) error {
		order, err := as.GetOrder(c.Request().Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrOrderNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{
					"error": "order not found",
				})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not load order",
			})
		}
		return c.JSON(http.StatusOK, order)
	})

	orders.PUT("/:id/status", func(c echo.Context) error {
		var req services.OrderStatusUpdate
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "invalid request body",
			})
		}

		if err := as.UpdateOrderStatus(c.Request().Context(), c.Param("id"), req); err != nil {
			if services.IsValidationError(err) {
				return c.JSON(http.StatusBadRequest, map[string]string{
					"error": err.Error(),
				})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not update order",
			})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": req.Status})
	})

	// ======================
	// CATALOG MANAGEMENT (content_editor and up)
	// ======================
	products := p.Group("/products", middleware.RequireRole("content_editor"))

	products.GET("", func(c echo.Context) error {
		limit, offset := pageParams(c)
		list, err := as.ListProducts(c.Request().Context(), limit, offset)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not load products",
			})
		}
		if list == nil {
			list = []model.Product{}
		}
		return c.JSON(http.StatusOK, list)
	})

	products.POST("", func(c echo.Context) error {
		var req services.ProductInput
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "invalid request body",
			})
		}

		product, err := as.CreateProduct(c.Request().Context(), &req)
		if err != nil {
			if services.IsValidationError(err) {
				return c.JSON(http.StatusBadRequest, map[string]string{
					"error": err.Error(),
				})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not create product",
			})
		}
		return c.JSON(http.StatusCreated, product)
	})

	products.PUT("/:id", func(c echo.Context) error {
		var req services.ProductInput
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "invalid request body",
			})
		}

		product, err := as.UpdateProduct(c.Request().Context(), c.Param("id"), &req)
		if err != nil {
			if services.IsValidationError(err) {
				return c.JSON(http.StatusBadRequest, map[string]string{
					"error": err.Error(),
				})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not update product",
			})
		}
		return c.JSON(http.StatusOK, product)
	})

	products.DELETE("/:id", func(c echo.Context) error {
		if err := as.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not delete product",
			})
		}
		return c.NoContent(http.StatusNoContent)
	})

	categories := p.Group("/categories", middleware.RequireRole("content_editor"))

	categories.GET("", func(c echo.Context) error {
		list, err := as.ListCategories(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not load categories",
			})
		}
		if list == nil {
			list = []model.Category{}
		}
		return c.JSON(http.StatusOK, list)
	})

	categories.POST("", func(c echo.Context) error {
		var req model.Category
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "invalid request body",
			})
		}

		if err := as.CreateCategory(c.Request().Context(), &req); err != nil {
			if services.IsValidationError(err) {
				return c.JSON(http.StatusBadRequest, map[string]string{
					"error": err.Error(),
				})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not create category",
			})
		}
		return c.JSON(http.StatusCreated, req)
	})
}
