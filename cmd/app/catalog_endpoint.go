package main

import (
	"net/http"

	"github.com/wizardsoflight-studio/studioWebsite/internal/model"
	"github.com/wizardsoflight-studio/studioWebsite/internal/services"

	"github.com/labstack/echo/v4"
)

func registerCatalogRoutes(g *echo.Group, cs *services.CatalogService) {

	p := g.Group("/catalog")

	// The nsfw flag flips the listing to the age-restricted partition. It is
	// a client-confirmed age gate, not an access control.
	p.GET("/products", func(c echo.Context) error {
		filter := model.CatalogFilter{
			CategorySlug: c.QueryParam("category"),
			IncludeNSFW:  c.QueryParam("nsfw") == "true",
		}

		products, err := cs.ListProducts(c.Request().Context(), filter)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not load products",
			})
		}
		if products == nil {
			products = []model.ProductSummary{}
		}
		return c.JSON(http.StatusOK, products)
	})

	p.GET("/products/:slug", func(c echo.Context) error {
		product, err := cs.GetProduct(
			c.Request().Context(),
			c.Param("slug"),
			c.QueryParam("nsfw") == "true",
		)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not load product",
			})
		}
		if product == nil {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "product not found",
			})
		}
		return c.JSON(http.StatusOK, product)
	})

	p.GET("/categories", func(c echo.Context) error {
		categories, err := cs.ListCategories(
			c.Request().Context(),
			c.QueryParam("nsfw") == "true",
		)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not load categories",
			})
		}
		if categories == nil {
			categories = []model.Category{}
		}
		return c.JSON(http.StatusOK, categories)
	})
}
