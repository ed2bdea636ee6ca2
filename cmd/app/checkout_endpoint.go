package main

import (
	"net/http"

	"github.com/wizardsoflight-studio/studioWebsite/internal/cart"
	"github.com/wizardsoflight-studio/studioWebsite/internal/middleware"
	"github.com/wizardsoflight-studio/studioWebsite/internal/model"
	"github.com/wizardsoflight-studio/studioWebsite/internal/services"

	"github.com/labstack/echo/v4"
)

type checkoutRequest struct {
	Items []cart.Item `json:"items"`

	// Both spellings land on the same optional field: the card form posts
	// shippingAddress, the PayPal buttons post shippingDetails.
	ShippingAddress *model.ShippingAddress `json:"shippingAddress"`
	ShippingDetails *model.ShippingAddress `json:"shippingDetails"`
}

func (r checkoutRequest) address() *model.ShippingAddress {
	if r.ShippingAddress != nil {
		return r.ShippingAddress
	}
	return r.ShippingDetails
}

// checkoutInput resolves the optional caller identity. Guests check out too;
// a valid token just attaches the order to the account.
func checkoutInput(c echo.Context, req checkoutRequest) services.CheckoutInput {
	in := services.CheckoutInput{Items: req.Items, ShippingAddress: req.address()}
	if cl := middleware.TryGetClaimsFromAuthHeader(c); cl != nil {
		userID := cl.UserID
		in.UserID = &userID
		in.Email = cl.Email
	}
	return in
}

func registerCheckoutRoutes(g *echo.Group, cs *services.CheckoutService, pps *services.PayPalService) {

	p := g.Group("/checkout")

	p.POST("", func(c echo.Context) error {
		var req checkoutRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "invalid request body",
			})
		}

		res, err := cs.StartCardCheckout(c.Request().Context(), checkoutInput(c, req))
		if err != nil {
			if services.IsValidationError(err) {
				return c.JSON(http.StatusBadRequest, map[string]string{
					"error": err.Error(),
				})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not start checkout",
			})
		}
		return c.JSON(http.StatusOK, res)
	})

	p.POST("/paypal/create-order", func(c echo.Context) error {
		var req checkoutRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "invalid request body",
			})
		}

		res, err := pps.CreateOrder(c.Request().Context(), checkoutInput(c, req))
		if err != nil {
			if services.IsValidationError(err) {
				return c.JSON(http.StatusBadRequest, map[string]string{
					"error": err.Error(),
				})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not create paypal order",
			})
		}
		return c.JSON(http.StatusOK, map[string]string{"id": res.ID})
	})

	p.POST("/paypal/capture-order", func(c echo.Context) error {
		var req struct {
			OrderID string `json:"orderID"`
		}
		if err := c.Bind(&req); err != nil || req.OrderID == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "orderID is required",
			})
		}

		res, err := pps.CaptureOrder(c.Request().Context(), req.OrderID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not capture paypal order",
			})
		}
		// The PayPal JS SDK expects the capture response untouched.
		return c.JSONBlob(http.StatusOK, res.Raw)
	})
}
