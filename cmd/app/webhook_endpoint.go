package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/wizardsoflight-studio/studioWebsite/internal/services"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

func registerWebhookRoutes(g *echo.Group, ps *services.PaymentService) {

	p := g.Group("/webhook")

	// Public by necessity; authenticity comes from the signature check inside
	// the service, never from a session.
	p.POST("/stripe", func(c echo.Context) error {
		payload, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "could not read payload",
			})
		}

		err = ps.HandleStripeEvent(
			c.Request().Context(),
			payload,
			c.Request().Header.Get("Stripe-Signature"),
		)
		if err != nil {
			if errors.Is(err, services.ErrInvalidSignature) {
				return c.JSON(http.StatusBadRequest, map[string]string{
					"error": "invalid signature",
				})
			}
			if errors.Is(err, services.ErrOrderNotFound) {
				// Acknowledge so Stripe stops retrying an event we can
				// never resolve. Already logged by the service.
				return c.JSON(http.StatusOK, map[string]bool{"received": true})
			}
			log.WithError(err).Error("stripe webhook processing failed")
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "webhook processing failed",
			})
		}

		return c.JSON(http.StatusOK, map[string]bool{"received": true})
	})
}
