package main

import (
	"context"
	"os"

	"github.com/wizardsoflight-studio/studioWebsite/external/paypal"
	"github.com/wizardsoflight-studio/studioWebsite/external/resend"
	"github.com/wizardsoflight-studio/studioWebsite/external/stripe"

	"github.com/wizardsoflight-studio/studioWebsite/internal/config"
	"github.com/wizardsoflight-studio/studioWebsite/internal/db"
	"github.com/wizardsoflight-studio/studioWebsite/internal/middleware"
	"github.com/wizardsoflight-studio/studioWebsite/internal/repository"
	"github.com/wizardsoflight-studio/studioWebsite/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	app := &cli.App{
		Name:  "studio-api",
		Usage: "storefront and back-office API",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run migrations and start the HTTP server",
				Action: func(c *cli.Context) error {
					return serve()
				},
			},
			{
				Name:  "migrate",
				Usage: "apply database migrations and exit",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}
					return db.Migrate(cfg.DatabaseURL)
				},
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// ======================
	// INFRA
	// ======================
	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		return err
	}
	pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	middleware.SetSecret(cfg.JWTSecret)

	// ======================
	// EXTERNALS
	// ======================
	stripeClient := stripe.NewClient(cfg.StripeSecretKey, cfg.SiteURL)
	paypalClient := paypal.NewClient(cfg.PayPalClientID, cfg.PayPalClientSecret)
	mailer := resend.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom, cfg.SiteURL)

	// ======================
	// REPOSITORIES
	// ======================
	productRepo := repository.NewProductRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)

	// ======================
	// SERVICES
	// ======================
	catalogSvc := services.NewCatalogService(productRepo, categoryRepo)
	cartSvc := services.NewCartService(productRepo)
	checkoutSvc := services.NewCheckoutService(productRepo, orderRepo, stripeClient)
	paymentSvc := services.NewPaymentService(orderRepo, mailer, cfg.StripeWebhookSecret)
	paypalSvc := services.NewPayPalService(productRepo, orderRepo, paypalClient, paymentSvc)
	profileSvc := services.NewProfileService(profileRepo)
	orderSvc := services.NewOrderService(orderRepo)
	adminSvc := services.NewAdminService(productRepo, orderRepo, profileRepo, categoryRepo)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	api := e.Group("/api")

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerCatalogRoutes(api, catalogSvc)
	registerCartRoutes(api, cartSvc)
	registerCheckoutRoutes(api, checkoutSvc, paypalSvc)
	registerWebhookRoutes(api, paymentSvc)
	registerAccountRoutes(api, profileSvc, orderSvc)
	registerAdminRoutes(api, adminSvc)

	// ======================
	// SERVER
	// ======================
	return e.Start(":" + cfg.Port)
}
