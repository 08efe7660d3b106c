// Cloud Analytics API Gateway - live AWS vs Azure price comparison.
//
// Usage:
//
//	server --port 8080 --database-url postgres://... --jwt-secret ...
package main

import (
	"fmt"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/tejkiranyenugunti-spec/CMPE272-CloudAnalytics-API-Gateway/api"
	"github.com/tejkiranyenugunti-spec/CMPE272-CloudAnalytics-API-Gateway/internal/auth"
	"github.com/tejkiranyenugunti-spec/CMPE272-CloudAnalytics-API-Gateway/internal/compare"
	"github.com/tejkiranyenugunti-spec/CMPE272-CloudAnalytics-API-Gateway/internal/pricing"
	"github.com/tejkiranyenugunti-spec/CMPE272-CloudAnalytics-API-Gateway/pkg/platform"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "cloud-analytics-gateway",
		Usage:   "Live AWS vs Azure price comparison gateway",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),

		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP listen port",
				EnvVars: []string{"PORT"},
			},
			&cli.StringFlag{
				Name:    "env",
				Value:   "production",
				Usage:   "Runtime environment (development, production)",
				EnvVars: []string{"ENV"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Postgres DSN for the user store",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "jwt-secret",
				Usage:    "HS256 signing secret for bearer tokens",
				EnvVars:  []string{"JWT_SECRET"},
				Required: true,
			},
			&cli.IntFlag{
				Name:    "token-expiry-minutes",
				Value:   30,
				Usage:   "Bearer token lifetime in minutes",
				EnvVars: []string{"ACCESS_TOKEN_EXPIRE_MINUTES"},
			},
			&cli.DurationFlag{
				Name:    "feed-timeout",
				Value:   25 * time.Second,
				Usage:   "Timeout per outbound provider call",
				EnvVars: []string{"FEED_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "azure-prices-url",
				Value:   pricing.AzureRetailPricesURL,
				Usage:   "Azure Retail Prices endpoint",
				EnvVars: []string{"AZURE_PRICES_URL"},
			},
		},

		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("gateway failed")
	}
}

func run(c *cli.Context) error {
	platform.InitLogger(c.String("env"))

	awsCfg, err := awsconfig.LoadDefaultConfig(c.Context)
	if err != nil {
		return fmt.Errorf("loading aws config: %w", err)
	}

	store, err := auth.OpenPostgres(c.String("database-url"))
	if err != nil {
		return fmt.Errorf("opening user store: %w", err)
	}
	defer store.Close()

	httpClient := platform.NewHTTPClient(c.Duration("feed-timeout"))
	awsSource := pricing.NewAWSSource(pricing.NewAWSPricingClient(awsCfg))
	azureSource := pricing.NewAzureSource(httpClient, c.String("azure-prices-url"))
	engine := compare.NewEngine(awsSource, azureSource)

	authSvc := auth.NewService(store, c.String("jwt-secret"),
		time.Duration(c.Int("token-expiry-minutes"))*time.Minute)

	cfg := api.DefaultConfig()
	cfg.Port = c.Int("port")
	server := api.NewServer(cfg, engine, awsSource, azureSource, authSvc)
	return server.StartWithGracefulShutdown()
}
