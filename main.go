package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/artisanhub/artisanhub-api/internal/api"
	"github.com/artisanhub/artisanhub-api/internal/api/handlers"
	"github.com/artisanhub/artisanhub-api/internal/artstyle"
	"github.com/artisanhub/artisanhub-api/internal/blobstore"
	"github.com/artisanhub/artisanhub-api/internal/chain"
	"github.com/artisanhub/artisanhub-api/internal/config"
	"github.com/artisanhub/artisanhub-api/internal/database"
	"github.com/artisanhub/artisanhub-api/internal/imagegen"
	"github.com/artisanhub/artisanhub-api/internal/metrics"
	"github.com/artisanhub/artisanhub-api/internal/observability"
	"github.com/artisanhub/artisanhub-api/internal/services"
	"github.com/artisanhub/artisanhub-api/internal/storage"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

const (
	sentryFlushTimeout  = 2 * time.Second
	identityCheckBudget = 5 * time.Second
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "artisanhub-api@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			EnableLogs:       true,
			Debug:            !cfg.IsProduction(),
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
					event.Request.Data = ""
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
	}

	// The ledger is optional; without DATABASE_URL mints are not recorded
	var db *gorm.DB
	var ledger services.MintLedger = services.NoopMintLedger{}
	if cfg.LedgerEnabled() {
		var err error
		db, err = database.Connect(cfg.DatabaseURL)
		if err != nil {
			sentry.CaptureException(err)
			log.Fatal("Failed to connect to database:", err)
		}
		if err := database.Migrate(db); err != nil {
			sentry.CaptureException(err)
			log.Fatal("Failed to run migrations:", err)
		}
		ledger = services.NewGormMintLedger(db)
	} else {
		log.Println("⚠️  DATABASE_URL not set, mint ledger disabled")
	}

	cloudwatch, err := metrics.NewClient(ctx, cfg.Environment)
	if err != nil {
		log.Printf("Failed to initialize CloudWatch metrics: %v", err)
	}
	recorder := metrics.NewCombined(metrics.NewSentryMetrics(), cloudwatch)
	langfuse := observability.InitializeLangfuse(ctx, cfg)

	catalog, err := artstyle.Default()
	if err != nil {
		log.Fatal("Failed to load art styles:", err)
	}

	provider, err := imagegen.NewProviderFactory(
		cfg.OpenAIAPIKey, cfg.OpenAIImageModel,
		cfg.GeminiAPIKey, cfg.GeminiImageModel,
	).GetProvider(cfg.ImageProvider)
	if err != nil {
		log.Fatal("Failed to create image provider:", err)
	}

	store, err := blobstore.New(ctx, cfg.StorageBackend, cfg.StorageBucket, cfg.StoragePublicBaseURL)
	if err != nil {
		log.Fatal("Failed to create blob storage:", err)
	}
	blobstore.ReportBackend(store, cfg.SolanaRPCURL)

	identity, generated, err := chain.LoadIdentity(cfg.ServerKeypair)
	if err != nil {
		log.Fatal("Failed to load server identity:", err)
	}
	backend := chain.NewRPCBackend(cfg.SolanaRPCURL)
	checkCtx, cancel := context.WithTimeout(ctx, identityCheckBudget)
	chain.ReportIdentity(checkCtx, backend, identity, generated)
	cancel()

	submitter := chain.NewSubmitter(backend, chain.NewConfirmer(backend, cfg.ConfirmPollInterval, cfg.ConfirmTimeout))
	minter := chain.NewMinter(submitter, identity)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.SetupRouter(api.Dependencies{
		Config:    cfg,
		DB:        db,
		Catalog:   catalog,
		Images:    services.NewImageService(provider, catalog, recorder, langfuse),
		Mints:     services.NewMintService(store, minter, ledger, recorder),
		Transfers: services.NewTransferService(submitter, recorder),
		Ledger:    ledger,
		Cookies:   storage.NewCookieFactory(cfg.SessionSecret, cfg.IsProduction()),
		Metrics:   recorder,
		Identity:  minter.Payer(),
		Info: handlers.ServiceInfo{
			ImageProvider:  provider.Name(),
			ImageModel:     provider.Model(),
			StorageBackend: store.Name(),
			Network:        cfg.SolanaRPCURL,
			Ledger:         cfg.LedgerEnabled(),
		},
	}, GetVersion())

	log.Printf("🚀 Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server:", err)
	}
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[strings.ToLower(k)] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
