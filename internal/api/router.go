package api

import (
	"github.com/artisanhub/artisanhub-api/internal/api/handlers"
	apimiddleware "github.com/artisanhub/artisanhub-api/internal/api/middleware"
	"github.com/artisanhub/artisanhub-api/internal/artstyle"
	"github.com/artisanhub/artisanhub-api/internal/config"
	"github.com/artisanhub/artisanhub-api/internal/metrics"
	"github.com/artisanhub/artisanhub-api/internal/services"
	"github.com/artisanhub/artisanhub-api/internal/storage"
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies are the long-lived objects created at startup and shared by all requests
type Dependencies struct {
	Config    *config.Config
	DB        *gorm.DB // nil when the ledger is disabled
	Catalog   *artstyle.Catalog
	Images    *services.ImageService
	Mints     *services.MintService
	Transfers *services.TransferService
	Ledger    services.MintLedger
	Cookies   *storage.CookieFactory
	Metrics   metrics.Recorder
	Identity  solana.PublicKey
	Info      handlers.ServiceInfo
}

func SetupRouter(deps Dependencies, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())
	router.Use(apimiddleware.SentryMiddleware())
	router.Use(apimiddleware.RequestTracking(deps.Metrics))
	router.Use(apimiddleware.CORS(deps.Config.CORSAllowedOrigins))
	router.Use(apimiddleware.BodyLimit(deps.Config.MaxBodyBytes))

	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Identity, deps.Config.StorageBackend)
	router.GET("/health", healthHandler.HealthCheck)

	metricsHandler := handlers.NewMetricsHandler(version, deps.Info)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	api := router.Group("/api")
	{
		imageHandler := handlers.NewImageHandler(deps.Images)
		api.POST("/generate-image", imageHandler.Generate)

		stylesHandler := handlers.NewStylesHandler(deps.Catalog)
		api.GET("/styles", stylesHandler.List)

		mintHandler := handlers.NewMintHandler(deps.Mints, deps.Ledger)
		api.POST("/mint-nft", mintHandler.Mint)
		api.GET("/mints", mintHandler.List)

		transferHandler := handlers.NewTransferHandler(deps.Transfers)
		api.POST("/transfer", transferHandler.Transfer)

		walletHandler := handlers.NewWalletHandler(deps.Cookies)
		api.GET("/wallet/session", walletHandler.Session)
		api.POST("/wallet/session", walletHandler.Connect)
		api.DELETE("/wallet/session", walletHandler.Disconnect)
	}

	return router
}
