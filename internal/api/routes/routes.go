package routes

import (
	"feedfind-api-server/config"
	"feedfind-api-server/internal/api/handlers"
	"feedfind-api-server/internal/api/middleware"
	"feedfind-api-server/internal/models"
	"feedfind-api-server/internal/s3"
	"feedfind-api-server/internal/socket"
	"feedfind-api-server/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SetupRouter wires the stores into the handlers and declares all routes.
func SetupRouter(
	cfg config.Config,
	db *mongo.Database,
	s3Uploader *s3.Uploader,
	wsHub *socket.Hub,
	log *zap.Logger,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.AllowOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	userStore := store.NewMongoUserStore(db)
	providerStore := store.NewMongoProviderStore(db)
	locationStore := store.NewMongoLocationStore(db)
	updateStore := store.NewMongoStatusUpdateStore(db)
	reviewStore := store.NewMongoReviewStore(db)
	flagStore := store.NewMongoFlaggedContentStore(db)

	authHandler := &handlers.AuthHandler{Users: userStore, Providers: providerStore, Log: log}
	locationHandler := &handlers.LocationHandler{Locations: locationStore, Updates: updateStore, Reviews: reviewStore, Log: log}
	providerHandler := &handlers.ProviderHandler{Providers: providerStore, Locations: locationStore, Updates: updateStore, Uploader: s3Uploader, Hub: wsHub, Log: log}
	moderationHandler := &handlers.ModerationHandler{Flags: flagStore, Providers: providerStore, Locations: locationStore, Log: log}
	reviewHandler := &handlers.ReviewHandler{Reviews: reviewStore, Locations: locationStore, Log: log}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub, Log: log}

	apiV1 := router.Group("/api/v1")
	{
		// Live status feed, public.
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.RegisterProvider)
		}

		// Public directory: search, detail, history, approved reviews.
		public := apiV1.Group("/")
		{
			public.GET("/locations", locationHandler.ListLocations)
			public.GET("/locations/:id", locationHandler.GetLocation)
			public.GET("/locations/:id/updates", locationHandler.GetStatusHistory)
			public.GET("/locations/:id/reviews", locationHandler.ListReviews)
		}

		// Any authenticated user: reviews and content flagging.
		authed := apiV1.Group("/")
		authed.Use(middleware.Authenticate())
		{
			authed.POST("/locations/:id/reviews", reviewHandler.CreateReview)
			authed.POST("/flags", moderationHandler.FlagContent)
		}

		// Provider operations. Admins may act on any provider's behalf; the
		// handlers re-check membership against the provider document.
		providerRoutes := apiV1.Group("/")
		providerRoutes.Use(middleware.Authenticate())
		providerRoutes.Use(middleware.Authorize(models.RoleProvider, models.RoleAdmin, models.RoleSuperuser))
		{
			providers := providerRoutes.Group("/providers/:id")
			{
				providers.GET("/dashboard", providerHandler.GetDashboard)
				providers.POST("/locations", providerHandler.CreateLocation)
				providers.POST("/locations/status", providerHandler.BulkUpdateStatus)
			}

			locations := providerRoutes.Group("/locations/:id")
			{
				locations.POST("/status", providerHandler.UpdateLocationStatus)
				locations.POST("/photo", providerHandler.UploadPhoto)
			}
		}

		// Moderation and approvals, admin roles only.
		admin := apiV1.Group("/admin")
		admin.Use(middleware.Authenticate())
		admin.Use(middleware.Authorize(models.RoleAdmin, models.RoleSuperuser))
		{
			flags := admin.Group("/flags")
			{
				flags.GET("/", moderationHandler.ListFlags)
				flags.POST("/bulk-approve", moderationHandler.BulkApproveFlags)
				flags.POST("/:id/approve", moderationHandler.ApproveFlag)
				flags.POST("/:id/reject", moderationHandler.RejectFlag)
			}

			providers := admin.Group("/providers")
			{
				providers.GET("/", moderationHandler.ListProviders)
				providers.POST("/:id/approve", moderationHandler.ApproveProvider)
				providers.POST("/:id/suspend", moderationHandler.SuspendProvider)
			}

			locations := admin.Group("/locations")
			{
				locations.GET("/", moderationHandler.ListAllLocations)
				locations.PUT("/:id", moderationHandler.UpdateLocation)
				locations.POST("/:id/approve", moderationHandler.ApproveLocation)
				locations.POST("/:id/suspend", moderationHandler.SuspendLocation)
			}

			reviews := admin.Group("/reviews")
			{
				reviews.GET("/", reviewHandler.ListPendingReviews)
				reviews.POST("/:id/approve", reviewHandler.ApproveReview)
				reviews.POST("/:id/reject", reviewHandler.RejectReview)
			}
		}
	}

	return router
}
