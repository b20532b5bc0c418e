package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "tripcraft/internal/app"
	"tripcraft/internal/bootstrap"
	"tripcraft/internal/cache"
	rabbitmqClient "tripcraft/internal/platform/rabbitmq"
	"tripcraft/internal/repository"
	"tripcraft/internal/transport/http/handler"
	"tripcraft/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.RequestID(), middleware.CORS())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Welcome to AI Travel Planner API"})
	})
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.DB)
	itineraryRepo := repository.NewItineraryRepository(app.DB)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)

	var savedCache appsvc.SavedItineraryCache
	if app.Redis != nil {
		savedCache = cache.NewItineraryCache(
			app.Redis,
			time.Duration(app.Config.Redis.SavedTTLSeconds)*time.Second,
		)
	}
	itineraryService := appsvc.NewItineraryService(itineraryRepo, app.AI, savedCache)

	var publisher appsvc.TranscriptPublisher
	if app.MQConn != nil {
		publisher = rabbitmqClient.NewTranscriptPublisher(app.MQConn, app.Config.RabbitMQ.TranscriptQueue)
	}
	chatService := appsvc.NewChatService(app.AI, publisher)

	authHandler := handler.NewAuthHandler(authService)
	itineraryHandler := handler.NewItineraryHandler(itineraryService)
	chatHandler := handler.NewChatHandler(chatService)

	requireAuth := middleware.BearerAuth(app.Config.Auth.JWTSecret, userRepo)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", requireAuth, authHandler.Me)

	itineraryGroup := api.Group("/itinerary")
	itineraryGroup.POST("/generate", itineraryHandler.Generate)
	itineraryGroup.POST("/save", requireAuth, itineraryHandler.Save)
	itineraryGroup.GET("/saved", requireAuth, itineraryHandler.ListSaved)

	chatGroup := api.Group("/chat")
	chatGroup.POST("/stream", chatHandler.Stream)

	return router
}
