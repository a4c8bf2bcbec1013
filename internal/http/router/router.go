package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillbridge/backend/internal/config"
	"github.com/skillbridge/backend/internal/http/handlers"
	"github.com/skillbridge/backend/internal/http/middleware"
	"github.com/skillbridge/backend/internal/service"
)

// Handlers собирает все HTTP хэндлеры приложения.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Profile      *handlers.ProfileHandler
	Service      *handlers.ServiceHandler
	Search       *handlers.SearchHandler
	Category     *handlers.CategoryHandler
	Order        *handlers.OrderHandler
	Chat         *handlers.ChatHandler
	Contract     *handlers.ContractHandler
	Review       *handlers.ReviewHandler
	Favorite     *handlers.FavoriteHandler
	Portfolio    *handlers.PortfolioHandler
	Notification *handlers.NotificationHandler
	Community    *handlers.CommunityHandler
	Admin        *handlers.AdminHandler
	Media        *handlers.MediaHandler
	Health       *handlers.HealthHandler
}

// SetupRouter настраивает маршруты приложения.
func SetupRouter(cfg *config.Config, h Handlers, tokenManager *service.TokenManager) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
	}

	// Публичные маршруты каталога и поиска.
	api.GET("/search", h.Search.Search)
	api.GET("/search/autocomplete", h.Search.Autocomplete)
	api.GET("/services/featured", h.Search.Featured)
	api.GET("/services/:id", middleware.UUIDValidator("id"), h.Service.GetService)
	api.GET("/services/:id/reviews", middleware.UUIDValidator("id"), h.Review.ListReviews)
	api.GET("/categories", h.Category.ListCategories)
	api.GET("/categories/:id", middleware.UUIDValidator("id"), h.Category.GetCategory)
	api.GET("/communities", h.Community.List)
	api.GET("/communities/:id", middleware.UUIDValidator("id"), h.Community.Detail)
	api.GET("/users/:id", middleware.UUIDValidator("id"), h.Profile.GetUserProfile)
	api.GET("/users/:id/stats", middleware.UUIDValidator("id"), h.Profile.GetUserStats)
	api.GET("/users/:id/portfolio", middleware.UUIDValidator("id"), h.Portfolio.ListUserProjects)

	// Защищённые маршруты.
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/auth/me", h.Auth.Me)
		protected.PUT("/profile", h.Profile.UpdateMe)
		protected.POST("/users/me/become-provider", h.Profile.BecomeProvider)

		protected.POST("/services", h.Service.CreateService)
		protected.GET("/services/my", h.Service.ListMyServices)
		protected.PUT("/services/:id", middleware.UUIDValidator("id"), h.Service.UpdateService)
		protected.POST("/services/:id/deactivate", middleware.UUIDValidator("id"), h.Service.DeactivateService)
		protected.POST("/services/:id/activate", middleware.UUIDValidator("id"), h.Service.ActivateService)
		protected.DELETE("/services/:id", middleware.UUIDValidator("id"), h.Service.PurgeService)

		protected.POST("/services/:id/reviews", middleware.UUIDValidator("id"), h.Review.CreateReview)
		protected.POST("/services/:id/favorite", middleware.UUIDValidator("id"), h.Favorite.Toggle)
		protected.GET("/services/:id/favorite", middleware.UUIDValidator("id"), h.Favorite.Check)
		protected.GET("/favorites", h.Favorite.List)

		protected.POST("/portfolio", h.Portfolio.AddProject)
		protected.DELETE("/portfolio/:id", middleware.UUIDValidator("id"), h.Portfolio.DeleteProject)

		protected.POST("/orders", h.Order.CreateOrder)
		protected.GET("/orders/my", h.Order.ListMyOrders)
		protected.GET("/orders/:id", middleware.UUIDValidator("id"), h.Order.GetOrder)
		protected.POST("/orders/:id/accept", middleware.UUIDValidator("id"), h.Order.AcceptOrder)
		protected.POST("/orders/:id/complete", middleware.UUIDValidator("id"), h.Order.CompleteOrder)
		protected.POST("/orders/:id/cancel", middleware.UUIDValidator("id"), h.Order.CancelOrder)

		protected.GET("/orders/:id/messages", middleware.UUIDValidator("id"), h.Chat.ListMessages)
		protected.POST("/orders/:id/messages", middleware.UUIDValidator("id"), h.Chat.SendMessage)
		protected.GET("/chats/my", h.Chat.ListMyChats)

		protected.GET("/orders/:id/contract", middleware.UUIDValidator("id"), h.Contract.GetContract)
		protected.POST("/orders/:id/contract", middleware.UUIDValidator("id"), h.Contract.GenerateContract)
		protected.POST("/contracts/:id/sign", middleware.UUIDValidator("id"), h.Contract.SignContract)
		protected.GET("/contracts/:id/pdf", middleware.UUIDValidator("id"), h.Contract.DownloadContractPDF)

		protected.GET("/notifications", h.Notification.List)
		protected.GET("/notifications/unread/count", h.Notification.CountUnread)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), h.Notification.MarkAsRead)
		protected.PUT("/notifications/read-all", h.Notification.MarkAllAsRead)
		protected.DELETE("/notifications/:id", middleware.UUIDValidator("id"), h.Notification.Delete)
		protected.DELETE("/notifications", h.Notification.DeleteAll)

		protected.POST("/communities/:id/join", middleware.UUIDValidator("id"), h.Community.Join)
		protected.POST("/communities/:id/leave", middleware.UUIDValidator("id"), h.Community.Leave)

		protected.POST("/media/photos", h.Media.UploadPhoto)

		admin := protected.Group("/admin")
		{
			admin.GET("/users", h.Admin.ListUsers)
			admin.GET("/orders", h.Admin.ListOrders)
			admin.PUT("/users/:id/active", middleware.UUIDValidator("id"), h.Admin.SetUserActive)
			admin.PUT("/users/:id/role", middleware.UUIDValidator("id"), h.Admin.SetUserRole)
			admin.GET("/stats", h.Admin.GetStats)
			admin.POST("/categories", h.Category.CreateCategory)
			admin.PUT("/categories/:id", middleware.UUIDValidator("id"), h.Category.UpdateCategory)
			admin.DELETE("/categories/:id", middleware.UUIDValidator("id"), h.Category.DeleteCategory)
		}
	}

	return r
}
