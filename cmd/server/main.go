package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/skillbridge/backend/internal/config"
	"github.com/skillbridge/backend/internal/db"
	"github.com/skillbridge/backend/internal/email"
	httpHandlers "github.com/skillbridge/backend/internal/http/handlers"
	httpRouter "github.com/skillbridge/backend/internal/http/router"
	"github.com/skillbridge/backend/internal/logger"
	"github.com/skillbridge/backend/internal/pdf"
	"github.com/skillbridge/backend/internal/repository"
	"github.com/skillbridge/backend/internal/service"
	"github.com/skillbridge/backend/internal/storage"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Почта отключается, если SMTP не настроен.
	var mailer service.EmailSender
	if m := email.NewMailer(cfg); m != nil {
		mailer = m
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	categoryRepo := repository.NewCategoryRepository(dbConn)
	serviceRepo := repository.NewServiceRepository(dbConn)
	orderRepo := repository.NewOrderRepository(dbConn)
	messageRepo := repository.NewMessageRepository(dbConn)
	contractRepo := repository.NewContractRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)
	favoriteRepo := repository.NewFavoriteRepository(dbConn)
	communityRepo := repository.NewCommunityRepository(dbConn)
	portfolioRepo := repository.NewPortfolioRepository(dbConn)
	statsRepo := repository.NewStatsRepository(dbConn)

	// Сервисы.
	notificationService := service.NewNotificationService(notificationRepo)
	authService := service.NewAuthService(userRepo, tokenManager)
	userService := service.NewUserService(userRepo)
	catalogService := service.NewCatalogService(serviceRepo, reviewRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	searchService := service.NewSearchService(serviceRepo, categoryRepo)
	orderService := service.NewOrderService(orderRepo, serviceRepo, userRepo, notificationService, mailer)
	chatService := service.NewChatService(messageRepo, orderRepo, notificationService)
	contractService := service.NewContractService(contractRepo, orderRepo, serviceRepo, userRepo, notificationService, mailer)
	reviewService := service.NewReviewService(reviewRepo, serviceRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo, serviceRepo)
	communityService := service.NewCommunityService(communityRepo)
	portfolioService := service.NewPortfolioService(portfolioRepo)
	adminService := service.NewAdminService(userRepo, orderRepo, statsRepo)

	// HTTP хэндлеры.
	h := httpRouter.Handlers{
		Auth:         httpHandlers.NewAuthHandler(authService),
		Profile:      httpHandlers.NewProfileHandler(userService),
		Service:      httpHandlers.NewServiceHandler(catalogService),
		Search:       httpHandlers.NewSearchHandler(searchService),
		Category:     httpHandlers.NewCategoryHandler(categoryService),
		Order:        httpHandlers.NewOrderHandler(orderService),
		Chat:         httpHandlers.NewChatHandler(chatService),
		Contract:     httpHandlers.NewContractHandler(contractService, orderRepo, userRepo, pdf.NewContractExporter()),
		Review:       httpHandlers.NewReviewHandler(reviewService),
		Favorite:     httpHandlers.NewFavoriteHandler(favoriteService),
		Portfolio:    httpHandlers.NewPortfolioHandler(portfolioService),
		Notification: httpHandlers.NewNotificationHandler(notificationService),
		Community:    httpHandlers.NewCommunityHandler(communityService),
		Admin:        httpHandlers.NewAdminHandler(adminService),
		Media:        httpHandlers.NewMediaHandler(photoStorage),
		Health:       httpHandlers.NewHealthHandler(dbConn),
	}

	engine := httpRouter.SetupRouter(cfg, h, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
