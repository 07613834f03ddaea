package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "vehicle-request-api/api/swagger" // swagger docs
	"vehicle-request-api/internal/config"
	"vehicle-request-api/internal/database"
	"vehicle-request-api/internal/handler"
	"vehicle-request-api/internal/logger"
	"vehicle-request-api/internal/notification"
	"vehicle-request-api/internal/repository"
	"vehicle-request-api/internal/service"
	"vehicle-request-api/internal/websocket"

	"github.com/gin-contrib/cors"
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Vehicle Request API
// @version         1.0
// @description     Vehicle request submission with a multi-level approval chain.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, envFiles := config.Load()

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Pretty:  cfg.GinMode != gin.ReleaseMode,
		Service: "vehicle-request-api",
	})
	if len(envFiles) == 0 {
		log.Info().Msg("no .env file found, using process environment")
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	secret := cfg.GetJWTSecret()

	db, err := database.NewConnection(cfg.Database, logger.Gorm(log), log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("database connection failed")
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("connected to database")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	requestRepo := repository.NewVehicleRequestRepository(db)
	counterRepo := repository.NewTicketCounterRepository(db)
	subscriberRepo := repository.NewTelegramSubscriberRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	statisticsRepo := repository.NewStatisticsRepository(db)
	txManager := repository.NewTransactionManager(db)

	// Outbound channels. Both are optional.
	var (
		channel      notification.Channel
		webhookAdmin handler.WebhookAdmin
	)
	if cfg.TelegramBotToken == "" {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN not set, chat notifications disabled")
	} else if tg, err := notification.NewTelegramChannel(cfg.TelegramBotToken); err != nil {
		log.Warn().Err(err).Msg("telegram bot unavailable, chat notifications disabled")
	} else {
		log.Info().Str("bot", tg.Username()).Msg("telegram bot ready")
		channel, webhookAdmin = tg, tg
	}

	wsHub := websocket.NewHub(log)
	go wsHub.Run(ctx)

	sinks := []notification.EventSink{wsHub}
	if cfg.NATSURL != "" {
		natsSink, err := notification.NewNATSSink(cfg.NATSURL)
		if err != nil {
			log.Warn().Err(err).Str("url", cfg.NATSURL).Msg("nats unavailable, events stay local")
		} else {
			defer natsSink.Close()
			sinks = append(sinks, natsSink)
		}
	}

	directory := service.NewDirectoryService(userRepo, subscriberRepo, departmentRepo)
	dispatcher := notification.NewDispatcher(directory, channel, log, sinks...)

	// Services
	tickets := service.NewTicketNumberer(requestRepo, counterRepo, cfg.TicketPrefix)
	requestService := service.NewVehicleRequestService(requestRepo, departmentRepo, auditRepo, txManager, tickets, dispatcher, log)
	userService := service.NewUserService(userRepo, secret, log)
	accountService := service.NewAccountService(userRepo, departmentRepo, log)
	departmentService := service.NewDepartmentService(departmentRepo)
	auditService := service.NewAuditService(auditRepo)
	statisticsService := service.NewStatisticsService(statisticsRepo)
	botService := service.NewTelegramBotService(subscriberRepo, requestRepo, channel, log)

	if err := userService.EnsureAdmin(ctx, service.AdminSeed{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		Email:    cfg.AdminEmail,
	}); err != nil {
		log.Warn().Err(err).Msg("failed to seed admin account")
	}

	// Handlers
	requestHandler := handler.NewVehicleRequestHandler(requestService, secret)
	userHandler := handler.NewUserHandler(userService, secret)
	accountHandler := handler.NewAccountHandler(accountService, secret)
	departmentHandler := handler.NewDepartmentHandler(departmentService)
	auditHandler := handler.NewAuditHandler(auditService, secret)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService, secret)
	telegramHandler := handler.NewTelegramHandler(botService, webhookAdmin, secret, log)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginlog.SetLogger(
		ginlog.WithLogger(func(_ *gin.Context, _ zerolog.Logger) zerolog.Logger {
			return log.With().Str("component", "http").Logger()
		}),
		ginlog.WithSkipPath([]string{"/health"}),
	))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "ws_clients": wsHub.ClientCount()})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, secret)
	})

	requestHandler.RegisterRoutes(router.Group(""))
	userHandler.RegisterRoutes(router.Group(""))
	accountHandler.RegisterRoutes(router.Group(""))
	departmentHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))
	statisticsHandler.RegisterRoutes(router.Group(""))
	telegramHandler.RegisterRoutes(router.Group(""))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}
