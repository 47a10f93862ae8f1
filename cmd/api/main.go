package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"textok/internal/config"
	"textok/internal/database"
	"textok/internal/database/migration"
	handlers "textok/internal/http/handler"
	"textok/internal/http/middleware"
	"textok/internal/logger"
	"textok/internal/mail"
	"textok/internal/otel"
	"textok/internal/repository/postgres"
	"textok/internal/repository/redisstore"
	"textok/internal/security/oauth"
	"textok/internal/security/token"
	"textok/internal/service"
	"textok/internal/storage"
)

const (
	shutdownTimeout = 10 * time.Second
	startupTimeout  = 30 * time.Second
)

// @title textok API
// @version 1.0
// @description Accounts, sessions, profiles and comments.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.New(os.Stdout, cfg.LogLevel, cfg.Location())

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	// S3-compatible object storage for profile images (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}
	if err := objStore.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("bucket", cfg.MinIO.Bucket).Msg("object_storage_unreachable")
	}

	tokens, err := token.NewProvider(cfg.JWT)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid jwt configuration")
	}

	// Repositories
	userRepo := postgres.NewUserPostgres(db)
	commentRepo := postgres.NewCommentPostgres(db)
	refreshStore := redisstore.NewRefreshTokenRedis(rdb)
	verificationStore := redisstore.NewVerificationRedis(rdb)

	// Services
	images := service.NewProfileImageService(objStore, storage.NewPublicURLs(cfg.MinIO.PublicBaseURL))
	sessions := service.NewSessionService(tokens, refreshStore, userRepo)
	verification := service.NewVerificationService(verificationStore, mail.NewSMTPSender(cfg.Mail))
	authSvc := service.NewAuthService(userRepo, sessions, verification, tokens, images)
	userSvc := service.NewUserService(userRepo, images, log)
	commentSvc := service.NewCommentService(commentRepo)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	cookies := middleware.NewCookies(cfg.Cookie)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(log),
		BodyLimit:    10 * 1024 * 1024,
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())
	app.Use(middleware.CORS(cfg.CORS))
	access := middleware.DefaultAccessPolicy()
	app.Use(middleware.JWTAuth(tokens, sessions, cookies, access, log))
	app.Use(middleware.RequireAuth(access))

	deps := handlers.Deps{
		DB:           db,
		Redis:        rdb,
		Auth:         authSvc,
		Users:        userSvc,
		Comments:     commentSvc,
		Sessions:     sessions,
		Verification: verification,
		Tokens:       tokens,
		Cookies:      cookies,
		OAuth2Config: cfg.OAuth2,
		SecureCookie: cfg.Cookie.Secure,
		PublicHost:   cfg.AppHost,
		Metrics:      reg,
		Log:          log,
	}
	if cfg.OAuth2.Enabled() {
		deps.OAuth2 = oauth.NewProvider(cfg.OAuth2)
	} else {
		log.Info().Msg("oauth2_login_disabled")
	}
	handlers.RegisterRoutes(app, deps)

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Msg("server_starting")
		if err := app.Listen(addr); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("server_shutting_down")

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error().Err(err).Msg("server_shutdown_failed")
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer flushCancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Error().Err(err).Msg("tracing_shutdown_failed")
	}
}
