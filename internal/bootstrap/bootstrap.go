package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/campushub/internal/app/controllers"
	appMigrations "github.com/yigit/campushub/internal/app/migrations"
	appRepos "github.com/yigit/campushub/internal/app/repositories"
	appRoutes "github.com/yigit/campushub/internal/app/routes"
	appServices "github.com/yigit/campushub/internal/app/services"
	"github.com/yigit/campushub/internal/config"
	"github.com/yigit/campushub/internal/db"
	appMiddleware "github.com/yigit/campushub/internal/middleware"
	pkgAuth "github.com/yigit/campushub/internal/pkg/auth"
	"github.com/yigit/campushub/internal/pkg/cache"
	"github.com/yigit/campushub/internal/pkg/helpers"
	"github.com/yigit/campushub/internal/pkg/logger"
	"github.com/yigit/campushub/internal/pkg/metrics"
	"github.com/yigit/campushub/internal/pkg/moderation"
	"github.com/yigit/campushub/internal/pkg/presence"
	"github.com/yigit/campushub/internal/pkg/validation"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	ChatService          appServices.ChatService
	ConversationService  appServices.ConversationService
	UserService          appServices.UserService
	DiscussionService    appServices.DiscussionService
	ResourceService      appServices.ResourceService
	SkillService         appServices.SkillService
	EventService         appServices.EventService
	QuizService          appServices.QuizService
	ProjectService       appServices.ProjectService
	StatsService         appServices.StatsService
	ChatController       *appControllers.ChatController
	UserController       *appControllers.UserController
	DiscussionController *appControllers.DiscussionController
	ResourceController   *appControllers.ResourceController
	SkillController      *appControllers.SkillController
	CampusController     *appControllers.CampusController
	ProjectController    *appControllers.ProjectController
	StatsController      *appControllers.StatsController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	Redis                *cache.Client // nil when redis is not configured
	Metrics              *metrics.Metrics
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ParseConfig(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return database, nil
}

// SetupRedis connects to redis when an address is configured. It returns nil
// without error otherwise.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) (*cache.Client, error) {
	if !cfg.RedisEnabled() {
		lgr.Info().Msg("Redis not configured; using postgres presence and no rate limiting")
		return nil, nil
	}
	client, err := cache.NewClient(cache.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, lgr)
	if err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to redis")
		return nil, err
	}
	return client, nil
}

// chatSettings converts the chat configuration
func chatSettings(cfg *config.Config) appServices.ChatSettings {
	defaults := appServices.DefaultChatSettings()
	return appServices.ChatSettings{
		MessageLimit: cfg.Chat.MessageLimit,
		OnlineWindow: helpers.ParseDuration(cfg.Chat.OnlineWindow, defaults.OnlineWindow),
		MaxPinned:    cfg.Chat.MaxPinned,
	}
}

// newTracker selects the presence backend
func newTracker(cfg *config.Config, database *db.PostgresDB, redis *cache.Client) presence.Tracker {
	persist := presence.NewPostgresTracker(database.Pool)
	if strings.EqualFold(cfg.Presence.Backend, "redis") && redis != nil {
		return presence.NewRedisTracker(redis.Redis(), persist)
	}
	return persist
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, redis *cache.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Repos:   appRepos.NewRepositories(database),
		Redis:   redis,
		Metrics: metrics.New(),
		Logger:  lgr,
	}

	if err := validation.Register(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	gate, err := moderation.NewTermFilter(moderation.FilterConfig{
		BlockedTerms: cfg.Moderation.BlockedTerms,
		MaxLength:    cfg.Moderation.MaxLength,
		CacheSize:    cfg.Moderation.CacheSize,
	}, lgr.With().Str("component", "moderation").Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize moderation: %w", err)
	}

	tracker := newTracker(cfg, database, redis)
	settings := chatSettings(cfg)
	clock := helpers.Clock(helpers.SystemClock)

	deps.ChatService = appServices.NewChatService(
		deps.Repos.UserRepository,
		deps.Repos.MessageRepository,
		gate,
		tracker,
		deps.Metrics,
		settings,
		clock,
		lgr.With().Str("service", "chat").Logger(),
	)
	deps.ConversationService = appServices.NewConversationService(
		deps.Repos.UserRepository,
		deps.Repos.MessageRepository,
		tracker,
		settings,
		clock,
		lgr.With().Str("service", "conversation").Logger(),
	)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, lgr.With().Str("service", "user").Logger())
	deps.DiscussionService = appServices.NewDiscussionService(
		deps.Repos.UserRepository,
		deps.Repos.DiscussionRepository,
		gate,
		deps.Metrics,
		lgr.With().Str("service", "discussion").Logger(),
	)
	deps.ResourceService = appServices.NewResourceService(
		deps.Repos.UserRepository,
		deps.Repos.ResourceRepository,
		gate,
		deps.Metrics,
		lgr.With().Str("service", "resource").Logger(),
	)
	deps.SkillService = appServices.NewSkillService(
		deps.Repos.UserRepository,
		deps.Repos.SkillRepository,
		gate,
		deps.Metrics,
		lgr.With().Str("service", "skill").Logger(),
	)
	deps.EventService = appServices.NewEventService(
		deps.Repos.UserRepository,
		deps.Repos.EventRepository,
		gate,
		deps.Metrics,
		lgr.With().Str("service", "event").Logger(),
	)
	deps.QuizService = appServices.NewQuizService(
		deps.Repos.UserRepository,
		deps.Repos.QuizRepository,
		gate,
		deps.Metrics,
		lgr.With().Str("service", "quiz").Logger(),
	)
	deps.ProjectService = appServices.NewProjectService(
		deps.Repos.UserRepository,
		deps.Repos.ProjectRepository,
		gate,
		deps.Metrics,
		lgr.With().Str("service", "project").Logger(),
	)

	health := map[string]appServices.Pinger{"database": database}
	if redis != nil {
		health["redis"] = redis
	}
	deps.StatsService = appServices.NewStatsService(
		deps.Repos.UserRepository,
		deps.Repos.MessageRepository,
		deps.Repos.DiscussionRepository,
		deps.Repos.ResourceRepository,
		deps.Repos.ProjectRepository,
		health,
		lgr,
	)

	var jwtService *pkgAuth.JWTService
	if cfg.Auth.Secret != "" {
		jwtService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
			SecretKey:   cfg.Auth.Secret,
			TokenIssuer: cfg.Auth.Issuer,
		})
	}
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(jwtService, cfg.Auth.RequireToken)

	deps.ChatController = appControllers.NewChatController(deps.ChatService, deps.ConversationService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.DiscussionController = appControllers.NewDiscussionController(deps.DiscussionService)
	deps.ResourceController = appControllers.NewResourceController(deps.ResourceService)
	deps.SkillController = appControllers.NewSkillController(deps.SkillService)
	deps.CampusController = appControllers.NewCampusController(deps.EventService, deps.QuizService)
	deps.ProjectController = appControllers.NewProjectController(deps.ProjectService)
	deps.StatsController = appControllers.NewStatsController(deps.StatsService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.Metrics(deps.Metrics),
	)

	appRoutes.SetupSwagger(router)
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	// a nil *cache.Client must not reach the limiter as a non-nil interface
	var limiter appMiddleware.RateLimiter
	if deps.Redis != nil {
		limiter = deps.Redis
	}
	writeLimiter := appMiddleware.RateLimit(limiter, cfg.RateLimit.WritesPerMinute, time.Minute)

	appRoutes.SetupRouter(router,
		deps.ChatController,
		deps.UserController,
		deps.DiscussionController,
		deps.ResourceController,
		deps.SkillController,
		deps.CampusController,
		deps.ProjectController,
		deps.StatsController,
		deps.AuthMiddleware,
		writeLimiter,
	)

	return router
}
