package container

import (
	"context"
	"fmt"
	"time"

	"inkdrop-backend/internal/config"
	infraCache "inkdrop-backend/internal/infrastructure/cache"
	"inkdrop-backend/internal/infrastructure/database"
	"inkdrop-backend/internal/infrastructure/queue"
	"inkdrop-backend/internal/infrastructure/storage"
	"inkdrop-backend/pkg/cache"
	"inkdrop-backend/pkg/jwt"

	"inkdrop-backend/internal/domains/asset"
	bookHandler "inkdrop-backend/internal/domains/book/handler"
	bookRepo "inkdrop-backend/internal/domains/book/repository"
	bookService "inkdrop-backend/internal/domains/book/service"
	categoryHandler "inkdrop-backend/internal/domains/category/handler"
	categoryRepo "inkdrop-backend/internal/domains/category/repository"
	categoryService "inkdrop-backend/internal/domains/category/service"
	"inkdrop-backend/internal/domains/cleanup"
	dashboardHandler "inkdrop-backend/internal/domains/dashboard/handler"
	dashboardService "inkdrop-backend/internal/domains/dashboard/service"
	downloadHandler "inkdrop-backend/internal/domains/download/handler"
	downloadRepo "inkdrop-backend/internal/domains/download/repository"
	downloadService "inkdrop-backend/internal/domains/download/service"
	"inkdrop-backend/internal/domains/migration"
	notificationHandler "inkdrop-backend/internal/domains/notification/handler"
	notificationRepo "inkdrop-backend/internal/domains/notification/repository"
	notificationService "inkdrop-backend/internal/domains/notification/service"
	requestHandler "inkdrop-backend/internal/domains/request/handler"
	requestRepo "inkdrop-backend/internal/domains/request/repository"
	requestService "inkdrop-backend/internal/domains/request/service"
	userHandler "inkdrop-backend/internal/domains/user/handler"
	userRepo "inkdrop-backend/internal/domains/user/repository"
	userService "inkdrop-backend/internal/domains/user/service"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every long-lived dependency of a process.
// Shared clients are created once at startup and reused by all requests.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	Metrics     *prometheus.Registry
	Storage     *storage.Resolver
	AsynqClient *asynq.Client
	Queue       queue.Enqueuer

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	UserRepo     userRepo.RepositoryInterface
	CategoryRepo categoryRepo.RepositoryInterface
	BookRepo     bookRepo.RepositoryInterface
	DownloadRepo downloadRepo.RepositoryInterface
	RequestRepo  requestRepo.RepositoryInterface

	NotificationRepo notificationRepo.RepositoryInterface

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService      userService.ServiceInterface
	CategoryService  categoryService.ServiceInterface
	BookService      *bookService.BookService
	DownloadService  downloadService.ServiceInterface
	RequestService   requestService.ServiceInterface

	NotificationService notificationService.ServiceInterface
	DashboardService dashboardService.ServiceInterface
	Cleanup          *cleanup.Coordinator
	Migration        *migration.Service
	AssetValidator   *asset.Validator

	// ========================================
	// HANDLER LAYER
	// ========================================
	UserHandler      *userHandler.UserHandler
	CategoryHandler  *categoryHandler.CategoryHandler
	BookHandler      *bookHandler.BookHandler
	DownloadHandler  *downloadHandler.DownloadHandler
	RequestHandler   *requestHandler.RequestHandler
	DashboardHandler *dashboardHandler.DashboardHandler

	NotificationHandler *notificationHandler.NotificationHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the dependency graph in order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Info().Msg("Initializing DI container")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("env", cfg.App.Environment).Msg("Config loaded")

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 3: INITIALIZE CACHE AND QUEUE
	// ========================================
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		// Redis failure is not critical: cache misses fall through to postgres
		log.Warn().Err(err).Msg("Redis connection failed (non-critical)")
	}
	c.Cache = redisCache

	c.AsynqClient = asynq.NewClient(RedisClientOpt(cfg.Redis))
	c.Queue = queue.NewAsynqEnqueuer(c.AsynqClient)

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// ========================================
	// STEP 4: INITIALIZE STORAGE
	// ========================================
	if err := c.initStorage(ctx); err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	// ========================================
	// STEP 5: REPOSITORIES, SERVICES, HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("DI container initialized")
	return c, nil
}

// RedisClientOpt maps the redis config onto asynq's connection options.
func RedisClientOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Host,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initStorage(ctx context.Context) error {
	c.Metrics = prometheus.NewRegistry()
	c.Metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics, err := storage.NewMetrics(c.Metrics)
	if err != nil {
		return err
	}

	resolver, err := storage.NewResolverFromConfig(ctx, c.Config.Storage, storage.WithMetrics(metrics))
	if err != nil {
		return err
	}
	c.Storage = resolver
	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.CategoryRepo = categoryRepo.NewPostgresRepository(pool)
	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.DownloadRepo = downloadRepo.NewPostgresRepository(pool)
	c.RequestRepo = requestRepo.NewPostgresRepository(pool)
	c.NotificationRepo = notificationRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, 0)
	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo, c.Cache)

	// Book removal goes through the cleanup coordinator so remote assets and
	// downloads are removed before the row.
	c.Cleanup = cleanup.NewCoordinator(c.Storage, c.DownloadRepo, c.BookRepo, c.Queue)
	c.BookService = bookService.NewService(
		c.BookRepo,
		c.Storage,
		c.CategoryService,
		c.Cleanup,
		c.Queue,
		c.Cache,
	)

	c.DownloadService = downloadService.NewDownloadService(c.DownloadRepo, c.BookService)
	c.NotificationService = notificationService.NewNotificationService(c.NotificationRepo)
	c.RequestService = requestService.NewRequestService(c.RequestRepo, c.BookService, c.NotificationService)
	c.DashboardService = dashboardService.NewDashboardService(c.BookRepo, c.UserRepo, c.DownloadRepo, c.RequestRepo, c.NotificationRepo)
	c.Migration = migration.NewService(c.BookRepo, c.BookService, c.Storage)
	c.AssetValidator = asset.NewValidator(c.Config.Storage.MaxUploadBytes)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService, c.AssetValidator)
	c.DownloadHandler = downloadHandler.NewDownloadHandler(c.DownloadService)
	c.RequestHandler = requestHandler.NewRequestHandler(c.RequestService)
	c.DashboardHandler = dashboardHandler.NewDashboardHandler(c.DashboardService)
	c.NotificationHandler = notificationHandler.NewNotificationHandler(c.NotificationService)
}

// Close releases connections; call it on shutdown.
func (c *Container) Close() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
	}

	if c.DB != nil {
		_ = c.DB.Close()
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}
}
