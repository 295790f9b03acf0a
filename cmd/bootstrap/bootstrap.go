package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"novacare-booking/config"
	deliveryHttp "novacare-booking/internal/delivery/http"
	"novacare-booking/internal/delivery/http/handler"
	"novacare-booking/internal/delivery/http/middleware"
	"novacare-booking/internal/infrastructure/cache"
	"novacare-booking/internal/infrastructure/database"
	"novacare-booking/internal/repository"
	"novacare-booking/internal/service"
	"novacare-booking/internal/usecase"
	"novacare-booking/pkg/jwt"
	"novacare-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// NewLogger configures the process logger. Development gets debug output.
func NewLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)
	if cfg.App.IsDevelopment() {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// New creates a new App instance with all dependencies initialized
func New(cfg *config.Config, log *logrus.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(cfg.DB, database.MigrateUp, log); err != nil {
			return nil, err
		}
	}

	// Initialize database
	db, err := database.NewPostgresConnection(*cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize all layers
	app.Server = initializeServer(cfg, log, db, redisClient)

	return app, nil
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	doctorRepo := repository.NewDoctorRepository()
	hoursRepo := repository.NewWorkingHoursRepository()
	feeRepo := repository.NewConsultationFeeRepository()
	bookingRepo := repository.NewBookingRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	slotGenerator := service.NewSlotGenerator(cfg.Clinic)
	slotCache := newSlotCache(cfg.Redis, log, redisClient)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, roleRepo, doctorRepo, auditService, jwtService, redisClient)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorRepo, hoursRepo, feeRepo, auditService)
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, doctorRepo, hoursRepo, bookingRepo, slotGenerator, slotCache)
	bookingUsecase := usecase.NewBookingUsecase(db, log, cfg.Booking, bookingRepo, doctorRepo, hoursRepo, slotGenerator, slotCache, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	clinicHandler := handler.NewClinicHandler(cfg.Clinic)
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityUsecase, customValidator)
	bookingHandler := handler.NewBookingHandler(bookingUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.CORS)

	// Initialize router
	router := deliveryHttp.NewRouter(
		clinicHandler,
		authHandler,
		doctorHandler,
		availabilityHandler,
		bookingHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
	)

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// newSlotCache picks the booked-slot cache. Availability never depends on
// Redis being up, so a failed ping just disables caching.
func newSlotCache(cfg config.RedisConfig, log *logrus.Logger, redisClient *redis.Client) service.BookedSlotCache {
	if !cfg.CacheEnabled {
		log.Info("Booked-slot cache disabled")
		return service.NopSlotCache{}
	}

	slotCache := service.NewRedisSlotCache(redisClient, log, cfg.SlotCacheTTL)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := slotCache.Ping(ctx); err != nil {
		log.Warnf("Booked-slot cache unavailable, continuing without it: %+v", err)
		return service.NopSlotCache{}
	}
	return slotCache
}

// NewStaffUsecase wires just enough of the app to provision staff logins
// from the command line. Session handling is unused there.
func NewStaffUsecase(cfg *config.Config, log *logrus.Logger) (usecase.AuthUsecase, func(), error) {
	db, err := database.NewPostgresConnection(*cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	auditService := service.NewAuditService(log, repository.NewAuditLogRepository())
	authUsecase := usecase.NewAuthUsecase(
		db,
		log,
		repository.NewUserRepository(),
		repository.NewRoleRepository(),
		repository.NewDoctorRepository(),
		auditService,
		nil,
		nil,
	)

	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return authUsecase, closeDB, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() error {
	serverErr := make(chan error, 1)

	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	return app.waitForShutdown(serverErr)
}

// waitForShutdown blocks until an interrupt signal is received or the
// listener fails
func (app *App) waitForShutdown(serverErr <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		app.Close()
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
	return nil
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
