package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mansoorceksport/ironlog/internal/config"
	"github.com/mansoorceksport/ironlog/internal/domain"
	"github.com/mansoorceksport/ironlog/internal/handler"
	"github.com/mansoorceksport/ironlog/internal/middleware"
	"github.com/mansoorceksport/ironlog/internal/repository"
	"github.com/mansoorceksport/ironlog/internal/service"
	"github.com/mansoorceksport/ironlog/internal/telemetry"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

const idempotencyTTL = 24 * time.Hour

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client // optional; nil disables caching and idempotency
	AuthClient  service.FirebaseAuthClient
	ImageStore  domain.ImageStore // optional; nil rejects image uploads
	Metrics     *telemetry.Metrics
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	cfg := deps.Config

	// Initialize repositories
	userRepo := repository.NewMongoUserRepository(deps.MongoDB)
	exerciseRepo := repository.NewMongoExerciseRepository(deps.MongoDB)
	planRepo := repository.NewMongoTrainingPlanRepository(deps.MongoDB)
	sessionRepo := repository.NewMongoWorkoutSessionRepository(deps.MongoDB)
	setRepo := repository.NewMongoWorkoutSetRepository(deps.MongoDB)
	intakeRepo := repository.NewMongoSupplementIntakeRepository(deps.MongoDB)

	var cache *service.QueryCache
	if deps.RedisClient != nil {
		cache = service.NewQueryCache(repository.NewRedisCacheRepository(deps.RedisClient), cfg.CacheTTL(), deps.Metrics)
	} else {
		log.Warn("redis not configured, query cache disabled")
	}

	calendar := service.NewCalendar(cfg.Location())

	// Initialize services
	tokenService := service.NewTokenService(cfg.JWT)
	authService := service.NewAuthService(userRepo, deps.AuthClient, tokenService, cfg.Auth.DevMode)
	exerciseService := service.NewExerciseService(exerciseRepo, planRepo, deps.ImageStore, cache, deps.Metrics, cfg.Server.MaxUploadSizeMB)
	planService := service.NewPlanService(planRepo, exerciseRepo, sessionRepo, setRepo, calendar, cache, deps.Metrics)
	workoutService := service.NewWorkoutService(sessionRepo, setRepo, exerciseRepo, planRepo, intakeRepo, calendar, cache, deps.Metrics)
	supplementService := service.NewSupplementService(intakeRepo, calendar, cache)
	statsService := service.NewStatsService(sessionRepo, setRepo, exerciseRepo, calendar, cache)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	exerciseHandler := handler.NewExerciseHandler(exerciseService, statsService)
	planHandler := handler.NewPlanHandler(planService, workoutService)
	workoutHandler := handler.NewWorkoutHandler(workoutService)
	statsHandler := handler.NewStatsHandler(statsService)
	supplementHandler := handler.NewSupplementHandler(supplementService)

	// Create Fiber app
	bodyLimit := cfg.Server.MaxUploadSizeMB
	if bodyLimit <= 0 {
		bodyLimit = 10
	}
	app := fiber.New(fiber.Config{
		AppName:      "ironlog API",
		BodyLimit:    int(bodyLimit*1024*1024) + 64*1024, // room for the other form fields
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods:  "GET, POST, PUT, DELETE, OPTIONS",
		ExposeHeaders: "X-Correlation-ID, X-Idempotent-Replay, X-Trace-ID",
	}))
	app.Use(telemetry.FiberMiddleware())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "ironlog",
		})
	})

	// API v1 routes
	v1 := app.Group("/v1")

	// Auth endpoints (public)
	auth := v1.Group("/auth")
	auth.Post("/login", authHandler.Login)

	// Everything else requires an access token
	requireToken := middleware.VerifyAccessToken(cfg.JWT.Secret)

	v1.Get("/muscle-groups", requireToken, exerciseHandler.ListMuscleGroups)

	exercises := v1.Group("/exercises", requireToken)
	exercises.Get("/", exerciseHandler.ListExercises)
	exercises.Post("/", exerciseHandler.CreateExercise)
	exercises.Get("/stats", exerciseHandler.ExerciseStats)
	exercises.Put("/:id", exerciseHandler.UpdateExercise)
	exercises.Delete("/:id", exerciseHandler.DeleteExercise)
	exercises.Get("/:id/progress", exerciseHandler.Progress)

	plans := v1.Group("/plans", requireToken)
	plans.Get("/", planHandler.ListPlans)
	plans.Post("/", planHandler.CreatePlan)
	plans.Get("/completed-today", planHandler.CompletedToday)
	plans.Put("/:id", planHandler.UpdatePlan)
	plans.Delete("/:id", planHandler.DeletePlan)
	plans.Post("/:id/toggle-today", planHandler.ToggleToday)
	plans.Get("/:id/start", planHandler.StartWorkout)

	sessions := v1.Group("/sessions", requireToken)
	sessions.Get("/", workoutHandler.DayView)
	sessions.Post("/", middleware.Idempotency(deps.RedisClient, idempotencyTTL), workoutHandler.LogSession)
	sessions.Delete("/:id", workoutHandler.DeleteSession)

	supplements := v1.Group("/supplements", requireToken)
	supplements.Post("/", middleware.Idempotency(deps.RedisClient, idempotencyTTL), supplementHandler.LogIntake)
	supplements.Delete("/:id", supplementHandler.DeleteIntake)

	v1.Get("/stats/overview", requireToken, statsHandler.Overview)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Path()).Error("unhandled error")
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
