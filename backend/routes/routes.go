package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"

	"prashiskshan/backend/config"
	"prashiskshan/backend/controllers"
	"prashiskshan/backend/metrics"
	"prashiskshan/backend/middleware"
	"prashiskshan/backend/models"
	"prashiskshan/backend/services"
	"prashiskshan/backend/storage"
	"prashiskshan/backend/utils"
)

const (
	loginLimit  = 10
	loginWindow = time.Minute
)

// Options carries the optional collaborators of the router.
type Options struct {
	Limiter middleware.Limiter
	Storage storage.Uploader
	Metrics *metrics.Collector
}

// NewApp builds the fiber app with the error handler and the global middleware chain.
func NewApp(cfg *config.Config, logger *log.Logger, collector *metrics.Collector) *fiber.App {
	if logger == nil {
		logger = utils.InitLogger()
	}
	app := fiber.New(fiber.Config{
		AppName:      "Prashiskshan",
		ErrorHandler: utils.ErrorHandler(logger),
		BodyLimit:    cfg.RequestBodyLimit,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	// metrics wraps logging so it sees the rendered status
	app.Use(metrics.Middleware(collector))
	app.Use(middleware.LoggingMiddleware(logger))

	return app
}

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, opts Options) {
	svc := services.New(db, cfg)
	if opts.Limiter == nil {
		opts.Limiter = middleware.NewRateLimiter()
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/metrics", metrics.Handler(opts.Metrics))

	api := app.Group("/api")
	auth := middleware.AuthMiddleware(svc.Auth)
	student := middleware.Authorize(models.RoleStudent)
	admin := middleware.Authorize(models.RoleAdmin)
	poster := middleware.Authorize(models.RoleIndustry, models.RoleAdmin)
	reviewer := middleware.Authorize(models.RoleFaculty, models.RoleIndustry, models.RoleAdmin)
	verifier := middleware.Authorize(models.RoleFaculty, models.RoleAdmin)

	// Auth routes
	authController := controllers.NewAuthController(svc.Auth)
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authController.Register)
	authRoutes.Post("/login", middleware.RateLimit(opts.Limiter, middleware.ClientIP("login"), loginLimit, loginWindow), authController.Login)
	authRoutes.Get("/me", auth, authController.Me)
	authRoutes.Put("/profile", auth, authController.UpdateProfile)
	authRoutes.Post("/change-password", auth, authController.ChangePassword)

	// Internship routes
	internshipController := controllers.NewInternshipController(svc.Internships)
	internships := api.Group("/internships")
	internships.Get("/", internshipController.List)
	internships.Get("/data/categories", internshipController.Categories)
	internships.Get("/my/posted", auth, internshipController.MyPosted)
	internships.Get("/:id", internshipController.Get)
	internships.Post("/", auth, poster, internshipController.Create)
	internships.Put("/:id/verify", auth, admin, internshipController.Verify)
	internships.Put("/:id", auth, internshipController.Update)
	internships.Delete("/:id", auth, internshipController.Delete)

	// Application routes
	applicationController := controllers.NewApplicationController(svc.Applications, opts.Limiter)
	applications := api.Group("/applications", auth)
	applications.Post("/", student, applicationController.Apply)
	applications.Get("/my", student, applicationController.ListMine)
	applications.Get("/internship/:id", poster, applicationController.ListForInternship)
	applications.Get("/:id", applicationController.Get)
	applications.Put("/:id/status", poster, applicationController.UpdateStatus)
	applications.Put("/:id/withdraw", applicationController.Withdraw)
	applications.Put("/:id/interview", poster, applicationController.ScheduleInterview)
	applications.Post("/:id/notes", poster, applicationController.AddNote)

	// Logbook routes
	logbookController := controllers.NewLogbookController(svc.Logbooks)
	logbooks := api.Group("/logbooks", auth)
	logbooks.Post("/", student, logbookController.Create)
	logbooks.Get("/my", student, logbookController.ListMine)
	logbooks.Get("/internship/:id", reviewer, logbookController.ListForInternship)
	logbooks.Get("/:id", logbookController.Get)
	logbooks.Put("/:id/submit", student, logbookController.Submit)
	logbooks.Put("/:id/review", reviewer, logbookController.Review)
	logbooks.Put("/:id", student, logbookController.Update)

	// Credential routes; the public lookup is registered before the authenticated group
	credentialController := controllers.NewCredentialController(svc.Credentials)
	api.Get("/credentials/verify/:credentialId", credentialController.Lookup)
	credentials := api.Group("/credentials", auth)
	credentials.Post("/", poster, credentialController.Create)
	credentials.Get("/my", student, credentialController.ListMine)
	credentials.Get("/student/:id", reviewer, credentialController.ListForStudent)
	credentials.Get("/:id", credentialController.Get)
	credentials.Put("/:id/issue", poster, credentialController.Issue)
	credentials.Put("/:id/verify", verifier, credentialController.Verify)
	credentials.Put("/:id/revoke", admin, credentialController.Revoke)

	// Dashboard and uploads
	dashboardController := controllers.NewDashboardController(svc.Dashboard)
	api.Get("/dashboard/stats", auth, dashboardController.Stats)

	uploadController := controllers.NewUploadController(opts.Storage)
	api.Post("/uploads", auth, uploadController.Upload)
}
