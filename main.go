package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"applypilot/config"
	"applypilot/controllers"
	"applypilot/database"
	"applypilot/middleware"
	"applypilot/models"
	"applypilot/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.GetAppConfig()

	db, err := database.Connect(
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.DBName, cfg.Database.SSLMode,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatalf("Failed to prepare database schema: %v", err)
	}

	// Models
	userModel := models.NewUserModel(db)
	jobModel := models.NewJobListingModel(db)
	appModel := models.NewApplicationModel(db)
	auditModel := models.NewAuditLogModel(db)

	// Services
	jwtService := services.NewJWTService(cfg.JWTSecret)
	llmService := services.NewLLMService()

	var answers services.AnswerClient
	if llmService.Available() {
		answers = llmService
	} else {
		log.Println("GEMINI_API_KEY not set, answering form questions from profile heuristics")
	}

	screenshotService := services.NewScreenshotService(cfg.ScreenshotDir)
	automationService := services.NewAutomationService(answers, screenshotService)
	defer automationService.Close()

	scraperService := services.NewJobScraperService(automationService, llmService, jobModel)
	matchingService := services.NewMatchingService(llmService, userModel, jobModel)
	applicationService := services.NewApplicationService(
		automationService, llmService,
		userModel, jobModel, appModel, auditModel,
		"./resumes", cfg.MaxRetries,
	)

	// Controllers
	authController := controllers.NewAuthController(userModel, jwtService)
	userController := controllers.NewUserController(userModel, "./uploads/resumes")
	jobController := controllers.NewJobController(jobModel, userModel, scraperService, matchingService)
	applicationController := controllers.NewApplicationController(appModel, auditModel, applicationService)

	limiters := middleware.CreateRateLimiters()
	caches := middleware.CreateCaches()

	r := gin.Default()
	r.Use(cors.Default())
	r.Use(middleware.MaxRequestSize(10 << 20))
	r.Use(middleware.ValidateContentType("application/json", "multipart/form-data"))

	r.Static("/screenshots", cfg.ScreenshotDir)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := r.Group("/api/auth")
	auth.Use(limiters["auth"].Limit())
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	api := r.Group("/api")
	api.Use(limiters["general"].Limit())
	api.Use(middleware.RequireAuth(jwtService))
	{
		api.GET("/user/profile", userController.GetProfile)
		api.PUT("/user/profile", userController.UpdateProfile)
		api.POST("/user/resume", userController.UploadResume)

		api.GET("/jobs", jobController.List)
		api.GET("/jobs/:id", jobController.Get)
		api.POST("/jobs/scrape", limiters["automation"].Limit(), jobController.Scrape)
		api.POST("/jobs/match", caches["match"].Cache(), jobController.Match)

		api.POST("/applications", limiters["automation"].Limit(), applicationController.Create)
		api.GET("/applications", applicationController.List)
		api.GET("/applications/:id", applicationController.Get)
		api.GET("/applications/:id/history", applicationController.History)
		api.POST("/applications/:id/retry", limiters["automation"].Limit(), applicationController.Retry)
	}

	log.Printf("Starting server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
