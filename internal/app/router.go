package app

import (
	"mcq_platform_backend/docs"
	"mcq_platform_backend/internal/config"
	"mcq_platform_backend/internal/middleware"
	"mcq_platform_backend/internal/model"

	"mcq_platform_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)
	a.registerAttemptRoutes(router, c)
	a.registerTutorRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.GET("/tests", c.test.ListTestsPublic)
		public.GET("/tests/:id", c.test.GetTestPublic)
	}
}

// Attempt sessions carry no authentication. Students identify themselves by
// name when they submit, matching a walk-up testing station.
func (a *App) registerAttemptRoutes(router *gin.Engine, c *controllers) {
	api := router.Group("/api")
	{
		api.POST("/tests/:id/attempts", c.attempt.StartAttempt)

		attempts := api.Group("/attempts/:sessionId")
		{
			attempts.GET("", c.attempt.GetSession)
			attempts.PUT("/answers", c.attempt.RecordAnswer)
			attempts.POST("/next", c.attempt.NextQuestion)
			attempts.POST("/previous", c.attempt.PreviousQuestion)
			attempts.POST("/submit", c.attempt.Submit)
		}
	}
}

func (a *App) registerTutorRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	tutor := router.Group("/api/tutor")
	tutor.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Tutor))
	{
		tutor.GET("/profile", c.auth.GetProfile)

		tutor.POST("/tests", c.test.CreateTest)
		tutor.GET("/tests", c.test.ListTests)
		tutor.GET("/tests/:id", c.test.GetTest)
		tutor.PUT("/tests/:id", c.test.UpdateTest)
		tutor.DELETE("/tests/:id", c.test.DeleteTest)

		tutor.GET("/tests/:id/attempts", c.test.ListAttempts)
		tutor.GET("/attempts/:id", c.test.GetAttemptDetail)

		tutor.POST("/assets", c.asset.UploadAsset)
	}
}
