package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ksobremonte/sentiment-slice/internal/handler"
	"github.com/ksobremonte/sentiment-slice/internal/middleware"
	"github.com/ksobremonte/sentiment-slice/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	reviewHandler *handler.ReviewHandler,
	dashboardHandler *handler.DashboardHandler,
	authHandler *handler.AuthHandler,
	configHandler *handler.ConfigHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1")

	// Public review intake and listing
	reviews := api.Group("/reviews")
	reviews.POST("", reviewHandler.Submit)
	reviews.GET("", reviewHandler.ListPublic)

	// Public runtime configuration
	api.POST("/public/config", configHandler.PublicConfig)
	api.POST("/captcha/verify", configHandler.VerifyCaptcha)

	// Authentication endpoints (no auth required)
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/reset-password", authHandler.ResetPassword)
	auth.POST("/reset-password/confirm", authHandler.ConfirmReset)

	auth.POST("/signout", middleware.JWTAuth(jwtManager), authHandler.SignOut)
	auth.GET("/me", middleware.JWTAuth(jwtManager), authHandler.Me)

	// Operator dashboard (auth required)
	dash := api.Group("/dashboard", middleware.JWTAuth(jwtManager))
	{
		dash.GET("/reviews", dashboardHandler.List)
		dash.GET("/reviews/:id", dashboardHandler.Get)
		dash.POST("/reviews/:id/analyze", dashboardHandler.Analyze)
		dash.POST("/reviews/sort", dashboardHandler.Sort)
		dash.GET("/stats", dashboardHandler.Stats)

		// view-state machine for the dashboard screen
		dash.GET("/view", dashboardHandler.ViewState)
		dash.POST("/view/analyze/:id", dashboardHandler.ViewAnalyze)
		dash.POST("/view/stats/:kind", dashboardHandler.ViewStats)
		dash.POST("/view/back", dashboardHandler.ViewBack)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
