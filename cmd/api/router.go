package api

import (
	"net/http"

	"codetrack-backend/internal/auth/delivery"
	authUsecase "codetrack-backend/internal/auth/usecase"
	syncDelivery "codetrack-backend/internal/sync/delivery"
	taskDelivery "codetrack-backend/internal/task/delivery"
	taskUsecasePkg "codetrack-backend/internal/task/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, taskUc taskUsecasePkg.TaskUsecase, syncHandler *syncDelivery.SyncHandler, leetcodeHandler *syncDelivery.LeetCodeHandler) {
	authHandler := delivery.NewAuthHandler(authUc)
	taskHandler := taskDelivery.NewTaskHandler(taskUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/github", authHandler.GithubSignIn)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUc), authHandler.Me)
		}

		// Practice log routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(delivery.AuthMiddleware(authUc))
		{
			tasks.GET("", taskHandler.GetTasks)
			tasks.POST("", taskHandler.AddTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.DELETE("", taskHandler.ClearTasks)
		}

		// Goal and stats routes (protected)
		month := api.Group("/month")
		month.Use(delivery.AuthMiddleware(authUc))
		{
			month.GET("/goal/:year/:month", taskHandler.GetMonthGoal)
			month.POST("/goal", taskHandler.SetMonthGoal)
			month.GET("/stats/:year/:month", taskHandler.GetMonthStats)
		}

		stats := api.Group("/stats")
		stats.Use(delivery.AuthMiddleware(authUc))
		{
			stats.GET("/daily", taskHandler.GetDailyStats)
		}

		// Sync routes (protected)
		syncRoutes := api.Group("/sync")
		syncRoutes.Use(delivery.AuthMiddleware(authUc))
		{
			syncRoutes.PUT("/leetcode-username", syncHandler.SetLeetCodeUsername)
			syncRoutes.POST("/from-leetcode", syncHandler.TriggerSync)
			syncRoutes.GET("/status", syncHandler.GetStatus)
			syncRoutes.GET("/jobs/:id", syncHandler.GetJob)
		}

		// LeetCode passthrough routes (protected)
		lc := api.Group("/leetcode")
		lc.Use(delivery.AuthMiddleware(authUc))
		{
			lc.GET("/daily-problem", leetcodeHandler.GetDailyProblem)
			lc.GET("/:username/profile", leetcodeHandler.GetProfile)
			lc.GET("/:username/solved", leetcodeHandler.GetSolved)
			lc.GET("/:username/calendar", leetcodeHandler.GetCalendar)
		}
	}
}
