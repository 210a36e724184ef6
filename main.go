package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	api "codetrack-backend/cmd/api"
	authdomain "codetrack-backend/internal/auth/domain"
	authRepo "codetrack-backend/internal/auth/repository"
	authUsecase "codetrack-backend/internal/auth/usecase"
	syncScheduler "codetrack-backend/internal/sync/scheduler"
	syncUsecase "codetrack-backend/internal/sync/usecase"
	taskdomain "codetrack-backend/internal/task/domain"
	taskRepo "codetrack-backend/internal/task/repository"
	taskUsecase "codetrack-backend/internal/task/usecase"
	"codetrack-backend/pkg/config"
	"codetrack-backend/pkg/database"
	"codetrack-backend/pkg/leetcode"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &taskdomain.SolvedTask{}, &taskdomain.MonthGoal{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	taskRepository := taskRepo.NewGormTaskRepository(db)
	goalRepository := taskRepo.NewGormMonthGoalRepository(db)

	// One LeetCode client instance is shared by all sync activity
	lcClient := leetcode.NewClient(cfg.LeetCodeTimeout)
	defer lcClient.Close()

	// Initialize use cases
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepository, cfg)
	taskUsecaseInstance := taskUsecase.NewTaskUsecase(taskRepository, goalRepository)
	syncUsecaseInstance := syncUsecase.NewSyncUsecase(userRepository, taskRepository, lcClient)

	// Start the background sync scheduler
	scheduler := syncScheduler.NewSyncScheduler(userRepository, syncUsecaseInstance, cfg.SyncInterval, cfg.SyncFetchLimit)
	if cfg.SyncEnabled {
		scheduler.Start()
	} else {
		log.Println("[Main] LeetCode auto-sync is disabled in settings")
	}

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, taskUsecaseInstance, syncUsecaseInstance, lcClient, cfg)

	// Serve in the background so shutdown signals can stop the scheduler cleanly
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := handler.Start(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Main] Shutting down...")
	scheduler.Stop()
}
