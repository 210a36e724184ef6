package api

import (
	authUsecase "codetrack-backend/internal/auth/usecase"
	syncDelivery "codetrack-backend/internal/sync/delivery"
	syncUsecasePkg "codetrack-backend/internal/sync/usecase"
	taskUsecasePkg "codetrack-backend/internal/task/usecase"
	"codetrack-backend/pkg/config"
	"codetrack-backend/pkg/leetcode"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase authUsecase.AuthUsecase
	taskUsecase taskUsecasePkg.TaskUsecase
	syncUsecase syncUsecasePkg.SyncUsecase
	lcClient    *leetcode.Client
	config      *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, taskUc taskUsecasePkg.TaskUsecase, syncUc syncUsecasePkg.SyncUsecase, lcClient *leetcode.Client, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase: authUc,
		taskUsecase: taskUc,
		syncUsecase: syncUc,
		lcClient:    lcClient,
		config:      cfg,
	}
}

// Start builds the gin engine, registers all routes and serves on addr.
func (h *Handler) Start(addr string) error {
	r := gin.Default()

	syncHandler := syncDelivery.NewSyncHandler(h.syncUsecase)
	leetcodeHandler := syncDelivery.NewLeetCodeHandler(h.lcClient)

	SetupRoutes(r, h.authUsecase, h.taskUsecase, syncHandler, leetcodeHandler)

	return r.Run(addr)
}
