package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"codetrack-backend/internal/sync/usecase"

	"github.com/gin-gonic/gin"
)

const maxOnDemandLimit = 100

// SyncHandler handles LeetCode synchronization HTTP requests
type SyncHandler struct {
	syncUsecase usecase.SyncUsecase
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(syncUsecase usecase.SyncUsecase) *SyncHandler {
	return &SyncHandler{
		syncUsecase: syncUsecase,
	}
}

// SetUsernameRequest represents the request body for registering a handle.
// An empty username clears the handle and revokes sync eligibility.
type SetUsernameRequest struct {
	LeetCodeUsername string `json:"leetcode_username"`
}

// SetLeetCodeUsername handles PUT /api/sync/leetcode-username
func (h *SyncHandler) SetLeetCodeUsername(c *gin.Context) {
	userID := c.GetString("userID")

	var req SetUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.syncUsecase.SetLeetCodeUsername(c.Request.Context(), userID, req.LeetCodeUsername)
	if err != nil {
		if errors.Is(err, usecase.ErrLeetCodeUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "LeetCode user '" + req.LeetCodeUsername + "' not found"})
			return
		}
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "LeetCode username updated successfully",
		"leetcode_username": user.LeetCodeUsername,
	})
}

// TriggerSync handles POST /api/sync/from-leetcode?limit=100
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	userID := c.GetString("userID")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > maxOnDemandLimit {
		limit = maxOnDemandLimit
	}

	job, err := h.syncUsecase.TriggerSync(userID, limit)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if errors.Is(err, usecase.ErrNoLeetCodeUsername) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "LeetCode username not set. Please set it first using PUT /api/sync/leetcode-username",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Sync started in background",
		"sync_id": job.ID,
		"limit":   limit,
	})
}

// GetStatus handles GET /api/sync/status
func (h *SyncHandler) GetStatus(c *gin.Context) {
	userID := c.GetString("userID")

	status, err := h.syncUsecase.GetStatus(userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetJob handles GET /api/sync/jobs/:id
func (h *SyncHandler) GetJob(c *gin.Context) {
	userID := c.GetString("userID")
	jobID := c.Param("id")

	job, err := h.syncUsecase.GetJob(userID, jobID)
	if err != nil {
		if errors.Is(err, usecase.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "sync job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, job)
}
