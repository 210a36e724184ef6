package delivery

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"codetrack-backend/internal/task/usecase"

	"github.com/gin-gonic/gin"
)

// TaskHandler handles practice-log HTTP requests
type TaskHandler struct {
	taskUsecase usecase.TaskUsecase
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskUsecase usecase.TaskUsecase) *TaskHandler {
	return &TaskHandler{
		taskUsecase: taskUsecase,
	}
}

// TaskRequest represents the request body for creating or updating a task
type TaskRequest struct {
	Title      string `json:"title"`
	Date       string `json:"date"` // YYYY-MM-DD
	Platform   string `json:"platform"`
	ProblemID  string `json:"problem_id"`
	Difficulty string `json:"difficulty"`
	TimeSpent  *int   `json:"time_spent"`
	Notes      string `json:"notes"`
}

func (r *TaskRequest) toInput() (*usecase.TaskInput, error) {
	input := &usecase.TaskInput{
		Platform:   r.Platform,
		ProblemID:  r.ProblemID,
		Title:      r.Title,
		Difficulty: r.Difficulty,
		TimeSpent:  r.TimeSpent,
		Notes:      r.Notes,
	}
	if r.Date != "" {
		date, err := time.ParseInLocation("2006-01-02", r.Date, time.UTC)
		if err != nil {
			return nil, errors.New("date must be in YYYY-MM-DD format")
		}
		input.Date = date
	}
	return input, nil
}

// AddTask handles POST /api/tasks
func (h *TaskHandler) AddTask(c *gin.Context) {
	userID := c.GetString("userID")

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.AddTask(userID, input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetTasks handles GET /api/tasks?from=&to=&platform=&limit=&offset=
func (h *TaskHandler) GetTasks(c *gin.Context) {
	userID := c.GetString("userID")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	platform := c.Query("platform")

	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be in YYYY-MM-DD format"})
			return
		}
		from = &parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be in YYYY-MM-DD format"})
			return
		}
		to = &parsed
	}

	tasks, total, err := h.taskUsecase.GetTasks(userID, from, to, platform, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"total": total,
	})
}

// UpdateTask handles PUT /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID := c.GetString("userID")
	taskID := c.Param("id")

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.UpdateTask(userID, taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID := c.GetString("userID")
	taskID := c.Param("id")

	if err := h.taskUsecase.DeleteTask(userID, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

// ClearTasks handles DELETE /api/tasks
func (h *TaskHandler) ClearTasks(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.taskUsecase.ClearTasks(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "all tasks deleted"})
}

// GetMonthGoal handles GET /api/month/goal/:year/:month
func (h *TaskHandler) GetMonthGoal(c *gin.Context) {
	userID := c.GetString("userID")

	year, month, ok := yearMonthParams(c)
	if !ok {
		return
	}

	goal, err := h.taskUsecase.GetMonthGoal(userID, year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, goal)
}

// SetMonthGoalRequest represents the request body for setting a month goal
type SetMonthGoalRequest struct {
	Year     int `json:"year" binding:"required"`
	Month    int `json:"month" binding:"required"`
	TargetXP int `json:"target_xp" binding:"required"`
}

// SetMonthGoal handles POST /api/month/goal
func (h *TaskHandler) SetMonthGoal(c *gin.Context) {
	userID := c.GetString("userID")

	var req SetMonthGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := h.taskUsecase.SetMonthGoal(userID, req.Year, req.Month, req.TargetXP)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, goal)
}

// GetMonthStats handles GET /api/month/stats/:year/:month
func (h *TaskHandler) GetMonthStats(c *gin.Context) {
	userID := c.GetString("userID")

	year, month, ok := yearMonthParams(c)
	if !ok {
		return
	}

	stats, err := h.taskUsecase.GetMonthStats(userID, year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetDailyStats handles GET /api/stats/daily?days=30
func (h *TaskHandler) GetDailyStats(c *gin.Context) {
	userID := c.GetString("userID")
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	stats, err := h.taskUsecase.GetDailyStats(userID, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func yearMonthParams(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return 0, 0, false
	}
	return year, month, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, usecase.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
