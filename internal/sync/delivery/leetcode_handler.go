package delivery

import (
	"net/http"
	"strconv"

	"codetrack-backend/pkg/leetcode"

	"github.com/gin-gonic/gin"
)

// LeetCodeHandler exposes read-only passthroughs to the LeetCode API
type LeetCodeHandler struct {
	client *leetcode.Client
}

// NewLeetCodeHandler creates a new LeetCodeHandler
func NewLeetCodeHandler(client *leetcode.Client) *LeetCodeHandler {
	return &LeetCodeHandler{
		client: client,
	}
}

// GetProfile handles GET /api/leetcode/:username/profile
func (h *LeetCodeHandler) GetProfile(c *gin.Context) {
	username := c.Param("username")

	profile, err := h.client.UserProfile(c.Request.Context(), username)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "LeetCode user not found"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetSolved handles GET /api/leetcode/:username/solved
func (h *LeetCodeHandler) GetSolved(c *gin.Context) {
	username := c.Param("username")

	stats, err := h.client.UserSolvedStats(c.Request.Context(), username)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetCalendar handles GET /api/leetcode/:username/calendar?year=2026
func (h *LeetCodeHandler) GetCalendar(c *gin.Context) {
	username := c.Param("username")
	year, _ := strconv.Atoi(c.Query("year"))

	calendar, err := h.client.UserCalendar(c.Request.Context(), username, year)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if calendar == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "LeetCode user not found"})
		return
	}

	c.JSON(http.StatusOK, calendar)
}

// GetDailyProblem handles GET /api/leetcode/daily-problem
func (h *LeetCodeHandler) GetDailyProblem(c *gin.Context) {
	problem, err := h.client.TodayProblem(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, problem)
}
