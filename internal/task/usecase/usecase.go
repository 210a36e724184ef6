package usecase

import (
	"time"

	"codetrack-backend/internal/task/domain"
)

// TaskInput carries the user-editable fields of a practice log entry.
type TaskInput struct {
	Date       time.Time
	Platform   string
	ProblemID  string
	Title      string
	Difficulty string
	TimeSpent  *int
	Notes      string
}

// MonthStats summarizes one calendar month against its goal.
type MonthStats struct {
	Year     int  `json:"year"`
	Month    int  `json:"month"`
	Solved   int  `json:"solved"`
	TotalXP  int  `json:"total_xp"`
	TargetXP int  `json:"target_xp"`
	Achieved bool `json:"achieved"`
}

// DailyStats is the chart-friendly daily aggregation plus current streak.
type DailyStats struct {
	Days   []domain.DailyStat `json:"days"`
	Streak int                `json:"streak"`
}

// TaskUsecase defines the practice-log business logic
type TaskUsecase interface {
	AddTask(userID string, input *TaskInput) (*domain.SolvedTask, error)
	GetTasks(userID string, from, to *time.Time, platform string, limit, offset int) ([]*domain.SolvedTask, int64, error)
	UpdateTask(userID, taskID string, input *TaskInput) (*domain.SolvedTask, error)
	DeleteTask(userID, taskID string) error
	ClearTasks(userID string) error

	GetMonthGoal(userID string, year, month int) (*domain.MonthGoal, error)
	SetMonthGoal(userID string, year, month, targetXP int) (*domain.MonthGoal, error)
	GetMonthStats(userID string, year, month int) (*MonthStats, error)
	GetDailyStats(userID string, days int) (*DailyStats, error)
}
