package repository

import (
	"time"

	"codetrack-backend/internal/task/domain"
)

// TaskRepository defines the interface for solved-task data access.
// It is also the persistence gateway the sync engine commits through.
type TaskRepository interface {
	// Create creates a single task
	Create(task *domain.SolvedTask) error

	// CreateBatch inserts all tasks inside one transaction. Either every
	// row is committed or none of them are.
	CreateBatch(tasks []*domain.SolvedTask) error

	// ExistsByTitleAndDate reports whether the user already has a task with
	// this title on this calendar date. This is the sync dedup key.
	ExistsByTitleAndDate(userID, title string, date time.Time) (bool, error)

	// FindByID finds a task by its ID
	FindByID(id string) (*domain.SolvedTask, error)

	// FindByUserID lists a user's tasks, newest date first, with optional
	// date-range and platform filters
	FindByUserID(userID string, from, to *time.Time, platform string, limit, offset int) ([]*domain.SolvedTask, int64, error)

	// Update updates an existing task
	Update(task *domain.SolvedTask) error

	// Delete deletes a task by ID
	Delete(id string) error

	// DeleteAllByUser removes every task owned by the user
	DeleteAllByUser(userID string) error

	// CountByPlatform counts a user's tasks for one platform
	CountByPlatform(userID, platform string) (int64, error)

	// MonthTotals returns total XP and solved count for one calendar month
	MonthTotals(userID string, year, month int) (points int, solved int, err error)

	// DailyTotals aggregates XP and solved count per day since the given date
	DailyTotals(userID string, since time.Time) ([]domain.DailyStat, error)
}

// MonthGoalRepository defines the interface for monthly XP goals
type MonthGoalRepository interface {
	Find(userID string, year, month int) (*domain.MonthGoal, error)
	Upsert(goal *domain.MonthGoal) error
}
