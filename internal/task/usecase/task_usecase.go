package usecase

import (
	"errors"
	"time"

	"codetrack-backend/internal/task/domain"
	"codetrack-backend/internal/task/repository"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrNotOwner     = errors.New("unauthorized")
)

// taskUsecase implements TaskUsecase interface
type taskUsecase struct {
	taskRepo repository.TaskRepository
	goalRepo repository.MonthGoalRepository
}

// NewTaskUsecase creates a new instance of taskUsecase
func NewTaskUsecase(taskRepo repository.TaskRepository, goalRepo repository.MonthGoalRepository) TaskUsecase {
	return &taskUsecase{
		taskRepo: taskRepo,
		goalRepo: goalRepo,
	}
}

func (u *taskUsecase) AddTask(userID string, input *TaskInput) (*domain.SolvedTask, error) {
	if input.Title == "" {
		return nil, errors.New("title is required")
	}

	platform := input.Platform
	if platform == "" {
		platform = domain.PlatformLeetCode
	}

	date := input.Date
	if date.IsZero() {
		now := time.Now().UTC()
		date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	task := &domain.SolvedTask{
		UserID:     userID,
		Date:       date,
		Platform:   platform,
		ProblemID:  input.ProblemID,
		Title:      input.Title,
		Difficulty: input.Difficulty,
		Points:     domain.PointsFor(input.Difficulty),
		TimeSpent:  input.TimeSpent,
		Notes:      input.Notes,
	}

	if err := u.taskRepo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (u *taskUsecase) GetTasks(userID string, from, to *time.Time, platform string, limit, offset int) ([]*domain.SolvedTask, int64, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return u.taskRepo.FindByUserID(userID, from, to, platform, limit, offset)
}

func (u *taskUsecase) UpdateTask(userID, taskID string, input *TaskInput) (*domain.SolvedTask, error) {
	task, err := u.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if task.UserID != userID {
		return nil, ErrNotOwner
	}

	if input.Title != "" {
		task.Title = input.Title
	}
	if !input.Date.IsZero() {
		task.Date = input.Date
	}
	if input.Difficulty != "" {
		task.Difficulty = input.Difficulty
		task.Points = domain.PointsFor(input.Difficulty)
	}
	if input.TimeSpent != nil {
		task.TimeSpent = input.TimeSpent
	}
	if input.Notes != "" {
		task.Notes = input.Notes
	}

	if err := u.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (u *taskUsecase) DeleteTask(userID, taskID string) error {
	task, err := u.taskRepo.FindByID(taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return ErrTaskNotFound
	}
	if task.UserID != userID {
		return ErrNotOwner
	}
	return u.taskRepo.Delete(taskID)
}

func (u *taskUsecase) ClearTasks(userID string) error {
	return u.taskRepo.DeleteAllByUser(userID)
}

func (u *taskUsecase) GetMonthGoal(userID string, year, month int) (*domain.MonthGoal, error) {
	goal, err := u.goalRepo.Find(userID, year, month)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		// Default goal, not persisted until the user sets one
		return &domain.MonthGoal{UserID: userID, Year: year, Month: month, TargetXP: 100}, nil
	}
	return goal, nil
}

func (u *taskUsecase) SetMonthGoal(userID string, year, month, targetXP int) (*domain.MonthGoal, error) {
	if month < 1 || month > 12 {
		return nil, errors.New("month must be between 1 and 12")
	}
	if targetXP <= 0 {
		return nil, errors.New("target_xp must be positive")
	}

	goal := &domain.MonthGoal{
		UserID:   userID,
		Year:     year,
		Month:    month,
		TargetXP: targetXP,
	}
	if err := u.goalRepo.Upsert(goal); err != nil {
		return nil, err
	}
	return u.goalRepo.Find(userID, year, month)
}

func (u *taskUsecase) GetMonthStats(userID string, year, month int) (*MonthStats, error) {
	points, solved, err := u.taskRepo.MonthTotals(userID, year, month)
	if err != nil {
		return nil, err
	}

	goal, err := u.GetMonthGoal(userID, year, month)
	if err != nil {
		return nil, err
	}

	return &MonthStats{
		Year:     year,
		Month:    month,
		Solved:   solved,
		TotalXP:  points,
		TargetXP: goal.TargetXP,
		Achieved: points >= goal.TargetXP,
	}, nil
}

func (u *taskUsecase) GetDailyStats(userID string, days int) (*DailyStats, error) {
	if days <= 0 || days > 365 {
		days = 30
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -(days - 1))

	stats, err := u.taskRepo.DailyTotals(userID, since)
	if err != nil {
		return nil, err
	}

	return &DailyStats{
		Days:   stats,
		Streak: currentStreak(stats, today),
	}, nil
}

// currentStreak counts consecutive active days ending today or yesterday.
func currentStreak(stats []domain.DailyStat, today time.Time) int {
	active := make(map[string]bool, len(stats))
	for _, s := range stats {
		active[s.Date.UTC().Format("2006-01-02")] = true
	}

	day := today
	if !active[day.Format("2006-01-02")] {
		// A streak survives until the end of the current day
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for active[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
