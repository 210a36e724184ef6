package repository

import (
	"errors"
	"time"

	"codetrack-backend/internal/task/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormTaskRepository implements TaskRepository using GORM
type gormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GORM-based TaskRepository
func NewGormTaskRepository(db *gorm.DB) TaskRepository {
	return &gormTaskRepository{db: db}
}

func (r *gormTaskRepository) Create(task *domain.SolvedTask) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	task.CreatedAt = time.Now()
	return r.db.Create(task).Error
}

func (r *gormTaskRepository) CreateBatch(tasks []*domain.SolvedTask) error {
	if len(tasks) == 0 {
		return nil
	}
	now := time.Now()
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, task := range tasks {
			if task.ID == "" {
				task.ID = uuid.New().String()
			}
			task.CreatedAt = now
			if err := tx.Create(task).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *gormTaskRepository) ExistsByTitleAndDate(userID, title string, date time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&domain.SolvedTask{}).
		Where("user_id = ? AND title = ? AND date = ?", userID, title, date).
		Count(&count).Error
	return count > 0, err
}

func (r *gormTaskRepository) FindByID(id string) (*domain.SolvedTask, error) {
	var task domain.SolvedTask
	err := r.db.Where("id = ?", id).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *gormTaskRepository) FindByUserID(userID string, from, to *time.Time, platform string, limit, offset int) ([]*domain.SolvedTask, int64, error) {
	var tasks []*domain.SolvedTask
	var total int64

	query := r.db.Model(&domain.SolvedTask{}).Where("user_id = ?", userID)
	if from != nil {
		query = query.Where("date >= ?", *from)
	}
	if to != nil {
		query = query.Where("date <= ?", *to)
	}
	if platform != "" {
		query = query.Where("platform = ?", platform)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("date DESC, created_at DESC").
		Limit(limit).Offset(offset).Find(&tasks).Error

	return tasks, total, err
}

func (r *gormTaskRepository) Update(task *domain.SolvedTask) error {
	return r.db.Save(task).Error
}

func (r *gormTaskRepository) Delete(id string) error {
	return r.db.Delete(&domain.SolvedTask{}, "id = ?", id).Error
}

func (r *gormTaskRepository) DeleteAllByUser(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&domain.SolvedTask{}).Error
}

func (r *gormTaskRepository) CountByPlatform(userID, platform string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.SolvedTask{}).
		Where("user_id = ? AND platform = ?", userID, platform).
		Count(&count).Error
	return count, err
}

func (r *gormTaskRepository) MonthTotals(userID string, year, month int) (int, int, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	type totals struct {
		Points int
		Solved int
	}
	var result totals
	err := r.db.Model(&domain.SolvedTask{}).
		Select("COALESCE(SUM(points), 0) as points, COUNT(*) as solved").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Scan(&result).Error
	return result.Points, result.Solved, err
}

func (r *gormTaskRepository) DailyTotals(userID string, since time.Time) ([]domain.DailyStat, error) {
	var stats []domain.DailyStat
	err := r.db.Model(&domain.SolvedTask{}).
		Select("date, COALESCE(SUM(points), 0) as points, COUNT(*) as solved").
		Where("user_id = ? AND date >= ?", userID, since).
		Group("date").
		Order("date ASC").
		Scan(&stats).Error
	return stats, err
}

// gormMonthGoalRepository implements MonthGoalRepository using GORM
type gormMonthGoalRepository struct {
	db *gorm.DB
}

// NewGormMonthGoalRepository creates a new GORM-based MonthGoalRepository
func NewGormMonthGoalRepository(db *gorm.DB) MonthGoalRepository {
	return &gormMonthGoalRepository{db: db}
}

func (r *gormMonthGoalRepository) Find(userID string, year, month int) (*domain.MonthGoal, error) {
	var goal domain.MonthGoal
	err := r.db.Where("user_id = ? AND year = ? AND month = ?", userID, year, month).First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &goal, nil
}

func (r *gormMonthGoalRepository) Upsert(goal *domain.MonthGoal) error {
	existing, err := r.Find(goal.UserID, goal.Year, goal.Month)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.TargetXP = goal.TargetXP
		return r.db.Save(existing).Error
	}
	goal.ID = uuid.New().String()
	goal.CreatedAt = time.Now()
	return r.db.Create(goal).Error
}
