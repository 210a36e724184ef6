package domain

import "time"

// Difficulty labels as reported by LeetCode
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// PlatformLeetCode tags rows created by the LeetCode sync engine
const PlatformLeetCode = "leetcode"

// PointsFor maps a difficulty label to the XP awarded for solving it.
// Unrecognized labels score as Medium.
func PointsFor(difficulty string) int {
	switch difficulty {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 3
	case DifficultyHard:
		return 5
	default:
		return 3
	}
}

// SolvedTask represents one practice log entry owned by a single user.
// Rows created by sync are insert-only; manual entries may be edited freely.
type SolvedTask struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"index;not null"`
	Date       time.Time `json:"date" gorm:"type:date;index;not null"`
	Platform   string    `json:"platform" gorm:"default:leetcode"`
	ProblemID  string    `json:"problem_id,omitempty"`
	Title      string    `json:"title"`
	Difficulty string    `json:"difficulty" gorm:"not null"`
	Points     int       `json:"points" gorm:"not null"`
	TimeSpent  *int      `json:"time_spent,omitempty"` // minutes
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// MonthGoal is a per-user XP target for one calendar month.
type MonthGoal struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	Year      int       `json:"year" gorm:"not null"`
	Month     int       `json:"month" gorm:"not null"` // 1-12
	TargetXP  int       `json:"target_xp" gorm:"default:100"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyStat is an aggregated view of one calendar day of practice.
type DailyStat struct {
	Date   time.Time `json:"date"`
	Points int       `json:"points"`
	Solved int       `json:"solved"`
}
