package domain

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // Never return password in JSON
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Provider  string    `json:"provider"` // "email" or "github"
	OAuthID   string    `json:"-"`

	// LeetCode sync. A non-empty LeetCodeUsername makes the user eligible
	// for background synchronization.
	LeetCodeUsername string     `json:"leetcode_username,omitempty" gorm:"index"`
	Ranking          int        `json:"ranking,omitempty"`
	TotalSolved      int        `json:"total_solved,omitempty"`
	EasySolved       int        `json:"easy_solved,omitempty"`
	MediumSolved     int        `json:"medium_solved,omitempty"`
	HardSolved       int        `json:"hard_solved,omitempty"`
	LastSyncedAt     *time.Time `json:"last_synced_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RefreshToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
