package usecase

import (
	"context"
	"time"

	authdomain "codetrack-backend/internal/auth/domain"
	"codetrack-backend/pkg/leetcode"
)

// ProblemAPI is the slice of the LeetCode client the sync engine consumes.
type ProblemAPI interface {
	RecentAcceptedSubmissions(ctx context.Context, username string, limit int) ([]leetcode.Submission, error)
	ProblemDifficulty(ctx context.Context, titleSlug string) (string, error)
	UserProfile(ctx context.Context, username string) (*leetcode.Profile, error)
	UserSolvedStats(ctx context.Context, username string) (*leetcode.SolvedStats, error)
}

// SyncResult reports the outcome of one reconciliation batch.
type SyncResult struct {
	Fetched int `json:"fetched"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// JobStatus is the lifecycle state of an on-demand sync job.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// SyncJob tracks one on-demand sync run so its counts can be queried later.
type SyncJob struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	Status     JobStatus   `json:"status"`
	Result     *SyncResult `json:"result,omitempty"`
	Error      string      `json:"error,omitempty"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
}

// SyncStatus is the per-user sync summary exposed over HTTP.
type SyncStatus struct {
	LeetCodeUsername    string     `json:"leetcode_username,omitempty"`
	HasLeetCodeUsername bool       `json:"has_leetcode_username"`
	TotalLeetCodeTasks  int64      `json:"total_leetcode_tasks"`
	LastSyncedAt        *time.Time `json:"last_synced_at,omitempty"`
}

// SyncUsecase defines the LeetCode synchronization business logic
type SyncUsecase interface {
	// SyncUser reconciles the user's recent accepted submissions against the
	// stored practice log and commits new rows in one transaction.
	SyncUser(ctx context.Context, user *authdomain.User, limit int) (SyncResult, error)

	// TriggerSync schedules a one-shot sync for the user and returns
	// immediately with a job whose outcome is queryable via GetJob.
	TriggerSync(userID string, limit int) (*SyncJob, error)

	GetJob(userID, jobID string) (*SyncJob, error)
	GetStatus(userID string) (*SyncStatus, error)

	// SetLeetCodeUsername registers (or, with an empty handle, clears) the
	// user's LeetCode username. Registering verifies the handle exists.
	SetLeetCodeUsername(ctx context.Context, userID, handle string) (*authdomain.User, error)
}
