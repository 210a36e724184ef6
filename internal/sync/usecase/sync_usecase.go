package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"sync"
	"time"

	authdomain "codetrack-backend/internal/auth/domain"
	authrepo "codetrack-backend/internal/auth/repository"
	taskdomain "codetrack-backend/internal/task/domain"
	taskrepo "codetrack-backend/internal/task/repository"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrNoLeetCodeUsername   = errors.New("leetcode username not set")
	ErrLeetCodeUserNotFound = errors.New("leetcode user not found")
	ErrJobNotFound          = errors.New("sync job not found")
)

const defaultFetchLimit = 20

// syncUsecase implements SyncUsecase interface
type syncUsecase struct {
	userRepo authrepo.UserRepository
	taskRepo taskrepo.TaskRepository
	client   ProblemAPI

	jobsMu sync.RWMutex
	jobs   map[string]*SyncJob
}

// NewSyncUsecase creates a new instance of syncUsecase
func NewSyncUsecase(userRepo authrepo.UserRepository, taskRepo taskrepo.TaskRepository, client ProblemAPI) SyncUsecase {
	return &syncUsecase{
		userRepo: userRepo,
		taskRepo: taskRepo,
		client:   client,
		jobs:     make(map[string]*SyncJob),
	}
}

// difficultyCache memoizes slug -> difficulty lookups for the duration of one
// reconciliation batch. A lookup failure is absorbed: the slug is recorded as
// Medium so a single metadata error cannot abort the batch.
type difficultyCache struct {
	client  ProblemAPI
	entries map[string]string
}

func newDifficultyCache(client ProblemAPI) *difficultyCache {
	return &difficultyCache{
		client:  client,
		entries: make(map[string]string),
	}
}

func (c *difficultyCache) get(ctx context.Context, titleSlug string) string {
	if difficulty, ok := c.entries[titleSlug]; ok {
		return difficulty
	}

	difficulty, err := c.client.ProblemDifficulty(ctx, titleSlug)
	if err != nil {
		log.Printf("[Sync] Could not fetch difficulty for %s, defaulting to Medium: %v", titleSlug, err)
		difficulty = taskdomain.DifficultyMedium
	}
	c.entries[titleSlug] = difficulty
	return difficulty
}

func (u *syncUsecase) SyncUser(ctx context.Context, user *authdomain.User, limit int) (SyncResult, error) {
	var result SyncResult

	if user == nil {
		return result, ErrUserNotFound
	}
	if user.LeetCodeUsername == "" {
		return result, ErrNoLeetCodeUsername
	}
	if limit <= 0 {
		limit = defaultFetchLimit
	}

	submissions, err := u.client.RecentAcceptedSubmissions(ctx, user.LeetCodeUsername, limit)
	if err != nil {
		return result, fmt.Errorf("fetching submissions for %s: %w", user.LeetCodeUsername, err)
	}
	result.Fetched = len(submissions)

	cache := newDifficultyCache(u.client)
	var staged []*taskdomain.SolvedTask

	// Process in fetch order (newest first); each bad item is skipped on its
	// own, never the whole batch.
	for _, submission := range submissions {
		epoch, err := strconv.ParseInt(submission.Timestamp, 10, 64)
		if err != nil {
			log.Printf("[Sync] Skipping submission %q: bad timestamp %q: %v", submission.Title, submission.Timestamp, err)
			continue
		}
		if submission.Title == "" {
			log.Printf("[Sync] Skipping submission with empty title (slug %q)", submission.TitleSlug)
			continue
		}

		submittedAt := time.Unix(epoch, 0).UTC()
		date := time.Date(submittedAt.Year(), submittedAt.Month(), submittedAt.Day(), 0, 0, 0, 0, time.UTC)

		exists, err := u.taskRepo.ExistsByTitleAndDate(user.ID, submission.Title, date)
		if err != nil {
			log.Printf("[Sync] Skipping submission %q: dedup lookup failed: %v", submission.Title, err)
			continue
		}
		if exists || stagedContains(staged, submission.Title, date) {
			result.Skipped++
			continue
		}

		difficulty := cache.get(ctx, submission.TitleSlug)

		staged = append(staged, &taskdomain.SolvedTask{
			UserID:     user.ID,
			Date:       date,
			Platform:   taskdomain.PlatformLeetCode,
			ProblemID:  submission.ID,
			Title:      submission.Title,
			Difficulty: difficulty,
			Points:     taskdomain.PointsFor(difficulty),
			Notes:      fmt.Sprintf("Auto-synced from LeetCode (Language: %s)", languageOrUnknown(submission.Lang)),
		})
	}

	// One transaction per owner: either every staged row commits or none do.
	// Fetched and Skipped stay as scanned so the failure is reported in full.
	if err := u.taskRepo.CreateBatch(staged); err != nil {
		return result, fmt.Errorf("committing %d tasks for %s: %w", len(staged), user.LeetCodeUsername, err)
	}
	result.Created = len(staged)

	if result.Created > 0 {
		u.refreshUserStats(ctx, user)
		log.Printf("[Sync] Synced %d new tasks for %s (%d skipped)", result.Created, user.LeetCodeUsername, result.Skipped)
	}
	return result, nil
}

// stagedContains guards against duplicates within a single fetch batch,
// which the database cannot see until commit.
func stagedContains(staged []*taskdomain.SolvedTask, title string, date time.Time) bool {
	for _, task := range staged {
		if task.Title == title && task.Date.Equal(date) {
			return true
		}
	}
	return false
}

func languageOrUnknown(lang string) string {
	if lang == "" {
		return "Unknown"
	}
	return lang
}

// refreshUserStats pulls profile counters after a successful sync. Failures
// here are logged and absorbed; they never fail the sync itself.
func (u *syncUsecase) refreshUserStats(ctx context.Context, user *authdomain.User) {
	now := time.Now().UTC()
	user.LastSyncedAt = &now

	if profile, err := u.client.UserProfile(ctx, user.LeetCodeUsername); err != nil {
		log.Printf("[Sync] Could not refresh profile for %s: %v", user.LeetCodeUsername, err)
	} else if profile != nil {
		user.Ranking = profile.Ranking
	}

	if stats, err := u.client.UserSolvedStats(ctx, user.LeetCodeUsername); err != nil {
		log.Printf("[Sync] Could not refresh solved stats for %s: %v", user.LeetCodeUsername, err)
	} else if stats != nil {
		user.TotalSolved = stats.Total
		user.EasySolved = stats.Easy
		user.MediumSolved = stats.Medium
		user.HardSolved = stats.Hard
	}

	if err := u.userRepo.Update(user); err != nil {
		log.Printf("[Sync] Could not persist stats for %s: %v", user.LeetCodeUsername, err)
	}
}

func (u *syncUsecase) TriggerSync(userID string, limit int) (*SyncJob, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.LeetCodeUsername == "" {
		return nil, ErrNoLeetCodeUsername
	}

	job := &SyncJob{
		ID:        uuid.New().String(),
		UserID:    userID,
		Status:    JobQueued,
		StartedAt: time.Now().UTC(),
	}

	// The acknowledgement copy is made under the lock, before the worker
	// goroutine exists, so it can never observe the worker's status writes.
	u.jobsMu.Lock()
	u.jobs[job.ID] = job
	u.evictFinishedJobsLocked(userID)
	ack := copyJob(job)
	u.jobsMu.Unlock()

	go u.runJob(job.ID, user, limit)

	return ack, nil
}

// maxRetainedJobsPerUser bounds the registry: only the most recent finished
// jobs per user stay queryable. Running jobs are never evicted.
const maxRetainedJobsPerUser = 20

func (u *syncUsecase) evictFinishedJobsLocked(userID string) {
	var finished []*SyncJob
	for _, job := range u.jobs {
		if job.UserID == userID && job.FinishedAt != nil {
			finished = append(finished, job)
		}
	}
	if len(finished) <= maxRetainedJobsPerUser {
		return
	}
	sort.Slice(finished, func(i, j int) bool {
		if finished[i].FinishedAt.Equal(*finished[j].FinishedAt) {
			return finished[i].StartedAt.Before(finished[j].StartedAt)
		}
		return finished[i].FinishedAt.Before(*finished[j].FinishedAt)
	})
	for _, job := range finished[:len(finished)-maxRetainedJobsPerUser] {
		delete(u.jobs, job.ID)
	}
}

func (u *syncUsecase) runJob(jobID string, user *authdomain.User, limit int) {
	u.setJobStatus(jobID, func(job *SyncJob) {
		job.Status = JobRunning
	})

	result, err := u.SyncUser(context.Background(), user, limit)

	finished := time.Now().UTC()
	u.setJobStatus(jobID, func(job *SyncJob) {
		job.FinishedAt = &finished
		if err != nil {
			job.Status = JobFailed
			job.Error = err.Error()
			return
		}
		job.Status = JobCompleted
		job.Result = &result
	})

	if err != nil {
		log.Printf("[Sync] On-demand sync failed for user %s: %v", user.ID, err)
	}
}

func (u *syncUsecase) setJobStatus(jobID string, update func(*SyncJob)) {
	u.jobsMu.Lock()
	defer u.jobsMu.Unlock()
	if job, ok := u.jobs[jobID]; ok {
		update(job)
	}
}

func (u *syncUsecase) GetJob(userID, jobID string) (*SyncJob, error) {
	u.jobsMu.RLock()
	defer u.jobsMu.RUnlock()

	job, ok := u.jobs[jobID]
	if !ok || job.UserID != userID {
		return nil, ErrJobNotFound
	}
	return copyJob(job), nil
}

func copyJob(job *SyncJob) *SyncJob {
	clone := *job
	if job.Result != nil {
		result := *job.Result
		clone.Result = &result
	}
	return &clone
}

func (u *syncUsecase) GetStatus(userID string) (*SyncStatus, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	total, err := u.taskRepo.CountByPlatform(userID, taskdomain.PlatformLeetCode)
	if err != nil {
		return nil, err
	}

	return &SyncStatus{
		LeetCodeUsername:    user.LeetCodeUsername,
		HasLeetCodeUsername: user.LeetCodeUsername != "",
		TotalLeetCodeTasks:  total,
		LastSyncedAt:        user.LastSyncedAt,
	}, nil
}

func (u *syncUsecase) SetLeetCodeUsername(ctx context.Context, userID, handle string) (*authdomain.User, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if handle != "" {
		profile, err := u.client.UserProfile(ctx, handle)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, ErrLeetCodeUserNotFound
		}
	}

	user.LeetCodeUsername = handle
	if err := u.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
