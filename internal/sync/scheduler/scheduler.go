package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	authrepo "codetrack-backend/internal/auth/repository"
	syncUsecase "codetrack-backend/internal/sync/usecase"
)

// SyncScheduler drives periodic LeetCode synchronization for every user with
// a registered handle. One instance runs for the lifetime of the process.
type SyncScheduler struct {
	userRepo   authrepo.UserRepository
	syncUc     syncUsecase.SyncUsecase
	interval   time.Duration
	fetchLimit int

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSyncScheduler creates a new scheduler
func NewSyncScheduler(userRepo authrepo.UserRepository, syncUc syncUsecase.SyncUsecase, interval time.Duration, fetchLimit int) *SyncScheduler {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if fetchLimit <= 0 {
		fetchLimit = 20
	}
	return &SyncScheduler{
		userRepo:   userRepo,
		syncUc:     syncUc,
		interval:   interval,
		fetchLimit: fetchLimit,
	}
}

// Start begins the scheduler loop. Calling Start on a running scheduler is a no-op.
func (s *SyncScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		log.Println("[SyncScheduler] Already running")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	log.Printf("[SyncScheduler] Starting LeetCode sync scheduler (interval: %s)", s.interval)
	go s.run(ctx, s.done)
}

// Stop cancels the loop and waits for the in-flight tick to finish. Calling
// Stop on a stopped scheduler is a no-op.
func (s *SyncScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	log.Println("[SyncScheduler] Scheduler stopped")
}

// IsRunning reports whether the loop is active.
func (s *SyncScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *SyncScheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	// Run immediately on start
	s.syncAllUsers(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.syncAllUsers(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// syncAllUsers performs one tick. A failure for one user never affects the
// others, and a failure to enumerate users only skips this tick.
func (s *SyncScheduler) syncAllUsers(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	users, err := s.userRepo.FindAllWithLeetCodeUsername()
	if err != nil {
		log.Printf("[SyncScheduler] Error loading users to sync: %v", err)
		return
	}

	if len(users) == 0 {
		return
	}

	for _, user := range users {
		// Observe cancellation between users; the current user's commit is
		// allowed to finish.
		if ctx.Err() != nil {
			return
		}

		if _, err := s.syncUc.SyncUser(ctx, user, s.fetchLimit); err != nil {
			log.Printf("[SyncScheduler] Error syncing user %s (%s): %v", user.ID, user.LeetCodeUsername, err)
			continue
		}
	}
}
