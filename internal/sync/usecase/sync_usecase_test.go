package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	authdomain "codetrack-backend/internal/auth/domain"
	authrepo "codetrack-backend/internal/auth/repository"
	taskdomain "codetrack-backend/internal/task/domain"
	taskrepo "codetrack-backend/internal/task/repository"
	"codetrack-backend/pkg/leetcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProblemAPI struct {
	submissions    []leetcode.Submission
	submissionsErr error

	difficulties    map[string]string
	difficultyErr   error
	difficultyCalls int

	profile     *leetcode.Profile
	profileErr  error
	solvedStats *leetcode.SolvedStats
	solvedErr   error
}

var _ ProblemAPI = (*fakeProblemAPI)(nil)

func (f *fakeProblemAPI) RecentAcceptedSubmissions(_ context.Context, _ string, _ int) ([]leetcode.Submission, error) {
	return f.submissions, f.submissionsErr
}

func (f *fakeProblemAPI) ProblemDifficulty(_ context.Context, titleSlug string) (string, error) {
	f.difficultyCalls++
	if f.difficultyErr != nil {
		return "", f.difficultyErr
	}
	if d, ok := f.difficulties[titleSlug]; ok {
		return d, nil
	}
	return "", errors.New("unknown slug")
}

func (f *fakeProblemAPI) UserProfile(_ context.Context, _ string) (*leetcode.Profile, error) {
	return f.profile, f.profileErr
}

func (f *fakeProblemAPI) UserSolvedStats(_ context.Context, _ string) (*leetcode.SolvedStats, error) {
	return f.solvedStats, f.solvedErr
}

type fakeTaskRepo struct {
	tasks     []*taskdomain.SolvedTask
	existsErr error
	batchErr  error
}

var _ taskrepo.TaskRepository = (*fakeTaskRepo)(nil)

func (f *fakeTaskRepo) Create(task *taskdomain.SolvedTask) error {
	f.tasks = append(f.tasks, task)
	return nil
}

func (f *fakeTaskRepo) CreateBatch(tasks []*taskdomain.SolvedTask) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	f.tasks = append(f.tasks, tasks...)
	return nil
}

func (f *fakeTaskRepo) ExistsByTitleAndDate(userID, title string, date time.Time) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, task := range f.tasks {
		if task.UserID == userID && task.Title == title && task.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTaskRepo) FindByID(string) (*taskdomain.SolvedTask, error) { return nil, nil }
func (f *fakeTaskRepo) FindByUserID(string, *time.Time, *time.Time, string, int, int) ([]*taskdomain.SolvedTask, int64, error) {
	return nil, 0, nil
}
func (f *fakeTaskRepo) Update(*taskdomain.SolvedTask) error { return nil }
func (f *fakeTaskRepo) Delete(string) error                 { return nil }
func (f *fakeTaskRepo) DeleteAllByUser(string) error        { return nil }

func (f *fakeTaskRepo) CountByPlatform(userID, platform string) (int64, error) {
	var count int64
	for _, task := range f.tasks {
		if task.UserID == userID && task.Platform == platform {
			count++
		}
	}
	return count, nil
}

func (f *fakeTaskRepo) MonthTotals(string, int, int) (int, int, error) { return 0, 0, nil }
func (f *fakeTaskRepo) DailyTotals(string, time.Time) ([]taskdomain.DailyStat, error) {
	return nil, nil
}

type fakeUserRepo struct {
	users   map[string]*authdomain.User
	updated []*authdomain.User
}

var _ authrepo.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo(users ...*authdomain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*authdomain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) Create(user *authdomain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(id string) (*authdomain.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByEmail(string) (*authdomain.User, error)           { return nil, nil }
func (f *fakeUserRepo) FindByOAuthID(string, string) (*authdomain.User, error) { return nil, nil }

func (f *fakeUserRepo) Update(user *authdomain.User) error {
	f.users[user.ID] = user
	f.updated = append(f.updated, user)
	return nil
}

func (f *fakeUserRepo) FindAllWithLeetCodeUsername() ([]*authdomain.User, error) {
	var users []*authdomain.User
	for _, user := range f.users {
		if user.LeetCodeUsername != "" {
			users = append(users, user)
		}
	}
	return users, nil
}

func (f *fakeUserRepo) SaveRefreshToken(*authdomain.RefreshToken) error { return nil }
func (f *fakeUserRepo) FindRefreshToken(string) (*authdomain.RefreshToken, error) {
	return nil, nil
}
func (f *fakeUserRepo) DeleteRefreshToken(string) error { return nil }

func testUser() *authdomain.User {
	return &authdomain.User{ID: "user-1", Email: "u@example.com", LeetCodeUsername: "gopher"}
}

func TestSyncUser_CreatesTasksFromSubmissions(t *testing.T) {
	api := &fakeProblemAPI{
		submissions: []leetcode.Submission{
			{ID: "11", Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1700000000", Lang: "python"},
			{ID: "12", Title: "Add Two Numbers", TitleSlug: "add-two-numbers", Timestamp: "1700090000", Lang: "go"},
		},
		difficulties: map[string]string{"two-sum": "Easy", "add-two-numbers": "Medium"},
	}
	tasks := &fakeTaskRepo{}
	uc := NewSyncUsecase(newFakeUserRepo(testUser()), tasks, api)

	result, err := uc.SyncUser(context.Background(), testUser(), 20)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Skipped)

	require.Len(t, tasks.tasks, 2)
	first := tasks.tasks[0]
	assert.Equal(t, "user-1", first.UserID)
	assert.Equal(t, "Two Sum", first.Title)
	assert.Equal(t, "11", first.ProblemID)
	assert.Equal(t, "leetcode", first.Platform)
	assert.Equal(t, "Easy", first.Difficulty)
	assert.Equal(t, 1, first.Points)
	assert.Equal(t, "Auto-synced from LeetCode (Language: python)", first.Notes)
}

func TestSyncUser_DateIsUTCCalendarDate(t *testing.T) {
	// 1700000000 is 2023-11-14 22:13:20 UTC; in UTC+8 it would already be
	// the 15th. The stored date must follow UTC regardless of server zone.
	api := &fakeProblemAPI{
		submissions:  []leetcode.Submission{{ID: "1", Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1700000000", Lang: "python"}},
		difficulties: map[string]string{"two-sum": "Easy"},
	}
	tasks := &fakeTaskRepo{}
	uc := NewSyncUsecase(newFakeUserRepo(testUser()), tasks, api)

	_, err := uc.SyncUser(context.Background(), testUser(), 20)
	require.NoError(t, err)

	require.Len(t, tasks.tasks, 1)
	expected := time.Date(2023, time.November, 14, 0, 0, 0, 0, time.UTC)
	assert.True(t, tasks.tasks[0].Date.Equal(expected), "got %s", tasks.tasks[0].Date)
}

func TestSyncUser_SameTitleSameDaySkipped(t *testing.T) {
	// Two accepted submissions of the same problem on the same UTC day
	// produce exactly one task.
	api := &fakeProblemAPI{
		submissions: []leetcode.Submission{
			{ID: "1", Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1700000000", Lang: "python"},
			{ID: "2", Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1700003600", Lang: "python"},
		},
		difficulties: map[string]string{"two-sum": "Easy"},
	}
	tasks := &fakeTaskRepo{}
	uc := NewSyncUsecase(newFakeUserRepo(testUser()), tasks, api)

	result, err := uc.SyncUser(context.Background(), testUser(), 20)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)

	require.Len(t, tasks.tasks, 1)
	assert.Equal(t, 1, tasks.tasks[0].Points)
}

func TestSyncUser_Idempotent(t *testing.T) {
	api := &fakeProblemAPI{
		submissions: []leetcode.Submission{
			{ID: "1", Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1700000000", Lang: "python"},
			{ID: "2", Title: "Add Two Numbers", TitleSlug: "add-two-numbers", Timestamp: "1700090000", Lang: "go"},
		},
		difficulties: map[string]string{"two-sum": "Easy", "add-two-numbers": "Medium"},
	}
	tasks := &fakeTaskRepo{}
	uc := NewSyncUsecase(newFakeUserRepo(testUser()), tasks, api)

	first, err := uc.SyncUser(context.Background(), testUser(), 20)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)

	second, err := uc.SyncUser(context.Background(), testUser(), 20)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Skipped)
	assert.Len(t, tasks.tasks, 2)
}

func TestSyncUser_DifficultyLookupFailureDefaultsToMedium(t *testing.T) {
	api := &fakeProblemAPI{
		submissions:   []leetcode.Submission{{ID: "1", Title: "Mystery", TitleSlug: "mystery", Timestamp: "1700000000", Lang: "rust"}},
		difficultyErr: errors.New("boom"),
	}
	tasks := &fakeTaskRepo{}
	uc := NewSyncUsecase(newFakeUserRepo(testUser()), tasks, api)

	result, err := uc.SyncUser(context.Background(), testUser(), 20)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	require.Len(t, tasks.tasks, 1)
	assert.Equal(t, "Medium", tasks.tasks[0].Difficulty)
	assert.Equal(t, 3, tasks.tasks[0].Points)
}

func TestSyncUser_DifficultyCachedPerBatch(t *testing.T) {
	// Three submissions of two unique problems on distinct days: the
	// metadata endpoint is hit once per unique slug.
	api := &fakeProblemAPI{
		submissions: []leetcode.Submission{
			{ID: "1", Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1700000000", Lang: "python"},
			{ID: "2", Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1700090000", Lang: "go"},
			{ID: "3", Title: "Word Break", TitleSlug: "word-break", Timestamp: "1700180000", Lang: "go"},
		},
		difficulties: map[string]string{"two-sum": "Easy", "word-break": "Hard"},
	}
	tasks := &fakeTaskRepo{}
	uc := NewSyncUsecase(newFakeUserRepo(testUser()), tasks, api)

	result, err := uc.SyncUser(context.Background(), testUser(), 20)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 2, api.difficultyCalls)
}

func TestSyncUser_MalformedTimestampSkipsItemOnly(t *testing.T) {
	api := &fakeProblemAPI{
		submissions: []leetcode.Submission{
			{ID: "1", Title: "Broken", TitleSlug: "broken", Timestamp: "not-a-number", Lang: "c"},
			{ID: "2", Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1700000000", Lang: "python"},
		},
		difficulties: map[string]string{"two-sum": "Easy"},
	}
	tasks := &fakeTaskRepo{}
	uc := NewSyncUsecase(newFakeUserRepo(testUser()), tasks, api)

	result, err := uc.SyncUser(context.Background(), testUser(), 20)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	require.Len(t, tasks.tasks, 1)
	assert.Equal(t, "Two Sum", tasks.tasks[0].Title)
}

func TestSyncUser_FetchErrorPropagates(t *testing.T) {
	api := &fakeProblemAPI{submissionsErr: &leetcode.APIError{Operation: "recentAcSubmissions", Message: "down"}}
	uc := NewSyncUsecase(newFakeUserRepo(testUser()), &fakeTaskRepo{}, api)

	_, err := uc.SyncUser(context.Background(), testUser(), 20)
	require.Error(t, err)

	var apiErr *leetcode.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestSyncUser_CommitFailureRollsBackWholeBatch(t *testing.T) {
	api := &fakeProblemAPI{
		submissions: []leetcode.Submission{
			{ID: "1", Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1700000000", Lang: "python"},
			{ID: "2", Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1700003600", Lang: "go"},
		},
		difficulties: map[string]string{"two-sum": "Easy"},
	}
	tasks := &fakeTaskRepo{batchErr: errors.New("db down")}
	uc := NewSyncUsecase(newFakeUserRepo(testUser()), tasks, api)

	result, err := uc.SyncUser(context.Background(), testUser(), 20)
	require.Error(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Empty(t, tasks.tasks)

	// The counts scanned before the failed commit still come back.
	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, 1, result.Skipped)
}

func TestSyncUser_RefreshesUserStatsAfterCommit(t *testing.T) {
	api := &fakeProblemAPI{
		submissions:  []leetcode.Submission{{ID: "1", Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1700000000", Lang: "python"}},
		difficulties: map[string]string{"two-sum": "Easy"},
		profile:      &leetcode.Profile{Username: "gopher", Ranking: 1234},
		solvedStats:  &leetcode.SolvedStats{Total: 10, Easy: 5, Medium: 4, Hard: 1},
	}
	user := testUser()
	users := newFakeUserRepo(user)
	uc := NewSyncUsecase(users, &fakeTaskRepo{}, api)

	_, err := uc.SyncUser(context.Background(), user, 20)
	require.NoError(t, err)

	require.NotEmpty(t, users.updated)
	assert.Equal(t, 1234, user.Ranking)
	assert.Equal(t, 10, user.TotalSolved)
	assert.NotNil(t, user.LastSyncedAt)
}

func TestSyncUser_NoLeetCodeUsername(t *testing.T) {
	uc := NewSyncUsecase(newFakeUserRepo(), &fakeTaskRepo{}, &fakeProblemAPI{})

	_, err := uc.SyncUser(context.Background(), &authdomain.User{ID: "u"}, 20)
	assert.ErrorIs(t, err, ErrNoLeetCodeUsername)
}

func TestTriggerSync_ReturnsJobResolvableViaGetJob(t *testing.T) {
	api := &fakeProblemAPI{
		submissions:  []leetcode.Submission{{ID: "1", Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1700000000", Lang: "python"}},
		difficulties: map[string]string{"two-sum": "Easy"},
	}
	user := testUser()
	uc := NewSyncUsecase(newFakeUserRepo(user), &fakeTaskRepo{}, api)

	job, err := uc.TriggerSync(user.ID, 20)
	require.NoError(t, err)
	require.NotEmpty(t, job.ID)

	// The job runs asynchronously; poll until it settles.
	deadline := time.After(2 * time.Second)
	for {
		got, err := uc.GetJob(user.ID, job.ID)
		require.NoError(t, err)
		if got.Status == JobCompleted {
			require.NotNil(t, got.Result)
			assert.Equal(t, 1, got.Result.Created)
			break
		}
		select {
		case <-deadline:
			t.Fatalf("job never completed, status %s", got.Status)
		case <-time.After(10 * time.Millisecond):
		}
	}

	// Another user cannot read the job.
	_, err = uc.GetJob("someone-else", job.ID)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

// waitForJob polls GetJob until the job leaves its running states.
func waitForJob(t *testing.T, uc SyncUsecase, userID, jobID string) *SyncJob {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		got, err := uc.GetJob(userID, jobID)
		require.NoError(t, err)
		if got.Status == JobCompleted || got.Status == JobFailed {
			return got
		}
		select {
		case <-deadline:
			t.Fatalf("job %s never settled, status %s", jobID, got.Status)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestTriggerSync_AcknowledgementIsDetachedSnapshot(t *testing.T) {
	api := &fakeProblemAPI{
		submissions:  []leetcode.Submission{{ID: "1", Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1700000000", Lang: "python"}},
		difficulties: map[string]string{"two-sum": "Easy"},
	}
	user := testUser()
	uc := NewSyncUsecase(newFakeUserRepo(user), &fakeTaskRepo{}, api)

	ack, err := uc.TriggerSync(user.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, JobQueued, ack.Status)

	waitForJob(t, uc, user.ID, ack.ID)

	// The worker's status writes must never reach the acknowledgement the
	// HTTP caller was handed.
	assert.Equal(t, JobQueued, ack.Status)
	assert.Nil(t, ack.Result)
	assert.Nil(t, ack.FinishedAt)
}

func TestTriggerSync_ConcurrentTriggersAndReads(t *testing.T) {
	// Exercised under the race detector: acknowledgements and GetJob reads
	// run while workers update job state.
	api := &fakeProblemAPI{
		submissions:  []leetcode.Submission{{ID: "1", Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1700000000", Lang: "python"}},
		difficulties: map[string]string{"two-sum": "Easy"},
	}
	user := testUser()
	uc := NewSyncUsecase(newFakeUserRepo(user), &fakeTaskRepo{}, api)

	for i := 0; i < 100; i++ {
		ack, err := uc.TriggerSync(user.ID, 20)
		require.NoError(t, err)
		assert.Equal(t, JobQueued, ack.Status)
		if _, err := uc.GetJob(user.ID, ack.ID); err != nil {
			assert.ErrorIs(t, err, ErrJobNotFound)
		}
	}
}

func TestTriggerSync_EvictsOldFinishedJobs(t *testing.T) {
	api := &fakeProblemAPI{
		submissions:  []leetcode.Submission{{ID: "1", Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1700000000", Lang: "python"}},
		difficulties: map[string]string{"two-sum": "Easy"},
	}
	user := testUser()
	uc := NewSyncUsecase(newFakeUserRepo(user), &fakeTaskRepo{}, api)

	total := maxRetainedJobsPerUser + 5
	jobIDs := make([]string, 0, total)
	for i := 0; i < total; i++ {
		ack, err := uc.TriggerSync(user.ID, 20)
		require.NoError(t, err)
		waitForJob(t, uc, user.ID, ack.ID)
		jobIDs = append(jobIDs, ack.ID)
	}

	// The earliest finished jobs have been evicted, the latest survive.
	_, err := uc.GetJob(user.ID, jobIDs[0])
	assert.ErrorIs(t, err, ErrJobNotFound)
	_, err = uc.GetJob(user.ID, jobIDs[total-1])
	require.NoError(t, err)

	// The registry never retains more than the cap plus the job that was
	// in flight at the last trigger.
	impl := uc.(*syncUsecase)
	impl.jobsMu.RLock()
	size := len(impl.jobs)
	impl.jobsMu.RUnlock()
	assert.LessOrEqual(t, size, maxRetainedJobsPerUser+1)
}

func TestTriggerSync_RequiresHandle(t *testing.T) {
	user := &authdomain.User{ID: "user-2"}
	uc := NewSyncUsecase(newFakeUserRepo(user), &fakeTaskRepo{}, &fakeProblemAPI{})

	_, err := uc.TriggerSync(user.ID, 20)
	assert.ErrorIs(t, err, ErrNoLeetCodeUsername)
}

func TestGetStatus(t *testing.T) {
	user := testUser()
	tasks := &fakeTaskRepo{tasks: []*taskdomain.SolvedTask{
		{UserID: user.ID, Platform: "leetcode", Title: "Two Sum"},
		{UserID: user.ID, Platform: "manual", Title: "Some Kata"},
		{UserID: "other", Platform: "leetcode", Title: "Two Sum"},
	}}
	uc := NewSyncUsecase(newFakeUserRepo(user), tasks, &fakeProblemAPI{})

	status, err := uc.GetStatus(user.ID)
	require.NoError(t, err)
	assert.True(t, status.HasLeetCodeUsername)
	assert.Equal(t, "gopher", status.LeetCodeUsername)
	assert.Equal(t, int64(1), status.TotalLeetCodeTasks)
}

func TestSetLeetCodeUsername(t *testing.T) {
	user := &authdomain.User{ID: "user-3"}

	t.Run("verifies handle exists", func(t *testing.T) {
		users := newFakeUserRepo(user)
		uc := NewSyncUsecase(users, &fakeTaskRepo{}, &fakeProblemAPI{profile: &leetcode.Profile{Username: "gopher"}})

		updated, err := uc.SetLeetCodeUsername(context.Background(), user.ID, "gopher")
		require.NoError(t, err)
		assert.Equal(t, "gopher", updated.LeetCodeUsername)
	})

	t.Run("rejects unknown handle", func(t *testing.T) {
		users := newFakeUserRepo(&authdomain.User{ID: "user-4"})
		uc := NewSyncUsecase(users, &fakeTaskRepo{}, &fakeProblemAPI{profile: nil})

		_, err := uc.SetLeetCodeUsername(context.Background(), "user-4", "nobody")
		assert.ErrorIs(t, err, ErrLeetCodeUserNotFound)
	})

	t.Run("empty handle revokes eligibility", func(t *testing.T) {
		existing := &authdomain.User{ID: "user-5", LeetCodeUsername: "gopher"}
		users := newFakeUserRepo(existing)
		uc := NewSyncUsecase(users, &fakeTaskRepo{}, &fakeProblemAPI{})

		updated, err := uc.SetLeetCodeUsername(context.Background(), "user-5", "")
		require.NoError(t, err)
		assert.Empty(t, updated.LeetCodeUsername)
	})
}
