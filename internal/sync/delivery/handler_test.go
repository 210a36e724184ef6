package delivery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	authdomain "codetrack-backend/internal/auth/domain"
	"codetrack-backend/internal/sync/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSyncUsecase struct {
	status    *usecase.SyncStatus
	statusErr error
}

var _ usecase.SyncUsecase = (*fakeSyncUsecase)(nil)

func (f *fakeSyncUsecase) SyncUser(context.Context, *authdomain.User, int) (usecase.SyncResult, error) {
	return usecase.SyncResult{}, nil
}

func (f *fakeSyncUsecase) TriggerSync(string, int) (*usecase.SyncJob, error) {
	return nil, usecase.ErrUserNotFound
}

func (f *fakeSyncUsecase) GetJob(string, string) (*usecase.SyncJob, error) {
	return nil, usecase.ErrJobNotFound
}

func (f *fakeSyncUsecase) GetStatus(string) (*usecase.SyncStatus, error) {
	return f.status, f.statusErr
}

func (f *fakeSyncUsecase) SetLeetCodeUsername(context.Context, string, string) (*authdomain.User, error) {
	return nil, usecase.ErrUserNotFound
}

func syncTestContext(t *testing.T, method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	c.Set("userID", "user-1")
	return c, w
}

func TestGetStatus_DeletedUserIsNotFound(t *testing.T) {
	// A token can outlive its account; the status endpoint answers 404,
	// not a server error.
	handler := NewSyncHandler(&fakeSyncUsecase{statusErr: usecase.ErrUserNotFound})

	c, w := syncTestContext(t, http.MethodGet, "/api/sync/status")
	handler.GetStatus(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetStatus_ReturnsSummary(t *testing.T) {
	handler := NewSyncHandler(&fakeSyncUsecase{status: &usecase.SyncStatus{
		LeetCodeUsername:    "gopher",
		HasLeetCodeUsername: true,
		TotalLeetCodeTasks:  3,
	}})

	c, w := syncTestContext(t, http.MethodGet, "/api/sync/status")
	handler.GetStatus(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"leetcode_username":"gopher"`)
	assert.Contains(t, w.Body.String(), `"total_leetcode_tasks":3`)
}

func TestTriggerSync_DeletedUserIsNotFound(t *testing.T) {
	handler := NewSyncHandler(&fakeSyncUsecase{})

	c, w := syncTestContext(t, http.MethodPost, "/api/sync/from-leetcode")
	handler.TriggerSync(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
