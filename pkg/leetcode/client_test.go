package leetcode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler func(query string, variables map[string]any) (any, []graphqlError, int)) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		data, gqlErrors, status := handler(req.Query, req.Variables)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}

		response := map[string]any{"data": data}
		if len(gqlErrors) > 0 {
			response["errors"] = gqlErrors
		}
		require.NoError(t, json.NewEncoder(w).Encode(response))
	}))
	t.Cleanup(server.Close)
	return NewClientWithBaseURL(server.URL, 5*time.Second)
}

func TestRecentAcceptedSubmissions(t *testing.T) {
	client := newTestServer(t, func(_ string, variables map[string]any) (any, []graphqlError, int) {
		assert.Equal(t, "gopher", variables["username"])
		assert.Equal(t, float64(20), variables["limit"])
		return map[string]any{
			"recentAcSubmissionList": []map[string]any{
				{"id": "42", "title": "Two Sum", "titleSlug": "two-sum", "timestamp": "1700000000", "lang": "python"},
				{"id": "41", "title": "Word Break", "titleSlug": "word-break", "timestamp": "1699990000", "lang": "go"},
			},
		}, nil, http.StatusOK
	})

	submissions, err := client.RecentAcceptedSubmissions(context.Background(), "gopher", 20)
	require.NoError(t, err)
	require.Len(t, submissions, 2)
	assert.Equal(t, "Two Sum", submissions[0].Title)
	assert.Equal(t, "two-sum", submissions[0].TitleSlug)
	assert.Equal(t, "1700000000", submissions[0].Timestamp)
	assert.Equal(t, "python", submissions[0].Lang)
}

func TestRecentAcceptedSubmissions_LimitCappedAt100(t *testing.T) {
	client := newTestServer(t, func(_ string, variables map[string]any) (any, []graphqlError, int) {
		assert.Equal(t, float64(100), variables["limit"])
		return map[string]any{"recentAcSubmissionList": []map[string]any{}}, nil, http.StatusOK
	})

	_, err := client.RecentAcceptedSubmissions(context.Background(), "gopher", 5000)
	require.NoError(t, err)
}

func TestProblemDifficulty(t *testing.T) {
	client := newTestServer(t, func(_ string, variables map[string]any) (any, []graphqlError, int) {
		assert.Equal(t, "two-sum", variables["titleSlug"])
		return map[string]any{
			"question": map[string]any{"title": "Two Sum", "titleSlug": "two-sum", "difficulty": "Easy"},
		}, nil, http.StatusOK
	})

	difficulty, err := client.ProblemDifficulty(context.Background(), "two-sum")
	require.NoError(t, err)
	assert.Equal(t, "Easy", difficulty)
}

func TestProblemDifficulty_UnknownSlug(t *testing.T) {
	client := newTestServer(t, func(string, map[string]any) (any, []graphqlError, int) {
		return map[string]any{"question": nil}, nil, http.StatusOK
	})

	_, err := client.ProblemDifficulty(context.Background(), "nope")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
}

func TestGraphQLErrorListSurfacesAsAPIError(t *testing.T) {
	client := newTestServer(t, func(string, map[string]any) (any, []graphqlError, int) {
		return nil, []graphqlError{{Message: "user does not exist"}}, http.StatusOK
	})

	_, err := client.RecentAcceptedSubmissions(context.Background(), "ghost", 20)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "user does not exist")
}

func TestNonOKStatusSurfacesAsAPIError(t *testing.T) {
	client := newTestServer(t, func(string, map[string]any) (any, []graphqlError, int) {
		return nil, nil, http.StatusTooManyRequests
	})

	_, err := client.RecentAcceptedSubmissions(context.Background(), "gopher", 20)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
}

func TestUserProfile_NilOnUnknownUser(t *testing.T) {
	client := newTestServer(t, func(string, map[string]any) (any, []graphqlError, int) {
		return map[string]any{"matchedUser": nil}, nil, http.StatusOK
	})

	profile, err := client.UserProfile(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestUserProfile(t *testing.T) {
	client := newTestServer(t, func(string, map[string]any) (any, []graphqlError, int) {
		return map[string]any{
			"matchedUser": map[string]any{
				"username": "gopher",
				"profile":  map[string]any{"realName": "Go Pher", "userAvatar": "http://img", "ranking": 1234},
			},
		}, nil, http.StatusOK
	})

	profile, err := client.UserProfile(context.Background(), "gopher")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "gopher", profile.Username)
	assert.Equal(t, 1234, profile.Ranking)
}

func TestUserSolvedStats(t *testing.T) {
	client := newTestServer(t, func(string, map[string]any) (any, []graphqlError, int) {
		return map[string]any{
			"matchedUser": map[string]any{
				"submitStatsGlobal": map[string]any{
					"acSubmissionNum": []map[string]any{
						{"difficulty": "All", "count": 10},
						{"difficulty": "Easy", "count": 5},
						{"difficulty": "Medium", "count": 4},
						{"difficulty": "Hard", "count": 1},
					},
				},
			},
		}, nil, http.StatusOK
	})

	stats, err := client.UserSolvedStats(context.Background(), "gopher")
	require.NoError(t, err)
	assert.Equal(t, &SolvedStats{Total: 10, Easy: 5, Medium: 4, Hard: 1}, stats)
}

func TestTransportErrorSurfacesAsAPIError(t *testing.T) {
	client := NewClientWithBaseURL("http://127.0.0.1:1", 500*time.Millisecond)

	_, err := client.RecentAcceptedSubmissions(context.Background(), "gopher", 20)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Error(t, apiErr.Unwrap())
}
