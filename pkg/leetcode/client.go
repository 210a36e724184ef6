package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://leetcode.com/graphql"

// APIError is returned for any transport or protocol failure against the
// LeetCode GraphQL API, including error lists reported inside a 200 response.
type APIError struct {
	Operation string
	Status    int
	Message   string
	Err       error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("leetcode: %s: %v", e.Operation, e.Err)
	}
	if e.Status != 0 {
		return fmt.Sprintf("leetcode: %s: status %d: %s", e.Operation, e.Status, e.Message)
	}
	return fmt.Sprintf("leetcode: %s: %s", e.Operation, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Client talks to the LeetCode GraphQL API. One instance is shared across all
// sync activity; it holds no per-call state beyond the underlying connection pool.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a local server.
func NewClientWithBaseURL(baseURL string, timeout time.Duration) *Client {
	c := NewClient(timeout)
	c.baseURL = baseURL
	return c
}

// Close releases idle connections held by the shared HTTP client.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

func (c *Client) query(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	if variables == nil {
		variables = map[string]any{}
	}
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return &APIError{Operation: operation, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return &APIError{Operation: operation, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Operation: operation, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{Operation: operation, Status: resp.StatusCode, Message: string(respBody)}
	}

	var envelope graphqlResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return &APIError{Operation: operation, Err: err}
	}
	if len(envelope.Errors) > 0 {
		return &APIError{Operation: operation, Message: envelope.Errors[0].Message}
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &APIError{Operation: operation, Err: err}
	}
	return nil
}

// Submission is one accepted submission as reported by the API, newest first.
// Timestamp is epoch seconds encoded as a string, exactly as the API sends it.
type Submission struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	TitleSlug string `json:"titleSlug"`
	Timestamp string `json:"timestamp"`
	Lang      string `json:"lang"`
}

const recentAcSubmissionsQuery = `
query getRecentAcSubmissions($username: String!, $limit: Int) {
    recentAcSubmissionList(username: $username, limit: $limit) {
        id
        title
        titleSlug
        timestamp
        lang
    }
}`

// RecentAcceptedSubmissions fetches the user's most recent accepted
// submissions. The limit is capped at 100 to stay clear of upstream rate limits.
func (c *Client) RecentAcceptedSubmissions(ctx context.Context, username string, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var data struct {
		RecentAcSubmissionList []Submission `json:"recentAcSubmissionList"`
	}
	err := c.query(ctx, "recentAcSubmissions", recentAcSubmissionsQuery, map[string]any{
		"username": username,
		"limit":    limit,
	}, &data)
	if err != nil {
		return nil, err
	}
	return data.RecentAcSubmissionList, nil
}

const problemDifficultyQuery = `
query getProblemDetails($titleSlug: String!) {
    question(titleSlug: $titleSlug) {
        questionFrontendId
        title
        titleSlug
        difficulty
    }
}`

// ProblemDifficulty resolves a problem slug to its difficulty string
// (Easy, Medium or Hard).
func (c *Client) ProblemDifficulty(ctx context.Context, titleSlug string) (string, error) {
	var data struct {
		Question *struct {
			Difficulty string `json:"difficulty"`
		} `json:"question"`
	}
	err := c.query(ctx, "problemDifficulty", problemDifficultyQuery, map[string]any{
		"titleSlug": titleSlug,
	}, &data)
	if err != nil {
		return "", err
	}
	if data.Question == nil {
		return "", &APIError{Operation: "problemDifficulty", Message: "question not found: " + titleSlug}
	}
	return data.Question.Difficulty, nil
}

// Profile holds the subset of a LeetCode user profile the tracker cares about.
type Profile struct {
	Username string `json:"username"`
	RealName string `json:"realName"`
	Avatar   string `json:"userAvatar"`
	Ranking  int    `json:"ranking"`
}

const userProfileQuery = `
query getUserProfile($username: String!) {
    matchedUser(username: $username) {
        username
        profile {
            realName
            userAvatar
            ranking
            reputation
        }
    }
}`

// UserProfile fetches a user's public profile. A nil result with no error
// means the username does not exist on LeetCode.
func (c *Client) UserProfile(ctx context.Context, username string) (*Profile, error) {
	var data struct {
		MatchedUser *struct {
			Username string `json:"username"`
			Profile  struct {
				RealName   string `json:"realName"`
				UserAvatar string `json:"userAvatar"`
				Ranking    int    `json:"ranking"`
			} `json:"profile"`
		} `json:"matchedUser"`
	}
	err := c.query(ctx, "userProfile", userProfileQuery, map[string]any{"username": username}, &data)
	if err != nil {
		return nil, err
	}
	if data.MatchedUser == nil {
		return nil, nil
	}
	return &Profile{
		Username: data.MatchedUser.Username,
		RealName: data.MatchedUser.Profile.RealName,
		Avatar:   data.MatchedUser.Profile.UserAvatar,
		Ranking:  data.MatchedUser.Profile.Ranking,
	}, nil
}

// SolvedStats holds solved-problem counts per difficulty.
type SolvedStats struct {
	Total  int `json:"solvedProblem"`
	Easy   int `json:"easySolved"`
	Medium int `json:"mediumSolved"`
	Hard   int `json:"hardSolved"`
}

const userSolvedStatsQuery = `
query getUserSolved($username: String!) {
    matchedUser(username: $username) {
        submitStatsGlobal {
            acSubmissionNum {
                difficulty
                count
            }
        }
    }
}`

// UserSolvedStats fetches per-difficulty solved counts for a user.
func (c *Client) UserSolvedStats(ctx context.Context, username string) (*SolvedStats, error) {
	var data struct {
		MatchedUser *struct {
			SubmitStatsGlobal struct {
				AcSubmissionNum []struct {
					Difficulty string `json:"difficulty"`
					Count      int    `json:"count"`
				} `json:"acSubmissionNum"`
			} `json:"submitStatsGlobal"`
		} `json:"matchedUser"`
	}
	err := c.query(ctx, "userSolvedStats", userSolvedStatsQuery, map[string]any{"username": username}, &data)
	if err != nil {
		return nil, err
	}

	stats := &SolvedStats{}
	if data.MatchedUser == nil {
		return stats, nil
	}
	for _, entry := range data.MatchedUser.SubmitStatsGlobal.AcSubmissionNum {
		switch entry.Difficulty {
		case "All":
			stats.Total = entry.Count
		case "Easy":
			stats.Easy = entry.Count
		case "Medium":
			stats.Medium = entry.Count
		case "Hard":
			stats.Hard = entry.Count
		}
	}
	return stats, nil
}

// Calendar holds a user's submission calendar as reported by LeetCode.
type Calendar struct {
	ActiveYears        []int  `json:"activeYears"`
	Streak             int    `json:"streak"`
	TotalActiveDays    int    `json:"totalActiveDays"`
	SubmissionCalendar string `json:"submissionCalendar"`
}

const userCalendarQuery = `
query getUserCalendar($username: String!, $year: Int) {
    matchedUser(username: $username) {
        userCalendar(year: $year) {
            activeYears
            streak
            totalActiveDays
            submissionCalendar
        }
    }
}`

// UserCalendar fetches the submission calendar. Year 0 means the current year.
func (c *Client) UserCalendar(ctx context.Context, username string, year int) (*Calendar, error) {
	variables := map[string]any{"username": username}
	if year != 0 {
		variables["year"] = year
	}

	var data struct {
		MatchedUser *struct {
			UserCalendar Calendar `json:"userCalendar"`
		} `json:"matchedUser"`
	}
	err := c.query(ctx, "userCalendar", userCalendarQuery, variables, &data)
	if err != nil {
		return nil, err
	}
	if data.MatchedUser == nil {
		return nil, nil
	}
	return &data.MatchedUser.UserCalendar, nil
}

// DailyProblem describes today's daily coding challenge.
type DailyProblem struct {
	Date       string `json:"date"`
	Link       string `json:"link"`
	Title      string `json:"title"`
	TitleSlug  string `json:"titleSlug"`
	Difficulty string `json:"difficulty"`
}

const dailyProblemQuery = `
query questionOfToday {
    activeDailyCodingChallengeQuestion {
        date
        link
        question {
            title
            titleSlug
            difficulty
        }
    }
}`

// TodayProblem fetches the active daily coding challenge.
func (c *Client) TodayProblem(ctx context.Context) (*DailyProblem, error) {
	var data struct {
		ActiveDailyCodingChallengeQuestion *struct {
			Date     string `json:"date"`
			Link     string `json:"link"`
			Question struct {
				Title      string `json:"title"`
				TitleSlug  string `json:"titleSlug"`
				Difficulty string `json:"difficulty"`
			} `json:"question"`
		} `json:"activeDailyCodingChallengeQuestion"`
	}
	err := c.query(ctx, "dailyProblem", dailyProblemQuery, nil, &data)
	if err != nil {
		return nil, err
	}
	if data.ActiveDailyCodingChallengeQuestion == nil {
		return nil, &APIError{Operation: "dailyProblem", Message: "no active daily challenge"}
	}
	q := data.ActiveDailyCodingChallengeQuestion
	return &DailyProblem{
		Date:       q.Date,
		Link:       q.Link,
		Title:      q.Question.Title,
		TitleSlug:  q.Question.TitleSlug,
		Difficulty: q.Question.Difficulty,
	}, nil
}
