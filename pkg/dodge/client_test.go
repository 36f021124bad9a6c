package dodge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCriteria() SearchCriteria {
	return SearchCriteria{
		ProjectTypes: []string{"Hospital", "Retail"},
		PublishedMin: time.Date(2025, 10, 29, 0, 0, 0, 0, time.UTC),
		PublishedMax: time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestSearch_SinglePage(t *testing.T) {
	var gotReq searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/project/search", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		_ = json.NewEncoder(w).Encode(searchResponse{
			Projects: []Project{{"value": map[string]any{}}, {"value": map[string]any{}}},
			Total:    2,
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1000))
	projects, err := c.Search(context.Background(), testCriteria())
	require.NoError(t, err)
	assert.Len(t, projects, 2)

	assert.Equal(t, []string{"Hospital", "Retail"}, gotReq.Criteria.ProjectTypes)
	assert.Equal(t, "2025-10-29", gotReq.Criteria.PublishDateRange.Min)
	assert.Equal(t, "2025-10-31", gotReq.Criteria.PublishDateRange.Max)
	assert.Equal(t, 100, gotReq.Pagination.Limit)
}

func TestSearch_PagesThroughFeed(t *testing.T) {
	var offsets []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		offsets = append(offsets, req.Pagination.Offset)

		page := make([]Project, 0, 100)
		remaining := 150 - req.Pagination.Offset
		for i := 0; i < min(remaining, 100); i++ {
			page = append(page, Project{})
		}
		_ = json.NewEncoder(w).Encode(searchResponse{Projects: page, Total: 150})
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(1000))
	projects, err := c.Search(context.Background(), testCriteria())
	require.NoError(t, err)
	assert.Len(t, projects, 150)
	assert.Equal(t, []int{0, 100}, offsets)
}

func TestSearch_EmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(searchResponse{Total: 0})
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(1000))
	projects, err := c.Search(context.Background(), testCriteria())
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestSearch_RetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(searchResponse{Projects: []Project{{}}, Total: 1})
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(1000))
	projects, err := c.Search(context.Background(), testCriteria())
	require.NoError(t, err)
	assert.Len(t, projects, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSearch_FailsOn4xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad", WithBaseURL(srv.URL), WithRateLimit(1000))
	_, err := c.Search(context.Background(), testCriteria())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
