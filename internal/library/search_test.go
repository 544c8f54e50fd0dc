// internal/library/search_test.go
package library

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"sahachari/internal/common/errors"
	"sahachari/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Elasticsearch Server
// ==========================

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

type fakeES struct {
	mu       sync.Mutex
	requests []recordedRequest
	respond  func(r *http.Request) (int, string)
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	f.mu.Unlock()

	status, payload := f.respond(r)
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, payload)
}

func newSearchIndex(t *testing.T, respond func(r *http.Request) (int, string)) (*SearchIndex, *fakeES) {
	t.Helper()
	fake := &fakeES{respond: respond}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)
	return NewSearchIndex(client, "sahachari-saved-items"), fake
}

// ==========================
// Core Functionality Tests
// ==========================

func TestSearchIndex_Index(t *testing.T) {
	index, fake := newSearchIndex(t, func(r *http.Request) (int, string) {
		return http.StatusCreated, `{"result":"created"}`
	})

	item := &models.SavedItem{
		ID:      "3f1c",
		UserID:  "teacher-1",
		Kind:    models.KindStory,
		Title:   "Raju's fields",
		Topic:   "soil types",
		Payload: json.RawMessage(`{"story":"Black soil holds water","metadata":{"language":"en"}}`),
	}
	require.NoError(t, index.Index(context.Background(), item))

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/sahachari-saved-items/_doc/3f1c", req.Path)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(req.Body), &doc))
	assert.Equal(t, "teacher-1", doc["userId"])
	assert.Equal(t, "story", doc["kind"])
	assert.Contains(t, doc["content"], "Black soil holds water")
}

func TestSearchIndex_Search(t *testing.T) {
	index, fake := newSearchIndex(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{"took":2,"hits":{"total":{"value":2},"hits":[{"_id":"b"},{"_id":"a"}]}}`
	})

	ids, err := index.Search(context.Background(), "teacher-1", "soil", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids)

	require.Len(t, fake.requests, 1)
	assert.Equal(t, "/sahachari-saved-items/_search", fake.requests[0].Path)

	body := fake.requests[0].Body
	assert.Contains(t, body, `"multi_match"`)
	assert.Contains(t, body, `"query":"soil"`)
	assert.Contains(t, body, `{"term":{"userId":"teacher-1"}}`)
}

func TestSearchIndex_Errors(t *testing.T) {
	t.Run("search failure", func(t *testing.T) {
		index, _ := newSearchIndex(t, func(r *http.Request) (int, string) {
			return http.StatusBadRequest, `{"error":{"type":"parsing_exception"}}`
		})
		_, err := index.Search(context.Background(), "teacher-1", "soil", 10)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeSearchQueryFailed))
	})

	t.Run("remove missing document is fine", func(t *testing.T) {
		index, fake := newSearchIndex(t, func(r *http.Request) (int, string) {
			return http.StatusNotFound, `{"result":"not_found"}`
		})
		require.NoError(t, index.Remove(context.Background(), "gone"))
		assert.Equal(t, http.MethodDelete, fake.requests[0].Method)
	})

	t.Run("disabled", func(t *testing.T) {
		disabled := NewSearchIndex(nil, "sahachari-saved-items")
		assert.False(t, disabled.Enabled())
		assert.NoError(t, disabled.Index(context.Background(), &models.SavedItem{ID: "x"}))
		assert.NoError(t, disabled.Remove(context.Background(), "x"))

		_, err := disabled.Search(context.Background(), "teacher-1", "soil", 10)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeBadRequest))
		assert.Equal(t, "search is not enabled", errors.AsStandardError(err).Message)
	})
}

func TestSearchIndex_EnsureIndex(t *testing.T) {
	index, fake := newSearchIndex(t, func(r *http.Request) (int, string) {
		if r.Method == http.MethodHead {
			return http.StatusNotFound, ``
		}
		return http.StatusOK, `{"acknowledged":true}`
	})

	require.NoError(t, index.EnsureIndex(context.Background()))
	require.Len(t, fake.requests, 2)
	assert.Equal(t, http.MethodPut, fake.requests[1].Method)
	assert.True(t, strings.Contains(fake.requests[1].Body, `"userId":    {"type": "keyword"}`))
}

func TestSearchableText(t *testing.T) {
	text := SearchableText(json.RawMessage(`{"worksheets":[{"title":"Plants","questions":[{"question":"Name a leaf"}]}],"image":"data:image/png;base64,AAAA","grade":3}`))
	assert.Contains(t, text, "Plants")
	assert.Contains(t, text, "Name a leaf")
	assert.NotContains(t, text, "base64")

	assert.Empty(t, SearchableText(json.RawMessage(`not json`)))
}
