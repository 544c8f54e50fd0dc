// internal/library/search.go
package library

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sahachari/internal/common/errors"
	"sahachari/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"userId":    {"type": "keyword"},
			"kind":      {"type": "keyword"},
			"title":     {"type": "text"},
			"topic":     {"type": "text"},
			"language":  {"type": "keyword"},
			"content":   {"type": "text"},
			"createdAt": {"type": "date"}
		}
	}
}`

// searchDocument is what gets indexed for one saved item. Payload text is
// flattened into content; the item itself stays in Postgres.
type searchDocument struct {
	UserID    string    `json:"userId"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Topic     string    `json:"topic,omitempty"`
	Language  string    `json:"language,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// SearchIndex is full-text search over saved items. A nil client disables it.
type SearchIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchIndex(client *elasticsearch.Client, index string) *SearchIndex {
	return &SearchIndex{client: client, index: index}
}

func (s *SearchIndex) Enabled() bool {
	return s != nil && s.client != nil
}

// EnsureIndex creates the index with its mapping when missing.
func (s *SearchIndex) EnsureIndex(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}

	res, err := esapi.IndicesExistsRequest{Index: []string{s.index}}.Do(ctx, s.client)
	if err != nil {
		return errors.NewSearchQueryError("index exists", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = esapi.IndicesCreateRequest{
		Index: s.index,
		Body:  strings.NewReader(indexMapping),
	}.Do(ctx, s.client)
	if err != nil {
		return errors.NewSearchQueryError("create index", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return errors.NewSearchQueryError("create index", fmt.Errorf("%s", res.String()))
	}
	return nil
}

func (s *SearchIndex) Index(ctx context.Context, item *models.SavedItem) error {
	if !s.Enabled() {
		return nil
	}

	body, err := json.Marshal(searchDocument{
		UserID:    item.UserID,
		Kind:      string(item.Kind),
		Title:     item.Title,
		Topic:     item.Topic,
		Language:  item.Language,
		Content:   SearchableText(item.Payload),
		CreatedAt: item.CreatedAt,
	})
	if err != nil {
		return errors.NewSearchQueryError("index", err)
	}

	res, err := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: item.ID,
		Body:       bytes.NewReader(body),
	}.Do(ctx, s.client)
	if err != nil {
		return errors.NewSearchQueryError("index", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return errors.NewSearchQueryError("index", fmt.Errorf("%s", res.String()))
	}
	return nil
}

// Remove deletes an item's document. A missing document is not an error.
func (s *SearchIndex) Remove(ctx context.Context, id string) error {
	if !s.Enabled() {
		return nil
	}

	res, err := esapi.DeleteRequest{Index: s.index, DocumentID: id}.Do(ctx, s.client)
	if err != nil {
		return errors.NewSearchQueryError("remove", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return errors.NewSearchQueryError("remove", fmt.Errorf("%s", res.String()))
	}
	return nil
}

// Search returns the IDs of the user's items matching query, best first.
func (s *SearchIndex) Search(ctx context.Context, userID, query string, limit int) ([]string, error) {
	if !s.Enabled() {
		return nil, errors.NewBadRequestError("search is not enabled", "")
	}
	limit = clampLimit(limit)

	body, err := json.Marshal(buildSearchQuery(userID, query))
	if err != nil {
		return nil, errors.NewSearchQueryError("search", err)
	}

	res, err := esapi.SearchRequest{
		Index:  []string{s.index},
		Body:   bytes.NewReader(body),
		Size:   &limit,
		Source: []string{"false"},
	}.Do(ctx, s.client)
	if err != nil {
		return nil, errors.NewSearchQueryError("search", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, errors.NewSearchQueryError("search", fmt.Errorf("%s", res.String()))
	}

	var result struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, errors.NewSearchQueryError("search", err)
	}

	ids := make([]string, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

func buildSearchQuery(userID, query string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":  query,
							"fields": []string{"title^3", "topic^2", "content"},
							"type":   "best_fields",
						},
					},
				},
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{"userId": userID},
					},
				},
			},
		},
	}
}

// SearchableText joins every string value in a JSON payload.
func SearchableText(payload json.RawMessage) string {
	var doc interface{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return ""
	}
	var parts []string
	collectStrings(doc, &parts)
	return strings.Join(parts, " ")
}

func collectStrings(v interface{}, out *[]string) {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" && !strings.HasPrefix(s, "data:") {
			*out = append(*out, s)
		}
	case []interface{}:
		for _, e := range t {
			collectStrings(e, out)
		}
	case map[string]interface{}:
		for _, e := range t {
			collectStrings(e, out)
		}
	}
}
