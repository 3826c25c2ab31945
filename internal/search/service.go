package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	"recruitpath/athlete-portal/athlete-portal-backend/internal/accounts"
)

// Query describes a recruiter directory search.
type Query struct {
	Text           string `form:"q"`
	Sport          string `form:"sport"`
	Position       string `form:"position"`
	GraduationYear int    `form:"graduation_year"`
	Limit          int    `form:"limit"`
	Offset         int    `form:"offset"`
}

// Result is a page of matching profiles.
type Result struct {
	Total    int64                    `json:"total"`
	Profiles []accounts.PublicProfile `json:"profiles"`
}

// Service runs directory searches against the profile index.
type Service struct {
	client *elasticsearch.Client
	index  string
	logger *zap.Logger
}

// NewService creates a new search service.
func NewService(client *elasticsearch.Client, index string, logger *zap.Logger) *Service {
	return &Service{client: client, index: index, logger: logger}
}

// SearchProfiles runs a filtered full-text query over the directory.
func (s *Service) SearchProfiles(ctx context.Context, q Query) (*Result, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	body, err := json.Marshal(buildQuery(q))
	if err != nil {
		return nil, fmt.Errorf("failed to encode search query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
		s.client.Search.WithSize(q.Limit),
		s.client.Search.WithFrom(q.Offset),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("failed to search profiles: %s", res.String())
	}

	var envelope struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source accounts.PublicProfile `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	result := &Result{
		Total:    envelope.Hits.Total.Value,
		Profiles: make([]accounts.PublicProfile, 0, len(envelope.Hits.Hits)),
	}
	for _, hit := range envelope.Hits.Hits {
		result.Profiles = append(result.Profiles, hit.Source)
	}
	return result, nil
}

func buildQuery(q Query) map[string]interface{} {
	must := make([]map[string]interface{}, 0, 4)
	if q.Text != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Text,
				"fields": []string{"first_name", "last_name", "school", "bio"},
			},
		})
	}
	if q.Sport != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"sport": q.Sport},
		})
	}
	if q.Position != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"position": q.Position},
		})
	}
	if q.GraduationYear != 0 {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"graduation_year": q.GraduationYear},
		})
	}
	if len(must) == 0 {
		return map[string]interface{}{
			"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		}
	}
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
	}
}
