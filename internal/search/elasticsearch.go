package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ticketdesk/internal/config"
	"ticketdesk/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticsearchClient indexes published events for discovery
type ElasticsearchClient struct {
	client *elasticsearch.Client
	config config.ElasticsearchConfig
}

// Query filters an event search
type Query struct {
	Text     string
	Status   models.EventStatus
	Page     int
	PageSize int
}

func NewElasticsearchClient(ctx context.Context, cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	client := &ElasticsearchClient{
		client: es,
		config: cfg,
	}

	if err := client.ensureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return client, nil
}

func (c *ElasticsearchClient) ensureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{c.config.Index}}.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		slog.Info("Elasticsearch index already exists", "index", c.config.Index)
		return nil
	}

	mappingJSON, err := json.Marshal(indexMapping())
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	createRes, err := esapi.IndicesCreateRequest{
		Index: c.config.Index,
		Body:  bytes.NewReader(mappingJSON),
	}.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}

	slog.Info("Created Elasticsearch index", "index", c.config.Index)
	return nil
}

func indexMapping() map[string]interface{} {
	text := map[string]interface{}{"type": "text", "analyzer": "event_analyzer"}
	keyword := map[string]interface{}{"type": "keyword"}

	return map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
			"analysis": map[string]interface{}{
				"analyzer": map[string]interface{}{
					"event_analyzer": map[string]interface{}{
						"type":      "custom",
						"tokenizer": "standard",
						"filter":    []string{"lowercase", "english_stop", "english_stemmer"},
					},
				},
				"filter": map[string]interface{}{
					"english_stop": map[string]interface{}{
						"type":      "stop",
						"stopwords": "_english_",
					},
					"english_stemmer": map[string]interface{}{
						"type":     "stemmer",
						"language": "english",
					},
				},
			},
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"eventId": keyword,
				"name": map[string]interface{}{
					"type":     "text",
					"analyzer": "event_analyzer",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{
							"type":         "keyword",
							"ignore_above": 256,
						},
					},
				},
				"description":    text,
				"venue":          text,
				"status":         keyword,
				"startDate":      keyword,
				"endDate":        keyword,
				"price":          map[string]interface{}{"type": "double"},
				"paidEvent":      map[string]interface{}{"type": "boolean"},
				"isApprovalFlow": map[string]interface{}{"type": "boolean"},
				"maximumSlots":   map[string]interface{}{"type": "integer"},
			},
		},
	}
}

func (c *ElasticsearchClient) GetByID(ctx context.Context, eventID string) (*models.Event, error) {
	res, err := esapi.GetRequest{
		Index:      c.config.Index,
		DocumentID: eventID,
	}.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var response struct {
		Source models.Event `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &response.Source, nil
}

func (c *ElasticsearchClient) Search(ctx context.Context, q Query) ([]models.Event, error) {
	body, err := json.Marshal(buildSearchRequest(q))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{c.config.Index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var response struct {
		Hits struct {
			Hits []struct {
				Source models.Event `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	events := make([]models.Event, len(response.Hits.Hits))
	for i, hit := range response.Hits.Hits {
		events[i] = hit.Source
	}

	return events, nil
}

func buildSearchRequest(q Query) map[string]interface{} {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	from := 0
	if q.Page > 0 {
		from = (q.Page - 1) * pageSize
	}

	return map[string]interface{}{
		"query": buildSearchQuery(q),
		"sort":  buildSortQuery(q.Text),
		"from":  from,
		"size":  pageSize,
	}
}

func buildSearchQuery(q Query) map[string]interface{} {
	var must, filter []map[string]interface{}

	if q.Text != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     q.Text,
				"fields":    []string{"name^2", "description", "venue"},
				"fuzziness": "AUTO",
			},
		})
	}

	if q.Status != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"status": string(q.Status)},
		})
	}

	if len(must) == 0 && len(filter) == 0 {
		return map[string]interface{}{
			"match_all": map[string]interface{}{},
		}
	}

	boolQuery := map[string]interface{}{}
	if len(must) > 0 {
		boolQuery["must"] = must
	}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}
	return map[string]interface{}{"bool": boolQuery}
}

func buildSortQuery(text string) []map[string]interface{} {
	if text != "" {
		return []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
			{"startDate": map[string]interface{}{"order": "asc"}},
		}
	}
	return []map[string]interface{}{
		{"startDate": map[string]interface{}{"order": "asc"}},
		{"eventId": map[string]interface{}{"order": "asc"}},
	}
}

func (c *ElasticsearchClient) IndexEvent(ctx context.Context, event *models.Event) error {
	if event.EventID == "" {
		return fmt.Errorf("event has no id")
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	res, err := esapi.IndexRequest{
		Index:      c.config.Index,
		DocumentID: event.EventID,
		Body:       bytes.NewReader(eventJSON),
		Refresh:    "wait_for",
	}.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to index event: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing error: %s", res.String())
	}

	return nil
}

func (c *ElasticsearchClient) DeleteEvent(ctx context.Context, eventID string) error {
	res, err := esapi.DeleteRequest{
		Index:      c.config.Index,
		DocumentID: eventID,
		Refresh:    "wait_for",
	}.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete error: %s", res.String())
	}

	return nil
}

func (c *ElasticsearchClient) Count(ctx context.Context, q Query) (int64, error) {
	body, err := json.Marshal(map[string]interface{}{"query": buildSearchQuery(q)})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal count query: %w", err)
	}

	res, err := esapi.CountRequest{
		Index: []string{c.config.Index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, c.client)
	if err != nil {
		return 0, fmt.Errorf("failed to execute count: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("count error: %s", res.String())
	}

	var response struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return 0, fmt.Errorf("failed to decode count response: %w", err)
	}

	return response.Count, nil
}

func (c *ElasticsearchClient) HealthCheck(ctx context.Context) error {
	res, err := esapi.ClusterHealthRequest{
		WaitForStatus: "yellow",
		Timeout:       10 * time.Second,
	}.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("health check error: %s", res.String())
	}

	return nil
}
