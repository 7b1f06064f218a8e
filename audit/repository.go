// audit/repository.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	abac_errors "github.com/frontendfixll/laundry-abac/errors"
)

type Repository interface {
	LogDecision(ctx context.Context, entry DecisionLogEntry) error
	QueryLogs(ctx context.Context, filter Filter, page, limit int) ([]DecisionLogEntry, int64, error)
	GetDecision(ctx context.Context, decisionID string) (*DecisionLogEntry, error)
	CountByDecision(ctx context.Context, filter Filter) (map[string]int64, error)
}

type ElasticsearchRepository struct {
	esClient *elasticsearch.Client
	index    string
}

// NewElasticsearchRepository creates a decision log repository backed by the
// given Elasticsearch URL and index.
func NewElasticsearchRepository(esURL, index string) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}
	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &ElasticsearchRepository{esClient: esClient, index: index}, nil
}

// LogDecision appends one decision log entry. The document ID is the
// decision ID, so a retried write is idempotent rather than a duplicate.
func (r *ElasticsearchRepository) LogDecision(ctx context.Context, entry DecisionLogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: entry.DecisionID,
		Body:       strings.NewReader(string(data)),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, r.esClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing decision log: %s", res.String())
	}

	return nil
}

// QueryLogs returns one page of entries under the filter, newest first, plus
// the total hit count for pagination.
func (r *ElasticsearchRepository) QueryLogs(ctx context.Context, filter Filter, page, limit int) ([]DecisionLogEntry, int64, error) {
	query := map[string]interface{}{
		"query": filterQuery(filter),
		"sort": []interface{}{
			map[string]interface{}{"createdAt": map[string]interface{}{"order": "desc"}},
		},
		"from": (page - 1) * limit,
		"size": limit,
	}

	var buf strings.Builder
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, 0, err
	}

	res, err := r.esClient.Search(
		r.esClient.Search.WithContext(ctx),
		r.esClient.Search.WithIndex(r.index),
		r.esClient.Search.WithBody(strings.NewReader(buf.String())),
	)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("error searching decision logs: %s", res.String())
	}

	var rmap map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&rmap); err != nil {
		return nil, 0, err
	}

	hitsWrapper, ok := rmap["hits"].(map[string]interface{})
	if !ok {
		return nil, 0, abac_errors.ErrAuditQueryFailed
	}

	total := totalHits(hitsWrapper)
	hits, _ := hitsWrapper["hits"].([]interface{})
	logs := make([]DecisionLogEntry, 0, len(hits))
	for _, hit := range hits {
		doc, ok := hit.(map[string]interface{})
		if !ok {
			return nil, 0, abac_errors.ErrAuditQueryFailed
		}
		data, err := json.Marshal(doc["_source"])
		if err != nil {
			return nil, 0, err
		}
		var entry DecisionLogEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil, 0, err
		}
		logs = append(logs, entry)
	}

	return logs, total, nil
}

// GetDecision retrieves a single entry by decision ID.
func (r *ElasticsearchRepository) GetDecision(ctx context.Context, decisionID string) (*DecisionLogEntry, error) {
	req := esapi.GetRequest{
		Index:      r.index,
		DocumentID: decisionID,
	}

	res, err := req.Do(ctx, r.esClient)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, abac_errors.ErrDecisionLogNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("error fetching decision log: %s", res.String())
	}

	var doc struct {
		Source DecisionLogEntry `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, err
	}

	return &doc.Source, nil
}

// CountByDecision aggregates entry counts by decision over the full filtered
// set.
func (r *ElasticsearchRepository) CountByDecision(ctx context.Context, filter Filter) (map[string]int64, error) {
	query := map[string]interface{}{
		"query": filterQuery(filter),
		"size":  0,
		"aggs": map[string]interface{}{
			"by_decision": map[string]interface{}{
				"terms": map[string]interface{}{"field": "decision.keyword"},
			},
		},
	}

	var buf strings.Builder
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	res, err := r.esClient.Search(
		r.esClient.Search.WithContext(ctx),
		r.esClient.Search.WithIndex(r.index),
		r.esClient.Search.WithBody(strings.NewReader(buf.String())),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error aggregating decision logs: %s", res.String())
	}

	var rmap map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&rmap); err != nil {
		return nil, err
	}

	counts := map[string]int64{}
	aggs, _ := rmap["aggregations"].(map[string]interface{})
	byDecision, _ := aggs["by_decision"].(map[string]interface{})
	buckets, _ := byDecision["buckets"].([]interface{})
	for _, b := range buckets {
		bucket, ok := b.(map[string]interface{})
		if !ok {
			continue
		}
		key, _ := bucket["key"].(string)
		count, _ := bucket["doc_count"].(float64)
		counts[key] = int64(count)
	}

	return counts, nil
}

func filterQuery(filter Filter) map[string]interface{} {
	must := []interface{}{}
	if filter.Decision != "" {
		must = append(must, termQuery("decision.keyword", string(filter.Decision)))
	}
	if filter.ResourceType != "" {
		must = append(must, termQuery("resourceType.keyword", filter.ResourceType))
	}
	if filter.Action != "" {
		must = append(must, termQuery("action.keyword", filter.Action))
	}
	if filter.UserID != "" {
		must = append(must, termQuery("userId.keyword", filter.UserID))
	}
	if len(must) == 0 {
		return map[string]interface{}{"match_all": map[string]interface{}{}}
	}
	return map[string]interface{}{
		"bool": map[string]interface{}{"must": must},
	}
}

func termQuery(field, value string) map[string]interface{} {
	return map[string]interface{}{
		"term": map[string]interface{}{field: value},
	}
}

func totalHits(hitsWrapper map[string]interface{}) int64 {
	switch t := hitsWrapper["total"].(type) {
	case map[string]interface{}:
		if v, ok := t["value"].(float64); ok {
			return int64(v)
		}
	case float64:
		return int64(t)
	}
	return 0
}
