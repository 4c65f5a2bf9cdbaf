// Package search mirrors portfolio projects into Elasticsearch for the
// public gallery search.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/portofolio/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

type ProjectIndex struct {
	es    *elasticsearch.Client
	index string
}

// NewProjectIndex returns nil when es is nil or index is empty; a nil
// *ProjectIndex reports Enabled() == false.
func NewProjectIndex(es *elasticsearch.Client, index string) *ProjectIndex {
	if es == nil || index == "" {
		return nil
	}
	return &ProjectIndex{es: es, index: index}
}

func (x *ProjectIndex) Enabled() bool { return x != nil }

type projectDoc struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	TitleID   string    `json:"title_id"`
	TitleEN   string    `json:"title_en"`
	DescID    string    `json:"description_id"`
	DescEN    string    `json:"description_en"`
	Category  string    `json:"category"`
	TechStack []string  `json:"tech_stack"`
	Featured  bool      `json:"featured"`
	CreatedAt time.Time `json:"created_at"`
}

func toDoc(p *entity.Project) projectDoc {
	return projectDoc{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		TitleID:   p.Title.ID,
		TitleEN:   p.Title.EN,
		DescID:    p.Description.ID,
		DescEN:    p.Description.EN,
		Category:  p.Category,
		TechStack: p.TechStack,
		Featured:  p.Featured,
		CreatedAt: p.CreatedAt,
	}
}

func (x *ProjectIndex) Index(ctx context.Context, p *entity.Project) error {
	if !x.Enabled() {
		return nil
	}
	b, err := json.Marshal(toDoc(p))
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.IndexRequest{Index: x.index, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

func (x *ProjectIndex) Delete(ctx context.Context, id string) error {
	if !x.Enabled() {
		return nil
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.DeleteRequest{Index: x.index, DocumentID: id}
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

type Query struct {
	OwnerID  string
	Text     string
	Category string
	From     int
	Size     int
}

// Body builds the search request body. Exported for tests.
func (q Query) Body() map[string]any {
	filter := []any{
		map[string]any{"term": map[string]any{"owner_id": q.OwnerID}},
	}
	if q.Category != "" {
		filter = append(filter, map[string]any{"term": map[string]any{"category": q.Category}})
	}
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q.Text,
						"fields": []string{"title_id^2", "title_en^2", "description_id", "description_en", "tech_stack"},
					},
				},
				"filter": filter,
			},
		},
		"from":    q.From,
		"size":    q.Size,
		"_source": false,
	}
}

// Search returns matching project ids in relevance order and the total hit count.
func (x *ProjectIndex) Search(ctx context.Context, q Query) ([]string, int, error) {
	if !x.Enabled() {
		return nil, 0, nil
	}
	b, err := json.Marshal(q.Body())
	if err != nil {
		return nil, 0, err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(b)),
		x.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, 0, fmt.Errorf("es search: %s", res.Status())
	}
	return decodeHits(res.Body)
}

func decodeHits(body io.Reader) ([]string, int, error) {
	var parsed struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return nil, 0, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, parsed.Hits.Total.Value, nil
}
