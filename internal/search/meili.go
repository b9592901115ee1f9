package search

import (
	"encoding/json"
	"log"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
)

const idxIssues = "civicdesk_issues"

// IssueRecord is the indexed shape of an issue. Contact details and the
// image path stay out of the index; the store remains authoritative.
type IssueRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Area        string `json:"area"`
	City        string `json:"city"`
	IssueType   string `json:"issueType"`
	Description string `json:"description"`
}

// Meili maintains the issue search index.
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili creates a Meilisearch client and configures the issue index.
// The caller should proceed without it when the instance stays unreachable.
func NewMeili(url, apiKey string) *Meili {
	client := meili.New(url, meili.WithAPIKey(apiKey))

	m := &Meili{
		client: client,
		done:   make(chan struct{}),
	}

	if _, err := client.Health(); err != nil {
		log.Printf("search: meilisearch unavailable at %s: %v", url, err)
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        idxIssues,
		PrimaryKey: "id",
	}); err != nil {
		log.Printf("search: create index %s (may already exist): %v", idxIssues, err)
	}

	index := m.client.Index(idxIssues)
	filterable := []interface{}{"city"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		log.Printf("search: update filterable attrs for %s: %v", idxIssues, err)
	}
	searchable := []string{"name", "area", "city", "issueType", "description"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		log.Printf("search: update searchable attrs for %s: %v", idxIssues, err)
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				log.Println("search: meilisearch recovered, reconfiguring index")
				m.configureIndex()
			}
		}
	}
}

// Close stops the background health monitor.
func (m *Meili) Close() {
	close(m.done)
}

// Healthy reports whether Meilisearch is reachable.
func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

// IndexIssue adds an issue to the search index.
func (m *Meili) IndexIssue(rec IssueRecord) error {
	_, err := m.client.Index(idxIssues).AddDocuments([]IssueRecord{rec}, nil)
	return err
}

// SearchIssues returns the ids of issues matching the query, best first.
func (m *Meili) SearchIssues(query string, limit int) ([]int64, error) {
	if limit <= 0 {
		limit = 20
	}
	resp, err := m.client.Index(idxIssues).Search(query, &meili.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		m.healthy.Store(false)
		return nil, err
	}

	ids := make([]int64, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		if id, ok := decodeID(hit); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func decodeID(hit meili.Hit) (int64, bool) {
	raw, ok := hit["id"]
	if !ok {
		return 0, false
	}
	var id int64
	if err := json.Unmarshal(raw, &id); err != nil {
		return 0, false
	}
	return id, true
}
