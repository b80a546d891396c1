// Package search finds reports by free text, through Meilisearch when it is
// reachable and an in-memory scan otherwise.
package search

import (
	"context"

	"zelapb/api/internal/store"
)

// Result is a single search hit returned to the caller.
type Result struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Snippet     string `json:"snippet"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	StatusLabel string `json:"statusLabel"`
}

// Query describes a search request.
type Query struct {
	Text     string
	Category string // empty = all categories
	Status   string // empty = all statuses
	Limit    int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
	Backend string   `json:"backend"`
}

// Searcher can execute a full-text search.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]Result, int, error)
	Healthy() bool
}

// ReportRecord is the data we index for a report. Citizen contact details
// are left out since citizens search the same index.
type ReportRecord struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Summary     string `json:"aiAnalysis"`
	Timestamp   int64  `json:"timestamp"`
}

func RecordFromReport(r store.Report) ReportRecord {
	return ReportRecord{
		ID:          r.ID,
		Description: r.Description,
		Location:    r.Location,
		Category:    r.Category,
		Priority:    string(r.Priority),
		Status:      string(r.Status),
		Summary:     r.AIAnalysis,
		Timestamp:   r.Timestamp.Unix(),
	}
}

func resultFromRecord(rec ReportRecord) Result {
	return Result{
		ID:          rec.ID,
		Title:       firstNonBlank(rec.Summary, rec.Category),
		Snippet:     rec.Description,
		Location:    rec.Location,
		Category:    rec.Category,
		Status:      rec.Status,
		StatusLabel: store.ReportStatus(rec.Status).Label(),
	}
}
