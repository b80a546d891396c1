package search

import (
	"context"
	"fmt"
	"strings"

	"zelapb/api/internal/store"
)

// ReportSource lists the reports the memory searcher scans.
type ReportSource interface {
	ListReports(ctx context.Context) ([]store.Report, error)
}

// Memory matches the query as a case-insensitive substring of the report's
// description, location, category or summary.
type Memory struct {
	source ReportSource
}

func NewMemory(source ReportSource) *Memory {
	return &Memory{source: source}
}

func (m *Memory) Healthy() bool { return m.source != nil }

func (m *Memory) Search(ctx context.Context, q Query) ([]Result, int, error) {
	reports, err := m.source.ListReports(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	results := []Result{}
	total := 0
	for _, report := range reports {
		if q.Category != "" && report.Category != q.Category {
			continue
		}
		if q.Status != "" && string(report.Status) != q.Status {
			continue
		}
		if needle != "" && !matches(report, needle) {
			continue
		}
		total++
		if len(results) < limit {
			results = append(results, resultFromRecord(RecordFromReport(report)))
		}
	}
	return results, total, nil
}

func matches(report store.Report, needle string) bool {
	for _, field := range []string{report.Description, report.Location, report.Category, report.AIAnalysis} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
