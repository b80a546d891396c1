package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zelapb/api/internal/store"
)

type staticSource struct {
	reports []store.Report
	err     error
}

func (s staticSource) ListReports(context.Context) ([]store.Report, error) {
	return s.reports, s.err
}

func sampleReports() []store.Report {
	return []store.Report{
		{ID: "1", Description: "Lixo acumulado na praça", Location: "Praça da Matriz", Category: store.SpecialtyCleaning, Status: store.StatusPending, CitizenName: "João Silva", ContactPhone: "8398888888", Timestamp: time.Now()},
		{ID: "2", Description: "Buraco na calçada", Location: "Rua das Flores, 120", Category: store.SpecialtyInfrastructure, Status: store.StatusInProgress, AIAnalysis: "Calçada danificada"},
		{ID: "3", Description: "Lâmpada queimada", Location: "Av. Brasil, 500", Category: store.SpecialtyLighting, Status: store.StatusResolved},
	}
}

func TestMemorySearchMatchesCaseInsensitive(t *testing.T) {
	m := NewMemory(staticSource{reports: sampleReports()})

	results, total, err := m.Search(context.Background(), Query{Text: "PRAÇA"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "1", results[0].ID)
	assert.Equal(t, "Pendente", results[0].StatusLabel)
}

func TestMemorySearchFiltersAndLimit(t *testing.T) {
	m := NewMemory(staticSource{reports: sampleReports()})
	ctx := context.Background()

	results, total, err := m.Search(ctx, Query{Status: string(store.StatusResolved)})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "3", results[0].ID)

	results, total, err = m.Search(ctx, Query{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, results, 2)

	results, _, err = m.Search(ctx, Query{Text: "danificada"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Calçada danificada", results[0].Title)
}

func TestServiceFallsBackToMemory(t *testing.T) {
	svc := NewService(nil, NewMemory(staticSource{reports: sampleReports()}), nil)

	resp := svc.Search(context.Background(), Query{Text: "buraco"})
	assert.Equal(t, BackendMemory, resp.Backend)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "buraco", resp.Query)
}

func TestServiceMemoryErrorReturnsEmpty(t *testing.T) {
	svc := NewService(nil, NewMemory(staticSource{err: errors.New("boom")}), nil)

	resp := svc.Search(context.Background(), Query{Text: "x"})
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
}

func TestServiceIndexWithoutMeiliIsNoop(t *testing.T) {
	svc := NewService(nil, nil, nil)
	svc.IndexReport(store.Report{ID: "1"})
	svc.ReindexAll(context.Background(), staticSource{})
	svc.Close()
}

func TestMemorySearchIgnoresCitizenName(t *testing.T) {
	m := NewMemory(staticSource{reports: sampleReports()})

	results, total, err := m.Search(context.Background(), Query{Text: "joão silva"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, results)

	rec := RecordFromReport(sampleReports()[0])
	assert.Equal(t, "1", rec.ID)
	assert.NotContains(t, rec.Description+rec.Location+rec.Summary, "João")
}

type recordingIndexer struct {
	mu       sync.Mutex
	statuses []string
}

func (r *recordingIndexer) IndexReport(rec ReportRecord) error {
	if rec.Status == string(store.StatusInProgress) {
		time.Sleep(20 * time.Millisecond)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, rec.Status)
	return nil
}

func (r *recordingIndexer) Healthy() bool { return true }

func TestServiceIndexesInOrder(t *testing.T) {
	indexer := &recordingIndexer{}
	svc := newService(indexer, nil, nil)

	report := store.Report{ID: "1", Status: store.StatusPending}
	svc.IndexReport(report)
	report.Status = store.StatusInProgress
	svc.IndexReport(report)
	report.Status = store.StatusResolved
	svc.IndexReport(report)
	svc.Close()

	indexer.mu.Lock()
	defer indexer.mu.Unlock()
	assert.Equal(t, []string{"pending", "in_progress", "resolved"}, indexer.statuses)

	// Writes after Close are ignored.
	svc.IndexReport(report)
}
