package search

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"zelapb/api/internal/store"
)

const (
	BackendMeili  = "meilisearch"
	BackendMemory = "memory"
)

const indexQueueSize = 256

// reportIndexer is the write side of Meilisearch.
type reportIndexer interface {
	IndexReport(rec ReportRecord) error
	Healthy() bool
}

// Service is the facade that tries Meilisearch first and falls back to the
// in-memory scan. Index writes go through one worker so they reach
// Meilisearch in the order they were made.
type Service struct {
	meili   *Meili
	memory  *Memory
	logger  *zap.Logger
	indexer reportIndexer

	mu      sync.Mutex
	closed  bool
	writes  chan ReportRecord
	drained chan struct{}
}

// NewService creates a search service. meili may be nil if Meilisearch is not configured.
func NewService(meili *Meili, memory *Memory, logger *zap.Logger) *Service {
	var indexer reportIndexer
	if meili != nil {
		indexer = meili
	}
	s := newService(indexer, memory, logger)
	s.meili = meili
	return s
}

func newService(indexer reportIndexer, memory *Memory, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{memory: memory, logger: logger, indexer: indexer}
	if indexer != nil {
		s.writes = make(chan ReportRecord, indexQueueSize)
		s.drained = make(chan struct{})
		go s.indexLoop()
	}
	return s
}

func (s *Service) indexLoop() {
	defer close(s.drained)
	for rec := range s.writes {
		if !s.indexer.Healthy() {
			continue
		}
		if err := s.indexer.IndexReport(rec); err != nil {
			s.logger.Warn("index report", zap.String("report_id", rec.ID), zap.Error(err))
		}
	}
}

func (s *Service) Search(ctx context.Context, q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(ctx, q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text, Backend: BackendMeili}
		}
		s.logger.Warn("meilisearch error, falling back to memory", zap.Error(err))
	}

	if s.memory == nil {
		return Response{Results: []Result{}, Query: q.Text, Backend: BackendMemory}
	}
	results, total, err := s.memory.Search(ctx, q)
	if err != nil {
		s.logger.Error("memory search failed", zap.Error(err))
		return Response{Results: []Result{}, Total: 0, Query: q.Text, Backend: BackendMemory}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text, Backend: BackendMemory}
}

// IndexReport queues a report for Meilisearch without waiting for the write.
// A full queue drops the write.
func (s *Service) IndexReport(report store.Report) {
	if s.writes == nil {
		return
	}
	rec := RecordFromReport(report)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.writes <- rec:
	default:
		s.logger.Warn("index queue full, dropping write", zap.String("report_id", rec.ID))
	}
}

// ReindexAll pushes every report into Meilisearch. Called at startup.
func (s *Service) ReindexAll(ctx context.Context, source ReportSource) {
	if s.meili == nil || !s.meili.Healthy() || source == nil {
		return
	}
	reports, err := source.ListReports(ctx)
	if err != nil {
		s.logger.Warn("reindex load failed", zap.Error(err))
		return
	}
	records := make([]ReportRecord, 0, len(reports))
	for _, report := range reports {
		records = append(records, RecordFromReport(report))
	}
	if err := s.meili.IndexReports(records); err != nil {
		s.logger.Warn("reindex reports", zap.Error(err))
	}
}

// Close flushes queued index writes and stops the Meilisearch health
// monitor, if any.
func (s *Service) Close() {
	s.mu.Lock()
	if s.writes != nil && !s.closed {
		s.closed = true
		close(s.writes)
	}
	s.mu.Unlock()
	if s.drained != nil {
		<-s.drained
	}
	if s.meili != nil {
		s.meili.Close()
	}
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
