package services

import (
	"context"
	"fmt"
	"time"

	"finsight/internal/bank"
	"finsight/internal/cache"
	"finsight/internal/core"
)

// SummaryService builds financial summaries from the statement store,
// caching per window and reference date.
type SummaryService struct {
	reader bank.StatementReader
	cache  *cache.LRUCache[core.FinancialSummary]
}

func NewSummaryService(reader bank.StatementReader) *SummaryService {
	return &SummaryService{
		reader: reader,
		cache:  cache.NewLRUCache[core.FinancialSummary](64, 5*time.Minute),
	}
}

// Summary implements assistant.SummaryProvider.
func (s *SummaryService) Summary(ctx context.Context, w core.Window, ref core.Date) (core.FinancialSummary, error) {
	key := fmt.Sprintf("%s:%s", w, ref)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	stmt, err := s.reader.ReadStatement(ctx)
	if err != nil {
		return core.FinancialSummary{}, fmt.Errorf("read statement: %w", err)
	}

	summary := core.BuildSummary(stmt, w, ref)
	s.cache.Set(key, summary)
	return summary, nil
}

// Invalidate drops all cached summaries, called after an ingest.
func (s *SummaryService) Invalidate() {
	s.cache.Purge()
}
