package services

import (
	"context"
	"fmt"
	"log/slog"

	"finsight/internal/bank"
	"finsight/internal/core"
	"finsight/internal/storage"
)

// ExportPublisher publishes statement export requests to the worker.
type ExportPublisher interface {
	PublishStatementExport(ctx context.Context, year, month int) error
}

// StatementService orchestrates statement ingest and export requests
// across the statement source, SQLite and AMQP.
type StatementService struct {
	repo      *storage.SQLiteRepository
	publisher ExportPublisher
	summaries *SummaryService
}

func NewStatementService(repo *storage.SQLiteRepository, publisher ExportPublisher, summaries *SummaryService) *StatementService {
	return &StatementService{
		repo:      repo,
		publisher: publisher,
		summaries: summaries,
	}
}

// Ingest loads the statement from the given source into SQLite and
// drops any cached summaries built from the previous statement.
func (s *StatementService) Ingest(ctx context.Context, source bank.StatementReader) (int, error) {
	stmt, err := source.ReadStatement(ctx)
	if err != nil {
		return 0, fmt.Errorf("read statement source: %w", err)
	}
	if err := s.repo.ReplaceStatement(ctx, stmt); err != nil {
		return 0, fmt.Errorf("store statement: %w", err)
	}
	if s.summaries != nil {
		s.summaries.Invalidate()
	}
	return len(stmt.Transactions), nil
}

// RequestExport publishes an export request for one statement month.
// Publish failures are logged but not returned: the worker's periodic
// sweep picks the rows up anyway.
func (s *StatementService) RequestExport(ctx context.Context, year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("invalid month: %d", month)
	}
	if _, err := core.ParseDate(fmt.Sprintf("%04d-%02d-01", year, month)); err != nil {
		return fmt.Errorf("invalid year: %d", year)
	}

	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, export left to periodic sweep",
			"year", year, "month", month)
		return nil
	}

	if err := s.publisher.PublishStatementExport(ctx, year, month); err != nil {
		slog.ErrorContext(ctx, "Failed to publish export request",
			"year", year, "month", month, "error", err)
	}
	return nil
}
