package worker

import (
	"context"
	"fmt"
	"log/slog"

	"finsight/internal/amqp"
	"finsight/internal/core"
	"finsight/internal/sheets"
)

// Storage is the slice of the repository the export worker needs.
type Storage interface {
	ListTransactions(ctx context.Context, year int, month int) ([]core.Transaction, error)
	PendingExport(ctx context.Context, limit int) ([]core.Transaction, error)
	MarkExported(ctx context.Context, ids []string) error
}

// ExportWorker pushes statement transactions from storage to the
// export spreadsheet.
type ExportWorker struct {
	storage   Storage
	sheets    sheets.TransactionWriter
	currency  string
	batchSize int
}

func NewExportWorker(storage Storage, sheets sheets.TransactionWriter, currency string, batchSize int) *ExportWorker {
	return &ExportWorker{
		storage:   storage,
		sheets:    sheets,
		currency:  currency,
		batchSize: batchSize,
	}
}

// HandleExportMessage processes a single statement export message from AMQP.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.StatementExportMessage) error {
	slog.InfoContext(ctx, "Processing export message",
		"year", msg.Year,
		"month", msg.Month)

	txs, err := w.storage.ListTransactions(ctx, msg.Year, msg.Month)
	if err != nil {
		return fmt.Errorf("list transactions from storage: %w", err)
	}
	if len(txs) == 0 {
		slog.InfoContext(ctx, "No transactions for requested month",
			"year", msg.Year,
			"month", msg.Month)
		return nil
	}

	return w.exportToSheets(ctx, txs)
}

// ProcessPendingTransactions exports any transactions that have not
// been written to the sheet yet. This is a backup mechanism in case
// AMQP messages are lost.
func (w *ExportWorker) ProcessPendingTransactions(ctx context.Context) error {
	pending, err := w.storage.PendingExport(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))
	return w.exportToSheets(ctx, pending)
}

// StartupExportCheck drains the pending backlog at worker startup.
// Useful to recover from missed AMQP messages or worker downtime.
func (w *ExportWorker) StartupExportCheck(ctx context.Context) error {
	pending, err := w.storage.PendingExport(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	if err := w.exportToSheets(ctx, pending); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Startup export completed", "count", len(pending))
	return nil
}

func (w *ExportWorker) exportToSheets(ctx context.Context, txs []core.Transaction) error {
	ref, err := w.sheets.AppendTransactions(ctx, w.currency, txs)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	ids := make([]string, len(txs))
	for i, t := range txs {
		ids[i] = t.ID
	}
	if err := w.storage.MarkExported(ctx, ids); err != nil {
		// The append worked; the rows will be re-exported next sweep.
		slog.ErrorContext(ctx, "Failed to mark transactions as exported",
			"count", len(ids),
			"error", err)
		return fmt.Errorf("mark exported: %w", err)
	}

	slog.InfoContext(ctx, "Exported transactions to sheet",
		"count", len(txs),
		"sheets_ref", ref)
	return nil
}
