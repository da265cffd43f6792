package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"finsight/internal/core"
	"finsight/internal/log"

	_ "modernc.org/sqlite"
)

var ErrNoStatement = errors.New("no statement ingested")

type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceStatement ingests a full statement, replacing any previously
// stored one. Transactions already marked as exported keep the flag.
func (r *SQLiteRepository) ReplaceStatement(ctx context.Context, stmt core.Statement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO statement_meta (id, current_balance_cents, iso_currency_code, opening_balance_cents, period_start, period_end, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			current_balance_cents = excluded.current_balance_cents,
			iso_currency_code = excluded.iso_currency_code,
			opening_balance_cents = excluded.opening_balance_cents,
			period_start = excluded.period_start,
			period_end = excluded.period_end,
			updated_at = CURRENT_TIMESTAMP`,
		stmt.Account.Balances.Current.Cents,
		stmt.Account.Balances.ISOCurrencyCode,
		stmt.Period.OpeningBalance.Cents,
		stmt.Period.StartDate.String(),
		stmt.Period.EndDate.String(),
	)
	if err != nil {
		return fmt.Errorf("upsert statement meta: %w", err)
	}

	for i, t := range stmt.Transactions {
		category, err := json.Marshal(t.Category)
		if err != nil {
			return fmt.Errorf("marshal category for %s: %w", t.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (id, position, name, merchant_name, category, amount_cents, direction, date, running_balance_cents)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				position = excluded.position,
				name = excluded.name,
				merchant_name = excluded.merchant_name,
				category = excluded.category,
				amount_cents = excluded.amount_cents,
				direction = excluded.direction,
				date = excluded.date,
				running_balance_cents = excluded.running_balance_cents`,
			t.ID, i, t.Name, t.MerchantName, string(category),
			t.Amount.Cents, string(t.Direction), t.Date.String(), t.RunningBalance.Cents,
		)
		if err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	// Rows from a previous ingest that are not in this statement are
	// removed; surviving ids keep their exported flag via the upsert.
	if len(stmt.Transactions) == 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
			return fmt.Errorf("clear transactions: %w", err)
		}
	} else {
		placeholders := strings.Repeat("?,", len(stmt.Transactions))
		placeholders = placeholders[:len(placeholders)-1]
		args := make([]any, len(stmt.Transactions))
		for i, t := range stmt.Transactions {
			args[i] = t.ID
		}
		_, err = tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM transactions WHERE id NOT IN (%s)", placeholders),
			args...)
		if err != nil {
			return fmt.Errorf("remove stale transactions: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit statement: %w", err)
	}

	r.logger.InfoContext(ctx, "Statement ingested",
		"transactions", len(stmt.Transactions),
		"period_start", stmt.Period.StartDate.String(),
		"period_end", stmt.Period.EndDate.String())

	return nil
}

// ReadStatement implements bank.StatementReader.
func (r *SQLiteRepository) ReadStatement(ctx context.Context) (core.Statement, error) {
	var stmt core.Statement
	var startDate, endDate string

	row := r.db.QueryRowContext(ctx, `
		SELECT current_balance_cents, iso_currency_code, opening_balance_cents, period_start, period_end
		FROM statement_meta WHERE id = 1`)
	err := row.Scan(
		&stmt.Account.Balances.Current.Cents,
		&stmt.Account.Balances.ISOCurrencyCode,
		&stmt.Period.OpeningBalance.Cents,
		&startDate,
		&endDate,
	)
	if err == sql.ErrNoRows {
		return core.Statement{}, ErrNoStatement
	}
	if err != nil {
		return core.Statement{}, fmt.Errorf("read statement meta: %w", err)
	}

	if stmt.Period.StartDate, err = core.ParseDate(startDate); err != nil {
		return core.Statement{}, fmt.Errorf("parse period start: %w", err)
	}
	if stmt.Period.EndDate, err = core.ParseDate(endDate); err != nil {
		return core.Statement{}, fmt.Errorf("parse period end: %w", err)
	}

	stmt.Transactions, err = r.queryTransactions(ctx, `
		SELECT id, name, merchant_name, category, amount_cents, direction, date, running_balance_cents
		FROM transactions ORDER BY position`)
	if err != nil {
		return core.Statement{}, err
	}

	return stmt, nil
}

// ListTransactions implements bank.TransactionLister.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, year int, month int) ([]core.Transaction, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	return r.queryTransactions(ctx, `
		SELECT id, name, merchant_name, category, amount_cents, direction, date, running_balance_cents
		FROM transactions WHERE date LIKE ? ORDER BY position`, prefix+"%")
}

// PendingExport returns transactions not yet written to the export sheet,
// oldest first, capped at limit.
func (r *SQLiteRepository) PendingExport(ctx context.Context, limit int) ([]core.Transaction, error) {
	return r.queryTransactions(ctx, `
		SELECT id, name, merchant_name, category, amount_cents, direction, date, running_balance_cents
		FROM transactions WHERE exported = 0 ORDER BY position LIMIT ?`, limit)
}

// MarkExported flags the given transactions as exported.
func (r *SQLiteRepository) MarkExported(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE transactions SET exported = 1 WHERE id IN (%s)", placeholders),
		args...)
	if err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil {
		r.logger.InfoContext(ctx, "Transactions marked as exported", "count", n)
	}
	return nil
}

func (r *SQLiteRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var category, direction, date string
		if err := rows.Scan(&t.ID, &t.Name, &t.MerchantName, &category,
			&t.Amount.Cents, &direction, &date, &t.RunningBalance.Cents); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if err := json.Unmarshal([]byte(category), &t.Category); err != nil {
			return nil, fmt.Errorf("unmarshal category for %s: %w", t.ID, err)
		}
		t.Direction = core.Direction(direction)
		if t.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse date for %s: %w", t.ID, err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
