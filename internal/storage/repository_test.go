package storage

import (
	"context"
	"path/filepath"
	"testing"

	"finsight/internal/core"
	"finsight/internal/log"
)

func testRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "finsight.db")
	repo, err := NewSQLiteRepository(dbPath, log.New(log.DefaultConfig()))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testStatement() core.Statement {
	return core.Statement{
		Account: core.Account{
			Balances: core.Balances{
				Current:         core.Money{Cents: 93000},
				ISOCurrencyCode: "GBP",
			},
		},
		Period: core.Period{
			OpeningBalance: core.Money{Cents: 100000},
			StartDate:      core.NewDate(2025, 7, 1),
			EndDate:        core.NewDate(2025, 7, 31),
		},
		Transactions: []core.Transaction{
			{
				ID:             "tx_001",
				Name:           "TESCO STORES 3042",
				MerchantName:   "Tesco",
				Category:       []string{"Groceries", "Supermarket"},
				Amount:         core.Money{Cents: 5000},
				Direction:      core.Debit,
				Date:           core.NewDate(2025, 7, 1),
				RunningBalance: core.Money{Cents: 95000},
			},
			{
				ID:             "tx_002",
				Name:           "PAYROLL JUNE",
				Category:       []string{"Income"},
				Amount:         core.Money{Cents: 2000},
				Direction:      core.Credit,
				Date:           core.NewDate(2025, 6, 28),
				RunningBalance: core.Money{Cents: 100000},
			},
			{
				ID:             "tx_003",
				Name:           "COSTA COFFEE",
				MerchantName:   "Costa",
				Category:       []string{"Eating Out"},
				Amount:         core.Money{Cents: 450},
				Direction:      core.Debit,
				Date:           core.NewDate(2025, 7, 3),
				RunningBalance: core.Money{Cents: 93000},
			},
		},
	}
}

func TestReadStatementEmpty(t *testing.T) {
	repo := testRepository(t)

	_, err := repo.ReadStatement(context.Background())
	if err != ErrNoStatement {
		t.Fatalf("ReadStatement() error = %v, want ErrNoStatement", err)
	}
}

func TestReplaceAndReadStatement(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	if err := repo.ReplaceStatement(ctx, testStatement()); err != nil {
		t.Fatalf("ReplaceStatement() error: %v", err)
	}

	got, err := repo.ReadStatement(ctx)
	if err != nil {
		t.Fatalf("ReadStatement() error: %v", err)
	}

	if got.Account.Balances.Current.Cents != 93000 {
		t.Errorf("current balance = %d, want 93000", got.Account.Balances.Current.Cents)
	}
	if got.Account.Balances.ISOCurrencyCode != "GBP" {
		t.Errorf("currency = %s, want GBP", got.Account.Balances.ISOCurrencyCode)
	}
	if got.Period.OpeningBalance.Cents != 100000 {
		t.Errorf("opening balance = %d, want 100000", got.Period.OpeningBalance.Cents)
	}
	if got.Period.Label() != "2025-07-01 to 2025-07-31" {
		t.Errorf("period label = %s", got.Period.Label())
	}

	if len(got.Transactions) != 3 {
		t.Fatalf("transactions = %d, want 3", len(got.Transactions))
	}
	// Statement order survives a round trip.
	for i, wantID := range []string{"tx_001", "tx_002", "tx_003"} {
		if got.Transactions[i].ID != wantID {
			t.Errorf("transactions[%d].ID = %s, want %s", i, got.Transactions[i].ID, wantID)
		}
	}

	first := got.Transactions[0]
	if first.MerchantName != "Tesco" {
		t.Errorf("merchant = %s, want Tesco", first.MerchantName)
	}
	if len(first.Category) != 2 || first.Category[0] != "Groceries" {
		t.Errorf("category = %v, want [Groceries Supermarket]", first.Category)
	}
	if first.Direction != core.Debit {
		t.Errorf("direction = %s, want debit", first.Direction)
	}
	if first.Date.String() != "2025-07-01" {
		t.Errorf("date = %s, want 2025-07-01", first.Date)
	}
}

func TestReplaceStatementIsIdempotent(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()
	stmt := testStatement()

	if err := repo.ReplaceStatement(ctx, stmt); err != nil {
		t.Fatalf("first ReplaceStatement() error: %v", err)
	}
	if err := repo.ReplaceStatement(ctx, stmt); err != nil {
		t.Fatalf("second ReplaceStatement() error: %v", err)
	}

	got, err := repo.ReadStatement(ctx)
	if err != nil {
		t.Fatalf("ReadStatement() error: %v", err)
	}
	if len(got.Transactions) != 3 {
		t.Errorf("transactions = %d after re-ingest, want 3", len(got.Transactions))
	}
}

func TestReplaceStatementRemovesStaleRows(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	if err := repo.ReplaceStatement(ctx, testStatement()); err != nil {
		t.Fatalf("first ReplaceStatement() error: %v", err)
	}

	// A fresh statement with entirely different ids must fully replace
	// the old one, not interleave with it.
	next := testStatement()
	next.Transactions = []core.Transaction{
		{
			ID:             "tx_101",
			Name:           "SAINSBURYS S/MKT",
			MerchantName:   "Sainsbury's",
			Category:       []string{"Groceries"},
			Amount:         core.Money{Cents: 3200},
			Direction:      core.Debit,
			Date:           core.NewDate(2025, 8, 2),
			RunningBalance: core.Money{Cents: 89800},
		},
	}
	if err := repo.ReplaceStatement(ctx, next); err != nil {
		t.Fatalf("second ReplaceStatement() error: %v", err)
	}

	got, err := repo.ReadStatement(ctx)
	if err != nil {
		t.Fatalf("ReadStatement() error: %v", err)
	}
	if len(got.Transactions) != 1 {
		t.Fatalf("transactions = %d after replacement, want 1", len(got.Transactions))
	}
	if got.Transactions[0].ID != "tx_101" {
		t.Errorf("transactions[0].ID = %s, want tx_101", got.Transactions[0].ID)
	}

	// An empty statement clears the table.
	next.Transactions = nil
	if err := repo.ReplaceStatement(ctx, next); err != nil {
		t.Fatalf("empty ReplaceStatement() error: %v", err)
	}
	got, err = repo.ReadStatement(ctx)
	if err != nil {
		t.Fatalf("ReadStatement() error: %v", err)
	}
	if len(got.Transactions) != 0 {
		t.Errorf("transactions = %d after empty ingest, want 0", len(got.Transactions))
	}
}

func TestListTransactionsByMonth(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	if err := repo.ReplaceStatement(ctx, testStatement()); err != nil {
		t.Fatalf("ReplaceStatement() error: %v", err)
	}

	july, err := repo.ListTransactions(ctx, 2025, 7)
	if err != nil {
		t.Fatalf("ListTransactions() error: %v", err)
	}
	if len(july) != 2 {
		t.Fatalf("july transactions = %d, want 2", len(july))
	}
	if july[0].ID != "tx_001" || july[1].ID != "tx_003" {
		t.Errorf("july ids = [%s %s], want [tx_001 tx_003]", july[0].ID, july[1].ID)
	}

	june, err := repo.ListTransactions(ctx, 2025, 6)
	if err != nil {
		t.Fatalf("ListTransactions() error: %v", err)
	}
	if len(june) != 1 || june[0].ID != "tx_002" {
		t.Errorf("june transactions = %v, want [tx_002]", june)
	}

	none, err := repo.ListTransactions(ctx, 2024, 12)
	if err != nil {
		t.Fatalf("ListTransactions() error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("december 2024 transactions = %d, want 0", len(none))
	}
}

func TestPendingExportAndMark(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	if err := repo.ReplaceStatement(ctx, testStatement()); err != nil {
		t.Fatalf("ReplaceStatement() error: %v", err)
	}

	pending, err := repo.PendingExport(ctx, 10)
	if err != nil {
		t.Fatalf("PendingExport() error: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("pending = %d, want 3", len(pending))
	}

	limited, err := repo.PendingExport(ctx, 2)
	if err != nil {
		t.Fatalf("PendingExport() error: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited pending = %d, want 2", len(limited))
	}

	if err := repo.MarkExported(ctx, []string{"tx_001", "tx_003"}); err != nil {
		t.Fatalf("MarkExported() error: %v", err)
	}

	pending, err = repo.PendingExport(ctx, 10)
	if err != nil {
		t.Fatalf("PendingExport() error: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "tx_002" {
		t.Errorf("pending after mark = %v, want [tx_002]", pending)
	}

	// Re-ingest keeps export flags.
	if err := repo.ReplaceStatement(ctx, testStatement()); err != nil {
		t.Fatalf("ReplaceStatement() error: %v", err)
	}
	pending, err = repo.PendingExport(ctx, 10)
	if err != nil {
		t.Fatalf("PendingExport() error: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("pending after re-ingest = %d, want 1", len(pending))
	}

	if err := repo.MarkExported(ctx, nil); err != nil {
		t.Errorf("MarkExported(nil) error: %v", err)
	}
}
