package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/core"
)

func testStatement() core.Statement {
	return core.Statement{
		Account: core.Account{Balances: core.Balances{Current: core.Money{Cents: 93000}, ISOCurrencyCode: "GBP"}},
		Period: core.Period{
			OpeningBalance: core.Money{Cents: 100000},
			StartDate:      core.NewDate(2025, 7, 1),
			EndDate:        core.NewDate(2025, 7, 31),
		},
		Transactions: []core.Transaction{
			{ID: "a", Name: "Tesco", Direction: core.Debit, Amount: core.Money{Cents: 5000},
				Date: core.NewDate(2025, 7, 1), RunningBalance: core.Money{Cents: 95000}},
			{ID: "b", Name: "TfL", Direction: core.Debit, Amount: core.Money{Cents: 2000},
				Date: core.NewDate(2025, 6, 28), RunningBalance: core.Money{Cents: 93000}},
		},
	}
}

func TestReadStatementReturnsCopy(t *testing.T) {
	store := New(testStatement())

	stmt, err := store.ReadStatement(context.Background())
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 2)

	// Mutating the returned slice must not leak into the store.
	stmt.Transactions[0].Name = "mutated"
	again, err := store.ReadStatement(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Tesco", again.Transactions[0].Name)
}

func TestListTransactionsFiltersByMonth(t *testing.T) {
	store := New(testStatement())

	july, err := store.ListTransactions(context.Background(), 2025, 7)
	require.NoError(t, err)
	require.Len(t, july, 1)
	assert.Equal(t, "a", july[0].ID)

	empty, err := store.ListTransactions(context.Background(), 2025, 1)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNewFromFileMissing(t *testing.T) {
	_, err := NewFromFile("testdata/missing.json")
	assert.Error(t, err)
}
