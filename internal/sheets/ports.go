package sheets

import (
	"context"

	"finsight/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionWriter appends statement transactions to an export
	// destination and returns a reference to the written rows.
	TransactionWriter interface {
		AppendTransactions(ctx context.Context, currency string, txs []core.Transaction) (rowRef string, err error)
	}
)
