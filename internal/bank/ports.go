// Package bank defines the ports to the statement data and the fixture
// document format the mobile app ships with.
package bank

import (
	"context"

	"finsight/internal/core"
)

// Ports for statement data backends.
type (
	// StatementReader returns the full statement document. The
	// aggregation core treats it as read-only.
	StatementReader interface {
		ReadStatement(ctx context.Context) (core.Statement, error)
	}

	// TransactionLister returns the statement entries for one calendar
	// month, in statement order.
	TransactionLister interface {
		ListTransactions(ctx context.Context, year, month int) ([]core.Transaction, error)
	}
)
