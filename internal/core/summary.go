package core

// RecentTransactionCount is how many trailing statement entries a
// summary carries for display and for the assistant prompt.
const RecentTransactionCount = 10

// TopMerchantCount is the ranking depth for the merchant leaderboard.
const TopMerchantCount = 3

// RecentTransaction is the compact view of a statement entry used in
// summaries.
type RecentTransaction struct {
	Date      Date
	Name      string
	Amount    Money
	Direction Direction
	Category  string
}

// FinancialSummary is the aggregation bundle consumed by the dashboard
// endpoints and the assistant prompt formatter.
type FinancialSummary struct {
	CurrentBalance  Money
	OpeningBalance  Money
	NetChange       Money
	TotalIncome     Money
	TotalSpending   Money
	ByCategory      []KeyAmount
	TopMerchants    []KeyAmount
	Recent          []RecentTransaction
	DailySpendAvg   Money
	Currency        string
	PeriodLabel     string
	Window          Window
	ReferenceDate   Date
	BalanceSeries   Series
	TransactionDays int
}

// BuildSummary computes the full summary for one window. It is a pure
// function of its inputs: the reference date is explicit so the result
// is reproducible for a fixed statement.
func BuildSummary(stmt Statement, w Window, ref Date) FinancialSummary {
	txs := stmt.Transactions
	totalSpending := TotalByDirection(txs, Debit)

	// Daily average over the statement period, measured by the day of
	// month its end date falls on.
	days := stmt.Period.EndDate.Day()
	var avg Money
	if days > 0 {
		avg = Money{Cents: totalSpending.Cents / int64(days)}
	}

	s := FinancialSummary{
		CurrentBalance:  stmt.Account.Balances.Current,
		OpeningBalance:  stmt.Period.OpeningBalance,
		NetChange:       stmt.Account.Balances.Current.Sub(stmt.Period.OpeningBalance),
		TotalIncome:     TotalByDirection(txs, Credit),
		TotalSpending:   totalSpending,
		ByCategory:      SpendingByCategory(txs, w, ref),
		TopMerchants:    TopN(SpendingByMerchant(txs, w, ref), TopMerchantCount),
		DailySpendAvg:   avg,
		Currency:        stmt.Account.Balances.ISOCurrencyCode,
		PeriodLabel:     stmt.Period.Label(),
		Window:          w,
		ReferenceDate:   ref,
		BalanceSeries:   BalanceSeries(txs, w, stmt.Period.OpeningBalance, ref),
		TransactionDays: days,
	}

	// Last N entries in statement order, oldest of the N first.
	start := len(txs) - RecentTransactionCount
	if start < 0 {
		start = 0
	}
	for _, t := range txs[start:] {
		s.Recent = append(s.Recent, RecentTransaction{
			Date:      t.Date,
			Name:      t.Name,
			Amount:    t.Amount,
			Direction: t.Direction,
			Category:  t.CategoryKey(),
		})
	}
	return s
}
