package core

import "sort"

// KeyAmount is one grouped total; the slice order is the first-seen
// order of the keys in the input, which keeps downstream formatting
// deterministic and gives ranking its stable tie-break.
type KeyAmount struct {
	Key    string
	Amount Money
}

// TotalsByKey reduces the transactions matching the direction filter
// and the window (relative to ref) into per-key totals. Transactions
// whose key function yields "" contribute to no bucket. An empty input
// yields an empty result, never an error.
func TotalsByKey(txs []Transaction, dir Direction, w Window, ref Date, key func(Transaction) string) []KeyAmount {
	from, to := w.Range(ref)
	index := make(map[string]int)
	var out []KeyAmount
	for _, t := range txs {
		if t.Direction != dir || !t.Date.Within(from, to) {
			continue
		}
		k := key(t)
		if k == "" {
			continue
		}
		if i, ok := index[k]; ok {
			out[i].Amount = out[i].Amount.Add(t.Amount)
			continue
		}
		index[k] = len(out)
		out = append(out, KeyAmount{Key: k, Amount: t.Amount})
	}
	return out
}

// SpendingByCategory groups debit transactions in the window by their
// classification key (first category entry, case-sensitive).
func SpendingByCategory(txs []Transaction, w Window, ref Date) []KeyAmount {
	return TotalsByKey(txs, Debit, w, ref, Transaction.CategoryKey)
}

// SpendingByMerchant groups debit transactions in the window by
// merchant name, falling back to the display name.
func SpendingByMerchant(txs []Transaction, w Window, ref Date) []KeyAmount {
	return TotalsByKey(txs, Debit, w, ref, Transaction.MerchantKey)
}

// TopN sorts grouped totals by descending amount and keeps the first n.
// Equal amounts keep their first-seen order (stable tie-break).
func TopN(totals []KeyAmount, n int) []KeyAmount {
	ranked := make([]KeyAmount, len(totals))
	copy(ranked, totals)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount.Cents > ranked[j].Amount.Cents
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TotalByDirection sums the amounts of all transactions with the given
// direction, with no window filter applied.
func TotalByDirection(txs []Transaction, dir Direction) Money {
	var total Money
	for _, t := range txs {
		if t.Direction == dir {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// sortedByDate returns a date-ordered copy. The source data is usually
// pre-sorted but the builder must not assume it; the sort is stable so
// same-day transactions keep their statement order, which decides which
// running balance closes the day.
func sortedByDate(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
