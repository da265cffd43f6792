package core

import "strconv"

// monthStride is the spacing between month-mode chart points; the final
// day of the month is always added even when the stride skips it.
const monthStride = 3

// Series is a chart-ready pair of equal-length sequences.
type Series struct {
	Labels   []string
	Balances []Money
}

// BalanceSeries builds the balance-trend series for the window ending
// at (or containing) ref.
//
// Week mode emits exactly 7 daily points, ref-6 through ref inclusive.
// Month mode emits a point every 3 days of ref's month (1, 4, 7, ...)
// plus the last day of the month. Labels are the day of month as text.
//
// A day with no transaction carries forward the running balance of the
// most recent prior transaction across the entire history, not just the
// window; before the first transaction the opening balance is used.
// Only transactions dated on or before a day may fill that day.
func BalanceSeries(txs []Transaction, w Window, opening Money, ref Date) Series {
	sorted := sortedByDate(txs)

	var days []Date
	if w == Month {
		last := daysInMonth(ref.Year(), ref.Month())
		for day := 1; day <= last; day += monthStride {
			days = append(days, NewDate(ref.Year(), ref.Month(), day))
		}
		if days[len(days)-1].Day() != last {
			days = append(days, NewDate(ref.Year(), ref.Month(), last))
		}
	} else {
		start := ref.AddDays(-6)
		for i := 0; i < 7; i++ {
			days = append(days, start.AddDays(i))
		}
	}

	s := Series{
		Labels:   make([]string, 0, len(days)),
		Balances: make([]Money, 0, len(days)),
	}
	for _, day := range days {
		s.Labels = append(s.Labels, strconv.Itoa(day.Day()))
		s.Balances = append(s.Balances, balanceAt(sorted, day, opening))
	}
	return s
}

// balanceAt returns the running balance after the last transaction
// dated on or before day, or the opening balance when there is none.
func balanceAt(sorted []Transaction, day Date, opening Money) Money {
	balance := opening
	for _, t := range sorted {
		if t.Date.After(day) {
			break
		}
		balance = t.RunningBalance
	}
	return balance
}
