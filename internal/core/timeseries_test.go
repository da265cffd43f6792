package core

import "testing"

func balTx(id string, day int, cents int64, balance int64) Transaction {
	return Transaction{
		ID:             id,
		Name:           "tx " + id,
		Category:       []string{"Groceries"},
		Amount:         Money{Cents: cents},
		Direction:      Debit,
		Date:           NewDate(2025, 7, day),
		RunningBalance: Money{Cents: balance},
	}
}

func TestWeekSeriesHasSevenPoints(t *testing.T) {
	s := BalanceSeries(nil, Week, Money{Cents: 100000}, NewDate(2025, 7, 31))
	if len(s.Labels) != 7 || len(s.Balances) != 7 {
		t.Fatalf("got %d labels / %d balances", len(s.Labels), len(s.Balances))
	}
	wantLabels := []string{"25", "26", "27", "28", "29", "30", "31"}
	for i, l := range wantLabels {
		if s.Labels[i] != l {
			t.Fatalf("label %d = %q, want %q", i, s.Labels[i], l)
		}
	}
}

func TestEmptyHistoryFallsBackToOpeningBalance(t *testing.T) {
	opening := Money{Cents: 100000}
	for _, w := range []Window{Week, Month} {
		s := BalanceSeries(nil, w, opening, NewDate(2025, 7, 31))
		for i, b := range s.Balances {
			if b != opening {
				t.Fatalf("%s point %d = %d, want opening %d", w, i, b.Cents, opening.Cents)
			}
		}
	}
}

func TestCarryForwardGapFill(t *testing.T) {
	// Day 1 -> 950 carried through day 2, day 3 -> 930.
	txs := []Transaction{
		balTx("1", 1, 5000, 95000),
		balTx("2", 3, 2000, 93000),
	}
	s := BalanceSeries(txs, Month, Money{Cents: 100000}, NewDate(2025, 7, 15))

	byLabel := map[string]Money{}
	for i, l := range s.Labels {
		byLabel[l] = s.Balances[i]
	}
	if byLabel["1"].Cents != 95000 {
		t.Fatalf("day 1 = %d", byLabel["1"].Cents)
	}
	if byLabel["4"].Cents != 93000 {
		t.Fatalf("day 4 = %d", byLabel["4"].Cents)
	}
	// Trailing stride points carry the last known balance.
	if byLabel["31"].Cents != 93000 {
		t.Fatalf("day 31 = %d", byLabel["31"].Cents)
	}
}

func TestWeekGapFillUsesHistoryBeforeWindow(t *testing.T) {
	// A transaction well before the 7-day window still supplies the
	// carry-forward balance inside it.
	txs := []Transaction{balTx("1", 2, 1000, 88000)}
	s := BalanceSeries(txs, Week, Money{Cents: 100000}, NewDate(2025, 7, 31))
	for i, b := range s.Balances {
		if b.Cents != 88000 {
			t.Fatalf("point %d = %d, want carried 88000", i, b.Cents)
		}
	}
}

func TestGapFillNeverReadsFutureBalances(t *testing.T) {
	txs := []Transaction{
		balTx("1", 28, 1000, 70000),
		balTx("2", 30, 1000, 60000),
	}
	s := BalanceSeries(txs, Week, Money{Cents: 100000}, NewDate(2025, 7, 31))
	// Days 25-27 precede every transaction: opening balance.
	for i := 0; i < 3; i++ {
		if s.Balances[i].Cents != 100000 {
			t.Fatalf("day %s = %d, want opening", s.Labels[i], s.Balances[i].Cents)
		}
	}
	// Days 28-29 must not see the day-30 balance.
	if s.Balances[3].Cents != 70000 || s.Balances[4].Cents != 70000 {
		t.Fatalf("days 28/29 = %d/%d, want 70000", s.Balances[3].Cents, s.Balances[4].Cents)
	}
	if s.Balances[5].Cents != 60000 || s.Balances[6].Cents != 60000 {
		t.Fatalf("days 30/31 = %d/%d, want 60000", s.Balances[5].Cents, s.Balances[6].Cents)
	}
}

func TestMonthSeriesIncludesFinalDay(t *testing.T) {
	cases := []struct {
		ref       Date
		wantLast  string
		wantCount int
	}{
		// 31-day month: strides 1,4,...,31 land on the last day.
		{NewDate(2025, 7, 10), "31", 11},
		// 30-day month: stride ends at 28, day 30 is forced.
		{NewDate(2025, 6, 10), "30", 11},
		// Leap February: stride ends at 28, day 29 is forced.
		{NewDate(2024, 2, 10), "29", 11},
	}
	for i, tc := range cases {
		s := BalanceSeries(nil, Month, Money{Cents: 1}, tc.ref)
		if len(s.Labels) != tc.wantCount {
			t.Fatalf("case %d: %d points, want %d (%v)", i, len(s.Labels), tc.wantCount, s.Labels)
		}
		if got := s.Labels[len(s.Labels)-1]; got != tc.wantLast {
			t.Fatalf("case %d: last label %q, want %q", i, got, tc.wantLast)
		}
	}
}

func TestSeriesSortsUnorderedInput(t *testing.T) {
	txs := []Transaction{
		balTx("2", 3, 2000, 93000),
		balTx("1", 1, 5000, 95000),
	}
	s := BalanceSeries(txs, Month, Money{Cents: 100000}, NewDate(2025, 7, 15))
	if s.Balances[0].Cents != 95000 {
		t.Fatalf("day 1 = %d, want 95000", s.Balances[0].Cents)
	}
}

func TestSameDayTransactionsUseLastBalance(t *testing.T) {
	txs := []Transaction{
		balTx("1", 5, 1000, 99000),
		balTx("2", 5, 1000, 98000),
	}
	s := BalanceSeries(txs, Week, Money{Cents: 100000}, NewDate(2025, 7, 5))
	last := s.Balances[len(s.Balances)-1]
	if last.Cents != 98000 {
		t.Fatalf("day 5 = %d, want the later balance 98000", last.Cents)
	}
}
