package core

import "testing"

func debit(id string, day int, cents int64, category, name, merchant string) Transaction {
	return Transaction{
		ID:           id,
		Name:         name,
		MerchantName: merchant,
		Category:     []string{category},
		Amount:       Money{Cents: cents},
		Direction:    Debit,
		Date:         NewDate(2025, 7, day),
	}
}

func TestSpendingByCategoryEmpty(t *testing.T) {
	got := SpendingByCategory(nil, Month, NewDate(2025, 7, 31))
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestSpendingByCategoryGroupsAndFilters(t *testing.T) {
	txs := []Transaction{
		debit("1", 1, 5000, "Groceries", "Tesco", ""),
		debit("2", 3, 2000, "Transport", "TfL", ""),
		debit("3", 5, 1500, "Groceries", "Aldi", ""),
		// Credits never count toward spending.
		{ID: "4", Name: "Salary", Category: []string{"Income"}, Amount: Money{Cents: 100000}, Direction: Credit, Date: NewDate(2025, 7, 25)},
		// Outside the month window.
		debit("5", 1, 9999, "Groceries", "Tesco", ""),
	}
	txs[4].Date = NewDate(2025, 6, 30)

	got := SpendingByCategory(txs, Month, NewDate(2025, 7, 31))
	want := []KeyAmount{
		{Key: "Groceries", Amount: Money{Cents: 6500}},
		{Key: "Transport", Amount: Money{Cents: 2000}},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d buckets, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bucket %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCategorySumsMatchWindowedDebits(t *testing.T) {
	txs := []Transaction{
		debit("1", 2, 1100, "Groceries", "Tesco", ""),
		debit("2", 9, 700, "Eating Out", "Nando's", ""),
		debit("3", 16, 450, "Transport", "TfL", ""),
		debit("4", 30, 2750, "Groceries", "Aldi", ""),
	}
	ref := NewDate(2025, 7, 31)

	var bucketed int64
	for _, ka := range SpendingByCategory(txs, Month, ref) {
		bucketed += ka.Amount.Cents
	}
	from, to := Month.Range(ref)
	var direct int64
	for _, tx := range txs {
		if tx.Direction == Debit && tx.Date.Within(from, to) {
			direct += tx.Amount.Cents
		}
	}
	if bucketed != direct {
		t.Fatalf("category sums %d != windowed debit total %d", bucketed, direct)
	}
}

func TestKeylessTransactionsAreSkipped(t *testing.T) {
	txs := []Transaction{
		{ID: "1", Amount: Money{Cents: 100}, Direction: Debit, Date: NewDate(2025, 7, 2)},
	}
	if got := SpendingByCategory(txs, Month, NewDate(2025, 7, 31)); len(got) != 0 {
		t.Fatalf("no category: expected skip, got %v", got)
	}
	if got := SpendingByMerchant(txs, Month, NewDate(2025, 7, 31)); len(got) != 0 {
		t.Fatalf("no name: expected skip, got %v", got)
	}
}

func TestMerchantKeyFallsBackToName(t *testing.T) {
	txs := []Transaction{
		debit("1", 4, 900, "Groceries", "Tesco Store 221", "Tesco"),
		debit("2", 6, 600, "Groceries", "Corner Shop", ""),
	}
	got := SpendingByMerchant(txs, Month, NewDate(2025, 7, 31))
	if len(got) != 2 || got[0].Key != "Tesco" || got[1].Key != "Corner Shop" {
		t.Fatalf("got %v", got)
	}
}

func TestTopNStableTieBreak(t *testing.T) {
	totals := []KeyAmount{
		{Key: "A", Amount: Money{Cents: 10000}},
		{Key: "B", Amount: Money{Cents: 10000}},
		{Key: "C", Amount: Money{Cents: 5000}},
	}
	got := TopN(totals, 3)
	if got[0].Key != "A" || got[1].Key != "B" || got[2].Key != "C" {
		t.Fatalf("got order %v", got)
	}
	// Input must stay untouched.
	if totals[0].Key != "A" || totals[2].Key != "C" {
		t.Fatal("TopN mutated its input")
	}
}

func TestTopNTruncates(t *testing.T) {
	totals := []KeyAmount{
		{Key: "A", Amount: Money{Cents: 100}},
		{Key: "B", Amount: Money{Cents: 400}},
		{Key: "C", Amount: Money{Cents: 200}},
		{Key: "D", Amount: Money{Cents: 300}},
	}
	got := TopN(totals, 3)
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Key != "B" || got[1].Key != "D" || got[2].Key != "C" {
		t.Fatalf("got order %v", got)
	}
}

func TestWeekWindowFiltering(t *testing.T) {
	txs := []Transaction{
		debit("1", 24, 1000, "Groceries", "Tesco", ""), // day before the window opens
		debit("2", 25, 2000, "Groceries", "Tesco", ""), // first day in window
		debit("3", 31, 3000, "Transport", "TfL", ""),   // reference day
	}
	got := SpendingByCategory(txs, Week, NewDate(2025, 7, 31))
	want := []KeyAmount{
		{Key: "Groceries", Amount: Money{Cents: 2000}},
		{Key: "Transport", Amount: Money{Cents: 3000}},
	}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v", got)
	}
}

func TestTotalByDirection(t *testing.T) {
	txs := []Transaction{
		debit("1", 1, 500, "Groceries", "Tesco", ""),
		debit("2", 2, 700, "Transport", "TfL", ""),
		{ID: "3", Name: "Salary", Amount: Money{Cents: 100000}, Direction: Credit, Date: NewDate(2025, 7, 25)},
	}
	if got := TotalByDirection(txs, Debit); got.Cents != 1200 {
		t.Fatalf("debit total = %d", got.Cents)
	}
	if got := TotalByDirection(txs, Credit); got.Cents != 100000 {
		t.Fatalf("credit total = %d", got.Cents)
	}
	if got := TotalByDirection(nil, Debit); got.Cents != 0 {
		t.Fatalf("empty total = %d", got.Cents)
	}
}
