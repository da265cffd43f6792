package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Credit Direction = "credit"
	Debit  Direction = "debit"
)

const (
	Week  Window = "week"
	Month Window = "month"
)

type (
	// Direction marks whether a transaction increases (credit) or
	// decreases (debit) the account balance.
	Direction string

	// Window selects the trailing 7-day range ending at a reference
	// date, or the full calendar month of the reference date.
	Window string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is an immutable statement entry supplied by the data
	// source. RunningBalance is authoritative: balances are never
	// derived by summing amounts.
	Transaction struct {
		ID             string
		Name           string
		MerchantName   string
		Category       []string
		Amount         Money
		Direction      Direction
		Date           Date
		RunningBalance Money
	}

	// Period is the statement boundary; OpeningBalance is the fallback
	// balance for days with no prior transaction at all.
	Period struct {
		OpeningBalance Money
		StartDate      Date
		EndDate        Date
	}

	Balances struct {
		Current         Money
		ISOCurrencyCode string
	}

	Account struct {
		Balances Balances
	}

	// Statement is the full read-only document the aggregator works on.
	Statement struct {
		Account      Account
		Period       Period
		Transactions []Transaction
	}
)

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidWindow    = errors.New("invalid window")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyID          = errors.New("empty transaction id")
)

func (d Direction) Valid() bool {
	return d == Credit || d == Debit
}

func (w Window) Valid() bool {
	return w == Week || w == Month
}

// ParseWindow maps a query/CLI string onto a Window, defaulting to Week
// for the empty string.
func ParseWindow(s string) (Window, error) {
	switch Window(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return Week, nil
	case Week:
		return Week, nil
	case Month:
		return Month, nil
	default:
		return "", ErrInvalidWindow
	}
}

// Range returns the inclusive date range the window covers for the
// given reference date: the trailing 7 days for Week, the reference
// date's calendar month for Month.
func (w Window) Range(ref Date) (Date, Date) {
	switch w {
	case Month:
		first := NewDate(ref.Year(), ref.Month(), 1)
		last := NewDate(ref.Year(), ref.Month(), daysInMonth(ref.Year(), ref.Month()))
		return first, last
	default:
		return ref.AddDays(-6), ref
	}
}

// NewDate creates a calendar date; time-of-day is always midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

func (d Date) Day() int   { return d.Time.Day() }
func (d Date) Month() int { return int(d.Time.Month()) }
func (d Date) Year() int  { return d.Time.Year() }

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time.AddDate(0, 0, n))
}

func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool  { return d.Time.Equal(o.Time) }

// Within reports whether d falls in [from, to], inclusive on both ends.
func (d Date) Within(from, to Date) bool {
	return !d.Before(from) && !d.After(to)
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func daysInMonth(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Validate checks the invariants the aggregator relies on. Schema-level
// gaps (missing merchant or category) are legal and handled by the
// aggregation rules, so they are not validation errors.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if !t.Direction.Valid() {
		return ErrInvalidDirection
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return errors.New("zero transaction date")
	}
	return nil
}

// CategoryKey returns the classification key: the first category entry,
// exact-match and case-sensitive. Empty when the transaction carries no
// category.
func (t Transaction) CategoryKey() string {
	if len(t.Category) == 0 {
		return ""
	}
	return t.Category[0]
}

// MerchantKey returns merchantName when present, else the display name.
func (t Transaction) MerchantKey() string {
	if t.MerchantName != "" {
		return t.MerchantName
	}
	return t.Name
}

// Label renders the period as "start to end" for summaries and prompts.
func (p Period) Label() string {
	return p.StartDate.String() + " to " + p.EndDate.String()
}
