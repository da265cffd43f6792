package bank

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"finsight/internal/core"
)

// Wire shapes of the banking fixture document. Field names follow the
// upstream (Plaid-style) snake_case schema; amounts are decimal values
// converted to cents on decode.
type (
	fixtureDocument struct {
		Account      fixtureAccount       `json:"account"`
		Period       fixturePeriod        `json:"period"`
		Transactions []fixtureTransaction `json:"transactions"`
	}

	fixtureAccount struct {
		Balances struct {
			Current         float64 `json:"current"`
			ISOCurrencyCode string  `json:"iso_currency_code"`
		} `json:"balances"`
	}

	fixturePeriod struct {
		OpeningBalance float64 `json:"opening_balance"`
		StartDate      string  `json:"start_date"`
		EndDate        string  `json:"end_date"`
	}

	fixtureTransaction struct {
		TransactionID  string   `json:"transaction_id"`
		Amount         float64  `json:"amount"`
		Direction      string   `json:"direction"`
		Date           string   `json:"date"`
		Name           string   `json:"name"`
		MerchantName   string   `json:"merchant_name,omitempty"`
		Category       []string `json:"category"`
		RunningBalance float64  `json:"running_balance"`
	}
)

// DecodeStatement parses a fixture document into the domain statement.
func DecodeStatement(r io.Reader) (core.Statement, error) {
	var doc fixtureDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return core.Statement{}, fmt.Errorf("decode statement document: %w", err)
	}

	start, err := core.ParseDate(doc.Period.StartDate)
	if err != nil {
		return core.Statement{}, fmt.Errorf("parse period start date: %w", err)
	}
	end, err := core.ParseDate(doc.Period.EndDate)
	if err != nil {
		return core.Statement{}, fmt.Errorf("parse period end date: %w", err)
	}

	stmt := core.Statement{
		Account: core.Account{Balances: core.Balances{
			Current:         core.MoneyFromFloat(doc.Account.Balances.Current),
			ISOCurrencyCode: doc.Account.Balances.ISOCurrencyCode,
		}},
		Period: core.Period{
			OpeningBalance: core.MoneyFromFloat(doc.Period.OpeningBalance),
			StartDate:      start,
			EndDate:        end,
		},
	}

	for i, ft := range doc.Transactions {
		date, err := core.ParseDate(ft.Date)
		if err != nil {
			return core.Statement{}, fmt.Errorf("transaction %d (%s): parse date: %w", i, ft.TransactionID, err)
		}
		tx := core.Transaction{
			ID:             ft.TransactionID,
			Name:           ft.Name,
			MerchantName:   ft.MerchantName,
			Category:       ft.Category,
			Amount:         core.MoneyFromFloat(ft.Amount),
			Direction:      core.Direction(ft.Direction),
			Date:           date,
			RunningBalance: core.MoneyFromFloat(ft.RunningBalance),
		}
		if err := tx.Validate(); err != nil {
			return core.Statement{}, fmt.Errorf("transaction %d (%s): %w", i, ft.TransactionID, err)
		}
		stmt.Transactions = append(stmt.Transactions, tx)
	}
	return stmt, nil
}

// LoadStatementFile reads and decodes a fixture document from disk.
func LoadStatementFile(path string) (core.Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.Statement{}, fmt.Errorf("open statement fixture: %w", err)
	}
	defer f.Close()

	stmt, err := DecodeStatement(f)
	if err != nil {
		return core.Statement{}, fmt.Errorf("load %s: %w", path, err)
	}
	return stmt, nil
}
