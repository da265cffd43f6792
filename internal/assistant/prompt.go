// Package assistant turns a financial summary into the system prompt
// for the chat assistant and carries the conversation with the external
// chat-completions API.
package assistant

import (
	"strconv"
	"strings"

	"finsight/internal/core"
)

// BuildSystemPrompt renders the summary into the assistant's system
// prompt. Output is deterministic for stable input: sections follow the
// summary's ordering and every amount is formatted with two decimals.
// An empty summary still yields a valid block with empty sections.
func BuildSystemPrompt(s core.FinancialSummary) string {
	var b strings.Builder

	b.WriteString("You are a helpful AI financial assistant with access to the user's actual banking data. ")
	b.WriteString("Use this financial context to provide personalized advice:\n\n")

	b.WriteString("FINANCIAL CONTEXT:\n")
	writeLine(&b, "Current Balance", s.CurrentBalance, s.Currency)
	b.WriteString("- Period: " + s.PeriodLabel + "\n")
	writeLine(&b, "Net Change", s.NetChange, s.Currency)
	writeLine(&b, "Total Income", s.TotalIncome, s.Currency)
	writeLine(&b, "Total Spending", s.TotalSpending, s.Currency)
	writeLine(&b, "Daily Spending Average (over "+strconv.Itoa(s.TransactionDays)+" days)", s.DailySpendAvg, s.Currency)

	b.WriteString("\nSPENDING BY CATEGORY:\n")
	for _, ka := range s.ByCategory {
		b.WriteString("- " + ka.Key + ": " + ka.Amount.Format(s.Currency) + "\n")
	}

	b.WriteString("\nRECENT TRANSACTIONS (Last " + strconv.Itoa(len(s.Recent)) + "):\n")
	for _, t := range s.Recent {
		b.WriteString(t.Date.String() + ": " + t.Name + " (" + t.Category + ") - " + t.Amount.Format(s.Currency) + "\n")
	}

	b.WriteString("\nINSTRUCTIONS:\n")
	b.WriteString("- Analyze the user's spending patterns and provide personalized financial advice\n")
	b.WriteString("- Reference specific transactions and categories when relevant\n")
	b.WriteString("- Suggest budgeting improvements based on their actual spending\n")
	b.WriteString("- Be specific about amounts and categories from their data\n")
	b.WriteString("- Warn about common financial scams and how to recognize them\n")
	b.WriteString("- Provide actionable recommendations for saving money\n")
	b.WriteString("- Be friendly, professional, and concise")

	return b.String()
}

func writeLine(b *strings.Builder, label string, m core.Money, currency string) {
	b.WriteString("- " + label + ": " + m.Format(currency) + "\n")
}
