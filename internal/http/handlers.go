package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"finsight/internal/core"
	"finsight/internal/feed"
)

type amountDTO struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}

type keyAmountDTO struct {
	Name   string    `json:"name"`
	Amount amountDTO `json:"amount"`
}

type recentTransactionDTO struct {
	Date      string    `json:"date"`
	Name      string    `json:"name"`
	Amount    amountDTO `json:"amount"`
	Direction string    `json:"direction"`
	Category  string    `json:"category,omitempty"`
}

type summaryResponse struct {
	CurrentBalance amountDTO              `json:"current_balance"`
	OpeningBalance amountDTO              `json:"opening_balance"`
	NetChange      amountDTO              `json:"net_change"`
	TotalIncome    amountDTO              `json:"total_income"`
	TotalSpending  amountDTO              `json:"total_spending"`
	DailySpendAvg  amountDTO              `json:"daily_spend_avg"`
	ByCategory     []keyAmountDTO         `json:"by_category"`
	TopMerchants   []keyAmountDTO         `json:"top_merchants"`
	Recent         []recentTransactionDTO `json:"recent_transactions"`
	Currency       string                 `json:"currency"`
	PeriodLabel    string                 `json:"period_label"`
	Window         string                 `json:"window"`
	ReferenceDate  string                 `json:"reference_date"`
}

type balanceChartResponse struct {
	Labels        []string  `json:"labels"`
	Balances      []float64 `json:"balances"`
	Window        string    `json:"window"`
	ReferenceDate string    `json:"reference_date"`
	Currency      string    `json:"currency"`
}

func amount(m core.Money, currency string) amountDTO {
	return amountDTO{Cents: m.Cents, Formatted: m.Format(currency)}
}

func keyAmounts(in []core.KeyAmount, currency string) []keyAmountDTO {
	out := make([]keyAmountDTO, 0, len(in))
	for _, ka := range in {
		out = append(out, keyAmountDTO{Name: ka.Key, Amount: amount(ka.Amount, currency)})
	}
	return out
}

func (s *Server) summaryFor(w http.ResponseWriter, r *http.Request) (core.FinancialSummary, bool) {
	window, ref, err := s.parseWindowRef(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return core.FinancialSummary{}, false
	}

	summary, err := s.summaries.Summary(r.Context(), window, ref)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Summary computation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build summary")
		return core.FinancialSummary{}, false
	}
	return summary, true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.summaryFor(w, r)
	if !ok {
		return
	}

	resp := summaryResponse{
		CurrentBalance: amount(summary.CurrentBalance, summary.Currency),
		OpeningBalance: amount(summary.OpeningBalance, summary.Currency),
		NetChange:      amount(summary.NetChange, summary.Currency),
		TotalIncome:    amount(summary.TotalIncome, summary.Currency),
		TotalSpending:  amount(summary.TotalSpending, summary.Currency),
		DailySpendAvg:  amount(summary.DailySpendAvg, summary.Currency),
		ByCategory:     keyAmounts(summary.ByCategory, summary.Currency),
		TopMerchants:   keyAmounts(summary.TopMerchants, summary.Currency),
		Recent:         make([]recentTransactionDTO, 0, len(summary.Recent)),
		Currency:       summary.Currency,
		PeriodLabel:    summary.PeriodLabel,
		Window:         string(summary.Window),
		ReferenceDate:  summary.ReferenceDate.String(),
	}
	for _, t := range summary.Recent {
		resp.Recent = append(resp.Recent, recentTransactionDTO{
			Date:      t.Date.String(),
			Name:      t.Name,
			Amount:    amount(t.Amount, summary.Currency),
			Direction: string(t.Direction),
			Category:  t.Category,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBalanceChart(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.summaryFor(w, r)
	if !ok {
		return
	}

	balances := make([]float64, 0, len(summary.BalanceSeries.Balances))
	for _, b := range summary.BalanceSeries.Balances {
		balances = append(balances, b.Amount())
	}

	writeJSON(w, http.StatusOK, balanceChartResponse{
		Labels:        summary.BalanceSeries.Labels,
		Balances:      balances,
		Window:        string(summary.Window),
		ReferenceDate: summary.ReferenceDate.String(),
		Currency:      summary.Currency,
	})
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.summaryFor(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"categories":     keyAmounts(summary.ByCategory, summary.Currency),
		"window":         string(summary.Window),
		"reference_date": summary.ReferenceDate.String(),
		"currency":       summary.Currency,
	})
}

func (s *Server) handleTopMerchants(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.summaryFor(w, r)
	if !ok {
		return
	}

	merchants := summary.TopMerchants
	if n := parseQueryInt(r, "n", core.TopMerchantCount); n >= 0 && n < len(merchants) {
		merchants = merchants[:n]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"merchants":      keyAmounts(merchants, summary.Currency),
		"window":         string(summary.Window),
		"reference_date": summary.ReferenceDate.String(),
	})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	window, ref, err := s.parseWindowRef(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stmt, err := s.reader.ReadStatement(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Statement read failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read statement")
		return
	}

	from, to := window.Range(ref)
	currency := stmt.Account.Balances.ISOCurrencyCode
	out := make([]map[string]any, 0)
	for _, t := range stmt.Transactions {
		if !t.Date.Within(from, to) {
			continue
		}
		out = append(out, map[string]any{
			"id":              t.ID,
			"date":            t.Date.String(),
			"name":            t.Name,
			"merchant_name":   t.MerchantName,
			"category":        t.Category,
			"direction":       string(t.Direction),
			"amount":          amount(t.Amount, currency),
			"running_balance": amount(t.RunningBalance, currency),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions":   out,
		"window":         string(window),
		"reference_date": ref.String(),
		"currency":       currency,
	})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Window    string `json:"window"`
	Ref       string `json:"ref"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message := sanitizeInput(req.Message)
	if message == "" {
		writeError(w, http.StatusUnprocessableEntity, "message cannot be empty")
		return
	}

	window, err := core.ParseWindow(req.Window)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid window")
		return
	}
	ref := s.defaultRef()
	if strings.TrimSpace(req.Ref) != "" {
		if ref, err = core.ParseDate(req.Ref); err != nil {
			writeError(w, http.StatusBadRequest, "invalid ref date")
			return
		}
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = s.chat.NewSession()
	}

	reply := s.chat.Ask(r.Context(), sessionID, message, window, ref)

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"reply":      reply,
	})
}

type exportRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "export pipeline not configured")
		return
	}

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.exporter.RequestExport(r.Context(), req.Year, req.Month); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "queued",
		"year":   req.Year,
		"month":  req.Month,
	})
}

func (s *Server) handleFeedPosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"posts": s.feed.Posts(r.Context())})
}

type voteRequest struct {
	Direction string `json:"direction"`
}

func (s *Server) handleFeedVote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		post feed.Post
		err  error
	)
	switch req.Direction {
	case "up":
		post, err = s.feed.Upvote(r.Context(), id)
	case "down":
		post, err = s.feed.Downvote(r.Context(), id)
	default:
		writeError(w, http.StatusUnprocessableEntity, "direction must be 'up' or 'down'")
		return
	}

	if errors.Is(err, feed.ErrPostNotFound) {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "vote failed")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleFeedCommunities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"communities": s.feed.Communities(r.Context())})
}

func (s *Server) handleFeedMembership(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	community, err := s.feed.ToggleMembership(r.Context(), id)
	if errors.Is(err, feed.ErrCommunityNotFound) {
		writeError(w, http.StatusNotFound, "community not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "membership update failed")
		return
	}

	writeJSON(w, http.StatusOK, community)
}
