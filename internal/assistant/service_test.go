package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"finsight/internal/core"
)

type stubCompleter struct {
	reply   string
	err     error
	gotSys  string
	gotHist []Message
	gotUser string
	calls   int
}

func (s *stubCompleter) Send(_ context.Context, systemPrompt string, history []Message, userMessage string) (string, error) {
	s.calls++
	s.gotSys = systemPrompt
	s.gotHist = history
	s.gotUser = userMessage
	return s.reply, s.err
}

type stubSummaries struct {
	summary core.FinancialSummary
	err     error
}

func (s stubSummaries) Summary(context.Context, core.Window, core.Date) (core.FinancialSummary, error) {
	return s.summary, s.err
}

func TestAskRecordsBothTurns(t *testing.T) {
	completer := &stubCompleter{reply: "Cut back on eating out."}
	svc := NewService(completer, stubSummaries{summary: sampleSummary()})
	session := svc.NewSession()

	reply := svc.Ask(context.Background(), session, "how can I save?", core.Week, core.NewDate(2025, 7, 31))
	if reply.Role != RoleAssistant || reply.Content != "Cut back on eating out." {
		t.Fatalf("reply = %+v", reply)
	}
	if reply.ID == "" {
		t.Fatal("reply has no id")
	}

	history := svc.History(session)
	if len(history) != 2 {
		t.Fatalf("history = %d messages", len(history))
	}
	if history[0].Role != RoleUser || history[0].Content != "how can I save?" {
		t.Fatalf("first turn = %+v", history[0])
	}
	if history[1].Role != RoleAssistant {
		t.Fatalf("second turn = %+v", history[1])
	}

	if !strings.Contains(completer.gotSys, "FINANCIAL CONTEXT:") {
		t.Fatal("system prompt not built from summary")
	}
	if len(completer.gotHist) != 0 {
		t.Fatalf("first turn should carry no prior history, got %d", len(completer.gotHist))
	}
}

func TestAskPassesPriorHistory(t *testing.T) {
	completer := &stubCompleter{reply: "ok"}
	svc := NewService(completer, stubSummaries{summary: sampleSummary()})
	session := svc.NewSession()
	ref := core.NewDate(2025, 7, 31)

	svc.Ask(context.Background(), session, "first", core.Week, ref)
	svc.Ask(context.Background(), session, "second", core.Week, ref)

	if len(completer.gotHist) != 2 {
		t.Fatalf("second call history = %d messages", len(completer.gotHist))
	}
	if completer.gotHist[0].Content != "first" || completer.gotHist[1].Content != "ok" {
		t.Fatalf("history = %+v", completer.gotHist)
	}
	if completer.gotUser != "second" {
		t.Fatalf("user message = %q", completer.gotUser)
	}
}

func TestAskFallsBackOnCompletionError(t *testing.T) {
	completer := &stubCompleter{err: errors.New("boom")}
	svc := NewService(completer, stubSummaries{summary: sampleSummary()})
	session := svc.NewSession()

	reply := svc.Ask(context.Background(), session, "hi", core.Week, core.NewDate(2025, 7, 31))
	if reply.Content != FallbackReply {
		t.Fatalf("reply = %q", reply.Content)
	}
	// Both turns are still recorded so the conversation stays coherent.
	if got := len(svc.History(session)); got != 2 {
		t.Fatalf("history = %d messages", got)
	}
}

func TestAskFallsBackOnSummaryError(t *testing.T) {
	completer := &stubCompleter{reply: "never used"}
	svc := NewService(completer, stubSummaries{err: errors.New("store down")})
	session := svc.NewSession()

	reply := svc.Ask(context.Background(), session, "hi", core.Week, core.NewDate(2025, 7, 31))
	if reply.Content != FallbackReply {
		t.Fatalf("reply = %q", reply.Content)
	}
	if completer.calls != 0 {
		t.Fatal("completer should not be called without a summary")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	svc := NewService(&stubCompleter{reply: "ok"}, stubSummaries{summary: sampleSummary()})
	a, b := svc.NewSession(), svc.NewSession()
	if a == b {
		t.Fatal("session ids collide")
	}

	svc.Ask(context.Background(), a, "hello", core.Week, core.NewDate(2025, 7, 31))
	if got := len(svc.History(b)); got != 0 {
		t.Fatalf("session b history = %d", got)
	}
}
