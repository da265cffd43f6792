package assistant

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"finsight/internal/core"
)

// FallbackReply is what the user sees when the completion call fails;
// the failure itself never escapes the service.
const FallbackReply = "Sorry, I encountered an error. Please check your connection and try again."

// Completer is the outbound collaborator interface; *Client satisfies
// it, tests substitute their own.
type Completer interface {
	Send(ctx context.Context, systemPrompt string, history []Message, userMessage string) (string, error)
}

// SummaryProvider supplies the financial context injected into the
// system prompt.
type SummaryProvider interface {
	Summary(ctx context.Context, w core.Window, ref core.Date) (core.FinancialSummary, error)
}

// ChatMessage is one stored turn of a session, with identity and
// timestamp for the client UI.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Service keeps per-session conversation history in memory and drives
// the completion client. Formatting the prompt and calling the API
// share no state beyond the prompt text itself, so sessions stay usable
// while a call is in flight.
type Service struct {
	completer Completer
	summaries SummaryProvider
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string][]ChatMessage
}

func NewService(completer Completer, summaries SummaryProvider) *Service {
	return &Service{
		completer: completer,
		summaries: summaries,
		now:       time.Now,
		sessions:  make(map[string][]ChatMessage),
	}
}

// NewSession returns a fresh session identifier.
func (s *Service) NewSession() string {
	return uuid.NewString()
}

// History returns a copy of the session's messages in order.
func (s *Service) History(sessionID string) []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.sessions[sessionID]
	out := make([]ChatMessage, len(msgs))
	copy(out, msgs)
	return out
}

// Ask records the user message, calls the completion endpoint with the
// current financial summary as system context, records and returns the
// assistant reply. A failed call yields the fallback reply instead of
// an error: the caller re-invokes manually, there is no retry.
func (s *Service) Ask(ctx context.Context, sessionID, message string, w core.Window, ref core.Date) ChatMessage {
	userMsg := ChatMessage{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   message,
		Timestamp: s.now(),
	}

	s.mu.Lock()
	prior := make([]Message, 0, len(s.sessions[sessionID]))
	for _, m := range s.sessions[sessionID] {
		prior = append(prior, Message{Role: m.Role, Content: m.Content})
	}
	s.sessions[sessionID] = append(s.sessions[sessionID], userMsg)
	s.mu.Unlock()

	reply := ChatMessage{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Timestamp: s.now(),
	}

	summary, err := s.summaries.Summary(ctx, w, ref)
	if err != nil {
		slog.ErrorContext(ctx, "Summary for chat context failed", "error", err, "session_id", sessionID)
		reply.Content = FallbackReply
	} else {
		content, err := s.completer.Send(ctx, BuildSystemPrompt(summary), prior, message)
		if err != nil {
			slog.ErrorContext(ctx, "Completion call failed", "error", err, "session_id", sessionID)
			reply.Content = FallbackReply
		} else {
			reply.Content = content
		}
	}

	s.mu.Lock()
	s.sessions[sessionID] = append(s.sessions[sessionID], reply)
	s.mu.Unlock()

	return reply
}
