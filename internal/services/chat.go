// Package services – ChatService
//
// This file implements the chat orchestrator. Sessions are held in process
// memory and scoped to one video or blog; every Send grounds the model with
// a system instruction derived from the subject's stored transcript or
// content. Turn order within a session is strict: one message in flight at a
// time, later turns are appended after earlier turns resolve.
//
// Upstream failures never surface as transport errors to the caller. The
// reply turn degrades to a fixed apology, keeping the conversation alive.
package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/techiral/go-content-backend/internal/domain"
	"github.com/techiral/go-content-backend/internal/llm"
	"github.com/techiral/go-content-backend/internal/prompt"
	"github.com/techiral/go-content-backend/internal/store"
)

// FallbackReply is the assistant turn recorded when the upstream call fails.
const FallbackReply = "Sorry, I'm having trouble connecting. Please try again later."

// Chatter runs buffered multi-turn completions; satisfied by *llm.Client and
// by test fakes.
type Chatter interface {
	Chat(ctx context.Context, system string, turns []llm.Turn) (string, error)
}

type chatSession struct {
	data     domain.ChatSession
	inFlight bool
}

// ChatService owns the in-memory session table and coordinates Send calls
// against the upstream model.
type ChatService struct {
	// Store resolves the subject entity backing each session.
	Store store.Store
	// LLM runs the buffered completion for each Send.
	LLM Chatter

	mu       sync.Mutex
	sessions map[string]*chatSession
}

// NewChatService constructs a ChatService with an empty session table.
func NewChatService(st store.Store, c Chatter) *ChatService {
	return &ChatService{
		Store:    st,
		LLM:      c,
		sessions: make(map[string]*chatSession),
	}
}

// Create opens a session scoped to an existing video or blog and returns it.
// The subject must exist; store.ErrNotFound passes through.
func (s *ChatService) Create(ctx context.Context, kind, subjectID string) (*domain.ChatSession, error) {
	if kind != "video" && kind != "blog" {
		return nil, ErrUnknownSubject
	}
	if _, _, err := s.subject(ctx, kind, subjectID); err != nil {
		return nil, err
	}

	sess := &chatSession{data: domain.ChatSession{
		ID:          uuid.NewString(),
		SubjectKind: kind,
		SubjectID:   subjectID,
		Turns:       []domain.ChatTurn{},
		CreatedAt:   time.Now().UTC(),
	}}

	s.mu.Lock()
	s.sessions[sess.data.ID] = sess
	s.mu.Unlock()

	out := sess.data
	return &out, nil
}

// Get returns a snapshot of the session, turns included.
func (s *ChatService) Get(sessionID string) (*domain.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	out := sess.data
	out.Turns = append([]domain.ChatTurn(nil), sess.data.Turns...)
	return &out, nil
}

// End destroys the session and its history.
func (s *ChatService) End(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

// Send appends the user's turn, asks the model for a grounded reply, appends
// and returns the reply turn. While a Send is outstanding, further Sends on
// the same session fail with ErrBusy without touching the upstream.
func (s *ChatService) Send(ctx context.Context, sessionID, text string) (domain.ChatTurn, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Send",
		trace.WithAttributes(attribute.String("session.id", sessionID)),
	)
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatTurn{}, ErrEmptyMessage
	}

	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return domain.ChatTurn{}, ErrSessionNotFound
	}
	if sess.inFlight {
		s.mu.Unlock()
		return domain.ChatTurn{}, ErrBusy
	}
	sess.inFlight = true
	if sess.data.Title == "" {
		sess.data.Title = deriveSessionTitle(text)
	}
	sess.data.Turns = append(sess.data.Turns, domain.ChatTurn{Role: domain.RoleUser, Text: text})
	history := append([]domain.ChatTurn(nil), sess.data.Turns...)
	kind, subjectID := sess.data.SubjectKind, sess.data.SubjectID
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		sess.inFlight = false
		s.mu.Unlock()
	}()

	reply := s.reply(ctx, kind, subjectID, history)
	turn := domain.ChatTurn{Role: domain.RoleAssistant, Text: reply}

	s.mu.Lock()
	// The session may have been ended mid-flight; the turn is still returned.
	if cur, ok := s.sessions[sessionID]; ok {
		cur.data.Turns = append(cur.data.Turns, turn)
	}
	s.mu.Unlock()

	return turn, nil
}

// reply runs the grounded completion, degrading to the fallback apology on
// any failure.
func (s *ChatService) reply(ctx context.Context, kind, subjectID string, history []domain.ChatTurn) string {
	title, material, err := s.subject(ctx, kind, subjectID)
	if err != nil {
		return FallbackReply
	}

	turns := make([]llm.Turn, 0, len(history))
	for _, t := range history {
		role := t.Role
		if role == domain.RoleModel {
			role = domain.RoleAssistant
		}
		turns = append(turns, llm.Turn{Role: role, Text: t.Text})
	}

	out, err := s.LLM.Chat(ctx, prompt.ChatSystem(kind, title, material), turns)
	if err != nil || strings.TrimSpace(out) == "" {
		return FallbackReply
	}
	return out
}

// subject loads the session's backing entity and returns its title and the
// source material used to ground the conversation.
func (s *ChatService) subject(ctx context.Context, kind, subjectID string) (title, material string, err error) {
	switch kind {
	case "video":
		v, err := s.Store.LoadVideo(ctx, subjectID)
		if err != nil {
			return "", "", err
		}
		return v.Title, v.Transcript, nil
	default:
		b, err := s.Store.LoadBlog(ctx, subjectID)
		if err != nil {
			return "", "", err
		}
		return b.Title, b.Content, nil
	}
}
