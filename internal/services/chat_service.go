// Package services – ChatService
//
// This file implements the ChatService, which owns the append-only chat log.
// It validates inbound messages, applies constructor defaults (isSupport,
// isAIResponse, server-side timestamp), and coordinates repository operations
// for appending and for the two retrieval views (per-conversation ascending,
// cross-conversation recent descending).
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// the conversation identifier and the requested limit where applicable.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/careline/clinic-backend/internal/domain"
	"github.com/careline/clinic-backend/internal/intent"
)

// ChatRepo defines the repository contract required by ChatService.
type ChatRepo interface {
	// InsertMessage persists one message atomically.
	InsertMessage(ctx context.Context, db *gorm.DB, m *domain.ChatMessage) (*domain.ChatMessage, error)

	// ListConversation returns a conversation ascending by (timestamp, id).
	ListConversation(ctx context.Context, db *gorm.DB, userID string) ([]domain.ChatMessage, error)

	// ListRecent returns up to limit messages descending by (timestamp, id).
	ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]domain.ChatMessage, error)
}

// ChatMessageInput is the validated shape accepted by Append. Optional fields
// mirror the wire contract: SessionID groups messages into a conversation
// session, and the AI annotation fields are only meaningful together.
type ChatMessageInput struct {
	UserID       string
	UserName     string
	Message      string
	SessionID    *string
	IsSupport    bool
	IsAIResponse bool
	Intent       *string
	Confidence   *float64
}

// ChatService provides append and retrieval operations over the chat log and
// intent-based reply suggestions.
type ChatService struct {
	DB   *gorm.DB
	Repo ChatRepo

	// Classifier suggests machine-generated replies; nil disables Suggest.
	Classifier *intent.Classifier

	// MaxMessageRunes caps stored message length; 0 means no cap.
	MaxMessageRunes int

	// RecentDefault and RecentMax bound the recent-view limit.
	RecentDefault int
	RecentMax     int
}

// NewChatService constructs a ChatService with sane retrieval bounds.
func NewChatService(db *gorm.DB, r ChatRepo, cls *intent.Classifier) *ChatService {
	return &ChatService{
		DB:              db,
		Repo:            r,
		Classifier:      cls,
		MaxMessageRunes: 4000,
		RecentDefault:   50,
		RecentMax:       200,
	}
}

// Append validates the input, applies defaults, assigns the server-side
// timestamp, and persists the message. Missing required fields or
// inconsistent AI annotations yield ErrInvalidMessage; store failures map to
// ErrStoreUnavailable.
func (s *ChatService) Append(ctx context.Context, in ChatMessageInput) (*domain.ChatMessage, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Append",
		trace.WithAttributes(attribute.String("conversation.id", in.UserID)),
	)
	defer span.End()

	m, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	stored, err := s.Repo.InsertMessage(ctx, s.DB, m)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return stored, nil
}

// ListConversation returns all messages of one conversation in ascending
// (timestamp, id) order. Re-querying is safe: the order is stable and new
// messages only ever append at the end.
func (s *ChatService) ListConversation(ctx context.Context, userID string) ([]domain.ChatMessage, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "ListConversation",
		trace.WithAttributes(attribute.String("conversation.id", userID)),
	)
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidMessage
	}
	out, err := s.Repo.ListConversation(ctx, s.DB, userID)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return out, nil
}

// ListRecent returns up to limit messages across all conversations in
// descending timestamp order. Non-positive limits fall back to the default;
// oversized limits are clamped to the configured maximum.
func (s *ChatService) ListRecent(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "ListRecent",
		trace.WithAttributes(attribute.Int("limit", limit)),
	)
	defer span.End()

	if limit <= 0 {
		limit = s.RecentDefault
	}
	if s.RecentMax > 0 && limit > s.RecentMax {
		limit = s.RecentMax
	}
	out, err := s.Repo.ListRecent(ctx, s.DB, limit)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return out, nil
}

// Suggest classifies an inbound patient message and returns a canned reply
// with its intent label and confidence. ErrNoSuggestion means no intent
// cleared the classifier threshold (or no classifier is configured).
func (s *ChatService) Suggest(ctx context.Context, message string) (intent.Suggestion, error) {
	tr := otel.Tracer("services/ChatService")
	_, span := tr.Start(ctx, "Suggest")
	defer span.End()

	message = strings.TrimSpace(message)
	if message == "" {
		return intent.Suggestion{}, ErrInvalidMessage
	}
	if s.Classifier == nil {
		return intent.Suggestion{}, ErrNoSuggestion
	}
	sg, ok := s.Classifier.Classify(message)
	if !ok {
		return intent.Suggestion{}, ErrNoSuggestion
	}
	return sg, nil
}

// validate normalizes and checks an input, returning the record to persist.
func (s *ChatService) validate(in ChatMessageInput) (*domain.ChatMessage, error) {
	userID := strings.TrimSpace(in.UserID)
	userName := strings.TrimSpace(in.UserName)
	message := strings.TrimSpace(in.Message)
	if userID == "" || userName == "" || message == "" {
		return nil, ErrInvalidMessage
	}
	if s.MaxMessageRunes > 0 && utf8.RuneCountInString(message) > s.MaxMessageRunes {
		return nil, ErrInvalidMessage
	}

	// Intent/confidence only travel with machine-generated messages.
	if !in.IsAIResponse && (in.Intent != nil || in.Confidence != nil) {
		return nil, ErrInvalidMessage
	}
	if in.Confidence != nil && (*in.Confidence < 0 || *in.Confidence > 1) {
		return nil, ErrInvalidMessage
	}

	sessionID := in.SessionID
	if sessionID != nil && strings.TrimSpace(*sessionID) == "" {
		sessionID = nil
	}

	return &domain.ChatMessage{
		UserID:       userID,
		UserName:     userName,
		Message:      message,
		IsSupport:    in.IsSupport,
		SessionID:    sessionID,
		IsAIResponse: in.IsAIResponse,
		Intent:       in.Intent,
		Confidence:   in.Confidence,
	}, nil
}
