// Chat HTTP handlers.
//
// This file exposes REST endpoints for the chat log:
//   - POST /api/chat/messages          (append a message)
//   - GET  /api/chat/messages          (list one conversation, ascending)
//   - GET  /api/chat/messages/recent   (support view, descending; admin only)
//   - POST /api/chat/suggest           (intent-based reply suggestion)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careline/clinic-backend/internal/domain"
	"github.com/careline/clinic-backend/internal/intent"
	"github.com/careline/clinic-backend/internal/services"
	"github.com/careline/clinic-backend/internal/utils"
)

// ChatService defines the chat-log operations consumed by HTTP handlers.
// Implementations must be safe for concurrent use and honor the provided
// context for cancellation and timeouts.
type ChatService interface {
	// Append validates and persists one message.
	Append(ctx context.Context, in services.ChatMessageInput) (*domain.ChatMessage, error)
	// ListConversation returns a conversation ascending by time.
	ListConversation(ctx context.Context, userID string) ([]domain.ChatMessage, error)
	// ListRecent returns the newest messages across conversations.
	ListRecent(ctx context.Context, limit int) ([]domain.ChatMessage, error)
	// Suggest proposes a machine-generated reply for a message.
	Suggest(ctx context.Context, message string) (intent.Suggestion, error)
}

// DoctorLister exposes the read-only doctor directory.
type DoctorLister interface {
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
}

// Handlers groups the HTTP endpoints for authentication, the chat log, and
// the doctor directory. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	authSvc AuthService
	chatSvc ChatService
	docSvc  DoctorLister
}

// New constructs a Handlers instance bound to the given services.
func New(authSvc AuthService, chatSvc ChatService, docSvc DoctorLister) *Handlers {
	return &Handlers{authSvc: authSvc, chatSvc: chatSvc, docSvc: docSvc}
}

//
// DTOs
//

// PostMessageRequest is the JSON payload for appending a chat message. Field
// names are the wire contract shared with the frontend client.
type PostMessageRequest struct {
	UserID       string   `json:"userId" binding:"required"`
	UserName     string   `json:"userName" binding:"required"`
	Message      string   `json:"message" binding:"required"`
	SessionID    *string  `json:"sessionId,omitempty"`
	IsSupport    bool     `json:"isSupport"`
	IsAIResponse bool     `json:"isAIResponse"`
	Intent       *string  `json:"intent,omitempty"`
	Confidence   *float64 `json:"confidence,omitempty"`
}

// PostMessageResponse is the JSON envelope for a newly appended message.
type PostMessageResponse struct {
	Message *domain.ChatMessage `json:"message"`
}

// SuggestRequest is the JSON payload for the reply-suggestion endpoint.
type SuggestRequest struct {
	Message string `json:"message" binding:"required"`
}

//
// Handlers
//

// PostMessage handles POST /api/chat/messages.
func (h *Handlers) PostMessage(c *gin.Context) {
	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "userId, userName and message are required")
		return
	}

	msg, err := h.chatSvc.Append(c.Request.Context(), services.ChatMessageInput{
		UserID:       req.UserID,
		UserName:     req.UserName,
		Message:      req.Message,
		SessionID:    req.SessionID,
		IsSupport:    req.IsSupport,
		IsAIResponse: req.IsAIResponse,
		Intent:       req.Intent,
		Confidence:   req.Confidence,
	})
	switch {
	case err == nil:
		ok(c, http.StatusCreated, PostMessageResponse{Message: msg})
	case errors.Is(err, services.ErrInvalidMessage):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid message")
	case errors.Is(err, services.ErrStoreUnavailable):
		fail(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "service temporarily unavailable")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not store message")
	}
}

// ListConversation handles GET /api/chat/messages?conversation=<id>.
func (h *Handlers) ListConversation(c *gin.Context) {
	conv := c.Query("conversation")
	if conv == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "conversation query parameter is required")
		return
	}

	msgs, err := h.chatSvc.ListConversation(c.Request.Context(), conv)
	switch {
	case err == nil:
		ok(c, http.StatusOK, msgs)
	case errors.Is(err, services.ErrInvalidMessage):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "conversation query parameter is required")
	case errors.Is(err, services.ErrStoreUnavailable):
		fail(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "service temporarily unavailable")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list messages")
	}
}

// ListRecent handles GET /api/chat/messages/recent?limit=<n>. The route is
// mounted behind RequireAdmin.
func (h *Handlers) ListRecent(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 0)

	msgs, err := h.chatSvc.ListRecent(c.Request.Context(), limit)
	switch {
	case err == nil:
		ok(c, http.StatusOK, msgs)
	case errors.Is(err, services.ErrStoreUnavailable):
		fail(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "service temporarily unavailable")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list messages")
	}
}

// Suggest handles POST /api/chat/suggest. A 204 means no intent cleared the
// confidence threshold; the frontend then falls back to a human agent.
func (h *Handlers) Suggest(c *gin.Context) {
	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message is required")
		return
	}

	sg, err := h.chatSvc.Suggest(c.Request.Context(), req.Message)
	switch {
	case err == nil:
		ok(c, http.StatusOK, sg)
	case errors.Is(err, services.ErrNoSuggestion):
		c.Status(http.StatusNoContent)
	case errors.Is(err, services.ErrInvalidMessage):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message is required")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "suggestion failed")
	}
}
