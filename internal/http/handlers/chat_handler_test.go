package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/careline/clinic-backend/internal/domain"
	"github.com/careline/clinic-backend/internal/intent"
	"github.com/careline/clinic-backend/internal/services"
)

func init() { gin.SetMode(gin.TestMode) }

// ---------- stubs ----------

type stubAuthSvc struct {
	login func(context.Context, string, string) (string, domain.AdminView, error)
}

func (s stubAuthSvc) Login(ctx context.Context, u, p string) (string, domain.AdminView, error) {
	if s.login != nil {
		return s.login(ctx, u, p)
	}
	return "tok", domain.AdminView{ID: "a1", Username: u}, nil
}

type stubChatSvc struct {
	append  func(context.Context, services.ChatMessageInput) (*domain.ChatMessage, error)
	list    func(context.Context, string) ([]domain.ChatMessage, error)
	recent  func(context.Context, int) ([]domain.ChatMessage, error)
	suggest func(context.Context, string) (intent.Suggestion, error)
}

func (s stubChatSvc) Append(ctx context.Context, in services.ChatMessageInput) (*domain.ChatMessage, error) {
	if s.append != nil {
		return s.append(ctx, in)
	}
	return &domain.ChatMessage{ID: "m1", UserID: in.UserID, UserName: in.UserName, Message: in.Message}, nil
}

func (s stubChatSvc) ListConversation(ctx context.Context, userID string) ([]domain.ChatMessage, error) {
	if s.list != nil {
		return s.list(ctx, userID)
	}
	return nil, nil
}

func (s stubChatSvc) ListRecent(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	if s.recent != nil {
		return s.recent(ctx, limit)
	}
	return nil, nil
}

func (s stubChatSvc) Suggest(ctx context.Context, msg string) (intent.Suggestion, error) {
	if s.suggest != nil {
		return s.suggest(ctx, msg)
	}
	return intent.Suggestion{}, services.ErrNoSuggestion
}

type stubDoctorSvc struct {
	list func(context.Context) ([]domain.Doctor, error)
}

func (s stubDoctorSvc) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil, nil
}

// ---------- helpers ----------

func newChatRouter(chat ChatService) *gin.Engine {
	h := New(stubAuthSvc{}, chat, stubDoctorSvc{})
	r := gin.New()
	r.POST("/api/chat/messages", h.PostMessage)
	r.GET("/api/chat/messages", h.ListConversation)
	r.GET("/api/chat/messages/recent", h.ListRecent)
	r.POST("/api/chat/suggest", h.Suggest)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, w.Body.String())
	}
	return e
}

// ---------- tests ----------

func TestPostMessage_Created(t *testing.T) {
	var got services.ChatMessageInput
	r := newChatRouter(stubChatSvc{
		append: func(_ context.Context, in services.ChatMessageInput) (*domain.ChatMessage, error) {
			got = in
			return &domain.ChatMessage{ID: "m1", UserID: in.UserID, UserName: in.UserName, Message: in.Message}, nil
		},
	})

	w := doJSON(t, r, http.MethodPost, "/api/chat/messages", gin.H{
		"userId":   "u1",
		"userName": "Alice",
		"message":  "hello",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got.UserID != "u1" || got.UserName != "Alice" || got.Message != "hello" {
		t.Fatalf("input not forwarded: %+v", got)
	}

	var resp PostMessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message == nil || resp.Message.ID != "m1" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestPostMessage_MissingFields(t *testing.T) {
	r := newChatRouter(stubChatSvc{})

	w := doJSON(t, r, http.MethodPost, "/api/chat/messages", gin.H{"userId": "u1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if e := decodeError(t, w); e.Code != ErrCodeBadRequest {
		t.Fatalf("unexpected error code: %+v", e)
	}
}

func TestPostMessage_MalformedJSON(t *testing.T) {
	r := newChatRouter(stubChatSvc{})

	req := httptest.NewRequest(http.MethodPost, "/api/chat/messages", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestPostMessage_ServiceErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid", services.ErrInvalidMessage, http.StatusBadRequest, ErrCodeBadRequest},
		{"store down", errors.Join(services.ErrStoreUnavailable, errors.New("x")), http.StatusServiceUnavailable, ErrCodeStoreUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newChatRouter(stubChatSvc{
				append: func(context.Context, services.ChatMessageInput) (*domain.ChatMessage, error) {
					return nil, tc.err
				},
			})
			w := doJSON(t, r, http.MethodPost, "/api/chat/messages", gin.H{
				"userId": "u", "userName": "A", "message": "m",
			})
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d", w.Code, tc.status)
			}
			if e := decodeError(t, w); e.Code != tc.code {
				t.Fatalf("code = %q, want %q", e.Code, tc.code)
			}
		})
	}
}

func TestListConversation_RequiresParam(t *testing.T) {
	r := newChatRouter(stubChatSvc{})

	req := httptest.NewRequest(http.MethodGet, "/api/chat/messages", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestListConversation_ReturnsMessages(t *testing.T) {
	r := newChatRouter(stubChatSvc{
		list: func(_ context.Context, userID string) ([]domain.ChatMessage, error) {
			if userID != "u1" {
				t.Fatalf("unexpected conversation id %q", userID)
			}
			return []domain.ChatMessage{{ID: "a", UserID: "u1"}, {ID: "b", UserID: "u1"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/chat/messages?conversation=u1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var out []domain.ChatMessage
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[0].ID != "a" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestListRecent_ForwardsLimit(t *testing.T) {
	var gotLimit int
	r := newChatRouter(stubChatSvc{
		recent: func(_ context.Context, limit int) ([]domain.ChatMessage, error) {
			gotLimit = limit
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/chat/messages/recent?limit=25", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if gotLimit != 25 {
		t.Fatalf("limit = %d, want 25", gotLimit)
	}

	// junk limit falls back to zero and lets the service pick its default
	req = httptest.NewRequest(http.MethodGet, "/api/chat/messages/recent?limit=abc", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if gotLimit != 0 {
		t.Fatalf("limit = %d, want 0 for junk input", gotLimit)
	}
}

func TestSuggest_StatusCodes(t *testing.T) {
	r := newChatRouter(stubChatSvc{
		suggest: func(_ context.Context, msg string) (intent.Suggestion, error) {
			if msg == "opening hours" {
				return intent.Suggestion{Reply: "We open at 8am.", Intent: "hours", Confidence: 1}, nil
			}
			return intent.Suggestion{}, services.ErrNoSuggestion
		},
	})

	w := doJSON(t, r, http.MethodPost, "/api/chat/suggest", gin.H{"message": "opening hours"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var sg intent.Suggestion
	if err := json.Unmarshal(w.Body.Bytes(), &sg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sg.Intent != "hours" || sg.Confidence != 1 {
		t.Fatalf("unexpected suggestion: %+v", sg)
	}

	w = doJSON(t, r, http.MethodPost, "/api/chat/suggest", gin.H{"message": "zzz"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("204 must carry no body, got %s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/chat/suggest", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
