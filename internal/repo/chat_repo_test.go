package repo

import (
	"context"
	"testing"
	"time"

	"github.com/careline/clinic-backend/internal/domain"
)

func TestInsertMessage_AssignsIDAndTimestamp(t *testing.T) {
	db := newRepoDB(t, &domain.ChatMessage{})
	ctx := context.Background()

	in := &domain.ChatMessage{
		UserID:   "u1",
		UserName: "Alice",
		Message:  "hello",
	}
	got, err := InsertMessage(ctx, db, in)
	if err != nil {
		t.Fatalf("InsertMessage error: %v", err)
	}
	if got.ID == "" {
		t.Fatalf("ID not assigned")
	}
	if got.Timestamp.IsZero() || time.Since(got.Timestamp) > time.Minute {
		t.Fatalf("Timestamp not set reasonably: %v", got.Timestamp)
	}

	// optional fields survive the roundtrip
	sess := "s-9"
	intent := "greeting"
	conf := 0.87
	ai := &domain.ChatMessage{
		UserID:       "u1",
		UserName:     "Bot",
		Message:      "hi there",
		IsSupport:    true,
		IsAIResponse: true,
		SessionID:    &sess,
		Intent:       &intent,
		Confidence:   &conf,
	}
	if _, err := InsertMessage(ctx, db, ai); err != nil {
		t.Fatalf("InsertMessage(ai) error: %v", err)
	}
	var back domain.ChatMessage
	if err := db.Where("id = ?", ai.ID).First(&back).Error; err != nil {
		t.Fatalf("load back: %v", err)
	}
	if back.SessionID == nil || *back.SessionID != sess {
		t.Fatalf("session id lost: %+v", back)
	}
	if back.Intent == nil || *back.Intent != intent || back.Confidence == nil || *back.Confidence != conf {
		t.Fatalf("intent metadata lost: %+v", back)
	}
	if !back.IsAIResponse || !back.IsSupport {
		t.Fatalf("boolean flags lost: %+v", back)
	}
}

func TestListConversation_OrderAndIsolation(t *testing.T) {
	db := newRepoDB(t, &domain.ChatMessage{})
	ctx := context.Background()

	// same timestamp for first two; ties keep insertion order, so the ids
	// are deliberately anti-alphabetical
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Second)
	rows := []domain.ChatMessage{
		{ID: "b", UserID: "u1", UserName: "A", Message: "1", Timestamp: t0},
		{ID: "a", UserID: "u1", UserName: "A", Message: "2", Timestamp: t0},
		{ID: "z", UserID: "u1", UserName: "S", Message: "3", IsSupport: true, Timestamp: t1},
		{ID: "x", UserID: "u2", UserName: "B", Message: "other", Timestamp: t0},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("seed %s: %v", rows[i].ID, err)
		}
	}

	out, err := ListConversation(ctx, db, "u1")
	if err != nil {
		t.Fatalf("ListConversation error: %v", err)
	}
	if len(out) != 3 || out[0].ID != "b" || out[1].ID != "a" || out[2].ID != "z" {
		t.Fatalf("unexpected order: %+v", out)
	}

	// stable on re-query
	again, err := ListConversation(ctx, db, "u1")
	if err != nil {
		t.Fatalf("ListConversation(again) error: %v", err)
	}
	for i := range out {
		if again[i].ID != out[i].ID {
			t.Fatalf("order not stable at %d: %s vs %s", i, again[i].ID, out[i].ID)
		}
	}
}

func TestListConversation_EmptyConversation(t *testing.T) {
	db := newRepoDB(t, &domain.ChatMessage{})

	out, err := ListConversation(context.Background(), db, "nobody")
	if err != nil {
		t.Fatalf("ListConversation error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty slice, got %+v", out)
	}
}

func TestListRecent_DescendingWithLimit(t *testing.T) {
	db := newRepoDB(t, &domain.ChatMessage{})
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		m := domain.ChatMessage{
			ID:        string(rune('a' + i)),
			UserID:    "u1",
			UserName:  "A",
			Message:   "x",
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	out, err := ListRecent(ctx, db, 3)
	if err != nil {
		t.Fatalf("ListRecent error: %v", err)
	}
	if len(out) != 3 || out[0].ID != "e" || out[1].ID != "d" || out[2].ID != "c" {
		t.Fatalf("unexpected recent slice: %+v", out)
	}
}

func TestListRecent_TieBrokenByInsertionOrder(t *testing.T) {
	db := newRepoDB(t, &domain.ChatMessage{})
	ctx := context.Background()

	// one shared timestamp; ids chosen so UUID-style lexicographic order
	// would differ from insertion order
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, id := range []string{"m-b", "m-c", "m-a"} {
		m := domain.ChatMessage{ID: id, UserID: "u1", UserName: "A", Message: "x", Timestamp: t0}
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}

	out, err := ListRecent(ctx, db, 10)
	if err != nil {
		t.Fatalf("ListRecent error: %v", err)
	}
	if len(out) != 3 || out[0].ID != "m-a" || out[1].ID != "m-c" || out[2].ID != "m-b" {
		t.Fatalf("tie not broken by insertion order: %+v", out)
	}

	// the ascending view walks the same tie forwards
	conv, err := ListConversation(ctx, db, "u1")
	if err != nil {
		t.Fatalf("ListConversation error: %v", err)
	}
	if len(conv) != 3 || conv[0].ID != "m-b" || conv[1].ID != "m-c" || conv[2].ID != "m-a" {
		t.Fatalf("ascending tie order wrong: %+v", conv)
	}
}

func TestCountMessages_Error_NoTable(t *testing.T) {
	db := newRepoDB(t /* no migration */)
	if _, err := CountMessages(context.Background(), db, "u1"); err == nil {
		t.Fatalf("expected error due to missing chat_messages table")
	}
}

func TestCountMessages_Success(t *testing.T) {
	db := newRepoDB(t, &domain.ChatMessage{})
	ctx := context.Background()

	for _, uid := range []string{"u1", "u1", "u2"} {
		if _, err := InsertMessage(ctx, db, &domain.ChatMessage{UserID: uid, UserName: "n", Message: "m"}); err != nil {
			t.Fatalf("seed %s: %v", uid, err)
		}
	}
	total, err := CountMessages(ctx, db, "u1")
	if err != nil {
		t.Fatalf("CountMessages error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2, got %d", total)
	}
}
