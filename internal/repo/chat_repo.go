// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the ChatMessage
// model.
//
// Ordering contract:
//   - ListConversation returns timestamp ASC with ties broken by insertion
//     order (SQLite rowid): re-querying is safe and yields the same order,
//     with new messages appended at the end.
//   - ListRecent returns timestamp DESC with ties broken by insertion order,
//     newest insert first. The rowid is monotonic for this append-only table,
//     so equal timestamps (bulk-imported rows, coarse source clocks) still
//     come back deterministically.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careline/clinic-backend/internal/domain"
)

// InsertMessage persists a chat message as a single atomic row insert.
// The caller provides a fully populated record except ID and Timestamp,
// which are assigned here (UUID, UTC now).
func InsertMessage(ctx context.Context, db *gorm.DB, m *domain.ChatMessage) (*domain.ChatMessage, error) {
	m.ID = uuid.NewString()
	m.Timestamp = time.Now().UTC()
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListConversation returns all messages for a conversation (user id),
// ordered ascending by timestamp, insertion order on ties.
func ListConversation(ctx context.Context, db *gorm.DB, userID string) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp ASC, rowid ASC").
		Find(&out).Error
	return out, err
}

// ListRecent returns up to limit messages across all conversations,
// ordered descending by timestamp, reverse insertion order on ties.
func ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	err := db.WithContext(ctx).
		Order("timestamp DESC, rowid DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountMessages uses a raw COUNT so a missing table surfaces as an error.
func CountMessages(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM chat_messages WHERE user_id = ?", userID).
		Scan(&total).Error
	return total, err
}
