// Package domain defines the persistence models for administrators, doctors,
// and chat messages. These types are mapped with GORM and form the core data
// layer of the clinic support application.
package domain

import (
	"time"
)

// Admin represents a privileged account permitted to authenticate against the
// admin API. The password column stores a bcrypt hash, never the raw password,
// and is excluded from every JSON projection.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Username: login name; unique across all administrator records.
//   - Password: bcrypt hash of the admin password (JSON-omitted).
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Admin struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Username  string    `json:"username"   gorm:"type:varchar(64);not null;uniqueIndex:ux_admin_username"`
	Password  string    `json:"-"          gorm:"type:varchar(128);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Admin.
func (Admin) TableName() string { return "admins" }

// AdminView is the redacted projection of an Admin returned by the login
// endpoint. It never carries the password hash.
type AdminView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// View returns the redacted projection of the admin.
func (a *Admin) View() AdminView {
	return AdminView{ID: a.ID, Username: a.Username, CreatedAt: a.CreatedAt}
}

// Doctor represents a clinic practitioner shown to patients. Email is
// optional; when present it must be unique. A nil Email is exempt from the
// uniqueness constraint (sparse semantics: SQLite unique indexes ignore NULL
// rows), which is why the repair utility normalizes empty strings to NULL.
type Doctor struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"       gorm:"type:varchar(128);not null"`
	Specialty string    `json:"specialty"  gorm:"type:varchar(128)"`
	Email     *string   `json:"email,omitempty" gorm:"type:varchar(254);uniqueIndex:ux_doctor_email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Doctor.
func (Doctor) TableName() string { return "doctors" }

// ChatMessage is a single utterance in a support conversation. Messages are
// immutable once created and are grouped into conversations by UserID.
//
// Ordering: retrieval by conversation sorts on Timestamp ascending with ties
// broken by insertion order; the composite index idx_conv_time backs that
// query and the standalone timestamp index backs the cross-conversation
// recency view.
//
// IsAIResponse marks machine-generated replies; Intent and Confidence are only
// meaningful on such messages and stay nil otherwise.
type ChatMessage struct {
	ID           string    `json:"id"           gorm:"type:char(36);primaryKey"`
	UserID       string    `json:"userId"       gorm:"type:varchar(64);not null;index:idx_conv_time,priority:1"`
	UserName     string    `json:"userName"     gorm:"type:varchar(128);not null"`
	Message      string    `json:"message"      gorm:"type:text;not null"`
	IsSupport    bool      `json:"isSupport"    gorm:"not null;default:false"`
	Timestamp    time.Time `json:"timestamp"    gorm:"not null;index:idx_conv_time,priority:2;index:idx_msg_time"`
	SessionID    *string   `json:"sessionId,omitempty"  gorm:"type:varchar(64)"`
	IsAIResponse bool      `json:"isAIResponse" gorm:"not null;default:false"`
	Intent       *string   `json:"intent,omitempty"     gorm:"type:varchar(64)"`
	Confidence   *float64  `json:"confidence,omitempty"`
}

// TableName returns the database table name for ChatMessage.
func (ChatMessage) TableName() string { return "chat_messages" }
