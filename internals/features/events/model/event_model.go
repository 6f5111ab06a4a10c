// file: internals/features/events/model/event_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (Go-side) ===================== */

// Status daftar hadir (varchar(10) di DB, dengan CHECK open|closed)
type RosterStatus string

const (
	RosterOpen   RosterStatus = "open"
	RosterClosed RosterStatus = "closed"
)

/* ===================== Model ===================== */

type EventModel struct {
	// PK
	EventsID uuid.UUID `gorm:"type:uuid;primaryKey;column:events_id" json:"events_id"`

	// Info inti
	EventsTitle string  `gorm:"type:varchar(160);not null;column:events_title" json:"events_title"`
	EventsDesc  *string `gorm:"type:text;column:events_desc" json:"events_desc,omitempty"`

	// Waktu (DATE wajib, jam opsional "HH:MM")
	EventsDate      time.Time `gorm:"not null;column:events_date" json:"events_date"`
	EventsStartTime *string   `gorm:"type:varchar(5);column:events_start_time" json:"events_start_time,omitempty"`
	EventsEndTime   *string   `gorm:"type:varchar(5);column:events_end_time" json:"events_end_time,omitempty"`

	EventsLocation *string `gorm:"type:varchar(160);column:events_location" json:"events_location,omitempty"`

	// Kunci daftar hadir. Selama closed, semua tulisan absensi ditolak;
	// baca tetap boleh. Toggle eksplisit oleh pengurus, tidak pernah
	// berpindah sendiri.
	EventsRosterStatus   RosterStatus `gorm:"type:varchar(10);not null;column:events_roster_status" json:"events_roster_status"`
	EventsRosterLockedAt *time.Time   `gorm:"column:events_roster_locked_at" json:"events_roster_locked_at,omitempty"`

	EventsIsActive bool `gorm:"not null;column:events_is_active" json:"events_is_active"`

	// Audit
	EventsCreatedAt time.Time      `gorm:"autoCreateTime;column:events_created_at" json:"events_created_at"`
	EventsUpdatedAt time.Time      `gorm:"autoUpdateTime;column:events_updated_at" json:"events_updated_at"`
	EventsDeletedAt gorm.DeletedAt `gorm:"column:events_deleted_at;index" json:"events_deleted_at,omitempty"`
}

func (EventModel) TableName() string { return "events" }

func (m *EventModel) BeforeCreate(tx *gorm.DB) error {
	if m.EventsID == uuid.Nil {
		m.EventsID = uuid.New()
	}
	if m.EventsRosterStatus == "" {
		m.EventsRosterStatus = RosterOpen
	}
	return nil
}

func (m *EventModel) RosterIsOpen() bool {
	return m.EventsRosterStatus == RosterOpen
}
