// file: internals/features/attendance/model/attendance_audit_entry_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AttendanceAuditEntryModel: satu transisi status pada satu record.
// Append-only: tidak pernah di-update atau dihapus; urutan mengikuti
// created_at dengan seq sebagai tiebreaker (timestamp DB bisa jatuh
// di tick yang sama). Previous status NULL berarti assignment pertama.
type AttendanceAuditEntryModel struct {
	AttendanceAuditEntriesID uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_audit_entries_id" json:"attendance_audit_entries_id"`

	// Nomor urut monoton (nanosecond saat dicatat), diisi service
	AttendanceAuditEntriesSeq int64 `gorm:"not null;index;column:attendance_audit_entries_seq" json:"attendance_audit_entries_seq"`

	AttendanceAuditEntriesRecordID uuid.UUID `gorm:"type:uuid;not null;index;column:attendance_audit_entries_record_id" json:"attendance_audit_entries_record_id"`
	AttendanceAuditEntriesEventID  uuid.UUID `gorm:"type:uuid;not null;index;column:attendance_audit_entries_event_id" json:"attendance_audit_entries_event_id"`
	AttendanceAuditEntriesMemberID uuid.UUID `gorm:"type:uuid;not null;index;column:attendance_audit_entries_member_id" json:"attendance_audit_entries_member_id"`

	AttendanceAuditEntriesPreviousStatus *AttendanceStatus `gorm:"type:varchar(10);column:attendance_audit_entries_previous_status" json:"attendance_audit_entries_previous_status,omitempty"`
	AttendanceAuditEntriesNewStatus      AttendanceStatus  `gorm:"type:varchar(10);not null;column:attendance_audit_entries_new_status" json:"attendance_audit_entries_new_status"`

	AttendanceAuditEntriesActorID uuid.UUID `gorm:"type:uuid;not null;column:attendance_audit_entries_actor_id" json:"attendance_audit_entries_actor_id"`

	// Metadata request pencatat (ip, user agent, request id)
	AttendanceAuditEntriesMeta datatypes.JSON `gorm:"column:attendance_audit_entries_meta" json:"attendance_audit_entries_meta,omitempty"`

	AttendanceAuditEntriesCreatedAt time.Time `gorm:"autoCreateTime;column:attendance_audit_entries_created_at" json:"attendance_audit_entries_created_at"`
}

func (AttendanceAuditEntryModel) TableName() string { return "attendance_audit_entries" }

func (m *AttendanceAuditEntryModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceAuditEntriesID == uuid.Nil {
		m.AttendanceAuditEntriesID = uuid.New()
	}
	return nil
}
