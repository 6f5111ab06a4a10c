// file: internals/features/attendance/model/attendance_record_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (Go-side) ===================== */

// Status kehadiran (varchar(10) di DB, dengan CHECK di migrasi)
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
	StatusExcused AttendanceStatus = "excused"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

/* ===================== Model ===================== */

// AttendanceRecordModel: status kehadiran terkini satu anggota pada satu
// acara. Maksimal satu baris per pasangan (event, member); re-assign
// mengubah baris yang sama, bukan membuat baris baru.
type AttendanceRecordModel struct {
	AttendanceRecordsID uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_records_id" json:"attendance_records_id"`

	AttendanceRecordsEventID  uuid.UUID `gorm:"type:uuid;not null;column:attendance_records_event_id;uniqueIndex:uq_attendance_records_event_member" json:"attendance_records_event_id"`
	AttendanceRecordsMemberID uuid.UUID `gorm:"type:uuid;not null;column:attendance_records_member_id;uniqueIndex:uq_attendance_records_event_member" json:"attendance_records_member_id"`

	AttendanceRecordsStatus AttendanceStatus `gorm:"type:varchar(10);not null;column:attendance_records_status" json:"attendance_records_status"`
	AttendanceRecordsNote   *string          `gorm:"type:text;column:attendance_records_note" json:"attendance_records_note,omitempty"`

	AttendanceRecordsCreatedAt time.Time      `gorm:"autoCreateTime;column:attendance_records_created_at" json:"attendance_records_created_at"`
	AttendanceRecordsUpdatedAt time.Time      `gorm:"autoUpdateTime;column:attendance_records_updated_at" json:"attendance_records_updated_at"`
	AttendanceRecordsDeletedAt gorm.DeletedAt `gorm:"column:attendance_records_deleted_at;index" json:"attendance_records_deleted_at,omitempty"`
}

func (AttendanceRecordModel) TableName() string { return "attendance_records" }

func (m *AttendanceRecordModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceRecordsID == uuid.Nil {
		m.AttendanceRecordsID = uuid.New()
	}
	return nil
}
