// file: internals/features/attendance/dto/attendance_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	model "sanggarku_backend/internals/features/attendance/model"
	eventDTO "sanggarku_backend/internals/features/events/dto"
	memberDTO "sanggarku_backend/internals/features/members/dto"
)

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

/* =========================================================
   Requests
   ========================================================= */

type RecordAttendanceRequest struct {
	MemberID uuid.UUID `json:"member_id" validate:"required"`
	Status   string    `json:"status" validate:"required,oneof=present absent late excused"`
	Note     *string   `json:"note" validate:"omitempty,max=500"`
}

func (r *RecordAttendanceRequest) Normalize() {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.Note = trimPtr(r.Note)
}

func (r *RecordAttendanceRequest) Validate(v *validator.Validate) error {
	return v.Struct(r)
}

/* =========================================================
   Responses
   ========================================================= */

type AttendanceAuditEntryResponse struct {
	AttendanceAuditEntriesID             uuid.UUID `json:"attendance_audit_entries_id"`
	AttendanceAuditEntriesPreviousStatus *string   `json:"attendance_audit_entries_previous_status"`
	AttendanceAuditEntriesNewStatus      string    `json:"attendance_audit_entries_new_status"`
	AttendanceAuditEntriesActorID        uuid.UUID `json:"attendance_audit_entries_actor_id"`
	AttendanceAuditEntriesCreatedAt      time.Time `json:"attendance_audit_entries_created_at"`
}

func FromAuditEntryModel(m model.AttendanceAuditEntryModel) AttendanceAuditEntryResponse {
	var prev *string
	if m.AttendanceAuditEntriesPreviousStatus != nil {
		p := string(*m.AttendanceAuditEntriesPreviousStatus)
		prev = &p
	}
	return AttendanceAuditEntryResponse{
		AttendanceAuditEntriesID:             m.AttendanceAuditEntriesID,
		AttendanceAuditEntriesPreviousStatus: prev,
		AttendanceAuditEntriesNewStatus:      string(m.AttendanceAuditEntriesNewStatus),
		AttendanceAuditEntriesActorID:        m.AttendanceAuditEntriesActorID,
		AttendanceAuditEntriesCreatedAt:      m.AttendanceAuditEntriesCreatedAt,
	}
}

type AttendanceRecordResponse struct {
	AttendanceRecordsID        uuid.UUID                      `json:"attendance_records_id"`
	AttendanceRecordsEventID   uuid.UUID                      `json:"attendance_records_event_id"`
	AttendanceRecordsMemberID  uuid.UUID                      `json:"attendance_records_member_id"`
	AttendanceRecordsStatus    string                         `json:"attendance_records_status"`
	AttendanceRecordsNote      *string                        `json:"attendance_records_note,omitempty"`
	AttendanceRecordsUpdatedAt time.Time                      `json:"attendance_records_updated_at"`
	AuditEntries               []AttendanceAuditEntryResponse `json:"audit_entries,omitempty"`
}

func FromAttendanceRecordModel(m model.AttendanceRecordModel) AttendanceRecordResponse {
	return AttendanceRecordResponse{
		AttendanceRecordsID:        m.AttendanceRecordsID,
		AttendanceRecordsEventID:   m.AttendanceRecordsEventID,
		AttendanceRecordsMemberID:  m.AttendanceRecordsMemberID,
		AttendanceRecordsStatus:    string(m.AttendanceRecordsStatus),
		AttendanceRecordsNote:      m.AttendanceRecordsNote,
		AttendanceRecordsUpdatedAt: m.AttendanceRecordsUpdatedAt,
	}
}

/* =========================================================
   Roster view (layar absensi)
   ========================================================= */

// RosterRowResponse: satu baris layar absensi — anggota + record
// terkininya (nil kalau belum pernah ditandai), audit urut lama→baru.
type RosterRowResponse struct {
	Member memberDTO.MemberResponse  `json:"member"`
	Record *AttendanceRecordResponse `json:"record"`
}

type RosterWithStatusResponse struct {
	Event   eventDTO.EventResponse `json:"event"`
	Members []RosterRowResponse    `json:"members"`
}
