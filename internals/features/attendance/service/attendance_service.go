// file: internals/features/attendance/service/attendance_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	eventModel "sanggarku_backend/internals/features/events/model"
	memberModel "sanggarku_backend/internals/features/members/model"

	model "sanggarku_backend/internals/features/attendance/model"
)

/* =========================
   Typed errors
   ========================= */

var (
	ErrRosterLocked   = errors.New("daftar hadir sudah ditutup")
	ErrEventNotFound  = errors.New("acara tidak ditemukan")
	ErrMemberNotFound = errors.New("anggota tidak ditemukan")
	ErrInvalidStatus  = errors.New("status kehadiran tidak dikenal")
)

/* =========================
   Service
   ========================= */

// AttendanceService memiliki invariant: AttendanceRecord dan audit
// entry-nya ditulis bersama dalam satu transaksi, atau tidak sama
// sekali. Panggilan untuk pasangan (event, member) yang sama
// diserialkan lewat pairLock supaya previous_status yang terbaca selalu
// hasil commit panggilan sebelumnya; pasangan berbeda jalan paralel.
type AttendanceService struct {
	db    *gorm.DB
	pairs *pairLock
}

func New(db *gorm.DB) *AttendanceService {
	return &AttendanceService{db: db, pairs: newPairLock()}
}

// AuditMeta: metadata request yang ikut disimpan di audit entry.
type AuditMeta struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type RecordAttendanceInput struct {
	EventID  uuid.UUID
	MemberID uuid.UUID
	Status   model.AttendanceStatus
	Note     *string
	ActorID  uuid.UUID
	Meta     AuditMeta
}

// RecordAttendance mencatat status kehadiran satu anggota pada satu
// acara. Urutan di dalam transaksi: baca status sebelumnya → upsert
// record → append audit entry. Semua precondition ditolak sebelum ada
// mutasi apa pun; partial write tidak pernah terlihat.
//
// Satu audit entry per panggilan sukses, termasuk re-konfirmasi status
// yang sama (previous == new): log adalah riwayat penuh, bukan diff.
func (s *AttendanceService) RecordAttendance(ctx context.Context, in RecordAttendanceInput) (*model.AttendanceRecordModel, error) {
	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	unlock := s.pairs.Lock(in.EventID, in.MemberID)
	defer unlock()

	var rec model.AttendanceRecordModel

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) Acara harus ada & roster harus open
		var ev eventModel.EventModel
		if err := tx.Where("events_id = ?", in.EventID).First(&ev).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		if !ev.RosterIsOpen() {
			return ErrRosterLocked
		}

		// 2) Anggota harus ada
		var memberCount int64
		if err := tx.Model(&memberModel.MemberModel{}).
			Where("members_id = ?", in.MemberID).
			Count(&memberCount).Error; err != nil {
			return err
		}
		if memberCount == 0 {
			return ErrMemberNotFound
		}

		// 3) Baca status sebelumnya (NULL = assignment pertama)
		var previousStatus *model.AttendanceStatus
		var existing model.AttendanceRecordModel
		err := tx.Where(
			"attendance_records_event_id = ? AND attendance_records_member_id = ?",
			in.EventID, in.MemberID,
		).First(&existing).Error
		switch {
		case err == nil:
			ps := existing.AttendanceRecordsStatus
			previousStatus = &ps
		case errors.Is(err, gorm.ErrRecordNotFound):
			// belum ada record
		default:
			return err
		}

		// 4) Upsert record (identitas dipertahankan kalau sudah ada)
		if previousStatus != nil {
			updates := map[string]interface{}{
				"attendance_records_status": in.Status,
			}
			if in.Note != nil {
				updates["attendance_records_note"] = in.Note
			}
			if err := tx.Model(&model.AttendanceRecordModel{}).
				Where("attendance_records_id = ?", existing.AttendanceRecordsID).
				Updates(updates).Error; err != nil {
				return err
			}
			existing.AttendanceRecordsStatus = in.Status
			if in.Note != nil {
				existing.AttendanceRecordsNote = in.Note
			}
			existing.AttendanceRecordsUpdatedAt = time.Now()
			rec = existing
		} else {
			rec = model.AttendanceRecordModel{
				AttendanceRecordsID:       uuid.New(),
				AttendanceRecordsEventID:  in.EventID,
				AttendanceRecordsMemberID: in.MemberID,
				AttendanceRecordsStatus:   in.Status,
				AttendanceRecordsNote:     in.Note,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}

		// 5) Append audit entry dalam transaksi yang sama
		// seq monoton: penulisan se-pasangan sudah terserialisasi oleh
		// pair lock, jadi nanosecond di sini strictly increasing per chain
		entry := model.AttendanceAuditEntryModel{
			AttendanceAuditEntriesID:             uuid.New(),
			AttendanceAuditEntriesSeq:            time.Now().UnixNano(),
			AttendanceAuditEntriesRecordID:       rec.AttendanceRecordsID,
			AttendanceAuditEntriesEventID:        in.EventID,
			AttendanceAuditEntriesMemberID:       in.MemberID,
			AttendanceAuditEntriesPreviousStatus: previousStatus,
			AttendanceAuditEntriesNewStatus:      in.Status,
			AttendanceAuditEntriesActorID:        in.ActorID,
			AttendanceAuditEntriesMeta:           marshalMeta(in.Meta),
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

/* =========================
   Roster lock (open/closed)
   ========================= */

// IsRosterOpen: baca state kunci tanpa menyentuh record.
func (s *AttendanceService) IsRosterOpen(ctx context.Context, eventID uuid.UUID) (bool, error) {
	var ev eventModel.EventModel
	if err := s.db.WithContext(ctx).Where("events_id = ?", eventID).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrEventNotFound
		}
		return false, err
	}
	return ev.RosterIsOpen(), nil
}

// SetRosterLock toggle kunci daftar hadir. Toggle sendiri tidak masuk
// audit trail; cukup tercatat implisit lewat events_roster_locked_at.
func (s *AttendanceService) SetRosterLock(ctx context.Context, eventID uuid.UUID, status eventModel.RosterStatus) (*eventModel.EventModel, error) {
	now := time.Now()
	res := s.db.WithContext(ctx).Model(&eventModel.EventModel{}).
		Where("events_id = ?", eventID).
		Updates(map[string]interface{}{
			"events_roster_status":    status,
			"events_roster_locked_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrEventNotFound
	}

	var ev eventModel.EventModel
	if err := s.db.WithContext(ctx).Where("events_id = ?", eventID).First(&ev).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

func marshalMeta(m AuditMeta) datatypes.JSON {
	if m == (AuditMeta{}) {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
