// file: internals/features/attendance/service/attendance_service_test.go
package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	model "sanggarku_backend/internals/features/attendance/model"
	eventModel "sanggarku_backend/internals/features/events/model"
	memberModel "sanggarku_backend/internals/features/members/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// in-memory sqlite: satu koneksi = satu database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&eventModel.EventModel{},
		&memberModel.MemberModel{},
		&model.AttendanceRecordModel{},
		&model.AttendanceAuditEntryModel{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedEvent(t *testing.T, db *gorm.DB) eventModel.EventModel {
	t.Helper()
	ev := eventModel.EventModel{
		EventsTitle:        "Latihan Gamelan",
		EventsDate:         time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EventsRosterStatus: eventModel.RosterOpen,
		EventsIsActive:     true,
	}
	if err := db.Create(&ev).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return ev
}

func seedMember(t *testing.T, db *gorm.DB, name, surname string) memberModel.MemberModel {
	t.Helper()
	mem := memberModel.MemberModel{
		MembersName:     name,
		MembersSurname:  surname,
		MembersCategory: memberModel.CategoryUmum,
		MembersIsActive: true,
	}
	if err := db.Create(&mem).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return mem
}

func record(t *testing.T, svc *AttendanceService, ev eventModel.EventModel, mem memberModel.MemberModel, status model.AttendanceStatus) *model.AttendanceRecordModel {
	t.Helper()
	rec, err := svc.RecordAttendance(context.Background(), RecordAttendanceInput{
		EventID:  ev.EventsID,
		MemberID: mem.MembersID,
		Status:   status,
		ActorID:  uuid.New(),
	})
	if err != nil {
		t.Fatalf("RecordAttendance(%s): %v", status, err)
	}
	return rec
}

func auditEntries(t *testing.T, db *gorm.DB, recordID uuid.UUID) []model.AttendanceAuditEntryModel {
	t.Helper()
	var entries []model.AttendanceAuditEntryModel
	if err := db.Where("attendance_audit_entries_record_id = ?", recordID).
		Order("attendance_audit_entries_created_at ASC, attendance_audit_entries_seq ASC").
		Find(&entries).Error; err != nil {
		t.Fatalf("load audit: %v", err)
	}
	return entries
}

func TestRecordAttendanceFirstAssignment(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)
	ev := seedEvent(t, db)
	mem := seedMember(t, db, "Sari", "Wulandari")

	rec := record(t, svc, ev, mem, model.StatusPresent)

	if rec.AttendanceRecordsStatus != model.StatusPresent {
		t.Fatalf("status = %s, want present", rec.AttendanceRecordsStatus)
	}

	entries := auditEntries(t, db, rec.AttendanceRecordsID)
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(entries))
	}
	if entries[0].AttendanceAuditEntriesPreviousStatus != nil {
		t.Fatalf("previous status = %v, want nil", *entries[0].AttendanceAuditEntriesPreviousStatus)
	}
	if entries[0].AttendanceAuditEntriesNewStatus != model.StatusPresent {
		t.Fatalf("new status = %s, want present", entries[0].AttendanceAuditEntriesNewStatus)
	}
}

func TestAuditOrderStableForBackToBackWrites(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)
	ev := seedEvent(t, db)
	mem := seedMember(t, db, "Dewi", "Anggraini")

	// tanpa jeda: timestamp bisa jatuh di tick yang sama, seq yang
	// menjaga urutan chain tetap deterministik
	chain := []model.AttendanceStatus{
		model.StatusPresent, model.StatusLate, model.StatusAbsent, model.StatusExcused,
	}
	var rec *model.AttendanceRecordModel
	for _, st := range chain {
		rec = record(t, svc, ev, mem, st)
	}

	entries := auditEntries(t, db, rec.AttendanceRecordsID)
	if len(entries) != len(chain) {
		t.Fatalf("audit entries = %d, want %d", len(entries), len(chain))
	}
	for i, e := range entries {
		if e.AttendanceAuditEntriesNewStatus != chain[i] {
			t.Fatalf("entry %d new = %s, want %s", i, e.AttendanceAuditEntriesNewStatus, chain[i])
		}
		if i == 0 {
			if e.AttendanceAuditEntriesPreviousStatus != nil {
				t.Fatalf("entry 0 previous = %v, want nil", *e.AttendanceAuditEntriesPreviousStatus)
			}
			continue
		}
		if e.AttendanceAuditEntriesPreviousStatus == nil ||
			*e.AttendanceAuditEntriesPreviousStatus != chain[i-1] {
			t.Fatalf("entry %d previous = %v, want %s", i, e.AttendanceAuditEntriesPreviousStatus, chain[i-1])
		}
		if e.AttendanceAuditEntriesSeq <= entries[i-1].AttendanceAuditEntriesSeq {
			t.Fatalf("seq tidak monoton: entry %d seq=%d <= entry %d seq=%d",
				i, e.AttendanceAuditEntriesSeq, i-1, entries[i-1].AttendanceAuditEntriesSeq)
		}
	}
}

func TestRecordAttendanceTransitionKeepsIdentity(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)
	ev := seedEvent(t, db)
	mem := seedMember(t, db, "Bima", "Santoso")

	first := record(t, svc, ev, mem, model.StatusPresent)
	time.Sleep(5 * time.Millisecond)
	second := record(t, svc, ev, mem, model.StatusLate)

	if first.AttendanceRecordsID != second.AttendanceRecordsID {
		t.Fatalf("record identity changed on re-assignment")
	}
	if second.AttendanceRecordsStatus != model.StatusLate {
		t.Fatalf("status = %s, want late", second.AttendanceRecordsStatus)
	}

	var count int64
	db.Model(&model.AttendanceRecordModel{}).
		Where("attendance_records_event_id = ?", ev.EventsID).
		Count(&count)
	if count != 1 {
		t.Fatalf("records for pair = %d, want 1", count)
	}

	entries := auditEntries(t, db, first.AttendanceRecordsID)
	if len(entries) != 2 {
		t.Fatalf("audit entries = %d, want 2", len(entries))
	}
	if entries[1].AttendanceAuditEntriesPreviousStatus == nil ||
		*entries[1].AttendanceAuditEntriesPreviousStatus != model.StatusPresent {
		t.Fatalf("second entry previous = %v, want present", entries[1].AttendanceAuditEntriesPreviousStatus)
	}
	if entries[1].AttendanceAuditEntriesNewStatus != model.StatusLate {
		t.Fatalf("second entry new = %s, want late", entries[1].AttendanceAuditEntriesNewStatus)
	}
}

func TestRecordAttendanceReconfirmStillLogs(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)
	ev := seedEvent(t, db)
	mem := seedMember(t, db, "Dewi", "Kusuma")

	rec := record(t, svc, ev, mem, model.StatusExcused)
	time.Sleep(5 * time.Millisecond)
	record(t, svc, ev, mem, model.StatusExcused)

	entries := auditEntries(t, db, rec.AttendanceRecordsID)
	if len(entries) != 2 {
		t.Fatalf("audit entries = %d, want 2 (re-konfirmasi tetap dicatat)", len(entries))
	}
	last := entries[1]
	if last.AttendanceAuditEntriesPreviousStatus == nil ||
		*last.AttendanceAuditEntriesPreviousStatus != last.AttendanceAuditEntriesNewStatus {
		t.Fatalf("re-confirm entry should have previous == new")
	}

	var current model.AttendanceRecordModel
	if err := db.Where("attendance_records_id = ?", rec.AttendanceRecordsID).First(&current).Error; err != nil {
		t.Fatalf("reload record: %v", err)
	}
	if current.AttendanceRecordsStatus != model.StatusExcused {
		t.Fatalf("status corrupted by re-confirm: %s", current.AttendanceRecordsStatus)
	}
}

func TestRecordAttendanceRosterLocked(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)
	ev := seedEvent(t, db)
	mem := seedMember(t, db, "Rara", "Pertiwi")

	rec := record(t, svc, ev, mem, model.StatusPresent)

	if _, err := svc.SetRosterLock(context.Background(), ev.EventsID, eventModel.RosterClosed); err != nil {
		t.Fatalf("close roster: %v", err)
	}
	open, err := svc.IsRosterOpen(context.Background(), ev.EventsID)
	if err != nil || open {
		t.Fatalf("IsRosterOpen = %v,%v, want false,nil", open, err)
	}

	_, err = svc.RecordAttendance(context.Background(), RecordAttendanceInput{
		EventID:  ev.EventsID,
		MemberID: mem.MembersID,
		Status:   model.StatusAbsent,
		ActorID:  uuid.New(),
	})
	if !errors.Is(err, ErrRosterLocked) {
		t.Fatalf("err = %v, want ErrRosterLocked", err)
	}

	// record & log tidak berubah sama sekali
	var current model.AttendanceRecordModel
	if err := db.Where("attendance_records_id = ?", rec.AttendanceRecordsID).First(&current).Error; err != nil {
		t.Fatalf("reload record: %v", err)
	}
	if current.AttendanceRecordsStatus != model.StatusPresent {
		t.Fatalf("status mutated while locked: %s", current.AttendanceRecordsStatus)
	}
	if got := len(auditEntries(t, db, rec.AttendanceRecordsID)); got != 1 {
		t.Fatalf("audit entries = %d, want 1", got)
	}
}

func TestRecordAttendanceReopenThenFullChain(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)
	ev := seedEvent(t, db)
	mem := seedMember(t, db, "Joko", "Prabowo")
	ctx := context.Background()

	rec := record(t, svc, ev, mem, model.StatusPresent)
	time.Sleep(5 * time.Millisecond)
	record(t, svc, ev, mem, model.StatusLate)

	if _, err := svc.SetRosterLock(ctx, ev.EventsID, eventModel.RosterClosed); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := svc.SetRosterLock(ctx, ev.EventsID, eventModel.RosterOpen); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	record(t, svc, ev, mem, model.StatusAbsent)

	entries := auditEntries(t, db, rec.AttendanceRecordsID)
	if len(entries) != 3 {
		t.Fatalf("audit entries = %d, want 3", len(entries))
	}
	wantChain := []struct {
		prev *model.AttendanceStatus
		next model.AttendanceStatus
	}{
		{nil, model.StatusPresent},
		{ptr(model.StatusPresent), model.StatusLate},
		{ptr(model.StatusLate), model.StatusAbsent},
	}
	for i, want := range wantChain {
		got := entries[i]
		if (got.AttendanceAuditEntriesPreviousStatus == nil) != (want.prev == nil) {
			t.Fatalf("entry %d previous nil-ness mismatch", i)
		}
		if want.prev != nil && *got.AttendanceAuditEntriesPreviousStatus != *want.prev {
			t.Fatalf("entry %d previous = %s, want %s", i, *got.AttendanceAuditEntriesPreviousStatus, *want.prev)
		}
		if got.AttendanceAuditEntriesNewStatus != want.next {
			t.Fatalf("entry %d new = %s, want %s", i, got.AttendanceAuditEntriesNewStatus, want.next)
		}
	}
}

func TestRecordAttendancePreconditions(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)
	ev := seedEvent(t, db)
	mem := seedMember(t, db, "Tono", "Hartono")
	ctx := context.Background()

	_, err := svc.RecordAttendance(ctx, RecordAttendanceInput{
		EventID:  ev.EventsID,
		MemberID: mem.MembersID,
		Status:   "hadir-banget",
		ActorID:  uuid.New(),
	})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}

	_, err = svc.RecordAttendance(ctx, RecordAttendanceInput{
		EventID:  uuid.New(),
		MemberID: mem.MembersID,
		Status:   model.StatusPresent,
		ActorID:  uuid.New(),
	})
	if !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("err = %v, want ErrEventNotFound", err)
	}

	_, err = svc.RecordAttendance(ctx, RecordAttendanceInput{
		EventID:  ev.EventsID,
		MemberID: uuid.New(),
		Status:   model.StatusPresent,
		ActorID:  uuid.New(),
	})
	if !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("err = %v, want ErrMemberNotFound", err)
	}

	// tidak ada sampah yang tertinggal
	var recCount, auditCount int64
	db.Model(&model.AttendanceRecordModel{}).Count(&recCount)
	db.Model(&model.AttendanceAuditEntryModel{}).Count(&auditCount)
	if recCount != 0 || auditCount != 0 {
		t.Fatalf("partial writes observed: records=%d audit=%d", recCount, auditCount)
	}
}

func TestRecordAttendanceConcurrentDistinctMembers(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)
	ev := seedEvent(t, db)
	m1 := seedMember(t, db, "Ayu", "Lestari")
	m2 := seedMember(t, db, "Rudi", "Gunawan")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, mem := range []memberModel.MemberModel{m1, m2} {
		wg.Add(1)
		go func(i int, mem memberModel.MemberModel) {
			defer wg.Done()
			_, errs[i] = svc.RecordAttendance(context.Background(), RecordAttendanceInput{
				EventID:  ev.EventsID,
				MemberID: mem.MembersID,
				Status:   model.StatusPresent,
				ActorID:  uuid.New(),
			})
		}(i, mem)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("goroutine %d: %v", i, err)
		}
	}
	var count int64
	db.Model(&model.AttendanceRecordModel{}).
		Where("attendance_records_event_id = ?", ev.EventsID).
		Count(&count)
	if count != 2 {
		t.Fatalf("records = %d, want 2", count)
	}
}

func TestRecordAttendanceConcurrentSamePairSerializes(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)
	ev := seedEvent(t, db)
	mem := seedMember(t, db, "Nina", "Rahayu")

	var wg sync.WaitGroup
	for _, st := range []model.AttendanceStatus{model.StatusPresent, model.StatusLate} {
		wg.Add(1)
		go func(st model.AttendanceStatus) {
			defer wg.Done()
			if _, err := svc.RecordAttendance(context.Background(), RecordAttendanceInput{
				EventID:  ev.EventsID,
				MemberID: mem.MembersID,
				Status:   st,
				ActorID:  uuid.New(),
			}); err != nil {
				t.Errorf("RecordAttendance(%s): %v", st, err)
			}
		}(st)
	}
	wg.Wait()

	var rec model.AttendanceRecordModel
	if err := db.Where(
		"attendance_records_event_id = ? AND attendance_records_member_id = ?",
		ev.EventsID, mem.MembersID,
	).First(&rec).Error; err != nil {
		t.Fatalf("load record: %v", err)
	}

	entries := auditEntries(t, db, rec.AttendanceRecordsID)
	if len(entries) != 2 {
		t.Fatalf("audit entries = %d, want 2", len(entries))
	}
	// urutan bisa bolak-balik, tapi rantainya harus konsisten:
	// entry pertama previous nil, entry kedua previous == new entry pertama
	if entries[0].AttendanceAuditEntriesPreviousStatus != nil {
		t.Fatalf("first entry previous = %v, want nil", *entries[0].AttendanceAuditEntriesPreviousStatus)
	}
	if entries[1].AttendanceAuditEntriesPreviousStatus == nil ||
		*entries[1].AttendanceAuditEntriesPreviousStatus != entries[0].AttendanceAuditEntriesNewStatus {
		t.Fatalf("audit chain inconsistent: %+v", entries)
	}
	if rec.AttendanceRecordsStatus != entries[1].AttendanceAuditEntriesNewStatus {
		t.Fatalf("record status %s does not match last entry %s",
			rec.AttendanceRecordsStatus, entries[1].AttendanceAuditEntriesNewStatus)
	}
}

func TestSetRosterLockUnknownEvent(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	_, err := svc.SetRosterLock(context.Background(), uuid.New(), eventModel.RosterClosed)
	if !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("err = %v, want ErrEventNotFound", err)
	}
}

func ptr(s model.AttendanceStatus) *model.AttendanceStatus { return &s }
