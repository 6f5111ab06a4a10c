// file: pkg/attendanceclient/controller_test.go
package attendanceclient

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	dto "sanggarku_backend/internals/features/attendance/dto"
)

var errTimeout = errors.New("request timeout")

func fastConfig() Config {
	return Config{
		SavedDisplay: 30 * time.Millisecond,
		RetryDelay:   30 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}
}

func okResponse(req WriteRequest) *dto.AttendanceRecordResponse {
	return &dto.AttendanceRecordResponse{
		AttendanceRecordsID:       uuid.New(),
		AttendanceRecordsEventID:  req.EventID,
		AttendanceRecordsMemberID: req.MemberID,
		AttendanceRecordsStatus:   req.Status,
	}
}

// waitFor polling snapshot sampai cond terpenuhi atau timeout.
func waitFor(t *testing.T, c *Controller, memberID uuid.UUID, cond func(RowSnapshot) bool, what string) RowSnapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap, ok := c.Snapshot(memberID); ok && cond(snap) {
			return snap
		}
		time.Sleep(2 * time.Millisecond)
	}
	snap, _ := c.Snapshot(memberID)
	t.Fatalf("timeout menunggu %s; snapshot terakhir: %+v", what, snap)
	return RowSnapshot{}
}

func TestSelectOptimisticThenSavedThenIdle(t *testing.T) {
	member := uuid.New()
	writer := WriterFunc(func(_ context.Context, req WriteRequest) (*dto.AttendanceRecordResponse, error) {
		return okResponse(req), nil
	})
	c := NewController(uuid.New(), writer, fastConfig(), nil)
	defer c.Close()

	c.Select(member, "present", nil)

	// status lokal langsung berubah sebelum server menjawab
	snap, ok := c.Snapshot(member)
	if !ok {
		t.Fatalf("row tidak ada setelah Select")
	}
	if snap.Status != "present" {
		t.Fatalf("status = %q, want present", snap.Status)
	}
	if snap.State != RowSaving && snap.State != RowSaved {
		t.Fatalf("state awal = %s", snap.State)
	}

	waitFor(t, c, member, func(s RowSnapshot) bool { return s.State == RowSaved }, "state saved")
	// badge "tersimpan" hilang sendiri
	snap = waitFor(t, c, member, func(s RowSnapshot) bool { return s.State == RowIdle }, "state idle")
	if snap.Status != "present" {
		t.Fatalf("status setelah idle = %q, want present", snap.Status)
	}
}

func TestTransientFailureAutoRetriesUntilSuccess(t *testing.T) {
	member := uuid.New()
	var calls int32
	writer := WriterFunc(func(_ context.Context, req WriteRequest) (*dto.AttendanceRecordResponse, error) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			return nil, errTimeout
		}
		return okResponse(req), nil
	})
	c := NewController(uuid.New(), writer, fastConfig(), nil)
	defer c.Close()

	c.Select(member, "late", nil)

	snap := waitFor(t, c, member, func(s RowSnapshot) bool { return s.State == RowError }, "state error")
	if snap.LastErr == nil {
		t.Fatalf("lastErr kosong pada state error")
	}
	if snap.Status != "late" {
		t.Fatalf("status optimistic hilang saat error: %q", snap.Status)
	}

	// retry otomatis jalan tanpa aksi user sampai service pulih
	waitFor(t, c, member, func(s RowSnapshot) bool { return s.State == RowSaved || s.State == RowIdle }, "retry berhasil")
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("jumlah panggilan = %d, want 3", got)
	}
}

func TestRateLimitedWriteRetriesUntilSuccess(t *testing.T) {
	member := uuid.New()
	var calls int32
	writer := WriterFunc(func(_ context.Context, req WriteRequest) (*dto.AttendanceRecordResponse, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			// 429 dari rate limiter: body envelope tanpa error_code dikenal
			return nil, &APIError{Status: 429, Code: "INTERNAL_ERROR", Message: "Terlalu banyak penulisan absensi"}
		}
		return okResponse(req), nil
	})
	c := NewController(uuid.New(), writer, fastConfig(), nil)
	defer c.Close()

	c.Select(member, "present", nil)

	// rate limit itu recoverable: retry otomatis harus jalan
	waitFor(t, c, member, func(s RowSnapshot) bool { return s.State == RowSaved || s.State == RowIdle }, "retry setelah 429")
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("jumlah panggilan = %d, want 2", got)
	}
}

func TestTerminalErrorDoesNotRetry(t *testing.T) {
	member := uuid.New()
	var calls int32
	writer := WriterFunc(func(_ context.Context, _ WriteRequest) (*dto.AttendanceRecordResponse, error) {
		atomic.AddInt32(&calls, 1)
		return nil, &APIError{Status: 404, Code: "NOT_FOUND", Message: "Acara tidak ditemukan"}
	})
	c := NewController(uuid.New(), writer, fastConfig(), nil)
	defer c.Close()

	c.Select(member, "present", nil)
	waitFor(t, c, member, func(s RowSnapshot) bool { return s.State == RowError }, "state error")

	time.Sleep(100 * time.Millisecond) // jauh melewati RetryDelay
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("error terminal di-retry: calls = %d", got)
	}
	snap, _ := c.Snapshot(member)
	if snap.State != RowError {
		t.Fatalf("state = %s, want error", snap.State)
	}
}

func TestRosterLockedDisablesInputs(t *testing.T) {
	member := uuid.New()
	var calls int32
	writer := WriterFunc(func(_ context.Context, _ WriteRequest) (*dto.AttendanceRecordResponse, error) {
		atomic.AddInt32(&calls, 1)
		return nil, &APIError{Status: 409, Code: "ROSTER_LOCKED", Message: "Daftar hadir sudah ditutup"}
	})
	c := NewController(uuid.New(), writer, fastConfig(), nil)
	defer c.Close()

	c.Select(member, "present", nil)
	waitFor(t, c, member, func(s RowSnapshot) bool { return s.State == RowIdle }, "state idle setelah roster locked")

	if c.RosterOpen() {
		t.Fatalf("rosterOpen masih true setelah ROSTER_LOCKED")
	}

	// input mati: Select berikutnya diabaikan
	c.Select(member, "absent", nil)
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("Select masih menulis saat roster closed: calls = %d", got)
	}

	// admin membuka kembali → input hidup lagi
	c.SetRosterOpen(true)
	c.Select(member, "absent", nil)
	waitFor(t, c, member, func(s RowSnapshot) bool {
		return atomic.LoadInt32(&calls) >= 2
	}, "penulisan setelah reopen")
}

func TestNewSelectSupersedesPendingRetry(t *testing.T) {
	member := uuid.New()
	var failFirst int32 = 1
	var lastStatus atomic.Value
	writer := WriterFunc(func(_ context.Context, req WriteRequest) (*dto.AttendanceRecordResponse, error) {
		if atomic.LoadInt32(&failFirst) == 1 && req.Status == "present" {
			return nil, errTimeout
		}
		lastStatus.Store(req.Status)
		return okResponse(req), nil
	})
	cfg := fastConfig()
	cfg.RetryDelay = 80 * time.Millisecond
	c := NewController(uuid.New(), writer, cfg, nil)
	defer c.Close()

	c.Select(member, "present", nil)
	waitFor(t, c, member, func(s RowSnapshot) bool { return s.State == RowError }, "state error")

	// aksi user baru saat retry masih pending → retry lama batal
	c.Select(member, "excused", nil)
	snap := waitFor(t, c, member, func(s RowSnapshot) bool { return s.State == RowIdle }, "aksi baru selesai")
	if snap.Status != "excused" {
		t.Fatalf("status akhir = %q, want excused", snap.Status)
	}

	// tunggu melewati jadwal retry lama: tidak boleh ada tulisan "present" susulan
	time.Sleep(150 * time.Millisecond)
	if got, _ := lastStatus.Load().(string); got != "excused" {
		t.Fatalf("retry lama tetap jalan: penulisan terakhir = %q", got)
	}
}

func TestRowsAreIndependent(t *testing.T) {
	memberA := uuid.New()
	memberB := uuid.New()
	writer := WriterFunc(func(_ context.Context, req WriteRequest) (*dto.AttendanceRecordResponse, error) {
		if req.MemberID == memberA {
			return nil, errTimeout
		}
		return okResponse(req), nil
	})
	c := NewController(uuid.New(), writer, fastConfig(), nil)
	defer c.Close()

	c.Select(memberA, "present", nil)
	c.Select(memberB, "late", nil)

	// kegagalan baris A tidak menahan baris B
	waitFor(t, c, memberB, func(s RowSnapshot) bool { return s.State == RowSaved || s.State == RowIdle }, "baris B tersimpan")
	waitFor(t, c, memberA, func(s RowSnapshot) bool { return s.State == RowError }, "baris A error")
}

func TestSelectWhileInFlightQueuesLatest(t *testing.T) {
	member := uuid.New()
	release := make(chan struct{})
	var mu sync.Mutex
	var statuses []string
	writer := WriterFunc(func(_ context.Context, req WriteRequest) (*dto.AttendanceRecordResponse, error) {
		mu.Lock()
		statuses = append(statuses, req.Status)
		first := len(statuses) == 1
		mu.Unlock()
		if first {
			<-release // tahan penulisan pertama
		}
		return okResponse(req), nil
	})
	c := NewController(uuid.New(), writer, fastConfig(), nil)
	defer c.Close()

	c.Select(member, "present", nil)
	time.Sleep(10 * time.Millisecond) // pastikan penulisan pertama sudah terbang
	c.Select(member, "absent", nil)   // antre di belakang yang in-flight
	close(release)

	snap := waitFor(t, c, member, func(s RowSnapshot) bool { return s.State == RowIdle }, "antrian selesai")
	if snap.Status != "absent" {
		t.Fatalf("status akhir = %q, want absent", snap.Status)
	}

	mu.Lock()
	got := append([]string(nil), statuses...)
	mu.Unlock()
	if len(got) != 2 || got[0] != "present" || got[1] != "absent" {
		t.Fatalf("urutan penulisan = %v, want [present absent]", got)
	}
}

func TestCloseCancelsPendingRetry(t *testing.T) {
	member := uuid.New()
	var calls int32
	writer := WriterFunc(func(_ context.Context, _ WriteRequest) (*dto.AttendanceRecordResponse, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errTimeout
	})
	c := NewController(uuid.New(), writer, fastConfig(), nil)

	c.Select(member, "present", nil)
	waitFor(t, c, member, func(s RowSnapshot) bool { return s.State == RowError }, "state error")

	c.Close()
	time.Sleep(100 * time.Millisecond) // melewati RetryDelay
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("retry tetap jalan setelah Close: calls = %d", got)
	}

	// Select setelah Close diabaikan
	c.Select(member, "absent", nil)
	time.Sleep(30 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("Select setelah Close masih menulis: calls = %d", got)
	}
}

func TestOnChangeNotifies(t *testing.T) {
	member := uuid.New()
	writer := WriterFunc(func(_ context.Context, req WriteRequest) (*dto.AttendanceRecordResponse, error) {
		return okResponse(req), nil
	})
	var saved int32
	c := NewController(uuid.New(), writer, fastConfig(), func(s RowSnapshot) {
		if s.State == RowSaved {
			atomic.AddInt32(&saved, 1)
		}
	})
	defer c.Close()

	c.Select(member, "present", nil)
	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&saved) == 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	if atomic.LoadInt32(&saved) == 0 {
		t.Fatalf("callback onChange tidak pernah melihat state saved")
	}
}
