// file: pkg/attendanceclient/controller.go
package attendanceclient

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

/* =========================
   Row state machine
   ========================= */

// State per baris: idle → saving → {saved | error}. saved balik sendiri
// ke idle setelah SavedDisplay; error memicu retry otomatis setelah
// RetryDelay dan re-arm lagi kalau masih gagal.
type RowState string

const (
	RowIdle   RowState = "idle"
	RowSaving RowState = "saving"
	RowSaved  RowState = "saved"
	RowError  RowState = "error"
)

type Config struct {
	SavedDisplay time.Duration // berapa lama badge "tersimpan" tampil
	RetryDelay   time.Duration // jeda sebelum retry otomatis
	WriteTimeout time.Duration // batas waktu satu penulisan
}

func (c *Config) fillDefaults() {
	if c.SavedDisplay <= 0 {
		c.SavedDisplay = 2 * time.Second
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 3 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
}

// RowSnapshot: potret satu baris untuk UI.
type RowSnapshot struct {
	MemberID uuid.UUID
	Status   string
	Note     *string
	State    RowState
	LastErr  error
	Attempts int
}

type row struct {
	memberID uuid.UUID
	status   string
	note     *string
	state    RowState
	timer    *time.Timer
	gen      int
	inFlight bool
	queued   *WriteRequest
	lastErr  error
	attempts int
}

/* =========================
   Controller
   ========================= */

// Controller: state-machine sisi klien untuk layar absensi. Status yang
// dipilih user langsung tampil (optimistic), penulisan jalan di
// belakang; tiap baris independen — kegagalan satu baris tidak pernah
// menunda baris lain.
type Controller struct {
	cfg      Config
	writer   Writer
	eventID  uuid.UUID
	onChange func(RowSnapshot)

	mu         sync.Mutex
	rows       map[uuid.UUID]*row
	rosterOpen bool
	closed     bool
}

func NewController(eventID uuid.UUID, w Writer, cfg Config, onChange func(RowSnapshot)) *Controller {
	cfg.fillDefaults()
	return &Controller{
		cfg:        cfg,
		writer:     w,
		eventID:    eventID,
		onChange:   onChange,
		rows:       make(map[uuid.UUID]*row),
		rosterOpen: true,
	}
}

// SetRosterOpen: gate sisi klien — saat roster closed semua input
// dimatikan dan Select diabaikan, terlepas dari penolakan server.
func (c *Controller) SetRosterOpen(open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rosterOpen = open
}

func (c *Controller) RosterOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rosterOpen
}

// Select: user memilih status untuk satu baris. Status lokal langsung
// berubah, timer pending baris itu dibatalkan (aksi baru menggantikan
// retry/saved-display yang belum sempat jalan), lalu penulisan
// diterbitkan. Kalau masih ada penulisan in-flight, aksi baru antre dan
// diterbitkan setelah hasil in-flight terlihat.
func (c *Controller) Select(memberID uuid.UUID, status string, note *string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.rosterOpen {
		return
	}

	r, ok := c.rows[memberID]
	if !ok {
		r = &row{memberID: memberID, state: RowIdle}
		c.rows[memberID] = r
	}

	r.gen++
	c.stopTimer(r)
	r.status = status
	r.note = note
	r.state = RowSaving
	r.lastErr = nil
	r.attempts = 0

	req := WriteRequest{EventID: c.eventID, MemberID: memberID, Status: status, Note: note}
	if r.inFlight {
		r.queued = &req
	} else {
		c.issue(r, req, r.gen)
	}
	c.notify(r)
}

// Snapshot satu baris (untuk render & test).
func (c *Controller) Snapshot(memberID uuid.UUID) (RowSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.rows[memberID]
	if !ok {
		return RowSnapshot{}, false
	}
	return c.snapshotLocked(r), true
}

// Close membatalkan semua timer pending (navigasi keluar layar).
// Penulisan yang sudah terkirim tetap jalan sampai selesai di server.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for _, r := range c.rows {
		c.stopTimer(r)
		r.queued = nil
	}
}

/* =========================
   Internals (selalu dipanggil dengan c.mu held)
   ========================= */

func (c *Controller) issue(r *row, req WriteRequest, gen int) {
	r.inFlight = true
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.WriteTimeout)
		defer cancel()
		_, err := c.writer.RecordAttendance(ctx, req)

		c.mu.Lock()
		defer c.mu.Unlock()
		r.inFlight = false

		if c.closed {
			return
		}
		// aksi user yang lebih baru sudah antre → terbitkan itu,
		// hasil penulisan lama tidak relevan lagi
		if q := r.queued; q != nil {
			r.queued = nil
			c.issue(r, *q, r.gen)
			return
		}
		if gen != r.gen {
			return
		}

		if err == nil {
			r.state = RowSaved
			r.lastErr = nil
			c.armTimer(r, gen, c.cfg.SavedDisplay, func(r *row) {
				r.state = RowIdle
			})
			c.notify(r)
			return
		}

		r.lastErr = err
		r.attempts++

		switch {
		case IsRosterLocked(err):
			// bukan error baris: matikan input seluruh layar
			c.rosterOpen = false
			r.state = RowIdle
		case IsTerminal(err):
			// NOT_FOUND / INVALID_STATUS: jangan retry otomatis
			r.state = RowError
		default:
			// transient: tampil "retrying", re-arm sampai service pulih
			r.state = RowError
			c.armTimer(r, gen, c.cfg.RetryDelay, func(r *row) {
				r.state = RowSaving
				c.issue(r, req, gen)
			})
		}
		c.notify(r)
	}()
}

func (c *Controller) armTimer(r *row, gen int, d time.Duration, fn func(*row)) {
	c.stopTimer(r)
	r.timer = time.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || gen != r.gen {
			return
		}
		fn(r)
		c.notify(r)
	})
}

func (c *Controller) stopTimer(r *row) {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (c *Controller) snapshotLocked(r *row) RowSnapshot {
	return RowSnapshot{
		MemberID: r.memberID,
		Status:   r.status,
		Note:     r.note,
		State:    r.state,
		LastErr:  r.lastErr,
		Attempts: r.attempts,
	}
}

func (c *Controller) notify(r *row) {
	if c.onChange == nil {
		return
	}
	snap := c.snapshotLocked(r)
	go c.onChange(snap)
}
