// file: internals/features/events/dto/event_dto.go
package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	model "sanggarku_backend/internals/features/events/model"
)

/* =========================================================
   Shared helpers
   ========================================================= */

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

// parse YYYY-MM-DD → time.Time (UTC midnight)
func parseDateYYYYMMDD(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

/* =========================================================
   PatchField (tri-state): absent | null | value
   ========================================================= */

type PatchField[T any] struct {
	Present bool
	Value   *T
}

func (p *PatchField[T]) UnmarshalJSON(b []byte) error {
	p.Present = true
	if string(b) == "null" {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

func (p PatchField[T]) Get() (*T, bool) { return p.Value, p.Present }

/* =========================================================
   Requests: CREATE
   ========================================================= */

type CreateEventRequest struct {
	EventsTitle     string  `json:"events_title" validate:"required,max=160"`
	EventsDesc      *string `json:"events_desc" validate:"omitempty"`
	EventsDate      string  `json:"events_date" validate:"required"` // YYYY-MM-DD
	EventsStartTime *string `json:"events_start_time" validate:"omitempty,len=5"`
	EventsEndTime   *string `json:"events_end_time" validate:"omitempty,len=5"`
	EventsLocation  *string `json:"events_location" validate:"omitempty,max=160"`
}

func (r *CreateEventRequest) Normalize() {
	r.EventsTitle = strings.TrimSpace(r.EventsTitle)
	r.EventsDesc = trimPtr(r.EventsDesc)
	r.EventsStartTime = trimPtr(r.EventsStartTime)
	r.EventsEndTime = trimPtr(r.EventsEndTime)
	r.EventsLocation = trimPtr(r.EventsLocation)
}

func (r *CreateEventRequest) Validate(v *validator.Validate) error {
	return v.Struct(r)
}

func (r *CreateEventRequest) ToModel() (*model.EventModel, bool) {
	date, ok := parseDateYYYYMMDD(r.EventsDate)
	if !ok {
		return nil, false
	}
	return &model.EventModel{
		EventsID:           uuid.New(),
		EventsTitle:        r.EventsTitle,
		EventsDesc:         r.EventsDesc,
		EventsDate:         date,
		EventsStartTime:    r.EventsStartTime,
		EventsEndTime:      r.EventsEndTime,
		EventsLocation:     r.EventsLocation,
		EventsRosterStatus: model.RosterOpen,
		EventsIsActive:     true,
	}, true
}

/* =========================================================
   Requests: PATCH (partial)
   ========================================================= */

type UpdateEventRequest struct {
	EventsTitle     PatchField[string] `json:"events_title"`
	EventsDesc      PatchField[string] `json:"events_desc"`
	EventsDate      PatchField[string] `json:"events_date"`
	EventsStartTime PatchField[string] `json:"events_start_time"`
	EventsEndTime   PatchField[string] `json:"events_end_time"`
	EventsLocation  PatchField[string] `json:"events_location"`
	EventsIsActive  PatchField[bool]   `json:"events_is_active"`
}

// ToUpdates menyiapkan map kolom→nilai untuk gorm Updates.
// Return false kalau ada tanggal yang formatnya salah.
func (r *UpdateEventRequest) ToUpdates() (map[string]interface{}, bool) {
	updates := map[string]interface{}{}

	if v, ok := r.EventsTitle.Get(); ok && v != nil {
		updates["events_title"] = strings.TrimSpace(*v)
	}
	if v, ok := r.EventsDesc.Get(); ok {
		updates["events_desc"] = trimPtr(v)
	}
	if v, ok := r.EventsDate.Get(); ok && v != nil {
		date, okDate := parseDateYYYYMMDD(*v)
		if !okDate {
			return nil, false
		}
		updates["events_date"] = date
	}
	if v, ok := r.EventsStartTime.Get(); ok {
		updates["events_start_time"] = trimPtr(v)
	}
	if v, ok := r.EventsEndTime.Get(); ok {
		updates["events_end_time"] = trimPtr(v)
	}
	if v, ok := r.EventsLocation.Get(); ok {
		updates["events_location"] = trimPtr(v)
	}
	if v, ok := r.EventsIsActive.Get(); ok && v != nil {
		updates["events_is_active"] = *v
	}

	return updates, true
}

/* =========================================================
   Responses
   ========================================================= */

type EventResponse struct {
	EventsID             uuid.UUID  `json:"events_id"`
	EventsTitle          string     `json:"events_title"`
	EventsDesc           *string    `json:"events_desc,omitempty"`
	EventsDate           string     `json:"events_date"`
	EventsStartTime      *string    `json:"events_start_time,omitempty"`
	EventsEndTime        *string    `json:"events_end_time,omitempty"`
	EventsLocation       *string    `json:"events_location,omitempty"`
	EventsRosterStatus   string     `json:"events_roster_status"`
	EventsRosterLockedAt *time.Time `json:"events_roster_locked_at,omitempty"`
	EventsIsActive       bool       `json:"events_is_active"`
	EventsCreatedAt      time.Time  `json:"events_created_at"`
}

func FromEventModel(m model.EventModel) EventResponse {
	return EventResponse{
		EventsID:             m.EventsID,
		EventsTitle:          m.EventsTitle,
		EventsDesc:           m.EventsDesc,
		EventsDate:           m.EventsDate.Format("2006-01-02"),
		EventsStartTime:      m.EventsStartTime,
		EventsEndTime:        m.EventsEndTime,
		EventsLocation:       m.EventsLocation,
		EventsRosterStatus:   string(m.EventsRosterStatus),
		EventsRosterLockedAt: m.EventsRosterLockedAt,
		EventsIsActive:       m.EventsIsActive,
		EventsCreatedAt:      m.EventsCreatedAt,
	}
}
