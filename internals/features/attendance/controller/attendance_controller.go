// file: internals/features/attendance/controller/attendance_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	d "sanggarku_backend/internals/features/attendance/dto"
	m "sanggarku_backend/internals/features/attendance/model"
	service "sanggarku_backend/internals/features/attendance/service"
	eventDTO "sanggarku_backend/internals/features/events/dto"
	eventModel "sanggarku_backend/internals/features/events/model"
	memberDTO "sanggarku_backend/internals/features/members/dto"
	memberModel "sanggarku_backend/internals/features/members/model"
	helper "sanggarku_backend/internals/helpers"
)

/* =========================
   Controller & Constructor
   ========================= */

type AttendanceController struct {
	DB       *gorm.DB
	Service  *service.AttendanceService
	Validate *validator.Validate
}

func NewAttendanceController(db *gorm.DB, svc *service.AttendanceService, v *validator.Validate) *AttendanceController {
	if svc == nil {
		svc = service.New(db)
	}
	if v == nil {
		v = validator.New()
	}
	return &AttendanceController{DB: db, Service: svc, Validate: v}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	idStr := strings.TrimSpace(c.Params(name))
	if idStr == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" wajib diisi")
	}
	return uuid.Parse(idStr)
}

// mapServiceError → response error terstruktur untuk klien optimistic.
func mapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrRosterLocked):
		return helper.JsonErrorWithCode(c, fiber.StatusConflict, "ROSTER_LOCKED", "Daftar hadir sudah ditutup")
	case errors.Is(err, service.ErrEventNotFound):
		return helper.JsonErrorWithCode(c, fiber.StatusNotFound, "NOT_FOUND", "Acara tidak ditemukan")
	case errors.Is(err, service.ErrMemberNotFound):
		return helper.JsonErrorWithCode(c, fiber.StatusNotFound, "NOT_FOUND", "Anggota tidak ditemukan")
	case errors.Is(err, service.ErrInvalidStatus):
		return helper.JsonErrorWithCode(c, fiber.StatusUnprocessableEntity, "INVALID_STATUS", "Status kehadiran tidak dikenal")
	default:
		code, msg := helper.MapPGError(err)
		return helper.JsonError(c, code, msg)
	}
}

/* =========================
   Record attendance
   POST /api/a/events/:event_id/attendance
   ========================= */

func (ctl *AttendanceController) RecordAttendance(c *fiber.Ctx) error {
	eventID, err := parseUUIDParam(c, "event_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "event_id tidak valid")
	}

	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req d.RecordAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := req.Validate(ctl.Validate); err != nil {
		// INVALID_STATUS khusus field status; pelanggaran lain
		// (member_id kosong, note kepanjangan) bukan soal status
		if helper.HasFieldViolation(err, "Status") {
			return helper.JsonErrorWithCode(c, fiber.StatusUnprocessableEntity, "INVALID_STATUS", "Status kehadiran tidak dikenal")
		}
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	reqID, _ := c.Locals("reqid").(string)
	rec, err := ctl.Service.RecordAttendance(c.UserContext(), service.RecordAttendanceInput{
		EventID:  eventID,
		MemberID: req.MemberID,
		Status:   m.AttendanceStatus(req.Status),
		Note:     req.Note,
		ActorID:  actorID,
		Meta: service.AuditMeta{
			IP:        c.IP(),
			UserAgent: c.Get("User-Agent"),
			RequestID: reqID,
		},
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return helper.JsonOK(c, "Kehadiran tercatat", d.FromAttendanceRecordModel(*rec))
}

/* =========================
   Roster lock toggle
   POST /api/a/events/:event_id/attendance/close-roster
   POST /api/a/events/:event_id/attendance/reopen-roster
   ========================= */

func (ctl *AttendanceController) CloseRoster(c *fiber.Ctx) error {
	return ctl.setRoster(c, eventModel.RosterClosed, "Daftar hadir ditutup")
}

func (ctl *AttendanceController) ReopenRoster(c *fiber.Ctx) error {
	return ctl.setRoster(c, eventModel.RosterOpen, "Daftar hadir dibuka kembali")
}

func (ctl *AttendanceController) setRoster(c *fiber.Ctx, status eventModel.RosterStatus, msg string) error {
	eventID, err := parseUUIDParam(c, "event_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "event_id tidak valid")
	}

	ev, err := ctl.Service.SetRosterLock(c.UserContext(), eventID, status)
	if err != nil {
		return mapServiceError(c, err)
	}

	return helper.JsonUpdated(c, msg, fiber.Map{
		"events_id":            ev.EventsID,
		"events_roster_status": ev.EventsRosterStatus,
	})
}

/* =========================
   Roster with status (layar absensi)
   GET /api/u/events/:event_id/attendance
   ========================= */

func (ctl *AttendanceController) GetRosterWithStatus(c *fiber.Ctx) error {
	eventID, err := parseUUIDParam(c, "event_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "event_id tidak valid")
	}

	db := ctl.DB.WithContext(c.UserContext())

	var ev eventModel.EventModel
	if err := db.Where("events_id = ?", eventID).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonErrorWithCode(c, fiber.StatusNotFound, "NOT_FOUND", "Acara tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	// anggota aktif = roster acara
	var members []memberModel.MemberModel
	if err := db.Where("members_is_active = ?", true).
		Order("members_surname ASC, members_name ASC").
		Find(&members).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var records []m.AttendanceRecordModel
	if err := db.Where("attendance_records_event_id = ?", eventID).
		Find(&records).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	recByMember := make(map[uuid.UUID]m.AttendanceRecordModel, len(records))
	for _, r := range records {
		recByMember[r.AttendanceRecordsMemberID] = r
	}

	// audit urut lama→baru, dikelompokkan per record
	var entries []m.AttendanceAuditEntryModel
	if err := db.Where("attendance_audit_entries_event_id = ?", eventID).
		Order("attendance_audit_entries_created_at ASC, attendance_audit_entries_seq ASC").
		Find(&entries).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	auditByRecord := make(map[uuid.UUID][]d.AttendanceAuditEntryResponse)
	for _, e := range entries {
		auditByRecord[e.AttendanceAuditEntriesRecordID] = append(
			auditByRecord[e.AttendanceAuditEntriesRecordID], d.FromAuditEntryModel(e))
	}

	rows := make([]d.RosterRowResponse, 0, len(members))
	for _, mem := range members {
		row := d.RosterRowResponse{Member: memberDTO.FromMemberModel(mem)}
		if rec, ok := recByMember[mem.MembersID]; ok {
			rr := d.FromAttendanceRecordModel(rec)
			rr.AuditEntries = auditByRecord[rec.AttendanceRecordsID]
			row.Record = &rr
		}
		rows = append(rows, row)
	}

	return helper.JsonOK(c, "ok", d.RosterWithStatusResponse{
		Event:   eventDTO.FromEventModel(ev),
		Members: rows,
	})
}
