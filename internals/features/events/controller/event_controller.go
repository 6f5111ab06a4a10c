// file: internals/features/events/controller/event_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	d "sanggarku_backend/internals/features/events/dto"
	m "sanggarku_backend/internals/features/events/model"
	helper "sanggarku_backend/internals/helpers"
)

/* =========================
   Controller & Constructor
   ========================= */

type EventController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewEventController(db *gorm.DB, v *validator.Validate) *EventController {
	if v == nil {
		v = validator.New()
	}
	return &EventController{DB: db, Validate: v}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	idStr := strings.TrimSpace(c.Params(name))
	if idStr == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" wajib diisi")
	}
	return uuid.Parse(idStr)
}

/* ===================== CREATE ===================== */
// POST /api/a/events

func (ctl *EventController) Create(c *fiber.Ctx) error {
	var req d.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	ev, ok := req.ToModel()
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
	}

	if err := ctl.DB.WithContext(c.UserContext()).Create(ev).Error; err != nil {
		code, msg := helper.MapPGError(err)
		return helper.JsonError(c, code, msg)
	}

	return helper.JsonCreated(c, "Acara berhasil dibuat", d.FromEventModel(*ev))
}

/* ===================== GET BY ID ===================== */
// GET /api/u/events/:event_id

func (ctl *EventController) GetByID(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "event_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "event_id tidak valid")
	}

	var ev m.EventModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("events_id = ?", id).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Acara tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "ok", d.FromEventModel(ev))
}

/* ===================== LIST ===================== */
// GET /api/u/events?from=YYYY-MM-DD&to=YYYY-MM-DD

func (ctl *EventController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.UserContext()).Model(&m.EventModel{}).
		Where("events_is_active = ?", true)

	if from := strings.TrimSpace(c.Query("from")); from != "" {
		q = q.Where("events_date >= ?", from)
	}
	if to := strings.TrimSpace(c.Query("to")); to != "" {
		q = q.Where("events_date <= ?", to)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []m.EventModel
	if err := q.Order("events_date DESC").
		Offset(pg.Offset).Limit(pg.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]d.EventResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, d.FromEventModel(row))
	}

	p := helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage)
	return helper.JsonList(c, "ok", out, &p)
}

/* ===================== UPDATE (partial) ===================== */
// PATCH /api/a/events/:event_id

func (ctl *EventController) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "event_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "event_id tidak valid")
	}

	var req d.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	updates, ok := req.ToUpdates()
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
	}
	if len(updates) == 0 {
		return helper.JsonOK(c, "Tidak ada perubahan", fiber.Map{"events_id": id})
	}

	res := ctl.DB.WithContext(c.UserContext()).Model(&m.EventModel{}).
		Where("events_id = ?", id).
		Updates(updates)
	if res.Error != nil {
		code, msg := helper.MapPGError(res.Error)
		return helper.JsonError(c, code, msg)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Acara tidak ditemukan")
	}

	var ev m.EventModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("events_id = ?", id).First(&ev).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Acara berhasil diubah", d.FromEventModel(ev))
}

/* ===================== DELETE (soft) ===================== */
// DELETE /api/a/events/:event_id

func (ctl *EventController) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "event_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "event_id tidak valid")
	}

	res := ctl.DB.WithContext(c.UserContext()).
		Where("events_id = ?", id).
		Delete(&m.EventModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Acara tidak ditemukan")
	}

	return helper.JsonDeleted(c, "Acara berhasil dihapus", fiber.Map{"events_id": id})
}
