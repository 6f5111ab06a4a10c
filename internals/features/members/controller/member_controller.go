// file: internals/features/members/controller/member_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	d "sanggarku_backend/internals/features/members/dto"
	m "sanggarku_backend/internals/features/members/model"
	helper "sanggarku_backend/internals/helpers"
)

/* =========================
   Controller & Constructor
   ========================= */

type MemberController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewMemberController(db *gorm.DB, v *validator.Validate) *MemberController {
	if v == nil {
		v = validator.New()
	}
	return &MemberController{DB: db, Validate: v}
}

/* =========================
   Quick Add (dari layar absensi)
   POST /api/a/members/quick-add
   ========================= */

func (ctl *MemberController) QuickAdd(c *fiber.Ctx) error {
	var req d.QuickAddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	mem := req.ToModel()
	if err := ctl.DB.WithContext(c.UserContext()).Create(mem).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Anggota dengan nama tersebut sudah terdaftar")
		}
		code, msg := helper.MapPGError(err)
		return helper.JsonError(c, code, msg)
	}

	// langsung kembalikan supaya klien bisa menambahkan ke roster lokal
	return helper.JsonCreated(c, "Anggota berhasil ditambahkan", d.FromMemberModel(*mem))
}

/* =========================
   List (anggota aktif, paginated)
   GET /api/u/members
   ========================= */

func (ctl *MemberController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.UserContext()).Model(&m.MemberModel{}).
		Where("members_is_active = ?", true)

	if cat := c.Query("category"); cat != "" {
		q = q.Where("members_category = ?", cat)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []m.MemberModel
	if err := q.Order("members_surname ASC, members_name ASC").
		Offset(pg.Offset).Limit(pg.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]d.MemberResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, d.FromMemberModel(row))
	}

	p := helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage)
	return helper.JsonList(c, "ok", out, &p)
}
