// file: internals/features/members/dto/member_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	model "sanggarku_backend/internals/features/members/model"
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

// QuickAddMemberRequest: dipanggil dari layar absensi supaya pendatang
// baru bisa langsung ditandai tanpa pindah layar.
type QuickAddMemberRequest struct {
	MembersName     string  `json:"members_name" validate:"required,max=80"`
	MembersSurname  string  `json:"members_surname" validate:"required,max=80"`
	MembersCategory string  `json:"members_category" validate:"required,oneof=tari musik teater umum"`
	MembersRole     *string `json:"members_role" validate:"omitempty,max=40"`
}

func (r *QuickAddMemberRequest) Normalize() {
	r.MembersName = strings.TrimSpace(r.MembersName)
	r.MembersSurname = strings.TrimSpace(r.MembersSurname)
	r.MembersCategory = strings.ToLower(strings.TrimSpace(r.MembersCategory))
	r.MembersRole = trimPtr(r.MembersRole)
}

func (r *QuickAddMemberRequest) Validate(v *validator.Validate) error {
	return v.Struct(r)
}

func (r *QuickAddMemberRequest) ToModel() *model.MemberModel {
	return &model.MemberModel{
		MembersID:       uuid.New(),
		MembersName:     r.MembersName,
		MembersSurname:  r.MembersSurname,
		MembersCategory: model.MemberCategory(r.MembersCategory),
		MembersRole:     r.MembersRole,
		MembersIsActive: true,
	}
}

/* =========================================================
   Responses
   ========================================================= */

type MemberResponse struct {
	MembersID       uuid.UUID `json:"members_id"`
	MembersName     string    `json:"members_name"`
	MembersSurname  string    `json:"members_surname"`
	MembersCategory string    `json:"members_category"`
	MembersRole     *string   `json:"members_role,omitempty"`
	MembersIsActive bool      `json:"members_is_active"`
	MembersCreatedAt time.Time `json:"members_created_at"`
}

func FromMemberModel(m model.MemberModel) MemberResponse {
	return MemberResponse{
		MembersID:        m.MembersID,
		MembersName:      m.MembersName,
		MembersSurname:   m.MembersSurname,
		MembersCategory:  string(m.MembersCategory),
		MembersRole:      m.MembersRole,
		MembersIsActive:  m.MembersIsActive,
		MembersCreatedAt: m.MembersCreatedAt,
	}
}
