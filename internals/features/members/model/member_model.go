package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (Go-side) ===================== */

// Kategori keanggotaan (varchar(24) di DB, dengan CHECK di migrasi)
type MemberCategory string

const (
	CategoryTari   MemberCategory = "tari"
	CategoryMusik  MemberCategory = "musik"
	CategoryTeater MemberCategory = "teater"
	CategoryUmum   MemberCategory = "umum"
)

func (c MemberCategory) Valid() bool {
	switch c {
	case CategoryTari, CategoryMusik, CategoryTeater, CategoryUmum:
		return true
	}
	return false
}

/* ===================== Model ===================== */

type MemberModel struct {
	MembersID uuid.UUID `gorm:"type:uuid;primaryKey;column:members_id" json:"members_id"`

	MembersName    string `gorm:"type:varchar(80);not null;column:members_name;uniqueIndex:uq_members_fullname" json:"members_name"`
	MembersSurname string `gorm:"type:varchar(80);not null;column:members_surname;uniqueIndex:uq_members_fullname" json:"members_surname"`

	MembersCategory MemberCategory `gorm:"type:varchar(24);not null;column:members_category" json:"members_category"`
	MembersRole     *string        `gorm:"type:varchar(40);column:members_role" json:"members_role,omitempty"`

	// Hanya anggota aktif yang masuk daftar hadir
	MembersIsActive bool `gorm:"not null;column:members_is_active" json:"members_is_active"`

	MembersCreatedAt time.Time      `gorm:"autoCreateTime;column:members_created_at" json:"members_created_at"`
	MembersUpdatedAt time.Time      `gorm:"autoUpdateTime;column:members_updated_at" json:"members_updated_at"`
	MembersDeletedAt gorm.DeletedAt `gorm:"column:members_deleted_at;index" json:"members_deleted_at,omitempty"`
}

func (MemberModel) TableName() string { return "members" }

func (m *MemberModel) BeforeCreate(tx *gorm.DB) error {
	if m.MembersID == uuid.Nil {
		m.MembersID = uuid.New()
	}
	return nil
}
