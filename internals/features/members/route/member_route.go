// file: internals/features/members/route/member_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	memberCtl "sanggarku_backend/internals/features/members/controller"
)

// MemberUserRoutes: read-only (roster & direktori)
func MemberUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := memberCtl.NewMemberController(db, nil)
	grp := r.Group("/members")
	grp.Get("/", ctl.List)
	grp.Get("/list", ctl.List)
}

// MemberAdminRoutes: quick-add dari layar absensi
func MemberAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := memberCtl.NewMemberController(db, nil)
	grp := r.Group("/members")
	grp.Post("/quick-add", ctl.QuickAdd)
}
