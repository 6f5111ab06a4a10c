// file: internals/route/details/sanggar_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceRoute "sanggarku_backend/internals/features/attendance/route"
	eventRoute "sanggarku_backend/internals/features/events/route"
	memberRoute "sanggarku_backend/internals/features/members/route"
)

// SanggarUserRoutes: semua read-only untuk user ber-token
// (layar absensi boleh dibaca walau roster closed).
func SanggarUserRoutes(r fiber.Router, db *gorm.DB) {
	eventRoute.EventUserRoutes(r, db)
	memberRoute.MemberUserRoutes(r, db)
	attendanceRoute.AttendanceUserRoutes(r, db)
}

// SanggarAdminRoutes: tulis absensi, toggle roster, quick-add, CRUD acara.
func SanggarAdminRoutes(r fiber.Router, db *gorm.DB) {
	eventRoute.EventAdminRoutes(r, db)
	memberRoute.MemberAdminRoutes(r, db)
	attendanceRoute.AttendanceAdminRoutes(r, db)
}
