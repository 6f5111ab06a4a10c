// file: internals/features/attendance/route/attendance_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceCtl "sanggarku_backend/internals/features/attendance/controller"
	"sanggarku_backend/internals/middlewares"
)

// AttendanceUserRoutes: baca roster + status (boleh saat roster closed)
func AttendanceUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := attendanceCtl.NewAttendanceController(db, nil, nil)
	r.Get("/events/:event_id/attendance", ctl.GetRosterWithStatus)
}

// AttendanceAdminRoutes: tulis absensi + toggle kunci roster
func AttendanceAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := attendanceCtl.NewAttendanceController(db, nil, nil)
	grp := r.Group("/events/:event_id/attendance", middlewares.AttendanceWriteRateLimiter())
	grp.Post("/", ctl.RecordAttendance)
	grp.Post("/close-roster", ctl.CloseRoster)
	grp.Post("/reopen-roster", ctl.ReopenRoster)
}
