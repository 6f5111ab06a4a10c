// file: internals/features/events/route/event_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	eventCtl "sanggarku_backend/internals/features/events/controller"
)

// EventUserRoutes: read-only
func EventUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := eventCtl.NewEventController(db, nil)
	grp := r.Group("/events")
	grp.Get("/", ctl.List)
	grp.Get("/list", ctl.List)
	grp.Get("/:event_id", ctl.GetByID)
}

// EventAdminRoutes: CRUD acara
func EventAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := eventCtl.NewEventController(db, nil)
	grp := r.Group("/events")
	grp.Post("/", ctl.Create)
	grp.Patch("/:event_id", ctl.Update)
	grp.Delete("/:event_id", ctl.Delete)
}
