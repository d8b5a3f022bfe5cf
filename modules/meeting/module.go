package meeting

import (
	"groupmeet-api/core/database"
	"groupmeet-api/core/middleware"
	"groupmeet-api/core/taskq"
	"groupmeet-api/modules/meeting/controller"
	"groupmeet-api/modules/meeting/repository"
	"groupmeet-api/modules/meeting/router"
	"groupmeet-api/modules/meeting/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the meeting module and registers routes.
func Init(g *echo.Group, db database.IDatabase, mw *middleware.Middleware, groups service.GroupDirectory, locks service.Locker, tasks taskq.IEnqueuer) {
	repo := repository.NewMeetingRepository(db)
	meetings := service.NewMeetingService(repo, groups, tasks)
	rsvps := service.NewRsvpService(repo)
	skips := service.NewSkipService(repo, locks, tasks)

	ctrl := controller.NewMeetingController(meetings, rsvps, skips)
	router.NewMeetingRouter(ctrl).Register(g, mw)
}
