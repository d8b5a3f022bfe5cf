package group

import (
	"groupmeet-api/core/database"
	"groupmeet-api/core/middleware"
	"groupmeet-api/modules/group/controller"
	"groupmeet-api/modules/group/repository"
	"groupmeet-api/modules/group/router"
	"groupmeet-api/modules/group/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the group module and registers routes. The returned
// service doubles as the membership directory for other modules.
func Init(g *echo.Group, db database.IDatabase, mw *middleware.Middleware) service.GroupServiceInterface {
	repo := repository.NewGroupRepository(db)
	svc := service.NewGroupService(repo)

	ctrl := controller.NewGroupController(svc)
	router.NewGroupRouter(ctrl).Register(g, mw)

	return svc
}
