package router

import (
	"groupmeet-api/core/middleware"
	"groupmeet-api/modules/group/controller"

	"github.com/labstack/echo/v4"
)

// GroupRouter handles group routes.
type GroupRouter struct {
	GroupController *controller.GroupController
}

func NewGroupRouter(groupController *controller.GroupController) *GroupRouter {
	return &GroupRouter{
		GroupController: groupController,
	}
}

// Register registers group routes.
func (r *GroupRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	groups := g.Group("/groups", mw.AuthMiddleware())

	groups.POST("", r.GroupController.CreateGroup)
	groups.GET("", r.GroupController.GetGroups)
	groups.POST("/join", r.GroupController.JoinGroup)
	groups.GET("/:id", r.GroupController.GetGroup)
	groups.PUT("/:id", r.GroupController.UpdateGroup)
	groups.DELETE("/:id", r.GroupController.DeleteGroup)
	groups.GET("/:id/members", r.GroupController.GetMembers)
}
