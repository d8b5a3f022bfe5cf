package router

import (
	"groupmeet-api/core/middleware"
	"groupmeet-api/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

// NotificationRouter handles notification routes.
type NotificationRouter struct {
	NotificationController *controller.NotificationController
}

func NewNotificationRouter(notificationController *controller.NotificationController) *NotificationRouter {
	return &NotificationRouter{
		NotificationController: notificationController,
	}
}

// Register registers notification routes.
func (r *NotificationRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	notifications := g.Group("/notifications", mw.AuthMiddleware())

	notifications.GET("", r.NotificationController.GetMyNotifications)
	notifications.GET("/unread-count", r.NotificationController.CountUnread)
	notifications.PUT("/mark-read", r.NotificationController.MarkAsRead)
	notifications.PUT("/mark-all-read", r.NotificationController.MarkAllAsRead)
}
