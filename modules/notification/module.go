package notification

import (
	"groupmeet-api/core/constants"
	"groupmeet-api/core/database"
	"groupmeet-api/core/middleware"
	"groupmeet-api/modules/notification/controller"
	"groupmeet-api/modules/notification/repository"
	"groupmeet-api/modules/notification/router"
	"groupmeet-api/modules/notification/service"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Init initializes the notification module and registers routes.
func Init(g *echo.Group, db database.IDatabase, mw *middleware.Middleware) service.NotificationServiceInterface {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)

	ctrl := controller.NewNotificationController(svc)
	router.NewNotificationRouter(ctrl).Register(g, mw)

	return svc
}

// RegisterWorker mounts the delivery handler on the worker mux.
func RegisterWorker(mux *asynq.ServeMux, svc service.NotificationServiceInterface) {
	mux.HandleFunc(constants.TaskNotificationDeliver, svc.HandleDeliverTask)
}
