package router

import (
	"groupmeet-api/core/middleware"
	"groupmeet-api/modules/meeting/controller"

	"github.com/labstack/echo/v4"
)

// MeetingRouter handles meeting routes.
type MeetingRouter struct {
	MeetingController *controller.MeetingController
}

func NewMeetingRouter(meetingController *controller.MeetingController) *MeetingRouter {
	return &MeetingRouter{
		MeetingController: meetingController,
	}
}

// Register registers meeting routes.
func (r *MeetingRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	meetings := g.Group("/meetings", mw.AuthMiddleware())

	meetings.POST("", r.MeetingController.CreateMeeting)
	meetings.GET("", r.MeetingController.GetGroupSchedule)
	meetings.PUT("/:id", r.MeetingController.UpdateMeeting)
	meetings.DELETE("/:id", r.MeetingController.DeleteMeeting)
	meetings.POST("/:id/skip", r.MeetingController.SkipMeeting)
	meetings.POST("/:id/rsvp", r.MeetingController.RsvpToMeeting)

	meetings.GET("/series/:seriesId", r.MeetingController.GetSeriesInstances)
	meetings.DELETE("/series/:seriesId", r.MeetingController.DeleteSeries)
	meetings.POST("/series/:seriesId/rsvp", r.MeetingController.RsvpToSeries)
}
