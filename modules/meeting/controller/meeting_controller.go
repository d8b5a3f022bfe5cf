package controller

import (
	"groupmeet-api/core/constants"
	"groupmeet-api/core/controller"
	"groupmeet-api/core/errors"
	"groupmeet-api/core/utils"
	"groupmeet-api/modules/meeting/dto"
	"groupmeet-api/modules/meeting/entity"
	"groupmeet-api/modules/meeting/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// MeetingController handles meeting HTTP requests.
type MeetingController struct {
	controller.BaseController
	MeetingService service.MeetingServiceInterface
	RsvpService    service.RsvpServiceInterface
	SkipService    service.SkipServiceInterface
}

func NewMeetingController(meetings service.MeetingServiceInterface, rsvps service.RsvpServiceInterface, skips service.SkipServiceInterface) *MeetingController {
	return &MeetingController{
		BaseController: controller.NewBaseController(),
		MeetingService: meetings,
		RsvpService:    rsvps,
		SkipService:    skips,
	}
}

// getUserIDFromContext extracts the authenticated user ID from JWT claims.
func (c *MeetingController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return claims.UserID, nil
}

// CreateMeeting handles POST /meetings
// @Summary Create a meeting or series
// @Description Schedules a single meeting, or a recurring series when repeat_count > 1
// @Tags Meeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateMeetingRequest true "Meeting details"
// @Success 200 {array} dto.MeetingResponse
// @Failure 400 {object} errors.AppError
// @Failure 401 {object} errors.AppError
// @Router /private/meetings [post]
func (c *MeetingController) CreateMeeting(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateMeetingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.MeetingService.CreateMeeting(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting created successfully")
}

// GetGroupSchedule handles GET /meetings?group_id=
// @Summary List a group's meetings
// @Description Returns the group's schedule, with each series fronted by its next upcoming occurrence
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param group_id query string true "Group ID"
// @Success 200 {object} dto.GroupScheduleResponse
// @Failure 401 {object} errors.AppError
// @Router /private/meetings [get]
func (c *MeetingController) GetGroupSchedule(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	groupID, err := uuid.Parse(ctx.QueryParam("group_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid group ID")
	}

	result, appErr := c.MeetingService.GetGroupSchedule(ctx.Request().Context(), userID, groupID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetSeriesInstances handles GET /meetings/series/:seriesId
// @Summary List a series' instances
// @Description Returns every instance of a series ordered by series_index
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param seriesId path string true "Series ID"
// @Success 200 {array} dto.MeetingResponse
// @Failure 400 {object} errors.AppError
// @Router /private/meetings/series/{seriesId} [get]
func (c *MeetingController) GetSeriesInstances(ctx echo.Context) error {
	seriesID, err := uuid.Parse(ctx.Param("seriesId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid series ID")
	}

	result, appErr := c.MeetingService.GetSeriesInstances(ctx.Request().Context(), seriesID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateMeeting handles PUT /meetings/:id
// @Summary Update a meeting's details
// @Description Edits free-text fields of one occurrence; the schedule is untouched
// @Tags Meeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param request body dto.UpdateMeetingRequest true "Fields to update"
// @Success 200 {object} dto.MeetingResponse
// @Failure 400 {object} errors.AppError
// @Router /private/meetings/{id} [put]
func (c *MeetingController) UpdateMeeting(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	var req dto.UpdateMeetingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.MeetingService.UpdateInstance(ctx.Request().Context(), meetingID, userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting updated successfully")
}

// DeleteMeeting handles DELETE /meetings/:id
// @Summary Delete one meeting
// @Description Removes one occurrence and its attendee rows
// @Tags Meeting
// @Security BearerAuth
// @Param id path string true "Meeting ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.AppError
// @Router /private/meetings/{id} [delete]
func (c *MeetingController) DeleteMeeting(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	if appErr := c.MeetingService.DeleteInstance(ctx.Request().Context(), meetingID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Meeting deleted successfully")
}

// DeleteSeries handles DELETE /meetings/series/:seriesId
// @Summary Delete a whole series
// @Description Removes every instance of the series and their attendee rows
// @Tags Meeting
// @Security BearerAuth
// @Param seriesId path string true "Series ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.AppError
// @Router /private/meetings/series/{seriesId} [delete]
func (c *MeetingController) DeleteSeries(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	seriesID, err := uuid.Parse(ctx.Param("seriesId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid series ID")
	}

	if appErr := c.MeetingService.DeleteSeries(ctx.Request().Context(), seriesID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Series deleted successfully")
}

// SkipMeeting handles POST /meetings/:id/skip
// @Summary Skip an occurrence
// @Description Pushes this and every later occurrence forward by the series' inferred interval
// @Tags Meeting
// @Security BearerAuth
// @Param id path string true "Meeting ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/meetings/{id}/skip [post]
func (c *MeetingController) SkipMeeting(ctx echo.Context) error {
	if _, err := c.getUserIDFromContext(ctx); err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	if appErr := c.SkipService.Skip(ctx.Request().Context(), meetingID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Meeting skipped successfully")
}

// RsvpToMeeting handles POST /meetings/:id/rsvp
// @Summary RSVP to one occurrence
// @Description Records a one-off response for a single occurrence only
// @Tags Meeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param request body dto.InstanceRsvpRequest true "RSVP"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.AppError
// @Failure 403 {object} errors.AppError
// @Router /private/meetings/{id}/rsvp [post]
func (c *MeetingController) RsvpToMeeting(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	var req dto.InstanceRsvpRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	attendeeID, err := uuid.Parse(req.AttendeeID)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid attendee ID")
	}

	appErr := c.RsvpService.RsvpToInstance(ctx.Request().Context(), meetingID, attendeeID, userID, entity.AttendeeStatus(req.Status))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "RSVP saved")
}

// RsvpToSeries handles POST /meetings/series/:seriesId/rsvp
// @Summary RSVP to a whole series
// @Description Applies one decision to every occurrence of the series
// @Tags Meeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param seriesId path string true "Series ID"
// @Param request body dto.SeriesRsvpRequest true "RSVP"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.AppError
// @Router /private/meetings/series/{seriesId}/rsvp [post]
func (c *MeetingController) RsvpToSeries(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	seriesID, err := uuid.Parse(ctx.Param("seriesId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid series ID")
	}

	var req dto.SeriesRsvpRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	appErr := c.RsvpService.RsvpToSeries(ctx.Request().Context(), seriesID, userID, entity.AttendeeStatus(req.Status))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Series RSVP saved")
}
