package controller

import (
	"groupmeet-api/core/constants"
	"groupmeet-api/core/controller"
	"groupmeet-api/core/errors"
	"groupmeet-api/core/params"
	"groupmeet-api/core/utils"
	"groupmeet-api/modules/group/dto"
	"groupmeet-api/modules/group/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// GroupController handles group HTTP requests.
type GroupController struct {
	controller.BaseController
	GroupService service.GroupServiceInterface
}

func NewGroupController(groupService service.GroupServiceInterface) *GroupController {
	return &GroupController{
		BaseController: controller.NewBaseController(),
		GroupService:   groupService,
	}
}

// getUserIDFromContext extracts the authenticated user ID from JWT claims.
func (c *GroupController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// CreateGroup handles POST /groups
// @Summary Create a group
// @Description Creates a group; the creator becomes its leader and receives an invite code
// @Tags Group
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateGroupRequest true "Group details"
// @Success 200 {object} dto.GroupResponse
// @Failure 400 {object} errors.AppError
// @Failure 401 {object} errors.AppError
// @Router /private/groups [post]
func (c *GroupController) CreateGroup(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateGroupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.GroupService.CreateGroup(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Group created successfully")
}

// GetGroups handles GET /groups
// @Summary List groups
// @Description Returns a paginated list of groups, optionally filtered by name
// @Tags Group
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Name filter"
// @Success 200 {object} entity.PaginatedGroupEntity
// @Failure 401 {object} errors.AppError
// @Router /private/groups [get]
func (c *GroupController) GetGroups(ctx echo.Context) error {
	if _, err := c.getUserIDFromContext(ctx); err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	p := params.NewQueryParams(ctx)

	result, appErr := c.GroupService.GetGroups(ctx.Request().Context(), p)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetGroup handles GET /groups/:id
// @Summary Get a group
// @Description Returns one group; the invite code is included for members only
// @Tags Group
// @Security BearerAuth
// @Produce json
// @Param id path string true "Group ID"
// @Success 200 {object} dto.GroupResponse
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/groups/{id} [get]
func (c *GroupController) GetGroup(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	groupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid group ID")
	}

	result, appErr := c.GroupService.GetGroup(ctx.Request().Context(), groupID, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateGroup handles PUT /groups/:id
// @Summary Update a group
// @Description Edits the group's name or description; creator only
// @Tags Group
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Group ID"
// @Param request body dto.UpdateGroupRequest true "Fields to update"
// @Success 200 {object} dto.GroupResponse
// @Failure 400 {object} errors.AppError
// @Failure 403 {object} errors.AppError
// @Router /private/groups/{id} [put]
func (c *GroupController) UpdateGroup(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	groupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid group ID")
	}

	var req dto.UpdateGroupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.GroupService.UpdateGroup(ctx.Request().Context(), groupID, userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Group updated successfully")
}

// DeleteGroup handles DELETE /groups/:id
// @Summary Delete a group
// @Description Removes the group, its memberships and its meetings; creator only
// @Tags Group
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.AppError
// @Failure 403 {object} errors.AppError
// @Router /private/groups/{id} [delete]
func (c *GroupController) DeleteGroup(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	groupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid group ID")
	}

	if appErr := c.GroupService.DeleteGroup(ctx.Request().Context(), groupID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Group deleted successfully")
}

// JoinGroup handles POST /groups/join
// @Summary Join a group by invite code
// @Description Adds the authenticated user to the group matching the invite code
// @Tags Group
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.JoinGroupRequest true "Invite code"
// @Success 200 {object} dto.GroupResponse
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/groups/join [post]
func (c *GroupController) JoinGroup(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.JoinGroupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.GroupService.JoinByCode(ctx.Request().Context(), userID, req.InviteCode)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Joined group successfully")
}

// GetMembers handles GET /groups/:id/members
// @Summary List group members
// @Description Returns every member of the group with their role
// @Tags Group
// @Security BearerAuth
// @Produce json
// @Param id path string true "Group ID"
// @Success 200 {array} dto.MemberResponse
// @Failure 400 {object} errors.AppError
// @Router /private/groups/{id}/members [get]
func (c *GroupController) GetMembers(ctx echo.Context) error {
	if _, err := c.getUserIDFromContext(ctx); err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	groupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid group ID")
	}

	result, appErr := c.GroupService.GetMembers(ctx.Request().Context(), groupID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
