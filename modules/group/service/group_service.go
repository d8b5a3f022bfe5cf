package service

import (
	"context"

	"groupmeet-api/core/errors"
	"groupmeet-api/core/params"
	"groupmeet-api/core/utils"
	"groupmeet-api/modules/group/dto"
	"groupmeet-api/modules/group/entity"
	"groupmeet-api/modules/group/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// GroupService handles group business logic. It also serves as the
// membership directory for the meeting module.
type GroupService struct {
	repo repository.GroupRepositoryInterface
}

type GroupServiceInterface interface {
	CreateGroup(ctx context.Context, userID uuid.UUID, req *dto.CreateGroupRequest) (*dto.GroupResponse, *errors.AppError)
	GetGroup(ctx context.Context, groupID, userID uuid.UUID) (*dto.GroupResponse, *errors.AppError)
	GetGroups(ctx context.Context, p params.QueryParams) (*entity.PaginatedGroupEntity, *errors.AppError)
	UpdateGroup(ctx context.Context, groupID, userID uuid.UUID, req *dto.UpdateGroupRequest) (*dto.GroupResponse, *errors.AppError)
	DeleteGroup(ctx context.Context, groupID, userID uuid.UUID) *errors.AppError
	JoinByCode(ctx context.Context, userID uuid.UUID, code string) (*dto.GroupResponse, *errors.AppError)
	GetMembers(ctx context.Context, groupID uuid.UUID) ([]dto.MemberResponse, *errors.AppError)

	// Directory methods consumed by the meeting module.
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	MemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)
}

func NewGroupService(repo repository.GroupRepositoryInterface) GroupServiceInterface {
	return &GroupService{repo: repo}
}

// CreateGroup creates a group with a URL slug and a shareable invite code;
// the creator becomes its leader.
func (s *GroupService) CreateGroup(ctx context.Context, userID uuid.UUID, req *dto.CreateGroupRequest) (*dto.GroupResponse, *errors.AppError) {
	if req.Name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "name is required", nil)
	}

	group := &entity.Group{
		Name:       req.Name,
		Slug:       slug.Make(req.Name),
		InviteCode: utils.GenerateInviteCode(),
		CreatedBy:  userID,
	}
	if req.Description != "" {
		group.Description = &req.Description
	}

	created, err := s.repo.Create(ctx, group)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create group", err)
	}

	member := &entity.GroupMember{
		GroupID: created.ID,
		UserID:  userID,
		Role:    entity.MemberRoleLeader,
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to add group leader", err)
	}

	return dto.ToGroupResponse(created, true), nil
}

func (s *GroupService) GetGroup(ctx context.Context, groupID, userID uuid.UUID) (*dto.GroupResponse, *errors.AppError) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get group", err)
	}
	if group == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Group not found", nil)
	}

	member, err := s.repo.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check membership", err)
	}

	return dto.ToGroupResponse(group, member), nil
}

func (s *GroupService) GetGroups(ctx context.Context, p params.QueryParams) (*entity.PaginatedGroupEntity, *errors.AppError) {
	result, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list groups", err)
	}
	return result, nil
}

func (s *GroupService) UpdateGroup(ctx context.Context, groupID, userID uuid.UUID, req *dto.UpdateGroupRequest) (*dto.GroupResponse, *errors.AppError) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil || group == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Group not found", err)
	}
	if group.CreatedBy != userID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Not authorized", nil)
	}

	name := group.Name
	if req.Name != "" {
		name = req.Name
	}
	description := group.Description
	if req.Description != nil {
		description = req.Description
	}

	if err := s.repo.Update(ctx, groupID, name, description); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update group", err)
	}

	return s.GetGroup(ctx, groupID, userID)
}

func (s *GroupService) DeleteGroup(ctx context.Context, groupID, userID uuid.UUID) *errors.AppError {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil || group == nil {
		return errors.NewAppError(errors.ErrNotFound, "Group not found", err)
	}
	if group.CreatedBy != userID {
		return errors.NewAppError(errors.ErrForbidden, "Not authorized", nil)
	}

	if err := s.repo.Delete(ctx, groupID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete group", err)
	}
	return nil
}

// JoinByCode adds the user to the group matching the invite code.
func (s *GroupService) JoinByCode(ctx context.Context, userID uuid.UUID, code string) (*dto.GroupResponse, *errors.AppError) {
	if code == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invite code is required", nil)
	}

	group, err := s.repo.GetByInviteCode(ctx, code)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to look up invite code", err)
	}
	if group == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Invalid invite code", nil)
	}

	member := &entity.GroupMember{
		GroupID: group.ID,
		UserID:  userID,
		Role:    entity.MemberRoleMember,
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to join group", err)
	}

	return dto.ToGroupResponse(group, true), nil
}

func (s *GroupService) GetMembers(ctx context.Context, groupID uuid.UUID) ([]dto.MemberResponse, *errors.AppError) {
	members, err := s.repo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list members", err)
	}

	result := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		result = append(result, dto.ToMemberResponse(&members[i]))
	}
	return result, nil
}

func (s *GroupService) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	return s.repo.IsMember(ctx, groupID, userID)
}

func (s *GroupService) MemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	members, err := s.repo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return ids, nil
}
