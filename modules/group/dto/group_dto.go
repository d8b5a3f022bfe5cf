package dto

import (
	"time"

	"groupmeet-api/modules/group/entity"
)

// ===================== Request DTOs =====================

type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type UpdateGroupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type JoinGroupRequest struct {
	InviteCode string `json:"invite_code" validate:"required"`
}

// ===================== Response DTOs =====================

type GroupResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	InviteCode  string    `json:"invite_code,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type MemberResponse struct {
	GroupID  string    `json:"group_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// ===================== Mapper Functions =====================

// ToGroupResponse maps a group entity to its response. The invite code is
// only included when includeCode is set (members only).
func ToGroupResponse(g *entity.Group, includeCode bool) *GroupResponse {
	resp := &GroupResponse{
		ID:        g.ID.String(),
		Name:      g.Name,
		Slug:      g.Slug,
		CreatedBy: g.CreatedBy.String(),
		CreatedAt: g.CreatedAt,
	}
	if g.Description != nil {
		resp.Description = *g.Description
	}
	if includeCode {
		resp.InviteCode = g.InviteCode
	}
	return resp
}

func ToMemberResponse(m *entity.GroupMember) MemberResponse {
	return MemberResponse{
		GroupID:  m.GroupID.String(),
		UserID:   m.UserID.String(),
		Role:     string(m.Role),
		JoinedAt: m.CreatedAt,
	}
}
