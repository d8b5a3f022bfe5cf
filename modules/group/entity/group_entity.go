package entity

import (
	"time"

	"groupmeet-api/core/entity"

	"github.com/google/uuid"
)

// Group is a community group meetings are scheduled in.
type Group struct {
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description *string   `db:"description" json:"description,omitempty"`
	InviteCode  string    `db:"invite_code" json:"invite_code"`
	CreatedBy   uuid.UUID `db:"created_by" json:"created_by"`

	entity.BaseEntity
}

type PaginatedGroupEntity = entity.Pagination[Group]

// MemberRole is a user's role within a group.
type MemberRole string

const (
	MemberRoleLeader MemberRole = "leader"
	MemberRoleMember MemberRole = "member"
)

// GroupMember links one user to one group.
type GroupMember struct {
	GroupID   uuid.UUID  `db:"group_id" json:"group_id"`
	UserID    uuid.UUID  `db:"user_id" json:"user_id"`
	Role      MemberRole `db:"role" json:"role"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
