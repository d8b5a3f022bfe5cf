package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"groupmeet-api/core/database"
	"groupmeet-api/core/logger"
	"groupmeet-api/core/params"
	"groupmeet-api/modules/group/entity"

	"github.com/google/uuid"
)

// GroupRepository handles group and membership database operations.
type GroupRepository struct {
	DB database.IDatabase
}

func NewGroupRepository(db database.IDatabase) *GroupRepository {
	return &GroupRepository{DB: db}
}

type GroupRepositoryInterface interface {
	Create(ctx context.Context, group *entity.Group) (*entity.Group, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Group, error)
	GetByInviteCode(ctx context.Context, code string) (*entity.Group, error)
	List(ctx context.Context, p params.QueryParams) (*entity.PaginatedGroupEntity, error)
	Update(ctx context.Context, id uuid.UUID, name string, description *string) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddMember(ctx context.Context, member *entity.GroupMember) error
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]entity.GroupMember, error)
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
}

func (r *GroupRepository) Create(ctx context.Context, group *entity.Group) (*entity.Group, error) {
	query := `
		INSERT INTO groups (name, slug, description, invite_code, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, slug, description, invite_code, created_by, created_at, updated_at
	`

	var created entity.Group
	err := r.DB.GetContext(ctx, &created, query,
		group.Name, group.Slug, group.Description, group.InviteCode, group.CreatedBy)
	if err != nil {
		logger.Error("GroupRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *GroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
	query := `
		SELECT id, name, slug, description, invite_code, created_by, created_at, updated_at
		FROM groups WHERE id = $1
	`

	var group entity.Group
	err := r.DB.GetContext(ctx, &group, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("GroupRepository:GetByID", err)
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) GetByInviteCode(ctx context.Context, code string) (*entity.Group, error) {
	query := `
		SELECT id, name, slug, description, invite_code, created_by, created_at, updated_at
		FROM groups WHERE invite_code = $1
	`

	var group entity.Group
	err := r.DB.GetContext(ctx, &group, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("GroupRepository:GetByInviteCode", err)
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) List(ctx context.Context, p params.QueryParams) (*entity.PaginatedGroupEntity, error) {
	offset := (p.PageNumber - 1) * p.PageSize

	baseQuery := `FROM groups`

	var whereClause string
	var args []any
	conditions := []string{}
	argIndex := 1

	if p.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIndex))
		args = append(args, "%"+p.Search+"%")
		argIndex++
	}

	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var totalItems int
	err := r.DB.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+baseQuery+whereClause, args...)
	if err != nil {
		logger.Error("GroupRepository:List:Count", err)
		return nil, err
	}

	dataQuery := `
		SELECT id, name, slug, description, invite_code, created_by, created_at, updated_at
	` + baseQuery + whereClause + `
		ORDER BY created_at DESC
		LIMIT $` + fmt.Sprintf("%d", argIndex) + ` OFFSET $` + fmt.Sprintf("%d", argIndex+1)

	args = append(args, p.PageSize, offset)

	var groups []entity.Group
	err = r.DB.SelectContext(ctx, &groups, dataQuery, args...)
	if err != nil {
		logger.Error("GroupRepository:List:Select", err)
		return nil, err
	}

	return &entity.PaginatedGroupEntity{
		Items:      groups,
		TotalItems: totalItems,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

func (r *GroupRepository) Update(ctx context.Context, id uuid.UUID, name string, description *string) error {
	query := `
		UPDATE groups
		SET name = $2, description = $3, updated_at = now()
		WHERE id = $1
	`

	result, err := r.DB.ExecContext(ctx, query, id, name, description)
	if err != nil {
		logger.Error("GroupRepository:Update", err)
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		logger.Error("GroupRepository:Update:RowsAffected", err)
		return err
	}
	if rows == 0 {
		return fmt.Errorf("group with id %s not found", id)
	}

	return nil
}

func (r *GroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM groups WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("GroupRepository:Delete", err)
		return err
	}
	return nil
}

// ===================== Membership =====================

func (r *GroupRepository) AddMember(ctx context.Context, member *entity.GroupMember) error {
	query := `
		INSERT INTO group_members (group_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`

	_, err := r.DB.ExecContext(ctx, query, member.GroupID, member.UserID, member.Role)
	if err != nil {
		logger.Error("GroupRepository:AddMember", err)
		return err
	}
	return nil
}

func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	query := `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`
	_, err := r.DB.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		logger.Error("GroupRepository:RemoveMember", err)
		return err
	}
	return nil
}

func (r *GroupRepository) ListMembers(ctx context.Context, groupID uuid.UUID) ([]entity.GroupMember, error) {
	query := `
		SELECT group_id, user_id, role, created_at
		FROM group_members
		WHERE group_id = $1
		ORDER BY created_at ASC
	`

	var members []entity.GroupMember
	err := r.DB.SelectContext(ctx, &members, query, groupID)
	if err != nil {
		logger.Error("GroupRepository:ListMembers", err)
		return nil, err
	}
	return members, nil
}

func (r *GroupRepository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`
	err := r.DB.GetContext(ctx, &exists, query, groupID, userID)
	if err != nil {
		logger.Error("GroupRepository:IsMember", err)
		return false, err
	}
	return exists, nil
}
