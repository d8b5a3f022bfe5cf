package service

import (
	"context"
	"testing"
	"time"

	"groupmeet-api/core/errors"
	"groupmeet-api/core/params"
	"groupmeet-api/modules/group/dto"
	"groupmeet-api/modules/group/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGroupRepo struct {
	groups  map[uuid.UUID]*entity.Group
	members []*entity.GroupMember
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[uuid.UUID]*entity.Group)}
}

func (f *fakeGroupRepo) Create(_ context.Context, group *entity.Group) (*entity.Group, error) {
	stored := *group
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	f.groups[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeGroupRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Group, error) {
	if g, ok := f.groups[id]; ok {
		out := *g
		return &out, nil
	}
	return nil, nil
}

func (f *fakeGroupRepo) GetByInviteCode(_ context.Context, code string) (*entity.Group, error) {
	for _, g := range f.groups {
		if g.InviteCode == code {
			out := *g
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeGroupRepo) List(_ context.Context, p params.QueryParams) (*entity.PaginatedGroupEntity, error) {
	var items []entity.Group
	for _, g := range f.groups {
		items = append(items, *g)
	}
	return &entity.PaginatedGroupEntity{
		Items:      items,
		TotalItems: len(items),
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

func (f *fakeGroupRepo) Update(_ context.Context, id uuid.UUID, name string, description *string) error {
	if g, ok := f.groups[id]; ok {
		g.Name = name
		g.Description = description
	}
	return nil
}

func (f *fakeGroupRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.groups, id)
	return nil
}

func (f *fakeGroupRepo) AddMember(_ context.Context, member *entity.GroupMember) error {
	for _, m := range f.members {
		if m.GroupID == member.GroupID && m.UserID == member.UserID {
			return nil
		}
	}
	stored := *member
	stored.CreatedAt = time.Now()
	f.members = append(f.members, &stored)
	return nil
}

func (f *fakeGroupRepo) RemoveMember(_ context.Context, groupID, userID uuid.UUID) error {
	kept := f.members[:0]
	for _, m := range f.members {
		if m.GroupID != groupID || m.UserID != userID {
			kept = append(kept, m)
		}
	}
	f.members = kept
	return nil
}

func (f *fakeGroupRepo) ListMembers(_ context.Context, groupID uuid.UUID) ([]entity.GroupMember, error) {
	var result []entity.GroupMember
	for _, m := range f.members {
		if m.GroupID == groupID {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (f *fakeGroupRepo) IsMember(_ context.Context, groupID, userID uuid.UUID) (bool, error) {
	for _, m := range f.members {
		if m.GroupID == groupID && m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func TestCreateGroup(t *testing.T) {
	repo := newFakeGroupRepo()
	svc := NewGroupService(repo)
	creator := uuid.New()

	result, appErr := svc.CreateGroup(context.Background(), creator, &dto.CreateGroupRequest{
		Name:        "Tuesday Book Club",
		Description: "we read things",
	})
	require.Nil(t, appErr)

	assert.Equal(t, "Tuesday Book Club", result.Name)
	assert.Equal(t, "tuesday-book-club", result.Slug)
	assert.NotEmpty(t, result.InviteCode)

	// The creator is a leader straight away.
	groupID, err := uuid.Parse(result.ID)
	require.NoError(t, err)
	members, err := repo.ListMembers(context.Background(), groupID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, creator, members[0].UserID)
	assert.Equal(t, entity.MemberRoleLeader, members[0].Role)
}

func TestCreateGroupRequiresName(t *testing.T) {
	svc := NewGroupService(newFakeGroupRepo())

	_, appErr := svc.CreateGroup(context.Background(), uuid.New(), &dto.CreateGroupRequest{})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestJoinByCode(t *testing.T) {
	repo := newFakeGroupRepo()
	svc := NewGroupService(repo)
	creator := uuid.New()

	created, appErr := svc.CreateGroup(context.Background(), creator, &dto.CreateGroupRequest{Name: "chess"})
	require.Nil(t, appErr)

	joiner := uuid.New()
	joined, appErr := svc.JoinByCode(context.Background(), joiner, created.InviteCode)
	require.Nil(t, appErr)
	assert.Equal(t, created.ID, joined.ID)

	groupID, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	member, err := svc.IsMember(context.Background(), groupID, joiner)
	require.NoError(t, err)
	assert.True(t, member)

	t.Run("unknown code", func(t *testing.T) {
		_, appErr := svc.JoinByCode(context.Background(), joiner, "NOPE1234")
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})

	t.Run("joining twice is a no-op", func(t *testing.T) {
		_, appErr := svc.JoinByCode(context.Background(), joiner, created.InviteCode)
		require.Nil(t, appErr)

		ids, err := svc.MemberIDs(context.Background(), groupID)
		require.NoError(t, err)
		assert.Len(t, ids, 2)
	})
}

func TestMemberIDs(t *testing.T) {
	repo := newFakeGroupRepo()
	svc := NewGroupService(repo)
	creator := uuid.New()

	created, appErr := svc.CreateGroup(context.Background(), creator, &dto.CreateGroupRequest{Name: "running"})
	require.Nil(t, appErr)
	groupID, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	other := uuid.New()
	_, appErr = svc.JoinByCode(context.Background(), other, created.InviteCode)
	require.Nil(t, appErr)

	ids, err := svc.MemberIDs(context.Background(), groupID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{creator, other}, ids)
}

func TestUpdateGroupPermissions(t *testing.T) {
	repo := newFakeGroupRepo()
	svc := NewGroupService(repo)
	creator := uuid.New()

	created, appErr := svc.CreateGroup(context.Background(), creator, &dto.CreateGroupRequest{Name: "garden"})
	require.Nil(t, appErr)
	groupID, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	_, appErr = svc.UpdateGroup(context.Background(), groupID, uuid.New(), &dto.UpdateGroupRequest{Name: "hijack"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	updated, appErr := svc.UpdateGroup(context.Background(), groupID, creator, &dto.UpdateGroupRequest{Name: "community garden"})
	require.Nil(t, appErr)
	assert.Equal(t, "community garden", updated.Name)
}

func TestDeleteGroupPermissions(t *testing.T) {
	repo := newFakeGroupRepo()
	svc := NewGroupService(repo)
	creator := uuid.New()

	created, appErr := svc.CreateGroup(context.Background(), creator, &dto.CreateGroupRequest{Name: "trivia"})
	require.Nil(t, appErr)
	groupID, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	appErr = svc.DeleteGroup(context.Background(), groupID, uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	require.Nil(t, svc.DeleteGroup(context.Background(), groupID, creator))

	appErr = svc.DeleteGroup(context.Background(), groupID, creator)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}
