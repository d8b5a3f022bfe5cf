package service

import (
	"context"
	"testing"
	"time"

	"groupmeet-api/core/errors"
	"groupmeet-api/modules/meeting/dto"
	"groupmeet-api/modules/meeting/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMeetingFixture() (*fakeMeetingRepo, *fakeDirectory, uuid.UUID, uuid.UUID, []uuid.UUID) {
	repo := newFakeMeetingRepo()
	groupID := uuid.New()
	creator := uuid.New()
	members := []uuid.UUID{creator, uuid.New(), uuid.New()}
	dir := &fakeDirectory{members: map[uuid.UUID][]uuid.UUID{groupID: members}}
	return repo, dir, groupID, creator, members
}

func TestCreateMeetingSingle(t *testing.T) {
	repo, dir, groupID, creator, members := newMeetingFixture()
	svc := NewMeetingService(repo, dir, nil)

	date := time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)
	result, appErr := svc.CreateMeeting(context.Background(), creator, &dto.CreateMeetingRequest{
		GroupID: groupID.String(),
		Title:   "planning",
		Date:    date,
	})
	require.Nil(t, appErr)
	require.Len(t, result, 1)

	assert.Empty(t, result[0].SeriesID)
	assert.Nil(t, result[0].SeriesIndex)
	assert.Equal(t, date, result[0].Date)

	// Every group member got an invited attendee row.
	id, err := uuid.Parse(result[0].ID)
	require.NoError(t, err)
	atts := mustInstance(t, repo, id).Attendees
	require.Len(t, atts, len(members))
	for _, att := range atts {
		assert.Equal(t, entity.AttendeeStatusInvited, att.Status)
		assert.False(t, att.IsSeriesRSVP)
	}
}

func TestCreateMeetingSeries(t *testing.T) {
	repo, dir, groupID, creator, members := newMeetingFixture()
	svc := NewMeetingService(repo, dir, nil)

	date := time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)
	result, appErr := svc.CreateMeeting(context.Background(), creator, &dto.CreateMeetingRequest{
		GroupID:      groupID.String(),
		Title:        "book club",
		Date:         date,
		RepeatCount:  4,
		IntervalDays: 7,
	})
	require.Nil(t, appErr)
	require.Len(t, result, 4)

	seriesID := result[0].SeriesID
	require.NotEmpty(t, seriesID)

	for i, resp := range result {
		assert.Equal(t, seriesID, resp.SeriesID)
		require.NotNil(t, resp.SeriesIndex)
		assert.Equal(t, i+1, *resp.SeriesIndex)
		require.NotNil(t, resp.SeriesTotal)
		assert.Equal(t, 4, *resp.SeriesTotal)
		assert.Equal(t, date.AddDate(0, 0, i*7), resp.Date)
	}

	// Attendee fan-out applies to every occurrence.
	parsed, err := uuid.Parse(seriesID)
	require.NoError(t, err)
	instances, err := repo.ListSeriesInstances(context.Background(), parsed)
	require.NoError(t, err)
	for _, inst := range instances {
		assert.Len(t, inst.Attendees, len(members))
	}
}

func TestCreateMeetingValidation(t *testing.T) {
	repo, dir, groupID, creator, _ := newMeetingFixture()
	svc := NewMeetingService(repo, dir, nil)
	date := time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  dto.CreateMeetingRequest
		code errors.ErrorCode
	}{
		{
			name: "bad group id",
			req:  dto.CreateMeetingRequest{GroupID: "nope", Title: "x", Date: date},
			code: errors.ErrInvalidInput,
		},
		{
			name: "missing title",
			req:  dto.CreateMeetingRequest{GroupID: groupID.String(), Date: date},
			code: errors.ErrInvalidInput,
		},
		{
			name: "missing date",
			req:  dto.CreateMeetingRequest{GroupID: groupID.String(), Title: "x"},
			code: errors.ErrInvalidInput,
		},
		{
			name: "series without interval",
			req:  dto.CreateMeetingRequest{GroupID: groupID.String(), Title: "x", Date: date, RepeatCount: 3},
			code: errors.ErrInvalidInput,
		},
		{
			name: "series too long",
			req:  dto.CreateMeetingRequest{GroupID: groupID.String(), Title: "x", Date: date, RepeatCount: MaxSeriesLength + 1, IntervalDays: 7},
			code: errors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, appErr := svc.CreateMeeting(context.Background(), creator, &tt.req)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}

	t.Run("non-member is rejected", func(t *testing.T) {
		_, appErr := svc.CreateMeeting(context.Background(), uuid.New(), &dto.CreateMeetingRequest{
			GroupID: groupID.String(), Title: "x", Date: date,
		})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	})
}

func TestGetGroupSchedule(t *testing.T) {
	repo, dir, groupID, creator, _ := newMeetingFixture()
	svc := NewMeetingService(repo, dir, nil)

	start := time.Now().Add(24 * time.Hour)
	seedSeries(t, repo, groupID, creator, 3, start, week)
	_, err := repo.CreateInstance(context.Background(), &entity.MeetingInstance{
		Date:      start.Add(time.Hour),
		Title:     "one-off",
		GroupID:   groupID,
		CreatedBy: creator,
	})
	require.NoError(t, err)

	result, appErr := svc.GetGroupSchedule(context.Background(), creator, groupID)
	require.Nil(t, appErr)
	assert.Len(t, result.Standalone, 1)
	require.Len(t, result.Series, 1)
	assert.Equal(t, 3, result.Series[0].InstanceCount)
	require.NotNil(t, result.Series[0].NextInstance)

	t.Run("non-member is rejected", func(t *testing.T) {
		_, appErr := svc.GetGroupSchedule(context.Background(), uuid.New(), groupID)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	})
}

func TestUpdateInstance(t *testing.T) {
	repo, dir, groupID, creator, _ := newMeetingFixture()
	svc := NewMeetingService(repo, dir, nil)

	date := time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)
	inst, err := repo.CreateInstance(context.Background(), &entity.MeetingInstance{
		Date:      date,
		Title:     "planning",
		GroupID:   groupID,
		CreatedBy: creator,
	})
	require.NoError(t, err)

	updated := "bring the roadmap"
	result, appErr := svc.UpdateInstance(context.Background(), inst.ID, creator, &dto.UpdateMeetingRequest{
		Description: &updated,
	})
	require.Nil(t, appErr)
	assert.Equal(t, updated, result.Description)

	// Scheduling state is untouched.
	assert.Equal(t, date, mustInstance(t, repo, inst.ID).Date)

	t.Run("only the organizer may edit", func(t *testing.T) {
		_, appErr := svc.UpdateInstance(context.Background(), inst.ID, uuid.New(), &dto.UpdateMeetingRequest{Description: &updated})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	})

	t.Run("unknown meeting", func(t *testing.T) {
		_, appErr := svc.UpdateInstance(context.Background(), uuid.New(), creator, &dto.UpdateMeetingRequest{})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})
}

func TestDeleteInstanceKeepsSiblingOrdinals(t *testing.T) {
	repo, dir, groupID, creator, _ := newMeetingFixture()
	svc := NewMeetingService(repo, dir, nil)

	seriesID, instances := seedSeries(t, repo, groupID, creator, 4, time.Now(), week)

	require.Nil(t, svc.DeleteInstance(context.Background(), instances[1].ID, creator))

	remaining, err := repo.ListSeriesInstances(context.Background(), seriesID)
	require.NoError(t, err)
	require.Len(t, remaining, 3)

	// Siblings keep their original ordinals; nothing is renumbered.
	indices := []int{*remaining[0].SeriesIndex, *remaining[1].SeriesIndex, *remaining[2].SeriesIndex}
	assert.Equal(t, []int{1, 3, 4}, indices)
}

func TestDeleteInstanceErrors(t *testing.T) {
	repo, dir, groupID, creator, _ := newMeetingFixture()
	svc := NewMeetingService(repo, dir, nil)

	_, instances := seedSeries(t, repo, groupID, creator, 2, time.Now(), week)

	t.Run("only the organizer may delete", func(t *testing.T) {
		appErr := svc.DeleteInstance(context.Background(), instances[0].ID, uuid.New())
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	})

	t.Run("unknown meeting", func(t *testing.T) {
		appErr := svc.DeleteInstance(context.Background(), uuid.New(), creator)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})
}

func TestDeleteSeries(t *testing.T) {
	repo, dir, groupID, creator, _ := newMeetingFixture()
	tasks := &fakeEnqueuer{}
	svc := NewMeetingService(repo, dir, tasks)

	seriesID, instances := seedSeries(t, repo, groupID, creator, 3, time.Now(), week)
	addAttendee(t, repo, instances[0].ID, uuid.New(), entity.AttendeeStatusAccepted, true)

	require.Nil(t, svc.DeleteSeries(context.Background(), seriesID, creator))

	remaining, err := repo.ListSeriesInstances(context.Background(), seriesID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	assert.NotEmpty(t, tasks.payloads)

	t.Run("deleting again reports not found", func(t *testing.T) {
		appErr := svc.DeleteSeries(context.Background(), seriesID, creator)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})
}

func TestDeleteSeriesForbiddenForNonCreator(t *testing.T) {
	repo, dir, groupID, creator, _ := newMeetingFixture()
	svc := NewMeetingService(repo, dir, nil)

	seriesID, _ := seedSeries(t, repo, groupID, creator, 2, time.Now(), week)

	appErr := svc.DeleteSeries(context.Background(), seriesID, uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}
