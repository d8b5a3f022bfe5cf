package service

import (
	"context"
	"testing"
	"time"

	"groupmeet-api/core/errors"
	"groupmeet-api/modules/meeting/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRsvpToInstance(t *testing.T) {
	repo := newFakeMeetingRepo()
	inst, err := repo.CreateInstance(context.Background(), &entity.MeetingInstance{
		Date:      time.Now(),
		Title:     "standup",
		GroupID:   uuid.New(),
		CreatedBy: uuid.New(),
	})
	require.NoError(t, err)

	user := uuid.New()
	attendeeID := addAttendee(t, repo, inst.ID, user, entity.AttendeeStatusInvited, false)

	svc := NewRsvpService(repo)
	appErr := svc.RsvpToInstance(context.Background(), inst.ID, attendeeID, user, entity.AttendeeStatusAccepted)
	require.Nil(t, appErr)

	att, err := repo.GetAttendeeByID(context.Background(), attendeeID)
	require.NoError(t, err)
	assert.Equal(t, entity.AttendeeStatusAccepted, att.Status)
	assert.False(t, att.IsSeriesRSVP, "a one-off response never counts as a series decision")
	assert.NotNil(t, att.RespondedAt)
}

func TestRsvpToInstanceIsIdempotent(t *testing.T) {
	repo := newFakeMeetingRepo()
	inst, err := repo.CreateInstance(context.Background(), &entity.MeetingInstance{
		Date:      time.Now(),
		Title:     "standup",
		GroupID:   uuid.New(),
		CreatedBy: uuid.New(),
	})
	require.NoError(t, err)

	user := uuid.New()
	attendeeID := addAttendee(t, repo, inst.ID, user, entity.AttendeeStatusInvited, false)

	svc := NewRsvpService(repo)
	require.Nil(t, svc.RsvpToInstance(context.Background(), inst.ID, attendeeID, user, entity.AttendeeStatusMaybe))
	require.Nil(t, svc.RsvpToInstance(context.Background(), inst.ID, attendeeID, user, entity.AttendeeStatusMaybe))

	// Re-applying the same response converges on one unchanged row.
	atts := mustInstance(t, repo, inst.ID).Attendees
	require.Len(t, atts, 1)
	assert.Equal(t, attendeeID, atts[0].ID)
	assert.Equal(t, entity.AttendeeStatusMaybe, atts[0].Status)
	assert.False(t, atts[0].IsSeriesRSVP)
}

func TestRsvpToInstanceClearsSeriesFlag(t *testing.T) {
	repo := newFakeMeetingRepo()
	_, instances := seedSeries(t, repo, uuid.New(), uuid.New(), 2, time.Now(), week)

	user := uuid.New()
	attendeeID := addAttendee(t, repo, instances[0].ID, user, entity.AttendeeStatusAccepted, true)

	svc := NewRsvpService(repo)
	require.Nil(t, svc.RsvpToInstance(context.Background(), instances[0].ID, attendeeID, user, entity.AttendeeStatusDeclined))

	att, err := repo.GetAttendeeByID(context.Background(), attendeeID)
	require.NoError(t, err)
	assert.Equal(t, entity.AttendeeStatusDeclined, att.Status)
	assert.False(t, att.IsSeriesRSVP)
}

func TestRsvpToInstanceErrors(t *testing.T) {
	repo := newFakeMeetingRepo()
	inst, err := repo.CreateInstance(context.Background(), &entity.MeetingInstance{
		Date:      time.Now(),
		Title:     "standup",
		GroupID:   uuid.New(),
		CreatedBy: uuid.New(),
	})
	require.NoError(t, err)
	owner := uuid.New()
	attendeeID := addAttendee(t, repo, inst.ID, owner, entity.AttendeeStatusInvited, false)

	svc := NewRsvpService(repo)

	t.Run("invited is not a valid response", func(t *testing.T) {
		appErr := svc.RsvpToInstance(context.Background(), inst.ID, attendeeID, owner, entity.AttendeeStatusInvited)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		appErr := svc.RsvpToInstance(context.Background(), inst.ID, attendeeID, owner, entity.AttendeeStatus("banana"))
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})

	t.Run("unknown attendee", func(t *testing.T) {
		appErr := svc.RsvpToInstance(context.Background(), inst.ID, uuid.New(), owner, entity.AttendeeStatusAccepted)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})

	t.Run("attendee belongs to a different meeting", func(t *testing.T) {
		other, err := repo.CreateInstance(context.Background(), &entity.MeetingInstance{
			Date:      time.Now(),
			Title:     "retro",
			GroupID:   uuid.New(),
			CreatedBy: uuid.New(),
		})
		require.NoError(t, err)

		appErr := svc.RsvpToInstance(context.Background(), other.ID, attendeeID, owner, entity.AttendeeStatusAccepted)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})

	t.Run("responding for another user is forbidden", func(t *testing.T) {
		appErr := svc.RsvpToInstance(context.Background(), inst.ID, attendeeID, uuid.New(), entity.AttendeeStatusAccepted)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)

		// The row is untouched.
		att, err := repo.GetAttendeeByID(context.Background(), attendeeID)
		require.NoError(t, err)
		assert.Equal(t, entity.AttendeeStatusInvited, att.Status)
	})
}

func TestRsvpToSeries(t *testing.T) {
	repo := newFakeMeetingRepo()
	seriesID, instances := seedSeries(t, repo, uuid.New(), uuid.New(), 3, time.Now(), week)

	user := uuid.New()
	svc := NewRsvpService(repo)
	require.Nil(t, svc.RsvpToSeries(context.Background(), seriesID, user, entity.AttendeeStatusDeclined))

	for _, inst := range instances {
		atts := mustInstance(t, repo, inst.ID).Attendees
		require.Len(t, atts, 1)
		assert.Equal(t, user, atts[0].UserID)
		assert.Equal(t, entity.AttendeeStatusDeclined, atts[0].Status)
		assert.True(t, atts[0].IsSeriesRSVP)
		assert.NotNil(t, atts[0].RespondedAt)
	}
}

func TestRsvpToSeriesOverwritesOneOffRows(t *testing.T) {
	repo := newFakeMeetingRepo()
	seriesID, instances := seedSeries(t, repo, uuid.New(), uuid.New(), 3, time.Now(), week)

	user := uuid.New()
	addAttendee(t, repo, instances[1].ID, user, entity.AttendeeStatusMaybe, false)

	svc := NewRsvpService(repo)
	require.Nil(t, svc.RsvpToSeries(context.Background(), seriesID, user, entity.AttendeeStatusAccepted))

	for _, inst := range instances {
		atts := mustInstance(t, repo, inst.ID).Attendees
		require.Len(t, atts, 1)
		assert.Equal(t, entity.AttendeeStatusAccepted, atts[0].Status)
		assert.True(t, atts[0].IsSeriesRSVP)
	}
}

func TestRsvpToSeriesIsIdempotent(t *testing.T) {
	repo := newFakeMeetingRepo()
	seriesID, instances := seedSeries(t, repo, uuid.New(), uuid.New(), 2, time.Now(), week)

	user := uuid.New()
	svc := NewRsvpService(repo)
	require.Nil(t, svc.RsvpToSeries(context.Background(), seriesID, user, entity.AttendeeStatusAccepted))
	require.Nil(t, svc.RsvpToSeries(context.Background(), seriesID, user, entity.AttendeeStatusAccepted))

	for _, inst := range instances {
		assert.Len(t, mustInstance(t, repo, inst.ID).Attendees, 1)
	}
}

func TestRsvpToSeriesErrors(t *testing.T) {
	svc := NewRsvpService(newFakeMeetingRepo())

	t.Run("unknown series", func(t *testing.T) {
		appErr := svc.RsvpToSeries(context.Background(), uuid.New(), uuid.New(), entity.AttendeeStatusAccepted)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})

	t.Run("invalid status", func(t *testing.T) {
		appErr := svc.RsvpToSeries(context.Background(), uuid.New(), uuid.New(), entity.AttendeeStatus("later"))
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})
}
