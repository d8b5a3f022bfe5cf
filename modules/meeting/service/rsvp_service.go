package service

import (
	"context"
	"time"

	"groupmeet-api/core/errors"
	"groupmeet-api/modules/meeting/entity"
	"groupmeet-api/modules/meeting/repository"

	"github.com/google/uuid"
)

// RsvpService applies attendee status changes, either to one instance or
// across a whole series. The is_series_rsvp flag on the written rows is the
// only signal separating "I committed to this recurring pattern" from "I
// overrode this one occurrence", and the skip operator relies on it.
type RsvpService struct {
	repo repository.MeetingRepositoryInterface
}

type RsvpServiceInterface interface {
	RsvpToInstance(ctx context.Context, meetingID, attendeeID, userID uuid.UUID, status entity.AttendeeStatus) *errors.AppError
	RsvpToSeries(ctx context.Context, seriesID, userID uuid.UUID, status entity.AttendeeStatus) *errors.AppError
}

func NewRsvpService(repo repository.MeetingRepositoryInterface) RsvpServiceInterface {
	return &RsvpService{repo: repo}
}

// RsvpToInstance records a one-off override for a single occurrence. Always
// a single-row write; the row's is_series_rsvp is cleared. Users can only
// respond for themselves.
func (s *RsvpService) RsvpToInstance(ctx context.Context, meetingID, attendeeID, userID uuid.UUID, status entity.AttendeeStatus) *errors.AppError {
	if !entity.ValidResponseStatus(status) {
		return errors.NewAppError(errors.ErrInvalidInput, "unknown RSVP status", nil)
	}

	att, err := s.repo.GetAttendeeByID(ctx, attendeeID)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreWrite, "failed to load attendee", err)
	}
	if att == nil || att.MeetingID != meetingID {
		return errors.NewAppError(errors.ErrNotFound, "attendee not found for meeting", nil)
	}
	if att.UserID != userID {
		return errors.NewAppError(errors.ErrForbidden, "cannot respond on behalf of another user", nil)
	}

	now := time.Now()
	if err := s.repo.SetAttendeeStatusByID(ctx, att.ID, status, false, &now); err != nil {
		return errors.NewAppError(errors.ErrStoreWrite, "failed to save RSVP", err)
	}

	return nil
}

// RsvpToSeries records a series-wide decision: one upsert per instance for
// this user, all inside a single transaction so a partial batch never
// leaves mixed is_series_rsvp state behind. Re-running the call converges
// on the same rows.
func (s *RsvpService) RsvpToSeries(ctx context.Context, seriesID, userID uuid.UUID, status entity.AttendeeStatus) *errors.AppError {
	if !entity.ValidResponseStatus(status) {
		return errors.NewAppError(errors.ErrInvalidInput, "unknown RSVP status", nil)
	}

	instances, err := s.repo.ListSeriesInstances(ctx, seriesID)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreWrite, "failed to load series", err)
	}
	if len(instances) == 0 {
		return errors.NewAppError(errors.ErrNotFound, "series not found", nil)
	}

	now := time.Now()
	err = s.repo.WithinTx(ctx, func(tx repository.MeetingRepositoryInterface) error {
		for _, inst := range instances {
			if err := tx.UpsertAttendeeStatus(ctx, inst.ID, userID, status, true, &now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.NewAppError(errors.ErrStoreWrite, "failed to save series RSVP", err)
	}

	return nil
}
