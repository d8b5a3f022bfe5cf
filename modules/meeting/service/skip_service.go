package service

import (
	"context"
	"fmt"
	"time"

	"groupmeet-api/core/constants"
	"groupmeet-api/core/errors"
	"groupmeet-api/core/logger"
	"groupmeet-api/core/taskq"
	"groupmeet-api/modules/meeting/entity"
	"groupmeet-api/modules/meeting/repository"

	"github.com/google/uuid"
)

// Locker serializes skip calls per series. Satisfied by core/cache.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Unlock(ctx context.Context, key string, token string) error
}

// SkipService advances one occurrence of a series and every later one by
// the inferred interval, then repairs the RSVP state of non-series rows.
type SkipService struct {
	repo  repository.MeetingRepositoryInterface
	locks Locker
	tasks taskq.IEnqueuer
}

type SkipServiceInterface interface {
	Skip(ctx context.Context, meetingID uuid.UUID) *errors.AppError
}

// NewSkipService creates the skip operator. locks and tasks may be nil (no
// cross-process serialization, no notifications); the version guard on date
// writes still prevents double shifts.
func NewSkipService(repo repository.MeetingRepositoryInterface, locks Locker, tasks taskq.IEnqueuer) SkipServiceInterface {
	return &SkipService{repo: repo, locks: locks, tasks: tasks}
}

// Skip pushes the target instance and every instance with series_index at
// or after the target's forward by one inferred interval. Series-level
// RSVPs (is_series_rsvp = true) are never touched; one-off overrides on the
// shifted occurrences revert to the user's series preference when one
// exists anywhere in the series, and reset to invited otherwise.
//
// The whole batch runs in one transaction, each date write is guarded by
// the instance version, and a per-series lock keeps concurrent skips to
// at-most-once.
func (s *SkipService) Skip(ctx context.Context, meetingID uuid.UUID) *errors.AppError {
	target, err := s.repo.GetInstanceByID(ctx, meetingID)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreWrite, "failed to load meeting", err)
	}
	if target == nil {
		return errors.NewAppError(errors.ErrNotFound, "meeting not found", nil)
	}
	if !target.InSeries() {
		return errors.NewAppError(errors.ErrNotInSeries, "meeting is not part of a series", nil)
	}

	if s.locks != nil {
		key := constants.RedisKeySeriesSkipLock + target.SeriesID.String()
		token, ok, lockErr := s.locks.TryLock(ctx, key, constants.SeriesSkipLockTTL)
		if lockErr != nil {
			return errors.NewAppError(errors.ErrInternalServer, "failed to acquire series lock", lockErr)
		}
		if !ok {
			return errors.NewAppError(errors.ErrConflict, "another change to this series is in progress", nil)
		}
		defer func() {
			if unlockErr := s.locks.Unlock(context.WithoutCancel(ctx), key, token); unlockErr != nil {
				logger.Error("SkipService:Skip:Unlock", unlockErr)
			}
		}()
	}

	instances, err := s.repo.ListSeriesInstances(ctx, *target.SeriesID)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreWrite, "failed to load series", err)
	}
	if len(instances) < 2 {
		return errors.NewAppError(errors.ErrInsufficientData,
			"series needs at least 2 instances to infer its interval", nil)
	}

	interval, appErr := InferInterval(instances)
	if appErr != nil {
		return appErr
	}

	preferences := buildSeriesPreferences(instances)

	affected := make([]entity.MeetingInstance, 0, len(instances))
	for _, inst := range instances {
		if inst.SeriesIndex != nil && *inst.SeriesIndex >= *target.SeriesIndex {
			affected = append(affected, inst)
		}
	}

	now := time.Now()
	err = s.repo.WithinTx(ctx, func(tx repository.MeetingRepositoryInterface) error {
		for _, inst := range affected {
			if err := tx.UpdateInstanceDate(ctx, inst.ID, inst.Date.Add(interval), inst.Version); err != nil {
				return err
			}

			for _, att := range inst.Attendees {
				if att.IsSeriesRSVP {
					// Series-level decisions survive a skip untouched.
					continue
				}
				if pref, ok := preferences[att.UserID]; ok {
					if err := tx.SetAttendeeStatusByID(ctx, att.ID, pref, true, &now); err != nil {
						return err
					}
				} else {
					if err := tx.SetAttendeeStatusByID(ctx, att.ID, entity.AttendeeStatusInvited, false, nil); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		if err == repository.ErrVersionConflict {
			return errors.NewAppError(errors.ErrConflict, "series was modified concurrently, retry the skip", err)
		}
		return errors.NewAppError(errors.ErrStoreWrite, "failed to apply skip", err)
	}

	s.notifySkipped(ctx, target, interval)
	return nil
}

// buildSeriesPreferences scans every instance of the series for rows marked
// is_series_rsvp and keeps one status per user. Instances arrive sorted by
// series_index, so the lowest-index occurrence wins the tie deliberately.
func buildSeriesPreferences(instances []entity.MeetingInstance) map[uuid.UUID]entity.AttendeeStatus {
	preferences := make(map[uuid.UUID]entity.AttendeeStatus)
	for _, inst := range instances {
		for _, att := range inst.Attendees {
			if !att.IsSeriesRSVP {
				continue
			}
			if _, seen := preferences[att.UserID]; !seen {
				preferences[att.UserID] = att.Status
			}
		}
	}
	return preferences
}

// notifySkipped fans a best-effort notification out to the skipped
// occurrence's attendees.
func (s *SkipService) notifySkipped(ctx context.Context, target *entity.MeetingInstance, interval time.Duration) {
	if s.tasks == nil {
		return
	}

	for _, att := range target.Attendees {
		payload := taskq.NotificationPayload{
			UserID:  att.UserID,
			Title:   "Meeting rescheduled",
			Message: fmt.Sprintf("%q was skipped; this and later occurrences moved forward by %s", target.Title, interval),
			Type:    "meeting_skipped",
			Data: map[string]any{
				"meeting_id": target.ID.String(),
				"series_id":  target.SeriesID.String(),
			},
		}
		if err := s.tasks.EnqueueNotification(ctx, payload); err != nil {
			logger.Error("SkipService:notifySkipped", err)
		}
	}
}
