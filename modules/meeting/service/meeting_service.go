package service

import (
	"context"
	"fmt"
	"time"

	"groupmeet-api/core/errors"
	"groupmeet-api/core/logger"
	"groupmeet-api/core/taskq"
	"groupmeet-api/modules/meeting/dto"
	"groupmeet-api/modules/meeting/entity"
	"groupmeet-api/modules/meeting/repository"

	"github.com/google/uuid"
)

// MaxSeriesLength caps how many occurrences one create call can schedule.
const MaxSeriesLength = 52

// GroupDirectory is the slice of the group module the scheduler needs.
type GroupDirectory interface {
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	MemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)
}

// MeetingService handles meeting creation, display grouping and lifecycle.
type MeetingService struct {
	repo   repository.MeetingRepositoryInterface
	groups GroupDirectory
	tasks  taskq.IEnqueuer
}

type MeetingServiceInterface interface {
	CreateMeeting(ctx context.Context, userID uuid.UUID, req *dto.CreateMeetingRequest) ([]dto.MeetingResponse, *errors.AppError)
	GetGroupSchedule(ctx context.Context, userID, groupID uuid.UUID) (*dto.GroupScheduleResponse, *errors.AppError)
	GetSeriesInstances(ctx context.Context, seriesID uuid.UUID) ([]dto.MeetingResponse, *errors.AppError)
	UpdateInstance(ctx context.Context, meetingID, userID uuid.UUID, req *dto.UpdateMeetingRequest) (*dto.MeetingResponse, *errors.AppError)
	DeleteInstance(ctx context.Context, meetingID, userID uuid.UUID) *errors.AppError
	DeleteSeries(ctx context.Context, seriesID, userID uuid.UUID) *errors.AppError
}

func NewMeetingService(repo repository.MeetingRepositoryInterface, groups GroupDirectory, tasks taskq.IEnqueuer) MeetingServiceInterface {
	return &MeetingService{repo: repo, groups: groups, tasks: tasks}
}

// CreateMeeting schedules a single meeting, or a whole series when
// repeat_count > 1. Instances and their attendee rows (one invited row per
// group member) are created together in one transaction; series_index and
// series_total are assigned here and never renumbered afterwards.
func (s *MeetingService) CreateMeeting(ctx context.Context, userID uuid.UUID, req *dto.CreateMeetingRequest) ([]dto.MeetingResponse, *errors.AppError) {
	groupID, err := uuid.Parse(req.GroupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid group ID", err)
	}
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}
	if req.Date.IsZero() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "date is required", nil)
	}

	repeat := req.RepeatCount
	if repeat < 1 {
		repeat = 1
	}
	if repeat > MaxSeriesLength {
		return nil, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("repeat_count must be at most %d", MaxSeriesLength), nil)
	}
	if repeat > 1 && req.IntervalDays < 1 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "interval_days is required for a series", nil)
	}

	member, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check group membership", err)
	}
	if !member {
		return nil, errors.NewAppError(errors.ErrForbidden, "not a member of this group", nil)
	}

	memberIDs, err := s.groups.MemberIDs(ctx, groupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load group members", err)
	}

	var seriesID *uuid.UUID
	if repeat > 1 {
		id := uuid.New()
		seriesID = &id
	}

	var description *string
	if req.Description != "" {
		description = &req.Description
	}

	created := make([]entity.MeetingInstance, 0, repeat)
	err = s.repo.WithinTx(ctx, func(tx repository.MeetingRepositoryInterface) error {
		for i := 0; i < repeat; i++ {
			inst := &entity.MeetingInstance{
				SeriesID:    seriesID,
				Date:        req.Date.AddDate(0, 0, i*req.IntervalDays),
				Title:       req.Title,
				Description: description,
				GroupID:     groupID,
				CreatedBy:   userID,
			}
			if seriesID != nil {
				index := i + 1
				total := repeat
				inst.SeriesIndex = &index
				inst.SeriesTotal = &total
			}

			row, err := tx.CreateInstance(ctx, inst)
			if err != nil {
				return err
			}

			for _, memberID := range memberIDs {
				att := &entity.Attendee{
					MeetingID: row.ID,
					UserID:    memberID,
					Status:    entity.AttendeeStatusInvited,
				}
				if err := tx.CreateAttendee(ctx, att); err != nil {
					return err
				}
			}

			created = append(created, *row)
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreWrite, "failed to create meeting", err)
	}

	responses := make([]dto.MeetingResponse, 0, len(created))
	for i := range created {
		responses = append(responses, *dto.ToMeetingResponse(&created[i]))
	}
	return responses, nil
}

// GetGroupSchedule returns the group's meetings partitioned into standalone
// instances and series, each series fronted by its next upcoming instance.
func (s *MeetingService) GetGroupSchedule(ctx context.Context, userID, groupID uuid.UUID) (*dto.GroupScheduleResponse, *errors.AppError) {
	member, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check group membership", err)
	}
	if !member {
		return nil, errors.NewAppError(errors.ErrForbidden, "not a member of this group", nil)
	}

	instances, err := s.repo.ListInstancesByGroup(ctx, groupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreWrite, "failed to load meetings", err)
	}

	schedule := BuildGroupSchedule(instances, time.Now())
	return dto.ToGroupScheduleResponse(schedule.Standalone, toSeriesDTOs(schedule.Series)), nil
}

func toSeriesDTOs(views []SeriesView) []dto.SeriesSummary {
	summaries := make([]dto.SeriesSummary, 0, len(views))
	for _, view := range views {
		summary := dto.SeriesSummary{
			SeriesID:      view.SeriesID.String(),
			InstanceCount: len(view.Instances),
		}
		if view.Representative != nil {
			summary.NextInstance = dto.ToMeetingResponse(view.Representative)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// GetSeriesInstances returns every instance of a series sorted by its
// immutable series_index.
func (s *MeetingService) GetSeriesInstances(ctx context.Context, seriesID uuid.UUID) ([]dto.MeetingResponse, *errors.AppError) {
	instances, err := s.repo.ListSeriesInstances(ctx, seriesID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreWrite, "failed to load series", err)
	}

	responses := make([]dto.MeetingResponse, 0, len(instances))
	for i := range instances {
		responses = append(responses, *dto.ToMeetingResponse(&instances[i]))
	}
	return responses, nil
}

// UpdateInstance edits free-text fields of one occurrence. Scheduling state
// (date, series ordinals) and attendee rows are never touched here.
func (s *MeetingService) UpdateInstance(ctx context.Context, meetingID, userID uuid.UUID, req *dto.UpdateMeetingRequest) (*dto.MeetingResponse, *errors.AppError) {
	inst, err := s.repo.GetInstanceByID(ctx, meetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreWrite, "failed to load meeting", err)
	}
	if inst == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "meeting not found", nil)
	}
	if inst.CreatedBy != userID {
		return nil, errors.NewAppError(errors.ErrForbidden, "only the organizer can edit this meeting", nil)
	}

	description := inst.Description
	if req.Description != nil {
		description = req.Description
	}

	if err := s.repo.UpdateInstanceFields(ctx, meetingID, description); err != nil {
		return nil, errors.NewAppError(errors.ErrStoreWrite, "failed to update meeting", err)
	}

	updated, err := s.repo.GetInstanceByID(ctx, meetingID)
	if err != nil || updated == nil {
		return nil, errors.NewAppError(errors.ErrStoreWrite, "failed to reload meeting", err)
	}
	return dto.ToMeetingResponse(updated), nil
}

// DeleteInstance removes one occurrence and, via cascade, its attendee
// rows. Sibling series_index values are not renumbered.
func (s *MeetingService) DeleteInstance(ctx context.Context, meetingID, userID uuid.UUID) *errors.AppError {
	inst, err := s.repo.GetInstanceByID(ctx, meetingID)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreWrite, "failed to load meeting", err)
	}
	if inst == nil {
		return errors.NewAppError(errors.ErrNotFound, "meeting not found", nil)
	}
	if inst.CreatedBy != userID {
		return errors.NewAppError(errors.ErrForbidden, "only the organizer can delete this meeting", nil)
	}

	if err := s.repo.DeleteInstance(ctx, meetingID); err != nil {
		return errors.NewAppError(errors.ErrStoreWrite, "failed to delete meeting", err)
	}

	s.notifyCancelled(ctx, inst, "meeting_cancelled", fmt.Sprintf("%q was cancelled", inst.Title))
	return nil
}

// DeleteSeries removes every instance sharing the series ID together with
// their attendee rows. Terminal, no undo.
func (s *MeetingService) DeleteSeries(ctx context.Context, seriesID, userID uuid.UUID) *errors.AppError {
	instances, err := s.repo.ListSeriesInstances(ctx, seriesID)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreWrite, "failed to load series", err)
	}
	if len(instances) == 0 {
		return errors.NewAppError(errors.ErrNotFound, "series not found", nil)
	}
	if instances[0].CreatedBy != userID {
		return errors.NewAppError(errors.ErrForbidden, "only the organizer can delete this series", nil)
	}

	if err := s.repo.DeleteSeriesInstances(ctx, seriesID); err != nil {
		return errors.NewAppError(errors.ErrStoreWrite, "failed to delete series", err)
	}

	s.notifyCancelled(ctx, &instances[0], "series_cancelled", fmt.Sprintf("the series %q was cancelled", instances[0].Title))
	return nil
}

func (s *MeetingService) notifyCancelled(ctx context.Context, inst *entity.MeetingInstance, kind, message string) {
	if s.tasks == nil {
		return
	}

	for _, att := range inst.Attendees {
		payload := taskq.NotificationPayload{
			UserID:  att.UserID,
			Title:   "Meeting cancelled",
			Message: message,
			Type:    kind,
			Data:    map[string]any{"meeting_id": inst.ID.String()},
		}
		if err := s.tasks.EnqueueNotification(ctx, payload); err != nil {
			logger.Error("MeetingService:notifyCancelled", err)
		}
	}
}
