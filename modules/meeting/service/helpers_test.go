package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"groupmeet-api/core/taskq"
	"groupmeet-api/modules/meeting/entity"
	"groupmeet-api/modules/meeting/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakeMeetingRepo is an in-memory MeetingRepositoryInterface for service
// tests. WithinTx runs the callback against the same store, so the tests
// exercise service logic without a database.
type fakeMeetingRepo struct {
	instances map[uuid.UUID]*entity.MeetingInstance
	attendees []*entity.Attendee

	// forceVersionConflict makes every UpdateInstanceDate fail as if a
	// concurrent writer had already shifted the row.
	forceVersionConflict bool
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{
		instances: make(map[uuid.UUID]*entity.MeetingInstance),
	}
}

func (f *fakeMeetingRepo) CreateInstance(_ context.Context, inst *entity.MeetingInstance) (*entity.MeetingInstance, error) {
	stored := *inst
	stored.ID = uuid.New()
	stored.Version = 1
	stored.CreatedAt = time.Now()
	stored.Attendees = nil
	f.instances[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (f *fakeMeetingRepo) GetInstanceByID(_ context.Context, id uuid.UUID) (*entity.MeetingInstance, error) {
	inst, ok := f.instances[id]
	if !ok {
		return nil, nil
	}
	out := *inst
	out.Attendees = f.attendeesFor(id)
	return &out, nil
}

func (f *fakeMeetingRepo) ListInstancesByGroup(_ context.Context, groupID uuid.UUID) ([]entity.MeetingInstance, error) {
	var result []entity.MeetingInstance
	for _, inst := range f.instances {
		if inst.GroupID != groupID {
			continue
		}
		out := *inst
		out.Attendees = f.attendeesFor(inst.ID)
		result = append(result, out)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (f *fakeMeetingRepo) ListSeriesInstances(_ context.Context, seriesID uuid.UUID) ([]entity.MeetingInstance, error) {
	var result []entity.MeetingInstance
	for _, inst := range f.instances {
		if inst.SeriesID == nil || *inst.SeriesID != seriesID {
			continue
		}
		out := *inst
		out.Attendees = f.attendeesFor(inst.ID)
		result = append(result, out)
	}
	sort.Slice(result, func(i, j int) bool {
		return *result[i].SeriesIndex < *result[j].SeriesIndex
	})
	return result, nil
}

func (f *fakeMeetingRepo) UpdateInstanceDate(_ context.Context, id uuid.UUID, newDate time.Time, expectedVersion int) error {
	inst, ok := f.instances[id]
	if !ok || f.forceVersionConflict || inst.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	inst.Date = newDate
	inst.Version++
	return nil
}

func (f *fakeMeetingRepo) UpdateInstanceFields(_ context.Context, id uuid.UUID, description *string) error {
	if inst, ok := f.instances[id]; ok {
		inst.Description = description
	}
	return nil
}

func (f *fakeMeetingRepo) DeleteInstance(_ context.Context, id uuid.UUID) error {
	delete(f.instances, id)
	kept := f.attendees[:0]
	for _, att := range f.attendees {
		if att.MeetingID != id {
			kept = append(kept, att)
		}
	}
	f.attendees = kept
	return nil
}

func (f *fakeMeetingRepo) DeleteSeriesInstances(ctx context.Context, seriesID uuid.UUID) error {
	for id, inst := range f.instances {
		if inst.SeriesID != nil && *inst.SeriesID == seriesID {
			if err := f.DeleteInstance(ctx, id); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *fakeMeetingRepo) CreateAttendee(_ context.Context, att *entity.Attendee) error {
	for _, existing := range f.attendees {
		if existing.MeetingID == att.MeetingID && existing.UserID == att.UserID {
			return nil
		}
	}
	stored := *att
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	f.attendees = append(f.attendees, &stored)
	return nil
}

func (f *fakeMeetingRepo) GetAttendeeByID(_ context.Context, id uuid.UUID) (*entity.Attendee, error) {
	for _, att := range f.attendees {
		if att.ID == id {
			out := *att
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeMeetingRepo) UpsertAttendeeStatus(ctx context.Context, meetingID, userID uuid.UUID, status entity.AttendeeStatus, isSeriesRSVP bool, respondedAt *time.Time) error {
	for _, att := range f.attendees {
		if att.MeetingID == meetingID && att.UserID == userID {
			att.Status = status
			att.IsSeriesRSVP = isSeriesRSVP
			att.RespondedAt = respondedAt
			return nil
		}
	}
	return f.CreateAttendee(ctx, &entity.Attendee{
		MeetingID:    meetingID,
		UserID:       userID,
		Status:       status,
		IsSeriesRSVP: isSeriesRSVP,
		RespondedAt:  respondedAt,
	})
}

func (f *fakeMeetingRepo) SetAttendeeStatusByID(_ context.Context, attendeeID uuid.UUID, status entity.AttendeeStatus, isSeriesRSVP bool, respondedAt *time.Time) error {
	for _, att := range f.attendees {
		if att.ID == attendeeID {
			att.Status = status
			att.IsSeriesRSVP = isSeriesRSVP
			att.RespondedAt = respondedAt
			return nil
		}
	}
	return nil
}

func (f *fakeMeetingRepo) WithinTx(_ context.Context, fn func(repository.MeetingRepositoryInterface) error) error {
	return fn(f)
}

func (f *fakeMeetingRepo) attendeesFor(meetingID uuid.UUID) []entity.Attendee {
	var result []entity.Attendee
	for _, att := range f.attendees {
		if att.MeetingID == meetingID {
			result = append(result, *att)
		}
	}
	return result
}

// seedSeries inserts count weekly instances sharing one series ID, starting
// at start, and returns the series ID with the stored instances in index
// order.
func seedSeries(t *testing.T, repo *fakeMeetingRepo, groupID, createdBy uuid.UUID, count int, start time.Time, every time.Duration) (uuid.UUID, []entity.MeetingInstance) {
	t.Helper()

	seriesID := uuid.New()
	for i := 0; i < count; i++ {
		index := i + 1
		total := count
		_, err := repo.CreateInstance(context.Background(), &entity.MeetingInstance{
			SeriesID:    &seriesID,
			SeriesIndex: &index,
			SeriesTotal: &total,
			Date:        start.Add(time.Duration(i) * every),
			Title:       "book club",
			GroupID:     groupID,
			CreatedBy:   createdBy,
		})
		require.NoError(t, err)
	}

	instances, err := repo.ListSeriesInstances(context.Background(), seriesID)
	require.NoError(t, err)
	require.Len(t, instances, count)
	return seriesID, instances
}

func addAttendee(t *testing.T, repo *fakeMeetingRepo, meetingID, userID uuid.UUID, status entity.AttendeeStatus, isSeriesRSVP bool) uuid.UUID {
	t.Helper()

	err := repo.CreateAttendee(context.Background(), &entity.Attendee{
		MeetingID:    meetingID,
		UserID:       userID,
		Status:       entity.AttendeeStatusInvited,
		IsSeriesRSVP: false,
	})
	require.NoError(t, err)

	var id uuid.UUID
	for _, att := range repo.attendees {
		if att.MeetingID == meetingID && att.UserID == userID {
			id = att.ID
			if status != entity.AttendeeStatusInvited {
				now := time.Now()
				att.Status = status
				att.IsSeriesRSVP = isSeriesRSVP
				att.RespondedAt = &now
			}
		}
	}
	require.NotEqual(t, uuid.Nil, id)
	return id
}

// fakeDirectory is a canned GroupDirectory.
type fakeDirectory struct {
	members map[uuid.UUID][]uuid.UUID
}

func (d *fakeDirectory) IsMember(_ context.Context, groupID, userID uuid.UUID) (bool, error) {
	for _, id := range d.members[groupID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (d *fakeDirectory) MemberIDs(_ context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	return d.members[groupID], nil
}

// fakeLocker records lock calls and can simulate a held lock.
type fakeLocker struct {
	held      bool
	tryCalls  int
	unlocked  int
	lastToken string
}

func (l *fakeLocker) TryLock(_ context.Context, _ string, _ time.Duration) (string, bool, error) {
	l.tryCalls++
	if l.held {
		return "", false, nil
	}
	l.lastToken = uuid.NewString()
	return l.lastToken, true, nil
}

func (l *fakeLocker) Unlock(_ context.Context, _ string, token string) error {
	if token == l.lastToken {
		l.unlocked++
	}
	return nil
}

// fakeEnqueuer records notification payloads instead of hitting redis.
type fakeEnqueuer struct {
	payloads []taskq.NotificationPayload
}

func (e *fakeEnqueuer) EnqueueNotification(_ context.Context, payload taskq.NotificationPayload) error {
	e.payloads = append(e.payloads, payload)
	return nil
}

// mustInstance reloads one instance from the fake store.
func mustInstance(t *testing.T, repo *fakeMeetingRepo, id uuid.UUID) *entity.MeetingInstance {
	t.Helper()
	inst, err := repo.GetInstanceByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, inst)
	return inst
}
