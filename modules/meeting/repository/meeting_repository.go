package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"groupmeet-api/core/database"
	"groupmeet-api/core/logger"
	"groupmeet-api/modules/meeting/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrVersionConflict is returned when a version-guarded date update matched
// no row, meaning another writer shifted the instance first.
var ErrVersionConflict = errors.New("meeting instance version conflict")

// MeetingRepository persists meeting instances and attendee rows.
type MeetingRepository struct {
	DB database.IDatabase
}

func NewMeetingRepository(db database.IDatabase) *MeetingRepository {
	return &MeetingRepository{DB: db}
}

// MeetingRepositoryInterface is the store contract the scheduling services
// depend on.
type MeetingRepositoryInterface interface {
	CreateInstance(ctx context.Context, inst *entity.MeetingInstance) (*entity.MeetingInstance, error)
	GetInstanceByID(ctx context.Context, id uuid.UUID) (*entity.MeetingInstance, error)
	ListInstancesByGroup(ctx context.Context, groupID uuid.UUID) ([]entity.MeetingInstance, error)
	ListSeriesInstances(ctx context.Context, seriesID uuid.UUID) ([]entity.MeetingInstance, error)
	UpdateInstanceDate(ctx context.Context, id uuid.UUID, newDate time.Time, expectedVersion int) error
	UpdateInstanceFields(ctx context.Context, id uuid.UUID, description *string) error
	DeleteInstance(ctx context.Context, id uuid.UUID) error
	DeleteSeriesInstances(ctx context.Context, seriesID uuid.UUID) error

	CreateAttendee(ctx context.Context, att *entity.Attendee) error
	GetAttendeeByID(ctx context.Context, id uuid.UUID) (*entity.Attendee, error)
	UpsertAttendeeStatus(ctx context.Context, meetingID, userID uuid.UUID, status entity.AttendeeStatus, isSeriesRSVP bool, respondedAt *time.Time) error
	SetAttendeeStatusByID(ctx context.Context, attendeeID uuid.UUID, status entity.AttendeeStatus, isSeriesRSVP bool, respondedAt *time.Time) error

	// WithinTx runs fn against a repository bound to a single transaction.
	WithinTx(ctx context.Context, fn func(MeetingRepositoryInterface) error) error
}

const instanceColumns = `
	id, series_id, series_index, series_total, date, title, description,
	group_id, created_by, version, created_at, updated_at
`

// ===================== Instances =====================

func (r *MeetingRepository) CreateInstance(ctx context.Context, inst *entity.MeetingInstance) (*entity.MeetingInstance, error) {
	query := `
		INSERT INTO meeting_instances (series_id, series_index, series_total, date, title, description, group_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + instanceColumns

	var created entity.MeetingInstance
	err := r.DB.GetContext(ctx, &created, query,
		inst.SeriesID, inst.SeriesIndex, inst.SeriesTotal, inst.Date,
		inst.Title, inst.Description, inst.GroupID, inst.CreatedBy)
	if err != nil {
		logger.Error("MeetingRepository:CreateInstance", err)
		return nil, err
	}

	return &created, nil
}

func (r *MeetingRepository) GetInstanceByID(ctx context.Context, id uuid.UUID) (*entity.MeetingInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM meeting_instances WHERE id = $1`

	var inst entity.MeetingInstance
	err := r.DB.GetContext(ctx, &inst, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("MeetingRepository:GetInstanceByID", err)
		return nil, err
	}

	if err := r.loadAttendees(ctx, []*entity.MeetingInstance{&inst}); err != nil {
		return nil, err
	}

	return &inst, nil
}

func (r *MeetingRepository) ListInstancesByGroup(ctx context.Context, groupID uuid.UUID) ([]entity.MeetingInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM meeting_instances WHERE group_id = $1 ORDER BY date ASC`

	var instances []entity.MeetingInstance
	err := r.DB.SelectContext(ctx, &instances, query, groupID)
	if err != nil {
		logger.Error("MeetingRepository:ListInstancesByGroup", err)
		return nil, err
	}

	if err := r.loadAttendeesForSlice(ctx, instances); err != nil {
		return nil, err
	}

	return instances, nil
}

func (r *MeetingRepository) ListSeriesInstances(ctx context.Context, seriesID uuid.UUID) ([]entity.MeetingInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM meeting_instances WHERE series_id = $1 ORDER BY series_index ASC`

	var instances []entity.MeetingInstance
	err := r.DB.SelectContext(ctx, &instances, query, seriesID)
	if err != nil {
		logger.Error("MeetingRepository:ListSeriesInstances", err)
		return nil, err
	}

	if err := r.loadAttendeesForSlice(ctx, instances); err != nil {
		return nil, err
	}

	return instances, nil
}

// UpdateInstanceDate shifts one instance, guarded by its version column so
// a concurrent skip can never apply the same shift twice.
func (r *MeetingRepository) UpdateInstanceDate(ctx context.Context, id uuid.UUID, newDate time.Time, expectedVersion int) error {
	query := `
		UPDATE meeting_instances
		SET date = $2, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $3
	`

	result, err := r.DB.ExecContext(ctx, query, id, newDate, expectedVersion)
	if err != nil {
		logger.Error("MeetingRepository:UpdateInstanceDate", err)
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		logger.Error("MeetingRepository:UpdateInstanceDate:RowsAffected", err)
		return err
	}
	if rows == 0 {
		return ErrVersionConflict
	}

	return nil
}

// UpdateInstanceFields touches free-text fields only, never the schedule.
func (r *MeetingRepository) UpdateInstanceFields(ctx context.Context, id uuid.UUID, description *string) error {
	query := `
		UPDATE meeting_instances
		SET description = $2, updated_at = now()
		WHERE id = $1
	`

	_, err := r.DB.ExecContext(ctx, query, id, description)
	if err != nil {
		logger.Error("MeetingRepository:UpdateInstanceFields", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) DeleteInstance(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM meeting_instances WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("MeetingRepository:DeleteInstance", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) DeleteSeriesInstances(ctx context.Context, seriesID uuid.UUID) error {
	query := `DELETE FROM meeting_instances WHERE series_id = $1`
	_, err := r.DB.ExecContext(ctx, query, seriesID)
	if err != nil {
		logger.Error("MeetingRepository:DeleteSeriesInstances", err)
		return err
	}
	return nil
}

// ===================== Attendees =====================

func (r *MeetingRepository) CreateAttendee(ctx context.Context, att *entity.Attendee) error {
	query := `
		INSERT INTO attendees (meeting_id, user_id, status, is_series_rsvp, responded_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (meeting_id, user_id) DO NOTHING
	`

	_, err := r.DB.ExecContext(ctx, query,
		att.MeetingID, att.UserID, att.Status, att.IsSeriesRSVP, att.RespondedAt)
	if err != nil {
		logger.Error("MeetingRepository:CreateAttendee", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) GetAttendeeByID(ctx context.Context, id uuid.UUID) (*entity.Attendee, error) {
	query := `
		SELECT id, meeting_id, user_id, status, is_series_rsvp, responded_at, created_at
		FROM attendees WHERE id = $1
	`

	var att entity.Attendee
	err := r.DB.GetContext(ctx, &att, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("MeetingRepository:GetAttendeeByID", err)
		return nil, err
	}

	return &att, nil
}

// UpsertAttendeeStatus writes one (meeting, user) RSVP row. The unique
// constraint keeps at most one row per pair; re-applying the same write
// converges on the same state, so batch retries are safe.
func (r *MeetingRepository) UpsertAttendeeStatus(ctx context.Context, meetingID, userID uuid.UUID, status entity.AttendeeStatus, isSeriesRSVP bool, respondedAt *time.Time) error {
	query := `
		INSERT INTO attendees (meeting_id, user_id, status, is_series_rsvp, responded_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (meeting_id, user_id)
		DO UPDATE SET status = $3, is_series_rsvp = $4, responded_at = $5
	`

	_, err := r.DB.ExecContext(ctx, query, meetingID, userID, status, isSeriesRSVP, respondedAt)
	if err != nil {
		logger.Error("MeetingRepository:UpsertAttendeeStatus", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) SetAttendeeStatusByID(ctx context.Context, attendeeID uuid.UUID, status entity.AttendeeStatus, isSeriesRSVP bool, respondedAt *time.Time) error {
	query := `
		UPDATE attendees
		SET status = $2, is_series_rsvp = $3, responded_at = $4
		WHERE id = $1
	`

	_, err := r.DB.ExecContext(ctx, query, attendeeID, status, isSeriesRSVP, respondedAt)
	if err != nil {
		logger.Error("MeetingRepository:SetAttendeeStatusByID", err)
		return err
	}
	return nil
}

// ===================== Transactions & loading =====================

func (r *MeetingRepository) WithinTx(ctx context.Context, fn func(MeetingRepositoryInterface) error) error {
	return r.DB.WithinTx(ctx, func(tx database.IDatabase) error {
		return fn(&MeetingRepository{DB: tx})
	})
}

func (r *MeetingRepository) loadAttendeesForSlice(ctx context.Context, instances []entity.MeetingInstance) error {
	ptrs := make([]*entity.MeetingInstance, len(instances))
	for i := range instances {
		ptrs[i] = &instances[i]
	}
	return r.loadAttendees(ctx, ptrs)
}

// loadAttendees eager-loads attendee rows for the given instances with one
// IN query.
func (r *MeetingRepository) loadAttendees(ctx context.Context, instances []*entity.MeetingInstance) error {
	if len(instances) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(instances))
	byID := make(map[uuid.UUID]*entity.MeetingInstance, len(instances))
	for i, inst := range instances {
		ids[i] = inst.ID
		byID[inst.ID] = inst
	}

	query, args, err := sqlx.In(`
		SELECT id, meeting_id, user_id, status, is_series_rsvp, responded_at, created_at
		FROM attendees WHERE meeting_id IN (?)
		ORDER BY created_at ASC
	`, ids)
	if err != nil {
		return err
	}

	var attendees []entity.Attendee
	err = r.DB.SelectContext(ctx, &attendees, r.DB.Rebind(query), args...)
	if err != nil {
		logger.Error("MeetingRepository:loadAttendees", err)
		return err
	}

	for _, att := range attendees {
		inst := byID[att.MeetingID]
		inst.Attendees = append(inst.Attendees, att)
	}

	return nil
}
