package entity

import (
	"time"

	"groupmeet-api/core/entity"

	"github.com/google/uuid"
)

// MeetingInstance is one concrete occurrence. A recurring series is nothing
// but N instance rows sharing a series_id; no recurrence rule is stored and
// series_index is assigned at creation and never renumbered.
type MeetingInstance struct {
	SeriesID    *uuid.UUID `db:"series_id" json:"series_id,omitempty"`
	SeriesIndex *int       `db:"series_index" json:"series_index,omitempty"`
	SeriesTotal *int       `db:"series_total" json:"series_total,omitempty"`
	Date        time.Time  `db:"date" json:"date"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	GroupID     uuid.UUID  `db:"group_id" json:"group_id"`
	CreatedBy   uuid.UUID  `db:"created_by" json:"created_by"`

	// Version guards concurrent date shifts; bumped on every date write.
	Version int `db:"version" json:"-"`

	Attendees []Attendee `db:"-" json:"attendees,omitempty"`

	entity.BaseEntity
}

// InSeries reports whether this instance belongs to a recurring series.
func (m *MeetingInstance) InSeries() bool {
	return m.SeriesID != nil && m.SeriesIndex != nil
}
