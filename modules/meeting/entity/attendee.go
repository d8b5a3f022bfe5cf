package entity

import (
	"time"

	"github.com/google/uuid"
)

// AttendeeStatus is an attendee's RSVP state for one occurrence.
type AttendeeStatus string

const (
	AttendeeStatusInvited  AttendeeStatus = "invited"
	AttendeeStatusAccepted AttendeeStatus = "accepted"
	AttendeeStatusDeclined AttendeeStatus = "declined"
	AttendeeStatusMaybe    AttendeeStatus = "maybe"
)

// ValidResponseStatus reports whether a status can be set through an RSVP.
// Invited is the initial state only; users cannot respond with it.
func ValidResponseStatus(s AttendeeStatus) bool {
	switch s {
	case AttendeeStatusAccepted, AttendeeStatusDeclined, AttendeeStatusMaybe:
		return true
	}
	return false
}

// Attendee is one user's RSVP row for one meeting instance. IsSeriesRSVP
// records whether the status came from a series-wide decision or a one-off
// override for this occurrence.
type Attendee struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	MeetingID    uuid.UUID      `db:"meeting_id" json:"meeting_id"`
	UserID       uuid.UUID      `db:"user_id" json:"user_id"`
	Status       AttendeeStatus `db:"status" json:"status"`
	IsSeriesRSVP bool           `db:"is_series_rsvp" json:"is_series_rsvp"`
	RespondedAt  *time.Time     `db:"responded_at" json:"responded_at,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}
