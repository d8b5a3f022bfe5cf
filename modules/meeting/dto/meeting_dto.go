package dto

import (
	"time"

	"groupmeet-api/modules/meeting/entity"
)

// ===================== Request DTOs =====================

// CreateMeetingRequest schedules a single meeting, or a series when
// repeat_count > 1.
type CreateMeetingRequest struct {
	GroupID      string    `json:"group_id" validate:"required"`
	Title        string    `json:"title" validate:"required"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date" validate:"required"`
	RepeatCount  int       `json:"repeat_count"`
	IntervalDays int       `json:"interval_days"`
}

// UpdateMeetingRequest edits free-text fields of one occurrence.
type UpdateMeetingRequest struct {
	Description *string `json:"description"`
}

// InstanceRsvpRequest is a one-off response to a single occurrence.
type InstanceRsvpRequest struct {
	AttendeeID string `json:"attendee_id" validate:"required"`
	Status     string `json:"status" validate:"required"`
}

// SeriesRsvpRequest applies one decision to every occurrence of a series.
type SeriesRsvpRequest struct {
	Status string `json:"status" validate:"required"`
}

// ===================== Response DTOs =====================

type MeetingResponse struct {
	ID          string             `json:"id"`
	SeriesID    string             `json:"series_id,omitempty"`
	SeriesIndex *int               `json:"series_index,omitempty"`
	SeriesTotal *int               `json:"series_total,omitempty"`
	Date        time.Time          `json:"date"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	GroupID     string             `json:"group_id"`
	CreatedBy   string             `json:"created_by"`
	Attendees   []AttendeeResponse `json:"attendees,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

type AttendeeResponse struct {
	ID           string     `json:"id"`
	MeetingID    string     `json:"meeting_id"`
	UserID       string     `json:"user_id"`
	Status       string     `json:"status"`
	IsSeriesRSVP bool       `json:"is_series_rsvp"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
}

// SeriesSummary fronts a series with its next upcoming occurrence for list
// display.
type SeriesSummary struct {
	SeriesID      string           `json:"series_id"`
	InstanceCount int              `json:"instance_count"`
	NextInstance  *MeetingResponse `json:"next_instance,omitempty"`
}

type GroupScheduleResponse struct {
	Standalone []MeetingResponse `json:"standalone"`
	Series     []SeriesSummary   `json:"series"`
}

// ===================== Mapper Functions =====================

func ToMeetingResponse(m *entity.MeetingInstance) *MeetingResponse {
	resp := &MeetingResponse{
		ID:          m.ID.String(),
		SeriesIndex: m.SeriesIndex,
		SeriesTotal: m.SeriesTotal,
		Date:        m.Date,
		Title:       m.Title,
		GroupID:     m.GroupID.String(),
		CreatedBy:   m.CreatedBy.String(),
		CreatedAt:   m.CreatedAt,
	}

	if m.SeriesID != nil {
		resp.SeriesID = m.SeriesID.String()
	}
	if m.Description != nil {
		resp.Description = *m.Description
	}

	for _, att := range m.Attendees {
		resp.Attendees = append(resp.Attendees, ToAttendeeResponse(&att))
	}

	return resp
}

func ToAttendeeResponse(a *entity.Attendee) AttendeeResponse {
	return AttendeeResponse{
		ID:           a.ID.String(),
		MeetingID:    a.MeetingID.String(),
		UserID:       a.UserID.String(),
		Status:       string(a.Status),
		IsSeriesRSVP: a.IsSeriesRSVP,
		RespondedAt:  a.RespondedAt,
	}
}

func ToGroupScheduleResponse(standalone []entity.MeetingInstance, series []SeriesSummary) *GroupScheduleResponse {
	resp := &GroupScheduleResponse{
		Standalone: make([]MeetingResponse, 0, len(standalone)),
		Series:     series,
	}
	for i := range standalone {
		resp.Standalone = append(resp.Standalone, *ToMeetingResponse(&standalone[i]))
	}
	if resp.Series == nil {
		resp.Series = []SeriesSummary{}
	}
	return resp
}
