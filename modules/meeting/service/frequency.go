package service

import (
	"sort"
	"time"

	"groupmeet-api/core/errors"
	"groupmeet-api/modules/meeting/entity"
)

// InferInterval derives a series' recurrence interval from the two earliest
// instances by date. No interval is ever stored; the instance rows are the
// single source of truth, so the cadence is recomputed on demand.
//
// The result is a fixed duration, not a calendar rule: a "monthly" series
// created in a 31-day month shifts by 31 days, and DST transitions are not
// compensated for. Known simplification.
func InferInterval(instances []entity.MeetingInstance) (time.Duration, *errors.AppError) {
	if len(instances) < 2 {
		return 0, errors.NewAppError(errors.ErrInsufficientData,
			"series needs at least 2 instances to infer its interval", nil)
	}

	byDate := make([]entity.MeetingInstance, len(instances))
	copy(byDate, instances)
	sort.Slice(byDate, func(i, j int) bool {
		return byDate[i].Date.Before(byDate[j].Date)
	})

	interval := byDate[1].Date.Sub(byDate[0].Date)
	if interval <= 0 {
		return 0, errors.NewAppError(errors.ErrInsufficientData,
			"series instances share a date, interval is undefined", nil)
	}

	return interval, nil
}
