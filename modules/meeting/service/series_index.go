package service

import (
	"sort"
	"time"

	"groupmeet-api/modules/meeting/entity"

	"github.com/google/uuid"
)

// SeriesView is the derived aggregate for one series: its instances sorted
// by series_index plus the instance picked to represent the series in list
// displays.
type SeriesView struct {
	SeriesID       uuid.UUID
	Instances      []entity.MeetingInstance
	Representative *entity.MeetingInstance
}

// GroupSchedule partitions a group's meetings for display.
type GroupSchedule struct {
	Standalone []entity.MeetingInstance
	Series     []SeriesView
}

// BuildGroupSchedule splits a group's instances into standalone meetings
// and series views. Pure; empty input yields an empty schedule.
func BuildGroupSchedule(instances []entity.MeetingInstance, now time.Time) GroupSchedule {
	schedule := GroupSchedule{}

	bySeries := make(map[uuid.UUID][]entity.MeetingInstance)
	var order []uuid.UUID

	for _, inst := range instances {
		if inst.SeriesID == nil {
			schedule.Standalone = append(schedule.Standalone, inst)
			continue
		}
		if _, seen := bySeries[*inst.SeriesID]; !seen {
			order = append(order, *inst.SeriesID)
		}
		bySeries[*inst.SeriesID] = append(bySeries[*inst.SeriesID], inst)
	}

	sort.Slice(schedule.Standalone, func(i, j int) bool {
		return schedule.Standalone[i].Date.Before(schedule.Standalone[j].Date)
	})

	for _, seriesID := range order {
		members := bySeries[seriesID]
		SortBySeriesIndex(members)
		schedule.Series = append(schedule.Series, SeriesView{
			SeriesID:       seriesID,
			Instances:      members,
			Representative: UpcomingRepresentative(members, now),
		})
	}

	return schedule
}

// SortBySeriesIndex orders a series' instances by their immutable ordinal.
func SortBySeriesIndex(instances []entity.MeetingInstance) {
	sort.Slice(instances, func(i, j int) bool {
		a, b := instances[i].SeriesIndex, instances[j].SeriesIndex
		if a == nil || b == nil {
			return instances[i].Date.Before(instances[j].Date)
		}
		return *a < *b
	})
}

// UpcomingRepresentative picks the chronologically earliest instance at or
// after now. A fully-past series is represented by its last occurrence.
func UpcomingRepresentative(instances []entity.MeetingInstance, now time.Time) *entity.MeetingInstance {
	if len(instances) == 0 {
		return nil
	}

	byDate := make([]entity.MeetingInstance, len(instances))
	copy(byDate, instances)
	sort.Slice(byDate, func(i, j int) bool {
		return byDate[i].Date.Before(byDate[j].Date)
	})

	for i := range byDate {
		if !byDate[i].Date.Before(now) {
			return &byDate[i]
		}
	}
	return &byDate[len(byDate)-1]
}
