package service

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/rafdmrs/Faelist-todo-App/internal/cache"
	"github.com/rafdmrs/Faelist-todo-App/internal/repo"
)

// StatsSnapshot is the dashboard aggregate for one owner at one point in
// time: four counts over the whole collection and the percentage change of
// each versus the todos created in the previous calendar week.
type StatsSnapshot struct {
	Total        int64
	Completed    int64
	Active       int64
	HighPriority int64

	TotalChange        int
	CompletedChange    int
	ActiveChange       int
	HighPriorityChange int
}

// Stats computes the dashboard snapshot for userID. It always looks at the
// owner's entire collection, never the filtered view. Read-only.
func (s *TodoService) Stats(ctx context.Context, userID int64) (StatsSnapshot, error) {
	if s.cache != nil {
		key := "stats:" + strconv.FormatInt(userID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if cs, err := s.cache.GetStats(ctx, userID); err == nil && cs != nil {
				return *cs, nil
			}
			cs, err := s.loadStatCounts(ctx, userID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetStats(ctx, userID, cs)
			return cs, nil
		})
		if err != nil {
			return StatsSnapshot{}, err
		}
		cs := v.(cache.CachedStats)
		return buildSnapshot(cs.Current, cs.Prior), nil
	}

	cs, err := s.loadStatCounts(ctx, userID)
	if err != nil {
		return StatsSnapshot{}, err
	}
	return buildSnapshot(cs.Current, cs.Prior), nil
}

func (s *TodoService) loadStatCounts(ctx context.Context, userID int64) (cache.CachedStats, error) {
	current, err := s.repo.Counts(ctx, userID)
	if err != nil {
		return cache.CachedStats{}, err
	}
	from, to := priorWeekWindow(s.now())
	prior, err := s.repo.CountsCreatedBetween(ctx, userID, from, to)
	if err != nil {
		return cache.CachedStats{}, err
	}
	return cache.CachedStats{Current: current, Prior: prior}, nil
}

func buildSnapshot(current, prior repo.Counts) StatsSnapshot {
	return StatsSnapshot{
		Total:        current.Total,
		Completed:    current.Completed,
		Active:       current.Active,
		HighPriority: current.HighPriority,

		TotalChange:        pctChange(current.Total, prior.Total),
		CompletedChange:    pctChange(current.Completed, prior.Completed),
		ActiveChange:       pctChange(current.Active, prior.Active),
		HighPriorityChange: pctChange(current.HighPriority, prior.HighPriority),
	}
}

// pctChange is round((cur-prior)/prior*100), half away from zero. A zero
// prior yields exactly 0 — there is no meaningful percentage for 0 -> N
// growth, and the dashboard shows a flat delta for it.
func pctChange(cur, prior int64) int {
	if prior == 0 {
		return 0
	}
	return int(math.Round(float64(cur-prior) / float64(prior) * 100))
}

// priorWeekWindow is the Monday-to-Sunday calendar week immediately before
// the week containing now, inclusive on both ends.
func priorWeekWindow(now time.Time) (from, to time.Time) {
	from = startOfWeek(now).AddDate(0, 0, -7)
	to = from.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return from, to
}

// startOfWeek is midnight UTC of the Monday of the week containing t.
func startOfWeek(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0 ... Sunday = 6
	return day.AddDate(0, 0, -offset)
}
