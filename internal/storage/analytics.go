package storage

import (
	"context"
	"fmt"
	"time"
)

const (
	analyticsWeeks = 4
	analyticsDays  = 7
	topSubjects    = 5
)

// sessionPoint is the slice of a session the bucketed analytics need.
type sessionPoint struct {
	StartTime   time.Time `db:"start_time"`
	Duration    int64     `db:"duration_minutes"`
	FocusRating *int64    `db:"focus_rating"`
}

// GetStudyAnalytics aggregates the user's study history. A user without
// sessions gets empty slices and zero aggregates.
//
// Weekly covers the current ISO week and the three before it, daily
// covers today and the six days before it; both list only periods with
// sessions, newest first, and use the store's time zone.
func (s *SQLStore) GetStudyAnalytics(ctx context.Context, userID int64) (*Analytics, error) {
	a := &Analytics{
		Weekly:          []PeriodStat{},
		Daily:           []PeriodStat{},
		Subjects:        []SubjectStat{},
		PersonalRecords: []PersonalRecord{},
	}

	err := s.db.GetContext(ctx, &a.Lifetime, s.db.Rebind(`
		SELECT
			COUNT(*)                           AS sessions,
			COALESCE(SUM(duration_minutes), 0) AS total_minutes,
			AVG(duration_minutes)              AS avg_minutes,
			MAX(duration_minutes)              AS longest_session,
			MAX(focus_rating)                  AS best_focus,
			AVG(focus_rating)                  AS avg_focus
		FROM study_sessions
		WHERE user_id = ?`), userID)
	if err != nil {
		return nil, fmt.Errorf("lifetime stats: %w", err)
	}
	if a.Lifetime.Sessions == 0 {
		return a, nil
	}

	err = s.db.SelectContext(ctx, &a.Subjects, s.db.Rebind(`
		SELECT
			subject_tag                        AS subject,
			COALESCE(SUM(duration_minutes), 0) AS total_minutes,
			COUNT(*)                           AS sessions,
			AVG(focus_rating)                  AS avg_focus
		FROM study_sessions
		WHERE user_id = ? AND subject_tag IS NOT NULL AND subject_tag <> ''
		GROUP BY subject_tag
		ORDER BY total_minutes DESC, subject
		LIMIT ?`), userID, topSubjects)
	if err != nil {
		return nil, fmt.Errorf("subject stats: %w", err)
	}

	var points []sessionPoint
	err = s.db.SelectContext(ctx, &points, s.db.Rebind(`
		SELECT start_time, COALESCE(duration_minutes, 0) AS duration_minutes, focus_rating
		FROM study_sessions
		WHERE user_id = ?`), userID)
	if err != nil {
		return nil, fmt.Errorf("session history: %w", err)
	}

	now := s.now().In(s.loc)
	a.Weekly = weeklyStats(points, now, s.loc)
	a.Daily = dailyStats(points, now, s.loc)
	a.BestDay = bestWeekday(points, s.loc)

	if a.PersonalRecords, err = s.PersonalRecords(ctx, userID); err != nil {
		return nil, err
	}

	return a, nil
}

// bucket accumulates one period.
type bucket struct {
	minutes  int
	sessions int
	focusSum int64
	focusN   int
}

func (b *bucket) add(p sessionPoint) {
	b.minutes += int(p.Duration)
	b.sessions++
	if p.FocusRating != nil {
		b.focusSum += *p.FocusRating
		b.focusN++
	}
}

func (b *bucket) stat(start time.Time) PeriodStat {
	ps := PeriodStat{
		Start:        start,
		Year:         start.Year(),
		TotalMinutes: b.minutes,
		Sessions:     b.sessions,
	}
	if b.focusN > 0 {
		avg := float64(b.focusSum) / float64(b.focusN)
		ps.AvgFocus = &avg
	}
	return ps
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// startOfISOWeek returns the Monday that starts t's ISO week.
func startOfISOWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func weeklyStats(points []sessionPoint, now time.Time, loc *time.Location) []PeriodStat {
	thisWeek := startOfISOWeek(now)
	buckets := make([]bucket, analyticsWeeks)

	for _, p := range points {
		week := startOfISOWeek(p.StartTime.In(loc))
		for i := range buckets {
			if week.Equal(thisWeek.AddDate(0, 0, -7*i)) {
				buckets[i].add(p)
				break
			}
		}
	}

	out := []PeriodStat{}
	for i, b := range buckets {
		if b.sessions == 0 {
			continue
		}
		start := thisWeek.AddDate(0, 0, -7*i)
		ps := b.stat(start)
		ps.Year, ps.Week = start.ISOWeek()
		out = append(out, ps)
	}
	return out
}

func dailyStats(points []sessionPoint, now time.Time, loc *time.Location) []PeriodStat {
	today := startOfDay(now)
	buckets := make([]bucket, analyticsDays)

	for _, p := range points {
		day := startOfDay(p.StartTime.In(loc))
		for i := range buckets {
			if day.Equal(today.AddDate(0, 0, -i)) {
				buckets[i].add(p)
				break
			}
		}
	}

	out := []PeriodStat{}
	for i, b := range buckets {
		if b.sessions == 0 {
			continue
		}
		out = append(out, b.stat(today.AddDate(0, 0, -i)))
	}
	return out
}

// bestWeekday returns the day of the week with the highest average
// session length. Ties go to the earlier day, Sunday first.
func bestWeekday(points []sessionPoint, loc *time.Location) *WeekdayStat {
	var days [7]bucket
	for _, p := range points {
		days[p.StartTime.In(loc).Weekday()].add(p)
	}

	var best *WeekdayStat
	for wd, b := range days {
		if b.sessions == 0 {
			continue
		}
		avg := float64(b.minutes) / float64(b.sessions)
		if best == nil || avg > best.AvgMinutes {
			best = &WeekdayStat{Weekday: time.Weekday(wd), AvgMinutes: avg, Sessions: b.sessions}
		}
	}
	return best
}
