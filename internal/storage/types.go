package storage

import "time"

// Record types tracked in personal_records.
const (
	RecordLongestSession = "longest_session"
	RecordBestFocus      = "best_focus"
)

// User is an account. PasswordHash is never printed.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// BlockedSite is one normalized domain on a user's block list.
type BlockedSite struct {
	UserID  int64     `db:"user_id" json:"user_id"`
	Website string    `db:"website" json:"website"`
	AddedAt time.Time `db:"added_at" json:"added_at"`
}

// StudySession is one completed focus run. Rows are never updated.
type StudySession struct {
	ID                int64      `db:"id" json:"id"`
	UserID            int64      `db:"user_id" json:"user_id"`
	StartTime         time.Time  `db:"start_time" json:"start_time"`
	EndTime           *time.Time `db:"end_time" json:"end_time,omitempty"`
	DurationMinutes   int        `db:"duration_minutes" json:"duration_minutes"`
	FocusRating       *int       `db:"focus_rating" json:"focus_rating,omitempty"`
	SubjectTag        *string    `db:"subject_tag" json:"subject_tag,omitempty"`
	DistractionsCount int        `db:"distractions_count" json:"distractions_count"`
	Notes             *string    `db:"notes" json:"notes,omitempty"`
}

// SessionInput describes a session to record. A zero StartTime means now.
type SessionInput struct {
	UserID            int64
	StartTime         time.Time
	DurationMinutes   int
	FocusRating       *int
	SubjectTag        string
	DistractionsCount int
	Notes             string
}

// PersonalRecord is the best value of one record type for a user.
type PersonalRecord struct {
	UserID     int64     `db:"user_id" json:"user_id"`
	RecordType string    `db:"record_type" json:"record_type"`
	Value      float64   `db:"record_value" json:"value"`
	AchievedAt time.Time `db:"achieved_at" json:"achieved_at"`
}

// Todo is a stored task row.
type Todo struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	Task      string    `db:"task" json:"task"`
	Completed bool      `db:"completed" json:"completed"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TodoItem is a task as held by the UI; it carries no identity.
type TodoItem struct {
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

// Analytics aggregates a user's study history.
type Analytics struct {
	Weekly          []PeriodStat     `json:"weekly"`
	Daily           []PeriodStat     `json:"daily"`
	Lifetime        LifetimeStats    `json:"lifetime"`
	BestDay         *WeekdayStat     `json:"best_day,omitempty"`
	Subjects        []SubjectStat    `json:"subjects"`
	PersonalRecords []PersonalRecord `json:"personal_records"`
}

// PeriodStat aggregates the sessions that started in one ISO week or one
// calendar day. Week is zero for daily stats.
type PeriodStat struct {
	Start        time.Time `json:"start"`
	Year         int       `json:"year"`
	Week         int       `json:"week,omitempty"`
	TotalMinutes int       `json:"total_minutes"`
	Sessions     int       `json:"sessions"`
	AvgFocus     *float64  `json:"avg_focus,omitempty"`
}

// LifetimeStats are aggregates over every session of a user.
type LifetimeStats struct {
	TotalMinutes   int64    `db:"total_minutes" json:"total_minutes"`
	Sessions       int64    `db:"sessions" json:"sessions"`
	AvgMinutes     *float64 `db:"avg_minutes" json:"avg_minutes,omitempty"`
	LongestSession *int64   `db:"longest_session" json:"longest_session,omitempty"`
	BestFocus      *int64   `db:"best_focus" json:"best_focus,omitempty"`
	AvgFocus       *float64 `db:"avg_focus" json:"avg_focus,omitempty"`
}

// WeekdayStat is the average session length on one day of the week.
type WeekdayStat struct {
	Weekday    time.Weekday `json:"weekday"`
	AvgMinutes float64      `json:"avg_minutes"`
	Sessions   int          `json:"sessions"`
}

// SubjectStat is the time spent on one subject tag.
type SubjectStat struct {
	Subject      string   `db:"subject" json:"subject"`
	TotalMinutes int64    `db:"total_minutes" json:"total_minutes"`
	Sessions     int64    `db:"sessions" json:"sessions"`
	AvgFocus     *float64 `db:"avg_focus" json:"avg_focus,omitempty"`
}
