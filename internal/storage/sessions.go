package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
)

const (
	// MaxSubjectLen matches the study_sessions.subject_tag column width.
	MaxSubjectLen = 50

	defaultRecentLimit = 10
)

const sessionColumns = `id, user_id, start_time, end_time,
	COALESCE(duration_minutes, 0) AS duration_minutes, focus_rating, subject_tag,
	COALESCE(distractions_count, 0) AS distractions_count, notes`

// RecordStudySession stores a finished session and updates the user's
// personal records in the same transaction.
func (s *SQLStore) RecordStudySession(ctx context.Context, in SessionInput) (int64, error) {
	if in.DurationMinutes <= 0 {
		return 0, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidInput, in.DurationMinutes)
	}
	if in.FocusRating != nil && (*in.FocusRating < 1 || *in.FocusRating > 5) {
		return 0, fmt.Errorf("%w: focus rating must be between 1 and 5, got %d", ErrInvalidInput, *in.FocusRating)
	}
	if in.DistractionsCount < 0 {
		return 0, fmt.Errorf("%w: distractions count cannot be negative", ErrInvalidInput)
	}
	subject := strings.TrimSpace(in.SubjectTag)
	if utf8.RuneCountInString(subject) > MaxSubjectLen {
		return 0, fmt.Errorf("%w: subject must not exceed %d characters", ErrInvalidInput, MaxSubjectLen)
	}

	now := s.timestamp()
	start := now
	if !in.StartTime.IsZero() {
		start = in.StartTime.UTC().Truncate(time.Second)
	}
	end := start.Add(time.Duration(in.DurationMinutes) * time.Minute)

	var id int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		id, err = s.dialect.insertID(ctx, tx,
			`INSERT INTO study_sessions
				(user_id, start_time, end_time, duration_minutes, focus_rating, subject_tag, notes, distractions_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			in.UserID, start, end, in.DurationMinutes, in.FocusRating,
			nullString(subject), nullString(in.Notes), in.DistractionsCount,
		)
		if err != nil {
			return fmt.Errorf("insert session: %w", err)
		}

		if err := s.updateRecord(ctx, tx, in.UserID, RecordLongestSession, float64(in.DurationMinutes), now); err != nil {
			return err
		}
		if in.FocusRating != nil {
			if err := s.updateRecord(ctx, tx, in.UserID, RecordBestFocus, float64(*in.FocusRating), now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("study session recorded", "user_id", in.UserID, "session_id", id, "minutes", in.DurationMinutes)
	return id, nil
}

// updateRecord stores value as the user's record of recordType when it
// beats the current one or none exists yet.
func (s *SQLStore) updateRecord(ctx context.Context, tx *sqlx.Tx, userID int64, recordType string, value float64, at time.Time) error {
	var current float64
	err := tx.GetContext(ctx, &current, tx.Rebind(
		"SELECT record_value FROM personal_records WHERE user_id = ? AND record_type = ?"),
		userID, recordType)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, tx.Rebind(
			"INSERT INTO personal_records (user_id, record_type, record_value, achieved_at) VALUES (?, ?, ?, ?)"),
			userID, recordType, value, at)
	case err != nil:
		return fmt.Errorf("read %s record: %w", recordType, err)
	case value > current:
		_, err = tx.ExecContext(ctx, tx.Rebind(
			"UPDATE personal_records SET record_value = ?, achieved_at = ? WHERE user_id = ? AND record_type = ?"),
			value, at, userID, recordType)
	}
	if err != nil {
		return fmt.Errorf("update %s record: %w", recordType, err)
	}
	return nil
}

// RecentSessions returns the newest sessions first. A non-positive limit
// means 10.
func (s *SQLStore) RecentSessions(ctx context.Context, userID int64, limit int) ([]StudySession, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	sessions := []StudySession{}
	err := s.db.SelectContext(ctx, &sessions, s.db.Rebind(
		"SELECT "+sessionColumns+" FROM study_sessions WHERE user_id = ? ORDER BY start_time DESC, id DESC LIMIT ?"),
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent sessions: %w", err)
	}
	return sessions, nil
}

// StudyMinutesSince sums the minutes of sessions started at or after since.
func (s *SQLStore) StudyMinutesSince(ctx context.Context, userID int64, since time.Time) (int64, error) {
	var total int64
	err := s.db.GetContext(ctx, &total, s.db.Rebind(
		"SELECT COALESCE(SUM(duration_minutes), 0) FROM study_sessions WHERE user_id = ? AND start_time >= ?"),
		userID, since.UTC())
	if err != nil {
		return 0, fmt.Errorf("study minutes: %w", err)
	}
	return total, nil
}

// PersonalRecords returns the stored records ordered by type.
func (s *SQLStore) PersonalRecords(ctx context.Context, userID int64) ([]PersonalRecord, error) {
	records := []PersonalRecord{}
	err := s.db.SelectContext(ctx, &records, s.db.Rebind(
		"SELECT user_id, record_type, record_value, achieved_at FROM personal_records WHERE user_id = ? ORDER BY record_type"),
		userID)
	if err != nil {
		return nil, fmt.Errorf("personal records: %w", err)
	}
	return records, nil
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
