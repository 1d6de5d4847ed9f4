// Package export writes study sessions and analytics to CSV or XLSX.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/runnerr0/focusguard/internal/storage"
)

// Sheet names of the XLSX workbook.
const (
	SessionsSheet = "Sessions"
	SummarySheet  = "Summary"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnknownFormat is returned for an unsupported file format.
var ErrUnknownFormat = errors.New("unknown export format")

var sessionHeader = []string{
	"id", "start_time", "end_time", "duration_minutes",
	"focus_rating", "subject", "distractions", "notes",
}

// FormatFor picks the format from an explicit name or the path extension.
func FormatFor(path, name string) (Format, error) {
	if name == "" {
		name = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch Format(strings.ToLower(name)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ToFile writes the export to path in the given format.
func ToFile(path string, format Format, sessions []storage.StudySession, a *storage.Analytics) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	switch format {
	case FormatCSV:
		err = WriteCSV(f, sessions)
	case FormatXLSX:
		err = WriteXLSX(f, sessions, a)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close export file: %w", cerr)
	}
	return err
}

// WriteCSV writes one header row and one row per session.
func WriteCSV(w io.Writer, sessions []storage.StudySession) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sessionHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, s := range sessions {
		if err := cw.Write(sessionRecord(s)); err != nil {
			return fmt.Errorf("write csv row %d: %w", s.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteXLSX writes a workbook with a Sessions sheet and, when a is not
// nil, a Summary sheet.
func WriteXLSX(w io.Writer, sessions []storage.StudySession, a *storage.Analytics) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SessionsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := make([][]any, 0, len(sessions)+1)
	rows = append(rows, toAny(sessionHeader))
	for _, s := range sessions {
		rows = append(rows, sessionRow(s))
	}
	if err := writeRows(f, SessionsSheet, rows); err != nil {
		return err
	}

	if a != nil {
		if _, err := f.NewSheet(SummarySheet); err != nil {
			return fmt.Errorf("add summary sheet: %w", err)
		}
		if err := writeRows(f, SummarySheet, summaryRows(a)); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func sessionRecord(s storage.StudySession) []string {
	end := ""
	if s.EndTime != nil {
		end = s.EndTime.Format(time.RFC3339)
	}
	rating := ""
	if s.FocusRating != nil {
		rating = strconv.Itoa(*s.FocusRating)
	}
	return []string{
		strconv.FormatInt(s.ID, 10),
		s.StartTime.Format(time.RFC3339),
		end,
		strconv.Itoa(s.DurationMinutes),
		rating,
		deref(s.SubjectTag),
		strconv.Itoa(s.DistractionsCount),
		deref(s.Notes),
	}
}

// sessionRow keeps numbers numeric so spreadsheet formulas work on them.
func sessionRow(s storage.StudySession) []any {
	var end, rating any
	if s.EndTime != nil {
		end = s.EndTime.Format(time.RFC3339)
	}
	if s.FocusRating != nil {
		rating = *s.FocusRating
	}
	return []any{
		s.ID,
		s.StartTime.Format(time.RFC3339),
		end,
		s.DurationMinutes,
		rating,
		deref(s.SubjectTag),
		s.DistractionsCount,
		deref(s.Notes),
	}
}

func summaryRows(a *storage.Analytics) [][]any {
	lt := a.Lifetime
	rows := [][]any{
		{"metric", "value"},
		{"sessions", lt.Sessions},
		{"total_minutes", lt.TotalMinutes},
		{"avg_minutes", optFloat(lt.AvgMinutes)},
		{"longest_session", optInt(lt.LongestSession)},
		{"best_focus", optInt(lt.BestFocus)},
		{"avg_focus", optFloat(lt.AvgFocus)},
	}
	if a.BestDay != nil {
		rows = append(rows, []any{"best_day", a.BestDay.Weekday.String()})
	}

	rows = append(rows, nil, []any{"week", "start", "minutes", "sessions", "avg_focus"})
	for _, w := range a.Weekly {
		rows = append(rows, []any{
			fmt.Sprintf("%d-W%02d", w.Year, w.Week), w.Start.Format(time.DateOnly),
			w.TotalMinutes, w.Sessions, optFloat(w.AvgFocus),
		})
	}

	rows = append(rows, nil, []any{"day", "minutes", "sessions", "avg_focus"})
	for _, d := range a.Daily {
		rows = append(rows, []any{
			d.Start.Format(time.DateOnly), d.TotalMinutes, d.Sessions, optFloat(d.AvgFocus),
		})
	}

	rows = append(rows, nil, []any{"subject", "minutes", "sessions", "avg_focus"})
	for _, s := range a.Subjects {
		rows = append(rows, []any{s.Subject, s.TotalMinutes, s.Sessions, optFloat(s.AvgFocus)})
	}
	return rows
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func optInt(i *int64) any {
	if i == nil {
		return nil
	}
	return *i
}
