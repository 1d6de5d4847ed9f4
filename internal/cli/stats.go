package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/runnerr0/focusguard/internal/storage"
)

type statsJSON struct {
	*storage.Analytics
	Recent []storage.StudySession `json:"recent,omitempty"`
}

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(args []string) error {
	ctx := context.Background()
	_, store, rec, err := c.env.user(ctx)
	if err != nil {
		return err
	}

	a, err := store.GetStudyAnalytics(ctx, rec.UserID)
	if err != nil {
		return err
	}
	var recent []storage.StudySession
	if c.Recent > 0 {
		if recent, err = store.RecentSessions(ctx, rec.UserID, c.Recent); err != nil {
			return err
		}
	}

	if c.env.globals.JSON {
		return c.env.printJSON(statsJSON{Analytics: a, Recent: recent})
	}
	c.printHuman(rec.Username, a, recent)
	return nil
}

func (c *StatsCommand) printHuman(user string, a *storage.Analytics, recent []storage.StudySession) {
	st := c.env.styles()
	line := func(label, value string) {
		c.env.printf("%s%s\n", st.label.Render(label), value)
	}

	c.env.printf("%s\n", st.title.Render("Study stats for "+user))
	lt := a.Lifetime
	if lt.Sessions == 0 {
		c.env.printf("No study sessions yet. Start one with: focusguard focus\n")
		return
	}

	line("Sessions:", formatNumber(lt.Sessions))
	line("Total:", formatMinutes(lt.TotalMinutes))
	if lt.AvgMinutes != nil {
		line("Average:", fmt.Sprintf("%.1f min", *lt.AvgMinutes))
	}
	if lt.LongestSession != nil {
		line("Longest:", formatMinutes(*lt.LongestSession))
	}
	if lt.AvgFocus != nil {
		focus := fmt.Sprintf("%.1f / 5", *lt.AvgFocus)
		if lt.BestFocus != nil {
			focus += fmt.Sprintf(" (best %d)", *lt.BestFocus)
		}
		line("Focus:", focus)
	}
	if a.BestDay != nil {
		line("Best day:", fmt.Sprintf("%s (%.1f min average)", a.BestDay.Weekday, a.BestDay.AvgMinutes))
	}

	if len(a.Daily) > 0 {
		c.env.printf("\n%s\n", st.title.Render("Last 7 days"))
		for _, d := range a.Daily {
			c.env.printf("  %s  %-9s %s\n", d.Start.Format("Mon 01-02"), formatMinutes(int64(d.TotalMinutes)),
				st.muted.Render(plural(d.Sessions, "session")))
		}
	}
	if len(a.Weekly) > 0 {
		c.env.printf("\n%s\n", st.title.Render("Last 4 weeks"))
		for _, w := range a.Weekly {
			c.env.printf("  %d-W%02d    %-9s %s\n", w.Year, w.Week, formatMinutes(int64(w.TotalMinutes)),
				st.muted.Render(plural(w.Sessions, "session")))
		}
	}
	if len(a.Subjects) > 0 {
		c.env.printf("\n%s\n", st.title.Render("Top subjects"))
		for _, s := range a.Subjects {
			c.env.printf("  %-20s %-9s %s\n", s.Subject, formatMinutes(s.TotalMinutes),
				st.muted.Render(plural(int(s.Sessions), "session")))
		}
	}

	if len(recent) > 0 {
		rows := make([][]string, len(recent))
		for i, s := range recent {
			rating, subject := "", ""
			if s.FocusRating != nil {
				rating = strconv.Itoa(*s.FocusRating)
			}
			if s.SubjectTag != nil {
				subject = *s.SubjectTag
			}
			rows[i] = []string{
				s.StartTime.Local().Format("2006-01-02 15:04"),
				strconv.Itoa(s.DurationMinutes),
				rating,
				subject,
			}
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("STARTED", "MIN", "FOCUS", "SUBJECT").
			Rows(rows...)
		c.env.printf("\n%s\n%s\n", st.title.Render("Recent sessions"), t.Render())
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
