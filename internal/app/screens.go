package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/runnerr0/focusguard/internal/iocli"
	"github.com/runnerr0/focusguard/internal/session"
	"github.com/runnerr0/focusguard/internal/storage"
	"github.com/runnerr0/focusguard/internal/todo"
)

// Navigator returns a navigator with every interactive screen registered.
func (a *App) Navigator(io iocli.IO) *Navigator {
	n := NewNavigator(a.Logger)
	scr := &screens{app: a, io: io}
	n.Register(ScreenLogin, ScreenFunc(scr.login))
	n.Register(ScreenMenu, ScreenFunc(scr.menu))
	n.Register(ScreenTimer, ScreenFunc(scr.timer))
	n.Register(ScreenSettings, ScreenFunc(scr.settings))
	n.Register(ScreenAnalytics, ScreenFunc(scr.analytics))
	n.Register(ScreenUsers, ScreenFunc(scr.users))
	n.Register(ScreenTodos, ScreenFunc(scr.todos))
	return n
}

type screens struct {
	app *App
	io  iocli.IO
}

func (s *screens) login(ctx context.Context, sess *Session) (ScreenID, error) {
	if s.app.Degraded() {
		s.io.Printf("Database unavailable: %v\n", s.app.StoreErr)
		return ScreenExit, nil
	}

	if rec, err := s.app.CurrentUser(ctx); err == nil {
		sess.UserID, sess.Username = rec.UserID, rec.Username
		s.io.Printf("Welcome back, %s.\n", rec.Username)
		return ScreenMenu, nil
	} else if !errors.Is(err, session.ErrNoSession) {
		return "", err
	}

	name, err := s.io.ReadInput("Username (blank to quit, \"new\" to register): ")
	if err != nil {
		return "", err
	}
	switch name {
	case "":
		return ScreenExit, nil
	case "new":
		if name, err = s.io.ReadInput("New username: "); err != nil {
			return "", err
		}
		pw, err := s.io.ReadPassword("New password: ")
		if err != nil {
			return "", err
		}
		if _, err := s.app.Store.CreateUser(ctx, name, pw); err != nil {
			if errors.Is(err, storage.ErrDuplicateUser) || errors.Is(err, storage.ErrInvalidInput) {
				s.io.Printf("Cannot register: %v\n", err)
				return ScreenLogin, nil
			}
			return "", err
		}
		return s.finishLogin(ctx, sess, name, pw)
	}

	pw, err := s.io.ReadPassword("Password: ")
	if err != nil {
		return "", err
	}
	return s.finishLogin(ctx, sess, name, pw)
}

func (s *screens) finishLogin(ctx context.Context, sess *Session, name, pw string) (ScreenID, error) {
	rec, err := s.app.Login(ctx, name, pw)
	if errors.Is(err, storage.ErrInvalidCredentials) {
		s.io.Println("Invalid username or password.")
		return ScreenLogin, nil
	}
	if err != nil {
		return "", err
	}
	sess.UserID, sess.Username = rec.UserID, rec.Username
	s.io.Printf("Logged in as %s.\n", rec.Username)
	return ScreenMenu, nil
}

var menuChoices = map[string]ScreenID{
	"1": ScreenTimer,
	"2": ScreenSettings,
	"3": ScreenAnalytics,
	"4": ScreenUsers,
	"6": ScreenTodos,
	"0": ScreenExit,
	"q": ScreenExit,
}

func (s *screens) menu(ctx context.Context, sess *Session) (ScreenID, error) {
	s.io.Printf("\n%s\n", sess.Username)
	s.io.Println("  1) Focus timer")
	s.io.Println("  2) Blocked sites")
	s.io.Println("  3) Analytics")
	s.io.Println("  4) Account")
	s.io.Println("  5) Log out")
	s.io.Println("  6) Todos")
	s.io.Println("  0) Quit")

	choice, err := s.io.ReadInput("> ")
	if err != nil {
		return "", err
	}
	if choice == "5" {
		if err := s.app.Logout(ctx); err != nil {
			return "", err
		}
		*sess = Session{}
		return ScreenLogin, nil
	}
	if next, ok := menuChoices[choice]; ok {
		return next, nil
	}
	s.io.Printf("Unknown choice %q.\n", choice)
	return ScreenMenu, nil
}

func (s *screens) timer(ctx context.Context, sess *Session) (ScreenID, error) {
	def := s.app.Config.Focus.DefaultMinutes
	raw, err := s.io.ReadInput(fmt.Sprintf("Minutes [%d]: ", def))
	if err != nil {
		return "", err
	}
	minutes := def
	if raw != "" {
		if minutes, err = strconv.Atoi(raw); err != nil || minutes <= 0 {
			s.io.Printf("Invalid length %q.\n", raw)
			return ScreenMenu, nil
		}
	}

	subject, err := s.io.ReadInput("Subject (optional): ")
	if err != nil {
		return "", err
	}
	rating := 0
	if raw, err = s.io.ReadInput("Focus rating 1-5 (optional): "); err != nil {
		return "", err
	}
	if raw != "" {
		if rating, err = strconv.Atoi(raw); err != nil || rating < 1 || rating > 5 {
			s.io.Printf("Invalid rating %q.\n", raw)
			return ScreenMenu, nil
		}
	}

	c, err := s.app.NewFocus(ctx, sess.UserID, FocusOptions{Minutes: minutes, Subject: subject, Rating: rating})
	if err != nil {
		return "", err
	}
	s.io.Printf("Focusing for %d minutes. Interrupt to stop.\n", minutes)
	res, err := c.Run(ctx, s.app.Config.Focus.TickInterval)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.io.Println("Stopped.")
		return ScreenMenu, nil
	}
	if err != nil {
		return "", err
	}

	if res.Recorded {
		s.io.Printf("Done: %d minutes recorded.\n", res.Minutes)
	} else {
		s.io.Printf("Done: %d minutes.\n", res.Minutes)
	}
	return ScreenMenu, nil
}

func (s *screens) settings(ctx context.Context, sess *Session) (ScreenID, error) {
	for {
		sites, err := s.app.Store.ListBlockedSites(ctx, sess.UserID)
		if err != nil {
			return "", err
		}
		if len(sites) == 0 {
			s.io.Println("No blocked sites.")
		}
		for i, site := range sites {
			s.io.Printf("  %d. %s\n", i+1, site)
		}

		line, err := s.io.ReadInput("add <site> | remove <site> | back: ")
		if err != nil {
			return "", err
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "", "back":
			return ScreenMenu, nil
		case "add":
			site, err := s.app.Store.AddBlockedSite(ctx, sess.UserID, arg)
			switch {
			case errors.Is(err, storage.ErrSiteExists), errors.Is(err, storage.ErrInvalidSite):
				s.io.Printf("Not added: %v\n", err)
			case err != nil:
				return "", err
			default:
				s.io.Printf("Added %s.\n", site)
			}
		case "remove":
			err := s.app.Store.RemoveBlockedSite(ctx, sess.UserID, arg)
			switch {
			case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidSite):
				s.io.Printf("Not removed: %v\n", err)
			case err != nil:
				return "", err
			default:
				s.io.Printf("Removed %s.\n", arg)
			}
		default:
			s.io.Printf("Unknown command %q.\n", cmd)
		}
	}
}

// todos edits the task list. Every edit is saved in the background and
// the outcome shows up in the status line of the next redraw.
func (s *screens) todos(ctx context.Context, sess *Session) (ScreenID, error) {
	l := todo.NewList(sess.UserID, s.app.Store, s.app.Status, s.app.Logger)
	if err := l.Load(ctx); err != nil {
		return "", err
	}
	defer l.Wait()

	for {
		if st := s.app.Status.Get(); st != "" {
			s.io.Printf("Status: %s\n", st)
		}
		items := l.Items()
		if len(items) == 0 {
			s.io.Println("No todos.")
		}
		for i, it := range items {
			mark := " "
			if it.Completed {
				mark = "x"
			}
			s.io.Printf("  %d. [%s] %s\n", i+1, mark, it.Task)
		}

		line, err := s.io.ReadInput("add <task> | done <n> | remove <n> | back: ")
		if err != nil {
			return "", err
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "", "back":
			l.Wait()
			if st := s.app.Status.Get(); st != "" {
				s.io.Printf("Status: %s\n", st)
			}
			return ScreenMenu, nil
		case "add":
			err = l.Add(arg)
		case "done", "remove":
			n, convErr := strconv.Atoi(arg)
			if convErr != nil {
				s.io.Printf("Not a number: %q.\n", arg)
				continue
			}
			if cmd == "done" {
				err = l.Toggle(n - 1)
			} else {
				err = l.Remove(n - 1)
			}
		default:
			s.io.Printf("Unknown command %q.\n", cmd)
			continue
		}

		if err != nil {
			s.io.Printf("Not changed: %v\n", err)
			continue
		}
		l.SaveAsync(ctx)
	}
}

func (s *screens) analytics(ctx context.Context, sess *Session) (ScreenID, error) {
	a, err := s.app.Store.GetStudyAnalytics(ctx, sess.UserID)
	if err != nil {
		return "", err
	}
	PrintAnalytics(s.io, a)
	return ScreenMenu, nil
}

func (s *screens) users(ctx context.Context, sess *Session) (ScreenID, error) {
	line, err := s.io.ReadInput("rename <name> | passwd | delete | back: ")
	if err != nil {
		return "", err
	}
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "rename":
		err := s.app.Store.UpdateUsername(ctx, sess.UserID, arg)
		if errors.Is(err, storage.ErrDuplicateUser) || errors.Is(err, storage.ErrInvalidInput) {
			s.io.Printf("Not renamed: %v\n", err)
			return ScreenUsers, nil
		}
		if err != nil {
			return "", err
		}
		if _, err := s.app.Sessions.Begin(ctx, sess.UserID, arg); err != nil {
			return "", err
		}
		sess.Username = arg
		s.io.Printf("Renamed to %s.\n", arg)
		return ScreenMenu, nil

	case "passwd":
		pw, err := s.io.ReadPassword("New password: ")
		if err != nil {
			return "", err
		}
		err = s.app.Store.UpdatePassword(ctx, sess.UserID, pw)
		if errors.Is(err, storage.ErrInvalidInput) {
			s.io.Printf("Not changed: %v\n", err)
			return ScreenUsers, nil
		}
		if err != nil {
			return "", err
		}
		s.io.Println("Password changed.")
		return ScreenMenu, nil

	case "delete":
		confirm, err := s.io.ReadInput(fmt.Sprintf("Type %q to delete this account and all its data: ", sess.Username))
		if err != nil {
			return "", err
		}
		if confirm != sess.Username {
			s.io.Println("Aborted.")
			return ScreenMenu, nil
		}
		if err := s.app.Store.DeleteUser(ctx, sess.UserID); err != nil {
			return "", err
		}
		if err := s.app.Logout(ctx); err != nil {
			return "", err
		}
		*sess = Session{}
		s.io.Println("Account deleted.")
		return ScreenLogin, nil
	}
	return ScreenMenu, nil
}

// PrintAnalytics writes a plain-text analytics report.
func PrintAnalytics(out iocli.IO, a *storage.Analytics) {
	lt := a.Lifetime
	if lt.Sessions == 0 {
		out.Println("No study sessions yet.")
		return
	}

	out.Printf("Sessions: %d   Total: %d min", lt.Sessions, lt.TotalMinutes)
	if lt.AvgMinutes != nil {
		out.Printf("   Average: %.1f min", *lt.AvgMinutes)
	}
	if lt.LongestSession != nil {
		out.Printf("   Longest: %d min", *lt.LongestSession)
	}
	out.Println()
	if lt.AvgFocus != nil {
		out.Printf("Average focus: %.1f", *lt.AvgFocus)
		if lt.BestFocus != nil {
			out.Printf("   Best: %d", *lt.BestFocus)
		}
		out.Println()
	}
	if a.BestDay != nil {
		out.Printf("Best day: %s (%.1f min average)\n", a.BestDay.Weekday, a.BestDay.AvgMinutes)
	}

	if len(a.Daily) > 0 {
		out.Println("\nLast 7 days:")
		for _, d := range a.Daily {
			out.Printf("  %s  %4d min  %2d sessions\n", d.Start.Format("Mon 2006-01-02"), d.TotalMinutes, d.Sessions)
		}
	}
	if len(a.Weekly) > 0 {
		out.Println("\nLast 4 weeks:")
		for _, w := range a.Weekly {
			out.Printf("  %d-W%02d  %4d min  %2d sessions\n", w.Year, w.Week, w.TotalMinutes, w.Sessions)
		}
	}
	if len(a.Subjects) > 0 {
		out.Println("\nTop subjects:")
		for _, sub := range a.Subjects {
			out.Printf("  %-20s %4d min  %2d sessions\n", sub.Subject, sub.TotalMinutes, sub.Sessions)
		}
	}
}
