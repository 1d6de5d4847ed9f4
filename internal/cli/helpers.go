package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/runnerr0/focusguard/internal/app"
	"github.com/runnerr0/focusguard/internal/config"
	"github.com/runnerr0/focusguard/internal/iocli"
	"github.com/runnerr0/focusguard/internal/logging"
	"github.com/runnerr0/focusguard/internal/session"
	"github.com/runnerr0/focusguard/internal/storage"
)

// env is the state shared by every command of one invocation: parsed
// global flags, output streams and the lazily opened application.
type env struct {
	globals *GlobalFlags
	version string
	out     io.Writer
	stderr  io.Writer
	prompt  iocli.IO
	now     func() time.Time

	app     *app.App
	ownsApp bool
	closers []io.Closer
}

func newEnv(version string) *env {
	return &env{
		globals: &GlobalFlags{},
		version: version,
		out:     os.Stdout,
		stderr:  os.Stderr,
		now:     time.Now,
	}
}

func (e *env) console() iocli.IO {
	if e.prompt == nil {
		e.prompt = iocli.NewStdio()
	}
	return e.prompt
}

func (e *env) configPath() (string, error) {
	if e.globals.Config != "" {
		return e.globals.Config, nil
	}
	return config.DefaultPath()
}

// open loads the config, sets up logging and opens the application once
// per invocation.
func (e *env) open(ctx context.Context) (*app.App, error) {
	if e.app != nil {
		return e.app, nil
	}

	path, err := e.configPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadOrCreateAt(path)
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.Setup(cfg, e.stderr, e.globals.Verbose)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, closer)
	slog.SetDefault(logger)

	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	e.app, e.ownsApp = a, true
	return a, nil
}

// store opens the application and requires its database.
func (e *env) store(ctx context.Context) (*app.App, storage.Store, error) {
	a, err := e.open(ctx)
	if err != nil {
		return nil, nil, err
	}
	s, err := a.RequireStore()
	if err != nil {
		return nil, nil, err
	}
	return a, s, nil
}

// user opens the application and requires a logged-in user and the
// database.
func (e *env) user(ctx context.Context) (*app.App, storage.Store, *session.Record, error) {
	a, s, err := e.store(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	rec, err := a.CurrentUser(ctx)
	if errors.Is(err, session.ErrNoSession) {
		return nil, nil, nil, fmt.Errorf("%w; run \"focusguard login\" first", err)
	}
	if err != nil {
		return nil, nil, nil, err
	}
	return a, s, rec, nil
}

func (e *env) close() {
	if e.ownsApp && e.app != nil {
		if err := e.app.Close(); err != nil {
			fmt.Fprintf(e.stderr, "close: %v\n", err)
		}
		e.app = nil
	}
	for _, c := range e.closers {
		c.Close() //nolint:errcheck
	}
	e.closers = nil
}

func (e *env) printf(format string, a ...any) {
	fmt.Fprintf(e.out, format, a...)
}

func (e *env) printJSON(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readNewPassword prompts twice and checks that both answers match.
func (e *env) readNewPassword(prompt string) (string, error) {
	pw, err := e.console().ReadPassword(prompt)
	if err != nil {
		return "", err
	}
	again, err := e.console().ReadPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	if pw != again {
		return "", fmt.Errorf("passwords do not match")
	}
	return pw, nil
}

// styles renders human output. Colours are dropped when out is not a
// terminal.
type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	muted lipgloss.Style
}

func (e *env) styles() styles {
	r := lipgloss.NewRenderer(e.out)
	return styles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label: r.NewStyle().Width(15),
		ok:    r.NewStyle().Foreground(lipgloss.Color("10")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("11")),
		muted: r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// parseDuration parses a human-friendly duration string like "30d", "7d", "24h", "2w".
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("invalid duration: empty string")
	}

	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]

	n, err := strconv.Atoi(numStr)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	switch suffix {
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	default:
		return 0, fmt.Errorf("invalid duration: %q (use d, h, w, or m suffix)", s)
	}
}

// formatMinutes formats a minute count like "1h 05m".
func formatMinutes(m int64) string {
	if m < 60 {
		return fmt.Sprintf("%d min", m)
	}
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
		if len(s) > remainder {
			result.WriteString(",")
		}
	}
	for i := remainder; i < len(s); i += 3 {
		if i > remainder {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
