// Package blocker manages the block of sinkhole entries focusguard keeps
// in the operating system hosts file.
package blocker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"runtime"
	"time"

	"github.com/runnerr0/focusguard/internal/config"
)

var (
	// ErrNotElevated is returned when the process lacks the rights to
	// edit the hosts file. Retrying will not help.
	ErrNotElevated = errors.New("administrator privileges required")

	// ErrPartialWrite is returned when neither the direct write nor the
	// privileged fallback could update the hosts file.
	ErrPartialWrite = errors.New("hosts file not updated")
)

// Blocker is the surface the focus timer and the CLI use.
type Blocker interface {
	Apply(ctx context.Context, sites []string) error
	Remove(ctx context.Context) error
	Status(ctx context.Context) (*Status, error)
}

// Status describes the managed section currently in the hosts file.
type Status struct {
	Path    string   `json:"path"`
	Blocked bool     `json:"blocked"`
	Hosts   []string `json:"hosts"`
}

// Options configures a Manager. Zero values fall back to the defaults of
// the running platform.
type Options struct {
	Path         string
	RedirectIP   string
	Markers      Markers
	Providers    map[string][]string
	FlushDNS     bool
	DisableDoH   bool
	SelfTest     bool
	RestartPause time.Duration

	Runner     Runner
	Resolver   Resolver
	Logger     *slog.Logger
	Elevated   func() bool
	GOOS       string
	PolicyDirs []string
}

// Manager edits the hosts file. Its operations are synchronous and must
// not run concurrently with each other.
type Manager struct {
	path         string
	redirectIP   string
	markers      Markers
	providers    map[string][]string
	flushDNS     bool
	disableDoH   bool
	selfTest     bool
	restartPause time.Duration

	runner     Runner
	resolver   Resolver
	logger     *slog.Logger
	elevated   func() bool
	goos       string
	policyDirs []string
	sleep      func(context.Context, time.Duration) error
}

// New creates a Manager.
func New(opts Options) *Manager {
	m := &Manager{
		path:         opts.Path,
		redirectIP:   opts.RedirectIP,
		markers:      opts.Markers,
		providers:    opts.Providers,
		flushDNS:     opts.FlushDNS,
		disableDoH:   opts.DisableDoH,
		selfTest:     opts.SelfTest,
		restartPause: opts.RestartPause,
		runner:       opts.Runner,
		resolver:     opts.Resolver,
		logger:       opts.Logger,
		elevated:     opts.Elevated,
		goos:         opts.GOOS,
		policyDirs:   opts.PolicyDirs,
		sleep:        sleepContext,
	}

	if m.path == "" {
		m.path = config.DefaultHostsPath()
	}
	if m.redirectIP == "" {
		m.redirectIP = "0.0.0.0"
	}
	if m.markers.Begin == "" || m.markers.End == "" {
		d := config.DefaultConfig().Hosts
		m.markers = Markers{Begin: d.BeginMarker, End: d.EndMarker}
	}
	if m.providers == nil {
		m.providers = config.DefaultProviderHosts()
	}
	if m.runner == nil {
		m.runner = ExecRunner{}
	}
	if m.resolver == nil {
		m.resolver = net.DefaultResolver
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.elevated == nil {
		m.elevated = isElevated
	}
	if m.goos == "" {
		m.goos = runtime.GOOS
	}
	if m.policyDirs == nil && m.goos == "linux" {
		m.policyDirs = DefaultPolicyDirs()
	}

	return m
}

// NewFromConfig creates a Manager from the hosts and blocking settings.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Manager {
	return New(Options{
		Path:         cfg.Hosts.Path,
		RedirectIP:   cfg.Hosts.RedirectIP,
		Markers:      Markers{Begin: cfg.Hosts.BeginMarker, End: cfg.Hosts.EndMarker},
		Providers:    cfg.Blocking.ProviderHosts(),
		FlushDNS:     cfg.Blocking.FlushDNS,
		DisableDoH:   cfg.Blocking.DisableDoH,
		SelfTest:     cfg.Blocking.SelfTest,
		RestartPause: cfg.Blocking.ServiceRestartPause,
		Runner:       ExecRunner{Timeout: cfg.Blocking.CommandTimeout},
		Logger:       logger,
	})
}

// Path returns the hosts file the manager edits.
func (m *Manager) Path() string {
	return m.path
}

// Apply installs a managed section sinking sites and their variants,
// replacing any existing one. An empty list removes the section.
func (m *Manager) Apply(ctx context.Context, sites []string) error {
	if len(sites) == 0 {
		return m.Remove(ctx)
	}
	if !m.elevated() {
		return ErrNotElevated
	}

	content, _, err := readHosts(m.path)
	if err != nil {
		return err
	}

	hosts := ExpandSites(sites, m.providers)
	updated := ApplySection(content, hosts, m.redirectIP, m.markers)
	if updated != content {
		if err := m.writeHosts(ctx, updated); err != nil {
			return err
		}
	}
	m.logger.Info("sites blocked", "sites", len(sites), "hosts", len(hosts), "path", m.path)

	if m.flushDNS {
		m.FlushDNS(ctx)
	}
	if m.disableDoH {
		m.DisableDoH(ctx)
	}
	if m.selfTest {
		m.SelfTest(ctx, sites)
	}
	return nil
}

// Remove deletes the managed section and leaves the rest of the file
// untouched. It succeeds when there is nothing to remove.
func (m *Manager) Remove(ctx context.Context) error {
	content, exists, err := readHosts(m.path)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	stripped, found := StripSection(content, m.markers)
	if !found {
		m.logger.Debug("no managed section in hosts file", "path", m.path)
		return nil
	}
	if !m.elevated() {
		return ErrNotElevated
	}

	if err := m.writeHosts(ctx, stripped); err != nil {
		return err
	}
	m.logger.Info("sites unblocked", "path", m.path)

	if m.flushDNS {
		m.FlushDNS(ctx)
	}
	return nil
}

// Status reports whether a managed section is present and what it lists.
func (m *Manager) Status(ctx context.Context) (*Status, error) {
	content, _, err := readHosts(m.path)
	if err != nil {
		return nil, err
	}

	st := &Status{Path: m.path, Hosts: []string{}}
	if hosts, ok := ParseSection(content, m.markers); ok {
		st.Blocked = true
		st.Hosts = hosts
	}
	return st, nil
}

// String implements fmt.Stringer for log output.
func (s *Status) String() string {
	if !s.Blocked {
		return fmt.Sprintf("%s: no sites blocked", s.Path)
	}
	return fmt.Sprintf("%s: %d hosts blocked", s.Path, len(s.Hosts))
}

var _ Blocker = (*Manager)(nil)
