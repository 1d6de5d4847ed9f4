package blocker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// readHosts returns the hosts file content. A missing file reads as empty.
func readHosts(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read hosts file: %w", err)
	}
	return string(data), true, nil
}

// writeHosts replaces the hosts file content in place. The file is
// rewritten rather than renamed over because /etc/hosts is often a bind
// mount. On a permission error the content is staged in a temp file and
// copied with the platform's privileged copy command.
func (m *Manager) writeHosts(ctx context.Context, content string) error {
	perm := fs.FileMode(0o644)
	if info, err := os.Stat(m.path); err == nil {
		perm = info.Mode().Perm()
	}

	err := os.WriteFile(m.path, []byte(content), perm)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPartialWrite, err)
	}

	m.logger.Warn("direct hosts write denied, trying privileged copy", "path", m.path, "error", err)
	if ferr := m.privilegedWrite(ctx, content); ferr != nil {
		return fmt.Errorf("%w: direct write: %w; fallback: %w", ErrPartialWrite, err, ferr)
	}
	return nil
}

func (m *Manager) privilegedWrite(ctx context.Context, content string) error {
	tmp, err := os.CreateTemp("", "focusguard-hosts-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	name, args := copyCommand(m.goos, tmpPath, m.path)
	if out, err := m.runner.Run(ctx, name, args...); err != nil {
		return fmt.Errorf("%w (%s)", err, trimOutput(out))
	}
	return nil
}

// copyCommand returns the command that copies src over dst with elevated
// rights.
func copyCommand(goos, src, dst string) (string, []string) {
	if goos == "windows" {
		return "cmd", []string{"/c", "copy", src, dst, "/Y"}
	}
	return "sudo", []string{"-n", "cp", src, dst}
}
