//go:build !windows

package blocker

func disableSystemDoH() error {
	return errUnsupported
}
