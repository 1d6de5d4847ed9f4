// Package iocli is the line-oriented terminal IO used by interactive
// commands.
package iocli

// IO reads answers from and prints to the user.
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
}
