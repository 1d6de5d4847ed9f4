package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ScreenID names a screen.
type ScreenID string

const (
	ScreenLogin     ScreenID = "login"
	ScreenMenu      ScreenID = "menu"
	ScreenTimer     ScreenID = "timer"
	ScreenSettings  ScreenID = "settings"
	ScreenAnalytics ScreenID = "analytics"
	ScreenUsers     ScreenID = "users"
	ScreenTodos     ScreenID = "todos"
	ScreenExit      ScreenID = "exit"
)

// ErrUnknownScreen is returned when a screen returns an unregistered id.
var ErrUnknownScreen = errors.New("unknown screen")

// Session is the user the screens act for. It is passed between screens
// explicitly; zero UserID means nobody is logged in.
type Session struct {
	UserID   int64
	Username string
}

func (s *Session) LoggedIn() bool {
	return s.UserID != 0
}

// Screen is one step of the interactive flow. Run returns the screen to
// show next.
type Screen interface {
	Run(ctx context.Context, s *Session) (ScreenID, error)
}

// ScreenFunc adapts a function to Screen.
type ScreenFunc func(ctx context.Context, s *Session) (ScreenID, error)

func (f ScreenFunc) Run(ctx context.Context, s *Session) (ScreenID, error) {
	return f(ctx, s)
}

// Navigator moves between screens until one returns ScreenExit. Every
// screen except login requires a logged-in session; without one the
// navigator shows login instead.
type Navigator struct {
	screens map[ScreenID]Screen
	session *Session
	logger  *slog.Logger
	visited []ScreenID
}

func NewNavigator(logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Navigator{
		screens: make(map[ScreenID]Screen),
		session: &Session{},
		logger:  logger,
	}
}

// Register adds or replaces a screen.
func (n *Navigator) Register(id ScreenID, s Screen) {
	n.screens[id] = s
}

// Session returns the shared session.
func (n *Navigator) Session() *Session {
	return n.session
}

// Visited lists the screens shown so far, in order.
func (n *Navigator) Visited() []ScreenID {
	return append([]ScreenID(nil), n.visited...)
}

// Run shows start and follows transitions. It returns nil on ScreenExit,
// the first screen error, or the context error once ctx is done.
func (n *Navigator) Run(ctx context.Context, start ScreenID) error {
	id := start
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if id == ScreenExit {
			return nil
		}
		if id != ScreenLogin && !n.session.LoggedIn() {
			id = ScreenLogin
		}

		screen, ok := n.screens[id]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownScreen, id)
		}
		n.visited = append(n.visited, id)

		next, err := screen.Run(ctx, n.session)
		if err != nil {
			return fmt.Errorf("%s screen: %w", id, err)
		}
		n.logger.Debug("screen transition", "from", id, "to", next)
		id = next
	}
}
