// Package todo holds the task list shown next to the timer.
package todo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/runnerr0/focusguard/internal/storage"
)

// ErrNoItem is returned for an out-of-range index.
var ErrNoItem = errors.New("no such todo")

// Persister loads and replaces a user's list.
type Persister interface {
	ListTodos(ctx context.Context, userID int64) ([]storage.Todo, error)
	SaveTodos(ctx context.Context, userID int64, items []storage.TodoItem) error
}

// StatusCell is a string shared between a background worker and the
// foreground. The zero value is empty.
type StatusCell struct {
	p atomic.Pointer[string]
}

func (c *StatusCell) Set(s string) {
	c.p.Store(&s)
}

func (c *StatusCell) Get() string {
	if s := c.p.Load(); s != nil {
		return *s
	}
	return ""
}

// List is an in-memory task list for one user.
type List struct {
	userID int64
	store  Persister
	status *StatusCell
	logger *slog.Logger

	mu    sync.Mutex
	items []storage.TodoItem
	gen   uint64 // bumped by every SaveAsync

	saveMu sync.Mutex // one write at a time
	saving sync.WaitGroup
}

// NewList creates an empty list. status may be shared with other
// components; nil allocates a private one.
func NewList(userID int64, store Persister, status *StatusCell, logger *slog.Logger) *List {
	if status == nil {
		status = &StatusCell{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &List{userID: userID, store: store, status: status, logger: logger}
}

// Status returns the status cell the list reports to.
func (l *List) Status() *StatusCell {
	return l.status
}

// Load replaces the in-memory items with the stored ones.
func (l *List) Load(ctx context.Context) error {
	todos, err := l.store.ListTodos(ctx, l.userID)
	if err != nil {
		return err
	}

	items := make([]storage.TodoItem, len(todos))
	for i, t := range todos {
		items[i] = storage.TodoItem{Task: t.Task, Completed: t.Completed}
	}

	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
	return nil
}

// Items returns a copy of the list.
func (l *List) Items() []storage.TodoItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]storage.TodoItem{}, l.items...)
}

// Add appends a task.
func (l *List) Add(task string) error {
	task = strings.TrimSpace(task)
	if task == "" {
		return fmt.Errorf("%w: task cannot be empty", storage.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, storage.TodoItem{Task: task})
	return nil
}

// Toggle flips the completion of the i-th task (zero-based).
func (l *List) Toggle(i int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("%w: %d", ErrNoItem, i+1)
	}
	l.items[i].Completed = !l.items[i].Completed
	return nil
}

// Remove deletes the i-th task (zero-based).
func (l *List) Remove(i int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("%w: %d", ErrNoItem, i+1)
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return nil
}

// Save persists the current items synchronously.
func (l *List) Save(ctx context.Context) error {
	return l.store.SaveTodos(ctx, l.userID, l.Items())
}

// SaveAsync persists a snapshot of the list on a goroutine. The outcome
// is written to the status cell and sent on the returned channel, which
// is then closed. When saves overlap only the newest snapshot is
// written; superseded ones report nil without touching the store.
func (l *List) SaveAsync(ctx context.Context) <-chan error {
	l.mu.Lock()
	snapshot := append([]storage.TodoItem{}, l.items...)
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	done := make(chan error, 1)
	l.status.Set("saving todos")

	l.saving.Add(1)
	go func() {
		defer l.saving.Done()
		defer close(done)

		l.saveMu.Lock()
		defer l.saveMu.Unlock()

		l.mu.Lock()
		superseded := gen != l.gen
		l.mu.Unlock()
		if superseded {
			done <- nil
			return
		}

		err := l.store.SaveTodos(ctx, l.userID, snapshot)
		if err != nil {
			l.logger.Warn("saving todos failed", "user_id", l.userID, "error", err)
			l.status.Set("todos not saved: " + err.Error())
		} else {
			l.status.Set(fmt.Sprintf("%d todos saved", len(snapshot)))
		}
		done <- err
	}()

	return done
}

// Wait blocks until every save started by SaveAsync has finished.
func (l *List) Wait() {
	l.saving.Wait()
}
