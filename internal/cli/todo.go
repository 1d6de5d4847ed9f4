package cli

import (
	"context"
	"strings"

	"github.com/runnerr0/focusguard/internal/todo"
)

// loadTodos opens the logged-in user's list.
func loadTodos(ctx context.Context, e *env) (*todo.List, error) {
	a, store, rec, err := e.user(ctx)
	if err != nil {
		return nil, err
	}
	l := todo.NewList(rec.UserID, store, a.Status, a.Logger)
	if err := l.Load(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// saveTodos persists l in the background and waits for the outcome.
func saveTodos(ctx context.Context, e *env, l *todo.List) error {
	err := <-l.SaveAsync(ctx)
	if err != nil {
		return err
	}
	if !e.globals.JSON {
		e.printf("%s\n", e.styles().muted.Render(l.Status().Get()))
	}
	return nil
}

func (e *env) printTodos(l *todo.List) error {
	items := l.Items()
	if e.globals.JSON {
		return e.printJSON(items)
	}
	if len(items) == 0 {
		e.printf("No todos.\n")
		return nil
	}
	st := e.styles()
	for i, it := range items {
		if it.Completed {
			e.printf("%2d. %s %s\n", i+1, st.ok.Render("[x]"), st.muted.Render(it.Task))
		} else {
			e.printf("%2d. [ ] %s\n", i+1, it.Task)
		}
	}
	return nil
}

// Execute implements the go-flags Commander interface for TodoListCommand.
func (c *TodoListCommand) Execute(args []string) error {
	ctx := context.Background()
	l, err := loadTodos(ctx, c.env)
	if err != nil {
		return err
	}
	return c.env.printTodos(l)
}

// Execute implements the go-flags Commander interface for TodoAddCommand.
func (c *TodoAddCommand) Execute(args []string) error {
	ctx := context.Background()
	l, err := loadTodos(ctx, c.env)
	if err != nil {
		return err
	}
	if err := l.Add(strings.Join(c.Args.Task, " ")); err != nil {
		return err
	}
	if err := saveTodos(ctx, c.env, l); err != nil {
		return err
	}
	return c.env.printTodos(l)
}

// Execute implements the go-flags Commander interface for TodoDoneCommand.
func (c *TodoDoneCommand) Execute(args []string) error {
	ctx := context.Background()
	l, err := loadTodos(ctx, c.env)
	if err != nil {
		return err
	}
	if err := l.Toggle(c.Args.Number - 1); err != nil {
		return err
	}
	if err := saveTodos(ctx, c.env, l); err != nil {
		return err
	}
	return c.env.printTodos(l)
}

// Execute implements the go-flags Commander interface for TodoRemoveCommand.
func (c *TodoRemoveCommand) Execute(args []string) error {
	ctx := context.Background()
	l, err := loadTodos(ctx, c.env)
	if err != nil {
		return err
	}
	if err := l.Remove(c.Args.Number - 1); err != nil {
		return err
	}
	if err := saveTodos(ctx, c.env, l); err != nil {
		return err
	}
	return c.env.printTodos(l)
}
