package storage

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
)

// MaxTaskLen matches the todos.task column width.
const MaxTaskLen = 500

// ListTodos returns the user's tasks in insertion order.
func (s *SQLStore) ListTodos(ctx context.Context, userID int64) ([]Todo, error) {
	todos := []Todo{}
	err := s.db.SelectContext(ctx, &todos, s.db.Rebind(
		"SELECT id, user_id, task, completed, created_at FROM todos WHERE user_id = ? ORDER BY id"), userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// SaveTodos replaces the user's whole list. Either every item is stored
// or the previous list is kept.
func (s *SQLStore) SaveTodos(ctx context.Context, userID int64, items []TodoItem) error {
	for i, item := range items {
		task := strings.TrimSpace(item.Task)
		if task == "" {
			return fmt.Errorf("%w: todo %d is empty", ErrInvalidInput, i+1)
		}
		if utf8.RuneCountInString(task) > MaxTaskLen {
			return fmt.Errorf("%w: todo %d exceeds %d characters", ErrInvalidInput, i+1, MaxTaskLen)
		}
	}

	now := s.timestamp()
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM todos WHERE user_id = ?"), userID); err != nil {
			return fmt.Errorf("clear todos: %w", err)
		}

		insert := tx.Rebind("INSERT INTO todos (user_id, task, completed, created_at) VALUES (?, ?, ?, ?)")
		for _, item := range items {
			if _, err := tx.ExecContext(ctx, insert, userID, strings.TrimSpace(item.Task), item.Completed, now); err != nil {
				return fmt.Errorf("insert todo: %w", err)
			}
		}
		return nil
	})
}
