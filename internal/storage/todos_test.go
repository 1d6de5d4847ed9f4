package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveTodos_ReplacesAll(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()
	id := mustCreateUser(t, store, "alice")

	require.NoError(t, store.SaveTodos(ctx, id, []TodoItem{{Task: "a"}, {Task: "b"}, {Task: "c"}}))
	require.NoError(t, store.SaveTodos(ctx, id, []TodoItem{{Task: "x", Completed: true}}))

	todos, err := store.ListTodos(ctx, id)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "x", todos[0].Task)
	assert.True(t, todos[0].Completed)
}

func TestSaveTodos_KeepsOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()
	id := mustCreateUser(t, store, "alice")

	items := []TodoItem{{Task: "write"}, {Task: "read", Completed: true}, {Task: "review"}}
	require.NoError(t, store.SaveTodos(ctx, id, items))

	todos, err := store.ListTodos(ctx, id)
	require.NoError(t, err)
	require.Len(t, todos, 3)
	for i, item := range items {
		assert.Equal(t, item.Task, todos[i].Task)
		assert.Equal(t, item.Completed, todos[i].Completed)
	}
}

func TestSaveTodos_EmptyClears(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()
	id := mustCreateUser(t, store, "alice")

	require.NoError(t, store.SaveTodos(ctx, id, []TodoItem{{Task: "a"}}))
	require.NoError(t, store.SaveTodos(ctx, id, nil))

	todos, err := store.ListTodos(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestSaveTodos_InvalidKeepsPrevious(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()
	id := mustCreateUser(t, store, "alice")

	require.NoError(t, store.SaveTodos(ctx, id, []TodoItem{{Task: "keep me"}}))

	err := store.SaveTodos(ctx, id, []TodoItem{{Task: "ok"}, {Task: "  "}})
	assert.ErrorIs(t, err, ErrInvalidInput)
	err = store.SaveTodos(ctx, id, []TodoItem{{Task: strings.Repeat("x", MaxTaskLen+1)}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	todos, err := store.ListTodos(ctx, id)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "keep me", todos[0].Task)
}

func TestSaveTodos_FailedInsertRollsBack(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()
	id := mustCreateUser(t, store, "alice")

	require.NoError(t, store.SaveTodos(ctx, id, []TodoItem{{Task: "keep me"}}))

	// Force the insert to fail after the delete has run.
	_, err := store.db.Exec(`CREATE TRIGGER reject_boom BEFORE INSERT ON todos
		WHEN NEW.task = 'boom' BEGIN SELECT RAISE(ABORT, 'boom'); END`)
	require.NoError(t, err)

	err = store.SaveTodos(ctx, id, []TodoItem{{Task: "fine"}, {Task: "boom"}})
	require.Error(t, err)

	todos, err := store.ListTodos(ctx, id)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "keep me", todos[0].Task)
}
