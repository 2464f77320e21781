package cashflow

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, closeFn, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cashflow.db"))
	require.NoError(t, err)
	defer closeFn()

	_, err = store.Load(ctx)
	assert.True(t, errors.Is(err, ErrNotFound))

	state := scenarioState()
	state.Normalize()
	state.InitialBalance = 1500
	state.SetNote(day(time.January, 15), "bonus?")
	require.NoError(t, store.Save(ctx, state))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, loaded.InitialBalance)
	require.Len(t, loaded.Expenses, 1)
	assert.Equal(t, "2026-01-05", loaded.Expenses[0].StartDate.Key())
	assert.Equal(t, KindExpense, loaded.Expenses[0].Kind)
	assert.Equal(t, "bonus?", loaded.Note(day(time.January, 15)))
}

func TestClient_DatabasePath(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "cashflow.db")

	c, err := NewClient(&ClientOptions{DatabasePath: path, Now: func() time.Time { return fixedNow }})
	require.NoError(t, err)
	_, err = c.Entities.Add(ctx, salary(), KindIncome)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	reopened, err := NewClient(&ClientOptions{DatabasePath: path})
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.Load(ctx))
	assert.Len(t, reopened.State().Incomes, 1)
}
