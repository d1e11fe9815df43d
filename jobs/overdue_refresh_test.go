package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	updated int64
	err     error
	gotAsOf time.Time
}

func (f *fakeRefresher) RefreshOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	f.gotAsOf = asOf
	return f.updated, f.err
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate(ctx context.Context) error {
	f.calls++
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOverdueRefreshHandlerInvalidatesOnChange(t *testing.T) {
	refresher := &fakeRefresher{updated: 3}
	invalidator := &fakeInvalidator{}
	handler := NewOverdueRefreshHandler(refresher, invalidator, discardLogger())

	asOf := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	task, err := NewOverdueRefreshTask(asOf)
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), task))
	require.Equal(t, asOf, refresher.gotAsOf)
	require.Equal(t, 1, invalidator.calls)
}

func TestOverdueRefreshHandlerSkipsInvalidateWithoutChanges(t *testing.T) {
	refresher := &fakeRefresher{updated: 0}
	invalidator := &fakeInvalidator{}
	handler := NewOverdueRefreshHandler(refresher, invalidator, discardLogger())

	task, err := NewOverdueRefreshTask(time.Time{})
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), task))
	require.False(t, refresher.gotAsOf.IsZero())
	require.Equal(t, 0, invalidator.calls)
}

func TestOverdueRefreshHandlerPropagatesError(t *testing.T) {
	refresher := &fakeRefresher{err: errors.New("db down")}
	handler := NewOverdueRefreshHandler(refresher, nil, discardLogger())

	task, err := NewOverdueRefreshTask(time.Now())
	require.NoError(t, err)
	require.Error(t, handler(context.Background(), task))
}
