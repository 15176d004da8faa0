package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int32
}

func (r *countingRefresher) AutoRefresh() { r.calls.Add(1) }

func TestApplyEnablesAndClamps(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, nil)
	s.Start()
	t.Cleanup(s.Stop)

	minutes, err := s.Apply(true, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, minutes)

	enabled, interval := s.Enabled()
	assert.True(t, enabled)
	assert.Equal(t, 5, interval)

	_, ok := s.NextRun()
	assert.True(t, ok)

	// the first tick is one full interval away
	assert.Equal(t, int32(0), r.calls.Load())
}

func TestApplyReplacesJob(t *testing.T) {
	s := New(&countingRefresher{}, nil)
	s.Start()
	t.Cleanup(s.Stop)

	_, err := s.Apply(true, 30)
	require.NoError(t, err)
	minutes, err := s.Apply(true, 60)
	require.NoError(t, err)
	assert.Equal(t, 60, minutes)
	assert.Len(t, s.scheduler.Jobs(), 1)
}

func TestApplyDisable(t *testing.T) {
	s := New(&countingRefresher{}, nil)
	s.Start()
	t.Cleanup(s.Stop)

	_, err := s.Apply(true, 10)
	require.NoError(t, err)
	minutes, err := s.Apply(false, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, minutes)

	enabled, _ := s.Enabled()
	assert.False(t, enabled)
	assert.Empty(t, s.scheduler.Jobs())

	_, ok := s.NextRun()
	assert.False(t, ok)
}

func TestTickDispatchesRefresh(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, nil)
	s.Start()
	t.Cleanup(s.Stop)

	_, err := s.Apply(true, 5)
	require.NoError(t, err)

	// run the job now instead of waiting a full interval
	s.scheduler.RunAll()
	require.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}
