package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncJob(t *testing.T) {
	ran := false
	job := NewFuncJob("example", func() error {
		ran = true
		return nil
	})

	assert.Equal(t, "example", job.Name())
	require.NoError(t, job.Run())
	assert.True(t, ran)
}

func TestAddJob_InvalidSchedule(t *testing.T) {
	s := New(zerolog.Nop())

	err := s.AddJob("not a cron expression", NewFuncJob("broken", func() error { return nil }))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestSchedulerRunsJobs(t *testing.T) {
	ran := make(chan struct{}, 1)
	job := NewFuncJob("tick", func() error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s := New(zerolog.Nop())
	require.NoError(t, s.AddJob("* * * * * *", job))
	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run within 3s")
	}
}

func TestRunNow(t *testing.T) {
	s := New(zerolog.Nop())

	ran := false
	require.NoError(t, s.RunNow(NewFuncJob("immediate", func() error {
		ran = true
		return nil
	})))
	assert.True(t, ran)

	err := s.RunNow(NewFuncJob("failing", func() error { return errors.New("boom") }))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
