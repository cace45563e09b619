package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeJob struct {
	name  string
	runs  atomic.Int32
	block chan struct{}
	err   error
}

func (f *fakeJob) Name() string { return f.name }

func (f *fakeJob) Run(ctx context.Context) error {
	f.runs.Add(1)
	if f.block != nil {
		<-f.block
	}
	return f.err
}

func TestAddJobBlankSpecDisables(t *testing.T) {
	s := NewCronScheduler()
	ok, err := s.AddJob(&fakeJob{name: "gc"}, "  ")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, s.Jobs())
}

func TestAddJobInvalidSpec(t *testing.T) {
	s := NewCronScheduler()
	_, err := s.AddJob(&fakeJob{name: "gc"}, "not a cron")
	require.Error(t, err)
}

func TestAddJobReplacesSameName(t *testing.T) {
	s := NewCronScheduler()
	ok, err := s.AddJob(&fakeJob{name: "gc"}, "30 3 * * *")
	require.NoError(t, err)
	require.True(t, ok)
	_, err = s.AddJob(&fakeJob{name: "gc"}, "0 4 * * *")
	require.NoError(t, err)
	require.Equal(t, []string{"gc"}, s.Jobs())
	require.Len(t, s.cron.Entries(), 1)
}

func TestWrapSkipsOverlappingRun(t *testing.T) {
	s := NewCronScheduler()
	job := &fakeJob{name: "gc", block: make(chan struct{})}
	run := s.wrap(job, "* * * * *")

	done := make(chan struct{})
	go func() {
		run()
		close(done)
	}()
	require.Eventually(t, func() bool { return job.runs.Load() == 1 }, timeout, tick)

	run()
	require.EqualValues(t, 1, job.runs.Load())

	close(job.block)
	<-done
	job.block = nil
	run()
	require.EqualValues(t, 2, job.runs.Load())
}

func TestWrapSwallowsJobError(t *testing.T) {
	s := NewCronScheduler()
	job := &fakeJob{name: "gc", err: errors.New("boom")}
	require.NotPanics(t, s.wrap(job, "* * * * *"))
	require.EqualValues(t, 1, job.runs.Load())
}

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)
