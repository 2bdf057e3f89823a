package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitAndAwaitSuccess(t *testing.T) {
	runner := NewRunner(2)
	defer runner.StopWait()

	ran := false
	job := runner.Submit("ok", func() error {
		ran = true
		return nil
	})

	require.NoError(t, job.Await(context.Background()))
	assert.True(t, ran)
	assert.True(t, job.Done())
}

func TestAwaitReturnsJobFailureWithName(t *testing.T) {
	runner := NewRunner(1)
	defer runner.StopWait()

	boom := errors.New("boom")
	job := runner.Submit("export", func() error { return boom })

	err := job.Await(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "export")
}

func TestSubmitReturnsBeforeCompletion(t *testing.T) {
	runner := NewRunner(1)
	defer runner.StopWait()

	release := make(chan struct{})
	job := runner.Submit("slow", func() error {
		<-release
		return nil
	})

	assert.False(t, job.Done())
	close(release)
	require.NoError(t, job.Await(context.Background()))
}

func TestAwaitHonorsContextCancellation(t *testing.T) {
	runner := NewRunner(1)

	release := make(chan struct{})
	job := runner.Submit("stuck", func() error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := job.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	runner.StopWait()
}

func TestJobsRunConcurrently(t *testing.T) {
	runner := NewRunner(2)
	defer runner.StopWait()

	first := make(chan struct{})
	second := make(chan struct{})

	a := runner.Submit("a", func() error {
		close(first)
		<-second
		return nil
	})
	b := runner.Submit("b", func() error {
		<-first
		close(second)
		return nil
	})

	require.NoError(t, a.Await(context.Background()))
	require.NoError(t, b.Await(context.Background()))
}
