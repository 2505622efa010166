package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/photobridge/internal/domain"
)

func waitGroupTimeout(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("tasks did not complete in time")
	}
}

func TestWorkerPool_RunsSubmittedTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wp := NewWorkerPool(3, 8)
	wp.Start(ctx)

	var wg sync.WaitGroup
	var ran atomic.Int32
	for range 20 {
		wg.Add(1)
		wp.Submit(domain.JobTypeUpdate, "asset", func() error {
			defer wg.Done()
			ran.Add(1)
			return nil
		})
	}
	waitGroupTimeout(t, &wg)

	assert.Equal(t, int32(20), ran.Load())
}

func TestWorkerPool_RecordsFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	wp := NewWorkerPool(1, 4)
	wp.Start(ctx)

	var wg sync.WaitGroup
	wg.Add(2)
	failed := wp.Submit(domain.JobTypeDelete, "a", func() error {
		defer wg.Done()
		return errors.New("boom")
	})
	ok := wp.Submit(domain.JobTypeDelete, "b", func() error {
		defer wg.Done()
		return nil
	})
	waitGroupTimeout(t, &wg)

	cancel()
	wp.Wait()

	assert.Equal(t, domain.JobStatusFailed, failed.Status)
	assert.Equal(t, "boom", failed.ErrorMessage)
	assert.Equal(t, domain.JobStatusDone, ok.Status)
	assert.NotEqual(t, failed.ID, ok.ID)

	stats := wp.Stats()
	assert.Equal(t, 1, stats[domain.JobStatusFailed])
	assert.Equal(t, 1, stats[domain.JobStatusDone])
	assert.Equal(t, 0, stats[domain.JobStatusPending])
	assert.Equal(t, 0, stats[domain.JobStatusRunning])
}

func TestWorkerPool_SubmitBeforeStartStillRuns(t *testing.T) {
	wp := NewWorkerPool(1, 1)

	done := make(chan struct{})
	wp.Submit(domain.JobTypeEdition, "x", func() error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("task submitted to a stopped pool never ran")
	}
}

func TestWorkerPool_DrainsQueueOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	wp := NewWorkerPool(1, 16)
	wp.Start(ctx)

	block := make(chan struct{})
	var ran atomic.Int32
	wp.Submit(domain.JobTypeUpdate, "blocker", func() error {
		<-block
		ran.Add(1)
		return nil
	})
	for range 5 {
		wp.Submit(domain.JobTypeUpdate, "queued", func() error {
			ran.Add(1)
			return nil
		})
	}

	cancel()
	close(block)

	stopped := make(chan struct{})
	go func() {
		wp.Wait()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not stop")
	}
	require.Equal(t, int32(6), ran.Load())
}

func TestWorkerPool_WaitCoversOverflowTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	wp := NewWorkerPool(1, 0)
	wp.Start(ctx)

	block := make(chan struct{})
	var ran atomic.Int32
	for range 3 {
		wp.Submit(domain.JobTypeImport, "file", func() error {
			<-block
			ran.Add(1)
			return nil
		})
	}

	cancel()
	stopped := make(chan struct{})
	go func() {
		wp.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("pool stopped with tasks still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(block)
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not stop")
	}
	assert.Equal(t, int32(3), ran.Load())
}
