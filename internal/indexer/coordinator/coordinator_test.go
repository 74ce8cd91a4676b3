package coordinator

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeLock struct {
	mu       sync.Mutex
	held     bool
	acquires int
}

func (f *fakeLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acquires++
	if f.held {
		return false, nil
	}
	f.held = true
	return true, nil
}

func (f *fakeLock) Release(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.held = false
	return nil
}

func (f *fakeLock) Extend(ctx context.Context, name string, ttl time.Duration) error {
	return nil
}

func (f *fakeLock) Ping(ctx context.Context) error { return nil }

func TestRunAsLeaderWithNilLockRunsImmediately(t *testing.T) {
	c := New(Config{})
	ran := make(chan struct{})
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	c.RunAsLeader(ctx, func(ctx context.Context) {
		close(ran)
		<-ctx.Done()
	})
	select {
	case <-ran:
	default:
		t.Fatal("expected fn to run immediately with no lock configured")
	}
}

func TestRunAsLeaderStepsDownWhenCancelled(t *testing.T) {
	lock := &fakeLock{}
	c := New(Config{Lock: lock, RenewPeriod: 20 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		c.RunAsLeader(ctx, func(ctx context.Context) {
			close(started)
			<-ctx.Done()
		})
		close(finished)
	}()

	<-started
	cancel()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("expected RunAsLeader to return after cancellation")
	}
}
