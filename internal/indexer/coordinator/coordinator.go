// Package coordinator is the optional leader-election layer for
// running more than one indexer process against the same queue
// directories without double-processing files. Disabled by default
// (INDEXER_CLUSTER_MODE=false); when enabled, exactly one process
// holds the lease and runs the control loop + flusher, the rest poll
// and stand by. Grounded on the teacher's driven.DistributedLock
// adapters (Redis-preferred, Postgres-advisory-lock fallback — the
// same fallback shape main.go uses for its session store).
package coordinator

import (
	"context"
	"log/slog"
	"time"

	"github.com/lumensearch/search-core/internal/core/ports/driven"
)

const (
	defaultLockName    = "indexer-leader"
	defaultLeaseTTL    = 30 * time.Second
	defaultRenewPeriod = 10 * time.Second
)

// Config tunes the Coordinator.
type Config struct {
	Lock        driven.DistributedLock
	LockName    string
	LeaseTTL    time.Duration
	RenewPeriod time.Duration
	Logger      *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.LockName == "" {
		c.LockName = defaultLockName
	}
	if c.LeaseTTL <= 0 {
		c.LeaseTTL = defaultLeaseTTL
	}
	if c.RenewPeriod <= 0 {
		c.RenewPeriod = defaultRenewPeriod
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Coordinator runs fn repeatedly whenever this process holds the
// leader lease, and stands by (retrying acquisition) otherwise. If cfg
// has no Lock configured, RunAsLeader treats this process as the sole
// leader — the single-process default (cluster mode disabled).
type Coordinator struct {
	cfg     Config
	leading bool
}

// New builds a Coordinator. Passing a nil Lock means single-process
// mode: RunAsLeader calls fn immediately with no lease tracking.
func New(cfg Config) *Coordinator {
	return &Coordinator{cfg: cfg.withDefaults()}
}

// RunAsLeader blocks until ctx is cancelled. While this process holds
// the lease, fn runs (once, until it returns — callers own their own
// long-running loop inside fn). When the lease is lost or fn returns,
// RunAsLeader releases the lock and tries to reacquire it at once,
// waiting RenewPeriod between attempts only while acquisition fails
// or another holder has the lease.
func (c *Coordinator) RunAsLeader(ctx context.Context, fn func(context.Context)) {
	if c.cfg.Lock == nil {
		fn(ctx)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		acquired, err := c.cfg.Lock.Acquire(ctx, c.cfg.LockName, c.cfg.LeaseTTL)
		if err != nil {
			c.cfg.Logger.Warn("leader lock acquisition failed, retrying", "error", err)
			c.sleep(ctx, c.cfg.RenewPeriod)
			continue
		}
		if !acquired {
			c.sleep(ctx, c.cfg.RenewPeriod)
			continue
		}

		c.cfg.Logger.Info("acquired indexer leader lease", "lock", c.cfg.LockName)
		c.leading = true
		c.runWithRenewal(ctx, fn)
		c.leading = false
		_ = c.cfg.Lock.Release(context.Background(), c.cfg.LockName)
		c.cfg.Logger.Info("released indexer leader lease", "lock", c.cfg.LockName)
	}
}

// IsLeading reports whether this process currently believes it holds
// the lease. Best-effort; a concurrent lease loss is only observed on
// the next renewal tick.
func (c *Coordinator) IsLeading() bool {
	return c.leading
}

func (c *Coordinator) runWithRenewal(ctx context.Context, fn func(context.Context)) {
	leaderCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	renewTicker := time.NewTicker(c.cfg.RenewPeriod)
	defer renewTicker.Stop()

	done := make(chan struct{})
	go func() {
		fn(leaderCtx)
		close(done)
	}()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			<-done
			return
		case <-renewTicker.C:
			if err := c.cfg.Lock.Extend(ctx, c.cfg.LockName, c.cfg.LeaseTTL); err != nil {
				c.cfg.Logger.Warn("failed to renew leader lease, stepping down", "error", err)
				cancel()
				<-done
				return
			}
		}
	}
}

func (c *Coordinator) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
