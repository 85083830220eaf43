package session

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-vault-keeper/internal/logger"
)

// DefaultSweepInterval is used when a non-positive interval is configured.
const DefaultSweepInterval = time.Minute

// Sweepable is anything holding expiring entries.
type Sweepable interface {
	Sweep(now time.Time) int
}

// Sweeper periodically removes expired entries from a set of stores. It
// implements workers.Worker.
type Sweeper struct {
	targets  []Sweepable
	interval time.Duration
	now      func() time.Time
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSweeper creates an idle sweeper over targets.
func NewSweeper(interval time.Duration, log *logger.Logger, targets ...Sweepable) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		targets:  targets,
		interval: interval,
		now:      time.Now,
		logger:   log.WithComponent("sweeper"),
	}
}

// SweepOnce sweeps every target and returns the total removed.
func (s *Sweeper) SweepOnce() int {
	now := s.now()
	removed := 0
	for _, t := range s.targets {
		removed += t.Sweep(now)
	}
	return removed
}

// Run stops any previous run, then sweeps every interval in a background
// goroutine until ctx is cancelled or Stop is called.
func (s *Sweeper) Run(ctx context.Context) {
	s.Stop()

	s.mu.Lock()
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		t := time.NewTicker(s.interval)
		defer t.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-t.C:
				if n := s.SweepOnce(); n > 0 {
					s.logger.Debug().Int("removed", n).Msg("swept expired sessions")
				}
			}
		}
	}()
}

// Stop cancels the background goroutine and waits for it to exit. Safe to
// call when the sweeper is not running.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}
