package pending

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cihwallet/wallet-api/internal/pkg/metrics"
)

// Sweeper discards expired pending operations in the background.
type Sweeper struct {
	store    Repository
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewSweeper(store Repository, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	log.Info().Dur("interval", s.interval).Msg("Starting pending operation sweeper")
	go s.loop()
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	log.Info().Msg("Stopping pending operation sweeper")
	close(s.stopCh)
	<-s.doneCh
}

func (s *Sweeper) loop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce()
		case <-s.stopCh:
			return
		}
	}
}

// SweepOnce runs a single sweep and returns the number of discarded operations.
func (s *Sweeper) SweepOnce() int {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.store.Sweep(ctx, s.now())
	if err != nil {
		log.Error().Err(err).Msg("Failed to sweep pending operations")
		return 0
	}
	if n > 0 {
		metrics.PendingSwept.Add(float64(n))
		log.Info().Int("count", n).Msg("Discarded expired pending operations")
	}
	return n
}
