package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robinjoseph08/golib/logger"
)

// Sweeper periodically deletes refresh tokens that can no longer be used.
type Sweeper struct {
	authService *Service
	interval    time.Duration
	log         logger.Logger

	started  bool
	shutdown chan struct{}
	done     chan struct{}
}

func NewSweeper(authService *Service, interval time.Duration) *Sweeper {
	return &Sweeper{
		authService: authService,
		interval:    interval,
		log:         logger.New(),

		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	s.started = true
	go s.run()
}

func (s *Sweeper) run() {
	defer close(s.done)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-s.shutdown:
			return
		case <-timer.C:
			s.sweep()
			timer.Reset(s.interval)
		}
	}
}

func (s *Sweeper) sweep() {
	log := s.log.ID(uuid.NewString())
	ctx := log.WithContext(context.Background())

	removed, err := s.authService.SweepExpired(ctx)
	if err != nil {
		log.Err(err).Error("token sweep error")
		return
	}
	if removed > 0 {
		log.Info("swept expired tokens", logger.Data{"removed": removed})
	}
}

// Shutdown stops the loop and waits for an in-flight sweep to finish. It
// returns at once if the sweeper was never started.
func (s *Sweeper) Shutdown() {
	close(s.shutdown)
	if !s.started {
		return
	}
	<-s.done
}
