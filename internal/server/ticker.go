package server

import (
	"sync"
	"time"
)

// TickerService calls a function on a fixed interval until stopped.
type TickerService struct {
	interval time.Duration
	fn       func(now time.Time)
	done     chan struct{}
	once     sync.Once
}

// NewTickerService returns a Service that calls fn every interval.
//
// Precondition: interval > 0; fn must not be nil.
func NewTickerService(interval time.Duration, fn func(now time.Time)) *TickerService {
	return &TickerService{interval: interval, fn: fn, done: make(chan struct{})}
}

// Start blocks, calling fn on every tick, until Stop is called.
func (s *TickerService) Start() error {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case now := <-t.C:
			s.fn(now)
		case <-s.done:
			return nil
		}
	}
}

// Stop ends Start. Safe to call multiple times.
func (s *TickerService) Stop() {
	s.once.Do(func() { close(s.done) })
}
