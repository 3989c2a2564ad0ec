// Package server runs the combat server's long-lived components and tears
// them down in reverse registration order.
package server

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service is a component whose Start blocks until Stop is called or it fails.
type Service interface {
	Start() error
	Stop()
}

// FuncService builds a Service from two closures.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

func (f *FuncService) Start() error { return f.StartFn() }

func (f *FuncService) Stop() { f.StopFn() }

// StopWithin runs graceful and falls back to force when graceful has not
// returned after timeout. It reports whether the graceful path finished.
//
// Precondition: graceful and force are non-nil; timeout > 0.
func StopWithin(timeout time.Duration, graceful, force func()) bool {
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		graceful()
	}()

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-finished:
		return true
	case <-t.C:
		force()
		<-finished
		return false
	}
}

type component struct {
	name string
	svc  Service
}

// Lifecycle owns a set of named services.
type Lifecycle struct {
	logger *zap.Logger

	mu         sync.Mutex
	components []component
}

// NewLifecycle creates an empty Lifecycle.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger.Named("lifecycle")}
}

// Add registers svc under name. Services added after Run has begun are
// ignored by that run.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	l.components = append(l.components, component{name: name, svc: svc})
	l.mu.Unlock()
}

func (l *Lifecycle) snapshot() []component {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]component(nil), l.components...)
}

// Run starts every registered service and waits for ctx to end, for SIGINT
// or SIGTERM, or for the first service to fail.
//
// Postcondition: every service has been stopped, last added first. The
// returned error is the first failure wrapped with the service name, or nil.
func (l *Lifecycle) Run(ctx context.Context) error {
	began := time.Now()
	ctx, cancelSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancelSignals()

	comps := l.snapshot()
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range comps {
		g.Go(func() error { return l.serve(c) })
	}
	l.logger.Info("services running", zap.Int("count", len(comps)))

	<-gctx.Done()
	l.logger.Info("stopping services", zap.NamedError("cause", context.Cause(gctx)))
	for i := len(comps) - 1; i >= 0; i-- {
		l.halt(comps[i])
	}

	err := g.Wait()
	l.logger.Info("lifecycle finished", zap.Duration("uptime", time.Since(began)), zap.Error(err))
	return err
}

func (l *Lifecycle) serve(c component) error {
	l.logger.Debug("service starting", zap.String("service", c.name))
	up := time.Now()
	if err := c.svc.Start(); err != nil {
		l.logger.Error("service exited with error",
			zap.String("service", c.name),
			zap.Duration("ran", time.Since(up)),
			zap.Error(err),
		)
		return fmt.Errorf("service %s: %w", c.name, err)
	}
	return nil
}

func (l *Lifecycle) halt(c component) {
	t0 := time.Now()
	c.svc.Stop()
	l.logger.Info("service stopped",
		zap.String("service", c.name),
		zap.Duration("took", time.Since(t0)),
	)
}
