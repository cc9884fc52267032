// Package pip coordinates a single picture-in-picture session: one-time
// configuration, then any number of start/stop cycles over one presentation
// resource.
package pip

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/arnavsurve/pipctl/internal/capability"
	"github.com/arnavsurve/pipctl/internal/monitoring"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Checker reports device capability. *capability.Detector implements it.
type Checker interface {
	CheckSupport(ctx context.Context) capability.SupportResult
}

// Resource is the native handle binding a video surface to the platform's
// picture-in-picture presentation.
type Resource interface {
	Enable(ctx context.Context) error
	Disable(ctx context.Context) error
	Release(ctx context.Context) error
}

// Platform acquires presentation resources. An implementation may return a
// non-nil Resource alongside an error when acquisition fails partway; the
// Coordinator releases it.
type Platform interface {
	Acquire(ctx context.Context) (Resource, error)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithMetrics(m *monitoring.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithConfigureTimeout bounds resource acquisition. Zero means no bound.
func WithConfigureTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.configureTimeout = d }
}

func WithSessionID(id string) Option {
	return func(c *Coordinator) { c.id = id }
}

// Coordinator owns the session state machine and the one presentation
// resource. A resource is held iff the state is StateReady or StateActive.
type Coordinator struct {
	id               string
	checker          Checker
	platform         Platform
	logger           *zap.Logger
	metrics          *monitoring.Metrics
	configureTimeout time.Duration

	configuring singleflight.Group

	mu       sync.Mutex
	state    State
	failure  error
	resource Resource
	attempt  chan struct{} // closed when the running configure settles
}

func New(checker Checker, platform Platform, opts ...Option) *Coordinator {
	c := &Coordinator{
		checker:  checker,
		platform: platform,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	c.logger = c.logger.Named("pip").With(zap.String("session", c.id))
	c.metrics.SetState(c.state.String(), stateNames())
	return c
}

// ID identifies this session in logs.
func (c *Coordinator) ID() string { return c.id }

func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{State: c.state, Err: c.failure}
}

// Configure acquires the presentation resource. It is a no-op once the
// session is ready or active. Concurrent calls share one in-flight attempt;
// a caller whose ctx ends stops waiting but does not cancel the attempt.
func (c *Coordinator) Configure(ctx context.Context) error {
	c.mu.Lock()
	if c.state.holdsResource() {
		c.mu.Unlock()
		c.metrics.RecordOperation("configure", monitoring.ResultNoop)
		return nil
	}
	c.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	ch := c.configuring.DoChan("configure", func() (any, error) {
		return nil, c.configure(detached)
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

func (c *Coordinator) configure(ctx context.Context) (err error) {
	c.mu.Lock()
	if c.state.holdsResource() {
		c.mu.Unlock()
		c.metrics.RecordOperation("configure", monitoring.ResultNoop)
		return nil
	}
	c.transition(StateConfiguring, nil)
	done := make(chan struct{})
	c.attempt = done
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.attempt = nil
		c.mu.Unlock()
		close(done)
	}()

	defer func() {
		if err != nil {
			c.metrics.RecordOperation("configure", monitoring.ResultError)
		} else {
			c.metrics.RecordOperation("configure", monitoring.ResultOK)
		}
	}()

	var support capability.SupportResult
	if c.checker != nil {
		support = c.checker.CheckSupport(ctx)
	}
	if !support.IsSupported {
		c.fail(ErrNotSupported)
		return ErrNotSupported
	}

	if c.platform == nil {
		cfgErr := &ConfigurationError{Err: errors.New("no presentation platform")}
		c.fail(cfgErr)
		return cfgErr
	}

	acquireCtx := ctx
	if c.configureTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, c.configureTimeout)
		defer cancel()
	}

	c.metrics.RecordAcquisition()
	res, err := c.platform.Acquire(acquireCtx)
	if err == nil && res == nil {
		err = errors.New("platform returned no presentation resource")
	}
	if err != nil {
		if res != nil {
			if rerr := res.Release(ctx); rerr != nil {
				c.logger.Warn("release partially acquired resource", zap.Error(rerr))
			}
		}
		cfgErr := &ConfigurationError{Err: err}
		c.fail(cfgErr)
		return cfgErr
	}

	c.logger.Info("presentation resource bound", zap.Any("resource", res))

	c.mu.Lock()
	c.resource = res
	c.transition(StateReady, nil)
	c.mu.Unlock()

	return nil
}

// Start enables on-screen picture-in-picture. It requires a configured
// session and is a no-op while already active.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateActive:
		c.metrics.RecordOperation("start", monitoring.ResultNoop)
		return nil
	case StateReady:
	case StateConfiguring:
		c.metrics.RecordOperation("start", monitoring.ResultError)
		return ErrConfiguring
	default:
		c.metrics.RecordOperation("start", monitoring.ResultError)
		return ErrNotConfigured
	}

	if err := c.resource.Enable(ctx); err != nil {
		c.metrics.RecordOperation("start", monitoring.ResultError)
		c.logger.Warn("enable presentation", zap.Error(err))
		return fmt.Errorf("failed to start PiP: %w", err)
	}

	c.transition(StateActive, nil)
	c.metrics.RecordOperation("start", monitoring.ResultOK)
	return nil
}

// Stop disables an active presentation and keeps the resource bound. It is
// total: in any other state it does nothing, and platform errors are logged
// and swallowed.
func (c *Coordinator) Stop(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateActive {
		c.metrics.RecordOperation("stop", monitoring.ResultNoop)
		return
	}

	if err := c.resource.Disable(ctx); err != nil {
		c.logger.Warn("disable presentation", zap.Error(err))
	}

	c.transition(StateReady, nil)
	c.metrics.RecordOperation("stop", monitoring.ResultOK)
}

// Close tears the session down: it waits for an in-flight Configure,
// disables an active presentation, releases the resource and returns the
// session to StateUnconfigured. Close may be called repeatedly.
func (c *Coordinator) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.attempt != nil {
		done := c.attempt
		c.mu.Unlock()
		<-done
		c.mu.Lock()
	}

	res := c.resource
	wasActive := c.state == StateActive
	c.resource = nil
	if c.state != StateUnconfigured {
		c.transition(StateUnconfigured, nil)
	}

	if res == nil {
		return nil
	}

	var errs []error
	if wasActive {
		if err := res.Disable(ctx); err != nil {
			errs = append(errs, fmt.Errorf("disable: %w", err))
		}
	}
	if err := res.Release(ctx); err != nil {
		errs = append(errs, fmt.Errorf("release: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		c.logger.Warn("teardown", zap.Error(err))
		return err
	}
	return nil
}

// fail moves to StateFailed. Only reachable from StateConfiguring, where no
// resource is bound.
func (c *Coordinator) fail(reason error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transition(StateFailed, reason)
}

// transition must be called with mu held.
func (c *Coordinator) transition(to State, reason error) {
	from := c.state
	c.state = to
	c.failure = reason

	fields := []zap.Field{zap.Stringer("from", from), zap.Stringer("state", to)}
	if reason != nil {
		fields = append(fields, zap.Error(reason))
		c.logger.Warn("session transition", fields...)
	} else {
		c.logger.Debug("session transition", fields...)
	}
	c.metrics.SetState(to.String(), stateNames())
}

func stateNames() []string {
	names := make([]string, len(States))
	for i, s := range States {
		names[i] = s.String()
	}
	return names
}
