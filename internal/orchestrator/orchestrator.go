package orchestrator

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/paddockml/racesim/internal/domain"
	"github.com/paddockml/racesim/internal/engine"
	"github.com/paddockml/racesim/internal/ranker"
	"github.com/paddockml/racesim/internal/variation"
	"github.com/paddockml/racesim/pkg/logger"
)

// DefaultTimeout is the wall-clock budget applied when Submit is not given
// one explicitly (spec §4.8.5).
const DefaultTimeout = 60 * time.Second

// state is the orchestrator's own idle/running state, distinct from the
// per-run domain.RunStatus (spec §4.8: "States: idle -> running ->
// {completed|cancelled|failed} -> idle").
type state int

const (
	stateIdle state = iota
	stateRunning
)

// Orchestrator drives the Simulator Engine off the caller's goroutine,
// streams progress, and retains run history. It holds no UI or transport
// dependency: callers (HTTP handlers, WebSocket hubs, tests) observe it
// through Progress/CurrentRun/History.
type Orchestrator struct {
	mu       sync.Mutex
	state    state
	current  *domain.SimulationRun
	progress *int
	hist     history
	cancel   chan struct{}

	executor Executor
	timeout  time.Duration
	logger   *logrus.Logger
	onUpdate func(run domain.SimulationRun, progress int)
}

// Option configures an Orchestrator at construction time.
type Option func(*Orchestrator)

// WithExecutor overrides the default GoroutineExecutor.
func WithExecutor(e Executor) Option {
	return func(o *Orchestrator) { o.executor = e }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithLogger attaches a structured logger; a discard logger is used if
// none is provided.
func WithLogger(l *logrus.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithProgressListener registers a callback invoked on every progress tick
// and terminal transition, with a copy of the run as currently known. It is
// the hook transport adapters (wshub, metrics) attach to rather than
// polling Progress/CurrentRun (spec §6: "implementations may use callbacks,
// streams, or a reactive store").
func WithProgressListener(fn func(run domain.SimulationRun, progress int)) Option {
	return func(o *Orchestrator) { o.onUpdate = fn }
}

func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		executor: GoroutineExecutor{},
		timeout:  DefaultTimeout,
		logger:   logrus.New(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit sanitises context, applies enabled variation factors, and hands
// the simulation to the background executor. Submitting while a run is
// already in flight is a no-op returning the busy error (spec §4.8:
// "Re-entry is forbidden").
func (o *Orchestrator) Submit(
	drivers []domain.DriverMetrics,
	raceCtx domain.RaceContext,
	factors []domain.VariationFactor,
) (*domain.SimulationRun, error) {
	o.mu.Lock()
	if o.state == stateRunning {
		o.mu.Unlock()
		return nil, domain.NewValidationError("busy")
	}

	if err := domain.ValidateActiveSet(drivers); err != nil {
		o.mu.Unlock()
		return nil, domain.NewValidationError(err.Error())
	}
	if err := raceCtx.Validate(); err != nil {
		o.mu.Unlock()
		return nil, domain.NewValidationError(err.Error())
	}
	sanitizedCtx := raceCtx.Sanitize()

	adjustedDrivers, adjustedCtx := variation.Apply(drivers, sanitizedCtx, enabledOnly(factors))

	run := &domain.SimulationRun{
		ID:        fmt.Sprintf("run_%d", time.Now().UnixNano()),
		Status:    domain.StatusRunning,
		Context:   adjustedCtx,
		Lineup:    adjustedDrivers,
		Factors:   enabledOnly(factors),
		Seed:      adjustedCtx.Seed,
		StartedAt: time.Now().UTC(),
	}

	o.state = stateRunning
	o.current = run
	progress := 0
	o.progress = &progress
	o.cancel = make(chan struct{})
	cancelCh := o.cancel
	o.mu.Unlock()

	logger.WithRun(o.logger, run.ID).WithField("runs", adjustedCtx.Runs).Info("simulation submitted")

	o.executor.Execute(func() {
		o.execute(run, adjustedDrivers, adjustedCtx, cancelCh)
	})

	return run, nil
}

func enabledOnly(factors []domain.VariationFactor) []domain.VariationFactor {
	var out []domain.VariationFactor
	for _, f := range factors {
		if f.Enabled {
			out = append(out, f)
		}
	}
	return out
}

// execute runs the engine and transitions the orchestrator to a terminal
// state, cooperating with cancellation and timeout per spec §5.
func (o *Orchestrator) execute(run *domain.SimulationRun, drivers []domain.DriverMetrics, ctx domain.RaceContext, cancelCh chan struct{}) {
	done := make(chan struct{})
	var summary *domain.SimulationSummary
	var runErr error

	signals := ranker.Signals{
		OnProgress: func(percent int) {
			o.mu.Lock()
			if o.progress != nil {
				*o.progress = percent
			}
			snapshot := *run
			listener := o.onUpdate
			o.mu.Unlock()
			if listener != nil {
				listener(snapshot, percent)
			}
		},
		ShouldCancel: func() bool {
			select {
			case <-cancelCh:
				return true
			default:
				return false
			}
		},
	}

	go func() {
		summary, runErr = engine.RunEngine(drivers, ctx, signals)
		close(done)
	}()

	timer := time.NewTimer(o.timeout)
	defer timer.Stop()

	select {
	case <-done:
		o.finish(run, summary, runErr)
	case <-timer.C:
		// Go has no mechanism to forcibly kill a goroutine; closing
		// cancelCh makes the engine observe cancellation at its next
		// progress tick (spec §5 suspension points) and exit on its own.
		// The orchestrator transitions to failed immediately rather than
		// waiting for that exit, and the abandoned goroutine's result is
		// discarded when it eventually finishes.
		close(cancelCh)
		o.finishTimeout(run)
	}
}

func (o *Orchestrator) finish(run *domain.SimulationRun, summary *domain.SimulationSummary, runErr error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := time.Now().UTC()
	run.FinishedAt = &now

	switch {
	case runErr == domain.ErrCancelled:
		run.Status = domain.StatusCancelled
	case runErr != nil:
		run.Status = domain.StatusFailed
		run.Message = runErr.Error()
	default:
		run.Status = domain.StatusCompleted
		run.Result = summary
	}

	o.hist.append(*run)
	o.state = stateIdle
	o.current = run
	listener := o.onUpdate
	snapshot := *run

	logger.WithRun(o.logger, run.ID).WithField("status", run.Status).Info("simulation terminal")

	if listener != nil {
		go listener(snapshot, 100)
	}
}

func (o *Orchestrator) finishTimeout(run *domain.SimulationRun) {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Status = domain.StatusFailed
	run.Message = fmt.Sprintf("timeout after %s", o.timeout)

	o.hist.append(*run)
	o.state = stateIdle
	o.current = run
	listener := o.onUpdate
	snapshot := *run

	logger.WithRun(o.logger, run.ID).Warn("simulation timed out")

	if listener != nil {
		go listener(snapshot, 100)
	}
}

// Cancel requests cancellation of the in-flight run, if any. It is a no-op
// if no simulation is running.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != stateRunning || o.cancel == nil {
		return
	}
	select {
	case <-o.cancel:
		// already closed
	default:
		close(o.cancel)
	}
}

// Progress returns the latest observed integer percent complete, or
// (0, false) if no simulation has ever run.
func (o *Orchestrator) Progress() (int, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.progress == nil {
		return 0, false
	}
	return *o.progress, true
}

// CurrentRun returns the most recently submitted run, or nil.
func (o *Orchestrator) CurrentRun() *domain.SimulationRun {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == nil {
		return nil
	}
	cp := *o.current
	return &cp
}

// History returns a snapshot of the bounded run history, most recent last.
func (o *Orchestrator) History() []domain.SimulationRun {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.hist.snapshot()
}

// IsRunning reports whether a simulation is currently in flight.
func (o *Orchestrator) IsRunning() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state == stateRunning
}
