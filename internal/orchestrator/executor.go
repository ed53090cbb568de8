// Package orchestrator implements the Simulation Orchestrator (spec §4.8,
// C8): it submits work to a background Executor, streams progress,
// supports cooperative cancellation and wall-clock timeout, and retains a
// bounded run history.
package orchestrator

// Executor runs a task off the caller's goroutine. The default
// GoroutineExecutor satisfies the spec's "off-thread execution" isolation
// guarantee; SyncExecutor runs the task inline and is permitted only in
// tests (spec §9 design note on the executor abstraction).
type Executor interface {
	Execute(task func())
}

// GoroutineExecutor runs each task on its own goroutine.
type GoroutineExecutor struct{}

func (GoroutineExecutor) Execute(task func()) {
	go task()
}

// SyncExecutor runs each task synchronously on the caller's goroutine.
// Intended for tests that need deterministic, blocking submission.
type SyncExecutor struct{}

func (SyncExecutor) Execute(task func()) {
	task()
}
