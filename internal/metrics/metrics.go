package metrics

import (
	"sync/atomic"
)

// Metrics counts what a release run did.
type Metrics struct {
	StepsStarted   uint64 `json:"steps_started"`
	StepsCompleted uint64 `json:"steps_completed"`
	StepsFailed    uint64 `json:"steps_failed"`
	CommandsRun    uint64 `json:"commands_run"`
	CommandsFailed uint64 `json:"commands_failed"`
}

var global = &Metrics{}

// StepStarted increments the count of pipeline steps started.
func StepStarted() { atomic.AddUint64(&global.StepsStarted, 1) }

// StepCompleted increments the count of pipeline steps that succeeded.
func StepCompleted() { atomic.AddUint64(&global.StepsCompleted, 1) }

// StepFailed increments the count of pipeline steps that failed.
func StepFailed() { atomic.AddUint64(&global.StepsFailed, 1) }

// CommandRun increments the count of external commands run.
func CommandRun() { atomic.AddUint64(&global.CommandsRun, 1) }

// CommandFailed increments the count of external commands that failed.
func CommandFailed() { atomic.AddUint64(&global.CommandsFailed, 1) }

// Get returns a snapshot of the current metrics.
func Get() Metrics {
	return Metrics{
		StepsStarted:   atomic.LoadUint64(&global.StepsStarted),
		StepsCompleted: atomic.LoadUint64(&global.StepsCompleted),
		StepsFailed:    atomic.LoadUint64(&global.StepsFailed),
		CommandsRun:    atomic.LoadUint64(&global.CommandsRun),
		CommandsFailed: atomic.LoadUint64(&global.CommandsFailed),
	}
}

// Reset resets all metrics to zero (useful for testing).
func Reset() {
	atomic.StoreUint64(&global.StepsStarted, 0)
	atomic.StoreUint64(&global.StepsCompleted, 0)
	atomic.StoreUint64(&global.StepsFailed, 0)
	atomic.StoreUint64(&global.CommandsRun, 0)
	atomic.StoreUint64(&global.CommandsFailed, 0)
}
