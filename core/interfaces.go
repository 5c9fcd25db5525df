package core

import (
	"fmt"
	"os"
)

// =============================================================================
// PanicHandler: containment for failing task delegates
// =============================================================================

// PanicHandler is called when a task delegate panics. The record is already
// off its chain when the delegate runs, so the queue stays consistent; the
// handler decides what to do with the failure (log it, crash, count it).
type PanicHandler interface {
	// HandlePanic receives the identity of the failed task, the recovered
	// panic value, and the stack trace captured at recovery time.
	HandlePanic(info TaskInfo, panicValue any, stack []byte)
}

// DefaultPanicHandler prints the panic and stack trace to stderr.
type DefaultPanicHandler struct{}

func (h *DefaultPanicHandler) HandlePanic(info TaskInfo, panicValue any, stack []byte) {
	fmt.Fprintf(os.Stderr, "[tickq] task %d (category %d, %s) panicked: %v\n%s",
		info.ID, info.Category, info.Priority, panicValue, stack)
}

// =============================================================================
// TaskQueueConfig: construction-time hooks
// =============================================================================

// TaskQueueConfig carries the optional collaborators of a TaskQueue. Zero
// fields fall back to defaults: a monotonic clock, no stats, no logging,
// stderr panic reporting, a DefaultPoolSize pool, and no dispatch history.
type TaskQueueConfig struct {
	// PoolSize is the fixed task pool capacity. The pool never grows;
	// it bounds the number of submitted-but-undispatched tasks.
	PoolSize int

	// HistoryCapacity enables the dispatch history ring when positive.
	HistoryCapacity int

	Clock        Clock
	Stats        Stats
	PanicHandler PanicHandler
	Logger       Logger
}

// DefaultTaskQueueConfig returns a config with the default pool size and
// no hooks set.
func DefaultTaskQueueConfig() *TaskQueueConfig {
	return &TaskQueueConfig{PoolSize: DefaultPoolSize}
}
