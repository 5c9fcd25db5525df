package core

import (
	"fmt"
	"sync"
	"time"
)

// DefaultCategoryCount matches the conventional layout of one Unknown
// category plus three working categories.
const DefaultCategoryCount = 4

// bucket holds the pending chains of one category.
type bucket struct {
	immediate taskChain
	canWait   taskChain
}

// forPriority folds CanWait and SkipAfter16Frames into the same chain;
// the priority stored in the task info is consulted again at dispatch time
// for the aging decision.
func (b *bucket) forPriority(p Priority) *taskChain {
	if p == PriorityImmediate {
		return &b.immediate
	}
	return &b.canWait
}

func (b *bucket) pending() int {
	return b.immediate.size + b.canWait.size
}

// =============================================================================
// TaskQueue
// =============================================================================

// TaskQueue is a cooperative, frame-budgeted task scheduler. Producers
// submit zero-argument thunks tagged with a TaskInfo; a host frame loop
// calls ExecuteTick once per frame with a global time window, and the queue
// dispatches immediate work unconditionally, deferred work within
// per-category budgets, and leftover work under the window's slack.
//
// All methods must be called from the same goroutine. The queue performs no
// internal locking; cross-goroutine use requires external synchronization.
type TaskQueue struct {
	categories      int
	pool            *taskPool
	buckets         []bucket
	budgets         []time.Duration
	pendingRemovals []TaskInfo
	frame           uint32
	lastIdx         int
	inTick          bool

	clock        Clock
	stats        Stats
	panicHandler PanicHandler
	logger       Logger
	history      dispatchHistory

	// per-tick scratch, reused so steady state stays allocation free
	localBudgets []time.Duration
	doneBase     []int
	doneBonus    []int
	skipped      []int
	pending      []int
}

// NewTaskQueue creates a queue with the given category count and defaults
// for everything else.
func NewTaskQueue(categories int) *TaskQueue {
	return NewTaskQueueWithConfig(categories, DefaultTaskQueueConfig())
}

// NewTaskQueueWithConfig creates a queue with explicit collaborators. A nil
// config or nil fields fall back to defaults.
func NewTaskQueueWithConfig(categories int, config *TaskQueueConfig) *TaskQueue {
	if categories <= 0 {
		panic(fmt.Sprintf("tickq: category count must be positive, got %d", categories))
	}
	if config == nil {
		config = DefaultTaskQueueConfig()
	}

	q := &TaskQueue{
		categories:   categories,
		pool:         newTaskPool(config.PoolSize),
		buckets:      make([]bucket, categories),
		budgets:      make([]time.Duration, categories),
		clock:        config.Clock,
		stats:        config.Stats,
		panicHandler: config.PanicHandler,
		logger:       config.Logger,
		history:      newDispatchHistory(config.HistoryCapacity),
		localBudgets: make([]time.Duration, categories),
		doneBase:     make([]int, categories),
		doneBonus:    make([]int, categories),
		skipped:      make([]int, categories),
		pending:      make([]int, categories),
	}
	for i := range q.buckets {
		q.buckets[i].immediate.init()
		q.buckets[i].canWait.init()
	}

	if q.clock == nil {
		q.clock = NewMonotonicClock()
	}
	if q.stats == nil {
		q.stats = &NilStats{}
	}
	if q.panicHandler == nil {
		q.panicHandler = &DefaultPanicHandler{}
	}
	if q.logger == nil {
		q.logger = NewNoOpLogger()
	}
	return q
}

// NewTaskQueueFromConfig builds a queue from a file Config (see LoadConfig)
// and applies its budgets.
func NewTaskQueueFromConfig(cfg Config) *TaskQueue {
	q := NewTaskQueueWithConfig(cfg.Categories, &TaskQueueConfig{PoolSize: cfg.PoolSize})
	for c, us := range cfg.BudgetsUS {
		if c >= cfg.Categories {
			break
		}
		q.SetBudget(Category(c), time.Duration(us)*time.Microsecond)
	}
	return q
}

// =============================================================================
// Host contract
// =============================================================================

// AddTask submits a task. The info must carry a valid ID and an in-range
// category, and the pool must not be exhausted; violations panic.
func (q *TaskQueue) AddTask(info TaskInfo, fn TaskFunc) {
	if !info.IsValid() {
		panic("tickq: AddTask with invalid TaskInfo")
	}
	q.mustCategory(info.Category)
	if fn == nil {
		panic("tickq: AddTask with nil task func")
	}
	if q.pool.free.size == 0 {
		panic(fmt.Sprintf("tickq: task pool exhausted (%d records in flight)", len(q.pool.nodes)))
	}

	idx := q.pool.free.popFront(q.pool)
	n := q.pool.node(idx)
	n.info = info
	n.sourceFrame = q.frame
	n.run = fn
	q.buckets[info.Category].forPriority(info.Priority).pushBack(q.pool, idx)
}

// Remove posts a cancellation for every pending task matching info's ID.
// It is applied at the start of the next tick, which keeps it safe to call
// from within a task delegate. Removals that match nothing are no-ops.
func (q *TaskQueue) Remove(info TaskInfo) {
	if !info.IsValid() {
		return
	}
	q.pendingRemovals = append(q.pendingRemovals, info)
}

// SetBudget sets the per-tick dispatch allowance for one category. May be
// changed between ticks; negative values clamp to zero.
func (q *TaskQueue) SetBudget(c Category, budget time.Duration) {
	q.mustCategory(c)
	if budget < 0 {
		budget = 0
	}
	q.budgets[c] = budget
}

// Budget returns the configured allowance for one category.
func (q *TaskQueue) Budget(c Category) time.Duration {
	q.mustCategory(c)
	return q.budgets[c]
}

// =============================================================================
// Observers
// =============================================================================

// CategoryCount returns the number of categories the queue was built with.
func (q *TaskQueue) CategoryCount() int {
	return q.categories
}

// Frame returns the current frame counter. It increments once at the end
// of each ExecuteTick.
func (q *TaskQueue) Frame() uint32 {
	return q.frame
}

// FreeSlots returns the number of unused records in the task pool.
func (q *TaskQueue) FreeSlots() int {
	return q.pool.free.size
}

// PendingTasks returns the total number of submitted, not yet dispatched
// tasks across all categories.
func (q *TaskQueue) PendingTasks() int {
	total := 0
	for i := range q.buckets {
		total += q.buckets[i].pending()
	}
	return total
}

// PendingInCategory returns the pending count of one category.
func (q *TaskQueue) PendingInCategory(c Category) int {
	q.mustCategory(c)
	return q.buckets[c].pending()
}

// RecentDispatches returns up to limit dispatch records, newest first.
// Empty unless the queue was configured with a positive HistoryCapacity.
func (q *TaskQueue) RecentDispatches(limit int) []DispatchRecord {
	return q.history.recent(limit)
}

func (q *TaskQueue) mustCategory(c Category) {
	if int(c) >= q.categories {
		panic(fmt.Sprintf("tickq: category %d out of range [0, %d)", c, q.categories))
	}
}

// =============================================================================
// Process-wide default queue
// =============================================================================

var (
	globalMu    sync.Mutex
	globalQueue *TaskQueue
)

// InitGlobalTaskQueue replaces the process-wide default queue. Call before
// the first GetGlobalTaskQueue to control its parameters.
func InitGlobalTaskQueue(categories int, config *TaskQueueConfig) *TaskQueue {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalQueue = NewTaskQueueWithConfig(categories, config)
	return globalQueue
}

// GetGlobalTaskQueue returns the process-wide default queue, creating it
// with DefaultCategoryCount categories on first use. The default queue is a
// convenience; prefer owning a TaskQueue value in the host loop and passing
// it to senders explicitly.
func GetGlobalTaskQueue() *TaskQueue {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalQueue == nil {
		globalQueue = NewTaskQueue(DefaultCategoryCount)
	}
	return globalQueue
}
