package tickq

import "github.com/mizuki-h/go-tickq/core"

// Re-export commonly used types from the core package for convenience.
// This allows most users to import only the tickq package.

// TaskQueue is the frame-budgeted scheduler.
type TaskQueue = core.TaskQueue

// TaskQueueConfig carries the queue's optional collaborators.
type TaskQueueConfig = core.TaskQueueConfig

// TaskInfo is the addressable identity of a logical task.
type TaskInfo = core.TaskInfo

// TaskFunc is the unit of work (zero-argument thunk).
type TaskFunc = core.TaskFunc

// ID identifies a registered receiver.
type ID = core.ID

// Category selects a per-category budget and queue pair.
type Category = core.Category

// Priority orders dispatch urgency.
type Priority = core.Priority

// TickStats is the per-tick statistics record.
type TickStats = core.TickStats

// Sender dispatches to at most one receiver.
type Sender[T any] = core.Sender[T]

// SenderMultiCast dispatches to any number of receivers.
type SenderMultiCast[T any] = core.SenderMultiCast[T]

// Priority and category constants.
const (
	PrioritySkipAfter16Frames = core.PrioritySkipAfter16Frames
	PriorityCanWait           = core.PriorityCanWait
	PriorityImmediate         = core.PriorityImmediate

	CategoryUnknown = core.CategoryUnknown

	DefaultCategoryCount = core.DefaultCategoryCount
	DefaultPoolSize      = core.DefaultPoolSize
	SkipFrameHorizon     = core.SkipFrameHorizon
)

// Constructors and the process-wide default queue.
var (
	New           = core.NewTaskQueue
	NewWithConfig = core.NewTaskQueueWithConfig
	NewFromConfig = core.NewTaskQueueFromConfig
	DefaultConfig = core.DefaultTaskQueueConfig
	LoadConfig    = core.LoadConfig

	Init = core.InitGlobalTaskQueue
	Get  = core.GetGlobalTaskQueue
)

// NewSender constructs a single-cast sender with CanWait priority.
func NewSender[T any](fn func(T), category Category) Sender[T] {
	return core.NewSender(fn, category)
}

// NewSenderWithPriority constructs a single-cast sender with an explicit
// priority.
func NewSenderWithPriority[T any](fn func(T), category Category, priority Priority) Sender[T] {
	return core.NewSenderWithPriority(fn, category, priority)
}
