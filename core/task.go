package core

import "sync/atomic"

// TaskFunc is the unit of work: an opaque zero-argument thunk. Senders bind
// call arguments into the thunk by value at Send time, so a queued task is
// independent of the caller's stack.
type TaskFunc func()

// =============================================================================
// ID: process-wide receiver identity
// =============================================================================

// ID identifies a registered receiver. IDs are issued by a process-wide
// atomic counter and are pairwise distinct for the lifetime of the process.
type ID uint32

// InvalidID is the reserved zero value; no receiver ever carries it.
const InvalidID ID = 0

var idCounter atomic.Uint32

// NewID returns a fresh process-wide unique ID. Safe to call from any
// goroutine, even though the queue itself is single-threaded.
func NewID() ID {
	return ID(idCounter.Add(1))
}

// IsValid reports whether the ID has been issued by NewID.
func (id ID) IsValid() bool {
	return id != InvalidID
}

// =============================================================================
// Category and Priority
// =============================================================================

// Category selects the per-category budget and queues a task belongs to.
// Valid values are [0, N) where N is the category count the queue was
// constructed with.
type Category uint16

// CategoryUnknown is the conventional default category.
const CategoryUnknown Category = 0

// Priority orders dispatch urgency, lowest first.
type Priority uint8

const (
	// PrioritySkipAfter16Frames tasks are deferred and dropped without
	// dispatch once they have waited longer than SkipFrameHorizon frames.
	PrioritySkipAfter16Frames Priority = iota

	// PriorityCanWait tasks are deferred but never dropped; they yield to
	// time pressure and retry on later ticks.
	PriorityCanWait

	// PriorityImmediate tasks are dispatched in the same tick they were
	// submitted, regardless of category budget or tick window.
	PriorityImmediate
)

// SkipFrameHorizon is the age, in frames, past which an undispatched
// PrioritySkipAfter16Frames task is dropped.
const SkipFrameHorizon = 16

func (p Priority) String() string {
	switch p {
	case PrioritySkipAfter16Frames:
		return "skip_after_16_frames"
	case PriorityCanWait:
		return "can_wait"
	case PriorityImmediate:
		return "immediate"
	default:
		return "unknown"
	}
}

// =============================================================================
// TaskInfo: the addressable identity of a logical task
// =============================================================================

// TaskInfo names a logical task: which receiver it belongs to, which
// category budget it consumes, and how urgently it is dispatched. The same
// TaskInfo is shared by every task a sender enqueues, which is what makes
// Remove able to cancel all of a sender's pending work at once.
type TaskInfo struct {
	ID       ID
	Category Category
	Priority Priority
}

// IsValid reports whether the info refers to an issued receiver identity.
func (i TaskInfo) IsValid() bool {
	return i.ID.IsValid()
}
