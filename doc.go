// Package tickq provides a cooperative, frame-budgeted task scheduler for
// interactive real-time loops (game ticks, simulation steps, UI redraw
// loops) where a bounded per-frame time window must be shared across many
// short deferred tasks.
//
// # Quick Start
//
// Own a queue in the host loop, give each category a budget, and run one
// tick per frame:
//
//	queue := tickq.New(3)
//	queue.SetBudget(1, 2*time.Millisecond)
//	queue.SetBudget(2, 1*time.Millisecond)
//
//	events := tickq.NewSender(func(e PlayerEvent) {
//		// handle the event
//	}, 1)
//
//	for running {
//		events.Send(queue, nextEvent())
//		queue.ExecuteTick(4 * time.Millisecond)
//	}
//
// # Key Concepts
//
// TaskQueue: the scheduler. Tasks are zero-argument thunks tagged with a
// TaskInfo (receiver ID, category, priority) and stored in a fixed pool;
// no allocation happens per task at steady state.
//
// Priorities: Immediate tasks always dispatch in the tick they were
// submitted. CanWait tasks dispatch within their category's time budget,
// or later under the tick window's leftover slack. SkipAfter16Frames tasks
// behave like CanWait but are dropped once they have waited more than 16
// frames.
//
// Senders: Sender (at most one receiver) and SenderMultiCast (any number)
// bind call arguments by value and enqueue one task per receiver. A
// sender's pending tasks can be cancelled; cancellation applies at the
// start of the next tick.
//
// # Threading
//
// The queue is single-threaded and cooperative: every method must be called
// from the goroutine that runs ExecuteTick. Task delegates run inline; a
// delegate may submit new tasks (they run on a later tick) but must not
// call ExecuteTick.
//
// For per-tick statistics see core.TableStats and the Prometheus exporter
// under observability/prometheus.
package tickq
