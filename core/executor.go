package core

import (
	"runtime/debug"
	"time"
)

// ExecuteTick runs one scheduling tick within the given global time window.
//
// The tick proceeds in phases:
//
//  1. Deferred removals posted since the previous tick are applied.
//  2. Every category's immediate chain is drained unconditionally; the
//     elapsed time is charged against that category's local budget with one
//     clock read per category.
//  3. Each category's can_wait chain is walked in submission order. Aged
//     SkipAfter16Frames tasks are dropped during the walk whether or not
//     budget remains, so aging makes progress even on fully starved ticks.
//     Other tasks dispatch FIFO while the category has local budget and the
//     whole-tick window has slack; the first task left in place ends
//     dispatching for the category.
//  4. Leftover can_wait work is drained under the remaining window, one
//     category at a time, starting after the category where the previous
//     tick's bonus pass ended.
//  5. Statistics are published and the frame counter advances.
//
// Tasks submitted by a delegate during the tick land at the tail of their
// chains and are not visible until the next tick. Calling ExecuteTick from
// within a delegate panics.
func (q *TaskQueue) ExecuteTick(wholeTickTime time.Duration) {
	if q.inTick {
		panic("tickq: ExecuteTick called reentrantly from a task delegate")
	}
	q.inTick = true
	defer func() { q.inTick = false }()

	tickStart := q.clock.Now()
	now := tickStart

	q.drainRemovals()
	q.resetTickCounters()
	copy(q.localBudgets, q.budgets)

	q.flushImmediate(&now)
	q.runBudgeted(tickStart, wholeTickTime, &now)
	q.runBonus(tickStart, wholeTickTime, &now)

	q.finishTick()
}

// drainRemovals applies every Remove posted since the previous tick.
func (q *TaskQueue) drainRemovals() {
	for _, info := range q.pendingRemovals {
		if int(info.Category) >= q.categories {
			q.logger.Debug("removal for out-of-range category ignored",
				F("id", info.ID), F("category", info.Category))
			continue
		}
		chain := q.buckets[info.Category].forPriority(info.Priority)
		removed := 0
		for it := chain.iter(q.pool); it.node() != nil; {
			if it.node().info.ID == info.ID {
				it.remove()
				removed++
			} else {
				it.advance()
			}
		}
		if removed == 0 {
			q.logger.Debug("removal matched no pending task", F("id", info.ID))
		}
	}
	q.pendingRemovals = q.pendingRemovals[:0]
}

func (q *TaskQueue) resetTickCounters() {
	for i := 0; i < q.categories; i++ {
		q.doneBase[i] = 0
		q.doneBonus[i] = 0
		q.skipped[i] = 0
	}
}

// flushImmediate drains every immediate chain. Immediate tasks are
// unconditional: neither the category budget nor the whole-tick window is
// checked; overruns simply leave less slack for the later phases. Only the
// tasks present at the start of the phase run; reentrant submissions wait
// for the next tick.
func (q *TaskQueue) flushImmediate(now *time.Duration) {
	for c := range q.buckets {
		chain := &q.buckets[c].immediate
		if chain.size == 0 {
			continue
		}
		for remaining := chain.size; remaining > 0; remaining-- {
			idx := chain.popFront(q.pool)
			n := q.pool.node(idx)
			info, fn := n.info, n.run
			q.pool.release(idx)
			q.runTask(info, fn, DispatchImmediate)
			q.doneBase[c]++
		}
		q.charge(now, &q.localBudgets[c])
	}
}

// runBudgeted is the budgeted deferred pass over the can_wait chains.
// The clock is read after every dispatched task.
func (q *TaskQueue) runBudgeted(tickStart, wholeTickTime time.Duration, now *time.Duration) {
	for c := range q.buckets {
		chain := &q.buckets[c].canWait
		canDispatch := true
		limit := chain.size
		for it := chain.iter(q.pool); it.node() != nil && limit > 0; limit-- {
			n := it.node()
			if q.aged(n) {
				q.logger.Debug("dropping aged task",
					F("id", n.info.ID), F("category", n.info.Category))
				it.remove()
				q.skipped[c]++
				continue
			}
			if canDispatch && q.localBudgets[c] > 0 && *now-tickStart < wholeTickTime {
				info, fn := n.info, n.run
				it.remove()
				q.runTask(info, fn, DispatchBudgeted)
				q.doneBase[c]++
				q.charge(now, &q.localBudgets[c])
				continue
			}
			// FIFO: once one task stays queued, no later task may dispatch.
			canDispatch = false
			it.advance()
		}
	}
}

// runBonus spends whatever remains of the whole-tick window on leftover
// can_wait work, rotating the starting category across ticks so every
// category takes a turn as the first recipient of the slack.
func (q *TaskQueue) runBonus(tickStart, wholeTickTime time.Duration, now *time.Duration) {
	base := q.lastIdx
	for offset := 1; offset <= q.categories; offset++ {
		if *now-tickStart >= wholeTickTime {
			return
		}
		idx := (base + offset) % q.categories
		chain := &q.buckets[idx].canWait
		for remaining := chain.size; remaining > 0; remaining-- {
			if *now-tickStart >= wholeTickTime {
				q.lastIdx = idx
				return
			}
			head := chain.popFront(q.pool)
			n := q.pool.node(head)
			info, fn := n.info, n.run
			aged := q.aged(n)
			q.pool.release(head)
			if aged {
				q.skipped[idx]++
				continue
			}
			q.runTask(info, fn, DispatchBonus)
			q.doneBonus[idx]++
			q.touch(now)
		}
		q.lastIdx = idx
	}
}

// finishTick samples pending work, publishes statistics, and advances the
// frame counter.
func (q *TaskQueue) finishTick() {
	for c := range q.buckets {
		q.pending[c] = q.buckets[c].pending()
	}
	q.stats.RecordTick(TickStats{
		Frame:           q.frame,
		DoneBase:        q.doneBase,
		DoneBonus:       q.doneBonus,
		Skipped:         q.skipped,
		Pending:         q.pending,
		RemainingBudget: q.localBudgets,
	})
	q.frame++
}

func (q *TaskQueue) aged(n *taskNode) bool {
	return n.info.Priority == PrioritySkipAfter16Frames &&
		q.frame-n.sourceFrame > SkipFrameHorizon
}

// charge reads the clock and subtracts the delta since the last reading
// from budget. A retrograde reading counts as zero.
func (q *TaskQueue) charge(now *time.Duration, budget *time.Duration) {
	t := q.clock.Now()
	d := t - *now
	if d < 0 {
		d = 0
	}
	*now = t
	*budget -= d
}

// touch refreshes the rolling clock reading without charging any budget.
func (q *TaskQueue) touch(now *time.Duration) {
	if t := q.clock.Now(); t > *now {
		*now = t
	}
}

// runTask dispatches one delegate. The record is already back on the free
// chain, so a panicking delegate cannot corrupt the queue; the panic is
// routed to the configured PanicHandler.
func (q *TaskQueue) runTask(info TaskInfo, fn TaskFunc, phase DispatchPhase) {
	panicked := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicked = true
				q.panicHandler.HandlePanic(info, r, debug.Stack())
			}
		}()
		fn()
	}()
	q.history.add(DispatchRecord{Info: info, Frame: q.frame, Phase: phase, Panicked: panicked})
}
