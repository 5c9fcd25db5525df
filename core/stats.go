package core

import (
	"fmt"
	"io"
	"os"
	"time"
)

// =============================================================================
// Stats: per-tick observability
// =============================================================================

// TickStats summarizes one ExecuteTick. Every slice is indexed by category
// and holds this tick's values only, not running totals. The slices are
// scratch buffers owned by the queue and are valid only for the duration of
// the RecordTick call; implementations that retain them must copy.
type TickStats struct {
	// Frame is the frame counter value of the tick being reported.
	Frame uint32

	// DoneBase counts tasks dispatched during the immediate flush and the
	// budgeted deferred pass.
	DoneBase []int

	// DoneBonus counts tasks dispatched during the round-robin bonus pass.
	DoneBonus []int

	// Skipped counts aged SkipAfter16Frames tasks dropped without dispatch.
	Skipped []int

	// Pending counts tasks still queued at the end of the tick.
	Pending []int

	// RemainingBudget is the leftover local budget per category. Negative
	// values mean the category overran its allowance.
	RemainingBudget []time.Duration
}

// Stats receives one record per tick. Implementations should be fast and
// non-blocking; they run inline at the end of every tick.
type Stats interface {
	RecordTick(stats TickStats)
}

// NilStats discards all records. It is the default, so an unconfigured
// queue spends nothing on statistics.
type NilStats struct{}

func (s *NilStats) RecordTick(stats TickStats) {}

// =============================================================================
// TableStats: one table per tick on a diagnostics stream
// =============================================================================

// TableStats prints one table per tick. Useful while tuning budgets; not
// meant for production frame loops.
type TableStats struct {
	w io.Writer
}

// NewTableStats creates a TableStats writing to w; nil means stderr.
func NewTableStats(w io.Writer) *TableStats {
	if w == nil {
		w = os.Stderr
	}
	return &TableStats{w: w}
}

func (s *TableStats) RecordTick(stats TickStats) {
	fmt.Fprintf(s.w, "frame %d\n", stats.Frame)
	fmt.Fprintf(s.w, "  %-8s %10s %11s %8s %8s %14s\n",
		"category", "done_base", "done_bonus", "skipped", "pending", "remaining_us")
	for c := range stats.DoneBase {
		fmt.Fprintf(s.w, "  %-8d %10d %11d %8d %8d %14d\n",
			c, stats.DoneBase[c], stats.DoneBonus[c], stats.Skipped[c],
			stats.Pending[c], stats.RemainingBudget[c].Microseconds())
	}
}
