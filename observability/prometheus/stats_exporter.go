package prometheus

import (
	"errors"
	"fmt"
	"strconv"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/mizuki-h/go-tickq/core"
)

// StatsExporter adapts core.Stats to Prometheus collectors. Counters
// accumulate the per-tick counts the queue reports; gauges track the state
// sampled at the end of the most recent tick.
type StatsExporter struct {
	doneBaseTotal   *prom.CounterVec
	doneBonusTotal  *prom.CounterVec
	skippedTotal    *prom.CounterVec
	pendingTasks    *prom.GaugeVec
	budgetRemaining *prom.GaugeVec
	frame           prom.Gauge
}

var _ core.Stats = (*StatsExporter)(nil)

// NewStatsExporter creates and registers collectors for core.Stats.
func NewStatsExporter(namespace string, reg prom.Registerer) (*StatsExporter, error) {
	if namespace == "" {
		namespace = "tickq"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}

	doneBaseVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_done_base_total",
		Help:      "Tasks dispatched during the immediate flush and the budgeted pass.",
	}, []string{"category"})
	doneBonusVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_done_bonus_total",
		Help:      "Tasks dispatched during the round-robin bonus pass.",
	}, []string{"category"})
	skippedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_skipped_total",
		Help:      "Aged SkipAfter16Frames tasks dropped without dispatch.",
	}, []string{"category"})
	pendingVec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "pending_tasks",
		Help:      "Tasks still queued at the end of the last tick.",
	}, []string{"category"})
	remainingVec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "budget_remaining_microseconds",
		Help:      "Leftover per-category budget after the last tick; negative on overrun.",
	}, []string{"category"})
	frameGauge := prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "frame",
		Help:      "Frame counter of the last completed tick.",
	})

	var err error
	if doneBaseVec, err = registerCollector(reg, doneBaseVec); err != nil {
		return nil, err
	}
	if doneBonusVec, err = registerCollector(reg, doneBonusVec); err != nil {
		return nil, err
	}
	if skippedVec, err = registerCollector(reg, skippedVec); err != nil {
		return nil, err
	}
	if pendingVec, err = registerCollector(reg, pendingVec); err != nil {
		return nil, err
	}
	if remainingVec, err = registerCollector(reg, remainingVec); err != nil {
		return nil, err
	}
	if frameGauge, err = registerCollector(reg, frameGauge); err != nil {
		return nil, err
	}

	return &StatsExporter{
		doneBaseTotal:   doneBaseVec,
		doneBonusTotal:  doneBonusVec,
		skippedTotal:    skippedVec,
		pendingTasks:    pendingVec,
		budgetRemaining: remainingVec,
		frame:           frameGauge,
	}, nil
}

// RecordTick implements core.Stats.
func (e *StatsExporter) RecordTick(stats core.TickStats) {
	if e == nil {
		return
	}
	for c := range stats.DoneBase {
		label := strconv.Itoa(c)
		if n := stats.DoneBase[c]; n > 0 {
			e.doneBaseTotal.WithLabelValues(label).Add(float64(n))
		}
		if n := stats.DoneBonus[c]; n > 0 {
			e.doneBonusTotal.WithLabelValues(label).Add(float64(n))
		}
		if n := stats.Skipped[c]; n > 0 {
			e.skippedTotal.WithLabelValues(label).Add(float64(n))
		}
		e.pendingTasks.WithLabelValues(label).Set(float64(stats.Pending[c]))
		e.budgetRemaining.WithLabelValues(label).Set(float64(stats.RemainingBudget[c].Microseconds()))
	}
	e.frame.Set(float64(stats.Frame))
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
