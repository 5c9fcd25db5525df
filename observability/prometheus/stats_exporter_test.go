package prometheus

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/mizuki-h/go-tickq/core"
)

func sampleTickStats() core.TickStats {
	return core.TickStats{
		Frame:           41,
		DoneBase:        []int{3, 0},
		DoneBonus:       []int{1, 2},
		Skipped:         []int{0, 4},
		Pending:         []int{7, 1},
		RemainingBudget: []time.Duration{250 * time.Microsecond, -50 * time.Microsecond},
	}
}

func TestStatsExporter_RecordTick(t *testing.T) {
	reg := prom.NewRegistry()
	exporter, err := NewStatsExporter("tickq", reg)
	if err != nil {
		t.Fatalf("NewStatsExporter failed: %v", err)
	}

	exporter.RecordTick(sampleTickStats())

	if got := testutil.ToFloat64(exporter.doneBaseTotal.WithLabelValues("0")); got != 3 {
		t.Errorf("done base total (category 0): got = %v, want 3", got)
	}
	if got := testutil.ToFloat64(exporter.doneBonusTotal.WithLabelValues("1")); got != 2 {
		t.Errorf("done bonus total (category 1): got = %v, want 2", got)
	}
	if got := testutil.ToFloat64(exporter.skippedTotal.WithLabelValues("1")); got != 4 {
		t.Errorf("skipped total (category 1): got = %v, want 4", got)
	}
	if got := testutil.ToFloat64(exporter.pendingTasks.WithLabelValues("0")); got != 7 {
		t.Errorf("pending gauge (category 0): got = %v, want 7", got)
	}
	if got := testutil.ToFloat64(exporter.budgetRemaining.WithLabelValues("1")); got != -50 {
		t.Errorf("budget remaining gauge (category 1): got = %v, want -50", got)
	}

	frame, err := gaugeValue(exporter.frame)
	if err != nil {
		t.Fatalf("gaugeValue failed: %v", err)
	}
	if frame != 41 {
		t.Errorf("frame gauge: got = %v, want 41", frame)
	}
}

func TestStatsExporter_CountersAccumulateAcrossTicks(t *testing.T) {
	reg := prom.NewRegistry()
	exporter, err := NewStatsExporter("tickq", reg)
	if err != nil {
		t.Fatalf("NewStatsExporter failed: %v", err)
	}

	exporter.RecordTick(sampleTickStats())
	exporter.RecordTick(sampleTickStats())

	if got := testutil.ToFloat64(exporter.doneBaseTotal.WithLabelValues("0")); got != 6 {
		t.Errorf("done base total after two ticks: got = %v, want 6", got)
	}
	// gauges track the last tick, not a sum
	if got := testutil.ToFloat64(exporter.pendingTasks.WithLabelValues("0")); got != 7 {
		t.Errorf("pending gauge after two ticks: got = %v, want 7", got)
	}
}

func TestStatsExporter_AlreadyRegisteredReuse(t *testing.T) {
	reg := prom.NewRegistry()
	first, err := NewStatsExporter("tickq", reg)
	if err != nil {
		t.Fatalf("first NewStatsExporter failed: %v", err)
	}
	second, err := NewStatsExporter("tickq", reg)
	if err != nil {
		t.Fatalf("second NewStatsExporter failed: %v", err)
	}

	first.RecordTick(sampleTickStats())
	second.RecordTick(sampleTickStats())

	got := testutil.ToFloat64(first.doneBaseTotal.WithLabelValues("0"))
	if got != 6 {
		t.Fatalf("shared counter: got = %v, want 6", got)
	}
}

func gaugeValue(g prom.Gauge) (float64, error) {
	msg := &dto.Metric{}
	if err := g.Write(msg); err != nil {
		return 0, err
	}
	return msg.Gauge.GetValue(), nil
}
