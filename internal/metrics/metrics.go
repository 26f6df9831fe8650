// Package metrics exposes session totals as Prometheus metrics. There is no
// HTTP listener; the registry is written to a node_exporter textfile when a
// session stops.
package metrics

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vburojevic/slotw/internal/domain"
	"github.com/vburojevic/slotw/internal/tailer"
)

// Recorder counts events and tailer activity in a private registry
type Recorder struct {
	registry *prometheus.Registry

	spent     prometheus.Counter
	gained    prometheus.Counter
	spins     prometheus.Counter
	roleHits  *prometheus.CounterVec
	events    *prometheus.CounterVec
	rotations prometheus.Gauge
	bytesRead prometheus.Gauge
}

// NewRecorder creates a recorder. constLabels (e.g. slot) are attached to
// every series.
func NewRecorder(constLabels prometheus.Labels) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		spent: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "slotw_spent_yen_total",
			Help:        "Yen paid into the slot",
			ConstLabels: constLabels,
		}),
		gained: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "slotw_gained_yen_total",
			Help:        "Yen paid out by the slot",
			ConstLabels: constLabels,
		}),
		spins: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "slotw_spins_total",
			Help:        "Spins observed (payments and losses)",
			ConstLabels: constLabels,
		}),
		roleHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slotw_role_hits_total",
			Help:        "Winning roles by name",
			ConstLabels: constLabels,
		}, []string{"role"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slotw_events_total",
			Help:        "Classified chat lines by kind",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		rotations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "slotw_tail_rotations",
			Help:        "Log rotations seen by the tailer this session",
			ConstLabels: constLabels,
		}),
		bytesRead: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "slotw_tail_bytes_read",
			Help:        "Bytes read from the chat log this session",
			ConstLabels: constLabels,
		}),
	}
	r.registry.MustRegister(r.spent, r.gained, r.spins, r.roleHits, r.events, r.rotations, r.bytesRead)
	return r
}

// HandleEvent updates counters for one event
func (r *Recorder) HandleEvent(ev domain.LogEvent) {
	r.events.WithLabelValues(string(ev.Kind)).Inc()
	switch ev.Kind {
	case domain.KindPayment:
		r.spent.Add(float64(ev.Amount))
	case domain.KindGain:
		r.gained.Add(float64(ev.Amount))
	case domain.KindRoleHit:
		// Label values must be valid UTF-8 or client_golang panics.
		r.roleHits.WithLabelValues(strings.ToValidUTF8(ev.Role, "\uFFFD")).Inc()
	}
	if ev.Kind.CountsAsSpin() {
		r.spins.Inc()
	}
}

// ObserveTailer copies tailer counters into gauges. Its signature matches
// tailer.Poller.AfterTick.
func (r *Recorder) ObserveTailer(_ tailer.State, stats tailer.Stats) {
	r.rotations.Set(float64(stats.Rotations))
	r.bytesRead.Set(float64(stats.BytesRead))
}

// Registry returns the backing registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the registry in text exposition format, atomically
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
