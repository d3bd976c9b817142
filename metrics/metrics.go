package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hubertat/swblink/blink"
)

// Metrics exports controller activity to Prometheus. It is a blink.Observer.
type Metrics struct {
	modeChanges prometheus.Counter
	toggles     *prometheus.CounterVec
	mode        prometheus.Gauge
	ledOn       *prometheus.GaugeVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		modeChanges: factory.NewCounter(prometheus.CounterOpts{
			Name: "swblink_mode_changes_total",
			Help: "Number of switch mode changes",
		}),
		toggles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "swblink_toggles_total",
			Help: "Number of LED bank changes per mode",
		}, []string{"mode"}),
		mode: factory.NewGauge(prometheus.GaugeOpts{
			Name: "swblink_mode",
			Help: "Current mode, 0 when no switch is pressed",
		}),
		ledOn: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "swblink_led_on",
			Help: "LED state, 1 is ON",
		}, []string{"led"}),
	}
}

func (m *Metrics) ModeChanged(from, to blink.Mode) {
	m.modeChanges.Inc()
	m.mode.Set(float64(to))
}

func (m *Metrics) StateChanged(mode blink.Mode, leds blink.LedStates) {
	m.toggles.WithLabelValues(strconv.Itoa(int(mode))).Inc()
	for i, on := range leds {
		value := 0.0
		if on {
			value = 1
		}
		m.ledOn.WithLabelValues(strconv.Itoa(i)).Set(value)
	}
}
