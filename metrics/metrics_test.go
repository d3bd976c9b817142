package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hubertat/swblink/blink"
)

func assertFloats(t testing.TB, got, want float64) {
	t.Helper()

	if got != want {
		t.Errorf("got: %f, want: %f", got, want)
	}
}

func TestModeChanged(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ModeChanged(blink.ModeIdle, blink.Mode3)
	m.ModeChanged(blink.Mode3, blink.Mode4)

	assertFloats(t, testutil.ToFloat64(m.modeChanges), 2)
	assertFloats(t, testutil.ToFloat64(m.mode), 4)
}

func TestStateChanged(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.StateChanged(blink.Mode1, blink.LedStates{true})
	m.StateChanged(blink.Mode1, blink.LedStates{})
	m.StateChanged(blink.Mode4, blink.LedStates{true, true, true, true, true})

	assertFloats(t, testutil.ToFloat64(m.toggles.WithLabelValues("1")), 2)
	assertFloats(t, testutil.ToFloat64(m.toggles.WithLabelValues("4")), 1)
	assertFloats(t, testutil.ToFloat64(m.ledOn.WithLabelValues("0")), 1)
	assertFloats(t, testutil.ToFloat64(m.ledOn.WithLabelValues("3")), 1)
}

func TestRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	// vectors without observations are not gathered
	if len(families) != 2 {
		t.Errorf("got %d metric families want 2", len(families))
	}
}
