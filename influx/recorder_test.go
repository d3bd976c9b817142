package influx

import (
	"testing"
	"time"

	"github.com/hubertat/swblink/blink"
)

func TestSetupNeedsHostAndBucket(t *testing.T) {
	r := &Recorder{Host: "http://localhost:8086"}
	if err := r.Setup("desk"); err == nil {
		t.Error("expected error without bucket")
	}
	if r.IsReady() {
		t.Error("recorder ready after failed setup")
	}
}

func TestNotReadyIgnoresEvents(t *testing.T) {
	r := &Recorder{}
	r.ModeChanged(blink.ModeIdle, blink.Mode1)
	r.StateChanged(blink.Mode1, blink.LedStates{true})
	if err := r.Close(); err != nil {
		t.Error(err)
	}
}

func TestPoints(t *testing.T) {
	r := &Recorder{Measurement: "blinker", device: "desk"}
	ts := time.Unix(1700000000, 0)

	p := r.ledPoint(blink.Mode2, blink.LedStates{false, true}, ts)
	if p.Name() != "blinker" {
		t.Errorf("got measurement %s", p.Name())
	}
	if !p.Time().Equal(ts) {
		t.Errorf("got time %v", p.Time())
	}
	if len(p.FieldList()) != 6 {
		t.Errorf("got %d fields want 6", len(p.FieldList()))
	}

	tags := p.TagList()
	if len(tags) != 1 || tags[0].Key != "device" || tags[0].Value != "desk" {
		t.Errorf("got tags %v", tags)
	}

	mp := r.modePoint(blink.Mode4, ts)
	if len(mp.FieldList()) != 1 || mp.FieldList()[0].Key != "mode" {
		t.Errorf("got mode point fields %v", mp.FieldList())
	}
}
