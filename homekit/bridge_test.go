package homekit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hubertat/swblink/blink"
)

var ledNames = []string{"red", "green", "blue", "white", "amber"}

func TestSetupValidation(t *testing.T) {
	br := &Bridge{Pin: "1234"}
	if err := br.Setup(ledNames, "test"); err == nil {
		t.Error("expected error for short pin")
	}

	br = &Bridge{Pin: "12344321"}
	if err := br.Setup(ledNames[:3], "test"); err == nil {
		t.Error("expected error for three led names")
	}
}

func TestStateChangedMirrorsLeds(t *testing.T) {
	br := &Bridge{Pin: "12344321"}
	if err := br.Setup(ledNames, "test"); err != nil {
		t.Fatal(err)
	}

	br.StateChanged(blink.Mode4, blink.LedStates{true, true, true, true, true})
	br.StateChanged(blink.Mode2, blink.LedStates{false, true})

	want := []bool{false, true, false, false, false}
	for i, lb := range br.lights {
		if got := lb.Lightbulb.On.Value(); got != want[i] {
			t.Errorf("light %d got %v want %v", i, got, want[i])
		}
	}
}

func TestUniqueIds(t *testing.T) {
	br := &Bridge{Pin: "12344321"}
	if err := br.Setup(ledNames, "test"); err != nil {
		t.Fatal(err)
	}

	seen := map[uint64]bool{}
	for _, lb := range br.lights {
		if seen[lb.Id] {
			t.Errorf("duplicate accessory id %d", lb.Id)
		}
		seen[lb.Id] = true
	}
}

func TestRemoteWriteRejected(t *testing.T) {
	br := &Bridge{Pin: "12344321"}
	if err := br.Setup(ledNames, "test"); err != nil {
		t.Fatal(err)
	}
	br.StateChanged(blink.Mode1, blink.LedStates{false, true})

	req := httptest.NewRequest(http.MethodPut, "/characteristics", nil)
	for i, want := range []bool{false, true} {
		on := br.lights[i].Lightbulb.On
		_, code := on.SetValueRequest(!want, req)
		if code != -70404 {
			t.Errorf("light %d got status %d want -70404", i, code)
		}
		if got := on.Value(); got != want {
			t.Errorf("light %d got %v want %v", i, got, want)
		}
	}
}
