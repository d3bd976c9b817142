package blink

import "testing"

func TestIntervalsBlink(t *testing.T) {
	tests := []struct {
		mode Mode
		want Blink
	}{
		{ModeIdle, Blink{Kind: BlinkNone}},
		{Mode1, Blink{Kind: BlinkSingle, Index: 0, Interval: 333}},
		{Mode2, Blink{Kind: BlinkSingle, Index: 1, Interval: 167}},
		{Mode3, Blink{Kind: BlinkSingle, Index: 2, Interval: 83}},
		{Mode4, Blink{Kind: BlinkAll, Interval: 500}},
		{Mode(9), Blink{Kind: BlinkNone}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			got := DefaultIntervals.Blink(tt.mode)
			if got != tt.want {
				t.Errorf("got %+v want %+v", got, tt.want)
			}
		})
	}
}

func TestLedStatesString(t *testing.T) {
	got := LedStates{true, false, true, false, false}.String()
	want := "ON OFF ON OFF OFF"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestReportersFanOut(t *testing.T) {
	first := &lineRecorder{}
	second := &lineRecorder{}
	rs := Reporters{first, nil, second}

	if err := rs.WriteLine("hello"); err != nil {
		t.Fatal(err)
	}
	if len(first.lines) != 1 || len(second.lines) != 1 {
		t.Errorf("got %v and %v", first.lines, second.lines)
	}
}
