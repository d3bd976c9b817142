package blink

import (
	"fmt"
	"io"
	"time"
)

// Input is a switch line. GetState reports the electrical level: true is HIGH,
// false is LOW, and LOW means pressed.
type Input interface {
	GetState() (bool, error)
}

type Output interface {
	Set(bool) error
}

type Clock interface {
	NowMillis() uint32
}

// SystemClock counts milliseconds on the monotonic clock since it was created.
// The counter wraps around after about 49 days, elapsed time math handles that.
type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (sc *SystemClock) NowMillis() uint32 {
	return uint32(time.Since(sc.start).Milliseconds())
}

type Reporter interface {
	WriteLine(line string) error
}

type WriterReporter struct {
	W io.Writer
}

func (wr *WriterReporter) WriteLine(line string) error {
	_, err := fmt.Fprintln(wr.W, line)
	return err
}

// Reporters writes every line to all of its members and returns the first error.
type Reporters []Reporter

func (rs Reporters) WriteLine(line string) (err error) {
	for _, r := range rs {
		if r == nil {
			continue
		}
		rErr := r.WriteLine(line)
		if err == nil {
			err = rErr
		}
	}
	return
}

type Observer interface {
	ModeChanged(from, to Mode)
	StateChanged(mode Mode, leds LedStates)
}

type discardReporter struct{}

func (discardReporter) WriteLine(string) error { return nil }
