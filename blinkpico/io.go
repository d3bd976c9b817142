//go:build tinygo

package blinkpico

import (
	"machine"
	"time"
)

// Input is a switch pin with pull-up, pressed reads false.
type Input struct {
	pin machine.Pin
}

func (i *Input) GetState() (bool, error) {
	return i.pin.Get(), nil
}

// Output drives an LED wired active HIGH.
type Output struct {
	pin machine.Pin
}

func (o *Output) Set(on bool) error {
	o.pin.Set(on)
	return nil
}

type InputSlice []Input

func (is InputSlice) SetupPins() error {
	for _, in := range is {
		in.pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}

	return nil
}

type OutputSlice []Output

func (os OutputSlice) SetupPins() error {
	for _, out := range os {
		out.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		out.Set(false)
	}

	return nil
}

// Clock counts milliseconds since boot.
type Clock struct {
	start time.Time
}

func NewClock() *Clock {
	return &Clock{start: time.Now()}
}

func (c *Clock) NowMillis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}
