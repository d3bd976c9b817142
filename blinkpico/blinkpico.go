//go:build tinygo

package blinkpico

import (
	"errors"

	"github.com/hubertat/swblink/blink"
)

type BlinkPico struct {
	name    string
	inputs  InputSlice
	outputs OutputSlice
}

func (bp *BlinkPico) Setup() error {
	err := bp.inputs.SetupPins()
	if err != nil {
		return errors.Join(err, errors.New("failed to setup input pins"))
	}

	err = bp.outputs.SetupPins()
	if err != nil {
		return errors.Join(err, errors.New("failed to setup output pins"))
	}

	return nil
}

func (bp *BlinkPico) Name() string {
	return bp.name
}

func (bp *BlinkPico) Switches() []blink.Input {
	switches := make([]blink.Input, len(bp.inputs))
	for i := range bp.inputs {
		switches[i] = &bp.inputs[i]
	}
	return switches
}

func (bp *BlinkPico) Leds() []blink.Output {
	leds := make([]blink.Output, len(bp.outputs))
	for i := range bp.outputs {
		leds[i] = &bp.outputs[i]
	}
	return leds
}
