//go:build tinygo

package blinkpico

import (
	"machine"
)

const (
	picoBlink string = "PicoBlink"
)

// PicoBlink wires switches to GP16-GP19 and LEDs to GP2-GP6.
func PicoBlink() *BlinkPico {
	return &BlinkPico{
		name: picoBlink,

		inputs: []Input{
			{pin: machine.GP16},
			{pin: machine.GP17},
			{pin: machine.GP18},
			{pin: machine.GP19},
		},

		outputs: []Output{
			{pin: machine.GP2},
			{pin: machine.GP3},
			{pin: machine.GP4},
			{pin: machine.GP5},
			{pin: machine.GP6},
		},
	}
}
