package drivers

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/racerxdl/go-mcp23017"
)

const mcpioDriverName = "mcpio"

// McpIO drives pins of an MCP23017 expander on an I2C bus. Pins are 0-15.
type McpIO struct {
	device *mcp23017.Device

	inputs  []McpInput
	outputs []McpOutput
	isReady bool

	BusNo         uint8
	DevNo         uint8
	InvertInputs  bool
	InvertOutputs bool
}

type McpInput struct {
	pin    uint8
	invert bool

	device *mcp23017.Device
}

type McpOutput struct {
	pin    uint8
	invert bool

	device *mcp23017.Device
}

func (min *McpInput) GetState() (state bool, err error) {
	rawState, err := min.device.DigitalRead(min.pin)
	if err != nil {
		err = errors.Wrapf(err, "mcp23017 read of pin %d failed", min.pin)
		return
	}

	if min.invert {
		state = !bool(rawState)
	} else {
		state = bool(rawState)
	}
	return
}

func (mout *McpOutput) GetState() (state bool, err error) {
	rawState, err := mout.device.DigitalRead(mout.pin)
	if err != nil {
		err = errors.Wrapf(err, "mcp23017 read of pin %d failed", mout.pin)
		return
	}

	if mout.invert {
		state = !bool(rawState)
	} else {
		state = bool(rawState)
	}
	return
}

func (mout *McpOutput) Set(state bool) (err error) {
	if mout.invert {
		state = !state
	}

	err = mout.device.DigitalWrite(mout.pin, mcp23017.PinLevel(state))
	if err != nil {
		err = errors.Wrapf(err, "mcp23017 write of pin %d failed", mout.pin)
	}

	return
}

func (mcp *McpIO) String() string {
	return mcpioDriverName
}

func (mcp *McpIO) IsReady() bool {
	return mcp.isReady
}

func (mcp *McpIO) Setup(ctx context.Context, inputs []uint16, outputs []uint16) (err error) {
	for _, pins := range [][]uint16{inputs, outputs} {
		for _, pin := range pins {
			if pin > 15 {
				return errors.Errorf("mcpio pin %d out of range (0-15)", pin)
			}
		}
	}

	mcp.device, err = mcp23017.Open(mcp.BusNo, mcp.DevNo)
	if err != nil {
		return errors.Wrapf(err, "failed to open mcp23017 on bus %d, device %d", mcp.BusNo, mcp.DevNo)
	}

	for _, inputPin := range inputs {
		err = mcp.device.PinMode(uint8(inputPin), mcp23017.INPUT)
		if err != nil {
			return errors.Wrapf(err, "failed to set pin %d as input", inputPin)
		}
		err = mcp.device.SetPullUp(uint8(inputPin), true)
		if err != nil {
			return errors.Wrapf(err, "failed to set pull up on pin %d", inputPin)
		}
		mcp.inputs = append(mcp.inputs, McpInput{pin: uint8(inputPin), invert: mcp.InvertInputs, device: mcp.device})
	}

	for _, outputPin := range outputs {
		err = mcp.device.PinMode(uint8(outputPin), mcp23017.OUTPUT)
		if err != nil {
			return errors.Wrapf(err, "failed to set pin %d as output", outputPin)
		}
		mcp.outputs = append(mcp.outputs, McpOutput{pin: uint8(outputPin), invert: mcp.InvertOutputs, device: mcp.device})
	}

	mcp.isReady = true

	return
}

func (mcp *McpIO) GetInput(id uint16) (input DigitalInput, err error) {
	for i := range mcp.inputs {
		if uint16(mcp.inputs[i].pin) == id {
			input = &mcp.inputs[i]
			return
		}
	}

	err = fmt.Errorf("McpIO input (id: %d) not found", id)
	return
}

func (mcp *McpIO) GetOutput(id uint16) (output DigitalOutput, err error) {
	for i := range mcp.outputs {
		if uint16(mcp.outputs[i].pin) == id {
			output = &mcp.outputs[i]
			return
		}
	}

	err = fmt.Errorf("McpIO output (id: %d) not found", id)
	return
}

func (mcp *McpIO) Close() error {
	if mcp.device == nil {
		return nil
	}
	mcp.isReady = false
	for _, output := range mcp.outputs {
		output.Set(false)
	}
	return mcp.device.Close()
}

func (mcp *McpIO) GetAllIo() (inputs []uint16, outputs []uint16) {
	for _, input := range mcp.inputs {
		inputs = append(inputs, uint16(input.pin))
	}

	for _, output := range mcp.outputs {
		outputs = append(outputs, uint16(output.pin))
	}

	return
}
