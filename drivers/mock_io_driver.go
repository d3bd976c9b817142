package drivers

import (
	"context"
	"fmt"
	"io"
	"sync"
)

const mockDriverName = "mock_driver"

type MockOutput struct {
	state            bool
	pin              uint16
	writeTo          io.Writer
	writeStateChange bool
	lock             *sync.Mutex
}

func (mo *MockOutput) GetState() (bool, error) {
	mo.lock.Lock()
	defer mo.lock.Unlock()
	return mo.state, nil
}

func (mo *MockOutput) Set(state bool) error {
	mo.lock.Lock()
	defer mo.lock.Unlock()
	if mo.writeStateChange && state != mo.state {
		fmt.Fprintf(mo.writeTo, "[pin %d] state changed to %v\n", mo.pin, state)
	}
	mo.state = state
	return nil
}

// MockInput starts HIGH, which is a released switch.
type MockInput struct {
	State bool
	pin   uint16
	lock  *sync.Mutex
}

func (mi *MockInput) GetState() (bool, error) {
	mi.lock.Lock()
	defer mi.lock.Unlock()
	return mi.State, nil
}

type MockIoDriver struct {
	inputs  []*MockInput
	outputs []*MockOutput
	ready   bool
	lock    sync.Mutex
}

func (md *MockIoDriver) Setup(ctx context.Context, inputs []uint16, outputs []uint16) error {
	for _, inPin := range inputs {
		md.inputs = append(md.inputs, &MockInput{pin: inPin, State: true, lock: &md.lock})
	}
	for _, outPin := range outputs {
		md.outputs = append(md.outputs, &MockOutput{pin: outPin, lock: &md.lock})
	}
	md.ready = true
	return nil
}

func (md *MockIoDriver) Close() error {
	for _, out := range md.outputs {
		out.Set(false)
	}
	md.ready = false
	return nil
}

func (md *MockIoDriver) String() string {
	return mockDriverName
}

func (md *MockIoDriver) IsReady() bool {
	return md.ready
}

func (md *MockIoDriver) GetInput(pin uint16) (DigitalInput, error) {
	for _, input := range md.inputs {
		if pin == input.pin {
			return input, nil
		}
	}
	return nil, fmt.Errorf("mock input %d not found", pin)
}

func (md *MockIoDriver) GetOutput(pin uint16) (DigitalOutput, error) {
	for _, output := range md.outputs {
		if pin == output.pin {
			return output, nil
		}
	}
	return nil, fmt.Errorf("mock output %d not found", pin)
}

func (md *MockIoDriver) GetAllIo() (inputs []uint16, outputs []uint16) {
	for _, input := range md.inputs {
		inputs = append(inputs, input.pin)
	}
	for _, output := range md.outputs {
		outputs = append(outputs, output.pin)
	}
	return
}

// SetInput sets the level of an input pin, false pulls it LOW like a pressed switch.
func (md *MockIoDriver) SetInput(pin uint16, state bool) error {
	for _, input := range md.inputs {
		if pin == input.pin {
			md.lock.Lock()
			input.State = state
			md.lock.Unlock()
			return nil
		}
	}
	return fmt.Errorf("mock input %d not found", pin)
}

func (md *MockIoDriver) MonitorStateChanges(writer io.Writer) {
	md.lock.Lock()
	defer md.lock.Unlock()
	for _, out := range md.outputs {
		out.writeTo = writer
		out.writeStateChange = true
	}
}
