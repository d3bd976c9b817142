package drivers

import (
	"context"
)

// IoDriver gives access to digital pins of one kind of hardware. Setup must be
// called with every pin used before GetInput/GetOutput.
type IoDriver interface {
	Setup(ctx context.Context, inputs []uint16, outputs []uint16) error
	Close() error
	String() string
	IsReady() bool
	GetInput(pin uint16) (DigitalInput, error)
	GetOutput(pin uint16) (DigitalOutput, error)
	GetAllIo() (inputs []uint16, outputs []uint16)
}

func MapAllIoDrivers() map[string]IoDriver {
	drivers := []IoDriver{
		&GpIO{},
		&McpIO{},
		&MockIoDriver{},
	}

	mapped := make(map[string]IoDriver)
	for _, driver := range drivers {
		mapped[driver.String()] = driver
	}
	return mapped
}

// DigitalInput reports the logic level of a pin after the driver's invert setting.
type DigitalInput interface {
	GetState() (bool, error)
}

type DigitalOutput interface {
	GetState() (bool, error)
	Set(bool) error
}
