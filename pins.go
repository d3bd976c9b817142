package swblink

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/hubertat/swblink/drivers"
)

type IO interface {
	Init(driver drivers.IoDriver) error
	GetDriverName() string
}

// Switch is one line of the switch bank. Its position in SwBlink.Switches is its
// priority and its mode number.
type Switch struct {
	Name       string
	DriverName string
	InPin      uint16

	input drivers.DigitalInput
}

func (swb *Switch) GetDriverName() string {
	return swb.DriverName
}

func (swb *Switch) Init(driver drivers.IoDriver) error {
	if !strings.EqualFold(driver.String(), swb.DriverName) {
		return fmt.Errorf("Init failed, mismatched or incorrect driver")
	}

	if !driver.IsReady() {
		return fmt.Errorf("Init failed, driver not ready")
	}

	var err error
	swb.input, err = driver.GetInput(swb.InPin)
	if err != nil {
		return errors.Wrapf(err, "Init of switch %s failed", swb.Name)
	}

	return nil
}

func (swb *Switch) GetState() (bool, error) {
	if swb.input == nil {
		return true, errors.Errorf("switch %s not initialized", swb.Name)
	}
	return swb.input.GetState()
}

type Led struct {
	Name       string
	DriverName string
	OutPin     uint16

	output drivers.DigitalOutput
}

func (led *Led) GetDriverName() string {
	return led.DriverName
}

func (led *Led) Init(driver drivers.IoDriver) error {
	if !strings.EqualFold(driver.String(), led.DriverName) {
		return fmt.Errorf("Init failed, mismatched or incorrect driver")
	}

	if !driver.IsReady() {
		return fmt.Errorf("Init failed, driver not ready")
	}

	var err error
	led.output, err = driver.GetOutput(led.OutPin)
	if err != nil {
		return errors.Wrapf(err, "Init of led %s failed", led.Name)
	}

	return nil
}

func (led *Led) Set(state bool) error {
	if led.output == nil {
		return errors.Errorf("led %s not initialized", led.Name)
	}
	return led.output.Set(state)
}
