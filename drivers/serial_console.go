package drivers

import (
	"sync"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

const defaultConsoleBaud = 9600

// SerialConsole is a write only serial line for diagnostic text, for example a
// USB-UART adapter watched with a terminal.
type SerialConsole struct {
	Device string
	Baud   int

	port serial.Port
	lock sync.Mutex
}

func (sc *SerialConsole) Open() error {
	if len(sc.Device) == 0 {
		return errors.New("serial console device not set")
	}
	if sc.Baud == 0 {
		sc.Baud = defaultConsoleBaud
	}

	port, err := serial.Open(sc.Device, &serial.Mode{BaudRate: sc.Baud})
	if err != nil {
		return errors.Wrapf(err, "failed to open serial console %s", sc.Device)
	}

	sc.lock.Lock()
	sc.port = port
	sc.lock.Unlock()
	return nil
}

func (sc *SerialConsole) Write(p []byte) (int, error) {
	sc.lock.Lock()
	defer sc.lock.Unlock()

	if sc.port == nil {
		return 0, errors.New("serial console not open")
	}
	return sc.port.Write(p)
}

func (sc *SerialConsole) Close() error {
	sc.lock.Lock()
	defer sc.lock.Unlock()

	if sc.port == nil {
		return nil
	}
	err := sc.port.Close()
	sc.port = nil
	return err
}

func (sc *SerialConsole) String() string {
	return "serial:" + sc.Device
}
