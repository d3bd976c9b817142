package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/hubertat/swblink"
	"github.com/hubertat/swblink/drivers"
)

var (
	Version string

	stepDuration = pflag.Duration("step", 3*time.Second, "how long each switch stays pressed")
	statusAddr   = pflag.String("status", "127.0.0.1:8088", "status server address, empty disables it")
)

// script of switch presses, pin 0 means none pressed
var pressScript = []uint16{1, 2, 3, 4, 0, 3, 1}

func main() {
	pflag.Parse()

	log.Info("swblink mock started")
	log.Info("mock instance for testing purposes, presses switches on its own")

	sb := &swblink.SwBlink{
		Name:          "mock",
		StatusEvery:   50,
		StatusAddress: *statusAddr,
		FakeDriver:    &drivers.MockIoDriver{},
	}
	for i, pin := range []uint16{1, 2, 3, 4} {
		sb.Switches = append(sb.Switches, &swblink.Switch{Name: "switch " + string(rune('1'+i)), DriverName: "mock_driver", InPin: pin})
	}
	for i, pin := range []uint16{13, 12, 11, 10, 9} {
		sb.Leds = append(sb.Leds, &swblink.Led{Name: "led " + string(rune('1'+i)), DriverName: "mock_driver", OutPin: pin})
	}

	err := sb.Validate()
	if err != nil {
		log.Fatal("invalid mock setup", "err", err)
	}
	err = sb.InitLogger(os.Stderr)
	if err != nil {
		log.Fatal("logger setup failed", "err", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err = sb.InitDrivers(ctx)
	defer sb.Close()
	if err != nil {
		log.Fatal("driver init failed", "err", err)
	}
	err = sb.InitIos()
	if err != nil {
		log.Fatal("io init failed", "err", err)
	}
	err = sb.InitController(ctx, "mock: "+Version)
	if err != nil {
		log.Fatal("controller init failed", "err", err)
	}

	sb.FakeDriver.MonitorStateChanges(os.Stdout)
	sb.PrintIoStatus(os.Stdout)

	go pressSwitches(ctx, sb.FakeDriver)

	err = sb.Run(ctx, 10*time.Millisecond)
	if err != nil {
		log.Error("mock stopped with error", "err", err)
	}
}

func pressSwitches(ctx context.Context, md *drivers.MockIoDriver) {
	for {
		for _, pressed := range pressScript {
			for _, pin := range []uint16{1, 2, 3, 4} {
				md.SetInput(pin, pin != pressed)
			}
			log.Info("mock switch", "pressed", pressed)

			select {
			case <-ctx.Done():
				return
			case <-time.After(*stepDuration):
			}
		}
	}
}
