package swblink

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/hubertat/swblink/blink"
	"github.com/hubertat/swblink/drivers"
	"github.com/hubertat/swblink/homekit"
	"github.com/hubertat/swblink/influx"
	"github.com/hubertat/swblink/metrics"
	"github.com/hubertat/swblink/mqtt"
	"github.com/hubertat/swblink/statusapi"
)

const defaultName = "swblink"

type SwBlink struct {
	Name string

	Switches []*Switch
	Leds     []*Led

	IntervalsMs []uint32
	BlinkLimit  int
	StatusEvery int
	LogLevel    string

	Console *drivers.SerialConsole

	MqttBroker string
	MqttTopic  string

	Influx *influx.Recorder

	HkPin       string
	HkDirectory string
	HkAddress   string
	HkDebug     bool

	StatusAddress string

	Mcp23017   *drivers.McpIO
	Gpio       *drivers.GpIO
	FakeDriver *drivers.MockIoDriver

	ioDrivers  map[string]drivers.IoDriver
	controller *blink.Controller
	clock      blink.Clock
	mqttClient *mqtt.MqttClient
	hkBridge   *homekit.Bridge
	registry   *prometheus.Registry
	logger     *log.Logger
}

func (sw *SwBlink) name() string {
	if len(sw.Name) == 0 {
		return defaultName
	}
	return sw.Name
}

func (sw *SwBlink) getIos() []IO {
	ios := []IO{}
	for _, s := range sw.Switches {
		ios = append(ios, s)
	}
	for _, l := range sw.Leds {
		ios = append(ios, l)
	}
	return ios
}

func (sw *SwBlink) getInPins(driverName string) (pins []uint16) {
	for _, s := range sw.Switches {
		if strings.EqualFold(s.DriverName, driverName) {
			pins = append(pins, s.InPin)
		}
	}
	return
}

func (sw *SwBlink) getOutPins(driverName string) (pins []uint16) {
	for _, l := range sw.Leds {
		if strings.EqualFold(l.DriverName, driverName) {
			pins = append(pins, l.OutPin)
		}
	}
	return
}

// InitLogger sets the process wide level and creates the application logger.
// An empty level keeps info.
func (sw *SwBlink) InitLogger(output io.Writer) error {
	level := log.InfoLevel
	if len(sw.LogLevel) > 0 {
		var err error
		level, err = log.ParseLevel(sw.LogLevel)
		if err != nil {
			return errors.Wrapf(err, "invalid log level %s", sw.LogLevel)
		}
	}
	log.SetLevel(level)

	sw.logger = log.NewWithOptions(output, log.Options{
		Prefix:          sw.name(),
		Level:           level,
		ReportTimestamp: true,
	})
	return nil
}

func (sw *SwBlink) getLogger() *log.Logger {
	if sw.logger != nil {
		return sw.logger
	}

	err := sw.InitLogger(os.Stderr)
	if err != nil {
		sw.logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix:          sw.name(),
			Level:           log.InfoLevel,
			ReportTimestamp: true,
		})
		sw.logger.Warn("falling back to info level", "err", err)
	}
	return sw.logger
}

func (sw *SwBlink) InitDrivers(ctx context.Context) error {
	sw.ioDrivers = make(map[string]drivers.IoDriver)

	if sw.Gpio != nil {
		sw.ioDrivers[sw.Gpio.String()] = sw.Gpio
	}

	if sw.Mcp23017 != nil {
		sw.ioDrivers[sw.Mcp23017.String()] = sw.Mcp23017
	}

	if sw.FakeDriver != nil {
		sw.ioDrivers[sw.FakeDriver.String()] = sw.FakeDriver
	}

	for _, io := range sw.getIos() {
		_, driverFound := sw.ioDrivers[strings.ToLower(io.GetDriverName())]
		if !driverFound {
			return errors.Errorf("driver %s not configured", io.GetDriverName())
		}
	}

	for _, driver := range sw.ioDrivers {
		err := driver.Setup(ctx, sw.getInPins(driver.String()), sw.getOutPins(driver.String()))
		if err != nil {
			return errors.Wrapf(err, "failed to setup %s driver", driver)
		}
	}

	return nil
}

func (sw *SwBlink) InitIos() error {
	for _, io := range sw.getIos() {
		err := io.Init(sw.ioDrivers[strings.ToLower(io.GetDriverName())])
		if err != nil {
			return errors.Wrapf(err, "failed to init io")
		}
	}

	return nil
}

func (sw *SwBlink) initReporter(ctx context.Context) blink.Reporter {
	logger := sw.getLogger()
	reporters := blink.Reporters{&LogReporter{logger: logger.WithPrefix(sw.name() + " controller")}}

	if sw.Console != nil {
		err := sw.Console.Open()
		if err != nil {
			logger.Error("serial console disabled", "err", err)
		} else {
			reporters = append(reporters, &sinkReporter{
				name:   sw.Console.String(),
				sink:   &blink.WriterReporter{W: sw.Console},
				logger: logger,
			})
		}
	}

	if len(sw.MqttBroker) > 0 {
		err := sw.initMqtt(ctx)
		if err != nil {
			logger.Error("mqtt reporting disabled", "err", err)
		} else {
			lineReporter := mqtt.NewLineReporter(sw.mqttClient, sw.mqttTopic(), 0)
			go lineReporter.Run(ctx)
			reporters = append(reporters, &sinkReporter{
				name:   "mqtt",
				sink:   lineReporter,
				logger: logger,
			})
		}
	}

	return reporters
}

func (sw *SwBlink) mqttTopic() string {
	if len(sw.MqttTopic) > 0 {
		return sw.MqttTopic
	}
	return fmt.Sprintf("swblink/%s/log", sw.name())
}

func (sw *SwBlink) initMqtt(ctx context.Context) error {
	mc, err := mqtt.NewMqttClient(sw.MqttBroker, sw.name())
	if err != nil {
		return errors.Wrap(err, "failed to create mqtt client")
	}

	err = mc.Connect(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to connect to mqtt broker")
	}

	sw.mqttClient = mc
	return nil
}

func (sw *SwBlink) initObservers(firmwareVersion string) []blink.Observer {
	logger := sw.getLogger()

	sw.registry = prometheus.NewRegistry()
	sw.registry.MustRegister(collectors.NewGoCollector())
	observers := []blink.Observer{metrics.New(sw.registry)}

	if sw.Influx != nil {
		err := sw.Influx.Setup(sw.name())
		if err != nil {
			logger.Error("influx recording disabled", "err", err)
		} else {
			observers = append(observers, sw.Influx)
		}
	}

	if len(sw.HkPin) > 0 {
		bridge := &homekit.Bridge{
			Name:      sw.name(),
			Pin:       sw.HkPin,
			Directory: sw.HkDirectory,
			Address:   sw.HkAddress,
			Debug:     sw.HkDebug,
		}
		names := []string{}
		for _, led := range sw.Leds {
			names = append(names, led.Name)
		}
		err := bridge.Setup(names, firmwareVersion)
		if err != nil {
			logger.Error("HomeKit disabled", "err", err)
		} else {
			sw.hkBridge = bridge
			observers = append(observers, bridge)
		}
	}

	return observers
}

func (sw *SwBlink) intervals() (iv blink.Intervals) {
	if len(sw.IntervalsMs) == 0 {
		return blink.DefaultIntervals
	}
	copy(iv[:], sw.IntervalsMs)
	return
}

// InitController builds the controller on top of initialized IOs together with
// its diagnostic reporters and observers.
func (sw *SwBlink) InitController(ctx context.Context, firmwareVersion string) (err error) {
	switches := []blink.Input{}
	for _, s := range sw.Switches {
		switches = append(switches, s)
	}
	leds := []blink.Output{}
	for _, l := range sw.Leds {
		leds = append(leds, l)
	}

	sw.controller, err = blink.NewController(switches, leds, blink.Config{
		Clock:       sw.clock,
		Reporter:    sw.initReporter(ctx),
		Observers:   sw.initObservers(firmwareVersion),
		Intervals:   sw.intervals(),
		BlinkLimit:  sw.BlinkLimit,
		StatusEvery: sw.StatusEvery,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create controller")
	}

	return nil
}

func (sw *SwBlink) Controller() *blink.Controller {
	return sw.controller
}

// StartTicker runs a controller cycle on every tick until ctx is done. Cycle
// errors are logged once per distinct error and the loop keeps going.
func (sw *SwBlink) StartTicker(ctx context.Context, interval time.Duration) error {
	if sw.controller == nil {
		return errors.New("controller not initialized")
	}
	logger := sw.getLogger()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastErr := ""
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := sw.controller.Cycle()
			switch {
			case err != nil && err.Error() != lastErr:
				logger.Warn("Received error from controller cycle", "err", err)
				lastErr = err.Error()
			case err == nil && lastErr != "":
				logger.Info("controller cycle recovered")
				lastErr = ""
			}
		}
	}
}

// Run starts the control loop and the optional status and HomeKit servers. It
// returns when ctx is done. A failing server is logged and the loop keeps running.
func (sw *SwBlink) Run(ctx context.Context, interval time.Duration) error {
	errg, ctx := errgroup.WithContext(ctx)
	logger := sw.getLogger()

	errg.Go(func() error {
		return sw.StartTicker(ctx, interval)
	})

	if len(sw.StatusAddress) > 0 {
		server := statusapi.New(sw.StatusAddress, sw.controller, sw.registry)
		logger.Info("starting status server", "addr", sw.StatusAddress)
		errg.Go(func() error {
			err := server.ListenAndServe(ctx)
			if err != nil && ctx.Err() == nil {
				logger.Error("status server stopped", "err", err)
			}
			return nil
		})
	}

	if sw.hkBridge != nil {
		logger.Info("starting HomeKit server")
		errg.Go(func() error {
			err := sw.hkBridge.ListenAndServe(ctx)
			if err != nil && ctx.Err() == nil {
				logger.Error("HomeKit server stopped", "err", err)
			}
			return nil
		})
	}

	return errg.Wait()
}

func (sw *SwBlink) Close() (err error) {
	closers := []io.Closer{}
	for _, driver := range sw.ioDrivers {
		if driver != nil {
			closers = append(closers, driver)
		}
	}
	if sw.Console != nil {
		closers = append(closers, sw.Console)
	}
	if sw.Influx != nil {
		closers = append(closers, sw.Influx)
	}

	for _, closer := range closers {
		closeErr := closer.Close()
		if closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "close failed")
		}
	}

	if sw.mqttClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		sw.mqttClient.Disconnect(ctx)
	}

	return
}

func (sw *SwBlink) PrintIoStatus(writer io.Writer) {
	fmt.Fprintln(writer)
	fmt.Fprintln(writer, "=== active io drivers ===")
	for driverName, driver := range sw.ioDrivers {
		fmt.Fprintln(writer, "________")
		fmt.Fprintf(writer, "| driver: %s\n", driverName)
		inputs, outputs := driver.GetAllIo()
		fmt.Fprintf(writer, "| in pins: ")
		for _, inpin := range inputs {
			fmt.Fprintf(writer, "%d, ", inpin)
		}
		fmt.Fprintf(writer, "\n| out pins: ")
		for _, outpin := range outputs {
			fmt.Fprintf(writer, "%d, ", outpin)
		}
		fmt.Fprintln(writer)
		fmt.Fprintln(writer, "--------")
	}
	fmt.Fprintln(writer, "=== switch bank (priority order) ===")
	for i, s := range sw.Switches {
		fmt.Fprintf(writer, "| mode %d: %s (%s pin %d)\n", i+1, s.Name, s.DriverName, s.InPin)
	}
	fmt.Fprintln(writer, "=== led bank ===")
	for i, l := range sw.Leds {
		fmt.Fprintf(writer, "| led %d: %s (%s pin %d)\n", i+1, l.Name, l.DriverName, l.OutPin)
	}
	fmt.Fprintln(writer, "-----------------------------")
	fmt.Fprintln(writer)
}
