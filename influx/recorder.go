package influx

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/pkg/errors"

	"github.com/hubertat/swblink/blink"
)

const defaultMeasurement = "swblink"

// Recorder writes mode changes and LED states as points to InfluxDB. Writes are
// batched by the client, failures are only logged.
type Recorder struct {
	Host         string
	Organization string
	Bucket       string
	Measurement  string
	Token        string

	device   string
	client   influxdb2.Client
	writeApi api.WriteAPI
	logger   *log.Logger
	ready    bool
}

func (r *Recorder) Setup(device string) error {
	if len(r.Host) == 0 || len(r.Bucket) == 0 {
		return errors.New("influx recorder needs Host and Bucket")
	}
	if len(r.Measurement) == 0 {
		r.Measurement = defaultMeasurement
	}

	r.device = device
	r.logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "Influx",
		Level:  log.GetLevel(),
	})
	r.client = influxdb2.NewClient(r.Host, r.Token)
	r.writeApi = r.client.WriteAPI(r.Organization, r.Bucket)

	go func(errs <-chan error) {
		for err := range errs {
			r.logger.Warn("write failed", "err", err)
		}
	}(r.writeApi.Errors())

	r.ready = true
	return nil
}

func (r *Recorder) IsReady() bool {
	return r.ready
}

func (r *Recorder) ModeChanged(from, to blink.Mode) {
	if !r.ready {
		return
	}
	r.writeApi.WritePoint(r.modePoint(to, time.Now()))
}

func (r *Recorder) StateChanged(mode blink.Mode, leds blink.LedStates) {
	if !r.ready {
		return
	}
	r.writeApi.WritePoint(r.ledPoint(mode, leds, time.Now()))
}

func (r *Recorder) Close() error {
	if !r.ready {
		return nil
	}
	r.ready = false
	r.writeApi.Flush()
	r.client.Close()
	return nil
}

func (r *Recorder) tags() map[string]string {
	return map[string]string{"device": r.device}
}

func (r *Recorder) modePoint(mode blink.Mode, ts time.Time) *write.Point {
	return influxdb2.NewPoint(r.Measurement, r.tags(), map[string]interface{}{
		"mode": int(mode),
	}, ts)
}

func (r *Recorder) ledPoint(mode blink.Mode, leds blink.LedStates, ts time.Time) *write.Point {
	fields := map[string]interface{}{
		"mode": int(mode),
	}
	for i, on := range leds {
		fields[fmt.Sprintf("led%d", i)] = on
	}
	return influxdb2.NewPoint(r.Measurement, r.tags(), fields, ts)
}
