package swblink

import (
	"github.com/charmbracelet/log"

	"github.com/hubertat/swblink/blink"
)

// LogReporter writes controller lines to the application log.
type LogReporter struct {
	logger *log.Logger
}

func (lr *LogReporter) WriteLine(line string) error {
	lr.logger.Info(line)
	return nil
}

// sinkReporter logs a failing sink once until it recovers, so a broker outage
// does not print a warning every cycle.
type sinkReporter struct {
	name    string
	sink    blink.Reporter
	logger  *log.Logger
	failing bool
}

func (sr *sinkReporter) WriteLine(line string) error {
	err := sr.sink.WriteLine(line)
	if err != nil && !sr.failing {
		sr.logger.Warn("diagnostic sink failing", "sink", sr.name, "err", err)
	}
	if err == nil && sr.failing {
		sr.logger.Info("diagnostic sink recovered", "sink", sr.name)
	}
	sr.failing = err != nil
	return err
}
