package blink

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

type Config struct {
	Clock     Clock
	Reporter  Reporter
	Observers []Observer
	Intervals Intervals

	// BlinkLimit stops blinking after that many ON/OFF cycles in the same mode.
	// The LEDs stay OFF until the mode changes. Zero blinks forever.
	BlinkLimit int

	// StatusEvery reports the LED states every n cycles, zero disables it.
	StatusEvery int
}

type Status struct {
	Mode       Mode      `json:"mode"`
	Leds       LedStates `json:"leds"`
	LastToggle uint32    `json:"lastToggle"`
	Toggles    int       `json:"toggles"`
}

// Controller polls the switch bank and blinks the LED bank. All mutation happens
// through Cycle (or the single step methods) from one goroutine; the lock only
// makes Status safe to call from elsewhere. Reporter lines and observer
// notifications are queued under the lock and delivered after it is released.
type Controller struct {
	switches [SwitchCount]Input
	leds     [LedCount]Output

	clock       Clock
	reporter    Reporter
	observers   []Observer
	intervals   Intervals
	blinkLimit  int
	statusEvery int

	lock       sync.RWMutex
	states     LedStates
	mode       Mode
	lastToggle uint32
	toggles    int
	cycles     int
	pending    []func()
}

func NewController(switches []Input, leds []Output, cfg Config) (*Controller, error) {
	if len(switches) != SwitchCount {
		return nil, errors.Errorf("controller needs %d switches, got %d", SwitchCount, len(switches))
	}
	if len(leds) != LedCount {
		return nil, errors.Errorf("controller needs %d leds, got %d", LedCount, len(leds))
	}
	if cfg.BlinkLimit < 0 || cfg.StatusEvery < 0 {
		return nil, errors.New("blink limit and status interval can not be negative")
	}

	c := &Controller{
		clock:       cfg.Clock,
		reporter:    cfg.Reporter,
		observers:   cfg.Observers,
		intervals:   cfg.Intervals,
		blinkLimit:  cfg.BlinkLimit,
		statusEvery: cfg.StatusEvery,
	}

	for i, sw := range switches {
		if sw == nil {
			return nil, errors.Errorf("switch %d is nil", i)
		}
		c.switches[i] = sw
	}
	for i, led := range leds {
		if led == nil {
			return nil, errors.Errorf("led %d is nil", i)
		}
		c.leds[i] = led
	}

	if c.intervals == (Intervals{}) {
		c.intervals = DefaultIntervals
	}
	for i, iv := range c.intervals {
		if iv == 0 {
			return nil, errors.Errorf("interval for mode %d is zero", i+1)
		}
	}
	if c.clock == nil {
		c.clock = NewSystemClock()
	}
	if c.reporter == nil {
		c.reporter = discardReporter{}
	}

	return c, nil
}

// ReadMode returns the 1-based index of the first pressed switch, or ModeIdle.
// A switch that fails to read counts as released; the first such error is returned
// together with the mode derived from the others.
func (c *Controller) ReadMode() (mode Mode, err error) {
	for i, sw := range c.switches {
		state, readErr := sw.GetState()
		if readErr != nil {
			if err == nil {
				err = errors.Wrapf(readErr, "failed to read switch %d", i)
			}
			continue
		}
		if !state {
			return Mode(i + 1), err
		}
	}

	return ModeIdle, err
}

func (c *Controller) OnModeChanged(newMode Mode, now uint32) {
	c.lock.Lock()
	defer c.unlock()

	c.onModeChanged(newMode, now)
}

func (c *Controller) onModeChanged(newMode Mode, now uint32) {
	oldMode := c.mode

	c.lastToggle = now
	c.mode = newMode
	c.toggles = 0

	c.report(fmt.Sprintf("mode changed to %d", uint8(newMode)))
	for _, o := range c.observers {
		observer := o
		c.queue(func() { observer.ModeChanged(oldMode, newMode) })
	}
}

func (c *Controller) Tick(mode Mode, now uint32) {
	c.lock.Lock()
	defer c.unlock()

	c.tick(mode, now)
}

func (c *Controller) tick(mode Mode, now uint32) {
	before := c.states
	defer func() {
		if c.states != before {
			states := c.states
			for _, o := range c.observers {
				observer := o
				c.queue(func() { observer.StateChanged(mode, states) })
			}
		}
	}()

	b := c.intervals.Blink(mode)
	if b.Kind == BlinkNone {
		c.states = LedStates{}
		return
	}

	elapsed := now - c.lastToggle
	if elapsed < b.Interval {
		return
	}
	c.lastToggle = now

	if c.blinkLimit > 0 && c.toggles >= 2*c.blinkLimit {
		c.states = LedStates{}
		return
	}

	switch b.Kind {
	case BlinkSingle:
		on := !c.states[b.Index]
		c.states = LedStates{}
		c.states[b.Index] = on
		c.report(fmt.Sprintf("blink LED %d (%d ms)", b.Index+1, elapsed))
	case BlinkAll:
		for i := range c.states {
			c.states[i] = !c.states[i]
		}
		c.report(fmt.Sprintf("blink all LEDs (%d ms)", elapsed))
	}
	c.toggles++
}

// ApplyOutputs writes the LED states to the outputs in index order. Every output
// is written even when an earlier one fails.
func (c *Controller) ApplyOutputs() error {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.applyOutputs()
}

func (c *Controller) applyOutputs() (err error) {
	for i, led := range c.leds {
		setErr := led.Set(c.states[i])
		if setErr != nil && err == nil {
			err = errors.Wrapf(setErr, "failed to set led %d", i)
		}
	}
	return
}

func (c *Controller) ReportStatus() string {
	c.lock.Lock()
	defer c.unlock()

	return c.reportStatus()
}

func (c *Controller) reportStatus() string {
	line := "LED states: " + c.states.String()
	c.report(line)
	return line
}

// Cycle runs one polling iteration: read the switches, handle a mode change,
// advance the blink timer and write the outputs.
func (c *Controller) Cycle() error {
	mode, readErr := c.ReadMode()
	now := c.clock.NowMillis()

	c.lock.Lock()
	defer c.unlock()

	if mode != c.mode {
		c.onModeChanged(mode, now)
	}
	c.tick(mode, now)
	writeErr := c.applyOutputs()

	c.cycles++
	if c.statusEvery > 0 && c.cycles%c.statusEvery == 0 {
		c.reportStatus()
	}

	if readErr != nil {
		return readErr
	}
	return writeErr
}

func (c *Controller) Status() Status {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return Status{
		Mode:       c.mode,
		Leds:       c.states,
		LastToggle: c.lastToggle,
		Toggles:    c.toggles,
	}
}

func (c *Controller) report(line string) {
	c.queue(func() { c.reporter.WriteLine(line) })
}

// queue must be called with the write lock held.
func (c *Controller) queue(deliver func()) {
	c.pending = append(c.pending, deliver)
}

// unlock releases the write lock, then delivers what was queued while holding it.
func (c *Controller) unlock() {
	pending := c.pending
	c.pending = nil
	c.lock.Unlock()

	for _, deliver := range pending {
		deliver()
	}
}
