package swblink

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/hubertat/swblink/blink"
)

// LoadConfig reads a JSON or, for .toml files, a TOML configuration.
func LoadConfig(path string) (*SwBlink, error) {
	cBuff, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read config file %s", path)
	}

	return ParseConfig(cBuff, strings.EqualFold(filepath.Ext(path), ".toml"))
}

func ParseConfig(data []byte, isToml bool) (*SwBlink, error) {
	sw := &SwBlink{}

	var err error
	if isToml {
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(sw)
	} else {
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		err = decoder.Decode(sw)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed unmarshalling config")
	}

	err = sw.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return sw, nil
}

func (sw *SwBlink) Validate() error {
	if len(sw.Switches) != blink.SwitchCount {
		return errors.Errorf("exactly %d switches required, got %d", blink.SwitchCount, len(sw.Switches))
	}
	if len(sw.Leds) != blink.LedCount {
		return errors.Errorf("exactly %d leds required, got %d", blink.LedCount, len(sw.Leds))
	}

	for i, s := range sw.Switches {
		if s == nil || len(s.DriverName) == 0 {
			return errors.Errorf("switch %d has no driver", i)
		}
	}
	for i, l := range sw.Leds {
		if l == nil || len(l.DriverName) == 0 {
			return errors.Errorf("led %d has no driver", i)
		}
	}

	if len(sw.IntervalsMs) != 0 {
		if len(sw.IntervalsMs) != blink.SwitchCount {
			return errors.Errorf("IntervalsMs needs %d values, got %d", blink.SwitchCount, len(sw.IntervalsMs))
		}
		for i, iv := range sw.IntervalsMs {
			if iv == 0 {
				return errors.Errorf("interval for mode %d is zero", i+1)
			}
		}
	}

	if len(sw.LogLevel) > 0 {
		if _, err := log.ParseLevel(sw.LogLevel); err != nil {
			return errors.Wrapf(err, "invalid LogLevel %s", sw.LogLevel)
		}
	}

	if sw.BlinkLimit < 0 {
		return errors.New("BlinkLimit can not be negative")
	}
	if sw.StatusEvery < 0 {
		return errors.New("StatusEvery can not be negative")
	}

	if sw.Gpio == nil && sw.Mcp23017 == nil && sw.FakeDriver == nil {
		return errors.New("no io driver configured")
	}

	return nil
}
