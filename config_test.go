package swblink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const jsonConfig = `{
	"Name": "desk",
	"Switches": [
		{"Name": "sw1", "DriverName": "mock_driver", "InPin": 1},
		{"Name": "sw2", "DriverName": "mock_driver", "InPin": 2},
		{"Name": "sw3", "DriverName": "mock_driver", "InPin": 3},
		{"Name": "sw4", "DriverName": "mock_driver", "InPin": 4}
	],
	"Leds": [
		{"Name": "led1", "DriverName": "mock_driver", "OutPin": 13},
		{"Name": "led2", "DriverName": "mock_driver", "OutPin": 12},
		{"Name": "led3", "DriverName": "mock_driver", "OutPin": 11},
		{"Name": "led4", "DriverName": "mock_driver", "OutPin": 10},
		{"Name": "led5", "DriverName": "mock_driver", "OutPin": 9}
	],
	"IntervalsMs": [333, 166, 83, 500],
	"BlinkLimit": 3,
	"FakeDriver": {}
}`

const tomlConfig = `
Name = "desk"
StatusEvery = 100

Switches = [
	{ Name = "sw1", DriverName = "gpio", InPin = 17 },
	{ Name = "sw2", DriverName = "gpio", InPin = 27 },
	{ Name = "sw3", DriverName = "gpio", InPin = 22 },
	{ Name = "sw4", DriverName = "gpio", InPin = 23 },
]

Leds = [
	{ Name = "led1", DriverName = "mcpio", OutPin = 0 },
	{ Name = "led2", DriverName = "mcpio", OutPin = 1 },
	{ Name = "led3", DriverName = "mcpio", OutPin = 2 },
	{ Name = "led4", DriverName = "mcpio", OutPin = 3 },
	{ Name = "led5", DriverName = "mcpio", OutPin = 4 },
]

[Gpio]
InvertInputs = false

[Mcp23017]
BusNo = 1
DevNo = 32
`

func TestParseJsonConfig(t *testing.T) {
	sw, err := ParseConfig([]byte(jsonConfig), false)
	if err != nil {
		t.Fatalf("ParseConfig returned err: %v", err)
	}

	if sw.Name != "desk" || sw.BlinkLimit != 3 || sw.FakeDriver == nil {
		t.Errorf("unexpected config: %+v", sw)
	}
	iv := sw.intervals()
	if iv[1] != 166 {
		t.Errorf("got mode 2 interval %d want 166", iv[1])
	}
	if sw.Leds[4].OutPin != 9 {
		t.Errorf("got led 5 pin %d want 9", sw.Leds[4].OutPin)
	}
}

func TestParseTomlConfig(t *testing.T) {
	sw, err := ParseConfig([]byte(tomlConfig), true)
	if err != nil {
		t.Fatalf("ParseConfig returned err: %v", err)
	}

	if sw.Mcp23017 == nil || sw.Mcp23017.DevNo != 32 {
		t.Errorf("mcp23017 section not parsed: %+v", sw.Mcp23017)
	}
	if sw.Gpio == nil || sw.Switches[3].InPin != 23 {
		t.Error("gpio switches not parsed")
	}
	if sw.StatusEvery != 100 {
		t.Errorf("got StatusEvery %d", sw.StatusEvery)
	}
	if sw.intervals()[1] != 167 {
		t.Error("default intervals not used")
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
		wantErr string
	}{
		{"unknown field", [2]string{`"BlinkLimit": 3`, `"BlinkLimt": 3`}, "unknown field"},
		{"short intervals", [2]string{`[333, 166, 83, 500]`, `[333, 166]`}, "IntervalsMs"},
		{"zero interval", [2]string{`[333, 166, 83, 500]`, `[333, 0, 83, 500]`}, "zero"},
		{"bad log level", [2]string{`"BlinkLimit": 3`, `"BlinkLimit": 3, "LogLevel": "loud"`}, "LogLevel"},
		{"negative limit", [2]string{`"BlinkLimit": 3`, `"BlinkLimit": -1`}, "BlinkLimit"},
		{"no driver", [2]string{`"FakeDriver": {}`, `"StatusEvery": 1`}, "no io driver"},
		{"missing led", [2]string{`{"Name": "led5", "DriverName": "mock_driver", "OutPin": 9}`, ``}, "leds required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := strings.Replace(jsonConfig, tt.replace[0], tt.replace[1], 1)
			if tt.name == "missing led" {
				data = strings.Replace(data, `"OutPin": 10},`, `"OutPin": 10}`, 1)
			}
			_, err := ParseConfig([]byte(data), false)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got err %q want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigByExtension(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "swblink.toml")
	if err := os.WriteFile(tomlPath, []byte(tomlConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	jsonPath := filepath.Join(dir, "config.json")
	if err := os.WriteFile(jsonPath, []byte(jsonConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(tomlPath); err != nil {
		t.Errorf("toml: %v", err)
	}
	if _, err := LoadConfig(jsonPath); err != nil {
		t.Errorf("json: %v", err)
	}
	if _, err := LoadConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExampleConfigs(t *testing.T) {
	for _, path := range []string{"config.example.json", "swblink.example.toml"} {
		sw, err := LoadConfig(path)
		if err != nil {
			t.Errorf("%s: %v", path, err)
			continue
		}
		if len(sw.Switches) != 4 || len(sw.Leds) != 5 {
			t.Errorf("%s: got %d switches and %d leds", path, len(sw.Switches), len(sw.Leds))
		}
	}
}
