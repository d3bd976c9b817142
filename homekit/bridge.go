package homekit

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	dnslog "github.com/brutella/dnssd/log"
	"github.com/brutella/hap"
	"github.com/brutella/hap/accessory"
	"github.com/brutella/hap/characteristic"
	hklog "github.com/brutella/hap/log"
	"github.com/pkg/errors"

	"github.com/hubertat/swblink/blink"
)

const defaultHomeKitDirectory = "./homekit"
const homeKitBridgeName = "swblink"
const homeKitBridgeAuthor = "github.com/hubertat"

// Bridge shows the LED bank in HomeKit as read only lightbulbs. The Home app
// can not switch them, the switches stay the only control.
type Bridge struct {
	Name      string
	Pin       string
	Directory string
	Address   string
	Debug     bool

	firmware string
	lights   [blink.LedCount]*accessory.Lightbulb
	states   blink.LedStates
	lock     sync.Mutex
}

func (br *Bridge) Setup(ledNames []string, firmwareVersion string) error {
	if len(br.Pin) != 8 {
		return errors.New("HomeKit pin must have 8 digits")
	}
	if len(ledNames) != blink.LedCount {
		return errors.Errorf("HomeKit bridge needs %d led names, got %d", blink.LedCount, len(ledNames))
	}

	br.firmware = firmwareVersion
	for i, name := range ledNames {
		lb := accessory.NewLightbulb(accessory.Info{
			Name:         name,
			SerialNumber: fmt.Sprintf("led:%02d", i),
			Manufacturer: homeKitBridgeAuthor,
			Firmware:     firmwareVersion,
		})
		lb.Id = uniqueId(br.bridgeName(), name, i)
		lb.Lightbulb.On.Permissions = []string{characteristic.PermissionRead, characteristic.PermissionEvents}
		br.lights[i] = lb
	}

	return nil
}

func (br *Bridge) bridgeName() string {
	if len(br.Name) < 1 {
		return homeKitBridgeName
	}
	return br.Name
}

func (br *Bridge) ModeChanged(from, to blink.Mode) {}

func (br *Bridge) StateChanged(mode blink.Mode, leds blink.LedStates) {
	br.lock.Lock()
	defer br.lock.Unlock()

	for i, on := range leds {
		if br.lights[i] != nil && br.states[i] != on {
			br.lights[i].Lightbulb.On.SetValue(on)
		}
	}
	br.states = leds
}

// ListenAndServe runs the HomeKit server until ctx is done.
func (br *Bridge) ListenAndServe(ctx context.Context) error {
	if br.lights[0] == nil {
		return errors.New("HomeKit bridge not set up")
	}

	bridge := accessory.NewBridge(accessory.Info{
		Name:         br.bridgeName(),
		Manufacturer: homeKitBridgeAuthor,
		Firmware:     br.firmware,
	})

	dir := br.Directory
	if len(dir) < 1 {
		dir = defaultHomeKitDirectory
	}

	accessories := []*accessory.A{}
	for _, lb := range br.lights {
		accessories = append(accessories, lb.A)
	}

	hkServer, err := hap.NewServer(hap.NewFsStore(dir), bridge.A, accessories...)
	if err != nil {
		return errors.Wrap(err, "failed to create HomeKit server")
	}
	hkServer.Pin = br.Pin
	if len(br.Address) > 0 {
		hkServer.Addr = br.Address
	}

	if br.Debug {
		hklog.Debug.Enable()
		dnslog.Debug.Enable()
	}

	return hkServer.ListenAndServe(ctx)
}

func uniqueId(bridge, name string, index int) uint64 {
	hash := fnv.New64()
	hash.Write([]byte(fmt.Sprintf("%s_Led_%d_%s", bridge, index, name)))
	return hash.Sum64()
}
