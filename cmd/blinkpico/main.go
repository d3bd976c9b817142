//go:build tinygo

package main

import (
	"fmt"
	"machine"
	"time"

	"github.com/hubertat/swblink/blink"
	"github.com/hubertat/swblink/blinkpico"
)

const loopDelay = 10 * time.Millisecond

func main() {
	machine.Serial.Configure(machine.UARTConfig{BaudRate: 9600})

	board := blinkpico.PicoBlink()
	err := board.Setup()
	if err != nil {
		fmt.Println("setup failed: ", err.Error())
		panic(err)
	}

	controller, err := blink.NewController(board.Switches(), board.Leds(), blink.Config{
		Clock:       blinkpico.NewClock(),
		Reporter:    &blink.WriterReporter{W: machine.Serial},
		StatusEvery: 1,
	})
	if err != nil {
		fmt.Println("controller failed: ", err.Error())
		panic(err)
	}

	fmt.Println("setup OK!", board.Name())

	lastErr := ""
	for {
		err = controller.Cycle()
		switch {
		case err != nil && err.Error() != lastErr:
			fmt.Fprintln(machine.Serial, "cycle failed:", err.Error())
			lastErr = err.Error()
		case err == nil:
			lastErr = ""
		}
		time.Sleep(loopDelay)
	}
}
