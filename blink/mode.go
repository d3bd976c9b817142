package blink

import (
	"fmt"
	"strings"
)

const SwitchCount = 4
const LedCount = 5

type Mode uint8

const (
	ModeIdle Mode = iota
	Mode1
	Mode2
	Mode3
	Mode4
)

func (m Mode) String() string {
	if m == ModeIdle {
		return "idle"
	}
	return fmt.Sprintf("mode %d", uint8(m))
}

type BlinkKind uint8

const (
	BlinkNone BlinkKind = iota
	BlinkSingle
	BlinkAll
)

// Blink describes what a mode does on each elapsed interval.
// Index is only meaningful for BlinkSingle.
type Blink struct {
	Kind     BlinkKind
	Index    int
	Interval uint32
}

// Intervals holds the toggle interval in milliseconds for modes 1 to 4.
type Intervals [SwitchCount]uint32

var DefaultIntervals = Intervals{333, 167, 83, 500}

func (iv Intervals) Blink(m Mode) Blink {
	switch m {
	case Mode1, Mode2, Mode3:
		return Blink{Kind: BlinkSingle, Index: int(m) - 1, Interval: iv[m-1]}
	case Mode4:
		return Blink{Kind: BlinkAll, Interval: iv[m-1]}
	default:
		return Blink{Kind: BlinkNone}
	}
}

type LedStates [LedCount]bool

func (ls LedStates) String() string {
	words := make([]string, 0, LedCount)
	for _, on := range ls {
		if on {
			words = append(words, "ON")
		} else {
			words = append(words, "OFF")
		}
	}
	return strings.Join(words, " ")
}

func (ls LedStates) OnCount() (count int) {
	for _, on := range ls {
		if on {
			count++
		}
	}
	return
}
