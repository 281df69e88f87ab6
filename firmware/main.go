//go:build tinygo

package main

import (
	"machine"
	"time"

	eisenbahn "github.com/niklas-mlrr/projektwoche-2025-eisenbahn"
	"github.com/niklas-mlrr/projektwoche-2025-eisenbahn/controller"
	"github.com/niklas-mlrr/projektwoche-2025-eisenbahn/firmware/device"
)

func main() {
	machine.InitADC()

	d, err := device.New(device.Config{
		Points:      device.ServoConfig{PWM: machine.PWM0, Pin: machine.GP16},
		Barrier:     device.ServoConfig{PWM: machine.PWM1, Pin: machine.GP18},
		Lamp1:       machine.GP12,
		Lamp2:       machine.GP13,
		ActivityLED: machine.LED,
	})
	if err != nil {
		panic(err)
	}

	inputs := device.NewInputs(device.InputConfig{
		Crank:       machine.ADC{Pin: machine.GP26},
		Flex:        machine.ADC{Pin: machine.GP27},
		StopButton:  machine.GP10,
		DirButton:   machine.GP11,
		ColorButton: machine.GP9,
		Red:         machine.GP6,
		Green:       machine.GP7,
		Blue:        machine.GP8,
	})

	cfg := controller.DefaultConfig()
	ctrl := controller.New(cfg, &d)
	ctrl.SetFeedback(machine.Serial)

	lineBuf := eisenbahn.NewLineBuffer(64)
	lastTick := time.Now()

	for {
		// drain any pending command bytes before the next tick
		for machine.Serial.Buffered() > 0 {
			b, err := machine.Serial.ReadByte()
			if err != nil {
				break
			}
			if line, ok := lineBuf.Feed(b); ok {
				ctrl.HandleLine(line, time.Now())
			}
		}

		inputs.Poll(ctrl, machine.Serial)

		now := time.Now()
		if now.Sub(lastTick) >= cfg.TickInterval {
			ctrl.Tick(now)
			lastTick = now
		}

		time.Sleep(time.Millisecond)
	}
}
