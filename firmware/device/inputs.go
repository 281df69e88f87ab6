//go:build tinygo

package device

import (
	"io"
	"machine"
	"time"

	eisenbahn "github.com/niklas-mlrr/projektwoche-2025-eisenbahn"
	"github.com/niklas-mlrr/projektwoche-2025-eisenbahn/crank"
	"github.com/niklas-mlrr/projektwoche-2025-eisenbahn/input"
)

// Applier is the part of the control loop the inputs feed into.
type Applier interface {
	Apply(cmd eisenbahn.Command, now time.Time)
}

// Inputs polls the operator hardware: the hand crank for manual points
// control, the flex sensor, the stop/direction buttons and the RGB
// button toy.
type Inputs struct {
	cfg InputConfig

	smoother *crank.Smoother
	flex     *input.FlexStreamer

	stopEdge  *input.Edge
	dirEdge   *input.Edge
	colorEdge *input.Edge
	cycler    *input.Cycler
}

// NewInputs configures the input pins and seeds the crank filter with the
// current reading. machine.InitADC must run before this.
func NewInputs(cfg InputConfig) *Inputs {
	cfg.Crank.Configure(machine.ADCConfig{})
	cfg.Flex.Configure(machine.ADCConfig{})

	for _, p := range []machine.Pin{cfg.StopButton, cfg.DirButton, cfg.ColorButton} {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	for _, p := range []machine.Pin{cfg.Red, cfg.Green, cfg.Blue} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}

	in := &Inputs{
		cfg:       cfg,
		smoother:  crank.NewSmoother(crank.DefaultWindow, crank.DefaultDeadband, readADC(cfg.Crank)),
		flex:      input.NewFlexStreamer(input.DefaultFlexInterval),
		stopEdge:  input.NewEdge(),
		dirEdge:   input.NewEdge(),
		colorEdge: input.NewEdge(),
		cycler:    &input.Cycler{},
	}
	in.setColor(in.cycler.Current())
	return in
}

// Poll reads every input once. Crank movement becomes a channel-1 command,
// the flex sensor streams raw FLEX lines, the buttons emit STOP/DIR lines
// on out, and the color button advances the toy's LED.
func (in *Inputs) Poll(ctrl Applier, out io.Writer) {
	if angle, ok := in.smoother.Sample(readADC(in.cfg.Crank)); ok {
		ctrl.Apply(eisenbahn.Command{Kind: eisenbahn.CommandSetAngle, Angle: angle}, time.Now())
	}

	if line, ok := in.flex.Sample(readADC(in.cfg.Flex), time.Now()); ok {
		out.Write([]byte(line))
	}

	if in.stopEdge.Pressed(in.cfg.StopButton.Get()) {
		out.Write([]byte("STOP\n"))
	}
	if in.dirEdge.Pressed(in.cfg.DirButton.Get()) {
		out.Write([]byte("DIR\n"))
	}

	if in.colorEdge.Pressed(in.cfg.ColorButton.Get()) {
		in.setColor(in.cycler.Next())
	}
}

func (in *Inputs) setColor(c input.Color) {
	in.cfg.Red.Set(c.R > 0)
	in.cfg.Green.Set(c.G > 0)
	in.cfg.Blue.Set(c.B > 0)
}

// readADC scales a 16-bit ADC reading down to the 10-bit range the analog
// logic expects.
func readADC(adc machine.ADC) int {
	return int(adc.Get() >> 6)
}
