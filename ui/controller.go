package ui

import (
	"fmt"
	"io"
	"time"
)

type commandWriter struct {
	writer         io.Writer
	lastEventTimer *timer
}

func (c *commandWriter) SetPoints(angle float64, ms int) {
	c.lastEventTimer.Set(time.Now())
	if ms > 0 {
		fmt.Fprintf(c.writer, "%.0f %d\n", angle, ms)
		return
	}
	fmt.Fprintf(c.writer, "%.0f\n", angle)
}

func (c *commandWriter) SetBarrier(angle float64, ms int) {
	c.lastEventTimer.Set(time.Now())
	if ms > 0 {
		fmt.Fprintf(c.writer, "M2 %.0f %d\n", angle, ms)
		return
	}
	fmt.Fprintf(c.writer, "M2 %.0f\n", angle)
}

func (c *commandWriter) RunCrossingCommand(s crossingState) {
	crossingCommand := s.command()
	if crossingCommand != "" {
		c.lastEventTimer.Set(time.Now())
		fmt.Fprintf(c.writer, "%s\n", crossingCommand)
	}
}
