package eisenbahn

import (
	"strconv"
	"strings"
	"time"
)

// Angle limits for every servo on the layout.
const (
	MinAngle = 0
	MaxAngle = 180
)

// Channel identifies one of the two servo outputs on the board.
type Channel int

const (
	// ChannelPoints is the points ("Weiche") servo driven by the slider UI.
	// It echoes every angle change back over serial.
	ChannelPoints Channel = iota + 1
	// ChannelBarrier is the second servo ("M2"). It never emits feedback so
	// the slider UI does not mistake barrier positions for points positions.
	ChannelBarrier
)

func (c Channel) String() string {
	switch c {
	case ChannelPoints:
		return "Weiche"
	case ChannelBarrier:
		return "Schranke"
	default:
		return "Unknown"
	}
}

// CommandKind tags the variants of Command.
type CommandKind int

const (
	CommandNone CommandKind = iota
	// CommandSetAngle moves channel 1 toward an angle in step mode.
	CommandSetAngle
	// CommandSetAngleTimed interpolates channel 1 to an angle over Duration.
	CommandSetAngleTimed
	// CommandSetChannel2 moves channel 2, timed when Duration > 0.
	CommandSetChannel2
	// CommandCrossingClose starts the level-crossing close sequence (BZU).
	CommandCrossingClose
	// CommandCrossingOpen starts the level-crossing open sequence (BAUF).
	CommandCrossingOpen
)

// Command is one decoded input line. It is consumed exactly once.
type Command struct {
	Kind     CommandKind
	Angle    int
	Duration time.Duration
}

// ClampAngle bounds an angle to the servo range. Out-of-range values are
// clamped rather than rejected so a misbehaving sender still moves something.
func ClampAngle(a int) int {
	if a < MinAngle {
		return MinAngle
	}
	if a > MaxAngle {
		return MaxAngle
	}
	return a
}

// ParseCommand decodes one line of the serial protocol. The second return
// value is false for blank or malformed lines, which are silently ignored.
//
// Recognized forms, in priority order:
//
//	M2 <angle> [<ms>]   second servo, timed when ms > 0
//	BZU                 close the crossing (case-insensitive)
//	BAUF                open the crossing (case-insensitive)
//	<angle> [<ms>]      first servo, step mode or timed move
func ParseCommand(raw string) (Command, bool) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return Command{}, false
	}

	fields := strings.Fields(line)

	if fields[0] == "M2" {
		return parseChannel2(fields[1:])
	}

	if strings.EqualFold(line, "BZU") {
		return Command{Kind: CommandCrossingClose}, true
	}
	if strings.EqualFold(line, "BAUF") {
		return Command{Kind: CommandCrossingOpen}, true
	}

	return parseChannel1(fields)
}

func parseChannel2(args []string) (Command, bool) {
	if len(args) < 1 || len(args) > 2 {
		return Command{}, false
	}

	angle, err := strconv.Atoi(args[0])
	if err != nil {
		return Command{}, false
	}

	cmd := Command{Kind: CommandSetChannel2, Angle: ClampAngle(angle)}

	if len(args) == 2 {
		ms, err := strconv.Atoi(args[1])
		if err != nil {
			return Command{}, false
		}
		// Zero or negative durations mean an immediate move.
		if ms > 0 {
			cmd.Duration = time.Duration(ms) * time.Millisecond
		}
	}

	return cmd, true
}

// LineBuffer assembles protocol lines from a byte stream with a fixed
// capacity. A line that outgrows the capacity is discarded entirely; parsing
// a truncated prefix could execute a command the sender never wrote.
type LineBuffer struct {
	buf      []byte
	overflow bool
}

// NewLineBuffer returns a buffer holding lines up to capacity bytes.
func NewLineBuffer(capacity int) *LineBuffer {
	return &LineBuffer{buf: make([]byte, 0, capacity)}
}

// Feed consumes one byte. ok is true when a complete line is ready. CR and
// LF both terminate a line, so CRLF input yields no empty lines.
func (l *LineBuffer) Feed(b byte) (line string, ok bool) {
	if b == '\n' || b == '\r' {
		complete := !l.overflow && len(l.buf) > 0
		if complete {
			line = string(l.buf)
		}
		l.buf = l.buf[:0]
		l.overflow = false
		return line, complete
	}

	if len(l.buf) < cap(l.buf) {
		l.buf = append(l.buf, b)
	} else {
		l.overflow = true
	}
	return "", false
}

func parseChannel1(fields []string) (Command, bool) {
	if len(fields) > 2 {
		return Command{}, false
	}

	angle, err := strconv.Atoi(fields[0])
	if err != nil {
		return Command{}, false
	}

	cmd := Command{Kind: CommandSetAngle, Angle: ClampAngle(angle)}

	if len(fields) == 2 {
		ms, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{}, false
		}
		if ms > 0 {
			cmd.Kind = CommandSetAngleTimed
			cmd.Duration = time.Duration(ms) * time.Millisecond
		}
	}

	return cmd, true
}
