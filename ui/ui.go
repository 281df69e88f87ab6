package ui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	eisenbahn "github.com/niklas-mlrr/projektwoche-2025-eisenbahn"
)

func createServoRow(labelText string, defaultValue float64, onSet func(angle float64, ms int)) *fyne.Container {
	valueLabel := widget.NewLabel(fmt.Sprintf("%.0f°", defaultValue))

	slider := widget.NewSlider(eisenbahn.MinAngle, eisenbahn.MaxAngle)
	slider.Step = 1
	slider.SetValue(defaultValue)
	slider.OnChanged = func(value float64) {
		valueLabel.SetText(fmt.Sprintf("%.0f°", value))
	}
	slider.OnChangeEnded = func(value float64) {
		onSet(value, 0)
	}

	durationEntry := widget.NewEntry()
	durationEntry.SetPlaceHolder("ms")
	durationEntry.OnSubmitted = func(s string) {
		durationEntry.SetText("")

		ms, err := strconv.Atoi(s)
		if err != nil || ms <= 0 {
			fmt.Println("Invalid input. Please enter a duration in milliseconds.")
			return
		}
		onSet(slider.Value, ms)
	}

	timedButton := widget.NewButton("Zeitgesteuert", func() {
		durationEntry.OnSubmitted(durationEntry.Text)
	})

	return container.NewVBox(
		container.NewGridWithColumns(3,
			widget.NewLabel(labelText),
			valueLabel,
			container.NewHBox(durationEntry, timedButton),
		),
		slider,
	)
}

// LayoutUI is the desktop control panel. It writes protocol lines to the
// controller and implements io.Writer to receive the feedback stream.
type LayoutUI struct {
	mtx      sync.Mutex
	buf      bytes.Buffer
	feedback func(angle int)
}

func NewLayoutUI() *LayoutUI {
	return &LayoutUI{}
}

// Write consumes the controller's output. Channel 1 reports every angle
// change as a bare integer line; anything else is ignored.
func (ui *LayoutUI) Write(p []byte) (int, error) {
	ui.mtx.Lock()
	defer ui.mtx.Unlock()

	ui.buf.Write(p)
	for {
		line, err := ui.buf.ReadString('\n')
		if err != nil {
			// keep the partial line for the next Write
			ui.buf.Reset()
			ui.buf.WriteString(line)
			break
		}

		angle, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr != nil {
			continue
		}
		if ui.feedback != nil {
			ui.feedback(angle)
		}
	}

	return len(p), nil
}

// Run shows the configuration window, then the control window once connect
// succeeds. It blocks until the application quits or ctx is cancelled.
func (ui *LayoutUI) Run(ctx context.Context, connect func(Config) (io.Writer, error)) {
	application := app.New()

	go func() {
		<-ctx.Done()
		fyne.Do(func() {
			application.Quit()
		})
	}()

	configWindow := NewConfigWindow(application)

	var cfg Config
	configWindow.OnSubmit = func(c Config) error {
		commands, err := connect(c)
		if err != nil {
			return err
		}
		ui.showControlWindow(application, commands)
		return nil
	}
	configWindow.Show(&cfg)

	application.Run()
}

func (ui *LayoutUI) showControlWindow(application fyne.App, commands io.Writer) {
	window := application.NewWindow("Eisenbahn Steuerung")

	lastEventTimer := newTimer()
	waitForStart := make(chan struct{})
	lastEventTimer.Go(waitForStart)

	var startOnce sync.Once
	start := func() {
		startOnce.Do(func() {
			close(waitForStart)
		})
	}

	writer := &commandWriter{writer: commands, lastEventTimer: lastEventTimer}

	feedbackLabel := widget.NewLabel("Weiche: –")
	ui.mtx.Lock()
	ui.feedback = func(angle int) {
		fyne.Do(func() {
			feedbackLabel.SetText(fmt.Sprintf("Weiche: %d°", angle))
		})
	}
	ui.mtx.Unlock()

	pointsRow := createServoRow("Weiche", 90, func(angle float64, ms int) {
		start()
		writer.SetPoints(angle, ms)
	})
	barrierRow := createServoRow("Schranke", 90, func(angle float64, ms int) {
		start()
		writer.SetBarrier(angle, ms)
	})

	currentState := crossingOpen
	var crossingButton *widget.Button
	crossingButton = widget.NewButton(currentState.next().String(), func() {
		currentState = currentState.next()

		start()
		lastEventTimer.Set(time.Now())
		writer.RunCrossingCommand(currentState)

		crossingButton.SetText(currentState.next().String())
	})

	contentContainer := container.NewVBox(
		container.NewHBox(
			container.NewPadded(lastEventTimer.text),
			layout.NewSpacer(),
			container.NewPadded(feedbackLabel),
		),
		pointsRow,
		barrierRow,
		crossingButton,
	)

	window.SetContent(contentContainer)
	window.Resize(fyne.NewSize(400, 250))
	window.SetOnClosed(lastEventTimer.Stop)
	window.Show()
}
