package ui

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/niklas-mlrr/projektwoche-2025-eisenbahn/controller"
)

// Config holds the connection settings collected before the main window
// opens. Web and telemetry addresses are optional.
type Config struct {
	SerialPort    string
	BaudRate      string
	WebAddr       string
	TelemetryAddr string
}

type ConfigWindow struct {
	app fyne.App

	// OnSubmit connects with the chosen settings. Returning an error keeps
	// the window open so the user can correct them.
	OnSubmit func(Config) error
}

func NewConfigWindow(app fyne.App) *ConfigWindow {
	return &ConfigWindow{
		app: app,
	}
}

func (cw *ConfigWindow) loadConfigFromPreferences(cfg *Config) {
	prefs := cw.app.Preferences()
	cfg.SerialPort = prefs.StringWithFallback("serialPort", "")
	cfg.BaudRate = prefs.StringWithFallback("baudRate", "115200")
	cfg.WebAddr = prefs.StringWithFallback("webAddr", "")
	cfg.TelemetryAddr = prefs.StringWithFallback("telemetryAddr", "")
}

func (cw *ConfigWindow) saveConfigToPreferences(cfg *Config) {
	prefs := cw.app.Preferences()
	prefs.SetString("serialPort", cfg.SerialPort)
	prefs.SetString("baudRate", cfg.BaudRate)
	prefs.SetString("webAddr", cfg.WebAddr)
	prefs.SetString("telemetryAddr", cfg.TelemetryAddr)
}

func (cw *ConfigWindow) Show(cfg *Config) {
	window := cw.app.NewWindow("Eisenbahn - Konfiguration")
	window.Resize(fyne.NewSize(400, 250))
	window.SetCloseIntercept(func() {
		// Treat window close as cancel
		window.Close()
		cw.app.Quit()
	})
	window.Show()

	// Load config from preferences
	cw.loadConfigFromPreferences(cfg)

	serialPorts, err := controller.GetSerialPorts()
	if err != nil && !errors.Is(err, controller.ErrNoUSBSerial) {
		showError(cw.app, window, fmt.Errorf("error getting serial ports: %w", err))
		return
	}

	serialPorts = append(serialPorts, controller.SerialPortNone)

	serialEntry := widget.NewSelect(serialPorts, nil)
	if cfg.SerialPort == "" {
		cfg.SerialPort = serialPorts[0]
	}
	serialEntry.Bind(binding.BindString(&cfg.SerialPort))

	baudRateEntry := widget.NewEntry()
	baudRateEntry.Bind(binding.BindString(&cfg.BaudRate))

	webAddrEntry := widget.NewEntry()
	webAddrEntry.SetPlaceHolder("optional, z.B. :8080")
	webAddrEntry.Bind(binding.BindString(&cfg.WebAddr))

	telemetryAddrEntry := widget.NewEntry()
	telemetryAddrEntry.SetPlaceHolder("optional")
	telemetryAddrEntry.Bind(binding.BindString(&cfg.TelemetryAddr))

	submitButton := widget.NewButton("Verbinden", func() {
		cw.saveConfigToPreferences(cfg)
		if err := cw.OnSubmit(*cfg); err != nil {
			dialog.ShowError(err, window)
			return
		}
		window.Close()
	})
	submitButton.Disable()

	validateForm := func() {
		allFieldsValid := cfg.SerialPort != "" &&
			cfg.BaudRate != ""

		if allFieldsValid {
			submitButton.Enable()
		}
	}

	// Add listeners to field changes
	serialEntry.OnChanged = func(_ string) { validateForm() }
	baudRateEntry.OnChanged = func(_ string) { validateForm() }

	// Initial validation
	validateForm()

	form := container.NewVBox(
		widget.NewCard("Konfiguration", "", container.NewVBox(
			container.NewGridWithColumns(2,
				widget.NewLabel("Serial Port:"),
				serialEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Baud Rate:"),
				baudRateEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Status-Server:"),
				webAddrEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Telemetrie:"),
				telemetryAddrEntry,
			),
		)),
		container.NewHBox(
			widget.NewButton("Abbrechen", func() {
				window.Close()
				cw.app.Quit()
			}),
			submitButton,
		),
	)

	window.SetContent(form)
}

func showError(app fyne.App, window fyne.Window, err error) {
	d := dialog.NewError(err, window)
	d.SetOnClosed(func() {
		app.Quit()
	})
	d.Show()
}
