package main

import (
	"context"
	"flag"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/niklas-mlrr/projektwoche-2025-eisenbahn/controller"
	"github.com/niklas-mlrr/projektwoche-2025-eisenbahn/logger"
	"github.com/niklas-mlrr/projektwoche-2025-eisenbahn/telemetry"
	"github.com/niklas-mlrr/projektwoche-2025-eisenbahn/ui"
	"github.com/niklas-mlrr/projektwoche-2025-eisenbahn/web"
)

func main() {
	var configFile string
	var sim bool
	flag.StringVar(&configFile, "config", "", "Path to a config file")
	flag.BoolVar(&sim, "sim", false, "Run without hardware: a TCP listener speaks the serial line protocol")
	flag.Parse()

	loadConfig(configFile)
	log := logger.Get(viper.GetString("log.level"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case sim:
		runSim(ctx, log)
	case os.Getenv("ENABLE_UI") == "true":
		runUI(ctx, log)
	default:
		runCLI(ctx, log)
	}
}

func loadConfig(configFile string) {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("serial.port", "")
	viper.SetDefault("serial.baud", "115200")
	viper.SetDefault("sim.addr", ":4242")
	viper.SetDefault("web.addr", "")
	viper.SetDefault("telemetry.addr", "")

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			panic("error reading config file: " + err.Error())
		}
		return
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	// the config file is optional, the defaults cover everything
	_ = viper.ReadInConfig()
}

// wireExtras attaches the optional telemetry client and status server to a
// controller. The returned function stops both.
func wireExtras(ctrl *controller.Controller, telemetryAddr, webAddr string, log *logger.Logger) func() {
	var cleanup []func()

	if telemetryAddr != "" {
		client := telemetry.NewClient(telemetryAddr, log)
		ctrl.SetEvents(client)
		cleanup = append(cleanup, client.Close)
	}

	if webAddr != "" {
		server := web.NewServer(webAddr, ctrl.State, log)
		go func() {
			if err := server.Run(); err != nil {
				log.Errorw("status server stopped", "err", err)
			}
		}()
		cleanup = append(cleanup, func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		})
	}

	return func() {
		for _, f := range cleanup {
			f()
		}
	}
}

// runUI shows the desktop control panel. Commands go to the board over
// serial and into a mirror of the control core, which tracks state for the
// status server and telemetry. With the port set to "none" the mirror is
// the whole backend.
func runUI(ctx context.Context, log *logger.Logger) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	layoutUI := ui.NewLayoutUI()

	var stopExtras func()

	connect := func(cfg ui.Config) (io.Writer, error) {
		ctrl := controller.New(controller.DefaultConfig(), controller.NoopOutputs{})
		stopExtras = wireExtras(ctrl, cfg.TelemetryAddr, cfg.WebAddr, log)

		mirrorR, mirrorW := io.Pipe()

		if cfg.SerialPort == controller.SerialPortNone {
			// no board attached: the mirror core answers with feedback
			go func() {
				if err := ctrl.Run(ctx, mirrorR, layoutUI); err != nil {
					log.Errorw("controller stopped", "err", err)
				}
			}()
			return mirrorW, nil
		}

		port, err := controller.OpenSerial(cfg.SerialPort, cfg.BaudRate)
		if err != nil {
			return nil, err
		}

		go func() {
			<-ctx.Done()
			_ = port.Close()
		}()

		// the board echoes its own feedback, the mirror stays silent
		go func() {
			if err := ctrl.Run(ctx, mirrorR, io.Discard); err != nil {
				log.Errorw("mirror controller stopped", "err", err)
			}
		}()
		go func() {
			if _, err := io.Copy(layoutUI, port); err != nil && ctx.Err() == nil {
				log.Errorw("serial connection lost", "err", err)
			}
		}()

		return io.MultiWriter(port, mirrorW), nil
	}

	layoutUI.Run(ctx, connect)
	cancel()

	if stopExtras != nil {
		stopExtras()
	}
}

// runCLI pipes stdin to the board and the board's output to stdout.
func runCLI(ctx context.Context, log *logger.Logger) {
	port, err := controller.OpenSerial(viper.GetString("serial.port"), viper.GetString("serial.baud"))
	if err != nil {
		log.Fatalw("error opening serial port", "err", err)
	}
	defer port.Close()

	go func() {
		<-ctx.Done()
		_ = port.Close()
	}()

	go func() {
		_, _ = io.Copy(port, os.Stdin)
	}()

	if _, err := io.Copy(os.Stdout, port); err != nil && ctx.Err() == nil {
		log.Errorw("serial connection lost", "err", err)
	}
}

// runSim runs the control core against fake outputs behind a TCP listener
// speaking the serial line protocol, one client at a time.
func runSim(ctx context.Context, log *logger.Logger) {
	ctrl := controller.New(controller.DefaultConfig(), controller.NoopOutputs{})

	stopExtras := wireExtras(ctrl, viper.GetString("telemetry.addr"), viper.GetString("web.addr"), log)
	defer stopExtras()

	listener, err := net.Listen("tcp", viper.GetString("sim.addr"))
	if err != nil {
		log.Fatalw("error starting simulation listener", "err", err)
	}
	defer listener.Close()

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	log.Infow("simulation listening", "addr", listener.Addr())

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Errorw("error accepting connection", "err", err)
			return
		}

		log.Infow("client connected", "remote", conn.RemoteAddr())
		if err := ctrl.Run(ctx, conn, conn); err != nil {
			log.Warnw("client connection ended", "err", err)
		}
		_ = conn.Close()

		if ctx.Err() != nil {
			return
		}
	}
}
