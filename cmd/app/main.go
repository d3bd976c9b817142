package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hubertat/servicemaker"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/hubertat/swblink"
)

// matches the 10 ms delay of the firmware loop
const defaultSyncInterval = "10ms"

var (
	Version string
	Build   string

	config       = pflag.StringP("config", "c", "config.json", "path of the configuration file (.json or .toml)")
	flagInstall  = pflag.Bool("install", false, "Install service in os")
	syncInterval = pflag.String("sync", defaultSyncInterval, "sync interval (time.Duration)")
	flagDebug    = pflag.BoolP("debug", "d", false, "debug logging, overrides LogLevel")

	swbService = servicemaker.ServiceMaker{
		User:               "swblink",
		UserGroups:         []string{"gpio", "i2c", "dialout"},
		ServicePath:        "/etc/systemd/system/swblink.service",
		ServiceDescription: "SwBlink service: switch selected LED blink controller. github.com/hubertat/swblink",
		ExecDir:            "/srv/swblink",
		ExecName:           "swblink",
	}
)

func main() {
	pflag.Parse()
	log.Info("swblink started", "version", Version, "build", Build)

	if *flagInstall {
		err := swbService.InstallService()
		if err != nil {
			log.Fatal("service install failed", "err", err)
		}
		log.Info("service installed!")
		return
	}

	err := run()
	if err != nil {
		log.Error("swblink stopped with error", "err", err)
		os.Exit(1)
	}
	log.Info("stopped")
}

func run() error {
	syncDuration, err := time.ParseDuration(*syncInterval)
	if err != nil {
		return errors.Wrapf(err, "invalid sync interval %s", *syncInterval)
	}

	sb, err := swblink.LoadConfig(*config)
	if err != nil {
		return errors.Wrapf(err, "can't load config file %s", *config)
	}
	if *flagDebug {
		sb.LogLevel = "debug"
	}
	err = sb.InitLogger(os.Stderr)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info("will init swblink drivers...")
	err = sb.InitDrivers(ctx)
	defer sb.Close()
	if err != nil {
		return errors.Wrap(err, "driver init failed")
	}

	log.Info("will init swblink IOs...")
	err = sb.InitIos()
	if err != nil {
		return errors.Wrap(err, "io init failed")
	}

	err = sb.InitController(ctx, Version)
	if err != nil {
		return errors.Wrap(err, "controller init failed")
	}

	sb.PrintIoStatus(os.Stdout)

	log.Info("running control loop", "sync", syncDuration)
	return sb.Run(ctx, syncDuration)
}
