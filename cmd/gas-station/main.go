// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"go.gasstation.io/station/command"
	"go.gasstation.io/station/customer"
	"go.gasstation.io/station/facility"
	"go.gasstation.io/station/facility/standalone"
	"go.gasstation.io/station/logging"
	"go.gasstation.io/station/model"
	"go.gasstation.io/station/pump"

	log "github.com/sirupsen/logrus"
)

type options struct {
	LogLevel string `long:"log-level" env:"STATION_LOG_LEVEL" default:"info" description:"log level"`

	Pumps        int     `long:"pumps" env:"STATION_PUMPS" default:"6" description:"number of pumps"`
	TankCapacity float64 `long:"tank-capacity" default:"500" description:"capacity of every tank"`
	FlowStep     float64 `long:"flow-step" default:"5" description:"volume dispensed or refilled per step"`
	LowFuel      float64 `long:"low-fuel" default:"200" description:"volume under which a tank is flagged"`
	MaxCustomers int     `long:"max-customers" env:"STATION_MAX_CUSTOMERS" default:"100" description:"customers admitted over the station lifetime"`

	Price87 float64 `long:"price-87" default:"4.1" description:"unit price of Oct 87"`
	Price89 float64 `long:"price-89" default:"4.6" description:"unit price of Oct 89"`
	Price91 float64 `long:"price-91" default:"4.9" description:"unit price of Oct 91"`
	Price94 float64 `long:"price-94" default:"5.2" description:"unit price of Oct 94"`

	DispenseInterval time.Duration `long:"dispense-interval" default:"100ms" description:"pause after every dispensed step"`
	ResetPause       time.Duration `long:"reset-pause" default:"4s" description:"how long a finished transaction stays on a pump"`
	AcquireRetry     time.Duration `long:"acquire-retry" default:"50ms" description:"delay between two scans for a free pump"`
	PollInterval     time.Duration `long:"poll-interval" default:"50ms" description:"delay between two reads of a pump while fueling"`
	StepPause        time.Duration `long:"step-pause" default:"200ms" description:"time a customer spends on every local step"`
	TankPoll         time.Duration `long:"tank-poll" default:"250ms" description:"delay between two tank level reads"`
	RefillInterval   time.Duration `long:"refill-interval" default:"100ms" description:"pause after every refilled step"`

	Customers int    `long:"customers" default:"0" description:"customers sent at startup"`
	Seed      int64  `long:"seed" description:"random seed for customers, time based when 0"`
	AdminAddr string `long:"admin-addr" env:"STATION_ADMIN_ADDR" default:"0.0.0.0:8080" description:"admin API address, empty to disable"`
	NoShell   bool   `long:"no-shell" description:"do not read commands from stdin"`
}

func main() {
	opts := getCLIArgs()
	logging.SetLevel(opts.LogLevel)

	station, err := facility.New(opts.facilityConfig())
	if err != nil {
		log.WithError(err).Fatal("Invalid station configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go signalHandler([]context.CancelFunc{cancel})

	if err := station.Start(ctx); err != nil {
		log.WithError(err).Fatal("Failed to open the station")
	}

	for i := 0; i < opts.Customers; i++ {
		station.AcquireAndRunCustomer()
	}

	if opts.AdminAddr != "" {
		go startHTTPServer(ctx, opts.AdminAddr, standalone.NewHTTPRouter(ctx, station, cancel))
	}

	if !opts.NoShell {
		go func() {
			shell := command.NewShell(ctx, station, os.Stdout)
			if err := shell.Run(os.Stdin); err != nil && ctx.Err() == nil {
				log.WithError(err).Warn("Command shell stopped")
			}
			cancel()
		}()
	}

	select {
	case <-ctx.Done():
	case <-station.Done():
	}
	cancel()

	if err := station.Wait(); err != nil {
		log.WithError(err).Fatal("Station stopped with error")
	}
	log.Info("Station closed")
}

func getCLIArgs() options {
	opts, err := parseCLIArgs(os.Args)
	if err != nil {
		log.WithError(err).Fatal("Failed to parse command line arguments:", os.Args)
	}
	return opts
}

func parseCLIArgs(args []string) (options, error) {
	var opts options
	parser := flags.NewParser(&opts, flags.IgnoreUnknown)
	_, err := parser.ParseArgs(args)
	return opts, err
}

func (opts options) facilityConfig() facility.Config {
	config := facility.DefaultConfig()
	config.NumPumps = opts.Pumps
	config.TankCapacity = opts.TankCapacity
	config.FlowStep = opts.FlowStep
	config.LowFuelVolume = opts.LowFuel
	config.MaxCustomers = opts.MaxCustomers
	config.Prices = [model.NumGrades]float64{opts.Price87, opts.Price89, opts.Price91, opts.Price94}
	config.Pump = pump.Config{DispenseInterval: opts.DispenseInterval, ResetPause: opts.ResetPause}
	config.Customer = customer.Config{AcquireRetry: opts.AcquireRetry, PollInterval: opts.PollInterval, StepPause: opts.StepPause}
	config.TankPollInterval = opts.TankPoll
	config.RefillInterval = opts.RefillInterval
	if opts.Seed != 0 {
		config.Chooser = customer.NewRandomChooser(opts.Seed)
	}
	return config
}

// Trap SIGINT and SIGTERM signals and call shutdown function
func signalHandler(shutdownFuncs []context.CancelFunc) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	sigReceived := <-sig
	log.WithField("signal", sigReceived.String()).Info("Received signal")
	for _, shutdownFunc := range shutdownFuncs {
		shutdownFunc()
	}
}
