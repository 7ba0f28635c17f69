// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package facility

import (
	"errors"
	"fmt"
	"time"

	"go.gasstation.io/station/customer"
	"go.gasstation.io/station/model"
	"go.gasstation.io/station/monitor"
	"go.gasstation.io/station/price"
	"go.gasstation.io/station/pump"
	"go.gasstation.io/station/registry"
)

const (
	DefaultNumPumps       = 6
	DefaultTankCapacity   = 500.0
	DefaultFlowStep       = 5.0
	DefaultLowFuelVolume  = 200.0
	DefaultMaxCustomers   = 100
	DefaultRefillInterval = 100 * time.Millisecond
)

var ErrInvalidConfig = errors.New("invalid station configuration")

type Config struct {
	NumPumps      int
	TankCapacity  float64
	FlowStep      float64
	LowFuelVolume float64
	MaxCustomers  int
	Prices        [model.NumGrades]float64

	Pump             pump.Config
	Customer         customer.Config
	TankPollInterval time.Duration
	RefillInterval   time.Duration

	// Renderer defaults to monitor.LogRenderer.
	Renderer monitor.Renderer
	// Chooser defaults to a time seeded random chooser.
	Chooser customer.Chooser
}

func DefaultConfig() Config {
	return Config{
		NumPumps:         DefaultNumPumps,
		TankCapacity:     DefaultTankCapacity,
		FlowStep:         DefaultFlowStep,
		LowFuelVolume:    DefaultLowFuelVolume,
		MaxCustomers:     DefaultMaxCustomers,
		Prices:           price.DefaultPrices,
		Pump:             pump.DefaultConfig(),
		Customer:         customer.DefaultConfig(),
		TankPollInterval: monitor.DefaultTankPollInterval,
		RefillInterval:   DefaultRefillInterval,
	}
}

func (c Config) Validate() error {
	switch {
	case c.NumPumps <= 0:
		return fmt.Errorf("%w: pumps must be positive, got %d", ErrInvalidConfig, c.NumPumps)
	case c.NumPumps > registry.MaxPumps:
		return fmt.Errorf("%w: at most %d pumps, got %d", ErrInvalidConfig, registry.MaxPumps, c.NumPumps)
	case c.TankCapacity <= 0 || c.FlowStep <= 0:
		return fmt.Errorf("%w: tank capacity and flow step must be positive", ErrInvalidConfig)
	case c.FlowStep > c.TankCapacity:
		return fmt.Errorf("%w: flow step %.1f exceeds tank capacity %.1f", ErrInvalidConfig, c.FlowStep, c.TankCapacity)
	case c.LowFuelVolume < 0 || c.LowFuelVolume > c.TankCapacity:
		return fmt.Errorf("%w: low fuel volume %.1f outside [0, %.1f]", ErrInvalidConfig, c.LowFuelVolume, c.TankCapacity)
	case c.MaxCustomers <= 0:
		return fmt.Errorf("%w: max customers must be positive", ErrInvalidConfig)
	}
	return nil
}
