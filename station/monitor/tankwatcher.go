// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.gasstation.io/station/core"
	"go.gasstation.io/station/model"
	"go.gasstation.io/station/registry"
	"go.gasstation.io/station/statejson"
	"go.gasstation.io/station/tank"
)

const DefaultTankPollInterval = 250 * time.Millisecond

// TankWatcher follows the volume of one tank and flags low fuel.
type TankWatcher struct {
	tank     *tank.Tank
	startup  core.StartupFlowSynchronization
	renderer Renderer
	lowFuel  float64
	interval time.Duration

	mtx sync.Mutex
	low bool
}

func NewTankWatcher(reg *registry.Registry, grade model.FuelGrade, lowFuel float64, interval time.Duration, renderer Renderer) (*TankWatcher, error) {
	t, err := reg.TankFor(grade)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = DefaultTankPollInterval
	}
	return &TankWatcher{
		tank:     t,
		startup:  reg.Startup(),
		renderer: renderer,
		lowFuel:  lowFuel,
		interval: interval,
	}, nil
}

// Run arrives at the opening barrier and polls the tank until ctx is done.
func (w *TankWatcher) Run(ctx context.Context) error {
	if err := w.startup.TankWatcherReady(ctx); err != nil {
		return err
	}

	last := -1.0
	for {
		volume := w.tank.ReadVolume()
		low := volume < w.lowFuel

		w.mtx.Lock()
		crossed := low != w.low
		w.low = low
		w.mtx.Unlock()

		if crossed && low {
			log.WithFields(log.Fields{"grade": w.tank.Grade(), "volume": volume}).Warn("Low fuel, refill required")
		}
		if volume != last {
			w.renderer.RenderTank(w.tank.Grade(), volume, low)
			last = volume
		}

		if err := core.Sleep(ctx, w.interval); err != nil {
			return err
		}
	}
}

// LowFuel reports whether the last poll found the tank under the threshold.
func (w *TankWatcher) LowFuel() bool {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	return w.low
}

// Describe returns tank description object for debugging purposes
func (w *TankWatcher) Describe() statejson.TankDescription {
	return statejson.TankDescription{
		Grade:    w.tank.Grade().String(),
		Volume:   w.tank.ReadVolume(),
		Capacity: w.tank.Capacity(),
		LowFuel:  w.LowFuel(),
	}
}
