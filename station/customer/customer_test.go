// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package customer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.gasstation.io/station/attendant"
	"go.gasstation.io/station/model"
	"go.gasstation.io/station/price"
	"go.gasstation.io/station/pump"
	"go.gasstation.io/station/registry"
	"go.gasstation.io/station/tank"
	"golang.org/x/sync/errgroup"
)

var testConfig = Config{AcquireRetry: time.Millisecond, PollInterval: time.Millisecond}

type station struct {
	reg       *registry.Registry
	prices    *price.Table
	attendant *attendant.Attendant
	ctx       context.Context
}

// openStation runs numPumps pumps with drained feeds and opens the barrier.
func openStation(t *testing.T, numPumps int) *station {
	tanks, err := tank.NewSet(500, 5)
	require.NoError(t, err)
	reg, err := registry.New(numPumps, tanks)
	require.NoError(t, err)
	prices, err := price.NewTable(price.DefaultPrices)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	for i := 0; i < numPumps; i++ {
		p, err := pump.New(reg, i, pump.Config{DispenseInterval: time.Millisecond, ResetPause: 100 * time.Millisecond})
		require.NoError(t, err)
		go p.Run(ctx)

		feed, err := reg.FeedFor(i)
		require.NoError(t, err)
		go func() {
			for {
				if _, err := feed.Take(ctx); err != nil {
					return
				}
			}
		}()
	}
	for i := 0; i < model.NumGrades; i++ {
		go reg.Startup().TankWatcherReady(ctx)
	}

	return &station{reg: reg, prices: prices, attendant: attendant.New(reg), ctx: ctx}
}

func (s *station) open(t *testing.T) {
	require.NoError(t, s.reg.Startup().DriverReady(s.ctx))
}

func (s *station) approveWhenPending(t *testing.T, pumpID int) {
	require.Eventually(t, func() bool {
		ok, err := s.attendant.Approve(pumpID)
		return err == nil && ok
	}, 2*time.Second, time.Millisecond)
}

func TestCustomerLifecycle(t *testing.T) {
	s := openStation(t, 1)
	s.open(t)

	chooser := FixedChooser{CustomerName: "Tippy", Card: "1234 5678 9012", FuelGrade: model.Oct91, Liters: 12}
	c := New(0, s.reg, s.prices, chooser, testConfig)
	assert.Equal(t, NullStateName, c.Status())

	var errg errgroup.Group
	errg.Go(func() error { return c.Run(s.ctx) })

	require.Eventually(t, func() bool { return c.Status() == WaitForAuthStateName }, time.Second, time.Millisecond)
	s.approveWhenPending(t, 0)
	require.NoError(t, errg.Wait())

	assert.Equal(t, DriveAwayStateName, c.Status())
	rec := c.Record()
	assert.Equal(t, "Tippy", rec.Name)
	assert.Equal(t, 0, rec.PumpID)
	assert.Equal(t, 4.9, rec.UnitPrice)
	assert.InDelta(t, 15.0, rec.ReceivedVolume, model.Epsilon)
	assert.InDelta(t, 15*4.9, rec.Cost, model.Epsilon)
	assert.NotEmpty(t, rec.ID)

	desc := c.Describe()
	assert.Equal(t, DriveAwayStateName, desc.State.Name)
	assert.Equal(t, "Tippy", desc.Name)
}

func TestCustomerWaitsForOpening(t *testing.T) {
	s := openStation(t, 1)
	c := New(0, s.reg, s.prices, FixedChooser{CustomerName: "Eve", Card: "0000 1111 2222", FuelGrade: model.Oct87, Liters: 5}, testConfig)

	var errg errgroup.Group
	errg.Go(func() error { return c.Run(s.ctx) })

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, WaitForPumpStateName, c.Status())
	busy, err := s.reg.Busy(0)
	require.NoError(t, err)
	assert.False(t, busy)

	s.open(t)
	s.approveWhenPending(t, 0)
	assert.NoError(t, errg.Wait())
}

func TestCustomersShareSinglePump(t *testing.T) {
	s := openStation(t, 1)
	s.open(t)

	chooser := FixedChooser{CustomerName: "Mia", Card: "4444 5555 6666", FuelGrade: model.Oct89, Liters: 10}
	first := New(0, s.reg, s.prices, chooser, testConfig)
	second := New(1, s.reg, s.prices, chooser, testConfig)

	var errg errgroup.Group
	errg.Go(func() error { return first.Run(s.ctx) })
	errg.Go(func() error { return second.Run(s.ctx) })

	for i := 0; i < 2; i++ {
		s.approveWhenPending(t, 0)
	}
	require.NoError(t, errg.Wait())

	for _, c := range []*Customer{first, second} {
		assert.Equal(t, DriveAwayStateName, c.Status())
		assert.InDelta(t, 10.0, c.Record().ReceivedVolume, model.Epsilon)
	}
	assert.NotEqual(t, first.Record().ID, second.Record().ID)
}

func TestCustomerStopsOnCancel(t *testing.T) {
	s := openStation(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	c := New(0, s.reg, s.prices, NewRandomChooser(1), testConfig)

	errc := make(chan error, 1)
	go func() { errc <- c.Run(ctx) }()
	cancel()
	assert.Equal(t, context.Canceled, <-errc)
}

func TestRandomChooserBounds(t *testing.T) {
	chooser := NewRandomChooser(42)
	for i := 0; i < 200; i++ {
		v := chooser.Volume()
		assert.True(t, v >= MinVolume && v <= MaxVolume, "volume %v", v)
		assert.True(t, chooser.Grade().Valid())
		card := chooser.CardNumber()
		assert.Len(t, card, 14)
		assert.Len(t, strings.Fields(card), 3)
		assert.Contains(t, names, chooser.Name())
	}
}
