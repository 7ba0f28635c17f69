// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package facility

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.gasstation.io/station/customer"
	"go.gasstation.io/station/model"
	"go.gasstation.io/station/pump"
	"go.gasstation.io/station/registry"
)

type nopRenderer struct{}

func (nopRenderer) RenderPump(int, model.TransactionRecord)    {}
func (nopRenderer) RenderTank(model.FuelGrade, float64, bool) {}

func testConfig(grade model.FuelGrade, liters float64) Config {
	config := DefaultConfig()
	config.NumPumps = 2
	config.Pump = pump.Config{DispenseInterval: time.Millisecond, ResetPause: 50 * time.Millisecond}
	config.Customer = customer.Config{AcquireRetry: time.Millisecond, PollInterval: time.Millisecond}
	config.TankPollInterval = time.Millisecond
	config.RefillInterval = 0
	config.Renderer = nopRenderer{}
	config.Chooser = customer.FixedChooser{CustomerName: "Songzhu", Card: "1357 2468 0000", FuelGrade: grade, Liters: liters}
	return config
}

func startFacility(t *testing.T, config Config) *Facility {
	f, err := New(config)
	require.NoError(t, err)
	require.NoError(t, f.Start(context.Background()))
	t.Cleanup(func() {
		f.Stop()
		assert.NoError(t, f.Wait())
	})
	return f
}

func approveWhenPending(t *testing.T, f *Facility, pumpID int) {
	require.Eventually(t, func() bool {
		ok, err := f.ApproveTransaction(pumpID)
		return err == nil && ok
	}, 2*time.Second, time.Millisecond)
}

func TestCustomerIsServedAndArchived(t *testing.T) {
	f := startFacility(t, testConfig(model.Oct91, 12))

	c := f.AcquireAndRunCustomer()
	require.NotNil(t, c)
	require.Eventually(t, func() bool { return f.StatusString(c) == customer.WaitForAuthStateName }, time.Second, time.Millisecond)

	pumpID := c.Record().PumpID
	approveWhenPending(t, f, pumpID)
	require.Eventually(t, func() bool { return f.StatusString(c) == customer.DriveAwayStateName }, 2*time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return len(f.History()) == 1 }, 2*time.Second, time.Millisecond)

	archived := f.History()[0]
	assert.Equal(t, model.Archived, archived.Status)
	assert.Equal(t, "Songzhu", archived.Name)
	assert.InDelta(t, 15.0, archived.ReceivedVolume, model.Epsilon)
	assert.InDelta(t, 15*4.9, archived.Cost, model.Epsilon)
	assert.Empty(t, f.HistorySince(1))

	volume, err := f.TankVolume(model.Oct91)
	require.NoError(t, err)
	assert.InDelta(t, 485.0, volume, model.Epsilon)

	require.NoError(t, f.RefillTank(context.Background(), model.Oct91))
	volume, err = f.TankVolume(model.Oct91)
	require.NoError(t, err)
	assert.Equal(t, 500.0, volume)

	require.Eventually(t, func() bool {
		rec, err := f.PublishedRecord(pumpID)
		return err == nil && rec.IsReset()
	}, time.Second, time.Millisecond)
}

func TestPriceChangeOnlyAffectsLaterTransactions(t *testing.T) {
	f := startFacility(t, testConfig(model.Oct87, 5))

	first := f.AcquireAndRunCustomer()
	require.NotNil(t, first)
	require.Eventually(t, func() bool { return f.StatusString(first) == customer.WaitForAuthStateName }, time.Second, time.Millisecond)

	require.NoError(t, f.SetUnitPrice(model.Oct87, 3.5))
	second := f.AcquireAndRunCustomer()
	require.NotNil(t, second)
	require.Eventually(t, func() bool { return f.StatusString(second) == customer.WaitForAuthStateName }, time.Second, time.Millisecond)

	assert.Equal(t, 4.1, first.Record().UnitPrice)
	assert.Equal(t, 3.5, second.Record().UnitPrice)
	p, err := f.UnitPrice(model.Oct87)
	require.NoError(t, err)
	assert.Equal(t, 3.5, p)

	assert.NotEqual(t, first.Record().PumpID, second.Record().PumpID)
	require.Eventually(t, func() bool {
		ok, err := f.DeclineTransaction(second.Record().PumpID)
		return err == nil && ok
	}, 2*time.Second, time.Millisecond)
	approveWhenPending(t, f, first.Record().PumpID)

	require.Eventually(t, func() bool { return len(f.History()) == 2 }, 2*time.Second, time.Millisecond)
}

func TestCustomerLimit(t *testing.T) {
	config := testConfig(model.Oct87, 5)
	config.MaxCustomers = 1
	f := startFacility(t, config)

	_, err := f.SpawnCustomer()
	require.NoError(t, err)
	_, err = f.SpawnCustomer()
	assert.True(t, errors.Is(err, ErrTooManyCustomers))
	assert.Nil(t, f.AcquireAndRunCustomer())
	assert.Equal(t, customer.NullStateName, f.StatusString(nil))
	assert.Len(t, f.Customers(), 1)
}

func TestInvalidRequestsLeaveStateUnchanged(t *testing.T) {
	f := startFacility(t, testConfig(model.Oct87, 5))

	_, err := f.ApproveTransaction(9)
	assert.True(t, errors.Is(err, registry.ErrOutOfRange))
	_, err = f.PublishedRecord(-1)
	assert.True(t, errors.Is(err, registry.ErrOutOfRange))
	assert.True(t, errors.Is(f.SetUnitPrice(model.InvalidGrade, 1), model.ErrInvalidGrade))
	assert.True(t, errors.Is(f.RefillTank(context.Background(), model.InvalidGrade), registry.ErrOutOfRange))

	ok, err := f.ApproveTransaction(0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStartTwice(t *testing.T) {
	f := startFacility(t, testConfig(model.Oct87, 5))
	assert.Equal(t, ErrAlreadyStarted, f.Start(context.Background()))
}

func TestStopOnParentCancel(t *testing.T) {
	f, err := New(testConfig(model.Oct87, 5))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, f.Start(ctx))
	cancel()

	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatal("station did not stop")
	}
	assert.NoError(t, f.Wait())
	_, err = f.SpawnCustomer()
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	f := startFacility(t, testConfig(model.Oct87, 5))
	desc := f.Describe()
	assert.True(t, desc.Open)
	assert.Len(t, desc.Pumps, 2)
	assert.Len(t, desc.Tanks, model.NumGrades)
	assert.Equal(t, 4.1, desc.Prices["Oct 87"])
	assert.Empty(t, desc.Customers)
	assert.Equal(t, 2, f.NumPumps())
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	for _, mutate := range []func(*Config){
		func(c *Config) { c.NumPumps = 0 },
		func(c *Config) { c.NumPumps = math.MaxUint16 + 1 },
		func(c *Config) { c.NumPumps = registry.MaxPumps + 1 },
		func(c *Config) { c.TankCapacity = 0 },
		func(c *Config) { c.FlowStep = 600 },
		func(c *Config) { c.LowFuelVolume = 501 },
		func(c *Config) { c.MaxCustomers = 0 },
	} {
		config := DefaultConfig()
		mutate(&config)
		assert.True(t, errors.Is(config.Validate(), ErrInvalidConfig))
	}

	config := DefaultConfig()
	config.Prices[2] = -1
	_, err := New(config)
	assert.Error(t, err)
}
