// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package facility assembles a gas station and exposes the operations the
// command shell and the admin API drive it with.
package facility

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.gasstation.io/station/attendant"
	"go.gasstation.io/station/core"
	"go.gasstation.io/station/customer"
	"go.gasstation.io/station/history"
	"go.gasstation.io/station/model"
	"go.gasstation.io/station/monitor"
	"go.gasstation.io/station/price"
	"go.gasstation.io/station/pump"
	"go.gasstation.io/station/registry"
	"go.gasstation.io/station/statejson"
	"go.gasstation.io/station/tank"
	"golang.org/x/sync/errgroup"
)

var ErrTooManyCustomers = errors.New("customer limit reached")

var ErrAlreadyStarted = errors.New("station already started")

type Facility struct {
	config    Config
	registry  *registry.Registry
	prices    *price.Table
	attendant *attendant.Attendant
	ledger    *history.Ledger

	pumps       []*pump.Pump
	controllers []*monitor.Controller
	watchers    []*monitor.TankWatcher

	ctx      context.Context
	cancel   context.CancelFunc
	watchdog *core.Watchdog
	group    *errgroup.Group

	mtx       sync.Mutex
	started   bool
	customers []*customer.Customer
	running   sync.WaitGroup
}

func New(config Config) (*Facility, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Renderer == nil {
		config.Renderer = monitor.LogRenderer{}
	}
	if config.Chooser == nil {
		config.Chooser = customer.NewTimeSeededChooser()
	}

	tanks, err := tank.NewSet(config.TankCapacity, config.FlowStep)
	if err != nil {
		return nil, err
	}
	reg, err := registry.New(config.NumPumps, tanks)
	if err != nil {
		return nil, err
	}
	prices, err := price.NewTable(config.Prices)
	if err != nil {
		return nil, err
	}

	ledger := history.NewLedger()
	f := &Facility{
		config:    config,
		registry:  reg,
		prices:    prices,
		attendant: attendant.New(reg),
		ledger:    ledger,
	}

	for i := 0; i < config.NumPumps; i++ {
		p, err := pump.New(reg, i, config.Pump)
		if err != nil {
			return nil, err
		}
		c, err := monitor.NewController(reg, i, config.Renderer, ledger)
		if err != nil {
			return nil, err
		}
		f.pumps = append(f.pumps, p)
		f.controllers = append(f.controllers, c)
	}
	for _, grade := range model.Grades() {
		w, err := monitor.NewTankWatcher(reg, grade, config.LowFuelVolume, config.TankPollInterval, config.Renderer)
		if err != nil {
			return nil, err
		}
		f.watchers = append(f.watchers, w)
	}

	f.ctx, f.cancel = context.WithCancel(context.Background())
	f.watchdog = core.NewWatchdog(reg.Startup(), f.cancel)
	f.group, f.ctx = errgroup.WithContext(f.ctx)
	return f, nil
}

// Start launches every actor and opens the station once they all arrived.
// Canceling ctx shuts the station down.
func (f *Facility) Start(ctx context.Context) error {
	f.mtx.Lock()
	if f.started {
		f.mtx.Unlock()
		return ErrAlreadyStarted
	}
	f.started = true
	f.mtx.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			f.watchdog.CancelFlows(ctx.Err())
		case <-f.ctx.Done():
		}
	}()

	f.goActor("ledger", f.ledger.Run)
	for i := range f.pumps {
		f.goActor(fmt.Sprintf("pump-%d", i), f.pumps[i].Run)
		f.goActor(fmt.Sprintf("monitor-%d", i), f.controllers[i].Run)
	}
	for i, w := range f.watchers {
		f.goActor(fmt.Sprintf("tank-%d", i), w.Run)
	}

	if err := f.registry.Startup().DriverReady(f.ctx); err != nil {
		return err
	}
	log.WithFields(log.Fields{"pumps": len(f.pumps), "tanks": len(f.watchers)}).Info("Station open")
	return nil
}

// goActor runs an actor in the group. The first actor failing for any reason
// but shutdown stops the whole station.
func (f *Facility) goActor(name string, run func(context.Context) error) {
	f.group.Go(func() error {
		err := run(f.ctx)
		if err != nil && f.ctx.Err() == nil {
			log.WithError(err).WithField("actor", name).Error("Actor failed")
			f.watchdog.CancelFlows(err)
		}
		return err
	})
}

// Stop shuts the station down.
func (f *Facility) Stop() {
	f.watchdog.CancelFlows(context.Canceled)
}

// Wait blocks until every actor and customer stopped. It returns the error
// the station was stopped with, or nil on a regular shutdown.
func (f *Facility) Wait() error {
	f.group.Wait()
	f.running.Wait()

	err := f.watchdog.Err()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Done is closed once the station is shutting down.
func (f *Facility) Done() <-chan struct{} {
	return f.ctx.Done()
}

// SpawnCustomer starts one customer lifecycle in the background.
func (f *Facility) SpawnCustomer() (*customer.Customer, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if f.ctx.Err() != nil {
		return nil, f.ctx.Err()
	}
	if len(f.customers) >= f.config.MaxCustomers {
		return nil, fmt.Errorf("%w: %d", ErrTooManyCustomers, f.config.MaxCustomers)
	}

	c := customer.New(len(f.customers), f.registry, f.prices, f.config.Chooser, f.config.Customer)
	f.customers = append(f.customers, c)

	f.running.Add(1)
	go func() {
		defer f.running.Done()
		if err := c.Run(f.ctx); err != nil && f.ctx.Err() == nil {
			log.WithError(err).WithField("customer", c.Index()).Warn("Customer gave up")
		}
	}()
	return c, nil
}

// AcquireAndRunCustomer starts one customer lifecycle and returns its handle,
// or nil when no more customers can be admitted.
func (f *Facility) AcquireAndRunCustomer() *customer.Customer {
	c, err := f.SpawnCustomer()
	if err != nil {
		log.WithError(err).Warn("Customer not admitted")
		return nil
	}
	return c
}

// StatusString returns the display string of a customer state.
func (f *Facility) StatusString(c *customer.Customer) string {
	if c == nil {
		return customer.NullStateName
	}
	return c.Status()
}

func (f *Facility) Customers() []*customer.Customer {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return append([]*customer.Customer(nil), f.customers...)
}

func (f *Facility) ApproveTransaction(pumpID int) (bool, error) {
	return f.attendant.Approve(pumpID)
}

func (f *Facility) DeclineTransaction(pumpID int) (bool, error) {
	return f.attendant.Decline(pumpID)
}

// RefillTank tops the tank of grade up one flow step at a time.
func (f *Facility) RefillTank(ctx context.Context, grade model.FuelGrade) error {
	t, err := f.registry.TankFor(grade)
	if err != nil {
		return err
	}
	steps, err := t.Refill(ctx, f.config.RefillInterval)
	log.WithFields(log.Fields{"grade": grade, "steps": steps, "volume": t.ReadVolume()}).Info("Tank refill finished")
	return err
}

func (f *Facility) SetUnitPrice(grade model.FuelGrade, unitPrice float64) error {
	if err := f.prices.SetUnitPrice(grade, unitPrice); err != nil {
		return err
	}
	log.WithFields(log.Fields{"grade": grade, "price": unitPrice}).Info("Unit price changed")
	return nil
}

func (f *Facility) UnitPrice(grade model.FuelGrade) (float64, error) {
	return f.prices.UnitPrice(grade)
}

func (f *Facility) PublishedRecord(pumpID int) (model.TransactionRecord, error) {
	return f.registry.RecordFor(pumpID)
}

func (f *Facility) TankVolume(grade model.FuelGrade) (float64, error) {
	t, err := f.registry.TankFor(grade)
	if err != nil {
		return 0, err
	}
	return t.ReadVolume(), nil
}

func (f *Facility) NumPumps() int { return f.registry.NumPumps() }

// History returns archived transactions in arrival order.
func (f *Facility) History() []model.TransactionRecord {
	return f.ledger.Snapshot()
}

// HistorySince returns archived transactions after the first n.
func (f *Facility) HistorySince(n int) []model.TransactionRecord {
	return f.ledger.Since(n)
}

// Describe returns station description object for debugging purposes
func (f *Facility) Describe() statejson.StationDescription {
	desc := statejson.StationDescription{
		Open:        f.registry.Startup().Opened(),
		Pumps:       []statejson.PumpDescription{},
		Tanks:       []statejson.TankDescription{},
		Customers:   []statejson.CustomerDescription{},
		Prices:      map[string]float64{},
		HistorySize: f.ledger.Len(),
	}
	for _, p := range f.pumps {
		desc.Pumps = append(desc.Pumps, p.Describe())
	}
	for _, w := range f.watchers {
		desc.Tanks = append(desc.Tanks, w.Describe())
	}
	for _, c := range f.Customers() {
		desc.Customers = append(desc.Customers, c.Describe())
	}
	for i, p := range f.prices.Snapshot() {
		desc.Prices[model.FuelGrade(i).String()] = p
	}
	return desc
}
