// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package customer implements the customer actor: claim a free pump, hand the
// request to it, wait for the attendant and watch the pump until the fuel is in.
package customer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.gasstation.io/station/core"
	"go.gasstation.io/station/invariant"
	"go.gasstation.io/station/model"
	"go.gasstation.io/station/price"
	"go.gasstation.io/station/registry"
	"go.gasstation.io/station/statejson"
)

const (
	DefaultPollInterval = 50 * time.Millisecond
	DefaultStepPause    = 200 * time.Millisecond
)

type Config struct {
	// AcquireRetry is the delay between two scans for a free pump.
	AcquireRetry time.Duration
	// PollInterval is the delay between two reads of the published record while fueling.
	PollInterval time.Duration
	// StepPause is spent in every local step (arriving, swiping, handling the hose).
	StepPause time.Duration
}

func DefaultConfig() Config {
	return Config{
		AcquireRetry: registry.DefaultAcquireRetry,
		PollInterval: DefaultPollInterval,
		StepPause:    DefaultStepPause,
	}
}

type Customer struct {
	index    int
	registry *registry.Registry
	prices   *price.Table
	chooser  Chooser
	config   Config

	mtx               sync.Mutex
	stateName         string
	stateLastModified time.Time
	record            model.TransactionRecord
}

func New(index int, reg *registry.Registry, prices *price.Table, chooser Chooser, config Config) *Customer {
	return &Customer{
		index:             index,
		registry:          reg,
		prices:            prices,
		chooser:           chooser,
		config:            config,
		stateName:         NullStateName,
		stateLastModified: time.Now(),
		record:            model.NewResetRecord(),
	}
}

func (c *Customer) Index() int { return c.index }

// Run executes the whole customer lifecycle once.
func (c *Customer) Run(ctx context.Context) error {
	logger := log.WithField("customer", c.index)

	c.setState(WaitForPumpStateName)
	if err := c.registry.Startup().AwaitOpen(ctx); err != nil {
		return err
	}
	pumpID, err := c.registry.AcquirePump(ctx, c.config.AcquireRetry)
	if err != nil {
		return err
	}
	slot, err := c.registry.Slot(pumpID)
	if err != nil {
		return err
	}

	c.setState(ArriveAtPumpStateName)
	c.updateRecord(func(r *model.TransactionRecord) {
		r.ID = uuid.New().String()
		r.Name = c.chooser.Name()
		r.PumpID = pumpID
	})
	if err := core.Sleep(ctx, c.config.StepPause); err != nil {
		return err
	}

	c.setState(SwipeCreditCardStateName)
	c.updateRecord(func(r *model.TransactionRecord) { r.CardNumber = c.chooser.CardNumber() })
	if err := core.Sleep(ctx, c.config.StepPause); err != nil {
		return err
	}

	c.setState(RemoveHoseStateName)
	if err := core.Sleep(ctx, c.config.StepPause); err != nil {
		return err
	}

	c.setState(SelectGradeStateName)
	grade := c.chooser.Grade()
	unitPrice, err := c.prices.UnitPrice(grade)
	if err != nil {
		return err
	}
	request := c.updateRecord(func(r *model.TransactionRecord) {
		r.Grade = grade
		r.UnitPrice = unitPrice
		r.RequestedVolume = c.chooser.Volume()
		r.Status = model.Pending
	})

	// The ticket is taken before the pump can see the request.
	ticket := slot.Approval().Ticket()
	if err := slot.Requests().TryPut(request); err != nil {
		invariant.Violatef("customer %d found the request slot of pump %d occupied", c.index, pumpID)
		return fmt.Errorf("pump %d: %w", pumpID, err)
	}
	logger.WithFields(log.Fields{"pump": pumpID, "name": request.Name, "grade": grade, "requested": request.RequestedVolume}).Info("Customer request placed")

	c.setState(WaitForAuthStateName)
	if err := slot.Approval().Wait(ctx, ticket); err != nil {
		return err
	}

	c.setState(GetFuelStateName)
	if err := c.fuel(ctx, slot, request.ID); err != nil {
		return err
	}

	c.setState(ReturnHoseStateName)
	if err := core.Sleep(ctx, c.config.StepPause); err != nil {
		return err
	}

	c.setState(DriveAwayStateName)
	final := c.Record()
	logger.WithFields(log.Fields{"pump": pumpID, "received": final.ReceivedVolume, "cost": final.Cost}).Info("Customer drove away")
	return nil
}

// fuel watches the published record until the request is satisfied, the
// transaction ends, or the pump moved on to another transaction.
func (c *Customer) fuel(ctx context.Context, slot *registry.PumpSlot, txnID string) error {
	for {
		published := slot.Record()
		if published.ID != txnID {
			return nil
		}
		c.updateRecord(func(r *model.TransactionRecord) {
			r.ReceivedVolume = published.ReceivedVolume
			r.Cost = published.Cost
			r.Status = published.Status
		})
		if published.Satisfied() || published.Status.Rank() >= model.Done.Rank() {
			return nil
		}
		if err := core.Sleep(ctx, c.config.PollInterval); err != nil {
			return err
		}
	}
}

func (c *Customer) updateRecord(mutate func(*model.TransactionRecord)) model.TransactionRecord {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	mutate(&c.record)
	return c.record
}

func (c *Customer) setState(name string) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.stateName = name
	c.stateLastModified = time.Now()
}

// Status returns the display string of the current state.
func (c *Customer) Status() string {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.stateName
}

// Record returns the customer's own copy of its transaction.
func (c *Customer) Record() model.TransactionRecord {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.record
}

// Describe returns customer description object for debugging purposes
func (c *Customer) Describe() statejson.CustomerDescription {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return statejson.CustomerDescription{
		Index:  c.index,
		Name:   c.record.Name,
		PumpID: c.record.PumpID,
		State: statejson.StateDescription{
			Name:         c.stateName,
			LastModified: c.stateLastModified.UnixNano() / int64(time.Millisecond),
		},
	}
}
