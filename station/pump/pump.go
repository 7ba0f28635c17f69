// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pump implements the pump actor. A pump serves one transaction at a
// time: it reads the customer request from its mailbox, publishes it, waits
// for the attendant decision, dispenses from the matching tank and releases
// itself for the next customer.
package pump

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.gasstation.io/station/core"
	"go.gasstation.io/station/invariant"
	"go.gasstation.io/station/model"
	"go.gasstation.io/station/registry"
	"go.gasstation.io/station/statejson"
)

const (
	DefaultDispenseInterval = 100 * time.Millisecond
	DefaultResetPause       = 4 * time.Second
)

type Config struct {
	// DispenseInterval is the pause after every dispensed flow step.
	DispenseInterval time.Duration
	// ResetPause is how long a finished transaction stays on display.
	ResetPause time.Duration
}

func DefaultConfig() Config {
	return Config{
		DispenseInterval: DefaultDispenseInterval,
		ResetPause:       DefaultResetPause,
	}
}

type Pump struct {
	id       int
	slot     *registry.PumpSlot
	registry *registry.Registry
	config   Config

	mtx               sync.Mutex
	stateName         string
	stateLastModified time.Time
	served            int
}

func New(reg *registry.Registry, pumpID int, config Config) (*Pump, error) {
	slot, err := reg.Slot(pumpID)
	if err != nil {
		return nil, err
	}
	return &Pump{
		id:                pumpID,
		slot:              slot,
		registry:          reg,
		config:            config,
		stateName:         StartingStateName,
		stateLastModified: time.Now(),
	}, nil
}

func (p *Pump) ID() int { return p.id }

// Run arrives at the opening barrier and serves transactions until ctx is done.
func (p *Pump) Run(ctx context.Context) error {
	defer p.setState(StoppedStateName)

	if err := p.registry.Startup().PumpReady(ctx); err != nil {
		return err
	}
	log.WithField("pump", p.id).Debug("Pump open")

	for {
		if err := p.serve(ctx); err != nil {
			log.WithField("pump", p.id).WithError(err).Debug("Pump stopped")
			return err
		}
	}
}

func (p *Pump) serve(ctx context.Context) error {
	logger := log.WithField("pump", p.id)

	p.setState(AwaitingRequestStateName)
	request, err := p.slot.Requests().Take(ctx)
	if err != nil {
		return err
	}
	invariant.Checkf(request.PumpID == p.id, "pump %d received request for pump %d", p.id, request.PumpID)
	invariant.Checkf(request.Status == model.Pending, "pump %d received request in status %s", p.id, request.Status)

	// The ticket is taken before the record becomes visible to the attendant.
	ticket := p.slot.Approval().Ticket()

	p.setState(PublishedStateName)
	if err := p.publish(ctx, request); err != nil {
		return err
	}
	logger.WithFields(log.Fields{"customer": request.Name, "grade": request.Grade, "requested": request.RequestedVolume}).Info("Awaiting authorization")

	p.setState(AwaitingAuthorizationStateName)
	if err := p.slot.Approval().Wait(ctx, ticket); err != nil {
		return err
	}

	record := p.slot.Record()
	invariant.Checkf(record.ID == request.ID, "pump %d woken with foreign record %s", p.id, record.ID)
	invariant.Checkf(record.Status.Authorized(), "pump %d woken with record in status %s", p.id, record.Status)

	p.setState(DispensingStateName)
	record, err = p.dispense(ctx, record)
	if err != nil {
		return err
	}

	p.setState(FinalizingStateName)
	record.Status = model.Done
	if err := p.publish(ctx, record); err != nil {
		return err
	}
	logger.WithFields(log.Fields{"customer": record.Name, "received": record.ReceivedVolume, "cost": record.Cost}).Info("Transaction done")

	if err := core.Sleep(ctx, p.config.ResetPause); err != nil {
		return err
	}
	if err := p.publish(ctx, model.NewResetRecord()); err != nil {
		return err
	}

	p.mtx.Lock()
	p.served++
	p.mtx.Unlock()

	// Busy is cleared last: the next customer must find the reset record.
	return p.registry.ReleasePump(p.id)
}

func (p *Pump) dispense(ctx context.Context, record model.TransactionRecord) (model.TransactionRecord, error) {
	logger := log.WithFields(log.Fields{"pump": p.id, "customer": record.Name})

	if record.Status == model.Disapproved {
		logger.Info("Transaction declined by the attendant")
		return record, nil
	}

	tank, err := p.registry.TankFor(record.Grade)
	if err != nil {
		return record, err
	}
	if !tank.HasAtLeast(record.RequestedVolume) {
		logger.WithFields(log.Fields{"grade": record.Grade, "remaining": tank.ReadVolume(), "requested": record.RequestedVolume}).Warn("Not enough fuel, transaction ends without dispensing")
		return record, nil
	}

	for !record.Satisfied() {
		if !tank.DecrementStep() {
			logger.WithField("grade", record.Grade).Warn("Tank ran dry while dispensing")
			break
		}
		record.Dispense(tank.FlowStep())
		if err := p.publish(ctx, record); err != nil {
			return record, err
		}
		if err := core.Sleep(ctx, p.config.DispenseInterval); err != nil {
			return record, err
		}
	}
	return record, nil
}

// publish writes the record to the slot, then hands a copy to the monitor feed.
func (p *Pump) publish(ctx context.Context, record model.TransactionRecord) error {
	published := p.slot.Publish(record)
	return p.slot.Feed().Put(ctx, published)
}

func (p *Pump) setState(name string) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.stateName = name
	p.stateLastModified = time.Now()
}

// StateName returns the current state name.
func (p *Pump) StateName() string {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.stateName
}

// Served returns the number of completed transactions.
func (p *Pump) Served() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.served
}

// Describe returns pump description object for debugging purposes
func (p *Pump) Describe() statejson.PumpDescription {
	busy, _ := p.registry.Busy(p.id)

	p.mtx.Lock()
	defer p.mtx.Unlock()
	return statejson.PumpDescription{
		ID: p.id,
		State: statejson.StateDescription{
			Name:         p.stateName,
			LastModified: p.stateLastModified.UnixNano() / int64(time.Millisecond),
		},
		Busy:   busy,
		Served: p.served,
		Record: p.slot.Record().Describe(),
	}
}
