// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package registry owns every primitive shared between station actors: pump
// slots, tanks and the opening barrier. Actors receive the registry instead of
// looking primitives up by name.
package registry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.gasstation.io/station/core"
	"go.gasstation.io/station/invariant"
	"go.gasstation.io/station/model"
	"go.gasstation.io/station/tank"
)

// ErrOutOfRange returned for a pump or tank index the registry does not own.
var ErrOutOfRange = errors.New("index out of range")

var ErrNoPumps = errors.New("station needs at least one pump")

// MaxPumps is the largest pump count the opening barrier can hold next to one
// watcher per tank and the driver.
const MaxPumps = math.MaxUint16 - model.NumGrades - 1

var ErrTooManyPumps = fmt.Errorf("station supports at most %d pumps", MaxPumps)

// ErrTankLayout returned when tanks are not one per grade in grade order.
var ErrTankLayout = errors.New("exactly one tank per grade, in grade order, is required")

// DefaultAcquireRetry is the delay between two pump scans of a waiting customer.
const DefaultAcquireRetry = 50 * time.Millisecond

type Registry struct {
	// scanMtx serializes pump scans and guards every slot busy flag.
	scanMtx sync.Mutex
	slots   []*PumpSlot
	tanks   []*tank.Tank
	startup core.StartupFlowSynchronization
}

func New(numPumps int, tanks []*tank.Tank) (*Registry, error) {
	if numPumps <= 0 {
		return nil, ErrNoPumps
	}
	if numPumps > MaxPumps {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyPumps, numPumps)
	}
	if len(tanks) != model.NumGrades {
		return nil, fmt.Errorf("%w: got %d tanks", ErrTankLayout, len(tanks))
	}
	for i, t := range tanks {
		if t == nil || t.Grade().Index() != i {
			return nil, fmt.Errorf("%w: tank %d", ErrTankLayout, i)
		}
	}

	slots := make([]*PumpSlot, numPumps)
	for i := range slots {
		slots[i] = newPumpSlot(i)
	}

	return &Registry{
		slots:   slots,
		tanks:   tanks,
		startup: core.NewStartupFlowSynchronization(numPumps, len(tanks)),
	}, nil
}

func (r *Registry) NumPumps() int { return len(r.slots) }

// Tanks returns tanks in grade order.
func (r *Registry) Tanks() []*tank.Tank {
	return append([]*tank.Tank(nil), r.tanks...)
}

// Startup returns the opening barrier.
func (r *Registry) Startup() core.StartupFlowSynchronization { return r.startup }

func (r *Registry) Slot(pumpID int) (*PumpSlot, error) {
	if pumpID < 0 || pumpID >= len(r.slots) {
		return nil, fmt.Errorf("%w: pump %d", ErrOutOfRange, pumpID)
	}
	return r.slots[pumpID], nil
}

func (r *Registry) RecordFor(pumpID int) (model.TransactionRecord, error) {
	slot, err := r.Slot(pumpID)
	if err != nil {
		return model.TransactionRecord{}, err
	}
	return slot.Record(), nil
}

func (r *Registry) MailboxFor(pumpID int) (*core.Mailbox[model.TransactionRecord], error) {
	slot, err := r.Slot(pumpID)
	if err != nil {
		return nil, err
	}
	return slot.Requests(), nil
}

func (r *Registry) EventFor(pumpID int) (*core.Event, error) {
	slot, err := r.Slot(pumpID)
	if err != nil {
		return nil, err
	}
	return slot.Approval(), nil
}

func (r *Registry) FeedFor(pumpID int) (*core.Mailbox[model.TransactionRecord], error) {
	slot, err := r.Slot(pumpID)
	if err != nil {
		return nil, err
	}
	return slot.Feed(), nil
}

func (r *Registry) TankFor(grade model.FuelGrade) (*tank.Tank, error) {
	if !grade.Valid() {
		return nil, fmt.Errorf("%w: grade %v", ErrOutOfRange, grade)
	}
	return r.tanks[grade.Index()], nil
}

// TryAcquirePump claims the first free pump.
func (r *Registry) TryAcquirePump() (int, bool) {
	r.scanMtx.Lock()
	defer r.scanMtx.Unlock()

	for _, slot := range r.slots {
		if !slot.busy {
			slot.busy = true
			return slot.id, true
		}
	}
	return -1, false
}

// AcquirePump scans for a free pump every retry until one is claimed or ctx is done.
func (r *Registry) AcquirePump(ctx context.Context, retry time.Duration) (int, error) {
	if retry <= 0 {
		retry = DefaultAcquireRetry
	}
	for {
		if pumpID, ok := r.TryAcquirePump(); ok {
			return pumpID, nil
		}
		select {
		case <-ctx.Done():
			return -1, ctx.Err()
		case <-time.After(retry):
		}
	}
}

// ReleasePump marks a pump free. Only the pump itself releases, once per transaction.
func (r *Registry) ReleasePump(pumpID int) error {
	slot, err := r.Slot(pumpID)
	if err != nil {
		return err
	}

	r.scanMtx.Lock()
	defer r.scanMtx.Unlock()
	invariant.Checkf(slot.busy, "pump %d released while not busy", pumpID)
	slot.busy = false
	log.WithField("pump", pumpID).Debug("Pump released")
	return nil
}

func (r *Registry) Busy(pumpID int) (bool, error) {
	slot, err := r.Slot(pumpID)
	if err != nil {
		return false, err
	}

	r.scanMtx.Lock()
	defer r.scanMtx.Unlock()
	return slot.busy, nil
}

// FreePumps returns the number of pumps not held by a customer.
func (r *Registry) FreePumps() int {
	r.scanMtx.Lock()
	defer r.scanMtx.Unlock()

	free := 0
	for _, slot := range r.slots {
		if !slot.busy {
			free++
		}
	}
	return free
}
