// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"math"

	"go.gasstation.io/station/invariant"
)

// StartupFlowSynchronization wraps the station opening barrier.
type StartupFlowSynchronization interface {
	// PumpReady is called once by every pump before it reads its first request.
	PumpReady(ctx context.Context) error
	// TankWatcherReady is called once by every tank watcher.
	TankWatcherReady(ctx context.Context) error
	// DriverReady is called by the process driving the station after it launched every actor.
	DriverReady(ctx context.Context) error
	// AwaitOpen blocks a customer until the station is open.
	AwaitOpen(ctx context.Context) error
	Opened() bool
	CancelWithError(error)
}

type startupFlowSynchronizationImpl struct {
	barrier Gate
}

func (s *startupFlowSynchronizationImpl) PumpReady(ctx context.Context) error {
	return s.barrier.Rendezvous(ctx)
}

func (s *startupFlowSynchronizationImpl) TankWatcherReady(ctx context.Context) error {
	return s.barrier.Rendezvous(ctx)
}

func (s *startupFlowSynchronizationImpl) DriverReady(ctx context.Context) error {
	return s.barrier.Rendezvous(ctx)
}

func (s *startupFlowSynchronizationImpl) AwaitOpen(ctx context.Context) error {
	return s.barrier.AwaitGateCondition(ctx)
}

func (s *startupFlowSynchronizationImpl) Opened() bool {
	return s.barrier.Arrived() == s.barrier.Count()
}

// CancelWithError releases every party blocked at the barrier with err.
func (s *startupFlowSynchronizationImpl) CancelWithError(err error) {
	s.barrier.CancelWithError(err)
}

// NewStartupFlowSynchronization returns a flow expecting numPumps pumps,
// numTanks tank watchers and a single driver.
func NewStartupFlowSynchronization(numPumps, numTanks int) StartupFlowSynchronization {
	parties := numPumps + numTanks + 1
	invariant.Checkf(numPumps >= 0 && numTanks >= 0 && parties <= math.MaxUint16,
		"startup barrier cannot count %d pumps and %d tank watchers", numPumps, numTanks)
	return &startupFlowSynchronizationImpl{
		barrier: NewGate(uint16(parties)),
	}
}
