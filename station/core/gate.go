// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"math"
	"sync"
)

const maxGateCount uint16 = math.MaxUint16

// Gate is a counting barrier.
type Gate interface {
	Register(count uint16)
	Reset()
	SetCount(uint16) error
	Count() uint16
	Arrived() uint16
	WalkThrough() error
	AwaitGateCondition(ctx context.Context) error
	Rendezvous(ctx context.Context) error
	CancelWithError(error)
	Clear()
}

type gateImpl struct {
	gateCondition *sync.Cond
	count         uint16
	arrived       uint16
	canceled      bool
	err           error
}

// Register adds count parties expected at the gate.
func (g *gateImpl) Register(count uint16) {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()
	g.count += count
}

func (g *gateImpl) SetCount(count uint16) error {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()

	if count > maxGateCount || count < g.arrived {
		return ErrGateIntegrity
	}
	g.count = count
	if g.arrived == g.count {
		g.gateCondition.Broadcast()
	}
	return nil
}

func (g *gateImpl) Count() uint16 {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()
	return g.count
}

func (g *gateImpl) Arrived() uint16 {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()
	return g.arrived
}

func (g *gateImpl) Reset() {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()
	if !g.canceled {
		g.arrived = 0
	}
}

// WalkThrough records one arrival. The last arrival releases every waiter.
func (g *gateImpl) WalkThrough() error {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()

	if g.arrived == g.count {
		return ErrGateIntegrity
	}

	g.arrived++

	if g.arrived == g.count {
		g.gateCondition.Broadcast()
	}

	return nil
}

// AwaitGateCondition blocks until every registered party walked through the
// gate, the gate is canceled, or ctx is done. A done context only releases
// this waiter.
func (g *gateImpl) AwaitGateCondition(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-ctx.Done():
			g.gateCondition.L.Lock()
			g.gateCondition.Broadcast()
			g.gateCondition.L.Unlock()
		case <-stop:
		}
	}()

	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()

	for g.arrived != g.count && !g.canceled {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.gateCondition.Wait()
	}

	if g.canceled {
		if g.err != nil {
			return g.err
		}
		return ErrGateCanceled
	}

	return nil
}

// Rendezvous walks through the gate and waits for the other parties.
func (g *gateImpl) Rendezvous(ctx context.Context) error {
	if err := g.WalkThrough(); err != nil {
		return err
	}
	return g.AwaitGateCondition(ctx)
}

func (g *gateImpl) CancelWithError(err error) {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()
	g.canceled = true
	g.err = err
	g.gateCondition.Broadcast()
}

func (g *gateImpl) Clear() {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()

	g.canceled = false
	g.arrived = 0
	g.err = nil
}

// NewGate returns a gate expecting count parties.
func NewGate(count uint16) Gate {
	return &gateImpl{
		count:         count,
		gateCondition: sync.NewCond(&sync.Mutex{}),
	}
}
