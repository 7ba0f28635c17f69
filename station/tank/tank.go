// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package tank models the underground tanks, one per fuel grade.
package tank

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.gasstation.io/station/core"
	"go.gasstation.io/station/model"
)

var ErrInvalidCapacity = errors.New("tank capacity and flow step must be positive")

// Tank holds the remaining volume of a single grade. Operations never block
// waiting for fuel: running dry is a normal return value.
type Tank struct {
	grade     model.FuelGrade
	capacity  float64
	flowStep  float64
	mtx       sync.Mutex
	remaining float64
}

// New returns a full tank.
func New(grade model.FuelGrade, capacity, flowStep float64) (*Tank, error) {
	if !grade.Valid() {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidGrade, grade)
	}
	if capacity <= 0 || flowStep <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Tank{grade: grade, capacity: capacity, flowStep: flowStep, remaining: capacity}, nil
}

func (t *Tank) Grade() model.FuelGrade { return t.grade }
func (t *Tank) Capacity() float64      { return t.capacity }
func (t *Tank) FlowStep() float64      { return t.flowStep }

func (t *Tank) ReadVolume() float64 {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.remaining
}

// HasAtLeast reports whether volume can be served in full.
func (t *Tank) HasAtLeast(volume float64) bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.remaining+model.Epsilon >= volume
}

// DecrementStep removes one flow step if the tank holds at least that much.
func (t *Tank) DecrementStep() bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.remaining+model.Epsilon < t.flowStep {
		return false
	}
	t.remaining -= t.flowStep
	if t.remaining < 0 {
		t.remaining = 0
	}
	return true
}

// IncrementStep adds one flow step if it fits under capacity.
func (t *Tank) IncrementStep() bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.remaining+t.flowStep > t.capacity+model.Epsilon {
		return false
	}
	t.remaining += t.flowStep
	if t.remaining > t.capacity {
		t.remaining = t.capacity
	}
	return true
}

// Fill sets the remaining volume, clamped to [0, capacity].
func (t *Tank) Fill(volume float64) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	switch {
	case volume < 0:
		t.remaining = 0
	case volume > t.capacity:
		t.remaining = t.capacity
	default:
		t.remaining = volume
	}
}

// Refill adds flow steps, sleeping interval between them, until the next step
// would overflow or ctx is done. It returns the number of steps added.
func (t *Tank) Refill(ctx context.Context, interval time.Duration) (int, error) {
	steps := 0
	for {
		if err := ctx.Err(); err != nil {
			return steps, err
		}
		if !t.IncrementStep() {
			break
		}
		steps++
		if err := core.Sleep(ctx, interval); err != nil {
			return steps, err
		}
	}
	log.WithFields(log.Fields{"grade": t.grade, "steps": steps}).Debug("Tank refilled")
	return steps, nil
}

// NewSet returns one full tank per grade, in grade order.
func NewSet(capacity, flowStep float64) ([]*Tank, error) {
	tanks := make([]*Tank, 0, model.NumGrades)
	for _, grade := range model.Grades() {
		t, err := New(grade, capacity, flowStep)
		if err != nil {
			return nil, err
		}
		tanks = append(tanks, t)
	}
	return tanks, nil
}
