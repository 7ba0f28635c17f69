// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.gasstation.io/station/invariant"
	"go.gasstation.io/station/model"
	"go.gasstation.io/station/tank"
)

func newTestRegistry(t *testing.T, numPumps int) *Registry {
	tanks, err := tank.NewSet(500, 5)
	require.NoError(t, err)
	r, err := New(numPumps, tanks)
	require.NoError(t, err)
	return r
}

func TestNewValidatesLayout(t *testing.T) {
	tanks, err := tank.NewSet(500, 5)
	require.NoError(t, err)

	_, err = New(0, tanks)
	assert.Equal(t, ErrNoPumps, err)

	for _, n := range []int{MaxPumps + 1, math.MaxUint16 + 1} {
		_, err = New(n, tanks)
		assert.True(t, errors.Is(err, ErrTooManyPumps))
	}

	_, err = New(6, tanks[:2])
	assert.True(t, errors.Is(err, ErrTankLayout))

	swapped := []*tank.Tank{tanks[1], tanks[0], tanks[2], tanks[3]}
	_, err = New(6, swapped)
	assert.True(t, errors.Is(err, ErrTankLayout))
}

func TestLargestStationWaitsForEveryParty(t *testing.T) {
	r := newTestRegistry(t, MaxPumps)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < model.NumGrades+1; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Startup().PumpReady(ctx)
		}()
	}
	assert.Equal(t, context.DeadlineExceeded, r.Startup().AwaitOpen(ctx))
	wg.Wait()
	assert.False(t, r.Startup().Opened())
}

func TestAccessorsRejectOutOfRange(t *testing.T) {
	r := newTestRegistry(t, 6)

	for _, id := range []int{-1, 6} {
		_, err := r.Slot(id)
		assert.True(t, errors.Is(err, ErrOutOfRange))
		_, err = r.RecordFor(id)
		assert.True(t, errors.Is(err, ErrOutOfRange))
		_, err = r.MailboxFor(id)
		assert.True(t, errors.Is(err, ErrOutOfRange))
		_, err = r.EventFor(id)
		assert.True(t, errors.Is(err, ErrOutOfRange))
		_, err = r.FeedFor(id)
		assert.True(t, errors.Is(err, ErrOutOfRange))
		_, err = r.Busy(id)
		assert.True(t, errors.Is(err, ErrOutOfRange))
		assert.True(t, errors.Is(r.ReleasePump(id), ErrOutOfRange))
	}

	_, err := r.TankFor(model.InvalidGrade)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	tk, err := r.TankFor(model.Oct91)
	require.NoError(t, err)
	assert.Equal(t, model.Oct91, tk.Grade())
}

func TestSlotsStartWithResetRecord(t *testing.T) {
	r := newTestRegistry(t, 3)
	for i := 0; i < r.NumPumps(); i++ {
		rec, err := r.RecordFor(i)
		require.NoError(t, err)
		assert.True(t, rec.IsReset())
	}
	assert.Len(t, r.Tanks(), model.NumGrades)
}

func TestConcurrentAcquireGrantsEachPumpOnce(t *testing.T) {
	const numPumps, numCustomers = 6, 40
	r := newTestRegistry(t, numPumps)

	var wg sync.WaitGroup
	var mtx sync.Mutex
	granted := map[int]int{}
	for i := 0; i < numCustomers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if id, ok := r.TryAcquirePump(); ok {
				mtx.Lock()
				granted[id]++
				mtx.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, granted, numPumps)
	for id, count := range granted {
		assert.Equal(t, 1, count, "pump %d", id)
	}
	assert.Equal(t, 0, r.FreePumps())
}

func TestTwoCustomersRaceForLastPump(t *testing.T) {
	r := newTestRegistry(t, 2)
	_, ok := r.TryAcquirePump()
	require.True(t, ok)

	results := make(chan bool, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, ok := r.TryAcquirePump()
			results <- ok
		}()
	}
	wins := 0
	for i := 0; i < 2; i++ {
		if <-results {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
}

func TestAcquirePumpWaitsForRelease(t *testing.T) {
	r := newTestRegistry(t, 1)
	id, ok := r.TryAcquirePump()
	require.True(t, ok)

	go func() {
		time.Sleep(20 * time.Millisecond)
		assert.NoError(t, r.ReleasePump(id))
	}()

	acquired, err := r.AcquirePump(context.Background(), time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, id, acquired)
	busy, err := r.Busy(id)
	require.NoError(t, err)
	assert.True(t, busy)
}

func TestAcquirePumpCanceled(t *testing.T) {
	r := newTestRegistry(t, 1)
	_, ok := r.TryAcquirePump()
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := r.AcquirePump(ctx, time.Millisecond)
	assert.Equal(t, context.DeadlineExceeded, err)
}

func TestReleaseIdlePumpIsViolation(t *testing.T) {
	rec := &invariant.RecordingViolationExecutor{}
	defer invariant.SetViolationExecutor(invariant.SetViolationExecutor(rec))

	r := newTestRegistry(t, 1)
	require.NoError(t, r.ReleasePump(0))
	assert.Len(t, rec.Violations(), 1)
}

func TestPublishAndUpdate(t *testing.T) {
	r := newTestRegistry(t, 1)
	slot, err := r.Slot(0)
	require.NoError(t, err)

	rec := model.TransactionRecord{ID: "txn", Name: "Bob", CardNumber: "1111 2222 3333", Grade: model.Oct87, RequestedVolume: 10, UnitPrice: 4.1, PumpID: 0}
	violations := &invariant.RecordingViolationExecutor{}
	prev := invariant.SetViolationExecutor(violations)
	stored := slot.Publish(rec)
	invariant.SetViolationExecutor(prev)

	assert.Empty(t, violations.Violations())
	assert.True(t, stored.Equal(rec))
	assert.False(t, stored.UpdatedAt.IsZero())
	assert.Equal(t, stored, slot.Record())
	assert.True(t, slot.Record().Equal(rec))

	_, changed := slot.Update(func(r *model.TransactionRecord) bool {
		if r.Status != model.Pending {
			return false
		}
		r.Status = model.Approved
		return true
	})
	assert.True(t, changed)
	assert.Equal(t, model.Approved, slot.Record().Status)

	unchanged, changed := slot.Update(func(r *model.TransactionRecord) bool {
		r.Status = model.Archived
		return false
	})
	assert.False(t, changed)
	assert.Equal(t, model.Approved, unchanged.Status)
	assert.Equal(t, model.Approved, slot.Record().Status)
}
