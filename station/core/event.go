// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"sync"
)

// Event is a broadcast signal with generation tickets.
type Event struct {
	cond       *sync.Cond
	generation uint64
}

// Ticket returns the current generation. Wait with this ticket returns after
// the next Signal, even if that Signal happens before Wait is called.
func (e *Event) Ticket() uint64 {
	e.cond.L.Lock()
	defer e.cond.L.Unlock()
	return e.generation
}

// Signal wakes every waiter holding a ticket older than the new generation.
func (e *Event) Signal() {
	e.cond.L.Lock()
	defer e.cond.L.Unlock()
	e.generation++
	e.cond.Broadcast()
}

// Signaled reports whether a Signal happened after ticket was taken.
func (e *Event) Signaled(ticket uint64) bool {
	e.cond.L.Lock()
	defer e.cond.L.Unlock()
	return e.generation > ticket
}

// Wait blocks until a Signal issued after ticket was taken, or until ctx is done.
func (e *Event) Wait(ctx context.Context, ticket uint64) error {
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-ctx.Done():
			// Take the lock so the broadcast cannot slip between the
			// waiter's check and its Wait call.
			e.cond.L.Lock()
			e.cond.Broadcast()
			e.cond.L.Unlock()
		case <-stop:
		}
	}()

	e.cond.L.Lock()
	defer e.cond.L.Unlock()
	for e.generation <= ticket {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.cond.Wait()
	}
	return nil
}

// NewEvent returns new Event instance.
func NewEvent() *Event {
	return &Event{cond: sync.NewCond(&sync.Mutex{})}
}
