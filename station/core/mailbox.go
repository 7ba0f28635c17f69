// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"sync"
)

// Mailbox is a single slot handoff between one or more writers and one reader.
type Mailbox[T any] struct {
	slot     chan T
	writeMtx sync.Mutex
}

// TryPut stores item if the slot is empty and returns ErrMailboxFull otherwise.
func (m *Mailbox[T]) TryPut(item T) error {
	m.writeMtx.Lock()
	defer m.writeMtx.Unlock()

	select {
	case m.slot <- item:
		return nil
	default:
		return ErrMailboxFull
	}
}

// Put blocks until the slot is free or ctx is done.
func (m *Mailbox[T]) Put(ctx context.Context, item T) error {
	select {
	case m.slot <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Take blocks until an item is available or ctx is done.
func (m *Mailbox[T]) Take(ctx context.Context) (T, error) {
	select {
	case item := <-m.slot:
		return item, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Pending reports whether an item waits in the slot.
func (m *Mailbox[T]) Pending() bool {
	return len(m.slot) > 0
}

// NewMailbox returns an empty mailbox.
func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{slot: make(chan T, 1)}
}
