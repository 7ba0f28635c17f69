// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"sync"
	"time"

	"go.gasstation.io/station/core"
	"go.gasstation.io/station/invariant"
	"go.gasstation.io/station/model"
)

// PumpSlot is everything shared about one pump.
type PumpSlot struct {
	id int

	// busy is guarded by Registry.scanMtx.
	busy bool

	requests *core.Mailbox[model.TransactionRecord]
	approval *core.Event
	feed     *core.Mailbox[model.TransactionRecord]

	recordMtx sync.RWMutex
	record    model.TransactionRecord
}

func newPumpSlot(id int) *PumpSlot {
	return &PumpSlot{
		id:       id,
		requests: core.NewMailbox[model.TransactionRecord](),
		approval: core.NewEvent(),
		feed:     core.NewMailbox[model.TransactionRecord](),
		record:   model.NewResetRecord(),
	}
}

func (s *PumpSlot) ID() int { return s.id }

// Requests is the customer to pump handoff.
func (s *PumpSlot) Requests() *core.Mailbox[model.TransactionRecord] { return s.requests }

// Approval is signaled by the attendant after the record was authorized.
func (s *PumpSlot) Approval() *core.Event { return s.approval }

// Feed carries published records from the pump to its monitor.
func (s *PumpSlot) Feed() *core.Mailbox[model.TransactionRecord] { return s.feed }

// Record returns a snapshot of the published record.
func (s *PumpSlot) Record() model.TransactionRecord {
	s.recordMtx.RLock()
	defer s.recordMtx.RUnlock()
	return s.record
}

// Publish replaces the published record and returns the stored copy. A copy
// that does not round trip is a protocol violation.
func (s *PumpSlot) Publish(record model.TransactionRecord) model.TransactionRecord {
	s.recordMtx.Lock()
	defer s.recordMtx.Unlock()
	s.record = record
	s.record.UpdatedAt = time.Now()

	stored := s.record
	invariant.Checkf(stored.Equal(record), "pump %d published record does not round trip", s.id)
	return stored
}

// Update applies mutate to the published record under the write lock. The
// record is stored only when mutate returns true.
func (s *PumpSlot) Update(mutate func(*model.TransactionRecord) bool) (model.TransactionRecord, bool) {
	s.recordMtx.Lock()
	defer s.recordMtx.Unlock()

	candidate := s.record
	if !mutate(&candidate) {
		return s.record, false
	}
	candidate.UpdatedAt = time.Now()
	s.record = candidate
	return s.record, true
}
