// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package history keeps archived transactions in arrival order. It lives in
// memory only and is lost on exit.
package history

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.gasstation.io/station/model"
)

const defaultBacklog = 16

type Ledger struct {
	incoming chan model.TransactionRecord

	mtx     sync.RWMutex
	records []model.TransactionRecord
}

func NewLedger() *Ledger {
	return &Ledger{incoming: make(chan model.TransactionRecord, defaultBacklog)}
}

// Submit queues an archived record for the recorder.
func (l *Ledger) Submit(ctx context.Context, record model.TransactionRecord) error {
	select {
	case l.incoming <- record:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run records submitted transactions until ctx is done.
func (l *Ledger) Run(ctx context.Context) error {
	for {
		select {
		case record := <-l.incoming:
			l.append(record)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Ledger) append(record model.TransactionRecord) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.records = append(l.records, record)
	log.WithFields(log.Fields{"pump": record.PumpID, "customer": record.Name, "cost": record.Cost}).Debug("Transaction archived")
}

func (l *Ledger) Len() int {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	return len(l.records)
}

// Snapshot returns every recorded transaction.
func (l *Ledger) Snapshot() []model.TransactionRecord {
	return l.Since(0)
}

// Since returns transactions recorded after the first n.
func (l *Ledger) Since(n int) []model.TransactionRecord {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	if n < 0 {
		n = 0
	}
	if n >= len(l.records) {
		return nil
	}
	return append([]model.TransactionRecord(nil), l.records[n:]...)
}
