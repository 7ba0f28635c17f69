// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"fmt"
	"math"
	"time"
)

const (
	UnknownName       = "___Unknown___"
	UnknownCardNumber = "0000 0000 0000"
	UnassignedPump    = -1

	// Epsilon is the tolerance used when comparing volumes and money.
	Epsilon = 1e-5
)

// TransactionRecord is the unit of work exchanged between a customer, its pump,
// the attendant and the monitor.
type TransactionRecord struct {
	ID              string
	Name            string
	CardNumber      string
	Grade           FuelGrade
	RequestedVolume float64
	ReceivedVolume  float64
	UnitPrice       float64
	Cost            float64
	PumpID          int
	Status          TxnStatus
	UpdatedAt       time.Time
}

// NewResetRecord returns the record a pump publishes while idle.
func NewResetRecord() TransactionRecord {
	return TransactionRecord{
		Name:       UnknownName,
		CardNumber: UnknownCardNumber,
		Grade:      InvalidGrade,
		PumpID:     UnassignedPump,
		Status:     Pending,
	}
}

// Reset restores r to the idle record in place.
func (r *TransactionRecord) Reset() {
	*r = NewResetRecord()
}

// IsReset reports whether r carries no transaction.
func (r TransactionRecord) IsReset() bool {
	return r.PumpID == UnassignedPump && r.Name == UnknownName
}

// Dispense adds step to the received volume and recomputes the cost.
func (r *TransactionRecord) Dispense(step float64) {
	r.ReceivedVolume += step
	r.Cost = r.ReceivedVolume * r.UnitPrice
}

// Satisfied reports whether the requested volume was delivered.
func (r TransactionRecord) Satisfied() bool {
	return r.ReceivedVolume+Epsilon >= r.RequestedVolume
}

// Equal compares every field, volumes and money within Epsilon.
// UpdatedAt is bookkeeping and is not compared.
func (r TransactionRecord) Equal(o TransactionRecord) bool {
	return r.ID == o.ID &&
		r.Name == o.Name &&
		r.CardNumber == o.CardNumber &&
		r.Grade == o.Grade &&
		r.PumpID == o.PumpID &&
		r.Status == o.Status &&
		floatEqual(r.RequestedVolume, o.RequestedVolume) &&
		floatEqual(r.ReceivedVolume, o.ReceivedVolume) &&
		floatEqual(r.UnitPrice, o.UnitPrice) &&
		floatEqual(r.Cost, o.Cost)
}

// Validate checks the structural invariants of a record.
func (r TransactionRecord) Validate() error {
	if r.IsReset() {
		return nil
	}
	if r.PumpID < 0 {
		return fmt.Errorf("record %s has no pump assigned", r.ID)
	}
	if !r.Grade.Valid() {
		return fmt.Errorf("record %s: %w", r.ID, ErrInvalidGrade)
	}
	if r.Status.Rank() > 0 && !floatEqual(r.Cost, r.ReceivedVolume*r.UnitPrice) {
		return fmt.Errorf("record %s: cost %.2f does not match %.2f x %.2f", r.ID, r.Cost, r.ReceivedVolume, r.UnitPrice)
	}
	return nil
}

func (r TransactionRecord) String() string {
	return fmt.Sprintf("%s card=%s pump=%d grade=%s requested=%.1f received=%.1f price=%.2f cost=%.2f status=%s",
		r.Name, r.CardNumber, r.PumpID, r.Grade, r.RequestedVolume, r.ReceivedVolume, r.UnitPrice, r.Cost, r.Status)
}

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}
