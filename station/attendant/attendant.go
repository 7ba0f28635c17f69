// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package attendant authorizes pending transactions.
package attendant

import (
	log "github.com/sirupsen/logrus"
	"go.gasstation.io/station/invariant"
	"go.gasstation.io/station/model"
	"go.gasstation.io/station/registry"
)

type Attendant struct {
	registry *registry.Registry
}

func New(reg *registry.Registry) *Attendant {
	return &Attendant{registry: reg}
}

// Approve authorizes the transaction published on pumpID. It returns false,
// leaving the record untouched, when nothing is pending on that pump.
func (a *Attendant) Approve(pumpID int) (bool, error) {
	return a.decide(pumpID, model.Approved)
}

// Decline refuses the transaction published on pumpID. The pump then ends the
// transaction without dispensing.
func (a *Attendant) Decline(pumpID int) (bool, error) {
	return a.decide(pumpID, model.Disapproved)
}

func (a *Attendant) decide(pumpID int, decision model.TxnStatus) (bool, error) {
	slot, err := a.registry.Slot(pumpID)
	if err != nil {
		return false, err
	}

	if snapshot := slot.Record(); !awaitingDecision(snapshot) {
		log.WithFields(log.Fields{"pump": pumpID, "status": snapshot.Status}).Debug("Nothing to authorize")
		return false, nil
	}

	record, changed := slot.Update(func(r *model.TransactionRecord) bool {
		// The record may have moved on since the snapshot.
		if !awaitingDecision(*r) {
			return false
		}
		r.Status = decision
		return true
	})
	if !changed {
		return false, nil
	}
	invariant.Checkf(record.Status == decision, "pump %d authorization did not stick", pumpID)

	slot.Approval().Signal()
	log.WithFields(log.Fields{"pump": pumpID, "customer": record.Name, "decision": decision}).Info("Transaction authorized")
	return true, nil
}

func awaitingDecision(r model.TransactionRecord) bool {
	return r.Status == model.Pending && r.Name != model.UnknownName
}
