// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	log "github.com/sirupsen/logrus"
	"go.gasstation.io/station/model"
)

// Renderer shows station state. It is called without any station lock held.
type Renderer interface {
	RenderPump(pumpID int, record model.TransactionRecord)
	RenderTank(grade model.FuelGrade, volume float64, lowFuel bool)
}

// LogRenderer writes status lines through logrus.
type LogRenderer struct{}

func (LogRenderer) RenderPump(pumpID int, record model.TransactionRecord) {
	if record.IsReset() {
		log.WithField("pump", pumpID).Info("Pump idle")
		return
	}
	log.WithFields(log.Fields{
		"pump":      pumpID,
		"customer":  record.Name,
		"card":      record.CardNumber,
		"grade":     record.Grade,
		"requested": record.RequestedVolume,
		"received":  record.ReceivedVolume,
		"cost":      record.Cost,
		"status":    record.Status,
	}).Info("Pump status")
}

func (LogRenderer) RenderTank(grade model.FuelGrade, volume float64, lowFuel bool) {
	entry := log.WithFields(log.Fields{"grade": grade, "volume": volume})
	if lowFuel {
		entry.Warn("Tank low on fuel")
		return
	}
	entry.Debug("Tank level")
}
