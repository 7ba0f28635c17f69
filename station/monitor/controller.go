// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package monitor observes the station: a controller per pump consumes the
// records the pump publishes, and a watcher per tank follows its volume.
package monitor

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.gasstation.io/station/invariant"
	"go.gasstation.io/station/model"
	"go.gasstation.io/station/registry"
)

// Archive receives finished transactions.
type Archive interface {
	Submit(ctx context.Context, record model.TransactionRecord) error
}

// Controller consumes the feed of a single pump.
type Controller struct {
	slot     *registry.PumpSlot
	renderer Renderer
	archive  Archive
}

func NewController(reg *registry.Registry, pumpID int, renderer Renderer, archive Archive) (*Controller, error) {
	slot, err := reg.Slot(pumpID)
	if err != nil {
		return nil, err
	}
	return &Controller{slot: slot, renderer: renderer, archive: archive}, nil
}

// Run consumes published records until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	last := model.NewResetRecord()
	for {
		record, err := c.slot.Feed().Take(ctx)
		if err != nil {
			return err
		}

		if record.ID != "" && record.ID == last.ID {
			invariant.Checkf(record.Status.Rank() >= last.Status.Rank(),
				"pump %d status went back from %s to %s", c.slot.ID(), last.Status, record.Status)
		}
		if !record.Equal(last) {
			c.renderer.RenderPump(c.slot.ID(), record)
		}
		last = record

		if record.Status == model.Done {
			if err := c.archive.Submit(ctx, c.archiveRecord(record)); err != nil {
				return err
			}
		}
	}
}

// archiveRecord marks the published record archived, if the pump still shows it.
func (c *Controller) archiveRecord(done model.TransactionRecord) model.TransactionRecord {
	_, changed := c.slot.Update(func(r *model.TransactionRecord) bool {
		if r.ID != done.ID || r.Status != model.Done {
			return false
		}
		r.Status = model.Archived
		return true
	})
	if !changed {
		log.WithFields(log.Fields{"pump": c.slot.ID(), "txn": done.ID}).Debug("Pump moved on before archiving")
	}
	done.Status = model.Archived
	return done
}
