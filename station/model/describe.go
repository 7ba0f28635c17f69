// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"time"

	"go.gasstation.io/station/statejson"
)

// Describe returns the record description for debugging purposes
func (r TransactionRecord) Describe() statejson.RecordDescription {
	desc := statejson.RecordDescription{
		ID:              r.ID,
		Name:            r.Name,
		CardNumber:      r.CardNumber,
		Grade:           r.Grade.String(),
		RequestedVolume: r.RequestedVolume,
		ReceivedVolume:  r.ReceivedVolume,
		UnitPrice:       r.UnitPrice,
		Cost:            r.Cost,
		PumpID:          r.PumpID,
		Status:          r.Status.String(),
	}
	if !r.UpdatedAt.IsZero() {
		desc.UpdatedAt = r.UpdatedAt.UnixNano() / int64(time.Millisecond)
	}
	return desc
}
