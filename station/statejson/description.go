// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package statejson

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
)

// StateDescription ...
type StateDescription struct {
	Name         string `json:"name"`
	LastModified int64  `json:"lastModified"`
}

// RecordDescription is a published transaction record.
type RecordDescription struct {
	ID              string  `json:"id,omitempty"`
	Name            string  `json:"name"`
	CardNumber      string  `json:"cardNumber"`
	Grade           string  `json:"grade"`
	RequestedVolume float64 `json:"requestedVolume"`
	ReceivedVolume  float64 `json:"receivedVolume"`
	UnitPrice       float64 `json:"unitPrice"`
	Cost            float64 `json:"cost"`
	PumpID          int     `json:"pumpId"`
	Status          string  `json:"status"`
	UpdatedAt       int64   `json:"updatedAt,omitempty"`
}

// PumpDescription ...
type PumpDescription struct {
	ID     int               `json:"id"`
	State  StateDescription  `json:"state"`
	Busy   bool              `json:"busy"`
	Served int               `json:"served"`
	Record RecordDescription `json:"record"`
}

// TankDescription ...
type TankDescription struct {
	Grade    string  `json:"grade"`
	Volume   float64 `json:"volume"`
	Capacity float64 `json:"capacity"`
	LowFuel  bool    `json:"lowFuel"`
}

// CustomerDescription ...
type CustomerDescription struct {
	Index  int              `json:"index"`
	Name   string           `json:"name"`
	PumpID int              `json:"pumpId"`
	State  StateDescription `json:"state"`
}

// StationDescription describes every actor of the station for debugging purposes
type StationDescription struct {
	Open        bool                  `json:"open"`
	Pumps       []PumpDescription     `json:"pumps"`
	Tanks       []TankDescription     `json:"tanks"`
	Customers   []CustomerDescription `json:"customers"`
	Prices      map[string]float64    `json:"prices"`
	HistorySize int                   `json:"historySize"`
}

func (s *StationDescription) AsJSON() []byte {
	bytes, err := json.Marshal(s)
	if err != nil {
		log.Panicf("Failed to marshall station state: %s", err)
	}
	return bytes
}
