// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package statejson

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStationDescriptionAsJSON(t *testing.T) {
	desc := StationDescription{
		Open: true,
		Pumps: []PumpDescription{{
			ID:     1,
			State:  StateDescription{Name: "Dispensing", LastModified: 42},
			Busy:   true,
			Record: RecordDescription{Name: "Alice", Grade: "Oct 87", PumpID: 1, Status: "Approved"},
		}},
		Tanks:  []TankDescription{{Grade: "Oct 87", Volume: 150, Capacity: 500, LowFuel: true}},
		Prices: map[string]float64{"Oct 87": 4.1},
	}

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(desc.AsJSON(), &decoded))
	assert.Equal(t, true, decoded["open"])

	pumps := decoded["pumps"].([]interface{})
	require.Len(t, pumps, 1)
	pump := pumps[0].(map[string]interface{})
	assert.Equal(t, "Dispensing", pump["state"].(map[string]interface{})["name"])
	assert.Equal(t, "Alice", pump["record"].(map[string]interface{})["name"])
	assert.NotContains(t, pump["record"], "id")
}
