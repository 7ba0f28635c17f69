// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package customer

// Display strings of possible customer states, in lifecycle order
const (
	NullStateName            = "Null"
	WaitForPumpStateName     = "Wait for pump"
	ArriveAtPumpStateName    = "Arrive at pump"
	SwipeCreditCardStateName = "Swipe credit card"
	RemoveHoseStateName      = "Remove gas hose"
	SelectGradeStateName     = "Select fuel grade"
	WaitForAuthStateName     = "Wait for auth"
	GetFuelStateName         = "Getting fuel"
	ReturnHoseStateName      = "Return gas hose"
	DriveAwayStateName       = "Drive away"
)
