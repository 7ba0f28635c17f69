// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package pump

// String values of possible pump states
const (
	StartingStateName = "Starting"
	// StartingState -> AwaitingRequestState, once the station opened
	AwaitingRequestStateName       = "AwaitingRequest"
	PublishedStateName             = "Published"
	AwaitingAuthorizationStateName = "AwaitingAuthorization"
	DispensingStateName            = "Dispensing"
	// FinalizingState -> AwaitingRequestState, after the pump was released
	FinalizingStateName = "Finalizing"
	StoppedStateName    = "Stopped"
)
