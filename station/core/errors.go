// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import "errors"

var ErrGateIntegrity = errors.New("ErrGateIntegrity")

var ErrGateCanceled = errors.New("ErrGateCanceled")

// ErrMailboxFull returned by TryPut when the previous item was not taken yet.
var ErrMailboxFull = errors.New("mailbox slot is occupied")
