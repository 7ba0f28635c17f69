// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package invariant

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

type PanicViolationExecutor struct{}

var _ ViolationExecutor = (*PanicViolationExecutor)(nil)

func NewPanicViolationExecutor() *PanicViolationExecutor {
	return &PanicViolationExecutor{}
}

func (executor *PanicViolationExecutor) Exec(err ViolationError) {
	log.WithError(err).Error("Station protocol violated")
	panic(err)
}

// RecordingViolationExecutor keeps violations instead of panicking. Actor
// tests install it to assert that a misbehaving peer is detected.
type RecordingViolationExecutor struct {
	mtx        sync.Mutex
	violations []ViolationError
}

var _ ViolationExecutor = (*RecordingViolationExecutor)(nil)

func (executor *RecordingViolationExecutor) Exec(err ViolationError) {
	executor.mtx.Lock()
	defer executor.mtx.Unlock()
	executor.violations = append(executor.violations, err)
}

func (executor *RecordingViolationExecutor) Violations() []ViolationError {
	executor.mtx.Lock()
	defer executor.mtx.Unlock()
	return append([]ViolationError(nil), executor.violations...)
}
