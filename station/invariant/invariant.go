// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package invariant reports protocol violations between station actors.
// A violation means the coordination protocol itself is broken (a torn record
// copy, a pump woken with a record that was never authorized, a pump released
// twice); those are not recoverable and by default panic.
package invariant

import (
	"fmt"
	"sync"
)

func Check(cond bool, statement string) {
	if !cond {
		Violate(statement)
	}
}

func Checkf(cond bool, format string, args ...any) {
	if !cond {
		Violatef(format, args...)
	}
}

func Violate(statement string) {
	std.mtx.Lock()
	executor := std.executor
	std.mtx.Unlock()

	executor.Exec(ViolationError{Statement: statement})
}

func Violatef(format string, args ...any) {
	Violate(fmt.Sprintf(format, args...))
}

// SetViolationExecutor replaces the process wide executor and returns the previous one.
func SetViolationExecutor(executor ViolationExecutor) ViolationExecutor {
	std.mtx.Lock()
	defer std.mtx.Unlock()

	previous := std.executor
	std.executor = executor
	return previous
}

var std = struct {
	executor ViolationExecutor
	mtx      sync.Mutex
}{
	executor: NewPanicViolationExecutor(),
}
