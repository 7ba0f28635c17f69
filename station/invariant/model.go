// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package invariant

// ViolationError describes a broken station protocol step, such as a pump
// reading back a published record that differs from the one it wrote or
// releasing a pump nobody holds.
type ViolationError struct {
	Statement string
}

func (err ViolationError) Error() string {
	return "Invariant violation: " + err.Statement
}

// ViolationExecutor decides what a detected violation does to the station.
type ViolationExecutor interface {
	Exec(ViolationError)
}
