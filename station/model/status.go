// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

import "fmt"

// TxnStatus is the lifecycle stage of a transaction record.
type TxnStatus int

const (
	Pending TxnStatus = iota
	Approved
	Disapproved
	Done
	Archived
)

func (s TxnStatus) String() string {
	switch s {
	case Pending:
		return "Wait"
	case Approved:
		return "Approved"
	case Disapproved:
		return "Disapproved"
	case Done:
		return "Done"
	case Archived:
		return "Archived"
	}
	return fmt.Sprintf("Cannot stringify model.TxnStatus.%d", int(s))
}

// Rank orders statuses along the lifecycle. Approved and Disapproved share a rank.
func (s TxnStatus) Rank() int {
	switch s {
	case Pending:
		return 0
	case Approved, Disapproved:
		return 1
	case Done:
		return 2
	case Archived:
		return 3
	}
	return -1
}

// Authorized reports whether the attendant already decided on the transaction.
func (s TxnStatus) Authorized() bool {
	return s == Approved || s == Disapproved
}

// CanAdvanceTo reports whether a record may move from s to next.
func (s TxnStatus) CanAdvanceTo(next TxnStatus) bool {
	switch s {
	case Pending:
		return next == Approved || next == Disapproved
	case Approved, Disapproved:
		return next == Done
	case Done:
		return next == Archived
	}
	return false
}
