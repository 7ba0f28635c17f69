// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"errors"
	"fmt"
	"strings"
)

// FuelGrade is an octane grade. Each grade is stored in its own tank.
type FuelGrade int

const (
	Oct87 FuelGrade = iota
	Oct89
	Oct91
	Oct94
	InvalidGrade
)

// NumGrades is the number of dispensable grades.
const NumGrades = int(InvalidGrade)

var ErrInvalidGrade = errors.New("invalid fuel grade")

var gradeNames = [...]string{"Oct 87", "Oct 89", "Oct 91", "Oct 94", "Invalid"}

func (g FuelGrade) String() string {
	if g < Oct87 || g > InvalidGrade {
		return fmt.Sprintf("Cannot stringify model.FuelGrade.%d", int(g))
	}
	return gradeNames[g]
}

// Valid reports whether g names one of the dispensable grades.
func (g FuelGrade) Valid() bool {
	return g >= Oct87 && g < InvalidGrade
}

// Index returns the tank index of g.
func (g FuelGrade) Index() int {
	return int(g)
}

// Grades lists dispensable grades in tank order.
func Grades() []FuelGrade {
	return []FuelGrade{Oct87, Oct89, Oct91, Oct94}
}

// GradeFromIndex maps a tank index onto its grade.
func GradeFromIndex(i int) (FuelGrade, error) {
	g := FuelGrade(i)
	if !g.Valid() {
		return InvalidGrade, fmt.Errorf("%w: index %d", ErrInvalidGrade, i)
	}
	return g, nil
}

// ParseGrade accepts "Oct 87", "oct87", "87" or a tank index "0".."3".
func ParseGrade(s string) (FuelGrade, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	normalized = strings.TrimPrefix(normalized, "oct")
	switch normalized {
	case "87", "0":
		return Oct87, nil
	case "89", "1":
		return Oct89, nil
	case "91", "2":
		return Oct91, nil
	case "94", "3":
		return Oct94, nil
	}
	return InvalidGrade, fmt.Errorf("%w: %q", ErrInvalidGrade, s)
}
