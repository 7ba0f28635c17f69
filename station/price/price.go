// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package price holds the unit price of every fuel grade.
package price

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"go.gasstation.io/station/model"
)

var ErrInvalidPrice = errors.New("unit price must be a positive finite number")

// DefaultPrices are the opening prices per grade, in tank order.
var DefaultPrices = [model.NumGrades]float64{4.1, 4.6, 4.9, 5.2}

// Table is safe for concurrent use. A price change only affects
// transactions created after it.
type Table struct {
	mtx    sync.RWMutex
	prices [model.NumGrades]float64
}

func NewTable(prices [model.NumGrades]float64) (*Table, error) {
	for i, p := range prices {
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("grade %v: %w", model.FuelGrade(i), err)
		}
	}
	return &Table{prices: prices}, nil
}

func (t *Table) UnitPrice(grade model.FuelGrade) (float64, error) {
	if !grade.Valid() {
		return 0, fmt.Errorf("%w: %v", model.ErrInvalidGrade, grade)
	}
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return t.prices[grade.Index()], nil
}

func (t *Table) SetUnitPrice(grade model.FuelGrade, price float64) error {
	if !grade.Valid() {
		return fmt.Errorf("%w: %v", model.ErrInvalidGrade, grade)
	}
	if err := validate(price); err != nil {
		return err
	}
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.prices[grade.Index()] = price
	return nil
}

// Snapshot returns every price in tank order.
func (t *Table) Snapshot() [model.NumGrades]float64 {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return t.prices
}

func validate(price float64) error {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidPrice, price)
	}
	return nil
}
