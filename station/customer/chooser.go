// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package customer

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.gasstation.io/station/model"
)

const (
	MinVolume = 5.0
	MaxVolume = 70.0
)

var names = []string{
	"Alice", "Bob", "Charlie", "David", "Eve", "Frank", "Grace", "John",
	"Ivan", "Jane", "Kevin", "Linda", "Songzhu", "Tippy", "Mike", "William",
	"Emma", "Emily", "Sophia", "Mia", "Ava", "Andrew", "Ruby",
}

// Chooser decides what a customer is and what it buys.
type Chooser interface {
	Name() string
	CardNumber() string
	Grade() model.FuelGrade
	Volume() float64
}

// RandomChooser picks uniformly. It is safe for concurrent use.
type RandomChooser struct {
	mtx sync.Mutex
	rnd *rand.Rand
}

func NewRandomChooser(seed int64) *RandomChooser {
	return &RandomChooser{rnd: rand.New(rand.NewSource(seed))}
}

func NewTimeSeededChooser() *RandomChooser {
	return NewRandomChooser(time.Now().UnixNano())
}

func (c *RandomChooser) Name() string {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return names[c.rnd.Intn(len(names))]
}

// CardNumber returns a placeholder "dddd dddd dddd" number.
func (c *RandomChooser) CardNumber() string {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return fmt.Sprintf("%04d %04d %04d", c.rnd.Intn(10000), c.rnd.Intn(10000), c.rnd.Intn(10000))
}

func (c *RandomChooser) Grade() model.FuelGrade {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return model.FuelGrade(c.rnd.Intn(model.NumGrades))
}

// Volume is uniform in [MinVolume, MaxVolume].
func (c *RandomChooser) Volume() float64 {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return MinVolume + c.rnd.Float64()*(MaxVolume-MinVolume)
}

// FixedChooser always buys the same thing.
type FixedChooser struct {
	CustomerName string
	Card         string
	FuelGrade    model.FuelGrade
	Liters       float64
}

func (c FixedChooser) Name() string           { return c.CustomerName }
func (c FixedChooser) CardNumber() string     { return c.Card }
func (c FixedChooser) Grade() model.FuelGrade { return c.FuelGrade }
func (c FixedChooser) Volume() float64        { return c.Liters }
