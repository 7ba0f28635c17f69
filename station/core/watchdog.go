// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Watchdog stops the station once, on the first actor failure or on shutdown.
type Watchdog struct {
	cancelOnce  sync.Once
	startupFlow StartupFlowSynchronization
	cancel      context.CancelFunc
	mtx         sync.Mutex
	err         error
}

// CancelFlows cancels the startup flow and the actors context with error.
func (w *Watchdog) CancelFlows(err error) {
	// The following block protects us from overwriting the error
	// which was first used to cancel flows.
	w.cancelOnce.Do(func() {
		log.Debugf("Canceling flows: %v", err)
		w.mtx.Lock()
		w.err = err
		w.mtx.Unlock()
		w.startupFlow.CancelWithError(err)
		w.cancel()
	})
}

// Err returns the error flows were first canceled with.
func (w *Watchdog) Err() error {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	return w.err
}

// NewWatchdog returns new instance of a Watchdog.
func NewWatchdog(startupFlow StartupFlowSynchronization, cancel context.CancelFunc) *Watchdog {
	return &Watchdog{
		startupFlow: startupFlow,
		cancel:      cancel,
	}
}
