// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

/*
Package core provides the synchronization primitives the station actors
coordinate through.

# Gates

Gate is a synchronization aid that allows one or more goroutines to wait until a
set of operations being performed in other goroutines completes.

The startup barrier is a gate used as a rendezvous: every pump, every tank
watcher and the driver walk through it and then await the gate condition, so
nobody proceeds until all of them arrived. Customers only await the condition.

	[pump]     g.Rendezvous(ctx)  // blocked
	[tank]     g.Rendezvous(ctx)  // blocked
	[driver]   g.Rendezvous(ctx)  // last arrival, everybody proceeds
	[customer] g.AwaitGateCondition(ctx)

# Events

Event is a broadcast, ticketed signal. A waiter takes a ticket before the
action that leads to the signal, then waits for any signal issued after that
ticket. Signals are never lost and the event never needs to be reset:

	[customer] t := ev.Ticket(); mailbox.TryPut(req); ev.Wait(ctx, t)
	[pump]     req := mailbox.Take(ctx); t := ev.Ticket(); publish(req); ev.Wait(ctx, t)
	[attendant] approve(); ev.Signal() // wakes both

# Mailboxes

Mailbox is a single slot handoff with a bounded capacity of one item. It
replaces the producer/consumer semaphore pair guarding a shared buffer.
*/
package core
