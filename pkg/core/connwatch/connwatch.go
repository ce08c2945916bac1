// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package connwatch tracks the online/offline state of the device and
// notifies subscribers exactly once per offline-to-online transition.
// The state itself is held by a two-state finite state machine, so the
// edge-triggered semantics fall out of the transition rules instead of
// being re-checked by hand: a "restore" signal is only a valid event
// while offline, hence redundant restore signals while already online
// transition nothing and emit nothing.
// The component performs no I/O by itself; reachability signals are
// pushed into it, either directly or through the Watch polling loop.
package connwatch

import (
	"context"
	"sync"
	"time"

	"github.com/looplab/fsm"
)

// FSM states and events of the observer.
const (
	StateOnline  = "online"
	StateOffline = "offline"

	eventRestore = "restore"
	eventDrop    = "drop"
)

// Observer holds the connectivity state and the became-online
// subscriber list. Instances must be created by New.
type Observer struct {
	machine *fsm.FSM

	mu   sync.Mutex
	subs []func()
}

// New creates an Observer with the given initial state, which should
// reflect the current reachability signal at startup.
func New(online bool) *Observer {
	o := &Observer{}
	initial := StateOffline
	if online {
		initial = StateOnline
	}
	o.machine = fsm.NewFSM(
		initial,
		fsm.Events{
			{Name: eventRestore, Src: []string{StateOffline}, Dst: StateOnline},
			{Name: eventDrop, Src: []string{StateOnline}, Dst: StateOffline},
		},
		fsm.Callbacks{
			"enter_" + StateOnline: func(_ context.Context, _ *fsm.Event) {
				o.notify()
			},
		},
	)
	return o
}

// Online reports the current connectivity state.
func (o *Observer) Online() bool {
	return o.machine.Is(StateOnline)
}

// Subscribe registers fn to be called once per offline-to-online
// transition. Subscribers are invoked synchronously from the signal
// which caused the transition and should hand long work off to their
// own goroutine.
func (o *Observer) Subscribe(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.subs = append(o.subs, fn)
}

// MarkOnline feeds a "network restored" signal into the observer.
// If the previous state was offline, the state flips and every
// subscriber is notified once; while already online the signal is
// discarded without any notification.
func (o *Observer) MarkOnline(ctx context.Context) {
	// an invalid event means no transition, which is the wanted
	// edge-triggered behavior
	_ = o.machine.Event(ctx, eventRestore)
}

// MarkOffline feeds a "network lost" signal into the observer. The
// state flips to offline unconditionally and nothing is notified.
func (o *Observer) MarkOffline(ctx context.Context) {
	_ = o.machine.Event(ctx, eventDrop)
}

// Watch polls the probe at the given interval and feeds the outcome
// into the observer until ctx is cancelled. It is the runtime
// reachability signal source for headless deployments which have no
// platform connectivity callbacks.
func (o *Observer) Watch(ctx context.Context, probe func(context.Context) bool, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		if probe(ctx) {
			o.MarkOnline(ctx)
		} else {
			o.MarkOffline(ctx)
		}
	}
}

func (o *Observer) notify() {
	o.mu.Lock()
	subs := make([]func(), len(o.subs))
	copy(subs, o.subs)
	o.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
