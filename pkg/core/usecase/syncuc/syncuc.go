// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package syncuc contains the synchronization use case which drains
// the pending inspection queue against the backend. One drain pass
// walks a snapshot of the queue in insertion order, submits each
// record, and flips successfully confirmed records to delivered.
// A failed record stays pending untouched and never aborts the pass
// for the records after it; it is retried on the next pass, not
// within the current one.
package syncuc

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/pneucontrol/fieldsync/pkg/core/log"
	"github.com/pneucontrol/fieldsync/pkg/core/remote"
	"github.com/pneucontrol/fieldsync/pkg/core/repo"
)

// Metrics counts the per-record outcomes of drain passes. The adapter
// layer provides a Prometheus-backed implementation; a nil-safe no-op
// is used when none is configured.
type Metrics interface {
	Attempted()
	Delivered()
	Failed()
}

// UseCase represents the synchronization use case. It holds the
// inspection queue, the backend gateway, and an instance-owned
// re-entrancy guard, so independent engines in different tests cannot
// leak guard state into each other.
type UseCase struct {
	queue repo.InspectionQueue
	gw    remote.Gateway

	online  func() bool
	metrics Metrics

	syncing atomic.Bool
}

// New instantiates a synchronization use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(q repo.InspectionQueue, gw remote.Gateway, opts ...Option) (*UseCase, error) {
	uc := &UseCase{queue: q, gw: gw}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.metrics == nil {
		uc.metrics = nopMetrics{}
	}
	return uc, nil
}

// SyncPendingInspections runs one drain pass over the records which
// are pending at the time the pass takes its snapshot.
//
// The pass is a no-op when the device is offline and when another
// pass is already running; both cases return nil immediately. The
// second guard makes a double submission of one record structurally
// impossible when the connectivity observer and an explicit caller
// trigger the engine concurrently.
//
// Submission failures are local to their record: the record stays
// pending, the failure is logged, and the pass continues. Only a
// fault of the store itself aborts the pass with an error; the
// aborted remainder of the snapshot simply stays pending and is
// picked up by the next pass.
func (sync *UseCase) SyncPendingInspections(ctx context.Context) error {
	if sync.online != nil && !sync.online() {
		log.Debug(ctx, "sync pass skipped while offline")
		return nil
	}
	if !sync.syncing.CompareAndSwap(false, true) {
		log.Debug(ctx, "sync pass already in flight")
		return nil
	}
	defer sync.syncing.Store(false)

	pending, err := sync.queue.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("listing pending inspections: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}
	log.Info(ctx, "starting sync pass",
		slog.Int("pending", len(pending)),
	)
	for i := range pending {
		insp := &pending[i]
		sync.metrics.Attempted()
		if err := sync.gw.SubmitInspection(ctx, insp); err != nil {
			sync.metrics.Failed()
			log.Warn(ctx, "inspection submission failed; record stays pending",
				log.RowID(insp.RowID),
				log.CorrelationID(insp.CorrelationID),
				log.Err("error", err),
			)
			continue
		}
		if err := sync.queue.MarkDelivered(ctx, insp.RowID); err != nil {
			return fmt.Errorf(
				"marking inspection %d as delivered: %w", insp.RowID, err,
			)
		}
		sync.metrics.Delivered()
		log.Info(ctx, "inspection delivered",
			log.RowID(insp.RowID),
			log.CorrelationID(insp.CorrelationID),
		)
	}
	return nil
}

type nopMetrics struct{}

func (nopMetrics) Attempted() {}
func (nopMetrics) Delivered() {}
func (nopMetrics) Failed()    {}
