// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo abstracts the on-device durable store. The use case
// layer depends on these narrow interfaces alone, so the concrete
// storage technology stays an adapter-layer decision and tests may
// substitute in-memory or temporary-file implementations freely.
package repo

import (
	"context"

	"github.com/pneucontrol/fieldsync/pkg/core/model"
)

// ReferenceData is the cached mirror of the backend reference
// entities, readable while disconnected. The cache is only ever
// written wholesale: Replace supersedes the complete previous
// snapshot and a reader observes either the old snapshot or the new
// one, never a mix of both.
type ReferenceData interface {
	// Replace atomically clears and repopulates both reference
	// tables with the given tenant-scoped snapshot.
	// It returns a cerr.Storage error on a storage-layer fault.
	Replace(ctx context.Context, vehicles []model.Vehicle, tires []model.Tire) error

	// VehicleByPlate looks a cached vehicle up by its registration
	// plate within the tenant partition. A miss is reported as a
	// cerr.NotFound error, which is a normal negative result that
	// callers must branch on, not a fault.
	VehicleByPlate(ctx context.Context, tenantID, plate string) (*model.Vehicle, error)

	// VehicleByID looks a cached vehicle up by its backend identity.
	// A miss is reported as a cerr.NotFound error.
	VehicleByID(ctx context.Context, id string) (*model.Vehicle, error)

	// TireByID looks a cached tire up by its backend identity.
	// A miss is reported as a cerr.NotFound error.
	TireByID(ctx context.Context, id string) (*model.Tire, error)
}

// InspectionQueue is the durable queue of inspections which are
// pending upload. Records enter the queue exactly once, flagged
// pending, and the only mutation ever applied afterwards is flipping
// one record to delivered.
type InspectionQueue interface {
	// Enqueue appends one pending inspection and assigns its local
	// row key into insp.RowID. It fails only on storage-layer
	// faults, reported as a cerr.Storage error.
	Enqueue(ctx context.Context, insp *model.PendingInspection) error

	// ListPending returns all records which are still flagged
	// pending, oldest first, as a materialized snapshot. Records
	// enqueued after the call returns are not part of the snapshot.
	ListPending(ctx context.Context) ([]model.PendingInspection, error)

	// MarkDelivered flips one record to the delivered state.
	// Flipping an already-delivered record is a no-op, not an error.
	MarkDelivered(ctx context.Context, rowID int64) error
}
