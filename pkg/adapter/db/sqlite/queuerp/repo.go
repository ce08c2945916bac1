// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package queuerp realizes the pending inspection queue on the device
// SQLite database. Rows are appended by the capture flow, scanned in
// insertion order by the sync engine, and flipped to delivered in
// place; delivered rows are retained as an audit trail and never
// deleted by this repository.
package queuerp

import (
	"context"
	"fmt"

	"github.com/pneucontrol/fieldsync/pkg/adapter/db/sqlite"
	"github.com/pneucontrol/fieldsync/pkg/core/model"
	"github.com/pneucontrol/fieldsync/pkg/core/repo"
)

// Repo implements the repo.InspectionQueue interface.
type Repo struct {
	db *sqlite.DB
}

// New instantiates a pending inspection queue repository over the
// given device database.
func New(db *sqlite.DB) *Repo {
	return &Repo{db: db}
}

// Migrate creates or updates the pending_inspections table.
func Migrate(db *sqlite.DB) error {
	if err := db.AutoMigrate(&gInspection{}); err != nil {
		return fmt.Errorf("migrating pending_inspections: %w", err)
	}
	return nil
}

// Enqueue implements repo.InspectionQueue, assigning the local row
// key into insp.RowID.
func (que *Repo) Enqueue(
	ctx context.Context, insp *model.PendingInspection,
) error {
	return enqueue(ctx, que.db, insp)
}

// ListPending implements repo.InspectionQueue, returning a snapshot
// of the records which are pending at the call time, oldest first.
func (que *Repo) ListPending(
	ctx context.Context,
) ([]model.PendingInspection, error) {
	return listPending(ctx, que.db)
}

// MarkDelivered implements repo.InspectionQueue. Marking an
// already-delivered or unknown row is a no-op.
func (que *Repo) MarkDelivered(ctx context.Context, rowID int64) error {
	return markDelivered(ctx, que.db, rowID)
}

// compile-time interface conformance check
var _ repo.InspectionQueue = (*Repo)(nil)
