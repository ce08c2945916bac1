// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package refdatarp realizes the reference data repository on the
// device SQLite database, caching the tenant vehicles and tires for
// offline lookups. The cache is replaced wholesale within a single
// transaction and read with point queries.
package refdatarp

import (
	"context"
	"fmt"

	"github.com/pneucontrol/fieldsync/pkg/adapter/db/sqlite"
	"github.com/pneucontrol/fieldsync/pkg/core/model"
	"github.com/pneucontrol/fieldsync/pkg/core/repo"
)

// Repo implements the repo.ReferenceData interface.
type Repo struct {
	db *sqlite.DB
}

// New instantiates a reference data repository over the given device
// database.
func New(db *sqlite.DB) *Repo {
	return &Repo{db: db}
}

// Migrate creates or updates the vehicles and tires tables.
func Migrate(db *sqlite.DB) error {
	if err := db.AutoMigrate(&gVehicle{}, &gTire{}); err != nil {
		return fmt.Errorf("migrating reference tables: %w", err)
	}
	return nil
}

// Replace implements repo.ReferenceData using one transaction, so a
// reader observes either the complete old snapshot or the complete
// new one.
func (ref *Repo) Replace(
	ctx context.Context,
	vehicles []model.Vehicle,
	tires []model.Tire,
) error {
	return ref.db.Tx(ctx, func(ctx context.Context, tx *sqlite.Tx) error {
		return replaceAll(ctx, tx, vehicles, tires)
	})
}

// VehicleByPlate implements repo.ReferenceData.
func (ref *Repo) VehicleByPlate(
	ctx context.Context, tenantID, plate string,
) (*model.Vehicle, error) {
	return vehicleByPlate(ctx, ref.db, tenantID, plate)
}

// VehicleByID implements repo.ReferenceData.
func (ref *Repo) VehicleByID(
	ctx context.Context, id string,
) (*model.Vehicle, error) {
	return vehicleByID(ctx, ref.db, id)
}

// TireByID implements repo.ReferenceData.
func (ref *Repo) TireByID(
	ctx context.Context, id string,
) (*model.Tire, error) {
	return tireByID(ctx, ref.db, id)
}

// compile-time interface conformance check
var _ repo.ReferenceData = (*Repo)(nil)
