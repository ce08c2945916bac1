// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"time"

	"github.com/google/uuid"
)

// PendingInspection models one complete inspection which was captured
// on the device and is waiting for, or has finished, delivery to the
// backend. It is the only entity which is mutated on the device after
// its creation and the only mutation is flipping Delivered from false
// to true, exactly once, upon a confirmed successful submission.
//
// RowID is the storage-assigned local key while CorrelationID is a
// client-generated identity which stays stable across retried network
// attempts, so any consumer may deduplicate a record which was
// submitted more than once.
type PendingInspection struct {
	RowID         int64     // local auto-incrementing row key
	CorrelationID uuid.UUID // client-generated, stable across retries

	TenantID    string
	VehicleID   string
	InspectorID string
	OdometerKM  float64 // odometer reading at the inspection time

	// Items holds the ordered per-tire measurements. The list is
	// immutable after the record is enqueued; a partially collected
	// inspection is never persisted.
	Items []InspectionItem

	CapturedAt time.Time
	Delivered  bool
}

// InspectionItem models the measurements of a single inspected tire.
// It is embedded in a PendingInspection and is not independently
// addressable.
type InspectionItem struct {
	TireID     string
	TreadDepth float64  // millimeters, non-negative
	Pressure   float64  // PSI, non-negative
	Status     Severity // derived from Diagnosis when one is present

	Observation string     // optional free-text note
	PhotoURL    string     // optional uploaded photo reference
	Diagnosis   *Diagnosis // optional image analysis result
}

// Diagnosis is the structured payload which the image analysis
// collaborator produces for a tire photo. Tier carries the analysis
// vocabulary verbatim; the item Status is derived from it through
// SeverityFromTier.
type Diagnosis struct {
	Tier         string // analysis severity tier, e.g. baixa or media
	Observations string // narrative description of the findings
}
