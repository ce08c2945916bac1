// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package remote declares the contract of the backend API as consumed
// by the core. The backend itself is an external collaborator; the
// core only depends on this interface and the adapter layer supplies
// an HTTP implementation of it.
package remote

import (
	"context"
	"io"

	"github.com/pneucontrol/fieldsync/pkg/core/model"
)

// DamageReport is the response of the photo diagnosis operation,
// carrying the uploaded photo reference alongside the structured
// analysis payload.
type DamageReport struct {
	PhotoURL  string
	Diagnosis model.Diagnosis
}

// Gateway exposes the backend operations which the core consumes.
// All failure modes of one operation collapse into a single error
// kind; the core never distinguishes among failure causes when
// deciding to queue or retry.
type Gateway interface {
	// SearchVehicles queries the backend for vehicles of the tenant
	// matching the given plate. An empty result signals "not found"
	// and is not an error. Network-level failures, timeouts, and
	// non-2xx responses are reported as a cerr.Submission error.
	SearchVehicles(ctx context.Context, tenantID, plate string) ([]model.Vehicle, error)

	// FetchReferenceData retrieves the complete vehicle and tire
	// snapshot of the tenant for the offline cache.
	FetchReferenceData(ctx context.Context, tenantID string) ([]model.Vehicle, []model.Tire, error)

	// SubmitInspection delivers one captured inspection. Success
	// means a confirmed 2xx response; every other outcome is
	// reported as a cerr.Submission error.
	SubmitInspection(ctx context.Context, insp *model.PendingInspection) error

	// AnalyzeDamage uploads one tire photo for image analysis and
	// returns the resulting damage report. Failures are reported as
	// a cerr.Diagnosis error; the caller treats them as non-fatal.
	AnalyzeDamage(ctx context.Context, tenantID, tireID, filename string, photo io.Reader) (*DamageReport, error)

	// Reachable probes whether the backend currently answers at
	// all. It feeds the connectivity observer and never returns an
	// error; an unreachable backend is simply reported as false.
	Reachable(ctx context.Context) bool
}
