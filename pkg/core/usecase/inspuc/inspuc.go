// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package inspuc contains the inspection capture use case. A capture
// starts by resolving the vehicle (backend first, offline cache as
// fallback), collects per-tire measurements into a Draft, optionally
// enriches items with a photo diagnosis, and finishes by submitting
// the assembled record immediately or, when the submission fails,
// enqueueing it durably for the synchronization use case.
package inspuc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pneucontrol/fieldsync/pkg/core/cerr"
	"github.com/pneucontrol/fieldsync/pkg/core/log"
	"github.com/pneucontrol/fieldsync/pkg/core/model"
	"github.com/pneucontrol/fieldsync/pkg/core/remote"
	"github.com/pneucontrol/fieldsync/pkg/core/repo"
)

// UseCase represents the inspection capture use case. It holds the
// reference data cache, the pending inspection queue, and the backend
// gateway.
type UseCase struct {
	ref   repo.ReferenceData
	queue repo.InspectionQueue
	gw    remote.Gateway

	now   func() time.Time
	newID func() uuid.UUID
}

// New instantiates an inspection capture use case.
// Required parameters are passed individually while optional ones are
// passed as functional options, following the same convention as the
// other use case packages.
func New(
	ref repo.ReferenceData,
	queue repo.InspectionQueue,
	gw remote.Gateway,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{ref: ref, queue: queue, gw: gw}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.newID == nil {
		uc.newID = uuid.New
	}
	return uc, nil
}

// ResolveVehicle finds the vehicle with the given registration plate
// within the session tenant and returns it together with the starting
// odometer reading of the capture.
//
// The backend is queried first; a successful non-empty answer wins
// and its current odometer is the starting value. When the backend
// query fails or answers empty, the offline cache is consulted. A
// cache hit returns the vehicle with a zero starting odometer since
// the cached reading may be arbitrarily stale. When neither source
// resolves the plate, a cerr.NotFound error is returned.
func (insp *UseCase) ResolveVehicle(
	ctx context.Context, sess model.Session, plate string,
) (*model.Vehicle, float64, error) {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	if plate == "" {
		return nil, 0, cerr.NotFound(errors.New("empty plate"))
	}
	vehicles, err := insp.gw.SearchVehicles(ctx, sess.TenantID, plate)
	switch {
	case err != nil:
		log.Warn(ctx, "online vehicle lookup failed; trying offline cache",
			log.Plate(plate),
			log.Err("error", err),
		)
	case len(vehicles) > 0:
		v := vehicles[0]
		return &v, v.KM, nil
	}
	v, err := insp.ref.VehicleByPlate(ctx, sess.TenantID, plate)
	if err != nil {
		if cerr.IsNotFound(err) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("offline vehicle lookup: %w", err)
	}
	// the cached odometer may be stale, so the capture starts at zero
	// and the operator enters the real reading
	return v, 0, nil
}

// NewDraft starts collecting one inspection for the given vehicle.
// The session must be resolvable before any capture begins.
func (insp *UseCase) NewDraft(
	sess model.Session, vehicleID string, odometerKM float64,
) (*Draft, error) {
	if !sess.Valid() {
		return nil, errors.New("session is not resolved")
	}
	if vehicleID == "" {
		return nil, errors.New("vehicle id is empty")
	}
	if odometerKM < 0 {
		return nil, fmt.Errorf("odometer (%f) is negative", odometerKM)
	}
	return &Draft{
		session:    sess,
		vehicleID:  vehicleID,
		odometerKM: odometerKM,
		index:      make(map[string]int),
	}, nil
}

// AttachPhoto uploads one tire photo for image analysis and applies
// the resulting diagnosis to the corresponding draft item, creating
// the item if no measurement was recorded for that tire yet. The item
// severity is derived deterministically from the diagnosis tier.
//
// A failed analysis returns a cerr.Diagnosis error and leaves the
// item untouched; callers treat it as non-fatal and the inspection
// completes without a diagnosis for that tire.
func (insp *UseCase) AttachPhoto(
	ctx context.Context,
	d *Draft,
	tireID, filename string,
	photo io.Reader,
) error {
	report, err := insp.gw.AnalyzeDamage(
		ctx, d.session.TenantID, tireID, filename, photo,
	)
	if err != nil {
		log.Warn(ctx, "photo diagnosis failed; item keeps its severity",
			log.Err("error", err),
		)
		return fmt.Errorf("analyzing tire photo: %w", err)
	}
	item := d.upsert(tireID)
	item.PhotoURL = report.PhotoURL
	diagnosis := report.Diagnosis
	item.Diagnosis = &diagnosis
	item.Status = model.SeverityFromTier(diagnosis.Tier)
	return nil
}

// Finish seals the draft into a complete inspection record with a
// fresh correlation id and attempts an immediate submission to the
// backend.
//
// On a confirmed success the record is returned with delivered=true
// and nothing is persisted locally. On a submission failure the
// record is enqueued as pending, delivered=false is returned, and the
// operator-facing layer reports that the record was saved on the
// device and will synchronize automatically. A store fault during
// that enqueue is fatal to the capture and propagates as a
// cerr.Storage error; no further fallback exists below local storage.
func (insp *UseCase) Finish(
	ctx context.Context, d *Draft,
) (rec *model.PendingInspection, delivered bool, err error) {
	if err := d.complete(); err != nil {
		return nil, false, err
	}
	rec = &model.PendingInspection{
		CorrelationID: insp.newID(),
		TenantID:      d.session.TenantID,
		VehicleID:     d.vehicleID,
		InspectorID:   d.session.UserID,
		OdometerKM:    d.odometerKM,
		Items:         append([]model.InspectionItem(nil), d.items...),
		CapturedAt:    insp.now(),
	}
	serr := insp.gw.SubmitInspection(ctx, rec)
	if serr == nil {
		rec.Delivered = true
		return rec, true, nil
	}
	log.Warn(ctx, "immediate submission failed; saving locally",
		log.CorrelationID(rec.CorrelationID),
		log.Err("error", serr),
	)
	if err := insp.queue.Enqueue(ctx, rec); err != nil {
		return nil, false, fmt.Errorf("enqueueing inspection: %w", err)
	}
	log.Info(ctx, "inspection queued for later sync",
		log.RowID(rec.RowID),
		log.CorrelationID(rec.CorrelationID),
	)
	return rec, false, nil
}
