// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package inspuc_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pneucontrol/fieldsync/pkg/core/cerr"
	"github.com/pneucontrol/fieldsync/pkg/core/model"
	"github.com/pneucontrol/fieldsync/pkg/core/remote"
	"github.com/pneucontrol/fieldsync/pkg/core/usecase/inspuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sess = model.Session{UserID: "inspector-1", TenantID: "T1"}

	frozenTime = time.Date(2025, 8, 14, 10, 30, 0, 0, time.UTC)
	frozenID   = uuid.MustParse("2e9b0a51-7a55-4a54-9d5c-6cf5350a1a7e")
)

// fakeRef is an in-memory repo.ReferenceData implementation.
type fakeRef struct {
	vehicles  []model.Vehicle
	lastPlate string
}

func (r *fakeRef) Replace(
	_ context.Context, vehicles []model.Vehicle, _ []model.Tire,
) error {
	r.vehicles = vehicles
	return nil
}

func (r *fakeRef) VehicleByPlate(
	_ context.Context, tenantID, plate string,
) (*model.Vehicle, error) {
	r.lastPlate = plate
	for i, v := range r.vehicles {
		if v.TenantID == tenantID && v.Plate == plate {
			return &r.vehicles[i], nil
		}
	}
	return nil, cerr.NotFound(errors.New("no such vehicle"))
}

func (r *fakeRef) VehicleByID(
	_ context.Context, id string,
) (*model.Vehicle, error) {
	for i, v := range r.vehicles {
		if v.ID == id {
			return &r.vehicles[i], nil
		}
	}
	return nil, cerr.NotFound(errors.New("no such vehicle"))
}

func (r *fakeRef) TireByID(
	context.Context, string,
) (*model.Tire, error) {
	return nil, cerr.NotFound(errors.New("no such tire"))
}

// memQueue is an in-memory repo.InspectionQueue implementation.
type memQueue struct {
	recs   []model.PendingInspection
	enqErr error
}

func (q *memQueue) Enqueue(
	_ context.Context, insp *model.PendingInspection,
) error {
	if q.enqErr != nil {
		return q.enqErr
	}
	insp.RowID = int64(len(q.recs) + 1)
	q.recs = append(q.recs, *insp)
	return nil
}

func (q *memQueue) ListPending(
	context.Context,
) ([]model.PendingInspection, error) {
	return append([]model.PendingInspection(nil), q.recs...), nil
}

func (q *memQueue) MarkDelivered(context.Context, int64) error {
	return nil
}

// fakeGateway is a remote.Gateway implementation whose behaviors are
// scripted per test.
type fakeGateway struct {
	searchFn  func(tenantID, plate string) ([]model.Vehicle, error)
	analyzeFn func(tireID, filename string) (*remote.DamageReport, error)
	submitErr error
	submitted []*model.PendingInspection
}

func (g *fakeGateway) SearchVehicles(
	_ context.Context, tenantID, plate string,
) ([]model.Vehicle, error) {
	if g.searchFn == nil {
		return nil, nil
	}
	return g.searchFn(tenantID, plate)
}

func (g *fakeGateway) FetchReferenceData(
	context.Context, string,
) ([]model.Vehicle, []model.Tire, error) {
	return nil, nil, nil
}

func (g *fakeGateway) SubmitInspection(
	_ context.Context, insp *model.PendingInspection,
) error {
	if g.submitErr != nil {
		return g.submitErr
	}
	g.submitted = append(g.submitted, insp)
	return nil
}

func (g *fakeGateway) AnalyzeDamage(
	_ context.Context, _, tireID, filename string, photo io.Reader,
) (*remote.DamageReport, error) {
	_, _ = io.Copy(io.Discard, photo)
	if g.analyzeFn == nil {
		return nil, cerr.Diagnosis(errors.New("not scripted"))
	}
	return g.analyzeFn(tireID, filename)
}

func (g *fakeGateway) Reachable(context.Context) bool {
	return true
}

func newUseCase(
	t *testing.T, ref *fakeRef, q *memQueue, gw *fakeGateway,
) *inspuc.UseCase {
	t.Helper()
	uc, err := inspuc.New(
		ref, q, gw,
		inspuc.WithClock(func() time.Time { return frozenTime }),
		inspuc.WithIDGenerator(func() uuid.UUID { return frozenID }),
	)
	require.NoError(t, err)
	return uc
}

func TestResolveVehicleBackendAnswerWins(t *testing.T) {
	gw := &fakeGateway{
		searchFn: func(tenantID, plate string) ([]model.Vehicle, error) {
			assert.Equal(t, "T1", tenantID)
			assert.Equal(t, "ABC1234", plate)
			return []model.Vehicle{{
				ID: "V1", TenantID: "T1", Plate: "ABC1234", KM: 48211,
			}}, nil
		},
	}
	uc := newUseCase(t, &fakeRef{}, &memQueue{}, gw)

	v, km, err := uc.ResolveVehicle(
		context.Background(), sess, " abc1234 ",
	)
	require.NoError(t, err)
	assert.Equal(t, "V1", v.ID)
	assert.Equal(t, 48211.0, km, "backend odometer is trusted")
}

func TestResolveVehicleFallsBackToCache(t *testing.T) {
	ref := &fakeRef{vehicles: []model.Vehicle{{
		ID: "V1", TenantID: "T1", Plate: "ABC1234", KM: 48211,
	}}}
	gw := &fakeGateway{
		searchFn: func(string, string) ([]model.Vehicle, error) {
			return nil, cerr.Submission(errors.New("no network"))
		},
	}
	uc := newUseCase(t, ref, &memQueue{}, gw)

	v, km, err := uc.ResolveVehicle(context.Background(), sess, "abc1234")
	require.NoError(t, err)
	assert.Equal(t, "V1", v.ID)
	assert.Equal(t, "ABC1234", ref.lastPlate, "lookup plate is normalized")
	assert.Zero(t, km, "the cached odometer may be stale, start at zero")
}

func TestResolveVehicleUnknownPlate(t *testing.T) {
	gw := &fakeGateway{
		searchFn: func(string, string) ([]model.Vehicle, error) {
			return []model.Vehicle{}, nil
		},
	}
	uc := newUseCase(t, &fakeRef{}, &memQueue{}, gw)

	_, _, err := uc.ResolveVehicle(context.Background(), sess, "ZZZ9999")
	assert.True(t, cerr.IsNotFound(err))
}

func TestNewDraftValidation(t *testing.T) {
	uc := newUseCase(t, &fakeRef{}, &memQueue{}, &fakeGateway{})

	_, err := uc.NewDraft(model.Session{}, "V1", 10)
	assert.Error(t, err, "an unresolved session cannot capture")
	_, err = uc.NewDraft(sess, "", 10)
	assert.Error(t, err)
	_, err = uc.NewDraft(sess, "V1", -1)
	assert.Error(t, err)

	d, err := uc.NewDraft(sess, "V1", 48300)
	require.NoError(t, err)
	assert.Error(
		t, d.RecordMeasurement("TIRE_1", -0.5, 110),
		"negative tread depth is rejected",
	)
	assert.Error(
		t, d.RecordMeasurement("TIRE_1", 5, -3),
		"negative pressure is rejected",
	)
	require.NoError(t, d.RecordMeasurement("TIRE_1", 5, 110))
}

func TestAttachPhotoAppliesDiagnosis(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{
		analyzeFn: func(tireID, filename string) (*remote.DamageReport, error) {
			assert.Equal(t, "TIRE_1", tireID)
			assert.Equal(t, "front-left.jpg", filename)
			return &remote.DamageReport{
				PhotoURL: "https://cdn.example/p/1.jpg",
				Diagnosis: model.Diagnosis{
					Tier:         "media",
					Observations: "shoulder wear",
				},
			}, nil
		},
	}
	uc := newUseCase(t, &fakeRef{}, &memQueue{}, gw)
	d, err := uc.NewDraft(sess, "V1", 48300)
	require.NoError(t, err)
	require.NoError(t, d.RecordMeasurement("TIRE_1", 5, 110))

	err = uc.AttachPhoto(
		ctx, d, "TIRE_1", "front-left.jpg", strings.NewReader("jpeg"),
	)
	require.NoError(t, err)
	items := d.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "https://cdn.example/p/1.jpg", items[0].PhotoURL)
	assert.Equal(t, model.SeverityWarning, items[0].Status)
	require.NotNil(t, items[0].Diagnosis)
	assert.Equal(t, "shoulder wear", items[0].Diagnosis.Observations)

	assert.Error(
		t, d.SetStatus("TIRE_1", model.SeverityOK),
		"a diagnosed status cannot be overridden by hand",
	)
}

func TestAttachPhotoFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t, &fakeRef{}, &memQueue{}, &fakeGateway{})
	d, err := uc.NewDraft(sess, "V1", 48300)
	require.NoError(t, err)
	require.NoError(t, d.RecordMeasurement("TIRE_1", 5, 110))

	err = uc.AttachPhoto(
		ctx, d, "TIRE_1", "p.jpg", strings.NewReader("jpeg"),
	)
	assert.True(t, cerr.IsDiagnosis(err))
	items := d.Items()
	require.Len(t, items, 1)
	assert.Empty(t, items[0].PhotoURL, "a failed analysis changes nothing")
	assert.Nil(t, items[0].Diagnosis)

	// the capture still completes without a diagnosis for that tire
	_, delivered, err := uc.Finish(ctx, d)
	require.NoError(t, err)
	assert.True(t, delivered)
}

func TestAttachPhotoFailureCreatesNoItem(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t, &fakeRef{}, &memQueue{}, &fakeGateway{})
	d, err := uc.NewDraft(sess, "V1", 48300)
	require.NoError(t, err)
	require.NoError(t, d.RecordMeasurement("TIRE_1", 5, 110))

	// a failed analysis on a photo-only tire must not leave behind an
	// unmeasured item that would block Finish
	err = uc.AttachPhoto(
		ctx, d, "TIRE_2", "p.jpg", strings.NewReader("jpeg"),
	)
	assert.True(t, cerr.IsDiagnosis(err))
	items := d.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "TIRE_1", items[0].TireID)

	_, delivered, err := uc.Finish(ctx, d)
	require.NoError(t, err)
	assert.True(t, delivered)
}

func TestFinishDeliversImmediately(t *testing.T) {
	q := &memQueue{}
	gw := &fakeGateway{}
	uc := newUseCase(t, &fakeRef{}, q, gw)
	d, err := uc.NewDraft(sess, "V1", 48300)
	require.NoError(t, err)
	require.NoError(t, d.RecordMeasurement("TIRE_1", 5, 110))

	rec, delivered, err := uc.Finish(context.Background(), d)
	require.NoError(t, err)
	assert.True(t, delivered)
	assert.Equal(t, frozenID, rec.CorrelationID)
	assert.Equal(t, frozenTime, rec.CapturedAt)
	assert.Empty(
		t, q.recs, "a delivered inspection is never persisted locally",
	)
	require.Len(t, gw.submitted, 1)
}

func TestFinishQueuesOnSubmissionFailure(t *testing.T) {
	q := &memQueue{}
	gw := &fakeGateway{
		submitErr: cerr.Submission(errors.New("no network")),
	}
	uc := newUseCase(t, &fakeRef{}, q, gw)
	d, err := uc.NewDraft(sess, "V1", 48300)
	require.NoError(t, err)
	require.NoError(t, d.RecordMeasurement("TIRE_1", 5.0, 110))
	require.NoError(t, d.SetObservation("TIRE_1", "ok at a glance"))

	rec, delivered, err := uc.Finish(context.Background(), d)
	require.NoError(t, err)
	assert.False(t, delivered)
	require.Len(t, q.recs, 1)
	queued := q.recs[0]
	assert.Equal(t, int64(1), rec.RowID)
	assert.Equal(t, "T1", queued.TenantID)
	assert.Equal(t, "V1", queued.VehicleID)
	assert.Equal(t, "inspector-1", queued.InspectorID)
	assert.Equal(t, 48300.0, queued.OdometerKM)
	require.Len(t, queued.Items, 1)
	assert.Equal(t, "TIRE_1", queued.Items[0].TireID)
	assert.Equal(t, 5.0, queued.Items[0].TreadDepth)
	assert.Equal(t, 110.0, queued.Items[0].Pressure)
	assert.Equal(t, model.SeverityOK, queued.Items[0].Status)
	assert.False(t, queued.Delivered)
}

func TestFinishStorageFaultPropagates(t *testing.T) {
	q := &memQueue{enqErr: cerr.Storage(errors.New("disk full"))}
	gw := &fakeGateway{
		submitErr: cerr.Submission(errors.New("no network")),
	}
	uc := newUseCase(t, &fakeRef{}, q, gw)
	d, err := uc.NewDraft(sess, "V1", 48300)
	require.NoError(t, err)
	require.NoError(t, d.RecordMeasurement("TIRE_1", 5, 110))

	_, _, err = uc.Finish(context.Background(), d)
	assert.True(
		t, cerr.IsStorage(err),
		"no fallback exists below the local store",
	)
}

func TestFinishRejectsUnmeasuredTires(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{
		analyzeFn: func(string, string) (*remote.DamageReport, error) {
			return &remote.DamageReport{
				PhotoURL:  "https://cdn.example/p/2.jpg",
				Diagnosis: model.Diagnosis{Tier: "baixa"},
			}, nil
		},
	}
	uc := newUseCase(t, &fakeRef{}, &memQueue{}, gw)
	d, err := uc.NewDraft(sess, "V1", 48300)
	require.NoError(t, err)
	// a photo alone is not a complete item
	require.NoError(t, uc.AttachPhoto(
		ctx, d, "TIRE_2", "p.jpg", strings.NewReader("jpeg"),
	))

	_, _, err = uc.Finish(ctx, d)
	assert.Error(t, err)

	require.NoError(t, d.RecordMeasurement("TIRE_2", 7, 115))
	_, delivered, err := uc.Finish(ctx, d)
	require.NoError(t, err)
	assert.True(t, delivered)
}
