// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package remote_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pneucontrol/fieldsync/internal/test/apiserver"
	restremote "github.com/pneucontrol/fieldsync/pkg/adapter/remote"
	"github.com/pneucontrol/fieldsync/pkg/core/cerr"
	"github.com/pneucontrol/fieldsync/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*restremote.Client, *apiserver.Server) {
	t.Helper()
	s := apiserver.New(t)
	return restremote.New(s.URL(), 5*time.Second), s
}

func strAddr(s string) *string {
	return &s
}

func TestSearchVehicles(t *testing.T) {
	ctx := context.Background()
	c, s := newClient(t)
	s.SetVehicles(apiserver.Vehicle{
		ID:       "V1",
		TenantID: "T1",
		Plate:    "ABC1234",
		Brand:    "Volvo",
		Model:    "FH 540",
		KM:       48211,
		Axles: []apiserver.Axle{
			{
				Kind:  "dir",
				Tires: []*string{strAddr("TIRE_1"), strAddr("TIRE_2")},
			},
			{
				Kind:  "traction",
				Dual:  true,
				Tires: []*string{strAddr("TIRE_3"), nil},
			},
		},
	})

	vehicles, err := c.SearchVehicles(ctx, "T1", "ABC1234")
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	v := vehicles[0]
	assert.Equal(t, "V1", v.ID)
	assert.Equal(t, 48211.0, v.KM)
	require.Len(t, v.Axles, 2)
	assert.Equal(t, model.AxleKindSteer, v.Axles[0].Kind)
	assert.Equal(t, model.AxleKindDrive, v.Axles[1].Kind)
	assert.True(t, v.Axles[1].Dual)
	assert.Equal(
		t, []string{"TIRE_3", ""}, v.Axles[1].Slots,
		"null wire slots decode as empty",
	)

	vehicles, err = c.SearchVehicles(ctx, "T1", "ZZZ9999")
	require.NoError(t, err)
	assert.Empty(t, vehicles, "an unknown plate is an empty answer")
}

func TestSearchVehiclesBackendFault(t *testing.T) {
	c, s := newClient(t)
	s.SetHealthy(false)

	_, err := c.SearchVehicles(context.Background(), "T1", "ABC1234")
	assert.True(t, cerr.IsSubmission(err))
}

func TestFetchReferenceData(t *testing.T) {
	ctx := context.Background()
	c, s := newClient(t)
	s.SetVehicles(
		apiserver.Vehicle{ID: "V1", TenantID: "T1", Plate: "ABC1234"},
		apiserver.Vehicle{ID: "V2", TenantID: "T2", Plate: "XYZ0001"},
	)
	s.SetTires(
		apiserver.Tire{ID: "TIRE_1", TenantID: "T1", Serial: "SN-0001"},
	)

	vehicles, tires, err := c.FetchReferenceData(ctx, "T1")
	require.NoError(t, err)
	require.Len(t, vehicles, 1, "the answer is tenant scoped")
	assert.Equal(t, "V1", vehicles[0].ID)
	require.Len(t, tires, 1)
	assert.Equal(t, "SN-0001", tires[0].Serial)
}

func TestSubmitInspection(t *testing.T) {
	ctx := context.Background()
	c, s := newClient(t)
	rec := &model.PendingInspection{
		CorrelationID: uuid.New(),
		TenantID:      "T1",
		VehicleID:     "V1",
		InspectorID:   "inspector-1",
		OdometerKM:    48300,
		Items: []model.InspectionItem{{
			TireID:     "TIRE_1",
			TreadDepth: 5,
			Pressure:   110,
			Status:     model.SeverityOK,
		}},
	}

	require.NoError(t, c.SubmitInspection(ctx, rec))
	subs := s.Submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, "T1", subs[0].TenantID)
	assert.Equal(t, "V1", subs[0].VehicleID)
	assert.Equal(t, 48300.0, subs[0].OdometerKM)
	require.Len(t, subs[0].Items, 1)
	assert.Equal(t, "ok", subs[0].Items[0].Status)

	s.RejectSubmissions(true)
	err := c.SubmitInspection(ctx, rec)
	assert.True(t, cerr.IsSubmission(err))
	assert.Len(t, s.Submissions(), 1)
}

func TestSubmitInspectionRejectsInvalidStatus(t *testing.T) {
	c, _ := newClient(t)
	rec := &model.PendingInspection{
		CorrelationID: uuid.New(),
		Items:         []model.InspectionItem{{TireID: "TIRE_1"}},
	}

	err := c.SubmitInspection(context.Background(), rec)
	assert.True(
		t, cerr.IsSubmission(err),
		"an item without a valid status must not leave the device",
	)
}

func TestAnalyzeDamage(t *testing.T) {
	ctx := context.Background()
	c, s := newClient(t)
	s.SetAnalysis("https://cdn.example/p/1.jpg", &apiserver.Analysis{
		Severity:     "baixa",
		Observations: "superficial scuffing",
	})

	report, err := c.AnalyzeDamage(
		ctx, "T1", "TIRE_1", "front-left.jpg", strings.NewReader("jpeg"),
	)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/p/1.jpg", report.PhotoURL)
	assert.Equal(t, "baixa", report.Diagnosis.Tier)
	assert.Equal(t, "superficial scuffing", report.Diagnosis.Observations)
	assert.Equal(t, "front-left.jpg", s.LastUploadName())

	s.SetAnalysis("", nil)
	_, err = c.AnalyzeDamage(
		ctx, "T1", "TIRE_1", "p.jpg", strings.NewReader("jpeg"),
	)
	assert.True(t, cerr.IsDiagnosis(err))
}

func TestReachable(t *testing.T) {
	ctx := context.Background()
	c, s := newClient(t)
	assert.True(t, c.Reachable(ctx))
	s.SetHealthy(false)
	assert.False(t, c.Reachable(ctx))
}
