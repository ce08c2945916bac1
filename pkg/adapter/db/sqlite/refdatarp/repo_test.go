// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package refdatarp_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pneucontrol/fieldsync/pkg/adapter/db/sqlite"
	"github.com/pneucontrol/fieldsync/pkg/adapter/db/sqlite/refdatarp"
	"github.com/pneucontrol/fieldsync/pkg/core/cerr"
	"github.com/pneucontrol/fieldsync/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RefDataRepoTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Repo *refdatarp.Repo
}

func TestRefDataRepoTestSuite(t *testing.T) {
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "cannot open a temporary device database")
	require.NoError(t, refdatarp.Migrate(db))
	suite.Run(t, &RefDataRepoTestSuite{
		Ctx:  context.Background(),
		Repo: refdatarp.New(db),
	})
}

func (rdts *RefDataRepoTestSuite) SetupTest() {
	err := rdts.Repo.Replace(
		rdts.Ctx,
		[]model.Vehicle{
			{
				ID:       "V1",
				TenantID: "T1",
				Plate:    "ABC1234",
				Brand:    "Volvo",
				Model:    "FH 540",
				KM:       48211,
				Axles: []model.Axle{
					{
						Kind:  model.AxleKindSteer,
						Slots: []string{"TIRE_1", "TIRE_2"},
					},
					{
						Kind:  model.AxleKindDrive,
						Dual:  true,
						Slots: []string{"TIRE_3", "", "TIRE_4", ""},
					},
				},
			},
			{ID: "V2", TenantID: "T2", Plate: "XYZ0001"},
		},
		[]model.Tire{
			{
				ID:       "TIRE_1",
				TenantID: "T1",
				Serial:   "SN-0001",
				Brand:    "Michelin",
				Model:    "X Multi Z",
			},
		},
	)
	rdts.Require().NoError(err)
}

func (rdts *RefDataRepoTestSuite) TestVehicleByPlate() {
	v, err := rdts.Repo.VehicleByPlate(rdts.Ctx, "T1", "ABC1234")
	rdts.Require().NoError(err)
	rdts.Equal("V1", v.ID)
	rdts.Equal(48211.0, v.KM)
	rdts.Require().Len(v.Axles, 2)
	rdts.Equal(model.AxleKindSteer, v.Axles[0].Kind)
	rdts.False(v.Axles[0].Dual)
	rdts.Equal([]string{"TIRE_1", "TIRE_2"}, v.Axles[0].Slots)
	rdts.True(v.Axles[1].Dual)
	rdts.Equal(
		[]string{"TIRE_3", "", "TIRE_4", ""}, v.Axles[1].Slots,
		"empty slots survive the round trip",
	)
}

func (rdts *RefDataRepoTestSuite) TestPlateLookupIsTenantScoped() {
	_, err := rdts.Repo.VehicleByPlate(rdts.Ctx, "T1", "XYZ0001")
	rdts.True(
		cerr.IsNotFound(err),
		"another tenant's plate must not resolve",
	)
}

func (rdts *RefDataRepoTestSuite) TestVehicleByID() {
	v, err := rdts.Repo.VehicleByID(rdts.Ctx, "V2")
	rdts.Require().NoError(err)
	rdts.Equal("XYZ0001", v.Plate)

	_, err = rdts.Repo.VehicleByID(rdts.Ctx, "V9")
	rdts.True(cerr.IsNotFound(err))
}

func (rdts *RefDataRepoTestSuite) TestTireByID() {
	tire, err := rdts.Repo.TireByID(rdts.Ctx, "TIRE_1")
	rdts.Require().NoError(err)
	rdts.Equal("SN-0001", tire.Serial)

	_, err = rdts.Repo.TireByID(rdts.Ctx, "TIRE_9")
	rdts.True(cerr.IsNotFound(err))
}

func (rdts *RefDataRepoTestSuite) TestReplaceSupersedesWholesale() {
	err := rdts.Repo.Replace(
		rdts.Ctx,
		[]model.Vehicle{{ID: "V3", TenantID: "T1", Plate: "DEF5678"}},
		nil,
	)
	rdts.Require().NoError(err)

	_, err = rdts.Repo.VehicleByPlate(rdts.Ctx, "T1", "ABC1234")
	rdts.True(
		cerr.IsNotFound(err),
		"the previous snapshot must be gone entirely",
	)
	_, err = rdts.Repo.TireByID(rdts.Ctx, "TIRE_1")
	rdts.True(cerr.IsNotFound(err))
	v, err := rdts.Repo.VehicleByPlate(rdts.Ctx, "T1", "DEF5678")
	rdts.Require().NoError(err)
	rdts.Equal("V3", v.ID)
}

func TestReplaceEmptySnapshot(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, refdatarp.Migrate(db))
	repo := refdatarp.New(db)

	require.NoError(t, repo.Replace(
		ctx,
		[]model.Vehicle{{ID: "V1", TenantID: "T1", Plate: "ABC1234"}},
		nil,
	))
	require.NoError(t, repo.Replace(ctx, nil, nil))
	_, err = repo.VehicleByPlate(ctx, "T1", "ABC1234")
	assert.True(t, cerr.IsNotFound(err))
}
