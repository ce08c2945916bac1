// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package refuc contains the reference data use case which refreshes
// the offline cache from the backend. A refresh replaces the cached
// vehicle and tire tables wholesale with the latest tenant snapshot;
// the cache is never mutated partially on the device.
package refuc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pneucontrol/fieldsync/pkg/core/log"
	"github.com/pneucontrol/fieldsync/pkg/core/model"
	"github.com/pneucontrol/fieldsync/pkg/core/remote"
	"github.com/pneucontrol/fieldsync/pkg/core/repo"
)

// UseCase represents the reference data use case.
type UseCase struct {
	ref repo.ReferenceData
	gw  remote.Gateway
}

// New instantiates a reference data use case.
func New(ref repo.ReferenceData, gw remote.Gateway) *UseCase {
	return &UseCase{ref: ref, gw: gw}
}

// Refresh fetches the complete vehicle and tire snapshot of the
// session tenant from the backend and replaces the offline cache with
// it. The numbers of cached vehicles and tires are returned.
func (ref *UseCase) Refresh(
	ctx context.Context, sess model.Session,
) (vehicles, tires int, err error) {
	vs, ts, err := ref.gw.FetchReferenceData(ctx, sess.TenantID)
	if err != nil {
		return 0, 0, fmt.Errorf("fetching reference data: %w", err)
	}
	if err := ref.ref.Replace(ctx, vs, ts); err != nil {
		return 0, 0, fmt.Errorf("replacing cached reference data: %w", err)
	}
	log.Info(ctx, "offline reference cache refreshed",
		log.Tenant(sess.TenantID),
		slog.Int("vehicles", len(vs)),
		slog.Int("tires", len(ts)),
	)
	return len(vs), len(ts), nil
}
