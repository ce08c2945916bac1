// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package syncrs realizes the sync resource, allowing a manual
// synchronization pass to be triggered and the current connectivity
// state to be queried over the local REST APIs.
package syncrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pneucontrol/fieldsync/pkg/adapter/restful/gin/serdser"
	"github.com/pneucontrol/fieldsync/pkg/core/usecase/syncuc"
)

type resource struct {
	sync   *syncuc.UseCase
	online func() bool
}

// Register instantiates a resource adapting the sync engine use case
// instance with the relevant REST APIs including:
//  1. POST request to /api/fieldsync/v1/sync
//     in order to run one synchronization pass.
//  2. GET request to /api/fieldsync/v1/sync
//     in order to query the current connectivity state.
func Register(
	r *gin.RouterGroup, sync *syncuc.UseCase, online func() bool,
) {
	rs := &resource{sync: sync, online: online}
	r.POST("sync", rs.TriggerSync)
	r.GET("sync", rs.SyncStatus)
}

func (rs *resource) TriggerSync(c *gin.Context) {
	if err := rs.sync.SyncPendingInspections(c); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"online": rs.online()})
}

func (rs *resource) SyncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"online": rs.online()})
}
