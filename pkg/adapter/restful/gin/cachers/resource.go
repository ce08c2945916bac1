// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cachers realizes the reference cache resource, allowing the
// offline reference data cache to be refreshed from the backend over
// the local REST APIs.
package cachers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pneucontrol/fieldsync/pkg/adapter/identity"
	"github.com/pneucontrol/fieldsync/pkg/adapter/restful/gin/serdser"
	"github.com/pneucontrol/fieldsync/pkg/core/usecase/refuc"
)

type resource struct {
	ref   *refuc.UseCase
	ident identity.Provider
}

// Register instantiates a resource adapting the reference data use
// case instance with the relevant REST APIs including:
//  1. POST request to /api/fieldsync/v1/cache/refresh
//     in order to replace the offline cache with a fresh snapshot.
func Register(
	r *gin.RouterGroup, ref *refuc.UseCase, ident identity.Provider,
) {
	rs := &resource{ref: ref, ident: ident}
	r.POST("cache/refresh", rs.RefreshCache)
}

func (rs *resource) RefreshCache(c *gin.Context) {
	sess, err := rs.ident.Session()
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	vehicles, tires, err := rs.ref.Refresh(c, sess)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"vehicles": vehicles,
		"tires":    tires,
	})
}
