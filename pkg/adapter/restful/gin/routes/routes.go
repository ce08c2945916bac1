// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages on a gin-gonic engine instance.
package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pneucontrol/fieldsync/pkg/adapter/db/sqlite"
	"github.com/pneucontrol/fieldsync/pkg/adapter/db/sqlite/queuerp"
	"github.com/pneucontrol/fieldsync/pkg/adapter/db/sqlite/refdatarp"
	"github.com/pneucontrol/fieldsync/pkg/adapter/identity"
	"github.com/pneucontrol/fieldsync/pkg/adapter/metrics"
	"github.com/pneucontrol/fieldsync/pkg/adapter/restful/gin/cachers"
	"github.com/pneucontrol/fieldsync/pkg/adapter/restful/gin/inspectionsrs"
	"github.com/pneucontrol/fieldsync/pkg/adapter/restful/gin/syncrs"
	"github.com/pneucontrol/fieldsync/pkg/core/remote"
	"github.com/pneucontrol/fieldsync/pkg/core/usecase/inspuc"
	"github.com/pneucontrol/fieldsync/pkg/core/usecase/refuc"
	"github.com/pneucontrol/fieldsync/pkg/core/usecase/syncuc"
)

// UseCases aggregates the use case instances which Register wires up,
// so the caller may drive them outside of the REST surface too, e.g.
// subscribing a sync pass to the connectivity restoration events.
type UseCases struct {
	Sync *syncuc.UseCase
	Insp *inspuc.UseCase
	Ref  *refuc.UseCase
}

// Register instantiates the relevant repositories and use cases on
// top of the db device database and the gw backend gateway. Each use
// case package is named like syncuc and each repository package is
// named like queuerp. Register instantiates a series of "resource"
// structs, from packages which are named like syncrs, in order to
// adapt the use case interfaces with the REST APIs. These resources
// are registered as request handlers using the e gin-gonic engine
// instance, next to the prometheus metrics and health endpoints.
// The online function reports the current connectivity state as
// observed by the caller-owned connectivity watcher.
// Possible errors will be returned after possible wrapping.
func Register(
	e *gin.Engine,
	db *sqlite.DB,
	gw remote.Gateway,
	ident identity.Provider,
	online func() bool,
	reg *prometheus.Registry,
) (*UseCases, error) {
	refRepo := refdatarp.New(db)
	queueRepo := queuerp.New(db)

	sync, err := syncuc.New(
		queueRepo, gw,
		syncuc.WithOnlineCheck(online),
		syncuc.WithMetrics(metrics.NewSync(reg)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sync use case: %w", err)
	}
	insp, err := inspuc.New(refRepo, queueRepo, gw)
	if err != nil {
		return nil, fmt.Errorf("creating inspection use case: %w", err)
	}

	ref := refuc.New(refRepo, gw)

	r := e.Group("/api/fieldsync/v1")
	inspectionsrs.Register(r, insp, queueRepo, ident)
	syncrs.Register(r, sync, online)
	cachers.Register(r, ref, ident)
	e.GET("/metrics", gin.WrapH(
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	))
	e.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return &UseCases{Sync: sync, Insp: insp, Ref: ref}, nil
}
