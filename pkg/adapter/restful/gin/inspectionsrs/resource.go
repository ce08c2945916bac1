// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package inspectionsrs realizes the inspections resource, adapting
// the inspection capture flow with the local REST APIs which the
// on-device UI consumes. Draft inspections are kept in memory by the
// resource until they are finished; only a finished inspection which
// could not be delivered immediately becomes durable.
package inspectionsrs

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pneucontrol/fieldsync/pkg/adapter/identity"
	"github.com/pneucontrol/fieldsync/pkg/adapter/restful/gin/serdser"
	"github.com/pneucontrol/fieldsync/pkg/core/cerr"
	"github.com/pneucontrol/fieldsync/pkg/core/repo"
	"github.com/pneucontrol/fieldsync/pkg/core/usecase/inspuc"
)

type resource struct {
	insp  *inspuc.UseCase
	queue repo.InspectionQueue
	ident identity.Provider

	mutex  sync.Mutex
	drafts map[string]*inspuc.Draft
}

// Register instantiates a resource adapting the inspection capture
// use case instance with the relevant REST APIs including:
//  1. GET request to /api/fieldsync/v1/vehicles/:plate
//     in order to resolve a vehicle by its license plate.
//  2. POST request to /api/fieldsync/v1/drafts
//     in order to start a draft inspection for a vehicle.
//  3. PUT request to /api/fieldsync/v1/drafts/:did/tires/:tid
//     in order to record the measurements of one tire.
//  4. POST request to /api/fieldsync/v1/drafts/:did/tires/:tid/photo
//     in order to upload a tire photo for image analysis.
//  5. POST request to /api/fieldsync/v1/drafts/:did/finish
//     in order to seal and submit (or locally enqueue) the draft.
//  6. GET request to /api/fieldsync/v1/inspections
//     in order to list the locally pending inspections.
func Register(
	r *gin.RouterGroup,
	insp *inspuc.UseCase,
	queue repo.InspectionQueue,
	ident identity.Provider,
) {
	rs := &resource{
		insp:   insp,
		queue:  queue,
		ident:  ident,
		drafts: make(map[string]*inspuc.Draft),
	}
	r.GET("vehicles/:plate", rs.ResolveVehicle)
	r.POST("drafts", rs.StartDraft)
	r.PUT("drafts/:did/tires/:tid", rs.RecordMeasurement)
	r.POST("drafts/:did/tires/:tid/photo", rs.AttachPhoto)
	r.POST("drafts/:did/finish", rs.FinishDraft)
	r.GET("inspections", rs.ListPending)
}

func (rs *resource) ResolveVehicle(c *gin.Context) {
	sess, err := rs.ident.Session()
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	v, km, err := rs.insp.ResolveVehicle(c, sess, c.Param("plate"))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serVehicleResolution(v, km))
}

func (rs *resource) StartDraft(c *gin.Context) {
	req := rs.DserStartDraftReq(c)
	if req == nil {
		return
	}
	sess, err := rs.ident.Session()
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	d, err := rs.insp.NewDraft(sess, req.VehicleID, req.OdometerKM)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	did := uuid.NewString()
	rs.mutex.Lock()
	rs.drafts[did] = d
	rs.mutex.Unlock()
	c.JSON(http.StatusCreated, gin.H{"draft_id": did})
}

func (rs *resource) RecordMeasurement(c *gin.Context) {
	d := rs.draft(c)
	if d == nil {
		return
	}
	req := rs.DserMeasurementReq(c)
	if req == nil {
		return
	}
	tid := c.Param("tid")
	if err := d.RecordMeasurement(
		tid, req.TreadDepthMM, req.PressurePSI,
	); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if req.Observation != "" {
		if err := d.SetObservation(tid, req.Observation); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
	}
	if req.Status != nil {
		if err := d.SetStatus(tid, *req.Status); err != nil {
			c.JSON(http.StatusConflict, gin.H{"detail": err.Error()})
			return
		}
	}
	c.Status(http.StatusNoContent)
}

func (rs *resource) AttachPhoto(c *gin.Context) {
	d := rs.draft(c)
	if d == nil {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "A file form field is required.",
		})
		return
	}
	f, err := fh.Open()
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	defer f.Close()
	tid := c.Param("tid")
	if err := rs.insp.AttachPhoto(c, d, tid, fh.Filename, f); err != nil {
		serdser.SerErr(c, err)
		return
	}
	for _, item := range d.Items() {
		if item.TireID == tid {
			c.JSON(http.StatusOK, serItem(item))
			return
		}
	}
	panic("analyzed tire item is missing from its draft")
}

func (rs *resource) FinishDraft(c *gin.Context) {
	did := c.Param("did")
	d := rs.draft(c)
	if d == nil {
		return
	}
	rec, delivered, err := rs.insp.Finish(c, d)
	if err != nil {
		if cerr.IsStorage(err) {
			serdser.SerErr(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	rs.mutex.Lock()
	delete(rs.drafts, did)
	rs.mutex.Unlock()
	c.JSON(http.StatusCreated, serFinishResp(rec, delivered))
}

func (rs *resource) ListPending(c *gin.Context) {
	pending, err := rs.queue.ListPending(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	resp := make([]jInspection, len(pending))
	for i, rec := range pending {
		resp[i] = serInspection(rec)
	}
	c.JSON(http.StatusOK, resp)
}

func (rs *resource) draft(c *gin.Context) *inspuc.Draft {
	rs.mutex.Lock()
	d, ok := rs.drafts[c.Param("did")]
	rs.mutex.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"detail": "No such draft inspection exists.",
		})
		return nil
	}
	return d
}
