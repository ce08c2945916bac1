// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package remote provides the HTTP client of the backend API,
// implementing the core remote.Gateway contract. Every operation maps
// to one request/response exchange; the client carries no state
// beyond its base URL and timeout and performs no retries, since the
// core schedules retries through the sync engine instead.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/pneucontrol/fieldsync/pkg/core/cerr"
	"github.com/pneucontrol/fieldsync/pkg/core/model"
	"github.com/pneucontrol/fieldsync/pkg/core/remote"
)

// Client is an HTTP implementation of remote.Gateway.
type Client struct {
	baseURL string
	http    *http.Client
}

// New instantiates a backend client for the given base URL. The
// timeout bounds every individual request; a timed out submission is
// treated like any other submission failure by the callers.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// SearchVehicles implements remote.Gateway.
func (c *Client) SearchVehicles(
	ctx context.Context, tenantID, plate string,
) ([]model.Vehicle, error) {
	q := url.Values{}
	q.Set("tenant_id", tenantID)
	q.Set("plate", plate)
	var jvs []jVehicle
	if err := c.getJSON(ctx, "/api/v1/vehicles", q, &jvs); err != nil {
		return nil, cerr.Submission(
			fmt.Errorf("searching vehicles by plate %q: %w", plate, err),
		)
	}
	vehicles := make([]model.Vehicle, 0, len(jvs))
	for _, jv := range jvs {
		v, err := jv.Model()
		if err != nil {
			return nil, cerr.Submission(
				fmt.Errorf("vehicle %q: %w", jv.ID, err),
			)
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, nil
}

// FetchReferenceData implements remote.Gateway.
func (c *Client) FetchReferenceData(
	ctx context.Context, tenantID string,
) ([]model.Vehicle, []model.Tire, error) {
	q := url.Values{}
	q.Set("tenant_id", tenantID)
	var jvs []jVehicle
	if err := c.getJSON(ctx, "/api/v1/vehicles", q, &jvs); err != nil {
		return nil, nil, cerr.Submission(
			fmt.Errorf("fetching vehicles: %w", err),
		)
	}
	var jts []jTire
	if err := c.getJSON(ctx, "/api/v1/tires", q, &jts); err != nil {
		return nil, nil, cerr.Submission(
			fmt.Errorf("fetching tires: %w", err),
		)
	}
	vehicles := make([]model.Vehicle, 0, len(jvs))
	for _, jv := range jvs {
		v, err := jv.Model()
		if err != nil {
			return nil, nil, cerr.Submission(
				fmt.Errorf("vehicle %q: %w", jv.ID, err),
			)
		}
		vehicles = append(vehicles, *v)
	}
	tires := make([]model.Tire, 0, len(jts))
	for _, jt := range jts {
		tires = append(tires, *jt.Model())
	}
	return vehicles, tires, nil
}

// SubmitInspection implements remote.Gateway. Any network failure,
// timeout, or non-2xx status is collapsed into one cerr.Submission
// error; callers do not distinguish among the failure causes.
func (c *Client) SubmitInspection(
	ctx context.Context, insp *model.PendingInspection,
) error {
	payload, err := newJInspection(insp)
	if err != nil {
		return cerr.Submission(err)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return cerr.Submission(
			fmt.Errorf("encoding inspection: %w", err),
		)
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.baseURL+"/api/v1/inspections",
		bytes.NewReader(body),
	)
	if err != nil {
		return cerr.Submission(fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return cerr.Submission(
			fmt.Errorf("posting inspection: %w", err),
		)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return cerr.Submission(fmt.Errorf(
			"posting inspection: unexpected status %d", resp.StatusCode,
		))
	}
	return nil
}

// AnalyzeDamage implements remote.Gateway, uploading the photo as a
// multipart form.
func (c *Client) AnalyzeDamage(
	ctx context.Context,
	tenantID, tireID, filename string,
	photo io.Reader,
) (*remote.DamageReport, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, cerr.Diagnosis(
			fmt.Errorf("building multipart body: %w", err),
		)
	}
	if _, err := io.Copy(fw, photo); err != nil {
		return nil, cerr.Diagnosis(
			fmt.Errorf("copying photo into request: %w", err),
		)
	}
	if err := mw.Close(); err != nil {
		return nil, cerr.Diagnosis(
			fmt.Errorf("finalizing multipart body: %w", err),
		)
	}
	q := url.Values{}
	q.Set("tenant_id", tenantID)
	q.Set("tire_id", tireID)
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.baseURL+"/api/v1/inspections/analyze-damage?"+q.Encode(),
		&body,
	)
	if err != nil {
		return nil, cerr.Diagnosis(
			fmt.Errorf("building request: %w", err),
		)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, cerr.Diagnosis(
			fmt.Errorf("posting photo: %w", err),
		)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, cerr.Diagnosis(fmt.Errorf(
			"posting photo: unexpected status %d", resp.StatusCode,
		))
	}
	var jr jDamageReport
	if err := json.NewDecoder(resp.Body).Decode(&jr); err != nil {
		return nil, cerr.Diagnosis(
			fmt.Errorf("decoding analysis response: %w", err),
		)
	}
	return &remote.DamageReport{
		PhotoURL: jr.PhotoURL,
		Diagnosis: model.Diagnosis{
			Tier:         jr.Analysis.Severity,
			Observations: jr.Analysis.Observations,
		},
	}, nil
}

// Reachable implements remote.Gateway with a lightweight GET against
// the health endpoint.
func (c *Client) Reachable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+"/health", nil,
	)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

// getJSON performs one GET and decodes the JSON response body into
// out. Non-2xx statuses are reported as errors.
func (c *Client) getJSON(
	ctx context.Context, path string, q url.Values, out any,
) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil,
	)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf(
			"GET %s: unexpected status %d", path, resp.StatusCode,
		)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// compile-time interface conformance check
var _ remote.Gateway = (*Client)(nil)
