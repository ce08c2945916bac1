// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package apiserver is an internal helper for the test packages.
// This package facilitates creation of a fake in-process backend API
// server, exposing the same endpoints as the real backend, so the
// gateway client and the use cases on top of it can be exercised
// against controllable online, offline, and failing behaviors.
// It may be used in all integration-level test suites which require
// a backend collaborator.
package apiserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

// Vehicle is the backend wire form of one fleet vehicle.
type Vehicle struct {
	ID       string  `json:"id"`
	TenantID string  `json:"tenant_id"`
	Plate    string  `json:"plate"`
	Brand    string  `json:"brand"`
	Model    string  `json:"model"`
	KM       float64 `json:"current_km"`
	Axles    []Axle  `json:"axle_configuration"`
}

// Axle is the backend wire form of one vehicle axle.
type Axle struct {
	Kind  string    `json:"type"`
	Dual  bool      `json:"is_dual"`
	Tires []*string `json:"tires"`
}

// Tire is the backend wire form of one registered tire.
type Tire struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Serial   string `json:"serial_number"`
	Brand    string `json:"brand"`
	Model    string `json:"model"`
}

// Submission is one inspection payload as received by the fake
// inspections endpoint.
type Submission struct {
	TenantID    string  `json:"tenant_id"`
	VehicleID   string  `json:"vehicle_id"`
	InspectorID string  `json:"inspector_id"`
	OdometerKM  float64 `json:"odometer_km"`
	Items       []Item  `json:"items"`
}

// Item is one per-tire measurement inside a Submission.
type Item struct {
	TireID      string    `json:"tire_id"`
	TreadDepth  float64   `json:"tread_depth"`
	Pressure    float64   `json:"pressure"`
	Status      string    `json:"status"`
	Observation string    `json:"observation,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Diagnosis   *Analysis `json:"ai_analysis,omitempty"`
}

// Analysis is the structured payload of the fake damage analysis
// endpoint.
type Analysis struct {
	Severity     string `json:"severity"`
	Observations string `json:"observations"`
}

// Server is a fake backend API server. All mutators and accessors are
// safe for concurrent use, since the sync engine may hit the server
// from its own goroutine.
type Server struct {
	hs *httptest.Server

	mu          sync.Mutex
	healthy     bool
	vehicles    []Vehicle
	tires       []Tire
	submissions []Submission
	rejectSubs  bool
	photoURL    string
	analysis    *Analysis
	lastUpload  string
}

// New creates and starts up a fake backend server, registering its
// shutdown as a test cleanup. The server starts healthy and empty.
func New(t *testing.T) *Server {
	s := &Server{healthy: true}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/vehicles", s.handleVehicles)
	mux.HandleFunc("/api/v1/tires", s.handleTires)
	mux.HandleFunc("/api/v1/inspections", s.handleInspections)
	mux.HandleFunc(
		"/api/v1/inspections/analyze-damage", s.handleAnalyzeDamage,
	)
	s.hs = httptest.NewServer(mux)
	t.Cleanup(s.hs.Close)
	return s
}

// URL returns the base URL of the fake server.
func (s *Server) URL() string {
	return s.hs.URL
}

// SetHealthy controls the health endpoint answer, simulating a
// reachable or unreachable backend for the connectivity probe. The
// other endpoints follow the same state, so an unhealthy server also
// rejects submissions like a disconnected one.
func (s *Server) SetHealthy(healthy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthy = healthy
}

// SetVehicles replaces the vehicles which the fake backend knows.
func (s *Server) SetVehicles(vehicles ...Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles = vehicles
}

// SetTires replaces the tires which the fake backend knows.
func (s *Server) SetTires(tires ...Tire) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tires = tires
}

// RejectSubmissions makes the inspections endpoint answer with a 500
// status while the vehicles, tires, and health endpoints keep
// working, simulating a backend-side submission fault.
func (s *Server) RejectSubmissions(reject bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectSubs = reject
}

// SetAnalysis configures the answer of the damage analysis endpoint.
// Passing a nil analysis makes the endpoint fail with a 500 status.
func (s *Server) SetAnalysis(photoURL string, analysis *Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photoURL = photoURL
	s.analysis = analysis
}

// Submissions returns a copy of the inspection payloads which the
// fake backend accepted so far, in arrival order.
func (s *Server) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := make([]Submission, len(s.submissions))
	copy(subs, s.submissions)
	return subs
}

// LastUploadName returns the filename of the last uploaded photo.
func (s *Server) LastUploadName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpload
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	tenantID := r.URL.Query().Get("tenant_id")
	plate := r.URL.Query().Get("plate")
	matched := make([]Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		if v.TenantID != tenantID {
			continue
		}
		if plate != "" && v.Plate != plate {
			continue
		}
		matched = append(matched, v)
	}
	writeJSON(w, matched)
}

func (s *Server) handleTires(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	tenantID := r.URL.Query().Get("tenant_id")
	matched := make([]Tire, 0, len(s.tires))
	for _, t := range s.tires {
		if t.TenantID == tenantID {
			matched = append(matched, t)
		}
	}
	writeJSON(w, matched)
}

func (s *Server) handleInspections(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.healthy || s.rejectSubs {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	var sub Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.submissions = append(s.submissions, sub)
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleAnalyzeDamage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.healthy || s.analysis == nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	f, fh, err := r.FormFile("file")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	_, _ = io.Copy(io.Discard, f)
	f.Close()
	s.lastUpload = fh.Filename
	writeJSON(w, map[string]any{
		"photo_url": s.photoURL,
		"analysis":  s.analysis,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
