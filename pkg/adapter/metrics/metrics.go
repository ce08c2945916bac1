// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package metrics provides the Prometheus-backed implementation of
// the use case metrics interfaces.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Sync counts the per-record outcomes of the sync engine drain
// passes. It implements the syncuc.Metrics interface.
type Sync struct {
	attempted prometheus.Counter
	delivered prometheus.Counter
	failed    prometheus.Counter
}

// NewSync instantiates the sync counters and registers them with the
// given registerer.
func NewSync(reg prometheus.Registerer) *Sync {
	s := &Sync{
		attempted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fieldsync",
			Subsystem: "sync",
			Name:      "submissions_attempted_total",
			Help:      "Inspection submissions attempted by sync passes.",
		}),
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fieldsync",
			Subsystem: "sync",
			Name:      "inspections_delivered_total",
			Help:      "Inspections confirmed as delivered.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fieldsync",
			Subsystem: "sync",
			Name:      "submissions_failed_total",
			Help:      "Inspection submissions which failed and stayed pending.",
		}),
	}
	reg.MustRegister(s.attempted, s.delivered, s.failed)
	return s
}

// Attempted implements syncuc.Metrics.
func (s *Sync) Attempted() {
	s.attempted.Inc()
}

// Delivered implements syncuc.Metrics.
func (s *Sync) Delivered() {
	s.delivered.Inc()
}

// Failed implements syncuc.Metrics.
func (s *Sync) Failed() {
	s.failed.Inc()
}
