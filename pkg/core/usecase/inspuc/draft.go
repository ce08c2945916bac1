// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package inspuc

import (
	"fmt"

	"github.com/pneucontrol/fieldsync/pkg/core/model"
)

// Draft accumulates the per-tire items of one inspection before it is
// sealed by Finish. Items keep their first-recorded order. A Draft is
// not safe for concurrent use; it belongs to a single capture flow.
type Draft struct {
	session    model.Session
	vehicleID  string
	odometerKM float64

	items    []model.InspectionItem
	index    map[string]int  // tire id to items position
	measured map[string]bool // tires with recorded tread and pressure
}

// RecordMeasurement stores the required tread depth and pressure for
// one tire, creating its item on first use. An item is not considered
// complete until its measurement was recorded, even if a photo was
// attached earlier.
func (d *Draft) RecordMeasurement(tireID string, treadDepthMM, pressure float64) error {
	if tireID == "" {
		return fmt.Errorf("tire id is empty")
	}
	if treadDepthMM < 0 {
		return fmt.Errorf("tread depth (%f) is negative", treadDepthMM)
	}
	if pressure < 0 {
		return fmt.Errorf("pressure (%f) is negative", pressure)
	}
	item := d.upsert(tireID)
	item.TreadDepth = treadDepthMM
	item.Pressure = pressure
	if d.measured == nil {
		d.measured = make(map[string]bool)
	}
	d.measured[tireID] = true
	return nil
}

// SetObservation stores a free-text note on the item of the given
// tire, creating the item on first use.
func (d *Draft) SetObservation(tireID, note string) error {
	if tireID == "" {
		return fmt.Errorf("tire id is empty")
	}
	d.upsert(tireID).Observation = note
	return nil
}

// SetStatus overrides the severity of the item of the given tire.
// When a diagnosis is present the severity is derived from its tier
// and may not be overridden manually.
func (d *Draft) SetStatus(tireID string, s model.Severity) error {
	if err := s.Validate(); err != nil {
		return err
	}
	idx, ok := d.index[tireID]
	if !ok {
		return fmt.Errorf("no item was recorded for tire %q", tireID)
	}
	item := &d.items[idx]
	if item.Diagnosis != nil {
		return fmt.Errorf(
			"severity of tire %q is derived from its diagnosis", tireID,
		)
	}
	item.Status = s
	return nil
}

// Items returns a copy of the collected items in their recording
// order.
func (d *Draft) Items() []model.InspectionItem {
	return append([]model.InspectionItem(nil), d.items...)
}

// upsert returns the item of the given tire, appending a fresh item
// with the default ok severity when none exists yet.
func (d *Draft) upsert(tireID string) *model.InspectionItem {
	if idx, ok := d.index[tireID]; ok {
		return &d.items[idx]
	}
	d.items = append(d.items, model.InspectionItem{
		TireID: tireID,
		Status: model.SeverityOK,
	})
	d.index[tireID] = len(d.items) - 1
	return &d.items[len(d.items)-1]
}

// complete verifies that the item collection may be sealed: every
// touched tire must carry its required measurement.
func (d *Draft) complete() error {
	for _, item := range d.items {
		if !d.measured[item.TireID] {
			return fmt.Errorf(
				"tire %q misses its tread/pressure measurement",
				item.TireID,
			)
		}
	}
	return nil
}
