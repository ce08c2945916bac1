// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// The reference entities (vehicles and tires) model the read-only
// snapshot which is cached on the device for offline lookups, while
// the pending inspection entity models the one record type which is
// created and mutated on the device itself.
package model

import (
	"errors"
	"fmt"
)

// Vehicle models one fleet vehicle as published by the backend and
// cached on the device. The cached copy is read-only from the device
// perspective; it is only replaced wholesale by a reference data
// refresh and never mutated in place.
type Vehicle struct {
	ID       string // backend-assigned opaque identity
	TenantID string // owning tenant partition
	Plate    string // registration plate, stored upper-case
	Brand    string
	Model    string
	KM       float64 // odometer reading at the snapshot time
	Axles    []Axle  // ordered axle configuration, front first
}

// Axle describes a single axle of a vehicle with its kind, duality,
// and the fixed tire slot layout. A slot holds the identity of the
// mounted tire or the empty string for a free slot.
type Axle struct {
	Kind  AxleKind // steer, drive, or load axle
	Dual  bool     // true for dual-wheel (four slot) axles
	Slots []string // tire ids by position; "" means empty slot
}

// AxleKind specifies the axle kind enum. Although this enum is
// numeric, it is (de)serialized as a string for compatibility with
// the backend wire format.
type AxleKind int

// Valid values for the AxleKind enum.
const (
	AxleKindInvalid AxleKind = iota // zero value is invalid

	AxleKindSteer // steering (directional) axle
	AxleKindDrive // traction axle
	AxleKindLoad  // trailer/load axle
)

// ErrUnknownAxleKind indicates that a given string may not be parsed
// as a valid/known axle kind.
var ErrUnknownAxleKind = errors.New("unknown axle kind")

// Validate returns nil if the AxleKind value is valid and an error
// describing the invalid numeric value otherwise.
func (k AxleKind) Validate() error {
	switch k {
	case AxleKindSteer, AxleKindDrive, AxleKindLoad:
		return nil
	default:
		return fmt.Errorf("invalid axle kind: %d", k)
	}
}

// String converts the AxleKind enum to its backend wire string.
// Invalid axle kind causes a panic.
func (k AxleKind) String() string {
	switch k {
	case AxleKindSteer:
		return "dir"
	case AxleKindDrive:
		return "traction"
	case AxleKindLoad:
		return "load"
	default:
		panic(fmt.Sprintf("invalid axle kind: %d", int(k)))
	}
}

// ParseAxleKind parses the given backend wire string and returns an
// AxleKind. For invalid strings, AxleKindInvalid and
// ErrUnknownAxleKind will be returned.
func ParseAxleKind(k string) (AxleKind, error) {
	switch k {
	case "dir":
		return AxleKindSteer, nil
	case "traction":
		return AxleKindDrive, nil
	case "load":
		return AxleKindLoad, nil
	default:
		return AxleKindInvalid, ErrUnknownAxleKind
	}
}
