// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
)

// Severity specifies the three-state classification of an inspected
// tire. Although this enum is numeric, it is (de)serialized as a
// string for readability in the adapter layer.
type Severity int

// Valid values for the Severity enum.
const (
	SeverityInvalid Severity = iota // zero value is invalid

	SeverityOK       // no action needed
	SeverityWarning  // should be checked soon
	SeverityCritical // must be taken out of service
)

// ErrUnknownSeverity indicates that a given string may not be parsed
// as a valid/known severity.
var ErrUnknownSeverity = errors.New("unknown severity")

// Validate returns nil if the Severity value is valid and an error
// describing the invalid numeric value otherwise.
func (s Severity) Validate() error {
	switch s {
	case SeverityOK, SeverityWarning, SeverityCritical:
		return nil
	default:
		return fmt.Errorf("invalid severity: %d", s)
	}
}

// String converts the Severity enum to a string, helping to serialize
// it for transmission to the backend and web clients. Invalid severity
// causes a panic.
func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "ok"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		panic(fmt.Sprintf("invalid severity: %d", int(s)))
	}
}

// ParseSeverity parses the given string and returns a Severity.
// For invalid strings, SeverityInvalid and ErrUnknownSeverity will be
// returned.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "ok":
		return SeverityOK, nil
	case "warning":
		return SeverityWarning, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return SeverityInvalid, ErrUnknownSeverity
	}
}

// SeverityFromTier collapses the open-ended severity vocabulary of the
// image analysis service into the closed three-state Severity which is
// used throughout the rest of the system. The "baixa" tier maps to
// SeverityOK and the "media" tier maps to SeverityWarning; every other
// tier, including unrecognized ones, maps to SeverityCritical so that
// an unknown vocabulary extension is never silently downgraded.
func SeverityFromTier(tier string) Severity {
	switch tier {
	case "baixa":
		return SeverityOK
	case "media":
		return SeverityWarning
	default:
		return SeverityCritical
	}
}
