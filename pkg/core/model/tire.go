// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// Tire models one tire as published by the backend and cached on the
// device. Tires are referenced by identity from the axle slots of a
// Vehicle and from inspection items.
type Tire struct {
	ID       string // backend-assigned opaque identity
	TenantID string // owning tenant partition
	Serial   string // serial/fire number stamped on the tire
	Brand    string
	Model    string
}
