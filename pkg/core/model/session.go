// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// Session identifies the authenticated operator on whose behalf the
// device acts. It is resolved by the identity collaborator before any
// capture begins; all reference and inspection data is scoped to the
// session tenant.
type Session struct {
	UserID   string // the inspector identity
	TenantID string // the tenant partition of all owned data
}

// Valid reports whether both identifiers are present. An invalid
// session means the device is not enrolled and no capture may start.
func (s Session) Valid() bool {
	return s.UserID != "" && s.TenantID != ""
}
