// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package identity provides the session accessor of the excluded
// authentication subsystem. The device agent is enrolled once with a
// fixed inspector and tenant identity, so the accessor is a static
// provider configured from the agent configuration file; a richer
// deployment may substitute any other implementation of the Provider
// interface without touching the core.
package identity

import (
	"errors"

	"github.com/pneucontrol/fieldsync/pkg/core/model"
)

// ErrUnauthenticated indicates that no session is resolvable, which
// means the device was not enrolled yet. No capture may begin in that
// state.
var ErrUnauthenticated = errors.New("no authenticated session")

// Provider yields the identity of the current session.
type Provider interface {
	// Session returns the current session or ErrUnauthenticated when
	// none is resolvable.
	Session() (model.Session, error)
}

// Static is a Provider with a fixed enrollment identity.
type Static struct {
	sess model.Session
}

// NewStatic instantiates a static provider for the given identities.
func NewStatic(userID, tenantID string) *Static {
	return &Static{sess: model.Session{
		UserID:   userID,
		TenantID: tenantID,
	}}
}

// Session implements the Provider interface.
func (s *Static) Session() (model.Session, error) {
	if !s.sess.Valid() {
		return model.Session{}, ErrUnauthenticated
	}
	return s.sess, nil
}
