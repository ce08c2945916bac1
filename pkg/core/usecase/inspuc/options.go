// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package inspuc

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Option is a functional option for the inspection capture use case.
type Option func(uc *UseCase) error

// WithClock option configures the capture timestamp source, so tests
// may freeze it. This option may be passed to the New() function.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock function is nil")
		}
		if uc.now != nil {
			return errors.New("clock is already configured")
		}
		uc.now = now
		return nil
	}
}

// WithIDGenerator option configures the correlation id source, so
// tests may produce deterministic ids. This option may be passed to
// the New() function.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(uc *UseCase) error {
		if newID == nil {
			return errors.New("id generator function is nil")
		}
		if uc.newID != nil {
			return errors.New("id generator is already configured")
		}
		uc.newID = newID
		return nil
	}
}
