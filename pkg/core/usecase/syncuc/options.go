// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package syncuc

import "errors"

// Option is a functional option for the synchronization use case.
type Option func(uc *UseCase) error

// WithOnlineCheck option configures the connectivity check which is
// re-evaluated at the entry of every drain pass, usually wired to the
// connectivity observer. Without this option a pass assumes the
// device is online and lets individual submissions fail instead.
// This option may be passed to the New() function.
func WithOnlineCheck(online func() bool) Option {
	return func(uc *UseCase) error {
		if online == nil {
			return errors.New("online check function is nil")
		}
		if uc.online != nil {
			return errors.New("online check is already configured")
		}
		uc.online = online
		return nil
	}
}

// WithMetrics option configures the outcome counters of the drain
// passes. This option may be passed to the New() function.
func WithMetrics(m Metrics) Option {
	return func(uc *UseCase) error {
		if m == nil {
			return errors.New("metrics instance is nil")
		}
		if uc.metrics != nil {
			return errors.New("metrics are already configured")
		}
		uc.metrics = m
		return nil
	}
}
