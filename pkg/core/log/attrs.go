// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import (
	"log/slog"

	"github.com/google/uuid"
)

// Err returns an Attr for the given error value.
// The error value is resolved as a string by its Error() method.
// If error value is nil, the constant "no-error" value will be used.
func Err(key string, value error) slog.Attr {
	if value == nil {
		return slog.String(key, "no-error")
	}
	return slog.String(key, value.Error())
}

// CorrelationID returns an Attr for the correlation id of a pending
// inspection record.
func CorrelationID(value uuid.UUID) slog.Attr {
	return slog.String("correlation_id", value.String())
}

// RowID returns an Attr for the local row key of a pending
// inspection record.
func RowID(value int64) slog.Attr {
	return slog.Int64("row_id", value)
}

// Tenant returns an Attr for a tenant id.
func Tenant(value string) slog.Attr {
	return slog.String("tenant_id", value)
}

// Plate returns an Attr for a vehicle registration plate.
func Plate(value string) slog.Attr {
	return slog.String("plate", value)
}
