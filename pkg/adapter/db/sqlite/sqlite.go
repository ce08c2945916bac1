// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sqlite provides the on-device durable store on top of a
// SQLite database file, managed through GORM. The store is scoped per
// device installation: one file holds the cached reference tables and
// the pending inspection queue, surviving process restarts and
// crashes. Repository packages (refdatarp and queuerp) implement the
// core repo interfaces against the DB and Tx queryer types of this
// package.
package sqlite

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps an open GORM handle of the device database file.
type DB struct {
	*gorm.DB
}

// Tx wraps an in-progress transaction. It satisfies the same Queryer
// interface as DB, so the generic query functions run unchanged on
// either.
type Tx struct {
	*gorm.DB
}

// Queryer is the type set of DB and Tx which the generic query
// functions of the repository packages accept.
type Queryer interface {
	*DB | *Tx

	GORM(ctx context.Context) *gorm.DB
}

// Open opens (and creates, if missing) the device database file at
// the given path. GORM query logging is silenced; the core performs
// its own structured logging.
func Open(path string) (*DB, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db %q: %w", path, err)
	}
	return &DB{DB: gdb}, nil
}

// GORM returns the underlying GORM handle bound to ctx.
func (d *DB) GORM(ctx context.Context) *gorm.DB {
	return d.DB.WithContext(ctx)
}

// GORM returns the transaction handle bound to ctx.
func (t *Tx) GORM(ctx context.Context) *gorm.DB {
	return t.DB.WithContext(ctx)
}

// TxHandler runs a series of queries on a single transaction.
type TxHandler func(ctx context.Context, tx *Tx) error

// Tx runs f within one transaction. The transaction commits when f
// returns nil and rolls back when it returns an error or panics, so
// readers observe either all of its writes or none of them.
func (d *DB) Tx(ctx context.Context, f TxHandler) (err error) {
	tx := d.DB.WithContext(ctx).Begin()
	if err = tx.Error; err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = tx.Rollback().Error
			if err == nil {
				err = fmt.Errorf("panicked: %v", r)
				return
			}
			err = fmt.Errorf("panicked: %v, rollback: %w", r, err)
			return
		}
		if err != nil {
			if err2 := tx.Rollback().Error; err2 != nil {
				err = fmt.Errorf("handler: %w, rollback: %w", err, err2)
				return
			}
			err = fmt.Errorf("handler: %w", err)
			return
		}
		err = tx.Commit().Error
		if err != nil {
			err = fmt.Errorf("commit: %w", err)
		}
	}()
	return f(ctx, &Tx{DB: tx})
}
