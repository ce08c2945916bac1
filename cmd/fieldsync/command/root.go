// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the fieldsync
// device agent. Commands are organized using the cobra library.
// The root command runs the agent itself, which serves the local REST
// APIs for the on-device UI, watches the backend reachability, and
// synchronizes the pending inspections whenever connectivity is
// restored. The "cache" sub-command manages the offline reference data
// cache.
//
//	./fieldsync [-c /path/of/main/config.yaml]      # run the agent
//	./fieldsync cache refresh [-c /path/of/main/config.yaml]
package command

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/pneucontrol/fieldsync/pkg/adapter/config"
	"github.com/pneucontrol/fieldsync/pkg/adapter/db/sqlite"
	"github.com/pneucontrol/fieldsync/pkg/adapter/db/sqlite/queuerp"
	"github.com/pneucontrol/fieldsync/pkg/adapter/db/sqlite/refdatarp"
	"github.com/pneucontrol/fieldsync/pkg/adapter/identity"
	restremote "github.com/pneucontrol/fieldsync/pkg/adapter/remote"
	"github.com/pneucontrol/fieldsync/pkg/adapter/restful/gin/routes"
	"github.com/pneucontrol/fieldsync/pkg/core/connwatch"
	"github.com/pneucontrol/fieldsync/pkg/core/log"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "fieldsync",
	Short: "Offline-first fleet inspection capture and sync agent",
	Long: `Offline-first fleet inspection capture and sync agent
which runs on the inspection device. It keeps a local mirror of the
tenant reference data (vehicles and tires), captures tire inspections
while disconnected, and delivers the pending inspections to the
backend as soon as connectivity is restored, at most once per record.
The agent serves a small local REST API which the on-device UI
consumes for vehicle resolution, inspection capture, queue listing,
and manual synchronization, next to a prometheus metrics endpoint.`,
	RunE: runAgent,
}

func runAgent(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	gw := restremote.New(c.Remote.BaseURL, c.Remote.Timeout.Std())
	ident := identity.NewStatic(c.Identity.UserID, c.Identity.TenantID)

	obs := connwatch.New(gw.Reachable(ctx))
	e := c.Gin.NewEngine()
	ucs, err := routes.Register(
		e, db, gw, ident, obs.Online, prometheus.NewRegistry(),
	)
	if err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	obs.Subscribe(func() {
		go func() {
			if err := ucs.Sync.SyncPendingInspections(ctx); err != nil {
				log.Error(ctx, "sync pass failed", log.Err("error", err))
			}
		}()
	})
	go obs.Watch(ctx, gw.Reachable, c.Sync.ProbeInterval.Std())
	if obs.Online() {
		// deliver whatever the previous run left behind
		go func() {
			if err := ucs.Sync.SyncPendingInspections(ctx); err != nil {
				log.Error(ctx, "startup sync failed", log.Err("error", err))
			}
		}()
	}
	if err := e.Run(c.Gin.Addr); err != nil {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	return nil
}

// openDatabase opens the device database file and migrates the
// reference data and pending inspections tables.
func openDatabase(c *config.Config) (*sqlite.DB, error) {
	db, err := sqlite.Open(c.Database.Path)
	if err != nil {
		return nil, fmt.Errorf(
			"opening database %q: %w", c.Database.Path, err,
		)
	}
	if err := refdatarp.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrating reference tables: %w", err)
	}
	if err := queuerp.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrating queue table: %w", err)
	}
	return db, nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code may
// be a boolean (zero for success and non-zero for failure) or may be
// chosen based on the error condition (if it is desired to report
// several error conditions in the CLI of this program).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		cfgPath = "configs/sample-config.yaml"
	}
}
