// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pneucontrol/fieldsync/pkg/adapter/config"
	"github.com/pneucontrol/fieldsync/pkg/adapter/db/sqlite/refdatarp"
	"github.com/pneucontrol/fieldsync/pkg/adapter/identity"
	restremote "github.com/pneucontrol/fieldsync/pkg/adapter/remote"
	"github.com/pneucontrol/fieldsync/pkg/core/usecase/refuc"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Offline reference data cache management actions",
	Long: `Offline reference data cache management actions can be
chosen by sub-commands. The refresh action downloads the tenant
vehicles and tires from the backend and replaces the local cache
wholesale, so the plate lookups keep working while disconnected.`,
}

var cacheRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Download the tenant reference data into the local cache",
	Long: `Download the tenant reference data into the local cache,
replacing the previous snapshot atomically. The backend must be
reachable; a failed download leaves the previous snapshot intact.`,
	RunE: refreshCache,
}

func refreshCache(_ *cobra.Command, _ []string) error {
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
	sess, err := identity.NewStatic(
		c.Identity.UserID, c.Identity.TenantID,
	).Session()
	if err != nil {
		return fmt.Errorf("resolving device identity: %w", err)
	}
	vehicles, tires, err := refuc.New(refdatarp.New(db), gw).
		Refresh(ctx, sess)
	if err != nil {
		return fmt.Errorf("refreshing reference cache: %w", err)
	}
	fmt.Printf("cached %d vehicles and %d tires\n", vehicles, tires)
	return nil
}

func init() {
	cacheCmd.AddCommand(cacheRefreshCmd)
	rootCmd.AddCommand(cacheCmd)
}
