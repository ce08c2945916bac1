// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pneucontrol/fieldsync/pkg/adapter/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadCompleteConfig(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /var/lib/fieldsync/device.db
remote:
  base-url: https://api.pneucontrol.example
  timeout: 3s
identity:
  user-id: inspector-1
  tenant-id: T1
gin:
  addr: :9090
  logger: false
  recovery: true
sync:
  probe-interval: 45s
`)
	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/fieldsync/device.db", c.Database.Path)
	assert.Equal(t, "https://api.pneucontrol.example", c.Remote.BaseURL)
	assert.Equal(t, 3*time.Second, c.Remote.Timeout.Std())
	assert.Equal(t, "inspector-1", c.Identity.UserID)
	assert.Equal(t, "T1", c.Identity.TenantID)
	assert.Equal(t, ":9090", c.Gin.Addr)
	require.NotNil(t, c.Gin.Logger)
	assert.False(t, *c.Gin.Logger)
	require.NotNil(t, c.Gin.Recovery)
	assert.True(t, *c.Gin.Recovery)
	assert.Equal(t, 45*time.Second, c.Sync.ProbeInterval.Std())
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
remote:
  base-url: https://api.pneucontrol.example
`)
	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fieldsync.db", c.Database.Path)
	assert.Equal(t, 15*time.Second, c.Remote.Timeout.Std())
	assert.Equal(t, 30*time.Second, c.Sync.ProbeInterval.Std())
	assert.Equal(t, ":8080", c.Gin.Addr)
	require.NotNil(t, c.Gin.Logger)
	assert.True(t, *c.Gin.Logger)
	require.NotNil(t, c.Gin.Recovery)
	assert.True(t, *c.Gin.Recovery)
}

func TestLoadRequiresBaseURL(t *testing.T) {
	path := writeConfig(t, `
database:
  path: device.db
`)
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYaml(t *testing.T) {
	path := writeConfig(t, "remote: [")
	_, err := config.Load(path)
	assert.Error(t, err)
}
