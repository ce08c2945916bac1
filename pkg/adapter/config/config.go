// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config loads and validates the agent configuration file.
// The file is a single-version YAML document; each section maps to
// one adapter or use case concern, keeping the configuration a flat
// and explicit struct rather than an untyped map.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pneucontrol/fieldsync/pkg/adapter/config/settings"
	"github.com/pneucontrol/fieldsync/pkg/adapter/restful/gin"
	"gopkg.in/yaml.v3"
)

// Config contains all settings which are required by different parts
// of the agent, such as adapters or use cases.
type Config struct {
	Database Database `yaml:"database"`
	Remote   Remote   `yaml:"remote"`
	Identity Identity `yaml:"identity"`
	Gin      Gin      `yaml:"gin"`
	Sync     Sync     `yaml:"sync"`
}

// Database contains the device database related settings.
type Database struct {
	// Path of the SQLite database file; created when missing. The
	// file is scoped per device installation, not per session.
	Path string `yaml:"path"`
}

// Remote contains the backend API related settings.
type Remote struct {
	BaseURL string `yaml:"base-url"` // e.g. https://api.pneucontrol.example

	// Timeout bounds each individual request; a timed out submission
	// counts as a submission failure.
	Timeout settings.Duration `yaml:"timeout"`
}

// Identity contains the device enrollment identity which the static
// session provider yields.
type Identity struct {
	UserID   string `yaml:"user-id"`
	TenantID string `yaml:"tenant-id"`
}

// Gin contains the gin-gonic instantiation settings of the local REST
// surface.
type Gin struct {
	Addr     string `yaml:"addr"`     // listen address, e.g. :8080
	Logger   *bool  `yaml:"logger"`   // register the gin.Logger() middleware
	Recovery *bool  `yaml:"recovery"` // register the gin.Recovery() middleware
}

// Sync contains the synchronization related settings.
type Sync struct {
	// ProbeInterval is the period of the backend reachability probe
	// which feeds the connectivity observer.
	ProbeInterval settings.Duration `yaml:"probe-interval"`
}

// Load reads, decodes, and validates the configuration file at the
// given path, filling defaults for the optional settings.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// Validate checks the required settings and fills defaults for the
// optional ones.
func (c *Config) Validate() error {
	if c.Remote.BaseURL == "" {
		return errors.New("remote.base-url is required")
	}
	if c.Database.Path == "" {
		c.Database.Path = "fieldsync.db"
	}
	if c.Remote.Timeout <= 0 {
		c.Remote.Timeout = settings.Duration(15 * time.Second)
	}
	if c.Sync.ProbeInterval <= 0 {
		c.Sync.ProbeInterval = settings.Duration(30 * time.Second)
	}
	if c.Gin.Addr == "" {
		c.Gin.Addr = ":8080"
	}
	t := true
	if c.Gin.Logger == nil {
		c.Gin.Logger = &t
	}
	if c.Gin.Recovery == nil {
		c.Gin.Recovery = &t
	}
	return nil
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}
