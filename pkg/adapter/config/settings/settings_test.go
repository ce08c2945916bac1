// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings_test

import (
	"fmt"
	"time"

	"github.com/pneucontrol/fieldsync/pkg/adapter/config/settings"
	"gopkg.in/yaml.v3"
)

func ExampleDuration() {
	var s struct {
		Timeout settings.Duration `yaml:"timeout"`
	}
	err := yaml.Unmarshal([]byte("timeout: 2m30s"), &s)
	fmt.Println(err)
	fmt.Println(s.Timeout.Std() == 150*time.Second)
	// Output:
	// <nil>
	// true
}

func ExampleDuration_invalidText() {
	var s struct {
		Timeout settings.Duration `yaml:"timeout"`
	}
	err := yaml.Unmarshal([]byte("timeout: soon"), &s)
	fmt.Println(err != nil)
	// Output:
	// true
}
