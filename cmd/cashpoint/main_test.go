// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import "testing"

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	if cmd.Use != "cashpoint" {
		t.Fatalf("unexpected Use: %q", cmd.Use)
	}

	want := map[string]bool{
		"seed":        false,
		"session":     false,
		"statement":   false,
		"audit-log":   false,
		"db-maintain": false,
	}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	for _, flag := range []string{"config", "db-type", "db-dsn", "lang", "debug"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag %q not defined", flag)
		}
	}
}
