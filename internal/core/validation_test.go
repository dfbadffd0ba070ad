// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"100", 100, false},
		{" 250 ", 250, false},
		{"1", 1, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-5", 0, true},
		{"0", 0, true},
		{"12.50", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrBadAmount) {
				t.Errorf("ParseAmount(%q): expected ErrBadAmount, got: %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestValidatePIN(t *testing.T) {
	valid := []string{"0000", "1234", "9999"}
	for _, pin := range valid {
		if err := ValidatePIN(pin); err != nil {
			t.Errorf("ValidatePIN(%q): unexpected error: %v", pin, err)
		}
	}
	invalid := []string{"", "123", "12345", "12a4", "12 4", "١٢٣٤"}
	for _, pin := range invalid {
		if err := ValidatePIN(pin); !errors.Is(err, ErrBadPINFormat) {
			t.Errorf("ValidatePIN(%q): expected ErrBadPINFormat, got: %v", pin, err)
		}
	}
}

func TestNormalizeCardNumber(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"4000 1111 2222 0001", "4000111122220001"},
		{"4000-1111-2222-0001", "4000111122220001"},
		{"4000 1111-2222 0001", "4000111122220001"},
		{"4000111122220001", "4000111122220001"},
		{"  4000111122220001  ", "4000111122220001"},
	}
	for _, tt := range tests {
		if got := NormalizeCardNumber(tt.in); got != tt.want {
			t.Errorf("NormalizeCardNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
