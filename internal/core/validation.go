// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"errors"
	"strconv"
	"strings"
)

// ErrBadAmount reports an amount that is not a positive whole number.
var ErrBadAmount = errors.New("amount must be a positive whole number")

// ErrBadPINFormat reports a PIN that is not exactly four digits.
var ErrBadPINFormat = errors.New("a PIN is four digits")

// ParseAmount parses user input into a positive amount in minor units.
// It performs pure, deterministic validation and returns a non-nil error
// when input is invalid.
func ParseAmount(input string) (int64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, ErrBadAmount
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrBadAmount
	}
	return n, nil
}

// ValidatePIN checks that a candidate PIN is exactly four ASCII digits.
func ValidatePIN(pin string) error {
	if len(pin) != 4 {
		return ErrBadPINFormat
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return ErrBadPINFormat
		}
	}
	return nil
}

// NormalizeCardNumber strips spaces and dashes so keyed-in and embossed
// forms of the same card number compare equal.
func NormalizeCardNumber(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r == ' ' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
