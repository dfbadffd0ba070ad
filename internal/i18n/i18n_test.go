// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package i18n

import (
	"strings"
	"testing"
)

func TestInitAndTranslate(t *testing.T) {
	Init("en")
	if GetLang() != "en" {
		t.Fatalf("expected lang en, got %q", GetLang())
	}
	if got := T("menu.deposit"); got != "Deposit" {
		t.Errorf("T(menu.deposit) = %q", got)
	}
	if got := T("pin.attempts_left", 3); got != "Incorrect PIN. 3 attempts left." {
		t.Errorf("T(pin.attempts_left, 3) = %q", got)
	}
}

func TestSetLangSwitchesCatalog(t *testing.T) {
	SetLang("de")
	defer SetLang("en")

	if GetLang() != "de" {
		t.Fatalf("expected lang de, got %q", GetLang())
	}
	if got := T("menu.deposit"); got != "Einzahlen" {
		t.Errorf("T(menu.deposit) in de = %q", got)
	}
	if got := T("audit.header.user"); got != "Benutzer" {
		t.Errorf("T(audit.header.user) in de = %q", got)
	}
}

func TestAuditHeadersLocalized(t *testing.T) {
	Init("en")
	want := map[string]string{
		"audit.header.timestamp": "Timestamp",
		"audit.header.user":      "User",
		"audit.header.action":    "Action",
		"audit.header.details":   "Details",
	}
	for id, expected := range want {
		if got := T(id); got != expected {
			t.Errorf("T(%s) = %q, want %q", id, got, expected)
		}
	}
}

func TestUnknownMessageIDReturnedVerbatim(t *testing.T) {
	Init("en")
	if got := T("no.such.key"); got != "no.such.key" {
		t.Errorf("expected verbatim ID, got %q", got)
	}
}

func TestGetAvailableLocales(t *testing.T) {
	locales := GetAvailableLocales()
	for _, tag := range []string{"en", "de"} {
		name, ok := locales[tag]
		if !ok || strings.TrimSpace(name) == "" {
			t.Errorf("locale %q missing or unnamed", tag)
		}
	}
}
