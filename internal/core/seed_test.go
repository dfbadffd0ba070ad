// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"strings"
	"testing"

	"github.com/toeirei/cashpoint/internal/model"
)

// seedRecorder captures ApplySeed mutations for assertions.
type seedRecorder struct {
	customers []string
	accounts  map[string]int64
	cards     map[string]string // number -> pin
	classes   map[string]model.CardClass
}

func newSeedRecorder() *seedRecorder {
	return &seedRecorder{
		accounts: make(map[string]int64),
		cards:    make(map[string]string),
		classes:  make(map[string]model.CardClass),
	}
}

func (r *seedRecorder) AddCustomer(name, phone, email, address string) (int, error) {
	r.customers = append(r.customers, name)
	return len(r.customers), nil
}

func (r *seedRecorder) AddAccount(customerID int, number string, openingBalance int64) (int, error) {
	r.accounts[number] = openingBalance
	return len(r.accounts), nil
}

func (r *seedRecorder) AddCard(accountID int, number, pin string, class model.CardClass) (int, error) {
	r.cards[number] = pin
	r.classes[number] = class
	return len(r.cards), nil
}

func TestParseSeedFile_Valid(t *testing.T) {
	data := []byte(`
customers:
  - name: Test Person
    phone: "0151 0000000"
    accounts:
      - number: CP-900001
        balance: 750
        cards:
          - number: "4000 9999 0000 0001"
            pin: "1111"
            class: debit
`)
	sf, err := ParseSeedFile(data)
	if err != nil {
		t.Fatalf("ParseSeedFile failed: %v", err)
	}
	if len(sf.Customers) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(sf.Customers))
	}
	acc := sf.Customers[0].Accounts[0]
	if acc.Number != "CP-900001" || acc.Balance != 750 {
		t.Fatalf("unexpected account: %+v", acc)
	}
	if acc.Cards[0].PIN != "1111" {
		t.Fatalf("unexpected card: %+v", acc.Cards[0])
	}
}

func TestParseSeedFile_Rejections(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "bad pin",
			yaml: `
customers:
  - name: X
    accounts:
      - number: CP-1
        balance: 10
        cards:
          - number: "1"
            pin: "12"
`,
			want: "PIN",
		},
		{
			name: "bad class",
			yaml: `
customers:
  - name: X
    accounts:
      - number: CP-1
        balance: 10
        cards:
          - number: "1"
            pin: "1234"
            class: platinum
`,
			want: "card class",
		},
		{
			name: "negative balance",
			yaml: `
customers:
  - name: X
    accounts:
      - number: CP-1
        balance: -10
`,
			want: "negative opening balance",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeedFile([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestApplySeed_NormalizesCardNumbers(t *testing.T) {
	rec := newSeedRecorder()
	sf := &SeedFile{Customers: []SeedCustomer{{
		Name: "Test Person",
		Accounts: []SeedAccount{{
			Number: "CP-900001", Balance: 100,
			Cards: []SeedCard{{Number: "4000 9999-0000 0001", PIN: "1111"}},
		}},
	}}}
	if err := ApplySeed(rec, sf); err != nil {
		t.Fatalf("ApplySeed failed: %v", err)
	}
	if _, ok := rec.cards["4000999900000001"]; !ok {
		t.Fatalf("expected normalized card number, got %v", rec.cards)
	}
	// Class falls back to debit when omitted.
	if rec.classes["4000999900000001"] != model.CardClassDebit {
		t.Fatalf("expected debit default, got %v", rec.classes["4000999900000001"])
	}
}

func TestDemoSeed_AppliesCleanly(t *testing.T) {
	rec := newSeedRecorder()
	if err := ApplySeed(rec, DemoSeed()); err != nil {
		t.Fatalf("ApplySeed(DemoSeed) failed: %v", err)
	}
	if len(rec.customers) != 3 {
		t.Fatalf("expected 3 demo customers, got %d", len(rec.customers))
	}
	if len(rec.accounts) != 5 {
		t.Fatalf("expected 5 demo accounts, got %d", len(rec.accounts))
	}
	if got := rec.accounts["CP-100001"]; got != 1000 {
		t.Fatalf("expected CP-100001 opening balance 1000, got %d", got)
	}
	for number, pin := range rec.cards {
		if strings.ContainsAny(number, " -") {
			t.Errorf("card %q not normalized", number)
		}
		if err := ValidatePIN(pin); err != nil {
			t.Errorf("demo card %q has invalid PIN %q", number, pin)
		}
	}
}
