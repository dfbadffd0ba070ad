// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/toeirei/cashpoint/internal/model"
)

// SeedFile is the YAML layout a branch uses to load its customers, accounts
// and cards into a fresh database.
type SeedFile struct {
	Customers []SeedCustomer `yaml:"customers"`
}

type SeedCustomer struct {
	Name     string        `yaml:"name"`
	Phone    string        `yaml:"phone"`
	Email    string        `yaml:"email"`
	Address  string        `yaml:"address"`
	Accounts []SeedAccount `yaml:"accounts"`
}

type SeedAccount struct {
	Number  string     `yaml:"number"`
	Balance int64      `yaml:"balance"`
	Cards   []SeedCard `yaml:"cards"`
}

type SeedCard struct {
	Number string `yaml:"number"`
	PIN    string `yaml:"pin"`
	Class  string `yaml:"class"`
}

// ParseSeedFile decodes seed YAML. It validates card classes and PIN
// formats up front so a bad file fails before anything is written.
func ParseSeedFile(data []byte) (*SeedFile, error) {
	var sf SeedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for _, c := range sf.Customers {
		for _, a := range c.Accounts {
			if a.Balance < 0 {
				return nil, fmt.Errorf("account %s: negative opening balance", a.Number)
			}
			for _, card := range a.Cards {
				if err := ValidatePIN(card.PIN); err != nil {
					return nil, fmt.Errorf("card %s: %w", card.Number, err)
				}
				if card.Class != "" {
					if _, err := model.ParseCardClass(card.Class); err != nil {
						return nil, fmt.Errorf("card %s: %w", card.Number, err)
					}
				}
			}
		}
	}
	return &sf, nil
}

// ApplySeed writes the seed contents through the store. Card numbers are
// normalized on the way in so keyed-in lookups match.
func ApplySeed(st SeedStore, sf *SeedFile) error {
	for _, c := range sf.Customers {
		custID, err := st.AddCustomer(c.Name, c.Phone, c.Email, c.Address)
		if err != nil {
			return fmt.Errorf("add customer %s: %w", c.Name, err)
		}
		for _, a := range c.Accounts {
			accID, err := st.AddAccount(custID, a.Number, a.Balance)
			if err != nil {
				return fmt.Errorf("add account %s: %w", a.Number, err)
			}
			for _, card := range a.Cards {
				class := model.CardClassDebit
				if card.Class != "" {
					class, _ = model.ParseCardClass(card.Class)
				}
				if _, err := st.AddCard(accID, NormalizeCardNumber(card.Number), card.PIN, class); err != nil {
					return fmt.Errorf("add card %s: %w", card.Number, err)
				}
			}
		}
	}
	return nil
}

// DemoSeed returns a small built-in branch so the terminal is usable
// without a seed file.
func DemoSeed() *SeedFile {
	return &SeedFile{
		Customers: []SeedCustomer{
			{
				Name: "Mara Steiner", Phone: "0151 2340001", Email: "mara@example.com", Address: "Hafenstrasse 12",
				Accounts: []SeedAccount{
					{
						Number: "CP-100001", Balance: 1000,
						Cards: []SeedCard{
							{Number: "4000 1111 2222 0001", PIN: "1234", Class: "debit"},
							{Number: "4000 1111 2222 0002", PIN: "5678", Class: "credit"},
						},
					},
					{Number: "CP-100002", Balance: 500},
				},
			},
			{
				Name: "Jonas Brandt", Phone: "0160 7780002", Email: "jonas@example.com", Address: "Lindenweg 3",
				Accounts: []SeedAccount{
					{
						Number: "CP-200001", Balance: 2000,
						Cards: []SeedCard{
							{Number: "4000 3333 4444 0001", PIN: "4321", Class: "debit"},
						},
					},
				},
			},
			{
				Name: "Leila Okafor", Phone: "0170 5550003", Email: "leila@example.com", Address: "Am Markt 8",
				Accounts: []SeedAccount{
					{
						Number: "CP-300001", Balance: 1500,
						Cards: []SeedCard{
							{Number: "4000 5555 6666 0001", PIN: "2468", Class: "debit"},
						},
					},
					{
						Number: "CP-300002", Balance: 800,
						Cards: []SeedCard{
							{Number: "4000 5555 6666 0002", PIN: "1357", Class: "credit"},
						},
					},
				},
			},
		},
	}
}
