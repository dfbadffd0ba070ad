// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"errors"
	"testing"

	"github.com/toeirei/cashpoint/internal/model"
	"github.com/toeirei/cashpoint/internal/testutil"
)

func newTestSession(t *testing.T) (*Session, *testutil.MemStore) {
	t.Helper()
	st := testutil.NewMemStore()
	acc := st.AddAccount("CP-100001", 1000)
	st.AddCard(acc.ID, "4000111122220001", "1234", model.CardClassDebit)
	other := st.AddAccount("CP-200001", 500)
	_ = other
	return NewSession(st), st
}

func authenticate(t *testing.T, s *Session) {
	t.Helper()
	if err := s.PresentCard("4000111122220001"); err != nil {
		t.Fatalf("PresentCard failed: %v", err)
	}
	if err := s.VerifyPIN("1234"); err != nil {
		t.Fatalf("VerifyPIN failed: %v", err)
	}
}

func TestSession_AuthHappyPath(t *testing.T) {
	s, st := newTestSession(t)

	if s.State() != StateNoCard {
		t.Fatalf("expected StateNoCard, got %s", s.State())
	}
	if err := s.PresentCard("4000 1111 2222 0001"); err != nil {
		t.Fatalf("PresentCard failed: %v", err)
	}
	if s.State() != StatePinPending {
		t.Fatalf("expected StatePinPending, got %s", s.State())
	}
	if err := s.VerifyPIN("1234"); err != nil {
		t.Fatalf("VerifyPIN failed: %v", err)
	}
	if s.State() != StateAuthenticated {
		t.Fatalf("expected StateAuthenticated, got %s", s.State())
	}

	actions := st.Actions()
	if len(actions) == 0 || actions[len(actions)-1] != "AUTH_OK" {
		t.Fatalf("expected AUTH_OK audit entry, got %v", actions)
	}
}

func TestSession_WrongPINBounded(t *testing.T) {
	s, st := newTestSession(t)
	if err := s.PresentCard("4000111122220001"); err != nil {
		t.Fatalf("PresentCard failed: %v", err)
	}

	for i := 0; i < MaxAuthAttempts-1; i++ {
		if err := s.VerifyPIN("0000"); !errors.Is(err, ErrWrongPIN) {
			t.Fatalf("attempt %d: expected ErrWrongPIN, got: %v", i+1, err)
		}
	}
	if left := s.PinAttemptsLeft(); left != 1 {
		t.Fatalf("expected 1 attempt left, got %d", left)
	}

	// The final wrong entry retains the card.
	if err := s.VerifyPIN("0000"); !errors.Is(err, ErrCardRetained) {
		t.Fatalf("expected ErrCardRetained, got: %v", err)
	}
	if s.State() != StateEnded {
		t.Fatalf("expected StateEnded, got %s", s.State())
	}

	// Every failure must be audit-logged.
	failed := 0
	for _, a := range st.Actions() {
		if a == "AUTH_FAILED" {
			failed++
		}
	}
	if failed != MaxAuthAttempts {
		t.Fatalf("expected %d AUTH_FAILED entries, got %d", MaxAuthAttempts, failed)
	}
}

func TestSession_CorrectPINWithinBoundSucceeds(t *testing.T) {
	s, _ := newTestSession(t)
	if err := s.PresentCard("4000111122220001"); err != nil {
		t.Fatalf("PresentCard failed: %v", err)
	}

	for i := 0; i < MaxAuthAttempts-1; i++ {
		if err := s.VerifyPIN("0000"); !errors.Is(err, ErrWrongPIN) {
			t.Fatalf("expected ErrWrongPIN, got: %v", err)
		}
	}
	if err := s.VerifyPIN("1234"); err != nil {
		t.Fatalf("expected last-chance PIN to succeed, got: %v", err)
	}
	if s.State() != StateAuthenticated {
		t.Fatalf("expected StateAuthenticated, got %s", s.State())
	}
}

func TestSession_UnknownCardBounded(t *testing.T) {
	s, _ := newTestSession(t)

	// Each unknown presentation advances the attempt counter.
	for i := 0; i < MaxAuthAttempts-1; i++ {
		if err := s.PresentCard("9999000000000000"); !errors.Is(err, ErrUnknownCard) {
			t.Fatalf("attempt %d: expected ErrUnknownCard, got: %v", i+1, err)
		}
	}
	if err := s.PresentCard("9999000000000000"); !errors.Is(err, ErrCardRetained) {
		t.Fatalf("expected ErrCardRetained, got: %v", err)
	}
	if s.State() != StateEnded {
		t.Fatalf("expected StateEnded, got %s", s.State())
	}

	// A dead session refuses further input.
	if err := s.PresentCard("4000111122220001"); !errors.Is(err, ErrSessionOver) {
		t.Fatalf("expected ErrSessionOver, got: %v", err)
	}
}

func TestSession_KnownCardAfterFailedAttempts(t *testing.T) {
	s, _ := newTestSession(t)

	if err := s.PresentCard("9999000000000000"); !errors.Is(err, ErrUnknownCard) {
		t.Fatalf("expected ErrUnknownCard, got: %v", err)
	}
	if err := s.PresentCard("4000111122220001"); err != nil {
		t.Fatalf("expected known card to be accepted, got: %v", err)
	}
	if s.State() != StatePinPending {
		t.Fatalf("expected StatePinPending, got %s", s.State())
	}
}

func TestSession_DispatchRequiresAuth(t *testing.T) {
	s, _ := newTestSession(t)

	if _, err := s.Deposit(100); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got: %v", err)
	}
	if _, err := s.Balance(); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got: %v", err)
	}

	if err := s.PresentCard("4000111122220001"); err != nil {
		t.Fatalf("PresentCard failed: %v", err)
	}
	// Card presented but PIN unverified: still no dispatch.
	if _, err := s.Withdraw(100); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got: %v", err)
	}
}

func TestSession_OperationsRoundTrip(t *testing.T) {
	s, _ := newTestSession(t)
	authenticate(t, s)

	balance, err := s.Deposit(200)
	if err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	if balance != 1200 {
		t.Fatalf("expected balance 1200, got %d", balance)
	}

	balance, err = s.Withdraw(300)
	if err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if balance != 900 {
		t.Fatalf("expected balance 900, got %d", balance)
	}

	balance, err = s.Transfer("CP-200001", 400)
	if err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	if balance != 500 {
		t.Fatalf("expected balance 500, got %d", balance)
	}

	balance, err = s.Balance()
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if balance != 500 {
		t.Fatalf("expected balance 500, got %d", balance)
	}

	txns, err := s.History()
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	// deposit, withdrawal, transfer debit, balance inquiry
	if len(txns) != 4 {
		t.Fatalf("expected 4 ledger entries, got %d", len(txns))
	}
	var sum int64
	for _, txn := range txns {
		sum += txn.Amount
	}
	if 1000+sum != 500 {
		t.Fatalf("balance invariant broken: 1000 + %d != 500", sum)
	}
}

func TestSession_ChangePIN(t *testing.T) {
	s, _ := newTestSession(t)
	authenticate(t, s)

	if err := s.ChangePIN("0000", "5678", "5678"); !errors.Is(err, ErrWrongPIN) {
		t.Fatalf("expected ErrWrongPIN for bad old PIN, got: %v", err)
	}
	if err := s.ChangePIN("1234", "5678", "8765"); !errors.Is(err, ErrPINMismatch) {
		t.Fatalf("expected ErrPINMismatch, got: %v", err)
	}
	if err := s.ChangePIN("1234", "56a8", "56a8"); !errors.Is(err, ErrBadPINFormat) {
		t.Fatalf("expected ErrBadPINFormat, got: %v", err)
	}
	if err := s.ChangePIN("1234", "5678", "5678"); err != nil {
		t.Fatalf("ChangePIN failed: %v", err)
	}
	if s.Card().PIN != "5678" {
		t.Fatalf("expected card PIN updated in session, got %q", s.Card().PIN)
	}
}

func TestSession_RetainedClearsCardAndAccount(t *testing.T) {
	s, _ := newTestSession(t)
	if err := s.PresentCard("4000111122220001"); err != nil {
		t.Fatalf("PresentCard failed: %v", err)
	}
	for i := 0; i < MaxAuthAttempts-1; i++ {
		if err := s.VerifyPIN("0000"); !errors.Is(err, ErrWrongPIN) {
			t.Fatalf("expected ErrWrongPIN, got: %v", err)
		}
	}
	if err := s.VerifyPIN("0000"); !errors.Is(err, ErrCardRetained) {
		t.Fatalf("expected ErrCardRetained, got: %v", err)
	}
	if s.Card() != nil || s.Account() != nil {
		t.Fatalf("card/account not cleared after exhaustion: card=%v account=%v", s.Card(), s.Account())
	}
}

func TestSession_EndClearsCardAndAccount(t *testing.T) {
	s, _ := newTestSession(t)
	authenticate(t, s)

	s.End()
	if s.Card() != nil || s.Account() != nil {
		t.Fatalf("card/account not cleared after End: card=%v account=%v", s.Card(), s.Account())
	}
}

func TestSession_EndIsIdempotent(t *testing.T) {
	s, st := newTestSession(t)
	authenticate(t, s)

	s.End()
	if s.State() != StateEnded {
		t.Fatalf("expected StateEnded, got %s", s.State())
	}
	before := len(st.Actions())
	s.End()
	if len(st.Actions()) != before {
		t.Fatal("second End must not write another audit entry")
	}

	if _, err := s.Deposit(10); !errors.Is(err, ErrSessionOver) {
		t.Fatalf("expected ErrSessionOver after End, got: %v", err)
	}
}
