// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/toeirei/cashpoint/internal/db"
	"github.com/toeirei/cashpoint/internal/model"
)

// SessionState tracks where a terminal session is in its lifecycle.
type SessionState int

const (
	StateNoCard SessionState = iota
	StateCardPresented
	StatePinPending
	StateAuthenticated
	StateEnded
)

// String returns a stable name for logging and tests.
func (s SessionState) String() string {
	switch s {
	case StateNoCard:
		return "no_card"
	case StateCardPresented:
		return "card_presented"
	case StatePinPending:
		return "pin_pending"
	case StateAuthenticated:
		return "authenticated"
	case StateEnded:
		return "ended"
	}
	return fmt.Sprintf("SessionState(%d)", int(s))
}

// MaxAuthAttempts bounds both unknown-card presentations and wrong-PIN
// entries. Exceeding either bound retains the card and ends the session.
const MaxAuthAttempts = 5

var (
	// ErrUnknownCard reports a card number not on file. The session stays
	// open for another attempt until MaxAuthAttempts is reached.
	ErrUnknownCard = errors.New("card not recognized")

	// ErrCardRetained reports that the attempt bound was exhausted and the
	// session is over.
	ErrCardRetained = errors.New("card retained")

	// ErrNotAuthenticated reports an operation attempted outside the
	// authenticated state.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionOver reports input after the session has ended.
	ErrSessionOver = errors.New("session has ended")
)

// Session drives one cardholder interaction from card presentation through
// authentication to ledger operations. It is not safe for concurrent use;
// a terminal runs exactly one session at a time.
type Session struct {
	store   SessionStore
	state   SessionState
	card    *model.Card
	account *model.Account

	cardAttempts int
	pinAttempts  int
}

// NewSession returns a session waiting for a card.
func NewSession(st SessionStore) *Session {
	return &Session{store: st, state: StateNoCard}
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState { return s.state }

// Card returns the presented card, or nil before presentation.
func (s *Session) Card() *model.Card { return s.card }

// Account returns the account linked to the presented card, or nil.
func (s *Session) Account() *model.Account { return s.account }

// PinAttemptsLeft returns how many PIN entries remain before the card is
// retained.
func (s *Session) PinAttemptsLeft() int { return MaxAuthAttempts - s.pinAttempts }

// CardAttemptsLeft returns how many card presentations remain before the
// session ends.
func (s *Session) CardAttemptsLeft() int { return MaxAuthAttempts - s.cardAttempts }

// PresentCard looks up a card by number. An unknown number consumes one of
// the bounded attempts; once they are exhausted the session ends with
// ErrCardRetained. A recognized card moves the session to PIN entry.
func (s *Session) PresentCard(number string) error {
	switch s.state {
	case StateNoCard, StateCardPresented:
	case StateEnded:
		return ErrSessionOver
	default:
		return fmt.Errorf("present card in state %s", s.state)
	}

	card, err := s.store.GetCardByNumber(NormalizeCardNumber(number))
	if err != nil && !errors.Is(err, db.ErrCardNotFound) {
		return fmt.Errorf("card lookup: %w", err)
	}
	if card == nil || errors.Is(err, db.ErrCardNotFound) {
		s.cardAttempts++
		s.state = StateCardPresented
		if s.cardAttempts >= MaxAuthAttempts {
			s.state = StateEnded
			_ = s.store.LogAction("CARD_RETAINED", fmt.Sprintf("unknown card after %d attempts", s.cardAttempts))
			return ErrCardRetained
		}
		return ErrUnknownCard
	}

	account, err := s.store.GetAccountByID(card.AccountID)
	if err != nil {
		return fmt.Errorf("account lookup: %w", err)
	}
	if account == nil {
		return fmt.Errorf("card %s has no account", card)
	}

	s.card = card
	s.account = account
	s.pinAttempts = 0
	s.state = StatePinPending
	return nil
}

// VerifyPIN checks the entered PIN against the presented card. Each wrong
// entry consumes one bounded attempt and is audit-logged; exhausting the
// bound retains the card and ends the session.
func (s *Session) VerifyPIN(pin string) error {
	switch s.state {
	case StatePinPending:
	case StateEnded:
		return ErrSessionOver
	default:
		return fmt.Errorf("verify PIN in state %s", s.state)
	}

	if pin == s.card.PIN {
		s.state = StateAuthenticated
		_ = s.store.LogAction("AUTH_OK", fmt.Sprintf("card: %s", s.card))
		return nil
	}

	s.pinAttempts++
	_ = s.store.LogAction("AUTH_FAILED", fmt.Sprintf("card: %s, attempt %d of %d", s.card, s.pinAttempts, MaxAuthAttempts))
	if s.pinAttempts >= MaxAuthAttempts {
		s.state = StateEnded
		_ = s.store.LogAction("CARD_RETAINED", fmt.Sprintf("card: %s, wrong PIN %d times", s.card, s.pinAttempts))
		s.card = nil
		s.account = nil
		return ErrCardRetained
	}
	return ErrWrongPIN
}

// Deposit credits the session's account and returns the new balance.
func (s *Session) Deposit(amount int64) (int64, error) {
	if err := s.requireAuth(); err != nil {
		return 0, err
	}
	return DepositFunds(s.store, s.account.ID, amount)
}

// Withdraw debits the session's account and returns the new balance.
func (s *Session) Withdraw(amount int64) (int64, error) {
	if err := s.requireAuth(); err != nil {
		return 0, err
	}
	return WithdrawFunds(s.store, s.account.ID, amount)
}

// Transfer moves funds to another account by number and returns the
// session account's new balance.
func (s *Session) Transfer(toAccountNumber string, amount int64) (int64, error) {
	if err := s.requireAuth(); err != nil {
		return 0, err
	}
	return TransferFunds(s.store, s.account.ID, strings.TrimSpace(toAccountNumber), amount)
}

// Balance records a balance inquiry and returns the current balance.
func (s *Session) Balance() (int64, error) {
	if err := s.requireAuth(); err != nil {
		return 0, err
	}
	return CurrentBalance(s.store, s.account.ID)
}

// History returns the session account's ledger entries in order.
func (s *Session) History() ([]model.Transaction, error) {
	if err := s.requireAuth(); err != nil {
		return nil, err
	}
	return AccountHistory(s.store, s.account.ID)
}

// ChangePIN changes the presented card's PIN after verifying the old one.
func (s *Session) ChangePIN(oldPIN, newPIN, confirmPIN string) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	return ChangePIN(s.store, s.card, oldPIN, newPIN, confirmPIN)
}

// End ejects the card and closes the session, clearing the current card and
// account. Ending twice is harmless.
func (s *Session) End() {
	if s.state == StateEnded {
		return
	}
	if s.card != nil {
		_ = s.store.LogAction("SESSION_END", fmt.Sprintf("card: %s", s.card))
	}
	s.card = nil
	s.account = nil
	s.state = StateEnded
}

func (s *Session) requireAuth() error {
	switch s.state {
	case StateAuthenticated:
		return nil
	case StateEnded:
		return ErrSessionOver
	default:
		return ErrNotAuthenticated
	}
}
