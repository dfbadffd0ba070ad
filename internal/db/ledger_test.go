// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"
	"strings"
	"testing"

	"github.com/toeirei/cashpoint/internal/model"
	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) string {
	t.Helper()
	dsn := "file:test_" + t.Name() + "?mode=memory&cache=shared"
	if err := InitDB("sqlite", dsn); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	return dsn
}

// newTestAccount creates a customer with one account and returns the
// account ID.
func newTestAccount(t *testing.T, number string, balance int64) int {
	t.Helper()
	custID, err := AddCustomer("Test Customer", "", "", "")
	if err != nil {
		t.Fatalf("AddCustomer failed: %v", err)
	}
	accID, err := AddAccount(custID, number, balance)
	if err != nil {
		t.Fatalf("AddAccount failed: %v", err)
	}
	return accID
}

func TestDeposit_AppendsEntryAndUpdatesBalance(t *testing.T) {
	_ = newTestDB(t)
	accID := newTestAccount(t, "CP-1001", 1000)

	txn, err := Deposit(accID, 200)
	if err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	if txn.Type != model.TxDeposit || txn.Amount != 200 || txn.Seq != 1 {
		t.Fatalf("unexpected deposit entry: %+v", txn)
	}

	acc, err := GetAccountByID(accID)
	if err != nil {
		t.Fatalf("GetAccountByID failed: %v", err)
	}
	if acc.Balance != 1200 {
		t.Fatalf("expected balance 1200, got %d", acc.Balance)
	}
}

func TestDeposit_RejectsNonPositiveAmount(t *testing.T) {
	_ = newTestDB(t)
	accID := newTestAccount(t, "CP-1001", 1000)

	for _, amount := range []int64{0, -50} {
		if _, err := Deposit(accID, amount); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount for %d, got: %v", amount, err)
		}
	}

	txns, err := GetTransactionsForAccount(accID)
	if err != nil {
		t.Fatalf("GetTransactionsForAccount failed: %v", err)
	}
	if len(txns) != 0 {
		t.Fatalf("expected no ledger entries after rejected deposits, got %d", len(txns))
	}
}

func TestWithdraw_InsufficientFundsLeavesLedgerUntouched(t *testing.T) {
	_ = newTestDB(t)
	accID := newTestAccount(t, "CP-1001", 1000)

	_, err := Withdraw(accID, 5000)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got: %v", err)
	}

	acc, err := GetAccountByID(accID)
	if err != nil {
		t.Fatalf("GetAccountByID failed: %v", err)
	}
	if acc.Balance != 1000 {
		t.Fatalf("expected untouched balance 1000, got %d", acc.Balance)
	}

	txns, err := GetTransactionsForAccount(accID)
	if err != nil {
		t.Fatalf("GetTransactionsForAccount failed: %v", err)
	}
	if len(txns) != 0 {
		t.Fatalf("expected no ledger entries after rejected withdrawal, got %d", len(txns))
	}
}

func TestWithdraw_RejectionIsAuditLogged(t *testing.T) {
	_ = newTestDB(t)
	accID := newTestAccount(t, "CP-1001", 100)

	if _, err := Withdraw(accID, 500); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got: %v", err)
	}

	entries, err := GetAllAuditLogEntries()
	if err != nil {
		t.Fatalf("GetAllAuditLogEntries failed: %v", err)
	}
	found := false
	for _, e := range entries {
		if e.Action == "WITHDRAWAL_REJECTED" {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected WITHDRAWAL_REJECTED in audit log, entries: %+v", entries)
	}
}

func TestTransfer_MovesBothSidesAtomically(t *testing.T) {
	_ = newTestDB(t)
	fromID := newTestAccount(t, "CP-1001", 1000)
	toID := newTestAccount(t, "CP-2001", 500)

	debit, err := Transfer(fromID, "CP-2001", 300)
	if err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	if debit.Type != model.TxTransferDebit || debit.Amount != -300 {
		t.Fatalf("unexpected debit entry: %+v", debit)
	}
	if debit.Counterparty != "CP-2001" {
		t.Fatalf("expected counterparty CP-2001, got %q", debit.Counterparty)
	}

	from, _ := GetAccountByID(fromID)
	to, _ := GetAccountByID(toID)
	if from.Balance != 700 || to.Balance != 800 {
		t.Fatalf("expected balances 700/800, got %d/%d", from.Balance, to.Balance)
	}

	toTxns, err := GetTransactionsForAccount(toID)
	if err != nil {
		t.Fatalf("GetTransactionsForAccount failed: %v", err)
	}
	if len(toTxns) != 1 || toTxns[0].Type != model.TxTransferCredit || toTxns[0].Amount != 300 {
		t.Fatalf("unexpected credit side: %+v", toTxns)
	}
	if toTxns[0].Counterparty != "CP-1001" {
		t.Fatalf("expected credit counterparty CP-1001, got %q", toTxns[0].Counterparty)
	}
}

func TestTransfer_UnknownRecipientLeavesSenderUntouched(t *testing.T) {
	_ = newTestDB(t)
	fromID := newTestAccount(t, "CP-1001", 1000)

	if _, err := Transfer(fromID, "CP-9999", 300); !errors.Is(err, ErrRecipientNotFound) {
		t.Fatalf("expected ErrRecipientNotFound, got: %v", err)
	}

	from, _ := GetAccountByID(fromID)
	if from.Balance != 1000 {
		t.Fatalf("expected untouched balance 1000, got %d", from.Balance)
	}
	txns, _ := GetTransactionsForAccount(fromID)
	if len(txns) != 0 {
		t.Fatalf("expected no ledger entries after failed transfer, got %d", len(txns))
	}
}

func TestTransfer_SameAccountRejected(t *testing.T) {
	_ = newTestDB(t)
	fromID := newTestAccount(t, "CP-1001", 1000)

	if _, err := Transfer(fromID, "CP-1001", 100); !errors.Is(err, ErrSameAccount) {
		t.Fatalf("expected ErrSameAccount, got: %v", err)
	}
}

func TestTransfer_InsufficientFundsMovesNothing(t *testing.T) {
	_ = newTestDB(t)
	fromID := newTestAccount(t, "CP-1001", 100)
	toID := newTestAccount(t, "CP-2001", 500)

	if _, err := Transfer(fromID, "CP-2001", 300); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got: %v", err)
	}

	from, _ := GetAccountByID(fromID)
	to, _ := GetAccountByID(toID)
	if from.Balance != 100 || to.Balance != 500 {
		t.Fatalf("expected untouched balances 100/500, got %d/%d", from.Balance, to.Balance)
	}
}

func TestSequenceNumbers_ContiguousPerAccount(t *testing.T) {
	_ = newTestDB(t)
	accID := newTestAccount(t, "CP-1001", 1000)
	otherID := newTestAccount(t, "CP-2001", 500)

	if _, err := Deposit(accID, 100); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	// A rejected withdrawal must not consume a sequence number.
	if _, err := Withdraw(accID, 99999); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got: %v", err)
	}
	if _, err := Withdraw(accID, 50); err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if _, err := RecordBalanceInquiry(accID); err != nil {
		t.Fatalf("RecordBalanceInquiry failed: %v", err)
	}
	// Activity on another account must not affect this account's sequence.
	if _, err := Deposit(otherID, 10); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	if _, err := Transfer(accID, "CP-2001", 25); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	txns, err := GetTransactionsForAccount(accID)
	if err != nil {
		t.Fatalf("GetTransactionsForAccount failed: %v", err)
	}
	for i, txn := range txns {
		if txn.Seq != i+1 {
			t.Fatalf("expected seq %d at position %d, got %d (txns: %+v)", i+1, i, txn.Seq, txns)
		}
	}
	if len(txns) != 4 {
		t.Fatalf("expected 4 ledger entries, got %d", len(txns))
	}
}

func TestBalanceInquiry_RecordsZeroAmountEntry(t *testing.T) {
	_ = newTestDB(t)
	accID := newTestAccount(t, "CP-1001", 1000)

	txn, err := RecordBalanceInquiry(accID)
	if err != nil {
		t.Fatalf("RecordBalanceInquiry failed: %v", err)
	}
	if txn.Type != model.TxBalanceInquiry || txn.Amount != 0 {
		t.Fatalf("unexpected inquiry entry: %+v", txn)
	}

	// Zero amount keeps the balance invariant: balance == opening + sum.
	acc, _ := GetAccountByID(accID)
	if acc.Balance != 1000 {
		t.Fatalf("expected balance 1000 after inquiry, got %d", acc.Balance)
	}
}

// The full cardholder scenario: deposit, rejected withdrawal, transfer.
func TestLedgerScenario_DepositRejectTransfer(t *testing.T) {
	_ = newTestDB(t)
	aID := newTestAccount(t, "CP-A", 1000)
	bID := newTestAccount(t, "CP-B", 500)

	if _, err := Deposit(aID, 200); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	if _, err := Withdraw(aID, 5000); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got: %v", err)
	}
	if _, err := Transfer(aID, "CP-B", 300); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	a, _ := GetAccountByID(aID)
	b, _ := GetAccountByID(bID)
	if a.Balance != 900 {
		t.Fatalf("expected A balance 900, got %d", a.Balance)
	}
	if b.Balance != 800 {
		t.Fatalf("expected B balance 800, got %d", b.Balance)
	}

	aTxns, _ := GetTransactionsForAccount(aID)
	if len(aTxns) != 2 {
		t.Fatalf("expected 2 ledger entries for A, got %d: %+v", len(aTxns), aTxns)
	}
	var sum int64
	for _, txn := range aTxns {
		sum += txn.Amount
	}
	if 1000+sum != a.Balance {
		t.Fatalf("balance invariant broken: opening 1000 + sum %d != balance %d", sum, a.Balance)
	}
}

func TestAddAccount_RejectsNegativeOpeningBalance(t *testing.T) {
	_ = newTestDB(t)
	custID, err := AddCustomer("Test Customer", "", "", "")
	if err != nil {
		t.Fatalf("AddCustomer failed: %v", err)
	}
	if _, err := AddAccount(custID, "CP-1001", -10); err == nil {
		t.Fatal("expected error for negative opening balance")
	}
}

func TestAddAccount_DuplicateNumber(t *testing.T) {
	_ = newTestDB(t)
	custID, err := AddCustomer("Test Customer", "", "", "")
	if err != nil {
		t.Fatalf("AddCustomer failed: %v", err)
	}
	if _, err := AddAccount(custID, "CP-1001", 0); err != nil {
		t.Fatalf("first AddAccount failed: %v", err)
	}
	if _, err := AddAccount(custID, "CP-1001", 0); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got: %v", err)
	}
}

func TestCards_LookupAndPINUpdate(t *testing.T) {
	_ = newTestDB(t)
	accID := newTestAccount(t, "CP-1001", 0)

	cardID, err := AddCard(accID, "4000111122220001", "1234", model.CardClassDebit)
	if err != nil {
		t.Fatalf("AddCard failed: %v", err)
	}

	card, err := GetCardByNumber("4000111122220001")
	if err != nil {
		t.Fatalf("GetCardByNumber failed: %v", err)
	}
	if card.ID != cardID || card.PIN != "1234" || card.Class != model.CardClassDebit {
		t.Fatalf("unexpected card: %+v", card)
	}

	if _, err := GetCardByNumber("0000000000000000"); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got: %v", err)
	}

	if err := UpdateCardPIN(cardID, "9876"); err != nil {
		t.Fatalf("UpdateCardPIN failed: %v", err)
	}
	card, _ = GetCardByNumber("4000111122220001")
	if card.PIN != "9876" {
		t.Fatalf("expected updated PIN, got %q", card.PIN)
	}

	if err := UpdateCardPIN(99999, "1111"); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound for missing card, got: %v", err)
	}

	if _, err := AddCard(accID, "4000111122220002", "12", model.CardClassDebit); !errors.Is(err, ErrInvalidPIN) {
		t.Fatalf("expected ErrInvalidPIN for short PIN, got: %v", err)
	}
	if err := UpdateCardPIN(cardID, "12ab"); !errors.Is(err, ErrInvalidPIN) {
		t.Fatalf("expected ErrInvalidPIN for non-numeric PIN, got: %v", err)
	}
}

func TestCardString_NeverLeaksPIN(t *testing.T) {
	card := model.Card{Number: "4000111122220001", PIN: "1234", Class: model.CardClassDebit}
	if got := card.String(); strings.Contains(got, "1234") {
		t.Fatalf("card String leaked the PIN: %q", got)
	}
}

func TestAddCustomer_EmptyContactFields(t *testing.T) {
	_ = newTestDB(t)

	id, err := AddCustomer("Nadia Vogel", "", "", "")
	if err != nil {
		t.Fatalf("AddCustomer with empty contact fields failed: %v", err)
	}

	c, err := GetCustomerByID(id)
	if err != nil {
		t.Fatalf("GetCustomerByID failed: %v", err)
	}
	if c == nil {
		t.Fatal("expected customer, got nil")
	}
	if c.Name != "Nadia Vogel" || c.Phone != "" || c.Email != "" || c.Address != "" {
		t.Fatalf("unexpected customer round-trip: %+v", c)
	}
}

func TestGetAccountByNumber_Unknown(t *testing.T) {
	_ = newTestDB(t)
	newTestAccount(t, "CP-1001", 100)

	if _, err := GetAccountByNumber("CP-9999"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got: %v", err)
	}
	acc, err := GetAccountByNumber("CP-1001")
	if err != nil {
		t.Fatalf("GetAccountByNumber failed: %v", err)
	}
	if acc.Number != "CP-1001" {
		t.Fatalf("unexpected account: %+v", acc)
	}
}
