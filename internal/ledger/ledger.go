// Package ledger holds one account's balance and its ordered transaction log.
//
// All validation happens here: an Account never goes negative and every
// deposit or withdrawal attempt that passes amount validation leaves exactly
// one entry in the log. Insufficient funds is an outcome, not an error.
package ledger

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
)

type Account struct {
	mu         sync.Mutex
	id         uuid.UUID
	holderName string
	balance    decimal.Decimal
	entries    []domain.Entry
	createdAt  time.Time

	now   func() time.Time
	newID func() uuid.UUID
}

type Option func(*Account)

// WithClock overrides the time source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Account) {
		a.now = now
	}
}

// WithIDGenerator overrides how account and entry ids are produced.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(a *Account) {
		a.newID = gen
	}
}

// Open creates an account for holderName with an opening balance of initial
// and records the opening entry.
func Open(holderName string, initial decimal.Decimal, opts ...Option) (*Account, error) {
	name := strings.TrimSpace(holderName)
	if name == "" {
		return nil, errors.ErrInvalidHolderName
	}
	if initial.IsNegative() {
		return nil, errors.ErrInvalidOpening.WithDetails("initial deposit must not be negative")
	}

	a := &Account{
		holderName: name,
		balance:    initial,
		now:        time.Now,
		newID:      uuid.New,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.id = a.newID()
	a.createdAt = a.now()
	a.record(domain.KindOpen, initial, domain.Accepted)
	return a, nil
}

func (a *Account) ID() uuid.UUID {
	return a.id
}

func (a *Account) HolderName() string {
	return a.holderName
}

func (a *Account) CreatedAt() time.Time {
	return a.createdAt
}

// Deposit adds amount to the balance. amount must be positive.
func (a *Account) Deposit(amount decimal.Decimal) (domain.Entry, error) {
	if err := requirePositive(amount); err != nil {
		return domain.Entry{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.balance = a.balance.Add(amount)
	return a.record(domain.KindDeposit, amount, domain.Accepted), nil
}

// Withdraw takes amount from the balance if it is covered. A withdrawal equal
// to the balance is covered and leaves zero. An uncovered withdrawal leaves
// the balance alone, is logged, and returns Rejected with a nil error.
func (a *Account) Withdraw(amount decimal.Decimal) (domain.Outcome, error) {
	e, err := a.WithdrawEntry(amount)
	if err != nil {
		return domain.Rejected, err
	}
	return e.Outcome, nil
}

// WithdrawEntry is Withdraw returning the entry it recorded.
func (a *Account) WithdrawEntry(amount decimal.Decimal) (domain.Entry, error) {
	if err := requirePositive(amount); err != nil {
		return domain.Entry{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if amount.GreaterThan(a.balance) {
		return a.record(domain.KindWithdrawal, amount, domain.Rejected), nil
	}

	a.balance = a.balance.Sub(amount)
	return a.record(domain.KindWithdrawal, amount, domain.Accepted), nil
}

func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// History returns the log in insertion order. The slice is a copy.
func (a *Account) History() []domain.Entry {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]domain.Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

func (a *Account) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// Snapshot returns a value copy of the account's current state.
func (a *Account) Snapshot() domain.Account {
	a.mu.Lock()
	defer a.mu.Unlock()

	return domain.Account{
		ID:         a.id,
		HolderName: a.holderName,
		Balance:    a.balance,
		Entries:    len(a.entries),
		CreatedAt:  a.createdAt,
	}
}

// record appends an entry. Callers hold mu, except Open which owns a
// not-yet-shared account.
func (a *Account) record(kind domain.EntryKind, amount decimal.Decimal, outcome domain.Outcome) domain.Entry {
	e := domain.Entry{
		ID:           a.newID(),
		Sequence:     len(a.entries) + 1,
		Timestamp:    a.now(),
		Kind:         kind,
		Amount:       amount,
		Outcome:      outcome,
		BalanceAfter: a.balance,
	}
	a.entries = append(a.entries, e)
	return e
}

func requirePositive(amount decimal.Decimal) error {
	if amount.IsNegative() || amount.IsZero() {
		return errors.ErrInvalidAmount.WithDetails("amount must be greater than zero")
	}
	return nil
}
