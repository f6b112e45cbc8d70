package repository

import (
	"log/slog"
	"sync"

	"bank-ledger/internal/errors"
	"bank-ledger/internal/ledger"
)

// Store holds the single live account, or none.
type Store struct {
	mu      sync.RWMutex
	account *ledger.Account
	logger  *slog.Logger
}

// NewStore creates an empty Store
func NewStore(logger *slog.Logger) *Store {
	return &Store{
		logger: logger,
	}
}

// Put installs acct, discarding whatever account was there before.
func (s *Store) Put(acct *ledger.Account) {
	s.mu.Lock()
	prev := s.account
	s.account = acct
	s.mu.Unlock()

	if prev != nil {
		s.logger.Info("Account replaced", "previous_account_id", prev.ID(), "account_id", acct.ID())
	}
}

// Current returns the live account or ErrNoAccount.
func (s *Store) Current() (*ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.account == nil {
		return nil, errors.ErrNoAccount
	}
	return s.account, nil
}

// Reset drops the live account. It reports whether there was one.
func (s *Store) Reset() bool {
	s.mu.Lock()
	prev := s.account
	s.account = nil
	s.mu.Unlock()

	if prev == nil {
		return false
	}
	s.logger.Info("Account reset", "account_id", prev.ID())
	return true
}

// WithAccount runs fn against the live account. Put and Reset wait until fn
// returns, so fn never operates on an account that was already discarded.
func (s *Store) WithAccount(fn func(*ledger.Account) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.account == nil {
		return errors.ErrNoAccount
	}
	return fn(s.account)
}
