package service

import (
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
	"bank-ledger/internal/ledger"
	"bank-ledger/internal/money"
)

// DefaultMaxAmount caps any single amount accepted from the form.
var DefaultMaxAmount = decimal.NewFromInt(10_000_000_000) // 10 billion

// AccountStore holds the live account.
type AccountStore interface {
	Put(acct *ledger.Account)
	Current() (*ledger.Account, error)
	Reset() bool
	WithAccount(fn func(*ledger.Account) error) error
}

type Options struct {
	CurrencySymbol string
	MaxAmount      decimal.Decimal
	LedgerOptions  []ledger.Option
}

type AccountService struct {
	store     AccountStore
	symbol    string
	maxAmount decimal.Decimal
	ledgerOpt []ledger.Option
	logger    *slog.Logger
}

func NewAccountService(store AccountStore, opts Options, logger *slog.Logger) *AccountService {
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = money.DefaultSymbol
	}
	if !opts.MaxAmount.IsPositive() {
		opts.MaxAmount = DefaultMaxAmount
	}
	return &AccountService{
		store:     store,
		symbol:    opts.CurrencySymbol,
		maxAmount: opts.MaxAmount,
		ledgerOpt: opts.LedgerOptions,
		logger:    logger,
	}
}

type AccountView struct {
	AccountID  uuid.UUID
	HolderName string
	Balance    decimal.Decimal
	Display    string
	Message    string
}

type OperationResult struct {
	Accepted       bool
	Amount         decimal.Decimal
	Balance        decimal.Decimal
	BalanceDisplay string
	Message        string
	Entry          EntryView
}

type BalanceView struct {
	HolderName string
	Balance    decimal.Decimal
	Display    string
}

type EntryView struct {
	Sequence     int
	Timestamp    time.Time
	Kind         domain.EntryKind
	Amount       decimal.Decimal
	Outcome      domain.Outcome
	BalanceAfter decimal.Decimal
	Description  string
}

type HistoryView struct {
	HolderName string
	Entries    []EntryView
}

// CreateAccount opens a new account from form input, replacing any existing one.
func (s *AccountService) CreateAccount(holderName, initialText string) (*AccountView, error) {
	s.logger.Info("Creating account", "initial_deposit", initialText)

	initial, err := s.parseAmount(initialText)
	if err != nil {
		return nil, err
	}

	acct, err := ledger.Open(holderName, initial, s.ledgerOpt...)
	if err != nil {
		s.logger.Warn("Account creation rejected", "error", err)
		return nil, err
	}
	s.store.Put(acct)

	snap := acct.Snapshot()
	s.logger.Info("Account created successfully", "account_id", snap.ID, "balance", snap.Balance)
	return &AccountView{
		AccountID:  snap.ID,
		HolderName: snap.HolderName,
		Balance:    snap.Balance,
		Display:    money.Format(snap.Balance, s.symbol),
		Message:    "Account created for " + snap.HolderName + "!",
	}, nil
}

func (s *AccountService) Deposit(amountText string) (*OperationResult, error) {
	amount, err := s.parseAmount(amountText)
	if err != nil {
		return nil, err
	}

	var result *OperationResult
	err = s.store.WithAccount(func(acct *ledger.Account) error {
		entry, err := acct.Deposit(amount)
		if err != nil {
			return err
		}
		s.logger.Info("Deposit completed", "account_id", acct.ID(), "amount", amount, "balance", entry.BalanceAfter)
		result = s.operationResult(entry, "Deposit successful!")
		return nil
	})
	if err != nil {
		s.logger.Warn("Deposit rejected", "amount", amountText, "error", err)
		return nil, err
	}
	return result, nil
}

// Withdraw reports insufficient funds through Accepted=false, not an error.
func (s *AccountService) Withdraw(amountText string) (*OperationResult, error) {
	amount, err := s.parseAmount(amountText)
	if err != nil {
		return nil, err
	}

	var result *OperationResult
	err = s.store.WithAccount(func(acct *ledger.Account) error {
		entry, err := acct.WithdrawEntry(amount)
		if err != nil {
			return err
		}

		if entry.Outcome == domain.Rejected {
			s.logger.Info("Withdrawal rejected for insufficient funds",
				"account_id", acct.ID(), "amount", amount, "balance", entry.BalanceAfter)
			result = s.operationResult(entry, "Insufficient balance!")
			return nil
		}

		s.logger.Info("Withdrawal completed", "account_id", acct.ID(), "amount", amount, "balance", entry.BalanceAfter)
		result = s.operationResult(entry, "Withdrawal successful!")
		return nil
	})
	if err != nil {
		s.logger.Warn("Withdrawal failed", "amount", amountText, "error", err)
		return nil, err
	}
	return result, nil
}

func (s *AccountService) Balance() (*BalanceView, error) {
	acct, err := s.store.Current()
	if err != nil {
		return nil, err
	}

	balance := acct.Balance()
	return &BalanceView{
		HolderName: acct.HolderName(),
		Balance:    balance,
		Display:    money.Format(balance, s.symbol),
	}, nil
}

func (s *AccountService) History() (*HistoryView, error) {
	acct, err := s.store.Current()
	if err != nil {
		return nil, err
	}

	entries := acct.History()
	view := &HistoryView{
		HolderName: acct.HolderName(),
		Entries:    make([]EntryView, 0, len(entries)),
	}
	for _, e := range entries {
		view.Entries = append(view.Entries, s.entryView(e))
	}
	return view, nil
}

// Reset discards the live account. It reports whether one existed.
func (s *AccountService) Reset() bool {
	return s.store.Reset()
}

// parseAmount turns form text into an amount, mapping parse failures to
// user-facing errors. Sign checks are left to the ledger.
func (s *AccountService) parseAmount(text string) (decimal.Decimal, error) {
	amount, err := money.ParseAmount(text)
	if err != nil {
		if stderrors.Is(err, money.ErrTooPrecise) || stderrors.Is(err, money.ErrTooLarge) {
			return decimal.Zero, errors.ErrInvalidAmount.WithDetails(err.Error())
		}
		return decimal.Zero, errors.ErrInvalidInput.WithDetails(err.Error())
	}

	if amount.GreaterThan(s.maxAmount) {
		return decimal.Zero, errors.NewAppErrorf(errors.InvalidAmount,
			"amount exceeds maximum of %s", money.Format(s.maxAmount, s.symbol))
	}
	return amount, nil
}

func (s *AccountService) operationResult(e domain.Entry, message string) *OperationResult {
	return &OperationResult{
		Accepted:       e.Outcome == domain.Accepted,
		Amount:         e.Amount,
		Balance:        e.BalanceAfter,
		BalanceDisplay: money.Format(e.BalanceAfter, s.symbol),
		Message:        message,
		Entry:          s.entryView(e),
	}
}

func (s *AccountService) entryView(e domain.Entry) EntryView {
	return EntryView{
		Sequence:     e.Sequence,
		Timestamp:    e.Timestamp,
		Kind:         e.Kind,
		Amount:       e.Amount,
		Outcome:      e.Outcome,
		BalanceAfter: e.BalanceAfter,
		Description:  e.Describe(s.symbol),
	}
}
