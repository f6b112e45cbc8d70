package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bank-ledger/internal/money"
)

type EntryKind string

const (
	KindOpen       EntryKind = "open"
	KindDeposit    EntryKind = "deposit"
	KindWithdrawal EntryKind = "withdrawal"
)

type Outcome string

const (
	Accepted Outcome = "accepted"
	Rejected Outcome = "rejected"
)

// Entry is one record of the transaction log. Entries are values; the ledger
// hands out copies only.
type Entry struct {
	ID           uuid.UUID       `json:"id"`
	Sequence     int             `json:"sequence"`
	Timestamp    time.Time       `json:"timestamp"`
	Kind         EntryKind       `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	Outcome      Outcome         `json:"outcome"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// Describe renders the entry in the wording shown to the account holder.
func (e Entry) Describe(symbol string) string {
	amount := money.Format(e.Amount, symbol)
	switch e.Kind {
	case KindOpen:
		return "Account created with initial balance: " + amount
	case KindDeposit:
		return "Deposited " + amount
	case KindWithdrawal:
		if e.Outcome == Rejected {
			return "Failed withdrawal: " + amount + " (Insufficient funds)"
		}
		return "Withdrew " + amount
	default:
		return fmt.Sprintf("%s %s", e.Kind, amount)
	}
}

func (e Entry) String() string {
	return e.Timestamp.Format(time.RFC1123) + " - " + e.Describe(money.DefaultSymbol)
}
