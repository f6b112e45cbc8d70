package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a point-in-time copy of the live ledger account.
type Account struct {
	ID         uuid.UUID       `json:"account_id"`
	HolderName string          `json:"holder_name"`
	Balance    decimal.Decimal `json:"balance"`
	Entries    int             `json:"entries"`
	CreatedAt  time.Time       `json:"created_at"`
}
