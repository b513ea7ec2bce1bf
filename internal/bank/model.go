package bank

import (
	"time"

	"github.com/gofrs/uuid"
)

// Account is the club's receiving bank account. It is configuration: the
// order flow only ever reads the single row flagged primary and active.
type Account struct {
	ID            uuid.UUID `json:"id"`
	BankName      string    `json:"bank_name"`
	BankCode      string    `json:"bank_code"`
	AccountNumber string    `json:"account_number"`
	AccountHolder string    `json:"account_holder"`
	IsPrimary     bool      `json:"is_primary"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// PublicView is the customer-facing slice of an account: display fields
// only, no internal flags or identifiers.
type PublicView struct {
	BankName      string `json:"bank_name"`
	BankCode      string `json:"bank_code"`
	AccountNumber string `json:"account_number"`
	AccountHolder string `json:"account_holder"`
}

func (a *Account) Public() PublicView {
	return PublicView{
		BankName:      a.BankName,
		BankCode:      a.BankCode,
		AccountNumber: a.AccountNumber,
		AccountHolder: a.AccountHolder,
	}
}
